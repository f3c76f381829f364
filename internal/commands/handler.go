package commands

import (
	"fmt"

	"go-chatmod/internal/bot"
	"go-chatmod/internal/errs"
	"go-chatmod/internal/extension"
	"go-chatmod/internal/logging"

	"github.com/bwmarrin/discordgo"
)

// Handler manages all command interactions
type Handler struct {
	session  *bot.Session
	registry *extension.Registry
}

var globalHandler *Handler

// Initialize creates and initializes the command handler
func Initialize(session *bot.Session, registry *extension.Registry) error {
	globalHandler = &Handler{
		session:  session,
		registry: registry,
	}

	session.AddHandler(globalHandler.handleInteraction)

	commands := GetAllCommands()
	if err := session.RegisterCommands(commands); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	logging.Info("Command handler initialized with %d commands", len(commands))
	return nil
}

// GetHandler returns the global command handler
func GetHandler() *Handler {
	return globalHandler
}

func (h *Handler) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	h.handleCommand(s, i)
}

// handleCommand routes slash commands to their handlers
func (h *Handler) handleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()

	if i.GuildID == "" || i.Member == nil {
		respondSignal(s, i, SignalUnknownInput, "Commands only work inside a server.")
		return
	}

	allowed, err := checkManageGuild(s, i)
	if err == nil && !allowed {
		respondSignal(s, i, SignalDenied, "You need the Manage Server permission.")
		return
	}
	if err != nil {
		logging.Error("Permission check failed [%s]: %v", data.Name, err)
		respondSignal(s, i, SignalInternalFailure, "Permission check failed.")
		return
	}

	switch data.Name {
	case "rules":
		err = h.handleRulesCommand(s, i, data)
	case "helpchan":
		err = h.handleHelpchanCommand(s, i, data)
	case "status":
		err = h.handleStatus(s, i)
	case "stats":
		err = handleStats(s, i)
	case "ping":
		err = handlePing(s, i)
	default:
		respondSignal(s, i, SignalUnknownInput, "Unknown command: %s", data.Name)
		return
	}

	if err != nil {
		logging.Error("Command error [%s]: %v", data.Name, err)
		sig := SignalInternalFailure
		if errs.IsUserInput(err) {
			sig = SignalUnknownInput
		}
		respondSignal(s, i, sig, "%s", err.Error())
	}
}

// subcommand returns the invoked subcommand path, one or two levels deep.
func subcommand(data discordgo.ApplicationCommandInteractionData) (string, *discordgo.ApplicationCommandInteractionDataOption) {
	if len(data.Options) == 0 {
		return "", nil
	}
	opt := data.Options[0]
	if opt.Type == discordgo.ApplicationCommandOptionSubCommandGroup && len(opt.Options) > 0 {
		return opt.Name + " " + opt.Options[0].Name, opt.Options[0]
	}
	return opt.Name, opt
}

package commands

import (
	"context"

	"go-chatmod/internal/extension"
	"go-chatmod/internal/helpchan"

	"github.com/bwmarrin/discordgo"
)

func (h *Handler) handleHelpchanCommand(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) error {
	ext, ok := h.registry.Extension(extension.HelpChannelExtensionName)
	if !ok {
		return respondSignal(s, i, SignalNeutral, "Help channels are not registered.")
	}
	manager, ok := extension.ManagerFor(ext, i.GuildID)
	if !ok {
		return respondSignal(s, i, SignalNeutral, "This server has no help-channel configuration.")
	}

	sub, opt := subcommand(data)
	switch sub {
	case "poll":
		return h.handleHelpchanPoll(s, i, manager)
	case "sync":
		return h.handleHelpchanSync(s, i, manager)
	case "force":
		return h.handleHelpchanForce(s, i, manager, opt)
	case "poller start":
		if manager.Poller().Running() {
			return respondSignal(s, i, SignalNeutral, "The poller is already running.")
		}
		manager.Poller().Start()
		return respondSignal(s, i, SignalSuccess, "Poller started.")
	case "poller stop":
		if !manager.Poller().Running() {
			return respondSignal(s, i, SignalNeutral, "The poller is not running.")
		}
		manager.Poller().Stop()
		return respondSignal(s, i, SignalSuccess, "Poller stopped.")
	default:
		return respondSignal(s, i, SignalUnknownInput, "Unknown helpchan subcommand.")
	}
}

func (h *Handler) handleHelpchanPoll(s *discordgo.Session, i *discordgo.InteractionCreate, manager *helpchan.Manager) error {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}); err != nil {
		return err
	}

	content := SignalSuccess.Emoji() + " Poll complete."
	if err := manager.Poll(context.Background()); err != nil {
		content = SignalInternalFailure.Emoji() + " Poll failed: " + err.Error()
	}
	_, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content})
	return err
}

func (h *Handler) handleHelpchanSync(s *discordgo.Session, i *discordgo.InteractionCreate, manager *helpchan.Manager) error {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}); err != nil {
		return err
	}

	content := SignalSuccess.Emoji() + " Hoisted pool synced."
	if err := manager.SyncHoisted(context.Background()); err != nil {
		content = SignalInternalFailure.Emoji() + " Sync failed: " + err.Error()
	}
	_, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content})
	return err
}

func (h *Handler) handleHelpchanForce(s *discordgo.Session, i *discordgo.InteractionCreate, manager *helpchan.Manager, opt *discordgo.ApplicationCommandInteractionDataOption) error {
	if opt == nil || len(opt.Options) < 2 {
		return respondSignal(s, i, SignalUnknownInput, "Channel and state are both required.")
	}

	channel := opt.Options[0].ChannelValue(s)
	if channel == nil {
		return respondSignal(s, i, SignalUnknownInput, "Unknown channel.")
	}
	mc, ok := manager.Managed(channel.ID)
	if !ok {
		return respondSignal(s, i, SignalUnknownInput, "<#%s> is not a managed help channel.", channel.ID)
	}

	target, err := helpchan.ParseState(opt.Options[1].StringValue())
	if err != nil {
		return err
	}

	if err := manager.Transition(context.Background(), mc, target); err != nil {
		return err
	}
	return respondSignal(s, i, SignalSuccess, "<#%s> forced to %s.", channel.ID, target)
}

package bot

import (
	"fmt"

	"go-chatmod/internal/logging"
	"go-chatmod/internal/platform"

	"github.com/bwmarrin/discordgo"
)

type Session struct {
	discord *discordgo.Session
	client  *platform.DiscordClient
}

var globalSession *Session

// Initialize creates the Discord session and the platform client that
// wraps it. The connection is not opened yet.
func Initialize(token string) error {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildBans |
		discordgo.IntentMessageContent
	dg.StateEnabled = true
	dg.State.MaxMessageCount = 200

	globalSession = &Session{
		discord: dg,
		client:  platform.NewDiscordClient(dg),
	}
	return nil
}

// GetSession returns the global Discord session
func GetSession() *Session {
	return globalSession
}

// GetDiscord returns the underlying discordgo session
func (s *Session) GetDiscord() *discordgo.Session {
	return s.discord
}

// Client returns the platform client backed by this session.
func (s *Session) Client() *platform.DiscordClient {
	return s.client
}

// Connect opens the Discord websocket connection
func (s *Session) Connect() error {
	if err := s.discord.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	if s.discord.State.User != nil {
		logging.Info("Connected as %s (ID: %s)", s.discord.State.User.Username, s.discord.State.User.ID)
	}
	return nil
}

// Close closes the Discord connection
func (s *Session) Close() error {
	if s.discord != nil {
		return s.discord.Close()
	}
	return nil
}

// RegisterCommands registers all slash commands with Discord
func (s *Session) RegisterCommands(commands []*discordgo.ApplicationCommand) error {
	logging.Info("Registering %d slash commands...", len(commands))

	for _, cmd := range commands {
		_, err := s.discord.ApplicationCommandCreate(s.discord.State.User.ID, "", cmd)
		if err != nil {
			return fmt.Errorf("failed to register command %s: %w", cmd.Name, err)
		}
		logging.Info("Registered command: /%s", cmd.Name)
	}

	return nil
}

// AddHandler adds an event handler to the Discord session
func (s *Session) AddHandler(handler interface{}) {
	s.discord.AddHandler(handler)
}

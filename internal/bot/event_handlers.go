package bot

import (
	"context"
	"sync"

	"go-chatmod/internal/extension"
	"go-chatmod/internal/ingest"
	"go-chatmod/internal/logging"
	"go-chatmod/internal/platform"

	"github.com/bwmarrin/discordgo"
)

// SetupEventHandlers wires the gateway to the ingest queue. Handlers do
// the minimum on the discordgo callback goroutine: convert the payload
// to platform types and enqueue. Extension loading happens once, on the
// first Ready.
func (s *Session) SetupEventHandlers(queue *ingest.Queue, registry *extension.Registry) {
	logging.Info("Setting up Discord event handlers...")

	var loadOnce sync.Once

	s.discord.AddHandler(func(sess *discordgo.Session, r *discordgo.Ready) {
		logging.Info("Ready: connected as %s to %d guilds", r.User.Username, len(r.Guilds))
		loadOnce.Do(func() {
			go registry.LoadAll(context.Background())
		})
	})

	s.discord.AddHandler(func(sess *discordgo.Session, m *discordgo.MessageCreate) {
		if m.GuildID == "" {
			return
		}
		queue.Enqueue(ingest.Event{
			Kind:    ingest.EventMessage,
			Message: platform.MessageFromDiscord(m.Message),
		})
	})

	s.discord.AddHandler(func(sess *discordgo.Session, m *discordgo.MessageUpdate) {
		// Embed unfurls arrive as authorless partial updates; skip them.
		if m.GuildID == "" || m.Author == nil {
			return
		}
		queue.Enqueue(ingest.Event{
			Kind:    ingest.EventMessageEdit,
			Message: platform.MessageFromDiscord(m.Message),
		})
	})

	s.discord.AddHandler(func(sess *discordgo.Session, m *discordgo.MessageDelete) {
		if m.GuildID == "" {
			return
		}
		msg := platform.MessageFromDiscord(m.Message)
		if m.BeforeDelete != nil {
			msg = platform.MessageFromDiscord(m.BeforeDelete)
			msg.GuildID = m.GuildID
		}
		queue.Enqueue(ingest.Event{Kind: ingest.EventMessageDelete, Message: msg})
	})

	s.discord.AddHandler(func(sess *discordgo.Session, r *discordgo.MessageReactionAdd) {
		if r.GuildID == "" {
			return
		}
		queue.Enqueue(ingest.Event{
			Kind: ingest.EventReaction,
			Reaction: &platform.Reaction{
				Emoji:     r.Emoji.Name,
				Count:     s.reactionCount(r.ChannelID, r.MessageID, r.Emoji.Name),
				MessageID: r.MessageID,
				ChannelID: r.ChannelID,
				GuildID:   r.GuildID,
				UserID:    r.UserID,
			},
		})
	})

	s.discord.AddHandler(func(sess *discordgo.Session, m *discordgo.GuildMemberAdd) {
		if m.GuildID == "" {
			return
		}
		queue.Enqueue(ingest.Event{
			Kind:   ingest.EventMemberJoin,
			Member: platform.MemberFromDiscord(m.GuildID, m.Member),
		})
	})

	s.discord.AddHandler(func(sess *discordgo.Session, m *discordgo.GuildMemberRemove) {
		if m.GuildID == "" {
			return
		}
		queue.Enqueue(ingest.Event{
			Kind:   ingest.EventMemberLeave,
			Member: platform.MemberFromDiscord(m.GuildID, m.Member),
		})
	})

	s.discord.AddHandler(func(sess *discordgo.Session, b *discordgo.GuildBanAdd) {
		if b.GuildID == "" {
			return
		}
		queue.Enqueue(ingest.Event{
			Kind: ingest.EventMemberBan,
			Member: &platform.Member{
				User:    platform.UserFromDiscord(b.User),
				GuildID: b.GuildID,
			},
		})
	})

	s.discord.AddHandler(func(sess *discordgo.Session, b *discordgo.GuildBanRemove) {
		if b.GuildID == "" {
			return
		}
		queue.Enqueue(ingest.Event{
			Kind: ingest.EventMemberUnban,
			Member: &platform.Member{
				User:    platform.UserFromDiscord(b.User),
				GuildID: b.GuildID,
			},
		})
	})

	logging.Info("Discord event handlers configured successfully")
}

// reactionCount reads the per-emoji reaction count from the state cache
// so handlers can tell first reactions from repeats. Unknown messages
// count as a first reaction.
func (s *Session) reactionCount(channelID, messageID, emojiName string) int {
	msg, err := s.discord.State.Message(channelID, messageID)
	if err != nil || msg == nil {
		return 1
	}
	for _, r := range msg.Reactions {
		if r.Emoji != nil && r.Emoji.Name == emojiName {
			return r.Count
		}
	}
	return 1
}

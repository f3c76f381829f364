package platform

import "context"

// Client enumerates every capability the engine needs from the chat
// platform. The rules engine, help-channel manager, and extension loader
// depend on this interface only; the discordgo adapter in this package is
// the single production implementation.
type Client interface {
	// BotUser returns the identity the engine is running as.
	BotUser() *User

	SendMessage(ctx context.Context, channelID, content string) (*Message, error)
	SendEmbed(ctx context.Context, channelID string, embed *EmbedPayload) (*Message, error)
	EditMessage(ctx context.Context, channelID, messageID, content string) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error

	AddReaction(ctx context.Context, channelID, messageID, emoji string) error
	RemoveReaction(ctx context.Context, channelID, messageID, emoji, userID string) error

	RenameChannel(ctx context.Context, channelID, name string) error
	MoveChannelToCategory(ctx context.Context, channelID, categoryID string) error

	// RecentMessages returns up to limit messages, newest first.
	RecentMessages(ctx context.Context, channelID string, limit int) ([]*Message, error)
	FetchMessage(ctx context.Context, channelID, messageID string) (*Message, error)
	FetchUser(ctx context.Context, userID string) (*User, error)
	// MemberOf resolves a user's membership in a guild.
	MemberOf(ctx context.Context, guildID, userID string) (*Member, error)

	KickMember(ctx context.Context, guildID, userID, reason string) error
	AddRole(ctx context.Context, guildID, userID, roleID string) error
	RemoveRole(ctx context.Context, guildID, userID, roleID string) error

	EditBotProfile(ctx context.Context, username string) error

	Channel(ctx context.Context, channelID string) (*Channel, error)
	Role(ctx context.Context, guildID, roleID string) (*Role, error)
	Guild(ctx context.Context, guildID string) (*Guild, error)
	EmojiByName(ctx context.Context, guildID, name string) (*Emoji, error)
}

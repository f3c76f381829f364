package platform

import (
	"context"

	"go-chatmod/internal/errs"

	"github.com/bwmarrin/discordgo"
)

// DiscordClient adapts a discordgo session to the Client interface.
type DiscordClient struct {
	session *discordgo.Session
}

func NewDiscordClient(session *discordgo.Session) *DiscordClient {
	return &DiscordClient{session: session}
}

var _ Client = (*DiscordClient)(nil)

func (c *DiscordClient) BotUser() *User {
	if c.session.State == nil || c.session.State.User == nil {
		return nil
	}
	return UserFromDiscord(c.session.State.User)
}

func (c *DiscordClient) SendMessage(ctx context.Context, channelID, content string) (*Message, error) {
	m, err := c.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return nil, errs.Platform(err, "send message in %s", channelID)
	}
	return MessageFromDiscord(m), nil
}

func (c *DiscordClient) SendEmbed(ctx context.Context, channelID string, embed *EmbedPayload) (*Message, error) {
	m, err := c.session.ChannelMessageSendEmbed(channelID, embedToDiscord(embed), discordgo.WithContext(ctx))
	if err != nil {
		return nil, errs.Platform(err, "send embed in %s", channelID)
	}
	return MessageFromDiscord(m), nil
}

func (c *DiscordClient) EditMessage(ctx context.Context, channelID, messageID, content string) error {
	_, err := c.session.ChannelMessageEdit(channelID, messageID, content, discordgo.WithContext(ctx))
	if err != nil {
		return errs.Platform(err, "edit message %s", messageID)
	}
	return nil
}

func (c *DiscordClient) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	if err := c.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return errs.Platform(err, "delete message %s", messageID)
	}
	return nil
}

func (c *DiscordClient) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	if err := c.session.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx)); err != nil {
		return errs.Platform(err, "add reaction %s to %s", emoji, messageID)
	}
	return nil
}

func (c *DiscordClient) RemoveReaction(ctx context.Context, channelID, messageID, emoji, userID string) error {
	if err := c.session.MessageReactionRemove(channelID, messageID, emoji, userID, discordgo.WithContext(ctx)); err != nil {
		return errs.Platform(err, "remove reaction %s from %s", emoji, messageID)
	}
	return nil
}

func (c *DiscordClient) RenameChannel(ctx context.Context, channelID, name string) error {
	_, err := c.session.ChannelEdit(channelID, &discordgo.ChannelEdit{Name: name}, discordgo.WithContext(ctx))
	if err != nil {
		return errs.Platform(err, "rename channel %s", channelID)
	}
	return nil
}

func (c *DiscordClient) MoveChannelToCategory(ctx context.Context, channelID, categoryID string) error {
	_, err := c.session.ChannelEdit(channelID, &discordgo.ChannelEdit{ParentID: categoryID}, discordgo.WithContext(ctx))
	if err != nil {
		return errs.Platform(err, "move channel %s to category %s", channelID, categoryID)
	}
	return nil
}

func (c *DiscordClient) RecentMessages(ctx context.Context, channelID string, limit int) ([]*Message, error) {
	msgs, err := c.session.ChannelMessages(channelID, limit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, errs.Platform(err, "fetch messages in %s", channelID)
	}
	out := make([]*Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, MessageFromDiscord(m))
	}
	return out, nil
}

func (c *DiscordClient) FetchMessage(ctx context.Context, channelID, messageID string) (*Message, error) {
	m, err := c.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, errs.Platform(err, "fetch message %s", messageID)
	}
	return MessageFromDiscord(m), nil
}

func (c *DiscordClient) FetchUser(ctx context.Context, userID string) (*User, error) {
	u, err := c.session.User(userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, errs.Platform(err, "fetch user %s", userID)
	}
	return UserFromDiscord(u), nil
}

func (c *DiscordClient) MemberOf(ctx context.Context, guildID, userID string) (*Member, error) {
	if m, err := c.session.State.Member(guildID, userID); err == nil {
		return MemberFromDiscord(guildID, m), nil
	}
	m, err := c.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, errs.Platform(err, "fetch member %s in guild %s", userID, guildID)
	}
	return MemberFromDiscord(guildID, m), nil
}

func (c *DiscordClient) KickMember(ctx context.Context, guildID, userID, reason string) error {
	if err := c.session.GuildMemberDeleteWithReason(guildID, userID, reason, discordgo.WithContext(ctx)); err != nil {
		return errs.Platform(err, "kick member %s from guild %s", userID, guildID)
	}
	return nil
}

func (c *DiscordClient) AddRole(ctx context.Context, guildID, userID, roleID string) error {
	if err := c.session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return errs.Platform(err, "add role %s to %s", roleID, userID)
	}
	return nil
}

func (c *DiscordClient) RemoveRole(ctx context.Context, guildID, userID, roleID string) error {
	if err := c.session.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return errs.Platform(err, "remove role %s from %s", roleID, userID)
	}
	return nil
}

func (c *DiscordClient) EditBotProfile(ctx context.Context, username string) error {
	_, err := c.session.UserUpdate(username, "", discordgo.WithContext(ctx))
	if err != nil {
		return errs.Platform(err, "edit bot profile")
	}
	return nil
}

func (c *DiscordClient) Channel(ctx context.Context, channelID string) (*Channel, error) {
	if ch, err := c.session.State.Channel(channelID); err == nil {
		return ChannelFromDiscord(ch), nil
	}
	ch, err := c.session.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, errs.Platform(err, "fetch channel %s", channelID)
	}
	return ChannelFromDiscord(ch), nil
}

func (c *DiscordClient) Role(ctx context.Context, guildID, roleID string) (*Role, error) {
	if r, err := c.session.State.Role(guildID, roleID); err == nil {
		return &Role{ID: r.ID, GuildID: guildID, Name: r.Name}, nil
	}
	roles, err := c.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, errs.Platform(err, "fetch roles for guild %s", guildID)
	}
	for _, r := range roles {
		if r.ID == roleID {
			return &Role{ID: r.ID, GuildID: guildID, Name: r.Name}, nil
		}
	}
	return nil, errs.Resolve("role %s not found in guild %s", roleID, guildID)
}

func (c *DiscordClient) Guild(ctx context.Context, guildID string) (*Guild, error) {
	if g, err := c.session.State.Guild(guildID); err == nil {
		return &Guild{ID: g.ID, Name: g.Name, OwnerID: g.OwnerID}, nil
	}
	g, err := c.session.Guild(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, errs.Platform(err, "fetch guild %s", guildID)
	}
	return &Guild{ID: g.ID, Name: g.Name, OwnerID: g.OwnerID}, nil
}

func (c *DiscordClient) EmojiByName(ctx context.Context, guildID, name string) (*Emoji, error) {
	emojis, err := c.session.GuildEmojis(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, errs.Platform(err, "fetch emojis for guild %s", guildID)
	}
	for _, e := range emojis {
		if e.Name == name {
			return &Emoji{ID: e.ID, Name: e.Name}, nil
		}
	}
	return nil, errs.Resolve("emoji %q not found in guild %s", name, guildID)
}

func UserFromDiscord(u *discordgo.User) *User {
	if u == nil {
		return nil
	}
	return &User{
		ID:            u.ID,
		Username:      u.Username,
		Discriminator: u.Discriminator,
		Bot:           u.Bot,
	}
}

func MemberFromDiscord(guildID string, m *discordgo.Member) *Member {
	if m == nil {
		return nil
	}
	return &Member{
		User:     UserFromDiscord(m.User),
		GuildID:  guildID,
		Nick:     m.Nick,
		JoinedAt: m.JoinedAt,
		RoleIDs:  m.Roles,
	}
}

func ChannelFromDiscord(ch *discordgo.Channel) *Channel {
	if ch == nil {
		return nil
	}
	return &Channel{
		ID:       ch.ID,
		GuildID:  ch.GuildID,
		Name:     ch.Name,
		ParentID: ch.ParentID,
	}
}

func MessageFromDiscord(m *discordgo.Message) *Message {
	if m == nil {
		return nil
	}
	msg := &Message{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
		Content:   m.Content,
		Author:    UserFromDiscord(m.Author),
		Timestamp: m.Timestamp,
	}
	for _, e := range m.Embeds {
		msg.Embeds = append(msg.Embeds, Embed{URL: e.URL, Title: e.Title, Description: e.Description})
	}
	for _, a := range m.Attachments {
		msg.Attachments = append(msg.Attachments, Attachment{ID: a.ID, URL: a.URL, Filename: a.Filename})
	}
	return msg
}

func embedToDiscord(e *EmbedPayload) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Color,
	}
	for _, f := range e.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	if e.FooterText != "" || e.FooterIcon != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: e.FooterText, IconURL: e.FooterIcon}
	}
	if !e.Timestamp.IsZero() {
		embed.Timestamp = e.Timestamp.Format("2006-01-02T15:04:05Z07:00")
	}
	return embed
}

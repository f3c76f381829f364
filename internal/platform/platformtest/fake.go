// Package platformtest provides an in-memory Client for tests.
package platformtest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go-chatmod/internal/errs"
	"go-chatmod/internal/platform"
)

type SentMessage struct {
	ChannelID string
	Content   string
}

type SentEmbed struct {
	ChannelID string
	Embed     *platform.EmbedPayload
}

// FakeClient implements platform.Client against in-memory maps. Every
// mutation is recorded so tests can assert on side effects. Methods are
// safe for concurrent use; pollers run on their own goroutines.
type FakeClient struct {
	mu sync.Mutex

	Bot      *platform.User
	Channels map[string]*platform.Channel
	Messages map[string]*platform.Message // keyed channelID/messageID
	Recent   map[string][]*platform.Message
	Users    map[string]*platform.User
	Members  map[string]*platform.Member // keyed guildID/userID
	Guilds   map[string]*platform.Guild
	Emojis   map[string]*platform.Emoji // keyed guildID/name

	Sent             []SentMessage
	SentEmbeds       []SentEmbed
	Deleted          []string // channelID/messageID
	Kicked           []string // guildID/userID
	RolesAdded       []string // guildID/userID/roleID
	RolesRemoved     []string
	ReactionsAdded   []string // channelID/messageID/emoji
	ReactionsRemoved []string
	Renamed          map[string]string // channelID to latest name
	Moved            map[string]string // channelID to latest category

	SendErr         error
	DeleteErr       error
	KickErr         error
	AddRoleErr      error
	RenameErr       error
	FetchMessageErr error

	nextID int
}

func NewFakeClient() *FakeClient {
	return &FakeClient{
		Bot:      &platform.User{ID: "900", Username: "chatmod", Bot: true},
		Channels: make(map[string]*platform.Channel),
		Messages: make(map[string]*platform.Message),
		Recent:   make(map[string][]*platform.Message),
		Users:    make(map[string]*platform.User),
		Members:  make(map[string]*platform.Member),
		Guilds:   make(map[string]*platform.Guild),
		Emojis:   make(map[string]*platform.Emoji),
		Renamed:  make(map[string]string),
		Moved:    make(map[string]string),
	}
}

func key(parts ...string) string {
	out := parts[0]
	for _, p := range parts[1:] {
		out += "/" + p
	}
	return out
}

// AddChannel registers a channel and returns it for further setup.
func (f *FakeClient) AddChannel(id, guildID, name string) *platform.Channel {
	ch := &platform.Channel{ID: id, GuildID: guildID, Name: name}
	f.mu.Lock()
	f.Channels[id] = ch
	f.mu.Unlock()
	return ch
}

// AddMessage registers a message as both fetchable and the channel's
// most recent.
func (f *FakeClient) AddMessage(msg *platform.Message) {
	f.mu.Lock()
	f.Messages[key(msg.ChannelID, msg.ID)] = msg
	f.Recent[msg.ChannelID] = append([]*platform.Message{msg}, f.Recent[msg.ChannelID]...)
	f.mu.Unlock()
}

func (f *FakeClient) BotUser() *platform.User {
	return f.Bot
}

func (f *FakeClient) SendMessage(ctx context.Context, channelID, content string) (*platform.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SendErr != nil {
		return nil, f.SendErr
	}
	f.nextID++
	f.Sent = append(f.Sent, SentMessage{ChannelID: channelID, Content: content})
	return &platform.Message{
		ID:        fmt.Sprintf("sent-%d", f.nextID),
		ChannelID: channelID,
		Content:   content,
		Author:    f.Bot,
		Timestamp: time.Now().UTC(),
	}, nil
}

func (f *FakeClient) SendEmbed(ctx context.Context, channelID string, embed *platform.EmbedPayload) (*platform.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SendErr != nil {
		return nil, f.SendErr
	}
	f.nextID++
	f.SentEmbeds = append(f.SentEmbeds, SentEmbed{ChannelID: channelID, Embed: embed})
	return &platform.Message{ID: fmt.Sprintf("sent-%d", f.nextID), ChannelID: channelID, Author: f.Bot}, nil
}

func (f *FakeClient) EditMessage(ctx context.Context, channelID, messageID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg, ok := f.Messages[key(channelID, messageID)]
	if !ok {
		return errs.Resolve("no message %s in %s", messageID, channelID)
	}
	msg.Content = content
	return nil
}

func (f *FakeClient) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.Deleted = append(f.Deleted, key(channelID, messageID))
	delete(f.Messages, key(channelID, messageID))
	return nil
}

func (f *FakeClient) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ReactionsAdded = append(f.ReactionsAdded, key(channelID, messageID, emoji))
	return nil
}

func (f *FakeClient) RemoveReaction(ctx context.Context, channelID, messageID, emoji, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ReactionsRemoved = append(f.ReactionsRemoved, key(channelID, messageID, emoji, userID))
	return nil
}

func (f *FakeClient) RenameChannel(ctx context.Context, channelID, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.RenameErr != nil {
		return f.RenameErr
	}
	ch, ok := f.Channels[channelID]
	if !ok {
		return errs.Resolve("channel %s not found", channelID)
	}
	ch.Name = name
	f.Renamed[channelID] = name
	return nil
}

func (f *FakeClient) MoveChannelToCategory(ctx context.Context, channelID, categoryID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.Channels[channelID]
	if !ok {
		return errs.Resolve("channel %s not found", channelID)
	}
	ch.ParentID = categoryID
	f.Moved[channelID] = categoryID
	return nil
}

func (f *FakeClient) RecentMessages(ctx context.Context, channelID string, limit int) ([]*platform.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := f.Recent[channelID]
	if len(msgs) > limit {
		msgs = msgs[:limit]
	}
	out := make([]*platform.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (f *FakeClient) FetchMessage(ctx context.Context, channelID, messageID string) (*platform.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FetchMessageErr != nil {
		return nil, f.FetchMessageErr
	}
	msg, ok := f.Messages[key(channelID, messageID)]
	if !ok {
		return nil, errs.Resolve("no message %s in %s", messageID, channelID)
	}
	return msg, nil
}

func (f *FakeClient) FetchUser(ctx context.Context, userID string) (*platform.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.Users[userID]
	if !ok {
		return nil, errs.Resolve("user %s not found", userID)
	}
	return u, nil
}

func (f *FakeClient) MemberOf(ctx context.Context, guildID, userID string) (*platform.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.Members[key(guildID, userID)]
	if !ok {
		return nil, errs.Resolve("member %s not found in guild %s", userID, guildID)
	}
	return m, nil
}

func (f *FakeClient) KickMember(ctx context.Context, guildID, userID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.KickErr != nil {
		return f.KickErr
	}
	f.Kicked = append(f.Kicked, key(guildID, userID))
	return nil
}

func (f *FakeClient) AddRole(ctx context.Context, guildID, userID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.AddRoleErr != nil {
		return f.AddRoleErr
	}
	f.RolesAdded = append(f.RolesAdded, key(guildID, userID, roleID))
	return nil
}

func (f *FakeClient) RemoveRole(ctx context.Context, guildID, userID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RolesRemoved = append(f.RolesRemoved, key(guildID, userID, roleID))
	return nil
}

func (f *FakeClient) EditBotProfile(ctx context.Context, username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Bot.Username = username
	return nil
}

func (f *FakeClient) Channel(ctx context.Context, channelID string) (*platform.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.Channels[channelID]
	if !ok {
		return nil, errs.Resolve("channel %s not found", channelID)
	}
	// Copy, so callers never alias the stored channel RenameChannel and
	// MoveChannelToCategory mutate under the lock.
	cp := *ch
	return &cp, nil
}

func (f *FakeClient) Role(ctx context.Context, guildID, roleID string) (*platform.Role, error) {
	return &platform.Role{ID: roleID, GuildID: guildID}, nil
}

func (f *FakeClient) Guild(ctx context.Context, guildID string) (*platform.Guild, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.Guilds[guildID]
	if !ok {
		return nil, errs.Resolve("guild %s not found", guildID)
	}
	return g, nil
}

func (f *FakeClient) EmojiByName(ctx context.Context, guildID, name string) (*platform.Emoji, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.Emojis[key(guildID, name)]
	if !ok {
		return nil, errs.Resolve("emoji %q not found in guild %s", name, guildID)
	}
	return e, nil
}

var _ platform.Client = (*FakeClient)(nil)

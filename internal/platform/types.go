package platform

import (
	"strconv"
	"time"
)

// discordEpoch is the millisecond origin of snowflake identifiers.
const discordEpoch = 1420070400000

// CreationTime extracts the timestamp embedded in a snowflake identifier.
// Returns the zero time for malformed identifiers.
func CreationTime(id string) time.Time {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return time.Time{}
	}
	ms := int64(n>>22) + discordEpoch
	return time.UnixMilli(ms).UTC()
}

type User struct {
	ID            string
	Username      string
	Discriminator string
	Bot           bool
}

func (u *User) Mention() string {
	return "<@" + u.ID + ">"
}

func (u *User) String() string {
	if u.Discriminator != "" && u.Discriminator != "0" {
		return u.Username + "#" + u.Discriminator
	}
	return u.Username
}

// CreatedAt derives the account creation time from the user's identifier.
func (u *User) CreatedAt() time.Time {
	return CreationTime(u.ID)
}

type Member struct {
	User     *User
	GuildID  string
	Nick     string
	JoinedAt time.Time
	RoleIDs  []string
}

func (m *Member) Mention() string {
	return m.User.Mention()
}

func (m *Member) String() string {
	return m.User.String()
}

type Channel struct {
	ID       string
	GuildID  string
	Name     string
	ParentID string
}

func (c *Channel) Mention() string {
	return "<#" + c.ID + ">"
}

type Role struct {
	ID      string
	GuildID string
	Name    string
}

func (r *Role) Mention() string {
	return "<@&" + r.ID + ">"
}

type Guild struct {
	ID      string
	Name    string
	OwnerID string
}

type Emoji struct {
	ID   string
	Name string
}

// APIName returns the form the REST API expects: the bare unicode emoji,
// or name:id for custom emoji.
func (e Emoji) APIName() string {
	if e.ID == "" {
		return e.Name
	}
	return e.Name + ":" + e.ID
}

type Attachment struct {
	ID       string
	URL      string
	Filename string
}

type Embed struct {
	URL         string
	Title       string
	Description string
}

type Message struct {
	ID          string
	ChannelID   string
	GuildID     string
	Content     string
	Author      *User
	Timestamp   time.Time
	Embeds      []Embed
	Attachments []Attachment
}

// Reaction is a single reaction event: one emoji added by one user to one
// message. Count carries the emoji's total on the message when known, 0
// otherwise.
type Reaction struct {
	Emoji     string
	Count     int
	MessageID string
	ChannelID string
	GuildID   string
	UserID    string
}

type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// EmbedPayload is the platform-neutral shape of a rich log message.
type EmbedPayload struct {
	Title       string
	Description string
	Color       int
	Fields      []EmbedField
	FooterText  string
	FooterIcon  string
	Timestamp   time.Time
}

package trigger

import (
	"go-chatmod/internal/errs"
	"go-chatmod/internal/platform"
)

// Type identifies which chat event a rule fires on.
type Type uint8

const (
	TypeUnknown Type = iota
	MessageSent
	MessageDeleted
	MessageEdited
	ReactionAdded
	MemberJoined
	MemberLeft
	MemberBanned
	MemberUnbanned
)

var typeNames = map[Type]string{
	MessageSent:    "MESSAGE_SENT",
	MessageDeleted: "MESSAGE_DELETED",
	MessageEdited:  "MESSAGE_EDITED",
	ReactionAdded:  "REACTION_ADDED",
	MemberJoined:   "MEMBER_JOINED",
	MemberLeft:     "MEMBER_LEFT",
	MemberBanned:   "MEMBER_BANNED",
	MemberUnbanned: "MEMBER_UNBANNED",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseType maps a configured trigger name to its Type.
func ParseType(s string) (Type, error) {
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	return TypeUnknown, errs.Config("unknown trigger type %q", s)
}

// Trigger is a read-only view over one chat event. Which fields are
// populated depends on the trigger type; accessors return nil for fields
// the variant does not carry.
type Trigger struct {
	kind     Type
	message  *platform.Message
	channel  *platform.Channel
	reaction *platform.Reaction
	member   *platform.Member
	actor    *platform.User
	author   *platform.User
	guild    *platform.Guild
}

func (t *Trigger) Kind() Type                   { return t.kind }
func (t *Trigger) Message() *platform.Message   { return t.message }
func (t *Trigger) Channel() *platform.Channel   { return t.channel }
func (t *Trigger) Reaction() *platform.Reaction { return t.reaction }
func (t *Trigger) Member() *platform.Member     { return t.member }
func (t *Trigger) Guild() *platform.Guild       { return t.guild }

// Actor is the user who caused the event: the message author for message
// events, the reactor for reaction events, the member for member events.
func (t *Trigger) Actor() *platform.User { return t.actor }

// Author is the author of the message involved in the event, when there
// is one.
func (t *Trigger) Author() *platform.User { return t.author }

// GuildID returns the guild the event belongs to, from whichever field
// carries it.
func (t *Trigger) GuildID() string {
	switch {
	case t.guild != nil:
		return t.guild.ID
	case t.channel != nil && t.channel.GuildID != "":
		return t.channel.GuildID
	case t.message != nil && t.message.GuildID != "":
		return t.message.GuildID
	case t.member != nil:
		return t.member.GuildID
	}
	return ""
}

// ForMessage builds the view for MESSAGE_SENT, MESSAGE_DELETED and
// MESSAGE_EDITED. The author doubles as the actor.
func ForMessage(kind Type, msg *platform.Message, ch *platform.Channel) (*Trigger, error) {
	if kind != MessageSent && kind != MessageDeleted && kind != MessageEdited {
		return nil, errs.Config("%s is not a message trigger", kind)
	}
	if msg == nil || msg.Author == nil {
		return nil, errs.Resolve("message trigger without a resolvable message author")
	}
	return &Trigger{
		kind:    kind,
		message: msg,
		channel: ch,
		actor:   msg.Author,
		author:  msg.Author,
	}, nil
}

// ForReaction builds the REACTION_ADDED view. The message author is the
// author; the reactor is the actor.
func ForReaction(r *platform.Reaction, msg *platform.Message, ch *platform.Channel, reactor *platform.User) (*Trigger, error) {
	if r == nil || msg == nil {
		return nil, errs.Resolve("reaction trigger without a resolvable reaction or message")
	}
	return &Trigger{
		kind:     ReactionAdded,
		reaction: r,
		message:  msg,
		channel:  ch,
		actor:    reactor,
		author:   msg.Author,
	}, nil
}

// ForMember builds MEMBER_JOINED, MEMBER_LEFT and MEMBER_BANNED views.
// The member doubles as the actor.
func ForMember(kind Type, m *platform.Member) (*Trigger, error) {
	if kind != MemberJoined && kind != MemberLeft && kind != MemberBanned {
		return nil, errs.Config("%s is not a member trigger", kind)
	}
	if m == nil || m.User == nil {
		return nil, errs.Resolve("member trigger without a resolvable member")
	}
	return &Trigger{
		kind:   kind,
		member: m,
		actor:  m.User,
	}, nil
}

// ForUnban builds the MEMBER_UNBANNED view, which carries the guild in
// addition to the member.
func ForUnban(g *platform.Guild, m *platform.Member) (*Trigger, error) {
	if g == nil || m == nil || m.User == nil {
		return nil, errs.Resolve("unban trigger without a resolvable guild or member")
	}
	return &Trigger{
		kind:   MemberUnbanned,
		guild:  g,
		member: m,
		actor:  m.User,
	}, nil
}

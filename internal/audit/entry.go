package audit

import (
	"strconv"
	"strings"

	"go-chatmod/internal/errs"
	"go-chatmod/internal/platform"
	"go-chatmod/internal/trigger"
)

// ColorUnset marks an entry or rule that does not override the color.
// 0 is a valid color (black), so the sentinel is negative.
const ColorUnset = -1

// Entry is one structured audit record headed for a log channel. Empty
// fields fall back first to the rule's overrides, then to the server
// options.
type Entry struct {
	Content       string
	Title         string
	Icon          string
	Color         int
	ChannelID     string
	NotifyRoleIDs []string
	Quoted        *platform.Message
	Fields        []platform.EmbedField
}

func NewEntry(content string) *Entry {
	return &Entry{Content: content, Color: ColorUnset}
}

// Options are the server-wide audit defaults, the last stop of the
// entry -> rule -> server resolution chain.
type Options struct {
	LogChannelID  string
	Icon          string
	Color         int
	NotifyRoleIDs []string
	CompactLogs   bool
}

func DefaultOptions() Options {
	return Options{Color: ColorUnset}
}

// Overrides are the per-rule layer of the resolution chain.
type Overrides struct {
	Icon          string
	Color         int
	ChannelID     string
	NotifyRoleIDs []string
}

// Resolve fills the entry's unset presentation fields from the rule
// overrides and then the server options.
func (e *Entry) Resolve(rule Overrides, server Options) {
	if e.Icon == "" {
		e.Icon = rule.Icon
	}
	if e.Icon == "" {
		e.Icon = server.Icon
	}
	if e.Color == ColorUnset {
		e.Color = rule.Color
	}
	if e.Color == ColorUnset {
		e.Color = server.Color
	}
	if e.ChannelID == "" {
		e.ChannelID = rule.ChannelID
	}
	if e.ChannelID == "" {
		e.ChannelID = server.LogChannelID
	}
	if len(e.NotifyRoleIDs) == 0 {
		e.NotifyRoleIDs = rule.NotifyRoleIDs
	}
	if len(e.NotifyRoleIDs) == 0 {
		e.NotifyRoleIDs = server.NotifyRoleIDs
	}
}

// ColorFromHex parses "#RRGGBB", "0xRRGGBB" or bare "RRGGBB".
func ColorFromHex(s string) (int, error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(s, "#"), "0x")
	if trimmed == "" {
		return ColorUnset, errs.Config("empty color string")
	}
	n, err := strconv.ParseInt(trimmed, 16, 32)
	if err != nil || n < 0 || n > 0xFFFFFF {
		return ColorUnset, errs.Config("invalid hex color %q", s)
	}
	return int(n), nil
}

// RenderTemplate substitutes the {actor}, {author}, {channel}, {member},
// {message} and {reaction} slots from the trigger. Slots whose field is
// absent on the trigger render as an empty string.
func RenderTemplate(template string, t *trigger.Trigger) string {
	replace := func(s, slot, value string) string {
		return strings.ReplaceAll(s, slot, value)
	}

	out := template
	if a := t.Actor(); a != nil {
		out = replace(out, "{actor}", a.Mention())
	} else {
		out = replace(out, "{actor}", "")
	}
	if a := t.Author(); a != nil {
		out = replace(out, "{author}", a.Mention())
	} else {
		out = replace(out, "{author}", "")
	}
	if c := t.Channel(); c != nil {
		out = replace(out, "{channel}", c.Mention())
	} else {
		out = replace(out, "{channel}", "")
	}
	if m := t.Member(); m != nil {
		out = replace(out, "{member}", m.Mention())
	} else {
		out = replace(out, "{member}", "")
	}
	if m := t.Message(); m != nil {
		out = replace(out, "{message}", m.Content)
	} else {
		out = replace(out, "{message}", "")
	}
	if r := t.Reaction(); r != nil {
		out = replace(out, "{reaction}", r.Emoji)
	} else {
		out = replace(out, "{reaction}", "")
	}
	return out
}

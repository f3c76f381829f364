package audit

import (
	"context"
	"strings"
	"time"

	"go-chatmod/internal/logging"
	"go-chatmod/internal/platform"
	"go-chatmod/pkg/util"
)

// Dispatcher posts resolved entries to their log channel, either as rich
// embeds or as compact text lines.
type Dispatcher struct {
	client platform.Client
}

func NewDispatcher(client platform.Client) *Dispatcher {
	return &Dispatcher{client: client}
}

// Send posts an already-resolved entry. An entry without a target channel
// is dropped with a debug line; a rule may legitimately have no log
// channel configured anywhere in its chain.
func (d *Dispatcher) Send(ctx context.Context, entry *Entry, compact bool) error {
	if entry.ChannelID == "" {
		logging.Debug("audit entry %q has no log channel, dropping", entry.Title)
		return nil
	}

	if len(entry.NotifyRoleIDs) > 0 {
		mentions := make([]string, 0, len(entry.NotifyRoleIDs))
		for _, id := range entry.NotifyRoleIDs {
			mentions = append(mentions, "<@&"+id+">")
		}
		if _, err := d.client.SendMessage(ctx, entry.ChannelID, strings.Join(mentions, " ")); err != nil {
			logging.Warn("audit role notify failed: %v", err)
		}
	}

	if compact {
		_, err := d.client.SendMessage(ctx, entry.ChannelID, d.compactLine(entry))
		return err
	}

	_, err := d.client.SendEmbed(ctx, entry.ChannelID, d.embed(entry))
	return err
}

func (d *Dispatcher) compactLine(entry *Entry) string {
	var b strings.Builder
	if entry.Icon != "" {
		b.WriteString(entry.Icon)
		b.WriteString(" ")
	}
	b.WriteString("**")
	b.WriteString(entry.Title)
	b.WriteString("** ")
	b.WriteString(entry.Content)
	for _, f := range entry.Fields {
		b.WriteString(" | ")
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(f.Value)
	}
	if entry.Quoted != nil {
		b.WriteString("\n")
		b.WriteString(quoteBlock(entry.Quoted.Content))
	}
	return b.String()
}

func (d *Dispatcher) embed(entry *Entry) *platform.EmbedPayload {
	title := entry.Title
	if entry.Icon != "" {
		title = entry.Icon + " " + title
	}

	description := entry.Content
	if entry.Quoted != nil {
		description += "\n" + quoteBlock(entry.Quoted.Content)
	}
	description = util.Truncate(description, 4000)

	color := entry.Color
	if color == ColorUnset {
		color = 0x5865F2
	}

	return &platform.EmbedPayload{
		Title:       title,
		Description: description,
		Color:       color,
		Fields:      entry.Fields,
		Timestamp:   time.Now().UTC(),
	}
}

// quoteBlock prefixes every line of content with a markdown quote marker.
func quoteBlock(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = "> " + line
	}
	return strings.Join(lines, "\n")
}

package rules

import (
	"context"
	"fmt"
	"strings"

	"go-chatmod/internal/audit"
	"go-chatmod/internal/errs"
	"go-chatmod/internal/platform"
	"go-chatmod/internal/trigger"
)

func userFields(u *platform.User) []platform.EmbedField {
	return []platform.EmbedField{
		{Name: "Name", Value: u.String(), Inline: true},
		{Name: "User ID", Value: u.ID, Inline: true},
	}
}

type sendReply struct {
	content        string
	includeMention bool
}

func newSendReply(opts Options) (Action, error) {
	content, err := opts.RequireString("content")
	if err != nil {
		return nil, err
	}
	includeMention, err := opts.Bool("include_mention", false)
	if err != nil {
		return nil, err
	}
	return &sendReply{content: content, includeMention: includeMention}, nil
}

func (a *sendReply) Kind() string { return "SEND_REPLY" }

func (a *sendReply) Apply(ctx context.Context, env *Env, t *trigger.Trigger) (*audit.Entry, error) {
	msg := t.Message()
	if msg == nil {
		return nil, errs.Resolve("SEND_REPLY requires a message trigger")
	}
	content := audit.RenderTemplate(a.content, t)
	if a.includeMention && t.Author() != nil {
		content = t.Author().Mention() + " " + content
	}
	_, err := env.Client.SendMessage(ctx, msg.ChannelID, content)
	return nil, err
}

type deleteMessage struct{}

func newDeleteMessage(opts Options) (Action, error) {
	return deleteMessage{}, nil
}

func (deleteMessage) Kind() string { return "DELETE_MESSAGE" }

func (deleteMessage) Apply(ctx context.Context, env *Env, t *trigger.Trigger) (*audit.Entry, error) {
	msg := t.Message()
	if msg == nil || msg.Author == nil {
		return nil, errs.Resolve("DELETE_MESSAGE requires a message trigger")
	}

	// Capture the message before deleting so the audit entry can quote it.
	quoted := *msg

	if err := env.Client.DeleteMessage(ctx, msg.ChannelID, msg.ID); err != nil {
		return nil, err
	}

	entry := audit.NewEntry(fmt.Sprintf("Deleted a message from %s in <#%s>.", msg.Author.Mention(), msg.ChannelID))
	entry.Quoted = &quoted
	entry.Fields = userFields(msg.Author)
	return entry, nil
}

type kickAuthor struct {
	reason string
}

func newKickAuthor(opts Options) (Action, error) {
	reason, err := opts.String("reason", "")
	if err != nil {
		return nil, err
	}
	return &kickAuthor{reason: reason}, nil
}

func (a *kickAuthor) Kind() string { return "KICK_AUTHOR" }

func (a *kickAuthor) Apply(ctx context.Context, env *Env, t *trigger.Trigger) (*audit.Entry, error) {
	author := t.Author()
	if author == nil {
		author = t.Actor()
	}
	guildID := t.GuildID()
	if author == nil || guildID == "" {
		return nil, errs.Resolve("KICK_AUTHOR requires a resolvable author and guild")
	}

	if err := env.Client.KickMember(ctx, guildID, author.ID, a.reason); err != nil {
		return nil, err
	}

	entry := audit.NewEntry(author.Mention() + " was kicked.")
	entry.Fields = userFields(author)
	return entry, nil
}

type addRolesToAuthor struct {
	roleIDs      []string
	logToChannel string
}

func newAddRolesToAuthor(opts Options) (Action, error) {
	roleIDs, err := opts.RequireStringList("roles")
	if err != nil {
		return nil, err
	}
	logToChannel, err := opts.String("log_to_channel", "")
	if err != nil {
		return nil, err
	}
	return &addRolesToAuthor{roleIDs: roleIDs, logToChannel: logToChannel}, nil
}

func (a *addRolesToAuthor) Kind() string { return "ADD_ROLES_TO_AUTHOR" }

func (a *addRolesToAuthor) Apply(ctx context.Context, env *Env, t *trigger.Trigger) (*audit.Entry, error) {
	author := t.Author()
	if author == nil {
		author = t.Actor()
	}
	guildID := t.GuildID()
	if author == nil || guildID == "" {
		return nil, errs.Resolve("ADD_ROLES_TO_AUTHOR requires a resolvable author and guild")
	}

	var firstErr error
	added := 0
	for _, roleID := range a.roleIDs {
		if err := env.Client.AddRole(ctx, guildID, author.ID, roleID); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		added++
	}
	if added == 0 && firstErr != nil {
		return nil, firstErr
	}

	mentions := make([]string, 0, len(a.roleIDs))
	for _, id := range a.roleIDs {
		mentions = append(mentions, "<@&"+id+">")
	}

	if a.logToChannel != "" {
		notice := fmt.Sprintf("Gave %s the %s role(s).", author.Mention(), strings.Join(mentions, ", "))
		if _, err := env.Client.SendMessage(ctx, a.logToChannel, notice); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	entry := audit.NewEntry(fmt.Sprintf("Added %s to %s.", strings.Join(mentions, ", "), author.Mention()))
	entry.Fields = userFields(author)
	return entry, firstErr
}

type addReactions struct {
	reactions []string
}

func newAddReactions(opts Options) (Action, error) {
	reactions, err := opts.RequireStringList("reactions")
	if err != nil {
		return nil, err
	}
	return &addReactions{reactions: reactions}, nil
}

func (a *addReactions) Kind() string { return "ADD_REACTIONS" }

func (a *addReactions) Apply(ctx context.Context, env *Env, t *trigger.Trigger) (*audit.Entry, error) {
	msg := t.Message()
	if msg == nil {
		return nil, errs.Resolve("ADD_REACTIONS requires a message trigger")
	}
	for _, emoji := range a.reactions {
		if err := env.Client.AddReaction(ctx, msg.ChannelID, msg.ID, emoji); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

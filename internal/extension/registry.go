package extension

import (
	"context"

	"go-chatmod/internal/platform"
)

// Registry routes platform events to every registered extension's
// per-guild state. Events from the bot identity and events without a
// guild (DMs) are suppressed here, once, for all extensions.
type Registry struct {
	client     platform.Client
	extensions []*Extension
}

func NewRegistry(client platform.Client) *Registry {
	return &Registry{client: client}
}

func (r *Registry) Register(ext *Extension) {
	r.extensions = append(r.extensions, ext)
}

func (r *Registry) Extension(name string) (*Extension, bool) {
	for _, ext := range r.extensions {
		if ext.Name() == name {
			return ext, true
		}
	}
	return nil, false
}

func (r *Registry) LoadAll(ctx context.Context) {
	for _, ext := range r.extensions {
		ext.Load(ctx)
	}
}

func (r *Registry) ReloadAll(ctx context.Context) {
	for _, ext := range r.extensions {
		ext.Reload(ctx)
	}
}

func (r *Registry) TeardownAll(ctx context.Context) {
	for _, ext := range r.extensions {
		ext.Teardown(ctx)
	}
}

// fromSelf reports whether a user is the bot itself.
func (r *Registry) fromSelf(u *platform.User) bool {
	if u == nil {
		return false
	}
	bot := r.client.BotUser()
	return bot != nil && u.ID == bot.ID
}

func (r *Registry) HandleMessage(ctx context.Context, msg *platform.Message) {
	if msg.GuildID == "" || r.fromSelf(msg.Author) {
		return
	}
	for _, ext := range r.extensions {
		if state, ok := ext.StateFor(msg.GuildID); ok {
			state.OnMessage(ctx, msg)
		}
	}
}

func (r *Registry) HandleMessageEdit(ctx context.Context, msg *platform.Message) {
	if msg.GuildID == "" || r.fromSelf(msg.Author) {
		return
	}
	for _, ext := range r.extensions {
		if state, ok := ext.StateFor(msg.GuildID); ok {
			state.OnMessageEdit(ctx, msg)
		}
	}
}

func (r *Registry) HandleMessageDelete(ctx context.Context, msg *platform.Message) {
	if msg.GuildID == "" || r.fromSelf(msg.Author) {
		return
	}
	for _, ext := range r.extensions {
		if state, ok := ext.StateFor(msg.GuildID); ok {
			state.OnMessageDelete(ctx, msg)
		}
	}
}

func (r *Registry) HandleReaction(ctx context.Context, reaction *platform.Reaction) {
	if reaction.GuildID == "" {
		return
	}
	if bot := r.client.BotUser(); bot != nil && reaction.UserID == bot.ID {
		return
	}
	for _, ext := range r.extensions {
		if state, ok := ext.StateFor(reaction.GuildID); ok {
			state.OnReaction(ctx, reaction)
		}
	}
}

func (r *Registry) HandleMemberJoin(ctx context.Context, m *platform.Member) {
	if m.GuildID == "" || r.fromSelf(m.User) {
		return
	}
	for _, ext := range r.extensions {
		if state, ok := ext.StateFor(m.GuildID); ok {
			state.OnMemberJoin(ctx, m)
		}
	}
}

func (r *Registry) HandleMemberLeave(ctx context.Context, m *platform.Member) {
	if m.GuildID == "" || r.fromSelf(m.User) {
		return
	}
	for _, ext := range r.extensions {
		if state, ok := ext.StateFor(m.GuildID); ok {
			state.OnMemberLeave(ctx, m)
		}
	}
}

func (r *Registry) HandleMemberBan(ctx context.Context, m *platform.Member) {
	if m.GuildID == "" || r.fromSelf(m.User) {
		return
	}
	for _, ext := range r.extensions {
		if state, ok := ext.StateFor(m.GuildID); ok {
			state.OnMemberBan(ctx, m)
		}
	}
}

func (r *Registry) HandleMemberUnban(ctx context.Context, m *platform.Member) {
	if m.GuildID == "" || r.fromSelf(m.User) {
		return
	}
	for _, ext := range r.extensions {
		if state, ok := ext.StateFor(m.GuildID); ok {
			state.OnMemberUnban(ctx, m)
		}
	}
}

package extension

import (
	"context"
	"encoding/json"

	"go-chatmod/internal/audit"
	"go-chatmod/internal/config"
	"go-chatmod/internal/errs"
	"go-chatmod/internal/platform"
	"go-chatmod/internal/rules"
	"go-chatmod/internal/trigger"
)

// RulesExtensionName is how the rules engine registers with the router
// and the admin surface.
const RulesExtensionName = "rules"

// rulesState is one guild's compiled rule set plus the engine that runs
// it. Immutable after construction; reload replaces the whole state.
type rulesState struct {
	NoopState
	guildID string
	client  platform.Client
	engine  *rules.Engine
}

// NewRulesFactory compiles the rules-engine configuration for a guild.
func NewRulesFactory() Factory {
	return func(client platform.Client, guildID string, raw []byte) (State, error) {
		var opts config.RulesOptions
		if err := json.Unmarshal(raw, &opts); err != nil {
			return nil, errs.WrapConfig(err, "rules config for guild %s", guildID)
		}

		serverOpts := audit.DefaultOptions()
		serverOpts.LogChannelID = opts.LogChannel
		serverOpts.Icon = opts.LogIcon
		serverOpts.NotifyRoleIDs = opts.NotifyRoles
		serverOpts.CompactLogs = opts.CompactLogs
		if opts.LogColor != "" {
			color, err := audit.ColorFromHex(opts.LogColor)
			if err != nil {
				return nil, err
			}
			serverOpts.Color = color
		}

		index := rules.NewIndex()
		for _, spec := range opts.Rules {
			r, err := rules.Compile(spec)
			if err != nil {
				return nil, err
			}
			if err := index.Add(r); err != nil {
				return nil, err
			}
		}

		return &rulesState{
			guildID: guildID,
			client:  client,
			engine:  rules.NewEngine(rules.NewEnv(client), index, serverOpts),
		}, nil
	}
}

func (s *rulesState) GuildID() string {
	return s.guildID
}

// RulesEngineFor digs a guild's rules engine out of an extension, for
// the admin surface.
func RulesEngineFor(ext *Extension, guildID string) (*rules.Engine, bool) {
	state, ok := ext.StateFor(guildID)
	if !ok {
		return nil, false
	}
	rs, ok := state.(*rulesState)
	if !ok {
		return nil, false
	}
	return rs.engine, true
}

func (s *rulesState) Engine() *rules.Engine {
	return s.engine
}

// channelOf resolves the message's channel for the trigger view. A
// missing channel is tolerated; conditions fall back to message fields.
func (s *rulesState) channelOf(ctx context.Context, msg *platform.Message) *platform.Channel {
	ch, err := s.client.Channel(ctx, msg.ChannelID)
	if err != nil {
		return nil
	}
	return ch
}

func (s *rulesState) dispatchMessage(ctx context.Context, kind trigger.Type, msg *platform.Message) {
	ch := s.channelOf(ctx, msg)
	s.engine.Dispatch(ctx, kind, func() (*trigger.Trigger, error) {
		return trigger.ForMessage(kind, msg, ch)
	})
}

func (s *rulesState) OnMessage(ctx context.Context, msg *platform.Message) {
	s.dispatchMessage(ctx, trigger.MessageSent, msg)
}

func (s *rulesState) OnMessageEdit(ctx context.Context, msg *platform.Message) {
	s.dispatchMessage(ctx, trigger.MessageEdited, msg)
}

func (s *rulesState) OnMessageDelete(ctx context.Context, msg *platform.Message) {
	s.dispatchMessage(ctx, trigger.MessageDeleted, msg)
}

func (s *rulesState) OnReaction(ctx context.Context, r *platform.Reaction) {
	if len(s.engine.Index().ForTrigger(trigger.ReactionAdded)) == 0 {
		return
	}
	msg, err := s.client.FetchMessage(ctx, r.ChannelID, r.MessageID)
	if err != nil {
		return
	}
	ch := s.channelOf(ctx, msg)
	reactor, err := s.client.FetchUser(ctx, r.UserID)
	if err != nil {
		reactor = nil
	}
	s.engine.Dispatch(ctx, trigger.ReactionAdded, func() (*trigger.Trigger, error) {
		return trigger.ForReaction(r, msg, ch, reactor)
	})
}

func (s *rulesState) dispatchMember(ctx context.Context, kind trigger.Type, m *platform.Member) {
	s.engine.Dispatch(ctx, kind, func() (*trigger.Trigger, error) {
		return trigger.ForMember(kind, m)
	})
}

func (s *rulesState) OnMemberJoin(ctx context.Context, m *platform.Member) {
	s.dispatchMember(ctx, trigger.MemberJoined, m)
}

func (s *rulesState) OnMemberLeave(ctx context.Context, m *platform.Member) {
	s.dispatchMember(ctx, trigger.MemberLeft, m)
}

func (s *rulesState) OnMemberBan(ctx context.Context, m *platform.Member) {
	s.dispatchMember(ctx, trigger.MemberBanned, m)
}

func (s *rulesState) OnMemberUnban(ctx context.Context, m *platform.Member) {
	guild, err := s.client.Guild(ctx, m.GuildID)
	if err != nil {
		guild = &platform.Guild{ID: m.GuildID}
	}
	s.engine.Dispatch(ctx, trigger.MemberUnbanned, func() (*trigger.Trigger, error) {
		return trigger.ForUnban(guild, m)
	})
}

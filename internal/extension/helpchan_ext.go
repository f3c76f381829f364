package extension

import (
	"context"
	"encoding/json"

	"go-chatmod/internal/config"
	"go-chatmod/internal/errs"
	"go-chatmod/internal/helpchan"
	"go-chatmod/internal/platform"
)

// HelpChannelExtensionName is the help-channel pool's registration name.
const HelpChannelExtensionName = "help_channels"

type helpchanState struct {
	NoopState
	guildID string
	manager *helpchan.Manager
}

// NewHelpChannelFactory builds the help-channel manager for a guild.
func NewHelpChannelFactory() Factory {
	return func(client platform.Client, guildID string, raw []byte) (State, error) {
		var opts config.HelpChannelOptions
		if err := json.Unmarshal(raw, &opts); err != nil {
			return nil, errs.WrapConfig(err, "help-channel config for guild %s", guildID)
		}
		cfg, err := helpchan.FromOptions(opts)
		if err != nil {
			return nil, err
		}
		return &helpchanState{
			guildID: guildID,
			manager: helpchan.NewManager(client, guildID, cfg),
		}, nil
	}
}

func (s *helpchanState) GuildID() string {
	return s.guildID
}

func (s *helpchanState) Manager() *helpchan.Manager {
	return s.manager
}

func (s *helpchanState) Setup(ctx context.Context) error {
	return s.manager.Setup(ctx)
}

func (s *helpchanState) Teardown(ctx context.Context) error {
	return s.manager.Teardown(ctx)
}

func (s *helpchanState) OnMessage(ctx context.Context, msg *platform.Message) {
	s.manager.OnMessage(ctx, msg)
}

func (s *helpchanState) OnReaction(ctx context.Context, r *platform.Reaction) {
	s.manager.OnReaction(ctx, r)
}

// ManagerFor digs a guild's help-channel manager out of an extension,
// for the admin surface.
func ManagerFor(ext *Extension, guildID string) (*helpchan.Manager, bool) {
	state, ok := ext.StateFor(guildID)
	if !ok {
		return nil, false
	}
	hs, ok := state.(*helpchanState)
	if !ok {
		return nil, false
	}
	return hs.Manager(), true
}

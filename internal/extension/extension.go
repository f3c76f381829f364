package extension

import (
	"context"
	"encoding/json"
	"sync"

	"go-chatmod/internal/logging"
	"go-chatmod/internal/metrics"
	"go-chatmod/internal/platform"
)

// State is one guild's live instance of an extension: constructed from
// resolved configuration, set up once the guild is reachable, and torn
// down on reload or shutdown. Hooks receive only events for this state's
// guild, with the bot's own events already suppressed.
type State interface {
	GuildID() string
	Setup(ctx context.Context) error
	Teardown(ctx context.Context) error

	OnMessage(ctx context.Context, msg *platform.Message)
	OnMessageEdit(ctx context.Context, msg *platform.Message)
	OnMessageDelete(ctx context.Context, msg *platform.Message)
	OnReaction(ctx context.Context, r *platform.Reaction)
	OnMemberJoin(ctx context.Context, m *platform.Member)
	OnMemberLeave(ctx context.Context, m *platform.Member)
	OnMemberBan(ctx context.Context, m *platform.Member)
	OnMemberUnban(ctx context.Context, m *platform.Member)
}

// NoopState satisfies the hooks a state does not care about. Embed it
// and override the rest.
type NoopState struct{}

func (NoopState) Setup(ctx context.Context) error                            { return nil }
func (NoopState) Teardown(ctx context.Context) error                         { return nil }
func (NoopState) OnMessage(ctx context.Context, msg *platform.Message)       {}
func (NoopState) OnMessageEdit(ctx context.Context, msg *platform.Message)   {}
func (NoopState) OnMessageDelete(ctx context.Context, msg *platform.Message) {}
func (NoopState) OnReaction(ctx context.Context, r *platform.Reaction)       {}
func (NoopState) OnMemberJoin(ctx context.Context, m *platform.Member)       {}
func (NoopState) OnMemberLeave(ctx context.Context, m *platform.Member)      {}
func (NoopState) OnMemberBan(ctx context.Context, m *platform.Member)        {}
func (NoopState) OnMemberUnban(ctx context.Context, m *platform.Member)      {}

// Factory builds one guild's state from its resolved configuration
// bytes. Factories must validate eagerly: a factory error skips the
// guild, not the extension.
type Factory func(client platform.Client, guildID string, raw []byte) (State, error)

// Extension owns per-guild states for one feature, keyed by guild ID,
// plus the raw configured sources they are built from.
type Extension struct {
	name     string
	client   platform.Client
	factory  Factory
	sources  map[string]json.RawMessage
	resolver *Resolver

	mu     sync.RWMutex
	states map[string]State
}

func New(name string, client platform.Client, factory Factory, sources map[string]json.RawMessage, resolver *Resolver) *Extension {
	return &Extension{
		name:     name,
		client:   client,
		factory:  factory,
		sources:  sources,
		resolver: resolver,
		states:   make(map[string]State),
	}
}

func (e *Extension) Name() string {
	return e.name
}

// Load resolves each guild's configuration source and constructs its
// state. A failure for one guild logs and skips that guild; the others
// still load.
func (e *Extension) Load(ctx context.Context) {
	fresh := make(map[string]State, len(e.sources))

	for guildID, raw := range e.sources {
		payload, err := e.resolver.Resolve(ctx, e.name, guildID, raw)
		if err != nil {
			logging.Error("extension %s: config for guild %s unresolvable: %v", e.name, guildID, err)
			continue
		}
		state, err := e.factory(e.client, guildID, payload)
		if err != nil {
			logging.Error("extension %s: guild %s skipped: %v", e.name, guildID, err)
			continue
		}
		if err := state.Setup(ctx); err != nil {
			logging.Error("extension %s: setup for guild %s failed: %v", e.name, guildID, err)
			continue
		}
		fresh[guildID] = state
		logging.Info("extension %s: guild %s loaded", e.name, guildID)
	}

	e.mu.Lock()
	e.states = fresh
	e.mu.Unlock()
}

// Reload tears down every state and rebuilds from the same sources. The
// swap is atomic for the extension: readers see either the old set or
// the new one.
func (e *Extension) Reload(ctx context.Context) {
	e.Teardown(ctx)
	e.Load(ctx)
	metrics.GetRegistry().IncConfigReloads()
}

func (e *Extension) Teardown(ctx context.Context) {
	e.mu.Lock()
	states := e.states
	e.states = make(map[string]State)
	e.mu.Unlock()

	for guildID, state := range states {
		if err := state.Teardown(ctx); err != nil {
			logging.Warn("extension %s: teardown for guild %s failed: %v", e.name, guildID, err)
		}
	}
}

// StateFor returns the live state for a guild, if one loaded.
func (e *Extension) StateFor(guildID string) (State, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	state, ok := e.states[guildID]
	return state, ok
}

// GuildIDs lists guilds with a live state.
func (e *Extension) GuildIDs() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := make([]string, 0, len(e.states))
	for id := range e.states {
		ids = append(ids, id)
	}
	return ids
}

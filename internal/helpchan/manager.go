package helpchan

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"go-chatmod/internal/logging"
	"go-chatmod/internal/metrics"
	"go-chatmod/internal/platform"
)

// Manager drives one guild's help-channel pool. All state transitions
// rename the channel; the name prefix is the only authoritative record
// of a channel's state.
type Manager struct {
	guildID  string
	client   platform.Client
	cfg      Config
	now      func() time.Time
	registry *metrics.Registry

	// Unix nanos, accessed atomically: Poll runs on the poller goroutine
	// while maybePoll reads from the event dispatcher.
	lastPolledNano int64
	pollInFlight   uint32
	poller         *Poller
}

func NewManager(client platform.Client, guildID string, cfg Config) *Manager {
	m := &Manager{
		guildID:  guildID,
		client:   client,
		cfg:      cfg,
		now:      func() time.Time { return time.Now().UTC() },
		registry: metrics.GetRegistry(),
	}
	m.poller = NewPoller(m, cfg.PollEvery)
	return m
}

func (m *Manager) GuildID() string {
	return m.guildID
}

func (m *Manager) Config() Config {
	return m.cfg
}

func (m *Manager) Poller() *Poller {
	return m.poller
}

// Setup normalizes channels whose prefix is not a recognized state and
// brings the hoisted count up to the configured minimum. Called once the
// guild is resolved at ready time.
func (m *Manager) Setup(ctx context.Context) error {
	for _, mc := range m.cfg.Channels {
		ch, err := m.client.Channel(ctx, mc.ID)
		if err != nil {
			logging.Warn("help channel %q (%s) not resolvable: %v", mc.Base, mc.ID, err)
			continue
		}
		if m.cfg.StateFromName(ch.Name) == StateUnknown {
			if err := m.transition(ctx, mc, StateFree); err != nil {
				logging.Warn("help channel %q could not be normalized: %v", mc.Base, err)
			}
		}
	}
	if err := m.SyncHoisted(ctx); err != nil {
		return err
	}
	if m.cfg.AutoPoll {
		m.poller.Start()
	}
	return nil
}

// Teardown stops the poller. Channel names keep the state.
func (m *Manager) Teardown(ctx context.Context) error {
	m.poller.Stop()
	return nil
}

// Managed returns the pool entry for a channel ID, if the channel is
// enrolled.
func (m *Manager) Managed(channelID string) (ManagedChannel, bool) {
	for _, mc := range m.cfg.Channels {
		if mc.ID == channelID {
			return mc, true
		}
	}
	return ManagedChannel{}, false
}

// StateOf reads a managed channel's current state from its live name.
func (m *Manager) StateOf(ctx context.Context, mc ManagedChannel) (State, error) {
	ch, err := m.client.Channel(ctx, mc.ID)
	if err != nil {
		return StateUnknown, err
	}
	return m.cfg.StateFromName(ch.Name), nil
}

// Transition moves a channel to a target state: rename, optional
// category move, then a hoist sync whenever the hoisted state is entered
// or left. Renaming to the name the channel already has is a no-op, so
// repeating a transition changes nothing.
func (m *Manager) Transition(ctx context.Context, mc ManagedChannel, to State) error {
	from, err := m.transitionOnly(ctx, mc, to)
	if err != nil {
		return err
	}
	if from == StateHoisted || to == StateHoisted {
		return m.SyncHoisted(ctx)
	}
	return nil
}

// transition is Transition without the hoist sync, for use inside the
// sync itself.
func (m *Manager) transition(ctx context.Context, mc ManagedChannel, to State) error {
	_, err := m.transitionOnly(ctx, mc, to)
	return err
}

func (m *Manager) transitionOnly(ctx context.Context, mc ManagedChannel, to State) (State, error) {
	ch, err := m.client.Channel(ctx, mc.ID)
	if err != nil {
		return StateUnknown, err
	}
	from := m.cfg.StateFromName(ch.Name)

	target := m.cfg.NameFor(to, mc.Base)
	if ch.Name == target {
		return from, nil
	}

	if err := m.client.RenameChannel(ctx, mc.ID, target); err != nil {
		return from, err
	}
	if category, ok := m.cfg.Categories[to]; ok && ch.ParentID != category {
		if err := m.client.MoveChannelToCategory(ctx, mc.ID, category); err != nil {
			logging.Warn("help channel %q: category move failed: %v", mc.Base, err)
		}
	}

	m.registry.IncChannelTransitions()
	logging.Info("help channel %q: %s -> %s", mc.Base, from, to)
	return from, nil
}

// Resolve returns a channel to the free pool.
func (m *Manager) Resolve(ctx context.Context, mc ManagedChannel) error {
	return m.Transition(ctx, mc, StateFree)
}

// poolStates reads the current state of every channel in the pool.
func (m *Manager) poolStates(ctx context.Context) map[string]State {
	states := make(map[string]State, len(m.cfg.Channels))
	for _, mc := range m.cfg.Channels {
		state, err := m.StateOf(ctx, mc)
		if err != nil {
			logging.Warn("help channel %q unreadable during scan: %v", mc.Base, err)
			continue
		}
		states[mc.ID] = state
	}
	return states
}

// SyncHoisted tops the hoisted count up to the configured minimum,
// preferring free channels and falling back to stale ones. The count
// never exceeds the configured maximum.
func (m *Manager) SyncHoisted(ctx context.Context) error {
	states := m.poolStates(ctx)

	hoisted := 0
	for _, state := range states {
		if state == StateHoisted {
			hoisted++
		}
	}

	for hoisted < m.cfg.MinHoisted && hoisted < m.cfg.MaxHoisted {
		candidate, ok := m.pickHoistCandidate(states)
		if !ok {
			logging.Warn("guild %s: help-channel pool exhausted, %d of %d hoisted",
				m.guildID, hoisted, m.cfg.MinHoisted)
			return nil
		}
		if err := m.transition(ctx, candidate, StateHoisted); err != nil {
			return err
		}
		states[candidate.ID] = StateHoisted
		hoisted++
	}

	if hoisted > m.cfg.MaxHoisted {
		logging.Warn("guild %s: %d channels hoisted, above the configured maximum %d",
			m.guildID, hoisted, m.cfg.MaxHoisted)
	}
	return nil
}

func (m *Manager) pickHoistCandidate(states map[string]State) (ManagedChannel, bool) {
	for _, want := range []State{StateFree, StateStale} {
		for _, mc := range m.cfg.Channels {
			if states[mc.ID] == want {
				return mc, true
			}
		}
	}
	return ManagedChannel{}, false
}

// firstFree returns a channel currently in the free state, for relocate
// redirects.
func (m *Manager) firstFree(ctx context.Context) (ManagedChannel, bool) {
	for _, mc := range m.cfg.Channels {
		state, err := m.StateOf(ctx, mc)
		if err != nil {
			continue
		}
		if state == StateFree {
			return mc, true
		}
	}
	return ManagedChannel{}, false
}

// Poll scans busy channels and demotes those whose latest message is
// older than the stale threshold. A busy channel with no messages at all
// goes back to free. One poll may be in flight at a time.
func (m *Manager) Poll(ctx context.Context) error {
	if !atomic.CompareAndSwapUint32(&m.pollInFlight, 0, 1) {
		return nil
	}
	defer atomic.StoreUint32(&m.pollInFlight, 0)

	now := m.now()
	for _, mc := range m.cfg.Channels {
		state, err := m.StateOf(ctx, mc)
		if err != nil || state != StateBusy {
			continue
		}
		latest, err := m.client.RecentMessages(ctx, mc.ID, 1)
		if err != nil {
			logging.Warn("help channel %q: latest message fetch failed: %v", mc.Base, err)
			continue
		}
		if len(latest) == 0 {
			if err := m.transition(ctx, mc, StateFree); err != nil {
				logging.Warn("help channel %q: demote to free failed: %v", mc.Base, err)
			}
			continue
		}
		if now.Sub(latest[0].Timestamp) > m.cfg.StaleAfter {
			if err := m.transition(ctx, mc, StateStale); err != nil {
				logging.Warn("help channel %q: demote to stale failed: %v", mc.Base, err)
			}
		}
	}

	atomic.StoreInt64(&m.lastPolledNano, now.UnixNano())
	m.registry.IncPollsRun()
	return m.SyncHoisted(ctx)
}

// maybePoll runs a poll when the interval has elapsed since the last
// one, piggybacking on message traffic.
func (m *Manager) maybePoll(ctx context.Context) {
	if !m.cfg.AutoPoll {
		return
	}
	last := time.Unix(0, atomic.LoadInt64(&m.lastPolledNano))
	if m.now().Sub(last) >= m.cfg.PollEvery {
		if err := m.Poll(ctx); err != nil {
			logging.Warn("guild %s: poll failed: %v", m.guildID, err)
		}
	}
}

// OnMessage applies message semantics to a managed channel: the resolve
// emoji alone resolves, the duck emoji ducks, anything else marks busy.
func (m *Manager) OnMessage(ctx context.Context, msg *platform.Message) {
	mc, ok := m.Managed(msg.ChannelID)
	if !ok {
		return
	}
	// Only human traffic moves the state machine. Other bots posting in
	// a help channel must not mark it busy or resolve it.
	if msg.Author != nil && msg.Author.Bot {
		return
	}

	content := strings.TrimSpace(msg.Content)
	var err error
	switch content {
	case m.cfg.ResolveEmoji:
		err = m.Resolve(ctx, mc)
	case m.cfg.DuckEmoji:
		err = m.Transition(ctx, mc, StateDucked)
	default:
		err = m.Transition(ctx, mc, StateBusy)
	}
	if err != nil {
		logging.Warn("help channel %q: message handling failed: %v", mc.Base, err)
	}

	m.maybePoll(ctx)
}

// OnReaction applies reaction semantics: the relocate emoji redirects a
// question toward a free channel, and (when enabled) the resolve emoji
// on a channel's latest message resolves the channel.
func (m *Manager) OnReaction(ctx context.Context, r *platform.Reaction) {
	if r.Emoji == m.cfg.RelocateEmoji && r.Count == 1 {
		m.relocate(ctx, r)
	}

	mc, ok := m.Managed(r.ChannelID)
	if !ok || !m.cfg.ResolveWithReaction || r.Emoji != m.cfg.ResolveEmoji {
		return
	}
	latest, err := m.client.RecentMessages(ctx, r.ChannelID, 1)
	if err != nil || len(latest) == 0 || latest[0].ID != r.MessageID {
		return
	}
	if err := m.Resolve(ctx, mc); err != nil {
		logging.Warn("help channel %q: resolve by reaction failed: %v", mc.Base, err)
	}
}

// relocate posts a templated pointer from the reacted message's channel
// to a free help channel, then acks with the relocate emoji.
func (m *Manager) relocate(ctx context.Context, r *platform.Reaction) {
	msg, err := m.client.FetchMessage(ctx, r.ChannelID, r.MessageID)
	if err != nil {
		logging.Warn("relocate: message fetch failed: %v", err)
		return
	}
	if msg.Author == nil || msg.Author.Bot {
		return
	}

	template := m.cfg.MessageWithoutChannel
	toChannel := ""
	if free, ok := m.firstFree(ctx); ok {
		template = m.cfg.MessageWithChannel
		toChannel = "<#" + free.ID + ">"
	}

	content := renderRedirect(template, msg.Author.Mention(), "<@"+r.UserID+">", "<#"+r.ChannelID+">", toChannel)
	if _, err := m.client.SendMessage(ctx, r.ChannelID, content); err != nil {
		logging.Warn("relocate: redirect message failed: %v", err)
		return
	}
	if err := m.client.AddReaction(ctx, r.ChannelID, r.MessageID, m.cfg.RelocateEmoji); err != nil {
		logging.Warn("relocate: ack reaction failed: %v", err)
	}
}

func renderRedirect(template, author, reactor, fromChannel, toChannel string) string {
	out := strings.ReplaceAll(template, "{author}", author)
	out = strings.ReplaceAll(out, "{reactor}", reactor)
	out = strings.ReplaceAll(out, "{from_channel}", fromChannel)
	out = strings.ReplaceAll(out, "{to_channel}", toChannel)
	return out
}

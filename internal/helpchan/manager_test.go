package helpchan

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go-chatmod/internal/config"
	"go-chatmod/internal/platform"
	"go-chatmod/internal/platform/platformtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func boolPtr(b bool) *bool { return &b }

// newTestManager builds a manager with a fixed clock and the automatic
// poller disabled, so tests drive every poll explicitly.
func newTestManager(t *testing.T, client *platformtest.FakeClient, opts config.HelpChannelOptions) *Manager {
	t.Helper()
	if opts.AutoPoll == nil {
		opts.AutoPoll = boolPtr(false)
	}
	cfg, err := FromOptions(opts)
	require.NoError(t, err)

	m := NewManager(client, "300", cfg)
	m.now = func() time.Time { return fixedNow }
	return m
}

func hoistedCount(t *testing.T, client *platformtest.FakeClient) int {
	t.Helper()
	n := 0
	for _, ch := range client.Channels {
		if strings.HasPrefix(ch.Name, "👋") {
			n++
		}
	}
	return n
}

func TestSetupNormalizesUnknownPrefixes(t *testing.T) {
	client := platformtest.NewFakeClient()
	client.AddChannel("10", "300", "help-a")
	client.AddChannel("20", "300", "💬help-b")

	m := newTestManager(t, client, config.HelpChannelOptions{
		Channels: map[string]string{"help-a": "10", "help-b": "20"},
	})

	require.NoError(t, m.Setup(context.Background()))

	assert.Equal(t, "✅help-a", client.Channels["10"].Name)
	assert.Equal(t, "💬help-b", client.Channels["20"].Name, "recognized prefixes are left alone")
}

func TestSetupHoistsToMinimum(t *testing.T) {
	client := platformtest.NewFakeClient()
	client.AddChannel("10", "300", "✅help-a")
	client.AddChannel("20", "300", "✅help-b")
	client.AddChannel("30", "300", "✅help-c")

	m := newTestManager(t, client, config.HelpChannelOptions{
		Channels:           map[string]string{"help-a": "10", "help-b": "20", "help-c": "30"},
		MinHoistedChannels: 2,
		MaxHoistedChannels: 2,
	})

	require.NoError(t, m.Setup(context.Background()))

	assert.Equal(t, 2, hoistedCount(t, client))
	// Candidates are taken in base-name order.
	assert.Equal(t, "👋ask-here", client.Channels["10"].Name)
	assert.Equal(t, "👋ask-here", client.Channels["20"].Name)
	assert.Equal(t, "✅help-c", client.Channels["30"].Name)
}

func TestTransitionIsIdempotent(t *testing.T) {
	client := platformtest.NewFakeClient()
	client.AddChannel("10", "300", "✅help-a")

	m := newTestManager(t, client, config.HelpChannelOptions{
		Channels: map[string]string{"help-a": "10"},
	})
	mc, ok := m.Managed("10")
	require.True(t, ok)

	require.NoError(t, m.Transition(context.Background(), mc, StateBusy))
	assert.Equal(t, "💬help-a", client.Channels["10"].Name)

	// Repeating the transition must not rename again.
	client.RenameErr = errors.New("rename should not happen")
	require.NoError(t, m.Transition(context.Background(), mc, StateBusy))
}

func TestTransitionMovesCategory(t *testing.T) {
	client := platformtest.NewFakeClient()
	client.AddChannel("10", "300", "✅help-a")

	m := newTestManager(t, client, config.HelpChannelOptions{
		Channels:     map[string]string{"help-a": "10"},
		BusyCategory: "cat-busy",
	})
	mc, _ := m.Managed("10")

	require.NoError(t, m.Transition(context.Background(), mc, StateBusy))
	assert.Equal(t, "cat-busy", client.Moved["10"])
}

func TestSyncHoistedPrefersFreeOverStale(t *testing.T) {
	client := platformtest.NewFakeClient()
	client.AddChannel("10", "300", "⏰help-a")
	client.AddChannel("20", "300", "✅help-b")

	m := newTestManager(t, client, config.HelpChannelOptions{
		Channels:           map[string]string{"help-a": "10", "help-b": "20"},
		MinHoistedChannels: 1,
		MaxHoistedChannels: 1,
	})

	require.NoError(t, m.SyncHoisted(context.Background()))

	assert.Equal(t, "👋ask-here", client.Channels["20"].Name)
	assert.Equal(t, "⏰help-a", client.Channels["10"].Name)
}

func TestSyncHoistedStopsWhenPoolExhausted(t *testing.T) {
	client := platformtest.NewFakeClient()
	client.AddChannel("10", "300", "✅help-a")
	client.AddChannel("20", "300", "💬help-b")

	m := newTestManager(t, client, config.HelpChannelOptions{
		Channels:           map[string]string{"help-a": "10", "help-b": "20"},
		MinHoistedChannels: 2,
		MaxHoistedChannels: 2,
	})

	// Only one channel is hoistable; the shortfall is logged, not fatal.
	require.NoError(t, m.SyncHoisted(context.Background()))
	assert.Equal(t, 1, hoistedCount(t, client))
	assert.Equal(t, "💬help-b", client.Channels["20"].Name)
}

func TestPollDemotesIdleBusyChannels(t *testing.T) {
	client := platformtest.NewFakeClient()
	client.AddChannel("10", "300", "💬help-a")
	client.AddChannel("20", "300", "💬help-b")
	client.AddChannel("30", "300", "💬help-c")

	client.AddMessage(&platform.Message{
		ID: "m1", ChannelID: "10", Content: "old question",
		Author:    &platform.User{ID: "400"},
		Timestamp: fixedNow.Add(-2 * time.Hour),
	})
	client.AddMessage(&platform.Message{
		ID: "m2", ChannelID: "20", Content: "fresh question",
		Author:    &platform.User{ID: "401"},
		Timestamp: fixedNow.Add(-5 * time.Minute),
	})
	// Channel 30 is busy but has no messages at all.

	m := newTestManager(t, client, config.HelpChannelOptions{
		Channels:          map[string]string{"help-a": "10", "help-b": "20", "help-c": "30"},
		SecondsUntilStale: 3600,
	})

	require.NoError(t, m.Poll(context.Background()))

	assert.Equal(t, "⏰help-a", client.Channels["10"].Name, "idle past the threshold goes stale")
	assert.Equal(t, "💬help-b", client.Channels["20"].Name, "recent activity stays busy")
	assert.Equal(t, "✅help-c", client.Channels["30"].Name, "empty busy channel returns to free")
}

func TestOnMessageStateTransitions(t *testing.T) {
	client := platformtest.NewFakeClient()
	client.AddChannel("10", "300", "✅help-a")

	m := newTestManager(t, client, config.HelpChannelOptions{
		Channels: map[string]string{"help-a": "10"},
	})

	asker := &platform.User{ID: "400"}

	m.OnMessage(context.Background(), &platform.Message{ID: "m1", ChannelID: "10", Content: "how do I do X?", Author: asker})
	assert.Equal(t, "💬help-a", client.Channels["10"].Name)

	m.OnMessage(context.Background(), &platform.Message{ID: "m2", ChannelID: "10", Content: " ✅ ", Author: asker})
	assert.Equal(t, "✅help-a", client.Channels["10"].Name, "resolve emoji alone frees the channel")

	m.OnMessage(context.Background(), &platform.Message{ID: "m3", ChannelID: "10", Content: "🦆", Author: asker})
	assert.Equal(t, "🦆help-a", client.Channels["10"].Name)
}

func TestOnMessageIgnoresBotAuthors(t *testing.T) {
	client := platformtest.NewFakeClient()
	client.AddChannel("10", "300", "✅help-a")

	m := newTestManager(t, client, config.HelpChannelOptions{
		Channels: map[string]string{"help-a": "10"},
	})

	m.OnMessage(context.Background(), &platform.Message{
		ID: "m1", ChannelID: "10", Content: "automated notice",
		Author: &platform.User{ID: "901", Bot: true},
	})

	assert.Equal(t, "✅help-a", client.Channels["10"].Name)
	assert.Empty(t, client.Renamed)
}

func TestHoistedChannelBecomesBusyAndRefills(t *testing.T) {
	client := platformtest.NewFakeClient()
	client.AddChannel("10", "300", "👋ask-here")
	client.AddChannel("20", "300", "✅help-b")

	m := newTestManager(t, client, config.HelpChannelOptions{
		Channels:           map[string]string{"help-a": "10", "help-b": "20"},
		MinHoistedChannels: 1,
		MaxHoistedChannels: 1,
	})

	m.OnMessage(context.Background(), &platform.Message{
		ID: "m1", ChannelID: "10", Content: "how do I center a div?",
		Author: &platform.User{ID: "400"},
	})

	// The hoisted channel takes the question and a free one replaces it.
	assert.Equal(t, "💬help-a", client.Channels["10"].Name)
	assert.Equal(t, "👋ask-here", client.Channels["20"].Name)
}

func TestOnMessageIgnoresUnmanagedChannels(t *testing.T) {
	client := platformtest.NewFakeClient()
	client.AddChannel("10", "300", "✅help-a")
	client.AddChannel("99", "300", "general")

	m := newTestManager(t, client, config.HelpChannelOptions{
		Channels: map[string]string{"help-a": "10"},
	})

	m.OnMessage(context.Background(), &platform.Message{ID: "m1", ChannelID: "99", Content: "hi"})
	assert.Empty(t, client.Renamed)
}

func TestOnReactionResolvesLatestMessageOnly(t *testing.T) {
	client := platformtest.NewFakeClient()
	client.AddChannel("10", "300", "💬help-a")
	client.AddMessage(&platform.Message{ID: "m1", ChannelID: "10", Author: &platform.User{ID: "400"}})
	client.AddMessage(&platform.Message{ID: "m2", ChannelID: "10", Author: &platform.User{ID: "400"}})

	m := newTestManager(t, client, config.HelpChannelOptions{
		Channels:            map[string]string{"help-a": "10"},
		ResolveWithReaction: true,
	})

	m.OnReaction(context.Background(), &platform.Reaction{
		Emoji: "✅", ChannelID: "10", MessageID: "m1", UserID: "500", Count: 1,
	})
	assert.Equal(t, "💬help-a", client.Channels["10"].Name, "older message does not resolve")

	m.OnReaction(context.Background(), &platform.Reaction{
		Emoji: "✅", ChannelID: "10", MessageID: "m2", UserID: "500", Count: 1,
	})
	assert.Equal(t, "✅help-a", client.Channels["10"].Name)
}

func TestOnReactionResolveDisabledByDefault(t *testing.T) {
	client := platformtest.NewFakeClient()
	client.AddChannel("10", "300", "💬help-a")
	client.AddMessage(&platform.Message{ID: "m1", ChannelID: "10", Author: &platform.User{ID: "400"}})

	m := newTestManager(t, client, config.HelpChannelOptions{
		Channels: map[string]string{"help-a": "10"},
	})

	m.OnReaction(context.Background(), &platform.Reaction{
		Emoji: "✅", ChannelID: "10", MessageID: "m1", UserID: "500", Count: 1,
	})
	assert.Equal(t, "💬help-a", client.Channels["10"].Name)
}

func TestRelocatePointsAtFreeChannel(t *testing.T) {
	client := platformtest.NewFakeClient()
	client.AddChannel("10", "300", "✅help-a")
	client.AddChannel("99", "300", "general")
	client.AddMessage(&platform.Message{
		ID: "m1", ChannelID: "99", Content: "how do I center a div?",
		Author: &platform.User{ID: "400", Username: "asker"},
	})

	m := newTestManager(t, client, config.HelpChannelOptions{
		Channels: map[string]string{"help-a": "10"},
	})

	m.OnReaction(context.Background(), &platform.Reaction{
		Emoji: "🛴", ChannelID: "99", MessageID: "m1", UserID: "500", Count: 1,
	})

	require.Len(t, client.Sent, 1)
	assert.Equal(t, "99", client.Sent[0].ChannelID)
	assert.Contains(t, client.Sent[0].Content, "<@400>")
	assert.Contains(t, client.Sent[0].Content, "<#10>")
	assert.Equal(t, []string{"99/m1/🛴"}, client.ReactionsAdded)
}

func TestRelocateWithoutFreeChannel(t *testing.T) {
	client := platformtest.NewFakeClient()
	client.AddChannel("10", "300", "💬help-a")
	client.AddChannel("99", "300", "general")
	client.AddMessage(&platform.Message{
		ID: "m1", ChannelID: "99", Content: "question",
		Author: &platform.User{ID: "400"},
	})

	m := newTestManager(t, client, config.HelpChannelOptions{
		Channels: map[string]string{"help-a": "10"},
	})

	m.OnReaction(context.Background(), &platform.Reaction{
		Emoji: "🛴", ChannelID: "99", MessageID: "m1", UserID: "500", Count: 1,
	})

	require.Len(t, client.Sent, 1)
	assert.NotContains(t, client.Sent[0].Content, "<#10>")
	assert.Contains(t, client.Sent[0].Content, "<@400>")
}

func TestRelocateSkipsBotAuthors(t *testing.T) {
	client := platformtest.NewFakeClient()
	client.AddChannel("99", "300", "general")
	client.AddMessage(&platform.Message{
		ID: "m1", ChannelID: "99", Content: "automated notice",
		Author: &platform.User{ID: "900", Bot: true},
	})

	m := newTestManager(t, client, config.HelpChannelOptions{
		Channels: map[string]string{"help-a": "10"},
	})

	m.OnReaction(context.Background(), &platform.Reaction{
		Emoji: "🛴", ChannelID: "99", MessageID: "m1", UserID: "500", Count: 1,
	})
	assert.Empty(t, client.Sent)
}

func TestRelocateOnlyFiresOnFirstReaction(t *testing.T) {
	client := platformtest.NewFakeClient()
	client.AddChannel("99", "300", "general")
	client.AddMessage(&platform.Message{
		ID: "m1", ChannelID: "99", Content: "question",
		Author: &platform.User{ID: "400"},
	})

	m := newTestManager(t, client, config.HelpChannelOptions{
		Channels: map[string]string{"help-a": "10"},
	})

	m.OnReaction(context.Background(), &platform.Reaction{
		Emoji: "🛴", ChannelID: "99", MessageID: "m1", UserID: "500", Count: 2,
	})
	assert.Empty(t, client.Sent)
}

func TestScheduledPollsOverlapMessageTraffic(t *testing.T) {
	// Scheduled polls write the last-polled stamp on the poller
	// goroutine while message handling reads it here; meaningful under
	// the race detector.
	client := platformtest.NewFakeClient()
	client.AddChannel("10", "300", "✅help-a")

	m := newTestManager(t, client, config.HelpChannelOptions{
		Channels: map[string]string{"help-a": "10"},
		AutoPoll: boolPtr(true),
	})

	p := NewPoller(m, time.Millisecond)
	p.Start()
	for i := 0; i < 50; i++ {
		m.OnMessage(context.Background(), &platform.Message{
			ID: "m1", ChannelID: "10", Content: "still stuck on this",
			Author: &platform.User{ID: "400"},
		})
	}
	p.Stop()

	_, ok := m.Managed("10")
	assert.True(t, ok)
}

func TestPollerStartStop(t *testing.T) {
	client := platformtest.NewFakeClient()
	m := newTestManager(t, client, config.HelpChannelOptions{
		Channels: map[string]string{"help-a": "10"},
	})

	p := m.Poller()
	assert.False(t, p.Running())

	p.Start()
	assert.True(t, p.Running())
	p.Start() // second start is a no-op

	p.Stop()
	assert.False(t, p.Running())
	p.Stop() // second stop is a no-op
}

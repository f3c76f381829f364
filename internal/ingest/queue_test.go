package ingest

import (
	"testing"

	"go-chatmod/internal/extension"
	"go-chatmod/internal/platform"
	"go-chatmod/internal/platform/platformtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueDropsWhenFull(t *testing.T) {
	q := NewQueue(2)

	msg := &platform.Message{ID: "m", GuildID: "300"}
	assert.True(t, q.Enqueue(Event{Kind: EventMessage, Message: msg}))
	assert.True(t, q.Enqueue(Event{Kind: EventMessage, Message: msg}))
	assert.False(t, q.Enqueue(Event{Kind: EventMessage, Message: msg}), "a full queue drops instead of blocking")
	assert.Equal(t, 2, q.Depth())
	assert.Equal(t, 2, q.Capacity())
}

func TestDispatcherDrainsOnClose(t *testing.T) {
	client := platformtest.NewFakeClient()
	registry := extension.NewRegistry(client)

	q := NewQueue(8)
	d := NewDispatcher(q, registry)
	d.Start()

	require.True(t, q.Enqueue(Event{Kind: EventMessage, Message: &platform.Message{ID: "m1", GuildID: "300"}}))
	require.True(t, q.Enqueue(Event{Kind: EventUnknown}))

	q.Close()
	d.Wait()
	assert.Equal(t, 0, q.Depth())
}

package ingest

import (
	"context"
	"sync"

	"go-chatmod/internal/extension"
	"go-chatmod/internal/logging"
)

// Dispatcher drains the queue on a single goroutine, so rule evaluation
// and help-channel transitions for all guilds execute serially in
// arrival order. Blocking platform calls inside handlers are the only
// points where event handling overlaps in time.
type Dispatcher struct {
	queue    *Queue
	registry *extension.Registry
	wg       sync.WaitGroup
}

func NewDispatcher(queue *Queue, registry *extension.Registry) *Dispatcher {
	return &Dispatcher{queue: queue, registry: registry}
}

func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go d.loop()
}

// Wait blocks until the queue is closed and drained.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) loop() {
	defer d.wg.Done()
	ctx := context.Background()

	for event := range d.queue.events {
		d.handle(ctx, event)
	}
	logging.Info("event dispatcher drained")
}

func (d *Dispatcher) handle(ctx context.Context, event Event) {
	switch event.Kind {
	case EventMessage:
		d.registry.HandleMessage(ctx, event.Message)
	case EventMessageEdit:
		d.registry.HandleMessageEdit(ctx, event.Message)
	case EventMessageDelete:
		d.registry.HandleMessageDelete(ctx, event.Message)
	case EventReaction:
		d.registry.HandleReaction(ctx, event.Reaction)
	case EventMemberJoin:
		d.registry.HandleMemberJoin(ctx, event.Member)
	case EventMemberLeave:
		d.registry.HandleMemberLeave(ctx, event.Member)
	case EventMemberBan:
		d.registry.HandleMemberBan(ctx, event.Member)
	case EventMemberUnban:
		d.registry.HandleMemberUnban(ctx, event.Member)
	default:
		logging.Warn("dispatcher: unknown event kind %d", event.Kind)
	}
}

package ingest

import (
	"go-chatmod/internal/metrics"
	"go-chatmod/internal/platform"
)

type EventKind uint8

const (
	EventUnknown EventKind = iota
	EventMessage
	EventMessageEdit
	EventMessageDelete
	EventReaction
	EventMemberJoin
	EventMemberLeave
	EventMemberBan
	EventMemberUnban
)

// Event is one gateway event normalized to platform types. Exactly one
// payload field is set, matching the kind.
type Event struct {
	Kind     EventKind
	Message  *platform.Message
	Reaction *platform.Reaction
	Member   *platform.Member
}

// Queue buffers gateway events between the concurrent discord handlers
// and the single dispatcher goroutine. Enqueue never blocks an event
// handler: when the buffer is full the event is counted as dropped.
type Queue struct {
	events chan Event
}

func NewQueue(size int) *Queue {
	return &Queue{events: make(chan Event, size)}
}

func (q *Queue) Enqueue(event Event) bool {
	select {
	case q.events <- event:
		metrics.GetRegistry().IncEventsIngested()
		return true
	default:
		metrics.GetRegistry().IncEventsDropped()
		return false
	}
}

// Depth is the number of buffered events, for the watchdog.
func (q *Queue) Depth() int {
	return len(q.events)
}

func (q *Queue) Capacity() int {
	return cap(q.events)
}

// Close stops the dispatcher after the buffered events drain.
func (q *Queue) Close() {
	close(q.events)
}

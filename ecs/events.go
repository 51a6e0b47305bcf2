package ecs

// EventKind identifies boundary events pushed into the world queue.
type EventKind string

const (
	// EventContactBegin is emitted when two dynamic bodies start touching.
	EventContactBegin EventKind = "contact_begin"
	// EventContactEnd is emitted when two dynamic bodies separate.
	EventContactEnd EventKind = "contact_end"
)

// Contact is a collision pair. Order of A and B is unspecified.
type Contact struct {
	A Entity
	B Entity
}

type Event struct {
	Kind    EventKind
	Contact Contact
}

// EventQueue is a FIFO of tick-scoped events. Systems read Items within the
// tick; World.Update flushes the queue at end of tick.
type EventQueue struct {
	items []Event
}

func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Items returns the queued events without consuming them, so several systems
// can react to the same contact within a tick.
func (q *EventQueue) Items() []Event {
	if q == nil {
		return nil
	}
	return q.items
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}

package castle

import "time"

type EventType int

const (
	EventThemeChanged EventType = iota
	EventPhysicsTick
	EventFrame
	EventTeardown
)

func (t EventType) String() string {
	switch t {
	case EventThemeChanged:
		return "theme_changed"
	case EventPhysicsTick:
		return "physics_tick"
	case EventFrame:
		return "frame"
	case EventTeardown:
		return "teardown"
	}
	return "unknown"
}

type Event struct {
	Type    EventType
	From    int // theme index before a transition
	To      int // theme index after a transition
	Elapsed time.Duration
	Theme   string
}

type EventHandler func(Event)

// EventBus is a synchronous, single-threaded fan-out. Handlers run on the
// emitting goroutine in subscription order.
type EventBus struct {
	handlers map[EventType][]EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

func (eb *EventBus) Subscribe(t EventType, fn EventHandler) {
	eb.handlers[t] = append(eb.handlers[t], fn)
}

func (eb *EventBus) Emit(e Event) {
	if eb == nil {
		return
	}
	for _, fn := range eb.handlers[e.Type] {
		fn(e)
	}
}

// Reset drops every subscriber.
func (eb *EventBus) Reset() {
	eb.handlers = make(map[EventType][]EventHandler)
}

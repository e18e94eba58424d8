package viewer

import "sync"

// Key is an arrow key that orbits the camera
type Key int

// Orbit keys
const (
	KeyUp Key = iota
	KeyDown
	KeyLeft
	KeyRight
	keyCount
)

// EventKind tells which fields of an Event are set
type EventKind int

// Event kinds
const (
	EventKeyDown EventKind = iota
	EventKeyUp
	EventPointerMove
	EventWheel
	EventBlur
)

// Event is one input sample. DX and DY are pointer deltas in pixels, Delta
// is a wheel step.
type Event struct {
	Kind  EventKind
	Key   Key
	DX    float64
	DY    float64
	Delta float64
}

// Handler receives input events
type Handler func(Event)

// Subscription detaches a handler from its source
type Subscription interface {
	Unsubscribe()
}

// InputSource delivers events to subscribed handlers
type InputSource interface {
	Subscribe(h Handler) Subscription
}

// KeySet tracks which orbit keys are held down
type KeySet struct {
	down [keyCount]bool
}

// Press marks k as held
func (ks *KeySet) Press(k Key) {
	if k >= 0 && k < keyCount {
		ks.down[k] = true
	}
}

// Release marks k as not held
func (ks *KeySet) Release(k Key) {
	if k >= 0 && k < keyCount {
		ks.down[k] = false
	}
}

// Clear releases every key
func (ks *KeySet) Clear() {
	ks.down = [keyCount]bool{}
}

// Pressed reports whether k is held
func (ks *KeySet) Pressed(k Key) bool {
	return k >= 0 && k < keyCount && ks.down[k]
}

// EventBus is an InputSource fed by Publish. Scripted camera moves and
// tests drive the camera through it.
type EventBus struct {
	mu       sync.Mutex
	next     int
	handlers map[int]Handler
}

// NewEventBus creates an empty bus
func NewEventBus() *EventBus {
	return &EventBus{handlers: make(map[int]Handler)}
}

// Subscribe adds h to the bus
func (b *EventBus) Subscribe(h Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	b.handlers[id] = h
	return &busSubscription{bus: b, id: id}
}

// Publish delivers e to every handler in subscription order
func (b *EventBus) Publish(e Event) {
	b.mu.Lock()
	handlers := make([]Handler, 0, len(b.handlers))
	for id := 0; id < b.next; id++ {
		if h, ok := b.handlers[id]; ok {
			handlers = append(handlers, h)
		}
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h(e)
	}
}

// Len returns the number of subscribed handlers
func (b *EventBus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers)
}

type busSubscription struct {
	bus  *EventBus
	id   int
	once sync.Once
}

func (s *busSubscription) Unsubscribe() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		delete(s.bus.handlers, s.id)
		s.bus.mu.Unlock()
	})
}

package window

import "sync"

type subscriber struct {
	id int
	fn func(Event)
}

// eventBus is the implementation of the EventBus interface.
type eventBus struct {
	mu     sync.Mutex
	nextID int
	subs   map[EventKind][]subscriber
}

// EventBus delivers published events to the subscribers registered for their kind.
// Subscribers run synchronously on the publishing goroutine, in subscription order.
type EventBus interface {
	// Subscribe registers fn for events of kind.
	//
	// Parameters:
	//   - kind: the event kind to listen for
	//   - fn: the callback
	//
	// Returns:
	//   - func(): a function that removes the subscription; safe to call more than once
	Subscribe(kind EventKind, fn func(Event)) func()

	// Publish calls every subscriber registered for ev.Kind.
	//
	// Parameters:
	//   - ev: the event to deliver
	Publish(ev Event)

	// Len returns the number of subscribers for kind.
	//
	// Parameters:
	//   - kind: the event kind
	//
	// Returns:
	//   - int: the subscriber count
	Len(kind EventKind) int
}

var _ EventBus = &eventBus{}

// NewEventBus creates an empty EventBus.
//
// Returns:
//   - EventBus: the bus
func NewEventBus() EventBus {
	return &eventBus{subs: make(map[EventKind][]subscriber)}
}

func (b *eventBus) Subscribe(kind EventKind, fn func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs[kind] = append(b.subs[kind], subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.unsubscribe(kind, id)
		})
	}
}

func (b *eventBus) unsubscribe(kind EventKind, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[kind]
	for i, s := range subs {
		if s.id == id {
			b.subs[kind] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.subs[kind]) == 0 {
		delete(b.subs, kind)
	}
}

func (b *eventBus) Publish(ev Event) {
	b.mu.Lock()
	subs := append([]subscriber(nil), b.subs[ev.Kind]...)
	b.mu.Unlock()

	for _, s := range subs {
		s.fn(ev)
	}
}

func (b *eventBus) Len(kind EventKind) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[kind])
}

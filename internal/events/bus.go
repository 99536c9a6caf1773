// Package events carries record-change notifications between the storage
// layer, the statistics engine, and the listing engine. It replaces ambient
// notification globals with an explicitly constructed, injected bus: typed
// payloads, synchronous dispatch on the calling goroutine.
package events

import (
	"sync"

	"streaks/internal/storage"
)

// Bus fans record-change events out to subscribers. The zero value is not
// usable; create one with NewBus and pass it to everything that needs it.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(storage.RecordChange)
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]func(storage.RecordChange))}
}

// SubscribeRecordChange registers a handler and returns its unsubscribe
// function. Handlers run synchronously, in the goroutine that publishes.
func (b *Bus) SubscribeRecordChange(fn func(storage.RecordChange)) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// PublishRecordChange delivers a record mutation to every subscriber.
func (b *Bus) PublishRecordChange(ch storage.RecordChange) {
	b.mu.Lock()
	handlers := make([]func(storage.RecordChange), 0, len(b.subs))
	for _, fn := range b.subs {
		handlers = append(handlers, fn)
	}
	b.mu.Unlock()

	for _, fn := range handlers {
		fn(ch)
	}
}

// Wire connects a Storage's record-change callback to the bus, so that any
// completion toggle is broadcast regardless of which screen performed it.
func (b *Bus) Wire(store *storage.Storage) {
	store.SetOnRecordChange(b.PublishRecordChange)
}

package realtime

import (
	"context"
	"sync"
	"sync/atomic"
)

const defaultBuffer = 64

var _ Broker = (*MemoryBroker)(nil)

// MemoryBroker broker en proceso. Un suscriptor lento no bloquea al publicador:
// si su buffer está lleno el evento se descarta y se contabiliza.
type MemoryBroker struct {
	mu      sync.RWMutex
	subs    map[string]map[int]chan Event
	nextID  int
	buffer  int
	dropped atomic.Int64
}

// NewMemoryBroker construye el broker. buffer <= 0 usa 64.
func NewMemoryBroker(buffer int) *MemoryBroker {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &MemoryBroker{subs: map[string]map[int]chan Event{}, buffer: buffer}
}

func (b *MemoryBroker) Publish(_ context.Context, key string, ev Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs[key] {
		select {
		case ch <- ev:
		default:
			b.dropped.Add(1)
		}
	}
	return nil
}

func (b *MemoryBroker) Subscribe(_ context.Context, key string) (<-chan Event, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	ch := make(chan Event, b.buffer)
	if b.subs[key] == nil {
		b.subs[key] = map[int]chan Event{}
	}
	b.subs[key][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[key], id)
			if len(b.subs[key]) == 0 {
				delete(b.subs, key)
			}
			close(ch)
		})
	}
	return ch, cancel, nil
}

// Dropped eventos descartados por suscriptores saturados.
func (b *MemoryBroker) Dropped() int64 {
	return b.dropped.Load()
}

// Subscribers número de suscriptores activos de una clave.
func (b *MemoryBroker) Subscribers(key string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[key])
}

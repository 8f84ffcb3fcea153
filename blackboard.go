package tickfsm

import "sync"

// Blackboard is thread-safe keyed storage for owner data that states share,
// such as timers and counters in small demos.
type Blackboard struct {
	mu   sync.RWMutex
	data map[string]any
}

func NewBlackboard() *Blackboard {
	return &Blackboard{
		data: make(map[string]any),
	}
}

// Get returns nil for a missing key.
func (b *Blackboard) Get(key string) any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.data[key]
}

func (b *Blackboard) Set(key string, value any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = value
}

// Value returns the entry for key as T. ok is false when the key is missing
// or holds another type.
func Value[T any](b *Blackboard, key string) (T, bool) {
	v, ok := b.Get(key).(T)
	return v, ok
}

// Add adds delta to a float64 entry, treating a missing key as zero, and
// returns the new value.
func (b *Blackboard) Add(key string, delta float64) float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, _ := b.data[key].(float64)
	v += delta
	b.data[key] = v
	return v
}

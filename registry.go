package tickfsm

import "fmt"

// Registry holds the per-machine singleton for every variant the machine has seen.
// Instances are created lazily and never evicted.
type Registry[O any] struct {
	machine   *Machine[O]
	factories map[StateID]func() State[O]
	instances map[StateID]State[O]
	order     []StateID
}

func newRegistry[O any](m *Machine[O]) *Registry[O] {
	return &Registry[O]{
		machine:   m,
		factories: make(map[StateID]func() State[O]),
		instances: make(map[StateID]State[O]),
	}
}

// Register records the constructor for v. Registering an ID again keeps the
// first constructor.
func (r *Registry[O]) Register(v Variant[O]) error {
	if !v.valid() {
		return fmt.Errorf("register %q: %w", v.ID, ErrInvalidVariant)
	}
	if _, ok := r.factories[v.ID]; ok {
		return nil
	}
	r.factories[v.ID] = v.New
	r.order = append(r.order, v.ID)
	return nil
}

// GetOrCreate returns the singleton for v, constructing and binding it on first use.
func (r *Registry[O]) GetOrCreate(v Variant[O]) (State[O], error) {
	if err := r.Register(v); err != nil {
		return nil, err
	}
	return r.Lookup(v.ID)
}

// Lookup returns the singleton for a registered ID.
func (r *Registry[O]) Lookup(id StateID) (State[O], error) {
	if s, ok := r.instances[id]; ok {
		return s, nil
	}
	newFn, ok := r.factories[id]
	if !ok {
		return nil, fmt.Errorf("state %q: %w", id, ErrUnregisteredState)
	}
	s := newFn()
	if s == nil {
		return nil, fmt.Errorf("state %q: constructor returned nil: %w", id, ErrInvalidVariant)
	}
	s.bind(r.machine, id)
	r.instances[id] = s
	return s, nil
}

// Has reports whether id has a registered constructor.
func (r *Registry[O]) Has(id StateID) bool {
	_, ok := r.factories[id]
	return ok
}

// IDs returns registered IDs in registration order.
func (r *Registry[O]) IDs() []StateID {
	return append([]StateID(nil), r.order...)
}

func (r *Registry[O]) Len() int {
	return len(r.order)
}

package tickfsm

import "context"

type StateID string
type EventID string

const (
	// NoState is passed as prev to the first OnEnter after Start.
	NoState StateID = ""
	// AnyState is the wildcard source consulted when the current state has no entry.
	AnyState StateID = "*"
)

// State is one variant's behavior. Implementations embed Base[O], which
// provides no-op hooks and the back-reference to the owning machine.
type State[O any] interface {
	OnEnter(ctx context.Context, prev StateID)
	OnUpdate(ctx context.Context)
	OnExit(ctx context.Context, next StateID)

	bind(m *Machine[O], id StateID)
}

// Variant pairs a state tag with the constructor for its singleton instance.
type Variant[O any] struct {
	ID  StateID
	New func() State[O]
}

func NewVariant[O any](id StateID, newFn func() State[O]) Variant[O] {
	return Variant[O]{ID: id, New: newFn}
}

func (v Variant[O]) valid() bool {
	return v.ID != NoState && v.ID != AnyState && v.New != nil
}

// Base is embedded by every state. Its zero value is ready; the registry
// binds it when the instance is created.
type Base[O any] struct {
	machine *Machine[O]
	id      StateID
}

func (b *Base[O]) bind(m *Machine[O], id StateID) {
	b.machine = m
	b.id = id
}

// Machine returns the machine this state instance belongs to.
func (b *Base[O]) Machine() *Machine[O] {
	return b.machine
}

// Owner returns the owning context handle.
func (b *Base[O]) Owner() O {
	return b.machine.Owner()
}

func (b *Base[O]) ID() StateID {
	return b.id
}

// Dispatch forwards to the owning machine.
func (b *Base[O]) Dispatch(ctx context.Context, ev EventID) error {
	return b.machine.Dispatch(ctx, ev)
}

func (*Base[O]) OnEnter(context.Context, StateID) {}
func (*Base[O]) OnUpdate(context.Context)         {}
func (*Base[O]) OnExit(context.Context, StateID)  {}

// Funcs is a state built from plain functions. Nil hooks are no-ops.
type Funcs[O any] struct {
	Base[O]
	Enter  func(ctx context.Context, m *Machine[O], prev StateID)
	Update func(ctx context.Context, m *Machine[O])
	Exit   func(ctx context.Context, m *Machine[O], next StateID)
}

func (f *Funcs[O]) OnEnter(ctx context.Context, prev StateID) {
	if f.Enter != nil {
		f.Enter(ctx, f.machine, prev)
	}
}

func (f *Funcs[O]) OnUpdate(ctx context.Context) {
	if f.Update != nil {
		f.Update(ctx, f.machine)
	}
}

func (f *Funcs[O]) OnExit(ctx context.Context, next StateID) {
	if f.Exit != nil {
		f.Exit(ctx, f.machine, next)
	}
}

// FuncVariant builds a variant whose instance is a fresh Funcs with the given hooks.
func FuncVariant[O any](id StateID, hooks Funcs[O]) Variant[O] {
	return Variant[O]{
		ID: id,
		New: func() State[O] {
			f := hooks
			return &f
		},
	}
}

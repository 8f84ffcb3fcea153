package tickfsm

import (
	"context"
	"errors"
	"fmt"
)

// Builder assembles a machine from variants and ID-keyed edges. Errors are
// collected and reported together by Build.
type Builder[O any] struct {
	owner    O
	opts     []Option
	variants []Variant[O]
	known    map[StateID]bool
	edges    []Transition
	initial  StateID
	errs     []error
}

// StateBuilder adds edges leaving a single state.
type StateBuilder[O any] struct {
	b  *Builder[O]
	id StateID
}

// NewBuilder starts a builder for owner. opts are passed to New.
func NewBuilder[O any](owner O, opts ...Option) *Builder[O] {
	return &Builder[O]{
		owner: owner,
		opts:  opts,
		known: make(map[StateID]bool),
	}
}

// State declares v and returns a builder for its outgoing edges. The first
// declared state becomes the initial state unless Initial is called.
func (b *Builder[O]) State(v Variant[O]) *StateBuilder[O] {
	if !v.valid() {
		b.errs = append(b.errs, fmt.Errorf("state %q: %w", v.ID, ErrInvalidVariant))
		return &StateBuilder[O]{b: b, id: v.ID}
	}
	if !b.known[v.ID] {
		b.known[v.ID] = true
		b.variants = append(b.variants, v)
		if b.initial == NoState {
			b.initial = v.ID
		}
	}
	return &StateBuilder[O]{b: b, id: v.ID}
}

// Any adds a wildcard edge taken from any state without its own mapping for ev.
func (b *Builder[O]) Any(ev EventID, to StateID) *Builder[O] {
	b.edges = append(b.edges, Transition{From: AnyState, Event: ev, To: to})
	return b
}

// Initial overrides the state entered by Start.
func (b *Builder[O]) Initial(id StateID) *Builder[O] {
	b.initial = id
	return b
}

// InitialState returns the state Start will enter.
func (b *Builder[O]) InitialState() StateID {
	return b.initial
}

// Build validates the declarations and returns an unstarted machine.
func (b *Builder[O]) Build() (*Machine[O], error) {
	errs := append([]error(nil), b.errs...)
	if b.initial == NoState {
		errs = append(errs, errors.New("no states declared"))
	} else if !b.known[b.initial] {
		errs = append(errs, fmt.Errorf("initial %q: %w", b.initial, ErrUnregisteredState))
	}

	m := New(b.owner, b.opts...)
	if err := m.Register(b.variants...); err != nil {
		errs = append(errs, err)
	}
	for _, e := range b.edges {
		if err := m.Link(e.From, e.Event, e.To); err != nil {
			errs = append(errs, fmt.Errorf("edge %s --%s--> %s: %w", e.From, e.Event, e.To, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

// Start builds the machine and enters the initial state.
func (b *Builder[O]) Start(ctx context.Context) (*Machine[O], error) {
	m, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := m.StartAt(ctx, b.initial); err != nil {
		return nil, err
	}
	return m, nil
}

// On adds an edge from this state to to on ev.
func (sb *StateBuilder[O]) On(ev EventID, to StateID) *StateBuilder[O] {
	sb.b.edges = append(sb.b.edges, Transition{From: sb.id, Event: ev, To: to})
	return sb
}

// State declares another state, allowing chained declarations.
func (sb *StateBuilder[O]) State(v Variant[O]) *StateBuilder[O] {
	return sb.b.State(v)
}

// Done returns the parent builder.
func (sb *StateBuilder[O]) Done() *Builder[O] {
	return sb.b
}

package tickfsm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Machine is a single-active-state machine bound to an owner of type O.
// It is not safe for concurrent use: Start, Tick and Dispatch are expected to
// run on the owner's update goroutine.
type Machine[O any] struct {
	owner    O
	name     string
	registry *Registry[O]
	table    *TransitionTable

	current    State[O]
	currentID  StateID
	previous   State[O]
	previousID StateID

	started  bool
	exiting  bool
	depth    int
	maxDepth int
	ticks    uint64

	logger    zerolog.Logger
	observers []Observer
}

// New creates a machine for owner. Variants and transitions are added before Start.
func New[O any](owner O, opts ...Option) *Machine[O] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	m := &Machine[O]{
		owner:     owner,
		name:      o.name,
		table:     NewTransitionTable(),
		maxDepth:  o.maxDepth,
		logger:    o.logger.With().Str("machine", o.name).Logger(),
		observers: o.observers,
	}
	m.registry = newRegistry(m)
	return m
}

//
// Setup
//

// Register adds variants without wiring transitions.
func (m *Machine[O]) Register(variants ...Variant[O]) error {
	for _, v := range variants {
		if err := m.registry.Register(v); err != nil {
			return err
		}
	}
	return nil
}

// GetOrCreate returns the machine's singleton for v.
func (m *Machine[O]) GetOrCreate(v Variant[O]) (State[O], error) {
	return m.registry.GetOrCreate(v)
}

// AddTransition wires from --ev--> to, registering both variants if needed.
func (m *Machine[O]) AddTransition(from Variant[O], ev EventID, to Variant[O]) error {
	if !from.valid() {
		return fmt.Errorf("add transition on %q: from: %w", ev, ErrInvalidVariant)
	}
	if !to.valid() {
		return fmt.Errorf("add transition on %q: to: %w", ev, ErrInvalidVariant)
	}
	return m.addEdge(from.ID, ev, to.ID, func() error {
		if _, err := m.registry.GetOrCreate(from); err != nil {
			return err
		}
		_, err := m.registry.GetOrCreate(to)
		return err
	})
}

// AddWildcardTransition wires ev from any state to to.
func (m *Machine[O]) AddWildcardTransition(ev EventID, to Variant[O]) error {
	if !to.valid() {
		return fmt.Errorf("add wildcard transition on %q: %w", ev, ErrInvalidVariant)
	}
	return m.addEdge(AnyState, ev, to.ID, func() error {
		_, err := m.registry.GetOrCreate(to)
		return err
	})
}

// Link wires already registered states by ID. from may be AnyState.
func (m *Machine[O]) Link(from StateID, ev EventID, to StateID) error {
	return m.addEdge(from, ev, to, func() error {
		if from != AnyState {
			if _, err := m.registry.Lookup(from); err != nil {
				return err
			}
		}
		_, err := m.registry.Lookup(to)
		return err
	})
}

// addEdge rejects malformed and duplicate edges before touching the
// registry, so a rejected edge registers nothing.
func (m *Machine[O]) addEdge(from StateID, ev EventID, to StateID, register func() error) error {
	if from == NoState || ev == "" || to == NoState || to == AnyState {
		return fmt.Errorf("edge %s --%s--> %s: %w", from, ev, to, ErrInvalidTransition)
	}
	if m.table.Has(from, ev) {
		existing, _ := m.table.Resolve(from, ev)
		err := &DuplicateTransitionError{From: from, Event: ev, Existing: existing, Rejected: to}
		m.logger.Error().Err(err).Msg("transition rejected")
		return err
	}
	if err := register(); err != nil {
		return err
	}
	return m.table.Add(from, ev, to)
}

//
// Lifecycle
//

// Start enters v. It must be called exactly once, before Tick or Dispatch.
func (m *Machine[O]) Start(ctx context.Context, v Variant[O]) error {
	if m.started {
		return ErrAlreadyStarted
	}
	s, err := m.registry.GetOrCreate(v)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	m.enterInitial(ctx, s, v.ID)
	return nil
}

// StartAt enters a state that was registered earlier, by ID.
func (m *Machine[O]) StartAt(ctx context.Context, id StateID) error {
	if m.started {
		return ErrAlreadyStarted
	}
	s, err := m.registry.Lookup(id)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	m.enterInitial(ctx, s, id)
	return nil
}

func (m *Machine[O]) enterInitial(ctx context.Context, s State[O], id StateID) {
	m.current, m.currentID = s, id
	m.started = true
	m.logger.Debug().Str("state", string(id)).Msg("start")
	m.notify(ctx, TransitionRecord{Kind: KindStart, From: NoState, To: id})
	s.OnEnter(ctx, NoState)
}

// Tick runs the current state's OnUpdate once.
func (m *Machine[O]) Tick(ctx context.Context) error {
	if !m.started {
		return ErrNotStarted
	}
	m.ticks++
	m.current.OnUpdate(ctx)
	return nil
}

// Dispatch resolves ev against the current state and, on a match, runs
// OnExit(next), reassigns the current state, then OnEnter(prev). A miss
// returns a *NoSuchTransitionError and leaves the machine untouched.
func (m *Machine[O]) Dispatch(ctx context.Context, ev EventID) error {
	if !m.started {
		return ErrNotStarted
	}
	if m.exiting {
		return fmt.Errorf("dispatch %q while leaving %q: %w", ev, m.currentID, ErrDispatchInExit)
	}

	toID, ok := m.table.Resolve(m.currentID, ev)
	if !ok {
		err := &NoSuchTransitionError{State: m.currentID, Event: ev}
		m.logger.Warn().Str("state", string(m.currentID)).Str("event", string(ev)).Msg("no transition")
		m.notify(ctx, TransitionRecord{Kind: KindMiss, From: m.currentID, To: m.currentID, Event: ev})
		return err
	}

	if m.maxDepth > 0 && m.depth >= m.maxDepth {
		m.logger.Error().
			Str("state", string(m.currentID)).
			Str("event", string(ev)).
			Int("depth", m.depth).
			Msg("cascade limit reached")
		return fmt.Errorf("dispatch %q at depth %d: %w", ev, m.depth, ErrCascadeLimit)
	}

	next, err := m.registry.Lookup(toID)
	if err != nil {
		return err
	}

	m.depth++
	defer func() { m.depth-- }()

	fromID, from := m.currentID, m.current

	m.exitState(ctx, from, toID)

	m.previous, m.previousID = from, fromID
	m.current, m.currentID = next, toID

	m.logger.Debug().
		Str("from", string(fromID)).
		Str("to", string(toID)).
		Str("event", string(ev)).
		Int("depth", m.depth).
		Msg("transition")
	m.notify(ctx, TransitionRecord{Kind: KindTransition, From: fromID, To: toID, Event: ev})

	next.OnEnter(ctx, fromID)
	return nil
}

// exitState runs OnExit with Dispatch locked out. The lock is released even
// if the hook panics, so a recovered tick leaves the machine usable.
func (m *Machine[O]) exitState(ctx context.Context, s State[O], next StateID) {
	m.exiting = true
	defer func() { m.exiting = false }()
	s.OnExit(ctx, next)
}

// ChangePrev swaps the current and previous states without running any hooks.
func (m *Machine[O]) ChangePrev(ctx context.Context) error {
	if !m.started {
		return ErrNotStarted
	}
	if m.previous == nil {
		return ErrNoPreviousState
	}
	fromID := m.currentID
	m.current, m.previous = m.previous, m.current
	m.currentID, m.previousID = m.previousID, m.currentID
	m.logger.Debug().Str("from", string(fromID)).Str("to", string(m.currentID)).Msg("revert")
	m.notify(ctx, TransitionRecord{Kind: KindRevert, From: fromID, To: m.currentID})
	return nil
}

func (m *Machine[O]) notify(ctx context.Context, rec TransitionRecord) {
	if len(m.observers) == 0 {
		return
	}
	rec.Machine = m.name
	rec.Tick = m.ticks
	rec.Depth = m.depth
	for _, o := range m.observers {
		o.Observe(ctx, rec)
	}
}

//
// Queries
//

// IsCurrent reports whether id is the active state. It is false before Start.
func (m *Machine[O]) IsCurrent(id StateID) bool {
	return m.started && m.currentID == id
}

// Current returns the active state ID, or NoState before Start.
func (m *Machine[O]) Current() StateID {
	return m.currentID
}

// Previous returns the state left by the last transition, or NoState.
func (m *Machine[O]) Previous() StateID {
	return m.previousID
}

// CurrentState returns the active instance, or nil before Start.
func (m *Machine[O]) CurrentState() State[O] {
	return m.current
}

func (m *Machine[O]) Owner() O {
	return m.owner
}

func (m *Machine[O]) Name() string {
	return m.name
}

func (m *Machine[O]) Started() bool {
	return m.started
}

// Ticks returns how many times Tick has run.
func (m *Machine[O]) Ticks() uint64 {
	return m.ticks
}

// States returns registered state IDs in registration order.
func (m *Machine[O]) States() []StateID {
	return m.registry.IDs()
}

// Transitions returns the transition table rows in registration order.
func (m *Machine[O]) Transitions() []Transition {
	return m.table.Transitions()
}

func (m *Machine[O]) Registry() *Registry[O] {
	return m.registry
}

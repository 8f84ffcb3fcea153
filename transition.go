package tickfsm

// Transition is one row of the table.
type Transition struct {
	From  StateID `json:"from" yaml:"from"`
	Event EventID `json:"event" yaml:"event"`
	To    StateID `json:"to" yaml:"to"`
}

// TransitionTable maps (from, event) to a destination. Rows stored under
// AnyState form the wildcard table.
type TransitionTable struct {
	edges map[StateID]map[EventID]StateID
	order []Transition
}

func NewTransitionTable() *TransitionTable {
	return &TransitionTable{
		edges: make(map[StateID]map[EventID]StateID),
	}
}

// Add inserts from --ev--> to. A pair that is already present is rejected
// and the existing row is left untouched.
func (t *TransitionTable) Add(from StateID, ev EventID, to StateID) error {
	if from == NoState || ev == "" || to == NoState || to == AnyState {
		return ErrInvalidTransition
	}
	row, ok := t.edges[from]
	if !ok {
		row = make(map[EventID]StateID)
		t.edges[from] = row
	}
	if existing, dup := row[ev]; dup {
		return &DuplicateTransitionError{From: from, Event: ev, Existing: existing, Rejected: to}
	}
	row[ev] = to
	t.order = append(t.order, Transition{From: from, Event: ev, To: to})
	return nil
}

// Has reports whether (from, ev) is registered directly. The wildcard table
// is not consulted unless from is AnyState.
func (t *TransitionTable) Has(from StateID, ev EventID) bool {
	_, ok := t.edges[from][ev]
	return ok
}

// Resolve looks up current's own row first, then the wildcard row.
func (t *TransitionTable) Resolve(current StateID, ev EventID) (StateID, bool) {
	if to, ok := t.edges[current][ev]; ok {
		return to, true
	}
	if to, ok := t.edges[AnyState][ev]; ok {
		return to, true
	}
	return NoState, false
}

// Transitions returns all rows in registration order.
func (t *TransitionTable) Transitions() []Transition {
	return append([]Transition(nil), t.order...)
}

func (t *TransitionTable) Len() int {
	return len(t.order)
}

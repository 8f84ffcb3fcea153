// Package topology describes a machine's transition table as a document that
// can be kept in YAML, TOML or JSON and applied to a tickfsm.Machine.
package topology

import (
	"errors"
	"fmt"

	"github.com/comalice/tickfsm"
)

// Document is the serialized form of a transition table.
type Document struct {
	Version     string         `json:"version,omitempty" yaml:"version,omitempty" toml:"version,omitempty"`
	Name        string         `json:"name" yaml:"name" toml:"name"`
	Initial     string         `json:"initial" yaml:"initial" toml:"initial"`
	States      []string       `json:"states,omitempty" yaml:"states,omitempty" toml:"states,omitempty"`
	Transitions []Edge         `json:"transitions,omitempty" yaml:"transitions,omitempty" toml:"transitions,omitempty"`
	Wildcard    []WildcardEdge `json:"wildcard,omitempty" yaml:"wildcard,omitempty" toml:"wildcard,omitempty"`
}

// Edge is from --event--> to.
type Edge struct {
	From  string `json:"from" yaml:"from" toml:"from"`
	Event string `json:"event" yaml:"event" toml:"event"`
	To    string `json:"to" yaml:"to" toml:"to"`
}

// WildcardEdge is taken from any state that has no own entry for Event.
type WildcardEdge struct {
	Event string `json:"event" yaml:"event" toml:"event"`
	To    string `json:"to" yaml:"to" toml:"to"`
}

// Validate reports every problem in the document at once.
func (d *Document) Validate() error {
	var errs []error
	if d.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if d.Initial == "" {
		errs = append(errs, errors.New("initial state is required"))
	} else if d.Initial == string(tickfsm.AnyState) {
		errs = append(errs, fmt.Errorf("initial cannot be the wildcard %q", tickfsm.AnyState))
	}

	for _, s := range d.States {
		if s == "" || s == string(tickfsm.AnyState) {
			errs = append(errs, fmt.Errorf("invalid state name %q", s))
		}
	}

	seen := make(map[[2]string]bool)
	for i, e := range d.Transitions {
		if e.From == "" || e.Event == "" || e.To == "" {
			errs = append(errs, fmt.Errorf("transition %d: from, event and to are required", i))
			continue
		}
		if e.From == string(tickfsm.AnyState) {
			errs = append(errs, fmt.Errorf("transition %d: use the wildcard list for %q sources", i, tickfsm.AnyState))
			continue
		}
		if e.To == string(tickfsm.AnyState) {
			errs = append(errs, fmt.Errorf("transition %d: destination cannot be the wildcard", i))
			continue
		}
		key := [2]string{e.From, e.Event}
		if seen[key] {
			errs = append(errs, fmt.Errorf("transition %d: %q on %q: %w", i, e.From, e.Event, tickfsm.ErrDuplicateTransition))
		}
		seen[key] = true
	}
	for i, w := range d.Wildcard {
		if w.Event == "" || w.To == "" {
			errs = append(errs, fmt.Errorf("wildcard %d: event and to are required", i))
			continue
		}
		if w.To == string(tickfsm.AnyState) {
			errs = append(errs, fmt.Errorf("wildcard %d: destination cannot be the wildcard", i))
			continue
		}
		key := [2]string{string(tickfsm.AnyState), w.Event}
		if seen[key] {
			errs = append(errs, fmt.Errorf("wildcard %d: on %q: %w", i, w.Event, tickfsm.ErrDuplicateTransition))
		}
		seen[key] = true
	}

	if d.Initial != "" && len(d.Transitions)+len(d.Wildcard)+len(d.States) > 0 && !d.references(d.Initial) {
		errs = append(errs, fmt.Errorf("initial %q is not referenced by any state or edge", d.Initial))
	}
	return errors.Join(errs...)
}

func (d *Document) references(id string) bool {
	for _, s := range d.StateIDs() {
		if string(s) == id {
			return true
		}
	}
	return false
}

// StateIDs returns every state the document names, in first-mention order:
// the explicit list, then edge endpoints, then wildcard destinations.
// Initial is included only when nothing else names a state.
func (d *Document) StateIDs() []tickfsm.StateID {
	var ids []tickfsm.StateID
	seen := make(map[string]bool)
	add := func(s string) {
		if s == "" || s == string(tickfsm.AnyState) || seen[s] {
			return
		}
		seen[s] = true
		ids = append(ids, tickfsm.StateID(s))
	}
	for _, s := range d.States {
		add(s)
	}
	for _, e := range d.Transitions {
		add(e.From)
		add(e.To)
	}
	for _, w := range d.Wildcard {
		add(w.To)
	}
	if len(ids) == 0 {
		add(d.Initial)
	}
	return ids
}

// Table converts the document to transition rows, wildcard rows last.
func (d *Document) Table() []tickfsm.Transition {
	rows := make([]tickfsm.Transition, 0, len(d.Transitions)+len(d.Wildcard))
	for _, e := range d.Transitions {
		rows = append(rows, tickfsm.Transition{
			From:  tickfsm.StateID(e.From),
			Event: tickfsm.EventID(e.Event),
			To:    tickfsm.StateID(e.To),
		})
	}
	for _, w := range d.Wildcard {
		rows = append(rows, tickfsm.Transition{
			From:  tickfsm.AnyState,
			Event: tickfsm.EventID(w.Event),
			To:    tickfsm.StateID(w.To),
		})
	}
	return rows
}

// FromMachine captures a machine's table as a document. initial is usually
// the state the machine was started in.
func FromMachine(name string, initial tickfsm.StateID, states []tickfsm.StateID, rows []tickfsm.Transition) *Document {
	d := &Document{Name: name, Initial: string(initial)}
	for _, s := range states {
		d.States = append(d.States, string(s))
	}
	for _, r := range rows {
		if r.From == tickfsm.AnyState {
			d.Wildcard = append(d.Wildcard, WildcardEdge{Event: string(r.Event), To: string(r.To)})
			continue
		}
		d.Transitions = append(d.Transitions, Edge{From: string(r.From), Event: string(r.Event), To: string(r.To)})
	}
	return d
}

package tickfsm_test

import (
	"errors"
	"testing"

	. "github.com/comalice/tickfsm"
)

func TestTransitionTableAdd(t *testing.T) {
	tests := []struct {
		name    string
		from    StateID
		ev      EventID
		to      StateID
		wantErr error
	}{
		{"valid", "a", "go", "b", nil},
		{"wildcard source", AnyState, "go", "b", nil},
		{"self", "a", "stay", "a", nil},
		{"empty from", NoState, "go", "b", ErrInvalidTransition},
		{"empty event", "a", "", "b", ErrInvalidTransition},
		{"empty to", "a", "go", NoState, ErrInvalidTransition},
		{"wildcard destination", "a", "go", AnyState, ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewTransitionTable().Add(tt.from, tt.ev, tt.to)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTransitionTableResolve(t *testing.T) {
	tbl := NewTransitionTable()
	tbl.Add("a", "go", "b")
	tbl.Add(AnyState, "go", "c")
	tbl.Add(AnyState, "reset", "a")

	tests := []struct {
		current StateID
		ev      EventID
		want    StateID
		ok      bool
	}{
		{"a", "go", "b", true},
		{"b", "go", "c", true},
		{"b", "reset", "a", true},
		{"a", "reset", "a", true},
		{"a", "missing", NoState, false},
	}
	for _, tt := range tests {
		got, ok := tbl.Resolve(tt.current, tt.ev)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Resolve(%q, %q) = %q, %v; want %q, %v", tt.current, tt.ev, got, ok, tt.want, tt.ok)
		}
	}
	if tbl.Has("b", "go") {
		t.Error("Has consulted the wildcard row")
	}
	if tbl.Len() != 3 {
		t.Errorf("len = %d", tbl.Len())
	}
}

func TestTransitionTableDuplicate(t *testing.T) {
	tbl := NewTransitionTable()
	tbl.Add("a", "go", "b")
	err := tbl.Add("a", "go", "c")
	if !IsDuplicateTransition(err) {
		t.Fatalf("err = %v", err)
	}
	if to, _ := tbl.Resolve("a", "go"); to != "b" {
		t.Errorf("resolve = %q, want first mapping b", to)
	}
	if len(tbl.Transitions()) != 1 {
		t.Error("duplicate row appended")
	}
}

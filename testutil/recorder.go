package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/comalice/tickfsm"
)

// Recorder collects hook calls in the order they happen, formatted as
// "enter:<id><-<prev>", "update:<id>" and "exit:<id>-><next>".
type Recorder struct {
	mu    sync.Mutex
	calls []string
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) add(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// Count returns how many recorded calls equal call.
func (r *Recorder) Count(call string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c == call {
			n++
		}
	}
	return n
}

// Variant returns a variant whose hooks only record. extra, when non-nil,
// supplies hooks that run after the recording.
func Variant[O any](r *Recorder, id tickfsm.StateID, extra *tickfsm.Funcs[O]) tickfsm.Variant[O] {
	var hooks tickfsm.Funcs[O]
	if extra != nil {
		hooks.Enter, hooks.Update, hooks.Exit = extra.Enter, extra.Update, extra.Exit
	}
	enter, update, exit := hooks.Enter, hooks.Update, hooks.Exit

	return tickfsm.FuncVariant(id, tickfsm.Funcs[O]{
		Enter: func(ctx context.Context, m *tickfsm.Machine[O], prev tickfsm.StateID) {
			r.add("enter:%s<-%s", id, prev)
			if enter != nil {
				enter(ctx, m, prev)
			}
		},
		Update: func(ctx context.Context, m *tickfsm.Machine[O]) {
			r.add("update:%s", id)
			if update != nil {
				update(ctx, m)
			}
		},
		Exit: func(ctx context.Context, m *tickfsm.Machine[O], next tickfsm.StateID) {
			r.add("exit:%s->%s", id, next)
			if exit != nil {
				exit(ctx, m, next)
			}
		},
	})
}

// Observer returns an observer that records every TransitionRecord as
// "<kind>:<from>-><to>".
func (r *Recorder) Observer() tickfsm.Observer {
	return tickfsm.ObserverFunc(func(_ context.Context, rec tickfsm.TransitionRecord) {
		r.add("%s:%s->%s", rec.Kind, rec.From, rec.To)
	})
}

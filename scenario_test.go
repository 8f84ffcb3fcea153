package tickfsm_test

import (
	"context"
	"testing"
	"time"

	. "github.com/comalice/tickfsm"
	"github.com/comalice/tickfsm/timer"
)

type walker struct {
	dt float64
}

// countdown accumulates the owner's frame delta and fires event once the
// total passes 3.0.
type countdown struct {
	Base[*walker]
	event   EventID
	elapsed float64
}

func (c *countdown) OnEnter(context.Context, StateID) { c.elapsed = 0 }

func (c *countdown) OnUpdate(ctx context.Context) {
	c.elapsed += c.Owner().dt
	if c.elapsed > 3.0 {
		c.Dispatch(ctx, c.event)
	}
}

func countdownVariant(id StateID, ev EventID) Variant[*walker] {
	return NewVariant(id, func() State[*walker] { return &countdown{event: ev} })
}

func TestWaitMoveSleepCycle(t *testing.T) {
	ctx := context.Background()
	wait := countdownVariant("Wait", "move")
	move := countdownVariant("Move", "sleep")
	sleep := countdownVariant("Sleep", "wait")

	m := New(&walker{dt: 1.1})
	for _, e := range []struct {
		from Variant[*walker]
		ev   EventID
		to   Variant[*walker]
	}{
		{wait, "move", move},
		{move, "sleep", sleep},
		{sleep, "wait", wait},
	} {
		if err := m.AddTransition(e.from, e.ev, e.to); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.Start(ctx, wait); err != nil {
		t.Fatal(err)
	}

	order := []StateID{"Move", "Sleep", "Wait", "Move", "Sleep", "Wait"}
	for cycle, want := range order {
		for i := 0; i < 2; i++ {
			m.Tick(ctx)
			if m.IsCurrent(want) {
				t.Fatalf("step %d: reached %s after %d ticks, threshold not respected", cycle, want, i+1)
			}
		}
		m.Tick(ctx)
		if !m.IsCurrent(want) {
			t.Fatalf("step %d: current = %s, want %s", cycle, m.Current(), want)
		}
	}
}

type enemy struct {
	timers *timer.Scheduler
}

type hunting struct {
	Base[*enemy]
	done *timer.Handle
}

func (h *hunting) OnEnter(context.Context, StateID) {
	h.done, _ = h.Owner().timers.After(2 * time.Second)
}

func (h *hunting) OnUpdate(ctx context.Context) {
	if h.done != nil && h.done.Fired() {
		h.Dispatch(ctx, "hunt_finish")
	}
}

func (h *hunting) OnExit(context.Context, StateID) {
	if h.done != nil {
		h.done.Cancel()
	}
}

func TestHuntingWaitsForTimedAction(t *testing.T) {
	ctx := context.Background()
	clk := timer.NewManualClock(time.Unix(0, 0))
	sched := timer.NewScheduler(timer.WithClock(clk))
	defer sched.Shutdown(ctx)

	hunt := NewVariant("Hunting", func() State[*enemy] { return &hunting{} })
	home := FuncVariant[*enemy]("MoveHome", Funcs[*enemy]{})

	m := New(&enemy{timers: sched})
	if err := m.AddTransition(hunt, "hunt_finish", home); err != nil {
		t.Fatal(err)
	}
	if err := m.Start(ctx, hunt); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 19; i++ {
		clk.Advance(100 * time.Millisecond)
		m.Tick(ctx)
		if !m.IsCurrent("Hunting") {
			t.Fatalf("left Hunting after %v", time.Duration(i+1)*100*time.Millisecond)
		}
	}

	clk.Advance(100 * time.Millisecond)
	if !m.IsCurrent("Hunting") {
		t.Fatal("transitioned without a tick")
	}
	m.Tick(ctx)
	if !m.IsCurrent("MoveHome") {
		t.Fatalf("current = %s, want MoveHome", m.Current())
	}
	if sched.Pending() != 0 {
		t.Errorf("pending actions = %d", sched.Pending())
	}
}

func TestHuntingInterruptedCancelsAction(t *testing.T) {
	ctx := context.Background()
	clk := timer.NewManualClock(time.Unix(0, 0))
	sched := timer.NewScheduler(timer.WithClock(clk))

	hunt := NewVariant("Hunting", func() State[*enemy] { return &hunting{} })
	stunned := FuncVariant[*enemy]("Stunned", Funcs[*enemy]{})

	m := New(&enemy{timers: sched})
	m.AddWildcardTransition("stun", stunned)
	m.Start(ctx, hunt)

	if err := m.Dispatch(ctx, "stun"); err != nil {
		t.Fatal(err)
	}
	if sched.Pending() != 0 {
		t.Errorf("leaving Hunting left %d actions pending", sched.Pending())
	}
}

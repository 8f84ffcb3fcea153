// Package timer schedules delayed one-shot actions for states that must wait
// without blocking their update loop.
//
// A state typically schedules in OnEnter, polls Handle.Fired in OnUpdate and
// dispatches once the action has completed. Callbacks run on the clock's
// goroutine; ManualClock makes them deterministic in tests.
package timer

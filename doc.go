// Package tickfsm is a small finite-state-machine runtime for objects driven
// by a per-frame update loop.
//
// A Machine is bound to an owner and holds exactly one active State. States
// are registered as variants, created lazily, and kept as per-machine
// singletons so their fields survive across visits. Events resolve through a
// transition table keyed by (state, event), falling back to wildcard rows
// registered with AnyState.
//
// A transition runs OnExit on the old state, makes the destination current,
// then runs OnEnter. Tick runs OnUpdate on whichever state is current.
//
//	m := tickfsm.New(owner, tickfsm.WithName("enemy"))
//	m.AddTransition(moveSea, "arrived", hunting)
//	m.AddWildcardTransition("stunned", stunned)
//	m.Start(ctx, moveSea)
//	for range frames {
//		m.Tick(ctx)
//	}
//
// A Machine is not safe for concurrent use. The realtime package drives
// many machines from one goroutine and accepts events from any goroutine.
package tickfsm

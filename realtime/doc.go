// Package realtime drives tickfsm machines from a fixed-rate loop.
//
// Events are batched and applied at tick boundaries:
//   - events sent between ticks are queued, not dispatched immediately
//   - each batch is ordered by priority, then by submission order
//   - every machine then ticks once, in the order it was added
//
// # Example Usage
//
//	rt := realtime.New(realtime.Config{TickRate: 16667 * time.Microsecond})
//	rt.Add(enemy, honey)
//	go rt.Run(ctx)
//	rt.Send("honey", "receive_fish")
//
// The frame being processed is stored in the context passed to hooks, so a
// state reads its delta with realtime.Delta(ctx).
//
// # Event Ordering Guarantees
//
//  1. Priority (higher priority processed first)
//  2. Sequence number (FIFO for same priority)
//  3. Stable sorting (preserves relative order)
//
// Given the same sequence of Send calls and deltas, Step always produces the
// same transitions.
//
// Each tick runs inside an OpenTelemetry span named "realtime.tick". With no
// tracer provider configured the span is a no-op.
package realtime

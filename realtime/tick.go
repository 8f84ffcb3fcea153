package realtime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/comalice/tickfsm"
)

// Step processes one tick: queued events first, then one Tick per machine,
// then frame hooks. Misses are logged by the machines and not returned.
func (rt *Runtime) Step(ctx context.Context, dt time.Duration) error {
	n := rt.tickNum.Add(1)
	rt.elapsed += dt
	frame := Frame{Number: n, Delta: dt, Elapsed: rt.elapsed}

	ctx, span := rt.tracer.Start(WithFrame(ctx, frame), "realtime.tick",
		trace.WithAttributes(attribute.Int64("tick.number", int64(n))))
	defer span.End()

	events := rt.collectEvents()
	sortEvents(events)
	span.SetAttributes(attribute.Int("tick.events", len(events)))

	var errs []error
	errs = append(errs, rt.processEvents(ctx, events)...)

	rt.mu.RLock()
	machines := append([]Driven(nil), rt.machines...)
	rt.mu.RUnlock()
	for _, m := range machines {
		if err := m.Tick(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tick %q: %w", m.Name(), err))
		}
	}

	for _, h := range rt.hooks {
		h(ctx, frame)
	}

	err := errors.Join(errs...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "tick errors")
	}
	return err
}

// collectEvents atomically takes the pending batch.
func (rt *Runtime) collectEvents() []EventWithMeta {
	rt.batchMu.Lock()
	defer rt.batchMu.Unlock()

	events := rt.eventBatch
	rt.eventBatch = make([]EventWithMeta, 0, cap(rt.eventBatch))
	return events
}

func (rt *Runtime) processEvents(ctx context.Context, events []EventWithMeta) []error {
	var errs []error
	for _, ev := range events {
		rt.mu.RLock()
		m, ok := rt.byName[ev.Target]
		rt.mu.RUnlock()
		if !ok {
			rt.logger.Warn().Str("target", ev.Target).Str("event", string(ev.Event)).Msg("event for unknown machine")
			errs = append(errs, fmt.Errorf("event %q for %q: %w", ev.Event, ev.Target, ErrUnknownMachine))
			continue
		}
		if err := m.Dispatch(ctx, ev.Event); err != nil && !tickfsm.IsNoSuchTransition(err) {
			errs = append(errs, fmt.Errorf("dispatch %q to %q: %w", ev.Event, ev.Target, err))
		}
	}
	return errs
}

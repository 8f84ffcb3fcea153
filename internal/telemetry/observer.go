package telemetry

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/comalice/tickfsm"
)

// LogObserver logs state changes at info and misses at debug, so a normal
// run shows one line per transition.
func LogObserver(l zerolog.Logger) tickfsm.Observer {
	return tickfsm.ObserverFunc(func(_ context.Context, rec tickfsm.TransitionRecord) {
		ev := l.Info()
		if rec.Kind == tickfsm.KindMiss {
			ev = l.Debug()
		}
		ev.Str("machine", rec.Machine).
			Str("kind", string(rec.Kind)).
			Str("from", string(rec.From)).
			Str("to", string(rec.To)).
			Str("event", string(rec.Event)).
			Uint64("tick", rec.Tick).
			Msg("state change")
	})
}

// SpanObserver adds every record as an event on the span in the context,
// which is the tick span when machines run under realtime.
func SpanObserver() tickfsm.Observer {
	return tickfsm.ObserverFunc(func(ctx context.Context, rec tickfsm.TransitionRecord) {
		span := trace.SpanFromContext(ctx)
		if !span.IsRecording() {
			return
		}
		span.AddEvent("fsm."+string(rec.Kind), trace.WithAttributes(
			attribute.String("fsm.machine", rec.Machine),
			attribute.String("fsm.from", string(rec.From)),
			attribute.String("fsm.to", string(rec.To)),
			attribute.String("fsm.event", string(rec.Event)),
			attribute.Int("fsm.depth", rec.Depth),
		))
	})
}

package realtime

import (
	"context"
	"time"
)

// Frame describes the tick currently being processed.
type Frame struct {
	Number  uint64
	Delta   time.Duration
	Elapsed time.Duration
}

type frameKey struct{}

// WithFrame returns a context carrying f.
func WithFrame(ctx context.Context, f Frame) context.Context {
	return context.WithValue(ctx, frameKey{}, f)
}

// FrameFrom returns the frame stored in ctx, if any.
func FrameFrom(ctx context.Context) (Frame, bool) {
	f, ok := ctx.Value(frameKey{}).(Frame)
	return f, ok
}

// Delta returns the frame delta in seconds, or 0 outside a tick.
func Delta(ctx context.Context) float64 {
	f, ok := FrameFrom(ctx)
	if !ok {
		return 0
	}
	return f.Delta.Seconds()
}

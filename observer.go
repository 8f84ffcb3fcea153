package tickfsm

import (
	"context"
	"sync"
)

// RecordKind classifies a TransitionRecord.
type RecordKind string

const (
	KindStart      RecordKind = "start"
	KindTransition RecordKind = "transition"
	KindRevert     RecordKind = "revert"
	KindMiss       RecordKind = "miss"
)

// TransitionRecord describes one lifecycle change (or a rejected dispatch).
type TransitionRecord struct {
	Machine string     `json:"machine"`
	Kind    RecordKind `json:"kind"`
	From    StateID    `json:"from"`
	To      StateID    `json:"to"`
	Event   EventID    `json:"event,omitempty"`
	Tick    uint64     `json:"tick"`
	Depth   int        `json:"depth"`
}

// Observer is notified synchronously. For KindTransition the record is
// emitted after the current state is reassigned and before OnEnter runs.
type Observer interface {
	Observe(ctx context.Context, rec TransitionRecord)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, rec TransitionRecord)

func (f ObserverFunc) Observe(ctx context.Context, rec TransitionRecord) {
	f(ctx, rec)
}

// ChannelObserver forwards records to a channel. Records are dropped when
// the channel is full so a slow reader never stalls the tick loop. Records
// observed after Close are discarded.
type ChannelObserver struct {
	mu     sync.Mutex
	ch     chan<- TransitionRecord
	closed bool
}

func NewChannelObserver(ch chan<- TransitionRecord) *ChannelObserver {
	return &ChannelObserver{ch: ch}
}

func (o *ChannelObserver) Observe(ctx context.Context, rec TransitionRecord) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	select {
	case o.ch <- rec:
	case <-ctx.Done():
	default:
	}
}

// Close closes the channel. It is safe to call more than once.
func (o *ChannelObserver) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.closed {
		o.closed = true
		close(o.ch)
	}
	return nil
}

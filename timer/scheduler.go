package timer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

var ErrClosed = errors.New("scheduler closed")

const (
	statePending int32 = iota
	stateFired
	stateCancelled
)

// Handle tracks one scheduled action. It fires at most once.
type Handle struct {
	id    uint64
	delay time.Duration
	state atomic.Int32
	done  chan struct{}
	timer Stopper
	sched *Scheduler
}

// Fired reports whether the action has completed. States poll this from OnUpdate.
func (h *Handle) Fired() bool {
	return h.state.Load() == stateFired
}

func (h *Handle) Cancelled() bool {
	return h.state.Load() == stateCancelled
}

// Done is closed once the action fires or is cancelled.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

func (h *Handle) Delay() time.Duration {
	return h.delay
}

// Cancel stops a pending action. It returns false if the action already fired
// or was cancelled.
func (h *Handle) Cancel() bool {
	if !h.state.CompareAndSwap(statePending, stateCancelled) {
		return false
	}
	h.timer.Stop()
	h.sched.resolve(h)
	return true
}

// Scheduler runs delayed one-shot actions. Callbacks run on the clock's
// goroutine, so they should only flip flags or send on channels.
type Scheduler struct {
	clock  Clock
	logger zerolog.Logger

	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]*Handle
	closed  bool
	wg      sync.WaitGroup
}

type Option func(*Scheduler)

func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.clock = c
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = l
	}
}

func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{
		clock:   RealClock{},
		logger:  zerolog.Nop(),
		pending: make(map[uint64]*Handle),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("component", "timer").Logger()
	return s
}

// Schedule runs fn once after d. fn may be nil when the caller only polls the handle.
func (s *Scheduler) Schedule(d time.Duration, fn func()) (*Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	if d < 0 {
		d = 0
	}

	s.nextID++
	h := &Handle{
		id:    s.nextID,
		delay: d,
		done:  make(chan struct{}),
		sched: s,
	}
	s.pending[h.id] = h
	s.wg.Add(1)
	h.timer = s.clock.AfterFunc(d, func() { s.fire(h, fn) })

	s.logger.Debug().Uint64("id", h.id).Dur("delay", d).Msg("scheduled")
	return h, nil
}

// After schedules a poll-only action.
func (s *Scheduler) After(d time.Duration) (*Handle, error) {
	return s.Schedule(d, nil)
}

func (s *Scheduler) fire(h *Handle, fn func()) {
	if !h.state.CompareAndSwap(statePending, stateFired) {
		return
	}
	defer s.resolve(h)
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Uint64("id", h.id).Interface("panic", r).Msg("timer callback panicked")
		}
	}()
	if fn != nil {
		fn()
	}
}

func (s *Scheduler) resolve(h *Handle) {
	s.mu.Lock()
	_, ok := s.pending[h.id]
	delete(s.pending, h.id)
	s.mu.Unlock()
	if ok {
		close(h.done)
		s.wg.Done()
	}
}

// Pending returns the number of actions that have neither fired nor been cancelled.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Now returns the scheduler's clock time.
func (s *Scheduler) Now() time.Time {
	return s.clock.Now()
}

// Shutdown refuses new work, cancels pending actions and waits for running
// callbacks to return or ctx to end.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	handles := make([]*Handle, 0, len(s.pending))
	for _, h := range s.pending {
		handles = append(handles, h)
	}
	s.mu.Unlock()

	for _, h := range handles {
		h.Cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		s.logger.Debug().Int("cancelled", len(handles)).Msg("shutdown")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Group tracks the actions scheduled for one owner so they can be cancelled together.
type Group struct {
	sched   *Scheduler
	mu      sync.Mutex
	handles []*Handle
}

func (s *Scheduler) Group() *Group {
	return &Group{sched: s}
}

func (g *Group) Schedule(d time.Duration, fn func()) (*Handle, error) {
	h, err := g.sched.Schedule(d, fn)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	live := g.handles[:0]
	for _, x := range g.handles {
		if x.state.Load() == statePending {
			live = append(live, x)
		}
	}
	g.handles = append(live, h)
	return h, nil
}

func (g *Group) After(d time.Duration) (*Handle, error) {
	return g.Schedule(d, nil)
}

// CancelAll cancels every pending action in the group and returns how many it stopped.
func (g *Group) CancelAll() int {
	g.mu.Lock()
	handles := g.handles
	g.handles = nil
	g.mu.Unlock()

	n := 0
	for _, h := range handles {
		if h.Cancel() {
			n++
		}
	}
	return n
}

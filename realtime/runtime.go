package realtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/comalice/tickfsm"
)

const tracerName = "github.com/comalice/tickfsm/realtime"

var (
	ErrQueueFull      = errors.New("event queue full")
	ErrUnknownMachine = errors.New("unknown machine")
	ErrRunning        = errors.New("runtime already running")
	ErrDuplicateName  = errors.New("machine name already added")
)

// Driven is anything the runtime can tick and route events to.
// *tickfsm.Machine satisfies it.
type Driven interface {
	Name() string
	Tick(ctx context.Context) error
	Dispatch(ctx context.Context, ev tickfsm.EventID) error
}

// Config configures the fixed-rate loop.
type Config struct {
	TickRate         time.Duration // e.g. 16.667ms for 60 FPS
	MaxEventsPerTick int           // queue capacity per tick, default 1000
	FixedDelta       bool          // pass TickRate as the frame delta instead of wall time
}

// FrameHook runs after every machine has ticked.
type FrameHook func(ctx context.Context, f Frame)

type Option func(*Runtime)

func WithLogger(l zerolog.Logger) Option {
	return func(rt *Runtime) {
		rt.logger = l
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(rt *Runtime) {
		if t != nil {
			rt.tracer = t
		}
	}
}

// WithFrameHook adds a hook run at the end of every tick, e.g. a renderer.
func WithFrameHook(h FrameHook) Option {
	return func(rt *Runtime) {
		if h != nil {
			rt.hooks = append(rt.hooks, h)
		}
	}
}

// Runtime drives a set of machines at a fixed tick rate. Events may be sent
// from any goroutine and are applied at the start of the next tick in
// priority and submission order. Machines are only touched from the goroutine
// calling Step or Run.
type Runtime struct {
	cfg    Config
	logger zerolog.Logger
	tracer trace.Tracer
	hooks  []FrameHook

	mu       sync.RWMutex
	machines []Driven
	byName   map[string]Driven

	batchMu     sync.Mutex
	eventBatch  []EventWithMeta
	sequenceNum uint64

	tickNum atomic.Uint64
	elapsed time.Duration

	running  atomic.Bool
	stopOnce sync.Once
	stopped  chan struct{}
}

func New(cfg Config, opts ...Option) *Runtime {
	if cfg.MaxEventsPerTick <= 0 {
		cfg.MaxEventsPerTick = 1000
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 16667 * time.Microsecond
	}

	rt := &Runtime{
		cfg:        cfg,
		logger:     zerolog.Nop(),
		tracer:     otel.Tracer(tracerName),
		byName:     make(map[string]Driven),
		eventBatch: make([]EventWithMeta, 0, cfg.MaxEventsPerTick),
		stopped:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(rt)
	}
	rt.logger = rt.logger.With().Str("component", "realtime").Logger()
	return rt
}

// Add registers machines. They tick in the order added.
func (rt *Runtime) Add(machines ...Driven) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	for _, m := range machines {
		name := m.Name()
		if _, ok := rt.byName[name]; ok {
			return fmt.Errorf("add %q: %w", name, ErrDuplicateName)
		}
		rt.byName[name] = m
		rt.machines = append(rt.machines, m)
	}
	return nil
}

// Send queues ev for the named machine at default priority.
func (rt *Runtime) Send(target string, ev tickfsm.EventID) error {
	return rt.SendWithPriority(target, ev, 0)
}

// SendWithPriority queues ev. Higher priorities are dispatched first within a tick.
func (rt *Runtime) SendWithPriority(target string, ev tickfsm.EventID, priority int) error {
	rt.batchMu.Lock()
	defer rt.batchMu.Unlock()

	if len(rt.eventBatch) >= cap(rt.eventBatch) {
		return ErrQueueFull
	}
	rt.eventBatch = append(rt.eventBatch, EventWithMeta{
		Target:      target,
		Event:       ev,
		SequenceNum: rt.sequenceNum,
		Priority:    priority,
	})
	rt.sequenceNum++
	return nil
}

// Ticks returns how many ticks have been processed.
func (rt *Runtime) Ticks() uint64 {
	return rt.tickNum.Load()
}

// Pending returns the number of events queued for the next tick.
func (rt *Runtime) Pending() int {
	rt.batchMu.Lock()
	defer rt.batchMu.Unlock()
	return len(rt.eventBatch)
}

// Run ticks until ctx is done or Stop is called.
func (rt *Runtime) Run(ctx context.Context) error {
	if !rt.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer rt.running.Store(false)

	ticker := time.NewTicker(rt.cfg.TickRate)
	defer ticker.Stop()

	rt.logger.Info().Dur("tick_rate", rt.cfg.TickRate).Msg("runtime started")
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			rt.logger.Info().Uint64("ticks", rt.Ticks()).Msg("runtime stopped")
			return ctx.Err()
		case <-rt.stopped:
			rt.logger.Info().Uint64("ticks", rt.Ticks()).Msg("runtime stopped")
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if rt.cfg.FixedDelta {
				dt = rt.cfg.TickRate
			}
			rt.safeStep(ctx, dt)
		}
	}
}

// Stop ends Run. It is safe to call more than once.
func (rt *Runtime) Stop() {
	rt.stopOnce.Do(func() { close(rt.stopped) })
}

func (rt *Runtime) safeStep(ctx context.Context, dt time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			rt.logger.Error().
				Uint64("tick", rt.Ticks()).
				Interface("panic", r).
				Msg("tick panicked")
		}
	}()
	if err := rt.Step(ctx, dt); err != nil {
		rt.logger.Warn().Err(err).Uint64("tick", rt.Ticks()).Msg("tick completed with errors")
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/comalice/tickfsm/examples/stage"
	"github.com/comalice/tickfsm/internal/cliconfig"
	"github.com/comalice/tickfsm/internal/render"
	"github.com/comalice/tickfsm/internal/telemetry"
	"github.com/comalice/tickfsm/realtime"
	"github.com/comalice/tickfsm/timer"
	"github.com/comalice/tickfsm/topology"
	"github.com/comalice/tickfsm/visualize"
)

func run(ctx context.Context, cfg cliconfig.Config, stdout, stderr io.Writer) (err error) {
	logOut := stderr
	if cfg.TUI {
		logOut = io.Discard
	}
	log, err := telemetry.NewLogger(logOut, cfg.LogLevel, cfg.LogConsole)
	if err != nil {
		return err
	}

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.TraceConfig{
		Endpoint:    cfg.OTLPEndpoint,
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = errors.Join(err, shutdownTracing(sctx))
	}()

	opts := []stage.Option{
		stage.WithLogger(log),
		stage.WithMaxCascadeDepth(cfg.MaxCascadeDepth),
		stage.WithObserver(telemetry.LogObserver(log)),
		stage.WithObserver(telemetry.SpanObserver()),
		stage.WithRuntime(realtime.Config{TickRate: cfg.TickRate, FixedDelta: cfg.FixedDelta}),
	}
	for actor, path := range map[string]string{"enemy": cfg.EnemyTopology, "honey": cfg.HoneyTopology} {
		if path == "" {
			continue
		}
		doc, err := topology.LoadFile(path)
		if err != nil {
			return fmt.Errorf("%s topology: %w", actor, err)
		}
		opts = append(opts, stage.WithTopology(actor, doc))
	}

	// A fixed tick count runs in simulated time: the clock advances by
	// tick-rate each step and nothing sleeps.
	var clock *timer.ManualClock
	if cfg.Ticks > 0 {
		clock = timer.NewManualClock(time.Now())
		sched := timer.NewScheduler(timer.WithClock(clock), timer.WithLogger(log))
		defer sched.Shutdown(context.Background())
		opts = append(opts, stage.WithScheduler(sched))
	}

	var term *render.Terminal
	if cfg.TUI {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
		term, err = render.OpenTerminal(screen, cfg.Stage().Landmarks())
		if err != nil {
			return err
		}
		defer term.Close()
		opts = append(opts, stage.WithFrameHook(term.Hook))
	}

	w, err := stage.NewWorld(ctx, cfg.Stage(), opts...)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, w.Close(context.Background()))
	}()

	switch {
	case clock != nil:
		err = stepN(ctx, w, clock, cfg.Ticks, cfg.TickRate, log)
	case term != nil:
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go term.WatchQuit(ctx, cancel)
		err = ignoreCanceled(w.Run(ctx))
	default:
		err = ignoreCanceled(w.Run(ctx))
	}

	fmt.Fprintf(stdout, "ticks=%d enemy=%s honey=%s\n",
		w.Runtime.Ticks(), w.Enemy.Machine().Current(), w.Honey.Machine().Current())

	if cfg.DOTPath != "" {
		err = errors.Join(err, writeDOT(cfg.DOTPath, w))
	}
	return err
}

func stepN(ctx context.Context, w *stage.World, clock *timer.ManualClock, n int, dt time.Duration, log zerolog.Logger) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return ignoreCanceled(err)
		}
		clock.Advance(dt)
		if err := w.Step(ctx, dt); err != nil {
			log.Warn().Err(err).Int("tick", i+1).Msg("tick completed with errors")
		}
	}
	return nil
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func writeDOT(path string, w *stage.World) error {
	var b strings.Builder
	b.WriteString(visualize.ExportDOT(w.Enemy.Machine()))
	b.WriteString(visualize.ExportDOT(w.Honey.Machine()))
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write dot: %w", err)
	}
	return nil
}

// Package benchmarks provides performance benchmarks for the realtime runtime.
package benchmarks

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/comalice/tickfsm"
	"github.com/comalice/tickfsm/realtime"
)

// BenchmarkRuntimeStep ticks many machines per frame.
func BenchmarkRuntimeStep(b *testing.B) {
	for _, n := range []int{1, 100, 1000} {
		b.Run(fmt.Sprintf("machines=%d", n), func(b *testing.B) {
			rt := realtime.New(realtime.Config{})
			for i := 0; i < n; i++ {
				if err := rt.Add(GenRing(4, tickfsm.WithName(fmt.Sprintf("m%d", i)))); err != nil {
					b.Fatal(err)
				}
			}
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if err := rt.Step(bg, 16*time.Millisecond); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkEventThroughput sends from concurrent producers and drains with Step.
func BenchmarkEventThroughput(b *testing.B) {
	const workers = 8
	rt := realtime.New(realtime.Config{MaxEventsPerTick: 10000})
	if err := rt.Add(GenRing(2, tickfsm.WithName("ring"))); err != nil {
		b.Fatal(err)
	}

	perWorker := b.N/workers + 1
	var wg sync.WaitGroup
	var mu sync.Mutex
	sent := 0

	b.ResetTimer()
	b.ReportAllocs()
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				for rt.Send("ring", "tick") != nil {
					// Queue full; wait for the drain loop.
					time.Sleep(time.Microsecond)
				}
			}
			mu.Lock()
			sent += perWorker
			mu.Unlock()
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	for {
		select {
		case <-done:
			_ = rt.Step(bg, 0)
			b.ReportMetric(float64(sent)/b.Elapsed().Seconds(), "events/sec")
			return
		default:
			_ = rt.Step(bg, 0)
		}
	}
}

func BenchmarkSendWithPriority(b *testing.B) {
	rt := realtime.New(realtime.Config{MaxEventsPerTick: 1024})
	if err := rt.Add(GenRing(2, tickfsm.WithName("ring"))); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if err := rt.SendWithPriority("ring", "tick", i%4); err != nil {
			_ = rt.Step(bg, 0)
		}
	}
}

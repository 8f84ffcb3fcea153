// Package benchmarks provides performance benchmarks for dispatch and tick.
package benchmarks

import (
	"context"
	"fmt"
	"testing"

	"github.com/comalice/tickfsm"
)

func BenchmarkSelfTransition(b *testing.B) {
	m := GenRing(1)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if err := m.Dispatch(bg, "tick"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRingDispatch(b *testing.B) {
	for _, n := range []int{2, 10, 100, 1000} {
		b.Run(fmt.Sprintf("states=%d", n), func(b *testing.B) {
			m := GenRing(n)
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if err := m.Dispatch(bg, "tick"); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkWideDispatch(b *testing.B) {
	for _, n := range []int{1, 10, 100} {
		b.Run(fmt.Sprintf("events=%d", n), func(b *testing.B) {
			m := GenWide(n)
			ev := tickfsm.EventID(fmt.Sprintf("e%d", n-1))
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if err := m.Dispatch(bg, ev); err != nil {
					b.Fatal(err)
				}
				if err := m.Dispatch(bg, "back"); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkMissedDispatch(b *testing.B) {
	m := GenRing(4)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if err := m.Dispatch(bg, "nothing"); !tickfsm.IsNoSuchTransition(err) {
			b.Fatal(err)
		}
	}
}

// BenchmarkCascade measures a chain of dispatches made from OnEnter.
func BenchmarkCascade(b *testing.B) {
	for _, depth := range []int{1, 8, 32} {
		b.Run(fmt.Sprintf("depth=%d", depth), func(b *testing.B) {
			chain := make([]tickfsm.Variant[*owner], depth+1)
			for i := 0; i < depth; i++ {
				chain[i] = tickfsm.FuncVariant(stateID(i), tickfsm.Funcs[*owner]{
					Enter: func(ctx context.Context, m *tickfsm.Machine[*owner], _ tickfsm.StateID) {
						m.Dispatch(ctx, "next")
					},
				})
			}
			chain[depth] = plain(stateID(depth))

			m := tickfsm.New(&owner{})
			for i := 0; i < depth; i++ {
				if err := m.AddTransition(chain[i], "next", chain[i+1]); err != nil {
					b.Fatal(err)
				}
			}
			if err := m.AddWildcardTransition("reset", plain("idle")); err != nil {
				b.Fatal(err)
			}
			if err := m.Link("idle", "go", stateID(0)); err != nil {
				b.Fatal(err)
			}
			if err := m.StartAt(bg, "idle"); err != nil {
				b.Fatal(err)
			}
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if err := m.Dispatch(bg, "go"); err != nil {
					b.Fatal(err)
				}
				if err := m.Dispatch(bg, "reset"); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkTick(b *testing.B) {
	m := GenRing(1)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if err := m.Tick(bg); err != nil {
			b.Fatal(err)
		}
	}
}

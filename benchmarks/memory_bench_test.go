// Package benchmarks provides memory footprint benchmarks.
package benchmarks

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/comalice/tickfsm"
	"github.com/comalice/tickfsm/topology"
)

func BenchmarkMemoryRing(b *testing.B) {
	for _, n := range []int{1, 10, 100, 1000} {
		b.Run(fmt.Sprintf("states=%d", n), func(b *testing.B) {
			const numMachines = 100
			var before runtime.MemStats
			runtime.ReadMemStats(&before)
			machines := make([]*tickfsm.Machine[*owner], numMachines)
			for i := range machines {
				machines[i] = GenRing(n)
			}
			runtime.GC()
			var after runtime.MemStats
			runtime.ReadMemStats(&after)
			bytesPerMachine := (after.TotalAlloc - before.TotalAlloc) / numMachines
			b.ReportMetric(float64(bytesPerMachine)/1024, "KB/machine")
			b.ReportMetric(float64(bytesPerMachine)/float64(n), "B/state")
			runtime.KeepAlive(machines)
		})
	}
}

func BenchmarkTopologyBuild(b *testing.B) {
	for _, n := range []int{10, 100} {
		b.Run(fmt.Sprintf("states=%d", n), func(b *testing.B) {
			data := GenRingDocument(n)
			cat := ringCatalog(n)
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				doc, err := topology.Decode(data, topology.FormatYAML)
				if err != nil {
					b.Fatal(err)
				}
				m, err := topology.Build(&owner{}, cat, doc)
				if err != nil {
					b.Fatal(err)
				}
				if err := topology.Start(bg, m, doc); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

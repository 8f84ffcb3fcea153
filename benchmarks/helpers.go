// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/comalice/tickfsm"
	"github.com/comalice/tickfsm/topology"
)

var bg = context.Background()

type owner struct {
	updates int
}

func stateID(i int) tickfsm.StateID {
	return tickfsm.StateID(fmt.Sprintf("s%d", i))
}

func plain(id tickfsm.StateID) tickfsm.Variant[*owner] {
	return tickfsm.FuncVariant(id, tickfsm.Funcs[*owner]{
		Update: func(_ context.Context, m *tickfsm.Machine[*owner]) { m.Owner().updates++ },
	})
}

// GenRing builds a started machine with n states cycling on "tick".
func GenRing(n int, opts ...tickfsm.Option) *tickfsm.Machine[*owner] {
	if n < 1 {
		n = 1
	}
	m := tickfsm.New(&owner{}, opts...)
	for i := 0; i < n; i++ {
		if err := m.AddTransition(plain(stateID(i)), "tick", plain(stateID((i+1)%n))); err != nil {
			panic(err)
		}
	}
	if err := m.StartAt(bg, stateID(0)); err != nil {
		panic(err)
	}
	return m
}

// GenWide builds a started machine whose initial state has n outgoing events,
// each leading to a state that returns on "back".
func GenWide(n int) *tickfsm.Machine[*owner] {
	if n < 1 {
		n = 1
	}
	m := tickfsm.New(&owner{})
	hub := plain("hub")
	for i := 0; i < n; i++ {
		spoke := plain(stateID(i))
		if err := m.AddTransition(hub, tickfsm.EventID(fmt.Sprintf("e%d", i)), spoke); err != nil {
			panic(err)
		}
		if err := m.AddTransition(spoke, "back", hub); err != nil {
			panic(err)
		}
	}
	if err := m.Start(bg, hub); err != nil {
		panic(err)
	}
	return m
}

// GenRingDocument returns the YAML topology for a ring of n states.
func GenRingDocument(n int) []byte {
	doc := &topology.Document{Name: fmt.Sprintf("ring_%d", n), Initial: string(stateID(0))}
	for i := 0; i < n; i++ {
		doc.Transitions = append(doc.Transitions, topology.Edge{
			From:  string(stateID(i)),
			Event: "tick",
			To:    string(stateID((i + 1) % n)),
		})
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return data
}

// ringCatalog covers every state GenRingDocument(n) names.
func ringCatalog(n int) topology.Catalog[*owner] {
	vs := make([]tickfsm.Variant[*owner], n)
	for i := range vs {
		vs[i] = plain(stateID(i))
	}
	return topology.NewCatalog(vs...)
}

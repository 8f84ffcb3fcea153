// Package visualize renders a machine's transition table as Graphviz DOT or JSON.
package visualize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/comalice/tickfsm"
)

// Graph is the read-only view the exporters need. *tickfsm.Machine satisfies it.
type Graph interface {
	Name() string
	Current() tickfsm.StateID
	States() []tickfsm.StateID
	Transitions() []tickfsm.Transition
}

// Snapshot is the JSON form of a Graph.
type Snapshot struct {
	Name        string               `json:"name"`
	Current     tickfsm.StateID      `json:"current,omitempty"`
	States      []tickfsm.StateID    `json:"states"`
	Transitions []tickfsm.Transition `json:"transitions"`
}

func Capture(g Graph) Snapshot {
	return Snapshot{
		Name:        g.Name(),
		Current:     g.Current(),
		States:      g.States(),
		Transitions: g.Transitions(),
	}
}

// ExportDOT generates Graphviz DOT source. The current state is filled;
// wildcard edges leave a dashed "any" node.
func ExportDOT(g Graph) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %s {\n", quote(g.Name()))
	buf.WriteString(`  rankdir=LR;
  node [shape=box, fontsize=10, style=rounded];
  edge [fontsize=9];
`)

	current := g.Current()
	for _, id := range g.States() {
		style := ""
		if id == current {
			style = ` style="rounded,filled" fillcolor=lightgreen`
		}
		fmt.Fprintf(&buf, "  %s [label=%s%s];\n", quote(string(id)), quote(string(id)), style)
	}

	rows := g.Transitions()
	wildcard := false
	for _, r := range rows {
		if r.From == tickfsm.AnyState {
			wildcard = true
			break
		}
	}
	if wildcard {
		fmt.Fprintf(&buf, "  %s [label=\"any\" shape=diamond style=dashed];\n", quote(string(tickfsm.AnyState)))
	}

	for _, r := range rows {
		style := ""
		if r.From == tickfsm.AnyState {
			style = " style=dashed"
		}
		fmt.Fprintf(&buf, "  %s -> %s [label=%s%s];\n",
			quote(string(r.From)), quote(string(r.To)), quote(string(r.Event)), style)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ExportJSON serializes a Snapshot of g.
func ExportJSON(g Graph) ([]byte, error) {
	return json.MarshalIndent(Capture(g), "", "  ")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

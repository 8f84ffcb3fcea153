package topology

import (
	"context"
	"errors"
	"fmt"

	"github.com/comalice/tickfsm"
)

// Catalog maps state IDs to the variants that implement them.
type Catalog[O any] map[tickfsm.StateID]tickfsm.Variant[O]

func NewCatalog[O any](variants ...tickfsm.Variant[O]) Catalog[O] {
	c := make(Catalog[O], len(variants))
	for _, v := range variants {
		c[v.ID] = v
	}
	return c
}

// Apply registers the catalog variants doc refers to and links every edge.
// Names missing from the catalog fail with tickfsm.ErrUnregisteredState.
func Apply[O any](m *tickfsm.Machine[O], cat Catalog[O], doc *Document) error {
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("topology %q: %w", doc.Name, err)
	}

	var errs []error
	for _, id := range doc.StateIDs() {
		v, ok := cat[id]
		if !ok {
			errs = append(errs, fmt.Errorf("state %q: %w", id, tickfsm.ErrUnregisteredState))
			continue
		}
		if err := m.Register(v); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("topology %q: %w", doc.Name, errors.Join(errs...))
	}

	for _, row := range doc.Table() {
		if err := m.Link(row.From, row.Event, row.To); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("topology %q: %w", doc.Name, errors.Join(errs...))
	}
	return nil
}

// Start enters the document's initial state.
func Start[O any](ctx context.Context, m *tickfsm.Machine[O], doc *Document) error {
	return m.StartAt(ctx, tickfsm.StateID(doc.Initial))
}

// Build creates a machine named after doc and applies it. The machine is not started.
func Build[O any](owner O, cat Catalog[O], doc *Document, opts ...tickfsm.Option) (*tickfsm.Machine[O], error) {
	opts = append([]tickfsm.Option{tickfsm.WithName(doc.Name)}, opts...)
	m := tickfsm.New(owner, opts...)
	if err := Apply(m, cat, doc); err != nil {
		return nil, err
	}
	return m, nil
}

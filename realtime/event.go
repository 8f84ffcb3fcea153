package realtime

import (
	"sort"

	"github.com/comalice/tickfsm"
)

// EventWithMeta is a queued event plus the metadata used to order it.
type EventWithMeta struct {
	Target      string
	Event       tickfsm.EventID
	SequenceNum uint64
	Priority    int
}

// sortEvents orders a batch by priority, highest first, then by submission
// order. The sort is stable so equal keys keep their relative order.
func sortEvents(events []EventWithMeta) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Priority != events[j].Priority {
			return events[i].Priority > events[j].Priority
		}
		return events[i].SequenceNum < events[j].SequenceNum
	})
}

package streamgraph

import "github.com/fur0rem/streamgraph/pkg/collections"

// Event lists the nodes and links that change state at a single key
// moment. For an additive moment the ids are the ones becoming
// present; for a removal moment they are the ones becoming absent.
type Event struct {
	NodeIDs []NodeID
	LinkIDs []LinkID
}

// EventsTable pairs one Event per key moment with a presence bitmap
// recording, for the "regular" moments (everything but moment 0 and
// the trailing removal-only tail), whether that moment was additive.
// Moment 0 is always implicitly additive; the tail is always removal.
type EventsTable struct {
	events     []Event
	additive   *collections.Bitset // indexed by regular-moment offset, i.e. moment index - 1
	numRegular int
	numTail    int
}

// NewEventsTable returns an empty table whose additive bitmap is sized
// for numRegular "regular" moments (neither the implicit moment 0 nor
// the trailing removal-only tail).
func NewEventsTable(numRegular int) *EventsTable {
	return &EventsTable{
		additive: collections.NewBitset(numRegular),
	}
}

// PushMomentZero records the Event for the implicit, always-additive
// moment 0.
func (t *EventsTable) PushMomentZero(e Event) {
	if len(t.events) != 0 {
		panic("streamgraph: moment zero must be pushed first")
	}
	t.events = append(t.events, e)
}

// PushRegular records the Event for a regular moment, together with
// whether it is additive.
func (t *EventsTable) PushRegular(e Event, additive bool) {
	idx := len(t.events) - 1 // offset within the regular range, 0-based
	t.events = append(t.events, e)
	if additive {
		t.additive.Set(idx)
	}
	t.numRegular++
}

// PushTail records the Event for a moment in the trailing
// removal-only tail.
func (t *EventsTable) PushTail(e Event) {
	t.events = append(t.events, e)
	t.numTail++
}

// Len returns the total number of moments recorded (moment 0 +
// regular + tail).
func (t *EventsTable) Len() int {
	return len(t.events)
}

// EventAt returns the Event recorded for moment index i.
func (t *EventsTable) EventAt(i int) Event {
	return t.events[i]
}

// IsAdditive reports whether moment index i introduces nodes/links
// (true) or removes them (false). Moment 0 is always additive; a
// moment in the trailing tail is always a removal.
func (t *EventsTable) IsAdditive(i int) bool {
	if i == 0 {
		return true
	}
	if i > t.numRegular {
		return false
	}
	return t.additive.Test(i - 1)
}

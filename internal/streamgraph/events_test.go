package streamgraph

import "testing"

func TestEventsTable_MomentZeroAlwaysAdditive(t *testing.T) {
	tab := NewEventsTable(2)
	tab.PushMomentZero(Event{NodeIDs: []NodeID{0, 1}})
	tab.PushRegular(Event{NodeIDs: []NodeID{2}}, true)
	tab.PushRegular(Event{NodeIDs: []NodeID{0}}, false)
	tab.PushTail(Event{NodeIDs: []NodeID{1}})

	if !tab.IsAdditive(0) {
		t.Error("moment 0 must be additive")
	}
	if !tab.IsAdditive(1) {
		t.Error("moment 1 pushed as additive should report additive")
	}
	if tab.IsAdditive(2) {
		t.Error("moment 2 pushed as removal should not report additive")
	}
	if tab.IsAdditive(3) {
		t.Error("tail moment must never be additive")
	}
	if tab.Len() != 4 {
		t.Errorf("Len() = %d, want 4", tab.Len())
	}
}

func TestEventsTable_EventAt(t *testing.T) {
	tab := NewEventsTable(1)
	tab.PushMomentZero(Event{NodeIDs: []NodeID{5}})
	tab.PushRegular(Event{LinkIDs: []LinkID{9}}, true)

	if got := tab.EventAt(0); len(got.NodeIDs) != 1 || got.NodeIDs[0] != 5 {
		t.Errorf("EventAt(0) = %+v", got)
	}
	if got := tab.EventAt(1); len(got.LinkIDs) != 1 || got.LinkIDs[0] != 9 {
		t.Errorf("EventAt(1) = %+v", got)
	}
}

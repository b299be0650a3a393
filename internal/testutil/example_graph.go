package testutil

import (
	"context"
	"testing"

	"github.com/fur0rem/streamgraph/internal/streamgraph"
	"github.com/fur0rem/streamgraph/pkg/interval"
)

// ExampleGraph builds the canonical 4-node, 4-link documented example
// graph: nodes a-d over lifespan [0,100). Links: l0=(a,b), l1=(b,d),
// l2=(a,c), l3=(b,c) — d has a single incident link, l1, whose
// presence (20,30) is the only one of the four that stays within d's
// own narrow presence window (10,30).
func ExampleGraph(t *testing.T) *streamgraph.StreamGraph {
	t.Helper()

	b := streamgraph.NewBuilder(nil, nil)
	b.SetLifespan(interval.New(0, 100))
	b.SetNames([]string{"a", "b", "c", "d"})

	nodeA := b.AddNode([]streamgraph.LinkID{0, 2}, interval.Merge([]interval.Interval{interval.New(0, 100)}))
	nodeB := b.AddNode([]streamgraph.LinkID{0, 1, 3}, interval.Merge([]interval.Interval{interval.New(0, 50), interval.New(60, 100)}))
	nodeC := b.AddNode([]streamgraph.LinkID{2, 3}, interval.Merge([]interval.Interval{interval.New(40, 90)}))
	nodeD := b.AddNode([]streamgraph.LinkID{1}, interval.Merge([]interval.Interval{interval.New(10, 30)}))

	b.AddLink(nodeA, nodeB, interval.Merge([]interval.Interval{interval.New(10, 30), interval.New(70, 80)})) // l0
	b.AddLink(nodeB, nodeD, interval.Merge([]interval.Interval{interval.New(20, 30)}))                        // l1
	b.AddLink(nodeA, nodeC, interval.Merge([]interval.Interval{interval.New(45, 75)}))                        // l2
	b.AddLink(nodeB, nodeC, interval.Merge([]interval.Interval{interval.New(60, 90)}))                        // l3

	mustPush := func(t uint64, additive bool, e streamgraph.Event) {
		if err := b.PushMoment(t, additive, e); err != nil {
			panic(err)
		}
	}

	// Regular moments: every instant at which a node or link presence
	// interval starts or ends, derived directly from the presence sets
	// above. A moment is additive if it introduces ids, a removal
	// moment otherwise.
	mustPush(0, true, streamgraph.Event{NodeIDs: []streamgraph.NodeID{nodeA, nodeB}})
	mustPush(10, true, streamgraph.Event{NodeIDs: []streamgraph.NodeID{nodeD}, LinkIDs: []streamgraph.LinkID{0}})
	mustPush(20, true, streamgraph.Event{LinkIDs: []streamgraph.LinkID{1}})
	mustPush(30, false, streamgraph.Event{NodeIDs: []streamgraph.NodeID{nodeD}, LinkIDs: []streamgraph.LinkID{0, 1}})
	mustPush(40, true, streamgraph.Event{NodeIDs: []streamgraph.NodeID{nodeC}})
	mustPush(45, true, streamgraph.Event{LinkIDs: []streamgraph.LinkID{2}})
	mustPush(50, false, streamgraph.Event{NodeIDs: []streamgraph.NodeID{nodeB}})
	mustPush(60, true, streamgraph.Event{NodeIDs: []streamgraph.NodeID{nodeB}, LinkIDs: []streamgraph.LinkID{3}})
	mustPush(70, true, streamgraph.Event{LinkIDs: []streamgraph.LinkID{0}})

	// Trailing removal-only tail: nothing is added after t=70.
	if err := b.PushRemovalOnlyMoment(75, streamgraph.Event{LinkIDs: []streamgraph.LinkID{2}}); err != nil {
		t.Fatalf("push removal-only moment: %v", err)
	}
	if err := b.PushRemovalOnlyMoment(80, streamgraph.Event{LinkIDs: []streamgraph.LinkID{0}}); err != nil {
		t.Fatalf("push removal-only moment: %v", err)
	}
	if err := b.PushRemovalOnlyMoment(90, streamgraph.Event{NodeIDs: []streamgraph.NodeID{nodeC}, LinkIDs: []streamgraph.LinkID{3}}); err != nil {
		t.Fatalf("push removal-only moment: %v", err)
	}
	if err := b.PushRemovalOnlyMoment(100, streamgraph.Event{NodeIDs: []streamgraph.NodeID{nodeA, nodeB}}); err != nil {
		t.Fatalf("push removal-only moment: %v", err)
	}

	g, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("build example graph: %v", err)
	}
	return g
}

package streamgraph

import (
	"context"
	"testing"

	"github.com/fur0rem/streamgraph/pkg/interval"
)

func twoNodeOneLinkBuilder() *Builder {
	b := NewBuilder(nil, nil)
	b.SetLifespan(interval.New(0, 100))
	n0 := b.AddNode([]LinkID{0}, interval.Merge([]interval.Interval{interval.New(0, 100)}))
	n1 := b.AddNode([]LinkID{0}, interval.Merge([]interval.Interval{interval.New(0, 100)}))
	b.AddLink(n0, n1, interval.Merge([]interval.Interval{interval.New(10, 20)}))
	if err := b.PushMoment(0, true, Event{NodeIDs: []NodeID{n0, n1}}); err != nil {
		panic(err)
	}
	if err := b.PushMoment(10, true, Event{LinkIDs: []LinkID{0}}); err != nil {
		panic(err)
	}
	if err := b.PushRemovalOnlyMoment(20, Event{LinkIDs: []LinkID{0}}); err != nil {
		panic(err)
	}
	return b
}

func TestBuilder_BuildSucceeds(t *testing.T) {
	b := twoNodeOneLinkBuilder()
	g, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(g.Nodes) != 2 || len(g.Links) != 1 {
		t.Fatalf("unexpected graph shape: %d nodes, %d links", len(g.Nodes), len(g.Links))
	}
	if g.Moments.Len() != 3 {
		t.Errorf("Moments.Len() = %d, want 3", g.Moments.Len())
	}
}

func TestBuilder_RejectsLinkPresenceOutsideEndpoints(t *testing.T) {
	b := NewBuilder(nil, nil)
	b.SetLifespan(interval.New(0, 100))
	n0 := b.AddNode([]LinkID{0}, interval.Merge([]interval.Interval{interval.New(0, 50)}))
	n1 := b.AddNode([]LinkID{0}, interval.Merge([]interval.Interval{interval.New(0, 100)}))
	// Link is present until 80, but node 0 disappears at 50: invariant violated.
	b.AddLink(n0, n1, interval.Merge([]interval.Interval{interval.New(0, 80)}))
	if err := b.PushMoment(0, true, Event{NodeIDs: []NodeID{n0, n1}, LinkIDs: []LinkID{0}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := b.Build(context.Background())
	if err == nil {
		t.Fatal("expected Build to fail on link/endpoint presence mismatch")
	}
}

func TestBuilder_RejectsOutOfRangeLinkEndpoint(t *testing.T) {
	b := NewBuilder(nil, nil)
	b.SetLifespan(interval.New(0, 100))
	n0 := b.AddNode(nil, interval.Merge([]interval.Interval{interval.New(0, 100)}))
	b.AddLink(n0, NodeID(99), interval.Merge([]interval.Interval{interval.New(0, 10)}))
	if err := b.PushMoment(0, true, Event{NodeIDs: []NodeID{n0}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := b.Build(context.Background())
	if err == nil {
		t.Fatal("expected Build to fail on out-of-range link endpoint")
	}
}

func TestBuilder_RejectsMissingNeighbourEntry(t *testing.T) {
	b := NewBuilder(nil, nil)
	b.SetLifespan(interval.New(0, 100))
	n0 := b.AddNode(nil, interval.Merge([]interval.Interval{interval.New(0, 100)})) // missing link 0 in neighbours
	n1 := b.AddNode([]LinkID{0}, interval.Merge([]interval.Interval{interval.New(0, 100)}))
	b.AddLink(n0, n1, interval.Merge([]interval.Interval{interval.New(0, 10)}))
	if err := b.PushMoment(0, true, Event{NodeIDs: []NodeID{n0, n1}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := b.Build(context.Background())
	if err == nil {
		t.Fatal("expected Build to fail on missing neighbour entry")
	}
}

func TestBuilder_RejectsNonMonotonicMoments(t *testing.T) {
	b := NewBuilder(nil, nil)
	b.SetLifespan(interval.New(0, 100))
	n0 := b.AddNode(nil, interval.Merge([]interval.Interval{interval.New(0, 100)}))
	if err := b.PushMoment(10, true, Event{NodeIDs: []NodeID{n0}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.PushMoment(5, true, Event{}); err == nil {
		t.Fatal("expected error pushing a non-increasing moment")
	}
}

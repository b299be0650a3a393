package streamgraph_test

import (
	"reflect"
	"testing"

	"github.com/fur0rem/streamgraph/internal/streamgraph"
	"github.com/fur0rem/streamgraph/internal/testutil"
	"github.com/fur0rem/streamgraph/pkg/interval"
)

func collectNodes(it streamgraph.NodeIDIterator) []streamgraph.NodeID {
	var out []streamgraph.NodeID
	for {
		id, ok := it()
		if !ok {
			break
		}
		out = append(out, id)
	}
	return out
}

func collectLinks(it streamgraph.LinkIDIterator) []streamgraph.LinkID {
	var out []streamgraph.LinkID
	for {
		id, ok := it()
		if !ok {
			break
		}
		out = append(out, id)
	}
	return out
}

func collectIntervals(it streamgraph.IntervalIterator) []interval.Interval {
	var out []interval.Interval
	for {
		iv, ok := it()
		if !ok {
			break
		}
		out = append(out, iv)
	}
	return out
}

// TestFullGraph_PresentAt25 exercises scenario S4: at t=25, nodes
// {a,b,d} and links {l0,l1} are present.
func TestFullGraph_PresentAt25(t *testing.T) {
	g := testutil.ExampleGraph(t)
	s := streamgraph.NewFullGraph(g)

	nodes := collectNodes(s.NodesPresentAt(25))
	if len(nodes) != 3 {
		t.Fatalf("nodes present at 25 = %v, want 3 nodes (a,b,d)", nodes)
	}
	wantNodes := map[streamgraph.NodeID]bool{0: true, 1: true, 3: true} // a, b, d
	for _, n := range nodes {
		if !wantNodes[n] {
			t.Errorf("unexpected node %d present at t=25", n)
		}
	}

	links := collectLinks(s.LinksPresentAt(25))
	if len(links) != 2 {
		t.Fatalf("links present at 25 = %v, want 2 links (l0,l1)", links)
	}
	wantLinks := map[streamgraph.LinkID]bool{0: true, 1: true}
	for _, l := range links {
		if !wantLinks[l] {
			t.Errorf("unexpected link %d present at t=25", l)
		}
	}
}

// TestChunk_Restriction exercises scenario S5: restricting the S4
// graph to nodes {a,b,c} drops link l1 (incident to excluded node d),
// keeping l0, l2, l3.
func TestChunk_Restriction(t *testing.T) {
	g := testutil.ExampleGraph(t)
	window := interval.New(30, 80)
	chunk := streamgraph.NewChunk(g,
		[]streamgraph.NodeID{0, 1, 2}, // a, b, c
		[]streamgraph.LinkID{0, 1, 2, 3},
		window,
	)

	links := collectLinks(chunk.LinksSet())
	want := map[streamgraph.LinkID]bool{0: true, 2: true, 3: true}
	if len(links) != len(want) {
		t.Fatalf("links_set() = %v, want exactly %v", links, want)
	}
	for _, l := range links {
		if !want[l] {
			t.Errorf("unexpected link %d in chunk (should have been dropped)", l)
		}
	}

	// times_node_present(b) clamped to the window.
	times := collectIntervals(chunk.TimesNodePresent(1))
	wantTimes := []interval.Interval{interval.New(30, 50), interval.New(60, 80)}
	if len(times) != len(wantTimes) {
		t.Fatalf("times_node_present(b) = %v, want %v", times, wantTimes)
	}
	for i, iv := range times {
		if iv != wantTimes[i] {
			t.Errorf("times_node_present(b)[%d] = %v, want %v", i, iv, wantTimes[i])
		}
	}

	// neighbours_of(a) only yields links whose bit is set in the chunk.
	neighbours := collectLinks(chunk.NeighboursOf(0))
	for _, l := range neighbours {
		if !want[l] {
			t.Errorf("neighbours_of(a) yielded dropped link %d", l)
		}
	}
}

func TestStream_NthLinkIdentityAcrossViews(t *testing.T) {
	g := testutil.ExampleGraph(t)
	full := streamgraph.NewFullGraph(g)
	chunk := streamgraph.NewChunk(g, []streamgraph.NodeID{0, 1}, []streamgraph.LinkID{0}, interval.New(0, 100))

	fromFull, err := full.NthLink(0)
	if err != nil {
		t.Fatalf("NthLink on FullGraph: %v", err)
	}
	fromChunk, err := chunk.NthLink(0)
	if err != nil {
		t.Fatalf("NthLink on Chunk: %v", err)
	}
	if !reflect.DeepEqual(fromFull, fromChunk) {
		t.Errorf("nth_link not identical across views: %+v vs %+v", fromFull, fromChunk)
	}
}

func TestStream_NthLinkNoSuchID(t *testing.T) {
	g := testutil.ExampleGraph(t)
	full := streamgraph.NewFullGraph(g)
	if _, err := full.NthLink(999); err == nil {
		t.Fatal("expected an error for an out-of-range link id")
	}
}

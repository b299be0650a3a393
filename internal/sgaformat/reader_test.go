package sgaformat

import (
	"context"
	"strings"
	"testing"

	"github.com/fur0rem/streamgraph/internal/streamgraph"
)

// twoNodeOneLinkDoc is a small, internally-consistent document: nodes a, b
// over [0,100), linked by a single link present on (10,20).
const twoNodeOneLinkDoc = `SGA Internal version 1.0.0

[General]
Lifespan=(0 100)
Named=true

[Memory]
NumberOfNodes=2
NumberOfLinks=1
RegularKeyMoments=1
RemovalOnlyMoments=1
NumberOfSlices=1

[[Nodes]]
[[[NumberOfNeighbours]]]
1
1
[[[NumberOfIntervals]]]
1
1

[[Links]]
[[[NumberOfIntervals]]]
1

[[KeyMoments]]
[[[NumberOfEvents]]]
2
1
1
[[[NumberOfSlices]]]
1

[Data]

[[Neighbours]]
[[[NodesToLinks]]]
(0)
(0)
[[[LinksToNodes]]]
(0 1)

[[Events]]
0=((N 0) (N 1))
[[[Regular]]]
10=(+ (L 0))
[[[RemovalOnly]]]
20=((L 0))

[[PresenceIntervals]]
[[[Nodes]]]
((0 100))
((0 100))
[[[Links]]]
((10 20))

[Names]
a
b
`

func TestRead_TwoNodeOneLink(t *testing.T) {
	builder, err := Read(context.Background(), strings.NewReader(twoNodeOneLinkDoc))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	g, err := builder.Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(g.Nodes) != 2 {
		t.Fatalf("Nodes = %d, want 2", len(g.Nodes))
	}
	if len(g.Links) != 1 {
		t.Fatalf("Links = %d, want 1", len(g.Links))
	}
	if g.Moments.Len() != 3 {
		t.Fatalf("Moments.Len() = %d, want 3", g.Moments.Len())
	}
	if g.Names == nil || g.Names[0] != "a" || g.Names[1] != "b" {
		t.Fatalf("Names = %v, want [a b]", g.Names)
	}

	link := g.Links[0]
	if link.Endpoints[0] != streamgraph.NodeID(0) || link.Endpoints[1] != streamgraph.NodeID(1) {
		t.Fatalf("link endpoints = %v, want [0 1]", link.Endpoints)
	}
}

func TestRead_RejectsBadHeader(t *testing.T) {
	_, err := Read(context.Background(), strings.NewReader("not a valid header\n"))
	if err == nil {
		t.Fatal("expected an error for a malformed header")
	}
}

func TestRead_RejectsTruncatedInput(t *testing.T) {
	truncated := strings.Split(twoNodeOneLinkDoc, "[Data]")[0]
	_, err := Read(context.Background(), strings.NewReader(truncated))
	if err == nil {
		t.Fatal("expected an error for truncated input")
	}
}

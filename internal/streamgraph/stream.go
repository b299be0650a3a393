package streamgraph

import (
	"fmt"

	"github.com/fur0rem/streamgraph/pkg/collections"
	appErrors "github.com/fur0rem/streamgraph/pkg/errors"
	"github.com/fur0rem/streamgraph/pkg/interval"
)

// Stream is the uniform query surface over a StreamGraph: either the
// whole graph (FullGraph) or a node/link/time-restricted view of it
// (Chunk). Every method is single-threaded and lazy; returned
// iterators are not safe for concurrent use and cannot be restarted.
type Stream interface {
	NodesSet() NodeIDIterator
	LinksSet() LinkIDIterator
	Lifespan() interval.Interval
	Scaling() uint64
	NodesPresentAt(t Time) NodeIDIterator
	LinksPresentAt(t Time) LinkIDIterator
	TimesNodePresent(n NodeID) IntervalIterator
	TimesLinkPresent(l LinkID) IntervalIterator
	NeighboursOf(n NodeID) LinkIDIterator
	NthLink(l LinkID) (Link, error)
}

// fullGraphStream is the Stream variant over the entire StreamGraph.
type fullGraphStream struct {
	graph *StreamGraph
}

// NewFullGraph returns a Stream exposing every node and link of g.
func NewFullGraph(g *StreamGraph) Stream {
	return &fullGraphStream{graph: g}
}

func (s *fullGraphStream) NodesSet() NodeIDIterator { return rangeNodeIDs(len(s.graph.Nodes)) }
func (s *fullGraphStream) LinksSet() LinkIDIterator { return rangeLinkIDs(len(s.graph.Links)) }
func (s *fullGraphStream) Lifespan() interval.Interval { return s.graph.Lifespan }
func (s *fullGraphStream) Scaling() uint64 { return s.graph.Scaling }

func (s *fullGraphStream) NodesPresentAt(t Time) NodeIDIterator {
	return presentNodesAt(s.graph.Nodes, s.graph.Lifespan, t)
}

func (s *fullGraphStream) LinksPresentAt(t Time) LinkIDIterator {
	return presentLinksAt(s.graph.Links, s.graph.Lifespan, t)
}

func (s *fullGraphStream) TimesNodePresent(n NodeID) IntervalIterator {
	return clampedIntervals(s.graph.Nodes[n].Presence, s.graph.Lifespan)
}

func (s *fullGraphStream) TimesLinkPresent(l LinkID) IntervalIterator {
	return clampedIntervals(s.graph.Links[l].Presence, s.graph.Lifespan)
}

func (s *fullGraphStream) NeighboursOf(n NodeID) LinkIDIterator {
	return neighbourLinks(s.graph.Nodes[n].Neighbours, nil)
}

func (s *fullGraphStream) NthLink(l LinkID) (Link, error) {
	if int(l) >= len(s.graph.Links) {
		return Link{}, appErrors.Wrap(appErrors.CodeNoSuchID,
			fmt.Sprintf("no link with id %d", l), nil)
	}
	return s.graph.Links[l], nil
}

// chunkStream is the Stream variant restricted to a node set, a link
// set and a time window. The Chunk invariant — a link is only a
// member if both its endpoints are — is enforced once, at
// construction, by masking.
type chunkStream struct {
	graph        *StreamGraph
	window       interval.Interval
	nodesPresent *collections.Bitset
	linksPresent *collections.Bitset
}

// NewChunk builds a Chunk view of g restricted to nodes, links and
// the half-open window [start, end). A link named in links is
// dropped silently if either of its endpoints is not in nodes.
func NewChunk(g *StreamGraph, nodes []NodeID, links []LinkID, window interval.Interval) Stream {
	nodesPresent := collections.NewBitset(len(g.Nodes))
	linksPresent := collections.NewBitset(len(g.Links))

	for _, n := range nodes {
		nodesPresent.Set(int(n))
	}
	for _, l := range links {
		link := g.Links[l]
		if nodesPresent.Test(int(link.Endpoints[0])) && nodesPresent.Test(int(link.Endpoints[1])) {
			linksPresent.Set(int(l))
		}
	}

	return &chunkStream{
		graph:        g,
		window:       window,
		nodesPresent: nodesPresent,
		linksPresent: linksPresent,
	}
}

func (s *chunkStream) NodesSet() NodeIDIterator { return maskedNodeIDs(s.nodesPresent) }
func (s *chunkStream) LinksSet() LinkIDIterator { return maskedLinkIDs(s.linksPresent) }
func (s *chunkStream) Lifespan() interval.Interval { return s.window }
func (s *chunkStream) Scaling() uint64 { return s.graph.Scaling }

func (s *chunkStream) NodesPresentAt(t Time) NodeIDIterator {
	inner := presentNodesAt(s.graph.Nodes, s.graph.Lifespan, t)
	return filterNodeIDs(inner, func(n NodeID) bool { return s.nodesPresent.Test(int(n)) })
}

func (s *chunkStream) LinksPresentAt(t Time) LinkIDIterator {
	inner := presentLinksAt(s.graph.Links, s.graph.Lifespan, t)
	return filterLinkIDs(inner, func(l LinkID) bool { return s.linksPresent.Test(int(l)) })
}

func (s *chunkStream) TimesNodePresent(n NodeID) IntervalIterator {
	return clampedIntervals(s.graph.Nodes[n].Presence, s.window)
}

func (s *chunkStream) TimesLinkPresent(l LinkID) IntervalIterator {
	return clampedIntervals(s.graph.Links[l].Presence, s.window)
}

func (s *chunkStream) NeighboursOf(n NodeID) LinkIDIterator {
	return neighbourLinks(s.graph.Nodes[n].Neighbours, s.linksPresent)
}

func (s *chunkStream) NthLink(l LinkID) (Link, error) {
	if int(l) >= len(s.graph.Links) {
		return Link{}, appErrors.Wrap(appErrors.CodeNoSuchID,
			fmt.Sprintf("no link with id %d", l), nil)
	}
	return s.graph.Links[l], nil
}

package streamgraph

import "github.com/fur0rem/streamgraph/pkg/interval"

// TemporalNode is the static record of a node's incident links and its
// presence over time. Neighbours lists exactly the links incident to
// this node; a link appears once per endpoint, so the same LinkID
// shows up in both endpoint nodes' Neighbours.
type TemporalNode struct {
	Neighbours []LinkID
	Presence   interval.Set
}

// Link is the static record of an edge between two nodes. Endpoints[0]
// is always the smaller NodeID. A link cannot be live while either
// endpoint is absent: Presence must be a subset of the intersection of
// both endpoints' presence.
type Link struct {
	Endpoints [2]NodeID
	Presence  interval.Set
}

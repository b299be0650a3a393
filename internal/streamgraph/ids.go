// Package streamgraph is the core in-memory analytic engine over stream
// graphs: graphs whose nodes and links exist only during disjoint time
// intervals. It owns the temporal data model, the key-moments/events
// timeline, and the Stream query surface (FullGraph and Chunk views).
package streamgraph

import "github.com/fur0rem/streamgraph/pkg/interval"

// NodeID is a dense index into a StreamGraph's node array, stable for
// the life of the graph.
type NodeID uint64

// LinkID is a dense index into a StreamGraph's link array, stable for
// the life of the graph.
type LinkID uint64

// NoNode is the sentinel NodeID meaning "no such node".
const NoNode NodeID = NodeID(interval.None)

// NoLink is the sentinel LinkID meaning "no such link".
const NoLink LinkID = LinkID(interval.None)

// Time is an absolute, non-negative instant. interval.None is the
// sentinel meaning "unbounded" / "no such time".
type Time = uint64

package streamgraph

import (
	"github.com/fur0rem/streamgraph/pkg/collections"
	"github.com/fur0rem/streamgraph/pkg/interval"
)

// NodeIDIterator is a single-threaded, lazy, pull-based producer of
// node ids. Next returns (zero, false) once exhausted; calling it
// again after exhaustion keeps returning (zero, false).
type NodeIDIterator func() (NodeID, bool)

// LinkIDIterator is the link-id analog of NodeIDIterator.
type LinkIDIterator func() (LinkID, bool)

// IntervalIterator is a single-threaded, lazy, pull-based producer of
// time intervals.
type IntervalIterator func() (interval.Interval, bool)

// rangeNodeIDs walks every node id in [0, n).
func rangeNodeIDs(n int) NodeIDIterator {
	cur := 0
	return func() (NodeID, bool) {
		if cur >= n {
			return 0, false
		}
		id := NodeID(cur)
		cur++
		return id, true
	}
}

// rangeLinkIDs walks every link id in [0, n).
func rangeLinkIDs(n int) LinkIDIterator {
	cur := 0
	return func() (LinkID, bool) {
		if cur >= n {
			return 0, false
		}
		id := LinkID(cur)
		cur++
		return id, true
	}
}

// maskedNodeIDs walks the set bits of mask, using LeadingZerosFrom to
// skip runs of absent nodes in O(1) amortised per present node.
func maskedNodeIDs(mask *collections.Bitset) NodeIDIterator {
	cur := 0
	size := mask.Size()
	return func() (NodeID, bool) {
		if cur >= size {
			return 0, false
		}
		skip := mask.LeadingZerosFrom(cur)
		next := cur + skip
		if next >= size {
			cur = size
			return 0, false
		}
		cur = next + 1
		return NodeID(next), true
	}
}

// maskedLinkIDs is the link-id analog of maskedNodeIDs.
func maskedLinkIDs(mask *collections.Bitset) LinkIDIterator {
	cur := 0
	size := mask.Size()
	return func() (LinkID, bool) {
		if cur >= size {
			return 0, false
		}
		skip := mask.LeadingZerosFrom(cur)
		next := cur + skip
		if next >= size {
			cur = size
			return 0, false
		}
		cur = next + 1
		return LinkID(next), true
	}
}

// neighbourLinks walks a node's incident links, in order, optionally
// filtering out any link whose bit is unset in mask (mask == nil
// means no filtering, used by FullGraph).
func neighbourLinks(neighbours []LinkID, mask *collections.Bitset) LinkIDIterator {
	idx := 0
	return func() (LinkID, bool) {
		for idx < len(neighbours) {
			l := neighbours[idx]
			idx++
			if mask == nil || mask.Test(int(l)) {
				return l, true
			}
		}
		return 0, false
	}
}

// clampedIntervals walks source in order, clamping each interval to
// window and dropping empties. An empty clamp result is skipped and
// iteration continues as long as more source intervals remain
// (continue-skip); once source is exhausted the iterator terminates.
func clampedIntervals(source interval.Set, window interval.Interval) IntervalIterator {
	idx := 0
	return func() (interval.Interval, bool) {
		for idx < len(source) {
			iv := source[idx]
			idx++
			clamped := iv.Clamp(window)
			if clamped.IsEmpty() {
				continue
			}
			return clamped, true
		}
		return interval.Empty, false
	}
}

// presentNodesAt walks every node present at t within lifespan, by
// direct presence-set scan (the "simpler" alternative the key-moments
// replay strategy exists to avoid needing).
func presentNodesAt(nodes []TemporalNode, lifespan interval.Interval, t Time) NodeIDIterator {
	if !lifespan.Contains(t) {
		return func() (NodeID, bool) { return 0, false }
	}
	cur := 0
	return func() (NodeID, bool) {
		for cur < len(nodes) {
			id := cur
			cur++
			if nodes[id].Presence.Contains(t) {
				return NodeID(id), true
			}
		}
		return 0, false
	}
}

// presentLinksAt is the link-id analog of presentNodesAt.
func presentLinksAt(links []Link, lifespan interval.Interval, t Time) LinkIDIterator {
	if !lifespan.Contains(t) {
		return func() (LinkID, bool) { return 0, false }
	}
	cur := 0
	return func() (LinkID, bool) {
		for cur < len(links) {
			id := cur
			cur++
			if links[id].Presence.Contains(t) {
				return LinkID(id), true
			}
		}
		return 0, false
	}
}

// filterNodeIDs wraps inner, yielding only ids accepted by keep. Used
// to restrict a FullGraph's *_present_at iterator to a Chunk's
// membership mask without materialising a transient FullGraph object.
func filterNodeIDs(inner NodeIDIterator, keep func(NodeID) bool) NodeIDIterator {
	return func() (NodeID, bool) {
		for {
			id, ok := inner()
			if !ok {
				return 0, false
			}
			if keep(id) {
				return id, true
			}
		}
	}
}

// filterLinkIDs is the link-id analog of filterNodeIDs.
func filterLinkIDs(inner LinkIDIterator, keep func(LinkID) bool) LinkIDIterator {
	return func() (LinkID, bool) {
		for {
			id, ok := inner()
			if !ok {
				return 0, false
			}
			if keep(id) {
				return id, true
			}
		}
	}
}

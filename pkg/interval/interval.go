// Package interval implements the half-open time interval algebra used
// throughout the stream graph engine: a single [Interval], and
// [Set], an ordered sequence of disjoint, non-adjacent intervals.
package interval

import "sort"

// None is the sentinel absolute time meaning "no time" / "unbounded".
// It is also used as both endpoints of the canonical empty interval.
const None = ^uint64(0)

// Interval is a half-open range [Start, End) over non-negative
// integer time. Start >= End denotes an empty interval; all
// operations canonicalise empty results to (None, None).
type Interval struct {
	Start uint64
	End   uint64
}

// Empty is the canonical empty interval.
var Empty = Interval{Start: None, End: None}

// New builds an interval, canonicalising start >= end to Empty.
func New(start, end uint64) Interval {
	if start >= end {
		return Empty
	}
	return Interval{Start: start, End: end}
}

// IsEmpty reports whether i is the empty interval.
func (i Interval) IsEmpty() bool {
	return i.Start >= i.End
}

// Size returns End-Start, or 0 for an empty interval.
func (i Interval) Size() uint64 {
	if i.IsEmpty() {
		return 0
	}
	return i.End - i.Start
}

// Contains reports whether t falls in [Start, End).
func (i Interval) Contains(t uint64) bool {
	return i.Start <= t && t < i.End
}

// Intersection returns the overlap of a and b, canonicalised to Empty
// when they don't overlap.
func Intersection(a, b Interval) Interval {
	start := a.Start
	if b.Start > start {
		start = b.Start
	}
	end := a.End
	if b.End < end {
		end = b.End
	}
	return New(start, end)
}

// Clamp restricts i to the window w: both endpoints are pulled inside
// w, and the result is canonicalised to Empty if it collapses. This is
// the filter/clamp rule used by chunk-restricted views: promote a
// start before the window to the window's start, lower an end past
// the window to the window's end.
func (i Interval) Clamp(w Interval) Interval {
	start := i.Start
	if start < w.Start {
		start = w.Start
	}
	end := i.End
	if end > w.End {
		end = w.End
	}
	return New(start, end)
}

// Set is an ordered sequence of disjoint, non-adjacent, non-empty
// intervals: for all k, Set[k].End < Set[k+1].Start.
type Set []Interval

// Merge sorts a copy of intervals by Start and coalesces overlapping
// or touching ones ([a,b) and [c,d) merge whenever c <= b), dropping
// empty intervals. It restores the Set invariant after arbitrary
// insertions.
func Merge(intervals []Interval) Set {
	work := make([]Interval, 0, len(intervals))
	for _, iv := range intervals {
		if !iv.IsEmpty() {
			work = append(work, iv)
		}
	}
	if len(work) == 0 {
		return Set{}
	}
	sort.Slice(work, func(i, j int) bool { return work[i].Start < work[j].Start })

	merged := make(Set, 0, len(work))
	current := work[0]
	for _, next := range work[1:] {
		if next.Start <= current.End {
			if next.End > current.End {
				current.End = next.End
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	merged = append(merged, current)
	return merged
}

// Union merges two interval sets into one, point-set equal to the
// union of a and b.
func Union(a, b Set) Set {
	combined := make([]Interval, 0, len(a)+len(b))
	combined = append(combined, a...)
	combined = append(combined, b...)
	return Merge(combined)
}

// IntersectSets returns a set equal, as a set of points, to the
// intersection of a and b. Both inputs are assumed to already satisfy
// the Set invariant (sorted, disjoint, non-adjacent).
func IntersectSets(a, b Set) Set {
	pairwise := make([]Interval, 0, len(a)+len(b))
	for _, x := range a {
		for _, y := range b {
			if x.Start >= y.End {
				continue
			}
			if x.End <= y.Start {
				break
			}
			pairwise = append(pairwise, Intersection(x, y))
		}
	}
	return Merge(pairwise)
}

// Contains reports whether t is covered by any interval of the set.
func (s Set) Contains(t uint64) bool {
	for _, iv := range s {
		if iv.Contains(t) {
			return true
		}
		if iv.Start > t {
			break
		}
	}
	return false
}

// SubsetOf reports whether every point of s is covered by other, i.e.
// s ⊆ other as sets of points.
func (s Set) SubsetOf(other Set) bool {
	for _, iv := range s {
		if !setCoversInterval(other, iv) {
			return false
		}
	}
	return true
}

// setCoversInterval reports whether other entirely covers iv.
func setCoversInterval(other Set, iv Interval) bool {
	pos := iv.Start
	for _, o := range other {
		if o.Start > pos {
			break
		}
		if o.End > pos {
			pos = o.End
		}
		if pos >= iv.End {
			return true
		}
	}
	return pos >= iv.End
}

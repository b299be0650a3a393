package streamgraph

import (
	"fmt"
	"sort"

	appErrors "github.com/fur0rem/streamgraph/pkg/errors"
)

// sliceSize is the number of relative offsets a single slice can hold:
// one per value of a uint8 relative offset, giving roughly 8x
// compression over storing full absolute times when instants are
// locally dense.
const sliceSize = 256

// KeyMomentsTable is a strictly increasing, slice-compressed sequence
// of absolute instants at which the graph topology changes. Slice s
// holds the relative offsets for absolute times in
// [s*sliceSize, (s+1)*sliceSize); absolute time = s*sliceSize+relative.
type KeyMomentsTable struct {
	slices [][]uint8 // relative offsets, strictly increasing within a slice
	prefix []int     // prefix[i] = number of moments before slice i, len(slices)+1

	lastPushed uint64
	hasPushed  bool
	sealed     bool
}

// NewKeyMomentsTable returns an empty table ready for PushInOrder calls.
func NewKeyMomentsTable() *KeyMomentsTable {
	return &KeyMomentsTable{}
}

// PushInOrder appends t at the current write cursor. t must be
// strictly greater than every previously pushed value.
func (k *KeyMomentsTable) PushInOrder(t uint64) error {
	if k.sealed {
		return appErrors.New(appErrors.CodeInvariantViolated, "key moments table already sealed")
	}
	if k.hasPushed && t <= k.lastPushed {
		return appErrors.New(appErrors.CodeInvariantViolated,
			fmt.Sprintf("key moment %d does not strictly increase past %d", t, k.lastPushed))
	}

	slice := int(t / sliceSize)
	relative := uint8(t % sliceSize)

	for len(k.slices) <= slice {
		k.slices = append(k.slices, nil)
	}
	k.slices[slice] = append(k.slices[slice], relative)

	k.lastPushed = t
	k.hasPushed = true
	return nil
}

// Seal finalises the table, building the prefix-sum index used by Nth
// and FindTimeIndex. Call once, after all moments are pushed.
func (k *KeyMomentsTable) Seal() {
	k.prefix = make([]int, len(k.slices)+1)
	for i, s := range k.slices {
		k.prefix[i+1] = k.prefix[i] + len(s)
	}
	k.sealed = true
}

// Len returns the total number of key moments pushed.
func (k *KeyMomentsTable) Len() int {
	if !k.sealed {
		n := 0
		for _, s := range k.slices {
			n += len(s)
		}
		return n
	}
	return k.prefix[len(k.prefix)-1]
}

// Nth returns the 0-based absolute time of the nth moment across all
// slices. Panics on an out-of-range n; callers must check Len first.
func (k *KeyMomentsTable) Nth(n int) uint64 {
	slice := sort.Search(len(k.slices), func(i int) bool { return k.prefix[i+1] > n })
	idx := n - k.prefix[slice]
	return uint64(slice)*sliceSize + uint64(k.slices[slice][idx])
}

// First returns the absolute time of the first moment.
func (k *KeyMomentsTable) First() uint64 {
	return k.Nth(0)
}

// Last returns the absolute time of the final moment.
func (k *KeyMomentsTable) Last() uint64 {
	return k.Nth(k.Len() - 1)
}

// FindTimeIndex returns the index i such that Nth(i) <= t < Nth(i+1),
// or the terminal index (Len()-1) when t is at or past the last
// moment. Runs in O(log M) via binary search.
func (k *KeyMomentsTable) FindTimeIndex(t uint64) int {
	n := k.Len()
	if n == 0 {
		return 0
	}
	// Largest i with Nth(i) <= t.
	i := sort.Search(n, func(i int) bool { return k.Nth(i) > t })
	if i == 0 {
		return 0
	}
	return i - 1
}

package streamgraph

import (
	"context"
	"fmt"

	appErrors "github.com/fur0rem/streamgraph/pkg/errors"
	"github.com/fur0rem/streamgraph/pkg/interval"
	"github.com/fur0rem/streamgraph/pkg/parallel"
	"github.com/fur0rem/streamgraph/pkg/utils"
)

// StreamGraph is the immutable aggregate produced by a successful
// Build: a fixed set of temporal nodes and links, their key-moments
// timeline, and the events recorded at each moment. Once built, a
// StreamGraph never changes; all queries go through a Stream view.
type StreamGraph struct {
	Nodes    []TemporalNode
	Links    []Link
	Moments  *KeyMomentsTable
	Events   *EventsTable
	Scaling  uint64
	Names    []string // optional; len(Names)==len(Nodes) or nil
	Lifespan interval.Interval
}

// Builder accumulates a StreamGraph's data and validates it all-or-
// nothing on Build. A Builder is single-use: once Build succeeds or
// fails, discard it.
type Builder struct {
	nodes    []TemporalNode
	links    []Link
	moments  *KeyMomentsTable
	events   *EventsTable
	scaling  uint64
	names    []string
	lifespan interval.Interval

	poolConfig parallel.PoolConfig
	hasPool    bool
	log        utils.Logger
	tm         *utils.Timer
}

// NewBuilder returns an empty Builder. log and tm may be nil, in which
// case a null logger and a disabled timer are used.
func NewBuilder(log utils.Logger, tm *utils.Timer) *Builder {
	if log == nil {
		log = &utils.NullLogger{}
	}
	if tm == nil {
		tm = utils.NullTimer
	}
	return &Builder{
		scaling: 1,
		moments: NewKeyMomentsTable(),
		log:     log,
		tm:      tm,
	}
}

// SetScaling sets the time-unit scaling factor.
func (b *Builder) SetScaling(scaling uint64) { b.scaling = scaling }

// SetNames attaches human-readable names, one per node, in node-id
// order.
func (b *Builder) SetNames(names []string) { b.names = names }

// SetLifespan sets the graph's overall time window.
func (b *Builder) SetLifespan(lifespan interval.Interval) { b.lifespan = lifespan }

// AddNode appends a new node and returns its id.
func (b *Builder) AddNode(neighbours []LinkID, presence interval.Set) NodeID {
	id := NodeID(len(b.nodes))
	b.nodes = append(b.nodes, TemporalNode{Neighbours: neighbours, Presence: presence})
	return id
}

// AddLink appends a new link and returns its id. Endpoints are
// reordered so Endpoints[0] <= Endpoints[1].
func (b *Builder) AddLink(a, c NodeID, presence interval.Set) LinkID {
	if a > c {
		a, c = c, a
	}
	id := LinkID(len(b.links))
	b.links = append(b.links, Link{Endpoints: [2]NodeID{a, c}, Presence: presence})
	return id
}

// PushMoment records a key moment in the timeline. additive is
// ignored for the very first moment pushed, which is always treated
// as moment 0 (implicitly additive).
func (b *Builder) PushMoment(t uint64, additive bool, e Event) error {
	if b.events == nil {
		b.events = NewEventsTable(0)
		if err := b.moments.PushInOrder(t); err != nil {
			return err
		}
		b.events.PushMomentZero(e)
		return nil
	}
	if err := b.moments.PushInOrder(t); err != nil {
		return err
	}
	b.events.PushRegular(e, additive)
	return nil
}

// PushRemovalOnlyMoment appends a moment in the trailing removal-only
// tail: everything named in e becomes absent, and no further moments
// may be pushed with PushMoment after this.
func (b *Builder) PushRemovalOnlyMoment(t uint64, e Event) error {
	if b.events == nil {
		return appErrors.New(appErrors.CodeInvariantViolated, "cannot push a removal-only moment before moment zero")
	}
	if err := b.moments.PushInOrder(t); err != nil {
		return err
	}
	b.events.PushTail(e)
	return nil
}

// WithWorkerPool configures the parallel pool used to verify
// invariants across links at Build time. Build-time is the only place
// this engine uses concurrency; once a Stream exists, queries are
// strictly single-threaded.
func (b *Builder) WithWorkerPool(config parallel.PoolConfig) *Builder {
	b.poolConfig = config
	b.hasPool = true
	return b
}

// Build validates every invariant and, on success, returns an
// immutable StreamGraph. On failure, no partial graph is ever
// observable: Build is all-or-nothing.
func (b *Builder) Build(ctx context.Context) (*StreamGraph, error) {
	var result *StreamGraph
	_, err := b.tm.TimeFuncWithError("build", func() error {
		r, err := b.build(ctx)
		result = r
		return err
	})
	return result, err
}

func (b *Builder) build(ctx context.Context) (*StreamGraph, error) {
	if err := b.checkBounds(); err != nil {
		return nil, err
	}
	if err := b.checkLinkPresenceInvariant(ctx); err != nil {
		return nil, err
	}
	if err := b.checkNeighbourConsistency(); err != nil {
		return nil, err
	}

	b.moments.Seal()

	b.log.Info("built stream graph with %d nodes, %d links, %d key moments",
		len(b.nodes), len(b.links), b.moments.Len())

	return &StreamGraph{
		Nodes:    b.nodes,
		Links:    b.links,
		Moments:  b.moments,
		Events:   b.events,
		Scaling:  b.scaling,
		Names:    b.names,
		Lifespan: b.lifespan,
	}, nil
}

// checkBounds verifies every link endpoint and event id refers to an
// actual node/link.
func (b *Builder) checkBounds() error {
	numNodes := NodeID(len(b.nodes))
	numLinks := LinkID(len(b.links))

	for i, l := range b.links {
		if l.Endpoints[0] >= numNodes || l.Endpoints[1] >= numNodes {
			return appErrors.New(appErrors.CodeOutOfRange,
				fmt.Sprintf("link %d references out-of-range node", i))
		}
	}
	for i, n := range b.nodes {
		for _, lid := range n.Neighbours {
			if lid >= numLinks {
				return appErrors.New(appErrors.CodeOutOfRange,
					fmt.Sprintf("node %d references out-of-range link %d", i, lid))
			}
		}
	}
	if b.names != nil && len(b.names) != len(b.nodes) {
		return appErrors.New(appErrors.CodeOutOfRange, "names length does not match node count")
	}
	if b.events != nil {
		for i := 0; i < b.events.Len(); i++ {
			e := b.events.EventAt(i)
			for _, nid := range e.NodeIDs {
				if nid >= numNodes {
					return appErrors.New(appErrors.CodeOutOfRange,
						fmt.Sprintf("moment %d references out-of-range node %d", i, nid))
				}
			}
			for _, lid := range e.LinkIDs {
				if lid >= numLinks {
					return appErrors.New(appErrors.CodeOutOfRange,
						fmt.Sprintf("moment %d references out-of-range link %d", i, lid))
				}
			}
		}
	}
	return nil
}

// checkLinkPresenceInvariant verifies that each link is present only
// while both its endpoints are present: link.Presence must be a
// subset of the intersection of the two endpoints' Presence sets.
// This is the one place the build is explicitly parallelised, since
// each link's check is independent and no Stream view exists yet.
func (b *Builder) checkLinkPresenceInvariant(ctx context.Context) error {
	indices := make([]int, len(b.links))
	for i := range indices {
		indices[i] = i
	}

	check := func(ctx context.Context, i int) error {
		l := b.links[i]
		allowed := interval.IntersectSets(b.nodes[l.Endpoints[0]].Presence, b.nodes[l.Endpoints[1]].Presence)
		if !l.Presence.SubsetOf(allowed) {
			return appErrors.New(appErrors.CodeInvariantViolated,
				fmt.Sprintf("link %d is present while an endpoint is absent", i))
		}
		return nil
	}

	if len(indices) < 2 {
		for _, i := range indices {
			if err := check(ctx, i); err != nil {
				return err
			}
		}
		return nil
	}

	config := parallel.DefaultPoolConfig()
	if b.hasPool {
		config = b.poolConfig
	}
	_, err := parallel.ForEach(ctx, indices, config, check)
	return err
}

// checkNeighbourConsistency verifies that every link appears in the
// Neighbours list of both its endpoints, exactly once each.
func (b *Builder) checkNeighbourConsistency() error {
	for i, l := range b.links {
		for _, endpoint := range l.Endpoints {
			neighbours := b.nodes[endpoint].Neighbours
			if !containsLink(neighbours, LinkID(i)) {
				return appErrors.New(appErrors.CodeInvariantViolated,
					fmt.Sprintf("link %d missing from neighbour list of node %d", i, endpoint))
			}
			count := 0
			for _, id := range neighbours {
				if id == LinkID(i) {
					count++
				}
			}
			if count > 1 {
				return appErrors.New(appErrors.CodeInvariantViolated,
					fmt.Sprintf("link %d listed %d times in neighbour list of node %d", i, count, endpoint))
			}
		}
	}
	return nil
}

func containsLink(links []LinkID, id LinkID) bool {
	for _, l := range links {
		if l == id {
			return true
		}
	}
	return false
}

// Package sgaformat reads the bracketed textual stream-graph format into a
// streamgraph.Builder. The grammar is a fixed sequence of sections
// ([General], [Memory], [Data], optional [Names]); the reader is a single
// forward pass with no recovery, matching the source format's fail-fast
// style.
package sgaformat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/fur0rem/streamgraph/internal/streamgraph"
	"github.com/fur0rem/streamgraph/pkg/collections"
	appErrors "github.com/fur0rem/streamgraph/pkg/errors"
	"github.com/fur0rem/streamgraph/pkg/interval"
)

// versionPrefix is the literal header every document starts with.
const versionPrefix = "SGA Internal version "

// Options configures the reader.
type Options struct {
	// Strict rejects any non-blank content after the last expected
	// section ([Names] for a named document, the presence intervals
	// otherwise); without it such content is ignored. A malformed line
	// inside the expected sections is an error either way.
	Strict bool
}

// DefaultOptions returns the reader's default options.
func DefaultOptions() Options {
	return Options{Strict: true}
}

// Read parses r and returns a populated, not-yet-built streamgraph.Builder.
// Call Build on the result to obtain a *streamgraph.StreamGraph.
func Read(ctx context.Context, r io.Reader) (*streamgraph.Builder, error) {
	return ReadWithOptions(ctx, r, DefaultOptions())
}

// ReadWithOptions is Read with explicit Options.
func ReadWithOptions(ctx context.Context, r io.Reader, opts Options) (*streamgraph.Builder, error) {
	rd := &reader{sc: bufio.NewScanner(r), opts: opts}
	rd.sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if err := rd.readVersion(); err != nil {
		return nil, err
	}

	lifespan, named, err := rd.readGeneral()
	if err != nil {
		return nil, err
	}

	counts, err := rd.readMemory()
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := rd.expectLine("[Data]"); err != nil {
		return nil, err
	}

	nodesToLinks, linksToNodes, err := rd.readNeighbours(counts.numNodes, counts.numLinks)
	if err != nil {
		return nil, err
	}

	momentZero, regular, tail, err := rd.readEvents(counts.numRegular, counts.numTail)
	if err != nil {
		return nil, err
	}

	nodePresence, linkPresence, err := rd.readPresenceIntervals(counts.numNodes, counts.numLinks)
	if err != nil {
		return nil, err
	}

	var names []string
	if named {
		names, err = rd.readNames(counts.numNodes)
		if err != nil {
			return nil, err
		}
	}

	if rd.opts.Strict {
		if line, ok := rd.nextLine(); ok {
			return nil, rd.errf("unexpected content after the last section: %q", line)
		}
	}

	builder := streamgraph.NewBuilder(nil, nil)
	builder.SetLifespan(lifespan)
	if named {
		builder.SetNames(names)
	}

	nodeIDs := make([]streamgraph.NodeID, counts.numNodes)
	for i := 0; i < counts.numNodes; i++ {
		nodeIDs[i] = builder.AddNode(nodesToLinks[i], nodePresence[i])
	}
	for i := 0; i < counts.numLinks; i++ {
		a, c := linksToNodes[i][0], linksToNodes[i][1]
		if int(a) >= counts.numNodes || int(c) >= counts.numNodes {
			return nil, rd.errf("link %d: endpoint out of range", i)
		}
		builder.AddLink(nodeIDs[a], nodeIDs[c], linkPresence[i])
	}

	if err := builder.PushMoment(0, true, momentZero); err != nil {
		return nil, err
	}
	for _, m := range regular {
		if err := builder.PushMoment(m.time, m.additive, m.event); err != nil {
			return nil, err
		}
	}
	for _, m := range tail {
		if err := builder.PushRemovalOnlyMoment(m.time, m.event); err != nil {
			return nil, err
		}
	}

	return builder, nil
}

type memoryCounts struct {
	numNodes   int
	numLinks   int
	numRegular int
	numTail    int
	numSlices  int
}

type taggedEvent struct {
	time     uint64
	additive bool
	event    streamgraph.Event
}

type reader struct {
	sc      *bufio.Scanner
	lineNum int
	opts    Options
}

func (r *reader) nextLine() (string, bool) {
	for r.sc.Scan() {
		r.lineNum++
		line := strings.TrimSpace(r.sc.Text())
		if line == "" {
			continue
		}
		return line, true
	}
	return "", false
}

func (r *reader) expectLine(want string) error {
	line, ok := r.nextLine()
	if !ok {
		return r.errf("expected %q, got EOF", want)
	}
	if line != want {
		return r.errf("expected %q, got %q", want, line)
	}
	return nil
}

func (r *reader) errf(format string, args ...any) error {
	return appErrors.New(appErrors.CodeParseError, fmt.Sprintf("line %d: %s", r.lineNum, fmt.Sprintf(format, args...)))
}

func (r *reader) readVersion() error {
	line, ok := r.nextLine()
	if !ok {
		return r.errf("expected version header, got EOF")
	}
	if !strings.HasPrefix(line, versionPrefix) {
		return r.errf("malformed version header: %q", line)
	}
	return nil
}

func (r *reader) readKeyValue() (string, string, error) {
	line, ok := r.nextLine()
	if !ok {
		return "", "", r.errf("expected key=value, got EOF")
	}
	key, value, found := strings.Cut(line, "=")
	if !found {
		return "", "", r.errf("malformed key=value line: %q", line)
	}
	return key, value, nil
}

func (r *reader) readGeneral() (interval.Interval, bool, error) {
	if err := r.expectLine("[General]"); err != nil {
		return interval.Empty, false, err
	}

	key, value, err := r.readKeyValue()
	if err != nil {
		return interval.Empty, false, err
	}
	if key != "Lifespan" {
		return interval.Empty, false, r.errf("expected Lifespan, got %q", key)
	}
	pair, err := parseUintPair(value)
	if err != nil {
		return interval.Empty, false, r.errf("malformed Lifespan: %v", err)
	}
	lifespan := interval.New(pair[0], pair[1])

	key, value, err = r.readKeyValue()
	if err != nil {
		return interval.Empty, false, err
	}
	if key != "Named" {
		return interval.Empty, false, r.errf("expected Named, got %q", key)
	}
	named, err := strconv.ParseBool(value)
	if err != nil {
		return interval.Empty, false, r.errf("malformed Named: %v", err)
	}

	return lifespan, named, nil
}

func (r *reader) readMemory() (memoryCounts, error) {
	var counts memoryCounts

	if err := r.expectLine("[Memory]"); err != nil {
		return counts, err
	}

	fields := map[string]*int{
		"NumberOfNodes":      &counts.numNodes,
		"NumberOfLinks":      &counts.numLinks,
		"RegularKeyMoments":  &counts.numRegular,
		"RemovalOnlyMoments": &counts.numTail,
		"NumberOfSlices":     &counts.numSlices,
	}
	order := []string{"NumberOfNodes", "NumberOfLinks", "RegularKeyMoments", "RemovalOnlyMoments", "NumberOfSlices"}
	for _, name := range order {
		key, value, err := r.readKeyValue()
		if err != nil {
			return counts, err
		}
		if key != name {
			return counts, r.errf("expected %s, got %q", name, key)
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return counts, r.errf("malformed %s: %v", name, err)
		}
		if dst, ok := fields[name]; ok {
			*dst = n
		}
	}

	if err := r.expectLine("[[Nodes]]"); err != nil {
		return counts, err
	}
	if err := r.skipCountSubsection("[[[NumberOfNeighbours]]]", counts.numNodes); err != nil {
		return counts, err
	}
	if err := r.skipCountSubsection("[[[NumberOfIntervals]]]", counts.numNodes); err != nil {
		return counts, err
	}

	if err := r.expectLine("[[Links]]"); err != nil {
		return counts, err
	}
	if err := r.skipCountSubsection("[[[NumberOfIntervals]]]", counts.numLinks); err != nil {
		return counts, err
	}

	if err := r.expectLine("[[KeyMoments]]"); err != nil {
		return counts, err
	}
	numEvents := counts.numRegular + counts.numTail + 1
	if err := r.skipCountSubsection("[[[NumberOfEvents]]]", numEvents); err != nil {
		return counts, err
	}
	if err := r.skipCountSubsection("[[[NumberOfSlices]]]", counts.numSlices); err != nil {
		return counts, err
	}

	return counts, nil
}

// skipCountSubsection consumes a header line followed by n integer lines.
// The per-element counts exist in the format for preallocation purposes in
// the original C implementation; Go's slices grow on demand, so the reader
// only validates the lines are well-formed and discards the values.
func (r *reader) skipCountSubsection(header string, n int) error {
	if err := r.expectLine(header); err != nil {
		return err
	}
	buf := collections.GetUint64Slice()
	defer collections.PutUint64Slice(buf)
	for i := 0; i < n; i++ {
		line, ok := r.nextLine()
		if !ok {
			return r.errf("%s: expected %d entries, got EOF at entry %d", header, n, i)
		}
		v, err := strconv.ParseUint(line, 10, 64)
		if err != nil {
			return r.errf("%s: malformed entry %d: %v", header, i, err)
		}
		*buf = append(*buf, v)
	}
	return nil
}

func (r *reader) readNeighbours(numNodes, numLinks int) ([][]streamgraph.LinkID, [][2]streamgraph.NodeID, error) {
	if err := r.expectLine("[[Neighbours]]"); err != nil {
		return nil, nil, err
	}
	if err := r.expectLine("[[[NodesToLinks]]]"); err != nil {
		return nil, nil, err
	}
	nodesToLinks := make([][]streamgraph.LinkID, numNodes)
	for i := 0; i < numNodes; i++ {
		line, ok := r.nextLine()
		if !ok {
			return nil, nil, r.errf("NodesToLinks: expected %d entries, got EOF at entry %d", numNodes, i)
		}
		ids, err := parseUintList(line)
		if err != nil {
			return nil, nil, r.errf("NodesToLinks entry %d: %v", i, err)
		}
		links := make([]streamgraph.LinkID, len(ids))
		for j, id := range ids {
			links[j] = streamgraph.LinkID(id)
		}
		nodesToLinks[i] = links
	}

	if err := r.expectLine("[[[LinksToNodes]]]"); err != nil {
		return nil, nil, err
	}
	linksToNodes := make([][2]streamgraph.NodeID, numLinks)
	for i := 0; i < numLinks; i++ {
		line, ok := r.nextLine()
		if !ok {
			return nil, nil, r.errf("LinksToNodes: expected %d entries, got EOF at entry %d", numLinks, i)
		}
		pair, err := parseUintPair(line)
		if err != nil {
			return nil, nil, r.errf("LinksToNodes entry %d: %v", i, err)
		}
		linksToNodes[i] = [2]streamgraph.NodeID{streamgraph.NodeID(pair[0]), streamgraph.NodeID(pair[1])}
	}

	return nodesToLinks, linksToNodes, nil
}

func (r *reader) readEvents(numRegular, numTail int) (streamgraph.Event, []taggedEvent, []taggedEvent, error) {
	if err := r.expectLine("[[Events]]"); err != nil {
		return streamgraph.Event{}, nil, nil, err
	}

	line, ok := r.nextLine()
	if !ok {
		return streamgraph.Event{}, nil, nil, r.errf("expected moment-zero event, got EOF")
	}
	_, body, found := strings.Cut(line, "=")
	if !found {
		return streamgraph.Event{}, nil, nil, r.errf("malformed moment-zero event: %q", line)
	}
	_, nodeIDs, linkIDs, err := parseTaggedEvent(body)
	if err != nil {
		return streamgraph.Event{}, nil, nil, r.errf("moment-zero event: %v", err)
	}
	momentZero := streamgraph.Event{NodeIDs: nodeIDs, LinkIDs: linkIDs}

	if err := r.expectLine("[[[Regular]]]"); err != nil {
		return momentZero, nil, nil, err
	}
	regular := make([]taggedEvent, 0, numRegular)
	for i := 0; i < numRegular; i++ {
		line, ok := r.nextLine()
		if !ok {
			return momentZero, nil, nil, r.errf("Regular: expected %d entries, got EOF at entry %d", numRegular, i)
		}
		timeStr, body, found := strings.Cut(line, "=")
		if !found {
			return momentZero, nil, nil, r.errf("malformed regular event: %q", line)
		}
		t, err := strconv.ParseUint(timeStr, 10, 64)
		if err != nil {
			return momentZero, nil, nil, r.errf("regular event %d: malformed time: %v", i, err)
		}
		additive, nodeIDs, linkIDs, err := parseTaggedEvent(body)
		if err != nil {
			return momentZero, nil, nil, r.errf("regular event %d: %v", i, err)
		}
		if additive == nil {
			return momentZero, nil, nil, r.errf("regular event %d: missing +/- sign", i)
		}
		regular = append(regular, taggedEvent{time: t, additive: *additive, event: streamgraph.Event{NodeIDs: nodeIDs, LinkIDs: linkIDs}})
	}

	if err := r.expectLine("[[[RemovalOnly]]]"); err != nil {
		return momentZero, regular, nil, err
	}
	tail := make([]taggedEvent, 0, numTail)
	for i := 0; i < numTail; i++ {
		line, ok := r.nextLine()
		if !ok {
			return momentZero, regular, nil, r.errf("RemovalOnly: expected %d entries, got EOF at entry %d", numTail, i)
		}
		timeStr, body, found := strings.Cut(line, "=")
		if !found {
			return momentZero, regular, nil, r.errf("malformed removal-only event: %q", line)
		}
		t, err := strconv.ParseUint(timeStr, 10, 64)
		if err != nil {
			return momentZero, regular, nil, r.errf("removal-only event %d: malformed time: %v", i, err)
		}
		_, nodeIDs, linkIDs, err := parseTaggedEvent(body)
		if err != nil {
			return momentZero, regular, nil, r.errf("removal-only event %d: %v", i, err)
		}
		tail = append(tail, taggedEvent{time: t, additive: false, event: streamgraph.Event{NodeIDs: nodeIDs, LinkIDs: linkIDs}})
	}

	return momentZero, regular, tail, nil
}

func (r *reader) readPresenceIntervals(numNodes, numLinks int) ([]interval.Set, []interval.Set, error) {
	if err := r.expectLine("[[PresenceIntervals]]"); err != nil {
		return nil, nil, err
	}
	if err := r.expectLine("[[[Nodes]]]"); err != nil {
		return nil, nil, err
	}
	nodePresence := make([]interval.Set, numNodes)
	for i := 0; i < numNodes; i++ {
		line, ok := r.nextLine()
		if !ok {
			return nil, nil, r.errf("Nodes presence: expected %d entries, got EOF at entry %d", numNodes, i)
		}
		set, err := parseIntervalSet(line)
		if err != nil {
			return nil, nil, r.errf("Nodes presence entry %d: %v", i, err)
		}
		nodePresence[i] = set
	}

	if err := r.expectLine("[[[Links]]]"); err != nil {
		return nil, nil, err
	}
	linkPresence := make([]interval.Set, numLinks)
	for i := 0; i < numLinks; i++ {
		line, ok := r.nextLine()
		if !ok {
			return nil, nil, r.errf("Links presence: expected %d entries, got EOF at entry %d", numLinks, i)
		}
		set, err := parseIntervalSet(line)
		if err != nil {
			return nil, nil, r.errf("Links presence entry %d: %v", i, err)
		}
		linkPresence[i] = set
	}

	return nodePresence, linkPresence, nil
}

func (r *reader) readNames(numNodes int) ([]string, error) {
	if err := r.expectLine("[Names]"); err != nil {
		return nil, err
	}
	names := make([]string, numNodes)
	for i := 0; i < numNodes; i++ {
		line, ok := r.nextLine()
		if !ok {
			return nil, r.errf("Names: expected %d entries, got EOF at entry %d", numNodes, i)
		}
		names[i] = line
	}
	return names, nil
}

var pairRegexp = regexp.MustCompile(`\((\d+)\s+(\d+)\)`)
var taggedTokenRegexp = regexp.MustCompile(`\(([NL])\s+(\d+)\)`)

// parseUintPair parses "(a b)" into [a, b].
func parseUintPair(s string) ([2]uint64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return [2]uint64{}, fmt.Errorf("expected 2 fields, got %d in %q", len(fields), s)
	}
	a, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return [2]uint64{}, err
	}
	b, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return [2]uint64{}, err
	}
	return [2]uint64{a, b}, nil
}

// parseUintList parses "(a b c)" into []uint64, "()" into an empty slice.
func parseUintList(s string) ([]uint64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	fields := strings.Fields(s)
	out := make([]uint64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// parseIntervalSet parses "((0 100))" or "((0 50) (60 100))" into a Set.
func parseIntervalSet(s string) (interval.Set, error) {
	matches := pairRegexp.FindAllStringSubmatch(s, -1)
	intervals := make([]interval.Interval, 0, len(matches))
	for _, m := range matches {
		start, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil {
			return nil, err
		}
		end, err := strconv.ParseUint(m[2], 10, 64)
		if err != nil {
			return nil, err
		}
		intervals = append(intervals, interval.New(start, end))
	}
	return interval.Merge(intervals), nil
}

// parseTaggedEvent parses an event body such as "+ (N 3) (L 0)", "-",
// "(N 0) (N 1)" (no sign, for the moment-zero and removal-only forms), or
// "+" (an additive key moment with an empty payload).
func parseTaggedEvent(body string) (additive *bool, nodeIDs []streamgraph.NodeID, linkIDs []streamgraph.LinkID, err error) {
	body = strings.TrimSpace(body)
	body = strings.TrimPrefix(body, "(")
	body = strings.TrimSuffix(body, ")")
	body = strings.TrimSpace(body)

	if strings.HasPrefix(body, "+") {
		v := true
		additive = &v
		body = strings.TrimSpace(strings.TrimPrefix(body, "+"))
	} else if strings.HasPrefix(body, "-") {
		v := false
		additive = &v
		body = strings.TrimSpace(strings.TrimPrefix(body, "-"))
	}

	matches := taggedTokenRegexp.FindAllStringSubmatch(body, -1)
	for _, m := range matches {
		id, convErr := strconv.ParseUint(m[2], 10, 64)
		if convErr != nil {
			return additive, nil, nil, convErr
		}
		switch m[1] {
		case "N":
			nodeIDs = append(nodeIDs, streamgraph.NodeID(id))
		case "L":
			linkIDs = append(linkIDs, streamgraph.LinkID(id))
		}
	}
	return additive, nodeIDs, linkIDs, nil
}

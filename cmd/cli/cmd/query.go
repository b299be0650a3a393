package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fur0rem/streamgraph/internal/service"
	"github.com/fur0rem/streamgraph/internal/streamgraph"
	"github.com/fur0rem/streamgraph/pkg/compression"
	"github.com/fur0rem/streamgraph/pkg/writer"
)

var (
	jsonOutput    bool
	outFile       string
	compressAlgo  string
)

var queryCmd = &cobra.Command{
	Use:   "query <file> <op> [args...]",
	Short: "Query a stream graph document",
	Long: `query loads a stream graph document and runs a single read-only
operation over the full-graph view:

  nodes                 list every node id
  links                 list every link id
  lifespan              print the graph's lifespan
  nodes-at <t>          list node ids present at time t
  links-at <t>          list link ids present at time t
  times-node <id>       list presence intervals of node id
  times-link <id>       list presence intervals of link id
  neighbours <id>       list the link ids incident to node id`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, op, rest := args[0], args[1], args[2:]

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()

		eng := service.New(GetConfig(), GetLogger())
		ctx := context.Background()
		g, err := eng.Build(ctx, f)
		if err != nil {
			return err
		}

		stream := eng.FullGraph(ctx, g)
		return runQuery(stream, op, rest)
	},
}

func init() {
	queryCmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit output as JSON")
	queryCmd.Flags().StringVar(&outFile, "out", "", "Write the JSON result to this file instead of stdout")
	queryCmd.Flags().StringVar(&compressAlgo, "compress", "none", "Compression for --out: none, gzip, or zstd")
	rootCmd.AddCommand(queryCmd)
}

// writeResult renders v as JSON and, if outFile is set, compresses it
// with the requested algorithm and writes it to outFile instead of
// printing to stdout.
func writeResult(v any) error {
	if outFile == "" {
		return writer.NewJSONWriter[any]().Write(v, os.Stdout)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshalling result: %w", err)
	}

	var compType compression.Type
	switch compressAlgo {
	case "none":
		compType = compression.TypeNone
	case "gzip":
		compType = compression.TypeGzip
	case "zstd":
		compType = compression.TypeZstd
	default:
		return fmt.Errorf("unknown compression algorithm: %q", compressAlgo)
	}

	comp, err := compression.New(compType, compression.LevelDefault)
	if err != nil {
		return fmt.Errorf("creating %s compressor: %w", compressAlgo, err)
	}
	defer compression.Close(comp)

	compressed, err := comp.Compress(data)
	if err != nil {
		return fmt.Errorf("compressing result: %w", err)
	}

	return os.WriteFile(outFile, compressed, 0644)
}

func runQuery(stream streamgraph.Stream, op string, args []string) error {
	switch op {
	case "nodes":
		return emitNodeIDs(drainNodeIDs(stream.NodesSet()))
	case "links":
		return emitLinkIDs(drainLinkIDs(stream.LinksSet()))
	case "lifespan":
		span := stream.Lifespan()
		return emitAny(map[string]uint64{"start": span.Start, "end": span.End})
	case "nodes-at":
		t, err := parseArgTime(args, "nodes-at")
		if err != nil {
			return err
		}
		return emitNodeIDs(drainNodeIDs(stream.NodesPresentAt(t)))
	case "links-at":
		t, err := parseArgTime(args, "links-at")
		if err != nil {
			return err
		}
		return emitLinkIDs(drainLinkIDs(stream.LinksPresentAt(t)))
	case "times-node":
		id, err := parseArgNodeID(args, "times-node")
		if err != nil {
			return err
		}
		return emitIntervals(drainIntervals(stream.TimesNodePresent(id)))
	case "times-link":
		id, err := parseArgLinkID(args, "times-link")
		if err != nil {
			return err
		}
		return emitIntervals(drainIntervals(stream.TimesLinkPresent(id)))
	case "neighbours":
		id, err := parseArgNodeID(args, "neighbours")
		if err != nil {
			return err
		}
		return emitLinkIDs(drainLinkIDs(stream.NeighboursOf(id)))
	default:
		return fmt.Errorf("unknown query operation: %q", op)
	}
}

func parseArgTime(args []string, op string) (streamgraph.Time, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("%s requires a time argument", op)
	}
	t, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid time %q: %w", op, args[0], err)
	}
	return t, nil
}

func parseArgNodeID(args []string, op string) (streamgraph.NodeID, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("%s requires a node id argument", op)
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid node id %q: %w", op, args[0], err)
	}
	return streamgraph.NodeID(id), nil
}

func parseArgLinkID(args []string, op string) (streamgraph.LinkID, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("%s requires a link id argument", op)
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid link id %q: %w", op, args[0], err)
	}
	return streamgraph.LinkID(id), nil
}

func drainNodeIDs(it streamgraph.NodeIDIterator) []streamgraph.NodeID {
	var out []streamgraph.NodeID
	for {
		id, ok := it()
		if !ok {
			return out
		}
		out = append(out, id)
	}
}

func drainLinkIDs(it streamgraph.LinkIDIterator) []streamgraph.LinkID {
	var out []streamgraph.LinkID
	for {
		id, ok := it()
		if !ok {
			return out
		}
		out = append(out, id)
	}
}

func drainIntervals(it streamgraph.IntervalIterator) []struct {
	Start, End uint64
} {
	var out []struct {
		Start, End uint64
	}
	for {
		iv, ok := it()
		if !ok {
			return out
		}
		out = append(out, struct {
			Start, End uint64
		}{iv.Start, iv.End})
	}
}

func emitNodeIDs(ids []streamgraph.NodeID) error {
	if jsonOutput || outFile != "" {
		return writeResult(ids)
	}
	for _, id := range ids {
		fmt.Println(uint64(id))
	}
	return nil
}

func emitLinkIDs(ids []streamgraph.LinkID) error {
	if jsonOutput || outFile != "" {
		return writeResult(ids)
	}
	for _, id := range ids {
		fmt.Println(uint64(id))
	}
	return nil
}

func emitIntervals(ivs []struct {
	Start, End uint64
}) error {
	if jsonOutput || outFile != "" {
		return writeResult(ivs)
	}
	for _, iv := range ivs {
		fmt.Printf("[%d, %d)\n", iv.Start, iv.End)
	}
	return nil
}

func emitAny(v map[string]uint64) error {
	if jsonOutput || outFile != "" {
		return writeResult(v)
	}
	fmt.Printf("[%d, %d)\n", v["start"], v["end"])
	return nil
}

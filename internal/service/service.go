// Package service provides Engine, the build-once entry point that wires
// configuration, logging, and tracing around the core streamgraph package.
package service

import (
	"context"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fur0rem/streamgraph/internal/sgaformat"
	"github.com/fur0rem/streamgraph/internal/streamgraph"
	"github.com/fur0rem/streamgraph/pkg/config"
	"github.com/fur0rem/streamgraph/pkg/interval"
	"github.com/fur0rem/streamgraph/pkg/parallel"
	"github.com/fur0rem/streamgraph/pkg/utils"
)

var tracer = otel.Tracer("streamgraph")

// Engine is the main application facade: it reads a document, builds a
// StreamGraph, and hands out query views over it.
type Engine struct {
	config *config.Config
	logger utils.Logger
	clock  utils.Clock
}

// New creates a new Engine instance.
func New(cfg *config.Config, logger utils.Logger) *Engine {
	if logger == nil {
		logger = &utils.NullLogger{}
	}
	return &Engine{config: cfg, logger: logger, clock: utils.NewRealClock()}
}

// WithClock overrides the Engine's time source, letting tests observe the
// logged build duration deterministically.
func (e *Engine) WithClock(clock utils.Clock) *Engine {
	e.clock = clock
	return e
}

// Build parses r with the sgaformat reader and builds the resulting
// StreamGraph, wrapped in a streamgraph.build span and logged at Info/Error.
func (e *Engine) Build(ctx context.Context, r io.Reader) (*streamgraph.StreamGraph, error) {
	ctx, span := tracer.Start(ctx, "streamgraph.build")
	defer span.End()

	start := e.clock.Now()
	e.logger.Info("parsing stream graph document")
	builder, err := sgaformat.Read(ctx, r)
	if err != nil {
		e.logger.Error("failed to parse stream graph document: %v", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if e.config != nil {
		workers := e.config.Engine.MaxWorkers
		if workers < 1 {
			workers = 1
		}
		poolConfig := parallel.DefaultPoolConfig().WithWorkers(workers)
		builder = builder.WithWorkerPool(poolConfig)
	}

	graph, err := builder.Build(ctx)
	if err != nil {
		e.logger.Error("failed to build stream graph: %v", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("streamgraph.nodes", len(graph.Nodes)),
		attribute.Int("streamgraph.links", len(graph.Links)),
		attribute.Int("streamgraph.moments", graph.Moments.Len()),
	)
	elapsed := e.clock.Since(start)
	span.SetAttributes(attribute.Int64("streamgraph.build.duration_ms", elapsed.Milliseconds()))
	e.logger.Info("built stream graph: %d nodes, %d links, %d moments, took %s",
		len(graph.Nodes), len(graph.Links), graph.Moments.Len(), elapsed)

	return graph, nil
}

// FullGraph returns the unrestricted query view over g.
func (e *Engine) FullGraph(ctx context.Context, g *streamgraph.StreamGraph) streamgraph.Stream {
	_, span := tracer.Start(ctx, "streamgraph.view", trace.WithAttributes(attribute.String("streamgraph.view.kind", "full")))
	defer span.End()
	return streamgraph.NewFullGraph(g)
}

// Chunk returns a view restricted to nodes, links, and the given time
// window.
func (e *Engine) Chunk(ctx context.Context, g *streamgraph.StreamGraph, nodes []streamgraph.NodeID, links []streamgraph.LinkID, window interval.Interval) streamgraph.Stream {
	_, span := tracer.Start(ctx, "streamgraph.view", trace.WithAttributes(attribute.String("streamgraph.view.kind", "chunk")))
	defer span.End()
	span.SetAttributes(
		attribute.Int("streamgraph.chunk.nodes", len(nodes)),
		attribute.Int("streamgraph.chunk.links", len(links)),
	)
	return streamgraph.NewChunk(g, nodes, links, window)
}

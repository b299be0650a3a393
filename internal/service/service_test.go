package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fur0rem/streamgraph/internal/streamgraph"
	"github.com/fur0rem/streamgraph/pkg/config"
	"github.com/fur0rem/streamgraph/pkg/interval"
	"github.com/fur0rem/streamgraph/pkg/utils"
)

const testDoc = `SGA Internal version 1.0.0

[General]
Lifespan=(0 100)
Named=false

[Memory]
NumberOfNodes=2
NumberOfLinks=1
RegularKeyMoments=0
RemovalOnlyMoments=0
NumberOfSlices=1

[[Nodes]]
[[[NumberOfNeighbours]]]
1
1
[[[NumberOfIntervals]]]
1
1

[[Links]]
[[[NumberOfIntervals]]]
1

[[KeyMoments]]
[[[NumberOfEvents]]]
2
[[[NumberOfSlices]]]
1

[Data]

[[Neighbours]]
[[[NodesToLinks]]]
(0)
(0)
[[[LinksToNodes]]]
(0 1)

[[Events]]
0=((N 0) (N 1))
[[[Regular]]]
[[[RemovalOnly]]]

[[PresenceIntervals]]
[[[Nodes]]]
((0 100))
((0 100))
[[[Links]]]
((0 100))
`

func TestEngine_New(t *testing.T) {
	t.Run("WithLogger", func(t *testing.T) {
		logger := utils.NewDefaultLogger(utils.LevelInfo, nil)
		e := New(nil, logger)
		require.NotNil(t, e)
	})

	t.Run("WithoutLogger", func(t *testing.T) {
		e := New(nil, nil)
		require.NotNil(t, e)
	})
}

func TestEngine_Build(t *testing.T) {
	e := New(&config.Config{Engine: config.EngineConfig{MaxWorkers: 1}}, nil)

	g, err := e.Build(context.Background(), strings.NewReader(testDoc))
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 2)
	assert.Len(t, g.Links, 1)
}

func TestEngine_Build_ParallelWorkers(t *testing.T) {
	e := New(&config.Config{Engine: config.EngineConfig{MaxWorkers: 4}}, nil)

	g, err := e.Build(context.Background(), strings.NewReader(testDoc))
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 2)
}

func TestEngine_Build_ParseError(t *testing.T) {
	e := New(nil, nil)

	_, err := e.Build(context.Background(), strings.NewReader("not a valid document\n"))
	assert.Error(t, err)
}

func TestEngine_FullGraph(t *testing.T) {
	e := New(nil, nil)

	g, err := e.Build(context.Background(), strings.NewReader(testDoc))
	require.NoError(t, err)

	stream := e.FullGraph(context.Background(), g)
	require.NotNil(t, stream)

	nodes := stream.NodesSet()
	count := 0
	for {
		_, ok := nodes()
		if !ok {
			break
		}
		count++
	}
	assert.Equal(t, 2, count)
}

func TestEngine_Build_UsesClock(t *testing.T) {
	clock := utils.NewMockClock(time.Unix(0, 0))
	e := New(nil, nil).WithClock(clock)

	g, err := e.Build(context.Background(), strings.NewReader(testDoc))
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 2)
}

func TestEngine_Chunk(t *testing.T) {
	e := New(nil, nil)

	g, err := e.Build(context.Background(), strings.NewReader(testDoc))
	require.NoError(t, err)

	stream := e.Chunk(context.Background(), g, []streamgraph.NodeID{0}, nil, interval.New(0, 50))
	require.NotNil(t, stream)
}

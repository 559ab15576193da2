package simulation

import (
	"context"
	"testing"

	"github.com/aryo-w/streetflow/pkg"
	"github.com/aryo-w/streetflow/pkg/datastructure"
	"github.com/aryo-w/streetflow/pkg/endpoints"
	"github.com/aryo-w/streetflow/pkg/randengine"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testRequest builds a 5x5 residential lattice (~2.2km square) with a
// primary road leaving the frame eastward, enough structure for
// routing, epicenter inference and endpoint pools.
func testRequest(tripOverride int) *Request {
	const n = 5
	const step = 0.005

	nodeID := func(r, c int) int64 { return int64(r*n + c + 1) }
	pt := func(r, c int) datastructure.RoadPoint {
		return datastructure.RoadPoint{ID: nodeID(r, c), Lat: float64(r) * step, Lon: float64(c) * step}
	}

	roads := make([]datastructure.Road, 0, 2*n+1)
	for r := 0; r < n; r++ {
		points := make([]datastructure.RoadPoint, 0, n)
		for c := 0; c < n; c++ {
			points = append(points, pt(r, c))
		}
		roads = append(roads, datastructure.Road{
			ID: int64(100 + r), Points: points, Class: pkg.RESIDENTIAL,
		})
	}
	for c := 0; c < n; c++ {
		points := make([]datastructure.RoadPoint, 0, n)
		for r := 0; r < n; r++ {
			points = append(points, pt(r, c))
		}
		roads = append(roads, datastructure.Road{
			ID: int64(200 + c), Points: points, Class: pkg.RESIDENTIAL,
		})
	}
	// primary road from the lattice center out through the east edge.
	roads = append(roads, datastructure.Road{
		ID: 300,
		Points: []datastructure.RoadPoint{
			pt(2, 2),
			{ID: 999, Lat: 2 * step, Lon: 6 * step},
		},
		Class: pkg.PRIMARY,
		Lanes: datastructure.LaneTags{Total: "4"},
	})

	return &Request{
		Roads:        roads,
		Frame:        datastructure.NewBoundingBox(-0.001, -0.001, 0.021, 0.021),
		TripOverride: tripOverride,
		Seed:         77,
	}
}

func TestRunDeterministicForFixedSeed(t *testing.T) {
	first := NewSimulator(zap.NewNop(), testRequest(60)).Run(context.Background())
	second := NewSimulator(zap.NewNop(), testRequest(60)).Run(context.Background())

	require.Equal(t, first.Meta.Trips, second.Meta.Trips)
	require.Equal(t, first.Meta.Seed, second.Meta.Seed)
	require.Equal(t, first.RoadTraffic, second.RoadTraffic)
	require.Equal(t, first.EdgeTraffic, second.EdgeTraffic)
	require.Equal(t, first.Epicenters, second.Epicenters)
}

func TestRunFullPipeline(t *testing.T) {
	req := testRequest(60)
	result := NewSimulator(zap.NewNop(), req).Run(context.Background())

	// three presets, each exactly tripOverride trips.
	require.Equal(t, 3*60, result.Meta.Trips)
	require.Equal(t, pkg.DEFAULT_K_ROUTES, result.Meta.KRoutes)
	require.Equal(t, int64(77), result.Meta.Seed)
	require.NotEmpty(t, result.RoadTraffic)
	require.NotEmpty(t, result.EdgeTraffic)

	for roadID, rt := range result.RoadTraffic {
		for hour := 0; hour < 24; hour++ {
			require.GreaterOrEqualf(t, rt.Forward[hour], 0.0, "road %d hour %d", roadID, hour)
			require.LessOrEqualf(t, rt.Forward[hour], 100.0, "road %d hour %d", roadID, hour)
			require.GreaterOrEqualf(t, rt.Backward[hour], 0.0, "road %d hour %d", roadID, hour)
			require.LessOrEqualf(t, rt.Backward[hour], 100.0, "road %d hour %d", roadID, hour)
		}
	}

	for _, sample := range result.EdgeTraffic {
		require.Greater(t, sample.Flow, 0.0)
		require.Greater(t, sample.SpeedMS, 0.0)
		require.NotEmpty(t, sample.Polyline)
	}

	// the primary road crosses the east frame edge, so boundary
	// inference must find an epicenter there.
	require.NotEmpty(t, result.Epicenters)
	require.Equal(t, "crossings", result.Epicenters[0].Source)
	require.Equal(t, "east", result.Epicenters[0].Direction)
}

func TestRunManualEpicenter(t *testing.T) {
	req := testRequest(60)
	req.Epicenter = &datastructure.RoadPoint{Lat: 0.01, Lon: 0.01}

	result := NewSimulator(zap.NewNop(), req).Run(context.Background())

	require.Len(t, result.Epicenters, 1)
	require.Equal(t, "manual", result.Epicenters[0].Source)
	require.Equal(t, 1.0, result.Epicenters[0].Weight)
}

func TestRunPresetSubset(t *testing.T) {
	req := testRequest(60)
	req.Presets = []pkg.Preset{pkg.PRESET_AM}

	result := NewSimulator(zap.NewNop(), req).Run(context.Background())
	require.Equal(t, 60, result.Meta.Trips)
}

func TestRunEmptyGraph(t *testing.T) {
	req := &Request{
		Roads: []datastructure.Road{
			{ID: 1, Points: []datastructure.RoadPoint{{ID: 1, Lat: 0, Lon: 0}}},
		},
		Frame: datastructure.NewBoundingBox(0, 0, 0.01, 0.01),
	}

	result := NewSimulator(zap.NewNop(), req).Run(context.Background())

	require.Equal(t, 0, result.Meta.Trips)
	require.Empty(t, result.RoadTraffic)
	require.Empty(t, result.EdgeTraffic)
	require.Empty(t, result.Epicenters)
}

func TestRunCancelledBetweenPresets(t *testing.T) {
	req := testRequest(60)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sim := NewSimulator(zap.NewNop(), req)
	sim.OnProgress(func(phase string, completed, total int) {
		// stop as soon as the first preset reports full completion; the
		// remaining presets must not run.
		if phase == string(pkg.PRESET_AM) && completed == total {
			cancel()
		}
	})

	result := sim.Run(ctx)
	require.Equal(t, 60, result.Meta.Trips)
	// the completed preset still produces scored roads.
	require.NotEmpty(t, result.RoadTraffic)
}

func TestRunCancelledMidPresetDropsPartials(t *testing.T) {
	req := testRequest(60)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sim := NewSimulator(zap.NewNop(), req)
	sim.OnProgress(func(phase string, completed, total int) {
		if completed >= 10 && completed < total {
			cancel()
		}
	})

	result := sim.Run(ctx)
	// the first preset was interrupted, so nothing counts.
	require.Equal(t, 0, result.Meta.Trips)
	require.Empty(t, result.RoadTraffic)
}

func TestRunCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := NewSimulator(zap.NewNop(), testRequest(60)).Run(ctx)
	require.Equal(t, 0, result.Meta.Trips)
	require.Empty(t, result.RoadTraffic)
}

func TestDrawFallbackNodeSamplesFramePartition(t *testing.T) {
	sim := NewSimulator(zap.NewNop(), testRequest(60))
	sim.rng = randengine.New(1)

	// in-frame nodes win whenever any exist.
	sim.pools = &endpoints.Pools{Inside: []string{"in"}, Outside: []string{"out"}}
	require.Equal(t, "in", sim.drawFallbackNode())

	// an empty frame degrades to the outside partition.
	sim.pools = &endpoints.Pools{Outside: []string{"out"}}
	require.Equal(t, "out", sim.drawFallbackNode())

	sim.pools = &endpoints.Pools{}
	require.Equal(t, "", sim.drawFallbackNode())
}

func TestTripCountClamps(t *testing.T) {
	req := testRequest(0)
	sim := NewSimulator(zap.NewNop(), req)
	result := sim.Run(context.Background())

	perPreset := result.Meta.Trips / 3
	require.GreaterOrEqual(t, perPreset, pkg.MIN_TRIPS_PER_PRESET)
	require.LessOrEqual(t, perPreset, pkg.MAX_TRIPS_PER_PRESET)

	// an override beyond the cap clamps down.
	req = testRequest(50000)
	req.Presets = []pkg.Preset{pkg.PRESET_NEUTRAL}
	sim = NewSimulator(zap.NewNop(), req)
	require.Equal(t, pkg.MAX_TRIPS_PER_PRESET, sim.Run(context.Background()).Meta.Trips)
}

// Package simulation runs the full demand pipeline: graph construction,
// epicenter inference, endpoint pools, per-preset trip loops, and score
// blending. One Simulator owns all state of one request; nothing is
// shared across requests.
package simulation

import (
	"context"
	"math"
	"time"

	"github.com/aryo-w/streetflow/pkg"
	"github.com/aryo-w/streetflow/pkg/datastructure"
	"github.com/aryo-w/streetflow/pkg/endpoints"
	"github.com/aryo-w/streetflow/pkg/epicenter"
	"github.com/aryo-w/streetflow/pkg/lanes"
	"github.com/aryo-w/streetflow/pkg/randengine"
	"github.com/aryo-w/streetflow/pkg/roadgraph"
	"github.com/aryo-w/streetflow/pkg/routing"
	"github.com/aryo-w/streetflow/pkg/spatialindex"
	"github.com/aryo-w/streetflow/pkg/util"
	"github.com/spf13/viper"
	"github.com/twpayne/go-polyline"
	"go.uber.org/zap"
)

// ProgressFunc receives phase progress at most every tripCount/50 trips.
type ProgressFunc func(phase string, completed, total int)

type Simulator struct {
	log *zap.Logger
	req *Request

	graph       *datastructure.Graph
	index       *spatialindex.NodeIndex
	router      *routing.Router
	pools       *endpoints.Pools
	epicenters  []epicenter.Epicenter
	rng         *randengine.Engine
	delayByEdge map[int]float64

	centralShare float64
	progressFn   ProgressFunc

	warnedEmptyPool bool
}

func NewSimulator(log *zap.Logger, req *Request) *Simulator {
	centralShare := viper.GetFloat64("SIM_CENTRAL_SHARE")
	if centralShare <= 0 || centralShare > 1 {
		centralShare = pkg.CENTRAL_TRIP_SHARE
	}
	return &Simulator{
		log:          log,
		req:          req,
		centralShare: centralShare,
	}
}

func (s *Simulator) OnProgress(fn ProgressFunc) {
	s.progressFn = fn
}

func (s *Simulator) progress(phase string, completed, total int) {
	if s.progressFn != nil {
		s.progressFn(phase, completed, total)
	}
}

// Run executes the pipeline. Cancellation via ctx is advisory and polled
// between trips and presets; presets that completed before the cancel
// are still scored, the rest stay empty. Run never returns an error for
// engine-internal conditions.
func (s *Simulator) Run(ctx context.Context) *Result {
	start := time.Now()

	s.graph = roadgraph.NewBuilder(s.log).Build(s.req.Roads)
	s.rng = randengine.New(uint64(s.req.seed()))

	if s.graph.NumEdges() == 0 || s.graph.NumNodes() == 0 {
		s.log.Info("empty graph, returning all-zero result")
		return s.emptyResult(start)
	}

	s.index = spatialindex.NewNodeIndex()
	s.index.Build(s.graph, s.log)
	s.router = routing.NewRouter(s.graph)
	s.delayByEdge = applySignalDelay(s.log, s.graph, s.index, s.req.Signals)

	s.epicenters = s.resolveEpicenters()
	s.pools = endpoints.NewBuilder(s.log, s.graph, s.req.Frame).
		Build(s.req.Buildings, s.req.detailLevel(), s.rng)

	tripCount := s.tripCount()
	kRoutes := s.req.kRoutes()

	raw := make(map[pkg.Preset]map[int64]*dirCounts)
	totalEdgeFlow := make(map[int]float64)
	completedTrips := 0

	for _, preset := range s.req.presets() {
		if util.StopConcurrentOperation(ctx) {
			s.log.Info("cancelled at preset boundary", zap.String("preset", string(preset)))
			break
		}
		counts, edgeFlow, completed := s.runPreset(ctx, preset, tripCount, kRoutes)
		if !completed {
			s.log.Info("cancelled mid-preset, dropping partial counts",
				zap.String("preset", string(preset)))
			break
		}
		raw[preset] = counts
		for edgeID, flow := range edgeFlow {
			totalEdgeFlow[edgeID] += flow
		}
		completedTrips += tripCount
	}

	result := &Result{
		RoadTraffic: blendScores(raw),
		EdgeTraffic: s.viewerSamples(totalEdgeFlow),
		Epicenters:  s.epicenters,
		Meta: Meta{
			Trips:          completedTrips,
			KRoutes:        kRoutes,
			DurationMs:     time.Since(start).Milliseconds(),
			Seed:           s.req.seed(),
			GeneratedAtIso: time.Now().UTC().Format(time.RFC3339),
		},
	}

	s.log.Info("simulation finished",
		zap.Int("trips", completedTrips),
		zap.Int("roads", len(result.RoadTraffic)),
		zap.Int64("durationMs", result.Meta.DurationMs))

	return result
}

func (s *Simulator) emptyResult(start time.Time) *Result {
	return &Result{
		RoadTraffic: make(map[int64]*RoadTraffic),
		EdgeTraffic: []EdgeTraffic{},
		Epicenters:  []epicenter.Epicenter{},
		Meta: Meta{
			Trips:          0,
			KRoutes:        s.req.kRoutes(),
			DurationMs:     time.Since(start).Milliseconds(),
			Seed:           s.req.seed(),
			GeneratedAtIso: time.Now().UTC().Format(time.RFC3339),
		},
	}
}

// resolveEpicenters uses the manual epicenter when supplied, otherwise
// the boundary-crossing strategy, and attaches a nearby-node pool to
// each center.
func (s *Simulator) resolveEpicenters() []epicenter.Epicenter {
	radiusM := s.req.epicenterRadiusM()

	var centers []epicenter.Epicenter
	if s.req.Epicenter != nil {
		centers = []epicenter.Epicenter{{
			Lat:    s.req.Epicenter.Lat,
			Lon:    s.req.Epicenter.Lon,
			Weight: 1,
			Source: "manual",
		}}
	} else {
		centers = epicenter.InferFromCrossings(s.log, s.req.Roads, s.req.Frame)
	}

	for i := range centers {
		centers[i].Pool = s.index.SearchWithinRadius(centers[i].Lat, centers[i].Lon, radiusM)
	}
	return centers
}

// tripCount estimates trips per preset from road count, detail level and
// endpoint density, clamped to [50, 12000].
func (s *Simulator) tripCount() int {
	if s.req.TripOverride > 0 {
		return util.ClampInt(s.req.TripOverride, pkg.MIN_TRIPS_PER_PRESET, pkg.MAX_TRIPS_PER_PRESET)
	}

	endpointFactor := 1 + math.Min(float64(s.graph.NumNodes()), 2000)/800
	baseEstimate := float64(len(s.req.Roads)) * 6 * s.req.detailLevel() * endpointFactor
	return util.ClampInt(int(math.Round(baseEstimate)), pkg.MIN_TRIPS_PER_PRESET, pkg.MAX_TRIPS_PER_PRESET)
}

// runPreset runs one independent trip loop. completed is false when the
// loop was cancelled before finishing, in which case its partial counts
// must be discarded.
func (s *Simulator) runPreset(ctx context.Context, preset pkg.Preset,
	tripCount, kRoutes int) (map[int64]*dirCounts, map[int]float64, bool) {

	counts := make(map[int64]*dirCounts)
	edgeFlow := make(map[int]float64)

	progressEvery := util.MaxInt(1, tripCount/50)

	for trip := 0; trip < tripCount; trip++ {
		if util.StopConcurrentOperation(ctx) {
			return nil, nil, false
		}

		origin, destination := s.pickEndpoints(preset)
		if origin == "" || destination == "" || origin == destination {
			continue // degenerate pair, not an error
		}

		paths := s.router.KShortestPaths(origin, destination, kRoutes)
		if len(paths) == 0 {
			continue // unroutable, skipped silently
		}

		pathWeight := 1.0 / float64(len(paths))
		for _, path := range paths {
			for _, edgeID := range path {
				edge := s.graph.Edge(edgeID)
				contribution := pathWeight *
					pkg.ClassDemandWeight(edge.Class) *
					lanes.CapacityFactor(edge.Lanes)

				edgeFlow[edgeID] += contribution

				c, ok := counts[edge.RoadID]
				if !ok {
					c = &dirCounts{}
					counts[edge.RoadID] = c
				}
				if edge.Forward {
					c.forward += contribution
				} else {
					c.backward += contribution
				}
			}
		}

		if (trip+1)%progressEvery == 0 {
			s.progress(string(preset), trip+1, tripCount)
		}
	}

	s.progress(string(preset), tripCount, tripCount)
	return counts, edgeFlow, true
}

// pickEndpoints draws one trip's origin/destination. With probability
// centralShare the trip runs between an epicenter pool node and a local
// endpoint (order fixed by preset); otherwise it is through traffic
// between two boundary nodes.
func (s *Simulator) pickEndpoints(preset pkg.Preset) (string, string) {
	if s.rng.PTrue(s.centralShare) && len(s.epicenters) > 0 {
		epicenterNode := s.drawEpicenterNode()
		localNode := s.drawLocalNode()

		switch preset {
		case pkg.PRESET_AM:
			return localNode, epicenterNode
		case pkg.PRESET_PM:
			return epicenterNode, localNode
		default:
			if s.rng.PTrue(0.5) {
				return localNode, epicenterNode
			}
			return epicenterNode, localNode
		}
	}

	// through traffic between two distinct boundary nodes, retry once
	// on collision.
	boundary := s.pools.Boundary
	if len(boundary) < 2 {
		return s.drawFallbackNode(), s.drawFallbackNode()
	}
	a := boundary[s.rng.Intn(len(boundary))]
	b := boundary[s.rng.Intn(len(boundary))]
	if a == b {
		b = boundary[s.rng.Intn(len(boundary))]
	}
	return a, b
}

func (s *Simulator) drawEpicenterNode() string {
	weights := make([]float64, len(s.epicenters))
	for i := range s.epicenters {
		weights[i] = s.epicenters[i].Weight
	}
	center := &s.epicenters[s.rng.DiscreteDistribution(weights)]

	if len(center.Pool) == 0 {
		return s.drawFallbackNode()
	}
	return center.Pool[s.rng.Intn(len(center.Pool))]
}

func (s *Simulator) drawLocalNode() string {
	if len(s.pools.Local) == 0 {
		return s.drawFallbackNode()
	}
	return s.pools.Local[s.rng.Intn(len(s.pools.Local))]
}

// drawFallbackNode samples the frame partition when a dedicated pool
// resolved to nothing: in-frame nodes first, out-of-frame nodes only
// when the frame itself is empty.
func (s *Simulator) drawFallbackNode() string {
	if !s.warnedEmptyPool {
		s.warnedEmptyPool = true
		s.log.Warn("endpoint pool empty, falling back to frame-partition sampling")
	}
	pool := s.pools.Inside
	if len(pool) == 0 {
		pool = s.pools.Outside
	}
	if len(pool) == 0 {
		return ""
	}
	return pool[s.rng.Intn(len(pool))]
}

// viewerSamples converts accumulated edge flow into samples for the
// rendering layer, in edge-id order for reproducibility.
func (s *Simulator) viewerSamples(edgeFlow map[int]float64) []EdgeTraffic {
	samples := make([]EdgeTraffic, 0, len(edgeFlow))
	for _, edge := range s.graph.Edges() {
		flow, ok := edgeFlow[edge.ID]
		if !ok || flow == 0 {
			continue
		}

		dwellS := s.delayByEdge[edge.ID]
		speedMS := edge.LengthM / (edge.BaseTimeS + dwellS)

		from, _ := s.graph.Node(edge.From)
		to, _ := s.graph.Node(edge.To)
		encoded := polyline.EncodeCoords([][]float64{
			{from.Lat, from.Lon},
			{to.Lat, to.Lon},
		})

		samples = append(samples, EdgeTraffic{
			EdgeID:   edge.ID,
			RoadID:   edge.RoadID,
			Forward:  edge.Forward,
			Flow:     flow,
			DwellS:   dwellS,
			SpeedMS:  speedMS,
			Polyline: string(encoded),
		})
	}
	return samples
}

// Package endpoints builds the candidate trip origin/destination node
// sets: building endpoints snapped through a uniform spatial hash grid,
// synthetic parcels when footprint data is sparse, and a boundary pool
// for through traffic.
package endpoints

import (
	"math"
	"sort"

	"github.com/aryo-w/streetflow/pkg"
	"github.com/aryo-w/streetflow/pkg/datastructure"
	"github.com/aryo-w/streetflow/pkg/geo"
	"github.com/aryo-w/streetflow/pkg/randengine"
	"github.com/aryo-w/streetflow/pkg/util"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Pools holds the endpoint node sets of one simulation request.
type Pools struct {
	// Local are building/parcel endpoints, the "home" side of commutes.
	Local []string
	// Boundary are nodes near the frame edge, used for through traffic.
	Boundary []string
	// Inside/Outside partition all nodes by the frame, for fallback
	// sampling when the dedicated pools come up empty.
	Inside  []string
	Outside []string
}

type cellKey struct {
	row, col int
}

// hashGrid is a uniform spatial hash over graph nodes with
// expanding-ring nearest-node search.
type hashGrid struct {
	graph    *datastructure.Graph
	cellSize float64
	minLat   float64
	minLon   float64
	cells    map[cellKey][]string
}

func newHashGrid(graph *datastructure.Graph) *hashGrid {
	minLat, minLon := math.Inf(1), math.Inf(1)
	maxLat, maxLon := math.Inf(-1), math.Inf(-1)
	for _, id := range graph.NodeIDs() {
		node, _ := graph.Node(id)
		minLat = math.Min(minLat, node.Lat)
		minLon = math.Min(minLon, node.Lon)
		maxLat = math.Max(maxLat, node.Lat)
		maxLon = math.Max(maxLon, node.Lon)
	}

	coordRange := math.Max(maxLat-minLat, maxLon-minLon)
	cellSize := util.ClampFloat(coordRange/40, 0.002, 0.02)

	hg := &hashGrid{
		graph:    graph,
		cellSize: cellSize,
		minLat:   minLat,
		minLon:   minLon,
		cells:    make(map[cellKey][]string),
	}
	for _, id := range graph.NodeIDs() {
		node, _ := graph.Node(id)
		key := hg.keyFor(node.Lat, node.Lon)
		hg.cells[key] = append(hg.cells[key], id)
	}
	return hg
}

func (hg *hashGrid) keyFor(lat, lon float64) cellKey {
	return cellKey{
		row: int((lat - hg.minLat) / hg.cellSize),
		col: int((lon - hg.minLon) / hg.cellSize),
	}
}

// nearest searches rings of radius 0..4 cells around the query before
// degrading to a full linear scan.
func (hg *hashGrid) nearest(lat, lon float64) (string, bool) {
	center := hg.keyFor(lat, lon)

	best, bestDist := "", math.Inf(1)
	consider := func(nodeID string) {
		node, _ := hg.graph.Node(nodeID)
		d := geo.HaversineDistanceM(lat, lon, node.Lat, node.Lon)
		if d < bestDist || (d == bestDist && nodeID < best) {
			best, bestDist = nodeID, d
		}
	}

	for ring := 0; ring <= 4; ring++ {
		for dr := -ring; dr <= ring; dr++ {
			for dc := -ring; dc <= ring; dc++ {
				if util.Abs(dr) != ring && util.Abs(dc) != ring {
					continue // interior already visited in a smaller ring
				}
				for _, nodeID := range hg.cells[cellKey{center.row + dr, center.col + dc}] {
					consider(nodeID)
				}
			}
		}
		if best != "" {
			return best, true
		}
	}

	for _, nodeID := range hg.graph.NodeIDs() {
		consider(nodeID)
	}
	return best, best != ""
}

type Builder struct {
	log   *zap.Logger
	graph *datastructure.Graph
	frame datastructure.BoundingBox
	grid  *hashGrid
}

func NewBuilder(log *zap.Logger, graph *datastructure.Graph, frame datastructure.BoundingBox) *Builder {
	return &Builder{
		log:   log,
		graph: graph,
		frame: frame,
		grid:  newHashGrid(graph),
	}
}

// NearestNode exposes the hash-grid search for callers that snap
// arbitrary points (buildings, manual epicenters) onto the graph.
func (b *Builder) NearestNode(lat, lon float64) (string, bool) {
	return b.grid.nearest(lat, lon)
}

// Build assembles all pools. detailLevel scales the synthetic parcel
// count; rng must be the request's sequential engine.
func (b *Builder) Build(buildings []datastructure.Building, detailLevel float64, rng *randengine.Engine) *Pools {
	pools := &Pools{}

	for _, id := range b.graph.NodeIDs() {
		node, _ := b.graph.Node(id)
		if b.frame.Contains(node.Lat, node.Lon) {
			pools.Inside = append(pools.Inside, id)
			if b.frame.DistanceToEdgeM(node.Lat, node.Lon) <= pkg.BOUNDARY_NODE_BUFFER_M {
				pools.Boundary = append(pools.Boundary, id)
			}
		} else {
			pools.Outside = append(pools.Outside, id)
		}
	}

	local := make([]string, 0, len(buildings))
	skipped := 0
	for i := range buildings {
		lat, lon, ok := buildings[i].CentroidCoord()
		if !ok {
			skipped++
			continue
		}
		if nodeID, found := b.grid.nearest(lat, lon); found {
			local = append(local, nodeID)
		}
	}
	if skipped > 0 {
		b.log.Warn("skipped buildings with no usable outline", zap.Int("count", skipped))
	}

	// low building density: fill in synthetic parcels biased toward the
	// frame interior so trip origins stay spatially plausible.
	if len(local) < 20 && len(pools.Inside) > 0 {
		count := util.ClampInt(int(math.Round(detailLevel*600)),
			pkg.SYNTHETIC_PARCEL_MIN, pkg.SYNTHETIC_PARCEL_MAX)
		local = append(local, b.syntheticParcels(count, rng)...)
	}

	pools.Local = lo.Uniq(local)
	sort.Strings(pools.Local)

	b.log.Info("endpoint pools built",
		zap.Int("local", len(pools.Local)),
		zap.Int("boundary", len(pools.Boundary)),
		zap.Int("inside", len(pools.Inside)),
		zap.Int("outside", len(pools.Outside)))

	return pools
}

// syntheticParcels samples random points in the inner 70% of the frame
// and snaps each to its nearest node.
func (b *Builder) syntheticParcels(count int, rng *randengine.Engine) []string {
	latSpan := b.frame.MaxLat - b.frame.MinLat
	lonSpan := b.frame.MaxLon - b.frame.MinLon

	parcels := make([]string, 0, count)
	for i := 0; i < count; i++ {
		lat := b.frame.MinLat + latSpan*(0.15+0.7*rng.Float64())
		lon := b.frame.MinLon + lonSpan*(0.15+0.7*rng.Float64())
		if nodeID, found := b.grid.nearest(lat, lon); found {
			parcels = append(parcels, nodeID)
		}
	}
	return parcels
}

package endpoints

import (
	"sort"
	"testing"

	"github.com/aryo-w/streetflow/pkg/datastructure"
	"github.com/aryo-w/streetflow/pkg/randengine"
	"go.uber.org/zap"
)

// gridGraph builds an n x n node lattice starting at (0,0) with the
// given degree step. Nodes are named rXcY; no edges are needed here.
func gridGraph(n int, step float64) *datastructure.Graph {
	g := datastructure.NewGraph()
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			g.AddNode(nodeName(r, c), float64(r)*step, float64(c)*step)
		}
	}
	return g
}

func nodeName(r, c int) string {
	return "r" + string(rune('0'+r)) + "c" + string(rune('0'+c))
}

func TestHashGridNearest(t *testing.T) {
	g := gridGraph(5, 0.005)
	hg := newHashGrid(g)

	testCases := []struct {
		name     string
		lat, lon float64
		expected string
	}{
		{name: "exactly on a node", lat: 0.005, lon: 0.010, expected: nodeName(1, 2)},
		{name: "slightly off a node", lat: 0.0051, lon: 0.0099, expected: nodeName(1, 2)},
		{name: "corner query", lat: -0.001, lon: -0.001, expected: nodeName(0, 0)},
		{name: "far outside snaps to the rim", lat: 0.1, lon: 0.1, expected: nodeName(4, 4)},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got, found := hg.nearest(tt.lat, tt.lon)
			if !found {
				t.Fatal("expected a node")
			}
			if got != tt.expected {
				t.Errorf("nearest = %s, expected %s", got, tt.expected)
			}
		})
	}
}

func TestHashGridNearestEmptyGraph(t *testing.T) {
	hg := newHashGrid(datastructure.NewGraph())
	if _, found := hg.nearest(0, 0); found {
		t.Error("empty graph must report no node")
	}
}

func TestBuildPartitionsAndBoundary(t *testing.T) {
	// 5x5 lattice spanning ~2.2km; frame covers rows/cols 0..3 only.
	g := gridGraph(5, 0.005)
	frame := datastructure.NewBoundingBox(-0.0001, -0.0001, 0.0151, 0.0151)

	b := NewBuilder(zap.NewNop(), g, frame)
	pools := b.Build(nil, 2.0, randengine.New(42))

	if len(pools.Inside)+len(pools.Outside) != g.NumNodes() {
		t.Errorf("inside+outside = %d, expected %d",
			len(pools.Inside)+len(pools.Outside), g.NumNodes())
	}
	if len(pools.Inside) != 16 {
		t.Errorf("inside = %d, expected 16", len(pools.Inside))
	}

	// every rim node of the frame sits within the boundary buffer; the
	// single interior 2x2 block center nodes are ~550m from every edge
	// and must not.
	boundarySet := make(map[string]bool)
	for _, id := range pools.Boundary {
		boundarySet[id] = true
	}
	if !boundarySet[nodeName(0, 0)] || !boundarySet[nodeName(3, 3)] {
		t.Error("frame rim nodes should be in the boundary pool")
	}
	if boundarySet[nodeName(1, 1)] || boundarySet[nodeName(2, 2)] {
		t.Error("interior nodes should not be in the boundary pool")
	}
}

func TestBuildLocalFromBuildings(t *testing.T) {
	g := gridGraph(5, 0.005)
	frame := datastructure.NewBoundingBox(-0.0001, -0.0001, 0.0201, 0.0201)
	b := NewBuilder(zap.NewNop(), g, frame)

	centroid := func(lat, lon float64) datastructure.Building {
		return datastructure.Building{Centroid: &datastructure.RoadPoint{Lat: lat, Lon: lon}}
	}
	// 25 buildings so the synthetic-parcel fallback stays off.
	buildings := make([]datastructure.Building, 0, 25)
	for i := 0; i < 25; i++ {
		r, c := i/5, i%5
		buildings = append(buildings, centroid(float64(r)*0.005+0.0002, float64(c)*0.005+0.0002))
	}

	pools := b.Build(buildings, 2.0, randengine.New(42))

	if len(pools.Local) != 25 {
		t.Errorf("local = %d, expected 25 distinct snapped nodes", len(pools.Local))
	}
	if !sort.StringsAreSorted(pools.Local) {
		t.Error("local pool must be sorted for determinism")
	}
}

func TestBuildSyntheticParcelsWhenSparse(t *testing.T) {
	g := gridGraph(5, 0.005)
	frame := datastructure.NewBoundingBox(-0.0001, -0.0001, 0.0201, 0.0201)
	b := NewBuilder(zap.NewNop(), g, frame)

	// no buildings at all: parcels fill the local pool from graph nodes.
	pools := b.Build(nil, 2.0, randengine.New(42))
	if len(pools.Local) == 0 {
		t.Fatal("sparse input should trigger synthetic parcels")
	}
	// snapped parcels are deduplicated, so at most one per node.
	if len(pools.Local) > g.NumNodes() {
		t.Errorf("local = %d, cannot exceed node count %d", len(pools.Local), g.NumNodes())
	}
}

func TestBuildDeterministicForFixedSeed(t *testing.T) {
	g := gridGraph(5, 0.005)
	frame := datastructure.NewBoundingBox(-0.0001, -0.0001, 0.0201, 0.0201)

	first := NewBuilder(zap.NewNop(), g, frame).Build(nil, 2.0, randengine.New(7))
	second := NewBuilder(zap.NewNop(), g, frame).Build(nil, 2.0, randengine.New(7))

	if len(first.Local) != len(second.Local) {
		t.Fatalf("local sizes differ: %d vs %d", len(first.Local), len(second.Local))
	}
	for i := range first.Local {
		if first.Local[i] != second.Local[i] {
			t.Fatalf("local pools diverge at %d: %s vs %s", i, first.Local[i], second.Local[i])
		}
	}
}

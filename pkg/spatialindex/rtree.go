package spatialindex

import (
	"github.com/aryo-w/streetflow/pkg/datastructure"
	"github.com/aryo-w/streetflow/pkg/geo"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

// NodeIndex is an r-tree over graph nodes, used for traffic-signal
// snapping and epicenter node pools.
type NodeIndex struct {
	tr    *rtree.RTreeG[string]
	graph *datastructure.Graph
}

func NewNodeIndex() *NodeIndex {
	var tr rtree.RTreeG[string]
	return &NodeIndex{tr: &tr}
}

func (ni *NodeIndex) Build(graph *datastructure.Graph, log *zap.Logger) {
	ni.graph = graph
	for _, nodeID := range graph.NodeIDs() {
		node, _ := graph.Node(nodeID)
		ni.tr.Insert([2]float64{node.Lon, node.Lat}, [2]float64{node.Lon, node.Lat}, nodeID)
	}
	log.Info("node spatial index built", zap.Int("nodes", graph.NumNodes()))
}

// SearchWithinRadius returns the ids of all nodes within radius meters
// of the query point.
func (ni *NodeIndex) SearchWithinRadius(qLat, qLon, radiusM float64) []string {
	lowerLat, lowerLon := geo.GetDestinationPoint(qLat, qLon, 225, radiusM*1.5)
	upperLat, upperLon := geo.GetDestinationPoint(qLat, qLon, 45, radiusM*1.5)

	results := make([]string, 0, 16)
	ni.tr.Search([2]float64{lowerLon, lowerLat}, [2]float64{upperLon, upperLat},
		func(min, max [2]float64, nodeID string) bool {
			node, _ := ni.graph.Node(nodeID)
			if geo.HaversineDistanceM(qLat, qLon, node.Lat, node.Lon) <= radiusM {
				results = append(results, nodeID)
			}
			return true
		})
	return results
}

// Nearest returns the closest node within maxRadiusM of the query
// point, or false when none is close enough.
func (ni *NodeIndex) Nearest(qLat, qLon, maxRadiusM float64) (string, bool) {
	candidates := ni.SearchWithinRadius(qLat, qLon, maxRadiusM)
	best, bestDist := "", maxRadiusM+1
	for _, nodeID := range candidates {
		node, _ := ni.graph.Node(nodeID)
		d := geo.HaversineDistanceM(qLat, qLon, node.Lat, node.Lon)
		if d < bestDist {
			best, bestDist = nodeID, d
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}

// Package roadgraph converts road polylines into the directed weighted
// multigraph the demand simulation routes over.
package roadgraph

import (
	"strconv"

	"github.com/aryo-w/streetflow/pkg"
	"github.com/aryo-w/streetflow/pkg/datastructure"
	"github.com/aryo-w/streetflow/pkg/geo"
	"github.com/aryo-w/streetflow/pkg/lanes"
	"go.uber.org/zap"
)

type Builder struct {
	log *zap.Logger
}

func NewBuilder(log *zap.Logger) *Builder {
	return &Builder{log: log}
}

// NodeKey derives graph node identity for a road point: the shared
// stable id when present, otherwise an integer-quantized coordinate key
// so near-duplicate floats collapse onto one node.
func NodeKey(p datastructure.RoadPoint) string {
	if p.ID != 0 {
		return "osm:" + strconv.FormatInt(p.ID, 10)
	}
	return geo.QuantizeKey(p.Lat, p.Lon)
}

// Build creates 0-2 directed edges per consecutive point pair depending
// on the road's oneway state. Roads with fewer than 2 points and
// degenerate segments are dropped silently; a zero-edge result is valid.
func (b *Builder) Build(roads []datastructure.Road) *datastructure.Graph {
	graph := datastructure.NewGraph()

	skipped := 0
	for _, road := range roads {
		if len(road.Points) < 2 {
			skipped++
			continue
		}

		resolved := lanes.Resolve(road.Lanes, road.Class, road.Oneway)
		speedMS := pkg.ClassSpeedMS(road.Class)

		for i := 0; i+1 < len(road.Points); i++ {
			p1, p2 := road.Points[i], road.Points[i+1]
			fromKey, toKey := NodeKey(p1), NodeKey(p2)
			if fromKey == toKey {
				continue
			}
			lengthM := geo.HaversineDistanceM(p1.Lat, p1.Lon, p2.Lat, p2.Lon)
			if lengthM == 0 {
				continue
			}

			graph.AddNode(fromKey, p1.Lat, p1.Lon)
			graph.AddNode(toKey, p2.Lat, p2.Lon)

			baseTimeS := lengthM / speedMS

			if road.Oneway != datastructure.ONEWAY_BACKWARD {
				dirLanes := resolved.Forward
				graph.AddEdge(&datastructure.GraphEdge{
					From:      fromKey,
					To:        toKey,
					RoadID:    road.ID,
					Class:     road.Class,
					LengthM:   lengthM,
					BaseTimeS: baseTimeS,
					SpeedMS:   speedMS,
					Weight:    baseTimeS / lanes.CapacityFactor(dirLanes),
					Forward:   true,
					Lanes:     dirLanes,
				})
			}
			if road.Oneway != datastructure.ONEWAY_FORWARD {
				dirLanes := resolved.Backward
				graph.AddEdge(&datastructure.GraphEdge{
					From:      toKey,
					To:        fromKey,
					RoadID:    road.ID,
					Class:     road.Class,
					LengthM:   lengthM,
					BaseTimeS: baseTimeS,
					SpeedMS:   speedMS,
					Weight:    baseTimeS / lanes.CapacityFactor(dirLanes),
					Forward:   false,
					Lanes:     dirLanes,
				})
			}
		}
	}

	if skipped > 0 {
		b.log.Warn("skipped malformed roads", zap.Int("count", skipped))
	}

	b.classifyMovements(graph)

	b.log.Info("road graph built",
		zap.Int("nodes", graph.NumNodes()),
		zap.Int("edges", graph.NumEdges()))

	return graph
}

// classifyMovements computes per-node (inEdge, outEdge) turn classes by
// signed bearing delta. U-turn pairs back onto the same segment are
// ignored.
func (b *Builder) classifyMovements(graph *datastructure.Graph) {
	for _, nodeID := range graph.NodeIDs() {
		inIDs := graph.InEdges(nodeID)
		outIDs := graph.OutEdges(nodeID)
		if len(inIDs) == 0 || len(outIDs) == 0 {
			continue
		}

		movements := make([]datastructure.Movement, 0, len(inIDs)*len(outIDs))
		for _, inID := range inIDs {
			in := graph.Edge(inID)
			for _, outID := range outIDs {
				out := graph.Edge(outID)
				if out.To == in.From {
					continue
				}
				movements = append(movements, datastructure.Movement{
					InEdge:  inID,
					OutEdge: outID,
					Turn:    ClassifyTurn(graph, in, out),
				})
			}
		}
		graph.SetMovements(nodeID, movements)
	}
}

// ClassifyTurn: |delta| <= 30 degrees is straight, otherwise left/right
// by the sign of the delta.
func ClassifyTurn(graph *datastructure.Graph, in, out *datastructure.GraphEdge) pkg.TurnType {
	inFrom, _ := graph.Node(in.From)
	inTo, _ := graph.Node(in.To)
	outFrom, _ := graph.Node(out.From)
	outTo, _ := graph.Node(out.To)
	if inFrom == nil || inTo == nil || outFrom == nil || outTo == nil {
		return pkg.NONE
	}

	inBearing := geo.BearingTo(inFrom.Lat, inFrom.Lon, inTo.Lat, inTo.Lon)
	outBearing := geo.BearingTo(outFrom.Lat, outFrom.Lon, outTo.Lat, outTo.Lon)
	delta := geo.DeltaBearing(inBearing, outBearing)

	if delta >= -pkg.STRAIGHT_DELTA_BEARING_DEGREE && delta <= pkg.STRAIGHT_DELTA_BEARING_DEGREE {
		return pkg.STRAIGHT_ON
	}
	if delta < 0 {
		return pkg.LEFT_TURN
	}
	return pkg.RIGHT_TURN
}

// Package osmload converts a local .osm.pbf extract into the road,
// building and traffic-signal lists a simulation request needs. The
// networked map-data provider stays outside the engine; this loader
// exists for the demo binary and fixtures.
package osmload

import (
	"context"
	"math"
	"os"

	"github.com/aryo-w/streetflow/pkg"
	"github.com/aryo-w/streetflow/pkg/datastructure"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"go.uber.org/zap"
)

type Extract struct {
	Roads     []datastructure.Road
	Buildings []datastructure.Building
	Signals   []datastructure.TrafficSignal
	Frame     datastructure.BoundingBox
}

// Load scans the pbf twice: nodes first for coordinates, then ways.
func Load(log *zap.Logger, path string) (*Extract, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	type coord struct{ lat, lon float64 }
	nodeCoords := make(map[osm.NodeID]coord)
	extract := &Extract{
		Frame: datastructure.BoundingBox{
			MinLat: math.Inf(1), MinLon: math.Inf(1),
			MaxLat: math.Inf(-1), MaxLon: math.Inf(-1),
		},
	}

	scanner := osmpbf.New(context.Background(), f, 0)
	for scanner.Scan() {
		if node, ok := scanner.Object().(*osm.Node); ok {
			nodeCoords[node.ID] = coord{lat: node.Lat, lon: node.Lon}
			extract.Frame.MinLat = math.Min(extract.Frame.MinLat, node.Lat)
			extract.Frame.MinLon = math.Min(extract.Frame.MinLon, node.Lon)
			extract.Frame.MaxLat = math.Max(extract.Frame.MaxLat, node.Lat)
			extract.Frame.MaxLon = math.Max(extract.Frame.MaxLon, node.Lon)

			if node.Tags.Find("highway") == "traffic_signals" {
				extract.Signals = append(extract.Signals, datastructure.TrafficSignal{
					ID:  int64(node.ID),
					Lat: node.Lat,
					Lon: node.Lon,
				})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, err
	}
	scanner.Close()

	if _, err := f.Seek(0, 0); err != nil {
		return nil, err
	}

	scanner = osmpbf.New(context.Background(), f, 0)
	defer scanner.Close()
	for scanner.Scan() {
		way, ok := scanner.Object().(*osm.Way)
		if !ok || len(way.Nodes) < 2 {
			continue
		}

		points := make([]datastructure.RoadPoint, 0, len(way.Nodes))
		for _, wayNode := range way.Nodes {
			c, found := nodeCoords[wayNode.ID]
			if !found {
				continue
			}
			points = append(points, datastructure.RoadPoint{
				Lat: c.lat, Lon: c.lon, ID: int64(wayNode.ID),
			})
		}
		if len(points) < 2 {
			continue
		}

		if highway := way.Tags.Find("highway"); highway != "" {
			extract.Roads = append(extract.Roads, datastructure.Road{
				ID:     int64(way.ID),
				Points: points,
				Class:  pkg.GetRoadClass(highway),
				Oneway: datastructure.ParseOneway(way.Tags.Find("oneway")),
				Lanes: datastructure.LaneTags{
					Total:    way.Tags.Find("lanes"),
					Forward:  way.Tags.Find("lanes:forward"),
					Backward: way.Tags.Find("lanes:backward"),
					Turn:     way.Tags.Find("turn:lanes"),
				},
			})
		} else if way.Tags.Find("building") != "" {
			extract.Buildings = append(extract.Buildings, datastructure.Building{
				ID:      int64(way.ID),
				Outline: points,
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	log.Info("osm extract loaded",
		zap.String("path", path),
		zap.Int("roads", len(extract.Roads)),
		zap.Int("buildings", len(extract.Buildings)),
		zap.Int("signals", len(extract.Signals)))

	return extract, nil
}

package epicenter

import (
	"sort"

	"github.com/aryo-w/streetflow/pkg"
	"github.com/aryo-w/streetflow/pkg/datastructure"
	"github.com/aryo-w/streetflow/pkg/lanes"
	"go.uber.org/zap"
)

type crossing struct {
	lat, lon  float64
	capacity  float64
	direction string
}

// InferFromCrossings locates where major roads cross the simulation
// frame boundary, clusters the crossings by frame edge and keeps the
// highest-capacity clusters as epicenters. Falls back to the frame
// center when nothing crosses.
func InferFromCrossings(log *zap.Logger, roads []datastructure.Road, frame datastructure.BoundingBox) []Epicenter {
	crossings := make([]crossing, 0)

	for _, road := range roads {
		if !pkg.IsMajorRoadClass(road.Class) {
			continue
		}
		resolved := lanes.Resolve(road.Lanes, road.Class, road.Oneway)
		capacity := lanes.CapacityFactor(resolved.Total)

		for i := 0; i+1 < len(road.Points); i++ {
			p1, p2 := road.Points[i], road.Points[i+1]
			in1 := frame.Contains(p1.Lat, p1.Lon)
			in2 := frame.Contains(p2.Lat, p2.Lon)
			if in1 == in2 {
				continue
			}
			lat, lon, direction, ok := frameIntersection(p1, p2, frame)
			if !ok {
				continue
			}
			crossings = append(crossings, crossing{
				lat: lat, lon: lon,
				capacity:  capacity,
				direction: direction,
			})
		}
	}

	if len(crossings) == 0 {
		lat, lon := frame.Center()
		log.Info("no boundary crossings, falling back to frame center")
		return []Epicenter{{Lat: lat, Lon: lon, Weight: 1, Source: "center"}}
	}

	// capacity-weighted centroid per frame edge.
	type cluster struct {
		direction          string
		sumLat, sumLon     float64
		capacity, sumPoint float64
	}
	clusters := make(map[string]*cluster)
	for _, c := range crossings {
		cl, ok := clusters[c.direction]
		if !ok {
			cl = &cluster{direction: c.direction}
			clusters[c.direction] = cl
		}
		cl.sumLat += c.lat * c.capacity
		cl.sumLon += c.lon * c.capacity
		cl.capacity += c.capacity
		cl.sumPoint++
	}

	ordered := make([]*cluster, 0, len(clusters))
	for _, cl := range clusters {
		ordered = append(ordered, cl)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].capacity != ordered[j].capacity {
			return ordered[i].capacity > ordered[j].capacity
		}
		return ordered[i].direction < ordered[j].direction
	})
	if len(ordered) > pkg.MAX_BOUNDARY_EPICENTERS {
		ordered = ordered[:pkg.MAX_BOUNDARY_EPICENTERS]
	}

	totalCapacity := 0.0
	for _, cl := range ordered {
		totalCapacity += cl.capacity
	}

	epicenters := make([]Epicenter, 0, len(ordered))
	for _, cl := range ordered {
		epicenters = append(epicenters, Epicenter{
			Lat:       cl.sumLat / cl.capacity,
			Lon:       cl.sumLon / cl.capacity,
			Weight:    cl.capacity / totalCapacity,
			Direction: cl.direction,
			Source:    "crossings",
		})
	}

	log.Info("boundary-crossing epicenters inferred",
		zap.Int("crossings", len(crossings)),
		zap.Int("epicenters", len(epicenters)))

	return epicenters
}

// frameIntersection intersects segment (p1,p2) with the frame boundary
// and classifies the hit by which edge it crosses.
func frameIntersection(p1, p2 datastructure.RoadPoint, frame datastructure.BoundingBox) (float64, float64, string, bool) {
	dLat := p2.Lat - p1.Lat
	dLon := p2.Lon - p1.Lon

	type hit struct {
		t         float64
		direction string
	}
	hits := make([]hit, 0, 4)

	if dLat != 0 {
		if t := (frame.MaxLat - p1.Lat) / dLat; t >= 0 && t <= 1 {
			hits = append(hits, hit{t, "north"})
		}
		if t := (frame.MinLat - p1.Lat) / dLat; t >= 0 && t <= 1 {
			hits = append(hits, hit{t, "south"})
		}
	}
	if dLon != 0 {
		if t := (frame.MaxLon - p1.Lon) / dLon; t >= 0 && t <= 1 {
			hits = append(hits, hit{t, "east"})
		}
		if t := (frame.MinLon - p1.Lon) / dLon; t >= 0 && t <= 1 {
			hits = append(hits, hit{t, "west"})
		}
	}

	for _, h := range hits {
		lat := p1.Lat + h.t*dLat
		lon := p1.Lon + h.t*dLon
		const eps = 1e-9
		if lat >= frame.MinLat-eps && lat <= frame.MaxLat+eps &&
			lon >= frame.MinLon-eps && lon <= frame.MaxLon+eps {
			return lat, lon, h.direction, true
		}
	}
	return 0, 0, "", false
}

package datastructure

import (
	"strings"

	"github.com/aryo-w/streetflow/pkg"
	"github.com/aryo-w/streetflow/pkg/geo"
)

type Oneway uint8

const (
	ONEWAY_BOTH Oneway = iota
	ONEWAY_FORWARD
	ONEWAY_BACKWARD
)

// ParseOneway normalizes the raw osm-style encodings once at ingestion.
// Downstream code only ever sees the three-state enum.
func ParseOneway(raw string) Oneway {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "true", "1":
		return ONEWAY_FORWARD
	case "-1", "reverse":
		return ONEWAY_BACKWARD
	default:
		return ONEWAY_BOTH
	}
}

// RoadPoint is one vertex of a road polyline. ID is a stable identifier
// shared across roads that meet at the same intersection; 0 means absent.
type RoadPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
	ID  int64   `json:"id,omitempty"`
}

// LaneTags carries the raw lane tag strings of a road.
type LaneTags struct {
	Total    string `json:"total,omitempty"`
	Forward  string `json:"forward,omitempty"`
	Backward string `json:"backward,omitempty"`
	Turn     string `json:"turn,omitempty"`
}

type Road struct {
	ID     int64         `json:"id"`
	Points []RoadPoint   `json:"points"`
	Class  pkg.RoadClass `json:"class"`
	Oneway Oneway        `json:"oneway"`
	Lanes  LaneTags      `json:"lanes,omitempty"`
}

type Building struct {
	ID       int64       `json:"id"`
	Outline  []RoadPoint `json:"outline,omitempty"`
	Centroid *RoadPoint  `json:"centroid,omitempty"`
}

// CentroidCoord returns the provided centroid or the average of the
// outline vertices. ok is false when the building has no usable outline.
func (b *Building) CentroidCoord() (float64, float64, bool) {
	if b.Centroid != nil {
		return b.Centroid.Lat, b.Centroid.Lon, true
	}
	if len(b.Outline) == 0 {
		return 0, 0, false
	}
	var lat, lon float64
	for _, p := range b.Outline {
		lat += p.Lat
		lon += p.Lon
	}
	n := float64(len(b.Outline))
	return lat / n, lon / n, true
}

// FootprintAreaSqM returns the outline area in square meters.
func (b *Building) FootprintAreaSqM() float64 {
	if len(b.Outline) < 3 {
		return 0
	}
	lats := make([]float64, len(b.Outline))
	lons := make([]float64, len(b.Outline))
	for i, p := range b.Outline {
		lats[i] = p.Lat
		lons[i] = p.Lon
	}
	return geo.PolygonAreaSqM(lats, lons)
}

type TrafficSignal struct {
	ID  int64   `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// BoundingBox is the simulation frame.
type BoundingBox struct {
	MinLat float64 `json:"minLat"`
	MinLon float64 `json:"minLon"`
	MaxLat float64 `json:"maxLat"`
	MaxLon float64 `json:"maxLon"`
}

func NewBoundingBox(minLat, minLon, maxLat, maxLon float64) BoundingBox {
	return BoundingBox{MinLat: minLat, MinLon: minLon, MaxLat: maxLat, MaxLon: maxLon}
}

func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

func (b BoundingBox) Center() (float64, float64) {
	return (b.MinLat + b.MaxLat) / 2, (b.MinLon + b.MaxLon) / 2
}

func (b BoundingBox) WidthM() float64 {
	midLat := (b.MinLat + b.MaxLat) / 2
	return geo.HaversineDistanceM(midLat, b.MinLon, midLat, b.MaxLon)
}

func (b BoundingBox) HeightM() float64 {
	midLon := (b.MinLon + b.MaxLon) / 2
	return geo.HaversineDistanceM(b.MinLat, midLon, b.MaxLat, midLon)
}

// DistanceToEdgeM returns the distance from a point inside or outside
// the frame to the nearest frame edge, in meters.
func (b BoundingBox) DistanceToEdgeM(lat, lon float64) float64 {
	dNorth := geo.HaversineDistanceM(lat, lon, b.MaxLat, lon)
	dSouth := geo.HaversineDistanceM(lat, lon, b.MinLat, lon)
	dEast := geo.HaversineDistanceM(lat, lon, lat, b.MaxLon)
	dWest := geo.HaversineDistanceM(lat, lon, lat, b.MinLon)

	min := dNorth
	for _, d := range []float64{dSouth, dEast, dWest} {
		if d < min {
			min = d
		}
	}
	return min
}

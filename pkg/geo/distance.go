package geo

import (
	"math"

	"github.com/aryo-w/streetflow/pkg/util"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

func (c Coordinate) GetLat() float64 {
	return c.Lat
}

func (c Coordinate) GetLon() float64 {
	return c.Lon
}

const (
	earthRadiusM = 6371000.0
)

func havFunction(angleRad float64) float64 {
	return (1 - math.Cos(angleRad)) / 2.0
}

// HaversineDistanceM. great-circle distance in meters.
func HaversineDistanceM(latOne, longOne, latTwo, longTwo float64) float64 {
	latOne = util.DegreeToRadians(latOne)
	longOne = util.DegreeToRadians(longOne)
	latTwo = util.DegreeToRadians(latTwo)
	longTwo = util.DegreeToRadians(longTwo)

	a := havFunction(latOne-latTwo) + math.Cos(latOne)*math.Cos(latTwo)*havFunction(longOne-longTwo)
	c := 2.0 * math.Asin(math.Sqrt(a))
	return earthRadiusM * c
}

// GetDestinationPoint returns the destination point given the starting point, bearing and distance.
// dist in meters.
func GetDestinationPoint(lat1, lon1 float64, bearing float64, dist float64) (float64, float64) {
	dr := dist / earthRadiusM

	bearing = util.DegreeToRadians(bearing)

	lat1 = util.DegreeToRadians(lat1)
	lon1 = util.DegreeToRadians(lon1)

	lat2Part1 := math.Sin(lat1) * math.Cos(dr)
	lat2Part2 := math.Cos(lat1) * math.Sin(dr) * math.Cos(bearing)

	lat2 := math.Asin(lat2Part1 + lat2Part2)

	lon2Part1 := math.Sin(bearing) * math.Sin(dr) * math.Cos(lat1)
	lon2Part2 := math.Cos(dr) - (math.Sin(lat1) * math.Sin(lat2))

	lon2 := lon1 + math.Atan2(lon2Part1, lon2Part2)

	return util.RadiansToDegree(lat2), normalizeLongitude(util.RadiansToDegree(lon2))
}

// PolygonAreaSqM. shoelace area of a lat/lon ring on a local
// equirectangular projection. Good enough for building footprints.
func PolygonAreaSqM(lats, lons []float64) float64 {
	if len(lats) < 3 || len(lats) != len(lons) {
		return 0
	}
	refLat := util.DegreeToRadians(lats[0])
	mPerDegLat := earthRadiusM * math.Pi / 180.0
	mPerDegLon := mPerDegLat * math.Cos(refLat)

	area := 0.0
	n := len(lats)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		xi, yi := lons[i]*mPerDegLon, lats[i]*mPerDegLat
		xj, yj := lons[j]*mPerDegLon, lats[j]*mPerDegLat
		area += xi*yj - xj*yi
	}
	return math.Abs(area) / 2.0
}

// normalizeLongitude. long in degree
func normalizeLongitude(long float64) float64 {
	return math.Mod((long+540), 360) - 180.0
}

package geo

import (
	"math"

	"github.com/aryo-w/streetflow/pkg/util"
)

/*
BearingTo. initial bearing of the edge (p1,p2) in degrees [0,360).
https://www.movable-type.co.uk/scripts/latlong.html
*/
func BearingTo(p1Lat, p1Lon, p2Lat, p2Lon float64) float64 {
	dLon := util.DegreeToRadians(p2Lon - p1Lon)

	lat1 := util.DegreeToRadians(p1Lat)
	lat2 := util.DegreeToRadians(p2Lat)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) -
		math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	brng := math.Mod(util.RadiansToDegree(math.Atan2(y, x))+360, 360.0)

	return brng
}

// DeltaBearing. signed difference outBearing-inBearing normalized to
// (-180, 180]. Negative is a left turn, positive a right turn.
func DeltaBearing(inBearing, outBearing float64) float64 {
	delta := math.Mod(outBearing-inBearing+540, 360) - 180
	if delta == -180 {
		delta = 180
	}
	return delta
}

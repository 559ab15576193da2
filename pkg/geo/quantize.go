package geo

import (
	"strconv"

	"github.com/golang/geo/s2"
)

// s2 level 23 cells are roughly one meter across, which collapses
// near-duplicate floating point coordinates onto one graph node without
// string-formatting the floats.
const quantizeLevel = 23

// QuantizeKey returns a stable integer-derived key for a coordinate,
// used as synthetic graph node identity when no shared point id exists.
func QuantizeKey(lat, lon float64) string {
	cell := s2.CellIDFromLatLng(s2.LatLngFromDegrees(lat, lon)).Parent(quantizeLevel)
	return "q:" + strconv.FormatUint(uint64(cell), 16)
}

// Package epicenter infers demand centers, either from boundary-crossing
// capacity of major roads (the default for a run) or from a building/road
// density grid (pre-run suggestion). The two strategies evolved with
// different weighting constants and are never mixed in one run.
package epicenter

// Epicenter is a weighted demand point with an optional pool of nearby
// graph nodes and an optional cardinal direction tag.
type Epicenter struct {
	Lat       float64  `json:"lat"`
	Lon       float64  `json:"lon"`
	Weight    float64  `json:"weight"`
	Direction string   `json:"direction,omitempty"`
	Source    string   `json:"source"`
	Pool      []string `json:"-"`
}

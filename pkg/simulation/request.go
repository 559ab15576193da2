package simulation

import (
	"github.com/aryo-w/streetflow/pkg"
	"github.com/aryo-w/streetflow/pkg/datastructure"
	"github.com/aryo-w/streetflow/pkg/epicenter"
	"github.com/spf13/viper"
)

// Request is everything one simulation run needs. Roads are required;
// buildings and signals are optional enrichments.
type Request struct {
	Roads     []datastructure.Road          `json:"roads" validate:"required,min=1"`
	Buildings []datastructure.Building      `json:"buildings,omitempty"`
	Signals   []datastructure.TrafficSignal `json:"signals,omitempty"`
	Frame     datastructure.BoundingBox     `json:"frame" validate:"required"`

	// Manual epicenter. When nil, boundary-crossing inference runs.
	Epicenter        *datastructure.RoadPoint `json:"epicenter,omitempty"`
	EpicenterRadiusM float64                  `json:"epicenterRadiusM,omitempty" validate:"gte=0"`

	// Subset of am/pm/neutral; empty means all three.
	Presets []pkg.Preset `json:"presets,omitempty" validate:"dive,oneof=am pm neutral"`

	DetailLevel  float64 `json:"detailLevel,omitempty" validate:"gte=0,lte=10"`
	TripOverride int     `json:"tripOverride,omitempty" validate:"gte=0"`
	KRoutes      int     `json:"kRoutes,omitempty" validate:"gte=0,lte=8"`
	Seed         int64   `json:"seed,omitempty"`
}

func (r *Request) presets() []pkg.Preset {
	if len(r.Presets) == 0 {
		return pkg.DefaultPresets()
	}
	return r.Presets
}

func (r *Request) seed() int64 {
	if r.Seed <= 0 {
		return pkg.DEFAULT_SEED
	}
	return r.Seed
}

func (r *Request) kRoutes() int {
	if r.KRoutes > 0 {
		return r.KRoutes
	}
	if v := viper.GetInt("SIM_K_ROUTES"); v > 0 {
		return v
	}
	return pkg.DEFAULT_K_ROUTES
}

func (r *Request) detailLevel() float64 {
	if r.DetailLevel > 0 {
		return r.DetailLevel
	}
	if v := viper.GetFloat64("SIM_DETAIL_LEVEL"); v > 0 {
		return v
	}
	return 2.0
}

func (r *Request) epicenterRadiusM() float64 {
	if r.EpicenterRadiusM > 0 {
		return r.EpicenterRadiusM
	}
	if v := viper.GetFloat64("SIM_EPICENTER_RADIUS_M"); v > 0 {
		return v
	}
	return 650
}

// RoadTraffic holds per-hour directional scores in [0,100] for one road.
type RoadTraffic struct {
	Forward  [24]float64 `json:"forward"`
	Backward [24]float64 `json:"backward"`
}

// EdgeTraffic is one viewer sample: where traffic is flowing on one
// directed segment, with polyline geometry for overlay drawing.
type EdgeTraffic struct {
	EdgeID   int     `json:"edgeId"`
	RoadID   int64   `json:"roadId"`
	Forward  bool    `json:"forward"`
	Flow     float64 `json:"flow"`
	DwellS   float64 `json:"dwellS"`
	SpeedMS  float64 `json:"speedMS"`
	Polyline string  `json:"polyline"`
}

type Meta struct {
	Trips          int    `json:"trips"`
	KRoutes        int    `json:"kRoutes"`
	DurationMs     int64  `json:"durationMs"`
	Seed           int64  `json:"seed"`
	GeneratedAtIso string `json:"generatedAtIso"`
}

type Result struct {
	RoadTraffic map[int64]*RoadTraffic `json:"roadTraffic"`
	EdgeTraffic []EdgeTraffic          `json:"edgeTraffic"`
	Epicenters  []epicenter.Epicenter  `json:"epicenters"`
	Meta        Meta                   `json:"meta"`
}

// dirCounts are raw accumulated per-direction flow counters for one road
// in one preset, before normalization.
type dirCounts struct {
	forward  float64
	backward float64
}

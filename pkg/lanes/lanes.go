// Package lanes resolves per-road lane structure from raw tags or, when
// nothing is tagged, from per-class heuristics. Routing and accumulation
// reuse the capacity factor and demand weight derived here.
package lanes

import (
	"math"
	"strconv"
	"strings"

	"github.com/aryo-w/streetflow/pkg"
	"github.com/aryo-w/streetflow/pkg/datastructure"
	"github.com/aryo-w/streetflow/pkg/util"
)

type Resolved struct {
	Total    int
	Forward  int
	Backward int
	Inferred bool
}

// Resolve applies, in order: explicit numeric tags, forward+backward
// summation, per-class heuristic fallback, then the directional split.
func Resolve(tags datastructure.LaneTags, class pkg.RoadClass, oneway datastructure.Oneway) Resolved {
	var res Resolved

	res.Total = parseLaneTag(tags.Total)
	res.Forward = parseLaneTag(tags.Forward)
	res.Backward = parseLaneTag(tags.Backward)

	if res.Total == 0 && res.Forward > 0 && res.Backward > 0 {
		res.Total = res.Forward + res.Backward
	}
	if res.Total == 0 {
		res.Total = pkg.ClassLanes(class)
		res.Inferred = true
	}

	switch oneway {
	case datastructure.ONEWAY_FORWARD:
		res.Forward = res.Total
		res.Backward = 0
	case datastructure.ONEWAY_BACKWARD:
		res.Backward = res.Total
		res.Forward = 0
	default:
		switch {
		case res.Forward > 0 && res.Backward == 0:
			res.Backward = util.MaxInt(1, res.Total-res.Forward)
		case res.Backward > 0 && res.Forward == 0:
			res.Forward = util.MaxInt(1, res.Total-res.Backward)
		case res.Forward == 0 && res.Backward == 0:
			res.Backward = util.MaxInt(1, res.Total/2)
			res.Forward = util.MaxInt(1, res.Total-res.Backward)
		}
	}

	return res
}

// parseLaneTag picks the first positive integer token out of a raw lane
// tag ("2", "2;3", "2 lanes"). 0 means no usable value.
func parseLaneTag(raw string) int {
	raw = strings.TrimSpace(raw)
	start, end := -1, -1
	for i, r := range raw {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			end = i + 1
		} else if start >= 0 {
			break
		}
	}
	if start < 0 {
		return 0
	}
	val, err := strconv.Atoi(raw[start:end])
	if err != nil || val <= 0 {
		return 0
	}
	return val
}

// HasDedicatedTurnLane infers a single dedicated-turn-lane flag from a
// turn:lanes tag ("left|through|right"), or from a lane-count surplus
// over straight-only lanes when no tag exists.
func HasDedicatedTurnLane(turnTag string, res Resolved) bool {
	turnTag = strings.TrimSpace(turnTag)
	if turnTag != "" {
		for _, lane := range strings.Split(turnTag, "|") {
			lane = strings.TrimSpace(lane)
			if lane == "" || lane == "through" || lane == "none" {
				continue
			}
			if strings.Contains(lane, "left") || strings.Contains(lane, "right") {
				return true
			}
		}
		return false
	}
	// surplus over what a straight-only carriageway of this width needs.
	return res.Forward > 2 || res.Backward > 2
}

// CapacityFactor is the sub-linear throughput scaling of a direction:
// sqrt(clamp(lanes, 1, 8)).
func CapacityFactor(lanes int) float64 {
	return math.Sqrt(util.ClampFloat(float64(lanes), 1, 8))
}

package simulation

import (
	"math"

	"github.com/aryo-w/streetflow/pkg"
	"github.com/aryo-w/streetflow/pkg/util"
)

// preset weighting curves: gaussian peaks at the morning and evening
// rush plus a broad neutral floor, normalized per hour so the blended
// 24-entry score curves stay smooth with no preset discontinuities.
func gaussian(x, center, sigma float64) float64 {
	d := (x - center) / sigma
	return math.Exp(-0.5 * d * d)
}

func hourWeights(hour int) (am, pm, neutral float64) {
	h := float64(hour)
	am = gaussian(h, 8, 2.2)
	pm = gaussian(h, 17, 2.2)
	neutral = 0.35 + gaussian(h, 12, 5.5)

	sum := am + pm + neutral
	return am / sum, pm / sum, neutral / sum
}

// blendScores normalizes raw per-preset counts to [0,100] against each
// preset's own maximum, then blends the three presets into hourly
// forward/backward curves. A preset with zero max scores all-zero
// rather than dividing by zero.
func blendScores(raw map[pkg.Preset]map[int64]*dirCounts) map[int64]*RoadTraffic {
	normalized := make(map[pkg.Preset]map[int64]*dirCounts, len(raw))
	roadIDs := make(map[int64]struct{})

	for preset, counts := range raw {
		max := 0.0
		for _, c := range counts {
			max = math.Max(max, math.Max(c.forward, c.backward))
		}
		scaled := make(map[int64]*dirCounts, len(counts))
		for roadID, c := range counts {
			roadIDs[roadID] = struct{}{}
			if max == 0 {
				scaled[roadID] = &dirCounts{}
				continue
			}
			scaled[roadID] = &dirCounts{
				forward:  100 * c.forward / max,
				backward: 100 * c.backward / max,
			}
		}
		normalized[preset] = scaled
	}

	scoreOf := func(preset pkg.Preset, roadID int64) (float64, float64) {
		counts, ok := normalized[preset]
		if !ok {
			return 0, 0
		}
		c, ok := counts[roadID]
		if !ok {
			return 0, 0
		}
		return c.forward, c.backward
	}

	result := make(map[int64]*RoadTraffic, len(roadIDs))
	for roadID := range roadIDs {
		rt := &RoadTraffic{}
		amF, amB := scoreOf(pkg.PRESET_AM, roadID)
		pmF, pmB := scoreOf(pkg.PRESET_PM, roadID)
		neF, neB := scoreOf(pkg.PRESET_NEUTRAL, roadID)

		for hour := 0; hour < 24; hour++ {
			wAM, wPM, wNE := hourWeights(hour)
			rt.Forward[hour] = util.ClampFloat(wAM*amF+wPM*pmF+wNE*neF, 0, 100)
			rt.Backward[hour] = util.ClampFloat(wAM*amB+wPM*pmB+wNE*neB, 0, 100)
		}
		result[roadID] = rt
	}

	return result
}

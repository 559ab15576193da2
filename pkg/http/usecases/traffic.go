package usecases

import (
	"context"

	"github.com/aryo-w/streetflow/pkg/datastructure"
	"github.com/aryo-w/streetflow/pkg/epicenter"
	"github.com/aryo-w/streetflow/pkg/simulation"
	"github.com/aryo-w/streetflow/pkg/util"
	"go.uber.org/zap"
)

type TrafficService struct {
	log *zap.Logger
}

func NewTrafficService(log *zap.Logger) *TrafficService {
	return &TrafficService{
		log: log,
	}
}

// Simulate runs one synchronous simulation. Each call builds its own
// engine state, so concurrent requests do not interfere. A frame whose
// min corner is not strictly south-west of its max corner is rejected
// here; field tags cannot express the corner ordering.
func (ts *TrafficService) Simulate(ctx context.Context, req *simulation.Request) (*simulation.Result, error) {
	if req.Frame.MinLat >= req.Frame.MaxLat || req.Frame.MinLon >= req.Frame.MaxLon {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput,
			"frame min corner (%f, %f) must be south-west of max corner (%f, %f)",
			req.Frame.MinLat, req.Frame.MinLon, req.Frame.MaxLat, req.Frame.MaxLon)
	}

	sim := simulation.NewSimulator(ts.log, req)
	return sim.Run(ctx), nil
}

func (ts *TrafficService) SuggestEpicenters(roads []datastructure.Road,
	buildings []datastructure.Building, frame datastructure.BoundingBox) []epicenter.Epicenter {
	return epicenter.SuggestFromDensity(ts.log, roads, buildings, frame)
}

package controllers

import (
	"context"

	"github.com/aryo-w/streetflow/pkg/datastructure"
	"github.com/aryo-w/streetflow/pkg/epicenter"
	"github.com/aryo-w/streetflow/pkg/simulation"
)

type TrafficService interface {
	Simulate(ctx context.Context, req *simulation.Request) (*simulation.Result, error)
	SuggestEpicenters(roads []datastructure.Road, buildings []datastructure.Building,
		frame datastructure.BoundingBox) []epicenter.Epicenter
}

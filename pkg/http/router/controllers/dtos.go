package controllers

import (
	"github.com/aryo-w/streetflow/pkg/datastructure"
	"github.com/aryo-w/streetflow/pkg/epicenter"
	"github.com/aryo-w/streetflow/pkg/simulation"
)

type suggestEpicentersRequest struct {
	Roads     []datastructure.Road      `json:"roads" validate:"required,min=1"`
	Buildings []datastructure.Building  `json:"buildings,omitempty"`
	Frame     datastructure.BoundingBox `json:"frame" validate:"required"`
}

type suggestEpicentersResponse struct {
	Epicenters []epicenter.Epicenter `json:"epicenters"`
}

func NewSuggestEpicentersResponse(epicenters []epicenter.Epicenter) suggestEpicentersResponse {
	if epicenters == nil {
		epicenters = []epicenter.Epicenter{}
	}
	return suggestEpicentersResponse{Epicenters: epicenters}
}

type simulateResponse struct {
	RoadTraffic map[int64]*simulation.RoadTraffic `json:"roadTraffic"`
	EdgeTraffic []simulation.EdgeTraffic          `json:"edgeTraffic"`
	Epicenters  []epicenter.Epicenter             `json:"epicenters"`
	Meta        simulation.Meta                   `json:"meta"`
}

func NewSimulateResponse(result *simulation.Result) simulateResponse {
	return simulateResponse{
		RoadTraffic: result.RoadTraffic,
		EdgeTraffic: result.EdgeTraffic,
		Epicenters:  result.Epicenters,
		Meta:        result.Meta,
	}
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

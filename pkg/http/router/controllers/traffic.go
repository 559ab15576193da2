package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aryo-w/streetflow/pkg/simulation"
	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

type trafficAPI struct {
	trafficService TrafficService
	hub            *Hub
	log            *zap.Logger
}

func New(trafficService TrafficService, log *zap.Logger) *trafficAPI {
	return &trafficAPI{
		trafficService: trafficService,
		hub:            NewHub(log),
		log:            log,
	}
}

func (api *trafficAPI) Routes(router *httprouter.Router) {
	router.POST("/api/traffic/simulate", api.simulate)
	router.POST("/api/traffic/epicenters/suggest", api.suggestEpicenters)
	router.GET("/api/traffic/simulate/ws", api.simulateWs)
}

func (api *trafficAPI) simulate(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request simulation.Request

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := r.Body.Close(); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}

	validate := validator.New()
	if err := validate.Struct(&request); err != nil {
		api.BadRequestResponse(w, r, fmt.Errorf("validation error: %v", flattenValidationError(err)))
		return
	}

	result, err := api.trafficService.Simulate(r.Context(), &request)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewSimulateResponse(result)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *trafficAPI) suggestEpicenters(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request suggestEpicentersRequest

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := r.Body.Close(); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}

	validate := validator.New()
	if err := validate.Struct(&request); err != nil {
		api.BadRequestResponse(w, r, fmt.Errorf("validation error: %v", flattenValidationError(err)))
		return
	}

	epicenters := api.trafficService.SuggestEpicenters(request.Roads, request.Buildings, request.Frame)

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewSuggestEpicentersResponse(epicenters)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aryo-w/streetflow/pkg"
	"github.com/aryo-w/streetflow/pkg/datastructure"
	"github.com/aryo-w/streetflow/pkg/http/usecases"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter() *httprouter.Router {
	router := httprouter.New()
	api := New(usecases.NewTrafficService(zap.NewNop()), zap.NewNop())
	api.Routes(router)
	return router
}

func simulateBody() map[string]interface{} {
	pt := func(id int64, lat, lon float64) map[string]interface{} {
		return map[string]interface{}{"id": id, "lat": lat, "lon": lon}
	}
	road := func(id int64, points ...map[string]interface{}) map[string]interface{} {
		return map[string]interface{}{"id": id, "points": points, "class": pkg.RESIDENTIAL}
	}

	return map[string]interface{}{
		"roads": []interface{}{
			road(1, pt(1, 0, 0), pt(2, 0, 0.005), pt(3, 0, 0.01)),
			road(2, pt(1, 0, 0), pt(4, 0.005, 0), pt(5, 0.01, 0)),
			road(3, pt(3, 0, 0.01), pt(6, 0.005, 0.01), pt(7, 0.01, 0.01)),
			road(4, pt(5, 0.01, 0), pt(8, 0.01, 0.005), pt(7, 0.01, 0.01)),
		},
		"frame": map[string]interface{}{
			"minLat": -0.001, "minLon": -0.001, "maxLat": 0.011, "maxLon": 0.011,
		},
		"tripOverride": 60,
		"seed":         7,
	}
}

func postJSON(t *testing.T, router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSimulateEndpoint(t *testing.T) {
	router := newTestRouter()

	rec := postJSON(t, router, "/api/traffic/simulate", simulateBody())
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			RoadTraffic map[string]*struct {
				Forward  [24]float64 `json:"forward"`
				Backward [24]float64 `json:"backward"`
			} `json:"roadTraffic"`
			Meta struct {
				Trips int   `json:"trips"`
				Seed  int64 `json:"seed"`
			} `json:"meta"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 3*60, resp.Data.Meta.Trips)
	require.Equal(t, int64(7), resp.Data.Meta.Seed)
	require.NotEmpty(t, resp.Data.RoadTraffic)
}

func TestSimulateEndpointRejectsInvalid(t *testing.T) {
	router := newTestRouter()

	body := simulateBody()
	delete(body, "roads")
	rec := postJSON(t, router, "/api/traffic/simulate", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Error.Message)
}

func TestSimulateEndpointRejectsDegenerateFrame(t *testing.T) {
	router := newTestRouter()

	// corners swapped: min is north-east of max.
	body := simulateBody()
	body["frame"] = map[string]interface{}{
		"minLat": 0.011, "minLon": 0.011, "maxLat": -0.001, "maxLon": -0.001,
	}
	rec := postJSON(t, router, "/api/traffic/simulate", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp.Error.Message, "frame")
}

func TestSimulateEndpointRejectsMalformedJSON(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/traffic/simulate",
		bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSuggestEpicentersEndpoint(t *testing.T) {
	router := newTestRouter()

	body := map[string]interface{}{
		"roads": simulateBody()["roads"],
		"frame": simulateBody()["frame"],
	}
	rec := postJSON(t, router, "/api/traffic/epicenters/suggest", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Epicenters []datastructure.RoadPoint `json:"epicenters"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Epicenters)
}

package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestEnforceJSONHandler(t *testing.T) {
	handler := EnforceJSONHandler(okHandler())

	testCases := []struct {
		name        string
		contentType string
		body        string
		expected    int
	}{
		{name: "json body accepted", contentType: "application/json", body: "{}", expected: http.StatusOK},
		{name: "json with charset accepted", contentType: "application/json; charset=utf-8", body: "{}", expected: http.StatusOK},
		{name: "plain text rejected", contentType: "text/plain", body: "hi", expected: http.StatusUnsupportedMediaType},
		{name: "empty body passes without content type", contentType: "", body: "", expected: http.StatusOK},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.expected {
				t.Errorf("status = %d, expected %d", rec.Code, tt.expected)
			}
		})
	}
}

func TestRealIP(t *testing.T) {
	var seen string
	handler := RealIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.RemoteAddr
	}))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "203.0.113.9" {
		t.Errorf("remote addr = %s, expected first forwarded hop", seen)
	}
}

func TestHeartbeat(t *testing.T) {
	handler := Heartbeat("healthz")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("heartbeat status = %d, expected 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/other", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("non-heartbeat path status = %d, expected passthrough", rec.Code)
	}
}

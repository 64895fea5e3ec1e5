package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mercatohq/pricing-service/pkg/config"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error { return s.err }

func healthConfig() *config.Config {
	return &config.Config{App: config.AppConfig{Env: "test"}}
}

func TestHealthLive(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	HealthLive(healthConfig()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Pricing-Env") != "test" {
		t.Fatalf("expected env header, got %q", rec.Header().Get("X-Pricing-Env"))
	}
}

func TestHealthReadyAllUp(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	HealthReady(healthConfig(), testLogger(), stubPinger{}, stubPinger{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"redis":"ok"`) {
		t.Fatalf("expected redis check in payload: %s", rec.Body.String())
	}
}

func TestHealthReadyNoRedisStillReady(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	HealthReady(healthConfig(), testLogger(), stubPinger{}, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 without redis, got %d", rec.Code)
	}
}

func TestHealthReadyDBDown(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	HealthReady(healthConfig(), testLogger(), stubPinger{err: errors.New("down")}, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

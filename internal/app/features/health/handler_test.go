package health_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/dstonem/discord-city-channel-bot/internal/app/features/health"
	"github.com/dstonem/discord-city-channel-bot/internal/app/store/stateconfig"
	"github.com/dstonem/discord-city-channel-bot/internal/domain/models"
)

type stubGateway struct{ connected bool }

func (s stubGateway) Connected() bool { return s.connected }

func serveHealth(t *testing.T, h *health.Handler) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	h.Serve(rec, req)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return rec, body
}

func TestServe_GatewayConnected(t *testing.T) {
	regions := stateconfig.New()
	regions.Put(models.RegionConfig{Slug: "missouri"})
	handler := health.NewHandler(stubGateway{connected: true}, regions, nil, zap.NewNop())

	rec, body := serveHealth(t, handler)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want %q", ct, "application/json")
	}
	if body["status"] != "ok" {
		t.Errorf("status: got %q, want %q", body["status"], "ok")
	}
	if body["gateway"] != "connected" {
		t.Errorf("gateway: got %q, want %q", body["gateway"], "connected")
	}
	if body["regions"] != float64(1) {
		t.Errorf("regions: got %v, want 1", body["regions"])
	}
	// No mongo client wired, so no database field.
	if _, ok := body["database"]; ok {
		t.Errorf("database reported without a client: %v", body["database"])
	}
}

func TestServe_GatewayDisconnected(t *testing.T) {
	handler := health.NewHandler(stubGateway{connected: false}, stateconfig.New(), nil, zap.NewNop())

	rec, body := serveHealth(t, handler)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
	if body["status"] != "error" {
		t.Errorf("status: got %q, want %q", body["status"], "error")
	}
	if body["gateway"] != "disconnected" {
		t.Errorf("gateway: got %q, want %q", body["gateway"], "disconnected")
	}
	if body["message"] != "Gateway unavailable" {
		t.Errorf("message: got %q", body["message"])
	}
}

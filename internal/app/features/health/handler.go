package health

import (
	"context"
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/dstonem/discord-city-channel-bot/internal/app/store/stateconfig"
	"github.com/dstonem/discord-city-channel-bot/internal/app/system/timeouts"
)

// Gateway reports the state of the chat-platform connection.
type Gateway interface {
	Connected() bool
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	Gateway Gateway
	Regions *stateconfig.Table
	Client  *mongo.Client // nil when the audit store is disabled
	Log     *zap.Logger
}

// NewHandler constructs a health Handler.
func NewHandler(gw Gateway, regions *stateconfig.Table, client *mongo.Client, logger *zap.Logger) *Handler {
	return &Handler{
		Gateway: gw,
		Regions: regions,
		Client:  client,
		Log:     logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Gateway  string `json:"gateway"`
	Regions  int    `json:"regions"`
	Database string `json:"database,omitempty"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "gateway":"connected", "regions":50, "database":"connected" }
//
// A disconnected gateway or failed database ping yields 503. The regions
// count is informational; zero regions means provisioning has not run.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:  "ok",
		Gateway: "connected",
		Regions: h.Regions.Len(),
	}

	if !h.Gateway.Connected() {
		h.Log.Error("health-check: gateway not connected")
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Gateway = "disconnected"
		resp.Message = "Gateway unavailable"
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	if h.Client != nil {
		resp.Database = "connected"
		if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
			h.Log.Error("health-check: mongo ping failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			resp.Status = "error"
			resp.Database = "disconnected"
			resp.Message = "Database unavailable"
			resp.Error = err.Error()
			_ = json.NewEncoder(w).Encode(resp)
			return
		}
	}

	_ = json.NewEncoder(w).Encode(resp)
}

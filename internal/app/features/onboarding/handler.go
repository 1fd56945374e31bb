// internal/app/features/onboarding/handler.go
package onboarding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dstonem/discord-city-channel-bot/internal/app/store/onboardings"
	"github.com/dstonem/discord-city-channel-bot/internal/app/system/guild"
	"github.com/dstonem/discord-city-channel-bot/internal/app/system/ratelimit"
	"github.com/dstonem/discord-city-channel-bot/internal/app/system/timeouts"
	"github.com/dstonem/discord-city-channel-bot/internal/domain/models"
)

// Handler serves the onboarding API and form.
type Handler struct {
	Guild    Guild
	Workflow *Workflow
	Audit    *onboardings.Store // nil disables audit records
	Limiter  *ratelimit.Limiter
	Log      *zap.Logger

	// PublicDir holds the static onboarding form. Defaults to "public".
	PublicDir string
}

// NewHandler constructs the onboarding Handler.
func NewHandler(g Guild, wf *Workflow, audit *onboardings.Store, limiter *ratelimit.Limiter, logger *zap.Logger) *Handler {
	return &Handler{
		Guild:     g,
		Workflow:  wf,
		Audit:     audit,
		Limiter:   limiter,
		Log:       logger,
		PublicDir: "public",
	}
}

// submitRequest is the POST /api/onboarding body.
type submitRequest struct {
	MemberID string `json:"memberId"`
	Locality string `json:"locality"`
	Region   string `json:"region"`
	Interest string `json:"interest"`
}

// ServeSubmit handles POST /api/onboarding.
//
// Responses: 200 on success, 400 on missing/invalid fields, 404 when the
// member is not in the guild, 429 when the client is rate limited, 500 for
// unknown regions and remote-platform failures. Error bodies are generic;
// detail goes to the process log only.
func (h *Handler) ServeSubmit(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	log := h.Log.With(zap.String("request_id", requestID))

	if h.Limiter != nil && !h.Limiter.Allow(ratelimit.ClientIP(r)) {
		writeJSON(w, http.StatusTooManyRequests, map[string]any{"error": "Too many requests"})
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid request body"})
		return
	}

	if req.MemberID == "" || req.Locality == "" || req.Region == "" || req.Interest == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Missing required fields"})
		return
	}
	if !models.IsValidInterest(req.Interest) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid interest"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	member, err := h.Guild.Member(ctx, req.MemberID)
	if err != nil {
		if errors.Is(err, guild.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "Member not found"})
			return
		}
		log.Error("member lookup failed", zap.String("member_id", req.MemberID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Internal server error"})
		return
	}

	result, err := h.Workflow.Complete(ctx, member, Request{
		MemberID: req.MemberID,
		Region:   req.Region,
		Locality: req.Locality,
		Interest: models.Interest(req.Interest),
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidLocality):
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid locality"})
		case errors.Is(err, ErrConfigNotFound):
			log.Error("onboarding failed: unknown region", zap.String("region", req.Region))
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Internal server error"})
		default:
			log.Error("onboarding failed", zap.String("member_id", req.MemberID), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Internal server error"})
		}
		return
	}

	h.recordAudit(log, requestID, req, result)

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Onboarding completed successfully",
	})
}

// recordAudit writes the audit document. Best-effort: failures are logged
// and the member still gets a success response. Prior records for the same
// member are surfaced in the log so repeat onboardings (members switching
// localities, or re-running after a partial failure) are visible.
func (h *Handler) recordAudit(log *zap.Logger, requestID string, req submitRequest, result *Result) {
	if h.Audit == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Short())
	defer cancel()

	prior, err := h.Audit.ListByMember(ctx, req.MemberID)
	switch {
	case err != nil:
		log.Warn("audit history lookup failed", zap.Error(err))
	case len(prior) > 0:
		log.Info("member re-onboarded",
			zap.String("member_id", req.MemberID),
			zap.Int("previous_onboardings", len(prior)),
			zap.String("previous_region", prior[0].Region),
			zap.String("previous_locality", prior[0].Locality))
	}

	err = h.Audit.Record(ctx, models.OnboardingRecord{
		RequestID: requestID,
		MemberID:  req.MemberID,
		Region:    result.Region.Slug,
		Locality:  req.Locality,
		Interest:  req.Interest,
		ChannelID: result.LocalityChannel.ID,
	})
	if err != nil {
		log.Warn("audit record write failed", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// internal/app/features/onboarding/handler_test.go
package onboarding

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/dstonem/discord-city-channel-bot/internal/app/store/onboardings"
	"github.com/dstonem/discord-city-channel-bot/internal/app/system/ratelimit"
	"github.com/dstonem/discord-city-channel-bot/internal/testutil"
)

func newTestHandler(t *testing.T, fx *testFixture) *Handler {
	t.Helper()
	return NewHandler(fx.guild, fx.workflow(), nil, nil, zap.NewNop())
}

func postOnboarding(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/onboarding", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeSubmit(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
	return body
}

func TestServeSubmitSuccess(t *testing.T) {
	fx := newFixture(t)
	h := newTestHandler(t, fx)

	rec := postOnboarding(t, h, `{"memberId":"m-1","locality":"St. Louis","region":"missouri","interest":"attending"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Errorf("body = %v, want success true", body)
	}
	if body["message"] != "Onboarding completed successfully" {
		t.Errorf("message = %v", body["message"])
	}
	if chans := fx.guild.ChannelsNamed("st-louis"); len(chans) != 1 {
		t.Errorf("st-louis channels = %d, want 1", len(chans))
	}
}

func TestServeSubmitValidation(t *testing.T) {
	fx := newFixture(t)
	h := newTestHandler(t, fx)

	cases := []struct {
		name    string
		body    string
		status  int
		errText string
	}{
		{"malformed json", `{"memberId":`, http.StatusBadRequest, "Invalid request body"},
		{"missing fields", `{"memberId":"m-1","region":"missouri"}`, http.StatusBadRequest, "Missing required fields"},
		{"invalid interest", `{"memberId":"m-1","locality":"St. Louis","region":"missouri","interest":"spectating"}`, http.StatusBadRequest, "Invalid interest"},
		{"unknown member", `{"memberId":"ghost","locality":"St. Louis","region":"missouri","interest":"attending"}`, http.StatusNotFound, "Member not found"},
		{"unknown region", `{"memberId":"m-1","locality":"St. Louis","region":"atlantis","interest":"attending"}`, http.StatusInternalServerError, "Internal server error"},
		{"unusable locality", `{"memberId":"m-1","locality":"!!!","region":"missouri","interest":"attending"}`, http.StatusBadRequest, "Invalid locality"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postOnboarding(t, h, tc.body)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d; body %s", rec.Code, tc.status, rec.Body.String())
			}
			if body := decodeBody(t, rec); body["error"] != tc.errText {
				t.Errorf("error = %v, want %q", body["error"], tc.errText)
			}
		})
	}
}

func TestServeSubmitPlatformFailure(t *testing.T) {
	fx := newFixture(t)
	h := newTestHandler(t, fx)
	fx.guild.Errs["AddMemberRole"] = errStub("rate limited upstream")

	rec := postOnboarding(t, h, `{"memberId":"m-1","locality":"St. Louis","region":"missouri","interest":"attending"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	// Remote failure detail must not leak into the response body.
	if body := decodeBody(t, rec); body["error"] != "Internal server error" {
		t.Errorf("error = %v, want generic message", body["error"])
	}
}

func TestServeSubmitRateLimited(t *testing.T) {
	fx := newFixture(t)
	h := newTestHandler(t, fx)
	h.Limiter = ratelimit.New(2, time.Minute)

	body := `{"memberId":"m-1","locality":"St. Louis","region":"missouri","interest":"attending"}`
	for i := 0; i < 2; i++ {
		if rec := postOnboarding(t, h, body); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, rec.Code)
		}
	}

	rec := postOnboarding(t, h, body)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
}

func TestServeForm(t *testing.T) {
	fx := newFixture(t)
	h := newTestHandler(t, fx)
	dir := t.TempDir()
	h.PublicDir = dir

	page := "<!doctype html><title>Onboarding</title>"
	if err := os.WriteFile(filepath.Join(dir, "onboarding.html"), []byte(page), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/onboard/m-1", nil)
	rec := httptest.NewRecorder()

	r := Routes(h)
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != page {
		t.Errorf("body = %q, want form page", got)
	}
}

func TestServeSubmitAuditTrail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := newFixture(t)
	h := newTestHandler(t, fx)
	h.Audit = onboardings.NewStore(db)

	first := postOnboarding(t, h, `{"memberId":"m-1","locality":"St. Louis","region":"missouri","interest":"attending"}`)
	if first.Code != http.StatusOK {
		t.Fatalf("first submit status = %d, want 200", first.Code)
	}
	// Distinct created_at values so the newest-first sort is deterministic.
	time.Sleep(5 * time.Millisecond)
	second := postOnboarding(t, h, `{"memberId":"m-1","locality":"Kansas City","region":"missouri","interest":"volunteering"}`)
	if second.Code != http.StatusOK {
		t.Fatalf("second submit status = %d, want 200", second.Code)
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	records, err := h.Audit.ListByMember(ctx, "m-1")
	if err != nil {
		t.Fatalf("ListByMember: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("audit records = %d, want 2", len(records))
	}
	// Newest first: the re-onboarding into Kansas City.
	if records[0].Locality != "Kansas City" || records[0].Interest != "volunteering" {
		t.Errorf("latest record = %+v", records[0])
	}
	if records[1].Region != "missouri" || records[1].Locality != "St. Louis" {
		t.Errorf("first record = %+v", records[1])
	}
	for _, rec := range records {
		if rec.RequestID == "" || rec.ChannelID == "" {
			t.Errorf("record missing request or channel id: %+v", rec)
		}
	}
}

type errStub string

func (e errStub) Error() string { return string(e) }

// internal/app/features/provision/builder_test.go
package provision

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/dstonem/discord-city-channel-bot/internal/domain/models"
	"github.com/dstonem/discord-city-channel-bot/internal/testutil"
)

// newTestBuilder returns a builder whose batch pauses are recorded instead of
// slept.
func newTestBuilder(fg *testutil.FakeGuild) (*Builder, *[]time.Duration) {
	b := NewBuilder(fg, zap.NewNop())
	var pauses []time.Duration
	b.sleep = func(d time.Duration) { pauses = append(pauses, d) }
	return b, &pauses
}

func TestBuildAllProvisionsEachRegion(t *testing.T) {
	fg := testutil.NewFakeGuild()
	b, _ := newTestBuilder(fg)

	table, err := b.BuildAll(context.Background(), []string{"Missouri", "New York"})
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("table has %d regions, want 2", table.Len())
	}

	cfg, ok := table.Lookup("new-york")
	if !ok {
		t.Fatal("new-york missing from table")
	}
	if cfg.DisplayName != "New York" {
		t.Errorf("display name = %q, want %q", cfg.DisplayName, "New York")
	}

	roles, _ := fg.Roles(context.Background())
	var roleNames []string
	for _, r := range roles {
		roleNames = append(roleNames, r.Name)
	}
	if len(roleNames) != 2 || roleNames[0] == roleNames[1] {
		t.Errorf("roles = %v", roleNames)
	}
	for _, name := range roleNames {
		if !strings.HasSuffix(name, " Resident") {
			t.Errorf("role %q missing Resident suffix", name)
		}
	}

	if cats := fg.ChannelsNamed("📍 NEW YORK"); len(cats) != 1 {
		t.Fatalf("📍 NEW YORK categories = %d, want 1", len(cats))
	} else if cats[0].Type != models.ChannelTypeCategory {
		t.Errorf("📍 NEW YORK is %v, want category", cats[0].Type)
	}

	generals := fg.ChannelsNamed("new-york-general")
	if len(generals) != 1 {
		t.Fatalf("new-york-general channels = %d, want 1", len(generals))
	}
	if generals[0].ID != cfg.GeneralChannelID {
		t.Errorf("table channel id = %q, want %q", cfg.GeneralChannelID, generals[0].ID)
	}

	msgs := fg.MessagesIn(cfg.GeneralChannelID)
	if len(msgs) != 1 {
		t.Fatalf("welcome messages = %d, want 1", len(msgs))
	}
	if !strings.Contains(msgs[0], "Welcome to New York!") || !strings.Contains(msgs[0], "/setlocation new-york") {
		t.Errorf("welcome message = %q", msgs[0])
	}
}

func TestBuildAllBatchPacing(t *testing.T) {
	fg := testutil.NewFakeGuild()
	b, pauses := newTestBuilder(fg)

	regions := USStates[:12] // 3 batches of 5, 5, 2
	table, err := b.BuildAll(context.Background(), regions)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if table.Len() != 12 {
		t.Fatalf("table has %d regions, want 12", table.Len())
	}

	// A pause after every batch except the last.
	if len(*pauses) != 2 {
		t.Fatalf("pauses = %d, want 2", len(*pauses))
	}
	for _, d := range *pauses {
		if d != batchPause {
			t.Errorf("pause = %v, want %v", d, batchPause)
		}
	}
}

func TestBuildAllNoPauseForSingleBatch(t *testing.T) {
	fg := testutil.NewFakeGuild()
	b, pauses := newTestBuilder(fg)

	if _, err := b.BuildAll(context.Background(), USStates[:5]); err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(*pauses) != 0 {
		t.Errorf("pauses = %d, want 0", len(*pauses))
	}
}

func TestBuildAllSkipsFailedRegion(t *testing.T) {
	fg := testutil.NewFakeGuild()
	b, _ := newTestBuilder(fg)

	table, err := b.BuildAll(context.Background(), []string{"Missouri", "!!!", "Kansas"})
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}

	if table.Len() != 2 {
		t.Errorf("table has %d regions, want 2", table.Len())
	}
	if _, ok := table.Lookup("missouri"); !ok {
		t.Error("missouri missing from table")
	}
	if _, ok := table.Lookup("kansas"); !ok {
		t.Error("kansas missing from table")
	}
}

func TestBuildAllPlatformFailureLeavesRegionOut(t *testing.T) {
	fg := testutil.NewFakeGuild()
	b, _ := newTestBuilder(fg)
	fg.Errs["CreateGeneralChannel"] = errors.New("rate limited")

	table, err := b.BuildAll(context.Background(), []string{"Missouri"})
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if table.Len() != 0 {
		t.Errorf("table has %d regions, want 0", table.Len())
	}
	// The role and category created before the failure stay behind.
	roles, _ := fg.Roles(context.Background())
	if len(roles) != 1 {
		t.Errorf("roles = %d, want 1 left behind", len(roles))
	}
}

func TestBuildAllStopsWhenContextCancelled(t *testing.T) {
	fg := testutil.NewFakeGuild()
	b, _ := newTestBuilder(fg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	table, err := b.BuildAll(ctx, USStates)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if table.Len() != 0 {
		t.Errorf("table has %d regions, want 0", table.Len())
	}
}

// internal/app/features/provision/teardown.go
package provision

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/dstonem/discord-city-channel-bot/internal/domain/models"
)

// TeardownReport counts what a teardown run removed.
type TeardownReport struct {
	Channels   int
	Categories int
	Roles      int
	Failures   int
}

// Teardown removes every provisioned region: all categories carrying the
// provisioning prefix (children first), then all resident roles.
type Teardown struct {
	guild Guild
	log   *zap.Logger
}

// NewTeardown constructs a Teardown.
func NewTeardown(g Guild, logger *zap.Logger) *Teardown {
	return &Teardown{guild: g, log: logger}
}

// DeleteAll deletes region infrastructure sequentially and best-effort: each
// failed delete is logged and counted, and the run continues. Selection is by
// naming convention, so channels and roles created by hand that match the
// convention are removed too.
func (t *Teardown) DeleteAll(ctx context.Context) (TeardownReport, error) {
	var report TeardownReport

	channels, err := t.guild.Channels(ctx)
	if err != nil {
		return report, err
	}

	for _, cat := range channels {
		if cat.Type != models.ChannelTypeCategory || !strings.HasPrefix(cat.Name, "📍") {
			continue
		}

		for _, ch := range channels {
			if ch.ParentID != cat.ID {
				continue
			}
			if err := t.guild.DeleteChannel(ctx, ch.ID); err != nil {
				t.log.Error("deleting region channel failed",
					zap.String("channel", ch.Name), zap.Error(err))
				report.Failures++
				continue
			}
			report.Channels++
		}

		if err := t.guild.DeleteChannel(ctx, cat.ID); err != nil {
			t.log.Error("deleting region category failed",
				zap.String("category", cat.Name), zap.Error(err))
			report.Failures++
			continue
		}
		report.Categories++
	}

	roles, err := t.guild.Roles(ctx)
	if err != nil {
		return report, err
	}

	for _, role := range roles {
		if !strings.HasSuffix(role.Name, "Resident") || role.Name == "@everyone" {
			continue
		}
		if err := t.guild.DeleteRole(ctx, role.ID); err != nil {
			t.log.Error("deleting resident role failed",
				zap.String("role", role.Name), zap.Error(err))
			report.Failures++
			continue
		}
		report.Roles++
	}

	t.log.Info("teardown finished",
		zap.Int("channels", report.Channels),
		zap.Int("categories", report.Categories),
		zap.Int("roles", report.Roles),
		zap.Int("failures", report.Failures))
	return report, nil
}

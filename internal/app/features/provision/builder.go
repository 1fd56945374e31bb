// internal/app/features/provision/builder.go
package provision

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dstonem/discord-city-channel-bot/internal/app/store/stateconfig"
	"github.com/dstonem/discord-city-channel-bot/internal/app/system/sanitize"
	"github.com/dstonem/discord-city-channel-bot/internal/domain/models"
)

// Guild is the platform capability the provision feature needs. *guild.Service
// satisfies it; tests use testutil.FakeGuild.
type Guild interface {
	CreateRole(ctx context.Context, name string) (*models.Role, error)
	CreateCategory(ctx context.Context, name, allowRoleID string) (*models.Channel, error)
	CreateGeneralChannel(ctx context.Context, spec models.ChannelSpec) (*models.Channel, error)
	Channels(ctx context.Context) ([]models.Channel, error)
	Roles(ctx context.Context) ([]models.Role, error)
	DeleteChannel(ctx context.Context, channelID string) error
	DeleteRole(ctx context.Context, roleID string) error
	SendMessage(ctx context.Context, channelID, content string) error
	IsAdministrator(userID, channelID string) (bool, error)
}

const (
	// batchSize bounds how many regions are provisioned concurrently. Each
	// region costs three create calls plus a message, so larger batches trip
	// the platform's rate limiter.
	batchSize = 5

	// batchPause is the wait between batches.
	batchPause = 2 * time.Second

	categoryPrefix = "📍 "
	roleSuffix     = " Resident"
)

// Builder provisions the per-region infrastructure: a resident role, a hidden
// category, and a general channel, for every region in the roster.
type Builder struct {
	guild Guild
	log   *zap.Logger

	// sleep is swapped out in tests so batch pacing can be observed without
	// real delays.
	sleep func(time.Duration)
}

// NewBuilder constructs a Builder.
func NewBuilder(g Guild, logger *zap.Logger) *Builder {
	return &Builder{guild: g, log: logger, sleep: time.Sleep}
}

// BuildAll provisions every region in the roster, batchSize at a time with a
// pause between batches. Regions inside a batch run concurrently. A failed
// region is logged and skipped; the rest of the run proceeds. The returned
// table holds only the regions that fully provisioned.
//
// BuildAll stops early only when ctx is done.
func (b *Builder) BuildAll(ctx context.Context, regions []string) (*stateconfig.Table, error) {
	table := stateconfig.New()
	var mu sync.Mutex

	b.log.Info("starting region provisioning", zap.Int("regions", len(regions)))

	for i := 0; i < len(regions); i += batchSize {
		if err := ctx.Err(); err != nil {
			return table, err
		}

		end := i + batchSize
		if end > len(regions) {
			end = len(regions)
		}
		batch := regions[i:end]

		var wg sync.WaitGroup
		for _, name := range batch {
			wg.Add(1)
			go func(name string) {
				defer wg.Done()
				cfg, err := b.buildRegion(ctx, name)
				if err != nil {
					b.log.Error("provisioning region failed",
						zap.String("region", name), zap.Error(err))
					return
				}
				mu.Lock()
				table.Put(cfg)
				mu.Unlock()
			}(name)
		}
		wg.Wait()

		if end < len(regions) {
			b.log.Info("pausing before next batch", zap.Duration("pause", batchPause))
			b.sleep(batchPause)
		}
	}

	b.log.Info("region provisioning finished",
		zap.Int("provisioned", table.Len()),
		zap.Int("requested", len(regions)))
	return table, nil
}

// buildRegion provisions one region: role, then category, then general
// channel, then the channel's welcome message. A failure part-way leaves the
// earlier pieces in place; re-running provisioning after fixing the cause is
// the recovery path.
func (b *Builder) buildRegion(ctx context.Context, name string) (models.RegionConfig, error) {
	slug := sanitize.ChannelName(name)
	if slug == "" {
		return models.RegionConfig{}, fmt.Errorf("region %q sanitizes to nothing", name)
	}

	role, err := b.guild.CreateRole(ctx, name+roleSuffix)
	if err != nil {
		return models.RegionConfig{}, fmt.Errorf("creating role: %w", err)
	}

	category, err := b.guild.CreateCategory(ctx, categoryPrefix+strings.ToUpper(name), role.ID)
	if err != nil {
		return models.RegionConfig{}, fmt.Errorf("creating category: %w", err)
	}

	general, err := b.guild.CreateGeneralChannel(ctx, models.ChannelSpec{
		Name:        slug + "-general",
		ParentID:    category.ID,
		Topic:       fmt.Sprintf("General discussion for %s residents", name),
		AllowRoleID: role.ID,
	})
	if err != nil {
		return models.RegionConfig{}, fmt.Errorf("creating general channel: %w", err)
	}

	welcome := fmt.Sprintf("🏛️ **Welcome to %s!**\n\nThis is the general chat for all %s residents. City-specific channels will be created automatically when residents join!\n\n*Use `/setlocation %s <your-city>` to get access to your city's channel.*",
		name, name, slug)
	if err := b.guild.SendMessage(ctx, general.ID, welcome); err != nil {
		return models.RegionConfig{}, fmt.Errorf("posting welcome message: %w", err)
	}

	b.log.Info("provisioned region",
		zap.String("region", name),
		zap.String("category_id", category.ID),
		zap.String("channel_id", general.ID),
		zap.String("role_id", role.ID))

	return models.RegionConfig{
		Slug:             slug,
		DisplayName:      name,
		CategoryID:       category.ID,
		GeneralChannelID: general.ID,
		RoleID:           role.ID,
	}, nil
}

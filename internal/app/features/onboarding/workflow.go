// internal/app/features/onboarding/workflow.go
package onboarding

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dstonem/discord-city-channel-bot/internal/app/store/stateconfig"
	"github.com/dstonem/discord-city-channel-bot/internal/app/system/keymutex"
	"github.com/dstonem/discord-city-channel-bot/internal/app/system/sanitize"
	"github.com/dstonem/discord-city-channel-bot/internal/domain/models"
)

// Guild is the slice of platform capability the workflow needs. *guild.Service
// satisfies it; tests use testutil.FakeGuild.
type Guild interface {
	Member(ctx context.Context, memberID string) (*models.Member, error)
	AddMemberRole(ctx context.Context, memberID, roleID string) error
	GrantMemberChannelAccess(ctx context.Context, channelID, memberID string) error
	FindTextChannel(ctx context.Context, parentID, name string) (*models.Channel, error)
	CreateTextChannel(ctx context.Context, spec models.ChannelSpec) (*models.Channel, error)
	SendMessage(ctx context.Context, channelID, content string) error
}

// SpecialBindings are the fixed, guild-wide role/channel ids not tied to any
// region. Empty ids mean the binding is unconfigured; steps that need it are
// skipped rather than failed.
type SpecialBindings struct {
	LocalLeaderRoleID    string
	LocalLeaderChannelID string
	ResourcesChannelID   string
}

// Request is one onboarding form submission. All fields are required and the
// region must resolve in the lookup table.
type Request struct {
	MemberID string
	Region   string
	Locality string
	Interest models.Interest
}

// Result reports where the member landed.
type Result struct {
	Region          models.RegionConfig
	LocalityChannel models.Channel
	CreatedChannel  bool
}

// Workflow performs the ordered provisioning steps for one onboarding. Steps
// run strictly in sequence; the first failure aborts the rest and propagates.
// Earlier side effects are not rolled back.
type Workflow struct {
	guild    Guild
	regions  *stateconfig.Table
	bindings SpecialBindings
	locks    *keymutex.KeyMutex
	log      *zap.Logger
}

// NewWorkflow constructs the onboarding workflow.
func NewWorkflow(g Guild, regions *stateconfig.Table, bindings SpecialBindings, logger *zap.Logger) *Workflow {
	return &Workflow{
		guild:    g,
		regions:  regions,
		bindings: bindings,
		locks:    keymutex.New(),
		log:      logger,
	}
}

// Complete runs the onboarding sequence for an already-resolved member:
//
//  1. resolve the region config (ErrConfigNotFound if absent)
//  2. grant the region role (redundant grants are a platform no-op)
//  3. grant access on the region's general channel
//  4. find or create the locality channel under the region's category
//  5. grant access on the locality channel
//  6. interest-specific announcements and grants
//
// The locality find-or-create is serialized per (region, locality) so two
// concurrent first-time onboardings cannot create duplicate channels.
func (w *Workflow) Complete(ctx context.Context, member *models.Member, req Request) (*Result, error) {
	cfg, ok := w.regions.Lookup(req.Region)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrConfigNotFound, req.Region)
	}

	w.log.Info("processing onboarding",
		zap.String("member_id", member.ID),
		zap.String("username", member.Username),
		zap.String("region", cfg.Slug),
		zap.String("locality", req.Locality),
		zap.String("interest", string(req.Interest)))

	channelName := sanitize.ChannelName(req.Locality)
	if channelName == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLocality, req.Locality)
	}
	localityDisplay := sanitize.Text(req.Locality)

	if err := w.guild.AddMemberRole(ctx, member.ID, cfg.RoleID); err != nil {
		return nil, fmt.Errorf("granting region role: %w", err)
	}

	if err := w.guild.GrantMemberChannelAccess(ctx, cfg.GeneralChannelID, member.ID); err != nil {
		return nil, fmt.Errorf("granting general channel access: %w", err)
	}

	localityChannel, created, err := w.ensureLocalityChannel(ctx, cfg, channelName, localityDisplay)
	if err != nil {
		return nil, err
	}

	if err := w.guild.GrantMemberChannelAccess(ctx, localityChannel.ID, member.ID); err != nil {
		return nil, fmt.Errorf("granting locality channel access: %w", err)
	}

	if err := w.handleInterest(ctx, member, req.Interest, localityChannel, localityDisplay, cfg.DisplayName); err != nil {
		return nil, err
	}

	w.log.Info("onboarding complete",
		zap.String("member_id", member.ID),
		zap.String("channel", localityChannel.Name),
		zap.Bool("channel_created", created))

	return &Result{
		Region:          cfg,
		LocalityChannel: *localityChannel,
		CreatedChannel:  created,
	}, nil
}

// ensureLocalityChannel finds the locality channel by exact name under the
// region category, creating it on first demand. The per-key lock makes the
// check-then-create atomic within this process.
func (w *Workflow) ensureLocalityChannel(ctx context.Context, cfg models.RegionConfig, channelName, localityDisplay string) (*models.Channel, bool, error) {
	key := cfg.Slug + "/" + channelName
	w.locks.Lock(key)
	defer w.locks.Unlock(key)

	existing, err := w.guild.FindTextChannel(ctx, cfg.CategoryID, channelName)
	if err != nil {
		return nil, false, fmt.Errorf("searching for locality channel: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	created, err := w.guild.CreateTextChannel(ctx, models.ChannelSpec{
		Name:        channelName,
		ParentID:    cfg.CategoryID,
		Topic:       fmt.Sprintf("Chat for residents of %s, %s", localityDisplay, cfg.DisplayName),
		AllowRoleID: cfg.RoleID,
	})
	if err != nil {
		return nil, false, fmt.Errorf("creating locality channel: %w", err)
	}

	w.log.Info("created locality channel",
		zap.String("region", cfg.Slug),
		zap.String("channel", created.Name),
		zap.String("channel_id", created.ID))
	return created, true, nil
}

// handleInterest runs the branch for the member's interest category. Exactly
// one branch executes. Unconfigured special bindings short-circuit their own
// step only.
func (w *Workflow) handleInterest(ctx context.Context, member *models.Member, interest models.Interest, locality *models.Channel, localityDisplay, regionDisplay string) error {
	switch interest {
	case models.InterestLeading:
		return w.handleLeading(ctx, member, locality, localityDisplay, regionDisplay)

	case models.InterestVolunteering:
		msg := fmt.Sprintf("👋 **%s** just joined and wants to volunteer for local pop-ups! If you're organizing events in %s, reach out! 🙌",
			member.DisplayName(), localityDisplay)
		if err := w.guild.SendMessage(ctx, locality.ID, msg); err != nil {
			return fmt.Errorf("posting volunteer announcement: %w", err)
		}
		return nil

	case models.InterestAttending:
		msg := fmt.Sprintf("🎉 Welcome **%s** to %s! Keep an eye on this channel for local pop-up announcements! 📅",
			member.DisplayName(), localityDisplay)
		if err := w.guild.SendMessage(ctx, locality.ID, msg); err != nil {
			return fmt.Errorf("posting attendee welcome: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("onboarding: unknown interest %q", interest)
	}
}

func (w *Workflow) handleLeading(ctx context.Context, member *models.Member, locality *models.Channel, localityDisplay, regionDisplay string) error {
	if w.bindings.LocalLeaderRoleID != "" {
		if err := w.guild.AddMemberRole(ctx, member.ID, w.bindings.LocalLeaderRoleID); err != nil {
			return fmt.Errorf("granting local leader role: %w", err)
		}
	} else {
		w.log.Warn("local leader role not configured, skipping grant",
			zap.String("member_id", member.ID))
	}

	if w.bindings.LocalLeaderChannelID != "" {
		if err := w.guild.GrantMemberChannelAccess(ctx, w.bindings.LocalLeaderChannelID, member.ID); err != nil {
			return fmt.Errorf("granting knowledge-share channel access: %w", err)
		}
		welcome := fmt.Sprintf("🎉 Welcome %s! You're now a local leader for %s, %s!",
			member.Mention(), localityDisplay, regionDisplay)
		if err := w.guild.SendMessage(ctx, w.bindings.LocalLeaderChannelID, welcome); err != nil {
			return fmt.Errorf("posting leader welcome: %w", err)
		}
	} else {
		w.log.Warn("knowledge-share channel not configured, skipping leader welcome",
			zap.String("member_id", member.ID))
	}

	msg := fmt.Sprintf("🌟 **%s** is leading pop-ups in %s! The members in this channel are listed as either volunteers or attendees. Check %s and %s for everything you need to get started in your community! 🚀",
		member.DisplayName(), localityDisplay,
		channelRef(w.bindings.ResourcesChannelID, "the resources channel"),
		channelRef(w.bindings.LocalLeaderChannelID, "the knowledge-share channel"))
	if err := w.guild.SendMessage(ctx, locality.ID, msg); err != nil {
		return fmt.Errorf("posting leadership announcement: %w", err)
	}
	return nil
}

// channelRef renders a channel mention, with a plain-text fallback for
// unconfigured bindings.
func channelRef(channelID, fallback string) string {
	if channelID == "" {
		return fallback
	}
	return "<#" + channelID + ">"
}

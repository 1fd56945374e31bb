// internal/app/features/greeter/greeter.go
package greeter

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dstonem/discord-city-channel-bot/internal/domain/models"
)

// Guild is the platform capability the greeter needs.
type Guild interface {
	Name() string
	DirectMessage(ctx context.Context, memberID, content string) error
	Channels(ctx context.Context) ([]models.Channel, error)
	SendMessage(ctx context.Context, channelID, content string) error
}

// fallbackChannels are searched in order when a member's DMs are closed.
var fallbackChannels = []string{"welcome", "general"}

// Greeter welcomes newly joined members with a DM carrying their personal
// onboarding link. Members with DMs disabled get a public nudge in the
// welcome channel instead.
type Greeter struct {
	guild   Guild
	baseURL string
	log     *zap.Logger
}

// New constructs a Greeter. baseURL is the externally reachable address of
// the onboarding form, without a trailing slash.
func New(g Guild, baseURL string, logger *zap.Logger) *Greeter {
	return &Greeter{
		guild:   g,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     logger,
	}
}

// OnboardingURL returns the member's personal onboarding link.
func (g *Greeter) OnboardingURL(memberID string) string {
	return g.baseURL + "/onboard/" + memberID
}

// Greet welcomes one just-joined member. Errors are logged, never returned:
// a failed greeting must not disturb the gateway event loop, and the member
// can still be onboarded by hand.
func (g *Greeter) Greet(ctx context.Context, member models.Member) {
	url := g.OnboardingURL(member.ID)

	dm := fmt.Sprintf("🏡 **Welcome to %s!**\n\n🌟 **Get started by completing your community onboarding:**\n%s\n\nThis will connect you with your local community and give you access to city-specific channels! 🎉",
		g.guild.Name(), url)

	err := g.guild.DirectMessage(ctx, member.ID, dm)
	if err == nil {
		g.log.Info("sent onboarding DM", zap.String("member_id", member.ID))
		return
	}
	g.log.Warn("onboarding DM failed, falling back to public channel",
		zap.String("member_id", member.ID), zap.Error(err))

	channel, err := g.findFallbackChannel(ctx)
	if err != nil {
		g.log.Error("listing channels for fallback greeting failed",
			zap.String("member_id", member.ID), zap.Error(err))
		return
	}
	if channel == nil {
		g.log.Warn("no welcome channel available, member not greeted",
			zap.String("member_id", member.ID))
		return
	}

	public := fmt.Sprintf("%s, welcome! Please check your DMs for your onboarding link, or use this one: %s",
		member.Mention(), url)
	if err := g.guild.SendMessage(ctx, channel.ID, public); err != nil {
		g.log.Error("fallback greeting failed",
			zap.String("member_id", member.ID),
			zap.String("channel", channel.Name),
			zap.Error(err))
	}
}

// findFallbackChannel returns the first text channel matching the fallback
// names, in preference order, or nil when none exists.
func (g *Greeter) findFallbackChannel(ctx context.Context) (*models.Channel, error) {
	channels, err := g.guild.Channels(ctx)
	if err != nil {
		return nil, err
	}
	for _, name := range fallbackChannels {
		for i := range channels {
			ch := &channels[i]
			if ch.Type == models.ChannelTypeText && ch.Name == name {
				return ch, nil
			}
		}
	}
	return nil, nil
}

// internal/app/system/guild/channels.go
package guild

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/dstonem/discord-city-channel-bot/internal/domain/models"
)

// Permission grants used across channel provisioning. The member/role allow
// triple matches what onboarding grants per member; general channels add
// reactions and external emoji for the region role.
const (
	memberAccessAllow = discordgo.PermissionViewChannel |
		discordgo.PermissionSendMessages |
		discordgo.PermissionReadMessageHistory

	generalChannelAllow = memberAccessAllow |
		discordgo.PermissionUseExternalEmojis |
		discordgo.PermissionAddReactions
)

// Channels lists all channels in the guild, categories included.
func (s *Service) Channels(ctx context.Context) ([]models.Channel, error) {
	channels, err := s.session.GuildChannels(s.guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("guild: listing channels: %w", err)
	}

	out := make([]models.Channel, 0, len(channels))
	for _, ch := range channels {
		converted, ok := channelFromAPI(ch)
		if !ok {
			continue
		}
		out = append(out, converted)
	}
	return out, nil
}

// FindTextChannel scans the parent category for a text channel with the exact
// name. Returns (nil, nil) when no such channel exists.
func (s *Service) FindTextChannel(ctx context.Context, parentID, name string) (*models.Channel, error) {
	channels, err := s.Channels(ctx)
	if err != nil {
		return nil, err
	}
	for i := range channels {
		ch := &channels[i]
		if ch.Type == models.ChannelTypeText && ch.ParentID == parentID && ch.Name == name {
			return ch, nil
		}
	}
	return nil, nil
}

// CreateTextChannel creates a text channel under the given parent category
// with default-deny for @everyone and the standard allow triple for the given
// role. The @everyone role id equals the guild id on this platform.
func (s *Service) CreateTextChannel(ctx context.Context, spec models.ChannelSpec) (*models.Channel, error) {
	overwrites := []*discordgo.PermissionOverwrite{
		{
			ID:   s.guildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		{
			ID:    spec.AllowRoleID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: memberAccessAllow,
		},
	}

	ch, err := s.session.GuildChannelCreateComplex(s.guildID, discordgo.GuildChannelCreateData{
		Name:                 spec.Name,
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                spec.Topic,
		ParentID:             spec.ParentID,
		PermissionOverwrites: overwrites,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("guild: creating text channel %q: %w", spec.Name, err)
	}

	converted, _ := channelFromAPI(ch)
	return &converted, nil
}

// CreateGeneralChannel is CreateTextChannel with the wider allow set used for
// region general channels (adds reactions and external emoji).
func (s *Service) CreateGeneralChannel(ctx context.Context, spec models.ChannelSpec) (*models.Channel, error) {
	overwrites := []*discordgo.PermissionOverwrite{
		{
			ID:   s.guildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		{
			ID:    spec.AllowRoleID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: generalChannelAllow,
		},
	}

	ch, err := s.session.GuildChannelCreateComplex(s.guildID, discordgo.GuildChannelCreateData{
		Name:                 spec.Name,
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                spec.Topic,
		ParentID:             spec.ParentID,
		PermissionOverwrites: overwrites,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("guild: creating general channel %q: %w", spec.Name, err)
	}

	converted, _ := channelFromAPI(ch)
	return &converted, nil
}

// CreateCategory creates a category visible only to the given role.
func (s *Service) CreateCategory(ctx context.Context, name, allowRoleID string) (*models.Channel, error) {
	overwrites := []*discordgo.PermissionOverwrite{
		{
			ID:   s.guildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		{
			ID:    allowRoleID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: memberAccessAllow,
		},
	}

	ch, err := s.session.GuildChannelCreateComplex(s.guildID, discordgo.GuildChannelCreateData{
		Name:                 name,
		Type:                 discordgo.ChannelTypeGuildCategory,
		PermissionOverwrites: overwrites,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("guild: creating category %q: %w", name, err)
	}

	converted, _ := channelFromAPI(ch)
	return &converted, nil
}

// DeleteChannel deletes a channel or category by id.
func (s *Service) DeleteChannel(ctx context.Context, channelID string) error {
	if _, err := s.session.ChannelDelete(channelID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("guild: deleting channel %s: %w", channelID, err)
	}
	return nil
}

// channelFromAPI converts an API channel. Channel kinds the bot never touches
// (voice, threads, forums) report ok=false and are skipped by listings.
func channelFromAPI(ch *discordgo.Channel) (models.Channel, bool) {
	var kind models.ChannelType
	switch ch.Type {
	case discordgo.ChannelTypeGuildText:
		kind = models.ChannelTypeText
	case discordgo.ChannelTypeGuildCategory:
		kind = models.ChannelTypeCategory
	default:
		return models.Channel{}, false
	}
	return models.Channel{
		ID:       ch.ID,
		Name:     ch.Name,
		Type:     kind,
		ParentID: ch.ParentID,
		Topic:    ch.Topic,
	}, true
}

// internal/app/system/guild/members.go
package guild

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/dstonem/discord-city-channel-bot/internal/domain/models"
)

// Member resolves a guild member by id. Returns ErrNotFound if the id does
// not belong to a current member of the operating guild.
func (s *Service) Member(ctx context.Context, memberID string) (*models.Member, error) {
	m, err := s.session.GuildMember(s.guildID, memberID, discordgo.WithContext(ctx))
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("guild: member %s: %w", memberID, ErrNotFound)
		}
		return nil, fmt.Errorf("guild: fetching member %s: %w", memberID, err)
	}
	member := memberFromAPI(m)
	return &member, nil
}

// AddMemberRole grants a role to a member. The platform treats redundant
// grants as a no-op, so re-running onboarding does not duplicate roles.
func (s *Service) AddMemberRole(ctx context.Context, memberID, roleID string) error {
	err := s.session.GuildMemberRoleAdd(s.guildID, memberID, roleID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("guild: granting role %s to member %s: %w", roleID, memberID, err)
	}
	return nil
}

// GrantMemberChannelAccess writes a per-member permission overwrite allowing
// view, send, and read-history on the channel. The overwrite is fully
// replaced, not merged: any broader custom overwrite the member had on the
// channel is reset to exactly this triple.
func (s *Service) GrantMemberChannelAccess(ctx context.Context, channelID, memberID string) error {
	err := s.session.ChannelPermissionSet(
		channelID,
		memberID,
		discordgo.PermissionOverwriteTypeMember,
		memberAccessAllow,
		0,
		discordgo.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("guild: granting member %s access to channel %s: %w", memberID, channelID, err)
	}
	return nil
}

// internal/app/system/guild/roles.go
package guild

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/bwmarrin/discordgo"

	"github.com/dstonem/discord-city-channel-bot/internal/domain/models"
)

// Roles lists all roles in the guild.
func (s *Service) Roles(ctx context.Context) ([]models.Role, error) {
	roles, err := s.session.GuildRoles(s.guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("guild: listing roles: %w", err)
	}

	out := make([]models.Role, 0, len(roles))
	for _, r := range roles {
		out = append(out, models.Role{ID: r.ID, Name: r.Name})
	}
	return out, nil
}

// CreateRole creates a guild role with the given name and a random color,
// matching how region roles are provisioned.
func (s *Service) CreateRole(ctx context.Context, name string) (*models.Role, error) {
	color := rand.IntN(0x1000000)
	role, err := s.session.GuildRoleCreate(s.guildID, &discordgo.RoleParams{
		Name:  name,
		Color: &color,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("guild: creating role %q: %w", name, err)
	}
	return &models.Role{ID: role.ID, Name: role.Name}, nil
}

// DeleteRole deletes a guild role by id.
func (s *Service) DeleteRole(ctx context.Context, roleID string) error {
	if err := s.session.GuildRoleDelete(s.guildID, roleID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("guild: deleting role %s: %w", roleID, err)
	}
	return nil
}

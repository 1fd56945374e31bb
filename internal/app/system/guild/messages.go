// internal/app/system/guild/messages.go
package guild

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// SendMessage posts a message to a channel.
func (s *Service) SendMessage(ctx context.Context, channelID, content string) error {
	_, err := s.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("guild: sending message to channel %s: %w", channelID, err)
	}
	return nil
}

// DirectMessage opens (or reuses) a DM channel with the member and sends the
// message there. Fails when the member has DMs disabled; callers are expected
// to fall back to a public channel.
func (s *Service) DirectMessage(ctx context.Context, memberID, content string) error {
	dm, err := s.session.UserChannelCreate(memberID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("guild: opening DM channel with %s: %w", memberID, err)
	}
	if _, err := s.session.ChannelMessageSend(dm.ID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("guild: sending DM to %s: %w", memberID, err)
	}
	return nil
}

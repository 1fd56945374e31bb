// Package guild wraps the Discord session behind typed operations on the one
// guild this bot operates. Feature packages declare the narrow interfaces
// they consume; *Service satisfies all of them, and tests substitute fakes.
package guild

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/dstonem/discord-city-channel-bot/internal/domain/models"
)

// Config holds what the service needs to connect.
type Config struct {
	// Token is the bot credential, without the "Bot " prefix.
	Token string
	// GuildID is the operating guild. All operations are scoped to it.
	GuildID string
}

// Service is the platform capability boundary. All remote calls honor the
// caller's context and return errors wrapped with operation detail; callers
// decide whether a failure aborts their workflow.
type Service struct {
	session   *discordgo.Session
	guildID   string
	guildName string
	log       *zap.Logger
}

// New constructs a Service with a configured (but not yet connected) session.
func New(cfg Config, logger *zap.Logger) (*Service, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("guild: bot token is required")
	}
	if cfg.GuildID == "" {
		return nil, fmt.Errorf("guild: guild id is required")
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("guild: creating session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMembers |
		discordgo.IntentGuildMessages |
		discordgo.IntentMessageContent

	return &Service{
		session: session,
		guildID: cfg.GuildID,
		log:     logger,
	}, nil
}

// Open connects the gateway session and resolves the guild name. Event
// callbacks must be registered before Open so no events are missed.
func (s *Service) Open(ctx context.Context) error {
	if err := s.session.Open(); err != nil {
		return fmt.Errorf("guild: opening gateway session: %w", err)
	}

	g, err := s.session.Guild(s.guildID, discordgo.WithContext(ctx))
	if err != nil {
		_ = s.session.Close()
		return fmt.Errorf("guild: resolving guild %s: %w", s.guildID, err)
	}
	s.guildName = g.Name

	s.log.Info("gateway session open",
		zap.String("guild_id", s.guildID),
		zap.String("guild_name", g.Name))
	return nil
}

// Close shuts down the gateway session.
func (s *Service) Close() error {
	if err := s.session.Close(); err != nil {
		return fmt.Errorf("guild: closing gateway session: %w", err)
	}
	return nil
}

// Name returns the guild's display name, resolved at Open.
func (s *Service) Name() string {
	return s.guildName
}

// Connected reports whether the gateway session has completed its handshake.
func (s *Service) Connected() bool {
	return s.session.DataReady
}

// Message is a gateway message event reduced to what command handling needs.
// Messages from bots never reach handlers.
type Message struct {
	AuthorID  string
	ChannelID string
	Content   string
}

// OnMemberJoin registers a callback for membership-join events on the
// operating guild. Events for other guilds are dropped.
func (s *Service) OnMemberJoin(fn func(member models.Member)) {
	s.session.AddHandler(func(_ *discordgo.Session, e *discordgo.GuildMemberAdd) {
		if e.GuildID != s.guildID {
			return
		}
		fn(memberFromAPI(e.Member))
	})
}

// OnMessage registers a callback for message-create events on the operating
// guild. The bot's own messages and other bots are filtered out here so
// command handlers never echo on themselves.
func (s *Service) OnMessage(fn func(msg Message)) {
	s.session.AddHandler(func(_ *discordgo.Session, e *discordgo.MessageCreate) {
		if e.GuildID != s.guildID || e.Author == nil || e.Author.Bot {
			return
		}
		fn(Message{
			AuthorID:  e.Author.ID,
			ChannelID: e.ChannelID,
			Content:   e.Content,
		})
	})
}

// IsAdministrator reports whether the user holds administrator-equivalent
// permissions in the given channel.
func (s *Service) IsAdministrator(userID, channelID string) (bool, error) {
	perms, err := s.session.UserChannelPermissions(userID, channelID)
	if err != nil {
		return false, fmt.Errorf("guild: resolving permissions for %s: %w", userID, err)
	}
	return perms&discordgo.PermissionAdministrator != 0, nil
}

func memberFromAPI(m *discordgo.Member) models.Member {
	member := models.Member{
		Nickname: m.Nick,
		RoleIDs:  m.Roles,
	}
	if m.User != nil {
		member.ID = m.User.ID
		member.Username = m.User.Username
	}
	return member
}

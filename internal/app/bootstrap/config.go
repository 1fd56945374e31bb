// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the bot.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: discord_token, guild_id, etc.
//   - Environment variables: CITYBOT_DISCORD_TOKEN, CITYBOT_GUILD_ID, etc.
//   - Command-line flags: --discord_token, --guild_id, etc.
var appConfigKeys = []config.AppKey{
	{Name: "discord_token", Default: "", Desc: "Discord bot token"},
	{Name: "guild_id", Default: "", Desc: "ID of the guild the bot manages"},

	// Special bindings for the onboarding workflow (blank disables the step)
	{Name: "local_leader_role_id", Default: "", Desc: "Role granted to local pop-up leaders"},
	{Name: "local_leader_channel_id", Default: "", Desc: "Knowledge-share channel for local leaders"},
	{Name: "resources_channel_id", Default: "", Desc: "Resources channel referenced in leader announcements"},

	// Region lookup table
	{Name: "state_config_path", Default: "state-config.json", Desc: "Path to the provisioned-region JSON file"},

	// Onboarding links
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for onboarding links"},

	// Onboarding API rate limiting
	{Name: "rate_limit_requests", Default: 10, Desc: "Onboarding requests allowed per client IP per window"},
	{Name: "rate_limit_window", Default: "1m", Desc: "Rate limit window (e.g., 1m, 30s)"},

	// Audit store (optional)
	{Name: "audit_enabled", Default: false, Desc: "Record onboardings to MongoDB"},
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "citybot", Desc: "MongoDB database name"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, CITYBOT_* for app), and
// command-line flags, merged with precedence flags > env > files >
// defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CITYBOT", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		DiscordToken: appValues.String("discord_token"),
		GuildID:      appValues.String("guild_id"),

		LocalLeaderRoleID:    appValues.String("local_leader_role_id"),
		LocalLeaderChannelID: appValues.String("local_leader_channel_id"),
		ResourcesChannelID:   appValues.String("resources_channel_id"),

		StateConfigPath: appValues.String("state_config_path"),
		BaseURL:         appValues.String("base_url"),

		RateLimitRequests: appValues.Int("rate_limit_requests"),
		RateLimitWindow:   appValues.Duration("rate_limit_window", time.Minute),

		AuditEnabled:  appValues.Bool("audit_enabled"),
		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The bot cannot do anything without platform credentials and a guild,
// so both are required. The MongoDB URI is validated only when the audit
// store is enabled.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if appCfg.DiscordToken == "" {
		return fmt.Errorf("discord_token is required")
	}
	if appCfg.GuildID == "" {
		return fmt.Errorf("guild_id is required")
	}
	if appCfg.RateLimitRequests <= 0 {
		return fmt.Errorf("rate_limit_requests must be positive, got %d", appCfg.RateLimitRequests)
	}

	if appCfg.AuditEnabled {
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
	}

	return nil
}

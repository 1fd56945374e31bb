// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (HTTP ports, TLS,
// logging level, request limits). AppConfig is everything specific to the
// bot: platform credentials, the guild it manages, the special role and
// channel bindings, and the audit store.
type AppConfig struct {
	// Chat platform configuration
	DiscordToken string // Bot token used for both the gateway and REST calls
	GuildID      string // The one guild this bot manages

	// Special bindings used by the onboarding workflow. Blank ids disable
	// the corresponding step.
	LocalLeaderRoleID    string // Role granted to members leading pop-ups
	LocalLeaderChannelID string // Knowledge-share channel for local leaders
	ResourcesChannelID   string // Channel referenced in leader announcements

	// Region lookup table
	StateConfigPath string // Path to the provisioned-region JSON file

	// Base URL for onboarding links sent in welcome DMs
	BaseURL string // e.g., "https://community.example.com" or "http://localhost:3000"

	// Onboarding API rate limiting
	RateLimitRequests int           // Requests allowed per client IP per window
	RateLimitWindow   time.Duration // Window size (e.g., 1m)

	// Audit store configuration (optional)
	AuditEnabled  bool   // Record onboardings to MongoDB
	MongoURI      string // MongoDB connection string
	MongoDatabase string // Database name within MongoDB
}

// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	healthfeature "github.com/dstonem/discord-city-channel-bot/internal/app/features/health"
	onboardingfeature "github.com/dstonem/discord-city-channel-bot/internal/app/features/onboarding"
	"github.com/dstonem/discord-city-channel-bot/internal/app/store/onboardings"
	"github.com/dstonem/discord-city-channel-bot/internal/app/system/ratelimit"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, backend connections, schema setup,
// and any Startup hooks have completed. The bot's HTTP surface is small: the
// onboarding form and API, static assets, and a health endpoint for load
// balancers and orchestrators.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.Guild, deps.Regions, deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Onboarding form and API
	var audit *onboardings.Store
	if deps.MongoDB != nil {
		audit = onboardings.NewStore(deps.MongoDB)
	}
	workflow := onboardingfeature.NewWorkflow(deps.Guild, deps.Regions, onboardingfeature.SpecialBindings{
		LocalLeaderRoleID:    appCfg.LocalLeaderRoleID,
		LocalLeaderChannelID: appCfg.LocalLeaderChannelID,
		ResourcesChannelID:   appCfg.ResourcesChannelID,
	}, logger)
	limiter := ratelimit.New(appCfg.RateLimitRequests, appCfg.RateLimitWindow)
	onboardingHandler := onboardingfeature.NewHandler(deps.Guild, workflow, audit, limiter, logger)
	r.Mount("/", onboardingfeature.Routes(onboardingHandler))

	return r, nil
}

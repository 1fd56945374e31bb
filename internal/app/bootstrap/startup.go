// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/dstonem/discord-city-channel-bot/internal/app/features/greeter"
	"github.com/dstonem/discord-city-channel-bot/internal/app/features/provision"
	"github.com/dstonem/discord-city-channel-bot/internal/app/system/guild"
	"github.com/dstonem/discord-city-channel-bot/internal/app/system/timeouts"
	"github.com/dstonem/discord-city-channel-bot/internal/domain/models"
)

// Startup runs one-time application initialization after backend connections
// and schema setup are complete, but before the HTTP handler is built. The
// bot registers its gateway event handlers here and then opens the gateway
// connection, so member joins and admin commands flow as soon as WAFFLE
// starts serving.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	greet := greeter.New(deps.Guild, appCfg.BaseURL, logger)
	deps.Guild.OnMemberJoin(func(member models.Member) {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeouts.Long())
			defer cancel()
			greet.Greet(ctx, member)
		}()
	})

	commands := provision.NewCommands(
		deps.Guild,
		provision.NewBuilder(deps.Guild, logger),
		provision.NewTeardown(deps.Guild, logger),
		provision.USStates,
		deps.Regions,
		appCfg.StateConfigPath,
		logger,
	)
	deps.Guild.OnMessage(func(msg guild.Message) {
		go func() {
			// Provisioning all regions takes minutes; give commands the
			// batch budget.
			ctx, cancel := context.WithTimeout(context.Background(), timeouts.Batch())
			defer cancel()
			commands.HandleMessage(ctx, msg)
		}()
	})

	if err := deps.Guild.Open(ctx); err != nil {
		return err
	}
	logger.Info("gateway connected", zap.String("guild", deps.Guild.Name()))
	return nil
}

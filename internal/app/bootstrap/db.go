// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/dstonem/discord-city-channel-bot/internal/app/store/onboardings"
	"github.com/dstonem/discord-city-channel-bot/internal/app/store/stateconfig"
	"github.com/dstonem/discord-city-channel-bot/internal/app/system/guild"
)

// ConnectDB establishes the app's backend connections: the chat-platform
// session (constructed here, opened in Startup), the optional MongoDB audit
// store, and the region lookup table from disk.
//
// A missing region config file is not fatal: the bot starts with an empty
// table and an admin runs the provisioning command to populate it. A file
// with a wrong schema version aborts startup.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	var deps DBDeps

	g, err := guild.New(guild.Config{
		Token:   appCfg.DiscordToken,
		GuildID: appCfg.GuildID,
	}, logger)
	if err != nil {
		return deps, fmt.Errorf("constructing guild session: %w", err)
	}
	deps.Guild = g

	regions, err := stateconfig.Load(appCfg.StateConfigPath)
	switch {
	case err == nil:
		logger.Info("loaded region config",
			zap.String("path", appCfg.StateConfigPath),
			zap.Int("regions", regions.Len()))
	case errors.Is(err, os.ErrNotExist):
		logger.Warn("region config not found, starting with an empty table",
			zap.String("path", appCfg.StateConfigPath))
		regions = stateconfig.New()
	default:
		return deps, fmt.Errorf("loading region config: %w", err)
	}
	deps.Regions = regions

	if appCfg.AuditEnabled {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(appCfg.MongoURI))
		if err != nil {
			return deps, fmt.Errorf("connecting to MongoDB: %w", err)
		}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			return deps, fmt.Errorf("pinging MongoDB: %w", err)
		}
		deps.MongoClient = client
		deps.MongoDB = client.Database(appCfg.MongoDatabase)
		logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))
	} else {
		logger.Info("audit store disabled, skipping MongoDB")
	}

	return deps, nil
}

// EnsureSchema sets up indexes or schema as needed.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.MongoDB == nil {
		return nil
	}
	if err := onboardings.NewStore(deps.MongoDB).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensuring onboarding indexes: %w", err)
	}
	return nil
}

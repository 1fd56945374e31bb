// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dstonem/discord-city-channel-bot/internal/app/store/stateconfig"
	"github.com/dstonem/discord-city-channel-bot/internal/app/system/guild"
)

// DBDeps holds database/back-end dependencies for the app.
// Extend this struct as the app evolves.
type DBDeps struct {
	// MongoClient and MongoDB are nil when the audit store is disabled.
	MongoClient *mongo.Client
	MongoDB     *mongo.Database

	// Guild is the chat-platform connection. Constructed in ConnectDB,
	// opened in Startup.
	Guild *guild.Service

	// Regions is the live region lookup table, loaded from the state
	// config file and updated in place by provisioning runs.
	Regions *stateconfig.Table
}

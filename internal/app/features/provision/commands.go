// internal/app/features/provision/commands.go
package provision

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dstonem/discord-city-channel-bot/internal/app/store/stateconfig"
	"github.com/dstonem/discord-city-channel-bot/internal/app/system/guild"
)

// Admin chat commands.
const (
	cmdCreateAll     = "!createallstates"
	cmdDeleteAll     = "!deleteallstates"
	cmdConfirmDelete = "!confirmdelete"
)

// Commands dispatches the admin provisioning commands arriving over the
// gateway. Both commands require administrator permissions; teardown
// additionally requires a confirmation message within ConfirmWindow.
type Commands struct {
	guild      Guild
	builder    *Builder
	teardown   *Teardown
	confirm    *confirmKeeper
	regions    []string
	table      *stateconfig.Table
	configPath string
	log        *zap.Logger
}

// NewCommands wires the command dispatcher. table is the live lookup table
// used by onboarding; a successful provisioning run updates it in place and
// persists it to configPath.
func NewCommands(g Guild, builder *Builder, teardown *Teardown, regions []string, table *stateconfig.Table, configPath string, logger *zap.Logger) *Commands {
	c := &Commands{
		guild:      g,
		builder:    builder,
		teardown:   teardown,
		regions:    regions,
		table:      table,
		configPath: configPath,
		log:        logger,
	}
	c.confirm = newConfirmKeeper(ConfirmWindow, c.confirmExpired)
	return c
}

// HandleMessage routes one gateway message. Non-command messages are ignored.
// Long-running work (provisioning, teardown) runs inline; callers invoke this
// from a goroutine per message.
func (c *Commands) HandleMessage(ctx context.Context, msg guild.Message) {
	switch msg.Content {
	case cmdCreateAll:
		c.handleCreateAll(ctx, msg)
	case cmdDeleteAll:
		c.handleDeleteAll(ctx, msg)
	case cmdConfirmDelete:
		c.handleConfirmDelete(ctx, msg)
	}
}

func (c *Commands) handleCreateAll(ctx context.Context, msg guild.Message) {
	if !c.requireAdmin(ctx, msg) {
		return
	}

	c.reply(ctx, msg, fmt.Sprintf("🚀 Starting creation of all %d state infrastructures... This will take a few minutes.", len(c.regions)))

	table, err := c.builder.BuildAll(ctx, c.regions)
	if err != nil {
		c.log.Error("provisioning run aborted", zap.Error(err))
		c.reply(ctx, msg, "❌ There was an error creating the state infrastructure. Check the logs for details.")
		return
	}

	for _, slug := range table.Slugs() {
		cfg, _ := table.Lookup(slug)
		c.table.Put(cfg)
	}

	if err := c.table.Save(c.configPath); err != nil {
		c.log.Error("saving region config failed",
			zap.String("path", c.configPath), zap.Error(err))
		c.reply(ctx, msg, fmt.Sprintf("⚠️ Created %d states but saving the configuration failed. Check the logs.", table.Len()))
		return
	}

	if out, err := c.table.MarshalIndent(); err == nil {
		c.log.Info("region config written",
			zap.String("path", c.configPath),
			zap.ByteString("config", out))
	}

	c.reply(ctx, msg, fmt.Sprintf("✅ Successfully created infrastructure for all %d states!", table.Len()))
}

func (c *Commands) handleDeleteAll(ctx context.Context, msg guild.Message) {
	if !c.requireAdmin(ctx, msg) {
		return
	}

	c.confirm.Arm(msg.AuthorID, msg.ChannelID)
	c.reply(ctx, msg, "⚠️ **WARNING**: This will delete ALL state categories, channels, and roles. Type `!confirmdelete` within 30 seconds to proceed.")
}

func (c *Commands) handleConfirmDelete(ctx context.Context, msg guild.Message) {
	if !c.confirm.Confirm(msg.AuthorID, msg.ChannelID) {
		return
	}

	c.reply(ctx, msg, "🗑️ Deleting all state infrastructure...")

	report, err := c.teardown.DeleteAll(ctx)
	if err != nil {
		c.log.Error("teardown run failed", zap.Error(err))
		c.reply(ctx, msg, "❌ There was an error deleting the infrastructure.")
		return
	}
	if report.Failures > 0 {
		c.reply(ctx, msg, fmt.Sprintf("⚠️ Teardown finished with %d failures. Check the logs.", report.Failures))
		return
	}

	c.reply(ctx, msg, "✅ All state infrastructure has been deleted.")
}

func (c *Commands) confirmExpired(_, channelID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := c.guild.SendMessage(ctx, channelID, "⏱️ Deletion cancelled - no confirmation received."); err != nil {
		c.log.Warn("sending cancellation notice failed", zap.Error(err))
	}
}

func (c *Commands) requireAdmin(ctx context.Context, msg guild.Message) bool {
	ok, err := c.guild.IsAdministrator(msg.AuthorID, msg.ChannelID)
	if err != nil {
		c.log.Error("administrator check failed",
			zap.String("user_id", msg.AuthorID), zap.Error(err))
		return false
	}
	if !ok {
		c.reply(ctx, msg, "❌ You need Administrator permissions to use this command.")
		return false
	}
	return true
}

func (c *Commands) reply(ctx context.Context, msg guild.Message, content string) {
	if err := c.guild.SendMessage(ctx, msg.ChannelID, content); err != nil {
		c.log.Warn("sending command reply failed",
			zap.String("channel_id", msg.ChannelID), zap.Error(err))
	}
}

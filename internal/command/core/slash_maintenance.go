package core

import (
	"fmt"
	"strings"

	"voice-domme/internal/bot"
	"voice-domme/internal/command"
	"voice-domme/internal/storage"

	"github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize"
)

type MaintenanceCommand struct{}

func (c *MaintenanceCommand) Name() string        { return "maintenance" }
func (c *MaintenanceCommand) Description() string { return "Bot maintenance commands" }
func (c *MaintenanceCommand) Group() string       { return "core" }
func (c *MaintenanceCommand) Category() string    { return "🛠️ Maintenance" }
func (c *MaintenanceCommand) UserPermissions() []int64 {
	return []int64{discordgo.PermissionAdministrator}
}

func (c *MaintenanceCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "ping",
				Description: "Check bot latency",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "history",
				Description: "Show the most recent commands used in this server",
			},
		},
	}
}

func (c *MaintenanceCommand) Run(ctx interface{}) error {
	context, ok := ctx.(*command.SlashInteractionContext)
	if !ok {
		return nil
	}

	s, e := context.Session, context.Event
	options := e.ApplicationCommandData().Options
	if len(options) == 0 {
		return bot.RespondEmbedEphemeral(s, e, &discordgo.MessageEmbed{
			Description: "No subcommand provided.",
		})
	}

	switch options[0].Name {
	case "ping":
		return bot.RespondEmbedEphemeral(s, e, &discordgo.MessageEmbed{
			Title:       "Pong! 🏓",
			Description: fmt.Sprintf("Latency: %dms", s.HeartbeatLatency().Milliseconds()),
			Color:       bot.EmbedColor,
		})
	case "history":
		if context.Storage == nil {
			return bot.RespondEmbedEphemeral(s, e, bot.WarningEmbed("Storage is not available."))
		}
		records, err := context.Storage.FetchCommandHistory(e.GuildID)
		if err != nil {
			return fmt.Errorf("failed to fetch command history: %w", err)
		}
		return bot.RespondEmbedEphemeral(s, e, &discordgo.MessageEmbed{
			Title:       "📜 Command History",
			Description: formatHistory(records),
			Color:       bot.EmbedColor,
		})
	default:
		return bot.RespondEmbedEphemeral(s, e, &discordgo.MessageEmbed{
			Description: fmt.Sprintf("Unknown subcommand: %s", options[0].Name),
		})
	}
}

// formatHistory lists records newest first.
func formatHistory(records []storage.CommandHistoryRecord) string {
	if len(records) == 0 {
		return "No commands have been used yet."
	}

	var sb strings.Builder
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		fmt.Fprintf(&sb, "`/%s` by **%s** in #%s, %s\n", r.Command, r.Username, r.ChannelName, humanize.Time(r.Datetime))
	}
	return sb.String()
}

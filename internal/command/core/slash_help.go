package core

import (
	"fmt"
	"sort"
	"strings"

	"voice-domme/internal/bot"
	"voice-domme/internal/command"
	"voice-domme/internal/config"
	"voice-domme/internal/version"
	"voice-domme/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

type HelpCommand struct{}

func (c *HelpCommand) Name() string             { return "help" }
func (c *HelpCommand) Description() string      { return "Get a list of available commands" }
func (c *HelpCommand) Group() string            { return "core" }
func (c *HelpCommand) Category() string         { return "🕯️ Information" }
func (c *HelpCommand) UserPermissions() []int64 { return []int64{} }

func (c *HelpCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "category",
				Description: "View commands grouped by category",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "flat",
				Description: "View all commands as a flat list",
			},
		},
	}
}

func (c *HelpCommand) Run(ctx interface{}) error {
	context, ok := ctx.(*command.SlashInteractionContext)
	if !ok {
		return nil
	}

	s, e := context.Session, context.Event
	if err := bot.RespondDeferredEphemeral(s, e); err != nil {
		return fmt.Errorf("failed to defer help interaction: %w", err)
	}

	var output string
	data := e.ApplicationCommandData()
	if len(data.Options) > 0 && data.Options[0].Name == "flat" {
		output = buildHelpFlat(command.AllCommands())
	} else {
		output = buildHelpByCategory(command.AllCommands())
	}

	return bot.FollowupEmbedEphemeral(s, e, &discordgo.MessageEmbed{
		Title:       version.AppName + " Help",
		Description: output,
		Color:       bot.EmbedColor,
	})
}

func buildHelpByCategory(all []cmd.Command) string {
	byCategory := make(map[string][]cmd.Command)
	for _, c := range all {
		cat := "Other"
		if meta, ok := command.Meta(c); ok {
			cat = meta.Category()
		}
		byCategory[cat] = append(byCategory[cat], c)
	}

	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, cat)
	}
	sort.Slice(categories, func(i, j int) bool {
		wi, wj := categoryWeight(categories[i]), categoryWeight(categories[j])
		if wi != wj {
			return wi < wj
		}
		return categories[i] < categories[j]
	})

	var sb strings.Builder
	for _, cat := range categories {
		fmt.Fprintf(&sb, "**%s**\n", cat)
		cmds := byCategory[cat]
		sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name() < cmds[j].Name() })
		for _, c := range cmds {
			fmt.Fprintf(&sb, "`/%s` - %s\n", c.Name(), c.Description())
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func buildHelpFlat(all []cmd.Command) string {
	sorted := append([]cmd.Command(nil), all...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name() < sorted[j].Name() })

	var sb strings.Builder
	for _, c := range sorted {
		fmt.Fprintf(&sb, "`/%s` - %s\n", c.Name(), c.Description())
	}
	return sb.String()
}

// categoryWeight sorts unknown categories last.
func categoryWeight(cat string) int {
	if w, ok := config.CategoryWeights[cat]; ok {
		return w
	}
	return 1000
}

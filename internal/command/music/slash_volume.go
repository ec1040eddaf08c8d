package music

import (
	"fmt"
	"strconv"

	"voice-domme/internal/bot"
	"voice-domme/internal/command"
	"voice-domme/internal/logging"
	"voice-domme/internal/music/volume"

	"github.com/bwmarrin/discordgo"
)

type VolumeCommand struct {
	Bot bot.BotVoice
}

func (c *VolumeCommand) Name() string             { return "volume" }
func (c *VolumeCommand) Description() string      { return "Show or change the playback volume for tracks" }
func (c *VolumeCommand) Group() string            { return "music" }
func (c *VolumeCommand) Category() string         { return "🎵 Music" }
func (c *VolumeCommand) UserPermissions() []int64 { return []int64{} }

func (c *VolumeCommand) SlashDefinition() *discordgo.ApplicationCommand {
	minVolume := float64(volume.Min)
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionNumber,
				Name:        "percentage",
				Description: "Volume percentage: From 0% to 100%.",
				MinValue:    &minVolume,
				MaxValue:    volume.Max,
			},
		},
	}
}

func (c *VolumeCommand) Run(ctx interface{}) error {
	context, ok := ctx.(*command.SlashInteractionContext)
	if !ok {
		return nil
	}

	s, e := context.Session, context.Event
	logger := logging.For("command", c.Name(), context.ExecutionID)

	if err := bot.RespondDeferred(s, e); err != nil {
		return fmt.Errorf("failed to defer response: %w", err)
	}

	queue, ok := c.Bot.Player(e.GuildID)
	if !ok {
		logger.Debug().Msg("No player for guild, nothing to change.")
		return bot.EditEmbed(s, e, bot.WarningEmbed("There is no active queue in this server."))
	}

	req := requestFromOptions(e.ApplicationCommandData().Options)
	outcome, err := volume.Resolve(req, queue)
	if err != nil {
		logger.Error().Err(err).Stringer("request", req).Msg("Failed to set volume.")
		return err
	}

	switch outcome.Kind {
	case volume.ShowCurrent:
		logger.Debug().Msg("No volume input was provided, showing current volume.")
	case volume.Rejected:
		logger.Debug().Msg("Volume specified was higher than 100% or lower than 0%.")
	default:
		logger.Debug().Msgf("Set volume to %s%%.", formatPercent(outcome.Volume))
	}

	name, icon := bot.Author(e)
	return bot.EditEmbed(s, e, renderOutcome(outcome, name, icon))
}

// requestFromOptions reads the optional percentage. A missing option is an
// absent request; an explicit 0 is a request to mute.
func requestFromOptions(opts []*discordgo.ApplicationCommandInteractionDataOption) volume.Request {
	for _, opt := range opts {
		if opt.Name != "percentage" {
			continue
		}
		switch opt.Type {
		case discordgo.ApplicationCommandOptionInteger:
			return volume.Percent(float64(opt.IntValue()))
		default:
			return volume.Percent(opt.FloatValue())
		}
	}
	return volume.None()
}

// renderOutcome builds the response embed for a resolution outcome.
func renderOutcome(out volume.Outcome, authorName, authorIcon string) *discordgo.MessageEmbed {
	v := formatPercent(out.Volume)

	switch out.Kind {
	case volume.ShowCurrent:
		icon := bot.IconVolume
		if out.Volume == 0 {
			icon = bot.IconVolumeIsMuted
		}
		return &discordgo.MessageEmbed{
			Description: fmt.Sprintf("**%s Playback volume**\nThe playback volume is currently set to **`%s%%`**.", icon, v),
			Color:       bot.ColorInfo,
		}

	case volume.Rejected:
		return bot.WarningEmbed(fmt.Sprintf(
			"You cannot set the volume to **`%s%%`**, please pick a value between **`%d%%`** and **`%d%%`**.",
			v, volume.Min, volume.Max,
		))

	case volume.Muted:
		return &discordgo.MessageEmbed{
			Author:      embedAuthor(authorName, authorIcon),
			Description: fmt.Sprintf("**%s Audio muted**\nPlayback audio has been muted, because volume was set to **`%s%%`**.", bot.IconVolumeMuted, v),
			Color:       bot.ColorSuccess,
		}

	default:
		return &discordgo.MessageEmbed{
			Author:      embedAuthor(authorName, authorIcon),
			Description: fmt.Sprintf("**%s Volume changed**\nPlayback volume has been changed to **`%s%%`**.", bot.IconVolumeChanged, v),
			Color:       bot.ColorSuccess,
		}
	}
}

func embedAuthor(name, icon string) *discordgo.MessageEmbedAuthor {
	return &discordgo.MessageEmbedAuthor{Name: name, IconURL: icon}
}

// formatPercent prints whole numbers without a fraction ("80", "12.5").
func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

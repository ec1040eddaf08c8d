package music

import (
	"errors"
	"fmt"
	"strings"

	"voice-domme/internal/bot"
	"voice-domme/internal/command"
	"voice-domme/internal/logging"
	"voice-domme/internal/middleware"
	"voice-domme/internal/music/player"
	"voice-domme/internal/music/stream"

	"github.com/bwmarrin/discordgo"
)

const queuePreviewLimit = 10

type MusicCommand struct {
	Bot bot.BotVoice
}

func (c *MusicCommand) Name() string             { return "music" }
func (c *MusicCommand) Description() string      { return "Control music playback" }
func (c *MusicCommand) Group() string            { return "music" }
func (c *MusicCommand) Category() string         { return "🎵 Music" }
func (c *MusicCommand) UserPermissions() []int64 { return []int64{} }

func (c *MusicCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "play",
				Description: "Play a music track",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "input",
						Description: "Link or search query",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "parser",
						Description: "Override autodetect parser",
						Choices: []*discordgo.ApplicationCommandOptionChoice{
							{Name: "ytdlp link", Value: stream.ParserYTDLP},
							{Name: "ffmpeg direct link", Value: stream.ParserFFmpeg},
						},
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "next",
				Description: "Skip to the next track",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "stop",
				Description: "Stop playback and clear queue",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "queue",
				Description: "Show the current track and what plays next",
			},
		},
	}
}

func (c *MusicCommand) Run(ctx interface{}) error {
	context, ok := ctx.(*command.SlashInteractionContext)
	if !ok {
		return nil
	}

	s, e := context.Session, context.Event
	data := e.ApplicationCommandData()
	if len(data.Options) == 0 {
		return bot.RespondEmbedEphemeral(s, e, &discordgo.MessageEmbed{
			Description: "Missing subcommand.",
		})
	}

	sub := data.Options[0]
	switch sub.Name {
	case "play":
		var input, parser string
		for _, opt := range sub.Options {
			switch opt.Name {
			case "input":
				input = opt.StringValue()
			case "parser":
				parser = opt.StringValue()
			}
		}
		return c.runPlay(context, input, parser)
	case "next":
		return c.runNext(context)
	case "stop":
		return c.runStop(context)
	case "queue":
		return c.runQueue(context)
	default:
		return bot.RespondEmbedEphemeral(s, e, &discordgo.MessageEmbed{
			Description: fmt.Sprintf("Unknown subcommand: %s", sub.Name),
		})
	}
}

func (c *MusicCommand) runPlay(ctx *command.SlashInteractionContext, input, parser string) error {
	s, e := ctx.Session, ctx.Event
	logger := logging.For("command", "music play", ctx.ExecutionID)

	if strings.TrimSpace(input) == "" {
		return bot.RespondEmbedEphemeral(s, e, bot.WarningEmbed("Input is required."))
	}
	if err := bot.RespondDeferred(s, e); err != nil {
		return fmt.Errorf("failed to send deferred response: %w", err)
	}

	voiceState, err := c.Bot.FindUserVoiceState(e.GuildID, e.Member.User.ID)
	if err != nil {
		return bot.EditEmbed(s, e, bot.WarningEmbed(fmt.Sprintf("%v", err)))
	}

	p := c.Bot.GetOrCreatePlayer(e.GuildID)
	track := stream.NewTrack(input, parser)
	p.Enqueue(track)
	logger.Debug().Str("track", track.URL).Str("parser", track.Parser).Msg("Track enqueued.")

	if p.IsPlaying() {
		return bot.EditEmbed(s, e, &discordgo.MessageEmbed{
			Title:       player.StatusAdded.StringEmoji() + " Track(s) Added",
			Description: "Added to queue: " + track.DisplayName(),
			Color:       bot.EmbedColor,
		})
	}

	if err := p.PlayNext(voiceState.ChannelID); err != nil {
		logger.Error().Err(err).Msg("Failed to start playback.")
		return bot.EditEmbed(s, e, bot.WarningEmbed(fmt.Sprintf("Failed to play track.\n\n**Error:** %v", err)))
	}
	return bot.EditEmbed(s, e, nowPlayingEmbed(p))
}

func (c *MusicCommand) runNext(ctx *command.SlashInteractionContext) error {
	s, e := ctx.Session, ctx.Event

	p, ok := c.activePlayer(ctx)
	if !ok {
		return nil
	}
	if len(p.Queue()) == 0 {
		return bot.RespondEmbedEphemeral(s, e, bot.WarningEmbed("No tracks left to skip."))
	}

	if err := bot.RespondDeferred(s, e); err != nil {
		return fmt.Errorf("failed to defer response: %w", err)
	}
	if err := p.Skip(); err != nil {
		return bot.EditEmbed(s, e, bot.WarningEmbed(fmt.Sprintf("Failed to play next track.\n\n**Error:** %v", err)))
	}
	return bot.EditEmbed(s, e, nowPlayingEmbed(p))
}

func (c *MusicCommand) runStop(ctx *command.SlashInteractionContext) error {
	s, e := ctx.Session, ctx.Event

	p, ok := c.activePlayer(ctx)
	if !ok {
		return nil
	}
	if err := p.Stop(true); err != nil && !errors.Is(err, player.ErrNoTrackPlaying) {
		return err
	}
	return bot.RespondEmbed(s, e, &discordgo.MessageEmbed{
		Description: "⏹️ Playback stopped. Queue cleared.",
		Color:       bot.EmbedColor,
	})
}

func (c *MusicCommand) runQueue(ctx *command.SlashInteractionContext) error {
	p, ok := c.activePlayer(ctx)
	if !ok {
		return nil
	}
	return bot.RespondEmbedEphemeral(ctx.Session, ctx.Event, queueEmbed(p))
}

// activePlayer answers the interaction itself when the guild has no queue.
func (c *MusicCommand) activePlayer(ctx *command.SlashInteractionContext) (*player.Player, bool) {
	if msg, err := middleware.CheckQueueExists(c.Bot, ctx.Event); err != nil {
		_ = bot.RespondEmbedEphemeral(ctx.Session, ctx.Event, bot.WarningEmbed(msg))
		return nil, false
	}
	return c.Bot.Player(ctx.Event.GuildID)
}

func nowPlayingEmbed(p *player.Player) *discordgo.MessageEmbed {
	track, err := p.CurrentTrack()
	if err != nil {
		return bot.WarningEmbed("Failed to get current track")
	}

	desc := "🎶 " + track.DisplayName()
	if track.Title != "" && track.URL != "" {
		desc = fmt.Sprintf("🎶 [%s](%s)", track.Title, track.URL)
	}
	return &discordgo.MessageEmbed{
		Title:       player.StatusPlaying.StringEmoji() + " Now Playing",
		Description: desc,
		Color:       bot.EmbedColor,
	}
}

func queueEmbed(p *player.Player) *discordgo.MessageEmbed {
	var sb strings.Builder
	if track, err := p.CurrentTrack(); err == nil {
		fmt.Fprintf(&sb, "**Now playing:** %s\n", track.DisplayName())
	}

	queued := p.Queue()
	for i, t := range queued {
		if i == queuePreviewLimit {
			fmt.Fprintf(&sb, "…and %d more\n", len(queued)-queuePreviewLimit)
			break
		}
		fmt.Fprintf(&sb, "`%d.` %s\n", i+1, t.DisplayName())
	}
	fmt.Fprintf(&sb, "\n%s Volume: **`%s%%`**", bot.IconVolume, formatPercent(p.Volume()))

	return &discordgo.MessageEmbed{
		Title:       "🎵 Queue",
		Description: sb.String(),
		Color:       bot.EmbedColor,
	}
}

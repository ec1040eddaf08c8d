package middleware

import (
	"context"
	"errors"
	"fmt"

	"voice-domme/internal/bot"
	"voice-domme/internal/command"
	"voice-domme/internal/logging"
	"voice-domme/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

var (
	ErrNotInVoice         = errors.New("user is not in a voice channel")
	ErrDifferentVoice     = errors.New("user is not in the bot's voice channel")
	ErrNoActiveQueue      = errors.New("no active queue")
	errNoInteractionCheck = errors.New("voice checks need a slash interaction")
)

// VoiceCheck tests one voice precondition for an interaction. It returns a
// user-facing message together with the error when the check fails.
type VoiceCheck func(lookup bot.VoiceLookup, e *discordgo.InteractionCreate) (string, error)

// CheckInVoiceChannel fails when the caller is not connected to voice.
func CheckInVoiceChannel(lookup bot.VoiceLookup, e *discordgo.InteractionCreate) (string, error) {
	userID := interactionUserID(e)
	vs, err := lookup.FindUserVoiceState(e.GuildID, userID)
	if err != nil || vs == nil || vs.ChannelID == "" {
		return "You need to be in a voice channel to perform this action.", ErrNotInVoice
	}
	return "", nil
}

// CheckSameVoiceChannel fails when the bot is connected to a voice channel
// other than the caller's.
func CheckSameVoiceChannel(lookup bot.VoiceLookup, e *discordgo.InteractionCreate) (string, error) {
	botState, err := lookup.FindBotVoiceState(e.GuildID)
	if err != nil || botState == nil || botState.ChannelID == "" {
		return "", nil
	}

	userState, err := lookup.FindUserVoiceState(e.GuildID, interactionUserID(e))
	if err != nil || userState == nil || userState.ChannelID != botState.ChannelID {
		return fmt.Sprintf(
			"I am already playing in a different voice channel!\nJoin <#%s> to perform this action.",
			botState.ChannelID,
		), ErrDifferentVoice
	}
	return "", nil
}

// CheckQueueExists fails when nothing is playing or queued in the guild.
func CheckQueueExists(lookup bot.VoiceLookup, e *discordgo.InteractionCreate) (string, error) {
	if !lookup.HasActiveQueue(e.GuildID) {
		return "There are no tracks in the queue and nothing currently playing.\nFirst add some tracks with **`/music play`**!", ErrNoActiveQueue
	}
	return "", nil
}

// WithVoiceCheck runs check before the command. On failure the caller gets an
// ephemeral warning and the command is not run.
func WithVoiceCheck(lookup bot.VoiceLookup, check VoiceCheck) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			v, ok := inv.Data.(*command.SlashInteractionContext)
			if !ok {
				return errNoInteractionCheck
			}

			msg, err := check(lookup, v.Event)
			if err == nil {
				return c.Run(ctx, inv)
			}

			logger := logging.For("middleware", c.Name(), inv.ExecutionID)
			logger.Debug().Err(err).Str("guild_id", v.Event.GuildID).Msg("voice precondition failed")

			if rerr := bot.RespondOrFollowup(v.Session, v.Event, bot.WarningEmbed(msg)); rerr != nil {
				logger.Warn().Err(rerr).Msg("failed to report voice precondition")
			}
			return cmd.Halt()
		})
	}
}

func WithInVoiceChannel(lookup bot.VoiceLookup) cmd.Middleware {
	return WithVoiceCheck(lookup, CheckInVoiceChannel)
}

func WithSameVoiceChannel(lookup bot.VoiceLookup) cmd.Middleware {
	return WithVoiceCheck(lookup, CheckSameVoiceChannel)
}

func WithActiveQueue(lookup bot.VoiceLookup) cmd.Middleware {
	return WithVoiceCheck(lookup, CheckQueueExists)
}

func interactionUserID(e *discordgo.InteractionCreate) string {
	return resolveUser(e).ID
}

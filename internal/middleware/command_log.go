package middleware

import (
	"context"
	"time"

	"voice-domme/internal/command"
	"voice-domme/internal/logging"
	"voice-domme/internal/storage"
	"voice-domme/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// WithCommandLogger logs every execution and appends it to the guild's
// command history.
func WithCommandLogger() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			started := time.Now()
			err := c.Run(ctx, inv)

			var (
				s     *discordgo.Session
				e     *discordgo.InteractionCreate
				store *storage.Storage
			)
			switch v := inv.Data.(type) {
			case *command.SlashInteractionContext:
				s, e, store = v.Session, v.Event, v.Storage
			default:
				return err
			}

			user := resolveUser(e)
			logger := logging.For("middleware", c.Name(), inv.ExecutionID)
			var event *zerolog.Event
			if err != nil && !cmd.IsHalt(err) {
				event = logger.Error().Err(err)
			} else {
				event = logger.Info()
			}
			event.Str("guild_id", e.GuildID).
				Str("user_id", user.ID).
				Bool("halted", cmd.IsHalt(err)).
				Dur("took", time.Since(started)).
				Msg("command executed")

			if store != nil {
				rec := storage.CommandHistoryRecord{
					ChannelID:   e.ChannelID,
					ChannelName: channelName(s, e.ChannelID),
					GuildName:   guildName(s, e.GuildID),
					UserID:      user.ID,
					Username:    user.Username,
					Command:     c.Name(),
					ExecutionID: inv.ExecutionID,
					Datetime:    time.Now(),
				}
				if lerr := store.AppendCommandToHistory(e.GuildID, rec); lerr != nil {
					logger.Warn().Err(lerr).Msg("failed to record command history")
				}
			}
			return err
		})
	}
}

// resolveUser returns the user behind an interaction, or a placeholder.
func resolveUser(e *discordgo.InteractionCreate) *discordgo.User {
	if e.Member != nil && e.Member.User != nil {
		return e.Member.User
	}
	if e.User != nil {
		return e.User
	}
	return &discordgo.User{ID: "unknown", Username: "Unknown"}
}

func channelName(s *discordgo.Session, channelID string) string {
	if s == nil || s.State == nil {
		return ""
	}
	if ch, err := s.State.Channel(channelID); err == nil {
		return ch.Name
	}
	return ""
}

func guildName(s *discordgo.Session, guildID string) string {
	if s == nil || s.State == nil {
		return ""
	}
	if g, err := s.State.Guild(guildID); err == nil {
		return g.Name
	}
	return ""
}

package discord

import (
	"fmt"

	"voice-domme/internal/bot"
	"voice-domme/internal/command"
	"voice-domme/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		name := i.ApplicationCommandData().Name
		c, ok := command.GetCommand(name)
		if !ok {
			b.log.Warn().Str("command", name).Msg("Unknown command")
			return
		}

		execID := uuid.NewString()
		err := command.Execute(b.ctx, c, &command.SlashInteractionContext{
			Session:     s,
			Event:       i,
			Storage:     b.storage,
			ExecutionID: execID,
		})
		b.reportError(s, i, name, execID, err)

	default:
		b.log.Debug().Int("type", int(i.Type)).Msg("Unknown interaction type")
	}
}

// reportError logs a failed command and tells the user. Halted commands have
// already answered.
func (b *Bot) reportError(s *discordgo.Session, i *discordgo.InteractionCreate, name, execID string, err error) {
	if err == nil || cmd.IsHalt(err) {
		return
	}

	b.log.Error().Err(err).Str("command", name).Str("execution_id", execID).Msg("Error running command")
	embed := &discordgo.MessageEmbed{
		Description: fmt.Sprintf("**%s Something went wrong**\n%v", bot.IconError, err),
		Color:       bot.ColorError,
	}
	if rerr := bot.RespondOrFollowup(s, i, embed); rerr != nil {
		b.log.Warn().Err(rerr).Str("execution_id", execID).Msg("Failed to report command error")
	}
}

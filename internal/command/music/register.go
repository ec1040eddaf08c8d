package music

import (
	"voice-domme/internal/bot"
	"voice-domme/internal/command"
	"voice-domme/internal/middleware"
)

// Register adds the music commands to the default registry.
func Register(b bot.BotVoice, developerID string) {
	command.RegisterCommand(
		&MusicCommand{Bot: b},
		middleware.WithGuildOnly(),
		middleware.WithUserPermissionCheck(developerID),
		middleware.WithInVoiceChannel(b),
		middleware.WithSameVoiceChannel(b),
		middleware.WithCommandLogger(),
	)
	command.RegisterCommand(
		&VolumeCommand{Bot: b},
		middleware.WithGuildOnly(),
		middleware.WithUserPermissionCheck(developerID),
		middleware.WithInVoiceChannel(b),
		middleware.WithSameVoiceChannel(b),
		middleware.WithActiveQueue(b),
		middleware.WithCommandLogger(),
	)
}

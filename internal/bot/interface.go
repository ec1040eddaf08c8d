package bot

import "voice-domme/internal/music/player"

// VoiceState holds minimal voice channel state for a user.
type VoiceState struct {
	ChannelID string
	UserID    string
}

// VoiceLookup answers the voice preconditions checked before music commands.
type VoiceLookup interface {
	FindUserVoiceState(guildID, userID string) (*VoiceState, error)
	FindBotVoiceState(guildID string) (*VoiceState, error)
	HasActiveQueue(guildID string) bool
}

// BotVoice is what music commands need from the running bot.
type BotVoice interface {
	VoiceLookup
	GetOrCreatePlayer(guildID string) *player.Player
	Player(guildID string) (*player.Player, bool)
}

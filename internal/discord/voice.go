package discord

import (
	"errors"
	"fmt"

	"voice-domme/internal/bot"
	"voice-domme/internal/music/player"

	"github.com/bwmarrin/discordgo"
)

var _ bot.BotVoice = (*Bot)(nil)

// FindUserVoiceState finds the voice state of a user
func (b *Bot) FindUserVoiceState(guildID, userID string) (*bot.VoiceState, error) {
	return voiceStateOf(b.dg.State, guildID, userID)
}

// FindBotVoiceState returns the bot's own voice state in the guild.
func (b *Bot) FindBotVoiceState(guildID string) (*bot.VoiceState, error) {
	if b.dg.State.User == nil {
		return nil, errors.New("session is not ready")
	}
	return voiceStateOf(b.dg.State, guildID, b.dg.State.User.ID)
}

func voiceStateOf(state *discordgo.State, guildID, userID string) (*bot.VoiceState, error) {
	vs, err := state.VoiceState(guildID, userID)
	if err != nil {
		if errors.Is(err, discordgo.ErrStateNotFound) {
			return nil, fmt.Errorf("user not in any voice channel")
		}
		return nil, fmt.Errorf("error retrieving voice state: %w", err)
	}
	if vs.ChannelID == "" {
		return nil, fmt.Errorf("user not in any voice channel")
	}
	return &bot.VoiceState{ChannelID: vs.ChannelID, UserID: vs.UserID}, nil
}

func (b *Bot) HasActiveQueue(guildID string) bool {
	p, ok := b.Player(guildID)
	return ok && p.HasActiveQueue()
}

// Player returns the guild's player if one exists.
func (b *Bot) Player(guildID string) (*player.Player, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	gp, ok := b.players[guildID]
	if !ok {
		return nil, false
	}
	return gp.Player, true
}

// GetOrCreatePlayer gets or creates a player
func (b *Bot) GetOrCreatePlayer(guildID string) *player.Player {
	b.mu.Lock()
	defer b.mu.Unlock()

	if gp, ok := b.players[guildID]; ok {
		return gp.Player
	}

	logger := b.log.With().Str("guild_id", guildID).Logger()
	gp := &guildPlayer{
		Player: player.New(b.dg, guildID, player.Options{
			DefaultVolume: b.cfg.DefaultVolume,
			Logger:        &logger,
		}),
		done: make(chan struct{}),
	}
	b.players[guildID] = gp
	go b.watchPlayer(guildID, gp)

	return gp.Player
}

func (b *Bot) watchPlayer(guildID string, gp *guildPlayer) {
	for {
		select {
		case status := <-gp.PlayerStatus:
			b.log.Debug().Str("guild_id", guildID).Str("status", string(status)).Msg(status.StringEmoji() + " player status")
		case <-gp.done:
			return
		}
	}
}

// onVoiceStateUpdate drops the guild's player once the bot has left voice,
// whether it was stopped, kicked or moved out by a moderator.
func (b *Bot) onVoiceStateUpdate(s *discordgo.Session, vs *discordgo.VoiceStateUpdate) {
	if s.State.User == nil || vs.UserID != s.State.User.ID || vs.ChannelID != "" {
		return
	}
	b.releasePlayer(vs.GuildID)
}

func (b *Bot) releasePlayer(guildID string) {
	b.mu.Lock()
	gp, ok := b.players[guildID]
	delete(b.players, guildID)
	b.mu.Unlock()

	if !ok {
		return
	}
	close(gp.done)
	go gp.Close()
	b.log.Info().Str("guild_id", guildID).Msg("Released player after leaving voice")
}

func (b *Bot) releaseAllPlayers() {
	b.mu.Lock()
	players := b.players
	b.players = make(map[string]*guildPlayer)
	b.mu.Unlock()

	for _, gp := range players {
		close(gp.done)
		gp.Close()
	}
}

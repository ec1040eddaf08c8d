package discord

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"voice-domme/internal/command/core"
	"voice-domme/internal/command/music"
	"voice-domme/internal/config"
	"voice-domme/internal/music/player"
	"voice-domme/internal/storage"
	"voice-domme/internal/uptime"
	"voice-domme/pkg/retrylimit"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Bot is a Discord bot
type Bot struct {
	dg      *discordgo.Session
	cfg     *config.Config
	storage *storage.Storage
	uptime  uptime.Source
	cache   *commandCache
	limiter *retrylimit.AdaptiveLimiter
	log     zerolog.Logger
	ctx     context.Context

	mu      sync.RWMutex
	players map[string]*guildPlayer
}

type guildPlayer struct {
	*player.Player
	done chan struct{}
}

// New creates the bot and registers its commands.
func New(cfg *config.Config, store *storage.Storage) *Bot {
	rps := rate.Limit(cfg.CommandRegisterRPS)
	b := &Bot{
		cfg:     cfg,
		storage: store,
		uptime:  uptime.NewProcessSource(),
		cache:   newCommandCache(cfg.CommandCacheDir),
		limiter: retrylimit.NewAdaptiveLimiter(rps, 1, rps, 1, 0.5),
		log:     log.Logger.With().Str("module", "discord").Logger(),
		ctx:     context.Background(),
		players: make(map[string]*guildPlayer),
	}

	core.Register(b.uptime, cfg.DeveloperID)
	music.Register(b, cfg.DeveloperID)
	return b
}

// Run opens the gateway session and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	b.dg = dg
	b.ctx = ctx

	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildVoiceStates
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onGuildCreate)
	dg.AddHandler(b.onInteractionCreate)
	dg.AddHandler(b.onVoiceStateUpdate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	<-ctx.Done()
	b.log.Info().Msg("❎ Shutdown signal received. Cleaning up...")
	b.releaseAllPlayers()
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.log.Info().
		Str("user", r.User.Username).
		Int("guilds", len(r.Guilds)).
		Msgf("✅ Discord bot %s is running.", r.User.Username)
}

// onGuildCreate fires for every guild on startup and whenever the bot joins
// a new one.
func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	logger := b.log.With().Str("guild_id", g.ID).Str("guild_name", g.Name).Logger()

	if b.isGuildBlacklisted(g.ID) {
		logger.Info().Msg("Leaving blacklisted guild")
		if err := s.GuildLeave(g.ID); err != nil {
			logger.Error().Err(err).Msg("Failed to leave guild")
		}
		return
	}

	if !b.cfg.InitSlashCommands {
		logger.Info().Msg("Registering slash commands skipped")
		return
	}

	go func() {
		if err := b.registerCommands(b.ctx, g.ID); err != nil {
			logger.Error().Err(err).Msg("Failed to register slash commands")
		}
	}()
}

func (b *Bot) isGuildBlacklisted(guildID string) bool {
	return slices.Contains(b.cfg.DiscordGuildBlacklist, guildID)
}

package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"voice-domme/internal/command"
	"voice-domme/pkg/cmd"
	"voice-domme/pkg/retrylimit"

	"github.com/bwmarrin/discordgo"
)

// registerCommands brings the guild's slash commands in line with the
// registry. Definitions whose hash matches the cache and which still exist
// on Discord are left alone.
func (b *Bot) registerCommands(ctx context.Context, guildID string) error {
	appID := b.dg.State.User.ID
	logger := b.log.With().Str("guild_id", guildID).Logger()

	existing, err := b.dg.ApplicationCommands(appID, guildID)
	if err != nil {
		return fmt.Errorf("failed to list commands: %w", err)
	}

	hashes, err := b.cache.Load(guildID)
	if err != nil {
		logger.Warn().Err(err).Msg("Command cache unreadable, re-registering everything")
		hashes = make(map[string]string)
	}

	plan := planSync(existing, hashes, wantedDefinitions(command.AllCommands()))
	retry := retrylimit.DefaultConfig()
	retry.Logger = logger

	for _, old := range plan.Delete {
		err := retrylimit.WithRetryConfig(ctx, func() error {
			return classifyRESTError(b.dg.ApplicationCommandDelete(appID, guildID, old.ID))
		}, b.limiter, retry)
		if err != nil {
			logger.Error().Err(err).Str("command", old.Name).Msg("Failed to delete obsolete command")
			continue
		}
		delete(hashes, old.Name)
		logger.Info().Str("command", old.Name).Msg("Deleted obsolete command")
	}

	if len(plan.Create) > 0 {
		logger.Info().Int("changed", len(plan.Create)).Msg("Commands changed, updating")
	}
	for _, def := range plan.Create {
		err := retrylimit.WithRetryConfig(ctx, func() error {
			_, err := b.dg.ApplicationCommandCreate(appID, guildID, def)
			return classifyRESTError(err)
		}, b.limiter, retry)
		if err != nil {
			logger.Error().Err(err).Str("command", def.Name).Msg("Can't create command")
			continue
		}
		hashes[def.Name] = hashCommand(def)
		logger.Debug().Str("command", def.Name).Msg("Command created")
	}

	return b.cache.Save(guildID, hashes)
}

type syncPlan struct {
	Delete []*discordgo.ApplicationCommand
	Create []*discordgo.ApplicationCommand
}

// planSync compares what Discord has, what was registered last time and what
// the registry wants now.
func planSync(existing []*discordgo.ApplicationCommand, cached map[string]string, wanted []*discordgo.ApplicationCommand) syncPlan {
	var plan syncPlan

	wantedByName := make(map[string]bool, len(wanted))
	for _, def := range wanted {
		wantedByName[def.Name] = true
	}
	present := make(map[string]bool, len(existing))
	for _, ex := range existing {
		present[ex.Name] = true
		if !wantedByName[ex.Name] {
			plan.Delete = append(plan.Delete, ex)
		}
	}

	for _, def := range wanted {
		if !present[def.Name] || cached[def.Name] != hashCommand(def) {
			plan.Create = append(plan.Create, def)
		}
	}
	return plan
}

func wantedDefinitions(all []cmd.Command) []*discordgo.ApplicationCommand {
	var defs []*discordgo.ApplicationCommand
	for _, c := range all {
		def := command.SlashDefinition(c)
		if def == nil {
			continue
		}
		if def.Type == 0 {
			def.Type = discordgo.ChatApplicationCommand
		}
		defs = append(defs, def)
	}
	return defs
}

type restError struct {
	*discordgo.RESTError
}

func (e restError) StatusCode() int {
	if e.Response == nil {
		return 0
	}
	return e.Response.StatusCode
}

func (e restError) Unwrap() error { return e.RESTError }

// classifyRESTError exposes Discord's HTTP status to the retry loop. Client
// errors other than 429 are not retried.
func classifyRESTError(err error) error {
	var re *discordgo.RESTError
	if !errors.As(err, &re) {
		return err
	}
	wrapped := restError{re}
	code := wrapped.StatusCode()
	if code >= 400 && code < 500 && code != http.StatusTooManyRequests {
		return &retrylimit.FatalError{Err: wrapped}
	}
	return wrapped
}

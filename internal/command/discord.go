package command

import (
	"context"

	"voice-domme/internal/storage"
	"voice-domme/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

// Discord-specific contexts (what the runtime passes when executing).

type SlashInteractionContext struct {
	Session     *discordgo.Session
	Event       *discordgo.InteractionCreate
	Storage     *storage.Storage
	ExecutionID string
}

// Providers: how a command is registered with Discord.

type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

// DiscordMeta lets middleware read Group/Category/Permissions without
// depending on the concrete command type.
type DiscordMeta interface {
	Group() string
	Category() string
	UserPermissions() []int64
}

// DiscordCommand is what individual Discord commands implement.
type DiscordCommand interface {
	Name() string
	Description() string
	Group() string
	Category() string
	UserPermissions() []int64
	Run(ctx interface{}) error
}

// DiscordAdapter adapts a DiscordCommand to cmd.Command so it can live in the
// universal registry.
type DiscordAdapter struct {
	Cmd DiscordCommand
}

func (a *DiscordAdapter) Name() string             { return a.Cmd.Name() }
func (a *DiscordAdapter) Description() string      { return a.Cmd.Description() }
func (a *DiscordAdapter) Group() string            { return a.Cmd.Group() }
func (a *DiscordAdapter) Category() string         { return a.Cmd.Category() }
func (a *DiscordAdapter) UserPermissions() []int64 { return a.Cmd.UserPermissions() }

func (a *DiscordAdapter) Run(ctx context.Context, inv *cmd.Invocation) error {
	return a.Cmd.Run(inv.Data)
}

func (a *DiscordAdapter) SlashDefinition() *discordgo.ApplicationCommand {
	if sp, ok := a.Cmd.(SlashProvider); ok {
		return sp.SlashDefinition()
	}
	return nil
}

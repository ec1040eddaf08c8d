package command

import (
	"context"

	"voice-domme/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

// RegisterCommand wraps a Discord command with middlewares and stores it in
// the default registry. The first middleware runs first.
func RegisterCommand(discordCmd DiscordCommand, mws ...cmd.Middleware) {
	cmd.DefaultRegistry.Register(cmd.Apply(&DiscordAdapter{Cmd: discordCmd}, mws...))
}

// AllCommands returns every registered command sorted by name.
func AllCommands() []cmd.Command {
	return cmd.DefaultRegistry.GetAll()
}

func GetCommand(name string) (cmd.Command, bool) {
	c := cmd.DefaultRegistry.Get(name)
	return c, c != nil
}

// Meta returns the Discord metadata of a possibly wrapped command.
func Meta(c cmd.Command) (DiscordMeta, bool) {
	m, ok := cmd.Root(c).(DiscordMeta)
	return m, ok
}

// SlashDefinition returns the slash definition of a possibly wrapped command.
func SlashDefinition(c cmd.Command) *discordgo.ApplicationCommand {
	if sp, ok := cmd.Root(c).(SlashProvider); ok {
		return sp.SlashDefinition()
	}
	return nil
}

// Execute runs c with a slash interaction context.
func Execute(ctx context.Context, c cmd.Command, sc *SlashInteractionContext) error {
	return c.Run(ctx, &cmd.Invocation{ExecutionID: sc.ExecutionID, Data: sc})
}

package middleware

import (
	"context"

	"voice-domme/internal/command"
	"voice-domme/pkg/cmd"
)

// WithGuildOnly drops invocations that do not come from a guild.
func WithGuildOnly() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			if v, ok := inv.Data.(*command.SlashInteractionContext); ok && v.Event.GuildID == "" {
				return cmd.Halt()
			}
			return c.Run(ctx, inv)
		})
	}
}

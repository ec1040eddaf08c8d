package core

import (
	"voice-domme/internal/command"
	"voice-domme/internal/middleware"
	"voice-domme/internal/uptime"
)

// Register adds the informational and maintenance commands to the default
// registry.
func Register(src uptime.Source, developerID string) {
	command.RegisterCommand(
		&HelpCommand{},
		middleware.WithGuildOnly(),
		middleware.WithCommandLogger(),
	)
	command.RegisterCommand(
		&StatusCommand{Uptime: src},
		middleware.WithGuildOnly(),
		middleware.WithCommandLogger(),
	)
	command.RegisterCommand(
		&MaintenanceCommand{},
		middleware.WithGuildOnly(),
		middleware.WithUserPermissionCheck(developerID),
		middleware.WithCommandLogger(),
	)
}

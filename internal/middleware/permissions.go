package middleware

import (
	"context"
	"fmt"
	"strings"

	"voice-domme/internal/bot"
	"voice-domme/internal/command"
	"voice-domme/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

var PermissionNames = map[int64]string{
	discordgo.PermissionAdministrator:        "Administrator",
	discordgo.PermissionManageChannels:       "Manage Channels",
	discordgo.PermissionManageServer:         "Manage Server",
	discordgo.PermissionManageMessages:       "Manage Messages",
	discordgo.PermissionManageRoles:          "Manage Roles",
	discordgo.PermissionVoiceConnect:         "Connect to Voice Channel",
	discordgo.PermissionVoiceSpeak:           "Speak",
	discordgo.PermissionVoiceMuteMembers:     "Mute Members",
	discordgo.PermissionVoiceMoveMembers:     "Move Members",
	discordgo.PermissionVoicePrioritySpeaker: "Priority Speaker",
}

// WithUserPermissionCheck requires the caller to hold at least one of the
// command's UserPermissions. Administrators and the developer always pass.
func WithUserPermissionCheck(developerID string) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			v, ok := inv.Data.(*command.SlashInteractionContext)
			if !ok || v.Event.GuildID == "" || v.Event.Member == nil || v.Event.Member.User == nil {
				return c.Run(ctx, inv)
			}

			meta, ok := command.Meta(c)
			if !ok || len(meta.UserPermissions()) == 0 {
				return c.Run(ctx, inv)
			}
			if developerID != "" && v.Event.Member.User.ID == developerID {
				return c.Run(ctx, inv)
			}

			perms := v.Event.Member.Permissions
			if perms == 0 {
				var err error
				perms, err = v.Session.UserChannelPermissions(v.Event.Member.User.ID, v.Event.ChannelID)
				if err != nil {
					return fmt.Errorf("failed to get user permissions: %w", err)
				}
			}

			required := meta.UserPermissions()
			if hasAnyPermission(perms, required) {
				return c.Run(ctx, inv)
			}

			_ = bot.RespondEmbedEphemeral(v.Session, v.Event, &discordgo.MessageEmbed{
				Description: missingPermissionsMessage(required),
				Color:       bot.ColorWarning,
			})
			return cmd.Halt()
		})
	}
}

func hasAnyPermission(perms int64, required []int64) bool {
	if perms&discordgo.PermissionAdministrator != 0 {
		return true
	}
	for _, p := range required {
		if perms&p != 0 {
			return true
		}
	}
	return false
}

func missingPermissionsMessage(required []int64) string {
	names := make([]string, 0, len(required))
	for _, p := range required {
		name := PermissionNames[p]
		if name == "" {
			name = fmt.Sprintf("0x%x", p)
		}
		names = append(names, name)
	}
	return fmt.Sprintf(
		"You need at least one of the following permissions to run this command:\n`%s`",
		strings.Join(names, "`, `"),
	)
}

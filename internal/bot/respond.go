package bot

import (
	"github.com/bwmarrin/discordgo"
)

const EmbedColor = 0xb01e66

// Embed colors and icons used for command responses.
const (
	ColorInfo    = 0x5865f2
	ColorSuccess = 0x57f287
	ColorWarning = 0xfee75c
	ColorError   = 0xed4245

	IconVolume        = "🔊"
	IconVolumeIsMuted = "🔇"
	IconVolumeMuted   = "🔇"
	IconVolumeChanged = "🔊"
	IconWarning       = "⚠️"
	IconError         = "❌"
	IconNoQueue       = "📭"
)

func RespondEmbed(s *discordgo.Session, e *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	return s.InteractionRespond(e.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}

func RespondEmbedEphemeral(s *discordgo.Session, e *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	return s.InteractionRespond(e.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}

// RespondDeferred acknowledges the interaction; the answer follows with
// EditEmbed or a followup.
func RespondDeferred(s *discordgo.Session, e *discordgo.InteractionCreate) error {
	return s.InteractionRespond(e.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

func RespondDeferredEphemeral(s *discordgo.Session, e *discordgo.InteractionCreate) error {
	return s.InteractionRespond(e.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
}

// EditEmbed replaces the deferred response with embed.
func EditEmbed(s *discordgo.Session, e *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	embeds := []*discordgo.MessageEmbed{embed}
	_, err := s.InteractionResponseEdit(e.Interaction, &discordgo.WebhookEdit{
		Embeds: &embeds,
	})
	return err
}

func FollowupEmbed(s *discordgo.Session, e *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	_, err := s.FollowupMessageCreate(e.Interaction, true, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
	})
	return err
}

func FollowupEmbedEphemeral(s *discordgo.Session, e *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	_, err := s.FollowupMessageCreate(e.Interaction, true, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
		Flags:  discordgo.MessageFlagsEphemeral,
	})
	return err
}

// RespondOrFollowup answers an interaction whether or not it was already
// acknowledged.
func RespondOrFollowup(s *discordgo.Session, e *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	if err := RespondEmbedEphemeral(s, e, embed); err != nil {
		return FollowupEmbedEphemeral(s, e, embed)
	}
	return nil
}

// WarningEmbed builds the "Oops!" embed used for rejected requests.
func WarningEmbed(text string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Description: "**" + IconWarning + " Oops!**\n" + text,
		Color:       ColorWarning,
	}
}

// Author returns the display name and avatar for the member or user behind e.
func Author(e *discordgo.InteractionCreate) (string, string) {
	var user *discordgo.User
	nick := ""
	switch {
	case e.Member != nil && e.Member.User != nil:
		user = e.Member.User
		nick = e.Member.Nick
	case e.User != nil:
		user = e.User
	default:
		return "Unknown", ""
	}

	name := user.Username
	if nick != "" {
		name = nick
	}
	return name, user.AvatarURL("")
}

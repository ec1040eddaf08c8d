package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestAuthor(t *testing.T) {
	user := &discordgo.User{ID: "1", Username: "alice"}

	name, _ := Author(&discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: &discordgo.Member{User: user, Nick: "Ally"},
	}})
	assert.Equal(t, "Ally", name)

	name, _ = Author(&discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: &discordgo.Member{User: user},
	}})
	assert.Equal(t, "alice", name)

	name, _ = Author(&discordgo.InteractionCreate{Interaction: &discordgo.Interaction{User: user}})
	assert.Equal(t, "alice", name)

	name, icon := Author(&discordgo.InteractionCreate{Interaction: &discordgo.Interaction{}})
	assert.Equal(t, "Unknown", name)
	assert.Empty(t, icon)
}

func TestWarningEmbed(t *testing.T) {
	e := WarningEmbed("nope")
	assert.Equal(t, "**⚠️ Oops!**\nnope", e.Description)
	assert.Equal(t, ColorWarning, e.Color)
}

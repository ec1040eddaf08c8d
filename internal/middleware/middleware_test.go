package middleware

import (
	"context"
	"errors"
	"testing"

	"voice-domme/internal/bot"
	"voice-domme/internal/command"
	"voice-domme/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLookup struct {
	users  map[string]string
	botCh  string
	queues map[string]bool
}

func (f *fakeLookup) FindUserVoiceState(guildID, userID string) (*bot.VoiceState, error) {
	ch, ok := f.users[userID]
	if !ok {
		return nil, errors.New("user not in any voice channel")
	}
	return &bot.VoiceState{ChannelID: ch, UserID: userID}, nil
}

func (f *fakeLookup) FindBotVoiceState(guildID string) (*bot.VoiceState, error) {
	if f.botCh == "" {
		return nil, errors.New("bot not in voice")
	}
	return &bot.VoiceState{ChannelID: f.botCh, UserID: "bot"}, nil
}

func (f *fakeLookup) HasActiveQueue(guildID string) bool { return f.queues[guildID] }

func interaction(guildID, userID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		GuildID: guildID,
		Member:  &discordgo.Member{User: &discordgo.User{ID: userID, Username: userID}},
	}}
}

func TestCheckInVoiceChannel(t *testing.T) {
	lookup := &fakeLookup{users: map[string]string{"alice": "vc-1"}}

	_, err := CheckInVoiceChannel(lookup, interaction("g", "alice"))
	assert.NoError(t, err)

	msg, err := CheckInVoiceChannel(lookup, interaction("g", "bob"))
	assert.ErrorIs(t, err, ErrNotInVoice)
	assert.Contains(t, msg, "voice channel")
}

func TestCheckSameVoiceChannel(t *testing.T) {
	lookup := &fakeLookup{users: map[string]string{"alice": "vc-1", "bob": "vc-2"}}

	_, err := CheckSameVoiceChannel(lookup, interaction("g", "bob"))
	assert.NoError(t, err, "bot not connected anywhere")

	lookup.botCh = "vc-1"
	_, err = CheckSameVoiceChannel(lookup, interaction("g", "alice"))
	assert.NoError(t, err)

	msg, err := CheckSameVoiceChannel(lookup, interaction("g", "bob"))
	assert.ErrorIs(t, err, ErrDifferentVoice)
	assert.Contains(t, msg, "<#vc-1>")
}

func TestCheckQueueExists(t *testing.T) {
	lookup := &fakeLookup{queues: map[string]bool{"g": true}}

	_, err := CheckQueueExists(lookup, interaction("g", "alice"))
	assert.NoError(t, err)

	_, err = CheckQueueExists(lookup, interaction("other", "alice"))
	assert.ErrorIs(t, err, ErrNoActiveQueue)
}

type countingCommand struct{ runs int }

func (c *countingCommand) Name() string        { return "volume" }
func (c *countingCommand) Description() string { return "volume" }
func (c *countingCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	c.runs++
	return nil
}

func TestWithVoiceCheckPasses(t *testing.T) {
	lookup := &fakeLookup{
		users:  map[string]string{"alice": "vc-1"},
		botCh:  "vc-1",
		queues: map[string]bool{"g": true},
	}
	inner := &countingCommand{}
	c := cmd.Apply(inner,
		WithInVoiceChannel(lookup),
		WithSameVoiceChannel(lookup),
		WithActiveQueue(lookup),
	)

	err := c.Run(context.Background(), &cmd.Invocation{
		Data: &command.SlashInteractionContext{Event: interaction("g", "alice")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, inner.runs)
}

func TestWithVoiceCheckRequiresSlashContext(t *testing.T) {
	inner := &countingCommand{}
	c := cmd.Apply(inner, WithInVoiceChannel(&fakeLookup{}))

	err := c.Run(context.Background(), &cmd.Invocation{Data: "not a context"})
	assert.Error(t, err)
	assert.Zero(t, inner.runs)
}

func TestWithGuildOnly(t *testing.T) {
	inner := &countingCommand{}
	c := cmd.Apply(inner, WithGuildOnly())

	err := c.Run(context.Background(), &cmd.Invocation{
		Data: &command.SlashInteractionContext{Event: interaction("", "alice")},
	})
	assert.True(t, cmd.IsHalt(err))
	assert.Zero(t, inner.runs)

	err = c.Run(context.Background(), &cmd.Invocation{
		Data: &command.SlashInteractionContext{Event: interaction("g", "alice")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, inner.runs)
}

func TestWithCommandLoggerPassesThrough(t *testing.T) {
	inner := &countingCommand{}
	c := cmd.Apply(inner, WithCommandLogger())

	err := c.Run(context.Background(), &cmd.Invocation{
		ExecutionID: "exec-1",
		Data:        &command.SlashInteractionContext{Event: interaction("g", "alice")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, inner.runs)
}

func TestPermissionHelpers(t *testing.T) {
	assert.True(t, hasAnyPermission(discordgo.PermissionAdministrator, []int64{discordgo.PermissionManageServer}))
	assert.True(t, hasAnyPermission(discordgo.PermissionManageServer, []int64{discordgo.PermissionManageServer}))
	assert.False(t, hasAnyPermission(discordgo.PermissionVoiceSpeak, []int64{discordgo.PermissionManageServer}))

	msg := missingPermissionsMessage([]int64{discordgo.PermissionManageServer, 1 << 60})
	assert.Contains(t, msg, "Manage Server")
	assert.Contains(t, msg, "0x1000000000000000")
}

func TestResolveUser(t *testing.T) {
	assert.Equal(t, "alice", resolveUser(interaction("g", "alice")).ID)
	assert.Equal(t, "unknown", resolveUser(&discordgo.InteractionCreate{Interaction: &discordgo.Interaction{}}).ID)
}

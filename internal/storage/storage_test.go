package storage

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "datastore.json"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCommandHistory(t *testing.T) {
	s := newStorage(t)

	history, err := s.FetchCommandHistory("guild")
	require.NoError(t, err)
	assert.Empty(t, history)

	rec := CommandHistoryRecord{
		ChannelID: "chan",
		UserID:    "user",
		Username:  "alice",
		Command:   "volume",
		Datetime:  time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.AppendCommandToHistory("guild", rec))

	history, err = s.FetchCommandHistory("guild")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, rec, history[0])

	other, err := s.FetchCommandHistory("other-guild")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestCommandHistoryLimit(t *testing.T) {
	s := newStorage(t)

	for i := 0; i < commandHistoryLimit+5; i++ {
		require.NoError(t, s.AppendCommandToHistory("guild", CommandHistoryRecord{
			Command: fmt.Sprintf("cmd-%d", i),
		}))
	}

	history, err := s.FetchCommandHistory("guild")
	require.NoError(t, err)
	require.Len(t, history, commandHistoryLimit)
	assert.Equal(t, "cmd-5", history[0].Command)
	assert.Equal(t, fmt.Sprintf("cmd-%d", commandHistoryLimit+4), history[len(history)-1].Command)
}

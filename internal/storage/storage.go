package storage

import (
	"fmt"
	"sync"
	"time"

	"voice-domme/datastore"
)

const commandHistoryLimit = 20

type Storage struct {
	mu sync.Mutex
	ds *datastore.DataStore
}

type CommandHistoryRecord struct {
	ChannelID   string    `json:"channel_id"`
	ChannelName string    `json:"channel_name"`
	GuildName   string    `json:"guild_name"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	Command     string    `json:"command"`
	ExecutionID string    `json:"execution_id,omitempty"`
	Datetime    time.Time `json:"datetime"`
}

// Record is everything stored for one guild.
type Record struct {
	CommandsHistory []CommandHistoryRecord `json:"cmd_history"`
}

func New(filePath string) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

// NewWithStore wraps an already opened datastore.
func NewWithStore(ds *datastore.DataStore) *Storage {
	return &Storage{ds: ds}
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

// guildRecord must be called with s.mu held.
func (s *Storage) guildRecord(guildID string) (*Record, error) {
	var record Record
	if _, err := s.ds.Get(guildID, &record); err != nil {
		return nil, fmt.Errorf("failed to load guild %s: %w", guildID, err)
	}
	return &record, nil
}

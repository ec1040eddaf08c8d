package discord

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// commandCache remembers, per guild, the hash of every command registered
// last time so unchanged definitions are not sent again.
type commandCache struct {
	dir string
}

func newCommandCache(dir string) *commandCache {
	if dir == "" {
		dir = filepath.Join("data", "commands")
	}
	return &commandCache{dir: dir}
}

func (c *commandCache) path(guildID string) string {
	return filepath.Join(c.dir, guildID+".json")
}

// Load returns an empty map when nothing was cached yet.
func (c *commandCache) Load(guildID string) (map[string]string, error) {
	hashes := make(map[string]string)

	data, err := os.ReadFile(c.path(guildID))
	if errors.Is(err, fs.ErrNotExist) {
		return hashes, nil
	}
	if err != nil {
		return hashes, fmt.Errorf("failed to read command cache: %w", err)
	}
	if err := json.Unmarshal(data, &hashes); err != nil {
		return make(map[string]string), fmt.Errorf("failed to decode command cache: %w", err)
	}
	return hashes, nil
}

func (c *commandCache) Save(guildID string, hashes map[string]string) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create command cache dir: %w", err)
	}
	data, err := json.MarshalIndent(hashes, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.path(guildID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write command cache: %w", err)
	}
	return nil
}

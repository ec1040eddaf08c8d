// Package datastore is a small JSON-file key/value store. Values live in
// memory and are flushed to disk periodically and on Close.
package datastore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var ErrClosed = errors.New("datastore is closed")

type Config struct {
	FilePath         string
	AutoSaveInterval time.Duration
	Logger           zerolog.Logger
}

func DefaultConfig(filePath string) Config {
	return Config{
		FilePath:         filePath,
		AutoSaveInterval: 10 * time.Second,
		Logger:           log.Logger.With().Str("module", "datastore").Logger(),
	}
}

type DataStore struct {
	mu           sync.RWMutex
	data         map[string]json.RawMessage
	cfg          Config
	lastChecksum string
	closed       bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New opens (or creates) the store at filePath with default settings.
func New(filePath string) (*DataStore, error) {
	return NewWithConfig(DefaultConfig(filePath))
}

func NewWithConfig(cfg Config) (*DataStore, error) {
	if cfg.FilePath == "" {
		return nil, errors.New("file path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	ds := &DataStore{
		data: make(map[string]json.RawMessage),
		cfg:  cfg,
	}

	switch _, err := os.Stat(cfg.FilePath); {
	case errors.Is(err, os.ErrNotExist):
		if err := writeFileAtomic(cfg.FilePath, []byte("{}")); err != nil {
			return nil, fmt.Errorf("failed to create empty JSON file: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to check file existence: %w", err)
	default:
		if err := ds.load(); err != nil {
			return nil, fmt.Errorf("failed to load data from file: %w", err)
		}
	}

	if cfg.AutoSaveInterval > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		ds.cancel = cancel
		ds.wg.Add(1)
		go ds.autoSave(ctx)
	}
	return ds, nil
}

// Put stores value under key as JSON.
func (ds *DataStore) Put(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %q: %w", key, err)
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()
	if ds.closed {
		return ErrClosed
	}
	ds.data[key] = raw
	return nil
}

// Get decodes the value stored under key into dst. It reports false when the
// key does not exist.
func (ds *DataStore) Get(key string, dst any) (bool, error) {
	ds.mu.RLock()
	raw, ok := ds.data[key]
	closed := ds.closed
	ds.mu.RUnlock()

	if closed {
		return false, ErrClosed
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("failed to unmarshal %q: %w", key, err)
	}
	return true, nil
}

func (ds *DataStore) Delete(key string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	delete(ds.data, key)
}

// Keys returns the number of stored keys.
func (ds *DataStore) Keys() int {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return len(ds.data)
}

// Save flushes the store to disk if anything changed since the last save.
func (ds *DataStore) Save() error {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if ds.closed {
		return ErrClosed
	}
	return ds.save()
}

// Close stops auto-saving and performs a final save.
func (ds *DataStore) Close() error {
	ds.mu.Lock()
	if ds.closed {
		ds.mu.Unlock()
		return nil
	}
	ds.mu.Unlock()

	if ds.cancel != nil {
		ds.cancel()
	}
	ds.wg.Wait()

	ds.mu.Lock()
	defer ds.mu.Unlock()
	err := ds.save()
	ds.closed = true
	return err
}

// save must be called with ds.mu held.
func (ds *DataStore) save() error {
	data, err := json.MarshalIndent(ds.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	sum := checksum(data)
	if sum == ds.lastChecksum {
		return nil
	}
	if err := writeFileAtomic(ds.cfg.FilePath, data); err != nil {
		return err
	}
	ds.lastChecksum = sum
	return nil
}

func (ds *DataStore) load() error {
	data, err := os.ReadFile(ds.cfg.FilePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	parsed := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("invalid JSON format: %w", err)
	}
	// A file holding `null` decodes into a nil map.
	if parsed == nil {
		parsed = make(map[string]json.RawMessage)
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.data = parsed
	ds.lastChecksum = checksum(data)
	return nil
}

func (ds *DataStore) autoSave(ctx context.Context) {
	defer ds.wg.Done()

	ticker := time.NewTicker(ds.cfg.AutoSaveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := ds.Save(); err != nil && !errors.Is(err, ErrClosed) {
				ds.cfg.Logger.Error().Err(err).Msg("auto-save failed")
			}
		}
	}
}

// writeFileAtomic writes through a synced temp file and a rename.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

package storage

import "fmt"

// AppendCommandToHistory appends a record and keeps only the most recent
// entries for the guild.
func (s *Storage) AppendCommandToHistory(guildID string, rec CommandHistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.guildRecord(guildID)
	if err != nil {
		return err
	}

	record.CommandsHistory = append(record.CommandsHistory, rec)
	if n := len(record.CommandsHistory); n > commandHistoryLimit {
		record.CommandsHistory = record.CommandsHistory[n-commandHistoryLimit:]
	}

	if err := s.ds.Put(guildID, record); err != nil {
		return fmt.Errorf("failed to save command history: %w", err)
	}
	return nil
}

// FetchCommandHistory returns the stored history, oldest first.
func (s *Storage) FetchCommandHistory(guildID string) ([]CommandHistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.guildRecord(guildID)
	if err != nil {
		return nil, err
	}
	return record.CommandsHistory, nil
}

package state

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"comeback-digest-bot/internal/models"
)

// Store persists the processed-id sets as a single JSON document on disk.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted state. A missing or unreadable document
// yields an empty default, never an error. A legacy bare array of
// message ids is migrated in memory only; the file keeps its old shape
// until the next successful Save.
func (s *Store) Load() *models.State {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("State file unreadable, starting from empty state", "path", s.path, "error", err)
		}
		return &models.State{}
	}

	var st models.State
	if err := json.Unmarshal(data, &st); err == nil {
		return &st
	}

	var legacy []string
	if err := json.Unmarshal(data, &legacy); err == nil {
		slog.Info("Migrating legacy state format", "message_ids", len(legacy))
		return migrateLegacy(legacy)
	}

	slog.Warn("State file corrupt, starting from empty state", "path", s.path)
	return &models.State{}
}

// migrateLegacy converts the historical bare-array encoding, which
// held only message ids.
func migrateLegacy(messageIDs []string) *models.State {
	return &models.State{MessageIDs: messageIDs}
}

// Save writes the state atomically via a temp file and rename.
func (s *Store) Save(st *models.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

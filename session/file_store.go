package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hupe1980/confcierge/core"
)

const (
	historyFile = "history.json"
	planFile    = "plan.json"
)

// FileStore persists conversations as flat JSON files, one directory per
// conversation: <dir>/<conversationID>/history.json and plan.json. Missing
// files read as empty, so a fresh conversation needs no setup.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// LoadHistory implements Store.
func (s *FileStore) LoadHistory(conversationID string) ([]core.Message, error) {
	var history []core.Message
	ok, err := s.readJSON(conversationID, historyFile, &history)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []core.Message{}, nil
	}
	return history, nil
}

// SaveHistory implements Store.
func (s *FileStore) SaveHistory(conversationID string, history []core.Message) error {
	return s.writeJSON(conversationID, historyFile, history)
}

// LoadPlan implements Store.
func (s *FileStore) LoadPlan(conversationID string) ([]PlanEntry, error) {
	var plan []PlanEntry
	ok, err := s.readJSON(conversationID, planFile, &plan)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []PlanEntry{}, nil
	}
	return plan, nil
}

// SavePlan implements Store.
func (s *FileStore) SavePlan(conversationID string, plan []PlanEntry) error {
	return s.writeJSON(conversationID, planFile, plan)
}

func (s *FileStore) readJSON(conversationID, name string, out any) (bool, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, conversationID, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("session: read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("session: parse %s: %w", name, err)
	}
	return true, nil
}

func (s *FileStore) writeJSON(conversationID, name string, v any) error {
	dir := filepath.Join(s.dir, conversationID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("session: create dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("session: marshal %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return fmt.Errorf("session: write %s: %w", name, err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)

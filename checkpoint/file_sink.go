package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileSink persists the checkpoint log as pretty-printed JSON under
// <dir>/<conversationID>/checkpoints.json, one file per conversation.
type FileSink struct {
	dir string
}

// NewFileSink creates a sink rooted at dir.
func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

// SaveCheckpoints implements Sink.
func (s *FileSink) SaveCheckpoints(conversationID string, entries []Checkpoint) error {
	dir := filepath.Join(s.dir, conversationID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("checkpoint: create dir: %w", err)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("checkpoint: marshal: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "checkpoints.json"), data, 0o644); err != nil {
		return fmt.Errorf("checkpoint: write: %w", err)
	}
	return nil
}

var _ Sink = (*FileSink)(nil)

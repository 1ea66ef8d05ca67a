package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/wricardo/mars-rover/mission/service"
)

// Journal records the audit trail of sessions
type Journal interface {
	// Write stores the current state of session, replacing any earlier record
	Write(session *service.Session) error

	// Delete removes the record of a session
	Delete(id string) error
}

// FileJournal implements Journal with one JSON file per session. It also
// implements service.JournalReader.
type FileJournal struct {
	dir string
}

// NewFileJournal creates a journal in dir, creating the directory if needed
func NewFileJournal(dir string) (*FileJournal, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}
	return &FileJournal{dir: dir}, nil
}

// Write persists the audit record of session
func (j *FileJournal) Write(session *service.Session) error {
	if session == nil {
		return fmt.Errorf("session cannot be nil")
	}

	state := session.Engine.GetState()
	record := service.JournalRecord{
		SessionID:      session.ID,
		ConfigID:       session.ConfigID,
		MissionName:    state.MissionName,
		CreatedAt:      session.CreatedAt,
		UpdatedAt:      time.Now(),
		Position:       state.Position,
		Halted:         state.Halted,
		TotalCommands:  state.TotalCommands,
		CommandHistory: state.CommandHistory,
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal journal: %w", err)
	}

	// Write to a temp file first so readers never see a partial record
	path := j.path(session.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write journal: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write journal: %w", err)
	}
	return nil
}

// Read loads the audit record of a session
func (j *FileJournal) Read(id string) (*service.JournalRecord, error) {
	data, err := os.ReadFile(j.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", id, service.ErrJournalNotFound)
		}
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	var record service.JournalRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal journal: %w", err)
	}
	return &record, nil
}

// List summarizes every journal, most recently updated first. Unreadable
// files are skipped.
func (j *FileJournal) List() ([]*service.JournalSummary, error) {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal directory: %w", err)
	}

	summaries := []*service.JournalSummary{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		record, err := j.Read(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}
		summaries = append(summaries, &service.JournalSummary{
			SessionID:     record.SessionID,
			ConfigID:      record.ConfigID,
			UpdatedAt:     record.UpdatedAt,
			TotalCommands: record.TotalCommands,
			Position:      record.Position,
		})
	}

	sort.Slice(summaries, func(a, b int) bool {
		return summaries[a].UpdatedAt.After(summaries[b].UpdatedAt)
	})
	return summaries, nil
}

// Delete removes the journal file of a session
func (j *FileJournal) Delete(id string) error {
	if err := os.Remove(j.path(id)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: %w", id, service.ErrJournalNotFound)
		}
		return fmt.Errorf("failed to remove journal: %w", err)
	}
	return nil
}

func (j *FileJournal) path(id string) string {
	return filepath.Join(j.dir, strings.ToLower(id)+".json")
}

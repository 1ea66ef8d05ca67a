package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/wricardo/mars-rover/mission/engine"
	"github.com/wricardo/mars-rover/mission/service"
)

func TestFileJournal(t *testing.T) {
	dir := t.TempDir()
	journal, err := NewFileJournal(filepath.Join(dir, "journals"))
	if err != nil {
		t.Fatalf("Failed to create journal: %v", err)
	}

	manager := NewManagerWithJournal(journal)
	session, err := manager.Create("J1", "acceptance", createTestConfig())
	if err != nil {
		t.Fatal(err)
	}

	t.Run("written on create", func(t *testing.T) {
		if _, err := os.Stat(filepath.Join(dir, "journals", "j1.json")); err != nil {
			t.Fatalf("Expected journal file: %v", err)
		}
	})

	t.Run("records history after save", func(t *testing.T) {
		session.Engine.Execute([]engine.Command{engine.MoveForward, engine.RotateRight})
		if err := manager.Save("j1"); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		record, err := journal.Read("J1")
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if record.ConfigID != "acceptance" || record.MissionName != "Test Mission" {
			t.Errorf("Unexpected record header: %+v", record)
		}
		want := engine.Position{Direction: engine.East, Coordinate: engine.Coordinate{X: 0, Y: 3}}
		if record.Position != want {
			t.Errorf("Expected position %v, got %v", want, record.Position)
		}
		if record.TotalCommands != 2 || len(record.CommandHistory) != 2 {
			t.Errorf("Expected 2 commands in journal, got %d", len(record.CommandHistory))
		}
	})

	t.Run("list", func(t *testing.T) {
		summaries, err := journal.List()
		if err != nil {
			t.Fatal(err)
		}
		if len(summaries) != 1 || summaries[0].SessionID != "J1" {
			t.Errorf("Unexpected summaries: %+v", summaries)
		}
	})

	t.Run("deleted with session", func(t *testing.T) {
		if err := manager.Delete("j1"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := journal.Read("j1"); !errors.Is(err, service.ErrJournalNotFound) {
			t.Errorf("Expected ErrJournalNotFound, got %v", err)
		}
	})
}

func TestFileJournal_SkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	journal, err := NewFileJournal(dir)
	if err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0644)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644)

	summaries, err := journal.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 0 {
		t.Errorf("Expected corrupt journals to be skipped, got %d", len(summaries))
	}

	if _, err := journal.Read("bad"); err == nil {
		t.Error("Expected error reading corrupt journal")
	}
}

func TestCleanupKeepsJournals(t *testing.T) {
	dir := t.TempDir()
	journal, _ := NewFileJournal(dir)
	manager := NewManagerWithJournal(journal)

	session, _ := manager.Create("keep", "test", createTestConfig())
	session.LastAccessedAt = session.LastAccessedAt.AddDate(0, 0, -1)
	manager.CleanupExpiredSessions(1)

	if _, err := journal.Read("keep"); err != nil {
		t.Errorf("Expected journal to survive cleanup: %v", err)
	}
}

package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/mars-rover/mission/engine"
)

func createTestConfig() *engine.MissionConfig {
	return &engine.MissionConfig{
		Name:      "Test Mission",
		Plateau:   engine.Plateau{TopRight: engine.Coordinate{X: 5, Y: 5}},
		Obstacles: []engine.Coordinate{{X: 0, Y: 0}, {X: 5, Y: 5}},
		Start:     engine.StartConfig{X: 0, Y: 2, Direction: engine.North},
		Messages:  engine.MissionMessages{Welcome: "Welcome!"},
	}
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-session", "test", config)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "test-session" {
			t.Errorf("Expected session ID 'test-session', got '%s'", session.ID)
		}
		if session.ConfigID != "test" {
			t.Errorf("Expected config ID 'test', got '%s'", session.ConfigID)
		}
		if session.Engine == nil {
			t.Error("Expected engine to be initialized")
		}
	})

	t.Run("create with auto-generated ID", func(t *testing.T) {
		session, err := manager.Create("", "test", config)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character ID, got '%s'", session.ID)
		}
	})

	t.Run("duplicate ID is case-insensitive", func(t *testing.T) {
		_, err := manager.Create("TEST-SESSION", "test", config)
		if !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("invalid mission", func(t *testing.T) {
		bad := createTestConfig()
		bad.Start = engine.StartConfig{X: 9, Y: 9}
		if _, err := manager.Create("bad", "test", bad); err == nil {
			t.Error("Expected error for start outside the plateau")
		}
	})
}

func TestManager_GeneratedIDs(t *testing.T) {
	config := createTestConfig()

	t.Run("random source failure", func(t *testing.T) {
		manager := NewManager()
		manager.randRead = func([]byte) (int, error) {
			return 0, errors.New("entropy unavailable")
		}

		session, err := manager.Create("", "test", config)
		if err == nil || !strings.Contains(err.Error(), "entropy unavailable") {
			t.Fatalf("Expected random source error, got %v (session %v)", err, session)
		}
		if manager.Count() != 0 {
			t.Error("Expected no session after a failed ID")
		}
	})

	t.Run("retries taken IDs", func(t *testing.T) {
		manager := NewManager()
		if _, err := manager.Create("AB12", "test", config); err != nil {
			t.Fatal(err)
		}

		draws := [][]byte{{0xab, 0x12}, {0xcd, 0x34}}
		manager.randRead = func(b []byte) (int, error) {
			next := draws[0]
			draws = draws[1:]
			return copy(b, next), nil
		}

		session, err := manager.Create("", "test", config)
		if err != nil {
			t.Fatal(err)
		}
		if session.ID != "cd34" {
			t.Errorf("Expected the taken ID to be skipped, got %s", session.ID)
		}
	})
}

func TestManager_GetAndDelete(t *testing.T) {
	manager := NewManager()
	if _, err := manager.Create("AbCd", "test", createTestConfig()); err != nil {
		t.Fatal(err)
	}

	session, err := manager.Get("abcd")
	if err != nil {
		t.Fatalf("Expected case-insensitive lookup to succeed: %v", err)
	}
	if session.ID != "AbCd" {
		t.Errorf("Expected original ID to be kept, got '%s'", session.ID)
	}

	if _, err := manager.Get("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}

	if err := manager.Delete("ABCD"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if manager.Count() != 0 {
		t.Errorf("Expected 0 sessions, got %d", manager.Count())
	}
	if err := manager.Delete("abcd"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound on second delete, got %v", err)
	}
}

func TestManager_GetOrCreate(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	first, err := manager.GetOrCreate("rover", "test", config)
	if err != nil {
		t.Fatal(err)
	}
	second, err := manager.GetOrCreate("ROVER", "test", config)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("Expected the existing session to be returned")
	}
}

func TestManager_CleanupExpiredSessions(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	old, _ := manager.Create("old", "test", config)
	manager.Create("new", "test", config)
	old.LastAccessedAt = time.Now().Add(-2 * time.Hour)

	if removed := manager.CleanupExpiredSessions(time.Hour); removed != 1 {
		t.Errorf("Expected 1 removed session, got %d", removed)
	}
	if _, err := manager.Get("old"); !errors.Is(err, ErrSessionNotFound) {
		t.Error("Expected old session to be removed")
	}
	if _, err := manager.Get("new"); err != nil {
		t.Error("Expected new session to remain")
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()
	session, _ := manager.Create("s1", "test", createTestConfig())
	session.LastAccessedAt = time.Time{}

	if err := manager.UpdateLastAccessed("S1"); err != nil {
		t.Fatal(err)
	}
	if session.LastAccessedAt.IsZero() {
		t.Error("Expected last accessed time to be updated")
	}
	if err := manager.UpdateLastAccessed("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("session-%d", i)
			if _, err := manager.Create(id, "test", config); err != nil {
				t.Errorf("Create %s failed: %v", id, err)
				return
			}
			manager.Get(id)
			manager.UpdateLastAccessed(id)
			manager.List()
		}(i)
	}
	wg.Wait()

	if manager.Count() != 20 {
		t.Errorf("Expected 20 sessions, got %d", manager.Count())
	}
}

func TestManager_SaveWithoutJournal(t *testing.T) {
	manager := NewManager()
	if err := manager.Save("anything"); err != nil {
		t.Errorf("Expected Save to be a no-op without a journal, got %v", err)
	}
}

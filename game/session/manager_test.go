package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/spooder-solitaire/game/engine"
	"github.com/wricardo/spooder-solitaire/game/service"
)

func createTestConfig() *engine.GameConfig {
	config := engine.DefaultConfig()
	config.Name = "Test Config"
	config.Description = "Test configuration"
	return config
}

// finishGame replaces an engine's state with a won game: every run completed and the
// table empty
func finishGame(t *testing.T, eng *engine.GameEngine) {
	t.Helper()
	state := eng.GetState()

	columns := make([][]engine.Card, engine.NumColumns)
	for i := range columns {
		columns[i] = []engine.Card{}
	}
	runs := make([]engine.Suit, engine.TotalRuns)
	for i := range runs {
		runs[i] = engine.Spades
	}
	finished := state.StartedAt.Add(12 * time.Minute)

	err := eng.SetState(&engine.GameState{
		Columns:       columns,
		Stock:         []engine.Card{},
		CompletedRuns: runs,
		Score:         1180,
		Moves:         120,
		Status:        engine.StatusWon,
		Difficulty:    state.Difficulty,
		Seed:          state.Seed,
		ConfigName:    state.ConfigName,
		StartedAt:     state.StartedAt,
		FinishedAt:    &finished,
	})
	if err != nil {
		t.Fatalf("Failed to set won state: %v", err)
	}
	if eng.CardCount() != engine.DeckSize {
		t.Fatalf("Won state accounts for %d cards", eng.CardCount())
	}
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-session", config)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "test-session" {
			t.Errorf("Expected session ID 'test-session', got '%s'", session.ID)
		}
		state := session.Engine.GetState()
		if state.Status != engine.StatusPlaying {
			t.Errorf("Expected a dealt game, got status %s", state.Status)
		}
		if len(state.Stock) != 50 || session.Engine.CardCount() != engine.DeckSize {
			t.Errorf("Expected 50 cards in stock and a full deck, got %d and %d", len(state.Stock), session.Engine.CardCount())
		}
	})

	t.Run("create with generated ID", func(t *testing.T) {
		session, err := manager.Create("", config)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character session ID, got %q", session.ID)
		}
	})

	t.Run("duplicate session ID", func(t *testing.T) {
		for _, id := range []string{"test-session", "TEST-SESSION"} {
			if _, err := manager.Create(id, config); err != ErrSessionAlreadyExists {
				t.Errorf("%s: expected ErrSessionAlreadyExists, got %v", id, err)
			}
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		invalid := createTestConfig()
		invalid.Suits = 3
		if _, err := manager.Create("invalid-test", invalid); err == nil {
			t.Error("Expected error for three suits")
		}
	})

	t.Run("invalid ID", func(t *testing.T) {
		for _, id := range []string{"../escape", "a b", "dot.json"} {
			if _, err := manager.Create(id, config); err != ErrInvalidSessionID {
				t.Errorf("%q: expected ErrInvalidSessionID, got %v", id, err)
			}
		}
	})
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	created, _ := manager.CreateWithSeed("get-test", createTestConfig(), 11)

	t.Run("case-insensitive get", func(t *testing.T) {
		for _, id := range []string{"get-test", "GET-TEST"} {
			session, err := manager.Get(id)
			if err != nil {
				t.Fatalf("Failed to get %s: %v", id, err)
			}
			if session != created {
				t.Errorf("%s: expected the created session", id)
			}
		}
	})

	t.Run("missing session", func(t *testing.T) {
		if _, err := manager.Get("non-existent"); err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("invalid ID", func(t *testing.T) {
		if _, err := manager.Get("../../etc/passwd"); err != ErrInvalidSessionID {
			t.Errorf("Expected ErrInvalidSessionID, got %v", err)
		}
	})
}

func TestManager_GetOrCreate(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	first, err := manager.GetOrCreate("new-session", config)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	first.Engine.Deal()

	again, err := manager.GetOrCreate("new-session", config)
	if err != nil {
		t.Fatalf("Failed to get existing session: %v", err)
	}
	if again != first || len(again.Engine.GetState().Stock) != 40 {
		t.Error("Expected the existing game, with its deal, to be returned")
	}
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()
	manager.Create("delete-test", config)
	manager.Create("case-test", config)

	tests := []struct {
		name string
		id   string
		want error
	}{
		{"existing session", "delete-test", nil},
		{"already deleted", "delete-test", ErrSessionNotFound},
		{"different case", "CASE-TEST", nil},
		{"never created", "non-existent", ErrSessionNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := manager.Delete(tt.id); err != tt.want {
				t.Errorf("Delete(%s) = %v, want %v", tt.id, err, tt.want)
			}
		})
	}

	if manager.Count() != 0 {
		t.Errorf("Expected no sessions left, got %d", manager.Count())
	}
}

func TestManager_List(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	want := map[string]bool{}
	for i := 0; i < 3; i++ {
		sess, _ := manager.Create(fmt.Sprintf("list-%d", i), config)
		want[sess.ID] = true
	}

	sessions := manager.List()
	if len(sessions) != 3 {
		t.Fatalf("Expected 3 sessions, got %d", len(sessions))
	}
	for _, s := range sessions {
		if !want[s.ID] {
			t.Errorf("Unexpected session %s in list", s.ID)
		}
	}
}

func TestManager_CleanupExpiredSessions(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	policy := service.RetentionPolicy{Idle: time.Hour, Won: 7 * 24 * time.Hour}

	tests := []struct {
		name    string
		won     bool
		idle    time.Duration
		policy  service.RetentionPolicy
		expired bool
	}{
		{"game in progress, recently played", false, 30 * time.Minute, policy, false},
		{"game in progress, abandoned", false, 2 * time.Hour, policy, true},
		{"won game past the idle window", true, 2 * time.Hour, policy, false},
		{"won game past its retention", true, 8 * 24 * time.Hour, policy, true},
		{"won game kept with zero retention", true, 365 * 24 * time.Hour, service.RetentionPolicy{Idle: time.Hour}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager := NewManager()
			manager.now = func() time.Time { return now }

			sess, err := manager.CreateWithSeed("game", createTestConfig(), 3)
			if err != nil {
				t.Fatal(err)
			}
			if tt.won {
				finishGame(t, sess.Engine)
			}
			sess.LastAccessedAt = now.Add(-tt.idle)

			removed := manager.CleanupExpiredSessions(tt.policy)

			want := 0
			if tt.expired {
				want = 1
			}
			if removed != want {
				t.Errorf("Expected %d expired, got %d", want, removed)
			}
			if _, err := manager.Get("game"); (err == ErrSessionNotFound) != tt.expired {
				t.Errorf("Get after cleanup returned %v, expired=%v", err, tt.expired)
			}
		})
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return clock }

	session, _ := manager.Create("access-test", createTestConfig())
	clock = clock.Add(time.Minute)

	if err := manager.UpdateLastAccessed("ACCESS-TEST"); err != nil {
		t.Fatalf("Failed to update last accessed: %v", err)
	}
	if !session.LastAccessedAt.Equal(clock) {
		t.Errorf("Expected LastAccessedAt %v, got %v", clock, session.LastAccessedAt)
	}
	if !session.CreatedAt.Before(session.LastAccessedAt) {
		t.Error("CreatedAt should not move")
	}

	if err := manager.UpdateLastAccessed("missing"); err != ErrSessionNotFound {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	var wg sync.WaitGroup
	errs := make(chan error, 150)

	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			if _, err := manager.Create("", config); err != nil {
				errs <- err
			}
		}()
		go func() {
			defer wg.Done()
			manager.List()
			manager.Count()
		}()
		go func(i int) {
			defer wg.Done()
			if _, err := manager.Get(fmt.Sprintf("none-%d", i)); err != ErrSessionNotFound {
				errs <- fmt.Errorf("expected ErrSessionNotFound, got %v", err)
			}
		}(i)
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}

	if manager.Count() != 50 {
		t.Errorf("Expected 50 sessions with distinct IDs, got %d", manager.Count())
	}
}

func TestManager_SessionIsolation(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	session1, _ := manager.CreateWithSeed("iso-1", config, 7)
	session2, _ := manager.CreateWithSeed("iso-2", config, 7)

	if !session1.Engine.Deal() {
		t.Fatal("Expected deal to succeed")
	}

	if len(session2.Engine.GetState().Stock) != 50 {
		t.Error("Session 2 should not be affected by session 1 deals")
	}
	if session2.Engine.GetHistory().Len() != 0 {
		t.Error("Session 2 should have its own undo stack")
	}
}

func TestManager_CreateWithSeed(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	a, err := manager.CreateWithSeed("seed-a", config, 1234)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	b, _ := manager.CreateWithSeed("seed-b", config, 1234)

	sa, sb := a.Engine.GetState(), b.Engine.GetState()
	if sa.Seed != 1234 || sb.Seed != 1234 {
		t.Errorf("Expected seed 1234, got %d and %d", sa.Seed, sb.Seed)
	}
	for i := range sa.Columns {
		if len(sa.Columns[i]) != len(sb.Columns[i]) {
			t.Fatalf("Column %d differs in length", i)
		}
		for j := range sa.Columns[i] {
			if sa.Columns[i][j] != sb.Columns[i][j] {
				t.Errorf("Same seed dealt different cards at column %d row %d", i, j)
			}
		}
	}
}

func TestNewSeed(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 20; i++ {
		seed := NewSeed()
		if seed < 0 {
			t.Errorf("Expected non-negative seed, got %d", seed)
		}
		seen[seed] = true
	}
	if len(seen) < 2 {
		t.Error("Expected seeds to vary")
	}
}

func TestManager_GeneratedIDsAreUnique(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		session, err := manager.Create("", config)
		if err != nil {
			t.Fatalf("Failed to create session %d: %v", i, err)
		}
		if seen[session.ID] {
			t.Errorf("Duplicate session ID generated: %s", session.ID)
		}
		seen[session.ID] = true
		if len(session.ID) != 4 || !validID(session.ID) {
			t.Errorf("Expected a 4-character hex ID, got %q", session.ID)
		}
	}
}

func TestValidID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"a1b2", true},
		{"My_Game-2", true},
		{"", false},
		{"../x", false},
		{"x/y", false},
		{"x.json", false},
		{strings.Repeat("a", maxIDLength+1), false},
	}
	for _, tt := range tests {
		if got := validID(tt.id); got != tt.want {
			t.Errorf("validID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestManager_CorruptLoadIsReported(t *testing.T) {
	store := &memoryStore{loadErr: fmt.Errorf("session x: %w", ErrCorruptSession), ids: []string{"x"}}
	manager := NewManagerWithPersistence(store)

	_, err := manager.Get("x")
	if !errors.Is(err, ErrCorruptSession) {
		t.Errorf("Expected ErrCorruptSession from Get, got %v", err)
	}

	if err := manager.LoadPersistedSessions(); err != nil {
		t.Fatalf("LoadPersistedSessions should skip corrupt files, got %v", err)
	}
	if manager.Count() != 0 {
		t.Errorf("Expected no sessions loaded, got %d", manager.Count())
	}
}

// memoryStore is a SessionPersistence that never quarantines and fails every load with loadErr
type memoryStore struct {
	ids     []string
	loadErr error
}

func (s *memoryStore) Save(*service.Session) error { return nil }
func (s *memoryStore) Load(string) (*service.Session, error) { return nil, s.loadErr }
func (s *memoryStore) Delete(string) error { return nil }
func (s *memoryStore) ListAll() ([]string, error) { return s.ids, nil }
func (s *memoryStore) Exists(id string) bool { return len(s.ids) > 0 && s.ids[0] == id }

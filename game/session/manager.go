package session

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/spooder-solitaire/game/engine"
	"github.com/wricardo/spooder-solitaire/game/service"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

const maxIDLength = 64

// Manager keeps the loaded sessions, keyed by lower-cased ID, and writes them through to
// persistence when one is configured. The manager's lock guards the map only; the engines
// inside sessions are guarded by the game service.
type Manager struct {
	sessions    map[string]*service.Session
	persistence SessionPersistence
	now         func() time.Time
	mu          sync.RWMutex
}

// NewManager creates an in-memory session manager
func NewManager() *Manager {
	return NewManagerWithPersistence(nil)
}

// NewManagerWithPersistence creates a session manager backed by persistence
func NewManagerWithPersistence(persistence SessionPersistence) *Manager {
	return &Manager{
		sessions:    make(map[string]*service.Session),
		persistence: persistence,
		now:         time.Now,
	}
}

// Create deals a new game from a random seed
func (m *Manager) Create(id string, config *engine.GameConfig) (*service.Session, error) {
	return m.CreateWithSeed(id, config, NewSeed())
}

// CreateWithSeed creates a session whose first deal uses seed. An empty id gets a random
// 4-character one.
func (m *Manager) CreateWithSeed(id string, config *engine.GameConfig, seed int64) (*service.Session, error) {
	if id != "" && !validID(id) {
		return nil, ErrInvalidSessionID
	}

	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	if err := eng.Start(seed); err != nil {
		return nil, fmt.Errorf("failed to deal game: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = m.unusedID()
	} else if _, exists := m.sessions[key(id)]; exists {
		return nil, ErrSessionAlreadyExists
	}

	now := m.now()
	sess := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	m.sessions[key(id)] = sess

	if m.persistence != nil {
		if err := m.persistence.Save(sess); err != nil {
			log.Printf("Warning: Failed to persist session %s: %v", id, err)
		}
	}

	return sess, nil
}

// Get returns a loaded session, or loads it from persistence. IDs are case-insensitive.
func (m *Manager) Get(id string) (*service.Session, error) {
	if !validID(id) {
		return nil, ErrInvalidSessionID
	}

	m.mu.RLock()
	sess, ok := m.sessions[key(id)]
	m.mu.RUnlock()
	if ok {
		return sess, nil
	}

	if m.persistence == nil || !m.persistence.Exists(id) {
		return nil, ErrSessionNotFound
	}

	loaded, err := m.persistence.Load(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load persisted session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// another caller may have loaded it first
	if sess, ok := m.sessions[key(id)]; ok {
		return sess, nil
	}
	m.sessions[key(id)] = loaded
	return loaded, nil
}

// GetOrCreate gets an existing session or creates a new one
func (m *Manager) GetOrCreate(id string, config *engine.GameConfig) (*service.Session, error) {
	sess, err := m.Get(id)
	if errors.Is(err, ErrSessionNotFound) {
		return m.Create(id, config)
	}
	return sess, err
}

// List returns the loaded sessions
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		result = append(result, sess)
	}
	return result
}

// Delete removes a session from memory and storage
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	_, loaded := m.sessions[key(id)]
	delete(m.sessions, key(id))
	m.mu.Unlock()

	if m.persistence != nil && validID(id) && m.persistence.Exists(id) {
		if err := m.persistence.Delete(id); err != nil {
			return fmt.Errorf("failed to delete persisted session: %w", err)
		}
		return nil
	}

	if !loaded {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteFromMemory unloads a session, leaving its file in place
func (m *Manager) DeleteFromMemory(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[key(id)]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, key(id))
	return nil
}

// UpdateLastAccessed marks a session as played now. The game service calls it after every
// change, followed by Save, so it does not write to storage itself.
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[key(id)]
	if !ok {
		return ErrSessionNotFound
	}
	sess.LastAccessedAt = m.now()
	return nil
}

// Save writes one session to persistence
func (m *Manager) Save(id string) error {
	if m.persistence == nil {
		return nil
	}

	m.mu.RLock()
	sess, ok := m.sessions[key(id)]
	m.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	return m.persistence.Save(sess)
}

// CleanupExpiredSessions applies policy to the loaded sessions and returns how many were
// expired. Abandoned games are deleted from storage as well; won games are only unloaded.
// The caller must hold off changes to the engines while it runs.
func (m *Manager) CleanupExpiredSessions(policy service.RetentionPolicy) int {
	m.mu.Lock()
	now := m.now()
	var abandoned []string
	removed := 0
	for k, sess := range m.sessions {
		idle := now.Sub(sess.LastAccessedAt)
		if sess.Engine.IsWon() {
			if policy.Won <= 0 || idle < policy.Won {
				continue
			}
		} else {
			if idle < policy.Idle {
				continue
			}
			abandoned = append(abandoned, sess.ID)
		}
		delete(m.sessions, k)
		removed++
	}
	m.mu.Unlock()

	if m.persistence != nil {
		for _, id := range abandoned {
			if err := m.persistence.Delete(id); err != nil && !errors.Is(err, ErrSessionNotFound) {
				log.Printf("Warning: Failed to delete abandoned session %s: %v", id, err)
			}
		}
	}
	return removed
}

// Count returns the number of loaded sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// unusedID picks a random 4-character hex ID not taken by a loaded or stored session.
// Called with the lock held.
func (m *Manager) unusedID() string {
	for {
		b := make([]byte, 2)
		rand.Read(b)
		id := hex.EncodeToString(b)
		if _, taken := m.sessions[id]; taken {
			continue
		}
		if m.persistence == nil || !m.persistence.Exists(id) {
			return id
		}
	}
}

// NewSeed returns a random non-negative deal seed
func NewSeed() int64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.BigEndian.Uint64(b[:]) >> 1)
}

func key(id string) string {
	return strings.ToLower(id)
}

// validID accepts letters, digits, '-' and '_', which keeps IDs safe to use as file names
func validID(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

// LoadPersistedSessions loads every stored session that is not loaded yet. Files that fail
// validation are skipped, and quarantined when the persistence layer supports it.
func (m *Manager) LoadPersistedSessions() error {
	if m.persistence == nil {
		return nil
	}

	ids, err := m.persistence.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list persisted sessions: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	loaded, corrupt := 0, 0
	for _, id := range ids {
		if _, ok := m.sessions[key(id)]; ok || !validID(id) {
			continue
		}

		sess, err := m.persistence.Load(id)
		if errors.Is(err, ErrCorruptSession) {
			corrupt++
			log.Printf("Warning: Skipping corrupt session %s: %v", id, err)
			if q, ok := m.persistence.(interface{ Quarantine(string) error }); ok {
				if err := q.Quarantine(id); err != nil {
					log.Printf("Warning: %v", err)
				}
			}
			continue
		}
		if err != nil {
			log.Printf("Warning: Failed to load persisted session %s: %v", id, err)
			continue
		}

		m.sessions[key(id)] = sess
		loaded++
	}

	if loaded > 0 || corrupt > 0 {
		log.Printf("Loaded %d persisted sessions from storage (%d corrupt)", loaded, corrupt)
	}
	return nil
}

// SaveAllSessions writes every loaded session. It is meant for shutdown, once no more
// moves can arrive.
func (m *Manager) SaveAllSessions() error {
	if m.persistence == nil {
		return nil
	}

	failed := 0
	for _, sess := range m.List() {
		if err := m.persistence.Save(sess); err != nil {
			log.Printf("Warning: Failed to save session %s: %v", sess.ID, err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("failed to save %d sessions", failed)
	}
	return nil
}

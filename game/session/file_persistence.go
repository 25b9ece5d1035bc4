package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/spooder-solitaire/game/service"
)

const (
	fileExt    = ".json"
	corruptExt = ".corrupt"
)

// FilePersistence stores one JSON file per session in a directory
type FilePersistence struct {
	dir     string
	configs service.ConfigManager
}

// NewFilePersistence creates the sessions directory if needed
func NewFilePersistence(dir string, configs service.ConfigManager) (*FilePersistence, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}
	return &FilePersistence{dir: dir, configs: configs}, nil
}

// Save writes the session to a temporary file and renames it into place, so a crash
// mid-write leaves the previous save intact
func (fp *FilePersistence) Save(sess *service.Session) error {
	if sess == nil || sess.Engine == nil {
		return fmt.Errorf("session cannot be nil")
	}

	configID, err := fp.configID(sess.Config.Name)
	if err != nil {
		return fmt.Errorf("failed to get config ID: %w", err)
	}

	data, err := json.MarshalIndent(newSavedGame(sess, configID), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", sess.ID, err)
	}

	tmp, err := os.CreateTemp(fp.dir, "."+sess.ID+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), fp.path(sess.ID)); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}

// Load reads a session file and rebuilds its engine. Files that fail validation return an
// error wrapping ErrCorruptSession.
func (fp *FilePersistence) Load(id string) (*service.Session, error) {
	raw, err := os.ReadFile(fp.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var saved SavedGame
	if err := json.Unmarshal(raw, &saved); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSession, err)
	}
	if !strings.EqualFold(saved.ID, id) {
		return nil, fmt.Errorf("%w: file %s holds session %q", ErrCorruptSession, id, saved.ID)
	}

	config, err := fp.configs.LoadConfig(saved.ConfigID)
	if err != nil {
		return nil, fmt.Errorf("failed to load config '%s': %w", saved.ConfigID, err)
	}

	eng, err := saved.restore(config)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}

	return &service.Session{
		ID:             saved.ID,
		Engine:         eng,
		Config:         config,
		CreatedAt:      saved.CreatedAt,
		LastAccessedAt: saved.LastAccessedAt,
	}, nil
}

// Delete removes a session file
func (fp *FilePersistence) Delete(id string) error {
	err := os.Remove(fp.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrSessionNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// Quarantine renames a session file that failed to load so it is no longer listed. The
// file is kept for inspection.
func (fp *FilePersistence) Quarantine(id string) error {
	if err := os.Rename(fp.path(id), fp.path(id)+corruptExt); err != nil {
		return fmt.Errorf("failed to quarantine session %s: %w", id, err)
	}
	return nil
}

// ListAll returns the IDs of every stored session
func (fp *FilePersistence) ListAll() ([]string, error) {
	entries, err := os.ReadDir(fp.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, fileExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, fileExt))
	}
	return ids, nil
}

// Exists checks if a session file exists
func (fp *FilePersistence) Exists(id string) bool {
	_, err := os.Stat(fp.path(id))
	return err == nil
}

func (fp *FilePersistence) path(id string) string {
	return filepath.Join(fp.dir, id+fileExt)
}

// configID maps a display name such as "Two Suits" to its file name, so the saved game
// keeps loading if the display name changes
func (fp *FilePersistence) configID(name string) (string, error) {
	configs, err := fp.configs.ListConfigs()
	if err != nil {
		return "", fmt.Errorf("failed to list configs: %w", err)
	}
	for _, c := range configs {
		if c.Name == name {
			return c.ConfigID, nil
		}
	}
	return name, nil
}

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fieldops-console/internal/modal"
)

const (
	appDir      = "fieldops"
	sessionFile = "session.json"
	// userKey is the single key the user record is stored under.
	userKey = "user"
)

// Store persists the signed-in user between CLI invocations.
type Store struct {
	Path string
}

func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, sessionFile), nil
}

func NewStore(path string) (*Store, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve session path: %w", err)
		}
		path = p
	}
	return &Store{Path: path}, nil
}

// Load rehydrates the session. A missing file is an anonymous session.
func (s *Store) Load() (Session, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Anonymous, nil
		}
		return Anonymous, err
	}
	defer f.Close()

	var doc map[string]*modal.User
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return Anonymous, fmt.Errorf("failed to decode session: %w", err)
	}
	u := doc[userKey]
	if u == nil {
		return Anonymous, nil
	}
	return New(*u), nil
}

func (s *Store) Save(sess Session) error {
	u, ok := sess.User()
	if !ok {
		return s.Clear()
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	f, err := os.OpenFile(s.Path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open session file for writing: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(map[string]modal.User{userKey: u})
}

// Clear forgets the stored user. Clearing an absent file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

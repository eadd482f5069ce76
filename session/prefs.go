package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// PreferenceKey is the durable-storage key under which the persistence
// preference is stored.
const PreferenceKey = "auth_persistence_preference"

// Preference is the persisted user choice: mode plus optional auto-sign-out
// window. It survives reloads and is reapplied at startup before any other
// session logic runs.
type Preference struct {
	Mode               Mode `json:"mode"`
	AutoSignOutMinutes int  `json:"autoSignOutMinutes,omitempty"`
}

// PreferenceStore is the durable client storage boundary. Load returns
// (nil, nil) when no preference has been saved yet.
type PreferenceStore interface {
	Load(ctx context.Context) (*Preference, error)
	Save(ctx context.Context, pref Preference) error
}

// MemoryPreferenceStore is an in-process [PreferenceStore], mainly for tests
// and memory-only deployments.
type MemoryPreferenceStore struct {
	mu   sync.Mutex
	pref *Preference
}

// NewMemoryPreferenceStore describes the newmemorypreferencestore operation and its observable behavior.
func NewMemoryPreferenceStore() *MemoryPreferenceStore {
	return &MemoryPreferenceStore{}
}

func (s *MemoryPreferenceStore) Load(context.Context) (*Preference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pref == nil {
		return nil, nil
	}
	out := *s.pref
	return &out, nil
}

func (s *MemoryPreferenceStore) Save(_ context.Context, pref Preference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pref = &pref
	return nil
}

// FilePreferenceStore persists the preference as a small JSON document on
// disk, keyed by [PreferenceKey] so the file remains self-describing.
type FilePreferenceStore struct {
	mu   sync.Mutex
	path string
}

// NewFilePreferenceStore creates a store writing to the given path. The file
// is created on first Save.
func NewFilePreferenceStore(path string) *FilePreferenceStore {
	return &FilePreferenceStore{path: path}
}

func (s *FilePreferenceStore) Load(context.Context) (*Preference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read preference file: %w", err)
	}

	var doc map[string]Preference
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode preference file: %w", err)
	}
	pref, ok := doc[PreferenceKey]
	if !ok {
		return nil, nil
	}
	return &pref, nil
}

func (s *FilePreferenceStore) Save(_ context.Context, pref Preference) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(map[string]Preference{PreferenceKey: pref}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode preference: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write preference file: %w", err)
	}
	return nil
}

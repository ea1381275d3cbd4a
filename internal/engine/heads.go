package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// HeadsFileName is the name of the persisted package-head store
const HeadsFileName = ".subrepo_heads"

// HeadStore tracks the last commit hash observed for each package subtree.
// Mutations are flushed to durable storage immediately, so a crash mid-run
// leaves completed package units correctly marked as done.
type HeadStore interface {
	// Get returns the recorded head for key, if any
	Get(key string) (string, bool)

	// IsChanged reports whether head differs from the recorded value for
	// key. Absence of a prior value counts as changed.
	IsChanged(key, head string) bool

	// Record persists head as the last-seen value for key
	Record(key, head string) error

	// Prune removes every recorded key not present in live
	Prune(live map[string]struct{}) error
}

// HeadsPath returns the location of the head store for a host project:
// inside .git when the host is a git repository, at the host root otherwise.
func HeadsPath(hostRoot string) string {
	gitDir := filepath.Join(hostRoot, ".git")
	if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
		return filepath.Join(gitDir, HeadsFileName)
	}
	return filepath.Join(hostRoot, HeadsFileName)
}

// fileHeadStore is the durable HeadStore implementation
type fileHeadStore struct {
	path  string
	heads map[string]string
}

// OpenHeadStore loads the head store at path. A missing or corrupt file is
// treated as an empty store; that only forces a full re-sync, never an abort.
func OpenHeadStore(path string) HeadStore {
	store := &fileHeadStore{
		path:  path,
		heads: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return store
	}
	if err := json.Unmarshal(data, &store.heads); err != nil {
		store.heads = make(map[string]string)
	}
	return store
}

func (s *fileHeadStore) Get(key string) (string, bool) {
	head, ok := s.heads[key]
	return head, ok
}

func (s *fileHeadStore) IsChanged(key, head string) bool {
	prev, ok := s.heads[key]
	return !ok || prev != head
}

func (s *fileHeadStore) Record(key, head string) error {
	if prev, ok := s.heads[key]; ok && prev == head {
		return nil
	}
	s.heads[key] = head
	return s.flush()
}

func (s *fileHeadStore) Prune(live map[string]struct{}) error {
	removed := false
	for key := range s.heads {
		if _, ok := live[key]; !ok {
			delete(s.heads, key)
			removed = true
		}
	}
	if !removed {
		// Leaves the file byte-identical when nothing changed.
		return nil
	}
	return s.flush()
}

func (s *fileHeadStore) flush() error {
	data, err := json.MarshalIndent(s.heads, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal head store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write head store: %w", err)
	}
	return nil
}

// MemoryHeadStore is an in-memory HeadStore for tests
type MemoryHeadStore struct {
	Heads map[string]string
}

// NewMemoryHeadStore creates an empty in-memory head store
func NewMemoryHeadStore() *MemoryHeadStore {
	return &MemoryHeadStore{Heads: make(map[string]string)}
}

// Get returns the recorded head for key, if any
func (s *MemoryHeadStore) Get(key string) (string, bool) {
	head, ok := s.Heads[key]
	return head, ok
}

// IsChanged reports whether head differs from the recorded value for key
func (s *MemoryHeadStore) IsChanged(key, head string) bool {
	prev, ok := s.Heads[key]
	return !ok || prev != head
}

// Record stores head as the last-seen value for key
func (s *MemoryHeadStore) Record(key, head string) error {
	s.Heads[key] = head
	return nil
}

// Prune removes every recorded key not present in live
func (s *MemoryHeadStore) Prune(live map[string]struct{}) error {
	for key := range s.Heads {
		if _, ok := live[key]; !ok {
			delete(s.Heads, key)
		}
	}
	return nil
}

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"blogd/internal/observability"
)

// Store persists one JSON document per resource under a base directory.
// Every collection is read and written whole; a per-resource mutex
// serializes the load-mutate-save sequence so two concurrent writers
// cannot drop each other's changes.
type Store struct {
	dir  string
	prom *observability.Prom

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(dir string, prom *observability.Prom) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create data dir %s: %w", dir, err)
	}

	return &Store{
		dir:   dir,
		prom:  prom,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// WithLock runs fn while holding the mutex for one resource. Repos wrap
// their whole read-modify-write in it.
func (s *Store) WithLock(resource string, fn func() error) error {
	l := s.lockFor(resource)
	l.Lock()
	defer l.Unlock()

	return fn()
}

// Load decodes the resource's collection into dest. A missing file is
// not an error: dest is left zeroed, which callers treat as an empty
// collection (first run starts with an empty data dir).
func (s *Store) Load(resource string, dest any) error {
	return s.observe("load", func() error {
		raw, err := os.ReadFile(s.path(resource))

		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}

			return fmt.Errorf("store: read %s: %w", resource, err)
		}

		if err := json.Unmarshal(raw, dest); err != nil {
			return fmt.Errorf("store: decode %s: %w", resource, err)
		}

		return nil
	})
}

// Save replaces the resource's document. The document is written to a
// temp file first and renamed into place, so readers never observe a
// partial write.
func (s *Store) Save(resource string, v any) error {
	return s.observe("save", func() error {
		raw, err := json.MarshalIndent(v, "", "  ")

		if err != nil {
			return fmt.Errorf("store: encode %s: %w", resource, err)
		}

		target := s.path(resource)

		tmp, err := os.CreateTemp(s.dir, resource+"-*.tmp")

		if err != nil {
			return fmt.Errorf("store: write %s: %w", resource, err)
		}

		tmpName := tmp.Name()

		_, werr := tmp.Write(raw)
		cerr := tmp.Close()

		if werr != nil || cerr != nil {
			_ = os.Remove(tmpName)

			if werr != nil {
				return fmt.Errorf("store: write %s: %w", resource, werr)
			}
			return fmt.Errorf("store: write %s: %w", resource, cerr)
		}

		if err := os.Rename(tmpName, target); err != nil {
			_ = os.Remove(tmpName)
			return fmt.Errorf("store: replace %s: %w", resource, err)
		}

		return nil
	})
}

func (s *Store) path(resource string) string {
	return filepath.Join(s.dir, resource+".json")
}

func (s *Store) lockFor(resource string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[resource]
	if !ok {
		l = &sync.Mutex{}
		s.locks[resource] = l
	}

	return l
}

func (s *Store) observe(op string, fn func() error) error {
	if s.prom == nil {
		return fn()
	}

	return s.prom.ObserveStore(op, fn)
}

package store_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"blogd/internal/store"
)

type record struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func newStore(t *testing.T) *store.Store {
	t.Helper()

	st, err := store.New(t.TempDir(), nil)

	if err != nil {
		t.Fatalf("store.New: %v", err)
	}

	return st
}

func TestLoadMissingFileReturnsEmpty(t *testing.T) {
	st := newStore(t)

	var recs []record

	if err := st.Load("widgets", &recs); err != nil {
		t.Fatalf("load of missing file should not error, got %v", err)
	}

	if len(recs) != 0 {
		t.Fatalf("expected empty collection, got %d records", len(recs))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st := newStore(t)

	in := []record{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}

	if err := st.Save("widgets", in); err != nil {
		t.Fatalf("save: %v", err)
	}

	var out []record

	if err := st.Load("widgets", &out); err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(out) != 2 || out[0].Name != "a" || out[1].ID != 2 {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestSaveReplacesWholeDocument(t *testing.T) {
	st := newStore(t)

	if err := st.Save("widgets", []record{{ID: 1}, {ID: 2}, {ID: 3}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := st.Save("widgets", []record{{ID: 9}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	var out []record

	if err := st.Load("widgets", &out); err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(out) != 1 || out[0].ID != 9 {
		t.Fatalf("expected the second save to replace the document, got %+v", out)
	}
}

func TestLoadCorruptFileFails(t *testing.T) {
	st := newStore(t)

	path := filepath.Join(st.Dir(), "widgets.json")

	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	var out []record

	if err := st.Load("widgets", &out); err == nil {
		t.Fatal("expected error for corrupt document")
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	st := newStore(t)

	if err := st.Save("widgets", []record{{ID: 1}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	entries, err := os.ReadDir(st.Dir())

	if err != nil {
		t.Fatalf("read dir: %v", err)
	}

	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

// Concurrent read-modify-write sequences under WithLock must not lose
// updates.
func TestWithLockSerializesWriters(t *testing.T) {
	st := newStore(t)

	const writers = 20

	var wg sync.WaitGroup

	for i := 0; i < writers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			err := st.WithLock("widgets", func() error {
				var recs []record

				if err := st.Load("widgets", &recs); err != nil {
					return err
				}

				recs = append(recs, record{ID: int64(len(recs) + 1)})

				return st.Save("widgets", recs)
			})

			if err != nil {
				t.Errorf("locked write: %v", err)
			}
		}()
	}

	wg.Wait()

	var recs []record

	if err := st.Load("widgets", &recs); err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(recs) != writers {
		t.Fatalf("lost updates: want %d records, got %d", writers, len(recs))
	}
}

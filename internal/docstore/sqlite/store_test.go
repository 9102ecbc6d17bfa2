package sqlite

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/Seednode/spydle/internal/docstore"
)

func openTempStore(t *testing.T) (*Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "spydle.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestSaveLoadDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := openTempStore(t)

	if err := store.SaveDocument(ctx, "rooms/1234", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.SaveDocument(ctx, "rooms/1234", []byte(`{"a":2}`)); err != nil {
		t.Fatalf("save again: %v", err)
	}

	docs, err := store.LoadDocuments(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := string(docs["rooms/1234"]); got != `{"a":2}` {
		t.Fatalf("document = %s, want %s", got, `{"a":2}`)
	}

	if err := store.DeleteDocument(ctx, "rooms/1234"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	docs, err = store.LoadDocuments(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("documents = %v, want none", docs)
	}
}

func TestMigrationsRunOnce(t *testing.T) {
	t.Parallel()

	store, path := openTempStore(t)
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	var count int
	if err := reopened.sqlDB.QueryRow(`SELECT COUNT(1) FROM schema_migrations`).Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 1 {
		t.Fatalf("migrations = %d, want 1", count)
	}
}

func TestTreeSurvivesReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, path := openTempStore(t)

	tree, err := docstore.Open(ctx, store)
	if err != nil {
		t.Fatalf("open tree: %v", err)
	}
	if err := tree.Set(ctx, "rooms/4321/meta", map[string]string{"pack": "nature"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := tree.Push(ctx, "rooms/4321/log", map[string]string{"text": "hello"}); err != nil {
		t.Fatalf("push: %v", err)
	}
	tree.Close()
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	tree, err = docstore.Open(ctx, reopened)
	if err != nil {
		t.Fatalf("reopen tree: %v", err)
	}
	snap, err := tree.Get(ctx, "rooms/4321/meta/pack")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(snap.Value) != `"nature"` {
		t.Fatalf("pack = %s, want %q", snap.Value, "nature")
	}

	var log map[string]struct {
		Text string `json:"text"`
	}
	snap, _ = tree.Get(ctx, "rooms/4321/log")
	if err := snap.Decode(&log); err != nil {
		t.Fatalf("decode log: %v", err)
	}
	if len(log) != 1 {
		t.Fatalf("log = %v, want one entry", log)
	}
}

func TestSaveDocumentsIsAtomic(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := openTempStore(t)

	if err := store.SaveDocument(ctx, "rooms/1000", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("save: %v", err)
	}

	err := store.SaveDocuments(ctx, map[string]json.RawMessage{
		"rooms/1000": nil,
		"rooms/2000": []byte(`{"b":2}`),
	})
	if err != nil {
		t.Fatalf("save documents: %v", err)
	}
	docs, err := store.LoadDocuments(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(docs) != 1 || string(docs["rooms/2000"]) != `{"b":2}` {
		t.Fatalf("documents = %v", docs)
	}

	if _, err := store.sqlDB.ExecContext(ctx, `CREATE TRIGGER reject_bad BEFORE INSERT ON documents
		WHEN NEW.path = 'rooms/9999' BEGIN SELECT RAISE(ABORT, 'rejected'); END`); err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	tree, err := docstore.Open(ctx, store)
	if err != nil {
		t.Fatalf("open tree: %v", err)
	}
	defer tree.Close()

	err = tree.Update(ctx, map[string]any{
		"rooms/2000/b":    3,
		"rooms/3000/c":    4,
		"rooms/9999/fail": true,
	})
	if err == nil {
		t.Fatal("expected the trigger to fail the update")
	}

	docs, err = store.LoadDocuments(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(docs) != 1 || string(docs["rooms/2000"]) != `{"b":2}` {
		t.Fatalf("documents after failed update = %v, want unchanged", docs)
	}

	snap, err := tree.Get(ctx, "rooms/2000/b")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(snap.Value) != "2" {
		t.Fatalf("b = %s, want rolled back to 2", snap.Value)
	}
}

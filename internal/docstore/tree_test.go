package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"slices"
	"sync"
	"testing"
	"time"
)

func watchChan(t *testing.T, tr *Tree, path string) <-chan Snapshot {
	t.Helper()

	ch := make(chan Snapshot, 64)
	cancel, err := tr.Watch(path, func(s Snapshot) { ch <- s })
	if err != nil {
		t.Fatalf("watch %s: %v", path, err)
	}
	t.Cleanup(cancel)
	return ch
}

func recv(t *testing.T, ch <-chan Snapshot) Snapshot {
	t.Helper()

	select {
	case s := <-ch:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return Snapshot{}
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tr := NewTree()

	type doc struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
		On    bool   `json:"on"`
	}
	if err := tr.Set(ctx, "rooms/1234/meta", doc{Name: "x", Count: 3, On: true}); err != nil {
		t.Fatalf("set: %v", err)
	}

	snap, err := tr.Get(ctx, "rooms/1234/meta")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !snap.Exists {
		t.Fatal("snapshot missing")
	}
	var got doc
	if err := snap.Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != (doc{Name: "x", Count: 3, On: true}) {
		t.Fatalf("got %+v", got)
	}

	count, err := tr.Get(ctx, "/rooms/1234/meta/count/")
	if err != nil {
		t.Fatalf("get leaf: %v", err)
	}
	if string(count.Value) != "3" {
		t.Fatalf("leaf = %s, want 3", count.Value)
	}
}

func TestNullDeletesAndPrunes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tr := NewTree()

	if err := tr.Set(ctx, "a/b/c", "x"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := tr.Set(ctx, "a/b/c", nil); err != nil {
		t.Fatalf("set nil: %v", err)
	}
	snap, err := tr.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if snap.Exists {
		t.Fatalf("a = %s, want pruned", snap.Value)
	}

	if err := tr.Set(ctx, "a", map[string]any{"x": nil, "y": map[string]any{}}); err != nil {
		t.Fatalf("set empty: %v", err)
	}
	if snap, _ := tr.Get(ctx, "a"); snap.Exists {
		t.Fatalf("a = %s, want nothing stored", snap.Value)
	}
}

func TestArraysDegradeToMaps(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tr := NewTree()

	if err := tr.Set(ctx, "list", []string{"a", "b", "c"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := tr.Set(ctx, "list/1", "B"); err != nil {
		t.Fatalf("set index: %v", err)
	}
	snap, _ := tr.Get(ctx, "list")
	if string(snap.Value) != `["a","B","c"]` {
		t.Fatalf("list = %s", snap.Value)
	}

	if err := tr.Remove(ctx, "list/0"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	snap, _ = tr.Get(ctx, "list")
	if string(snap.Value) != `[null,"B","c"]` {
		t.Fatalf("sparse list = %s", snap.Value)
	}

	if err := tr.Set(ctx, "long", []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}); err != nil {
		t.Fatalf("set long: %v", err)
	}
	for i := range 8 {
		if err := tr.Remove(ctx, "long/"+string(rune('0'+i))); err != nil {
			t.Fatalf("remove: %v", err)
		}
	}
	snap, _ = tr.Get(ctx, "long")
	var m map[string]int
	if err := json.Unmarshal(snap.Value, &m); err != nil {
		t.Fatalf("long = %s, want an object: %v", snap.Value, err)
	}
	if len(m) != 2 || m["8"] != 8 || m["9"] != 9 {
		t.Fatalf("long = %v", m)
	}
}

func TestUpdateIsOneNotification(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tr := NewTree()
	if err := tr.Set(ctx, "rooms/1/game", map[string]any{"a": 1, "b": 2}); err != nil {
		t.Fatalf("set: %v", err)
	}

	ch := watchChan(t, tr, "rooms/1")
	recv(t, ch)

	err := tr.Update(ctx, map[string]any{
		"rooms/1/game/a": 10,
		"rooms/1/game/b": nil,
		"rooms/1/clue":   "x",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	snap := recv(t, ch)
	var got struct {
		Game map[string]int `json:"game"`
		Clue string         `json:"clue"`
	}
	if err := snap.Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Game["a"] != 10 || len(got.Game) != 1 || got.Clue != "x" {
		t.Fatalf("room = %+v", got)
	}

	select {
	case s := <-ch:
		t.Fatalf("unexpected second notification %s", s.Value)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUpdateRejectsRoot(t *testing.T) {
	t.Parallel()

	err := NewTree().Update(context.Background(), map[string]any{"/": 1})
	if !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("err = %v, want %v", err, ErrInvalidPath)
	}
}

func TestPushKeysAreOrdered(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tr := NewTree()

	var keys []string
	for i := range 50 {
		key, err := tr.Push(ctx, "rooms/1/log", map[string]int{"n": i})
		if err != nil {
			t.Fatalf("push: %v", err)
		}
		keys = append(keys, key)
	}
	if !slices.IsSorted(keys) {
		t.Fatal("push keys are not in write order")
	}

	snap, _ := tr.Get(ctx, "rooms/1/log")
	var log map[string]struct{ N int }
	if err := snap.Decode(&log); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for i, k := range slices.Sorted(maps.Keys(log)) {
		if log[k].N != i {
			t.Fatalf("entry %d = %d", i, log[k].N)
		}
	}
}

func TestInvalidPaths(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tr := NewTree()
	for _, p := range []string{"a//b", "a.b", "a/$b", "a/#", "a/[0]"} {
		if err := tr.Set(ctx, p, 1); !errors.Is(err, ErrInvalidPath) {
			t.Fatalf("set %q err = %v, want %v", p, err, ErrInvalidPath)
		}
	}
}

func TestWatchDeliversCurrentThenChanges(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tr := NewTree()
	if err := tr.Set(ctx, "rooms/1/meta", "m"); err != nil {
		t.Fatalf("set: %v", err)
	}

	ch := watchChan(t, tr, "rooms/1")
	if s := recv(t, ch); !s.Exists {
		t.Fatal("initial snapshot missing")
	}

	// Unrelated writes do not notify.
	if err := tr.Set(ctx, "rooms/2/meta", "other"); err != nil {
		t.Fatalf("set: %v", err)
	}
	// Writes above the watched path do.
	if err := tr.Remove(ctx, "rooms"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if s := recv(t, ch); s.Exists {
		t.Fatalf("snapshot after removal = %s, want missing", s.Value)
	}
}

func TestWatchCallbackMayWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tr := NewTree()

	var (
		mu   sync.Mutex
		seen []string
	)
	done := make(chan struct{})
	cancel, err := tr.Watch("counter", func(s Snapshot) {
		mu.Lock()
		seen = append(seen, string(s.Value))
		n := len(seen)
		mu.Unlock()

		if n < 4 {
			_ = tr.Set(ctx, "counter", n)
			return
		}
		close(done)
	})
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out")
	}

	mu.Lock()
	defer mu.Unlock()
	if !slices.Equal(seen, []string{"", "1", "2", "3"}) {
		t.Fatalf("seen = %q", seen)
	}
}

func TestCloseStopsWrites(t *testing.T) {
	t.Parallel()

	tr := NewTree()
	tr.Close()
	if err := tr.Set(context.Background(), "a", 1); !errors.Is(err, ErrClosed) {
		t.Fatalf("err = %v, want %v", err, ErrClosed)
	}
	if _, err := tr.Watch("a", func(Snapshot) {}); !errors.Is(err, ErrClosed) {
		t.Fatalf("watch err = %v, want %v", err, ErrClosed)
	}
}

type memPersister struct {
	mu   sync.Mutex
	docs map[string]json.RawMessage
	fail bool
}

func newMemPersister() *memPersister {
	return &memPersister{docs: make(map[string]json.RawMessage)}
}

func (p *memPersister) LoadDocuments(context.Context) (map[string]json.RawMessage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return maps.Clone(p.docs), nil
}

func (p *memPersister) SaveDocument(_ context.Context, path string, body json.RawMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("disk full")
	}
	p.docs[path] = body
	return nil
}

func (p *memPersister) DeleteDocument(_ context.Context, path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("disk full")
	}
	delete(p.docs, path)
	return nil
}

func TestPersisterWritesWholeDocuments(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := newMemPersister()
	tr := NewTree(WithPersister(p))

	if err := tr.Set(ctx, "rooms/1/meta/pack", "classic"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := tr.Set(ctx, "rooms/2/meta/pack", "nature"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := string(p.docs["rooms/1"]); got != `{"meta":{"pack":"classic"}}` {
		t.Fatalf("rooms/1 = %s", got)
	}

	if err := tr.Remove(ctx, "rooms"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(p.docs) != 0 {
		t.Fatalf("docs = %v, want none", p.docs)
	}
}

func TestPersisterFailureRollsBack(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := newMemPersister()
	tr := NewTree(WithPersister(p))

	if err := tr.Set(ctx, "rooms/1/clue", "old"); err != nil {
		t.Fatalf("set: %v", err)
	}
	p.fail = true
	if err := tr.Set(ctx, "rooms/1/clue", "new"); err == nil {
		t.Fatal("expected persist error")
	}

	snap, _ := tr.Get(ctx, "rooms/1/clue")
	if string(snap.Value) != `"old"` {
		t.Fatalf("clue = %s, want rolled back", snap.Value)
	}
}

func TestOpenLoadsDocuments(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := newMemPersister()
	p.docs["rooms/9"] = json.RawMessage(`{"meta":{"pack":"fantasy"},"log":["a","b"]}`)

	tr, err := Open(ctx, p)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	snap, _ := tr.Get(ctx, "rooms/9/log")
	if string(snap.Value) != `["a","b"]` {
		t.Fatalf("log = %s", snap.Value)
	}
}

// batchPersister applies a whole batch or none of it.
type batchPersister struct {
	*memPersister
	batches int
}

func (p *batchPersister) SaveDocuments(_ context.Context, docs map[string]json.RawMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.batches++
	if p.fail {
		return errors.New("disk full")
	}
	for path, body := range docs {
		if body == nil {
			delete(p.docs, path)
			continue
		}
		p.docs[path] = body
	}
	return nil
}

func TestMultiDocumentWritesUseBatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := &batchPersister{memPersister: newMemPersister()}
	tr := NewTree(WithPersister(p))

	if err := tr.Set(ctx, "rooms/1/clue", "a"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if p.batches != 0 {
		t.Fatalf("batches = %d after a single-document write, want 0", p.batches)
	}

	err := tr.Update(ctx, map[string]any{
		"rooms/1/clue": "b",
		"rooms/2/clue": "c",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.batches != 1 || string(p.docs["rooms/2"]) != `{"clue":"c"}` {
		t.Fatalf("batches = %d, docs = %v", p.batches, p.docs)
	}

	p.fail = true
	err = tr.Update(ctx, map[string]any{
		"rooms/1/clue": "x",
		"rooms/3/clue": "y",
	})
	if err == nil {
		t.Fatal("expected persist error")
	}
	if string(p.docs["rooms/1"]) != `{"clue":"b"}` {
		t.Fatalf("rooms/1 = %s, want the last committed write", p.docs["rooms/1"])
	}
	if _, ok := p.docs["rooms/3"]; ok {
		t.Fatal("rooms/3 saved by a failed batch")
	}

	snap, _ := tr.Get(ctx, "rooms/3")
	if snap.Exists {
		t.Fatalf("rooms/3 = %s, want rolled back", snap.Value)
	}
}

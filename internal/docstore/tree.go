package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// DefaultDocumentDepth is the path depth at which a Persister sees whole
// documents.
const DefaultDocumentDepth = 2

// Tree is an in-memory Store, optionally written through to a Persister.
type Tree struct {
	mu       sync.Mutex
	root     map[string]any
	watchers map[uint64]*watcher
	nextID   uint64
	closed   bool

	persister Persister
	depth     int
}

type Option func(*Tree)

// WithPersister writes every changed document through p.
func WithPersister(p Persister) Option {
	return func(t *Tree) {
		t.persister = p
	}
}

// WithDocumentDepth changes the depth at which documents are persisted.
func WithDocumentDepth(depth int) Option {
	return func(t *Tree) {
		if depth > 0 {
			t.depth = depth
		}
	}
}

func NewTree(opts ...Option) *Tree {
	t := &Tree{
		root:     make(map[string]any),
		watchers: make(map[uint64]*watcher),
		depth:    DefaultDocumentDepth,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Open builds a Tree and loads every document already held by p.
func Open(ctx context.Context, p Persister, opts ...Option) (*Tree, error) {
	t := NewTree(append(opts, WithPersister(p))...)

	docs, err := p.LoadDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}

	for path, body := range docs {
		segs, err := splitPath(path)
		if err != nil {
			return nil, err
		}
		v, err := decodeNormalized(body)
		if err != nil {
			return nil, fmt.Errorf("decode document %s: %w", path, err)
		}
		setAt(t.root, segs, v)
	}

	return t, nil
}

type write struct {
	segs  []string
	value any
}

func (t *Tree) Get(ctx context.Context, path string) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	segs, err := splitPath(path)
	if err != nil {
		return Snapshot{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	return t.snapshotLocked(segs)
}

func (t *Tree) Set(ctx context.Context, path string, value any) error {
	segs, err := splitPath(path)
	if err != nil {
		return err
	}
	v, err := normalize(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return t.apply(ctx, []write{{segs, v}})
}

func (t *Tree) Update(ctx context.Context, values map[string]any) error {
	writes := make([]write, 0, len(values))
	for _, path := range slices.Sorted(maps.Keys(values)) {
		segs, err := splitPath(path)
		if err != nil {
			return err
		}
		if len(segs) == 0 {
			return fmt.Errorf("%w: update of the root", ErrInvalidPath)
		}
		v, err := normalize(values[path])
		if err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		writes = append(writes, write{segs, v})
	}
	return t.apply(ctx, writes)
}

func (t *Tree) Push(ctx context.Context, path string, value any) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("push key: %w", err)
	}
	key := id.String()

	segs, err := splitPath(path)
	if err != nil {
		return "", err
	}
	v, err := normalize(value)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", path, err)
	}

	if err := t.apply(ctx, []write{{append(segs, key), v}}); err != nil {
		return "", err
	}
	return key, nil
}

func (t *Tree) Remove(ctx context.Context, path string) error {
	segs, err := splitPath(path)
	if err != nil {
		return err
	}
	return t.apply(ctx, []write{{segs, nil}})
}

func (t *Tree) Watch(path string, fn func(Snapshot)) (func(), error) {
	segs, err := splitPath(path)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil, ErrClosed
	}

	snap, err := t.snapshotLocked(segs)
	if err != nil {
		return nil, err
	}

	id := t.nextID
	t.nextID++
	w := newWatcher(segs, fn)
	t.watchers[id] = w
	w.enqueue(snap)
	go w.run()

	return func() {
		t.mu.Lock()
		delete(t.watchers, id)
		t.mu.Unlock()
		w.stop()
	}, nil
}

// Close stops every watcher. Later writes fail with ErrClosed.
func (t *Tree) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closed = true
	for id, w := range t.watchers {
		delete(t.watchers, id)
		w.stop()
	}
}

func (t *Tree) snapshotLocked(segs []string) (Snapshot, error) {
	snap := Snapshot{Path: joinPath(segs)}

	v := getAt(t.root, segs)
	if v == nil {
		return snap, nil
	}

	raw, err := json.Marshal(render(v))
	if err != nil {
		return Snapshot{}, fmt.Errorf("encode %s: %w", snap.Path, err)
	}
	snap.Exists = true
	snap.Value = raw
	return snap, nil
}

func (t *Tree) apply(ctx context.Context, writes []write) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}

	var before map[string]any
	if t.persister != nil {
		before = t.documentsLocked(writes)
	}

	for _, w := range writes {
		setAt(t.root, w.segs, w.value)
	}

	if t.persister != nil {
		if err := t.persistLocked(ctx, before); err != nil {
			for path, v := range before {
				segs, _ := splitPath(path)
				setAt(t.root, segs, v)
			}
			return err
		}
	}

	t.notifyLocked(writes)
	return nil
}

// documentsLocked returns deep copies of every document the writes can
// touch, keyed by document path. Documents that do not exist yet map to nil.
func (t *Tree) documentsLocked(writes []write) map[string]any {
	docs := make(map[string]any)
	for _, w := range writes {
		for _, segs := range t.documentPathsLocked(w) {
			path := joinPath(segs)
			if _, ok := docs[path]; !ok {
				docs[path] = deepClone(getAt(t.root, segs))
			}
		}
	}
	return docs
}

// documentPathsLocked lists the documents below or containing a write.
func (t *Tree) documentPathsLocked(w write) [][]string {
	if len(w.segs) >= t.depth {
		return [][]string{w.segs[:t.depth]}
	}

	var out [][]string
	var walk func(prefix []string, v any)
	walk = func(prefix []string, v any) {
		if len(prefix) == t.depth {
			out = append(out, slices.Clone(prefix))
			return
		}
		m, ok := v.(map[string]any)
		if !ok {
			return
		}
		for k, child := range m {
			walk(append(prefix, k), child)
		}
	}
	walk(slices.Clone(w.segs), getAt(t.root, w.segs))
	walk(slices.Clone(w.segs), w.value)
	return out
}

func (t *Tree) persistLocked(ctx context.Context, before map[string]any) error {
	docs := make(map[string]json.RawMessage, len(before))
	for path := range before {
		segs, _ := splitPath(path)
		v := getAt(t.root, segs)
		if v == nil {
			docs[path] = nil
			continue
		}

		raw, err := json.Marshal(render(v))
		if err != nil {
			return fmt.Errorf("encode document %s: %w", path, err)
		}
		docs[path] = raw
	}

	if batch, ok := t.persister.(BatchPersister); ok && len(docs) > 1 {
		if err := batch.SaveDocuments(ctx, docs); err != nil {
			return fmt.Errorf("save documents: %w", err)
		}
		return nil
	}

	// Without a batch, a failure part way leaves earlier documents saved.
	for path, raw := range docs {
		if raw == nil {
			if err := t.persister.DeleteDocument(ctx, path); err != nil {
				return fmt.Errorf("delete document %s: %w", path, err)
			}
			continue
		}
		if err := t.persister.SaveDocument(ctx, path, raw); err != nil {
			return fmt.Errorf("save document %s: %w", path, err)
		}
	}
	return nil
}

func (t *Tree) notifyLocked(writes []write) {
	for _, w := range t.watchers {
		for _, wr := range writes {
			if !related(w.segs, wr.segs) {
				continue
			}
			snap, err := t.snapshotLocked(w.segs)
			if err != nil {
				break
			}
			w.enqueue(snap)
			break
		}
	}
}

var _ Store = (*Tree)(nil)

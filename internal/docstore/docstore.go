/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package docstore is a hierarchical JSON document store with change
// subscriptions. It mirrors the behavior of a realtime database: values are
// addressed by slash-separated paths, null deletes, arrays are stored as
// index-keyed maps, and every subscriber receives the full value at its path
// after each write that touches it.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidPath = errors.New("invalid path")
	ErrClosed      = errors.New("store is closed")
)

// Snapshot is the value found at Path. Value holds JSON and is nil when
// Exists is false.
type Snapshot struct {
	Path   string
	Exists bool
	Value  json.RawMessage
}

// Decode unmarshals the snapshot value into v. A missing value leaves v
// untouched.
func (s Snapshot) Decode(v any) error {
	if !s.Exists {
		return nil
	}
	return json.Unmarshal(s.Value, v)
}

// Store is implemented by Tree. Callers depend on this interface so the
// storage boundary can be swapped out.
type Store interface {
	Get(ctx context.Context, path string) (Snapshot, error)
	Set(ctx context.Context, path string, value any) error
	// Update writes every path in values in one atomic step. Paths are
	// relative to the root.
	Update(ctx context.Context, values map[string]any) error
	// Push stores value under a new time-ordered child key of path.
	Push(ctx context.Context, path string, value any) (string, error)
	Remove(ctx context.Context, path string) error
	// Watch calls fn with the current value at path and again after every
	// write affecting it. Calls are sequential and in write order.
	Watch(path string, fn func(Snapshot)) (cancel func(), err error)
}

// Persister saves whole documents, the subtrees found at a fixed depth
// (rooms/1234 at the default depth of 2).
type Persister interface {
	LoadDocuments(ctx context.Context) (map[string]json.RawMessage, error)
	SaveDocument(ctx context.Context, path string, body json.RawMessage) error
	DeleteDocument(ctx context.Context, path string) error
}

// BatchPersister is a Persister that can write several documents in one
// atomic step. A nil body deletes that document. Tree prefers it when a
// write spans more than one document.
type BatchPersister interface {
	Persister
	SaveDocuments(ctx context.Context, docs map[string]json.RawMessage) error
}

func splitPath(path string) ([]string, error) {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil, nil
	}

	segs := strings.Split(path, "/")
	for _, s := range segs {
		if s == "" || strings.ContainsAny(s, ".#$[]") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
		}
	}
	return segs, nil
}

func joinPath(segs []string) string {
	return strings.Join(segs, "/")
}

// related reports whether a write at b can change the value at a.
func related(a, b []string) bool {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

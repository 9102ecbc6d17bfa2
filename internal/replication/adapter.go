/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package replication mirrors game transitions onto a shared document so
// that every client in a room converges on the same record. Writes are
// last-writer-wins: there is no transaction across fields, and a client
// never applies its own transition locally but waits for the subscription
// to deliver it.
package replication

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/Seednode/spydle/internal/docstore"
	"github.com/Seednode/spydle/internal/game"
)

var (
	ErrInvalidCode  = errors.New("invalid room code")
	ErrRoomNotFound = errors.New("room not found")
	ErrNotSynced    = errors.New("room state not received yet")
)

const roomsPath = "rooms"

// Adapter reads and writes rooms in a docstore.Store.
type Adapter struct {
	store   docstore.Store
	onError func(code string, err error)
}

type Option func(*Adapter)

// WithErrorHandler receives room snapshots that could not be decoded. They
// are otherwise skipped.
func WithErrorHandler(fn func(code string, err error)) Option {
	return func(a *Adapter) {
		a.onError = fn
	}
}

func New(store docstore.Store, opts ...Option) *Adapter {
	a := &Adapter{
		store:   store,
		onError: func(string, error) {},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func roomPath(code string, rest ...string) (string, error) {
	if !ValidCode(code) {
		return "", fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}
	p := roomsPath + "/" + code
	for _, r := range rest {
		p += "/" + r
	}
	return p, nil
}

// CreateRoom writes a fresh room, replacing anything stored under code.
// Callers wanting to avoid a collision check RoomExists first; the two steps
// are not atomic.
func (a *Adapter) CreateRoom(ctx context.Context, code string, rec game.Record, meta Meta) error {
	p, err := roomPath(code)
	if err != nil {
		return err
	}
	if err := a.store.Set(ctx, p, newRoomDoc(rec, meta)); err != nil {
		return fmt.Errorf("create room %s: %w", code, err)
	}
	return nil
}

// RoomExists reports whether code has room metadata.
func (a *Adapter) RoomExists(ctx context.Context, code string) (bool, error) {
	p, err := roomPath(code, "meta")
	if err != nil {
		return false, err
	}
	snap, err := a.store.Get(ctx, p)
	if err != nil {
		return false, fmt.Errorf("check room %s: %w", code, err)
	}
	return snap.Exists, nil
}

// Codes lists every stored room code.
func (a *Adapter) Codes(ctx context.Context) ([]string, error) {
	snap, err := a.store.Get(ctx, roomsPath)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	if !snap.Exists {
		return nil, nil
	}

	// Codes are numeric, so a dense enough set of rooms reads back as an
	// array indexed by code.
	var codes []string
	if snap.Value[0] == '[' {
		var rooms []json.RawMessage
		if err := json.Unmarshal(snap.Value, &rooms); err != nil {
			return nil, fmt.Errorf("list rooms: %w", err)
		}
		for i, r := range rooms {
			if len(r) > 0 && string(r) != "null" {
				codes = append(codes, strconv.Itoa(i))
			}
		}
	} else {
		var rooms map[string]json.RawMessage
		if err := json.Unmarshal(snap.Value, &rooms); err != nil {
			return nil, fmt.Errorf("list rooms: %w", err)
		}
		codes = slices.Collect(maps.Keys(rooms))
	}

	codes = slices.DeleteFunc(codes, func(code string) bool {
		return !ValidCode(code)
	})
	slices.Sort(codes)
	return codes, nil
}

// Room reads the current room once.
func (a *Adapter) Room(ctx context.Context, code string) (*Snapshot, error) {
	p, err := roomPath(code)
	if err != nil {
		return nil, err
	}
	snap, err := a.store.Get(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("read room %s: %w", code, err)
	}
	if !snap.Exists {
		return nil, ErrRoomNotFound
	}
	return decodeRoom(code, snap.Value)
}

// SubscribeRoom calls onUpdate with the full room now and after every
// change, and with nil whenever the room does not exist.
func (a *Adapter) SubscribeRoom(ctx context.Context, code string, onUpdate func(*Snapshot)) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := roomPath(code)
	if err != nil {
		return nil, err
	}

	cancel, err := a.store.Watch(p, func(s docstore.Snapshot) {
		if !s.Exists {
			onUpdate(nil)
			return
		}
		room, err := decodeRoom(code, s.Value)
		if err != nil {
			a.onError(code, err)
			return
		}
		onUpdate(room)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe room %s: %w", code, err)
	}
	return cancel, nil
}

// ApplyTransition writes patch in one multi-path update.
func (a *Adapter) ApplyTransition(ctx context.Context, code string, patch Patch) error {
	if len(patch) == 0 {
		return nil
	}
	base, err := roomPath(code)
	if err != nil {
		return err
	}

	updates := make(map[string]any, len(patch))
	for k, v := range patch {
		updates[base+"/"+k] = v
	}
	if err := a.store.Update(ctx, updates); err != nil {
		return fmt.Errorf("update room %s: %w", code, err)
	}
	return nil
}

// AppendLog pushes one entry onto the room log without reading it.
func (a *Adapter) AppendLog(ctx context.Context, code string, entry game.LogEntry) error {
	p, err := roomPath(code, "log")
	if err != nil {
		return err
	}
	if _, err := a.store.Push(ctx, p, entry); err != nil {
		return fmt.Errorf("append log %s: %w", code, err)
	}
	return nil
}

// RestartRoom clears the log and replaces the room with a new game.
func (a *Adapter) RestartRoom(ctx context.Context, code string, rec game.Record, meta Meta) error {
	p, err := roomPath(code, "log")
	if err != nil {
		return err
	}
	if err := a.store.Remove(ctx, p); err != nil {
		return fmt.Errorf("reset log %s: %w", code, err)
	}
	return a.CreateRoom(ctx, code, rec, meta)
}

// DeleteRoom removes the whole room. Subscribers receive nil.
func (a *Adapter) DeleteRoom(ctx context.Context, code string) error {
	p, err := roomPath(code)
	if err != nil {
		return err
	}
	if err := a.store.Remove(ctx, p); err != nil {
		return fmt.Errorf("delete room %s: %w", code, err)
	}
	return nil
}

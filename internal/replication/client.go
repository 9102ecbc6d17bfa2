/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package replication

import (
	"context"
	"sync"

	"github.com/Seednode/spydle/internal/game"
)

// Client runs game transitions against the last room snapshot it received
// and writes the result back through the Adapter. Its own view only changes
// when the subscription delivers, so every client observes the same order.
type Client struct {
	adapter *Adapter
	code    string

	mu     sync.Mutex
	room   *Snapshot
	synced bool
	gone   bool

	unsubscribe func()
	onUpdate    func(*Snapshot)
}

// Join subscribes to an existing room. onUpdate, which may be nil, is called
// after the client has stored each delivered snapshot.
func (a *Adapter) Join(ctx context.Context, code string, onUpdate func(*Snapshot)) (*Client, error) {
	exists, err := a.RoomExists(ctx, code)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrRoomNotFound
	}

	c := &Client{
		adapter:  a,
		code:     code,
		onUpdate: onUpdate,
	}

	unsubscribe, err := a.SubscribeRoom(ctx, code, c.receive)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.unsubscribe = unsubscribe
	c.mu.Unlock()

	return c, nil
}

func (c *Client) receive(room *Snapshot) {
	c.mu.Lock()
	c.room = room
	c.synced = true
	c.gone = room == nil
	c.mu.Unlock()

	if c.onUpdate != nil {
		c.onUpdate(room)
	}
}

func (c *Client) Code() string {
	return c.code
}

// Room returns the last delivered snapshot, or nil before the first one
// arrives and after the room is removed.
func (c *Client) Room() *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.room
}

// State returns the last delivered game state.
func (c *Client) State() (game.State, bool) {
	room := c.Room()
	if room == nil {
		return game.State{}, false
	}
	return room.State, true
}

func (c *Client) latest() (game.State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case !c.synced:
		return game.State{}, ErrNotSynced
	case c.gone:
		return game.State{}, ErrRoomNotFound
	}
	return c.room.State, nil
}

// publish pushes the log entries next adds, then the remaining field
// changes as one update.
func (c *Client) publish(ctx context.Context, prev, next game.State) error {
	for _, e := range next.Record.Log[len(prev.Record.Log):] {
		if err := c.adapter.AppendLog(ctx, c.code, e); err != nil {
			return err
		}
	}
	return c.adapter.ApplyTransition(ctx, c.code, Diff(prev, next))
}

func (c *Client) transition(ctx context.Context, fn func(game.State) (game.State, bool)) (bool, error) {
	prev, err := c.latest()
	if err != nil {
		return false, err
	}
	next, ok := fn(prev)
	if !ok {
		return false, nil
	}
	return true, c.publish(ctx, prev, next)
}

// GiveClue opens the guessing phase for the current team. A false result
// with a nil error means the clue was rejected.
func (c *Client) GiveClue(ctx context.Context, word string, number int) (bool, error) {
	return c.transition(ctx, func(s game.State) (game.State, bool) {
		return s.GiveClue(word, number)
	})
}

// ApplyClue opens the guessing phase with an advisor clue.
func (c *Client) ApplyClue(ctx context.Context, clue game.Clue, matched []string) (bool, error) {
	return c.transition(ctx, func(s game.State) (game.State, bool) {
		return s.ApplyClue(clue, matched)
	})
}

// RevealCard flips card id. A nil Reveal with a nil error means the guess
// was not allowed.
func (c *Client) RevealCard(ctx context.Context, id int) (*game.Reveal, error) {
	var result *game.Reveal
	_, err := c.transition(ctx, func(s game.State) (game.State, bool) {
		var next game.State
		next, result = s.RevealCard(id)
		return next, result != nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) EndTurn(ctx context.Context) (bool, error) {
	return c.transition(ctx, func(s game.State) (game.State, bool) {
		return s.EndTurn()
	})
}

// LogError appends an error entry to the room log.
func (c *Client) LogError(ctx context.Context, text string) error {
	prev, err := c.latest()
	if err != nil {
		return err
	}
	return c.publish(ctx, prev, prev.LogError(text))
}

// Restart replaces the room with a new game.
func (c *Client) Restart(ctx context.Context, rec game.Record, meta Meta) error {
	if _, err := c.latest(); err != nil {
		return err
	}
	return c.adapter.RestartRoom(ctx, c.code, rec, meta)
}

// Close stops the subscription. The client keeps its last snapshot.
func (c *Client) Close() {
	c.mu.Lock()
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package session holds a single-process game for one table.
package session

import (
	"errors"
	"math/rand/v2"

	"github.com/Seednode/spydle/internal/advisor"
	"github.com/Seednode/spydle/internal/game"
	"github.com/Seednode/spydle/internal/turntimer"
	"github.com/Seednode/spydle/internal/wordpack"
)

var ErrNoGame = errors.New("no game in progress")

// Local owns one game state and applies every transition to it in place.
// It is not safe for concurrent use; a single owner drives it.
type Local struct {
	packs *wordpack.Registry
	rng   *rand.Rand
	timer *turntimer.Timer

	state   game.State
	started bool
}

// New returns a session dealing from packs. timer may be nil to play
// without a turn countdown.
func New(packs *wordpack.Registry, rng *rand.Rand, timer *turntimer.Timer) *Local {
	return &Local{
		packs: packs,
		rng:   rng,
		timer: timer,
	}
}

// StartGame deals a new board from packID, replacing any game in progress.
// For the custom pack, customWords is a comma or newline separated list.
func (l *Local) StartGame(packID, customWords string) error {
	var (
		rec game.Record
		err error
	)
	if packID == wordpack.CustomID {
		var p wordpack.Pack
		p, err = wordpack.ParseCustom(customWords)
		if err != nil {
			return err
		}
		rec, err = game.GenerateBoard(p.Words, l.rng)
	} else {
		rec, err = l.packs.Generate(packID, l.rng)
	}
	if err != nil {
		return err
	}

	l.stopTimer()
	l.state = game.NewState(rec)
	l.started = true
	return nil
}

// State returns the current game, or false before StartGame.
func (l *Local) State() (game.State, bool) {
	return l.state, l.started
}

// GiveClue takes the clue as typed. It returns false if the number is not a
// non-negative integer or the clue is not allowed now.
func (l *Local) GiveClue(word, number string) bool {
	n, ok := game.ParseClueNumber(number)
	if !ok || !l.started {
		return false
	}
	next, ok := l.state.GiveClue(word, n)
	if !ok {
		return false
	}
	l.state = next
	l.startTimer()
	return true
}

func (l *Local) ApplyAIClue(s advisor.Suggestion) bool {
	if !l.started {
		return false
	}
	next, ok := l.state.ApplyClue(s.Clue, s.Matched)
	if !ok {
		return false
	}
	l.state = next
	l.startTimer()
	return true
}

func (l *Local) RevealCard(id int) *game.Reveal {
	if !l.started {
		return nil
	}
	next, result := l.state.RevealCard(id)
	if result == nil {
		return nil
	}
	l.state = next
	if result.TurnEnded || result.GameOver {
		l.stopTimer()
	}
	return result
}

func (l *Local) EndTurn() bool {
	if !l.started {
		return false
	}
	next, ok := l.state.EndTurn()
	if !ok {
		return false
	}
	l.state = next
	l.stopTimer()
	return true
}

func (l *Local) LogError(text string) {
	if l.started {
		l.state = l.state.LogError(text)
	}
}

// Expired delivers turn timer expiries. It is nil without a timer, which
// blocks forever in a select.
func (l *Local) Expired() <-chan turntimer.Expiry {
	if !l.timer.Enabled() {
		return nil
	}
	return l.timer.C()
}

// HandleExpiry ends the turn if e is for the countdown still running and
// the game is not over.
func (l *Local) HandleExpiry(e turntimer.Expiry) bool {
	if !l.timer.Enabled() || !l.timer.Current(e) {
		return false
	}
	if !l.started || l.state.Record.GameOver {
		return false
	}
	return l.EndTurn()
}

func (l *Local) startTimer() {
	if l.timer.Enabled() {
		l.timer.Start()
	}
}

func (l *Local) stopTimer() {
	if l.timer.Enabled() {
		l.timer.Stop()
	}
}

/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package advisor proposes clues for the team whose turn it is, using a
// static word association table.
package advisor

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/Seednode/spydle/internal/game"
)

const (
	// MaxTargets caps the number a suggested clue may claim.
	MaxTargets = 3

	// FallbackWord is offered when no table entry qualifies.
	FallbackWord = "THINK"

	simpleBonus = 15
)

var (
	ErrGameOver = errors.New("game is already over")
	ErrNoClue   = errors.New("no clue found, give one manually")
)

// Suggestion is a proposed clue together with the words it targets.
type Suggestion struct {
	Clue    game.Clue `json:"clue"`
	Matched []string  `json:"matched"`
}

type partition struct {
	own      []string
	opponent []string
	neutral  []string
	assassin string
	board    []string
}

func partitionBoard(rec game.Record) partition {
	var p partition
	own := game.TypeOf(rec.CurrentTeam)
	for _, c := range rec.Cards {
		if c.Revealed {
			continue
		}
		word := strings.ToUpper(c.Word)
		p.board = append(p.board, word)
		switch c.Type {
		case own:
			p.own = append(p.own, c.Word)
		case game.TypeNeutral:
			p.neutral = append(p.neutral, word)
		case game.TypeAssassin:
			p.assassin = word
		default:
			p.opponent = append(p.opponent, word)
		}
	}
	return p
}

func (p partition) collides(clue string) bool {
	for _, w := range p.board {
		if strings.Contains(clue, w) || strings.Contains(w, clue) {
			return true
		}
	}
	return false
}

func countIn(words []string, set map[string]bool) int {
	n := 0
	for _, w := range words {
		if set[w] {
			n++
		}
	}
	return n
}

// Best runs the clue search against rec for its current team. Only
// unrevealed cards are considered.
func Best(rec game.Record, table Table) (Suggestion, error) {
	if rec.GameOver {
		return Suggestion{}, ErrGameOver
	}

	p := partitionBoard(rec)
	team := rec.CurrentTeam

	var (
		best      *Suggestion
		bestScore = math.MinInt
	)

	for _, a := range table {
		clue := strings.ToUpper(a.Clue)
		if p.collides(clue) {
			continue
		}

		linked := make(map[string]bool, len(a.Related))
		for _, w := range a.Related {
			linked[strings.ToUpper(w)] = true
		}

		var matched []string
		for _, w := range p.own {
			if linked[strings.ToUpper(w)] {
				matched = append(matched, w)
			}
		}
		if len(matched) == 0 {
			continue
		}

		if p.assassin != "" && linked[p.assassin] {
			continue
		}

		oppHits := countIn(p.opponent, linked)
		neutralHits := countIn(p.neutral, linked)
		danger := oppHits + neutralHits

		if len(matched) == 1 && danger > 0 {
			continue
		}

		score := 45
		switch len(matched) {
		case 1:
			score = 8
		case 2:
			score = 25
		}
		score -= 15 * oppHits
		score -= 8 * neutralHits
		if danger == 0 {
			score += 5
		}
		if SimpleWords[clue] {
			score += simpleBonus
		}

		if score > bestScore {
			bestScore = score
			n := min(len(matched), MaxTargets)
			best = &Suggestion{
				Clue:    game.Clue{Word: clue, Number: n, Team: team},
				Matched: matched[:n],
			}
		}
	}

	if best != nil {
		return *best, nil
	}

	if len(p.own) > 0 {
		return Suggestion{
			Clue:    game.Clue{Word: FallbackWord, Number: 1, Team: team},
			Matched: []string{p.own[0]},
		}, nil
	}

	return Suggestion{}, ErrNoClue
}

// Advisor wraps Best with a short random "thinking" delay.
type Advisor struct {
	Table    Table
	MinDelay time.Duration
	MaxDelay time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

func New(table Table, minDelay, maxDelay time.Duration, rng *rand.Rand) *Advisor {
	return &Advisor{
		Table:    table,
		MinDelay: minDelay,
		MaxDelay: maxDelay,
		rng:      rng,
	}
}

func (a *Advisor) delay() time.Duration {
	d := a.MinDelay
	if spread := a.MaxDelay - a.MinDelay; spread > 0 {
		a.mu.Lock()
		d += time.Duration(a.rng.Int64N(int64(spread)))
		a.mu.Unlock()
	}
	return d
}

// Suggest waits out the thinking delay, then searches rec. It returns
// ctx.Err() if ctx ends first.
func (a *Advisor) Suggest(ctx context.Context, rec game.Record) (Suggestion, error) {
	if rec.GameOver {
		return Suggestion{}, ErrGameOver
	}

	if d := a.delay(); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return Suggestion{}, ctx.Err()
		case <-timer.C:
		}
	}

	return Best(rec, a.Table)
}

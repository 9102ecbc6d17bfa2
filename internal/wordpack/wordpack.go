/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package wordpack holds the word lists boards are dealt from.
package wordpack

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"slices"
	"strings"

	"github.com/Seednode/spydle/internal/game"
)

// CustomID is the pack id reserved for player-supplied words.
const CustomID = "custom"

var (
	ErrUnknownPack  = errors.New("unknown word pack")
	ErrTooFewWords  = fmt.Errorf("need at least %d words for a custom pack", game.BoardSize)
	customSeparator = regexp.MustCompile(`[,\n]+`)
)

type Pack struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Icon  string   `json:"icon"`
	Words []string `json:"words"`
}

// Registry maps pack ids to packs. The zero value is not usable; use
// Default or New.
type Registry struct {
	packs map[string]Pack
	order []string
}

func New(packs ...Pack) *Registry {
	r := &Registry{packs: make(map[string]Pack, len(packs))}
	for _, p := range packs {
		r.Add(p)
	}
	return r
}

// Default returns a registry holding the bundled packs.
func Default() *Registry {
	return New(Classic, Nature, Fantasy)
}

// Add registers p, replacing any pack with the same id.
func (r *Registry) Add(p Pack) {
	if _, ok := r.packs[p.ID]; !ok {
		r.order = append(r.order, p.ID)
	}
	r.packs[p.ID] = p
}

func (r *Registry) Lookup(id string) (Pack, bool) {
	p, ok := r.packs[id]
	return p, ok
}

// List returns the registered packs in registration order.
func (r *Registry) List() []Pack {
	out := make([]Pack, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.packs[id])
	}
	return out
}

// Generate deals a board from the pack registered under id.
func (r *Registry) Generate(id string, rng *rand.Rand) (game.Record, error) {
	p, ok := r.Lookup(id)
	if !ok {
		return game.Record{}, fmt.Errorf("%w: %q", ErrUnknownPack, id)
	}
	return game.GenerateBoard(p.Words, rng)
}

// ParseCustom splits a comma or newline separated list into a custom pack.
// Words are trimmed and upper-cased; blanks and duplicates are dropped.
func ParseCustom(text string) (Pack, error) {
	var words []string
	for _, w := range customSeparator.Split(text, -1) {
		w = strings.ToUpper(strings.TrimSpace(w))
		if w == "" || slices.Contains(words, w) {
			continue
		}
		words = append(words, w)
	}

	if len(words) < game.BoardSize {
		return Pack{}, fmt.Errorf("%w (got %d)", ErrTooFewWords, len(words))
	}

	return Pack{ID: CustomID, Name: "Custom", Icon: "✏️", Words: words}, nil
}

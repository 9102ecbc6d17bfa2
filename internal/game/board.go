/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

import (
	"math/rand/v2"
	"slices"
)

// GenerateBoard deals a fresh record from words. The word list is shuffled
// and the first 25 are kept; roles are shuffled independently and paired
// with the words by position.
func GenerateBoard(words []string, rng *rand.Rand) (Record, error) {
	if len(words) < BoardSize {
		return Record{}, ErrTooFewWords
	}

	picked := slices.Clone(words)
	rng.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	picked = picked[:BoardSize]

	first := Red
	if rng.IntN(2) == 1 {
		first = Blue
	}

	types := make([]CardType, 0, BoardSize)
	for range FirstTeamCards {
		types = append(types, TypeOf(first))
	}
	for range SecondTeamCards {
		types = append(types, TypeOf(first.Other()))
	}
	for range NeutralCards {
		types = append(types, TypeNeutral)
	}
	types = append(types, TypeAssassin)

	rng.Shuffle(len(types), func(i, j int) {
		types[i], types[j] = types[j], types[i]
	})

	rec := Record{
		Cards:       make([]Card, BoardSize),
		FirstTeam:   first,
		CurrentTeam: first,
		ClueHistory: []Clue{},
		Log:         []LogEntry{},
	}
	for i, word := range picked {
		rec.Cards[i] = Card{ID: i, Word: word, Type: types[i]}
	}
	rec.RedRemaining, rec.BlueRemaining = countRemaining(rec.Cards)

	return rec, nil
}

func countRemaining(cards []Card) (red, blue int) {
	for _, c := range cards {
		if c.Revealed {
			continue
		}
		switch c.Type {
		case TypeRed:
			red++
		case TypeBlue:
			blue++
		}
	}
	return red, blue
}

package advisor

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/Seednode/spydle/internal/game"
)

// board builds a red-to-play record from explicit word lists. Anything not
// listed is filled with inert words.
func board(red, blue, neutral []string, assassin string) game.Record {
	rec := game.Record{FirstTeam: game.Red, CurrentTeam: game.Red}
	add := func(words []string, t game.CardType) {
		for _, w := range words {
			rec.Cards = append(rec.Cards, game.Card{ID: len(rec.Cards), Word: w, Type: t})
		}
	}
	add(red, game.TypeRed)
	add(blue, game.TypeBlue)
	add(neutral, game.TypeNeutral)
	if assassin != "" {
		add([]string{assassin}, game.TypeAssassin)
	}
	for i := 0; len(rec.Cards) < game.BoardSize; i++ {
		add([]string{"FILLER" + string(rune('A'+i))}, game.TypeNeutral)
	}
	for _, c := range rec.Cards {
		switch c.Type {
		case game.TypeRed:
			rec.RedRemaining++
		case game.TypeBlue:
			rec.BlueRemaining++
		}
	}
	return rec
}

func related(table Table, clue string) []string {
	for _, a := range table {
		if a.Clue == clue {
			return a.Related
		}
	}
	return nil
}

func TestBestPrefersMultiTargetClue(t *testing.T) {
	t.Parallel()

	rec := board([]string{"APPLE", "BANANA", "CHERRY"}, []string{"PIANO"}, nil, "GHOST")
	s, err := Best(rec, DefaultTable)
	if err != nil {
		t.Fatalf("best: %v", err)
	}
	if s.Clue.Word != "FRUIT" {
		t.Fatalf("clue = %q, want FRUIT", s.Clue.Word)
	}
	if s.Clue.Number != 3 || len(s.Matched) != 3 {
		t.Fatalf("number = %d matched = %v, want 3", s.Clue.Number, s.Matched)
	}
	if s.Clue.Team != game.Red {
		t.Fatalf("team = %q, want red", s.Clue.Team)
	}
}

func TestBestCapsTargets(t *testing.T) {
	t.Parallel()

	table := Table{{"FRUIT", []string{"APPLE", "BANANA", "CHERRY", "LEMON", "GRAPE"}}}
	rec := board([]string{"APPLE", "BANANA", "CHERRY", "LEMON", "GRAPE"}, nil, nil, "")
	s, err := Best(rec, table)
	if err != nil {
		t.Fatalf("best: %v", err)
	}
	if s.Clue.Number != MaxTargets || len(s.Matched) != MaxTargets {
		t.Fatalf("number = %d matched = %v, want %d", s.Clue.Number, s.Matched, MaxTargets)
	}
	if !slices.Equal(s.Matched, []string{"APPLE", "BANANA", "CHERRY"}) {
		t.Fatalf("matched = %v", s.Matched)
	}
}

func TestBestNeverPointsAtAssassin(t *testing.T) {
	t.Parallel()

	// MOON is linked from several entries; every one of them must be
	// skipped even though they would otherwise score well.
	red := []string{"STAR", "OWL", "ROCKET", "PLANET", "CLOUD", "SUN", "BAT", "GHOST", "EAGLE"}
	rec := board(red, []string{"DOG"}, nil, "MOON")

	s, err := Best(rec, DefaultTable)
	if err != nil {
		t.Fatalf("best: %v", err)
	}
	for _, w := range related(DefaultTable, s.Clue.Word) {
		if w == "MOON" {
			t.Fatalf("clue %q links to the assassin", s.Clue.Word)
		}
	}

	for _, a := range DefaultTable {
		if !slices.Contains(a.Related, "MOON") {
			continue
		}
		if s.Clue.Word == a.Clue {
			t.Fatalf("picked assassin-linked clue %q", a.Clue)
		}
	}
}

func TestBestAssassinExhaustive(t *testing.T) {
	t.Parallel()

	// Every table entry is made a perfect match for red, and the assassin is
	// linked from all of them except the last.
	table := make(Table, 0, 10)
	for i := range 10 {
		clue := "CLUE" + string(rune('A'+i))
		rel := []string{"ALPHA", "BRAVO", "CHARLIE"}
		if i < 9 {
			rel = append(rel, "DOOM")
		}
		table = append(table, Association{clue, rel})
	}
	rec := board([]string{"ALPHA", "BRAVO", "CHARLIE"}, nil, nil, "DOOM")

	s, err := Best(rec, table)
	if err != nil {
		t.Fatalf("best: %v", err)
	}
	if s.Clue.Word != "CLUEJ" {
		t.Fatalf("clue = %q, want CLUEJ", s.Clue.Word)
	}
}

func TestBestSkipsAmbiguousSingleTarget(t *testing.T) {
	t.Parallel()

	table := Table{
		{"RISKY", []string{"APPLE", "PIANO"}},
		{"SAFE", []string{"APPLE"}},
	}
	rec := board([]string{"APPLE"}, []string{"PIANO"}, nil, "")
	s, err := Best(rec, table)
	if err != nil {
		t.Fatalf("best: %v", err)
	}
	if s.Clue.Word != "SAFE" {
		t.Fatalf("clue = %q, want SAFE", s.Clue.Word)
	}
}

func TestBestPenalizesDanger(t *testing.T) {
	t.Parallel()

	table := Table{
		{"RISKY", []string{"APPLE", "BANANA", "PIANO", "DRUM"}},
		{"CALM", []string{"APPLE", "BANANA"}},
	}
	rec := board([]string{"APPLE", "BANANA"}, []string{"PIANO"}, []string{"DRUM"}, "")
	s, err := Best(rec, table)
	if err != nil {
		t.Fatalf("best: %v", err)
	}
	// RISKY: 25 - 15 - 8 = 2; CALM: 25 + 5 = 30.
	if s.Clue.Word != "CALM" {
		t.Fatalf("clue = %q, want CALM", s.Clue.Word)
	}
}

func TestBestSimpleWordBonus(t *testing.T) {
	t.Parallel()

	table := Table{
		{"POMOLOGY", []string{"APPLE", "BANANA"}},
		{"FRUIT", []string{"APPLE", "BANANA"}},
	}
	rec := board([]string{"APPLE", "BANANA"}, nil, nil, "")
	s, err := Best(rec, table)
	if err != nil {
		t.Fatalf("best: %v", err)
	}
	if s.Clue.Word != "FRUIT" {
		t.Fatalf("clue = %q, want FRUIT", s.Clue.Word)
	}
}

func TestBestTieGoesToFirstEntry(t *testing.T) {
	t.Parallel()

	table := Table{
		{"FIRSTCLUE", []string{"APPLE", "BANANA"}},
		{"SECONDCLUE", []string{"APPLE", "BANANA"}},
	}
	rec := board([]string{"APPLE", "BANANA"}, nil, nil, "")
	for range 10 {
		s, err := Best(rec, table)
		if err != nil {
			t.Fatalf("best: %v", err)
		}
		if s.Clue.Word != "FIRSTCLUE" {
			t.Fatalf("clue = %q, want FIRSTCLUE", s.Clue.Word)
		}
	}
}

func TestBestSkipsBoardCollisions(t *testing.T) {
	t.Parallel()

	table := Table{
		{"STARLIGHT", []string{"MOON", "SUN"}},
		{"HEAVENS", []string{"MOON", "SUN"}},
	}
	rec := board([]string{"MOON", "SUN"}, []string{"STAR"}, nil, "")
	s, err := Best(rec, table)
	if err != nil {
		t.Fatalf("best: %v", err)
	}
	if s.Clue.Word != "HEAVENS" {
		t.Fatalf("clue = %q, want HEAVENS", s.Clue.Word)
	}

	// Revealed cards no longer block a clue.
	rec.Cards[2].Revealed = true
	s, err = Best(rec, table)
	if err != nil {
		t.Fatalf("best: %v", err)
	}
	if s.Clue.Word != "STARLIGHT" {
		t.Fatalf("clue = %q, want STARLIGHT", s.Clue.Word)
	}
}

func TestBestFallback(t *testing.T) {
	t.Parallel()

	rec := board([]string{"ZYX", "WVU"}, nil, nil, "")
	s, err := Best(rec, DefaultTable)
	if err != nil {
		t.Fatalf("best: %v", err)
	}
	if s.Clue.Word != FallbackWord || s.Clue.Number != 1 {
		t.Fatalf("clue = %+v, want %s:1", s.Clue, FallbackWord)
	}
	if !slices.Equal(s.Matched, []string{"ZYX"}) {
		t.Fatalf("matched = %v, want [ZYX]", s.Matched)
	}
}

func TestBestFailures(t *testing.T) {
	t.Parallel()

	rec := board(nil, []string{"PIANO"}, nil, "")
	if _, err := Best(rec, DefaultTable); !errors.Is(err, ErrNoClue) {
		t.Fatalf("err = %v, want %v", err, ErrNoClue)
	}

	rec = board([]string{"APPLE"}, nil, nil, "")
	rec.GameOver = true
	if _, err := Best(rec, DefaultTable); !errors.Is(err, ErrGameOver) {
		t.Fatalf("err = %v, want %v", err, ErrGameOver)
	}
}

func TestDefaultTableIsUpperCase(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for _, a := range DefaultTable {
		if a.Clue != strings.ToUpper(a.Clue) {
			t.Fatalf("clue %q is not upper case", a.Clue)
		}
		if seen[a.Clue] {
			t.Fatalf("clue %q listed twice", a.Clue)
		}
		seen[a.Clue] = true
		for _, w := range a.Related {
			if w != strings.ToUpper(w) {
				t.Fatalf("clue %q related %q is not upper case", a.Clue, w)
			}
		}
	}
}

func TestSuggestHonorsDelay(t *testing.T) {
	t.Parallel()

	a := New(DefaultTable, 20*time.Millisecond, 40*time.Millisecond, rand.New(rand.NewPCG(1, 1)))
	rec := board([]string{"APPLE", "BANANA"}, nil, nil, "")

	start := time.Now()
	s, err := a.Suggest(context.Background(), rec)
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Fatalf("returned after %s, want at least 20ms", elapsed)
	}
	if s.Clue.Word == "" {
		t.Fatal("empty suggestion")
	}
}

func TestSuggestCancelled(t *testing.T) {
	t.Parallel()

	a := New(DefaultTable, time.Hour, time.Hour, rand.New(rand.NewPCG(1, 1)))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Suggest(ctx, board([]string{"APPLE"}, nil, nil, ""))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want %v", err, context.Canceled)
	}
}

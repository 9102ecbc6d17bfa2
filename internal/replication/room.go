/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package replication

import (
	"cmp"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"

	"github.com/Seednode/spydle/internal/game"
)

// NewCode returns a random four digit room code. Collisions with existing
// rooms are not checked.
func NewCode(rng *rand.Rand) string {
	return strconv.Itoa(1000 + rng.IntN(9000))
}

// ValidCode reports whether code is a four digit room code.
func ValidCode(code string) bool {
	if len(code) != 4 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Meta is caller-defined room metadata stored beside the game.
type Meta struct {
	WordPack     string `json:"wordPack"`
	TimerEnabled bool   `json:"timerEnabled"`
	TimerSeconds int    `json:"timerDuration"`
	HostID       string `json:"hostId"`
	CreatedAt    int64  `json:"createdAt"`

	// Words holds the parsed list for a custom pack so the room can be
	// dealt again without the host resending it.
	Words []string `json:"customWords,omitempty"`
}

// Snapshot is the full room as last seen by a subscription.
type Snapshot struct {
	Code  string
	Meta  Meta
	State game.State
}

type gameDoc struct {
	Cards         []game.Card `json:"cards"`
	CurrentTeam   game.Team   `json:"currentTeam"`
	FirstTeam     game.Team   `json:"firstTeam"`
	RedRemaining  int         `json:"redRemaining"`
	BlueRemaining int         `json:"blueRemaining"`
	GameOver      bool        `json:"gameOver"`
	Winner        game.Team   `json:"winner,omitempty"`
	ClueHistory   []game.Clue `json:"clueHistory"`
}

type roomDoc struct {
	Meta        Meta            `json:"meta"`
	Game        gameDoc         `json:"game"`
	Clue        *game.Clue      `json:"clue"`
	GuessesLeft int             `json:"guessesLeft"`
	Log         []game.LogEntry `json:"log"`
}

func newRoomDoc(rec game.Record, meta Meta) roomDoc {
	return roomDoc{
		Meta: meta,
		Game: gameDoc{
			Cards:         rec.Cards,
			CurrentTeam:   rec.CurrentTeam,
			FirstTeam:     rec.FirstTeam,
			RedRemaining:  rec.RedRemaining,
			BlueRemaining: rec.BlueRemaining,
			GameOver:      rec.GameOver,
			Winner:        rec.Winner,
			ClueHistory:   rec.ClueHistory,
		},
		Log: rec.Log,
	}
}

// The read side keeps collections raw; stored arrays may come back as
// arrays, arrays with null holes, or index-keyed objects.
type roomWire struct {
	Meta struct {
		Meta
		Words json.RawMessage `json:"customWords"`
	} `json:"meta"`
	Game struct {
		Cards         json.RawMessage `json:"cards"`
		CurrentTeam   game.Team       `json:"currentTeam"`
		FirstTeam     game.Team       `json:"firstTeam"`
		RedRemaining  int             `json:"redRemaining"`
		BlueRemaining int             `json:"blueRemaining"`
		GameOver      bool            `json:"gameOver"`
		Winner        game.Team       `json:"winner"`
		ClueHistory   json.RawMessage `json:"clueHistory"`
	} `json:"game"`
	Clue        *game.Clue      `json:"clue"`
	GuessesLeft int             `json:"guessesLeft"`
	Log         json.RawMessage `json:"log"`
}

type cardWire struct {
	ID       *int          `json:"id"`
	Word     string        `json:"word"`
	Type     game.CardType `json:"type"`
	Revealed bool          `json:"revealed"`
}

func decodeRoom(code string, raw json.RawMessage) (*Snapshot, error) {
	var w roomWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("decode room %s: %w", code, err)
	}

	cards, err := decodeCards(w.Game.Cards)
	if err != nil {
		return nil, fmt.Errorf("decode room %s cards: %w", code, err)
	}
	history, err := decodeOrdered[game.Clue](w.Game.ClueHistory)
	if err != nil {
		return nil, fmt.Errorf("decode room %s clue history: %w", code, err)
	}
	log, err := decodeOrdered[game.LogEntry](w.Log)
	if err != nil {
		return nil, fmt.Errorf("decode room %s log: %w", code, err)
	}
	meta := w.Meta.Meta
	meta.Words, err = decodeOrdered[string](w.Meta.Words)
	if err != nil {
		return nil, fmt.Errorf("decode room %s custom words: %w", code, err)
	}

	rec := game.Record{
		Cards:         cards,
		FirstTeam:     w.Game.FirstTeam,
		CurrentTeam:   w.Game.CurrentTeam,
		RedRemaining:  w.Game.RedRemaining,
		BlueRemaining: w.Game.BlueRemaining,
		GameOver:      w.Game.GameOver,
		Winner:        w.Game.Winner,
		ClueHistory:   history,
		Log:           log,
	}
	if !rec.FirstTeam.Valid() {
		rec.FirstTeam = game.Red
	}
	if !rec.CurrentTeam.Valid() {
		rec.CurrentTeam = game.Red
	}
	if !rec.GameOver {
		rec.Winner = ""
	}

	state := game.State{Record: rec}
	if w.Clue != nil && !rec.GameOver {
		state.Turn = game.Turn{Clue: w.Clue, GuessesLeft: w.GuessesLeft}
	}

	return &Snapshot{Code: code, Meta: meta, State: state}, nil
}

// decodeCards re-indexes cards by their id field. Entries without an id are
// fragments left by partial writes and are dropped, as are duplicate ids.
func decodeCards(raw json.RawMessage) ([]game.Card, error) {
	wires, err := decodeOrdered[cardWire](raw)
	if err != nil {
		return nil, err
	}

	cards := make([]game.Card, 0, len(wires))
	for _, w := range wires {
		if w.ID == nil || w.Word == "" {
			continue
		}
		cards = append(cards, game.Card{ID: *w.ID, Word: w.Word, Type: w.Type, Revealed: w.Revealed})
	}

	slices.SortStableFunc(cards, func(a, b game.Card) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return slices.CompactFunc(cards, func(a, b game.Card) bool {
		return a.ID == b.ID
	}), nil
}

// decodeOrdered reads a stored collection into a slice. Objects are read in
// key order: index keys numerically first, then push keys, which sort by
// time.
func decodeOrdered[T any](raw json.RawMessage) ([]T, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var items []json.RawMessage
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
	} else {
		var m map[string]json.RawMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		slices.SortFunc(keys, compareKeys)
		for _, k := range keys {
			items = append(items, m[k])
		}
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		if len(item) == 0 || string(item) == "null" {
			continue
		}
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func compareKeys(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return cmp.Compare(na, nb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return cmp.Compare(a, b)
	}
}

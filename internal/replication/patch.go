/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package replication

import (
	"strconv"

	"github.com/Seednode/spydle/internal/game"
)

// Patch maps paths relative to a room, such as game/currentTeam or
// game/cards/7/revealed, to their new values. A nil value deletes.
type Patch map[string]any

// Diff returns the writes that turn prev into next. Only changed fields are
// included; the log is excluded because entries are pushed one at a time.
func Diff(prev, next game.State) Patch {
	p := Patch{}
	pr, nr := prev.Record, next.Record

	if len(pr.Cards) != len(nr.Cards) {
		p["game/cards"] = nr.Cards
	} else {
		for i, c := range nr.Cards {
			if c.Revealed != pr.Cards[i].Revealed {
				p["game/cards/"+strconv.Itoa(i)+"/revealed"] = c.Revealed
			}
		}
	}

	if nr.CurrentTeam != pr.CurrentTeam {
		p["game/currentTeam"] = nr.CurrentTeam
	}
	if nr.RedRemaining != pr.RedRemaining {
		p["game/redRemaining"] = nr.RedRemaining
	}
	if nr.BlueRemaining != pr.BlueRemaining {
		p["game/blueRemaining"] = nr.BlueRemaining
	}
	if nr.GameOver != pr.GameOver {
		p["game/gameOver"] = nr.GameOver
	}
	if nr.Winner != pr.Winner {
		if nr.Winner == "" {
			p["game/winner"] = nil
		} else {
			p["game/winner"] = nr.Winner
		}
	}

	if len(nr.ClueHistory) < len(pr.ClueHistory) {
		p["game/clueHistory"] = nr.ClueHistory
	} else {
		for i := len(pr.ClueHistory); i < len(nr.ClueHistory); i++ {
			p["game/clueHistory/"+strconv.Itoa(i)] = nr.ClueHistory[i]
		}
	}

	if !sameClue(prev.Turn.Clue, next.Turn.Clue) {
		if next.Turn.Clue == nil {
			p["clue"] = nil
		} else {
			p["clue"] = *next.Turn.Clue
		}
	}
	if next.Turn.GuessesLeft != prev.Turn.GuessesLeft {
		p["guessesLeft"] = next.Turn.GuessesLeft
	}

	return p
}

func sameClue(a, b *game.Clue) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseClueNumber parses the clue count typed by a spymaster. Only
// non-negative integers are accepted.
func ParseClueNumber(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func guessBudget(number int) int {
	if number == 0 {
		return UnlimitedGuesses
	}
	// One more than the stated count; a wrong guess still ends the turn.
	return number + 1
}

func (s State) openClue(c Clue, entries ...LogEntry) State {
	next := State{Record: s.Record.clone()}
	next.Turn = Turn{Clue: &c, GuessesLeft: guessBudget(c.Number)}
	next.Record.ClueHistory = append(next.Record.ClueHistory, c)
	next.Record.Log = append(next.Record.Log, entries...)
	return next
}

// GiveClue opens the guessing phase for the current team.
func (s State) GiveClue(word string, number int) (State, bool) {
	if s.Phase() != AwaitingClue {
		return s, false
	}

	word = strings.ToUpper(strings.TrimSpace(word))
	if word == "" || number < 0 {
		return s, false
	}

	team := s.Record.CurrentTeam
	c := Clue{Word: word, Number: number, Team: team}

	return s.openClue(c, LogEntry{
		Kind: LogClue,
		Team: team,
		Text: fmt.Sprintf("%s : %d", word, number),
	}), true
}

// ApplyClue opens the guessing phase with a clue proposed by the advisor.
// matched lists the words the advisor was aiming at.
func (s State) ApplyClue(c Clue, matched []string) (State, bool) {
	if s.Phase() != AwaitingClue || c.Team != s.Record.CurrentTeam {
		return s, false
	}
	c.Word = strings.ToUpper(strings.TrimSpace(c.Word))
	if c.Word == "" || c.Number < 0 {
		return s, false
	}

	return s.openClue(c,
		LogEntry{
			Kind: LogClue,
			Team: c.Team,
			Text: fmt.Sprintf("AI: %s : %d", c.Word, c.Number),
		},
		LogEntry{
			Kind: LogInfo,
			Text: "Targets: " + strings.Join(matched, ", "),
		},
	), true
}

// RevealCard flips card id for the guessing team. It returns a nil Reveal,
// and the unchanged state, when the guess is not allowed.
func (s State) RevealCard(id int) (State, *Reveal) {
	if s.Phase() != Guessing {
		return s, nil
	}
	if id < 0 || id >= len(s.Record.Cards) {
		return s, nil
	}
	card := s.Record.Cards[id]
	if card.Revealed {
		return s, nil
	}

	team := s.Record.CurrentTeam
	next := State{Record: s.Record.clone(), Turn: s.Turn}
	rec := &next.Record

	rec.Cards[id].Revealed = true
	rec.RedRemaining, rec.BlueRemaining = countRemaining(rec.Cards)
	guesses := s.Turn.GuessesLeft - 1

	rec.Log = append(rec.Log, LogEntry{
		Kind: LogGuess,
		Team: team,
		Text: fmt.Sprintf("guessed %q: %s", card.Word, guessOutcome(card.Type, team)),
	})

	result := &Reveal{}

	switch card.Type {
	case TypeAssassin:
		rec.GameOver = true
		rec.Winner = team.Other()
		rec.Log = append(rec.Log, LogEntry{
			Kind: LogEnd,
			Text: fmt.Sprintf("%s hit the assassin! %s wins!", upper(team), upper(rec.Winner)),
		})
		result.EndType = EndAssassin

	case TypeOf(team):
		switch {
		case rec.Remaining(team) == 0:
			rec.GameOver = true
			rec.Winner = team
			rec.Log = append(rec.Log, LogEntry{
				Kind: LogEnd,
				Text: fmt.Sprintf("%s found all their agents! %s wins!", upper(team), upper(team)),
			})
			result.EndType = EndWin
		case guesses <= 0:
			passTurn(rec)
			result.TurnEnded = true
		}

	default:
		guesses = 0
		passTurn(rec)
		result.TurnEnded = true
	}

	if result.TurnEnded || result.EndType != EndNone {
		next.Turn = Turn{}
	} else {
		next.Turn.GuessesLeft = guesses
	}
	result.GameOver = rec.GameOver

	return next, result
}

// EndTurn hands play to the other team without further guesses.
func (s State) EndTurn() (State, bool) {
	if s.Record.GameOver {
		return s, false
	}

	next := State{Record: s.Record.clone()}
	prev := next.Record.CurrentTeam
	next.Record.CurrentTeam = prev.Other()
	next.Record.Log = append(next.Record.Log, LogEntry{
		Kind: LogTurn,
		Text: fmt.Sprintf("%s ends turn. Now %s's turn.", upper(prev), upper(next.Record.CurrentTeam)),
	})

	return next, true
}

// LogError appends an error entry without touching the rest of the game.
func (s State) LogError(text string) State {
	next := State{Record: s.Record.clone(), Turn: s.Turn}
	next.Record.Log = append(next.Record.Log, LogEntry{Kind: LogError, Text: text})
	return next
}

func passTurn(rec *Record) {
	rec.CurrentTeam = rec.CurrentTeam.Other()
	rec.Log = append(rec.Log, LogEntry{
		Kind: LogTurn,
		Text: "Turn passes to " + upper(rec.CurrentTeam),
	})
}

func guessOutcome(t CardType, team Team) string {
	switch t {
	case TypeOf(team):
		return "correct"
	case TypeAssassin:
		return "assassin"
	case TypeNeutral:
		return "bystander"
	default:
		return "opponent's agent"
	}
}

func upper(t Team) string {
	return strings.ToUpper(string(t))
}

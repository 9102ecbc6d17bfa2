/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package game implements the board generator and turn state machine for
// spydle. Every transition is a pure function of a State value.
package game

import (
	"errors"
	"slices"
)

const (
	// BoardSize is the number of cards dealt onto the grid.
	BoardSize = 25

	// FirstTeamCards is the number of agents belonging to the team that starts.
	FirstTeamCards = 9

	// SecondTeamCards is the number of agents belonging to the other team.
	SecondTeamCards = 8

	// NeutralCards is the number of bystanders on the board.
	NeutralCards = 7

	// UnlimitedGuesses is stored as the guess budget for a zero clue.
	UnlimitedGuesses = 99
)

var ErrTooFewWords = errors.New("need at least 25 words to deal a board")

// Team is one of the two competing sides.
type Team string

const (
	Red  Team = "red"
	Blue Team = "blue"
)

// Other returns the opposing team.
func (t Team) Other() Team {
	if t == Red {
		return Blue
	}
	return Red
}

func (t Team) Valid() bool {
	return t == Red || t == Blue
}

// CardType is the secret role of a card.
type CardType string

const (
	TypeRed      CardType = "red"
	TypeBlue     CardType = "blue"
	TypeNeutral  CardType = "neutral"
	TypeAssassin CardType = "assassin"
)

// TypeOf returns the card type owned by team t.
func TypeOf(t Team) CardType {
	return CardType(t)
}

type Card struct {
	ID       int      `json:"id"`
	Word     string   `json:"word"`
	Type     CardType `json:"type"`
	Revealed bool     `json:"revealed"`
}

// Clue is a word and the number of board words it points at.
type Clue struct {
	Word   string `json:"word"`
	Number int    `json:"number"`
	Team   Team   `json:"team"`
}

// LogKind tags a narrated event.
type LogKind string

const (
	LogClue  LogKind = "clue"
	LogGuess LogKind = "guess"
	LogTurn  LogKind = "turn"
	LogEnd   LogKind = "end"
	LogError LogKind = "error"
	LogInfo  LogKind = "info"
)

type LogEntry struct {
	Kind LogKind `json:"type"`
	Team Team    `json:"team,omitempty"`
	Text string  `json:"text"`
}

// Record is the authoritative game record. Winner is empty until GameOver.
type Record struct {
	Cards         []Card     `json:"cards"`
	FirstTeam     Team       `json:"firstTeam"`
	CurrentTeam   Team       `json:"currentTeam"`
	RedRemaining  int        `json:"redRemaining"`
	BlueRemaining int        `json:"blueRemaining"`
	GameOver      bool       `json:"gameOver"`
	Winner        Team       `json:"winner,omitempty"`
	ClueHistory   []Clue     `json:"clueHistory"`
	Log           []LogEntry `json:"log"`
}

// Remaining returns the number of unrevealed agents for team t.
func (r Record) Remaining(t Team) int {
	if t == Red {
		return r.RedRemaining
	}
	return r.BlueRemaining
}

func (r Record) clone() Record {
	r.Cards = slices.Clone(r.Cards)
	r.ClueHistory = slices.Clone(r.ClueHistory)
	r.Log = slices.Clone(r.Log)
	return r
}

// Turn is the overlay for the team currently guessing. It is not part of the
// record proper; the replicated document stores it beside the record.
type Turn struct {
	Clue        *Clue `json:"clue"`
	GuessesLeft int   `json:"guessesLeft"`
}

// State is a record together with its turn overlay.
type State struct {
	Record Record
	Turn   Turn
}

// NewState wraps a freshly generated record with an empty turn.
func NewState(r Record) State {
	return State{Record: r}
}

// Phase names where a State sits in the turn cycle.
type Phase string

const (
	AwaitingClue Phase = "awaiting_clue"
	Guessing     Phase = "guessing"
	Over         Phase = "over"
)

func (s State) Phase() Phase {
	switch {
	case s.Record.GameOver:
		return Over
	case s.Turn.Clue != nil:
		return Guessing
	default:
		return AwaitingClue
	}
}

// EndType reports how a reveal finished the game, if it did.
type EndType string

const (
	EndNone     EndType = ""
	EndAssassin EndType = "assassin"
	EndWin      EndType = "win"
)

// Reveal describes the outcome of a successful RevealCard so callers can
// trigger their own side effects.
type Reveal struct {
	EndType   EndType `json:"endType,omitempty"`
	TurnEnded bool    `json:"turnEnded"`
	GameOver  bool    `json:"gameOver"`
}

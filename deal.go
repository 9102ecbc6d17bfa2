/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Seednode/spydle/internal/advisor"
	"github.com/Seednode/spydle/internal/game"
	"github.com/Seednode/spydle/internal/random"
	"github.com/Seednode/spydle/internal/wordpack"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const gridSize = 5

var cardColors = map[game.CardType]*color.Color{
	game.TypeRed:      color.New(color.FgRed, color.Bold),
	game.TypeBlue:     color.New(color.FgBlue, color.Bold),
	game.TypeNeutral:  color.New(color.FgYellow),
	game.TypeAssassin: color.New(color.FgHiWhite, color.BgBlack, color.Bold),
}

type dealOptions struct {
	pack  string
	words string
	seed  uint64
}

// newDealCmd prints a board and its key card, for playing at a table with
// the server nowhere in sight.
func newDealCmd(v *viper.Viper) *cobra.Command {
	opts := &dealOptions{}

	cmd := &cobra.Command{
		Use:   "deal",
		Short: "Deal a board and print it with its key card.",
		Args:  cobra.ExactArgs(0),
		PreRun: func(cmd *cobra.Command, args []string) {
			bindEnv(v, cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeal(cmd.OutOrStdout(), opts, cmd.Flags().Changed("seed"))
		},
	}

	fs := cmd.Flags()
	fs.SetNormalizeFunc(normalizeFlags)

	fs.StringVar(&opts.pack, "pack", "classic", "word pack to deal from (env: SPYDLE_PACK)")
	fs.StringVar(&opts.words, "words", "", "file of comma or newline separated words, for the custom pack (env: SPYDLE_WORDS)")
	fs.Uint64Var(&opts.seed, "seed", 0, "seed for a repeatable deal (env: SPYDLE_SEED)")

	return cmd
}

func runDeal(w io.Writer, opts *dealOptions, seeded bool) error {
	var seed []uint64
	if seeded {
		seed = append(seed, opts.seed)
	}
	rng, err := random.New(seed...)
	if err != nil {
		return err
	}

	var rec game.Record
	if opts.pack == wordpack.CustomID {
		if opts.words == "" {
			return errors.New("--words is required for the custom pack")
		}
		data, err := os.ReadFile(opts.words)
		if err != nil {
			return err
		}
		pack, err := wordpack.ParseCustom(string(data))
		if err != nil {
			return err
		}
		rec, err = game.GenerateBoard(pack.Words, rng)
		if err != nil {
			return err
		}
	} else {
		rec, err = wordpack.Default().Generate(opts.pack, rng)
		if err != nil {
			return err
		}
	}

	fmt.Fprintln(w, renderGrid(rec, "Board", false))
	fmt.Fprintln(w, renderGrid(rec, "Key", true))

	first := cardColors[game.TypeOf(rec.FirstTeam)]
	fmt.Fprintf(w, "%s goes first with %d agents.\n", first.Sprint(strings.ToUpper(string(rec.FirstTeam))), game.FirstTeamCards)

	s, err := advisor.Best(rec, advisor.DefaultTable)
	switch {
	case errors.Is(err, advisor.ErrNoClue):
		fmt.Fprintln(w, "No opening clue suggested.")
	case err != nil:
		return err
	default:
		fmt.Fprintf(w, "Suggested opening clue: %s : %d (%s)\n", s.Clue.Word, s.Clue.Number, strings.Join(s.Matched, ", "))
	}

	return nil
}

// renderGrid lays the cards out five to a row. With key set, each word is
// colored by its secret type.
func renderGrid(rec game.Record, title string, key bool) string {
	t := table.NewWriter()
	t.SetTitle(title)

	for i := 0; i < len(rec.Cards); i += gridSize {
		row := table.Row{}
		for _, c := range rec.Cards[i:min(i+gridSize, len(rec.Cards))] {
			word := c.Word
			if key {
				word = cardColors[c.Type].Sprint(word)
			}
			row = append(row, word)
		}
		t.AppendRow(row)
	}

	t.SetStyle(table.StyleRounded)
	t.Style().Options.SeparateRows = true
	t.Style().Title.Align = text.AlignCenter

	return t.Render()
}

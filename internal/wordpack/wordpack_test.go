package wordpack

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/Seednode/spydle/internal/game"
)

func TestBundledPacksAreLargeEnough(t *testing.T) {
	t.Parallel()

	for _, p := range Default().List() {
		if len(p.Words) < game.BoardSize {
			t.Fatalf("pack %q has %d words, want at least %d", p.ID, len(p.Words), game.BoardSize)
		}
		seen := map[string]bool{}
		for _, w := range p.Words {
			if w != strings.ToUpper(w) {
				t.Fatalf("pack %q word %q is not upper case", p.ID, w)
			}
			if seen[w] {
				t.Fatalf("pack %q repeats %q", p.ID, w)
			}
			seen[w] = true
		}
	}
}

func TestRegistryOrderAndReplace(t *testing.T) {
	t.Parallel()

	r := New(Classic, Nature)
	r.Add(Pack{ID: "classic", Name: "Replaced", Words: Classic.Words})

	list := r.List()
	if len(list) != 2 || list[0].ID != "classic" || list[1].ID != "nature" {
		t.Fatalf("list = %+v", list)
	}
	if list[0].Name != "Replaced" {
		t.Fatalf("name = %q, want Replaced", list[0].Name)
	}
}

func TestGenerateFromPack(t *testing.T) {
	t.Parallel()

	rec, err := Default().Generate("fantasy", rand.New(rand.NewPCG(3, 4)))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(rec.Cards) != game.BoardSize {
		t.Fatalf("cards = %d", len(rec.Cards))
	}

	_, err = Default().Generate("missing", rand.New(rand.NewPCG(3, 4)))
	if !errors.Is(err, ErrUnknownPack) {
		t.Fatalf("err = %v, want %v", err, ErrUnknownPack)
	}
}

func TestParseCustom(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	for i := range 26 {
		b.WriteString(" word")
		b.WriteByte(byte('a' + i))
		if i%2 == 0 {
			b.WriteString(",")
		} else {
			b.WriteString("\n")
		}
	}
	b.WriteString(",,WORDA\n")

	p, err := ParseCustom(b.String())
	if err != nil {
		t.Fatalf("parse custom: %v", err)
	}
	if p.ID != CustomID {
		t.Fatalf("id = %q, want %q", p.ID, CustomID)
	}
	if len(p.Words) != 26 {
		t.Fatalf("words = %d, want 26", len(p.Words))
	}
	if p.Words[0] != "WORDA" {
		t.Fatalf("first word = %q, want WORDA", p.Words[0])
	}
}

func TestParseCustomTooFew(t *testing.T) {
	t.Parallel()

	_, err := ParseCustom("one, two, three")
	if !errors.Is(err, ErrTooFewWords) {
		t.Fatalf("err = %v, want %v", err, ErrTooFewWords)
	}
}

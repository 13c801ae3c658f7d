package models

import (
	"errors"
	"sort"
	"testing"
)

func TestNewMultiDeck(t *testing.T) {
	tests := []struct {
		packs  int
		jokers bool
		want   int
	}{
		{1, false, 52},
		{1, true, 54},
		{3, false, 156},
		{2, true, 108},
	}
	for _, tt := range tests {
		d := NewMultiDeck(tt.packs, tt.jokers)
		if len(d.Cards) != tt.want {
			t.Fatalf("NewMultiDeck(%d, %t) has %d cards, want %d", tt.packs, tt.jokers, len(d.Cards), tt.want)
		}
		if d.Shuffled {
			t.Fatalf("NewMultiDeck should be unshuffled")
		}
		for _, c := range d.Cards {
			if !CodeValid(c) {
				t.Fatalf("invalid generated code %q", c)
			}
		}
	}

	d := NewMultiDeck(1, true)
	if d.Cards[0] != "AS" || d.Cards[51] != "KH" || d.Cards[52] != BlackJoker || d.Cards[53] != RedJoker {
		t.Fatalf("unexpected sorted order: %v", d.Cards)
	}
}

func TestNewCustomDeck(t *testing.T) {
	d, err := NewCustomDeck([]string{"as", "KH", " 8C", "2D"})
	if err != nil {
		t.Fatalf("NewCustomDeck: %v", err)
	}
	want := []string{"AS", "KH", "8C", "2D"}
	for i := range want {
		if d.Cards[i] != want[i] {
			t.Fatalf("card %d = %q, want %q", i, d.Cards[i], want[i])
		}
	}

	if _, err := NewCustomDeck([]string{"AS", "1Z"}); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}
}

func TestShuffleKeepsCards(t *testing.T) {
	d := NewMultiDeck(1, false)
	before := append([]string(nil), d.Cards...)
	d.Shuffle()
	if !d.Shuffled {
		t.Fatalf("Shuffle should mark deck shuffled")
	}
	after := append([]string(nil), d.Cards...)
	sort.Strings(before)
	sort.Strings(after)
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("shuffle changed card set")
		}
	}
}

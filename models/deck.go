package models

import (
	"fmt"
	"math/rand/v2"
)

type Deck struct {
	Cards    []string // card codes, top of the draw pile first
	Shuffled bool
	NPackets int // number of standard packs merged into this deck
}

// NewMultiDeck builds number standard 52 card packs in sorted order,
// each followed by both jokers when jokers is set.
func NewMultiDeck(number int, jokers bool) *Deck {
	deck := &Deck{NPackets: number}
	for i := 0; i < number; i++ {
		for _, suit := range Suits {
			for _, rank := range Ranks {
				deck.Cards = append(deck.Cards, rank+suit)
			}
		}
		if jokers {
			deck.Cards = append(deck.Cards, BlackJoker, RedJoker)
		}
	}
	return deck
}

// NewCustomDeck builds a deck holding only codes, in the given order.
func NewCustomDeck(codes []string) (*Deck, error) {
	deck := &Deck{NPackets: 1}
	for _, code := range codes {
		code = normalize(code)
		if code == "" {
			continue
		}
		if !CodeValid(code) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCode, code)
		}
		deck.Cards = append(deck.Cards, code)
	}
	return deck, nil
}

func (d *Deck) Shuffle() {
	ShuffleCodes(d.Cards)
	d.Shuffled = true
}

func ShuffleCodes(codes []string) {
	rand.Shuffle(len(codes), func(i, j int) {
		codes[i], codes[j] = codes[j], codes[i]
	})
}

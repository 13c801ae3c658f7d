package deckapi

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

var ErrInvalidArgument = errors.New("invalid argument")

// DrawMode selects which edge of a pile cards are drawn from.
type DrawMode string

const (
	Top    DrawMode = "top"
	Bottom DrawMode = "bottom"
	Random DrawMode = "random"
)

// Endpoints builds request URLs under a deck API base such as
// https://deckofcardsapi.com/api/deck. Every method is pure.
type Endpoints struct {
	Base string
}

func (e Endpoints) base() string {
	return strings.TrimRight(e.Base, "/")
}

func (e Endpoints) deck(deckID string) string {
	return e.base() + "/" + url.PathEscape(deckID)
}

func (e Endpoints) pile(deckID, pileName string) string {
	return e.deck(deckID) + "/pile/" + url.PathEscape(pileName)
}

// joinCodes keeps commas literal; the API splits the raw parameter on them.
func joinCodes(codes []string) string {
	return strings.Join(codes, ",")
}

func (e Endpoints) NewShuffledDeck(deckCount int) string {
	return e.base() + "/new/shuffle/?deck_count=" + strconv.Itoa(deckCount)
}

func (e Endpoints) Reshuffle(deckID string, remainingOnly bool) string {
	u := e.deck(deckID) + "/shuffle/"
	if remainingOnly {
		u += "?remaining=true"
	}
	return u
}

func (e Endpoints) BrandNewDeck(jokersEnabled bool) string {
	u := e.base() + "/new/"
	if jokersEnabled {
		u += "?jokers_enabled=true"
	}
	return u
}

func (e Endpoints) PartialDeck(codes []string) string {
	return e.base() + "/new/shuffle/?cards=" + joinCodes(codes)
}

func (e Endpoints) NewDeckDraw(count int) string {
	return e.base() + "/new/draw/?count=" + strconv.Itoa(count)
}

func (e Endpoints) Draw(deckID string, count int) string {
	return e.deck(deckID) + "/draw/?count=" + strconv.Itoa(count)
}

// ReturnToDeck returns drawn cards to the deck; no codes means all of them.
func (e Endpoints) ReturnToDeck(deckID string, codes []string) string {
	u := e.deck(deckID) + "/return/"
	if len(codes) > 0 {
		u += "?cards=" + joinCodes(codes)
	}
	return u
}

func (e Endpoints) AddToPile(deckID, pileName string, codes []string) string {
	return e.pile(deckID, pileName) + "/add/?cards=" + joinCodes(codes)
}

func (e Endpoints) ListPile(deckID, pileName string) string {
	return e.pile(deckID, pileName) + "/list/"
}

func (e Endpoints) ShufflePile(deckID, pileName string) string {
	return e.pile(deckID, pileName) + "/shuffle/"
}

// DrawFromPile fails with ErrInvalidArgument for a mode other than
// Top, Bottom or Random.
func (e Endpoints) DrawFromPile(deckID, pileName string, count int, mode DrawMode) (string, error) {
	u := e.pile(deckID, pileName) + "/draw/"
	switch mode {
	case Top:
	case Bottom:
		u += "bottom/"
	case Random:
		u += "random/"
	default:
		return "", fmt.Errorf("%w: mode must be one of top, bottom, random (got %q)", ErrInvalidArgument, string(mode))
	}
	return u + "?count=" + strconv.Itoa(count), nil
}

func (e Endpoints) DrawCardsFromPile(deckID, pileName string, codes []string) string {
	return e.pile(deckID, pileName) + "/draw/?cards=" + joinCodes(codes)
}

// ReturnFromPile returns the whole pile when codes is empty.
func (e Endpoints) ReturnFromPile(deckID, pileName string, codes []string) string {
	u := e.pile(deckID, pileName) + "/return/"
	if len(codes) > 0 {
		u += "?cards=" + joinCodes(codes)
	}
	return u
}

// BackImage derives the card back image URL from the API base, e.g.
// https://deckofcardsapi.com/static/img/back.png.
func (e Endpoints) BackImage() string {
	u, err := url.Parse(e.base())
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host + "/static/img/back.png"
}

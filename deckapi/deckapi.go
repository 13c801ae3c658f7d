// Package deckapi wraps the deckofcardsapi.com deck and pile endpoints.
//
// Every operation maps its arguments to a URL, issues one GET and returns
// the decoded body unchanged. Piles are addressed by (deck id, pile name)
// and created by the server on first add; nothing is tracked locally.
package deckapi

import (
	"context"
	"fmt"

	"deckofcards/config"
)

// Getter is the transport an API issues its requests through.
// *client.Client satisfies it.
type Getter interface {
	GetJSON(ctx context.Context, url string) (any, error)
}

type API struct {
	URLs   Endpoints
	getter Getter
}

// New returns an API rooted at base. An empty base selects the public
// deckofcardsapi.com endpoint.
func New(base string, getter Getter) *API {
	if base == "" {
		base = config.DefaultDeckAPIBase
	}
	return &API{URLs: Endpoints{Base: base}, getter: getter}
}

func (a *API) get(ctx context.Context, url string) (Result, error) {
	v, err := a.getter.GetJSON(ctx, url)
	if err != nil {
		return Result{}, err
	}
	return Result{v: v}, nil
}

// NewShuffledDeck creates deckCount shuffled standard decks merged into one.
func (a *API) NewShuffledDeck(ctx context.Context, deckCount int) (Result, error) {
	return a.get(ctx, a.URLs.NewShuffledDeck(deckCount))
}

// ReshuffleDeck shuffles the whole deck, or only the cards still in the
// draw pile when remainingOnly is set.
func (a *API) ReshuffleDeck(ctx context.Context, deckID string, remainingOnly bool) (Result, error) {
	return a.get(ctx, a.URLs.Reshuffle(deckID, remainingOnly))
}

// BrandNewDeck creates an unshuffled deck, with two jokers when asked.
func (a *API) BrandNewDeck(ctx context.Context, jokersEnabled bool) (Result, error) {
	return a.get(ctx, a.URLs.BrandNewDeck(jokersEnabled))
}

// PartialDeck creates a shuffled deck holding only the given cards.
func (a *API) PartialDeck(ctx context.Context, codes []string) (Result, error) {
	return a.get(ctx, a.URLs.PartialDeck(codes))
}

// NewDeckDraw creates a shuffled deck and draws count cards from it.
func (a *API) NewDeckDraw(ctx context.Context, count int) (Result, error) {
	return a.get(ctx, a.URLs.NewDeckDraw(count))
}

func (a *API) DrawCards(ctx context.Context, deckID string, count int) (Result, error) {
	return a.get(ctx, a.URLs.Draw(deckID, count))
}

func (a *API) ReturnToDeck(ctx context.Context, deckID string, codes []string) (Result, error) {
	return a.get(ctx, a.URLs.ReturnToDeck(deckID, codes))
}

func (a *API) AddToPile(ctx context.Context, deckID, pileName string, codes []string) (Result, error) {
	return a.get(ctx, a.URLs.AddToPile(deckID, pileName, codes))
}

func (a *API) ListPile(ctx context.Context, deckID, pileName string) (Result, error) {
	return a.get(ctx, a.URLs.ListPile(deckID, pileName))
}

func (a *API) ShufflePile(ctx context.Context, deckID, pileName string) (Result, error) {
	return a.get(ctx, a.URLs.ShufflePile(deckID, pileName))
}

// DrawFromPile rejects an unknown mode before any request is sent.
func (a *API) DrawFromPile(ctx context.Context, deckID, pileName string, count int, mode DrawMode) (Result, error) {
	u, err := a.URLs.DrawFromPile(deckID, pileName, count, mode)
	if err != nil {
		return Result{}, err
	}
	return a.get(ctx, u)
}

func (a *API) DrawCardsFromPile(ctx context.Context, deckID, pileName string, codes []string) (Result, error) {
	if len(codes) == 0 {
		return Result{}, fmt.Errorf("%w: no card codes to draw", ErrInvalidArgument)
	}
	return a.get(ctx, a.URLs.DrawCardsFromPile(deckID, pileName, codes))
}

// ReturnFromPile moves codes from the pile back into the draw pile. A nil
// or empty codes returns the entire pile.
func (a *API) ReturnFromPile(ctx context.Context, deckID, pileName string, codes []string) (Result, error) {
	return a.get(ctx, a.URLs.ReturnFromPile(deckID, pileName, codes))
}

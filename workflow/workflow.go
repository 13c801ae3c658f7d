// Package workflow runs the scripted deck and pile demonstration.
package workflow

import (
	"context"
	"fmt"
	"io"

	"deckofcards/deckapi"
	"deckofcards/models"
)

// Operations is the subset of *deckapi.API the demonstration uses.
type Operations interface {
	NewShuffledDeck(ctx context.Context, deckCount int) (deckapi.Result, error)
	ReshuffleDeck(ctx context.Context, deckID string, remainingOnly bool) (deckapi.Result, error)
	BrandNewDeck(ctx context.Context, jokersEnabled bool) (deckapi.Result, error)
	PartialDeck(ctx context.Context, codes []string) (deckapi.Result, error)
	DrawCards(ctx context.Context, deckID string, count int) (deckapi.Result, error)
	AddToPile(ctx context.Context, deckID, pileName string, codes []string) (deckapi.Result, error)
	ListPile(ctx context.Context, deckID, pileName string) (deckapi.Result, error)
	ShufflePile(ctx context.Context, deckID, pileName string) (deckapi.Result, error)
	DrawFromPile(ctx context.Context, deckID, pileName string, count int, mode deckapi.DrawMode) (deckapi.Result, error)
	ReturnFromPile(ctx context.Context, deckID, pileName string, codes []string) (deckapi.Result, error)
}

const (
	Player1 = "player1"
	Player2 = "player2"
)

// PartialCards is the card set of the partial deck built in the last step.
var PartialCards = []string{"AS", "KH", "8C", "2D"}

func printCards(out io.Writer, title string, cards []models.Card) {
	fmt.Fprintln(out, title)
	for _, c := range cards {
		fmt.Fprintf(out, " - %s of %s  (code=%s)\n", c.Value, c.Suit, c.Code)
	}
	fmt.Fprintln(out)
}

func deckSummary(r deckapi.Result) (string, int, error) {
	id, err := r.DeckID()
	if err != nil {
		return "", 0, err
	}
	remaining, err := r.Remaining()
	if err != nil {
		return "", 0, err
	}
	return id, remaining, nil
}

// Run performs the demonstration against deck, writing progress to out.
// The first failing step aborts the run; its error names the step.
func Run(ctx context.Context, deck Operations, backImageURL string, out io.Writer) error {
	created, err := deck.NewShuffledDeck(ctx, 1)
	if err != nil {
		return fmt.Errorf("new shuffled deck: %w", err)
	}
	deckID, remaining, err := deckSummary(created)
	if err != nil {
		return fmt.Errorf("new shuffled deck: %w", err)
	}
	fmt.Fprintf(out, "Created deck: %s | remaining: %d\n", deckID, remaining)

	drawn, err := deck.DrawCards(ctx, deckID, 4)
	if err != nil {
		return fmt.Errorf("draw cards: %w", err)
	}
	cards, err := drawn.Cards()
	if err != nil {
		return fmt.Errorf("draw cards: %w", err)
	}
	if len(cards) < 4 {
		return fmt.Errorf("draw cards: got %d cards, want 4", len(cards))
	}
	printCards(out, "Drawn cards:", cards)

	p1Codes := []string{cards[0].Code, cards[1].Code}
	p2Codes := []string{cards[2].Code, cards[3].Code}

	if _, err := deck.AddToPile(ctx, deckID, Player1, p1Codes); err != nil {
		return fmt.Errorf("add to %s: %w", Player1, err)
	}
	if _, err := deck.AddToPile(ctx, deckID, Player2, p2Codes); err != nil {
		return fmt.Errorf("add to %s: %w", Player2, err)
	}

	p1, err := deck.ListPile(ctx, deckID, Player1)
	if err != nil {
		return fmt.Errorf("list %s: %w", Player1, err)
	}
	p2, err := deck.ListPile(ctx, deckID, Player2)
	if err != nil {
		return fmt.Errorf("list %s: %w", Player2, err)
	}
	remaining, err = p1.Remaining()
	if err != nil {
		return fmt.Errorf("list %s: %w", Player1, err)
	}
	fmt.Fprintf(out, "Piles listed. Remaining in deck: %d\n", remaining)

	p1Cards, err := p1.PileCards(Player1)
	if err != nil {
		return fmt.Errorf("list %s: %w", Player1, err)
	}
	p2Cards, err := p2.PileCards(Player2)
	if err != nil {
		return fmt.Errorf("list %s: %w", Player2, err)
	}
	printCards(out, "Player1 pile:", p1Cards)
	printCards(out, "Player2 pile:", p2Cards)

	if _, err := deck.ShufflePile(ctx, deckID, Player1); err != nil {
		return fmt.Errorf("shuffle %s: %w", Player1, err)
	}
	fmt.Fprint(out, "Shuffled player1 pile.\n\n")

	fromPile, err := deck.DrawFromPile(ctx, deckID, Player2, 1, deckapi.Random)
	if err != nil {
		return fmt.Errorf("draw from %s: %w", Player2, err)
	}
	pileCards, err := fromPile.Cards()
	if err != nil {
		return fmt.Errorf("draw from %s: %w", Player2, err)
	}
	printCards(out, "Drew 1 card from player2 pile:", pileCards)

	returned, err := deck.ReturnFromPile(ctx, deckID, Player1, nil)
	if err != nil {
		return fmt.Errorf("return %s: %w", Player1, err)
	}
	remaining, err = returned.Remaining()
	if err != nil {
		return fmt.Errorf("return %s: %w", Player1, err)
	}
	fmt.Fprintf(out, "Returned player1 pile to deck. Deck remaining: %d\n", remaining)

	reshuffled, err := deck.ReshuffleDeck(ctx, deckID, true)
	if err != nil {
		return fmt.Errorf("reshuffle deck: %w", err)
	}
	id, remaining, err := deckSummary(reshuffled)
	if err != nil {
		return fmt.Errorf("reshuffle deck: %w", err)
	}
	fmt.Fprintf(out, "Reshuffled remaining cards in deck: %s | remaining: %d\n", id, remaining)

	fresh, err := deck.BrandNewDeck(ctx, true)
	if err != nil {
		return fmt.Errorf("brand new deck: %w", err)
	}
	id, remaining, err = deckSummary(fresh)
	if err != nil {
		return fmt.Errorf("brand new deck: %w", err)
	}
	fmt.Fprintf(out, "\nBrand new deck with jokers: %s | remaining: %d\n", id, remaining)

	partial, err := deck.PartialDeck(ctx, PartialCards)
	if err != nil {
		return fmt.Errorf("partial deck: %w", err)
	}
	id, remaining, err = deckSummary(partial)
	if err != nil {
		return fmt.Errorf("partial deck: %w", err)
	}
	fmt.Fprintf(out, "Partial deck created: %s | remaining: %d\n", id, remaining)

	if backImageURL != "" {
		fmt.Fprint(out, "\nBack of card image:\n")
		fmt.Fprintln(out, backImageURL)
	}
	return nil
}

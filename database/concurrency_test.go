package database

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"deckofcards/models"
)

// Concurrent single-card draws must never hand out the same card twice.
func TestConcurrency_RaceCondition_Draws(t *testing.T) {
	wp := setupTestDB(t)
	deckId := insertDeck(t, wp, models.NewMultiDeck(1, false))

	numGoroutines := 60
	var wg sync.WaitGroup
	drawnCards := make(chan string, numGoroutines)
	var emptyErrors int32

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cards, _, err := wp.DrawCards(deckId, 1)
			if errors.Is(err, ErrNotEnoughCards) {
				atomic.AddInt32(&emptyErrors, 1)
				return
			}
			if err != nil {
				t.Errorf("draw: %v", err)
				return
			}
			drawnCards <- cards[0]
		}()
	}
	wg.Wait()
	close(drawnCards)

	seen := make(map[string]int)
	for card := range drawnCards {
		seen[card]++
	}
	for card, count := range seen {
		if count > 1 {
			t.Errorf("card %s was drawn %d times", card, count)
		}
	}
	if len(seen) != 52 {
		t.Errorf("expected 52 distinct cards drawn, got %d", len(seen))
	}
	if emptyErrors != int32(numGoroutines-52) {
		t.Errorf("expected %d empty-deck errors, got %d", numGoroutines-52, emptyErrors)
	}

	remaining, err := wp.CardsInDeck(deckId)
	if err != nil {
		t.Fatalf("CardsInDeck: %v", err)
	}
	if remaining != 0 {
		t.Errorf("expected 0 cards remaining, got %d", remaining)
	}
}

// Mixed operations on one deck keep the total card count constant.
func TestConcurrency_DataIntegrity_CardCounting(t *testing.T) {
	wp := setupTestDB(t)
	deckId := insertDeck(t, wp, models.NewMultiDeck(2, false))

	drawn, _, err := wp.DrawCards(deckId, 40)
	if err != nil {
		t.Fatalf("initial draw: %v", err)
	}

	var wg sync.WaitGroup
	for i, code := range drawn {
		wg.Add(1)
		go func(i int, code string) {
			defer wg.Done()
			pile := fmt.Sprintf("pile_%d", i%4)
			if err := wp.AddToPile(deckId, pile, []string{code}); err != nil {
				t.Errorf("add %s to %s: %v", code, pile, err)
			}
		}(i, code)
	}
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := wp.ShuffleDeck(deckId, true); err != nil {
				t.Errorf("shuffle: %v", err)
			}
		}()
	}
	wg.Wait()

	piles, err := wp.ListPiles(deckId)
	if err != nil {
		t.Fatalf("ListPiles: %v", err)
	}
	inPiles := 0
	for name, n := range piles {
		if n != 10 {
			t.Errorf("pile %s has %d cards, want 10", name, n)
		}
		inPiles += n
	}
	remaining, err := wp.CardsInDeck(deckId)
	if err != nil {
		t.Fatalf("CardsInDeck: %v", err)
	}
	if inPiles+remaining != 104 {
		t.Errorf("cards lost: %d in piles + %d in deck != 104", inPiles, remaining)
	}
}

// Independent decks do not observe each other's draws.
func TestConcurrency_Isolation_MultipleDecks(t *testing.T) {
	wp := setupTestDB(t)

	deckIds := make([]string, 5)
	for i := range deckIds {
		deckIds[i] = insertDeck(t, wp, models.NewMultiDeck(1, true))
	}

	var wg sync.WaitGroup
	for i, id := range deckIds {
		for j := 0; j <= i; j++ {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				if _, _, err := wp.DrawCards(id, 2); err != nil {
					t.Errorf("draw from %s: %v", id, err)
				}
			}(id)
		}
	}
	wg.Wait()

	for i, id := range deckIds {
		remaining, err := wp.CardsInDeck(id)
		if err != nil {
			t.Fatalf("CardsInDeck: %v", err)
		}
		if want := 54 - 2*(i+1); remaining != want {
			t.Errorf("deck %d: %d remaining, want %d", i, remaining, want)
		}
	}
}

// Readers and writers interleaving must all finish.
func TestConcurrency_Deadlock_Prevention(t *testing.T) {
	wp := setupTestDB(t)
	deckId := insertDeck(t, wp, models.NewMultiDeck(1, false))

	done := make(chan struct{})
	go func() {
		var wg sync.WaitGroup
		for i := 0; i < 100; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				_, _ = wp.CardsInDeck(deckId)
				_, _ = wp.ListPiles(deckId)
			}()
			go func() {
				defer wg.Done()
				_, _ = wp.ShuffleDeck(deckId, false)
			}()
		}
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		t.Fatal("operations did not complete, possible deadlock")
	}
}

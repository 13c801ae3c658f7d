package database

import (
	"database/sql"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"deckofcards/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *WorkerPool {
	t.Helper()
	handler, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	wp := Init(handler, 4)
	t.Cleanup(func() {
		wp.Close()
		_ = handler.Close()
	})
	return wp
}

func insertDeck(t *testing.T, wp *WorkerPool, deck *models.Deck) string {
	t.Helper()
	id, err := wp.InsertDeck(deck)
	require.NoError(t, err)
	require.Len(t, id, 12)
	return id
}

// totalCards counts every card of the deck wherever it sits.
func totalCards(t *testing.T, wp *WorkerPool, deckId string, drawn int) int {
	t.Helper()
	n, err := wp.CardsInDeck(deckId)
	require.NoError(t, err)
	piles, err := wp.ListPiles(deckId)
	require.NoError(t, err)
	for _, c := range piles {
		n += c
	}
	return n + drawn
}

func TestInsertAndDraw(t *testing.T) {
	wp := setupTestDB(t)
	id := insertDeck(t, wp, models.NewMultiDeck(1, false))

	n, err := wp.CardsInDeck(id)
	require.NoError(t, err)
	assert.Equal(t, 52, n)

	codes, remaining, err := wp.DrawCards(id, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"AS", "2S", "3S"}, codes)
	assert.Equal(t, 49, remaining)

	codes, remaining, err = wp.DrawCards(id, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"4S"}, codes)
	assert.Equal(t, 48, remaining)
}

func TestDrawTooMany(t *testing.T) {
	wp := setupTestDB(t)
	deck, err := models.NewCustomDeck([]string{"AS", "KH"})
	require.NoError(t, err)
	id := insertDeck(t, wp, deck)

	_, _, err = wp.DrawCards(id, 3)
	assert.ErrorIs(t, err, ErrNotEnoughCards)

	n, err := wp.CardsInDeck(id)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "a failed draw takes nothing")

	_, _, err = wp.DrawCards(id, 0)
	assert.Error(t, err)
}

func TestUnknownDeck(t *testing.T) {
	wp := setupTestDB(t)

	_, _, err := wp.DrawCards("nope", 1)
	assert.ErrorIs(t, err, ErrDeckNotFound)
	_, err = wp.CardsInDeck("nope")
	assert.ErrorIs(t, err, ErrDeckNotFound)
	_, err = wp.ShuffleDeck("nope", false)
	assert.ErrorIs(t, err, ErrDeckNotFound)
	assert.ErrorIs(t, wp.AddToPile("nope", "p", []string{"AS"}), ErrDeckNotFound)
	_, err = wp.Shuffled("nope")
	assert.ErrorIs(t, err, ErrDeckNotFound)
}

func TestPileLifecycle(t *testing.T) {
	wp := setupTestDB(t)
	id := insertDeck(t, wp, models.NewMultiDeck(1, false))

	drawn, _, err := wp.DrawCards(id, 4)
	require.NoError(t, err)

	require.NoError(t, wp.AddToPile(id, "player1", drawn[:2]))
	require.NoError(t, wp.AddToPile(id, "player2", drawn[2:]))

	piles, err := wp.ListPiles(id)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"player1": 2, "player2": 2}, piles)

	cards, err := wp.PileCards(id, "player1")
	require.NoError(t, err)
	assert.Equal(t, drawn[:2], cards)

	require.NoError(t, wp.ShufflePile(id, "player1"))
	cards, err = wp.PileCards(id, "player1")
	require.NoError(t, err)
	assert.ElementsMatch(t, drawn[:2], cards)

	top, err := wp.DrawFromPile(id, "player2", DrawTop, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{drawn[3]}, top)

	bottom, err := wp.DrawFromPile(id, "player2", DrawBottom, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{drawn[2]}, bottom)

	_, err = wp.DrawFromPile(id, "player2", DrawRandom, 1)
	assert.ErrorIs(t, err, ErrNotEnoughCards)

	require.NoError(t, wp.ReturnCards(id, "player1", nil))
	n, err := wp.CardsInDeck(id)
	require.NoError(t, err)
	assert.Equal(t, 50, n)

	piles, err = wp.ListPiles(id)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"player1": 0, "player2": 0}, piles)

	assert.Equal(t, 52, totalCards(t, wp, id, 2))
}

func TestAddToPileRequiresDrawnCard(t *testing.T) {
	wp := setupTestDB(t)
	id := insertDeck(t, wp, models.NewMultiDeck(1, false))

	err := wp.AddToPile(id, "p", []string{"KH"})
	assert.ErrorIs(t, err, ErrCardNotDrawn)

	_, err = wp.PileCards(id, "missing")
	assert.ErrorIs(t, err, ErrPileNotFound)
}

func TestAddToPileMovesBetweenPiles(t *testing.T) {
	wp := setupTestDB(t)
	id := insertDeck(t, wp, models.NewMultiDeck(1, false))
	drawn, _, err := wp.DrawCards(id, 2)
	require.NoError(t, err)

	require.NoError(t, wp.AddToPile(id, "a", drawn))
	require.NoError(t, wp.AddToPile(id, "b", drawn[:1]))

	piles, err := wp.ListPiles(id)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 1, "b": 1}, piles)
}

func TestDrawCodesFromPile(t *testing.T) {
	wp := setupTestDB(t)
	id := insertDeck(t, wp, models.NewMultiDeck(1, false))
	drawn, _, err := wp.DrawCards(id, 3)
	require.NoError(t, err)
	require.NoError(t, wp.AddToPile(id, "p", drawn))

	got, err := wp.DrawCodesFromPile(id, "p", []string{drawn[1]})
	require.NoError(t, err)
	assert.Equal(t, []string{drawn[1]}, got)

	_, err = wp.DrawCodesFromPile(id, "p", []string{drawn[1]})
	assert.ErrorIs(t, err, ErrCardNotInPile)

	cards, err := wp.PileCards(id, "p")
	require.NoError(t, err)
	assert.Equal(t, []string{drawn[0], drawn[2]}, cards)
}

func TestReturnSpecificCards(t *testing.T) {
	wp := setupTestDB(t)
	id := insertDeck(t, wp, models.NewMultiDeck(1, false))
	drawn, _, err := wp.DrawCards(id, 3)
	require.NoError(t, err)

	require.NoError(t, wp.ReturnCards(id, "", []string{drawn[0]}))
	assert.ErrorIs(t, wp.ReturnCards(id, "", []string{drawn[0]}), ErrCardNotDrawn)

	n, err := wp.CardsInDeck(id)
	require.NoError(t, err)
	assert.Equal(t, 50, n)

	// returned cards go to the bottom of the draw pile
	rest, _, err := wp.DrawCards(id, 50)
	require.NoError(t, err)
	assert.Equal(t, drawn[0], rest[49])

	require.NoError(t, wp.ReturnCards(id, "", nil))
	n, err = wp.CardsInDeck(id)
	require.NoError(t, err)
	assert.Equal(t, 52, n)
}

func TestShuffleDeck(t *testing.T) {
	wp := setupTestDB(t)
	id := insertDeck(t, wp, models.NewMultiDeck(1, false))
	drawn, _, err := wp.DrawCards(id, 6)
	require.NoError(t, err)
	require.NoError(t, wp.AddToPile(id, "p", drawn[:3]))

	shuffled, err := wp.Shuffled(id)
	require.NoError(t, err)
	assert.False(t, shuffled)

	n, err := wp.ShuffleDeck(id, true)
	require.NoError(t, err)
	assert.Equal(t, 46, n)
	piles, err := wp.ListPiles(id)
	require.NoError(t, err)
	assert.Equal(t, 3, piles["p"])

	n, err = wp.ShuffleDeck(id, false)
	require.NoError(t, err)
	assert.Equal(t, 52, n)
	piles, err = wp.ListPiles(id)
	require.NoError(t, err)
	assert.Equal(t, 0, piles["p"])

	shuffled, err = wp.Shuffled(id)
	require.NoError(t, err)
	assert.True(t, shuffled)

	all, _, err := wp.DrawCards(id, 52)
	require.NoError(t, err)
	sort.Strings(all)
	want := append([]string(nil), models.NewMultiDeck(1, false).Cards...)
	sort.Strings(want)
	assert.Equal(t, want, all)
}

func TestDrawFromPileInvalidMode(t *testing.T) {
	wp := setupTestDB(t)
	_, err := wp.DrawFromPile("any", "p", "sideways", 1)
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestWorkerRecoversPanic(t *testing.T) {
	wp := setupTestDB(t)
	resp := wp.Execute(func() DBResponse { panic("boom") })
	require.Error(t, resp.Err)
	assert.Contains(t, resp.Err.Error(), "boom")

	// the pool still serves requests
	_, err := wp.InsertDeck(models.NewMultiDeck(1, false))
	assert.NoError(t, err)
}

func TestPanicRollsBackTransaction(t *testing.T) {
	wp := setupTestDB(t)

	resp := wp.write(func(tx *sql.Tx) DBResponse {
		if _, err := tx.Exec(`INSERT INTO Deck (deckId, shuffled) VALUES ('ghost', 0)`); err != nil {
			return DBResponse{Err: err}
		}
		panic("mid transaction")
	})
	require.Error(t, resp.Err)

	// a later writer is not blocked by the abandoned transaction
	done := make(chan error, 1)
	go func() {
		_, err := wp.InsertDeck(models.NewMultiDeck(1, false))
		done <- err
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("write blocked after a panicking transaction")
	}

	_, err := wp.Shuffled("ghost")
	assert.ErrorIs(t, err, ErrDeckNotFound)
}

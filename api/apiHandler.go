package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"deckofcards/config"
	"deckofcards/database"
	"deckofcards/models"
)

// RegisterHandlers mounts the deck API on mux under /api/deck/.
func RegisterHandlers(mux *http.ServeMux, workerPool *database.WorkerPool, cfg config.Server) {
	mux.HandleFunc("GET /api/deck/new/{$}", newDeck(workerPool, cfg, false))
	mux.HandleFunc("GET /api/deck/new/shuffle/{$}", newDeck(workerPool, cfg, true))
	mux.HandleFunc("GET /api/deck/new/draw/{$}", newDeckDraw(workerPool, cfg))
	mux.HandleFunc("GET /api/deck/{deck_id}/shuffle/{$}", shuffleDeck(workerPool))
	mux.HandleFunc("GET /api/deck/{deck_id}/draw/{$}", drawCards(workerPool, cfg))
	mux.HandleFunc("GET /api/deck/{deck_id}/return/{$}", returnCards(workerPool))

	mux.HandleFunc("GET /api/deck/{deck_id}/pile/{pile_name}/add/{$}", addToPile(workerPool))
	mux.HandleFunc("GET /api/deck/{deck_id}/pile/{pile_name}/list/{$}", listPile(workerPool, cfg))
	mux.HandleFunc("GET /api/deck/{deck_id}/pile/{pile_name}/shuffle/{$}", shufflePile(workerPool))
	mux.HandleFunc("GET /api/deck/{deck_id}/pile/{pile_name}/draw/{$}", drawPile(workerPool, cfg, database.DrawTop))
	mux.HandleFunc("GET /api/deck/{deck_id}/pile/{pile_name}/draw/bottom/{$}", drawPile(workerPool, cfg, database.DrawBottom))
	mux.HandleFunc("GET /api/deck/{deck_id}/pile/{pile_name}/draw/random/{$}", drawPile(workerPool, cfg, database.DrawRandom))
	mux.HandleFunc("GET /api/deck/{deck_id}/pile/{pile_name}/return/{$}", returnCards(workerPool))
}

// parseCount reads ?count=, defaulting to 1.
func parseCount(r *http.Request) (int, error) {
	if !r.URL.Query().Has("count") {
		return 1, nil
	}
	c, err := strconv.Atoi(r.URL.Query().Get("count"))
	if err != nil || c <= 0 {
		return 0, fmt.Errorf("%w: count must be a positive integer", ErrInvalidParameter)
	}
	return c, nil
}

// parseCodes splits ?cards= on commas, rejecting unknown and repeated codes.
func parseCodes(param string) ([]string, error) {
	var codes []string
	seen := make(map[string]bool)
	for _, code := range strings.Split(param, ",") {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		if !models.CodeValid(code) {
			return nil, fmt.Errorf("%w: %q", models.ErrInvalidCode, code)
		}
		if seen[code] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCards, code)
		}
		seen[code] = true
		codes = append(codes, code)
	}
	return codes, nil
}

func toCards(codes []string, imageBase string) []models.Card {
	cards := make([]models.Card, 0, len(codes))
	for _, code := range codes {
		c, err := models.NewCard(code, imageBase)
		if err != nil {
			c = models.Card{Code: code}
		}
		cards = append(cards, c)
	}
	return cards
}

func pileCounts(workerPool *database.WorkerPool, deckId string) (map[string]models.Pile, error) {
	counts, err := workerPool.ListPiles(deckId)
	if err != nil {
		return nil, err
	}
	piles := make(map[string]models.Pile, len(counts))
	for name, n := range counts {
		piles[name] = models.Pile{Remaining: n}
	}
	return piles, nil
}

// buildDeck reads ?cards=, or ?deck_count= and ?jokers_enabled=. An empty
// cards parameter is the same as none.
func buildDeck(r *http.Request, cfg config.Server) (*models.Deck, error) {
	q := r.URL.Query()
	if param := q.Get("cards"); param != "" {
		if len(param) > cfg.CustomDeckCardsLimit {
			return nil, fmt.Errorf("%w: cards exceeds %d characters", ErrParameterOutOfRange, cfg.CustomDeckCardsLimit)
		}
		codes, err := parseCodes(param)
		if err != nil {
			return nil, err
		}
		if len(codes) > 0 {
			return models.NewCustomDeck(codes)
		}
	}

	jokers, _ := strconv.ParseBool(q.Get("jokers_enabled"))
	nbDecks := 1
	if v := q.Get("deck_count"); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil || i <= 0 {
			return nil, fmt.Errorf("%w: deck_count must be a positive integer", ErrInvalidParameter)
		}
		if i > cfg.MaxDecks {
			return nil, fmt.Errorf("%w: deck_count above %d", ErrParameterOutOfRange, cfg.MaxDecks)
		}
		nbDecks = i
	}
	return models.NewMultiDeck(nbDecks, jokers), nil
}

// writePiles answers with the deck's remaining count and every pile's
// size, plus cards when non-nil.
func writePiles(w http.ResponseWriter, r *http.Request, workerPool *database.WorkerPool, deckId string, cards []models.Card) {
	remaining, err := workerPool.CardsInDeck(deckId)
	if err != nil {
		writeError(w, r, err, deckId)
		return
	}
	piles, err := pileCounts(workerPool, deckId)
	if err != nil {
		writeError(w, r, err, deckId)
		return
	}
	writeJSON(w, models.Response{
		Success:   true,
		DeckId:    deckId,
		Remaining: remaining,
		Piles:     piles,
		Cards:     cards,
	})
}

func newDeck(workerPool *database.WorkerPool, cfg config.Server, shuffle bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deck, err := buildDeck(r, cfg)
		if err != nil {
			writeError(w, r, err, "")
			return
		}
		if shuffle {
			deck.Shuffle()
		}
		deckId, err := workerPool.InsertDeck(deck)
		if err != nil {
			writeError(w, r, err, "")
			return
		}
		writeJSON(w, models.Response{
			Success:   true,
			DeckId:    deckId,
			Shuffled:  &deck.Shuffled,
			Remaining: len(deck.Cards),
		})
	}
}

func newDeckDraw(workerPool *database.WorkerPool, cfg config.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := parseCount(r)
		if err != nil {
			writeError(w, r, err, "")
			return
		}
		deck, err := buildDeck(r, cfg)
		if err != nil {
			writeError(w, r, err, "")
			return
		}
		deck.Shuffle()
		deckId, err := workerPool.InsertDeck(deck)
		if err != nil {
			writeError(w, r, err, "")
			return
		}
		codes, remaining, err := workerPool.DrawCards(deckId, count)
		if err != nil {
			writeError(w, r, err, deckId)
			return
		}
		writeJSON(w, models.Response{
			Success:   true,
			DeckId:    deckId,
			Shuffled:  &deck.Shuffled,
			Cards:     toCards(codes, cfg.PublicURL),
			Remaining: remaining,
		})
	}
}

func shuffleDeck(workerPool *database.WorkerPool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deckId := r.PathValue("deck_id")
		remainingOnly, _ := strconv.ParseBool(r.URL.Query().Get("remaining"))

		remaining, err := workerPool.ShuffleDeck(deckId, remainingOnly)
		if err != nil {
			writeError(w, r, err, deckId)
			return
		}
		shuffled := true
		writeJSON(w, models.Response{
			Success:   true,
			DeckId:    deckId,
			Shuffled:  &shuffled,
			Remaining: remaining,
		})
	}
}

func drawCards(workerPool *database.WorkerPool, cfg config.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deckId := r.PathValue("deck_id")
		count, err := parseCount(r)
		if err != nil {
			writeError(w, r, err, deckId)
			return
		}
		codes, remaining, err := workerPool.DrawCards(deckId, count)
		if err != nil {
			writeError(w, r, err, deckId)
			return
		}
		writeJSON(w, models.Response{
			Success:   true,
			DeckId:    deckId,
			Cards:     toCards(codes, cfg.PublicURL),
			Remaining: remaining,
		})
	}
}

func addToPile(workerPool *database.WorkerPool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deckId := r.PathValue("deck_id")
		pileName := r.PathValue("pile_name")

		codes, err := parseCodes(r.URL.Query().Get("cards"))
		if err != nil {
			writeError(w, r, err, deckId)
			return
		}
		if len(codes) == 0 {
			writeError(w, r, fmt.Errorf("%w: cards is required", ErrInvalidParameter), deckId)
			return
		}
		if err := workerPool.AddToPile(deckId, pileName, codes); err != nil {
			writeError(w, r, err, deckId)
			return
		}
		writePiles(w, r, workerPool, deckId, nil)
	}
}

func listPile(workerPool *database.WorkerPool, cfg config.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deckId := r.PathValue("deck_id")
		pileName := r.PathValue("pile_name")

		codes, err := workerPool.PileCards(deckId, pileName)
		if err != nil {
			writeError(w, r, err, deckId)
			return
		}
		remaining, err := workerPool.CardsInDeck(deckId)
		if err != nil {
			writeError(w, r, err, deckId)
			return
		}
		piles, err := pileCounts(workerPool, deckId)
		if err != nil {
			writeError(w, r, err, deckId)
			return
		}
		piles[pileName] = models.Pile{Remaining: len(codes), Cards: toCards(codes, cfg.PublicURL)}

		writeJSON(w, models.Response{
			Success:   true,
			DeckId:    deckId,
			Remaining: remaining,
			Piles:     piles,
		})
	}
}

func shufflePile(workerPool *database.WorkerPool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deckId := r.PathValue("deck_id")
		if err := workerPool.ShufflePile(deckId, r.PathValue("pile_name")); err != nil {
			writeError(w, r, err, deckId)
			return
		}
		writePiles(w, r, workerPool, deckId, nil)
	}
}

func drawPile(workerPool *database.WorkerPool, cfg config.Server, mode string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deckId := r.PathValue("deck_id")
		pileName := r.PathValue("pile_name")

		var drawn []string
		if param := r.URL.Query().Get("cards"); param != "" && mode == database.DrawTop {
			codes, err := parseCodes(param)
			if err != nil {
				writeError(w, r, err, deckId)
				return
			}
			drawn, err = workerPool.DrawCodesFromPile(deckId, pileName, codes)
			if err != nil {
				writeError(w, r, err, deckId)
				return
			}
		} else {
			count, err := parseCount(r)
			if err != nil {
				writeError(w, r, err, deckId)
				return
			}
			drawn, err = workerPool.DrawFromPile(deckId, pileName, mode, count)
			if err != nil {
				writeError(w, r, err, deckId)
				return
			}
		}
		writePiles(w, r, workerPool, deckId, toCards(drawn, cfg.PublicURL))
	}
}

// returnCards serves both /{deck_id}/return/ and the pile variant.
func returnCards(workerPool *database.WorkerPool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deckId := r.PathValue("deck_id")
		pileName := r.PathValue("pile_name")

		codes, err := parseCodes(r.URL.Query().Get("cards"))
		if err != nil {
			writeError(w, r, err, deckId)
			return
		}
		if err := workerPool.ReturnCards(deckId, pileName, codes); err != nil {
			writeError(w, r, err, deckId)
			return
		}
		if pileName == "" {
			remaining, err := workerPool.CardsInDeck(deckId)
			if err != nil {
				writeError(w, r, err, deckId)
				return
			}
			writeJSON(w, models.Response{Success: true, DeckId: deckId, Remaining: remaining})
			return
		}
		writePiles(w, r, workerPool, deckId, nil)
	}
}

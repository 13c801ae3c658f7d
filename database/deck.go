package database

import (
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	mathrand "math/rand/v2"
	"strings"

	"deckofcards/models"
)

const base62 = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Draw modes accepted by DrawFromPile.
const (
	DrawTop    = "top"
	DrawBottom = "bottom"
	DrawRandom = "random"
)

func randomBase62(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand.Read: %w", err)
	}
	out := make([]byte, n)
	for i := range b {
		out[i] = base62[int(b[i])%len(base62)]
	}
	return string(out), nil
}

type card struct {
	id   int64
	code string
}

func scanCards(rows *sql.Rows) ([]card, error) {
	defer rows.Close()
	var cards []card
	for rows.Next() {
		var c card
		if err := rows.Scan(&c.id, &c.code); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func codesOf(cards []card) []string {
	codes := make([]string, len(cards))
	for i, c := range cards {
		codes[i] = c.code
	}
	return codes
}

func normalizeCodes(codes []string) []string {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

func deckExists(tx *sql.Tx, deckId string) error {
	var n int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM Deck WHERE deckId = ?`, deckId).Scan(&n); err != nil {
		return fmt.Errorf("lookup deck: %w", err)
	}
	if n == 0 {
		return ErrDeckNotFound
	}
	return nil
}

func pileID(tx *sql.Tx, deckId, name string) (int64, error) {
	var id int64
	err := tx.QueryRow(`SELECT id FROM Pile WHERE deckId = ? AND name = ?`, deckId, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrPileNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lookup pile: %w", err)
	}
	return id, nil
}

func remaining(tx *sql.Tx, deckId string) (int, error) {
	var n int
	err := tx.QueryRow(`SELECT COUNT(*) FROM DeckCard WHERE deckId = ? AND state = ?`, deckId, stateStacked).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count remaining: %w", err)
	}
	return n, nil
}

func nextStackBottom(tx *sql.Tx, deckId string) (int64, error) {
	var pos int64
	err := tx.QueryRow(`SELECT COALESCE(MAX(position), -1) + 1 FROM DeckCard WHERE deckId = ? AND state = ?`,
		deckId, stateStacked).Scan(&pos)
	return pos, err
}

func nextPileTop(tx *sql.Tx, pile int64) (int64, error) {
	var pos int64
	err := tx.QueryRow(`SELECT COALESCE(MAX(position), -1) + 1 FROM DeckCard WHERE pileId = ? AND state = ?`,
		pile, statePiled).Scan(&pos)
	return pos, err
}

// reorder rewrites positions so that ids appear in the given order.
func reorder(tx *sql.Tx, ids []int64) error {
	stmt, err := tx.Prepare(`UPDATE DeckCard SET position = ? WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("prepare reorder: %w", err)
	}
	defer stmt.Close()
	for pos, id := range ids {
		if _, err := stmt.Exec(pos, id); err != nil {
			return fmt.Errorf("reorder card: %w", err)
		}
	}
	return nil
}

func shuffledIDs(cards []card) []int64 {
	ids := make([]int64, len(cards))
	for i, c := range cards {
		ids[i] = c.id
	}
	mathrand.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	return ids
}

// InsertDeck stores deck under a fresh 12 character id, top card first.
func (w *WorkerPool) InsertDeck(deck *models.Deck) (string, error) {
	resp := w.write(func(tx *sql.Tx) DBResponse {
		var deckToken string
		for tries := 0; tries < 30; tries++ {
			id, err := randomBase62(12)
			if err != nil {
				return DBResponse{Err: err}
			}
			var count int
			if err := tx.QueryRow(`SELECT COUNT(deckId) FROM Deck WHERE deckId = ?`, id).Scan(&count); err != nil {
				return DBResponse{Err: fmt.Errorf("lookup deck id: %w", err)}
			}
			if count == 0 {
				deckToken = id
				break
			}
		}
		if deckToken == "" {
			return DBResponse{Err: errors.New("could not generate a unique deck id")}
		}

		if _, err := tx.Exec(`INSERT INTO Deck(deckId, shuffled) VALUES (?, ?)`, deckToken, deck.Shuffled); err != nil {
			return DBResponse{Err: fmt.Errorf("insert deck: %w", err)}
		}

		stmt, err := tx.Prepare(`INSERT INTO DeckCard (deckId, code, state, position) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return DBResponse{Err: fmt.Errorf("prepare card insert: %w", err)}
		}
		defer stmt.Close()
		for i, code := range deck.Cards {
			if _, err := stmt.Exec(deckToken, code, stateStacked, i); err != nil {
				return DBResponse{Err: fmt.Errorf("insert card: %w", err)}
			}
		}
		return DBResponse{Data: deckToken}
	})
	if resp.Err != nil {
		return "", resp.Err
	}
	return resp.Data.(string), nil
}

// DrawCards deals amount cards off the top of the draw pile. Nothing is
// drawn when fewer than amount remain.
func (w *WorkerPool) DrawCards(deckId string, amount int) ([]string, int, error) {
	if amount < 1 {
		return nil, 0, fmt.Errorf("draw %d cards: amount must be positive", amount)
	}
	type drawResult struct {
		codes     []string
		remaining int
	}
	resp := w.write(func(tx *sql.Tx) DBResponse {
		if err := deckExists(tx, deckId); err != nil {
			return DBResponse{Err: err}
		}
		rows, err := tx.Query(`SELECT id, code FROM DeckCard WHERE deckId = ? AND state = ? ORDER BY position LIMIT ?`,
			deckId, stateStacked, amount)
		if err != nil {
			return DBResponse{Err: fmt.Errorf("select cards: %w", err)}
		}
		cards, err := scanCards(rows)
		if err != nil {
			return DBResponse{Err: err}
		}
		if len(cards) < amount {
			return DBResponse{Err: fmt.Errorf("%w: %d requested, %d left", ErrNotEnoughCards, amount, len(cards))}
		}
		for _, c := range cards {
			if _, err := tx.Exec(`UPDATE DeckCard SET state = ?, pileId = NULL WHERE id = ?`, stateDrawn, c.id); err != nil {
				return DBResponse{Err: fmt.Errorf("draw card: %w", err)}
			}
		}
		n, err := remaining(tx, deckId)
		if err != nil {
			return DBResponse{Err: err}
		}
		return DBResponse{Data: drawResult{codes: codesOf(cards), remaining: n}}
	})
	if resp.Err != nil {
		return nil, 0, resp.Err
	}
	r := resp.Data.(drawResult)
	return r.codes, r.remaining, nil
}

// ShuffleDeck shuffles the draw pile. Unless remainingOnly is set, every
// drawn or piled card is first brought back into the deck.
func (w *WorkerPool) ShuffleDeck(deckId string, remainingOnly bool) (int, error) {
	resp := w.write(func(tx *sql.Tx) DBResponse {
		if err := deckExists(tx, deckId); err != nil {
			return DBResponse{Err: err}
		}
		if !remainingOnly {
			if _, err := tx.Exec(`UPDATE DeckCard SET state = ?, pileId = NULL WHERE deckId = ?`, stateStacked, deckId); err != nil {
				return DBResponse{Err: fmt.Errorf("collect cards: %w", err)}
			}
		}
		rows, err := tx.Query(`SELECT id, code FROM DeckCard WHERE deckId = ? AND state = ?`, deckId, stateStacked)
		if err != nil {
			return DBResponse{Err: fmt.Errorf("select cards: %w", err)}
		}
		cards, err := scanCards(rows)
		if err != nil {
			return DBResponse{Err: err}
		}
		if err := reorder(tx, shuffledIDs(cards)); err != nil {
			return DBResponse{Err: err}
		}
		if _, err := tx.Exec(`UPDATE Deck SET shuffled = 1 WHERE deckId = ?`, deckId); err != nil {
			return DBResponse{Err: fmt.Errorf("mark shuffled: %w", err)}
		}
		return DBResponse{Data: len(cards)}
	})
	if resp.Err != nil {
		return 0, resp.Err
	}
	return resp.Data.(int), nil
}

// AddToPile moves drawn cards, or cards sitting in another pile, onto the
// top of the named pile. The pile is created on first use.
func (w *WorkerPool) AddToPile(deckId, pileName string, codes []string) error {
	resp := w.write(func(tx *sql.Tx) DBResponse {
		if err := deckExists(tx, deckId); err != nil {
			return DBResponse{Err: err}
		}
		if _, err := tx.Exec(`INSERT OR IGNORE INTO Pile (deckId, name) VALUES (?, ?)`, deckId, pileName); err != nil {
			return DBResponse{Err: fmt.Errorf("create pile: %w", err)}
		}
		pile, err := pileID(tx, deckId, pileName)
		if err != nil {
			return DBResponse{Err: err}
		}
		for _, code := range normalizeCodes(codes) {
			var id int64
			err := tx.QueryRow(`SELECT id FROM DeckCard
				WHERE deckId = ? AND code = ? AND (state = ? OR (state = ? AND pileId <> ?))
				ORDER BY state LIMIT 1`,
				deckId, code, stateDrawn, statePiled, pile).Scan(&id)
			if errors.Is(err, sql.ErrNoRows) {
				return DBResponse{Err: fmt.Errorf("%w: %s", ErrCardNotDrawn, code)}
			}
			if err != nil {
				return DBResponse{Err: fmt.Errorf("lookup card: %w", err)}
			}
			pos, err := nextPileTop(tx, pile)
			if err != nil {
				return DBResponse{Err: fmt.Errorf("pile position: %w", err)}
			}
			if _, err := tx.Exec(`UPDATE DeckCard SET state = ?, pileId = ?, position = ? WHERE id = ?`,
				statePiled, pile, pos, id); err != nil {
				return DBResponse{Err: fmt.Errorf("move card to pile: %w", err)}
			}
		}
		return DBResponse{}
	})
	return resp.Err
}

// ListPiles returns every pile of the deck with its card count.
func (w *WorkerPool) ListPiles(deckId string) (map[string]int, error) {
	resp := w.read(func(tx *sql.Tx) DBResponse {
		if err := deckExists(tx, deckId); err != nil {
			return DBResponse{Err: err}
		}
		rows, err := tx.Query(`SELECT p.name, COUNT(c.id) FROM Pile p
			LEFT JOIN DeckCard c ON c.pileId = p.id AND c.state = ?
			WHERE p.deckId = ? GROUP BY p.id, p.name`, statePiled, deckId)
		if err != nil {
			return DBResponse{Err: fmt.Errorf("list piles: %w", err)}
		}
		defer rows.Close()
		piles := make(map[string]int)
		for rows.Next() {
			var name string
			var count int
			if err := rows.Scan(&name, &count); err != nil {
				return DBResponse{Err: fmt.Errorf("scan pile: %w", err)}
			}
			piles[name] = count
		}
		if err := rows.Err(); err != nil {
			return DBResponse{Err: err}
		}
		return DBResponse{Data: piles}
	})
	if resp.Err != nil {
		return nil, resp.Err
	}
	return resp.Data.(map[string]int), nil
}

// PileCards returns the pile's codes from bottom to top.
func (w *WorkerPool) PileCards(deckId, pileName string) ([]string, error) {
	resp := w.read(func(tx *sql.Tx) DBResponse {
		if err := deckExists(tx, deckId); err != nil {
			return DBResponse{Err: err}
		}
		pile, err := pileID(tx, deckId, pileName)
		if err != nil {
			return DBResponse{Err: err}
		}
		rows, err := tx.Query(`SELECT id, code FROM DeckCard WHERE pileId = ? AND state = ? ORDER BY position`, pile, statePiled)
		if err != nil {
			return DBResponse{Err: fmt.Errorf("select pile cards: %w", err)}
		}
		cards, err := scanCards(rows)
		if err != nil {
			return DBResponse{Err: err}
		}
		return DBResponse{Data: codesOf(cards)}
	})
	if resp.Err != nil {
		return nil, resp.Err
	}
	return resp.Data.([]string), nil
}

func (w *WorkerPool) ShufflePile(deckId, pileName string) error {
	resp := w.write(func(tx *sql.Tx) DBResponse {
		if err := deckExists(tx, deckId); err != nil {
			return DBResponse{Err: err}
		}
		pile, err := pileID(tx, deckId, pileName)
		if err != nil {
			return DBResponse{Err: err}
		}
		rows, err := tx.Query(`SELECT id, code FROM DeckCard WHERE pileId = ? AND state = ?`, pile, statePiled)
		if err != nil {
			return DBResponse{Err: fmt.Errorf("select pile cards: %w", err)}
		}
		cards, err := scanCards(rows)
		if err != nil {
			return DBResponse{Err: err}
		}
		return DBResponse{Err: reorder(tx, shuffledIDs(cards))}
	})
	return resp.Err
}

// DrawFromPile takes count cards off the pile's top, bottom or at random.
func (w *WorkerPool) DrawFromPile(deckId, pileName, mode string, count int) ([]string, error) {
	var order string
	switch mode {
	case DrawTop:
		order = "position DESC"
	case DrawBottom:
		order = "position ASC"
	case DrawRandom:
		order = "RANDOM()"
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	if count < 1 {
		return nil, fmt.Errorf("draw %d cards: count must be positive", count)
	}

	resp := w.write(func(tx *sql.Tx) DBResponse {
		if err := deckExists(tx, deckId); err != nil {
			return DBResponse{Err: err}
		}
		pile, err := pileID(tx, deckId, pileName)
		if err != nil {
			return DBResponse{Err: err}
		}
		rows, err := tx.Query(`SELECT id, code FROM DeckCard WHERE pileId = ? AND state = ? ORDER BY `+order+` LIMIT ?`,
			pile, statePiled, count)
		if err != nil {
			return DBResponse{Err: fmt.Errorf("select pile cards: %w", err)}
		}
		cards, err := scanCards(rows)
		if err != nil {
			return DBResponse{Err: err}
		}
		if len(cards) < count {
			return DBResponse{Err: fmt.Errorf("%w: %d requested, %d in pile", ErrNotEnoughCards, count, len(cards))}
		}
		for _, c := range cards {
			if _, err := tx.Exec(`UPDATE DeckCard SET state = ?, pileId = NULL WHERE id = ?`, stateDrawn, c.id); err != nil {
				return DBResponse{Err: fmt.Errorf("draw from pile: %w", err)}
			}
		}
		return DBResponse{Data: codesOf(cards)}
	})
	if resp.Err != nil {
		return nil, resp.Err
	}
	return resp.Data.([]string), nil
}

// DrawCodesFromPile takes the named cards out of the pile.
func (w *WorkerPool) DrawCodesFromPile(deckId, pileName string, codes []string) ([]string, error) {
	resp := w.write(func(tx *sql.Tx) DBResponse {
		if err := deckExists(tx, deckId); err != nil {
			return DBResponse{Err: err}
		}
		pile, err := pileID(tx, deckId, pileName)
		if err != nil {
			return DBResponse{Err: err}
		}
		var drawn []string
		for _, code := range normalizeCodes(codes) {
			res, err := tx.Exec(`UPDATE DeckCard SET state = ?, pileId = NULL
				WHERE id = (SELECT id FROM DeckCard WHERE pileId = ? AND state = ? AND code = ? ORDER BY position DESC LIMIT 1)`,
				stateDrawn, pile, statePiled, code)
			if err != nil {
				return DBResponse{Err: fmt.Errorf("draw from pile: %w", err)}
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return DBResponse{Err: fmt.Errorf("%w: %s", ErrCardNotInPile, code)}
			}
			drawn = append(drawn, code)
		}
		return DBResponse{Data: drawn}
	})
	if resp.Err != nil {
		return nil, resp.Err
	}
	return resp.Data.([]string), nil
}

// ReturnCards puts cards back at the bottom of the draw pile. With an
// empty pileName the cards come from the drawn set, otherwise from that
// pile. Empty codes returns all of them.
func (w *WorkerPool) ReturnCards(deckId, pileName string, codes []string) error {
	resp := w.write(func(tx *sql.Tx) DBResponse {
		if err := deckExists(tx, deckId); err != nil {
			return DBResponse{Err: err}
		}

		where := `deckId = ? AND state = ?`
		args := []interface{}{deckId, stateDrawn}
		missing := ErrCardNotDrawn
		if pileName != "" {
			pile, err := pileID(tx, deckId, pileName)
			if err != nil {
				return DBResponse{Err: err}
			}
			where = `pileId = ? AND state = ?`
			args = []interface{}{pile, statePiled}
			missing = ErrCardNotInPile
		}

		var cards []card
		if wanted := normalizeCodes(codes); len(wanted) > 0 {
			taken := make(map[int64]bool)
			for _, code := range wanted {
				rows, err := tx.Query(`SELECT id, code FROM DeckCard WHERE `+where+` AND code = ? ORDER BY position`,
					append(args, code)...)
				if err != nil {
					return DBResponse{Err: fmt.Errorf("select card: %w", err)}
				}
				matches, err := scanCards(rows)
				if err != nil {
					return DBResponse{Err: err}
				}
				found := false
				for _, m := range matches {
					if !taken[m.id] {
						taken[m.id] = true
						cards = append(cards, m)
						found = true
						break
					}
				}
				if !found {
					return DBResponse{Err: fmt.Errorf("%w: %s", missing, code)}
				}
			}
		} else {
			rows, err := tx.Query(`SELECT id, code FROM DeckCard WHERE `+where+` ORDER BY position`, args...)
			if err != nil {
				return DBResponse{Err: fmt.Errorf("select cards: %w", err)}
			}
			all, err := scanCards(rows)
			if err != nil {
				return DBResponse{Err: err}
			}
			cards = all
		}

		pos, err := nextStackBottom(tx, deckId)
		if err != nil {
			return DBResponse{Err: fmt.Errorf("deck position: %w", err)}
		}
		for _, c := range cards {
			if _, err := tx.Exec(`UPDATE DeckCard SET state = ?, pileId = NULL, position = ? WHERE id = ?`,
				stateStacked, pos, c.id); err != nil {
				return DBResponse{Err: fmt.Errorf("return card: %w", err)}
			}
			pos++
		}
		return DBResponse{}
	})
	return resp.Err
}

// CardsInDeck counts the cards left in the draw pile.
func (w *WorkerPool) CardsInDeck(deckId string) (int, error) {
	resp := w.read(func(tx *sql.Tx) DBResponse {
		if err := deckExists(tx, deckId); err != nil {
			return DBResponse{Err: err}
		}
		n, err := remaining(tx, deckId)
		return DBResponse{Data: n, Err: err}
	})
	if resp.Err != nil {
		return 0, resp.Err
	}
	return resp.Data.(int), nil
}

// Shuffled reports whether the deck has been shuffled since creation.
func (w *WorkerPool) Shuffled(deckId string) (bool, error) {
	resp := w.read(func(tx *sql.Tx) DBResponse {
		var shuffled bool
		err := tx.QueryRow(`SELECT shuffled FROM Deck WHERE deckId = ?`, deckId).Scan(&shuffled)
		if errors.Is(err, sql.ErrNoRows) {
			return DBResponse{Err: ErrDeckNotFound}
		}
		if err != nil {
			return DBResponse{Err: fmt.Errorf("lookup deck: %w", err)}
		}
		return DBResponse{Data: shuffled}
	})
	if resp.Err != nil {
		return false, resp.Err
	}
	return resp.Data.(bool), nil
}

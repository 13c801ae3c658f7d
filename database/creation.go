package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Card states held in DeckCard.state.
const (
	stateStacked = iota // in the draw pile, ordered by position ascending
	stateDrawn          // dealt out, not in any pile
	statePiled          // in pileId, top card has the highest position
)

const schema = `
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS Deck (
  deckId   TEXT PRIMARY KEY,
  shuffled INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS Pile (
  id     INTEGER PRIMARY KEY AUTOINCREMENT,
  deckId TEXT NOT NULL,
  name   TEXT NOT NULL,
  FOREIGN KEY (deckId) REFERENCES Deck(deckId) ON DELETE CASCADE,
  UNIQUE(deckId, name)
);

CREATE TABLE IF NOT EXISTS DeckCard (
  id       INTEGER PRIMARY KEY AUTOINCREMENT,
  deckId   TEXT NOT NULL,
  code     TEXT NOT NULL,
  state    INTEGER NOT NULL DEFAULT 0,
  pileId   INTEGER,
  position INTEGER NOT NULL,
  FOREIGN KEY (deckId) REFERENCES Deck(deckId) ON DELETE CASCADE,
  FOREIGN KEY (pileId) REFERENCES Pile(id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS DeckCardByState ON DeckCard(deckId, state, position);
CREATE INDEX IF NOT EXISTS DeckCardByPile ON DeckCard(pileId, position);
`

// NewDB opens (creating if needed) the sqlite file at filepath and applies
// the schema.
func NewDB(filepath string) (*DBHandler, error) {
	dsn := fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", filepath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return NewDBHandler(db), nil
}

package database

import (
	"database/sql"
	"sync"
)

// DBHandler guards the sqlite handle. Writers take the exclusive lock so
// sqlite never sees two write transactions at once.
type DBHandler struct {
	db *sql.DB
	mu sync.RWMutex
}

func NewDBHandler(db *sql.DB) *DBHandler {
	return &DBHandler{db: db}
}

func (h *DBHandler) Lock() {
	h.mu.Lock()
}

func (h *DBHandler) RLock() {
	h.mu.RLock()
}

func (h *DBHandler) UnLock() {
	h.mu.Unlock()
}

func (h *DBHandler) RUnLock() {
	h.mu.RUnlock()
}

func (h *DBHandler) Close() error {
	return h.db.Close()
}

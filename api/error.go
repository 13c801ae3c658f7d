package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"deckofcards/database"
	"deckofcards/models"
)

var (
	ErrDuplicateCards      = errors.New("duplicate cards in request")
	ErrInvalidParameter    = errors.New("invalid parameter")
	ErrParameterOutOfRange = errors.New("parameter out of range")
)

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	DeckId  string `json:"deck_id,omitempty"`
}

func getHTTPStatus(err error) int {
	switch {
	case errors.Is(err, database.ErrDeckNotFound),
		errors.Is(err, database.ErrPileNotFound),
		errors.Is(err, database.ErrCardNotDrawn),
		errors.Is(err, database.ErrCardNotInPile):
		return http.StatusNotFound

	case errors.Is(err, models.ErrInvalidCode),
		errors.Is(err, ErrDuplicateCards),
		errors.Is(err, ErrInvalidParameter),
		errors.Is(err, ErrParameterOutOfRange),
		errors.Is(err, database.ErrNotEnoughCards),
		errors.Is(err, database.ErrInvalidMode):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the status mapped from err. Server-side failures
// are logged with the request id.
func writeError(w http.ResponseWriter, r *http.Request, err error, deckId string) {
	status := getHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("request %s: %s %s: %v", RequestIDFromContext(r.Context()), r.Method, r.URL.Path, err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Success: false,
		DeckId:  deckId,
		Error:   err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, resp models.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

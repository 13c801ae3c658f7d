package deckapi

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"deckofcards/models"
)

// FieldError reports a response field that is missing or of the wrong type.
type FieldError struct {
	Path   string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("response field %q: %s", e.Path, e.Reason)
}

// Result is a decoded API response, kept exactly as the server sent it.
// Accessors only look at the fields a caller asks for.
type Result struct {
	v any
}

// NewResult wraps an already decoded JSON value.
func NewResult(v any) Result { return Result{v: v} }

func (r Result) Raw() any { return r.v }

// Lookup walks nested objects by key.
func (r Result) Lookup(path ...string) (any, error) {
	cur := r.v
	for i, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, &FieldError{Path: strings.Join(path[:i+1], "."), Reason: "parent is not an object"}
		}
		next, ok := obj[key]
		if !ok {
			return nil, &FieldError{Path: strings.Join(path[:i+1], "."), Reason: "missing"}
		}
		cur = next
	}
	return cur, nil
}

func (r Result) Str(path ...string) (string, error) {
	v, err := r.Lookup(path...)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", &FieldError{Path: strings.Join(path, "."), Reason: fmt.Sprintf("want string, got %T", v)}
	}
	return s, nil
}

func (r Result) Int(path ...string) (int, error) {
	v, err := r.Lookup(path...)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case json.Number:
		i, err := strconv.Atoi(n.String())
		if err != nil {
			return 0, &FieldError{Path: strings.Join(path, "."), Reason: "not an integer: " + n.String()}
		}
		return i, nil
	case float64:
		if n != float64(int(n)) {
			return 0, &FieldError{Path: strings.Join(path, "."), Reason: "not an integer"}
		}
		return int(n), nil
	}
	return 0, &FieldError{Path: strings.Join(path, "."), Reason: fmt.Sprintf("want number, got %T", v)}
}

func (r Result) Bool(path ...string) (bool, error) {
	v, err := r.Lookup(path...)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, &FieldError{Path: strings.Join(path, "."), Reason: fmt.Sprintf("want bool, got %T", v)}
	}
	return b, nil
}

// DeckID returns the "deck_id" field.
func (r Result) DeckID() (string, error) { return r.Str("deck_id") }

// Remaining returns the "remaining" field, the cards left in the draw pile.
func (r Result) Remaining() (int, error) { return r.Int("remaining") }

// Cards decodes the "cards" array.
func (r Result) Cards() ([]models.Card, error) {
	return r.cardsAt("cards")
}

// PileCards decodes piles.<name>.cards.
func (r Result) PileCards(pileName string) ([]models.Card, error) {
	return r.cardsAt("piles", pileName, "cards")
}

// PileRemaining returns piles.<name>.remaining.
func (r Result) PileRemaining(pileName string) (int, error) {
	return r.Int("piles", pileName, "remaining")
}

func (r Result) cardsAt(path ...string) ([]models.Card, error) {
	v, err := r.Lookup(path...)
	if err != nil {
		return nil, err
	}
	var cards []models.Card
	if err := remarshal(v, &cards); err != nil {
		return nil, &FieldError{Path: strings.Join(path, "."), Reason: err.Error()}
	}
	return cards, nil
}

// Decode converts the whole response into a typed value such as
// models.Response.
func (r Result) Decode(into any) error {
	if err := remarshal(r.v, into); err != nil {
		return &FieldError{Path: "$", Reason: err.Error()}
	}
	return nil
}

func remarshal(v any, into any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, into)
}

// MarshalJSON writes the response unchanged.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.v)
}

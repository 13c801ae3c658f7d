package models

// Card is a single card as it appears in API responses.
type Card struct {
	Code  string `json:"code"`
	Image string `json:"image"`
	Value string `json:"value"`
	Suit  string `json:"suit"`
}

type Pile struct {
	Remaining int    `json:"remaining"`
	Cards     []Card `json:"cards,omitempty"`
}

// Response is the envelope shared by every deck endpoint.
type Response struct {
	Success   bool            `json:"success"`
	DeckId    string          `json:"deck_id"`
	Remaining int             `json:"remaining"`
	Shuffled  *bool           `json:"shuffled,omitempty"`
	Cards     []Card          `json:"cards,omitempty"`
	Piles     map[string]Pile `json:"piles,omitempty"`
	Error     string          `json:"error,omitempty"`
}

package models

import (
	"errors"
	"strings"
)

// Ranks and suits in standard deck order. The ten is written "0" so that
// every code is exactly two characters.
var (
	Ranks = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "0", "J", "Q", "K"}
	Suits = []string{"S", "D", "C", "H"}
)

// Joker codes, black then red.
const (
	BlackJoker = "X1"
	RedJoker   = "X2"
)

var ErrInvalidCode = errors.New("invalid card code")

var values = map[byte]string{
	'A': "ACE",
	'2': "2",
	'3': "3",
	'4': "4",
	'5': "5",
	'6': "6",
	'7': "7",
	'8': "8",
	'9': "9",
	'0': "10",
	'J': "JACK",
	'Q': "QUEEN",
	'K': "KING",
}

var suits = map[byte]string{
	'S': "SPADES",
	'H': "HEARTS",
	'D': "DIAMONDS",
	'C': "CLUBS",
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func CodeValid(code string) bool {
	code = normalize(code)
	if len(code) != 2 {
		return false
	}
	if code == BlackJoker || code == RedJoker {
		return true
	}
	if _, ok := values[code[0]]; !ok {
		return false
	}
	_, ok := suits[code[1]]
	return ok
}

// GetValue returns the rank name of a card code, e.g. "QUEEN" for "QD".
func GetValue(code string) (string, error) {
	code = normalize(code)
	if !CodeValid(code) {
		return "", ErrInvalidCode
	}
	if code[0] == 'X' {
		return "JOKER", nil
	}
	return values[code[0]], nil
}

// GetSuit returns the suit name of a card code. Jokers carry their colour.
func GetSuit(code string) (string, error) {
	code = normalize(code)
	if !CodeValid(code) {
		return "", ErrInvalidCode
	}
	switch code {
	case BlackJoker:
		return "BLACK", nil
	case RedJoker:
		return "RED", nil
	}
	return suits[code[1]], nil
}

// NewCard expands a code into the full card shape served by the API.
// imageBase is prefixed to "/static/img/{code}.png".
func NewCard(code, imageBase string) (Card, error) {
	code = normalize(code)
	value, err := GetValue(code)
	if err != nil {
		return Card{}, err
	}
	suit, _ := GetSuit(code)
	return Card{
		Code:  code,
		Image: imageBase + "/static/img/" + code + ".png",
		Value: value,
		Suit:  suit,
	}, nil
}

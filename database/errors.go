package database

import "errors"

var (
	ErrDeckNotFound   = errors.New("deck not found")
	ErrPileNotFound   = errors.New("pile not found")
	ErrCardNotDrawn   = errors.New("card not drawn from deck")
	ErrCardNotInPile  = errors.New("card not found in pile")
	ErrNotEnoughCards = errors.New("not enough cards remaining")
	ErrInvalidMode    = errors.New("invalid draw mode")
)

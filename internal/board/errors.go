package board

import "errors"

var (
	ErrMalformed        = errors.New("malformed input")
	ErrNoFreeSlot       = errors.New("no free registry slot")
	ErrSetupClosed      = errors.New("setup closed")
	ErrInvalidPosition  = errors.New("invalid position")
	ErrPromotionPending = errors.New("promotion pending")
	ErrNoPromotion      = errors.New("no promotion pending")
	ErrCorrupt          = errors.New("board corrupt")
)

package game

import "errors"

var (
	ErrGameOver    = errors.New("game over")
	ErrStaleSearch = errors.New("board changed during search")
)

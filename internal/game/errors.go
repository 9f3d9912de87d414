package game

import "errors"

var (
	// ErrConfiguration is returned by NewSession for seat counts that make
	// the win condition vacuous or unreachable.
	ErrConfiguration = errors.New("game: invalid configuration")

	// ErrGameOver is returned when stepping a finished game.
	ErrGameOver = errors.New("game: game is over")

	// ErrNotDay is returned when discussion is requested outside the day.
	ErrNotDay = errors.New("game: discussion is only open during the day")
)

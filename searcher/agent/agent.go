package agent

import (
	"connectk/experiments/metrics"
	"connectk/game"
	"time"
)

type Agent interface {
	// FindMove returns the move to play and performance metrics (if collected) from the search
	FindMove(state *game.State) (game.Action, metrics.SearchMetric, error)
}

// TimeControl gives each side a longer budget for its first move.
type TimeControl struct {
	Opening time.Duration
	Move    time.Duration
}

func DefaultTimeControl() TimeControl {
	return TimeControl{Opening: 950 * time.Millisecond, Move: 95 * time.Millisecond}
}

// Budget returns the search budget for the side to move in state.
func (c TimeControl) Budget(state *game.State) time.Duration {
	if state.Moves() <= 1 {
		return c.Opening
	}
	return c.Move
}

package engine

import (
	"connectk/experiments/metrics"
	"connectk/game"
)

type Engine interface {
	// Run plays a game to the end and returns the winner, None for a draw
	Run() (winner game.Player, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}

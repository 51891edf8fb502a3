package agent

import (
	"connectk/experiments/metrics"
	"connectk/game"
	"connectk/searcher"
	"fmt"
)

type evaluationAgent struct {
	mcts  *searcher.MCTS
	clock TimeControl
}

// NewEvaluationAgent returns an agent playing the most visited move within
// the budget of its time control.
func NewEvaluationAgent(mcts *searcher.MCTS, clock TimeControl) Agent {
	return evaluationAgent{mcts: mcts, clock: clock}
}

func (a evaluationAgent) FindMove(state *game.State) (game.Action, metrics.SearchMetric, error) {
	move, metric, err := a.mcts.SearchFor(state, a.clock.Budget(state))
	if err != nil {
		return 0, metric, fmt.Errorf("failed to search %s: %w", state, err)
	}
	return move, metric, nil
}

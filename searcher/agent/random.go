package agent

import (
	"connectk/experiments/metrics"
	"connectk/game"
	"connectk/searcher"

	"golang.org/x/exp/rand"
)

type randomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent returns a baseline agent playing uniformly random legal moves.
func NewRandomAgent(seed uint64) Agent {
	return &randomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *randomAgent) FindMove(state *game.State) (game.Action, metrics.SearchMetric, error) {
	actions := state.LegalActions()
	if len(actions) == 0 {
		return 0, metrics.SearchMetric{}, searcher.ErrNoLegalMoves
	}
	return actions[a.rng.Intn(len(actions))], metrics.SearchMetric{}, nil
}

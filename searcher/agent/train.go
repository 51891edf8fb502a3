package agent

import (
	"connectk/experiments/metrics"
	"connectk/game"
	"connectk/searcher"
	"fmt"
	"math"
	"sort"

	"golang.org/x/exp/rand"
)

type trainingAgent struct {
	mcts        *searcher.MCTS
	clock       TimeControl
	temperature float64
	rng         *rand.Rand
}

// NewTrainingAgent returns an agent sampling its move from the root visit
// counts, sharpened or flattened by temperature. It varies self-play games
// that would otherwise repeat.
func NewTrainingAgent(mcts *searcher.MCTS, clock TimeControl, temperature float64, seed uint64) Agent {
	if temperature <= 0 {
		panic("temperature must be positive")
	}
	return &trainingAgent{
		mcts:        mcts,
		clock:       clock,
		temperature: temperature,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (a *trainingAgent) FindMove(state *game.State) (game.Action, metrics.SearchMetric, error) {
	_, metric, err := a.mcts.SearchFor(state, a.clock.Budget(state))
	if err != nil {
		return 0, metric, fmt.Errorf("failed to search %s: %w", state, err)
	}
	policy := adjustTemperature(a.mcts.Policy(), a.temperature)
	return sample(policy, a.rng.Float64()), metric, nil
}

func adjustTemperature(policy map[game.Action]float64, temperature float64) map[game.Action]float64 {
	// Compute temperature-adjusted move probabilities
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make(map[game.Action]float64, len(policy))
	for move, visit := range policy {
		prob := math.Pow(visit, exponent)
		sum += prob
		adjusted[move] = prob
	}
	// Normalize
	for move := range adjusted {
		adjusted[move] /= sum
	}
	return adjusted
}

// sample walks the moves in a fixed order so equal seeds pick equal moves.
func sample(policy map[game.Action]float64, sampled float64) game.Action {
	moves := make([]game.Action, 0, len(policy))
	for move := range policy {
		moves = append(moves, move)
	}
	sort.Slice(moves, func(i, j int) bool { return moves[i] < moves[j] })

	cumulative := 0.0
	var lastMove game.Action
	for _, move := range moves {
		lastMove = move
		cumulative += policy[move]
		if sampled < cumulative {
			return move
		}
	}
	return lastMove // Fallback in case of rounding errors
}

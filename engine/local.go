package engine

import (
	"connectk/experiments/metrics"
	"connectk/game"
	"connectk/searcher/agent"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

var _ Engine = (*Local)(nil)

type Local struct {
	State  *game.State
	Agents []agent.Agent // Agents[0] plays X
}

// LocalEngine sets up a game from the empty board between two in-process agents.
func LocalEngine(table *game.Table, agents []agent.Agent) *Local {
	if len(agents) != 2 {
		panic("need exactly two agents")
	}

	return &Local{
		State:  game.NewState(table),
		Agents: agents,
	}
}

// Run executes the game loop until the game is over. A move the position
// does not offer aborts the game.
func (e *Local) Run() (game.Player, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{StartTime: time.Now()}
	var moveMetrics []metrics.MoveMetric

	log.Debug().Msgf("starting game from %s", e.State)

	step := 1
	for !e.State.Terminal() {
		player := e.State.Turn()
		current := e.Agents[agentIndex(player)]

		move, searchMetric, err := current.FindMove(e.State)
		if err != nil {
			return game.None, gameMetric, moveMetrics, fmt.Errorf("agent %s failed at step %d: %w", player, step, err)
		}
		if !e.State.IsLegal(move) {
			err := &game.IllegalMoveError{Action: move, Reason: "not offered in " + e.State.String()}
			return game.None, gameMetric, moveMetrics, fmt.Errorf("agent %s failed at step %d: %w", player, step, err)
		}

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       player,
			Move:         move,
			SearchMetric: searchMetric,
		})
		log.Debug().Msgf("step %d: %s plays %s", step, player, move)

		e.State = e.State.MustPlay(move)
		step++
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.Outcome = e.State.Outcome()
	gameMetric.TotalMoves = len(moveMetrics)

	log.Debug().Msgf("game over after %d moves: %s\n%s", len(moveMetrics), e.State.Outcome(), e.State.Pretty())
	return e.State.Winner(), gameMetric, moveMetrics, nil
}

func agentIndex(player game.Player) int {
	if player == game.O {
		return 1
	}
	return 0
}

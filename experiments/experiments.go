package experiments

import (
	"connectk/engine"
	"connectk/experiments/metrics"
	"connectk/game"
	"connectk/searcher"
	"connectk/searcher/agent"
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"
)

const (
	KindMCTS     = "mcts"
	KindTraining = "training"
	KindRandom   = "random"
)

type Setup struct {
	Name      string
	Rules     game.Rules
	Configs   []metrics.AgentConfig
	MatchUps  [][]metrics.AgentConfig // pairs of agents, seats alternate between games
	NumGames  int                     // Per match up
	Workers   int                     // Games played at once
	OutputDir string                  // Empty skips writing records
	Seed      uint64                  // Zero draws a random seed
}

type Result struct {
	Dir         string
	GameRecords []metrics.GameRecord
	MoveRecords []metrics.MoveRecord
}

type scheduledGame struct {
	id     int
	first  metrics.AgentConfig // Plays X
	second metrics.AgentConfig
	seeds  [2]uint64
}

// Run plays every match up NumGames times, Workers games at a time, and
// writes the agent configs and the game and move records under OutputDir.
// The first error cancels games that have not started yet.
func Run(ctx context.Context, setup Setup) (*Result, error) {
	if err := validate(setup); err != nil {
		return nil, err
	}
	table, err := game.NewTable(setup.Rules)
	if err != nil {
		return nil, fmt.Errorf("failed to build table: %w", err)
	}

	seed := setup.Seed
	if seed == 0 {
		seed = frand.Uint64n(math.MaxUint64) + 1
	}
	log.Info().Msgf("starting %s experiment with seed %d...", setup.Name, seed)

	// Seeds are drawn up front so results do not depend on scheduling
	rng := rand.New(rand.NewSource(seed))
	games := []scheduledGame{}
	for _, matchup := range setup.MatchUps {
		for i := 0; i < setup.NumGames; i++ {
			g := scheduledGame{id: len(games) + 1, first: matchup[0], second: matchup[1]}
			if i%2 == 1 {
				g.first, g.second = g.second, g.first
			}
			g.seeds = [2]uint64{rng.Uint64(), rng.Uint64()}
			games = append(games, g)
		}
	}

	gameRecords := make([]metrics.GameRecord, len(games))
	moveRecords := make([][]metrics.MoveRecord, len(games))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(setup.Workers)
	for _, g := range games {
		g := g
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			log.Info().Msgf("starting game %d of %d between agent%d (X) and agent%d (O)...", g.id, len(games), g.first.ID, g.second.ID)

			record, moves, err := runGame(table, g)
			if err != nil {
				return fmt.Errorf("game %d failed: %w", g.id, err)
			}
			gameRecords[g.id-1] = record
			moveRecords[g.id-1] = moves

			log.Info().Msgf("completed game %d of %d with outcome %s", g.id, len(games), record.Outcome)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	result := &Result{GameRecords: gameRecords}
	for _, moves := range moveRecords {
		result.MoveRecords = append(result.MoveRecords, moves...)
	}
	log.Info().Msgf("completed %s experiment", setup.Name)

	if setup.OutputDir == "" {
		return result, nil
	}
	dir, err := store(setup, result)
	if err != nil {
		return nil, err
	}
	result.Dir = dir
	return result, nil
}

func validate(setup Setup) error {
	if setup.NumGames <= 0 {
		return fmt.Errorf("number of games must be positive, got %d", setup.NumGames)
	}
	if setup.Workers <= 0 {
		return fmt.Errorf("number of workers must be positive, got %d", setup.Workers)
	}
	for _, matchup := range setup.MatchUps {
		if len(matchup) != 2 {
			return fmt.Errorf("match up needs two agents, got %d", len(matchup))
		}
		for _, config := range matchup {
			if err := validateAgent(config); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateAgent(config metrics.AgentConfig) error {
	switch config.Kind {
	case KindRandom:
		return nil
	case KindMCTS, KindTraining:
		if config.Episodes <= 0 && config.Move <= 0 {
			return fmt.Errorf("agent %d needs episodes or a move budget", config.ID)
		}
		if config.Kind == KindTraining && config.Temperature <= 0 {
			return fmt.Errorf("agent %d needs a positive temperature", config.ID)
		}
		return nil
	}
	return fmt.Errorf("agent %d has unknown kind %q", config.ID, config.Kind)
}

// runGame plays a single game between two agents.
func runGame(table *game.Table, g scheduledGame) (metrics.GameRecord, []metrics.MoveRecord, error) {
	agents := []agent.Agent{
		createAgent(g.first, g.seeds[0]),
		createAgent(g.second, g.seeds[1]),
	}
	e := engine.LocalEngine(table, agents)

	winner, gameMetric, moveMetrics, err := e.Run()
	if err != nil {
		return metrics.GameRecord{}, nil, err
	}

	gameMetric.StartingAgent = g.first.ID
	switch winner {
	case game.X:
		gameMetric.Winner = g.first.ID
	case game.O:
		gameMetric.Winner = g.second.ID
	default:
		gameMetric.Winner = -1
	}

	record := metrics.GameRecord{
		ID:         g.id,
		Agent1:     g.first.ID,
		Agent2:     g.second.ID,
		GameMetric: gameMetric,
	}
	moves := make([]metrics.MoveRecord, 0, len(moveMetrics))
	for _, mm := range moveMetrics {
		moves = append(moves, metrics.MoveRecord{Game: g.id, MoveMetric: mm})
	}
	return record, moves, nil
}

func createAgent(config metrics.AgentConfig, seed uint64) agent.Agent {
	if config.Kind == KindRandom {
		return agent.NewRandomAgent(seed)
	}

	options := []searcher.Option{searcher.WithSeed(seed)}
	if config.Episodes > 0 {
		options = append(options, searcher.WithEpisodes(config.Episodes))
	}
	if config.Move > 0 {
		options = append(options, searcher.WithDuration(config.Move))
	}
	if config.Exploration > 0 {
		options = append(options, searcher.WithExploration(config.Exploration))
	}
	options = append(options, searcher.WithMetrics())

	mcts := searcher.NewMCTS(options...)
	clock := agent.TimeControl{Opening: config.Opening, Move: config.Move}
	if config.Kind == KindTraining {
		return agent.NewTrainingAgent(mcts, clock, config.Temperature, seed^0x9e3779b97f4a7c15)
	}
	return agent.NewEvaluationAgent(mcts, clock)
}

func store(setup Setup, result *Result) (string, error) {
	writer, err := metrics.NewWriter(setup.OutputDir, setup.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err := writer.WriteAgentConfigs(setup.Configs); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(result.GameRecords); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(result.MoveRecords); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")

	return writer.Dir(), nil
}

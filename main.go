package main

import (
	"connectk/config"
	"connectk/experiments"
	"connectk/experiments/metrics"
	"connectk/game"
	"connectk/searcher"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("connectk failed")
		os.Exit(1)
	}
}

func run() error {
	cfgPath := flag.String("config", "", "Config file (default: connectk/config.json in the XDG config dirs)")
	height := flag.Int("height", 0, "Board height")
	width := flag.Int("width", 0, "Board width")
	connect := flag.Int("connect", 0, "Stones in a row needed to win")
	pie := flag.Bool("pie", true, "Allow the second player to swap after the first move")
	opening := flag.Duration("opening", 0, "Search budget for the first move of each side")
	move := flag.Duration("move", 0, "Search budget for every other move")
	episodes := flag.Int("episodes", 0, "Cap on search iterations per move")
	exploration := flag.Float64("exploration", 0, "UCB exploration constant")
	opponent := flag.String("opponent", "", "Opponent of the MCTS agent: mcts, training or random")
	games := flag.Int("games", 0, "Games to play")
	workers := flag.Int("workers", 0, "Games played at once")
	seed := flag.Uint64("seed", 0, "Experiment seed (0 picks one)")
	out := flag.String("out", "", "Directory for experiment records")
	level := flag.String("log", "", "Log level")
	console := flag.Bool("console", false, "Human-friendly log output")
	position := flag.String("position", "", "Print the move chosen for this position instead of running games")
	moves := flag.String("moves", "", "Like -position, for the position after these comma separated moves")
	save := flag.Bool("save", false, "Save the resulting config to the XDG config home")
	flag.Parse()

	var cfg *config.Config
	var err error
	if *cfgPath != "" {
		cfg, err = config.Load(*cfgPath)
	} else {
		cfg, err = config.InitConfig()
	}
	if err != nil {
		return err
	}

	// Only flags given on the command line override the file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "height":
			cfg.Rules.Height = *height
		case "width":
			cfg.Rules.Width = *width
		case "connect":
			cfg.Rules.Connect = *connect
		case "pie":
			cfg.Rules.PieRule = *pie
		case "opening":
			cfg.Search.OpeningMillis = int(opening.Milliseconds())
		case "move":
			cfg.Search.MoveMillis = int(move.Milliseconds())
		case "episodes":
			cfg.Search.Episodes = *episodes
		case "exploration":
			cfg.Search.Exploration = *exploration
		case "opponent":
			cfg.Experiment.Opponent = *opponent
		case "games":
			cfg.Experiment.Games = *games
		case "workers":
			cfg.Experiment.Workers = *workers
		case "seed":
			cfg.Experiment.Seed = *seed
		case "out":
			cfg.Experiment.OutputDir = *out
		case "log":
			cfg.LogLevel = *level
		case "console":
			cfg.Console = *console
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	zerolog.SetGlobalLevel(cfg.Level())
	if cfg.Console {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	if *save {
		path, err := cfg.Save()
		if err != nil {
			return err
		}
		log.Info().Msgf("saved config to %s", path)
	}

	if *position != "" || *moves != "" {
		return analyse(cfg, *position, *moves)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := experiments.Run(ctx, setupFrom(cfg))
	if err != nil {
		return err
	}
	summarize(result)
	return nil
}

// analyse searches a single position with the opening or move budget,
// whichever its side would get in a game.
func analyse(cfg *config.Config, position, moves string) error {
	table, err := game.NewTable(cfg.Rules)
	if err != nil {
		return err
	}
	state, err := startingState(table, position, moves)
	if err != nil {
		return err
	}

	options := []searcher.Option{searcher.WithDuration(cfg.Search.Move()), searcher.WithExploration(cfg.Search.Exploration)}
	if cfg.Search.Episodes > 0 {
		options = append(options, searcher.WithEpisodes(cfg.Search.Episodes))
	}
	if cfg.Experiment.Seed != 0 {
		options = append(options, searcher.WithSeed(cfg.Experiment.Seed))
	}
	mcts := searcher.NewMCTS(options...)

	budget := cfg.Search.Move()
	if state.Moves() <= 1 {
		budget = cfg.Search.Opening()
	}
	choice, err := mcts.ChooseMove(state, budget)
	if err != nil {
		return err
	}

	log.Debug().Msgf("position:\n%s", state.Pretty())
	fmt.Println(choice)
	return nil
}

func startingState(table *game.Table, position, moves string) (*game.State, error) {
	if position != "" {
		return table.Parse(position)
	}
	state := game.NewState(table)
	for _, token := range strings.Split(moves, ",") {
		a, err := game.ParseAction(strings.TrimSpace(token))
		if err != nil {
			return nil, fmt.Errorf("failed to read move %q: %w", token, err)
		}
		if state, err = state.Play(a); err != nil {
			return nil, err
		}
	}
	return state, nil
}

func setupFrom(cfg *config.Config) experiments.Setup {
	player := metrics.AgentConfig{
		ID:          1,
		Kind:        experiments.KindMCTS,
		Opening:     cfg.Search.Opening(),
		Move:        cfg.Search.Move(),
		Episodes:    cfg.Search.Episodes,
		Exploration: cfg.Search.Exploration,
	}
	opponent := player
	opponent.ID = 2
	opponent.Kind = cfg.Experiment.Opponent
	if opponent.Kind == experiments.KindTraining {
		opponent.Temperature = cfg.Experiment.Temperature
	}

	return experiments.Setup{
		Name:      fmt.Sprintf("%s_vs_%s", player.Kind, opponent.Kind),
		Rules:     cfg.Rules,
		Configs:   []metrics.AgentConfig{player, opponent},
		MatchUps:  [][]metrics.AgentConfig{{player, opponent}},
		NumGames:  cfg.Experiment.Games,
		Workers:   cfg.Experiment.Workers,
		OutputDir: cfg.Experiment.OutputDir,
		Seed:      cfg.Experiment.Seed,
	}
}

func summarize(result *experiments.Result) {
	wins := map[int]int{}
	for _, record := range result.GameRecords {
		wins[record.Winner]++
	}
	log.Info().Msgf("agent1 won %d, agent2 won %d, %d drawn of %d games",
		wins[1], wins[2], wins[-1], len(result.GameRecords))
	if result.Dir != "" {
		log.Info().Msgf("records written to %s", result.Dir)
	}
}

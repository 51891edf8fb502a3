package config

import "connectk/game"

var DefaultConfig = Config{
	Rules: game.StandardRules(),
	Search: SearchConfig{
		OpeningMillis: 950,
		MoveMillis:    95,
		Exploration:   1.4,
	},
	Experiment: ExperimentConfig{
		Opponent:    "random",
		Temperature: 1.0,
		Games:       10,
		Workers:     4,
		OutputDir:   "experiments",
	},
	LogLevel: "info",
}

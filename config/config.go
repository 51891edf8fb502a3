package config

import (
	"connectk/game"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
)

var (
	cfgFile = "connectk/config.json"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

// SearchConfig holds the budget and tuning of the MCTS agent.
type SearchConfig struct {
	OpeningMillis int     `json:"opening_ms"` // first move of each side
	MoveMillis    int     `json:"move_ms"`
	Episodes      int     `json:"episodes"` // 0 searches for the whole budget
	Exploration   float64 `json:"exploration"`
}

func (s SearchConfig) Opening() time.Duration {
	return time.Duration(s.OpeningMillis) * time.Millisecond
}

func (s SearchConfig) Move() time.Duration {
	return time.Duration(s.MoveMillis) * time.Millisecond
}

// ExperimentConfig holds the self-play settings.
type ExperimentConfig struct {
	Opponent    string  `json:"opponent"` // mcts, training or random
	Temperature float64 `json:"temperature"`
	Games       int     `json:"games"`
	Workers     int     `json:"workers"`
	Seed        uint64  `json:"seed"`
	OutputDir   string  `json:"output_dir"`
}

type Config struct {
	Rules      game.Rules       `json:"rules"`
	Search     SearchConfig     `json:"search"`
	Experiment ExperimentConfig `json:"experiment"`
	LogLevel   string           `json:"log_level"`
	Console    bool             `json:"console"`
}

// InitConfig layers the config file found in the XDG config directories, if
// any, over the defaults.
func InitConfig() (*Config, error) {
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err != nil {
		config := DefaultConfig
		if err := config.Validate(); err != nil {
			return nil, err
		}
		return &config, nil
	}
	return Load(absPath)
}

// Load layers the config file at path over the defaults.
func Load(path string) (*Config, error) {
	config := DefaultConfig
	if err := readCfgFile(path, &config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	if err := c.Rules.Validate(); err != nil {
		return &InvalidConfig{err.Error()}
	}
	if c.Search.OpeningMillis <= 0 || c.Search.MoveMillis <= 0 {
		return &InvalidConfig{"search budgets must be positive"}
	}
	if c.Search.Episodes < 0 {
		return &InvalidConfig{"episodes cannot be negative"}
	}
	if c.Search.Exploration < 0 {
		return &InvalidConfig{"exploration cannot be negative"}
	}
	switch c.Experiment.Opponent {
	case "mcts", "random":
	case "training":
		if c.Experiment.Temperature <= 0 {
			return &InvalidConfig{"training opponent needs a positive temperature"}
		}
	default:
		return &InvalidConfig{fmt.Sprintf("unknown opponent %q", c.Experiment.Opponent)}
	}
	if c.Experiment.Games <= 0 {
		return &InvalidConfig{"games must be positive"}
	}
	if c.Experiment.Workers < 1 {
		return &InvalidConfig{"at least one worker is needed"}
	}
	if level, err := zerolog.ParseLevel(c.LogLevel); err != nil || level == zerolog.NoLevel {
		return &InvalidConfig{fmt.Sprintf("unknown log level %q", c.LogLevel)}
	}
	return nil
}

// Level returns the zerolog level named by LogLevel.
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// Save writes the config to the XDG config home and returns its path.
func (c *Config) Save() (string, error) {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return "", fmt.Errorf("failed to resolve config path: %w", err)
	}
	return absPath, saveCfgFile(absPath, c, 0664)
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	err = os.WriteFile(filePath, jsonData, perm)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func readCfgFile(filePath string, a interface{}) error {
	configReader, err := os.ReadFile(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config file %s not found: %w", filePath, err)
	}
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	err = json.Unmarshal(configReader, a)
	if err != nil {
		return &InvalidConfig{fmt.Sprintf("%s: %v", filePath, err)}
	}
	return nil
}

package metrics

import (
	"connectk/game"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCollector(t *testing.T) {
	t.Run("counting a search", func(t *testing.T) {
		c := NewCollector()
		c.Start(time.Second, 1.4, 99)
		c.AddEpisode()
		c.AddEpisode()
		c.AddRollout(10)
		c.AddRollout(5)
		c.SetTree(17, 3)

		metric := c.Complete()

		require.Equal(t, 2, metric.Episodes)
		require.Equal(t, 2, metric.Rollouts)
		require.Equal(t, 15, metric.RolloutPlys)
		require.Equal(t, 17, metric.Nodes)
		require.Equal(t, 3, metric.MaxDepth)
		require.Equal(t, time.Second, metric.Budget)
		require.Equal(t, 1.4, metric.Exploration)
		require.Equal(t, uint64(99), metric.Seed)
	})

	t.Run("resetting counts on start", func(t *testing.T) {
		c := NewCollector()
		c.Start(0, 1.4, 1)
		c.AddEpisode()
		c.Start(0, 1.4, 1)

		require.Zero(t, c.Complete().Episodes)
	})

	t.Run("collecting nothing when disabled", func(t *testing.T) {
		c := NewDummyCollector()
		c.Start(time.Second, 1.4, 1)
		c.AddEpisode()

		require.Equal(t, SearchMetric{}, c.Complete())
	})
}

func TestWriter(t *testing.T) {
	root := t.TempDir()
	w, err := NewWriter(root, "strength")
	require.NoError(t, err)
	require.DirExists(t, w.Dir())
	require.Equal(t, filepath.Join(root, "strength"), filepath.Dir(w.Dir()))

	t.Run("writing agent configs", func(t *testing.T) {
		err := w.WriteAgentConfigs([]AgentConfig{
			{ID: 1, Kind: "mcts", Opening: 950 * time.Millisecond, Move: 95 * time.Millisecond, Exploration: 1.4},
			{ID: 2, Kind: "random"},
		})
		require.NoError(t, err)

		rows := readCSV(t, filepath.Join(w.Dir(), "agent_configs.csv"))
		require.Len(t, rows, 3)
		require.Equal(t, []string{"id", "kind", "opening", "move", "episodes", "exploration", "temperature"}, rows[0])
		require.Equal(t, []string{"1", "mcts", "950ms", "95ms", "0", "1.4", "0"}, rows[1])
	})

	t.Run("writing game records", func(t *testing.T) {
		start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		err := w.WriteGameRecords([]GameRecord{{
			ID:     1,
			Agent1: 1,
			Agent2: 2,
			GameMetric: GameMetric{
				StartingAgent: 2,
				Outcome:       game.OWins,
				Winner:        1,
				StartTime:     start,
				EndTime:       start.Add(time.Second),
				Duration:      time.Second,
				TotalMoves:    12,
			},
		}})
		require.NoError(t, err)

		rows := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
		require.Len(t, rows, 2)
		require.Equal(t, []string{"1", "1", "2", "2", "o-wins", "1", "2024-01-02T03:04:05Z", "2024-01-02T03:04:06Z", "1s", "12"}, rows[1])
	})

	t.Run("writing move records", func(t *testing.T) {
		err := w.WriteMoveRecords([]MoveRecord{{
			Game: 1,
			MoveMetric: MoveMetric{
				Step:         2,
				Player:       game.O,
				Move:         game.Swap,
				SearchMetric: SearchMetric{Episodes: 40, Rollouts: 40, Nodes: 300, MaxDepth: 4, Seed: 7},
			},
		}})
		require.NoError(t, err)

		rows := readCSV(t, filepath.Join(w.Dir(), "move_records.csv"))
		require.Len(t, rows, 2)
		require.Equal(t, []string{"1", "2", "O", "swap", "0s", "0s", "40", "40", "0", "300", "4", "7"}, rows[1])
	})
}

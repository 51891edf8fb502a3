package searcher

import (
	"connectk/game"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewMCTS(t *testing.T) {
	t.Run("panics without episodes or duration", func(t *testing.T) {
		require.Panics(t, func() {
			NewMCTS()
		})
		require.Panics(t, func() {
			NewMCTS(WithEpisodes(0), WithDuration(-time.Second))
		})
	})

	t.Run("keeping defaults for invalid options", func(t *testing.T) {
		m := NewMCTS(WithEpisodes(10), WithExploration(-1))

		require.Equal(t, DefaultExploration, m.exploration)
	})
}

func TestSearch(t *testing.T) {
	t.Run("returning an error for a finished game", func(t *testing.T) {
		state := game.NewState(classic()).MustPlay(0).MustPlay(6).MustPlay(1).MustPlay(6).MustPlay(2).MustPlay(6).MustPlay(3)
		m := NewMCTS(WithEpisodes(100))

		_, _, err := m.Search(state)

		require.True(t, errors.Is(err, ErrNoLegalMoves))
		_, err = m.ChooseMove(state, time.Millisecond)
		require.ErrorIs(t, err, ErrNoLegalMoves)
	})

	t.Run("keeping visit counts consistent", func(t *testing.T) {
		m := NewMCTS(WithEpisodes(500), WithSeed(5))

		move, _, err := m.Search(game.NewState(classic()))
		require.NoError(t, err)
		require.Contains(t, game.NewState(classic()).LegalActions(), move)

		tree := m.Tree()
		require.Equal(t, noParent, tree[0].Parent)
		require.Equal(t, 500, tree[0].Visits, "Root should count every episode")

		for _, n := range tree {
			require.LessOrEqual(t, abs(n.Utility), float64(n.Visits), "Utility is a sum of unit results")
			if len(n.Children) == 0 {
				continue
			}
			sum := 0
			for _, c := range n.Children {
				require.Equal(t, n.Index, tree[c].Parent)
				sum += tree[c].Visits
			}
			if n.Index == 0 {
				require.Equal(t, n.Visits, sum, "Root visits should equal the sum of its children")
			} else {
				// A node rolled out before its expansion keeps that visit
				require.GreaterOrEqual(t, n.Visits, sum)
				require.LessOrEqual(t, n.Visits, sum+1)
			}
		}
	})

	t.Run("building identical trees from identical seeds", func(t *testing.T) {
		state := game.NewState(classic()).MustPlay(3)
		first := NewMCTS(WithEpisodes(300), WithSeed(42))
		second := NewMCTS(WithEpisodes(300), WithSeed(42))

		move1, _, err := first.Search(state)
		require.NoError(t, err)
		move2, _, err := second.Search(state)
		require.NoError(t, err)

		require.Equal(t, move1, move2)
		require.Equal(t, first.Nodes(), second.Nodes())
		tree1, tree2 := first.Tree(), second.Tree()
		for i := range tree1 {
			require.Equal(t, tree1[i].Visits, tree2[i].Visits)
			require.Equal(t, tree1[i].Utility, tree2[i].Utility)
			require.Equal(t, tree1[i].Move, tree2[i].Move)
			require.Equal(t, tree1[i].Children, tree2[i].Children)
		}
	})

	t.Run("playing an immediate win", func(t *testing.T) {
		state, err := classic().Parse("X X X _ _ _ O  _ _ _ _ _ _ O  _ _ _ _ _ _ O  _ _ _ _ _ _ _  _ _ _ _ _ _ _  _ _ _ _ _ _ _|T")
		require.NoError(t, err)
		m := NewMCTS(WithEpisodes(2000), WithSeed(1))

		move, _, err := m.Search(state)

		require.NoError(t, err)
		require.Equal(t, game.Action(3), move)
	})

	t.Run("blocking the opponent's immediate win", func(t *testing.T) {
		state, err := classic().Parse("O O O _ _ X X  _ _ _ _ _ X _  _ _ _ _ _ _ _  _ _ _ _ _ _ _  _ _ _ _ _ _ _  _ _ _ _ _ _ _|T")
		require.NoError(t, err)
		m := NewMCTS(WithEpisodes(10000), WithSeed(2))

		move, _, err := m.Search(state)

		require.NoError(t, err)
		require.Equal(t, game.Action(3), move)
	})

	t.Run("stopping at whichever limit comes first", func(t *testing.T) {
		m := NewMCTS(WithEpisodes(50), WithDuration(time.Hour), WithMetrics())

		_, metric, err := m.Search(game.NewState(classic()))

		require.NoError(t, err)
		require.Equal(t, 50, metric.Episodes)
		require.Equal(t, 50, metric.Rollouts)
		require.Equal(t, m.Nodes(), metric.Nodes)
		require.Positive(t, metric.MaxDepth)
		require.Equal(t, m.Seed(), metric.Seed)
	})

	t.Run("searching for the given budget", func(t *testing.T) {
		m := NewMCTS(WithDuration(time.Hour))
		start := time.Now()

		move, err := m.ChooseMove(game.NewState(classic()), 20*time.Millisecond)

		require.NoError(t, err)
		require.Less(t, time.Since(start), 10*time.Second)
		require.True(t, game.NewState(classic()).IsLegal(move))
		require.Equal(t, time.Hour, m.duration, "Configured duration should be restored")
	})

	t.Run("considering the swap", func(t *testing.T) {
		state := game.NewState(classic()).MustPlay(3)
		m := NewMCTS(WithEpisodes(200))

		move, _, err := m.Search(state)

		require.NoError(t, err)
		require.Contains(t, m.Policy(), game.Swap)
		require.Len(t, m.Policy(), 8)
		require.True(t, state.IsLegal(move))
	})
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

package game

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTable(t *testing.T) {
	t.Run("rejecting invalid rules", func(t *testing.T) {
		invalid := []Rules{
			{Height: 0, Width: 7, Connect: 4},
			{Height: 6, Width: -1, Connect: 4},
			{Height: 6, Width: 7, Connect: 0},
			{Height: 3, Width: 3, Connect: 4},
			{Height: 9, Width: 9, Connect: 4},
		}
		for _, rules := range invalid {
			_, err := NewTable(rules)
			require.Error(t, err, "Rules %+v should be rejected", rules)
		}
	})

	t.Run("skipping runs that leave the board", func(t *testing.T) {
		table := MustTable(Rules{Height: 6, Width: 7, Connect: 4})

		require.Len(t, table.Runs(0, 0, Horizontal), 1, "Bottom left corner starts one horizontal run")
		require.Len(t, table.Runs(0, 0, Vertical), 1, "Bottom left corner starts one vertical run")
		require.Len(t, table.Runs(0, 0, Diagonal), 1, "Bottom left corner starts one diagonal run")
		require.Empty(t, table.Runs(0, 0, AntiDiagonal), "No anti-diagonal run fits through the bottom left corner")
		require.Len(t, table.Runs(0, 3, Horizontal), 4, "Middle of the bottom row lies on four horizontal runs")
		require.Len(t, table.Runs(2, 0, Vertical), 3, "Third row of a column lies on three vertical runs")
	})

	t.Run("building runs of exactly connect cells through their cell", func(t *testing.T) {
		table := MustTable(Rules{Height: 6, Width: 7, Connect: 4})

		for row := 0; row < 6; row++ {
			for col := 0; col < 7; col++ {
				for dir := Direction(0); dir < NumDirections; dir++ {
					for _, run := range table.Runs(row, col, dir) {
						require.Equal(t, 4, bits.OnesCount64(run), "Run should cover connect cells")
						require.NotZero(t, run&table.Bit(row, col), "Run should pass through its cell")
					}
				}
			}
		}
		require.Len(t, table.all, 69, "A 7x6 board has 69 distinct runs of four")
	})

	t.Run("precomputing the empty board", func(t *testing.T) {
		table := MustTable(Rules{Height: 2, Width: 3, Connect: 2})

		require.Equal(t, []Action{0, 1, 2}, table.open)
		require.Equal(t, uint64(0b111111), table.full)
		require.Equal(t, uint64(0b001001), table.columns[0])
	})
}

func TestWinDetection(t *testing.T) {
	rules := []Rules{
		{Height: 6, Width: 7, Connect: 4},
		{Height: 5, Width: 5, Connect: 3},
		{Height: 8, Width: 8, Connect: 5},
	}

	for _, r := range rules {
		table := MustTable(r)

		t.Run("completing any run at any of its cells wins", func(t *testing.T) {
			for row := 0; row < r.Height; row++ {
				for col := 0; col < r.Width; col++ {
					cell := table.cell(row, col)
					for dir := Direction(0); dir < NumDirections; dir++ {
						for _, run := range table.Runs(row, col, dir) {
							require.True(t, table.wins(run, cell), "Run %b should win through cell %d", run, cell)
						}
					}
				}
			}
		})

		t.Run("a run missing one stone does not win", func(t *testing.T) {
			for _, run := range table.all {
				for rest := run; rest != 0; rest &= rest - 1 {
					missing := rest & -rest
					partial := run &^ missing
					for cell := 0; cell < r.Cells(); cell++ {
						require.False(t, table.wins(partial, cell), "Partial run %b should not win", partial)
					}
					require.False(t, table.hasRun(partial), "Partial run %b should not win", partial)
				}
			}
		})
	}
}

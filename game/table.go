package game

import "math/bits"

// Direction is one of the four axes a run can lie on.
type Direction int

const (
	Horizontal Direction = iota
	Vertical
	Diagonal     // up and to the right
	AntiDiagonal // up and to the left
	NumDirections
)

var steps = [NumDirections]struct{ dr, dc int }{
	Horizontal:   {0, 1},
	Vertical:     {1, 0},
	Diagonal:     {1, 1},
	AntiDiagonal: {1, -1},
}

// Table holds everything derived from Rules once per process: the run masks
// used for win detection and the column masks used for gravity drops.
// A Table is read-only after NewTable returns and may be shared freely.
//
// Cell (row, col) is bit row*Width+col, row 0 being the bottom row.
type Table struct {
	rules   Rules
	runs    [][NumDirections][]uint64 // per cell: runs through the cell, by direction
	lines   [][]uint64                // per cell: runs through the cell, flattened
	all     []uint64                  // every distinct run on the board
	columns []uint64
	full    uint64
	open    []Action // every column, the action list of an empty board
}

func NewTable(rules Rules) (*Table, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	t := &Table{
		rules:   rules,
		runs:    make([][NumDirections][]uint64, rules.Cells()),
		lines:   make([][]uint64, rules.Cells()),
		columns: make([]uint64, rules.Width),
		open:    make([]Action, rules.Width),
	}

	for row := 0; row < rules.Height; row++ {
		for col := 0; col < rules.Width; col++ {
			bit := t.bit(row, col)
			t.columns[col] |= bit
			t.full |= bit
		}
	}
	for col := range t.open {
		t.open[col] = Action(col)
	}

	for row := 0; row < rules.Height; row++ {
		for col := 0; col < rules.Width; col++ {
			cell := t.cell(row, col)
			for dir := Direction(0); dir < NumDirections; dir++ {
				// A run through (row, col) starts up to Connect-1 steps back.
				for offset := 0; offset < rules.Connect; offset++ {
					mask, ok := t.run(row-offset*steps[dir].dr, col-offset*steps[dir].dc, dir)
					if !ok {
						continue
					}
					t.runs[cell][dir] = append(t.runs[cell][dir], mask)
					t.lines[cell] = append(t.lines[cell], mask)
					if offset == 0 {
						t.all = append(t.all, mask)
					}
				}
			}
		}
	}

	return t, nil
}

// MustTable is NewTable for rules known to be valid.
func MustTable(rules Rules) *Table {
	t, err := NewTable(rules)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) Rules() Rules {
	return t.rules
}

// Runs returns the masks of every run in direction dir that passes through
// the cell. Cells too close to the border for a run in that direction have none.
func (t *Table) Runs(row, col int, dir Direction) []uint64 {
	return t.runs[t.cell(row, col)][dir]
}

// Bit returns the bitboard with only (row, col) set.
func (t *Table) Bit(row, col int) uint64 {
	return t.bit(row, col)
}

// run builds the mask of the Connect cells starting at (row, col) along dir.
func (t *Table) run(row, col int, dir Direction) (uint64, bool) {
	k := t.rules.Connect - 1
	endRow, endCol := row+k*steps[dir].dr, col+k*steps[dir].dc
	if !t.inside(row, col) || !t.inside(endRow, endCol) {
		return 0, false
	}
	var mask uint64
	for i := 0; i <= k; i++ {
		mask |= t.bit(row+i*steps[dir].dr, col+i*steps[dir].dc)
	}
	return mask, true
}

// wins reports whether stones complete a run through cell.
func (t *Table) wins(stones uint64, cell int) bool {
	for _, line := range t.lines[cell] {
		if stones&line == line {
			return true
		}
	}
	return false
}

// hasRun scans the whole board, for positions with no known last move.
func (t *Table) hasRun(stones uint64) bool {
	for _, line := range t.all {
		if stones&line == line {
			return true
		}
	}
	return false
}

// height returns the number of stones in a column.
func (t *Table) height(occupied uint64, col Action) int {
	return bits.OnesCount64(occupied & t.columns[col])
}

func (t *Table) openColumns(occupied uint64) []Action {
	open := make([]Action, 0, t.rules.Width)
	for col := range t.columns {
		if t.height(occupied, Action(col)) < t.rules.Height {
			open = append(open, Action(col))
		}
	}
	return open
}

func (t *Table) inside(row, col int) bool {
	return row >= 0 && row < t.rules.Height && col >= 0 && col < t.rules.Width
}

func (t *Table) cell(row, col int) int {
	return row*t.rules.Width + col
}

func (t *Table) bit(row, col int) uint64 {
	return uint64(1) << t.cell(row, col)
}

package game

import (
	"math/bits"
	"strings"
)

// Text form of a position: rows bottom to top, cells separated by a space,
// rows separated by two spaces, then "|T" when X is to move or "|F" when O is.
//
//	X O _ _ _ _ _  _ _ _ _ _ _ _  ...|T
const (
	cellSep = " "
	rowSep  = "  "
	turnSep = "|"

	tokenX     = "X"
	tokenO     = "O"
	tokenEmpty = "_"
	turnX      = "T"
	turnO      = "F"
)

func (s *State) String() string {
	rules := s.table.rules
	var b strings.Builder
	b.Grow(rules.Cells()*2 + rules.Height + 2)
	for row := 0; row < rules.Height; row++ {
		if row > 0 {
			b.WriteString(rowSep)
		}
		for col := 0; col < rules.Width; col++ {
			if col > 0 {
				b.WriteString(cellSep)
			}
			b.WriteString(token(s.Cell(row, col)))
		}
	}
	b.WriteString(turnSep)
	if s.turn == X {
		b.WriteString(turnX)
	} else {
		b.WriteString(turnO)
	}
	return b.String()
}

// Pretty renders the board top row first with column numbers underneath.
func (s *State) Pretty() string {
	rules := s.table.rules
	var b strings.Builder
	for row := rules.Height - 1; row >= 0; row-- {
		for col := 0; col < rules.Width; col++ {
			b.WriteString(token(s.Cell(row, col)))
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}
	for col := 0; col < rules.Width; col++ {
		b.WriteString(Action(col).String())
		b.WriteByte(' ')
	}
	b.WriteByte('\n')
	return b.String()
}

func token(p Player) string {
	switch p {
	case X:
		return tokenX
	case O:
		return tokenO
	}
	return tokenEmpty
}

// Parse reads a position written by State.String. The move count is taken
// to be the number of stones, and the outcome is found by scanning every run
// since the last move is unknown.
func (t *Table) Parse(input string) (*State, error) {
	malformed := func(reason string) (*State, error) {
		return nil, &MalformedStateError{Input: input, Reason: reason}
	}

	parts := strings.Split(input, turnSep)
	if len(parts) != 2 {
		return malformed("expected board and turn separated by " + turnSep)
	}

	var turn Player
	switch parts[1] {
	case turnX:
		turn = X
	case turnO:
		turn = O
	default:
		return malformed("unknown turn token " + parts[1])
	}

	rows := strings.Split(parts[0], rowSep)
	if len(rows) != t.rules.Height {
		return malformed("wrong number of rows")
	}

	var x, o uint64
	for row, line := range rows {
		cells := strings.Split(line, cellSep)
		if len(cells) != t.rules.Width {
			return malformed("wrong number of cells in row " + line)
		}
		for col, cell := range cells {
			switch cell {
			case tokenX:
				x |= t.bit(row, col)
			case tokenO:
				o |= t.bit(row, col)
			case tokenEmpty:
			default:
				return malformed("unknown cell token " + cell)
			}
		}
	}

	occupied := x | o
	for col := range t.columns {
		// Stones fill a column from the bottom without gaps
		stones := t.height(occupied, Action(col))
		if occupied&t.columns[col] != t.columns[col]&(t.columnPrefix(stones)) {
			return malformed("floating stone in column " + Action(col).String())
		}
	}

	outcome := Undetermined
	xWins, oWins := t.hasRun(x), t.hasRun(o)
	switch {
	case xWins && oWins:
		return malformed("both sides have a run")
	case xWins:
		outcome = XWins
	case oWins:
		outcome = OWins
	case occupied == t.full:
		outcome = Draw
	}

	return newState(t, turn, x, o, bits.OnesCount64(occupied), outcome, t.openColumns(occupied)), nil
}

// columnPrefix returns the cells of the bottom rows, any column.
func (t *Table) columnPrefix(rows int) uint64 {
	cells := rows * t.rules.Width
	if cells >= 64 {
		return ^uint64(0)
	}
	return uint64(1)<<cells - 1
}

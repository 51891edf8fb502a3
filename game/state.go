package game

import (
	"math/bits"

	"connectk/utils"
)

// State is one position. States are immutable: Play returns a new State and
// never touches the receiver, so states are safe to share between goroutines
// and between search tree nodes.
type State struct {
	table   *Table
	turn    Player
	x, o    uint64 // occupancy bitboards, always disjoint
	moves   int    // plies played, the swap included
	outcome Outcome
	columns []Action // open columns, shared with descendants until one fills
	actions []Action
}

// NewState returns the empty board with X to move.
func NewState(table *Table) *State {
	return newState(table, X, 0, 0, 0, Undetermined, table.open)
}

func newState(table *Table, turn Player, x, o uint64, moves int, outcome Outcome, columns []Action) *State {
	s := &State{
		table:   table,
		turn:    turn,
		x:       x,
		o:       o,
		moves:   moves,
		outcome: outcome,
		columns: columns,
	}

	switch {
	case outcome != Undetermined:
		// Terminal states offer nothing
	case s.canSwap():
		s.actions = make([]Action, len(columns), len(columns)+1)
		copy(s.actions, columns)
		s.actions = append(s.actions, Swap)
	default:
		s.actions = columns
	}
	return s
}

func (s *State) canSwap() bool {
	return s.table.rules.PieRule && s.moves == 1 && s.turn == O
}

// LegalActions returns the open columns in ascending order, followed by Swap
// when the pie rule offers it. The slice is shared and must not be modified.
func (s *State) LegalActions() []Action {
	return s.actions
}

// IsLegal reports whether a is one of LegalActions.
func (s *State) IsLegal(a Action) bool {
	return utils.FindIndex(s.actions, a) >= 0
}

// Play returns the state after the side to move plays a.
func (s *State) Play(a Action) (*State, error) {
	if s.outcome != Undetermined {
		return nil, &IllegalMoveError{Action: a, Reason: "game is over"}
	}
	if a == Swap {
		if !s.canSwap() {
			return nil, &IllegalMoveError{Action: a, Reason: "swap is only offered to the second player on their first turn"}
		}
		// The second player takes over the single stone on the board and
		// the first player moves again.
		return newState(s.table, X, 0, s.x, 2, Undetermined, s.columns), nil
	}

	rules := s.table.rules
	if a < 0 || int(a) >= rules.Width {
		return nil, &IllegalMoveError{Action: a, Reason: "column out of range"}
	}
	row := s.table.height(s.x|s.o, a)
	if row == rules.Height {
		return nil, &IllegalMoveError{Action: a, Reason: "column is full"}
	}

	cell := s.table.cell(row, int(a))
	bit := uint64(1) << cell
	x, o := s.x, s.o
	var mover uint64
	if s.turn == X {
		x |= bit
		mover = x
	} else {
		o |= bit
		mover = o
	}

	columns := s.columns
	if row == rules.Height-1 {
		columns = utils.Without(columns, a)
	}

	outcome := Undetermined
	if s.table.wins(mover, cell) {
		outcome = winFor(s.turn)
	} else if x|o == s.table.full {
		outcome = Draw
	}

	return newState(s.table, s.turn.Opponent(), x, o, s.moves+1, outcome, columns), nil
}

// MustPlay is Play for callers that only pass actions taken from LegalActions.
func (s *State) MustPlay(a Action) *State {
	next, err := s.Play(a)
	if err != nil {
		panic(err)
	}
	return next
}

// Equal compares the side to move and the stones. Outcome and move count
// follow from those and are not compared.
func (s *State) Equal(other *State) bool {
	return s.turn == other.turn && s.x == other.x && s.o == other.o
}

func (s *State) Table() *Table {
	return s.table
}

func (s *State) Rules() Rules {
	return s.table.rules
}

func (s *State) Turn() Player {
	return s.turn
}

// X returns the bitboard of X's stones.
func (s *State) X() uint64 {
	return s.x
}

// O returns the bitboard of O's stones.
func (s *State) O() uint64 {
	return s.o
}

func (s *State) Moves() int {
	return s.moves
}

// Stones returns the number of stones on the board. It differs from Moves by
// one once the swap has been played.
func (s *State) Stones() int {
	return bits.OnesCount64(s.x | s.o)
}

func (s *State) Outcome() Outcome {
	return s.outcome
}

func (s *State) Terminal() bool {
	return s.outcome != Undetermined
}

func (s *State) Winner() Player {
	return s.outcome.Winner()
}

// Cell returns the owner of (row, col), row 0 being the bottom row.
func (s *State) Cell(row, col int) Player {
	bit := s.table.bit(row, col)
	switch {
	case s.x&bit != 0:
		return X
	case s.o&bit != 0:
		return O
	}
	return None
}

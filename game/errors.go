package game

import "fmt"

// IllegalMoveError is returned by State.Play when the action is not one of
// the state's legal actions.
type IllegalMoveError struct {
	Action Action
	Reason string
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %s: %s", e.Action, e.Reason)
}

// MalformedStateError is returned by Table.Parse for text that does not
// describe a position on the table's board.
type MalformedStateError struct {
	Input  string
	Reason string
}

func (e *MalformedStateError) Error() string {
	return fmt.Sprintf("malformed state %q: %s", e.Input, e.Reason)
}

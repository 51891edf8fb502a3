package game

import "strconv"

// Action is a column index (0-based), or Swap.
type Action int

// Swap is the pie-rule action: the second player takes over the first stone.
const Swap Action = -1

func (a Action) String() string {
	if a == Swap {
		return "swap"
	}
	return strconv.Itoa(int(a))
}

// ParseAction reads an action as written by Action.String.
func ParseAction(s string) (Action, error) {
	if s == "swap" {
		return Swap, nil
	}
	col, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return Action(col), nil
}

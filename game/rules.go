package game

import "fmt"

// MaxCells is the largest board that fits in one bitboard.
const MaxCells = 64

// Rules are fixed for the lifetime of a Table.
type Rules struct {
	Height  int  `json:"height"`
	Width   int  `json:"width"`
	Connect int  `json:"connect"`
	PieRule bool `json:"pie_rule"`
}

// StandardRules is the 7 wide, 6 tall, four in a row game with the pie rule.
func StandardRules() Rules {
	return Rules{
		Height:  6,
		Width:   7,
		Connect: 4,
		PieRule: true,
	}
}

func (r Rules) Cells() int {
	return r.Height * r.Width
}

func (r Rules) Validate() error {
	if r.Height <= 0 || r.Width <= 0 {
		return fmt.Errorf("board must have positive dimensions, got %dx%d", r.Width, r.Height)
	}
	if r.Cells() > MaxCells {
		return fmt.Errorf("board has %d cells, at most %d are supported", r.Cells(), MaxCells)
	}
	if r.Connect <= 0 {
		return fmt.Errorf("connect must be positive, got %d", r.Connect)
	}
	if r.Connect > max(r.Height, r.Width) {
		return fmt.Errorf("connect %d does not fit on a %dx%d board", r.Connect, r.Width, r.Height)
	}
	return nil
}

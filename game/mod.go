package game

// Player identifies a side. X always makes the first move of a game.
type Player int8

const (
	None Player = iota
	X
	O
)

func (p Player) Opponent() Player {
	switch p {
	case X:
		return O
	case O:
		return X
	}
	return None
}

func (p Player) String() string {
	switch p {
	case X:
		return "X"
	case O:
		return "O"
	}
	return "none"
}

// Outcome is the result of a position. It is fixed once a state is built.
type Outcome int8

const (
	Undetermined Outcome = iota
	XWins
	OWins
	Draw
)

func (o Outcome) String() string {
	switch o {
	case XWins:
		return "x-wins"
	case OWins:
		return "o-wins"
	case Draw:
		return "draw"
	}
	return "undetermined"
}

// Winner returns the winning side, or None for draws and unfinished games.
func (o Outcome) Winner() Player {
	switch o {
	case XWins:
		return X
	case OWins:
		return O
	}
	return None
}

func winFor(p Player) Outcome {
	if p == X {
		return XWins
	}
	return OWins
}

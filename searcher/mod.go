package searcher

import "errors"

// Hyperparameters for MCTS

const DefaultExploration = 1.4 // C in the UCB exploration term

const Win = 1.0   // Utility of a won rollout
const Loss = -Win // Utility of a lost rollout (negate from opponent perspective)
const Draw = 0.0

var ErrNoLegalMoves = errors.New("no legal moves: position is terminal")

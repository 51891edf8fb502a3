package searcher

import "connectk/game"

const noParent = -1

// node is one tree position stored in the MCTS arena. Children of a node are
// created together and occupy nodes[first : first+count].
type node struct {
	state   *game.State
	move    game.Action // move that led here from the parent
	parent  int32
	first   int32
	count   int32
	visits  int
	utility float64 // sum of rollout results for the side to move here
}

func (n *node) expanded() bool {
	return n.count > 0
}

func (n *node) children() (int32, int32) {
	return n.first, n.first + n.count
}

// NodeInfo is a read-only copy of a tree node.
type NodeInfo struct {
	Index    int
	Parent   int
	Children []int
	Move     game.Action
	Visits   int
	Utility  float64
	State    *game.State
}

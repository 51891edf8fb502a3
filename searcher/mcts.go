package searcher

import (
	"connectk/experiments/metrics"
	"connectk/game"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"lukechampine.com/frand"
)

type Option func(mcts *MCTS)

// MCTS searches one tree per call to Search. The tree is discarded when the
// next search starts, and a single MCTS must not be shared between goroutines.
type MCTS struct {
	duration    time.Duration
	episodes    int
	exploration float64
	seed        uint64
	rng         *rand.Rand
	nodes       []node
	maxDepth    int
	metrics     metrics.Collector
}

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

func WithEpisodes(episodes int) Option {
	return func(m *MCTS) {
		if episodes > 0 {
			m.episodes = episodes
		}
	}
}

func WithExploration(c float64) Option {
	return func(m *MCTS) {
		if c >= 0 {
			m.exploration = c
		}
	}
}

// WithSeed fixes the random source used for expansion and rollouts, making
// searches capped by episodes reproducible.
func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.seed = seed
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		exploration: DefaultExploration,
		seed:        frand.Uint64n(math.MaxUint64),
		metrics:     metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.episodes <= 0 && m.duration <= 0 {
		panic("Must specify search episodes or duration")
	}
	m.rng = rand.New(rand.NewSource(m.seed))
	return m
}

func (m *MCTS) Seed() uint64 {
	return m.seed
}

// Search builds a fresh tree rooted at state and returns the most visited
// root move. Iterations stop at the episode cap or once the configured
// duration has elapsed, whichever comes first. The clock is only checked
// between iterations, and at least one iteration always runs.
func (m *MCTS) Search(state *game.State) (game.Action, metrics.SearchMetric, error) {
	if state.Terminal() {
		return 0, metrics.SearchMetric{}, ErrNoLegalMoves
	}

	m.reset(state)
	m.metrics.Start(m.duration, m.exploration, m.seed)
	deadline := time.Now().Add(m.duration)
	for episodes := 1; ; episodes++ {
		m.simulate()
		m.metrics.AddEpisode()
		if m.done(episodes, deadline) {
			break
		}
	}
	m.metrics.SetTree(len(m.nodes), m.maxDepth)
	metric := m.metrics.Complete()

	move := m.bestMove()
	log.Debug().Msgf("searched %d episodes over %d nodes (depth %d), playing %s with %d visits",
		m.nodes[0].visits, len(m.nodes), m.maxDepth, move, int(m.Policy()[move]))
	return move, metric, nil
}

// ChooseMove searches state for the given wall-clock budget. A non-positive
// budget runs the episode cap when one is set, otherwise a single iteration.
func (m *MCTS) ChooseMove(state *game.State, budget time.Duration) (game.Action, error) {
	move, _, err := m.SearchFor(state, budget)
	return move, err
}

// SearchFor is Search with the duration replaced by budget for this call.
func (m *MCTS) SearchFor(state *game.State, budget time.Duration) (game.Action, metrics.SearchMetric, error) {
	previous := m.duration
	m.duration = max(budget, 0)
	defer func() { m.duration = previous }()

	return m.Search(state)
}

func (m *MCTS) done(episodes int, deadline time.Time) bool {
	if m.episodes > 0 && episodes >= m.episodes {
		return true
	}
	if m.duration > 0 {
		return !time.Now().Before(deadline)
	}
	return m.episodes <= 0
}

func (m *MCTS) reset(state *game.State) {
	clear(m.nodes)
	m.nodes = append(m.nodes[:0], node{state: state, parent: noParent})
	m.maxDepth = 0
}

func (m *MCTS) simulate() {
	leaf, depth := m.selectLeaf()
	rolled := m.expand(leaf)
	if rolled != leaf {
		depth++
	}
	m.maxDepth = max(m.maxDepth, depth)
	u := m.rollout(m.nodes[rolled].state)
	m.backup(rolled, u)
}

// selectLeaf descends from the root through expanded nodes.
func (m *MCTS) selectLeaf() (int32, int) {
	current, depth := int32(0), 0
	for m.nodes[current].expanded() {
		current = m.selectChild(current)
		depth++
	}
	return current, depth
}

func (m *MCTS) selectChild(parent int32) int32 {
	first, last := m.nodes[parent].children()
	policy := newUCT(m.exploration, float64(m.nodes[parent].visits))

	best := int32(-1)
	bestScore := math.Inf(-1)
	for i := first; i < last; i++ {
		child := &m.nodes[i]
		if child.visits == 0 {
			return i
		}
		if score := policy.evaluate(child.utility, float64(child.visits)); score > bestScore {
			best = i
			bestScore = score
		}
	}
	return best
}

// expand adds one child per legal action of leaf and returns a uniformly
// chosen child to roll out. A terminal leaf is returned as is.
func (m *MCTS) expand(leaf int32) int32 {
	state := m.nodes[leaf].state
	if state.Terminal() {
		return leaf
	}

	actions := state.LegalActions()
	first := int32(len(m.nodes))
	for _, a := range actions {
		next, err := state.Play(a)
		if err != nil {
			panic(fmt.Sprintf("legal action %s rejected by %s: %v", a, state, err))
		}
		m.nodes = append(m.nodes, node{state: next, move: a, parent: leaf})
	}
	m.nodes[leaf].first = first
	m.nodes[leaf].count = int32(len(actions))
	return first + int32(m.rng.Intn(len(actions)))
}

// rollout plays uniformly random moves to the end of the game and scores the
// result for the side to move in state.
func (m *MCTS) rollout(state *game.State) float64 {
	player := state.Turn()
	plys := 0
	for !state.Terminal() {
		actions := state.LegalActions()
		state = state.MustPlay(actions[m.rng.Intn(len(actions))])
		plys++
	}
	m.metrics.AddRollout(plys)
	return utility(state.Outcome(), player)
}

func utility(outcome game.Outcome, player game.Player) float64 {
	switch outcome.Winner() {
	case game.None:
		return Draw
	case player:
		return Win
	}
	return Loss
}

func (m *MCTS) backup(index int32, u float64) {
	for index != noParent {
		n := &m.nodes[index]
		n.visits++
		n.utility += u
		u = -u
		index = n.parent
	}
}

func (m *MCTS) bestMove() game.Action {
	root := &m.nodes[0]
	if !root.expanded() {
		panic("root has no children")
	}

	first, last := root.children()
	best := first
	for i := first + 1; i < last; i++ {
		if m.nodes[i].visits > m.nodes[best].visits {
			best = i
		}
	}
	return m.nodes[best].move
}

// Policy returns the visit count of every root move from the last search.
func (m *MCTS) Policy() map[game.Action]float64 {
	if len(m.nodes) == 0 {
		return nil
	}
	first, last := m.nodes[0].children()
	policy := make(map[game.Action]float64, last-first)
	for i := first; i < last; i++ {
		policy[m.nodes[i].move] = float64(m.nodes[i].visits)
	}
	return policy
}

// Nodes returns the size of the last search tree.
func (m *MCTS) Nodes() int {
	return len(m.nodes)
}

// Tree returns a copy of the last search tree in arena order. The root is
// at index 0 and has Parent -1.
func (m *MCTS) Tree() []NodeInfo {
	tree := make([]NodeInfo, len(m.nodes))
	for i, n := range m.nodes {
		info := NodeInfo{
			Index:   i,
			Parent:  int(n.parent),
			Move:    n.move,
			Visits:  n.visits,
			Utility: n.utility,
			State:   n.state,
		}
		first, last := n.children()
		for c := first; c < last; c++ {
			info.Children = append(info.Children, int(c))
		}
		tree[i] = info
	}
	return tree
}

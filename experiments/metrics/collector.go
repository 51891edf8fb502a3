package metrics

import (
	"connectk/game"
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Duration    time.Duration
	Budget      time.Duration
	Episodes    int
	Rollouts    int
	RolloutPlys int
	Nodes       int
	MaxDepth    int
	Exploration float64
	Seed        uint64
}

type MoveMetric struct {
	Step   int
	Player game.Player
	Move   game.Action
	SearchMetric
}

type GameMetric struct {
	StartingAgent int // AgentConfig.ID playing X
	Outcome       game.Outcome
	Winner        int // AgentConfig.ID, -1 for a draw
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
	TotalMoves    int
}

type Collector interface {
	Start(budget time.Duration, exploration float64, seed uint64)
	AddEpisode()
	AddRollout(plys int)
	SetTree(nodes, maxDepth int)
	Complete() SearchMetric
}

type collector struct {
	budget      time.Duration
	exploration float64
	seed        uint64
	startTime   time.Time
	episodes    atomic.Int32
	rollouts    atomic.Int32
	rolloutPlys atomic.Int64
	nodes       atomic.Int32
	maxDepth    atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(budget time.Duration, exploration float64, seed uint64) {
	m.startTime = time.Now()
	m.budget = budget
	m.exploration = exploration
	m.seed = seed
	m.episodes.Store(0)
	m.rollouts.Store(0)
	m.rolloutPlys.Store(0)
	m.nodes.Store(0)
	m.maxDepth.Store(0)
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) AddRollout(plys int) {
	m.rollouts.Add(1)
	m.rolloutPlys.Add(int64(plys))
}

func (m *collector) SetTree(nodes, maxDepth int) {
	m.nodes.Store(int32(nodes))
	m.maxDepth.Store(int32(maxDepth))
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Duration:    time.Since(m.startTime),
		Budget:      m.budget,
		Episodes:    int(m.episodes.Load()),
		Rollouts:    int(m.rollouts.Load()),
		RolloutPlys: int(m.rolloutPlys.Load()),
		Nodes:       int(m.nodes.Load()),
		MaxDepth:    int(m.maxDepth.Load()),
		Exploration: m.exploration,
		Seed:        m.seed,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(budget time.Duration, exploration float64, seed uint64) {}
func (m *dummyCollector) AddEpisode()                                                 {}
func (m *dummyCollector) AddRollout(plys int)                                         {}
func (m *dummyCollector) SetTree(nodes, maxDepth int)                                 {}
func (m *dummyCollector) Complete() SearchMetric                                      { return SearchMetric{} }

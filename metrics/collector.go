package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Strategy     string
	Duration     time.Duration
	Allowance    time.Duration
	StartDepth   int
	Depth        int // Deepest completed pass
	Passes       int
	AbortedPass  bool
	Nodes        int
	Episodes     int
	FullPlayouts int
	IsTreeReset  bool
}

type MoveMetric struct {
	Step     int
	Player   int
	TimeLeft time.Duration
	SearchMetric
}

type GameMetric struct {
	StartingPlayer int
	Winner         int // 0 on a draw
	Score          int
	Forfeit        bool
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

// Collector observes a single search. Searchers call Start once per decision
// and Complete when the decision is made.
type Collector interface {
	Start(strategy string, startDepth int, allowance time.Duration)
	SetTreeReset(value bool)
	AddNodes(n int)
	AddPass(depth int, aborted bool)
	AddEpisode()
	AddFullPlayout()
	Complete() SearchMetric
}

type collector struct {
	strategy     string
	startDepth   int
	allowance    time.Duration
	startTime    time.Time
	depth        atomic.Int32
	passes       atomic.Int32
	aborted      atomic.Bool
	nodes        atomic.Int64
	episodes     atomic.Int32
	fullPlayouts atomic.Int32
	isTreeReset  atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(strategy string, startDepth int, allowance time.Duration) {
	m.strategy = strategy
	m.startDepth = startDepth
	m.allowance = allowance
	m.startTime = time.Now()
	m.depth.Store(0)
	m.passes.Store(0)
	m.aborted.Store(false)
	m.nodes.Store(0)
	m.episodes.Store(0)
	m.fullPlayouts.Store(0)
}

func (m *collector) SetTreeReset(value bool) {
	m.isTreeReset.Store(value)
}

func (m *collector) AddNodes(n int) {
	m.nodes.Add(int64(n))
}

func (m *collector) AddPass(depth int, aborted bool) {
	m.passes.Add(1)
	if aborted {
		m.aborted.Store(true)
		return
	}
	m.depth.Store(int32(depth))
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Strategy:     m.strategy,
		Duration:     time.Since(m.startTime),
		Allowance:    m.allowance,
		StartDepth:   m.startDepth,
		Depth:        int(m.depth.Load()),
		Passes:       int(m.passes.Load()),
		AbortedPass:  m.aborted.Load(),
		Nodes:        int(m.nodes.Load()),
		Episodes:     int(m.episodes.Load()),
		FullPlayouts: int(m.fullPlayouts.Load()),
		IsTreeReset:  m.isTreeReset.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(strategy string, startDepth int, allowance time.Duration) {}
func (m *dummyCollector) SetTreeReset(value bool)                                        {}
func (m *dummyCollector) AddNodes(n int)                                                 {}
func (m *dummyCollector) AddPass(depth int, aborted bool)                                {}
func (m *dummyCollector) AddEpisode()                                                    {}
func (m *dummyCollector) AddFullPlayout()                                                {}
func (m *dummyCollector) Complete() SearchMetric                                         { return SearchMetric{} }

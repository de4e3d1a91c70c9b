package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Goroutines  int
	Simulations int // Rollouts requested per child
	Duration    time.Duration
	Children    int // Children expanded from the root
	Rollouts    int // Rollouts actually completed
	EarlyStops  int // Rollouts that ran out of empty cells before their budget
	BestAverage int
}

type MoveMetric struct {
	Step   int
	Player string
	Row    int
	Col    int
	SearchMetric
}

type GameMetric struct {
	Size       int
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
	Score      int // Final score from the machine's (white) perspective
}

type Collector interface {
	Start(goroutines, simulations int)
	AddChild()
	AddRollout()
	AddEarlyStop()
	Complete(bestAverage int) SearchMetric
}

type collector struct {
	goroutines  int
	simulations int
	startTime   time.Time
	children    atomic.Int32
	rollouts    atomic.Int64
	earlyStops  atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(goroutines, simulations int) {
	m.startTime = time.Now()
	m.goroutines = goroutines
	m.simulations = simulations
	m.children.Store(0)
	m.rollouts.Store(0)
	m.earlyStops.Store(0)
}

func (m *collector) AddChild() {
	m.children.Add(1)
}

func (m *collector) AddRollout() {
	m.rollouts.Add(1)
}

func (m *collector) AddEarlyStop() {
	m.earlyStops.Add(1)
}

func (m *collector) Complete(bestAverage int) SearchMetric {
	return SearchMetric{
		Goroutines:  m.goroutines,
		Simulations: m.simulations,
		Duration:    time.Since(m.startTime),
		Children:    int(m.children.Load()),
		Rollouts:    int(m.rollouts.Load()),
		EarlyStops:  int(m.earlyStops.Load()),
		BestAverage: bestAverage,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(goroutines, simulations int) {}
func (m *dummyCollector) AddChild()                         {}
func (m *dummyCollector) AddRollout()                       {}
func (m *dummyCollector) AddEarlyStop()                     {}
func (m *dummyCollector) Complete(bestAverage int) SearchMetric {
	return SearchMetric{BestAverage: bestAverage}
}

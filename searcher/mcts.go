package searcher

import (
	"context"
	"goban/experiments/metrics"
	"goban/game"
	"goban/meta"
	"goban/utils"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(mcts *MCTS)

// Decision is the outcome of one search from a root position.
type Decision struct {
	Move    game.Move
	Board   *game.Board // Root board with Move played
	Level   int
	Average int // Integer mean rollout score of the chosen child
	Metric  metrics.SearchMetric
}

// MCTS evaluates every empty cell of the root by averaging uniform random rollouts from the
// child it leads to, then picks the child with the highest average. Rollouts are spread across
// a fixed pool of goroutines.
type MCTS struct {
	goroutines  int
	simulations int
	duration    time.Duration
	seed        uint64
	metrics     bool
}

func WithSimulations(simulations int) Option {
	return func(m *MCTS) {
		if simulations > 0 {
			m.simulations = simulations
		}
	}
}

// WithDuration caps the wall-clock time of a search. Children are then ranked on the rollouts
// that completed in time.
func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

// WithSeed makes searches reproducible when combined with a single goroutine.
func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.seed = seed
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = true
	}
}

func NewMCTS(goroutines int, options ...Option) *MCTS {
	if goroutines < 1 {
		goroutines = 1
	}
	m := &MCTS{ // Default values
		goroutines:  goroutines,
		simulations: meta.SIMULATIONS,
	}
	for _, option := range options {
		option(m)
	}
	return m
}

func (m *MCTS) Goroutines() int {
	return m.goroutines
}

func (m *MCTS) Simulations() int {
	return m.simulations
}

func (m *MCTS) Duration() time.Duration {
	return m.duration
}

// FindMove searches from board, where level placements have already been made, and returns
// the chosen White move. It returns ErrNoLegalMove when the board has no empty cell.
func (m *MCTS) FindMove(ctx context.Context, board *game.Board, level int) (Decision, error) {
	store := NewStore(board, level)
	collector := m.newCollector()

	result, err := m.search(ctx, store, collector)
	if err != nil {
		return Decision{}, err
	}
	metric := collector.Complete(result.average)
	metric.Goroutines, metric.Simulations = m.goroutines, m.simulations
	metric.Children, metric.Rollouts = result.children, result.rollouts
	if result.best == NoMove {
		return Decision{Level: level, Metric: metric}, ErrNoLegalMove
	}
	if store.ChildIndex(RootID, result.best) < 0 {
		panic("best node is not a child of the root")
	}

	child := store.Node(result.best)
	return Decision{
		Move:    child.Move,
		Board:   child.Board.Copy(),
		Level:   child.Level,
		Average: result.average,
		Metric:  metric,
	}, nil
}

// SelectBestMove expands the root of store and returns the id of its best child, or NoMove.
// Children left in store by an earlier call are discarded first.
func (m *MCTS) SelectBestMove(ctx context.Context, store *Store) (int, error) {
	result, err := m.search(ctx, store, m.newCollector())
	return result.best, err
}

func (m *MCTS) newCollector() metrics.Collector {
	if m.metrics {
		return metrics.NewCollector()
	}
	return metrics.NewDummyCollector()
}

type outcome struct {
	best     int
	average  int
	children int
	rollouts int // Completed
}

func (m *MCTS) search(ctx context.Context, store *Store, collector metrics.Collector) (outcome, error) {
	collector.Start(m.goroutines, m.simulations)

	children, err := expand(store, collector)
	if err != nil {
		return outcome{best: NoMove}, err
	}
	if len(children) == 0 {
		log.Debug().Msg("root has no empty cell to expand")
		return outcome{best: NoMove}, nil
	}

	sums, counts, err := m.simulate(ctx, store, children, collector)
	if err != nil {
		return outcome{best: NoMove}, err
	}

	best, average := selectBest(children, sums, counts)
	if best == NoMove {
		// The deadline passed before any rollout finished
		log.Warn().Msgf("no rollout completed within %v, falling back to the first child", m.duration)
		best, average = children[0], store.Node(children[0]).Score
	}

	rollouts := 0
	for _, count := range counts {
		rollouts += count
	}

	move := store.Node(best).Move
	log.Debug().Msgf("selected %v out of %d children with average %d", move, len(children), average)
	return outcome{best: best, average: average, children: len(children), rollouts: rollouts}, nil
}

// expand creates one White child per empty cell of the root, in row-major order.
func expand(store *Store, collector metrics.Collector) ([]int, error) {
	store.truncate()

	root := store.Root()
	cells := root.Board.EmptyCells()
	children := make([]int, 0, len(cells))
	for _, cell := range cells {
		row, col := root.Board.Coordinates(cell)
		id, err := store.CreateChild(RootID, game.White, row, col)
		if err != nil {
			return nil, err
		}
		children = append(children, id)
		collector.AddChild()
	}
	return children, nil
}

type task struct {
	child int // Position in the children slice
	count int // Rollouts to run
}

// tasks splits the rollouts of every child into batches so that a small number of children
// still keeps every goroutine busy.
func (m *MCTS) tasks(children int) chan task {
	batches := 1
	if children < m.goroutines {
		batches = min((m.goroutines+children-1)/children, m.simulations)
	}

	tasks := make(chan task, children*batches)
	for child := 0; child < children; child++ {
		remaining := m.simulations
		for b := batches; b > 0; b-- {
			count := remaining / b
			tasks <- task{child: child, count: count}
			remaining -= count
		}
	}
	close(tasks)
	return tasks
}

// roundRobin hands out single rollouts cycling over the children, so a search cut short by
// its deadline has sampled every child before any child gets another rollout.
type roundRobin struct {
	next     atomic.Int64
	children int64
	limit    int64
}

func newRoundRobin(children, simulations int) *roundRobin {
	return &roundRobin{
		children: int64(children),
		limit:    int64(children) * int64(simulations),
	}
}

func (r *roundRobin) take() (task, bool) {
	i := r.next.Add(1) - 1
	if i >= r.limit {
		return task{}, false
	}
	return task{child: int(i % r.children), count: 1}, true
}

// scheduler returns the task source shared by the workers. Searches with a deadline interleave
// the children, the others run each child's rollouts in large batches.
func (m *MCTS) scheduler(children int) func() (task, bool) {
	if m.duration > 0 {
		return newRoundRobin(children, m.simulations).take
	}
	tasks := m.tasks(children)
	return func() (task, bool) {
		t, ok := <-tasks
		return t, ok
	}
}

// simulate runs the rollouts of every child and returns per-child score sums and rollout counts.
// Every goroutine owns its generator, scratch board and partial sums, which are reduced after
// the pool drains.
func (m *MCTS) simulate(ctx context.Context, store *Store, children []int, collector metrics.Collector) ([]int, []int, error) {
	runCtx := ctx
	if m.duration > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, m.duration)
		defer cancel()
	}

	seed := m.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	next := m.scheduler(len(children))
	sums := make([][]int, m.goroutines)
	counts := make([][]int, m.goroutines)

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()

			rng := rand.New(rand.NewSource(seed + uint64(worker)))
			scratch := game.MustNewBoard(store.Root().Board.Size())
			sum := make([]int, len(children))
			count := make([]int, len(children))
			sums[worker], counts[worker] = sum, count

			for t, ok := next(); ok; t, ok = next() {
				node := store.Node(children[t.child])
				for j := 0; j < t.count; j++ {
					if runCtx.Err() != nil {
						return
					}
					node.Board.CopyTo(scratch)
					score, complete := playout(scratch, node.Level, rng)
					sum[t.child] += score
					count[t.child]++
					collector.AddRollout()
					if !complete {
						collector.AddEarlyStop()
					}
				}
			}
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	totalSums := make([]int, len(children))
	totalCounts := make([]int, len(children))
	for worker := range sums {
		utils.AddInto(totalSums, sums[worker])
		utils.AddInto(totalCounts, counts[worker])
	}
	return totalSums, totalCounts, nil
}

// selectBest returns the child with the highest integer average. Ties keep the earliest child
// and children without a completed rollout are skipped.
func selectBest(children, sums, counts []int) (int, int) {
	best, bestAverage := NoMove, math.MinInt
	for i, id := range children {
		if counts[i] == 0 {
			continue
		}
		average := sums[i] / counts[i]
		if average > bestAverage {
			best, bestAverage = id, average
		}
	}
	if best == NoMove {
		return NoMove, 0
	}
	return best, bestAverage
}

package experiments

import (
	"context"
	"fmt"
	"goban/agent"
	"goban/engine"
	"goban/experiments/metrics"
	"goban/meta"
	"goban/player"
	"goban/searcher"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	NumGames   = 10 // Per agent config
	TimeBudget = 10 * time.Millisecond
)

var goroutineCounts = []int{1, 2, 4, 8, 16, 32, 64, 128}

// Setup describes the games an experiment plays. Zero fields take defaults.
type Setup struct {
	Size        int
	Games       int // Per agent config
	Simulations int
	Duration    time.Duration // Per machine move, throughput experiment only
	Seed        uint64        // Seeds the random opponent, game i uses Seed+i
	OutDir      string
}

func (s Setup) withDefaults() Setup {
	if s.Size <= 0 {
		s.Size = meta.BOARD_SIZE
	}
	if s.Games <= 0 {
		s.Games = NumGames
	}
	if s.Simulations <= 0 {
		s.Simulations = meta.SIMULATIONS
	}
	if s.Duration <= 0 {
		s.Duration = TimeBudget
	}
	if s.Seed == 0 {
		s.Seed = uint64(time.Now().UnixNano())
	}
	if s.OutDir == "" {
		s.OutDir = "results"
	}
	return s
}

// RunSpeedupExperiment plays a fixed number of simulations per child with a growing goroutine
// pool, recording how long each search takes.
func RunSpeedupExperiment(ctx context.Context, setup Setup) (string, error) {
	setup = setup.withDefaults()
	configs := make([]metrics.AgentConfig, 0, len(goroutineCounts))
	for i, goroutines := range goroutineCounts {
		configs = append(configs, metrics.AgentConfig{ID: i + 1, Goroutines: goroutines, Simulations: setup.Simulations})
	}
	return runExperiment(ctx, "speedup", setup, configs)
}

// RunThroughputExperiment gives every search the same time budget with a growing goroutine
// pool, recording how many rollouts complete.
func RunThroughputExperiment(ctx context.Context, setup Setup) (string, error) {
	setup = setup.withDefaults()
	configs := make([]metrics.AgentConfig, 0, len(goroutineCounts))
	for i, goroutines := range goroutineCounts {
		configs = append(configs, metrics.AgentConfig{
			ID:          i + 1,
			Goroutines:  goroutines,
			Simulations: searchCap,
			Duration:    setup.Duration,
		})
	}
	return runExperiment(ctx, "throughput", setup, configs)
}

// searchCap keeps throughput searches running until their deadline.
const searchCap = 1 << 30

// runExperiment plays every config against the random player and returns the directory
// the records were written to.
func runExperiment(ctx context.Context, name string, setup Setup, configs []metrics.AgentConfig) (string, error) {
	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", name)

	for ci, config := range configs {
		log.Info().Msgf("starting config %d of %d: %+v", ci+1, len(configs), config)

		for i := 0; i < setup.Games; i++ {
			gameMetric, moveMetrics, err := runGame(ctx, setup, config, setup.Seed+uint64(count))
			if err != nil {
				return "", fmt.Errorf("game %d with agent %d failed: %w", i+1, config.ID, err)
			}
			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Agent:      config.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed config %d game %d with score %d", ci+1, i+1, gameMetric.Score)
		}
	}

	log.Info().Msgf("completed %s experiment", name)

	writer, err := metrics.NewWriter(setup.OutDir, name)
	if err != nil {
		return "", err
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return "", err
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return "", err
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return "", err
	}
	log.Info().Msgf("stored records in %s", writer.Dir())
	return writer.Dir(), nil
}

// runGame plays the random player (Black) against a search agent (White).
func runGame(ctx context.Context, setup Setup, config metrics.AgentConfig, seed uint64) (metrics.GameMetric, []metrics.MoveMetric, error) {
	g, err := engine.NewGame(setup.Size)
	if err != nil {
		return metrics.GameMetric{}, nil, err
	}
	machine := agent.NewEvaluationAgent(createMCTS(config))
	return engine.LocalEngine(g, player.NewRandom(seed), machine, nil).Run(ctx)
}

func createMCTS(config metrics.AgentConfig) *searcher.MCTS {
	options := []searcher.Option{}

	if config.Simulations > 0 {
		options = append(options, searcher.WithSimulations(config.Simulations))
	}
	if config.Duration > 0 {
		options = append(options, searcher.WithDuration(config.Duration))
	}

	options = append(options, searcher.WithMetrics())
	return searcher.NewMCTS(config.Goroutines, options...)
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"goban/agent"
	"goban/communication/client"
	"goban/communication/server"
	"goban/engine"
	"goban/experiments"
	"goban/gamemaster"
	"goban/meta"
	"goban/player"
	"goban/searcher"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type config struct {
	size        int
	simulations int
	goroutines  int
	duration    time.Duration
	seed        uint64
	serve       string
	remote      string
	experiment  string
	out         string
	logLevel    string
}

func main() {
	cfg := config{}
	flag.IntVar(&cfg.size, "size", meta.BOARD_SIZE, "Board rows and columns")
	flag.IntVar(&cfg.simulations, "simulations", meta.SIMULATIONS, "Rollouts per expanded child")
	flag.IntVar(&cfg.goroutines, "goroutines", meta.GO_ROUTINES, "Number of goroutines for parallel rollouts")
	flag.DurationVar(&cfg.duration, "duration", 0, "Optional time budget per machine move")
	flag.Uint64Var(&cfg.seed, "seed", 0, "Random seed, 0 uses the clock")
	flag.StringVar(&cfg.serve, "serve", "", "Serve games over HTTP on this address (e.g. "+meta.SERVER_ADDR+")")
	flag.StringVar(&cfg.remote, "remote", "", "Search on the server at this URL instead of locally")
	flag.StringVar(&cfg.experiment, "experiment", "", "Run an experiment: speedup or throughput")
	flag.StringVar(&cfg.out, "out", "results", "Directory for experiment results")
	flag.StringVar(&cfg.logLevel, "log-level", "info", "Log level")
	flag.Parse()

	level, err := zerolog.ParseLevel(cfg.logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level %q\n", cfg.logLevel)
		os.Exit(2)
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("goban failed")
	}
}

func run(ctx context.Context, cfg config) error {
	switch {
	case cfg.experiment != "":
		return runExperiment(ctx, cfg)
	case cfg.serve != "":
		search := newAgent(cfg)
		return server.NewServer(search, gamemaster.NewGameMaster(search)).ListenAndServe(ctx, cfg.serve)
	default:
		return play(ctx, cfg)
	}
}

func newAgent(cfg config) agent.Agent {
	if cfg.remote != "" {
		return client.NewClient(cfg.remote, nil)
	}
	options := []searcher.Option{searcher.WithSimulations(cfg.simulations), searcher.WithMetrics()}
	if cfg.duration > 0 {
		options = append(options, searcher.WithDuration(cfg.duration))
	}
	if cfg.seed != 0 {
		options = append(options, searcher.WithSeed(cfg.seed))
	}
	return agent.NewEvaluationAgent(searcher.NewMCTS(cfg.goroutines, options...))
}

// play runs a game between the terminal user (p) and the machine (b).
func play(ctx context.Context, cfg config) error {
	g, err := engine.NewGame(cfg.size)
	if err != nil {
		return err
	}

	fmt.Printf("Goban - one-ply Monte Carlo search\n")
	fmt.Printf("Board %d x %d.\n", cfg.size, cfg.size)
	fmt.Printf("Considering %d placements.\n", g.Budget())
	fmt.Printf("%d simulations per expanded child.\n\n", cfg.simulations)

	human := player.NewHuman(os.Stdin, os.Stdout)
	_, _, err = engine.LocalEngine(g, human, newAgent(cfg), engine.NewTerminal(os.Stdout)).Run(ctx)
	if errors.Is(err, io.EOF) {
		log.Info().Msg("input closed, leaving the game")
		return nil
	}
	return err
}

func runExperiment(ctx context.Context, cfg config) error {
	setup := experiments.Setup{
		Size:        cfg.size,
		Simulations: cfg.simulations,
		Duration:    cfg.duration,
		Seed:        cfg.seed,
		OutDir:      cfg.out,
	}

	var err error
	switch cfg.experiment {
	case "speedup":
		_, err = experiments.RunSpeedupExperiment(ctx, setup)
	case "throughput":
		_, err = experiments.RunThroughputExperiment(ctx, setup)
	default:
		err = fmt.Errorf("unknown experiment %q", cfg.experiment)
	}
	return err
}

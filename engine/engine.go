package engine

import (
	"context"
	"goban/experiments/metrics"
)

type Engine interface {
	// Run plays a game till every placement is spent or the machine has no move left
	Run(ctx context.Context) (gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}

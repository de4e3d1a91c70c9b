package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	t.Run("counting concurrently", func(t *testing.T) {
		c := NewCollector()
		c.Start(4, 10)

		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 25; j++ {
					c.AddRollout()
				}
				c.AddChild()
				c.AddEarlyStop()
			}()
		}
		wg.Wait()

		metric := c.Complete(7)
		require.Equal(t, 4, metric.Goroutines)
		require.Equal(t, 10, metric.Simulations)
		require.Equal(t, 4, metric.Children)
		require.Equal(t, 100, metric.Rollouts)
		require.Equal(t, 4, metric.EarlyStops)
		require.Equal(t, 7, metric.BestAverage)
	})

	t.Run("restarting clears the counters", func(t *testing.T) {
		c := NewCollector()
		c.Start(1, 1)
		c.AddRollout()
		c.Start(1, 1)

		require.Zero(t, c.Complete(0).Rollouts)
	})

	t.Run("dummy collector only keeps the best average", func(t *testing.T) {
		c := NewDummyCollector()
		c.Start(8, 100)
		c.AddRollout()

		require.Equal(t, SearchMetric{BestAverage: 3}, c.Complete(3))
	})
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriter(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "speedup")
	require.NoError(t, err)

	require.NoError(t, w.WriteAgentConfigs([]AgentConfig{
		{ID: 1, Goroutines: 8, Simulations: 100, Duration: time.Second},
	}))
	require.NoError(t, w.WriteGameRecords([]GameRecord{
		{ID: 1, Agent: 1, GameMetric: GameMetric{Size: 5, TotalMoves: 25, Score: 3}},
	}))
	require.NoError(t, w.WriteMoveRecords([]MoveRecord{
		{Game: 1, MoveMetric: MoveMetric{Step: 2, Player: "white", Row: 1, Col: 4,
			SearchMetric: SearchMetric{Children: 24, Rollouts: 2400, BestAverage: 2}}},
	}))

	configs := readCSV(t, filepath.Join(w.Dir(), "agent_configs.csv"))
	require.Equal(t, [][]string{
		{"id", "goroutines", "simulations", "duration"},
		{"1", "8", "100", "1s"},
	}, configs)

	games := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
	require.Len(t, games, 2)
	require.Equal(t, "25", games[1][6])
	require.Equal(t, "3", games[1][7])

	moves := readCSV(t, filepath.Join(w.Dir(), "move_records.csv"))
	require.Len(t, moves, 2)
	require.Equal(t, []string{"1", "2", "white", "1", "4", "0s", "24", "2400", "0", "2"}, moves[1])
}

// internal/engine/estimate_test.go
package engine

import (
	"testing"

	"github.com/stratum-labs/stratum/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A pure chain gains nothing from parallelism: both estimates equal the
// chain length and the speedup is exactly 1.
func TestEstimateChain(t *testing.T) {
	graph := BuildGraph(timedDesc("a", 100), []models.TaskDescriptor{
		timedDesc("b", 200, "a"),
		timedDesc("c", 300, "b"),
	})
	levels := mustLevels(t, graph, 10, 0)

	est := Estimate(graph, levels)

	assert.Equal(t, int64(600), est.ParallelMs)
	assert.Equal(t, int64(600), est.SequentialMs)
	assert.Equal(t, 1.0, est.SpeedupFactor)
}

func TestEstimateFanOut(t *testing.T) {
	graph := BuildGraph(timedDesc("agg", 100, "a", "b", "c"), []models.TaskDescriptor{
		timedDesc("a", 100), timedDesc("b", 200), timedDesc("c", 300),
	})
	levels := mustLevels(t, graph, 10, 0)

	est := Estimate(graph, levels)

	// Level of {a,b,c} costs its slowest member
	assert.Equal(t, int64(400), est.ParallelMs)
	assert.Equal(t, int64(700), est.SequentialMs)
	assert.InDelta(t, 1.75, est.SpeedupFactor, 1e-9)
	assert.GreaterOrEqual(t, est.SpeedupFactor, 1.0)
}

func TestEstimateZeroDurations(t *testing.T) {
	graph := BuildGraph(desc("root"), []models.TaskDescriptor{desc("a", "root")})
	levels := mustLevels(t, graph, 10, 0)

	est := Estimate(graph, levels)

	assert.Equal(t, int64(0), est.ParallelMs)
	assert.Equal(t, int64(0), est.SequentialMs)
	assert.Equal(t, 0.0, est.SpeedupFactor)
}

func TestEstimateSingleNode(t *testing.T) {
	graph := BuildGraph(timedDesc("root", 250), nil)
	levels := mustLevels(t, graph, 10, 0)
	require.Equal(t, [][]string{{"root"}}, levels)

	est := Estimate(graph, levels)

	assert.Equal(t, int64(250), est.ParallelMs)
	assert.Equal(t, int64(250), est.SequentialMs)
	assert.Equal(t, 1.0, est.SpeedupFactor)
}

// internal/engine/levels_test.go
package engine

import (
	"testing"

	"github.com/stratum-labs/stratum/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLevels(t *testing.T, graph *models.TaskGraph, maxParallel, maxDepth int) [][]string {
	t.Helper()
	require.NoError(t, Validate(graph))
	levels, err := ComputeLevels(graph, maxParallel, maxDepth)
	require.NoError(t, err)
	return levels
}

// Three independent leaves feeding one aggregator, cap of two: the
// third leaf is deferred into its own wave even though its dependencies
// are already satisfied.
func TestComputeLevelsParallelismCap(t *testing.T) {
	graph := BuildGraph(desc("d", "a", "b", "c"), []models.TaskDescriptor{
		desc("a"), desc("b"), desc("c"),
	})

	levels := mustLevels(t, graph, 2, 0)

	assert.Equal(t, [][]string{{"a", "b"}, {"c"}, {"d"}}, levels)
}

func TestComputeLevelsChain(t *testing.T) {
	graph := BuildGraph(desc("a"), []models.TaskDescriptor{
		desc("b", "a"), desc("c", "b"),
	})

	levels := mustLevels(t, graph, 10, 0)

	assert.Equal(t, [][]string{{"a"}, {"b"}, {"c"}}, levels)
}

func TestComputeLevelsSingleNode(t *testing.T) {
	graph := BuildGraph(desc("root"), nil)

	levels := mustLevels(t, graph, 4, 0)

	assert.Equal(t, [][]string{{"root"}}, levels)
}

func TestComputeLevelsUncapped(t *testing.T) {
	graph := BuildGraph(desc("root"), []models.TaskDescriptor{
		desc("a", "root"), desc("b", "root"), desc("c", "root"),
		desc("d", "root"), desc("e", "root"),
	})

	levels := mustLevels(t, graph, 0, 0)

	require.Len(t, levels, 2)
	assert.Len(t, levels[1], 5)
}

// Level index of every node must be strictly greater than the level
// index of each of its dependencies, cap or no cap.
func TestComputeLevelsRespectsDependencies(t *testing.T) {
	graph := BuildGraph(desc("root"), []models.TaskDescriptor{
		desc("a", "root"), desc("b", "root"), desc("c", "root"),
		desc("d", "a", "b"), desc("e", "b", "c"), desc("f", "d", "e"),
	})

	for _, maxParallel := range []int{1, 2, 3, 10} {
		levels := mustLevels(t, graph, maxParallel, 0)

		levelOf := make(map[string]int)
		for i, level := range levels {
			assert.LessOrEqual(t, len(level), maxParallel, "cap exceeded at level %d", i)
			for _, id := range level {
				levelOf[id] = i
			}
		}
		require.Len(t, levelOf, len(graph.Nodes))

		for _, id := range graph.Order {
			for _, dep := range graph.Nodes[id].Dependencies {
				assert.Greater(t, levelOf[id], levelOf[dep],
					"maxParallel=%d: %s scheduled no later than its dependency %s", maxParallel, id, dep)
			}
		}
	}
}

func TestComputeLevelsMaxDepthExceeded(t *testing.T) {
	graph := BuildGraph(desc("a"), []models.TaskDescriptor{
		desc("b", "a"), desc("c", "b"), desc("d", "c"),
	})
	require.NoError(t, Validate(graph))

	_, err := ComputeLevels(graph, 10, 2)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, CodeMaxDepthExceeded, verr.Code)
}

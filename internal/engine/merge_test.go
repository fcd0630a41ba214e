// internal/engine/merge_test.go
package engine

import (
	"strings"
	"testing"

	"github.com/stratum-labs/stratum/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeConcat(t *testing.T) {
	merged, err := Merge([]any{[]any{1, 2}, 3, []any{4}}, models.MergeConcat, nil)

	require.NoError(t, err)
	assert.Equal(t, []any{1, 2, 3, 4}, merged)
}

// Concat over an already-flat slice is idempotent
func TestMergeConcatIdempotent(t *testing.T) {
	once, err := Merge([]any{"x", "y"}, models.MergeConcat, nil)
	require.NoError(t, err)

	twice, err := Merge(once.([]any), models.MergeConcat, nil)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestMergeConcatTypedSlices(t *testing.T) {
	merged, err := Merge([]any{[]string{"a", "b"}, "c"}, models.MergeConcat, nil)

	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b", "c"}, merged)
}

func TestMergeReduce(t *testing.T) {
	merged, err := Merge([]any{
		map[string]any{"a": 1, "b": 1},
		map[string]any{"b": 2, "c": 3},
		"not a map",
	}, models.MergeReduce, nil)

	require.NoError(t, err)
	// Later keys overwrite earlier ones; non-map entries are ignored
	assert.Equal(t, map[string]any{"a": 1, "b": 2, "c": 3}, merged)
}

func TestMergeFirstLast(t *testing.T) {
	results := []any{"first", "middle", "last"}

	first, err := Merge(results, models.MergeFirst, nil)
	require.NoError(t, err)
	assert.Equal(t, "first", first)

	last, err := Merge(results, models.MergeLast, nil)
	require.NoError(t, err)
	assert.Equal(t, "last", last)
}

func TestMergeFirstLastEmpty(t *testing.T) {
	for _, strategy := range []models.MergeStrategy{models.MergeFirst, models.MergeLast} {
		merged, err := Merge(nil, strategy, nil)
		require.NoError(t, err)
		assert.Nil(t, merged)
	}
}

func TestMergeCustom(t *testing.T) {
	combiner := func(results []any) any {
		parts := make([]string, len(results))
		for i, r := range results {
			parts[i] = r.(string)
		}
		return strings.Join(parts, "+")
	}

	merged, err := Merge([]any{"a", "b", "c"}, models.MergeCustom, combiner)

	require.NoError(t, err)
	assert.Equal(t, "a+b+c", merged)
}

func TestMergeCustomWithoutCombiner(t *testing.T) {
	_, err := Merge([]any{"a"}, models.MergeCustom, nil)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, CodeMergeCombinerMissing, verr.Code)
}

func TestMergeUnknownStrategy(t *testing.T) {
	_, err := Merge([]any{"a"}, models.MergeStrategy("zip"), nil)

	assert.Error(t, err)
}

// internal/engine/merge.go
package engine

import (
	"fmt"
	"reflect"

	"github.com/stratum-labs/stratum/internal/models"
)

// Combiner is a caller-supplied reducer for the custom merge strategy
type Combiner func(results []any) any

// Merge combines the outputs of sibling tasks into a single value.
//
//	concat: flattens slice results one level deep; scalars pass through
//	        as single elements. Merging an already-flat slice again is a
//	        no-op.
//	reduce: left-to-right shallow merge of map results; later keys win.
//	        Non-map entries are ignored.
//	first/last: the first or last element; nil on empty input
//	        (implementation-defined, not an error).
//	custom: delegates to the supplied combiner. Selecting custom without
//	        one is a configuration error.
func Merge(results []any, strategy models.MergeStrategy, combiner Combiner) (any, error) {
	switch strategy {
	case models.MergeConcat:
		return mergeConcat(results), nil
	case models.MergeReduce:
		return mergeReduce(results), nil
	case models.MergeFirst:
		if len(results) == 0 {
			return nil, nil
		}
		return results[0], nil
	case models.MergeLast:
		if len(results) == 0 {
			return nil, nil
		}
		return results[len(results)-1], nil
	case models.MergeCustom:
		if combiner == nil {
			return nil, newValidationError(CodeMergeCombinerMissing,
				"merge strategy %q selected without a combiner", models.MergeCustom)
		}
		return combiner(results), nil
	default:
		return nil, fmt.Errorf("unknown merge strategy %q", strategy)
	}
}

func mergeConcat(results []any) []any {
	merged := make([]any, 0, len(results))
	for _, r := range results {
		v := reflect.ValueOf(r)
		if r != nil && (v.Kind() == reflect.Slice || v.Kind() == reflect.Array) {
			for i := 0; i < v.Len(); i++ {
				merged = append(merged, v.Index(i).Interface())
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

func mergeReduce(results []any) map[string]any {
	merged := make(map[string]any)
	for _, r := range results {
		m, ok := r.(map[string]any)
		if !ok {
			continue
		}
		for k, v := range m {
			merged[k] = v
		}
	}
	return merged
}

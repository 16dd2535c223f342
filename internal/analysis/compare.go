package analysis

import (
	"math"
	"strings"

	"vidpulse/internal/model"
)

// CompareToBaseline computes the percentage delta of each period-scoped
// metric against its baseline. Matching is anchored to the `_{period}`
// suffix. Delta is nil when the baseline is 0 or negative; values themselves
// are not special-cased, so deltas can be negative or large.
func CompareToBaseline(stats map[string]float64, baseline model.Baseline, period string) model.Comparison {
	result := make(model.Comparison)

	for metric, value := range stats {
		if !strings.HasSuffix(metric, "_"+period) {
			continue
		}

		base := baseline[metric]
		entry := model.MetricDelta{Value: value, Baseline: base}
		if base > 0 {
			delta := math.Round(((value-base)/base)*1000) / 10
			entry.Delta = &delta
		}
		result[metric] = entry
	}

	return result
}

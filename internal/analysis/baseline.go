package analysis

import "vidpulse/internal/model"

// RecentLister is the slice of the stats store the baseline needs.
type RecentLister interface {
	RecentN(n int) ([]model.VideoStats, error)
}

// ComputeBaseline averages each of the 21 metric fields across the n most
// recently published snapshots. Fields average only their non-null samples,
// so a just-published video missing 7d data still contributes its 24hr
// numbers. A field with no samples at all is 0.
func ComputeBaseline(store RecentLister, n int) (model.Baseline, error) {
	baseline := make(model.Baseline, 21)
	for _, col := range model.MetricColumns() {
		baseline[col] = 0
	}

	rows, err := store.RecentN(n)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return baseline, nil
	}

	for _, col := range model.MetricColumns() {
		var sum float64
		var count int
		for _, row := range rows {
			if v := row.Metrics[col]; v != nil {
				sum += *v
				count++
			}
		}
		if count > 0 {
			baseline[col] = sum / float64(count)
		}
	}

	return baseline, nil
}

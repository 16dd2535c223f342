package repository

import (
	"errors"
	"testing"
	"vidpulse/internal/model"

	"github.com/go-playground/assert/v2"
)

func ptr(v float64) *float64 {
	return &v
}

func TestUpsert_InvalidPeriod(t *testing.T) {
	repo := NewStatsRepository(nil)

	err := repo.Upsert("v1", "2024-01-01", "36hr", map[string]*float64{"views_36hr": ptr(1)})

	assert.Equal(t, true, errors.Is(err, model.ErrInvalidPeriod))
}

func TestUpsert_EmptyAfterFilterIsNoOp(t *testing.T) {
	// Only stray keys supplied: nothing survives the filter and the nil db
	// is never touched.
	repo := NewStatsRepository(nil)

	err := repo.Upsert("v1", "2024-01-01", "24hr", map[string]*float64{
		"views_7d":   ptr(100),
		"bogus_24hr": ptr(5),
	})

	assert.Equal(t, nil, err)
}

func TestFilterPeriodStats_SuffixAndWhitelist(t *testing.T) {
	stats := map[string]*float64{
		"views_24hr":       ptr(1000),
		"likes_24hr":       ptr(50),
		"views_48hr":       ptr(2000),
		"bogus_24hr":       ptr(1),
		"avg_24hr_special": ptr(2),
	}

	filtered := filterPeriodStats(stats, "24hr")

	assert.Equal(t, 2, len(filtered))
	assert.Equal(t, 1000.0, *filtered["views_24hr"])
	assert.Equal(t, 50.0, *filtered["likes_24hr"])
}

func TestFilterPeriodStats_DropsNulls(t *testing.T) {
	stats := map[string]*float64{
		"views_24hr": ptr(1000),
		"ctr_24hr":   nil,
	}

	filtered := filterPeriodStats(stats, "24hr")

	assert.Equal(t, 1, len(filtered))
	if _, ok := filtered["ctr_24hr"]; ok {
		t.Error("null value should never be written")
	}
}

func TestFilterPeriodStats_Empty(t *testing.T) {
	filtered := filterPeriodStats(map[string]*float64{}, "7d")

	assert.Equal(t, 0, len(filtered))
}

func TestMetricColumns_Complete(t *testing.T) {
	cols := model.MetricColumns()

	assert.Equal(t, 21, len(cols))

	seen := make(map[string]bool)
	for _, col := range cols {
		seen[col] = true
	}
	assert.Equal(t, true, seen["views_24hr"])
	assert.Equal(t, true, seen["average_percentage_viewed_7d"])
	assert.Equal(t, true, seen["ctr_48hr"])
	assert.Equal(t, true, seen["subs_gained_48hr"])
}

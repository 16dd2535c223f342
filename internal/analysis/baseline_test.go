package analysis

import (
	"errors"
	"testing"
	"vidpulse/internal/model"

	"github.com/go-playground/assert/v2"
)

type fakeLister struct {
	rows []model.VideoStats
	err  error
}

func (f *fakeLister) RecentN(n int) ([]model.VideoStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	if n < len(f.rows) {
		return f.rows[:n], nil
	}
	return f.rows, nil
}

func ptr(v float64) *float64 {
	return &v
}

func statsRow(id string, metrics map[string]*float64) model.VideoStats {
	full := make(map[string]*float64)
	for _, col := range model.MetricColumns() {
		full[col] = nil
	}
	for k, v := range metrics {
		full[k] = v
	}
	return model.VideoStats{VideoID: id, PublishDate: "2024-01-01", Metrics: full}
}

func TestComputeBaseline_EmptyStore(t *testing.T) {
	baseline, err := ComputeBaseline(&fakeLister{}, 5)

	assert.Equal(t, nil, err)
	assert.Equal(t, 21, len(baseline))
	for _, col := range model.MetricColumns() {
		assert.Equal(t, 0.0, baseline[col])
	}
}

func TestComputeBaseline_AllNullField(t *testing.T) {
	store := &fakeLister{rows: []model.VideoStats{
		statsRow("v1", map[string]*float64{"views_24hr": ptr(100)}),
		statsRow("v2", map[string]*float64{"views_24hr": ptr(200)}),
	}}

	baseline, err := ComputeBaseline(store, 5)

	assert.Equal(t, nil, err)
	assert.Equal(t, 0.0, baseline["likes_7d"])
}

func TestComputeBaseline_SkipsNullSamples(t *testing.T) {
	// Three videos, one missing views_24hr: average of the two non-null
	// values, not a three-way division.
	store := &fakeLister{rows: []model.VideoStats{
		statsRow("v1", map[string]*float64{"views_24hr": ptr(100)}),
		statsRow("v2", map[string]*float64{"views_24hr": ptr(200)}),
		statsRow("v3", map[string]*float64{"likes_24hr": ptr(10)}),
	}}

	baseline, err := ComputeBaseline(store, 3)

	assert.Equal(t, nil, err)
	assert.Equal(t, 150.0, baseline["views_24hr"])
	assert.Equal(t, 10.0, baseline["likes_24hr"])
}

func TestComputeBaseline_IndependentFieldCounts(t *testing.T) {
	// A just-published video without 7d data still contributes 24hr data.
	store := &fakeLister{rows: []model.VideoStats{
		statsRow("new", map[string]*float64{"views_24hr": ptr(1000)}),
		statsRow("old", map[string]*float64{"views_24hr": ptr(500), "views_7d": ptr(4000)}),
	}}

	baseline, err := ComputeBaseline(store, 5)

	assert.Equal(t, nil, err)
	assert.Equal(t, 750.0, baseline["views_24hr"])
	assert.Equal(t, 4000.0, baseline["views_7d"])
}

func TestComputeBaseline_StoreError(t *testing.T) {
	store := &fakeLister{err: errors.New("DB down")}

	_, err := ComputeBaseline(store, 5)

	assert.NotEqual(t, nil, err)
}

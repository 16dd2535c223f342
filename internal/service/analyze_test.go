package service

import (
	"errors"
	"testing"
	"vidpulse/internal/model"
	"vidpulse/internal/pipeline"
	"vidpulse/pkg/llm"
	"vidpulse/pkg/notion"
	"vidpulse/pkg/yt"

	"github.com/go-playground/assert/v2"
)

type upsertCall struct {
	videoID     string
	publishDate string
	period      string
	stats       map[string]*float64
}

type fakeStore struct {
	upserts []upsertCall
	row     *model.VideoStats
	recent  []model.VideoStats
}

func (f *fakeStore) Upsert(videoID, publishDate, period string, stats map[string]*float64) error {
	f.upserts = append(f.upserts, upsertCall{videoID, publishDate, period, stats})
	return nil
}

func (f *fakeStore) Get(videoID string) (*model.VideoStats, error) {
	return f.row, nil
}

func (f *fakeStore) RecentN(n int) ([]model.VideoStats, error) {
	return f.recent, nil
}

type fakeVideos struct {
	meta        *yt.Metadata
	statsByCall map[string]map[string]float64
	statsErr    error
}

func (f *fakeVideos) Metadata(videoID string) (*yt.Metadata, error) {
	return f.meta, nil
}

func (f *fakeVideos) Stats(videoID, publishedAt, period string) (map[string]float64, error) {
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	if stats, ok := f.statsByCall[period]; ok {
		return stats, nil
	}
	return map[string]float64{}, nil
}

type fakePages struct {
	props *notion.VideoProperties
}

func (f *fakePages) GetVideoProperties(pageID string) (*notion.VideoProperties, error) {
	return f.props, nil
}

type fakePublisher struct {
	blocks     []notion.Block
	verdict    string
	appendOK   bool
	verdictOK  bool
	appendErr  error
	verdictErr error
}

func (f *fakePublisher) AppendBlocks(pageID string, blocks []notion.Block) (bool, error) {
	f.blocks = blocks
	return f.appendOK, f.appendErr
}

func (f *fakePublisher) SetHypothesisResult(pageID, result string) (bool, error) {
	f.verdict = result
	return f.verdictOK, f.verdictErr
}

type fakeAgent struct {
	input llm.EvaluationInput
}

func (f *fakeAgent) Evaluate(input llm.EvaluationInput) (*llm.EvaluationResult, error) {
	f.input = input
	return &llm.EvaluationResult{Evaluation: "went well", HypothesisResult: model.VerdictSuccess}, nil
}

func (f *fakeAgent) WriteReport(evaluation string) (string, error) {
	return "Report: " + evaluation, nil
}

func (f *fakeAgent) FormatBlocks(report string) ([]llm.Block, error) {
	return []llm.Block{{Type: "paragraph", Text: report}}, nil
}

func ptr(v float64) *float64 {
	return &v
}

func storedRow(videoID string) *model.VideoStats {
	metrics := make(map[string]*float64)
	for _, col := range model.MetricColumns() {
		metrics[col] = nil
	}
	metrics["views_24hr"] = ptr(1500)
	metrics["likes_24hr"] = ptr(80)
	return &model.VideoStats{VideoID: videoID, PublishDate: "2026-08-20", Metrics: metrics}
}

func newTestService(store *fakeStore, videos *fakeVideos, pages *fakePages, publisher *fakePublisher, agent llm.AgentClient) *AnalysisService {
	return NewAnalysisService(store, videos, pages, publisher, pipeline.New(agent))
}

func TestAnalyze_FullFlow(t *testing.T) {
	store := &fakeStore{row: storedRow("vid1"), recent: []model.VideoStats{*storedRow("old")}}
	videos := &fakeVideos{
		meta:        &yt.Metadata{PublishedAt: "2026-08-20T00:00:00Z"},
		statsByCall: map[string]map[string]float64{"": {"views": 1500, "likes": 80, "subscribersGained": 4}},
	}
	pages := &fakePages{props: &notion.VideoProperties{
		VideoID:     "vid1",
		Hypothesis:  "Face visible in first 3 seconds",
		Descriptors: []string{"talking head"},
		Script:      "Hey...",
	}}
	publisher := &fakePublisher{appendOK: true, verdictOK: true}
	agent := &fakeAgent{}

	err := newTestService(store, videos, pages, publisher, agent).Analyze("page1", "24hr")

	assert.Equal(t, nil, err)

	// Stats stored under the chosen period before evaluation.
	assert.Equal(t, 1, len(store.upserts))
	assert.Equal(t, "vid1", store.upserts[0].videoID)
	assert.Equal(t, "24hr", store.upserts[0].period)
	assert.Equal(t, 1500.0, *store.upserts[0].stats["views_24hr"])
	assert.Equal(t, 4.0, *store.upserts[0].stats["subs_gained_24hr"])

	// The evaluation sees the page's recorded hypothesis and the stored row.
	assert.Equal(t, "Face visible in first 3 seconds", agent.input.Hypothesis)
	assert.Equal(t, 1500.0, *agent.input.Current["views"])

	// Report and verdict both published.
	assert.Equal(t, 1, len(publisher.blocks))
	assert.Equal(t, model.VerdictSuccess, publisher.verdict)
}

func TestAnalyze_InvalidPeriod(t *testing.T) {
	svc := newTestService(&fakeStore{}, &fakeVideos{}, &fakePages{}, &fakePublisher{}, &fakeAgent{})

	err := svc.Analyze("page1", "36hr")

	assert.Equal(t, true, errors.Is(err, model.ErrInvalidPeriod))
}

func TestAnalyze_PageWithoutVideoID(t *testing.T) {
	pages := &fakePages{props: &notion.VideoProperties{}}
	svc := newTestService(&fakeStore{}, &fakeVideos{}, pages, &fakePublisher{}, &fakeAgent{})

	err := svc.Analyze("page1", "24hr")

	assert.NotEqual(t, nil, err)
}

func TestAnalyze_SourceFailure(t *testing.T) {
	store := &fakeStore{}
	videos := &fakeVideos{meta: &yt.Metadata{PublishedAt: "2026-08-20T00:00:00Z"}, statsErr: errors.New("quota exceeded")}
	pages := &fakePages{props: &notion.VideoProperties{VideoID: "vid1"}}

	err := newTestService(store, videos, pages, &fakePublisher{}, &fakeAgent{}).Analyze("page1", "24hr")

	assert.Equal(t, true, errors.Is(err, model.ErrSourceUnavailable))
	assert.Equal(t, 0, len(store.upserts))
}

func TestAnalyze_PublishRejectionFailsRun(t *testing.T) {
	store := &fakeStore{row: storedRow("vid1")}
	videos := &fakeVideos{
		meta:        &yt.Metadata{PublishedAt: "2026-08-20T00:00:00Z"},
		statsByCall: map[string]map[string]float64{"": {"views": 1500}},
	}
	pages := &fakePages{props: &notion.VideoProperties{VideoID: "vid1"}}
	publisher := &fakePublisher{appendOK: false, verdictOK: true}

	err := newTestService(store, videos, pages, publisher, &fakeAgent{}).Analyze("page1", "24hr")

	assert.Equal(t, true, errors.Is(err, model.ErrPublishFailure))
	// Store writes committed before the failure remain.
	assert.Equal(t, 1, len(store.upserts))
}

func TestRefresh_AllPeriods(t *testing.T) {
	store := &fakeStore{}
	videos := &fakeVideos{
		meta: &yt.Metadata{PublishedAt: "2026-08-01T00:00:00Z"},
		statsByCall: map[string]map[string]float64{
			"24hr": {"views": 900},
			"48hr": {"views": 1400},
			"7d":   {}, // window not elapsed yet
		},
	}

	err := newTestService(store, videos, &fakePages{}, &fakePublisher{}, &fakeAgent{}).Refresh("vid1")

	assert.Equal(t, nil, err)
	assert.Equal(t, 3, len(store.upserts))
	assert.Equal(t, 900.0, *store.upserts[0].stats["views_24hr"])
	assert.Equal(t, 1400.0, *store.upserts[1].stats["views_48hr"])
	// Empty source stats produce an empty upsert payload, never nulls.
	assert.Equal(t, 0, len(store.upserts[2].stats))
}

func TestPeriodStats_RenamesSourceMetrics(t *testing.T) {
	stats := map[string]float64{
		"views":                   1000,
		"averageViewDuration":     21.5,
		"averageViewPercentage":   64.0,
		"subscribersGained":       12,
		"estimatedMinutesWatched": 350, // not a stored kind, dropped
	}

	out := periodStats(stats, "48hr")

	assert.Equal(t, 4, len(out))
	assert.Equal(t, 1000.0, *out["views_48hr"])
	assert.Equal(t, 21.5, *out["average_view_duration_48hr"])
	assert.Equal(t, 64.0, *out["average_percentage_viewed_48hr"])
	assert.Equal(t, 12.0, *out["subs_gained_48hr"])
}

package service

import (
	"fmt"
	"log/slog"

	"vidpulse/internal/analysis"
	"vidpulse/internal/model"
	"vidpulse/internal/pipeline"
	"vidpulse/pkg/llm"
	"vidpulse/pkg/notion"
	"vidpulse/pkg/yt"
)

// sourceMetrics maps Analytics API metric names to the stored column kinds.
var sourceMetrics = map[string]string{
	"views":                 "views",
	"likes":                 "likes",
	"comments":              "comments",
	"averageViewDuration":   "average_view_duration",
	"averageViewPercentage": "average_percentage_viewed",
	"subscribersGained":     "subs_gained",
}

// evaluationKinds are the metric kinds surfaced to the evaluation stage.
var evaluationKinds = []string{
	"views",
	"likes",
	"comments",
	"average_view_duration",
	"average_percentage_viewed",
	"subs_gained",
}

type StatsStore interface {
	Upsert(videoID, publishDate, period string, stats map[string]*float64) error
	Get(videoID string) (*model.VideoStats, error)
	RecentN(n int) ([]model.VideoStats, error)
}

type VideoSource interface {
	Metadata(videoID string) (*yt.Metadata, error)
	Stats(videoID, publishedAt, period string) (map[string]float64, error)
}

type PageSource interface {
	GetVideoProperties(pageID string) (*notion.VideoProperties, error)
}

type Publisher interface {
	AppendBlocks(pageID string, blocks []notion.Block) (bool, error)
	SetHypothesisResult(pageID, result string) (bool, error)
}

// AnalysisService wires the store, metric source, pipeline and publish sink
// into the two top-level flows: a full analysis run for one page, and a
// stats refresh for one video. Every step runs sequentially; the first
// failure aborts the run and already-committed store writes remain.
type AnalysisService struct {
	stats     StatsStore
	videos    VideoSource
	pages     PageSource
	publisher Publisher
	pipeline  *pipeline.Pipeline
	baselineN int
}

func NewAnalysisService(stats StatsStore, videos VideoSource, pages PageSource, publisher Publisher, p *pipeline.Pipeline) *AnalysisService {
	return &AnalysisService{
		stats:     stats,
		videos:    videos,
		pages:     pages,
		publisher: publisher,
		pipeline:  p,
		baselineN: 5,
	}
}

// Analyze runs the whole flow for one page: read the page's experiment
// properties, pull the video's metrics, store them under the given period,
// compare against the rolling baseline, run the evaluation pipeline and
// publish the report and verdict back to the page.
func (s *AnalysisService) Analyze(pageID, period string) error {
	if !model.ValidPeriod(period) {
		return model.ErrInvalidPeriod
	}

	props, err := s.pages.GetVideoProperties(pageID)
	if err != nil {
		return fmt.Errorf("fetching page properties: %w", err)
	}

	if props.VideoID == "" {
		return fmt.Errorf("page %s has no video id", pageID)
	}

	meta, err := s.videos.Metadata(props.VideoID)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrSourceUnavailable, err)
	}

	if meta == nil {
		return fmt.Errorf("%w: video %s not found", model.ErrSourceUnavailable, props.VideoID)
	}

	stats, err := s.videos.Stats(props.VideoID, "", "")
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrSourceUnavailable, err)
	}

	err = s.stats.Upsert(props.VideoID, meta.PublishedAt, period, periodStats(stats, period))
	if err != nil {
		return fmt.Errorf("storing stats: %w", err)
	}

	row, err := s.stats.Get(props.VideoID)
	if err != nil {
		return fmt.Errorf("reading stored stats: %w", err)
	}

	if row == nil {
		return fmt.Errorf("no stored stats for video %s", props.VideoID)
	}

	baseline, err := analysis.ComputeBaseline(s.stats, s.baselineN)
	if err != nil {
		return fmt.Errorf("computing baseline: %w", err)
	}

	current := make(map[string]float64)
	for col, v := range row.Metrics {
		if v != nil {
			current[col] = *v
		}
	}
	comparison := analysis.CompareToBaseline(current, baseline, period)

	result, err := s.pipeline.Run(buildEvaluationInput(period, row, baseline, comparison, props))
	if err != nil {
		return err
	}

	slog.Info("pipeline complete", "page_id", pageID, "verdict", result.HypothesisResult, "blocks", len(result.Blocks))

	ok, err := s.publisher.AppendBlocks(pageID, toPublishBlocks(result.Blocks))
	if err != nil {
		return fmt.Errorf("publishing report: %w", err)
	}

	if !ok {
		return fmt.Errorf("%w: report blocks", model.ErrPublishFailure)
	}

	ok, err = s.publisher.SetHypothesisResult(pageID, result.HypothesisResult)
	if err != nil {
		return fmt.Errorf("publishing verdict: %w", err)
	}

	if !ok {
		return fmt.Errorf("%w: hypothesis result", model.ErrPublishFailure)
	}

	return nil
}

// Refresh pulls and stores window-scoped stats for all three periods. A
// period whose window has not elapsed yields an empty stats map and the
// corresponding upsert is a no-op, leaving earlier windows untouched.
func (s *AnalysisService) Refresh(videoID string) error {
	meta, err := s.videos.Metadata(videoID)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrSourceUnavailable, err)
	}

	if meta == nil {
		return fmt.Errorf("%w: video %s not found", model.ErrSourceUnavailable, videoID)
	}

	for _, period := range model.Periods {
		stats, err := s.videos.Stats(videoID, meta.PublishedAt, period)
		if err != nil {
			return fmt.Errorf("%w: %v", model.ErrSourceUnavailable, err)
		}

		err = s.stats.Upsert(videoID, meta.PublishedAt, period, periodStats(stats, period))
		if err != nil {
			return fmt.Errorf("storing %s stats: %w", period, err)
		}

		slog.Info("period refreshed", "video_id", videoID, "period", period, "metrics", len(stats))
	}

	return nil
}

// Snapshot returns the stored metrics row for one video, nil when unknown.
func (s *AnalysisService) Snapshot(videoID string) (*model.VideoStats, error) {
	return s.stats.Get(videoID)
}

// periodStats renames source metrics into `{kind}_{period}` columns.
// Metrics the source did not report are omitted, never written as null.
func periodStats(stats map[string]float64, period string) map[string]*float64 {
	out := make(map[string]*float64)
	for source, kind := range sourceMetrics {
		if v, ok := stats[source]; ok {
			value := v
			out[kind+"_"+period] = &value
		}
	}
	return out
}

func buildEvaluationInput(period string, row *model.VideoStats, baseline model.Baseline, comparison model.Comparison, props *notion.VideoProperties) llm.EvaluationInput {
	current := make(map[string]*float64, len(evaluationKinds))
	base := make(map[string]float64, len(evaluationKinds))
	deltas := make(map[string]*float64)

	for _, kind := range evaluationKinds {
		col := kind + "_" + period
		current[kind] = row.Metrics[col]
		base[kind] = baseline[col]
		if entry, ok := comparison[col]; ok {
			deltas[kind] = entry.Delta
		}
	}

	return llm.EvaluationInput{
		Period:      period,
		Current:     current,
		Baseline:    base,
		Deltas:      deltas,
		Hypothesis:  props.Hypothesis,
		Descriptors: props.Descriptors,
		Script:      props.Script,
		History:     nil,
	}
}

func toPublishBlocks(blocks []model.ContentBlock) []notion.Block {
	out := make([]notion.Block, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, notion.Block{Type: b.Type, Text: b.Text, URL: b.URL})
	}
	return out
}

package model

const (
	Period24hr = "24hr"
	Period48hr = "48hr"
	Period7d   = "7d"
)

var Periods = []string{Period24hr, Period48hr, Period7d}

// MetricKinds are the per-period engagement metrics tracked for every video.
// ctr has no producer in the current metric source and stays null.
var MetricKinds = []string{
	"views",
	"likes",
	"comments",
	"ctr",
	"average_view_duration",
	"average_percentage_viewed",
	"subs_gained",
}

func ValidPeriod(period string) bool {
	for _, p := range Periods {
		if p == period {
			return true
		}
	}
	return false
}

// MetricColumns returns the 21 metric column names in stable order,
// kind-major to match the video_stats schema.
func MetricColumns() []string {
	cols := make([]string, 0, len(MetricKinds)*len(Periods))
	for _, kind := range MetricKinds {
		for _, period := range Periods {
			cols = append(cols, kind+"_"+period)
		}
	}
	return cols
}

// VideoStats is one row of the video_stats table. Metrics holds all 21
// period-scoped fields; a nil value means no data has arrived for that
// (kind, period) yet.
type VideoStats struct {
	VideoID     string
	Title       string
	PublishDate string
	Metrics     map[string]*float64
}

// Baseline maps each metric field to its average across the N most recently
// published videos. Fields with no samples are 0.
type Baseline map[string]float64

// MetricDelta is one entry of a baseline comparison. Delta is nil when the
// baseline is 0 and a percentage change is undefined.
type MetricDelta struct {
	Value    float64
	Baseline float64
	Delta    *float64
}

type Comparison map[string]MetricDelta

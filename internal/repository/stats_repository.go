package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"vidpulse/internal/model"
)

type StatsRepository struct {
	db *sql.DB
}

func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// InitSchema creates the video_stats and refresh_error tables. Idempotent,
// called once by each process entry point after connecting.
func (r *StatsRepository) InitSchema() error {
	var metricCols strings.Builder
	for _, col := range model.MetricColumns() {
		metricCols.WriteString(fmt.Sprintf("%s DOUBLE PRECISION DEFAULT NULL,\n", col))
	}

	_, err := r.db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS video_stats (
			video_id TEXT PRIMARY KEY,
			title TEXT,
			publish_date TEXT,
			%s
			created_at TIMESTAMPTZ DEFAULT now()
		)
	`, metricCols.String()))
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		CREATE TABLE IF NOT EXISTS refresh_error (
			id BIGSERIAL PRIMARY KEY,
			video_id TEXT NOT NULL,
			error_message TEXT,
			created_at TIMESTAMPTZ DEFAULT now()
		)
	`)
	return err
}

// Upsert writes the supplied metrics for one video and period. Keys that do
// not carry the `_{period}` suffix, or that are not recognized columns, are
// dropped. An empty filtered set is a successful no-op. Existing rows keep
// every column outside the supplied set untouched; publish_date is written on
// every call.
func (r *StatsRepository) Upsert(videoID, publishDate, period string, stats map[string]*float64) error {
	if !model.ValidPeriod(period) {
		return model.ErrInvalidPeriod
	}

	filtered := filterPeriodStats(stats, period)
	if len(filtered) == 0 {
		return nil
	}

	// Stable column order so the query text is deterministic.
	cols := make([]string, 0, len(filtered))
	for _, col := range model.MetricColumns() {
		if _, ok := filtered[col]; ok {
			cols = append(cols, col)
		}
	}

	var exists string
	err := r.db.QueryRow(`
		SELECT video_id FROM video_stats WHERE video_id = $1
	`, videoID).Scan(&exists)

	if err != nil && err != sql.ErrNoRows {
		return err
	}

	if err == sql.ErrNoRows {
		columns := []string{"video_id", "publish_date"}
		placeholders := []string{"$1", "$2"}
		values := []interface{}{videoID, publishDate}
		for i, col := range cols {
			columns = append(columns, col)
			placeholders = append(placeholders, fmt.Sprintf("$%d", i+3))
			values = append(values, *filtered[col])
		}

		query := fmt.Sprintf(
			"INSERT INTO video_stats (%s) VALUES (%s)",
			strings.Join(columns, ", "), strings.Join(placeholders, ", "),
		)
		_, err = r.db.Exec(query, values...)
		return err
	}

	setClauses := []string{"publish_date = $1"}
	values := []interface{}{publishDate}
	for i, col := range cols {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i+2))
		values = append(values, *filtered[col])
	}
	values = append(values, videoID)

	query := fmt.Sprintf(
		"UPDATE video_stats SET %s WHERE video_id = $%d",
		strings.Join(setClauses, ", "), len(values),
	)
	_, err = r.db.Exec(query, values...)
	return err
}

// Get returns the full snapshot for one video, or nil when unknown.
func (r *StatsRepository) Get(videoID string) (*model.VideoStats, error) {
	cols := model.MetricColumns()

	query := fmt.Sprintf(`
		SELECT video_id, title, publish_date, %s
		FROM video_stats
		WHERE video_id = $1
	`, strings.Join(cols, ", "))

	row := r.db.QueryRow(query, videoID)
	stats, err := scanVideoStats(row.Scan, cols)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return stats, nil
}

// RecentN returns up to n snapshots ordered by publish_date descending.
func (r *StatsRepository) RecentN(n int) ([]model.VideoStats, error) {
	cols := model.MetricColumns()

	query := fmt.Sprintf(`
		SELECT video_id, title, publish_date, %s
		FROM video_stats
		ORDER BY publish_date DESC
		LIMIT $1
	`, strings.Join(cols, ", "))

	rows, err := r.db.Query(query, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.VideoStats
	for rows.Next() {
		stats, err := scanVideoStats(rows.Scan, cols)
		if err != nil {
			return nil, err
		}
		result = append(result, *stats)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *StatsRepository) SaveRefreshError(videoID string, errMsg string) error {
	_, err := r.db.Exec(`
		INSERT INTO refresh_error(video_id, error_message)
		VALUES($1, $2)
	`, videoID, errMsg)
	return err
}

func (r *StatsRepository) GetRefreshErrorCount(videoID string) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM refresh_error
		WHERE video_id = $1
	`, videoID).Scan(&count)
	return count, err
}

// filterPeriodStats keeps only recognized metric columns carrying the
// `_{period}` suffix. Stray keys and nil values are silently dropped: a
// column is only ever written once real data exists, never back to null.
func filterPeriodStats(stats map[string]*float64, period string) map[string]*float64 {
	known := make(map[string]bool, 21)
	for _, col := range model.MetricColumns() {
		known[col] = true
	}

	filtered := make(map[string]*float64)
	for key, value := range stats {
		if value != nil && strings.HasSuffix(key, "_"+period) && known[key] {
			filtered[key] = value
		}
	}
	return filtered
}

func scanVideoStats(scan func(...interface{}) error, cols []string) (*model.VideoStats, error) {
	var videoID string
	var title, publishDate sql.NullString
	metrics := make([]sql.NullFloat64, len(cols))

	dest := []interface{}{&videoID, &title, &publishDate}
	for i := range metrics {
		dest = append(dest, &metrics[i])
	}

	if err := scan(dest...); err != nil {
		return nil, err
	}

	stats := &model.VideoStats{
		VideoID:     videoID,
		Title:       title.String,
		PublishDate: publishDate.String,
		Metrics:     make(map[string]*float64, len(cols)),
	}
	for i, col := range cols {
		if metrics[i].Valid {
			v := metrics[i].Float64
			stats.Metrics[col] = &v
		} else {
			stats.Metrics[col] = nil
		}
	}
	return stats, nil
}

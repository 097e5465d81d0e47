package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/script-breakdown/internal/domain"
)

// ErrNotFound indicates no report history exists for a script.
var ErrNotFound = errors.New("breakdown history not found")

// BreakdownHistoryRepository persists final reports for later retrieval.
type BreakdownHistoryRepository struct {
	db *sqlx.DB
}

// NewBreakdownHistoryRepository creates a new report history repository.
func NewBreakdownHistoryRepository(db *sqlx.DB) *BreakdownHistoryRepository {
	return &BreakdownHistoryRepository{db: db}
}

// historyRow is the flat row shape; the full report travels as JSON.
type historyRow struct {
	ID                   int64     `db:"id"`
	ScriptID             string    `db:"script_id"`
	ReportJSON           string    `db:"report_json"`
	ElementCount         int       `db:"element_count"`
	ConflictCount        int       `db:"conflict_count"`
	OverallConfidence    float64   `db:"overall_confidence"`
	ExtractionConfidence float64   `db:"extraction_confidence"`
	HumanReviewRequired  bool      `db:"human_review_required"`
	ProcessingTimeMs     int64     `db:"processing_time_ms"`
	GeneratedAt          time.Time `db:"generated_at"`
}

// BreakdownStats summarizes the processed history.
type BreakdownStats struct {
	TotalProcessed      int     `json:"total_processed" db:"total_processed"`
	AvgConfidence       float64 `json:"avg_confidence" db:"avg_confidence"`
	HumanReviewCount    int     `json:"human_review_count" db:"human_review_count"`
	AvgProcessingTimeMs float64 `json:"avg_processing_time_ms" db:"avg_processing_time_ms"`
}

// Create inserts a report into the history.
func (r *BreakdownHistoryRepository) Create(ctx context.Context, report *domain.FinalReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	query := `
		INSERT INTO breakdown_history (
			script_id, report_json, element_count, conflict_count,
			overall_confidence, extraction_confidence, human_review_required,
			processing_time_ms, generated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		report.ScriptID,
		string(payload),
		len(report.Elements),
		len(report.ConflictsDetected),
		report.OverallConfidence,
		report.ExtractionConfidence,
		report.HumanReviewRequired,
		report.ProcessingTimeMs,
		report.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create breakdown history: %w", err)
	}
	return nil
}

// GetByScriptID retrieves the most recent report for a script.
func (r *BreakdownHistoryRepository) GetByScriptID(ctx context.Context, scriptID string) (*domain.FinalReport, error) {
	var row historyRow
	query := `
		SELECT id, script_id, report_json, element_count, conflict_count,
		       overall_confidence, extraction_confidence, human_review_required,
		       processing_time_ms, generated_at
		FROM breakdown_history
		WHERE script_id = ?
		ORDER BY generated_at DESC
		LIMIT 1
	`

	if err := r.db.GetContext(ctx, &row, query, scriptID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, scriptID)
		}
		return nil, fmt.Errorf("failed to get breakdown history: %w", err)
	}

	var report domain.FinalReport
	if err := json.Unmarshal([]byte(row.ReportJSON), &report); err != nil {
		return nil, fmt.Errorf("unmarshal stored report: %w", err)
	}
	return &report, nil
}

// GetStats retrieves aggregate statistics over the history.
func (r *BreakdownHistoryRepository) GetStats(ctx context.Context) (*BreakdownStats, error) {
	var stats BreakdownStats
	query := `
		SELECT
			COUNT(*) AS total_processed,
			COALESCE(AVG(overall_confidence), 0) AS avg_confidence,
			COALESCE(SUM(CASE WHEN human_review_required THEN 1 ELSE 0 END), 0) AS human_review_count,
			COALESCE(AVG(processing_time_ms), 0) AS avg_processing_time_ms
		FROM breakdown_history
	`

	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("failed to get breakdown stats: %w", err)
	}
	return &stats, nil
}

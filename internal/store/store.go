package store

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// ScoreSnapshot is the minimal persisted view of a previous analysis.
type ScoreSnapshot struct {
	ID         int64     `json:"id"`
	SubjectID  int64     `json:"subject_id"`
	Score      float64   `json:"score"`
	AnalyzedAt time.Time `json:"timestamp"`
}

// AnalysisRecord is one stored analysis, one row per subject.
type AnalysisRecord struct {
	ID              int64           `json:"id"`
	SubjectID       int64           `json:"subject_id"`
	Score           float64         `json:"score"`
	ScorePercentage int             `json:"score_percentage"`
	SuggestionCount int             `json:"suggestion_count"`
	Suggestions     []string        `json:"suggestions"`
	Breakdown       json.RawMessage `json:"breakdown,omitempty"`
	ContentHash     string          `json:"content_hash"`
	AnalyzedAt      time.Time       `json:"analyzed_at"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Snapshot returns the record's score view.
func (r *AnalysisRecord) Snapshot() *ScoreSnapshot {
	return &ScoreSnapshot{ID: r.ID, SubjectID: r.SubjectID, Score: r.Score, AnalyzedAt: r.AnalyzedAt}
}

// Percentage converts a [0,1] score to the stored integer percentage.
func Percentage(score float64) int {
	return int(math.Round(score * 100))
}

// SaveResult reports which field groups of a save were written.
type SaveResult struct {
	ScoreSaved       bool `json:"score_saved"`
	SuggestionsSaved bool `json:"suggestions_saved"`
	BreakdownSaved   bool `json:"breakdown_saved"`
}

// OK reports whether every field group was written.
func (r *SaveResult) OK() bool {
	return r != nil && r.ScoreSaved && r.SuggestionsSaved && r.BreakdownSaved
}

// AnalysisFilter narrows ListAnalyses. Results are ordered lowest score first.
type AnalysisFilter struct {
	MaxScore *float64
	Limit    int
	Offset   int
}

// ScoreReader is the read path the optimiser uses to reload a subject.
type ScoreReader interface {
	// LatestScore returns nil, nil when nothing is stored for the subject.
	LatestScore(ctx context.Context, subjectID int64) (*ScoreSnapshot, error)
}

type Store interface {
	ScoreReader

	// SaveAnalysis upserts the subject's row. Groups written before a failure
	// stay written; the returned error joins every group failure.
	SaveAnalysis(ctx context.Context, rec *AnalysisRecord) (*SaveResult, error)
	GetAnalysis(ctx context.Context, subjectID int64) (*AnalysisRecord, error)
	ListAnalyses(ctx context.Context, filter AnalysisFilter) ([]*AnalysisRecord, error)

	Close() error
}

// Open connects to the configured backend.
func Open(ctx context.Context, driver, url string) (Store, error) {
	switch driver {
	case "postgres", "":
		s, err := NewPostgresStore(ctx, url)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureSchema(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	case "sqlite":
		return NewSQLiteStore(url)
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return 50
	}
	return limit
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS seo_analyses (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	subject_id       INTEGER NOT NULL UNIQUE,
	score            REAL NOT NULL,
	score_percentage INTEGER NOT NULL,
	suggestion_count INTEGER NOT NULL DEFAULT 0,
	suggestions      TEXT NOT NULL DEFAULT '[]',
	breakdown        TEXT,
	content_hash     TEXT NOT NULL DEFAULT '',
	analyzed_at      TEXT NOT NULL,
	created_at       TEXT NOT NULL,
	updated_at       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS seo_analyses_score_idx ON seo_analyses (score);
`

// SQLiteStore keeps analyses in a local SQLite file. It backs the CLI and
// single-node deployments.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens a SQLite database and runs migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma busy_timeout: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveAnalysis(ctx context.Context, rec *AnalysisRecord) (*SaveResult, error) {
	res := &SaveResult{}
	now := time.Now().UTC()
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO seo_analyses (subject_id, score, score_percentage, content_hash, analyzed_at, created_at, updated_at)
		VALUES (?, ?, ?, '', ?, ?, ?)
		ON CONFLICT (subject_id) DO UPDATE SET
			score = excluded.score,
			score_percentage = excluded.score_percentage,
			content_hash = '',
			analyzed_at = excluded.analyzed_at,
			updated_at = excluded.updated_at
		RETURNING id, created_at`,
		rec.SubjectID, rec.Score, rec.ScorePercentage,
		formatTime(rec.AnalyzedAt), formatTime(now), formatTime(now),
	).Scan(&rec.ID, &createdAt)
	if err != nil {
		return res, fmt.Errorf("save score: %w", err)
	}
	res.ScoreSaved = true
	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return res, fmt.Errorf("save score: %w", err)
	}
	rec.UpdatedAt = now

	var errs []error
	suggestions := rec.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	sugJSON, err := json.Marshal(suggestions)
	if err == nil {
		_, err = s.db.ExecContext(ctx,
			`UPDATE seo_analyses SET suggestion_count = ?, suggestions = ? WHERE id = ?`,
			rec.SuggestionCount, string(sugJSON), rec.ID)
	}
	if err != nil {
		errs = append(errs, fmt.Errorf("save suggestions: %w", err))
	} else {
		res.SuggestionsSaved = true
	}

	var breakdown any
	if len(rec.Breakdown) > 0 {
		if !json.Valid(rec.Breakdown) {
			errs = append(errs, errors.New("save breakdown: invalid JSON"))
			return res, errors.Join(errs...)
		}
		breakdown = string(rec.Breakdown)
	}
	// content_hash is only set once every earlier group is stored
	hash := ""
	if len(errs) == 0 {
		hash = rec.ContentHash
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE seo_analyses SET breakdown = ?, content_hash = ? WHERE id = ?`,
		breakdown, hash, rec.ID); err != nil {
		errs = append(errs, fmt.Errorf("save breakdown: %w", err))
	} else {
		res.BreakdownSaved = true
	}
	return res, errors.Join(errs...)
}

func (s *SQLiteStore) LatestScore(ctx context.Context, subjectID int64) (*ScoreSnapshot, error) {
	snap := &ScoreSnapshot{}
	var analyzedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, subject_id, score, analyzed_at FROM seo_analyses WHERE subject_id = ?`, subjectID,
	).Scan(&snap.ID, &snap.SubjectID, &snap.Score, &analyzedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if snap.AnalyzedAt, err = parseTime(analyzedAt); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *SQLiteStore) GetAnalysis(ctx context.Context, subjectID int64) (*AnalysisRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+analysisColumns+` FROM seo_analyses WHERE subject_id = ?`, subjectID)
	rec, err := scanSQLiteRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *SQLiteStore) ListAnalyses(ctx context.Context, filter AnalysisFilter) ([]*AnalysisRecord, error) {
	query := `SELECT ` + analysisColumns + ` FROM seo_analyses`
	var args []any
	if filter.MaxScore != nil {
		query += ` WHERE score <= ?`
		args = append(args, *filter.MaxScore)
	}
	query += ` ORDER BY score ASC, subject_id ASC LIMIT ? OFFSET ?`
	args = append(args, clampLimit(filter.Limit), max(filter.Offset, 0))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*AnalysisRecord
	for rows.Next() {
		rec, err := scanSQLiteRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteRecord(row rowScanner) (*AnalysisRecord, error) {
	rec := &AnalysisRecord{}
	var suggestions string
	var breakdown sql.NullString
	var analyzedAt, createdAt, updatedAt string
	err := row.Scan(
		&rec.ID, &rec.SubjectID, &rec.Score, &rec.ScorePercentage, &rec.SuggestionCount, &suggestions,
		&breakdown, &rec.ContentHash, &analyzedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(suggestions), &rec.Suggestions); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}
	if breakdown.Valid && breakdown.String != "" {
		rec.Breakdown = json.RawMessage(breakdown.String)
	}
	if rec.AnalyzedAt, err = parseTime(analyzedAt); err != nil {
		return nil, err
	}
	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if rec.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return rec, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

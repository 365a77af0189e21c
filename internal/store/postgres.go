package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS seo_analyses (
	id               BIGSERIAL PRIMARY KEY,
	subject_id       BIGINT NOT NULL UNIQUE,
	score            DOUBLE PRECISION NOT NULL,
	score_percentage INTEGER NOT NULL,
	suggestion_count INTEGER NOT NULL DEFAULT 0,
	suggestions      TEXT[] NOT NULL DEFAULT '{}',
	breakdown        JSONB,
	content_hash     TEXT NOT NULL DEFAULT '',
	analyzed_at      TIMESTAMPTZ NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS seo_analyses_score_idx ON seo_analyses (score);
`

// EnsureSchema creates the analyses table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

const analysisColumns = `id, subject_id, score, score_percentage, suggestion_count, suggestions,
	breakdown, content_hash, analyzed_at, created_at, updated_at`

func (s *PostgresStore) SaveAnalysis(ctx context.Context, rec *AnalysisRecord) (*SaveResult, error) {
	res := &SaveResult{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO seo_analyses (subject_id, score, score_percentage, content_hash, analyzed_at)
		VALUES ($1, $2, $3, '', $4)
		ON CONFLICT (subject_id) DO UPDATE SET
			score = EXCLUDED.score,
			score_percentage = EXCLUDED.score_percentage,
			content_hash = '',
			analyzed_at = EXCLUDED.analyzed_at,
			updated_at = now()
		RETURNING id, created_at, updated_at`,
		rec.SubjectID, rec.Score, rec.ScorePercentage, rec.AnalyzedAt,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return res, fmt.Errorf("save score: %w", err)
	}
	res.ScoreSaved = true

	var errs []error
	suggestions := rec.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	if _, err := s.pool.Exec(ctx, `
		UPDATE seo_analyses SET suggestion_count = $2, suggestions = $3 WHERE id = $1`,
		rec.ID, rec.SuggestionCount, suggestions,
	); err != nil {
		errs = append(errs, fmt.Errorf("save suggestions: %w", err))
	} else {
		res.SuggestionsSaved = true
	}

	var breakdown any
	if len(rec.Breakdown) > 0 {
		breakdown = string(rec.Breakdown)
	}
	// content_hash is only set once every earlier group is stored
	hash := ""
	if len(errs) == 0 {
		hash = rec.ContentHash
	}
	if _, err := s.pool.Exec(ctx, `
		UPDATE seo_analyses SET breakdown = $2::jsonb, content_hash = $3 WHERE id = $1`,
		rec.ID, breakdown, hash,
	); err != nil {
		errs = append(errs, fmt.Errorf("save breakdown: %w", err))
	} else {
		res.BreakdownSaved = true
	}
	return res, errors.Join(errs...)
}

func (s *PostgresStore) LatestScore(ctx context.Context, subjectID int64) (*ScoreSnapshot, error) {
	snap := &ScoreSnapshot{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, subject_id, score, analyzed_at FROM seo_analyses WHERE subject_id = $1`, subjectID,
	).Scan(&snap.ID, &snap.SubjectID, &snap.Score, &snap.AnalyzedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *PostgresStore) GetAnalysis(ctx context.Context, subjectID int64) (*AnalysisRecord, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+analysisColumns+` FROM seo_analyses WHERE subject_id = $1`, subjectID)
	rec, err := scanPostgresRecord(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *PostgresStore) ListAnalyses(ctx context.Context, filter AnalysisFilter) ([]*AnalysisRecord, error) {
	query := `SELECT ` + analysisColumns + ` FROM seo_analyses`
	args := []any{}
	if filter.MaxScore != nil {
		args = append(args, *filter.MaxScore)
		query += fmt.Sprintf(" WHERE score <= $%d", len(args))
	}
	args = append(args, clampLimit(filter.Limit), max(filter.Offset, 0))
	query += fmt.Sprintf(" ORDER BY score ASC, subject_id ASC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*AnalysisRecord
	for rows.Next() {
		rec, err := scanPostgresRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanPostgresRecord(row pgx.Row) (*AnalysisRecord, error) {
	rec := &AnalysisRecord{}
	var breakdown []byte
	err := row.Scan(
		&rec.ID, &rec.SubjectID, &rec.Score, &rec.ScorePercentage, &rec.SuggestionCount, &rec.Suggestions,
		&breakdown, &rec.ContentHash, &rec.AnalyzedAt, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(breakdown) > 0 {
		rec.Breakdown = breakdown
	}
	return rec, nil
}

//go:build integration

package store

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"
)

func setupTestDB(t *testing.T) *PostgresStore {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := NewPostgresStore(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	t.Cleanup(func() {
		_, _ = s.pool.Exec(ctx, "TRUNCATE seo_analyses")
		s.Close()
	})

	return s
}

func TestPostgresSaveAndLoad(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	rec := &AnalysisRecord{
		SubjectID:       101,
		Score:           0.72,
		ScorePercentage: Percentage(0.72),
		SuggestionCount: 1,
		Suggestions:     []string{"add_canonical_tag"},
		Breakdown:       json.RawMessage(`{"score": 0.72}`),
		ContentHash:     "deadbeef",
		AnalyzedAt:      time.Now().UTC().Truncate(time.Microsecond),
	}
	res, err := s.SaveAnalysis(ctx, rec)
	if err != nil {
		t.Fatalf("SaveAnalysis failed: %v", err)
	}
	if !res.OK() {
		t.Fatalf("expected all groups saved, got %+v", res)
	}

	snap, err := s.LatestScore(ctx, 101)
	if err != nil {
		t.Fatalf("LatestScore failed: %v", err)
	}
	if snap == nil || snap.ID != rec.ID {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	got, err := s.GetAnalysis(ctx, 101)
	if err != nil {
		t.Fatalf("GetAnalysis failed: %v", err)
	}
	if got.ContentHash != "deadbeef" || len(got.Suggestions) != 1 {
		t.Errorf("unexpected record %+v", got)
	}

	rec.Score = 0.9
	if _, err := s.SaveAnalysis(ctx, rec); err != nil {
		t.Fatalf("second SaveAnalysis failed: %v", err)
	}
	list, err := s.ListAnalyses(ctx, AnalysisFilter{})
	if err != nil {
		t.Fatalf("ListAnalyses failed: %v", err)
	}
	if len(list) != 1 || list[0].Score != 0.9 {
		t.Errorf("expected one upserted row, got %d", len(list))
	}
}

func TestPostgresMissReturnsNil(t *testing.T) {
	s := setupTestDB(t)
	snap, err := s.LatestScore(context.Background(), 999999)
	if err != nil || snap != nil {
		t.Fatalf("expected nil, nil; got %+v, %v", snap, err)
	}
}

func TestPostgresPartialSaveClearsContentHash(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	rec := &AnalysisRecord{
		SubjectID:   102,
		Score:       0.4,
		Suggestions: []string{},
		Breakdown:   json.RawMessage(`{"v": "old"}`),
		ContentHash: "h-old",
		AnalyzedAt:  time.Now().UTC(),
	}
	if _, err := s.SaveAnalysis(ctx, rec); err != nil {
		t.Fatalf("first SaveAnalysis failed: %v", err)
	}

	rec.ContentHash = "h-new"
	rec.Breakdown = json.RawMessage(`{broken`)
	res, err := s.SaveAnalysis(ctx, rec)
	if err == nil || res.BreakdownSaved {
		t.Fatalf("expected breakdown failure, got %+v, %v", res, err)
	}

	got, err := s.GetAnalysis(ctx, 102)
	if err != nil {
		t.Fatalf("GetAnalysis failed: %v", err)
	}
	if got.ContentHash != "" {
		t.Errorf("expected content hash cleared, got %q", got.ContentHash)
	}
}

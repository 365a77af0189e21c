package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"
)

func tempDB(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord(subjectID int64, score float64) *AnalysisRecord {
	return &AnalysisRecord{
		SubjectID:       subjectID,
		Score:           score,
		ScorePercentage: Percentage(score),
		SuggestionCount: 2,
		Suggestions:     []string{"add_h1", "expand_content"},
		Breakdown:       json.RawMessage(`{"subject_id":1,"score":0.5}`),
		ContentHash:     "abc123",
		AnalyzedAt:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		score float64
		want  int
	}{
		{0, 0}, {0.6, 60}, {0.666, 67}, {1, 100},
	}
	for _, tt := range tests {
		if got := Percentage(tt.score); got != tt.want {
			t.Errorf("Percentage(%f) = %d, want %d", tt.score, got, tt.want)
		}
	}
}

func TestSaveResultOK(t *testing.T) {
	var nilResult *SaveResult
	if nilResult.OK() {
		t.Error("nil result should not be OK")
	}
	if (&SaveResult{ScoreSaved: true, SuggestionsSaved: true}).OK() {
		t.Error("partial save should not be OK")
	}
	if !(&SaveResult{ScoreSaved: true, SuggestionsSaved: true, BreakdownSaved: true}).OK() {
		t.Error("full save should be OK")
	}
}

func TestSQLiteSaveAndLoad(t *testing.T) {
	s := tempDB(t)
	ctx := context.Background()

	rec := sampleRecord(42, 0.6)
	res, err := s.SaveAnalysis(ctx, rec)
	if err != nil {
		t.Fatalf("SaveAnalysis: %v", err)
	}
	if !res.OK() {
		t.Fatalf("expected all groups saved, got %+v", res)
	}
	if rec.ID == 0 {
		t.Fatal("expected id to be assigned")
	}

	snap, err := s.LatestScore(ctx, 42)
	if err != nil {
		t.Fatalf("LatestScore: %v", err)
	}
	if snap == nil || snap.ID != rec.ID || snap.Score != 0.6 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if !snap.AnalyzedAt.Equal(rec.AnalyzedAt) {
		t.Errorf("expected analyzed_at %v, got %v", rec.AnalyzedAt, snap.AnalyzedAt)
	}

	got, err := s.GetAnalysis(ctx, 42)
	if err != nil {
		t.Fatalf("GetAnalysis: %v", err)
	}
	if got.ScorePercentage != 60 || got.SuggestionCount != 2 || len(got.Suggestions) != 2 {
		t.Errorf("unexpected record %+v", got)
	}
	if string(got.Breakdown) != `{"subject_id":1,"score":0.5}` {
		t.Errorf("unexpected breakdown %s", got.Breakdown)
	}
	if got.ContentHash != "abc123" {
		t.Errorf("expected content hash abc123, got %q", got.ContentHash)
	}
}

func TestSQLiteUpsertKeepsID(t *testing.T) {
	s := tempDB(t)
	ctx := context.Background()

	first := sampleRecord(7, 0.3)
	if _, err := s.SaveAnalysis(ctx, first); err != nil {
		t.Fatalf("first save: %v", err)
	}
	second := sampleRecord(7, 0.9)
	second.Suggestions = nil
	second.SuggestionCount = 0
	if _, err := s.SaveAnalysis(ctx, second); err != nil {
		t.Fatalf("second save: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected upsert to keep id %d, got %d", first.ID, second.ID)
	}

	got, _ := s.GetAnalysis(ctx, 7)
	if got.Score != 0.9 || len(got.Suggestions) != 0 {
		t.Errorf("expected updated row, got %+v", got)
	}
}

func TestSQLiteMissReturnsNil(t *testing.T) {
	s := tempDB(t)
	ctx := context.Background()

	snap, err := s.LatestScore(ctx, 99)
	if err != nil || snap != nil {
		t.Fatalf("expected nil, nil; got %+v, %v", snap, err)
	}
	rec, err := s.GetAnalysis(ctx, 99)
	if err != nil || rec != nil {
		t.Fatalf("expected nil, nil; got %+v, %v", rec, err)
	}
}

func TestSQLiteInvalidBreakdownReportsGroup(t *testing.T) {
	s := tempDB(t)
	rec := sampleRecord(3, 0.5)
	rec.Breakdown = json.RawMessage(`{broken`)

	res, err := s.SaveAnalysis(context.Background(), rec)
	if err == nil {
		t.Fatal("expected breakdown error")
	}
	if !res.ScoreSaved || !res.SuggestionsSaved || res.BreakdownSaved {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestSQLitePartialSaveClearsContentHash(t *testing.T) {
	s := tempDB(t)
	ctx := context.Background()

	old := sampleRecord(5, 0.4)
	old.ContentHash = "h-old"
	old.Breakdown = json.RawMessage(`{"v":"old"}`)
	if _, err := s.SaveAnalysis(ctx, old); err != nil {
		t.Fatalf("first save: %v", err)
	}

	next := sampleRecord(5, 0.8)
	next.ContentHash = "h-new"
	next.Breakdown = json.RawMessage(`{broken`)
	res, err := s.SaveAnalysis(ctx, next)
	if err == nil {
		t.Fatal("expected breakdown error")
	}
	if !res.ScoreSaved || res.BreakdownSaved {
		t.Fatalf("unexpected result %+v", res)
	}

	got, err := s.GetAnalysis(ctx, 5)
	if err != nil {
		t.Fatalf("GetAnalysis: %v", err)
	}
	if got.ContentHash != "" {
		t.Errorf("expected content hash cleared after partial save, got %q", got.ContentHash)
	}
	if string(got.Breakdown) != `{"v":"old"}` {
		t.Errorf("expected previous breakdown to remain, got %s", got.Breakdown)
	}

	// a later full save restores the hash
	next.Breakdown = json.RawMessage(`{"v":"new"}`)
	if _, err := s.SaveAnalysis(ctx, next); err != nil {
		t.Fatalf("retry save: %v", err)
	}
	got, _ = s.GetAnalysis(ctx, 5)
	if got.ContentHash != "h-new" {
		t.Errorf("expected content hash h-new after retry, got %q", got.ContentHash)
	}
}

func TestSQLiteMalformedTimestamp(t *testing.T) {
	s := tempDB(t)
	ctx := context.Background()
	if _, err := s.SaveAnalysis(ctx, sampleRecord(8, 0.5)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE seo_analyses SET analyzed_at = 'yesterday' WHERE subject_id = 8`); err != nil {
		t.Fatalf("corrupt row: %v", err)
	}

	if _, err := s.GetAnalysis(ctx, 8); err == nil {
		t.Error("expected GetAnalysis to fail on a malformed timestamp")
	}
	if _, err := s.LatestScore(ctx, 8); err == nil {
		t.Error("expected LatestScore to fail on a malformed timestamp")
	}
	if _, err := s.ListAnalyses(ctx, AnalysisFilter{}); err == nil {
		t.Error("expected ListAnalyses to fail on a malformed timestamp")
	}
}

func TestSQLiteListAnalyses(t *testing.T) {
	s := tempDB(t)
	ctx := context.Background()
	for i, score := range []float64{0.9, 0.2, 0.5} {
		if _, err := s.SaveAnalysis(ctx, sampleRecord(int64(i+1), score)); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	all, err := s.ListAnalyses(ctx, AnalysisFilter{})
	if err != nil {
		t.Fatalf("ListAnalyses: %v", err)
	}
	if len(all) != 3 || all[0].Score != 0.2 || all[2].Score != 0.9 {
		t.Fatalf("expected lowest first, got %d records", len(all))
	}

	maxScore := 0.5
	low, _ := s.ListAnalyses(ctx, AnalysisFilter{MaxScore: &maxScore})
	if len(low) != 2 {
		t.Errorf("expected 2 records at or below 0.5, got %d", len(low))
	}

	page, _ := s.ListAnalyses(ctx, AnalysisFilter{Limit: 1, Offset: 1})
	if len(page) != 1 || page[0].Score != 0.5 {
		t.Errorf("unexpected page %+v", page)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), "mysql", ""); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestOpenSQLite(t *testing.T) {
	s, err := Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "open.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()
	if _, ok := s.(*SQLiteStore); !ok {
		t.Errorf("expected *SQLiteStore, got %T", s)
	}
}

package hermes

import "time"

// AnalysisRequestEvent asks for one subject to be analyzed. Empty allow-lists
// mean everything.
type AnalysisRequestEvent struct {
	SubjectID  int64    `json:"subject_id"`
	Contexts   []string `json:"contexts,omitempty"`
	Operations []string `json:"operations,omitempty"`
	Force      bool     `json:"force,omitempty"`
	Source     string   `json:"source,omitempty"`
}

type AnalysisCompletedEvent struct {
	RunID           string    `json:"run_id"`
	SubjectID       int64     `json:"subject_id"`
	Score           float64   `json:"score"`
	ScorePercentage int       `json:"score_percentage"`
	Suggestions     []string  `json:"suggestions"`
	ContentHash     string    `json:"content_hash,omitempty"`
	Partial         bool      `json:"partial,omitempty"`
	AnalyzedAt      time.Time `json:"analyzed_at"`
	DurationMs      int64     `json:"duration_ms"`
}

type AnalysisUnchangedEvent struct {
	RunID       string  `json:"run_id"`
	SubjectID   int64   `json:"subject_id"`
	Score       float64 `json:"score"`
	ContentHash string  `json:"content_hash"`
}

type AnalysisInterruptedEvent struct {
	RunID     string `json:"run_id"`
	SubjectID int64  `json:"subject_id"`
	Error     string `json:"error"`
}

type PersistFailedEvent struct {
	RunID     string   `json:"run_id"`
	SubjectID int64    `json:"subject_id"`
	Groups    []string `json:"groups"`
	Error     string   `json:"error"`
}

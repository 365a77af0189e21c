package hermes

import (
	"strings"
	"testing"
)

func TestSubjectsUnderStream(t *testing.T) {
	subjects := []string{
		SubjectAnalysisRequest,
		SubjectAnalysisCompleted("42"),
		SubjectAnalysisUnchanged("42"),
		SubjectAnalysisInterrupted("42"),
		SubjectAnalysisPersistFailed("42"),
	}
	for _, s := range subjects {
		if !strings.HasPrefix(s, "seo.analysis.") {
			t.Errorf("subject %q is not captured by stream %s", s, StreamName)
		}
	}
	if got := SubjectAnalysisCompleted("42"); got != "seo.analysis.42.completed" {
		t.Errorf("got %q", got)
	}
}

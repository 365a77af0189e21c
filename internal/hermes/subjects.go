package hermes

const (
	SubjectAnalysisRequest = "seo.analysis.request"

	StreamName   = "OPTIMISER_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

func SubjectAnalysisCompleted(subjectID string) string {
	return "seo.analysis." + subjectID + ".completed"
}
func SubjectAnalysisUnchanged(subjectID string) string {
	return "seo.analysis." + subjectID + ".unchanged"
}
func SubjectAnalysisInterrupted(subjectID string) string {
	return "seo.analysis." + subjectID + ".interrupted"
}
func SubjectAnalysisPersistFailed(subjectID string) string {
	return "seo.analysis." + subjectID + ".persist_failed"
}

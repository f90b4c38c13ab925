package events

const (
	StreamName    = "TOPSIS_EVENTS"
	StreamMaxAge  = "168h" // 7 days
	SubjectPrefix = "topsis"
)

func SubjectDatasetUploaded(token string) string { return SubjectPrefix + ".dataset." + token + ".uploaded" }
func SubjectDatasetDeleted(token string) string  { return SubjectPrefix + ".dataset." + token + ".deleted" }
func SubjectRunCompleted(token string) string    { return SubjectPrefix + ".run." + token + ".completed" }
func SubjectRunFailed(token string) string       { return SubjectPrefix + ".run." + token + ".failed" }

package constants

// RunStatus is the canonical status for a processed visit report.
type RunStatus string

// Stable values (recorded in run logs and batch CSVs).
const (
	RunStatusSuccess RunStatus = "SUCCESS" // text extracted and fields parsed
	RunStatusNoText  RunStatus = "NO_TEXT" // every extraction stage failed the quality gate
	RunStatusSkipped RunStatus = "SKIPPED" // filtered out (firm filter, month filter)
	RunStatusFailed  RunStatus = "FAILED"  // terminal failure
)

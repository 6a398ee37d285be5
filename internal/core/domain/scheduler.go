package domain

import "time"

// Background task identifiers.
const (
	// TaskIDCronIngest is periodic ingestion on a cron expression.
	TaskIDCronIngest = "cron-ingest"

	// TaskIDWatchIngest is ingestion triggered by new files.
	TaskIDWatchIngest = "watch-ingest"
)

// TaskResult represents the outcome of one background ingestion run.
type TaskResult struct {
	// TaskID identifies which task was run.
	TaskID string

	// StartedAt is when the task started.
	StartedAt time.Time

	// EndedAt is when the task completed.
	EndedAt time.Time

	// Success indicates whether new chunks were stored.
	Success bool

	// Error contains the error message if Success is false.
	Error string
}

// Duration returns how long the run took.
func (r TaskResult) Duration() time.Duration {
	if r.EndedAt.Before(r.StartedAt) {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// ChangeType classifies a filesystem event.
type ChangeType string

// Filesystem change types.
const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// FileChange is a change observed in the unprocessed directory.
type FileChange struct {
	// Path is the full path of the affected file.
	Path string

	// Type is the kind of change.
	Type ChangeType
}

// TriggersIngestion reports whether the change may bring new content.
// Deletions are ignored: ingestion itself moves files out of the directory.
func (c FileChange) TriggersIngestion() bool {
	return c.Type == ChangeCreated || c.Type == ChangeUpdated
}

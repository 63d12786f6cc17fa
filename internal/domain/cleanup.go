package domain

import "time"

// CleanupTask records a storage object that should be removed.
// Tasks are enqueued when a movement is deleted or its video replaced, and
// worked off by a background worker with retries. Persisting them means
// orphaned objects survive a crash between the record write and the removal.
type CleanupTask struct {
	Record
	Object        string    `json:"object"`               // Storage object name to remove
	Attempts      int       `json:"attempts"`             // Removal attempts so far
	LastError     string    `json:"last_error,omitempty"` // Most recent failure, for diagnostics
	NextAttemptAt time.Time `json:"next_attempt_at"`
}

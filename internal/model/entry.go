package model

import "time"

// TimeEntry is a single Toggl time entry as returned by /me/time_entries.
type TimeEntry struct {
	ID          int64      `json:"id"`
	WorkspaceID int64      `json:"workspace_id"`
	ProjectID   *int64     `json:"project_id"`
	Duration    int64      `json:"duration"`
	Description string     `json:"description"`
	Start       time.Time  `json:"start"`
	Stop        *time.Time `json:"stop"`
	Billable    bool       `json:"billable"`
	Tags        []string   `json:"tags"`
}

// Running reports whether the entry is still in progress. Toggl encodes a
// running entry's duration as -1 * (Unix start time).
func (e TimeEntry) Running() bool {
	return e.Duration < 0
}

// Elapsed returns the tracked seconds of the entry, measuring running
// entries against now.
func (e TimeEntry) Elapsed(now time.Time) int64 {
	if e.Running() {
		return now.Unix() + e.Duration
	}
	return e.Duration
}

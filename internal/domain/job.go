package domain

import "time"

// JobStatus enumerates job lifecycle states.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether no further transition is allowed from s.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// CanTransition reports whether moving from s to next is a legal lifecycle
// step. Checkpoint writes during processing count as processing→processing.
func (s JobStatus) CanTransition(next JobStatus) bool {
	switch s {
	case JobStatusPending:
		return next == JobStatusQueued
	case JobStatusQueued:
		return next == JobStatusProcessing
	case JobStatusProcessing:
		return next == JobStatusProcessing || next == JobStatusCompleted || next == JobStatusFailed
	default:
		return false
	}
}

// Preferences carries the optional user inputs collected at scan time.
// Empty fields mean "no preference".
type Preferences struct {
	Gender      string
	Length      string
	Maintenance string
}

// Job encapsulates the lifecycle of one hairstyle recommendation run.
type Job struct {
	ID           string
	Status       JobStatus
	Progress     int
	ErrorMessage string
	Preferences  Preferences
	UploadKey    string
	ResultsKey   string
	HeadShape    HeadShape
	Results      []StyleResult
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
}

package domain

import (
	"fmt"
	"time"
)

type JobState string

const (
	StateQueued      JobState = "queued"
	StateDownloading JobState = "downloading"
	StateComplete    JobState = "complete"
	StateFailed      JobState = "failed"
)

func (s JobState) IsTerminal() bool {
	return s == StateComplete || s == StateFailed
}

// allowed lists legal transitions. queued -> complete is the dedup
// short-circuit and queued -> failed covers admission failures; neither
// spawns a process.
var allowed = map[JobState][]JobState{
	StateQueued:      {StateDownloading, StateComplete, StateFailed},
	StateDownloading: {StateComplete, StateFailed},
}

// Job is the runtime wrapper around a Track as it moves through the queue.
// The queue manager serializes all access to its fields.
type Job struct {
	ID    string
	Track *Track
	State JobState

	Progress float64
	FilePath string
	FileName string
	Error    string

	CreatedAt  time.Time
	StartedAt  time.Time
	FinishedAt time.Time
}

func NewJob(id string, track *Track) *Job {
	return &Job{
		ID:        id,
		Track:     track,
		State:     StateQueued,
		CreatedAt: time.Now(),
	}
}

// Transition moves the job to the next state, rejecting anything the
// lifecycle does not allow.
func (j *Job) Transition(to JobState) error {
	for _, next := range allowed[j.State] {
		if next == to {
			j.State = to
			switch {
			case to == StateDownloading:
				j.StartedAt = time.Now()
			case to.IsTerminal():
				j.FinishedAt = time.Now()
			}
			return nil
		}
	}
	return fmt.Errorf("job %s: illegal transition %s -> %s", j.ID, j.State, to)
}

// SetProgress records a percentage, clamped to [0,100]. Only meaningful
// while downloading.
func (j *Job) SetProgress(pct float64) float64 {
	switch {
	case pct < 0:
		pct = 0
	case pct > 100:
		pct = 100
	}
	if j.State == StateDownloading {
		j.Progress = pct
	}
	return pct
}

// JobSnapshot is a read-only copy of a Job handed to API callers.
type JobSnapshot struct {
	ID         string    `json:"id"`
	Track      *Track    `json:"track"`
	State      JobState  `json:"status"`
	Progress   float64   `json:"progress"`
	FilePath   string    `json:"filePath,omitempty"`
	FileName   string    `json:"fileName,omitempty"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	StartedAt  time.Time `json:"startedAt,omitzero"`
	FinishedAt time.Time `json:"finishedAt,omitzero"`
}

func (j *Job) Snapshot() JobSnapshot {
	return JobSnapshot{
		ID:         j.ID,
		Track:      j.Track,
		State:      j.State,
		Progress:   j.Progress,
		FilePath:   j.FilePath,
		FileName:   j.FileName,
		Error:      j.Error,
		CreatedAt:  j.CreatedAt,
		StartedAt:  j.StartedAt,
		FinishedAt: j.FinishedAt,
	}
}

// QueueStats summarizes the queue for health reporting.
type QueueStats struct {
	Queued        int `json:"queued"`
	Active        int `json:"active"`
	MaxConcurrent int `json:"maxConcurrent"`
}

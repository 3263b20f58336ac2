package events

import "github.com/jacktracker/jacktracker/internal/domain"

const (
	TypeQueueUpdate = "queue-update"
	TypeProgress    = "progress"
	TypeComplete    = "complete"
	TypeError       = "error"
)

// Event is anything the hub can fan out. Implementations marshal to the
// wire shape observers receive.
type Event interface {
	EventType() string
}

type QueueUpdate struct {
	Type   string          `json:"type"`
	Tracks []*domain.Track `json:"tracks"`
}

func NewQueueUpdate(tracks []*domain.Track) QueueUpdate {
	return QueueUpdate{Type: TypeQueueUpdate, Tracks: tracks}
}

func (QueueUpdate) EventType() string { return TypeQueueUpdate }

type Progress struct {
	Type     string  `json:"type"`
	TrackID  string  `json:"trackId"`
	Progress float64 `json:"progress"`
}

func NewProgress(trackID string, pct float64) Progress {
	return Progress{Type: TypeProgress, TrackID: trackID, Progress: pct}
}

func (Progress) EventType() string { return TypeProgress }

// CompletedTrack is the track descriptor plus where the file can be fetched.
type CompletedTrack struct {
	*domain.Track
	FilePath string `json:"filePath"`
	FileName string `json:"fileName"`
}

type Complete struct {
	Type  string         `json:"type"`
	Track CompletedTrack `json:"track"`

	// JobID is for in-process observers only.
	JobID string `json:"-"`
}

func NewComplete(jobID string, track *domain.Track, urlPath, fileName string) Complete {
	return Complete{
		Type:  TypeComplete,
		Track: CompletedTrack{Track: track, FilePath: urlPath, FileName: fileName},
		JobID: jobID,
	}
}

func (Complete) EventType() string { return TypeComplete }

// Failure is sent as {"type":"error"}. TrackID is nil for submission
// failures, which never reach the hub; they go straight to the requester.
type Failure struct {
	Type    string  `json:"type"`
	TrackID *string `json:"trackId"`
	Message string  `json:"message"`

	Track *domain.Track `json:"-"`
	JobID string        `json:"-"`
}

func NewJobFailure(jobID string, track *domain.Track, message string) Failure {
	id := track.ID
	return Failure{
		Type:    TypeError,
		TrackID: &id,
		Message: message,
		Track:   track,
		JobID:   jobID,
	}
}

func NewSubmissionFailure(message string) Failure {
	return Failure{Type: TypeError, Message: message}
}

func (Failure) EventType() string { return TypeError }

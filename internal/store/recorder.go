package store

import (
	"context"
	"errors"
	"time"

	"github.com/jacktracker/jacktracker/internal/domain"
	"github.com/jacktracker/jacktracker/internal/events"
	"github.com/jacktracker/jacktracker/internal/infra/logger"
)

const (
	recorderID     = "history-recorder"
	drainTimeout   = 5 * time.Second
	recorderBuffer = 256
)

var errRecorderFull = errors.New("history buffer full")

type historyWriter interface {
	SaveHistory(ctx context.Context, entry domain.HistoryEntry) error
}

// Recorder is an in-process observer that writes every terminal job event
// to the history table. Notify only enqueues; Run does the writes.
type Recorder struct {
	store   historyWriter
	entries chan domain.HistoryEntry
	logger  *logger.Logger
}

func NewRecorder(store historyWriter, log *logger.Logger) *Recorder {
	return &Recorder{
		store:   store,
		entries: make(chan domain.HistoryEntry, recorderBuffer),
		logger:  log.WithPrefix("history"),
	}
}

func (r *Recorder) ID() string { return recorderID }

func (r *Recorder) Notify(ev events.Event) error {
	entry, ok := historyFromEvent(ev)
	if !ok {
		return nil
	}

	select {
	case r.entries <- entry:
		return nil
	default:
		return errRecorderFull
	}
}

// Run writes entries until ctx is done, then flushes what is still buffered.
func (r *Recorder) Run(ctx context.Context) {
	for {
		select {
		case entry := <-r.entries:
			r.save(ctx, entry)
		case <-ctx.Done():
			r.drain()
			return
		}
	}
}

func (r *Recorder) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	for {
		select {
		case entry := <-r.entries:
			r.save(ctx, entry)
		default:
			return
		}
	}
}

func (r *Recorder) save(ctx context.Context, entry domain.HistoryEntry) {
	if err := r.store.SaveHistory(ctx, entry); err != nil {
		r.logger.Error("%v", err)
	}
}

// historyFromEvent keeps only per-job terminal events. Submission failures
// carry no track and are skipped.
func historyFromEvent(ev events.Event) (domain.HistoryEntry, bool) {
	switch e := ev.(type) {
	case events.Complete:
		entry := entryForTrack(e.JobID, e.Track.Track, domain.StateComplete)
		entry.FilePath = e.Track.FilePath
		entry.FileName = e.Track.FileName
		return entry, true
	case events.Failure:
		if e.Track == nil {
			return domain.HistoryEntry{}, false
		}
		entry := entryForTrack(e.JobID, e.Track, domain.StateFailed)
		entry.Error = e.Message
		return entry, true
	default:
		return domain.HistoryEntry{}, false
	}
}

func entryForTrack(jobID string, t *domain.Track, state domain.JobState) domain.HistoryEntry {
	return domain.HistoryEntry{
		JobID:      jobID,
		TrackID:    t.ID,
		TrackName:  t.TrackName,
		ArtistName: t.ArtistName,
		AlbumName:  t.AlbumName,
		SourceURL:  t.SourceURL,
		Kind:       t.Kind,
		State:      state,
		FinishedAt: time.Now(),
	}
}

package store

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/jacktracker/jacktracker/internal/domain"
	"github.com/jacktracker/jacktracker/internal/events"
	"github.com/jacktracker/jacktracker/internal/infra/logger"
)

func TestRecorderPersistsTerminalEvents(t *testing.T) {
	s := newTestStore(t)
	rec := NewRecorder(s, logger.NewWithWriter(io.Discard, logger.LevelDebug))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rec.Run(ctx)
		close(done)
	}()

	ok := &domain.Track{ID: "t1", TrackName: "Song", ArtistName: "Artist", Kind: domain.KindSpotDL}
	bad := &domain.Track{ID: "t2", TrackName: "Other", Kind: domain.KindYtDlp}

	for _, ev := range []events.Event{
		events.NewQueueUpdate([]*domain.Track{ok, bad}),
		events.NewProgress("t1", 50),
		events.NewComplete("j1", ok, "/downloads/Artist%20-%20Song.mp3", "Artist - Song.mp3"),
		events.NewJobFailure("j2", bad, "download failed with exit code 1"),
		events.NewSubmissionFailure("Invalid URL. Please provide a Spotify or YouTube link."),
	} {
		if err := rec.Notify(ev); err != nil {
			t.Fatalf("Notify(%s): %v", ev.EventType(), err)
		}
	}

	cancel()
	<-done

	got, err := s.ListHistory(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d history entries, want 2", len(got))
	}

	byJob := map[string]domain.HistoryEntry{}
	for _, h := range got {
		byJob[h.JobID] = h
	}
	if h := byJob["j1"]; h.State != domain.StateComplete || h.FileName != "Artist - Song.mp3" || h.TrackID != "t1" {
		t.Errorf("j1 = %+v", h)
	}
	if h := byJob["j2"]; h.State != domain.StateFailed || h.Error != "download failed with exit code 1" {
		t.Errorf("j2 = %+v", h)
	}
	if time.Since(byJob["j1"].FinishedAt) > time.Minute {
		t.Errorf("finishedAt = %v", byJob["j1"].FinishedAt)
	}
}

func TestRecorderDropsWhenFull(t *testing.T) {
	rec := NewRecorder(nil, logger.NewWithWriter(io.Discard, logger.LevelDebug))
	track := &domain.Track{ID: "t", Kind: domain.KindSpotDL}

	for i := 0; i < recorderBuffer; i++ {
		if err := rec.Notify(events.NewComplete("j", track, "/x", "x")); err != nil {
			t.Fatalf("Notify %d: %v", i, err)
		}
	}
	if err := rec.Notify(events.NewComplete("j", track, "/x", "x")); err != errRecorderFull {
		t.Fatalf("err = %v, want errRecorderFull", err)
	}
}

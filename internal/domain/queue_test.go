package domain

import "testing"

func TestJobTransitions(t *testing.T) {
	tests := []struct {
		name  string
		path  []JobState
		valid bool
	}{
		{"download then complete", []JobState{StateDownloading, StateComplete}, true},
		{"download then fail", []JobState{StateDownloading, StateFailed}, true},
		{"dedup short-circuit", []JobState{StateComplete}, true},
		{"admission failure", []JobState{StateFailed}, true},
		{"leave complete", []JobState{StateComplete, StateDownloading}, false},
		{"leave failed", []JobState{StateDownloading, StateFailed, StateComplete}, false},
		{"back to queued", []JobState{StateDownloading, StateQueued}, false},
		{"download twice", []JobState{StateDownloading, StateDownloading}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := NewJob("job-1", &Track{ID: "t1"})
			var err error
			for _, to := range tt.path {
				before := job.State
				if err = job.Transition(to); err != nil {
					if job.State != before {
						t.Fatalf("failed transition changed state from %s to %s", before, job.State)
					}
					break
				}
			}
			if tt.valid && err != nil {
				t.Fatalf("expected valid path, got %v", err)
			}
			if !tt.valid && err == nil {
				t.Fatalf("expected illegal transition along %v", tt.path)
			}
		})
	}
}

func TestJobTimestamps(t *testing.T) {
	job := NewJob("job-1", &Track{ID: "t1"})
	if job.State != StateQueued {
		t.Fatalf("expected new job to be queued, got %s", job.State)
	}
	if err := job.Transition(StateDownloading); err != nil {
		t.Fatal(err)
	}
	if job.StartedAt.IsZero() {
		t.Error("expected StartedAt to be set on downloading")
	}
	if err := job.Transition(StateComplete); err != nil {
		t.Fatal(err)
	}
	if job.FinishedAt.IsZero() {
		t.Error("expected FinishedAt to be set on terminal state")
	}
}

func TestSetProgressClamps(t *testing.T) {
	job := NewJob("job-1", &Track{ID: "t1"})

	if got := job.SetProgress(40); got != 40 || job.Progress != 0 {
		t.Fatalf("queued job should not record progress, got %v stored %v", got, job.Progress)
	}

	_ = job.Transition(StateDownloading)
	cases := map[float64]float64{-5: 0, 12.5: 12.5, 100: 100, 250: 100}
	for in, want := range cases {
		if got := job.SetProgress(in); got != want {
			t.Errorf("SetProgress(%v) = %v, want %v", in, got, want)
		}
		if job.Progress != want {
			t.Errorf("stored progress %v, want %v", job.Progress, want)
		}
	}
}

func TestTrackPosition(t *testing.T) {
	tr := &Track{}
	if tr.Position() != 0 {
		t.Fatalf("expected 0 for unset position")
	}
	idx := 7
	tr.PlaylistIndex = &idx
	if tr.Position() != 7 {
		t.Fatalf("expected 7, got %d", tr.Position())
	}
}

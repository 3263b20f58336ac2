package processor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jacktracker/jacktracker/internal/domain"
)

func intPtr(i int) *int { return &i }

func TestFileName(t *testing.T) {
	tests := []struct {
		name  string
		track domain.Track
		want  string
	}{
		{
			name:  "yt-dlp playlist entry is numbered",
			track: domain.Track{ID: "a", TrackName: "Intro", ArtistName: "Band", Kind: domain.KindYtDlp, PlaylistIndex: intPtr(1)},
			want:  "01 - Intro.mp3",
		},
		{
			name:  "yt-dlp double digit position",
			track: domain.Track{ID: "a", TrackName: "Outro", Kind: domain.KindYtDlp, PlaylistIndex: intPtr(12)},
			want:  "12 - Outro.mp3",
		},
		{
			name:  "yt-dlp single video uses artist",
			track: domain.Track{ID: "a", TrackName: "Song", ArtistName: "Uploader", Kind: domain.KindYtDlp},
			want:  "Uploader - Song.mp3",
		},
		{
			name:  "spotdl ignores position",
			track: domain.Track{ID: "a", TrackName: "Song", ArtistName: "Artist", Kind: domain.KindSpotDL, PlaylistIndex: intPtr(3)},
			want:  "Artist - Song.mp3",
		},
		{
			name:  "reserved characters are replaced",
			track: domain.Track{ID: "a", TrackName: "What?", ArtistName: "AC/DC", Kind: domain.KindSpotDL},
			want:  "AC_DC - What_.mp3",
		},
		{
			name:  "empty names fall back",
			track: domain.Track{ID: "abc123", Kind: domain.KindSpotDL},
			want:  "Unknown Artist - abc123.mp3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FileName(&tt.track); got != tt.want {
				t.Fatalf("FileName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlan(t *testing.T) {
	out := t.TempDir()
	p := New(out, "/downloads")

	target := p.Plan(&domain.Track{
		ID:          "x",
		TrackName:   "Song #1",
		ArtistName:  "Artist",
		Kind:        domain.KindSpotDL,
		DownloadDir: " ../My:Mix. ",
	})

	if target.Dir != filepath.Join(out, "_My_Mix") {
		t.Errorf("unexpected dir %q", target.Dir)
	}
	if target.FileName != "Artist - Song #1.mp3" {
		t.Errorf("unexpected file name %q", target.FileName)
	}
	if target.FullPath != filepath.Join(out, "_My_Mix", "Artist - Song #1.mp3") {
		t.Errorf("unexpected full path %q", target.FullPath)
	}
	if target.URLPath != "/downloads/_My_Mix/Artist%20-%20Song%20%231.mp3" {
		t.Errorf("unexpected url path %q", target.URLPath)
	}
}

func TestPlanWithoutSubdir(t *testing.T) {
	out := t.TempDir()
	p := New(out, "/downloads")

	target := p.Plan(&domain.Track{ID: "x", TrackName: "Song", ArtistName: "Artist", Kind: domain.KindSpotDL, DownloadDir: " .. "})
	if target.Dir != out {
		t.Errorf("blank sanitized subdir should mean no subdirectory, got %q", target.Dir)
	}
	if target.URLPath != "/downloads/Artist%20-%20Song.mp3" {
		t.Errorf("unexpected url path %q", target.URLPath)
	}
}

func TestPrepare(t *testing.T) {
	out := t.TempDir()
	p := New(out, "/downloads")
	target := p.Plan(&domain.Track{ID: "x", TrackName: "Song", ArtistName: "Artist", Kind: domain.KindSpotDL, DownloadDir: "Mix"})

	exists, err := p.Prepare(target)
	if err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	if exists {
		t.Fatal("expected no existing file")
	}
	if info, err := os.Stat(target.Dir); err != nil || !info.IsDir() {
		t.Fatalf("expected Prepare to create %s: %v", target.Dir, err)
	}

	if err := os.WriteFile(target.FullPath, []byte("mp3"), 0o644); err != nil {
		t.Fatal(err)
	}
	exists, err = p.Prepare(target)
	if err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected existing file to be detected")
	}
}

func TestPrepareFailsWhenDirIsAFile(t *testing.T) {
	out := t.TempDir()
	if err := os.WriteFile(filepath.Join(out, "Mix"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	p := New(out, "/downloads")
	target := p.Plan(&domain.Track{ID: "x", TrackName: "Song", ArtistName: "Artist", Kind: domain.KindSpotDL, DownloadDir: "Mix"})

	if _, err := p.Prepare(target); err == nil {
		t.Fatal("expected error when the download dir is a regular file")
	}
}

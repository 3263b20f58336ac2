package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jacktracker/jacktracker/internal/app"
	"github.com/jacktracker/jacktracker/internal/domain"
	"github.com/jacktracker/jacktracker/internal/infra/config"
	"github.com/jacktracker/jacktracker/internal/infra/logger"
	"github.com/jacktracker/jacktracker/internal/platform"
)

// Downloader runs one external fetch process per track.
type Downloader struct {
	runner platform.Runner
	tools  config.ToolsConfig
	logger *logger.Logger
}

func NewDownloader(app *app.Context, runner platform.Runner) *Downloader {
	return &Downloader{
		runner: runner,
		tools:  app.Config.Tools,
		logger: app.Logger.WithPrefix("downloader"),
	}
}

// Fetch downloads track to destPath, reporting progress parsed from the
// tool's stdout. It succeeds only when the tool exits cleanly and the file
// is actually on disk.
func (d *Downloader) Fetch(ctx context.Context, track *domain.Track, destPath string, onProgress func(float64)) error {
	bin, args, err := d.command(track, destPath)
	if err != nil {
		return err
	}

	start := time.Now()
	d.logger.Info("Starting %s for %q -> %s", bin, track.TrackName, destPath)

	onStdout := func(line string) {
		if pct, ok := ParseProgress(line); ok && onProgress != nil {
			onProgress(pct)
		}
	}
	onStderr := func(line string) {
		d.logger.Debug("[%s %s] %s", bin, track.ID, line)
	}

	if err := d.runner.Stream(ctx, bin, args, onStdout, onStderr); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: interrupted: %v", domain.ErrDownloadFailed, ctx.Err())
		}
		if code := platform.ExitCode(err); code >= 0 {
			return fmt.Errorf("%w with exit code %d", domain.ErrDownloadFailed, code)
		}
		return fmt.Errorf("%w: could not run %s: %v", domain.ErrDownloadFailed, bin, err)
	}

	if _, err := os.Stat(destPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s exited cleanly but produced no output file", domain.ErrDownloadFailed, bin)
		}
		return fmt.Errorf("%w: %v", domain.ErrDownloadFailed, err)
	}

	d.logger.Info("Finished %q in %s", track.TrackName, logger.Since(start))
	return nil
}

// command builds the argv for the track's tool. Unknown kinds are rejected
// before anything is spawned.
func (d *Downloader) command(track *domain.Track, destPath string) (string, []string, error) {
	switch track.Kind {
	case domain.KindSpotDL:
		return d.tools.SpotDL, []string{
			"download", track.SourceURL,
			"--format", "mp3",
			"--bitrate", "320k",
			"--output", destPath,
		}, nil
	case domain.KindYtDlp:
		return d.tools.YtDlp, []string{
			"-x",
			"--audio-format", "mp3",
			"--audio-quality", "0",
			"--embed-thumbnail",
			"-o", ytdlpTemplate(destPath),
			track.SourceURL,
		}, nil
	default:
		return "", nil, fmt.Errorf("%w: unknown downloader %q for track %s", domain.ErrConfiguration, track.Kind, track.ID)
	}
}

// ytdlpTemplate turns "/dir/01 - Song.mp3" into "/dir/01 - Song.%(ext)s".
// yt-dlp substitutes the post-processed extension, so the result lands on
// destPath. Literal '%' in the name must be doubled.
func ytdlpTemplate(destPath string) string {
	dir, name := filepath.Split(destPath)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	stem = strings.ReplaceAll(stem, "%", "%%")
	return filepath.Join(dir, stem) + ".%(ext)s"
}

package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"strings"

	"github.com/jacktracker/jacktracker/internal/domain"
	"github.com/jacktracker/jacktracker/internal/infra/config"
	"github.com/jacktracker/jacktracker/internal/infra/logger"
	"github.com/jacktracker/jacktracker/internal/platform"
	"github.com/segmentio/ksuid"
)

const (
	unknownArtist = "Unknown Artist"
	unknownAlbum  = "Unknown Album"
)

var (
	spotifyHosts = []string{"spotify.com"}
	youtubeHosts = []string{"youtube.com", "youtu.be"}
)

// Resolver turns a user supplied link into track descriptors by running the
// matching metadata tool.
type Resolver struct {
	runner platform.Runner
	tools  config.ToolsConfig
	logger *logger.Logger
}

func New(runner platform.Runner, tools config.ToolsConfig, log *logger.Logger) *Resolver {
	return &Resolver{
		runner: runner,
		tools:  tools,
		logger: log.WithPrefix("resolver"),
	}
}

// Classify picks the tool family for rawURL from its host. The scheme is
// optional. Unknown hosts yield ErrInvalidInput.
func Classify(rawURL string) (domain.ResolverKind, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty url", domain.ErrInvalidInput)
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	host := strings.ToLower(u.Hostname())
	switch {
	case matchHost(host, spotifyHosts):
		return domain.KindSpotDL, nil
	case matchHost(host, youtubeHosts):
		return domain.KindYtDlp, nil
	default:
		return "", fmt.Errorf("%w: unsupported host %q", domain.ErrInvalidInput, host)
	}
}

func matchHost(host string, domains []string) bool {
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// Resolve runs the metadata tool for rawURL and returns the tracks in the
// order the tool listed them. Every track carries downloadDir unchanged;
// sanitizing it is the planner's job.
func (r *Resolver) Resolve(ctx context.Context, rawURL, downloadDir string) ([]*domain.Track, error) {
	kind, err := Classify(rawURL)
	if err != nil {
		return nil, err
	}

	var (
		bin   string
		args  []string
		parse func([]byte) ([]*domain.Track, error)
	)
	switch kind {
	case domain.KindSpotDL:
		bin, args, parse = r.tools.SpotDL, []string{"meta", rawURL}, r.parseSpotDL
	case domain.KindYtDlp:
		bin, args, parse = r.tools.YtDlp, []string{"-j", "--flat-playlist", rawURL}, parseYtDlp
	}

	r.logger.Debug("Resolving %s with %s", rawURL, bin)
	stdout, stderr, runErr := r.runner.Output(ctx, bin, args...)
	var exitErr *exec.ExitError
	if runErr != nil && !errors.As(runErr, &exitErr) {
		return nil, fmt.Errorf("%w: could not run %s: %v", domain.ErrResolutionFailed, bin, runErr)
	}

	tracks, err := parse(stdout)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 && exitErr != nil && !exitErr.Exited() {
		return nil, fmt.Errorf("%w: %s was terminated (%v). stderr: %s",
			domain.ErrResolutionFailed, bin, exitErr, strings.TrimSpace(string(stderr)))
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: %s returned no valid track data. stderr: %s",
			domain.ErrResolutionFailed, bin, strings.TrimSpace(string(stderr)))
	}

	if runErr != nil {
		// yt-dlp exits nonzero when some playlist entries are unavailable
		r.logger.Warn("%s exited with %v but produced %d records: %s",
			bin, exitErr, len(tracks), strings.TrimSpace(string(stderr)))
	}

	numbered := len(tracks) > 1
	for i, t := range tracks {
		t.Kind = kind
		t.DownloadDir = downloadDir
		if t.ID == "" {
			t.ID = ksuid.New().String()
		}
		if numbered {
			pos := i + 1
			t.PlaylistIndex = &pos
		}
	}

	r.logger.Info("Resolved %s to %d track(s)", rawURL, len(tracks))
	return tracks, nil
}

// nonBlankLines splits tool output into trimmed, non-empty lines.
func nonBlankLines(out []byte) []string {
	var lines []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

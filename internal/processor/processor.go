package processor

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/jacktracker/jacktracker/internal/domain"
)

const (
	audioExt      = ".mp3"
	unknownArtist = "Unknown Artist"
)

// Processor decides where each track lands on disk.
type Processor struct {
	outDir string
	route  string
}

// New creates a Processor writing under outDir and publishing files under
// route (for example "/downloads").
func New(outDir, route string) *Processor {
	return &Processor{outDir: outDir, route: route}
}

// Plan computes the destination of a track without touching the filesystem.
func (p *Processor) Plan(track *domain.Track) domain.Target {
	subDir := SanitizeName(track.DownloadDir)
	fileName := FileName(track)

	urlPath := p.route
	if subDir != "" {
		urlPath = path.Join(urlPath, url.PathEscape(subDir))
	}
	urlPath = path.Join(urlPath, url.PathEscape(fileName))

	dir := filepath.Join(p.outDir, subDir)
	return domain.Target{
		Dir:      dir,
		FileName: fileName,
		FullPath: filepath.Join(dir, fileName),
		URLPath:  urlPath,
	}
}

// Prepare creates the destination directory and reports whether the target
// file already exists, in which case no download is needed.
func (p *Processor) Prepare(target domain.Target) (bool, error) {
	if err := os.MkdirAll(target.Dir, 0755); err != nil {
		return false, fmt.Errorf("failed to create download dir %s: %w", target.Dir, err)
	}

	exists, err := fileExists(target.FullPath)
	if err != nil {
		return false, fmt.Errorf("failed to inspect %s: %w", target.FullPath, err)
	}
	return exists, nil
}

// FileName builds the on-disk name. yt-dlp playlist entries are numbered to
// keep their order; everything else is "Artist - Track".
func FileName(track *domain.Track) string {
	name := SanitizeName(track.TrackName)
	if name == "" {
		name = SanitizeName(track.ID)
	}

	if track.Kind == domain.KindYtDlp && track.Position() > 0 {
		return fmt.Sprintf("%02d - %s%s", track.Position(), name, audioExt)
	}

	artist := SanitizeName(track.ArtistName)
	if artist == "" {
		artist = unknownArtist
	}
	return fmt.Sprintf("%s - %s%s", artist, name, audioExt)
}

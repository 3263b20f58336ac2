package resolver

import (
	"encoding/json"
	"fmt"

	"github.com/jacktracker/jacktracker/internal/domain"
)

type ytdlpThumbnail struct {
	URL string `json:"url"`
}

type ytdlpRecord struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	Uploader   string           `json:"uploader"`
	Channel    string           `json:"channel"`
	Album      string           `json:"album"`
	Thumbnail  string           `json:"thumbnail"`
	Thumbnails []ytdlpThumbnail `json:"thumbnails"`
	WebpageURL string           `json:"webpage_url"`
	URL        string           `json:"url"`
}

// parseYtDlp expects one JSON object per line. Unlike spotdl, yt-dlp -j
// prints nothing else on stdout, so a bad line means the whole result is
// untrustworthy.
func parseYtDlp(out []byte) ([]*domain.Track, error) {
	var tracks []*domain.Track
	for i, line := range nonBlankLines(out) {
		var rec ytdlpRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("%w: malformed yt-dlp record on line %d: %v", domain.ErrResolutionFailed, i+1, err)
		}
		tracks = append(tracks, rec.toTrack())
	}
	return tracks, nil
}

func (rec ytdlpRecord) toTrack() *domain.Track {
	return &domain.Track{
		ID:          rec.ID,
		TrackName:   rec.Title,
		ArtistName:  firstNonEmpty(rec.Uploader, rec.Channel, unknownArtist),
		AlbumName:   firstNonEmpty(rec.Album, unknownAlbum),
		AlbumArtURL: rec.artURL(),
		SourceURL:   firstNonEmpty(rec.WebpageURL, rec.URL),
	}
}

// artURL prefers the single thumbnail field; flat playlist entries only
// carry the thumbnails list, largest last.
func (rec ytdlpRecord) artURL() string {
	if rec.Thumbnail != "" {
		return rec.Thumbnail
	}
	for i := len(rec.Thumbnails) - 1; i >= 0; i-- {
		if rec.Thumbnails[i].URL != "" {
			return rec.Thumbnails[i].URL
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

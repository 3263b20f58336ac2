package resolver

import (
	"encoding/json"
	"strings"

	"github.com/jacktracker/jacktracker/internal/domain"
)

type spotdlRecord struct {
	SongID    string   `json:"song_id"`
	Name      string   `json:"name"`
	Artists   []string `json:"artists"`
	AlbumName string   `json:"album_name"`
	CoverURL  string   `json:"cover_url"`
	URL       string   `json:"url"`
}

// parseSpotDL keeps only lines that look like JSON objects. spotdl mixes
// progress chatter into stdout, so anything that fails to decode is skipped.
func (r *Resolver) parseSpotDL(out []byte) ([]*domain.Track, error) {
	var tracks []*domain.Track
	for _, line := range nonBlankLines(out) {
		if !strings.HasPrefix(line, "{") || !strings.HasSuffix(line, "}") {
			continue
		}

		var rec spotdlRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			r.logger.Debug("Skipping malformed spotdl record: %v", err)
			continue
		}

		tracks = append(tracks, &domain.Track{
			ID:          rec.SongID,
			TrackName:   rec.Name,
			ArtistName:  strings.Join(rec.Artists, ", "),
			AlbumName:   rec.AlbumName,
			AlbumArtURL: rec.CoverURL,
			SourceURL:   rec.URL,
		})
	}
	return tracks, nil
}

package domain

// ResolverKind selects which external tool family handles a track.
type ResolverKind string

const (
	// KindSpotDL covers Spotify links, resolved and fetched by spotdl.
	KindSpotDL ResolverKind = "spotdl"
	// KindYtDlp covers YouTube links, resolved and fetched by yt-dlp.
	KindYtDlp ResolverKind = "yt-dlp"
)

func (k ResolverKind) Valid() bool {
	return k == KindSpotDL || k == KindYtDlp
}

// Track describes one downloadable audio item. It is never mutated after the
// resolver creates it; runtime state lives on Job.
type Track struct {
	ID          string       `json:"id"`
	TrackName   string       `json:"trackName"`
	ArtistName  string       `json:"artistName"`
	AlbumName   string       `json:"albumName"`
	AlbumArtURL string       `json:"albumArtUrl"`
	SourceURL   string       `json:"url"`
	Kind        ResolverKind `json:"downloader"`
	DownloadDir string       `json:"downloadDir"`

	// PlaylistIndex is 1-based and only set when the source yielded more than one track.
	PlaylistIndex *int `json:"playlistIndex,omitempty"`
}

// Position returns the playlist position, or 0 when the track has none.
func (t *Track) Position() int {
	if t.PlaylistIndex == nil {
		return 0
	}
	return *t.PlaylistIndex
}

// Target is where a track ends up on disk and how observers can fetch it.
type Target struct {
	Dir      string // absolute or out_dir-relative directory
	FileName string
	FullPath string
	URLPath  string // path under the downloads route, segments escaped
}

package domain

import "time"

// HistoryEntry records the outcome of one finished job.
type HistoryEntry struct {
	JobID      string       `json:"jobId"`
	TrackID    string       `json:"trackId"`
	TrackName  string       `json:"trackName"`
	ArtistName string       `json:"artistName"`
	AlbumName  string       `json:"albumName"`
	SourceURL  string       `json:"url"`
	Kind       ResolverKind `json:"downloader"`
	State      JobState     `json:"status"`
	FilePath   string       `json:"filePath,omitempty"`
	FileName   string       `json:"fileName,omitempty"`
	Error      string       `json:"error,omitempty"`
	FinishedAt time.Time    `json:"finishedAt"`
}

package store

import (
	"database/sql"
	"time"

	"github.com/jacktracker/jacktracker/internal/domain"
)

// historyDBO maps to the history table
type historyDBO struct {
	JobID      string         `db:"job_id"`
	TrackID    string         `db:"track_id"`
	TrackName  string         `db:"track_name"`
	ArtistName string         `db:"artist_name"`
	AlbumName  string         `db:"album_name"`
	SourceURL  string         `db:"source_url"`
	Downloader string         `db:"downloader"`
	Status     string         `db:"status"`
	FilePath   sql.NullString `db:"file_path"`
	FileName   sql.NullString `db:"file_name"`
	Error      sql.NullString `db:"error"`
	FinishedAt int64          `db:"finished_at"`
}

// Mapper: DBO to Domain HistoryEntry
func (h *historyDBO) ToDomain() domain.HistoryEntry {
	return domain.HistoryEntry{
		JobID:      h.JobID,
		TrackID:    h.TrackID,
		TrackName:  h.TrackName,
		ArtistName: h.ArtistName,
		AlbumName:  h.AlbumName,
		SourceURL:  h.SourceURL,
		Kind:       domain.ResolverKind(h.Downloader),
		State:      domain.JobState(h.Status),
		FilePath:   h.FilePath.String,
		FileName:   h.FileName.String,
		Error:      h.Error.String,
		FinishedAt: time.Unix(h.FinishedAt, 0),
	}
}

// Mapper: Domain HistoryEntry to DBO
func (h *historyDBO) FromDomain(e domain.HistoryEntry) {
	h.JobID = e.JobID
	h.TrackID = e.TrackID
	h.TrackName = e.TrackName
	h.ArtistName = e.ArtistName
	h.AlbumName = e.AlbumName
	h.SourceURL = e.SourceURL
	h.Downloader = string(e.Kind)
	h.Status = string(e.State)
	h.FilePath = sql.NullString{String: e.FilePath, Valid: e.FilePath != ""}
	h.FileName = sql.NullString{String: e.FileName, Valid: e.FileName != ""}
	h.Error = sql.NullString{String: e.Error, Valid: e.Error != ""}

	if !e.FinishedAt.IsZero() {
		h.FinishedAt = e.FinishedAt.Unix()
	} else {
		h.FinishedAt = time.Now().Unix()
	}
}

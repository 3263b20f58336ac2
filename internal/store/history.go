package store

import (
	"context"
	"fmt"

	"github.com/jacktracker/jacktracker/internal/domain"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// SaveHistory upserts the outcome of one job.
func (s *PersistentStore) SaveHistory(ctx context.Context, entry domain.HistoryEntry) error {
	var dbo historyDBO
	dbo.FromDomain(entry)

	query := `INSERT INTO history (job_id, track_id, track_name, artist_name, album_name, source_url, downloader, status, file_path, file_name, error, finished_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
              ON CONFLICT (job_id) DO UPDATE SET
                  status = excluded.status,
                  file_path = excluded.file_path,
                  file_name = excluded.file_name,
                  error = excluded.error,
                  finished_at = excluded.finished_at`

	_, err := s.db.ExecContext(ctx, s.rebind(query),
		dbo.JobID,
		dbo.TrackID,
		dbo.TrackName,
		dbo.ArtistName,
		dbo.AlbumName,
		dbo.SourceURL,
		dbo.Downloader,
		dbo.Status,
		dbo.FilePath,
		dbo.FileName,
		dbo.Error,
		dbo.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save history for job %s: %w", entry.JobID, err)
	}
	return nil
}

// ListHistory returns up to limit entries, newest first. A non-positive
// limit means the default page size.
func (s *PersistentStore) ListHistory(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	switch {
	case limit <= 0:
		limit = defaultHistoryLimit
	case limit > maxHistoryLimit:
		limit = maxHistoryLimit
	}

	query := `
			SELECT job_id, track_id, track_name, artist_name, album_name, source_url, downloader, status, file_path, file_name, error, finished_at
			FROM history
			ORDER BY finished_at DESC, job_id DESC
			LIMIT ?`

	rows, err := s.db.QueryContext(ctx, s.rebind(query), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.HistoryEntry, 0)
	for rows.Next() {
		var dbo historyDBO
		err := rows.Scan(
			&dbo.JobID, &dbo.TrackID, &dbo.TrackName, &dbo.ArtistName, &dbo.AlbumName, &dbo.SourceURL,
			&dbo.Downloader, &dbo.Status, &dbo.FilePath, &dbo.FileName, &dbo.Error, &dbo.FinishedAt,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, dbo.ToDomain())
	}

	return entries, rows.Err()
}

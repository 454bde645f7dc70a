package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"recut/internal/logging"
)

// Remove deletes the song matching title and, optionally, artist. An empty
// artist matches any artist, but only when the title is unambiguous: if the
// bare title matches several songs the removal fails with ErrAmbiguousTitle
// instead of deleting an arbitrary row. The bool reports whether a row was
// deleted.
func (s *Store) Remove(ctx context.Context, title, artist string) (bool, error) {
	ctx = ensureContext(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	songID, err := s.findSongID(ctx, title, artist)
	if err != nil {
		return false, err
	}
	if songID == 0 {
		return false, nil
	}

	if _, err := s.execWithRetry(ctx, "DELETE FROM songs WHERE id = ?", songID); err != nil {
		return false, fmt.Errorf("delete song %d: %w", songID, err)
	}
	s.logger.Info("song removed",
		logging.String("title", title),
		logging.String("artist", artist))
	return true, nil
}

// findSongID returns the id of the matching song, or 0 when nothing matches.
func (s *Store) findSongID(ctx context.Context, title, artist string) (int64, error) {
	if artist != "" {
		artistID, ok, err := s.ArtistID(ctx, artist)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, nil
		}
		var id int64
		err = s.db.QueryRowContext(ctx,
			"SELECT id FROM songs WHERE title = ? AND artist_id = ? LIMIT 1",
			title, artistID,
		).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		if err != nil {
			return 0, fmt.Errorf("find song %q by %q: %w", title, artist, err)
		}
		return id, nil
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id FROM songs WHERE title = ? LIMIT 2", title)
	if err != nil {
		return 0, fmt.Errorf("find song %q: %w", title, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, fmt.Errorf("scan song id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate song ids: %w", err)
	}

	switch len(ids) {
	case 0:
		return 0, nil
	case 1:
		return ids[0], nil
	default:
		return 0, fmt.Errorf("%w: %q (supply an artist)", ErrAmbiguousTitle, title)
	}
}

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"recut/internal/logging"
	"recut/internal/songmeta"
)

// Exists reports whether a song with the record's dedup key (artist, title,
// album) is already cataloged. The source is deliberately not part of the
// key: the same recording obtained twice from different services is still a
// duplicate.
func (s *Store) Exists(ctx context.Context, rec songmeta.Record) (bool, error) {
	ctx = ensureContext(ctx)
	artistID, ok, err := s.ArtistID(ctx, rec.Artist)
	if err != nil {
		return false, err
	}
	if !ok {
		// Unknown artist implies no song of theirs was ever stored.
		return false, nil
	}

	var one int
	err = s.db.QueryRowContext(ctx,
		"SELECT 1 FROM songs WHERE artist_id = ? AND title = ? AND album = ? LIMIT 1",
		artistID, rec.Title, rec.Album,
	).Scan(&one)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, fmt.Errorf("dedup check: %w", err)
}

// Insert stores the record as a new song unless its dedup key already exists,
// in which case the insert is skipped. Unknown or absent sources resolve to
// the seeded default with a warning.
func (s *Store) Insert(ctx context.Context, rec songmeta.Record) (bool, error) {
	ctx = ensureContext(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	duplicate, err := s.Exists(ctx, rec)
	if err != nil {
		return false, err
	}
	if duplicate {
		s.logger.Info("entry already cataloged, skipping",
			logging.String("artist", rec.Artist),
			logging.String("title", rec.Title))
		return false, nil
	}

	artistID, err := s.ensureArtist(ctx, rec.Artist)
	if err != nil {
		return false, err
	}
	sourceID, err := s.resolveSource(ctx, rec.Source)
	if err != nil {
		return false, err
	}

	if _, err := s.execWithRetry(ctx,
		"INSERT INTO songs (artist_id, title, album, source_id) VALUES (?, ?, ?, ?)",
		artistID, rec.Title, rec.Album, sourceID,
	); err != nil {
		return false, fmt.Errorf("insert song %q: %w", rec.Title, err)
	}
	return true, nil
}

// ensureArtist inserts the artist if missing and returns its id. Insert-or-
// ignore followed by a re-query keeps the operation idempotent under the
// unique name constraint.
func (s *Store) ensureArtist(ctx context.Context, name string) (int64, error) {
	if _, err := s.execWithRetry(ctx, "INSERT OR IGNORE INTO artists (name) VALUES (?)", name); err != nil {
		return 0, fmt.Errorf("insert artist %q: %w", name, err)
	}
	id, ok, err := s.ArtistID(ctx, name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("artist %q missing after insert", name)
	}
	return id, nil
}

func (s *Store) resolveSource(ctx context.Context, source string) (int64, error) {
	if source != "" {
		id, ok, err := s.SourceID(ctx, source)
		if err != nil {
			return 0, err
		}
		if ok {
			return id, nil
		}
		s.logger.Warn("unknown source, using default",
			logging.String("source", source),
			logging.String("default", s.seed.DefaultSource))
	}

	id, ok, err := s.SourceID(ctx, s.seed.DefaultSource)
	if err != nil {
		return 0, err
	}
	if !ok {
		// Seeding guarantees the default row; a miss here is a programming
		// invariant violation, not a recoverable condition.
		return 0, fmt.Errorf("default source %q missing from catalog", s.seed.DefaultSource)
	}
	return id, nil
}

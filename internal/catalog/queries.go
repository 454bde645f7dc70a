package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ArtistID resolves an artist name to its surrogate key. The bool reports
// whether the artist exists.
func (s *Store) ArtistID(ctx context.Context, name string) (int64, bool, error) {
	return s.lookupID(ctx, "SELECT id FROM artists WHERE name = ?", name)
}

// ArtistName resolves an artist id back to its name.
func (s *Store) ArtistName(ctx context.Context, id int64) (string, bool, error) {
	return s.lookupName(ctx, "SELECT name FROM artists WHERE id = ?", id)
}

// SourceID resolves a source name to its surrogate key.
func (s *Store) SourceID(ctx context.Context, name string) (int64, bool, error) {
	return s.lookupID(ctx, "SELECT id FROM sources WHERE name = ?", name)
}

// SourceName resolves a source id back to its name.
func (s *Store) SourceName(ctx context.Context, id int64) (string, bool, error) {
	return s.lookupName(ctx, "SELECT name FROM sources WHERE id = ?", id)
}

func (s *Store) lookupID(ctx context.Context, query, name string) (int64, bool, error) {
	ctx = ensureContext(ctx)
	var id int64
	err := s.db.QueryRowContext(ctx, query, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("lookup id for %q: %w", name, err)
	}
	return id, true, nil
}

func (s *Store) lookupName(ctx context.Context, query string, id int64) (string, bool, error) {
	ctx = ensureContext(ctx)
	var name string
	err := s.db.QueryRowContext(ctx, query, id).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup name for id %d: %w", id, err)
	}
	return name, true, nil
}

// Song is a catalog row joined with its artist and source names for display.
type Song struct {
	ID     int64
	Artist string
	Title  string
	Album  string
	Source string
}

// Songs returns every catalog row ordered by artist, then title.
func (s *Store) Songs(ctx context.Context) ([]Song, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `
		SELECT songs.id, artists.name, songs.title, songs.album, sources.name
		FROM songs
		JOIN artists ON artists.id = songs.artist_id
		JOIN sources ON sources.id = songs.source_id
		ORDER BY artists.name, songs.title`)
	if err != nil {
		return nil, fmt.Errorf("query songs: %w", err)
	}
	defer rows.Close()

	var songs []Song
	for rows.Next() {
		var song Song
		if err := rows.Scan(&song.ID, &song.Artist, &song.Title, &song.Album, &song.Source); err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}
	return songs, nil
}

// SongCount returns the number of catalog rows.
func (s *Store) SongCount(ctx context.Context) (int64, error) {
	ctx = ensureContext(ctx)
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM songs").Scan(&count); err != nil {
		return 0, fmt.Errorf("count songs: %w", err)
	}
	return count, nil
}

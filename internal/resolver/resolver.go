package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"

	"recut/internal/logging"
	"recut/internal/musicbrainz"
	"recut/internal/songmeta"
)

// ErrUnknownLength indicates no confident canonical length could be resolved
// for a record. Callers treat this as "mark unchecked", never as a batch
// failure.
var ErrUnknownLength = errors.New("canonical length unknown")

// searchLimit caps the number of fuzzy-search candidates considered.
const searchLimit = 10

// Lookup is the slice of the MusicBrainz client the resolver depends on.
type Lookup interface {
	RecordingByID(ctx context.Context, mbid string) (*musicbrainz.Recording, error)
	SearchRecordings(ctx context.Context, artist, title, release string, limit int) ([]musicbrainz.Recording, error)
}

// Resolver maps metadata records to canonical recording lengths.
type Resolver struct {
	lookup Lookup
	logger *slog.Logger
}

// New constructs a Resolver. A nil logger is replaced with a no-op logger.
func New(lookup Lookup, logger *slog.Logger) (*Resolver, error) {
	if lookup == nil {
		return nil, errors.New("resolver requires a lookup client")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{lookup: lookup, logger: logging.NewComponentLogger(logger, "resolver")}, nil
}

// Resolve returns the canonical length in milliseconds for the given record,
// or an error wrapping ErrUnknownLength when no confident match exists.
func (r *Resolver) Resolve(ctx context.Context, rec songmeta.Record) (int64, error) {
	if rec.TrackID != "" {
		return r.resolveByID(ctx, rec.TrackID)
	}
	return r.resolveBySearch(ctx, rec)
}

func (r *Resolver) resolveByID(ctx context.Context, trackID string) (int64, error) {
	recording, err := r.lookup.RecordingByID(ctx, trackID)
	if err != nil {
		if aborted(err) {
			return 0, err
		}
		r.logger.Warn("recording lookup failed",
			logging.String("track_id", trackID),
			logging.Error(err))
		return 0, fmt.Errorf("%w: lookup by id %s: %v", ErrUnknownLength, trackID, err)
	}
	if recording.LengthMS <= 0 {
		return 0, fmt.Errorf("%w: recording %s has no length on file", ErrUnknownLength, trackID)
	}
	return recording.LengthMS, nil
}

func (r *Resolver) resolveBySearch(ctx context.Context, rec songmeta.Record) (int64, error) {
	candidates, err := r.lookup.SearchRecordings(ctx, rec.Artist, rec.Title, rec.Album, searchLimit)
	if err != nil {
		if aborted(err) {
			return 0, err
		}
		r.logger.Warn("recording search failed",
			logging.String("title", rec.Title),
			logging.String("artist", rec.Artist),
			logging.Error(err))
		return 0, fmt.Errorf("%w: search: %v", ErrUnknownLength, err)
	}

	wantTitle := normalize(rec.Title)
	wantArtist := normalize(rec.Artist)
	wantAlbum := normalize(rec.Album)

	// Tier 1: title and artist. Scanned across the whole candidate list
	// before tier 2 is consulted so a later exact artist match beats an
	// earlier album-only match.
	for _, cand := range candidates {
		if normalize(cand.Title) == wantTitle && normalize(cand.Artist) == wantArtist {
			return r.matched(rec, cand, "title+artist")
		}
	}

	// Tier 2: title and album.
	for _, cand := range candidates {
		if normalize(cand.Title) == wantTitle && normalize(cand.Album) == wantAlbum {
			return r.matched(rec, cand, "title+album")
		}
	}

	return 0, fmt.Errorf("%w: no candidate matched %q by %q", ErrUnknownLength, rec.Title, rec.Artist)
}

func (r *Resolver) matched(rec songmeta.Record, cand musicbrainz.Recording, tier string) (int64, error) {
	if cand.LengthMS <= 0 {
		return 0, fmt.Errorf("%w: matched recording %s has no length on file", ErrUnknownLength, cand.ID)
	}
	r.logger.Debug("canonical length resolved",
		logging.String("title", rec.Title),
		logging.String("tier", tier),
		logging.Int64("length_ms", cand.LengthMS))
	return cand.LengthMS, nil
}

// aborted reports whether err stems from the caller's context ending. Such
// errors must surface as-is: an aborted lookup says nothing about whether a
// canonical length exists, so it must never read as ErrUnknownLength.
func aborted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// normalize folds a tag value for comparison: Unicode NFC, surrounding
// whitespace stripped, lower case.
func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(value)))
}

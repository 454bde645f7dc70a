package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"recut/internal/logging"
)

// Removal names one song to delete. An empty Artist matches any artist as
// long as the title is unambiguous.
type Removal struct {
	Title  string
	Artist string
}

// RemovalResult reports the fate of one removal entry.
type RemovalResult struct {
	Removal Removal
	Removed bool
	Err     error
}

// Deleter is the catalog surface the remover needs.
type Deleter interface {
	Remove(ctx context.Context, title, artist string) (bool, error)
}

// Remover deletes cataloged songs in bulk.
type Remover struct {
	store  Deleter
	logger *slog.Logger
}

// NewRemover constructs a Remover backed by the given catalog.
func NewRemover(store Deleter, logger *slog.Logger) *Remover {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Remover{
		store:  store,
		logger: logging.NewComponentLogger(logger, "remove"),
	}
}

// ParseRemovals reads line-oriented removal entries: `title` or
// `title, artist`, whitespace-trimmed. Blank lines and lines with an empty
// title are skipped.
func ParseRemovals(r io.Reader) ([]Removal, error) {
	var entries []Removal
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		title, artist, _ := strings.Cut(line, ",")
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		entries = append(entries, Removal{Title: title, Artist: strings.TrimSpace(artist)})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read removal list: %w", err)
	}
	return entries, nil
}

// RemoveAll applies each removal, collecting a per-entry result. Individual
// failures never abort the batch.
func (r *Remover) RemoveAll(ctx context.Context, entries []Removal) ([]RemovalResult, error) {
	logger := r.logger.With(logging.String(logging.FieldBatchID, uuid.NewString()))

	results := make([]RemovalResult, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		removed, err := r.store.Remove(ctx, entry.Title, entry.Artist)
		if err != nil {
			logger.Warn("removal failed",
				logging.String("title", entry.Title),
				logging.Error(err))
		}
		results = append(results, RemovalResult{Removal: entry, Removed: removed, Err: err})
	}

	logger.Info("removal batch finished", logging.Int("entries", len(entries)))
	return results, nil
}

package batch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"recut/internal/collection"
	"recut/internal/logging"
	"recut/internal/songmeta"
)

// Inserter is the catalog surface the importer needs.
type Inserter interface {
	Insert(ctx context.Context, rec songmeta.Record) (bool, error)
}

// ImportStats summarizes one import run.
type ImportStats struct {
	Scanned    int
	Imported   int
	Duplicates int
	Failures   int
}

// Importer walks a collection tree and catalogs every readable audio file.
type Importer struct {
	store   Inserter
	logger  *slog.Logger
	extract func(path string) (songmeta.Record, error)
}

// NewImporter constructs an Importer backed by the given catalog.
func NewImporter(store Inserter, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Importer{
		store:   store,
		logger:  logging.NewComponentLogger(logger, "import"),
		extract: songmeta.Extract,
	}
}

// ImportAll collects audio files under root and inserts each into the
// catalog. forceSource, when non-empty, overrides every file's embedded
// source tag. Per-file extraction and insert failures are logged and counted
// but never abort the run.
func (i *Importer) ImportAll(ctx context.Context, root string, ignore []string, forceSource string) (ImportStats, error) {
	paths, err := collection.Collect(root, ignore)
	if err != nil {
		return ImportStats{}, fmt.Errorf("collect %s: %w", root, err)
	}

	logger := i.logger.With(logging.String(logging.FieldBatchID, uuid.NewString()))
	logger.Info("import started",
		logging.String("root", root),
		logging.Int("files", len(paths)))

	stats := ImportStats{Scanned: len(paths)}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		rec, err := i.extract(path)
		if err != nil {
			stats.Failures++
			logger.Warn("skipping unreadable file",
				logging.String(logging.FieldFile, filepath.Base(path)),
				logging.Error(err))
			continue
		}
		if forceSource != "" {
			rec = rec.WithSource(forceSource)
		}

		inserted, err := i.store.Insert(ctx, rec)
		if err != nil {
			stats.Failures++
			logger.Warn("catalog insert failed",
				logging.String(logging.FieldFile, filepath.Base(path)),
				logging.Error(err))
			continue
		}
		if inserted {
			stats.Imported++
		} else {
			stats.Duplicates++
		}
	}

	logger.Info("import finished",
		logging.Int("imported", stats.Imported),
		logging.Int("duplicates", stats.Duplicates),
		logging.Int("failures", stats.Failures))
	return stats, nil
}

package trim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.senan.xyz/taglib"

	"recut/internal/logging"
	"recut/internal/resolver"
	"recut/internal/songmeta"
)

// Outcome classifies what a reconcile pass did to a file.
type Outcome string

const (
	// OutcomeSkippedUnchecked marks files already carrying the unchecked
	// prefix from an earlier pass.
	OutcomeSkippedUnchecked Outcome = "skipped-unchecked"
	// OutcomeNoMetadata marks files that yielded no usable metadata.
	OutcomeNoMetadata Outcome = "no-metadata"
	// OutcomeMarkedUnchecked marks files renamed because no canonical length
	// was resolved.
	OutcomeMarkedUnchecked Outcome = "marked-unchecked"
	// OutcomeAlreadyCorrect marks files whose decoded length matches the
	// canonical length.
	OutcomeAlreadyCorrect Outcome = "already-correct"
	// OutcomeTrimmed marks files cut and rewritten in place.
	OutcomeTrimmed Outcome = "trimmed"
)

// Result reports the outcome of reconciling a single file. Path is the file's
// location after processing (it changes when the unchecked marker is added).
type Result struct {
	Path     string
	Outcome  Outcome
	LengthMS int64
}

// LengthResolver resolves a record's canonical length.
type LengthResolver interface {
	Resolve(ctx context.Context, rec songmeta.Record) (int64, error)
}

// Options configures an Engine.
type Options struct {
	Resolver        LengthResolver
	Cutter          Cutter
	UncheckedPrefix string
	Logger          *slog.Logger
	// Extract overrides metadata extraction; nil uses songmeta.Extract.
	Extract func(path string) (songmeta.Record, error)
}

// Engine applies the per-file trim decision.
type Engine struct {
	resolver LengthResolver
	cutter   Cutter
	prefix   string
	logger   *slog.Logger
	extract  func(path string) (songmeta.Record, error)
}

// New constructs an Engine.
func New(opts Options) (*Engine, error) {
	if opts.Resolver == nil {
		return nil, errors.New("trim engine requires a resolver")
	}
	if opts.Cutter == nil {
		return nil, errors.New("trim engine requires a cutter")
	}
	prefix := opts.UncheckedPrefix
	if prefix == "" {
		return nil, errors.New("trim engine requires an unchecked prefix")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	extract := opts.Extract
	if extract == nil {
		extract = songmeta.Extract
	}
	return &Engine{
		resolver: opts.Resolver,
		cutter:   opts.Cutter,
		prefix:   prefix,
		logger:   logging.NewComponentLogger(logger, "trim"),
		extract:  extract,
	}, nil
}

// Process reconciles one file. Per-file failure modes (no metadata, unknown
// length) are folded into the outcome; only unexpected filesystem or cut
// errors are returned.
func (e *Engine) Process(ctx context.Context, path string) (Result, error) {
	logger := e.logger.With(logging.String(logging.FieldFile, filepath.Base(path)))

	if strings.HasPrefix(filepath.Base(path), e.prefix) {
		logger.Debug("already marked unchecked, skipping")
		return Result{Path: path, Outcome: OutcomeSkippedUnchecked}, nil
	}

	rec, err := e.extract(path)
	if err != nil {
		if errors.Is(err, songmeta.ErrNoMetadata) {
			logger.Warn("no usable metadata", logging.Error(err))
			return Result{Path: path, Outcome: OutcomeNoMetadata}, nil
		}
		return Result{}, fmt.Errorf("extract %s: %w", path, err)
	}

	canonical, err := e.resolver.Resolve(ctx, rec)
	if err != nil {
		if errors.Is(err, resolver.ErrUnknownLength) {
			// A run cancelled mid-lookup must not brand the file as
			// examined-and-unresolvable; the marker would suppress every
			// future pass over it.
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Result{}, ctxErr
			}
			newPath, renameErr := e.markUnchecked(path)
			if renameErr != nil {
				return Result{}, renameErr
			}
			logger.Info("no canonical length found, marked unchecked")
			return Result{Path: newPath, Outcome: OutcomeMarkedUnchecked}, nil
		}
		return Result{}, fmt.Errorf("resolve %s: %w", path, err)
	}

	if canonical == rec.LengthMS {
		logger.Debug("length already correct", logging.Int64("length_ms", canonical))
		return Result{Path: path, Outcome: OutcomeAlreadyCorrect, LengthMS: canonical}, nil
	}

	if err := e.cutToLength(ctx, path, rec, canonical); err != nil {
		return Result{}, err
	}
	logger.Info("trimmed to canonical length",
		logging.Int64("was_ms", rec.LengthMS),
		logging.Int64("now_ms", canonical))
	return Result{Path: path, Outcome: OutcomeTrimmed, LengthMS: canonical}, nil
}

// markUnchecked renames the file in place, prepending the unchecked prefix.
func (e *Engine) markUnchecked(path string) (string, error) {
	newPath := filepath.Join(filepath.Dir(path), e.prefix+filepath.Base(path))
	if err := os.Rename(path, newPath); err != nil {
		return "", fmt.Errorf("mark unchecked: %w", err)
	}
	return newPath, nil
}

// cutToLength cuts into a temporary sibling file and renames it over the
// original only after the cut and tag rewrite succeed.
func (e *Engine) cutToLength(ctx context.Context, path string, rec songmeta.Record, lengthMS int64) error {
	dir := filepath.Dir(path)
	ext := filepath.Ext(path)

	tmp, err := os.CreateTemp(dir, ".recut-*"+ext)
	if err != nil {
		return fmt.Errorf("create temp output: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	tags := outputTags(rec)
	if err := e.cutter.Cut(ctx, path, tmpPath, lengthMS, tags); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// outputTags carries the record's identity forward onto the cut file.
func outputTags(rec songmeta.Record) map[string][]string {
	tags := map[string][]string{
		taglib.Title:  {rec.Title},
		taglib.Artist: {rec.Artist},
	}
	if rec.Album != "" {
		tags[taglib.Album] = []string{rec.Album}
	}
	if rec.Source != "" {
		tags["SOURCE"] = []string{rec.Source}
	}
	return tags
}

package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"recut/internal/logging"
)

//go:embed schema.sql
var schemaSQL string

// ErrAmbiguousTitle is returned by Remove when a bare title matches more than
// one song and no artist was supplied to disambiguate.
var ErrAmbiguousTitle = errors.New("title matches multiple songs")

// Seed configures the source rows inserted at open time and the named
// fallback applied when a record's source is unknown. Seeding is idempotent;
// rows already present are kept.
type Seed struct {
	Sources       []string
	DefaultSource string
}

// Store manages catalog persistence backed by sqlite. Mutations are
// serialized through an in-process mutex plus a sidecar file lock so the
// application-level dedup invariant holds across concurrent writers.
type Store struct {
	db     *sql.DB
	path   string
	seed   Seed
	logger *slog.Logger

	mu   sync.Mutex
	lock *flock.Flock
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the catalog database at path. The seed's
// default source must be part of its source set.
func Open(path string, seed Seed, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("catalog path required")
	}
	if err := validateSeed(seed); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lock := flock.New(path + ".lock")
	held, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire catalog lock: %w", err)
	}
	if !held {
		return nil, fmt.Errorf("catalog %s is locked by another process", path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:     db,
		path:   path,
		seed:   seed,
		logger: logging.NewComponentLogger(logger, "catalog"),
		lock:   lock,
	}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}
	return store, nil
}

// Path returns the database location backing the store.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database handle and the sidecar lock.
func (s *Store) Close() error {
	err := s.db.Close()
	if unlockErr := s.lock.Unlock(); unlockErr != nil && err == nil {
		err = unlockErr
	}
	return err
}

func validateSeed(seed Seed) error {
	if len(seed.Sources) == 0 {
		return errors.New("seed requires at least one source")
	}
	for _, name := range seed.Sources {
		if strings.TrimSpace(name) == "" {
			return errors.New("seed contains an empty source name")
		}
	}
	for _, name := range seed.Sources {
		if name == seed.DefaultSource {
			return nil
		}
	}
	return fmt.Errorf("default source %q is not part of the seed set", seed.DefaultSource)
}

func (s *Store) initSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	for _, source := range s.seed.Sources {
		if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO sources (name) VALUES (?)", source); err != nil {
			return fmt.Errorf("seed source %q: %w", source, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recut/internal/logging"
	"recut/internal/songmeta"
)

type recordingInserter struct {
	inserted []songmeta.Record
	dupTitle string
	failWith error
}

func (r *recordingInserter) Insert(ctx context.Context, rec songmeta.Record) (bool, error) {
	if r.failWith != nil {
		return false, r.failWith
	}
	if rec.Title == r.dupTitle {
		return false, nil
	}
	r.inserted = append(r.inserted, rec)
	return true, nil
}

func newCollectionTree(t *testing.T, names ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, name := range names {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return root
}

func recordFromPath(path string) (songmeta.Record, error) {
	base := filepath.Base(path)
	title := strings.TrimSuffix(base, filepath.Ext(base))
	return songmeta.Record{Artist: "Hehe", Title: title, Source: "Bandcamp"}, nil
}

func TestImportAllCountsOutcomes(t *testing.T) {
	root := newCollectionTree(t, "one.flac", "two.mp3", "sub/three.flac")

	store := &recordingInserter{dupTitle: "two"}
	imp := NewImporter(store, logging.NewNop())
	imp.extract = recordFromPath

	stats, err := imp.ImportAll(context.Background(), root, nil, "")
	if err != nil {
		t.Fatalf("ImportAll: %v", err)
	}
	if stats.Scanned != 3 || stats.Imported != 2 || stats.Duplicates != 1 || stats.Failures != 0 {
		t.Errorf("stats = %+v, want {3 2 1 0}", stats)
	}
}

func TestImportAllForcesSource(t *testing.T) {
	root := newCollectionTree(t, "one.flac")

	store := &recordingInserter{}
	imp := NewImporter(store, logging.NewNop())
	imp.extract = recordFromPath

	if _, err := imp.ImportAll(context.Background(), root, nil, "Spotify"); err != nil {
		t.Fatalf("ImportAll: %v", err)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("inserted %d records, want 1", len(store.inserted))
	}
	if got := store.inserted[0].Source; got != "Spotify" {
		t.Errorf("source = %q, want Spotify", got)
	}
}

func TestImportAllKeepsGoingPastBadFiles(t *testing.T) {
	root := newCollectionTree(t, "good.flac", "bad.mp3")

	store := &recordingInserter{}
	imp := NewImporter(store, logging.NewNop())
	imp.extract = func(path string) (songmeta.Record, error) {
		if strings.Contains(path, "bad") {
			return songmeta.Record{}, songmeta.ErrNoMetadata
		}
		return recordFromPath(path)
	}

	stats, err := imp.ImportAll(context.Background(), root, nil, "")
	if err != nil {
		t.Fatalf("ImportAll: %v", err)
	}
	if stats.Failures != 1 || stats.Imported != 1 {
		t.Errorf("stats = %+v, want 1 failure and 1 import", stats)
	}
}

func TestImportAllCountsInsertErrorsAsFailures(t *testing.T) {
	root := newCollectionTree(t, "one.flac")

	store := &recordingInserter{failWith: errors.New("database locked")}
	imp := NewImporter(store, logging.NewNop())
	imp.extract = recordFromPath

	stats, err := imp.ImportAll(context.Background(), root, nil, "")
	if err != nil {
		t.Fatalf("ImportAll: %v", err)
	}
	if stats.Failures != 1 || stats.Imported != 0 {
		t.Errorf("stats = %+v, want 1 failure and 0 imports", stats)
	}
}

func TestImportAllPropagatesCollectErrors(t *testing.T) {
	imp := NewImporter(&recordingInserter{}, logging.NewNop())
	if _, err := imp.ImportAll(context.Background(), filepath.Join(t.TempDir(), "missing"), nil, ""); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestImportAllStopsOnCancel(t *testing.T) {
	root := newCollectionTree(t, "one.flac")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	imp := NewImporter(&recordingInserter{}, logging.NewNop())
	imp.extract = recordFromPath

	if _, err := imp.ImportAll(ctx, root, nil, ""); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

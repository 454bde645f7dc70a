package trim

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"recut/internal/logging"
	"recut/internal/resolver"
	"recut/internal/songmeta"
)

type stubResolver struct {
	lengthMS int64
	err      error
}

func (s stubResolver) Resolve(ctx context.Context, rec songmeta.Record) (int64, error) {
	return s.lengthMS, s.err
}

type stubCutter struct {
	calls    int
	lengthMS int64
	tags     map[string][]string
	err      error
}

func (s *stubCutter) Cut(ctx context.Context, src, dst string, lengthMS int64, tags map[string][]string) error {
	s.calls++
	s.lengthMS = lengthMS
	s.tags = tags
	if s.err != nil {
		return s.err
	}
	return os.WriteFile(dst, []byte("cut audio"), 0o644)
}

func newTestEngine(t *testing.T, res LengthResolver, cut Cutter, extract func(string) (songmeta.Record, error)) *Engine {
	t.Helper()
	engine, err := New(Options{
		Resolver:        res,
		Cutter:          cut,
		UncheckedPrefix: "[UNCHECKED]_",
		Logger:          logging.NewNop(),
		Extract:         extract,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return engine
}

func writeAudioStub(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("original audio"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func extractRecord(rec songmeta.Record) func(string) (songmeta.Record, error) {
	return func(string) (songmeta.Record, error) { return rec, nil }
}

func TestProcessSkipsAlreadyMarkedFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeAudioStub(t, dir, "[UNCHECKED]_song.mp3")

	cutter := &stubCutter{}
	extracted := false
	engine := newTestEngine(t, stubResolver{}, cutter, func(string) (songmeta.Record, error) {
		extracted = true
		return songmeta.Record{}, nil
	})

	res, err := engine.Process(context.Background(), path)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Outcome != OutcomeSkippedUnchecked {
		t.Errorf("outcome = %q, want %q", res.Outcome, OutcomeSkippedUnchecked)
	}
	if extracted {
		t.Error("expected no extraction for marked file")
	}
	if cutter.calls != 0 {
		t.Errorf("cutter called %d times, want 0", cutter.calls)
	}
}

func TestProcessNoMetadataIsANoop(t *testing.T) {
	dir := t.TempDir()
	path := writeAudioStub(t, dir, "song.mp3")

	cutter := &stubCutter{}
	engine := newTestEngine(t, stubResolver{}, cutter, func(string) (songmeta.Record, error) {
		return songmeta.Record{}, songmeta.ErrNoMetadata
	})

	res, err := engine.Process(context.Background(), path)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Outcome != OutcomeNoMetadata {
		t.Errorf("outcome = %q, want %q", res.Outcome, OutcomeNoMetadata)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file should be untouched: %v", err)
	}
	if cutter.calls != 0 {
		t.Errorf("cutter called %d times, want 0", cutter.calls)
	}
}

func TestProcessMarksFileWhenLengthUnknown(t *testing.T) {
	dir := t.TempDir()
	path := writeAudioStub(t, dir, "song.mp3")

	rec := songmeta.Record{Artist: "Hehe", Title: "Haha", LengthMS: 120000}
	engine := newTestEngine(t, stubResolver{err: resolver.ErrUnknownLength}, &stubCutter{}, extractRecord(rec))

	res, err := engine.Process(context.Background(), path)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Outcome != OutcomeMarkedUnchecked {
		t.Errorf("outcome = %q, want %q", res.Outcome, OutcomeMarkedUnchecked)
	}
	want := filepath.Join(dir, "[UNCHECKED]_song.mp3")
	if res.Path != want {
		t.Errorf("path = %q, want %q", res.Path, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("renamed file missing: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("original path should be gone, stat err = %v", err)
	}
}

func TestProcessCancelledResolveDoesNotMarkFile(t *testing.T) {
	dir := t.TempDir()
	path := writeAudioStub(t, dir, "song.mp3")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := songmeta.Record{Artist: "Hehe", Title: "Haha", LengthMS: 120000}

	// The resolver passes cancellation through untouched.
	engine := newTestEngine(t, stubResolver{err: context.Canceled}, &stubCutter{}, extractRecord(rec))
	if _, err := engine.Process(ctx, path); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file must keep its name after a cancelled run: %v", err)
	}

	// Even an unknown-length verdict is discarded once the run is cancelled:
	// the file was never fully examined, so the marker must not stick.
	engine = newTestEngine(t, stubResolver{err: resolver.ErrUnknownLength}, &stubCutter{}, extractRecord(rec))
	if _, err := engine.Process(ctx, path); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file must keep its name after a cancelled run: %v", err)
	}
}

func TestProcessLeavesMatchingLengthAlone(t *testing.T) {
	dir := t.TempDir()
	path := writeAudioStub(t, dir, "song.flac")

	rec := songmeta.Record{Artist: "Hehe", Title: "Haha", LengthMS: 215000}
	cutter := &stubCutter{}
	engine := newTestEngine(t, stubResolver{lengthMS: 215000}, cutter, extractRecord(rec))

	res, err := engine.Process(context.Background(), path)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Outcome != OutcomeAlreadyCorrect {
		t.Errorf("outcome = %q, want %q", res.Outcome, OutcomeAlreadyCorrect)
	}
	if cutter.calls != 0 {
		t.Errorf("cutter called %d times, want 0", cutter.calls)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "original audio" {
		t.Error("file contents changed for a matching length")
	}
}

func TestProcessTrimsToCanonicalLength(t *testing.T) {
	dir := t.TempDir()
	path := writeAudioStub(t, dir, "song.flac")

	rec := songmeta.Record{Artist: "Hehe", Title: "Haha", Album: "erstes Album", Source: "Bandcamp", LengthMS: 240000}
	cutter := &stubCutter{}
	engine := newTestEngine(t, stubResolver{lengthMS: 215000}, cutter, extractRecord(rec))

	res, err := engine.Process(context.Background(), path)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Outcome != OutcomeTrimmed {
		t.Errorf("outcome = %q, want %q", res.Outcome, OutcomeTrimmed)
	}
	if res.LengthMS != 215000 {
		t.Errorf("length = %d, want 215000", res.LengthMS)
	}
	if cutter.calls != 1 {
		t.Fatalf("cutter called %d times, want 1", cutter.calls)
	}
	if cutter.lengthMS != 215000 {
		t.Errorf("cut length = %d, want 215000", cutter.lengthMS)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "cut audio" {
		t.Error("original was not replaced by the cut output")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected no leftover temp files, dir has %d entries", len(entries))
	}
}

func TestProcessTrimCarriesTagsForward(t *testing.T) {
	dir := t.TempDir()
	path := writeAudioStub(t, dir, "song.flac")

	rec := songmeta.Record{Artist: "Hehe", Title: "Haha", Album: "erstes Album", Source: "Spotify", LengthMS: 100}
	cutter := &stubCutter{}
	engine := newTestEngine(t, stubResolver{lengthMS: 200}, cutter, extractRecord(rec))

	if _, err := engine.Process(context.Background(), path); err != nil {
		t.Fatalf("Process: %v", err)
	}

	for key, want := range map[string]string{
		"TITLE":  "Haha",
		"ARTIST": "Hehe",
		"ALBUM":  "erstes Album",
		"SOURCE": "Spotify",
	} {
		got, ok := cutter.tags[key]
		if !ok || len(got) != 1 || got[0] != want {
			t.Errorf("tag %s = %v, want [%s]", key, got, want)
		}
	}
}

func TestProcessCutFailureKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	path := writeAudioStub(t, dir, "song.mp3")

	rec := songmeta.Record{Artist: "Hehe", Title: "Haha", LengthMS: 100}
	cutter := &stubCutter{err: errors.New("codec exploded")}
	engine := newTestEngine(t, stubResolver{lengthMS: 200}, cutter, extractRecord(rec))

	if _, err := engine.Process(context.Background(), path); err == nil {
		t.Fatal("expected cut error to propagate")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "original audio" {
		t.Error("original should survive a failed cut")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected temp file cleanup, dir has %d entries", len(entries))
	}
}

func TestNewValidatesOptions(t *testing.T) {
	cutter := &stubCutter{}
	if _, err := New(Options{Cutter: cutter, UncheckedPrefix: "x_"}); err == nil {
		t.Error("expected error for missing resolver")
	}
	if _, err := New(Options{Resolver: stubResolver{}, UncheckedPrefix: "x_"}); err == nil {
		t.Error("expected error for missing cutter")
	}
	if _, err := New(Options{Resolver: stubResolver{}, Cutter: cutter}); err == nil {
		t.Error("expected error for missing prefix")
	}
}

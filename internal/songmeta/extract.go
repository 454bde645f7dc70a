package songmeta

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrNoMetadata indicates a file yielded no usable metadata: the container is
// unreadable, the extension unsupported, or both title and artist are absent.
var ErrNoMetadata = errors.New("no usable metadata")

type extractFunc func(path string) (Record, error)

// extractors is the closed variant set. New container formats register here;
// call sites dispatch through Extract and never switch on extensions
// themselves.
var extractors = map[string]extractFunc{
	".flac": extractFLAC,
	".mp3":  extractMP3,
	".wav":  extractWAV,
}

// Extract reads the metadata record for the file at path. It returns an error
// wrapping ErrNoMetadata when the file cannot contribute a record; callers
// skip such files rather than failing a batch.
func Extract(path string) (Record, error) {
	ext := strings.ToLower(filepath.Ext(path))
	extract, ok := extractors[ext]
	if !ok {
		return Record{}, fmt.Errorf("%w: unsupported extension %q", ErrNoMetadata, ext)
	}
	return extract(path)
}

// Supported reports whether Extract can handle the file at path.
func Supported(path string) bool {
	_, ok := extractors[strings.ToLower(filepath.Ext(path))]
	return ok
}

// requireIdentity enforces the record invariant: title and artist must not
// both be absent. A single missing field is replaced with its placeholder.
func requireIdentity(title, artist string) (string, string, error) {
	title = strings.TrimSpace(title)
	artist = strings.TrimSpace(artist)
	if title == "" && artist == "" {
		return "", "", fmt.Errorf("%w: file carries neither title nor artist", ErrNoMetadata)
	}
	if title == "" {
		title = UnknownTitle
	}
	if artist == "" {
		artist = UnknownArtist
	}
	return title, artist, nil
}

func firstValue(tags map[string][]string, key string) string {
	values := tags[key]
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

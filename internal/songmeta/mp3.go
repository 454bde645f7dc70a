package songmeta

import (
	"fmt"
	"os"
	"strings"

	"github.com/dhowden/tag"
	"go.senan.xyz/taglib"
)

// mbTrackIDDescription is the TXXX frame description Picard writes for the
// MusicBrainz release track identifier.
const mbTrackIDDescription = "MusicBrainz Release Track Id"

// extractMP3 reads ID3 frames from an MP3 container. Title, artist, and album
// come from the standard TIT2/TPE1/TALB frames; the MusicBrainz identifier is
// taken from a UFID frame or the Picard TXXX fallback.
func extractMP3(path string) (Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return Record{}, fmt.Errorf("%w: open mp3: %v", ErrNoMetadata, err)
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return Record{}, fmt.Errorf("%w: read id3 tags: %v", ErrNoMetadata, err)
	}
	props, err := taglib.ReadProperties(path)
	if err != nil {
		return Record{}, fmt.Errorf("%w: read mp3 properties: %v", ErrNoMetadata, err)
	}

	title, artist, err := requireIdentity(meta.Title(), meta.Artist())
	if err != nil {
		return Record{}, err
	}

	return Record{
		Artist:   artist,
		Title:    title,
		TrackID:  mp3TrackID(meta.Raw()),
		Album:    strings.TrimSpace(meta.Album()),
		LengthMS: props.Length.Milliseconds(),
	}, nil
}

// mp3TrackID scans raw ID3 frames for a MusicBrainz identifier. UFID frames
// take precedence over the TXXX fallback.
func mp3TrackID(frames map[string]interface{}) string {
	var fallback string
	for name, value := range frames {
		switch {
		case strings.HasPrefix(name, "UFID"):
			if ufid, ok := value.(*tag.UFID); ok && strings.Contains(strings.ToLower(ufid.Provider), "musicbrainz") {
				if id := strings.TrimSpace(string(ufid.Identifier)); id != "" {
					return id
				}
			}
		case strings.HasPrefix(name, "TXXX"):
			if comm, ok := value.(*tag.Comm); ok && strings.EqualFold(comm.Description, mbTrackIDDescription) {
				fallback = strings.TrimSpace(comm.Text)
			}
		}
	}
	return fallback
}

package songmeta

import (
	"fmt"

	"go.senan.xyz/taglib"
)

// extractWAV reads RIFF INFO fields (INAM, IART, IPRD) from a WAV container.
// WAV files routinely carry no metadata at all, so every missing field falls
// back to a placeholder and extraction only fails for unreadable containers.
func extractWAV(path string) (Record, error) {
	props, err := taglib.ReadProperties(path)
	if err != nil {
		return Record{}, fmt.Errorf("%w: read wav properties: %v", ErrNoMetadata, err)
	}

	// Tag read failures are tolerated here; an INFO-less container is still a
	// valid WAV file.
	tags, err := taglib.ReadTags(path)
	if err != nil {
		tags = nil
	}

	title := firstValue(tags, taglib.Title)
	if title == "" {
		title = UnknownTitle
	}
	artist := firstValue(tags, taglib.Artist)
	if artist == "" {
		artist = UnknownArtist
	}
	album := firstValue(tags, taglib.Album)
	if album == "" {
		album = UnknownAlbum
	}

	return Record{
		Artist:   artist,
		Title:    title,
		Album:    album,
		LengthMS: props.Length.Milliseconds(),
	}, nil
}

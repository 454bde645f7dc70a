package songmeta

import (
	"fmt"

	"go.senan.xyz/taglib"
)

// extractFLAC reads Vorbis comments and stream properties from a FLAC
// container.
func extractFLAC(path string) (Record, error) {
	tags, err := taglib.ReadTags(path)
	if err != nil {
		return Record{}, fmt.Errorf("%w: read flac tags: %v", ErrNoMetadata, err)
	}
	props, err := taglib.ReadProperties(path)
	if err != nil {
		return Record{}, fmt.Errorf("%w: read flac properties: %v", ErrNoMetadata, err)
	}

	title, artist, err := requireIdentity(firstValue(tags, taglib.Title), firstValue(tags, taglib.Artist))
	if err != nil {
		return Record{}, err
	}

	return Record{
		Artist:   artist,
		Title:    title,
		TrackID:  firstValue(tags, taglib.MusicBrainzTrackID),
		Album:    firstValue(tags, taglib.Album),
		LengthMS: props.Length.Milliseconds(),
	}, nil
}

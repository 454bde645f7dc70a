package songmeta

// Placeholder values substituted when a container carries only one of the two
// required identity tags.
const (
	UnknownTitle  = "Unknown Title"
	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"
)

// Record is a normalized metadata snapshot taken from a single audio file.
// Records are constructed once at extraction time and never mutated; TrackID
// and Source may be empty.
type Record struct {
	Artist  string
	Title   string
	TrackID string
	Album   string
	// LengthMS is the decoded container duration in milliseconds. It reflects
	// the file as it exists on disk, not the canonical recording length.
	LengthMS int64
	Source   string
}

// WithSource returns a copy of the record with the source field overridden.
func (r Record) WithSource(source string) Record {
	r.Source = source
	return r
}

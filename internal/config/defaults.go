package config

const (
	defaultCatalogPath        = "~/.local/share/recut/recordings.db"
	defaultLogDir             = "~/.local/share/recut/logs"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultMusicBrainzBaseURL = "https://musicbrainz.org/ws/2"
	defaultUserAgent          = "recut/1.0 ( https://github.com/ScatteredDrifter/recut )"
	defaultUncheckedPrefix    = "[UNCHECKED]_"
	defaultFFmpegBinary       = "ffmpeg"
	// defaultSource is the provenance assigned when a record's source is
	// absent or unrecognized. The original tooling fell back to the second
	// seeded source, which happened to be YouTube; the name is pinned here so
	// reordering the seed list cannot change the fallback.
	defaultSource = "YouTube"
)

// DefaultSources returns the seeded source set in its canonical order.
func DefaultSources() []string {
	return []string{"Bandcamp", "YouTube", "Spotify", "Soundcloud"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			Catalog: defaultCatalogPath,
			LogDir:  defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		MusicBrainz: MusicBrainz{
			BaseURL:   defaultMusicBrainzBaseURL,
			UserAgent: defaultUserAgent,
		},
		Catalog: Catalog{
			Sources:       DefaultSources(),
			DefaultSource: defaultSource,
		},
		Trim: Trim{
			UncheckedPrefix: defaultUncheckedPrefix,
			Workers:         0,
			FFmpegBinary:    defaultFFmpegBinary,
		},
	}
}

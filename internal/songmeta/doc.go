// Package songmeta extracts normalized song metadata records from audio
// containers.
//
// Extraction is dispatched on the file extension across a closed set of
// container variants (FLAC, MP3, WAV). Each variant reads its native tag
// fields and the decoded container duration and produces an immutable Record.
// Files that carry neither a title nor an artist tag are rejected with
// ErrNoMetadata rather than producing a partial record; a missing title or a
// missing artist alone is substituted with a placeholder so sparsely tagged
// files still enter the pipeline.
package songmeta

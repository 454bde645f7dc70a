// Package trim decides, per file, whether a recording is cut to its
// canonical length, marked unchecked, or left alone.
//
// The decision is stateless: a file's standing is inferred from its filename
// prefix and the resolver outcome, which makes a second pass over the same
// tree a no-op. Files whose canonical length cannot be resolved are renamed
// with the unchecked marker and never touched again; files whose decoded
// length already matches are left byte-for-byte untouched. Cutting goes
// through a temporary file that is renamed over the original only after the
// re-encode and tag rewrite succeed, so a crash mid-cut cannot leave a torn
// file behind.
package trim

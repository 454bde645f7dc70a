// Package catalog persists the deduplicated set of known recordings in a
// sqlite database.
//
// The schema has three entities: artists (globally unique by name), sources
// (a fixed set seeded at open time), and songs referencing both. Songs carry
// no storage-level uniqueness constraint; the store enforces the dedup key
// (artist, title, album) at the application layer, which is why all mutating
// operations are serialized through a single writer. A sidecar flock guards
// against a second process writing the same catalog.
package catalog

// Package resolver resolves the canonical length of a recording from
// MusicBrainz.
//
// Records carrying a MusicBrainz track identifier are resolved by direct
// lookup and never fall through to search. All other records go through a
// fuzzy recording search whose candidates are matched in two priority tiers:
// normalized title plus artist first, then normalized title plus album.
// Artist is deliberately left out of the second tier because local artist
// tags frequently omit featured artists, while title plus album is
// discriminating enough on its own. Every failure mode short of a programming
// error maps to ErrUnknownLength so a batch is never aborted by a lookup.
package resolver

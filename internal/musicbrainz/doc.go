// Package musicbrainz provides a minimal client for the MusicBrainz /ws/2
// recording API.
//
// The client covers the two lookups the reconciliation pipeline needs: direct
// recording fetch by MBID and fuzzy recording search by artist, title, and
// release. Responses are requested as JSON. MusicBrainz requires a
// client-identifying User-Agent and allows one request per second for
// anonymous clients; the client enforces both and retries once on 429/503
// honoring Retry-After.
package musicbrainz

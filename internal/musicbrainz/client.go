package musicbrainz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultBaseURL is the public MusicBrainz web service endpoint.
const DefaultBaseURL = "https://musicbrainz.org/ws/2"

// Recording is the subset of a MusicBrainz recording the pipeline consumes.
// LengthMS is zero when MusicBrainz has no length on file.
type Recording struct {
	ID       string
	Title    string
	Artist   string
	Album    string
	LengthMS int64
}

// Client talks to the MusicBrainz recording API.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client

	mu          sync.Mutex
	lastRequest time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a MusicBrainz client. The user agent is mandatory; MusicBrainz
// rejects anonymous clients without one.
func New(baseURL, userAgent string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		return nil, errors.New("musicbrainz user agent required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// RecordingByID fetches a single recording by its MusicBrainz identifier.
func (c *Client) RecordingByID(ctx context.Context, mbid string) (*Recording, error) {
	mbid = strings.TrimSpace(mbid)
	if mbid == "" {
		return nil, errors.New("recording id must not be empty")
	}

	reqURL := fmt.Sprintf("%s/recording/%s?fmt=json", c.baseURL, url.PathEscape(mbid))
	var payload recordingPayload
	if err := c.get(ctx, reqURL, &payload); err != nil {
		return nil, err
	}
	rec := payload.toRecording()
	return &rec, nil
}

// SearchRecordings performs a fuzzy recording search. Empty query fields are
// omitted from the Lucene query; limit caps the number of candidates.
func (c *Client) SearchRecordings(ctx context.Context, artist, title, release string, limit int) ([]Recording, error) {
	query := buildQuery(artist, title, release)
	if query == "" {
		return nil, errors.New("search requires at least one of artist, title, release")
	}
	if limit <= 0 {
		limit = 10
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("fmt", "json")
	params.Set("limit", strconv.Itoa(limit))
	reqURL := fmt.Sprintf("%s/recording?%s", c.baseURL, params.Encode())

	var payload searchPayload
	if err := c.get(ctx, reqURL, &payload); err != nil {
		return nil, err
	}

	results := make([]Recording, 0, len(payload.Recordings))
	for _, rec := range payload.Recordings {
		results = append(results, rec.toRecording())
	}
	return results, nil
}

func (c *Client) get(ctx context.Context, reqURL string, out any) error {
	c.rateLimit()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create musicbrainz request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.doWithRetry(ctx, req)
	if err != nil {
		return fmt.Errorf("musicbrainz request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("musicbrainz returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode musicbrainz response: %w", err)
	}
	return nil
}

// rateLimit enforces the 1 request/second anonymous-client limit. Each
// caller reserves the next send slot while holding the lock, so concurrent
// callers queue one second apart instead of all sleeping to the same
// deadline and firing together.
func (c *Client) rateLimit() {
	c.mu.Lock()
	now := time.Now()
	slot := c.lastRequest.Add(time.Second)
	if slot.Before(now) {
		slot = now
	}
	c.lastRequest = slot
	c.mu.Unlock()

	time.Sleep(time.Until(slot))
}

// doWithRetry executes the request, retrying once on 429/503 with backoff.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
		resp.Body.Close()
		retryAfter := 2
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if parsed, err := strconv.Atoi(ra); err == nil {
				retryAfter = parsed
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(retryAfter) * time.Second):
		}

		// Advance the next send slot past the backoff, but never behind a
		// slot another caller has already reserved.
		c.mu.Lock()
		if now := time.Now(); now.After(c.lastRequest) {
			c.lastRequest = now
		}
		c.mu.Unlock()
		return c.httpClient.Do(req.Clone(ctx))
	}

	return resp, nil
}

func buildQuery(artist, title, release string) string {
	var parts []string
	if title = strings.TrimSpace(title); title != "" {
		parts = append(parts, fmt.Sprintf("recording:%q", title))
	}
	if artist = strings.TrimSpace(artist); artist != "" {
		parts = append(parts, fmt.Sprintf("artist:%q", artist))
	}
	if release = strings.TrimSpace(release); release != "" {
		parts = append(parts, fmt.Sprintf("release:%q", release))
	}
	return strings.Join(parts, " AND ")
}

// MusicBrainz API response types.

type searchPayload struct {
	Recordings []recordingPayload `json:"recordings"`
}

type recordingPayload struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Length       int64           `json:"length"`
	ArtistCredit []artistCredit  `json:"artist-credit"`
	Releases     []releaseRecord `json:"releases"`
}

type artistCredit struct {
	Name   string `json:"name"`
	Artist struct {
		Name string `json:"name"`
	} `json:"artist"`
}

type releaseRecord struct {
	Title string `json:"title"`
}

func (p recordingPayload) toRecording() Recording {
	rec := Recording{
		ID:       p.ID,
		Title:    p.Title,
		LengthMS: p.Length,
	}
	if len(p.ArtistCredit) > 0 {
		rec.Artist = p.ArtistCredit[0].Name
		if rec.Artist == "" {
			rec.Artist = p.ArtistCredit[0].Artist.Name
		}
	}
	if len(p.Releases) > 0 {
		rec.Album = p.Releases[0].Title
	}
	return rec
}

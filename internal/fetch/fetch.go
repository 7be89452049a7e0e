// Package fetch retrieves a single verse from a bible-api.com compatible
// endpoint.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/flarebyte/manna/internal/scripture"
)

const (
	// DefaultBaseURL is the public Bible API.
	DefaultBaseURL = "https://bible-api.com/"
	// DefaultTimeout bounds the single HTTP request.
	DefaultTimeout = 10 * time.Second

	maxBodyBytes = 1 << 20
)

// Fetcher issues one GET per reference. It never retries.
type Fetcher struct {
	baseURL string
	client  *http.Client
	now     func() time.Time
	log     *zap.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient replaces the HTTP client. The client's own timeout applies.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithTimeout sets the request timeout on the default client.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.client = &http.Client{Timeout: d}
		}
	}
}

// WithClock sets the clock used to date fetched records.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) { f.now = now }
}

// WithLogger sets the logger fetch failures are reported to.
func WithLogger(l *zap.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.log = l
		}
	}
}

// New returns a Fetcher for baseURL. An empty baseURL selects DefaultBaseURL.
func New(baseURL string, opts ...Option) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	f := &Fetcher{
		baseURL: baseURL,
		client:  &http.Client{Timeout: DefaultTimeout},
		now:     time.Now,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// apiVerse is the subset of the API response manna consumes.
type apiVerse struct {
	Text      string `json:"text"`
	Reference string `json:"reference"`
}

// Fetch retrieves reference and stamps the result with today's date.
// Failures are logged and returned as *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, reference string) (scripture.VerseRecord, error) {
	rec, err := f.fetch(ctx, reference)
	if err != nil {
		f.log.Warn("fetch verse failed", zap.String("reference", reference), zap.Error(err))
		return scripture.VerseRecord{}, err
	}
	f.log.Debug("fetched verse", zap.String("reference", rec.Reference))
	return rec, nil
}

func (f *Fetcher) fetch(ctx context.Context, reference string) (scripture.VerseRecord, error) {
	u := f.URL(reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return scripture.VerseRecord{}, &FetchError{Kind: KindTransport, Reference: reference, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return scripture.VerseRecord{}, &FetchError{Kind: KindTransport, Reference: reference, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return scripture.VerseRecord{}, &FetchError{Kind: KindStatus, Reference: reference, Status: resp.StatusCode}
	}

	var body apiVerse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		return scripture.VerseRecord{}, &FetchError{Kind: KindDecode, Reference: reference, Err: err}
	}
	text := strings.TrimSpace(body.Text)
	if text == "" {
		return scripture.VerseRecord{}, &FetchError{Kind: KindMissingField, Reference: reference, Err: errors.New(`missing "text"`)}
	}
	if strings.TrimSpace(body.Reference) == "" {
		return scripture.VerseRecord{}, &FetchError{Kind: KindMissingField, Reference: reference, Err: errors.New(`missing "reference"`)}
	}
	return scripture.VerseRecord{
		Text:      text,
		Reference: strings.TrimSpace(body.Reference),
		Date:      scripture.Today(f.now()),
	}, nil
}

// URL returns the request URL for reference, with the reference escaped as a
// single path segment ("John 3:16" becomes "John%203:16").
func (f *Fetcher) URL(reference string) string {
	return fmt.Sprintf("%s%s", f.baseURL, url.PathEscape(reference))
}

// Package cache persists the verse of the day as a single JSON file keyed by
// calendar date.
//
// There is no locking and no atomic rename: one process writes the file once
// per day.
package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/flarebyte/manna/internal/scripture"
)

// DefaultPath is the cache file name, relative to the working directory.
const DefaultPath = "verse_of_the_day.json"

// Daily is a one-record store that only answers for today.
type Daily struct {
	path string
	now  func() time.Time
	log  *zap.Logger
}

// Option configures a Daily cache.
type Option func(*Daily)

// WithClock sets the clock that defines "today".
func WithClock(now func() time.Time) Option {
	return func(d *Daily) { d.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(d *Daily) {
		if l != nil {
			d.log = l
		}
	}
}

// New returns a Daily cache backed by path. An empty path selects DefaultPath.
func New(path string, opts ...Option) *Daily {
	if path == "" {
		path = DefaultPath
	}
	d := &Daily{path: path, now: time.Now, log: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Path returns the cache file location.
func (d *Daily) Path() string { return d.path }

// Load returns the cached record if it was stored today. A missing file, a
// record from another day, or an unreadable record all report absent; only
// I/O failures other than a missing file are returned as errors.
func (d *Daily) Load() (scripture.VerseRecord, bool, error) {
	data, err := os.ReadFile(d.path)
	if errors.Is(err, fs.ErrNotExist) {
		return scripture.VerseRecord{}, false, nil
	}
	if err != nil {
		return scripture.VerseRecord{}, false, err
	}
	var rec scripture.VerseRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		d.log.Debug("ignoring unreadable cache", zap.String("path", d.path), zap.Error(err))
		return scripture.VerseRecord{}, false, nil
	}
	today := scripture.Today(d.now())
	if rec.Date != today {
		d.log.Debug("cache is stale", zap.String("cached", rec.Date), zap.String("today", today))
		return scripture.VerseRecord{}, false, nil
	}
	return rec, true, nil
}

// Save overwrites the cache file with rec, creating parent directories.
func (d *Daily) Save(rec scripture.VerseRecord) error {
	if dir := filepath.Dir(d.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	b, err := Marshal(rec)
	if err != nil {
		return err
	}
	return os.WriteFile(d.path, b, 0o644)
}

// Marshal returns the on-disk form of rec: JSON indented by four spaces with
// a trailing newline.
func Marshal(rec scripture.VerseRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

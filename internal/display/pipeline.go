// Package display runs the verse pipeline: consult the daily cache, fetch a
// new verse on a miss, then render it with its commentary link.
package display

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/flarebyte/manna/internal/scripture"
)

// ErrNoVerse is returned when neither the cache nor the API produced a verse.
var ErrNoVerse = errors.New("failed to retrieve or load verse")

// State is a pipeline state.
type State int

const (
	// NeedVerse consults the cache and fetches on a miss.
	NeedVerse State = iota
	// HaveVerse renders the verse and its link. It is terminal.
	HaveVerse
)

func (s State) String() string {
	switch s {
	case NeedVerse:
		return "need-verse"
	case HaveVerse:
		return "have-verse"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Cache stores today's verse.
type Cache interface {
	Load() (scripture.VerseRecord, bool, error)
	Save(rec scripture.VerseRecord) error
}

// Fetcher retrieves a verse by reference.
type Fetcher interface {
	Fetch(ctx context.Context, reference string) (scripture.VerseRecord, error)
}

// Selector chooses references.
type Selector interface {
	Random() scripture.VerseReference
	Themed(name string) (string, bool)
}

// Linker derives a commentary URL.
type Linker interface {
	Generate(reference string) (string, error)
}

// Deps are the collaborators a Pipeline drives. Logger may be nil.
type Deps struct {
	Cache    Cache
	Fetcher  Fetcher
	Selector Selector
	Linker   Linker
	Renderer Renderer
	Logger   *zap.Logger
}

// Options control a single run.
type Options struct {
	// Theme selects from the theme table first; empty means random.
	Theme string
	// ForceNew skips the cache lookup. The fetched verse still replaces it.
	ForceNew bool
}

// Pipeline is a two-state machine from NeedVerse to HaveVerse.
type Pipeline struct {
	deps Deps
	log  *zap.Logger
}

// New returns a Pipeline over deps.
func New(deps Deps) *Pipeline {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{deps: deps, log: log}
}

// Run acquires a verse and renders it. When no verse can be obtained the
// failure notice is rendered and the returned error wraps ErrNoVerse.
func (p *Pipeline) Run(ctx context.Context, opts Options) (scripture.VerseRecord, error) {
	var rec scripture.VerseRecord
	state := NeedVerse
	for {
		p.log.Debug("pipeline state", zap.Stringer("state", state))
		switch state {
		case NeedVerse:
			r, err := p.acquire(ctx, opts)
			if err != nil {
				if rerr := p.deps.Renderer.Failure(); rerr != nil {
					return scripture.VerseRecord{}, errors.Join(err, rerr)
				}
				return scripture.VerseRecord{}, err
			}
			rec = r
			state = HaveVerse
		case HaveVerse:
			return rec, p.show(rec)
		}
	}
}

func (p *Pipeline) acquire(ctx context.Context, opts Options) (scripture.VerseRecord, error) {
	if !opts.ForceNew {
		rec, ok, err := p.deps.Cache.Load()
		switch {
		case err != nil:
			p.log.Warn("cache unreadable, fetching a new verse", zap.Error(err))
		case ok:
			p.log.Debug("using cached verse", zap.String("reference", rec.Reference))
			return rec, nil
		}
	}

	rec, err := p.fetchNew(ctx, opts.Theme)
	if err != nil {
		return scripture.VerseRecord{}, fmt.Errorf("%w: %w", ErrNoVerse, err)
	}
	if err := p.deps.Cache.Save(rec); err != nil {
		p.log.Warn("failed to cache verse", zap.Error(err))
	}
	return rec, nil
}

// fetchNew tries the theme first, then falls back to a random reference.
func (p *Pipeline) fetchNew(ctx context.Context, theme string) (scripture.VerseRecord, error) {
	if theme != "" {
		ref, ok := p.deps.Selector.Themed(theme)
		if !ok {
			p.log.Warn("unknown theme, using a random verse", zap.String("theme", theme))
		} else {
			rec, err := p.deps.Fetcher.Fetch(ctx, ref)
			if err == nil {
				return rec, nil
			}
			p.log.Warn("themed fetch failed, using a random verse", zap.String("theme", theme), zap.Error(err))
		}
	}
	return p.deps.Fetcher.Fetch(ctx, p.deps.Selector.Random().String())
}

func (p *Pipeline) show(rec scripture.VerseRecord) error {
	if err := p.deps.Renderer.Verse(rec); err != nil {
		return err
	}
	url, err := p.deps.Linker.Generate(rec.Reference)
	if err != nil {
		p.log.Debug("no commentary link", zap.Error(err))
		return p.deps.Renderer.NoLink()
	}
	return p.deps.Renderer.Link(url)
}

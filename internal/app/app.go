// Package app builds the collaborators for one manna invocation from a
// resolved configuration. Everything is constructed once here and passed
// down; nothing below reads globals.
package app

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/flarebyte/manna/internal/cache"
	"github.com/flarebyte/manna/internal/config"
	"github.com/flarebyte/manna/internal/display"
	"github.com/flarebyte/manna/internal/fetch"
	"github.com/flarebyte/manna/internal/link"
	"github.com/flarebyte/manna/internal/scripture"
	"github.com/flarebyte/manna/internal/selector"
)

// Options adjust wiring beyond what Config carries.
type Options struct {
	// Plain forces the plain renderer regardless of the configured style.
	Plain bool
	// Now overrides the wall clock.
	Now func() time.Time
	// Rand overrides the selection source.
	Rand *rand.Rand
}

// App holds the wired pipeline and the tables it was built from.
type App struct {
	Config   config.Config
	Books    scripture.BookTable
	Themes   scripture.ThemeTable
	Renderer display.Renderer
	Pipeline *display.Pipeline

	log *zap.Logger
}

// New loads the data tables and wires the pipeline to write to out.
func New(cfg config.Config, log *zap.Logger, out io.Writer, opts Options) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	books, err := scripture.LoadBooks(cfg.BooksFile)
	if err != nil {
		return nil, err
	}
	themes, err := scripture.LoadThemes(cfg.ThemesFile)
	if err != nil {
		return nil, err
	}

	r, err := newRenderer(cfg, out, opts.Plain)
	if err != nil {
		return nil, err
	}

	sel := selector.New(books, themes, opts.Rand)
	fetcher := fetch.New(cfg.APIBaseURL,
		fetch.WithTimeout(cfg.APITimeout),
		fetch.WithClock(now),
		fetch.WithLogger(log.Named("fetch")),
	)
	store := cache.New(cfg.CachePath,
		cache.WithClock(now),
		cache.WithLogger(log.Named("cache")),
	)
	linker := link.NewGenerator(cfg.LinkBaseURL, cfg.LinkLua)

	p := display.New(display.Deps{
		Cache:    store,
		Fetcher:  fetcher,
		Selector: sel,
		Linker:   linker,
		Renderer: r,
		Logger:   log.Named("pipeline"),
	})
	return &App{
		Config:   cfg,
		Books:    books,
		Themes:   themes,
		Renderer: r,
		Pipeline: p,
		log:      log,
	}, nil
}

func newRenderer(cfg config.Config, out io.Writer, plain bool) (display.Renderer, error) {
	if plain || cfg.RenderStyle == "plain" {
		return display.NewPlain(out), nil
	}
	m, err := display.NewMarkdown(out, cfg.RenderStyle, cfg.WordWrap)
	if err != nil {
		return nil, fmt.Errorf("render style %q: %w", cfg.RenderStyle, err)
	}
	return m, nil
}

// Verse runs the display pipeline once.
func (a *App) Verse(ctx context.Context, opts display.Options) (scripture.VerseRecord, error) {
	a.log.Debug("running verse pipeline",
		zap.String("theme", opts.Theme),
		zap.Bool("forceNew", opts.ForceNew),
		zap.String("cache", a.Config.CachePath),
	)
	return a.Pipeline.Run(ctx, opts)
}

// ListThemes renders the available theme names.
func (a *App) ListThemes() error {
	return a.Renderer.Themes(a.Themes.Names())
}

// Package config resolves manna settings from defaults, an optional CUE
// file, a .env file and MANNA_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/flarebyte/manna/internal/cache"
	"github.com/flarebyte/manna/internal/fetch"
	"github.com/flarebyte/manna/internal/link"
	"github.com/flarebyte/manna/internal/logging"
)

const (
	// EnvConfigPath names a config file when --config is not given.
	EnvConfigPath = "MANNA_CONFIG"
	// DotEnvFile is read from the working directory when present.
	DotEnvFile = ".env"
)

// RenderStyles lists the accepted values for RenderStyle. "plain" disables
// Markdown rendering; the rest are glamour styles.
var RenderStyles = []string{"auto", "plain", "ascii", "dark", "dracula", "light", "notty", "pink", "tokyo-night"}

// Config holds resolved settings. Empty data paths select the embedded tables.
type Config struct {
	ConfigVersion string

	APIBaseURL  string        `env:"MANNA_API_BASE_URL"`
	APITimeout  time.Duration `env:"MANNA_API_TIMEOUT"`
	CachePath   string        `env:"MANNA_CACHE_PATH"`
	BooksFile   string        `env:"MANNA_BOOKS_FILE"`
	ThemesFile  string        `env:"MANNA_THEMES_FILE"`
	LinkBaseURL string        `env:"MANNA_LINK_BASE_URL"`
	LinkLua     string        `env:"MANNA_LINK_LUA"`
	RenderStyle string        `env:"MANNA_STYLE"`
	WordWrap    int           `env:"MANNA_WORD_WRAP"`
	LogLevel    string        `env:"MANNA_LOG_LEVEL"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ConfigVersion: CurrentConfigVersion,
		APIBaseURL:    fetch.DefaultBaseURL,
		APITimeout:    fetch.DefaultTimeout,
		CachePath:     cache.DefaultPath,
		LinkBaseURL:   link.DefaultBaseURL,
		RenderStyle:   "auto",
		WordWrap:      80,
		LogLevel:      logging.DefaultLevel,
	}
}

// Load resolves the full configuration. path may be empty, in which case
// MANNA_CONFIG is consulted; with neither, no file is read.
func Load(path string) (Config, error) {
	cfg := Default()
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read %s: %w", DotEnvFile, err)
	}
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := ParseFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// fileConfig mirrors the CUE layout; Decode follows the json tags.
type fileConfig struct {
	ConfigVersion string `json:"configVersion"`
	API           struct {
		BaseURL string `json:"baseURL"`
		Timeout string `json:"timeout"`
	} `json:"api"`
	Cache struct {
		Path string `json:"path"`
	} `json:"cache"`
	Data struct {
		Books  string `json:"books"`
		Themes string `json:"themes"`
	} `json:"data"`
	Link struct {
		BaseURL string `json:"baseURL"`
		Lua     string `json:"lua"`
	} `json:"link"`
	Render struct {
		Style    string `json:"style"`
		WordWrap *int   `json:"wordWrap"`
	} `json:"render"`
	Log struct {
		Level string `json:"level"`
	} `json:"log"`
}

// ParseFile overlays the settings present in the CUE file at path onto cfg.
// Relative data and cache paths are resolved against the file's directory.
func ParseFile(path string, cfg *Config) error {
	ctx := cuecontext.New()
	v, err := compileCUE(ctx, path)
	if err != nil {
		return err
	}
	if err := requireStringField(v, "configVersion"); err != nil {
		return err
	}
	var version string
	if err := v.LookupPath(cue.ParsePath("configVersion")).Decode(&version); err != nil {
		return fmt.Errorf("invalid value for configVersion: %v", err)
	}
	if !IsSupportedConfigVersion(version) {
		return fmt.Errorf("unsupported configVersion: %q (supported: %s)", version, SupportedConfigVersionsCSV())
	}
	u, err := validateSchema(ctx, v)
	if err != nil {
		return err
	}
	var fc fileConfig
	if err := u.Decode(&fc); err != nil {
		return fmt.Errorf("invalid config: %v", err)
	}

	cfg.ConfigVersion = fc.ConfigVersion
	if fc.API.BaseURL != "" {
		cfg.APIBaseURL = fc.API.BaseURL
	}
	if fc.API.Timeout != "" {
		d, err := time.ParseDuration(fc.API.Timeout)
		if err != nil {
			return fmt.Errorf("invalid value for api.timeout: %v", err)
		}
		cfg.APITimeout = d
	}
	if fc.Cache.Path != "" {
		cfg.CachePath = resolveRelative(path, fc.Cache.Path)
	}
	if fc.Data.Books != "" {
		cfg.BooksFile = resolveRelative(path, fc.Data.Books)
	}
	if fc.Data.Themes != "" {
		cfg.ThemesFile = resolveRelative(path, fc.Data.Themes)
	}
	if fc.Link.BaseURL != "" {
		cfg.LinkBaseURL = fc.Link.BaseURL
	}
	if fc.Link.Lua != "" {
		cfg.LinkLua = fc.Link.Lua
	}
	if fc.Render.Style != "" {
		cfg.RenderStyle = fc.Render.Style
	}
	if fc.Render.WordWrap != nil {
		cfg.WordWrap = *fc.Render.WordWrap
	}
	if fc.Log.Level != "" {
		cfg.LogLevel = fc.Log.Level
	}
	return nil
}

// ParseEnv overlays MANNA_* variables that are set onto cfg.
func ParseEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks values that may have come from the environment unchecked.
func (c Config) Validate() error {
	if c.APITimeout <= 0 {
		return fmt.Errorf("invalid api timeout: %s (must be positive)", c.APITimeout)
	}
	if c.WordWrap < 0 {
		return fmt.Errorf("invalid word wrap: %d (must not be negative)", c.WordWrap)
	}
	if !slices.Contains(RenderStyles, c.RenderStyle) {
		return fmt.Errorf("invalid render style %q", c.RenderStyle)
	}
	return nil
}

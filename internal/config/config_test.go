package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write cfg: %v", err)
	}
	return p
}

// isolate runs the test from an empty directory so no stray .env is read.
func isolate(t *testing.T) string {
	t.Helper()
	d := t.TempDir()
	t.Chdir(d)
	return d
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "https://bible-api.com/", cfg.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.Equal(t, "verse_of_the_day.json", cfg.CachePath)
	assert.Equal(t, "https://biblehub.com/", cfg.LinkBaseURL)
}

func TestLoad_CUEFile(t *testing.T) {
	d := isolate(t)
	p := writeConfig(t, d, "manna.cue", `
configVersion: "1"
api: {
	baseURL: "http://localhost:9000/"
	timeout: "3s"
}
cache: path: "state/verse.json"
data: {
	books:  "/srv/books.json"
	themes: "themes.yaml"
}
link: lua: "base .. slug"
render: {
	style:    "plain"
	wordWrap: 0
}
log: level: "info"
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, Config{
		ConfigVersion: "1",
		APIBaseURL:    "http://localhost:9000/",
		APITimeout:    3 * time.Second,
		CachePath:     filepath.Join(d, "state", "verse.json"),
		BooksFile:     "/srv/books.json",
		ThemesFile:    filepath.Join(d, "themes.yaml"),
		LinkBaseURL:   "https://biblehub.com/",
		LinkLua:       "base .. slug",
		RenderStyle:   "plain",
		WordWrap:      0,
		LogLevel:      "info",
	}, cfg)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	d := isolate(t)
	p := writeConfig(t, d, "manna.cue", `
configVersion: "1"
api: timeout: "3s"
render: style: "dark"
`)
	t.Setenv("MANNA_API_TIMEOUT", "250ms")
	t.Setenv("MANNA_STYLE", "light")
	t.Setenv("MANNA_CACHE_PATH", "/tmp/manna.json")

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.APITimeout)
	assert.Equal(t, "light", cfg.RenderStyle)
	assert.Equal(t, "/tmp/manna.json", cfg.CachePath)
	assert.Equal(t, 80, cfg.WordWrap)
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	d := isolate(t)
	p := writeConfig(t, d, "manna.cue", `configVersion: "1", render: style: "notty"`)
	t.Setenv(EnvConfigPath, p)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "notty", cfg.RenderStyle)
}

func TestLoad_DotEnv(t *testing.T) {
	d := isolate(t)
	writeConfig(t, d, DotEnvFile, "MANNA_THEMES_FILE=custom-themes.json\n")
	t.Cleanup(func() { _ = os.Unsetenv("MANNA_THEMES_FILE") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "custom-themes.json", cfg.ThemesFile)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{name: "wrong extension", file: "manna.json", content: `{}`, wantErr: "unsupported config format: expected .cue"},
		{name: "syntax", file: "manna.cue", content: `configVersion: `, wantErr: "invalid config:"},
		{name: "missing version", file: "manna.cue", content: `render: style: "dark"`, wantErr: "missing required field: configVersion"},
		{name: "version type", file: "manna.cue", content: `configVersion: 1`, wantErr: "invalid type for field: configVersion (expected string)"},
		{name: "unknown field", file: "manna.cue", content: `configVersion: "1", colour: "red"`, wantErr: "invalid config:"},
		{name: "bad style", file: "manna.cue", content: `configVersion: "1", render: style: "neon"`, wantErr: "invalid config:"},
		{name: "bad url", file: "manna.cue", content: `configVersion: "1", api: baseURL: "ftp://x"`, wantErr: "invalid config:"},
		{name: "bad timeout", file: "manna.cue", content: `configVersion: "1", api: timeout: "soon"`, wantErr: "invalid value for api.timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := isolate(t)
			p := writeConfig(t, d, tt.file, tt.content)
			_, err := Load(p)
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.wantErr), "got %q, want substring %q", err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	isolate(t)
	_, err := Load("nowhere.cue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoad_InvalidEnv(t *testing.T) {
	isolate(t)
	t.Setenv("MANNA_WORD_WRAP", "wide")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.RenderStyle = "neon"
	assert.EqualError(t, cfg.Validate(), `invalid render style "neon"`)

	cfg = Default()
	cfg.APITimeout = 0
	assert.EqualError(t, cfg.Validate(), "invalid api timeout: 0s (must be positive)")

	cfg = Default()
	cfg.WordWrap = -1
	assert.EqualError(t, cfg.Validate(), "invalid word wrap: -1 (must not be negative)")
}

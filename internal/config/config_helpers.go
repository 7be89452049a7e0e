package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
)

// schema closes the config file: unknown fields and out-of-range values are
// rejected before decoding.
const schema = `
#Config: {
	configVersion: string
	api?: {
		baseURL?: string & =~"^https?://"
		timeout?: string
	}
	cache?: {
		path?: string
	}
	data?: {
		books?:  string
		themes?: string
	}
	link?: {
		baseURL?: string & =~"^https?://"
		lua?:     string
	}
	render?: {
		style?:    "auto" | "plain" | "ascii" | "dark" | "dracula" | "light" | "notty" | "pink" | "tokyo-night"
		wordWrap?: int & >=0
	}
	log?: {
		level?: "debug" | "info" | "warn" | "error"
	}
}
`

// compileCUE loads and compiles a CUE file at the given path.
func compileCUE(ctx *cue.Context, path string) (cue.Value, error) {
	if filepath.Ext(path) != ".cue" {
		return cue.Value{}, errors.New("unsupported config format: expected .cue")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("failed to read config: %w", err)
	}
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("invalid config: %v", err)
	}
	return v, nil
}

func requireStringField(v cue.Value, name string) error {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return fmt.Errorf("missing required field: %s", name)
	}
	if f.Kind() != cue.StringKind {
		return fmt.Errorf("invalid type for field: %s (expected string)", name)
	}
	return nil
}

// validateSchema unifies v with #Config and requires a concrete result.
func validateSchema(ctx *cue.Context, v cue.Value) (cue.Value, error) {
	s := ctx.CompileString(schema, cue.Filename("schema.cue"))
	if err := s.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("invalid schema: %v", err)
	}
	u := s.LookupPath(cue.ParsePath("#Config")).Unify(v)
	if err := u.Validate(cue.Concrete(true)); err != nil {
		return cue.Value{}, fmt.Errorf("invalid config: %v", err)
	}
	return u, nil
}

// resolveRelative anchors a data path to the directory of the config file
// that named it.
func resolveRelative(cfgPath, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(cfgPath), p)
}

package scripture

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

var (
	//go:embed data/books.json
	defaultBooks []byte
	//go:embed data/themes.json
	defaultThemes []byte
)

// schema constrains data files before they are decoded. JSON is valid CUE,
// so .json and .cue files share the same path.
const schema = `
#Books: [string]: {[=~"^[1-9][0-9]*$"]: int & >=1}
#Themes: [string]: [string, ...string]
`

// DefaultBooks returns the book table shipped with the binary.
func DefaultBooks() BookTable {
	b, err := parseBooks("books.json", defaultBooks)
	if err != nil {
		panic(fmt.Sprintf("embedded book table: %v", err))
	}
	return b
}

// DefaultThemes returns the theme table shipped with the binary.
func DefaultThemes() ThemeTable {
	t, err := parseThemes("themes.json", defaultThemes)
	if err != nil {
		panic(fmt.Sprintf("embedded theme table: %v", err))
	}
	return t
}

// LoadBooks reads a book table from path. An empty path yields the defaults.
func LoadBooks(path string) (BookTable, error) {
	if path == "" {
		return DefaultBooks(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read book table: %w", err)
	}
	b, err := parseBooks(path, data)
	if err != nil {
		return nil, fmt.Errorf("invalid book table %s: %w", path, err)
	}
	return b, nil
}

// LoadThemes reads a theme table from path. An empty path yields the defaults.
func LoadThemes(path string) (ThemeTable, error) {
	if path == "" {
		return DefaultThemes(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme table: %w", err)
	}
	t, err := parseThemes(path, data)
	if err != nil {
		return nil, fmt.Errorf("invalid theme table %s: %w", path, err)
	}
	return t, nil
}

func parseBooks(path string, data []byte) (BookTable, error) {
	var raw map[string]map[string]int
	if err := decodeTable(path, data, "#Books", &raw); err != nil {
		return nil, err
	}
	out := make(BookTable, len(raw))
	for book, chapters := range raw {
		m := make(map[int]int, len(chapters))
		for key, n := range chapters {
			ch, err := strconv.Atoi(key)
			if err != nil {
				return nil, fmt.Errorf("book %q: invalid chapter key %q", book, key)
			}
			m[ch] = n
		}
		out[book] = m
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseThemes(path string, data []byte) (ThemeTable, error) {
	var raw map[string][]string
	if err := decodeTable(path, data, "#Themes", &raw); err != nil {
		return nil, err
	}
	out := make(ThemeTable, len(raw))
	for name, refs := range raw {
		out[name] = refs
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeTable(path string, data []byte, def string, dst any) error {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, dst); err != nil {
			return fmt.Errorf("invalid YAML: %v", err)
		}
		return nil
	case ".json", ".cue":
		return decodeCUE(path, data, def, dst)
	default:
		return errors.New("unsupported table format: expected .json, .cue, .yaml or .yml")
	}
}

func decodeCUE(path string, data []byte, def string, dst any) error {
	ctx := cuecontext.New()
	s := ctx.CompileString(schema, cue.Filename("schema.cue"))
	if err := s.Err(); err != nil {
		return fmt.Errorf("invalid schema: %v", err)
	}
	v := ctx.CompileBytes(data, cue.Filename(filepath.Base(path)))
	if err := v.Err(); err != nil {
		return fmt.Errorf("invalid table: %v", err)
	}
	u := s.LookupPath(cue.ParsePath(def)).Unify(v)
	if err := u.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema violation: %v", err)
	}
	return u.Decode(dst)
}

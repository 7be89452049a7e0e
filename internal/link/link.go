// Package link derives a commentary URL from a verse reference.
package link

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultBaseURL is the commentary site links point at.
const DefaultBaseURL = "https://biblehub.com/"

// LinkFormatError reports a reference that does not have the
// "<Book words> <chapter>:<verse>" shape. It only suppresses the link.
type LinkFormatError struct {
	Reference string
	Reason    string
}

func (e *LinkFormatError) Error() string {
	return fmt.Sprintf("cannot link %q: %s", e.Reference, e.Reason)
}

// Parts is a reference split into the pieces a link is built from.
type Parts struct {
	Book    string // as written, e.g. "1 Corinthians"
	Slug    string // lowercased and hyphen-joined, e.g. "1-corinthians"
	Chapter string
	Verse   string
}

// Parse splits reference on its single colon, then takes the last
// whitespace-separated token before it as the chapter and the rest as the book.
func Parse(reference string) (Parts, error) {
	bookChapter, verse, ok := strings.Cut(reference, ":")
	if !ok {
		return Parts{}, &LinkFormatError{Reference: reference, Reason: "missing ':'"}
	}
	if strings.Contains(verse, ":") {
		return Parts{}, &LinkFormatError{Reference: reference, Reason: "more than one ':'"}
	}
	verse = strings.TrimSpace(verse)
	if verse == "" {
		return Parts{}, &LinkFormatError{Reference: reference, Reason: "missing verse"}
	}
	fields := strings.Fields(bookChapter)
	if len(fields) < 2 {
		return Parts{}, &LinkFormatError{Reference: reference, Reason: "missing book or chapter"}
	}
	book := fields[:len(fields)-1]
	return Parts{
		Book:    strings.Join(book, " "),
		Slug:    cases.Lower(language.Und).String(strings.Join(book, "-")),
		Chapter: fields[len(fields)-1],
		Verse:   verse,
	}, nil
}

// Generate builds the default biblehub link, e.g.
// "John 3:16" -> "https://biblehub.com/john/3-16.htm".
func Generate(reference string) (string, error) {
	return NewGenerator("", "").Generate(reference)
}

// Generator builds links against a base URL, or through a Lua expression when
// one is configured.
type Generator struct {
	baseURL string
	lua     string
	timeout time.Duration
}

// NewGenerator returns a Generator. An empty baseURL selects DefaultBaseURL;
// an empty luaExpr selects the built-in link shape.
func NewGenerator(baseURL, luaExpr string) *Generator {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Generator{baseURL: baseURL, lua: strings.TrimSpace(luaExpr), timeout: defaultLuaTimeout}
}

// Generate returns the commentary URL for reference.
func (g *Generator) Generate(reference string) (string, error) {
	p, err := Parse(reference)
	if err != nil {
		return "", err
	}
	if g.lua != "" {
		return g.evalLua(reference, p)
	}
	return fmt.Sprintf("%s%s/%s-%s.htm", g.baseURL, p.Slug, p.Chapter, p.Verse), nil
}

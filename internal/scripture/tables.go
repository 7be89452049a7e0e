package scripture

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// BookTable maps a book name to its chapters and each chapter's verse count.
// It defines the space random selection draws from.
type BookTable map[string]map[int]int

// Books returns the book names in sorted order.
func (b BookTable) Books() []string {
	return slices.Sorted(maps.Keys(b))
}

// Chapters returns the chapter numbers of book in ascending order.
func (b BookTable) Chapters(book string) []int {
	return slices.Sorted(maps.Keys(b[book]))
}

// MaxVerse returns the verse count recorded for book and chapter.
func (b BookTable) MaxVerse(book string, chapter int) (int, bool) {
	chapters, ok := b[book]
	if !ok {
		return 0, false
	}
	n, ok := chapters[chapter]
	return n, ok
}

// Contains reports whether ref falls inside the table.
func (b BookTable) Contains(ref VerseReference) bool {
	n, ok := b.MaxVerse(ref.Book, ref.Chapter)
	return ok && ref.Verse >= 1 && ref.Verse <= n
}

// Validate checks the table is non-empty and every count is positive.
func (b BookTable) Validate() error {
	if len(b) == 0 {
		return errors.New("book table is empty")
	}
	for _, book := range b.Books() {
		if strings.TrimSpace(book) == "" {
			return errors.New("book table has an empty book name")
		}
		chapters := b[book]
		if len(chapters) == 0 {
			return fmt.Errorf("book %q has no chapters", book)
		}
		for _, ch := range b.Chapters(book) {
			if ch < 1 {
				return fmt.Errorf("book %q: invalid chapter %d", book, ch)
			}
			if chapters[ch] < 1 {
				return fmt.Errorf("book %q chapter %d: invalid verse count %d", book, ch, chapters[ch])
			}
		}
	}
	return nil
}

// ThemeTable maps a lowercase theme name to an ordered list of literal
// references.
type ThemeTable map[string][]string

// Names returns the theme names in sorted order.
func (t ThemeTable) Names() []string {
	return slices.Sorted(maps.Keys(t))
}

// Lookup returns a copy of the references for name, matched case-insensitively.
func (t ThemeTable) Lookup(name string) ([]string, bool) {
	refs, ok := t[normalizeTheme(name)]
	if !ok || len(refs) == 0 {
		return nil, false
	}
	return slices.Clone(refs), true
}

// Validate checks theme names are lowercase and every theme has references.
func (t ThemeTable) Validate() error {
	for _, name := range t.Names() {
		if name == "" || name != normalizeTheme(name) {
			return fmt.Errorf("theme %q: name must be lowercase and trimmed", name)
		}
		refs := t[name]
		if len(refs) == 0 {
			return fmt.Errorf("theme %q has no references", name)
		}
		for i, ref := range refs {
			if strings.TrimSpace(ref) == "" {
				return fmt.Errorf("theme %q: empty reference at index %d", name, i)
			}
		}
	}
	return nil
}

func normalizeTheme(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Package selector chooses which verse to fetch.
//
// Random selection is uniform over enumerated keys: a book, then one of its
// chapters, then a verse within that chapter. It is not weighted by how many
// verses a book or chapter holds.
package selector

import (
	"math/rand"
	"time"

	"github.com/flarebyte/manna/internal/scripture"
)

// Selector picks references from static book and theme tables.
type Selector struct {
	books  scripture.BookTable
	themes scripture.ThemeTable
	rng    *rand.Rand
}

// New returns a Selector over books and themes. A nil rng is seeded from the
// wall clock.
func New(books scripture.BookTable, themes scripture.ThemeTable, rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{books: books, themes: themes, rng: rng}
}

// Random draws a book, a chapter of that book and a verse of that chapter.
func (s *Selector) Random() scripture.VerseReference {
	books := s.books.Books()
	book := books[s.rng.Intn(len(books))]
	chapters := s.books.Chapters(book)
	chapter := chapters[s.rng.Intn(len(chapters))]
	n, _ := s.books.MaxVerse(book, chapter)
	return scripture.VerseReference{
		Book:    book,
		Chapter: chapter,
		Verse:   s.rng.Intn(n) + 1,
	}
}

// Themed returns one reference from the named theme, or false when the theme
// is unknown.
func (s *Selector) Themed(name string) (string, bool) {
	refs, ok := s.themes.Lookup(name)
	if !ok {
		return "", false
	}
	return refs[s.rng.Intn(len(refs))], true
}

package scripture

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format stamped on cached records.
const DateLayout = "2006-01-02"

// VerseReference locates a single verse.
type VerseReference struct {
	Book    string
	Chapter int
	Verse   int
}

// String renders the reference as "<Book> <Chapter>:<Verse>".
func (r VerseReference) String() string {
	return fmt.Sprintf("%s %d:%d", r.Book, r.Chapter, r.Verse)
}

// VerseRecord is a fetched verse stamped with the day it was fetched.
// Field order is stable to keep the cache file deterministic.
type VerseRecord struct {
	Text      string `json:"text"`
	Reference string `json:"reference"`
	Date      string `json:"date"`
}

// Today formats t as a calendar date in t's location.
func Today(t time.Time) string {
	return t.Format(DateLayout)
}

// Package coverage turns arbitrary, possibly overlapping verse-range
// log entries into deduplicated per-chapter coverage sets and the
// counts derived from them. Building a set is order-independent and
// idempotent: feeding the same entries twice, in any order, yields the
// same result.
package coverage

import (
	"math"

	"hifz_tracker/internal/model"
	"hifz_tracker/internal/quran"
)

// Set maps chapter number to the set of covered verse numbers.
type Set map[int]map[int]struct{}

// versesPerPageEstimate is the fallback ratio used when exact page
// mapping is unavailable for a partially covered chapter.
const versesPerPageEstimate = 15

// Build unions the verse ranges of all entries into a coverage set.
// Entries referencing unknown chapters are skipped; ranges are clamped
// to the chapter's verse count.
func Build(entries []*model.ProgressEntry) Set {
	s := make(Set)
	for _, e := range entries {
		s.Add(e.Chapter, e.VerseStart, e.VerseEnd)
	}
	return s
}

// Add inserts every verse in [start, end] of the given chapter.
func (s Set) Add(chapter, start, end int) {
	ch, ok := quran.Get(chapter)
	if !ok {
		return
	}
	if start < 1 {
		start = 1
	}
	if end > ch.Verses {
		end = ch.Verses
	}
	if start > end {
		return
	}
	verses, ok := s[chapter]
	if !ok {
		verses = make(map[int]struct{}, end-start+1)
		s[chapter] = verses
	}
	for v := start; v <= end; v++ {
		verses[v] = struct{}{}
	}
}

// Covered returns the distinct covered-verse count of one chapter.
func (s Set) Covered(chapter int) int {
	return len(s[chapter])
}

// Complete reports whether every verse of the chapter is covered.
func (s Set) Complete(chapter int) bool {
	return len(s[chapter]) >= quran.VerseCount(chapter) && len(s[chapter]) > 0
}

// TotalVerses is the distinct covered-verse count across all chapters.
func (s Set) TotalVerses() int {
	total := 0
	for _, verses := range s {
		total += len(verses)
	}
	return total
}

// Stats are the counts derived from one coverage set.
type Stats struct {
	TotalVerses        int
	ChaptersComplete   int
	ChaptersInProgress int
	Pages              int
}

// Compute derives the counts of a set. Fully covered chapters
// contribute their exact distinct mushaf pages; partially covered ones
// fall back to the verses-per-page estimate, rounded to nearest.
func Compute(s Set) Stats {
	st := Stats{}
	pages := make(map[int]struct{})
	partialVerses := 0
	for chapter, verses := range s {
		if len(verses) == 0 {
			continue
		}
		st.TotalVerses += len(verses)
		ch, ok := quran.Get(chapter)
		if !ok {
			continue
		}
		if len(verses) >= ch.Verses {
			st.ChaptersComplete++
			for p := ch.PageStart; p <= ch.PageEnd; p++ {
				pages[p] = struct{}{}
			}
		} else {
			st.ChaptersInProgress++
			partialVerses += len(verses)
		}
	}
	st.Pages = len(pages) + int(math.Round(float64(partialVerses)/versesPerPageEstimate))
	return st
}

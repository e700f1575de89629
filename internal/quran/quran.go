// Package quran carries the immutable chapter reference data: verse
// counts per the Kufan/Hafs numbering and page ranges per the standard
// 604-page Madani mushaf. Never mutated at runtime.
package quran

// ChapterCount is the number of chapters.
const ChapterCount = 114

// PagesTotal is the page count of the reference mushaf.
const PagesTotal = 604

// Chapter is one fixed-length text unit.
type Chapter struct {
	Number    int
	Verses    int
	PageStart int
	PageEnd   int
}

// verseCounts[i] is the verse count of chapter i+1 (Kufan numbering).
var verseCounts = [ChapterCount]int{
	7, 286, 200, 176, 120, 165, 206, 75, 129, 109,
	123, 111, 43, 52, 99, 128, 111, 110, 98, 135,
	112, 78, 118, 64, 77, 227, 93, 88, 69, 60,
	34, 30, 73, 54, 45, 83, 182, 88, 75, 85,
	54, 53, 89, 59, 37, 35, 38, 29, 18, 45,
	60, 49, 62, 55, 78, 96, 29, 22, 24, 13,
	14, 11, 11, 18, 12, 12, 30, 52, 52, 44,
	28, 28, 20, 56, 40, 31, 50, 40, 46, 42,
	29, 19, 36, 25, 22, 17, 19, 26, 30, 20,
	15, 21, 11, 8, 8, 19, 5, 8, 8, 11,
	11, 8, 3, 9, 5, 4, 7, 3, 6, 3,
	5, 4, 5, 6,
}

// pageStarts[i] is the mushaf page on which chapter i+1 begins. Short
// chapters near the end share pages.
var pageStarts = [ChapterCount]int{
	1, 2, 50, 77, 106, 128, 151, 177, 187, 208,
	221, 235, 249, 255, 262, 267, 282, 293, 305, 312,
	322, 332, 342, 350, 359, 367, 377, 385, 396, 404,
	411, 415, 418, 428, 434, 440, 446, 453, 458, 467,
	477, 483, 489, 496, 499, 502, 507, 511, 515, 518,
	520, 523, 526, 528, 531, 534, 537, 542, 545, 549,
	551, 553, 554, 556, 558, 560, 562, 564, 566, 568,
	570, 572, 574, 575, 577, 578, 580, 582, 583, 585,
	586, 587, 587, 589, 590, 591, 591, 592, 593, 594,
	595, 595, 596, 596, 597, 597, 598, 598, 599, 599,
	600, 600, 601, 601, 601, 602, 602, 602, 603, 603,
	603, 604, 604, 604,
}

// Get returns the reference data for chapter n (1..114).
//
// PageEnd is the page on which the next chapter begins (604 for the
// last). Most chapters share their final page with the next chapter's
// opening, so this is usually exact; when the next chapter starts on a
// fresh page the span reads one page long. The table does not record
// which case applies, and the estimate already rounds partial
// chapters, so the looser bound is kept.
func Get(n int) (Chapter, bool) {
	if n < 1 || n > ChapterCount {
		return Chapter{}, false
	}
	end := PagesTotal
	if n < ChapterCount {
		end = pageStarts[n] // the next chapter's first page closes this one's range
	}
	return Chapter{
		Number:    n,
		Verses:    verseCounts[n-1],
		PageStart: pageStarts[n-1],
		PageEnd:   end,
	}, true
}

// VerseCount returns the verse count of chapter n, or 0 when out of
// range.
func VerseCount(n int) int {
	if n < 1 || n > ChapterCount {
		return 0
	}
	return verseCounts[n-1]
}

// TotalVerses is the verse count over all chapters (6236).
func TotalVerses() int {
	total := 0
	for _, v := range verseCounts {
		total += v
	}
	return total
}

// Package segmenter converts raw extracted legal-code text into an ordered
// sequence of article records. Source pages are adversarial and unstable,
// so segmentation never fails: the worst case is a single oversized
// preamble article.
package segmenter

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// PreambleNumber is the sentinel article number assigned to text that
// precedes the first marker line, or to a whole page without markers.
const PreambleNumber = "Preamble"

// Default configuration values.
const (
	// DefaultMinContentLength is the minimum article length in runes.
	// Shorter segments are scraping artifacts, not legal content.
	DefaultMinContentLength = 10

	// DefaultMaxMarkerLineLength caps how long a line starting with the
	// long spelling may be and still count as a marker. Prose merely
	// mentioning the word is longer than a real marker line.
	DefaultMaxMarkerLineLength = 30
)

// Marker spellings that open a new article.
const (
	markerAbbrev = "Чл."
	markerFull   = "Член"
)

// DefaultBoilerplate lists substrings of known site navigation artifacts.
// Segments containing any of them are discarded.
var DefaultBoilerplate = []string{
	"ДОБАВИ В МОИТЕ АКТОВЕ",
	"LEX.BG",
}

// articleNumberRe extracts the number token after the abbreviated marker:
// digits optionally followed by lowercase Cyrillic suffix letters ("70а").
var articleNumberRe = regexp.MustCompile(`^Чл\.\s*([0-9]+[а-я]*)\.?`)

// Segment is one extracted article record.
type Segment struct {
	// Number is the article label, e.g. "Чл. 70", or PreambleNumber.
	Number string `json:"number"`

	// Content is the article text including its marker line. Never empty.
	Content string `json:"content"`
}

// state tracks whether the scanner is accumulating an article.
type state int

const (
	outsideArticle state = iota
	insideArticle
)

// Segmenter splits page text into article records.
type Segmenter struct {
	minContent    int
	maxMarkerLine int
	boilerplate   []string
}

// Option configures the segmenter.
type Option func(*Segmenter)

// WithMinContentLength sets the minimum article content length in runes.
func WithMinContentLength(n int) Option {
	return func(s *Segmenter) {
		if n >= 0 {
			s.minContent = n
		}
	}
}

// WithMaxMarkerLineLength sets the marker-line length cap for the long
// spelling, in runes.
func WithMaxMarkerLineLength(n int) Option {
	return func(s *Segmenter) {
		if n > 0 {
			s.maxMarkerLine = n
		}
	}
}

// WithBoilerplate replaces the boilerplate substrings used by the
// post-filter.
func WithBoilerplate(markers ...string) Option {
	return func(s *Segmenter) {
		s.boilerplate = markers
	}
}

// New creates a segmenter with the given options.
func New(opts ...Option) *Segmenter {
	s := &Segmenter{
		minContent:    DefaultMinContentLength,
		maxMarkerLine: DefaultMaxMarkerLineLength,
		boilerplate:   DefaultBoilerplate,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Segment scans the text line by line and returns the extracted article
// records in order. The whole input is materialized up front; the result is
// always finite. Blank lines are skipped and never reset the scan state.
func (s *Segmenter) Segment(text string) []Segment {
	var (
		segments []Segment
		buf      strings.Builder
		number   = PreambleNumber
		st       = outsideArticle
	)

	flush := func() {
		content := strings.TrimSpace(buf.String())
		if content != "" {
			segments = append(segments, Segment{Number: number, Content: content})
		}
		buf.Reset()
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if s.isMarkerLine(line) {
			if st == insideArticle {
				flush()
			}
			number = extractNumber(line)
			// The marker line belongs to the article it opens.
			buf.WriteString(line)
			st = insideArticle
			continue
		}

		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(line)
		st = insideArticle
	}
	flush()

	return s.postFilter(segments)
}

// isMarkerLine reports whether the line opens a new article. The
// abbreviated spelling always counts; the full spelling only on short
// lines, since running prose mentions the word too.
func (s *Segmenter) isMarkerLine(line string) bool {
	if strings.HasPrefix(line, markerAbbrev) {
		return true
	}
	return strings.HasPrefix(line, markerFull) &&
		utf8.RuneCountInString(line) < s.maxMarkerLine
}

// extractNumber pulls the article number token out of a marker line.
// Falls back to the first whitespace-delimited token, then to the bare
// marker, so a mangled line still yields a usable label.
func extractNumber(line string) string {
	if m := articleNumberRe.FindStringSubmatch(line); m != nil {
		return markerAbbrev + " " + m[1]
	}
	if fields := strings.Fields(line); len(fields) > 0 && strings.HasPrefix(fields[0], "Чл") {
		return fields[0]
	}
	return markerAbbrev
}

// postFilter drops segments that are too short to be legal content or that
// contain known scraping artifacts. An article consisting of only its
// marker line is kept if it passes the length check: losing it silently
// would be a data-loss bug.
func (s *Segmenter) postFilter(segments []Segment) []Segment {
	kept := make([]Segment, 0, len(segments))
	for _, seg := range segments {
		if utf8.RuneCountInString(seg.Content) <= s.minContent {
			continue
		}
		if s.containsBoilerplate(seg.Content) {
			continue
		}
		kept = append(kept, seg)
	}
	return kept
}

func (s *Segmenter) containsBoilerplate(content string) bool {
	for _, marker := range s.boilerplate {
		if strings.Contains(content, marker) {
			return true
		}
	}
	return false
}

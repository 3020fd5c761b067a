// Package worklog implements the worklog document grammar: one line per work
// day of the form
//
//	YYYY-M-D DDD (H.Hh[+]): Task one. Task two.
//
// with unpadded month and day, a three-letter weekday label, hours to one
// decimal place, a trailing + while a timer is still running, and
// period-joined task descriptions. Entries are sorted most recent first and
// separated by a blank line, or by a horizontal rule when an ISO week
// boundary is crossed. The package treats the grammar as a small formal
// language: parsing is a hand-written scanner, not pattern matching, so that
// malformed hand-edited content is detected (and preserved) instead of
// corrupted.
package worklog

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Line is a parsed worklog entry line.
type Line struct {
	Date         time.Time
	WeekdayLabel string
	Hours        float64
	Running      bool
	Descriptions []string
}

// Format renders the canonical worklog line for a day. It is pure and total:
// any date, hour value and description list produces a valid line.
func Format(date time.Time, hours float64, descriptions []string, running bool) string {
	head := fmt.Sprintf("%d-%d-%d %s (%sh%s):",
		date.Year(), int(date.Month()), date.Day(),
		date.Weekday().String()[:3],
		formatHours(hours),
		runningMarker(running),
	)

	text := strings.Join(descriptions, ". ")
	if text != "" && !strings.HasSuffix(text, ".") {
		text += "."
	}
	if text == "" {
		return head
	}
	return head + " " + text
}

// formatHours renders hours the way the document grammar expects: minimal
// digits, but never without a decimal point ("3" becomes "3.0").
func formatHours(h float64) string {
	s := strconv.FormatFloat(h, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func runningMarker(running bool) string {
	if running {
		return "+"
	}
	return ""
}

// Parse matches line against the strict entry grammar. The second return
// value is false for anything malformed; Parse never panics. Only the first
// physical line is considered: continuation lines of a multi-line entry do
// not survive a merge.
func Parse(line string) (Line, bool) {
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}

	s := scanner{src: line}

	year, ok := s.digits(4, 4)
	if !ok || !s.literal('-') {
		return Line{}, false
	}
	month, ok := s.digits(1, 2)
	if !ok || !s.literal('-') {
		return Line{}, false
	}
	day, ok := s.digits(1, 2)
	if !ok {
		return Line{}, false
	}
	if !s.whitespace(1) {
		return Line{}, false
	}
	weekday, ok := s.letters(3, 3)
	if !ok {
		return Line{}, false
	}
	s.whitespace(0)
	if !s.literal('(') {
		return Line{}, false
	}
	hoursText, ok := s.number()
	if !ok || !s.literal('h') {
		return Line{}, false
	}
	running := s.literal('+')
	if !s.literal(')') || !s.literal(':') {
		return Line{}, false
	}
	rest := s.rest()
	if rest != "" {
		if !strings.HasPrefix(rest, " ") {
			return Line{}, false
		}
		rest = rest[1:]
	}

	date, ok := makeDate(year, month, day)
	if !ok {
		return Line{}, false
	}
	hours, err := strconv.ParseFloat(hoursText, 64)
	if err != nil {
		return Line{}, false
	}

	return Line{
		Date:         date,
		WeekdayLabel: weekday,
		Hours:        hours,
		Running:      running,
		Descriptions: splitDescriptions(rest),
	}, true
}

// Merge combines an existing entry for a day with a freshly computed one.
// Hours never regress (a stale partial fetch cannot shrink recorded
// progress), the running marker is sticky for the merge, and descriptions
// are unioned by exact string match, existing first. If either side is
// unparseable the new line wins verbatim.
func Merge(existing, updated string) string {
	prev, okPrev := Parse(existing)
	next, okNext := Parse(updated)
	if !okPrev || !okNext {
		return updated
	}

	hours := prev.Hours
	if next.Hours > hours {
		hours = next.Hours
	}

	seen := make(map[string]bool, len(prev.Descriptions)+len(next.Descriptions))
	var descriptions []string
	for _, d := range append(append([]string{}, prev.Descriptions...), next.Descriptions...) {
		if seen[d] {
			continue
		}
		seen[d] = true
		descriptions = append(descriptions, d)
	}

	return Format(prev.Date, hours, descriptions, prev.Running || next.Running)
}

// splitDescriptions breaks the description body on period boundaries,
// trimming whitespace and dropping empties.
func splitDescriptions(text string) []string {
	var out []string
	for _, part := range strings.Split(text, ".") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// makeDate validates year/month/day literals and returns the UTC midnight
// for them. Dates that do not exist on the calendar (2025-2-30) fail.
func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// scanner is a minimal cursor over a single line.
type scanner struct {
	src string
	pos int
}

func (s *scanner) literal(c byte) bool {
	if s.pos < len(s.src) && s.src[s.pos] == c {
		s.pos++
		return true
	}
	return false
}

// digits consumes between min and max digits and returns their value.
func (s *scanner) digits(min, max int) (int, bool) {
	start := s.pos
	for s.pos < len(s.src) && s.pos-start < max && isDigit(s.src[s.pos]) {
		s.pos++
	}
	if s.pos-start < min {
		s.pos = start
		return 0, false
	}
	v, err := strconv.Atoi(s.src[start:s.pos])
	if err != nil {
		return 0, false
	}
	return v, true
}

// letters consumes between min and max ASCII letters.
func (s *scanner) letters(min, max int) (string, bool) {
	start := s.pos
	for s.pos < len(s.src) && (max <= 0 || s.pos-start < max) && isLetter(s.src[s.pos]) {
		s.pos++
	}
	if s.pos-start < min {
		s.pos = start
		return "", false
	}
	return s.src[start:s.pos], true
}

// number consumes digits with an optional fractional part.
func (s *scanner) number() (string, bool) {
	start := s.pos
	for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
		s.pos++
	}
	if s.pos == start {
		return "", false
	}
	if s.pos < len(s.src) && s.src[s.pos] == '.' {
		s.pos++
		for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
			s.pos++
		}
	}
	return s.src[start:s.pos], true
}

// whitespace consumes spaces and tabs, requiring at least min of them.
func (s *scanner) whitespace(min int) bool {
	start := s.pos
	for s.pos < len(s.src) && (s.src[s.pos] == ' ' || s.src[s.pos] == '\t') {
		s.pos++
	}
	return s.pos-start >= min
}

func (s *scanner) rest() string {
	return s.src[s.pos:]
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

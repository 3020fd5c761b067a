package worklog

import (
	"strings"
	"time"
)

// Match is the span of an existing entry inside a document.
type Match struct {
	Text  string
	Start int
	End   int
}

// Locate finds the entry for date inside doc and returns its text span.
// The span starts at the entry's header line and extends across continuation
// lines until a blank line, a top-level bullet, the next entry header, or
// the end of the document. A miss is a normal outcome, not an error: it
// means no entry exists yet for that date.
//
// Matching is deliberately looser than Parse: any run of letters is accepted
// as the weekday label, so hand-edited entries are still found.
func Locate(doc string, date time.Time) (Match, bool) {
	wantYear, wantMonth, wantDay := date.Year(), int(date.Month()), date.Day()

	for pos := 0; pos < len(doc); {
		line, next := cutLine(doc, pos)
		y, m, d, ok := headerDate(line)
		if !ok || y != wantYear || m != wantMonth || d != wantDay {
			pos = next
			continue
		}

		start := pos
		end := pos + len(line)
		for cursor := next; cursor <= len(doc); {
			cont, after := cutLine(doc, cursor)
			if endsEntry(cont) {
				break
			}
			end = cursor + len(cont)
			cursor = after
		}
		return Match{Text: doc[start:end], Start: start, End: end}, true
	}
	return Match{}, false
}

// endsEntry reports whether line terminates the preceding entry's span:
// a blank line, a top-level bullet, or the header of another entry.
func endsEntry(line string) bool {
	if strings.TrimSpace(line) == "" {
		return true
	}
	if strings.HasPrefix(line, "*") {
		return true
	}
	return isHeader(line)
}

// cutLine returns the line starting at pos (without its newline) and the
// offset just past the newline.
func cutLine(doc string, pos int) (line string, next int) {
	if pos >= len(doc) {
		return "", len(doc) + 1
	}
	if i := strings.IndexByte(doc[pos:], '\n'); i >= 0 {
		return doc[pos : pos+i], pos + i + 1
	}
	return doc[pos:], len(doc) + 1
}

// isHeader reports whether line opens a worklog entry.
func isHeader(line string) bool {
	_, _, _, ok := headerDate(line)
	return ok
}

// headerDate matches the structural entry header (a literal date, a weekday
// label of one or more letters, and a parenthesised hours figure ending in
// "h", an optional "+", then "):") and returns the date components. The
// description body after the colon is not inspected.
func headerDate(line string) (year, month, day int, ok bool) {
	s := scanner{src: line}

	year, okYear := s.digits(4, 4)
	if !okYear || !s.literal('-') {
		return 0, 0, 0, false
	}
	month, okMonth := s.digits(1, 2)
	if !okMonth || !s.literal('-') {
		return 0, 0, 0, false
	}
	day, okDay := s.digits(1, 2)
	if !okDay {
		return 0, 0, 0, false
	}
	if !s.whitespace(1) {
		return 0, 0, 0, false
	}
	if _, okWd := s.letters(1, 0); !okWd {
		return 0, 0, 0, false
	}
	s.whitespace(0)
	if !s.literal('(') {
		return 0, 0, 0, false
	}
	if _, okNum := s.number(); !okNum {
		return 0, 0, 0, false
	}
	if !s.literal('h') {
		return 0, 0, 0, false
	}
	s.literal('+')
	if !s.literal(')') || !s.literal(':') {
		return 0, 0, 0, false
	}
	return year, month, day, true
}

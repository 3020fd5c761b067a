package worklog

import (
	"sort"
	"strings"
	"time"

	"github.com/jereslo/worklog-sync/internal/timecalc"
)

// Rule is the horizontal-rule block rendered between entries of different
// ISO weeks.
const Rule = "---"

// Insert places entryText at the top of doc: just after a leading title
// line when the document has one, at the very top otherwise.
func Insert(doc, entryText string) string {
	if strings.HasPrefix(doc, "# ") {
		i := strings.IndexByte(doc, '\n')
		if i < 0 {
			return doc + "\n\n" + entryText + "\n"
		}
		return doc[:i+1] + "\n" + entryText + "\n\n" + doc[i+1:]
	}
	return entryText + "\n\n" + doc
}

// Normalize re-parses the whole document and renders it back in canonical
// form: a leading title (if any) followed by one blank line, entries sorted
// most recent first, a single blank line between entries of the same ISO
// week and a horizontal-rule block on week boundaries, and a trailing
// newline. Chunks that do not parse as entries are preserved verbatim and
// sorted to the oldest position. Normalize is idempotent: applying it to
// its own output yields identical bytes.
func Normalize(doc string) string {
	title, body := splitTitle(doc)
	return render(title, extractEntries(body))
}

// entry is one extracted document chunk: a header line plus any
// continuation lines, or opaque legacy text that matched no header.
type entry struct {
	text  string
	date  time.Time
	dated bool
}

// splitTitle detaches a leading "# ..." title line for later reattachment.
func splitTitle(doc string) (title, rest string) {
	if !strings.HasPrefix(doc, "# ") {
		return "", doc
	}
	i := strings.IndexByte(doc, '\n')
	if i < 0 {
		return doc, ""
	}
	return doc[:i], doc[i+1:]
}

// extractEntries walks body line by line. A line matching the entry header
// grammar starts a new chunk; every other line continues the current one.
// Separator rules are dropped (they are regenerated on render), as are
// blank lines before the first chunk.
func extractEntries(body string) []entry {
	var entries []entry
	var cur []string
	curStarted := false

	flush := func() {
		if !curStarted {
			return
		}
		text := strings.TrimRight(strings.Join(cur, "\n"), " \t\n")
		if text != "" {
			entries = append(entries, makeEntry(text))
		}
		cur = cur[:0]
		curStarted = false
	}

	for _, line := range strings.Split(body, "\n") {
		switch {
		case isRule(line):
			continue
		case isHeader(line):
			flush()
			cur = append(cur, line)
			curStarted = true
		case !curStarted && strings.TrimSpace(line) == "":
			// leading blank before any content
			continue
		default:
			cur = append(cur, line)
			curStarted = true
		}
	}
	flush()
	return entries
}

// makeEntry attaches the parsed date of the chunk's header line, falling
// back to an undated chunk when the literal date is not a real calendar
// date.
func makeEntry(text string) entry {
	firstLine := text
	if i := strings.IndexByte(firstLine, '\n'); i >= 0 {
		firstLine = firstLine[:i]
	}
	if y, m, d, ok := headerDate(firstLine); ok {
		if date, valid := makeDate(y, m, d); valid {
			return entry{text: text, date: date, dated: true}
		}
	}
	return entry{text: text}
}

// isRule reports whether line is a horizontal-rule separator: three or more
// of the same rule character and nothing else. Bullets ("* ") never match
// because of the length and uniformity requirements.
func isRule(line string) bool {
	line = strings.TrimSpace(line)
	if len(line) < 3 {
		return false
	}
	c := line[0]
	if c != '-' && c != '_' && c != '*' {
		return false
	}
	for i := 1; i < len(line); i++ {
		if line[i] != c {
			return false
		}
	}
	return true
}

// render sorts entries newest first (undated chunks oldest, original order
// preserved among themselves) and rebuilds the document text.
func render(title string, entries []entry) string {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.dated && b.dated {
			return a.date.After(b.date)
		}
		return a.dated && !b.dated
	})

	var sb strings.Builder
	if title != "" {
		sb.WriteString(title)
		sb.WriteString("\n")
	}
	if len(entries) == 0 {
		if title == "" {
			return "\n"
		}
		return sb.String()
	}
	if title != "" {
		sb.WriteString("\n")
	}

	for i, e := range entries {
		if i > 0 {
			if weekBoundary(entries[i-1], e) {
				sb.WriteString("\n\n" + Rule + "\n\n")
			} else {
				sb.WriteString("\n\n")
			}
		}
		sb.WriteString(e.text)
	}
	sb.WriteString("\n")
	return sb.String()
}

// weekBoundary reports whether two consecutive entries belong to different
// Monday-anchored weeks. Undated chunks never force a rule.
func weekBoundary(a, b entry) bool {
	if !a.dated || !b.dated {
		return false
	}
	return !timecalc.WeekStart(a.date).Equal(timecalc.WeekStart(b.date))
}

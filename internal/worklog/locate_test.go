package worklog_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jereslo/worklog-sync/internal/worklog"
)

const locateDoc = `# Worklog

2025-4-10 Thu (3.0h): Task 3.

2025-4-9 Wed (2.5h): Task 1. Task 2.

2025-4-8 Tue (1.0h): Task 0.
`

func TestLocateFindsEntry(t *testing.T) {
	m, ok := worklog.Locate(locateDoc, date(2025, time.April, 9))
	require.True(t, ok)
	assert.Equal(t, "2025-4-9 Wed (2.5h): Task 1. Task 2.", m.Text)
	assert.Equal(t, m.Text, locateDoc[m.Start:m.End])
}

func TestLocateMissIsNormal(t *testing.T) {
	_, ok := worklog.Locate(locateDoc, date(2025, time.April, 11))
	assert.False(t, ok)
}

func TestLocateEmptyDocument(t *testing.T) {
	_, ok := worklog.Locate("", date(2025, time.April, 9))
	assert.False(t, ok)
}

func TestLocateSpliceReplacesOnlyTargetSpan(t *testing.T) {
	m, ok := worklog.Locate(locateDoc, date(2025, time.April, 9))
	require.True(t, ok)

	spliced := locateDoc[:m.Start] + "REPLACED" + locateDoc[m.End:]
	assert.Contains(t, spliced, "2025-4-10 Thu (3.0h): Task 3.")
	assert.Contains(t, spliced, "REPLACED")
	assert.Contains(t, spliced, "2025-4-8 Tue (1.0h): Task 0.")
	assert.NotContains(t, spliced, "Task 1")
}

func TestLocateMultilineContinuation(t *testing.T) {
	doc := "2025-4-9 Wed (2.5h): Task 1.\nmore detail about the task\nand a second detail line\n\n2025-4-8 Tue (1.0h): Task 0.\n"

	m, ok := worklog.Locate(doc, date(2025, time.April, 9))
	require.True(t, ok)
	assert.Equal(t, "2025-4-9 Wed (2.5h): Task 1.\nmore detail about the task\nand a second detail line", m.Text)
}

func TestLocateStopsAtBullet(t *testing.T) {
	doc := "2025-4-9 Wed (2.5h): Task 1.\n* unrelated top-level bullet\n"

	m, ok := worklog.Locate(doc, date(2025, time.April, 9))
	require.True(t, ok)
	assert.Equal(t, "2025-4-9 Wed (2.5h): Task 1.", m.Text)
}

func TestLocateStopsAtNextHeader(t *testing.T) {
	// No blank line between the two entries; the next header still ends
	// the first entry's span.
	doc := "2025-4-9 Wed (2.5h): Task 1.\n2025-4-8 Tue (1.0h): Task 0.\n"

	m, ok := worklog.Locate(doc, date(2025, time.April, 9))
	require.True(t, ok)
	assert.Equal(t, "2025-4-9 Wed (2.5h): Task 1.", m.Text)
}

func TestLocateToleratesHandEditedWeekday(t *testing.T) {
	// Longer weekday labels still match the structural pattern.
	doc := "2025-4-9 Wednesday (2.5h): Task 1.\n"

	m, ok := worklog.Locate(doc, date(2025, time.April, 9))
	require.True(t, ok)
	assert.Equal(t, "2025-4-9 Wednesday (2.5h): Task 1.", m.Text)
}

func TestLocateEntryAtEndOfFileWithoutNewline(t *testing.T) {
	doc := "# Worklog\n\n2025-4-9 Wed (2.5h): Task 1."

	m, ok := worklog.Locate(doc, date(2025, time.April, 9))
	require.True(t, ok)
	assert.Equal(t, "2025-4-9 Wed (2.5h): Task 1.", m.Text)
	assert.Equal(t, len(doc), m.End)
}

func TestLocateDoesNotMatchSubstringDates(t *testing.T) {
	// 2025-4-1 must not match the 2025-4-10 entry.
	_, ok := worklog.Locate("2025-4-10 Thu (3.0h): Task 3.\n", date(2025, time.April, 1))
	assert.False(t, ok)
}

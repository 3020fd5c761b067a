// Package dedupe collapses near-duplicate task descriptions so a day's
// worklog line does not repeat the same work item with trivial wording
// differences.
package dedupe

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Placeholder is substituted for empty or whitespace-only descriptions so
// that untitled entries stay visible in the worklog for manual follow-up.
const Placeholder = "[REDACTED - to be updated soon]"

// threshold is the similarity ratio above which a candidate is considered a
// near-duplicate of an already accepted description. Strictly greater drops.
const threshold = 0.85

// Descriptions returns descs with near-duplicates removed, preserving input
// order. When fillEmpty is true, blank descriptions are replaced with
// Placeholder before comparison; otherwise they are dropped.
//
// The pass is quadratic in the number of descriptions, which is fine at
// day-scale cardinalities.
func Descriptions(descs []string, fillEmpty bool) []string {
	unique := make([]string, 0, len(descs))
	for _, desc := range descs {
		desc = strings.TrimSpace(desc)
		if desc == "" {
			if !fillEmpty {
				continue
			}
			desc = Placeholder
		}
		if !similarToAny(desc, unique) {
			unique = append(unique, desc)
		}
	}
	return unique
}

func similarToAny(candidate string, accepted []string) bool {
	for _, existing := range accepted {
		if Similarity(candidate, existing) > threshold {
			return true
		}
	}
	return false
}

// Similarity returns the longest-matching-blocks ratio between a and b in
// [0.0, 1.0], computed character-wise.
func Similarity(a, b string) float64 {
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}

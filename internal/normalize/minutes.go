package normalize

import (
	"strings"

	"github.com/driveline-ed/contentpipe/internal/canonical"
)

// Reading-speed heuristic for units whose source never recorded a seat-time
// requirement. Regulators cap per-unit credit, hence the clamp.
const (
	wordsPerMinute = 200
	minMinutes     = 20
	maxMinutes     = 120
)

// deriveMinutes estimates minutes_required from the unit's word count,
// clamped to [20, 120].
func deriveMinutes(sections []canonical.Section) int {
	words := 0
	for _, sec := range sections {
		for _, les := range sec.Lessons {
			for _, p := range les.Paragraphs {
				words += len(strings.Fields(p.Text))
			}
		}
	}

	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < minMinutes {
		return minMinutes
	}
	if minutes > maxMinutes {
		return maxMinutes
	}
	return minutes
}

package extract

import (
	"regexp"
	"strings"
	"time"
)

// datePattern pairs a regex with the layouts its matches can parse
// under. Patterns are tried in order; the first one whose match parses
// wins. A match that parses under none of its layouts is skipped and
// the next pattern is tried.
type datePattern struct {
	re      *regexp.Regexp
	layouts []string
}

var datePatterns = []datePattern{
	{
		re: regexp.MustCompile(`(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}`),
		layouts: []string{
			"January 2, 2006",
			"January 2 2006",
		},
	},
	{
		re: regexp.MustCompile(`(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+\d{1,2},?\s+\d{4}`),
		layouts: []string{
			"Jan 2, 2006",
			"Jan 2 2006",
		},
	},
	{
		re: regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{4}`),
		layouts: []string{
			"1/2/2006",
			"1-2-2006",
		},
	},
	{
		re: regexp.MustCompile(`\d{4}-\d{1,2}-\d{1,2}`),
		layouts: []string{
			"2006-1-2",
		},
	},
}

// extractDate scans a sentence for the first recognizable date and
// returns it normalized to YYYY-MM-DD, or nil when nothing parses.
func extractDate(sentence string) *string {
	for _, p := range datePatterns {
		match := p.re.FindString(sentence)
		if match == "" {
			continue
		}

		normalized := strings.Join(strings.Fields(match), " ")
		for _, layout := range p.layouts {
			if t, err := time.Parse(layout, normalized); err == nil {
				s := t.Format("2006-01-02")
				return &s
			}
		}
		// Matched but unparseable (e.g. month 13); try the next pattern.
	}

	return nil
}

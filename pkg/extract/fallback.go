package extract

import (
	"regexp"
	"strings"

	"github.com/investicat/etl/pkg/common"
)

const (
	minSentenceLen  = 15
	maxEvents       = 8
	maxParticipants = 5
	titleMaxLen     = 80
	minLocationLen  = 3
	maxLocationLen  = 50
)

// eventIndicators marks a sentence as describing something that
// happened rather than background prose.
var eventIndicators = []string{
	"announced", "signed", "acquired", "merged", "agreed", "approved",
	"filed", "completed", "finalized", "reported", "meeting", "deal",
	"transaction", "agreement", "decision", "ruling",
}

var (
	locationRe = regexp.MustCompile(`\b(?:in|at|from)\s+([A-Z][a-zA-Z\s,]+?)(?:[,.]|$)`)

	// Title-Case runs, optionally ending in a corporate suffix.
	participantRe = regexp.MustCompile(`\b[A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)*(?:\s+(?:Inc|Ltd|Corp|LLC|Company|Group|Partners|Holdings))?\b`)
)

// participantStopwords filters capitalized function words and date
// fragments out of the participant candidates. Checked against the
// first word of each candidate.
var participantStopwords = map[string]struct{}{
	"The": {}, "This": {}, "That": {}, "These": {}, "Those": {},
	"On": {}, "In": {}, "At": {}, "From": {}, "By": {}, "With": {},
	"After": {}, "Before": {}, "During": {}, "When": {}, "While": {},
	"January": {}, "February": {}, "March": {}, "April": {}, "May": {},
	"June": {}, "July": {}, "August": {}, "September": {}, "October": {},
	"November": {}, "December": {},
	"Jan": {}, "Feb": {}, "Mar": {}, "Apr": {}, "Jun": {}, "Jul": {},
	"Aug": {}, "Sep": {}, "Oct": {}, "Nov": {}, "Dec": {},
	"Monday": {}, "Tuesday": {}, "Wednesday": {}, "Thursday": {},
	"Friday": {}, "Saturday": {}, "Sunday": {},
}

// ExtractFallback produces candidate events from text using only
// pattern matching. It is fully deterministic: the same text always
// yields the same events in the same order.
func ExtractFallback(text string) []common.CandidateEvent {
	events := make([]common.CandidateEvent, 0, maxEvents)

	for _, raw := range strings.Split(strings.ReplaceAll(text, "\n", " "), ".") {
		sentence := strings.TrimSpace(raw)
		if len(sentence) <= minSentenceLen {
			continue
		}
		if !hasEventIndicator(sentence) {
			continue
		}

		events = append(events, common.CandidateEvent{
			Title:        makeTitle(sentence),
			Summary:      sentence,
			Date:         extractDate(sentence),
			Location:     extractLocation(sentence),
			Participants: extractParticipants(sentence),
		})
		if len(events) >= maxEvents {
			break
		}
	}

	return events
}

func hasEventIndicator(sentence string) bool {
	lower := strings.ToLower(sentence)
	for _, indicator := range eventIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

func makeTitle(sentence string) string {
	if len(sentence) <= titleMaxLen {
		return sentence
	}

	runes := []rune(sentence)
	if len(runes) <= titleMaxLen {
		return sentence
	}
	return string(runes[:titleMaxLen]) + "..."
}

func extractLocation(sentence string) *string {
	match := locationRe.FindStringSubmatch(sentence)
	if match == nil {
		return nil
	}

	location := strings.TrimSpace(match[1])
	if len(location) < minLocationLen || len(location) > maxLocationLen {
		return nil
	}
	return &location
}

func extractParticipants(sentence string) []string {
	participants := make([]string, 0, maxParticipants)
	seen := map[string]struct{}{}

	for _, candidate := range participantRe.FindAllString(sentence, -1) {
		if len(participants) >= maxParticipants {
			break
		}
		if len(candidate) <= 2 {
			continue
		}

		first, _, _ := strings.Cut(candidate, " ")
		if _, stop := participantStopwords[first]; stop {
			continue
		}
		if _, dup := seen[candidate]; dup {
			continue
		}

		seen[candidate] = struct{}{}
		participants = append(participants, candidate)
	}

	return participants
}

// Package summary derives analytics and narrative summaries from
// projected timelines: deterministic insights computed locally, and an
// LLM-written investigation summary with a structured output schema.
package summary

import (
	"sort"

	"github.com/investicat/etl/pkg/common"
)

// TimelineSpan describes the date range a timeline covers.
type TimelineSpan struct {
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	SpanDays    int    `json:"span_days"`
	TotalEvents int    `json:"total_events"`
}

// ActivePeriod is the calendar month with the most events.
type ActivePeriod struct {
	Period          string  `json:"period,omitempty"`
	EventCount      int     `json:"event_count"`
	PercentOfEvents float64 `json:"percentage_of_total"`
}

// EntityMention counts how often one entity appears on the timeline.
type EntityMention struct {
	Entity       string `json:"entity"`
	MentionCount int    `json:"mention_count"`
}

// LocationHotspot counts events at one location.
type LocationHotspot struct {
	Location   string `json:"location"`
	EventCount int    `json:"event_count"`
}

// Insights bundles the deterministic timeline analytics.
type Insights struct {
	Span             TimelineSpan      `json:"timeline_span"`
	MostActivePeriod ActivePeriod      `json:"most_active_period"`
	KeyEntities      []EntityMention   `json:"key_entities"`
	LocationHotspots []LocationHotspot `json:"location_hotspots"`
}

const (
	maxKeyEntities      = 5
	maxLocationHotspots = 3
)

// ComputeInsights derives analytics from a timeline without any model
// or database access. Output is deterministic: ties sort by name.
func ComputeInsights(timeline []common.TimelineEntry) Insights {
	return Insights{
		Span:             computeSpan(timeline),
		MostActivePeriod: computeMostActivePeriod(timeline),
		KeyEntities:      computeKeyEntities(timeline),
		LocationHotspots: computeLocationHotspots(timeline),
	}
}

func computeSpan(timeline []common.TimelineEntry) TimelineSpan {
	span := TimelineSpan{TotalEvents: len(timeline)}

	distinct := map[string]struct{}{}
	for _, entry := range timeline {
		if entry.Date == "" {
			continue
		}
		distinct[entry.Date] = struct{}{}
		if span.StartDate == "" || entry.Date < span.StartDate {
			span.StartDate = entry.Date
		}
		if entry.Date > span.EndDate {
			span.EndDate = entry.Date
		}
	}
	span.SpanDays = len(distinct)

	return span
}

func computeMostActivePeriod(timeline []common.TimelineEntry) ActivePeriod {
	counts := map[string]int{}
	for _, entry := range timeline {
		if entry.Date == "" {
			continue
		}
		// Group by calendar month (YYYY-MM).
		month := entry.Date
		if len(month) >= 7 {
			month = month[:7]
		}
		counts[month]++
	}

	if len(counts) == 0 {
		return ActivePeriod{}
	}

	best := ActivePeriod{}
	for month, count := range counts {
		if count > best.EventCount || (count == best.EventCount && month < best.Period) {
			best.Period = month
			best.EventCount = count
		}
	}
	best.PercentOfEvents = float64(best.EventCount) / float64(len(timeline)) * 100

	return best
}

func computeKeyEntities(timeline []common.TimelineEntry) []EntityMention {
	counts := map[string]int{}
	for _, entry := range timeline {
		for _, entity := range entry.Entities {
			counts[entity]++
		}
	}

	mentions := make([]EntityMention, 0, len(counts))
	for entity, count := range counts {
		mentions = append(mentions, EntityMention{Entity: entity, MentionCount: count})
	}
	sort.Slice(mentions, func(i, j int) bool {
		if mentions[i].MentionCount != mentions[j].MentionCount {
			return mentions[i].MentionCount > mentions[j].MentionCount
		}
		return mentions[i].Entity < mentions[j].Entity
	})

	if len(mentions) > maxKeyEntities {
		mentions = mentions[:maxKeyEntities]
	}
	return mentions
}

func computeLocationHotspots(timeline []common.TimelineEntry) []LocationHotspot {
	counts := map[string]int{}
	for _, entry := range timeline {
		if entry.Location == "" {
			continue
		}
		counts[entry.Location]++
	}

	hotspots := make([]LocationHotspot, 0, len(counts))
	for location, count := range counts {
		hotspots = append(hotspots, LocationHotspot{Location: location, EventCount: count})
	}
	sort.Slice(hotspots, func(i, j int) bool {
		if hotspots[i].EventCount != hotspots[j].EventCount {
			return hotspots[i].EventCount > hotspots[j].EventCount
		}
		return hotspots[i].Location < hotspots[j].Location
	})

	if len(hotspots) > maxLocationHotspots {
		hotspots = hotspots[:maxLocationHotspots]
	}
	return hotspots
}

package graph

import (
	"github.com/investicat/etl/pkg/common"
)

// ProjectTimeline flattens a document graph back into per-event
// timeline records by resolving each event's date, location and
// participant edges. It is a pure function over the graph: the store is
// never consulted, and events keep their node order.
func ProjectTimeline(g common.DocumentGraph) []common.TimelineEntry {
	locations := make(map[string]string, len(g.Nodes.Locations))
	for _, l := range g.Nodes.Locations {
		locations[l.ID] = l.Address
	}
	entities := make(map[string]string, len(g.Nodes.Entities))
	for _, e := range g.Nodes.Entities {
		entities[e.ID] = e.Name
	}

	timeline := make([]common.TimelineEntry, 0, len(g.Nodes.Events))
	for _, event := range g.Nodes.Events {
		entry := common.TimelineEntry{
			Event:       event.Title,
			Description: event.Summary,
			EventID:     event.ID,
			Entities:    []string{},
		}

		for _, rel := range g.Relationships {
			switch {
			case rel.FromNode == event.ID && rel.Type == common.RelOccurredOn:
				// Date endpoints carry the date value itself.
				entry.Date = rel.ToNode
			case rel.FromNode == event.ID && rel.Type == common.RelOccurredAt:
				entry.Location = locations[rel.ToNode]
			case rel.ToNode == event.ID && rel.Type == common.RelParticipatesIn:
				if name, ok := entities[rel.FromNode]; ok {
					entry.Entities = append(entry.Entities, name)
				}
			}
		}

		timeline = append(timeline, entry)
	}

	return timeline
}

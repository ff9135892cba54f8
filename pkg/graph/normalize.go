// Package graph builds the document graph: it normalizes candidate
// events into a consistent, deduplicated node/relationship structure
// and projects that structure back into a flat timeline.
package graph

import (
	"fmt"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/investicat/etl/pkg/common"
)

// systemUser is attached to every produced graph so ownership edges can
// be added by upstream layers without a separate user bootstrap.
var systemUser = common.User{
	ID:       "user_1",
	Email:    "journalist@example.com",
	Name:     "System User",
	Password: "placeholder",
}

// Normalizer assigns identities to candidate events and builds the
// node/relationship graph for one document.
type Normalizer struct {
	now func() time.Time
}

// NewNormalizerParams contains configuration options for creating a new
// Normalizer.
type NewNormalizerParams struct {
	// Now supplies the clock used for placeholder dates. Nil means
	// time.Now.
	Now func() time.Time
}

// NewNormalizer creates a new Normalizer.
func NewNormalizer(params NewNormalizerParams) *Normalizer {
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Normalizer{now: now}
}

// NewDocumentID generates a document identifier. Unlike event, location
// and entity ids, document ids must stay unique across runs.
func NewDocumentID() string {
	return "doc_" + gonanoid.MustGenerate("0123456789abcdefghijklmnopqrstuvwxyz", 8)
}

// Normalize builds the complete graph for one document from its
// candidate events. All ids and dedup tables are scoped to this single
// call; processing two documents never shares identity state.
//
// Per-event data-quality problems (unparseable dates, blank locations,
// blank participant names) degrade to omitted fields or sentinel
// values, never to an error. When no events were extracted at all, a
// single placeholder event dated now is synthesized so the graph is
// never event-less.
func (n *Normalizer) Normalize(doc common.Document, events []common.CandidateEvent) common.DocumentGraph {
	g := common.DocumentGraph{
		Nodes: common.Nodes{
			Documents: []common.Document{doc},
			Events:    []common.Event{},
			Dates:     []common.Date{},
			Locations: []common.Location{},
			Entities:  []common.Entity{},
			Users:     []common.User{systemUser},
		},
		Relationships: []common.Relationship{},
	}

	if len(events) == 0 {
		events = []common.CandidateEvent{n.placeholderEvent(doc)}
	}

	// Dedup tables, scoped to this run.
	seenDates := map[string]struct{}{}
	locationIDs := map[string]string{}
	entityIDs := map[string]string{}

	for i, event := range events {
		eventID := fmt.Sprintf("event_%d", i+1)

		g.Nodes.Events = append(g.Nodes.Events, common.Event{
			ID:      eventID,
			Title:   event.Title,
			Summary: event.Summary,
		})
		g.Relationships = append(g.Relationships, common.Relationship{
			FromNode: doc.ID,
			ToNode:   eventID,
			Type:     common.RelMentions,
		})

		if event.Date != nil && strings.TrimSpace(*event.Date) != "" {
			iso := FormatDateISO(*event.Date)
			if _, ok := seenDates[iso]; !ok {
				seenDates[iso] = struct{}{}
				g.Nodes.Dates = append(g.Nodes.Dates, common.Date{Date: iso})
			}
			// Date nodes have no id; the value is the endpoint key.
			g.Relationships = append(g.Relationships, common.Relationship{
				FromNode: eventID,
				ToNode:   iso,
				Type:     common.RelOccurredOn,
			})
		}

		if event.Location != nil {
			if location := strings.TrimSpace(*event.Location); location != "" {
				locationID, ok := locationIDs[location]
				if !ok {
					locationID = fmt.Sprintf("loc_%d", len(locationIDs)+1)
					locationIDs[location] = locationID
					g.Nodes.Locations = append(g.Nodes.Locations, common.Location{
						ID:      locationID,
						Address: location,
					})
				}
				g.Relationships = append(g.Relationships, common.Relationship{
					FromNode: eventID,
					ToNode:   locationID,
					Type:     common.RelOccurredAt,
				})
			}
		}

		for _, participant := range event.Participants {
			name := strings.TrimSpace(participant)
			if name == "" {
				continue
			}

			entityID, ok := entityIDs[name]
			if !ok {
				entityID = fmt.Sprintf("entity_%d", len(entityIDs)+1)
				entityIDs[name] = entityID
				g.Nodes.Entities = append(g.Nodes.Entities, common.Entity{
					ID:   entityID,
					Name: name,
				})
			}
			g.Relationships = append(g.Relationships, common.Relationship{
				FromNode: entityID,
				ToNode:   eventID,
				Type:     common.RelParticipatesIn,
			})
		}
	}

	return g
}

func (n *Normalizer) placeholderEvent(doc common.Document) common.CandidateEvent {
	date := n.now().UTC().Format("2006-01-02")
	return common.CandidateEvent{
		Title:   "Document processed",
		Summary: fmt.Sprintf("Document %s was processed but no timeline events were extracted", doc.Filename),
		Date:    &date,
	}
}

// dateLayouts are tried in order by FormatDateISO. Lenient layouts so
// unpadded months and days still parse.
var dateLayouts = []string{
	"2006-1-2",
	"1/2/2006",
	"1-2-2006",
	"2/1/2006",
}

// FormatDateISO normalizes a date string to ISO-8601 with a midnight
// time component. Strings no layout can parse are kept with a
// synthesized time suffix instead of being rejected; a mangled date is
// still a better timeline anchor than a dropped event.
func FormatDateISO(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02") + "T00:00:00Z"
		}
	}
	return raw + "T00:00:00Z"
}

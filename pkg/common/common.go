package common

// CandidateEvent is an unvalidated event record produced by extraction,
// prior to normalization. Date and Location are nil when the extractor
// found none; a missing field degrades to "no edge of that kind" during
// normalization, never to an error.
type CandidateEvent struct {
	Title        string   `json:"title"`
	Summary      string   `json:"summary"`
	Date         *string  `json:"date"`
	Location     *string  `json:"location"`
	Participants []string `json:"participants"`
}

// RelationType enumerates the relationship types emitted by the
// normalizer. The API layer owns OWNS/HAS_DOCUMENT/HAS_EVENT and they are
// deliberately absent here.
type RelationType string

const (
	RelMentions       RelationType = "MENTIONS"        // Document -> Event
	RelOccurredOn     RelationType = "OCCURRED_ON"     // Event -> Date
	RelOccurredAt     RelationType = "OCCURRED_AT"     // Event -> Location
	RelParticipatesIn RelationType = "PARTICIPATES_IN" // Entity -> Event
)

// Document is the source file node. One per processing run, immutable
// after creation.
type Document struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
}

// Event is an extracted timeline event. Title is bounded for display;
// Summary carries the full extracted description.
type Event struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// Date is a calendar date node. It carries no independent identifier:
// the ISO-8601 value IS the identity, and two events on the same calendar
// date resolve to the same Date node.
type Date struct {
	Date string `json:"date"`
}

// Location is a place node, deduplicated by trimmed address text within
// one processing run.
type Location struct {
	ID      string `json:"id"`
	Address string `json:"address"`
}

// Entity is a participant (person or organization), deduplicated by
// trimmed name within one processing run.
type Entity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// User is the principal a processed document is attributed to. The ETL
// core emits one synthetic user per run; multi-tenant users belong to the
// API layer.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Relationship is a directed, typed edge between two nodes identified by
// their natural keys. For Date endpoints the key is the raw ISO date
// string; for every other label it is the node id.
type Relationship struct {
	FromNode string       `json:"from_node"`
	ToNode   string       `json:"to_node"`
	Type     RelationType `json:"type"`
}

// Nodes groups every node emitted for a single processing run, keyed by
// label. The JSON field names are a compatibility surface shared with the
// API and query layers.
type Nodes struct {
	Documents []Document `json:"documents"`
	Events    []Event    `json:"events"`
	Dates     []Date     `json:"dates"`
	Locations []Location `json:"locations"`
	Entities  []Entity   `json:"entities"`
	Users     []User     `json:"users"`
}

// DocumentGraph is the canonical output of a processing run: a complete,
// internally consistent node/relationship set for one document. Both
// collections are append-only within a run.
type DocumentGraph struct {
	Nodes         Nodes          `json:"nodes"`
	Relationships []Relationship `json:"relationships"`
}

// TimelineEntry is one flattened record of the timeline projection:
// the graph's Event/Date/Location/Entity edges folded back into a simple
// row for display and querying.
type TimelineEntry struct {
	Date        string   `json:"date"`
	Event       string   `json:"event"`
	Description string   `json:"description"`
	Entities    []string `json:"entities"`
	Location    string   `json:"location"`
	EventID     string   `json:"source_event_id"`
}

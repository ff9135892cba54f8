package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/investicat/etl/pkg/common"
	"github.com/investicat/etl/pkg/logger"
	"github.com/investicat/etl/pkg/store"
)

// endpoint describes how one side of a relationship is matched: by
// label and by its natural key property.
type endpoint struct {
	label string
	key   string
}

const idKey = "id"

// relEndpoints maps every supported relationship type to its endpoint
// labels and match keys. Date endpoints match on the date value itself.
var relEndpoints = map[common.RelationType][2]endpoint{
	common.RelMentions:       {{label: "Document", key: idKey}, {label: "Event", key: idKey}},
	common.RelOccurredOn:     {{label: "Event", key: idKey}, {label: "Date", key: "date"}},
	common.RelOccurredAt:     {{label: "Event", key: idKey}, {label: "Location", key: idKey}},
	common.RelParticipatesIn: {{label: "Entity", key: idKey}, {label: "Event", key: idKey}},
}

// relationshipQuery builds the MERGE statement for one relationship.
// The type and labels are interpolated from the fixed endpoint table,
// never from input data; the endpoint keys stay parameters.
func relationshipQuery(relType common.RelationType) (string, error) {
	endpoints, ok := relEndpoints[relType]
	if !ok {
		return "", fmt.Errorf("unsupported relationship type %q", relType)
	}

	from, to := endpoints[0], endpoints[1]

	fromMatch := fmt.Sprintf("MATCH (from:%s {%s: $from_node})", from.label, from.key)
	toMatch := fmt.Sprintf("MATCH (to:%s {%s: $to_node})", to.label, to.key)
	if to.label == "Date" {
		toMatch = "MATCH (to:Date {date: datetime($to_node)})"
	}

	return fmt.Sprintf("%s %s MERGE (from)-[:%s]->(to)", fromMatch, toMatch, relType), nil
}

// LoadDocumentData upserts the graph into Neo4j: all nodes first, then
// all relationships, because relationship MERGE matches both endpoints.
func (s *Neo4jGraphStorage) LoadDocumentData(ctx context.Context, g common.DocumentGraph) error {
	if s.driver == nil {
		return store.ErrNotConnected
	}

	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	if err := s.loadNodes(ctx, session, g.Nodes); err != nil {
		return err
	}
	if err := s.loadRelationships(ctx, session, g.Relationships); err != nil {
		return err
	}

	logger.Info("document graph loaded",
		"nodes", nodeCount(g.Nodes),
		"relationships", len(g.Relationships),
	)
	return nil
}

func nodeCount(nodes common.Nodes) int {
	return len(nodes.Documents) + len(nodes.Events) + len(nodes.Dates) +
		len(nodes.Locations) + len(nodes.Entities) + len(nodes.Users)
}

func (s *Neo4jGraphStorage) loadNodes(ctx context.Context, session neo4j.SessionWithContext, nodes common.Nodes) error {
	for _, doc := range nodes.Documents {
		_, err := session.Run(ctx,
			"MERGE (d:Document {id: $id}) SET d.filename = $filename",
			map[string]any{"id": doc.ID, "filename": doc.Filename})
		if err != nil {
			return fmt.Errorf("failed to upsert document %s: %w", doc.ID, err)
		}
	}

	for _, event := range nodes.Events {
		_, err := session.Run(ctx,
			"MERGE (e:Event {id: $id}) SET e.title = $title, e.summary = $summary",
			map[string]any{"id": event.ID, "title": event.Title, "summary": event.Summary})
		if err != nil {
			return fmt.Errorf("failed to upsert event %s: %w", event.ID, err)
		}
	}

	// Date nodes have no id; the date value is the merge key.
	for _, date := range nodes.Dates {
		_, err := session.Run(ctx,
			"MERGE (dt:Date {date: datetime($date)})",
			map[string]any{"date": date.Date})
		if err != nil {
			return fmt.Errorf("failed to upsert date %s: %w", date.Date, err)
		}
	}

	for _, location := range nodes.Locations {
		_, err := session.Run(ctx,
			"MERGE (l:Location {id: $id}) SET l.address = $address",
			map[string]any{"id": location.ID, "address": location.Address})
		if err != nil {
			return fmt.Errorf("failed to upsert location %s: %w", location.ID, err)
		}
	}

	for _, entity := range nodes.Entities {
		_, err := session.Run(ctx,
			"MERGE (ent:Entity {id: $id}) SET ent.name = $name",
			map[string]any{"id": entity.ID, "name": entity.Name})
		if err != nil {
			return fmt.Errorf("failed to upsert entity %s: %w", entity.ID, err)
		}
	}

	for _, user := range nodes.Users {
		_, err := session.Run(ctx,
			"MERGE (u:User {id: $id}) SET u.email = $email, u.name = $name, u.password = $password",
			map[string]any{"id": user.ID, "email": user.Email, "name": user.Name, "password": user.Password})
		if err != nil {
			return fmt.Errorf("failed to upsert user %s: %w", user.ID, err)
		}
	}

	return nil
}

func (s *Neo4jGraphStorage) loadRelationships(ctx context.Context, session neo4j.SessionWithContext, relationships []common.Relationship) error {
	for _, rel := range relationships {
		query, err := relationshipQuery(rel.Type)
		if err != nil {
			return err
		}

		_, err = session.Run(ctx, query, map[string]any{
			"from_node": rel.FromNode,
			"to_node":   rel.ToNode,
		})
		if err != nil {
			return fmt.Errorf("failed to upsert %s relationship %s -> %s: %w",
				rel.Type, rel.FromNode, rel.ToNode, err)
		}
	}

	return nil
}

package neo4j

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/investicat/etl/pkg/common"
	"github.com/investicat/etl/pkg/store"
)

func TestRelationshipQuery(t *testing.T) {
	tests := []struct {
		name    string
		relType common.RelationType
		want    string
	}{
		{
			name:    "mentions",
			relType: common.RelMentions,
			want:    "MATCH (from:Document {id: $from_node}) MATCH (to:Event {id: $to_node}) MERGE (from)-[:MENTIONS]->(to)",
		},
		{
			name:    "occurred on matches date by value",
			relType: common.RelOccurredOn,
			want:    "MATCH (from:Event {id: $from_node}) MATCH (to:Date {date: datetime($to_node)}) MERGE (from)-[:OCCURRED_ON]->(to)",
		},
		{
			name:    "occurred at",
			relType: common.RelOccurredAt,
			want:    "MATCH (from:Event {id: $from_node}) MATCH (to:Location {id: $to_node}) MERGE (from)-[:OCCURRED_AT]->(to)",
		},
		{
			name:    "participates in",
			relType: common.RelParticipatesIn,
			want:    "MATCH (from:Entity {id: $from_node}) MATCH (to:Event {id: $to_node}) MERGE (from)-[:PARTICIPATES_IN]->(to)",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := relationshipQuery(tc.relType)
			if err != nil {
				t.Fatalf("relationshipQuery() error = %v", err)
			}
			if got != tc.want {
				t.Errorf("relationshipQuery() =\n%q\nwant\n%q", got, tc.want)
			}
		})
	}
}

func TestRelationshipQueryUnsupportedType(t *testing.T) {
	_, err := relationshipQuery(common.RelationType("OWNS"))
	if err == nil {
		t.Fatal("expected an error for an unsupported relationship type")
	}
	if !strings.Contains(err.Error(), "OWNS") {
		t.Errorf("error should name the type, got %v", err)
	}
}

func TestOperationsRequireConnection(t *testing.T) {
	s := NewNeo4jGraphStorage(NewNeo4jGraphStorageParams{URI: "neo4j://localhost:7687"})
	ctx := context.Background()

	if err := s.CreateConstraints(ctx); !errors.Is(err, store.ErrNotConnected) {
		t.Errorf("CreateConstraints: expected ErrNotConnected, got %v", err)
	}
	if err := s.LoadDocumentData(ctx, common.DocumentGraph{}); !errors.Is(err, store.ErrNotConnected) {
		t.Errorf("LoadDocumentData: expected ErrNotConnected, got %v", err)
	}
	if err := s.ClearDatabase(ctx, true); !errors.Is(err, store.ErrNotConnected) {
		t.Errorf("ClearDatabase: expected ErrNotConnected, got %v", err)
	}
	if _, err := s.GetStats(ctx); !errors.Is(err, store.ErrNotConnected) {
		t.Errorf("GetStats: expected ErrNotConnected, got %v", err)
	}
	if err := s.Close(ctx); err != nil {
		t.Errorf("Close without connection should be a no-op, got %v", err)
	}
}

func TestClearDatabaseRequiresConfirmation(t *testing.T) {
	s := &Neo4jGraphStorage{}

	err := s.ClearDatabase(context.Background(), false)
	if !errors.Is(err, store.ErrNotConfirmed) {
		t.Fatalf("expected ErrNotConfirmed, got %v", err)
	}
}

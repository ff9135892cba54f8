// Package neo4j persists document graphs in a Neo4j database using
// MERGE-based upserts.
package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/investicat/etl/internal/util"
	"github.com/investicat/etl/pkg/logger"
	"github.com/investicat/etl/pkg/store"
)

// Neo4jGraphStorage implements store.GraphStorage against a Neo4j
// server.
type Neo4jGraphStorage struct {
	uri      string
	username string
	password string
	database string

	driver neo4j.DriverWithContext
}

// NewNeo4jGraphStorageParams contains configuration options for
// creating a new Neo4jGraphStorage.
type NewNeo4jGraphStorageParams struct {
	URI      string
	Username string
	Password string
	// Database selects the Neo4j database. Empty means the server
	// default.
	Database string
}

// NewNeo4jGraphStorage creates a new Neo4jGraphStorage. The connection
// is established by Connect, not here.
func NewNeo4jGraphStorage(params NewNeo4jGraphStorageParams) *Neo4jGraphStorage {
	return &Neo4jGraphStorage{
		uri:      params.URI,
		username: params.Username,
		password: params.Password,
		database: params.Database,
	}
}

// Connect establishes the driver and verifies connectivity. The
// verification is retried once so a database still starting up does
// not fail the run.
func (s *Neo4jGraphStorage) Connect(ctx context.Context) error {
	driver, err := neo4j.NewDriverWithContext(
		s.uri,
		neo4j.BasicAuth(s.username, s.password, ""),
	)
	if err != nil {
		return fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if err := util.RetryErrWithContext(ctx, 2, driver.VerifyConnectivity); err != nil {
		_ = driver.Close(ctx)
		return fmt.Errorf("failed to connect to neo4j at %s: %w", s.uri, err)
	}

	s.driver = driver

	logger.Info("connected to neo4j", "uri", s.uri)
	return nil
}

// Close releases the driver.
func (s *Neo4jGraphStorage) Close(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	err := s.driver.Close(ctx)
	s.driver = nil
	return err
}

func (s *Neo4jGraphStorage) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: s.database,
	})
}

// CreateConstraints declares per-label uniqueness constraints. Date
// nodes are constrained on their date value since they carry no id.
func (s *Neo4jGraphStorage) CreateConstraints(ctx context.Context) error {
	if s.driver == nil {
		return store.ErrNotConnected
	}

	constraints := []string{
		"CREATE CONSTRAINT IF NOT EXISTS FOR (d:Document) REQUIRE d.id IS UNIQUE",
		"CREATE CONSTRAINT IF NOT EXISTS FOR (e:Event) REQUIRE e.id IS UNIQUE",
		"CREATE CONSTRAINT IF NOT EXISTS FOR (l:Location) REQUIRE l.id IS UNIQUE",
		"CREATE CONSTRAINT IF NOT EXISTS FOR (ent:Entity) REQUIRE ent.id IS UNIQUE",
		"CREATE CONSTRAINT IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE",
		"CREATE CONSTRAINT IF NOT EXISTS FOR (dt:Date) REQUIRE dt.date IS UNIQUE",
	}

	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	for _, constraint := range constraints {
		if _, err := session.Run(ctx, constraint, nil); err != nil {
			return fmt.Errorf("failed to create constraint: %w", err)
		}
	}

	logger.Info("neo4j constraints ensured", "count", len(constraints))
	return nil
}

// ClearDatabase deletes all relationships, then all nodes. It refuses
// to run without explicit confirmation.
func (s *Neo4jGraphStorage) ClearDatabase(ctx context.Context, confirm bool) error {
	if !confirm {
		return store.ErrNotConfirmed
	}
	if s.driver == nil {
		return store.ErrNotConnected
	}

	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	// Relationships first so no node deletion hits a dangling edge.
	if _, err := session.Run(ctx, "MATCH ()-[r]-() DELETE r", nil); err != nil {
		return fmt.Errorf("failed to delete relationships: %w", err)
	}
	if _, err := session.Run(ctx, "MATCH (n) DELETE n", nil); err != nil {
		return fmt.Errorf("failed to delete nodes: %w", err)
	}

	logger.Warn("neo4j database cleared")
	return nil
}

// GetStats counts nodes per label and relationships per type.
func (s *Neo4jGraphStorage) GetStats(ctx context.Context) (store.Stats, error) {
	if s.driver == nil {
		return store.Stats{}, store.ErrNotConnected
	}

	stats := store.Stats{
		Nodes:         map[string]int64{},
		Relationships: map[string]int64{},
	}

	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	for _, label := range nodeLabels {
		result, err := session.Run(ctx,
			fmt.Sprintf("MATCH (n:%s) RETURN count(n) AS count", label), nil)
		if err != nil {
			return store.Stats{}, fmt.Errorf("failed to count %s nodes: %w", label, err)
		}
		record, err := result.Single(ctx)
		if err != nil {
			return store.Stats{}, fmt.Errorf("failed to count %s nodes: %w", label, err)
		}
		stats.Nodes[label] = recordInt64(record, "count")
	}

	result, err := session.Run(ctx, `
		MATCH ()-[r]->()
		RETURN type(r) AS rel_type, count(r) AS count
		ORDER BY rel_type`, nil)
	if err != nil {
		return store.Stats{}, fmt.Errorf("failed to count relationships: %w", err)
	}
	for result.Next(ctx) {
		record := result.Record()
		relType, _ := record.Get("rel_type")
		name, ok := relType.(string)
		if !ok {
			continue
		}
		count := recordInt64(record, "count")
		stats.Relationships[name] = count
		stats.TotalRelationships += count
	}
	if err := result.Err(); err != nil {
		return store.Stats{}, fmt.Errorf("failed to count relationships: %w", err)
	}

	for _, count := range stats.Nodes {
		stats.TotalNodes += count
	}

	return stats, nil
}

var nodeLabels = []string{"Document", "Event", "Date", "Location", "Entity", "User"}

func recordInt64(record *neo4j.Record, key string) int64 {
	value, ok := record.Get(key)
	if !ok {
		return 0
	}
	n, ok := value.(int64)
	if !ok {
		return 0
	}
	return n
}

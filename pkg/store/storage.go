// Package store defines the persistence contract for document graphs.
package store

import (
	"context"
	"errors"

	"github.com/investicat/etl/pkg/common"
)

var (
	// ErrNotConnected is returned by operations invoked before Connect.
	ErrNotConnected = errors.New("store: not connected")
	// ErrNotConfirmed is returned when a destructive operation is
	// requested without explicit confirmation.
	ErrNotConfirmed = errors.New("store: destructive operation not confirmed")
)

// Stats describes the persisted graph: node counts per label,
// relationship counts per type, and totals.
type Stats struct {
	Nodes              map[string]int64 `json:"nodes"`
	Relationships      map[string]int64 `json:"relationships"`
	TotalNodes         int64            `json:"total_nodes"`
	TotalRelationships int64            `json:"total_relationships"`
}

// GraphStorage defines the interface for persisting document graphs.
// Implementations upsert by natural key, so loading the same graph
// twice is safe.
type GraphStorage interface {
	// Connect establishes and verifies the database connection.
	Connect(ctx context.Context) error
	// Close releases the connection. Safe to call when not connected.
	Close(ctx context.Context) error

	// CreateConstraints declares a uniqueness constraint per node label
	// on its natural key. Idempotent.
	CreateConstraints(ctx context.Context) error

	// LoadDocumentData upserts every node of the graph, then every
	// relationship. Nodes load before relationships because
	// relationship upsert matches both endpoints.
	LoadDocumentData(ctx context.Context, g common.DocumentGraph) error

	// ClearDatabase removes all relationships, then all nodes. Refuses
	// with ErrNotConfirmed unless confirm is true.
	ClearDatabase(ctx context.Context, confirm bool) error

	// GetStats reports node and relationship counts.
	GetStats(ctx context.Context) (Stats, error)
}

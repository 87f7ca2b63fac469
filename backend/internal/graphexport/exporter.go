package graphexport

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
	"relation-kg/backend/internal/relation"
	"relation-kg/backend/pkg/logger"
)

// DefaultBatchSize is the number of relations sent per UNWIND statement
const DefaultBatchSize = 500

// Exporter mirrors the relation file into Neo4j as
// (:Person {name})-[:RELATED {small_relation, big_relation}]->(:Person {name})
type Exporter struct {
	driver    neo4j.DriverWithContext
	logger    *zap.Logger
	batchSize int
}

// NewExporter creates a new graph exporter
func NewExporter(driver neo4j.DriverWithContext, batchSize int) *Exporter {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Exporter{
		driver:    driver,
		logger:    logger.Named("graphexport"),
		batchSize: batchSize,
	}
}

// EnsureConstraints creates the uniqueness constraint on person names
func (e *Exporter) EnsureConstraints(ctx context.Context) error {
	session := e.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `CREATE CONSTRAINT person_name IF NOT EXISTS FOR (p:Person) REQUIRE p.name IS UNIQUE`
	if _, err := session.Run(ctx, query, nil); err != nil {
		return fmt.Errorf("failed to create person constraint: %w", err)
	}
	return nil
}

// Clear removes every exported person and relation
func (e *Exporter) Clear(ctx context.Context) error {
	session := e.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `MATCH (p:Person) DETACH DELETE p`, nil)
	if err != nil {
		return fmt.Errorf("failed to clear graph: %w", err)
	}
	if _, err := result.Consume(ctx); err != nil {
		return fmt.Errorf("failed to clear graph: %w", err)
	}
	return nil
}

// Export merges records into the graph in batches and returns how many were sent
func (e *Exporter) Export(ctx context.Context, records []relation.Record) (int, error) {
	session := e.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		UNWIND $rows AS row
		MERGE (a:Person {name: row.person1})
		MERGE (b:Person {name: row.person2})
		MERGE (a)-[r:RELATED {small_relation: row.small_relation, big_relation: row.big_relation}]->(b)
	`

	sent := 0
	for _, batch := range Batches(records, e.batchSize) {
		_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			result, err := tx.Run(ctx, query, map[string]interface{}{"rows": Rows(batch)})
			if err != nil {
				return nil, err
			}
			return result.Consume(ctx)
		})
		if err != nil {
			return sent, fmt.Errorf("failed to export relations %d-%d: %w", sent+1, sent+len(batch), err)
		}
		sent += len(batch)
		e.logger.Debug("Exported relation batch", zap.Int("sent", sent), zap.Int("total", len(records)))
	}

	e.logger.Info("Relations exported to graph", zap.Int("count", sent))
	return sent, nil
}

// Rows converts records into Cypher parameter maps
func Rows(records []relation.Record) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, len(records))
	for _, r := range records {
		rows = append(rows, map[string]interface{}{
			"person1":        r.Person1,
			"person2":        r.Person2,
			"small_relation": r.SmallRelation,
			"big_relation":   r.BigRelation,
		})
	}
	return rows
}

// Batches splits records into consecutive chunks of at most size
func Batches(records []relation.Record, size int) [][]relation.Record {
	if size <= 0 {
		size = DefaultBatchSize
	}
	var out [][]relation.Record
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		out = append(out, records[start:end])
	}
	return out
}

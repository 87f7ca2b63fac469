package graphexport

import (
	"context"
	"os"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"relation-kg/backend/internal/relation"
)

func records(n int) []relation.Record {
	out := make([]relation.Record, n)
	for i := range out {
		out[i] = relation.Record{ID: i + 1, Person1: "A", SmallRelation: "母亲", BigRelation: "家庭", Person2: "B"}
	}
	return out
}

func TestBatches(t *testing.T) {
	batches := Batches(records(5), 2)
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 2)
	assert.Len(t, batches[2], 1)
	assert.Equal(t, 5, batches[2][0].ID)

	assert.Empty(t, Batches(nil, 2))
	assert.Len(t, Batches(records(3), 0), 1, "non-positive size falls back to the default")
}

func TestRows(t *testing.T) {
	rows := Rows([]relation.Record{{ID: 9, Person1: "贾宝玉", SmallRelation: "母亲", BigRelation: "家庭", Person2: "王夫人"}})

	require.Len(t, rows, 1)
	assert.Equal(t, map[string]interface{}{
		"person1":        "贾宝玉",
		"person2":        "王夫人",
		"small_relation": "母亲",
		"big_relation":   "家庭",
	}, rows[0], "positional ids are not exported")
}

// TestExporter_Export requires a running Neo4j instance
// Set NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD environment variables
func TestExporter_Export(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	uri := os.Getenv("NEO4J_URI")
	if uri == "" {
		t.Skip("NEO4J_URI not set")
	}

	ctx := context.Background()
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(os.Getenv("NEO4J_USER"), os.Getenv("NEO4J_PASSWORD"), ""))
	require.NoError(t, err)
	defer driver.Close(ctx)
	require.NoError(t, driver.VerifyConnectivity(ctx))

	exp := NewExporter(driver, 1)
	require.NoError(t, exp.EnsureConstraints(ctx))
	require.NoError(t, exp.Clear(ctx))
	defer func() { _ = exp.Clear(ctx) }()

	sent, err := exp.Export(ctx, []relation.Record{
		{Person1: "A", SmallRelation: "母亲", BigRelation: "家庭", Person2: "B"},
		{Person1: "A", SmallRelation: "同学", BigRelation: "学校", Person2: "C"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)
	result, err := session.Run(ctx, `MATCH (:Person {name: "A"})-[r:RELATED]->(:Person) RETURN count(r) AS n`, nil)
	require.NoError(t, err)
	record, err := result.Single(ctx)
	require.NoError(t, err)
	n, _ := record.Get("n")
	assert.Equal(t, int64(2), n)
}

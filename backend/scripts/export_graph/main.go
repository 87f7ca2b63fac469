package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
	"relation-kg/backend/internal/graphexport"
	"relation-kg/backend/internal/relation"
	"relation-kg/backend/pkg/config"
	"relation-kg/backend/pkg/logger"
)

func main() {
	replace := flag.Bool("replace", false, "Delete previously exported persons before exporting")
	batchSize := flag.Int("batch-size", graphexport.DefaultBatchSize, "Relations per write transaction")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	if err := logger.Init(cfg.Env); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	if !cfg.HasNeo4j() {
		log.Fatal("NEO4J_URI is not set")
	}
	log.Info("Starting graph export...", zap.String("neo4j_uri", cfg.Neo4jURI))

	// Initialize Neo4j driver
	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		log.Fatal("Failed to create Neo4j driver", zap.Error(err))
	}
	defer driver.Close(context.Background())

	// Verify connection
	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Fatal("Failed to verify Neo4j connectivity", zap.Error(err))
	}

	records, err := relation.NewStore(cfg.RelationFile, relation.WithLogger(log.Named("relation"))).Read(ctx)
	if err != nil {
		log.Fatal("Failed to read relations", zap.Error(err))
	}

	exporter := graphexport.NewExporter(driver, *batchSize)

	log.Info("Creating constraints...")
	if err := exporter.EnsureConstraints(ctx); err != nil {
		log.Warn("Failed to create constraints (may already exist)", zap.Error(err))
	}

	if *replace {
		log.Info("Clearing previously exported graph...")
		if err := exporter.Clear(ctx); err != nil {
			log.Fatal("Failed to clear graph", zap.Error(err))
		}
	}

	sent, err := exporter.Export(ctx, records)
	if err != nil {
		log.Fatal("Failed to export relations", zap.Int("exported", sent), zap.Error(err))
	}

	log.Info("Graph export completed successfully", zap.Int("relations", sent))
}

package main

import (
	"context"
	"flag"
	"fmt"

	"go.uber.org/zap"
	"relation-kg/backend/internal/relation"
	"relation-kg/backend/internal/stats"
	"relation-kg/backend/pkg/config"
	"relation-kg/backend/pkg/logger"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Print the distributions without writing them")
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
	log.Info("Rebuilding relation distributions...", zap.String("source", cfg.RelationFile))

	store := relation.NewStore(cfg.RelationFile, relation.WithLogger(log.Named("relation")))
	records, err := store.Read(context.Background())
	if err != nil {
		log.Fatal("Failed to read relations", zap.Error(err))
	}

	big, small := stats.BuildDistributions(records)

	if *dryRun {
		for _, e := range big {
			fmt.Printf("%s,%d\n", e.Relation, e.Count)
		}
		fmt.Println()
		for _, e := range small {
			fmt.Printf("%s,%d\n", e.Relation, e.Count)
		}
		return
	}

	if err := stats.WriteDistribution(cfg.BigRelationFile, big); err != nil {
		log.Fatal("Failed to write big relation distribution", zap.Error(err))
	}
	if err := stats.WriteDistribution(cfg.SmallRelationFile, small); err != nil {
		log.Fatal("Failed to write small relation distribution", zap.Error(err))
	}

	log.Info("Distributions rebuilt",
		zap.Int("relations", len(records)),
		zap.String("big_path", cfg.BigRelationFile),
		zap.Int("big_labels", len(big)),
		zap.String("small_path", cfg.SmallRelationFile),
		zap.Int("small_labels", len(small)),
	)
}

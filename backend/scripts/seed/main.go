package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"relation-kg/backend/internal/relation"
	"relation-kg/backend/internal/stats"
	"relation-kg/backend/pkg/config"
	"relation-kg/backend/pkg/logger"
)

// sampleRelations is a small starter graph for local development
var sampleRelations = []relation.Fields{
	{Person1: "贾宝玉", SmallRelation: "母亲", BigRelation: "家庭", Person2: "王夫人"},
	{Person1: "贾宝玉", SmallRelation: "父亲", BigRelation: "家庭", Person2: "贾政"},
	{Person1: "贾宝玉", SmallRelation: "祖母", BigRelation: "家庭", Person2: "贾母"},
	{Person1: "林黛玉", SmallRelation: "表哥", BigRelation: "亲戚", Person2: "贾宝玉"},
	{Person1: "林黛玉", SmallRelation: "外祖母", BigRelation: "亲戚", Person2: "贾母"},
	{Person1: "薛宝钗", SmallRelation: "母亲", BigRelation: "家庭", Person2: "薛姨妈"},
	{Person1: "薛宝钗", SmallRelation: "丈夫", BigRelation: "家庭", Person2: "贾宝玉"},
	{Person1: "王熙凤", SmallRelation: "丈夫", BigRelation: "家庭", Person2: "贾琏"},
	{Person1: "王熙凤", SmallRelation: "姑母", BigRelation: "亲戚", Person2: "王夫人"},
	{Person1: "袭人", SmallRelation: "主人", BigRelation: "主仆", Person2: "贾宝玉"},
	{Person1: "紫鹃", SmallRelation: "主人", BigRelation: "主仆", Person2: "林黛玉"},
	{Person1: "平儿", SmallRelation: "主人", BigRelation: "主仆", Person2: "王熙凤"},
}

func main() {
	force := flag.Bool("force", false, "Overwrite an existing relation file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Initialize logger
	if err := logger.Init(cfg.Env); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting data seeding...", zap.String("data_dir", cfg.DataDir))

	store := relation.NewStore(cfg.RelationFile, relation.WithLogger(log.Named("relation")))
	dists := stats.Distributions{BigPath: cfg.BigRelationFile, SmallPath: cfg.SmallRelationFile}

	records, err := seed(context.Background(), store, dists, *force)
	if errors.Is(err, errAlreadySeeded) {
		log.Info("Relation file already has data, skipping seeding (use -force to overwrite)",
			zap.String("path", cfg.RelationFile),
		)
		os.Exit(0)
	}
	if err != nil {
		log.Fatal("Seeding failed", zap.String("path", cfg.RelationFile), zap.Error(err))
	}

	log.Info("Seeding completed successfully", zap.Int("relations", len(records)))
}

var errAlreadySeeded = errors.New("relation file already has data")

// seed replaces the relation file with the sample relations and rebuilds both
// distribution files. An unreadable relation file is never overwritten.
func seed(ctx context.Context, store *relation.Store, dists stats.Distributions, force bool) ([]relation.Record, error) {
	existing, err := store.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read existing relations: %w", err)
	}
	if len(existing) > 0 && !force {
		return nil, errAlreadySeeded
	}

	if err := store.Write(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to reset relation file: %w", err)
	}
	for _, f := range sampleRelations {
		if _, err := store.Create(ctx, f); err != nil {
			return nil, fmt.Errorf("failed to create relation %s-%s: %w", f.Person1, f.Person2, err)
		}
	}

	records, err := store.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read seeded relations: %w", err)
	}

	big, small := stats.BuildDistributions(records)
	if err := stats.WriteDistribution(dists.BigPath, big); err != nil {
		return nil, fmt.Errorf("failed to write big relation distribution: %w", err)
	}
	if err := stats.WriteDistribution(dists.SmallPath, small); err != nil {
		return nil, fmt.Errorf("failed to write small relation distribution: %w", err)
	}
	return records, nil
}

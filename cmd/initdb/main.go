package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/example/shopstore/pkg/config"
	"github.com/example/shopstore/pkg/logger"
	"github.com/example/shopstore/pkg/repository"
	"github.com/example/shopstore/pkg/service"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config file")
	seed := flag.Bool("seed", true, "insert the sample products into an empty catalog")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := repository.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	log.Info("Schema ready", zap.String("driver", cfg.Database.Driver))

	if !*seed {
		return
	}

	inserted, err := service.NewCatalogService(db, service.WithLogger(log)).SeedSampleProducts(ctx)
	if err != nil {
		log.Fatal("Failed to seed products", zap.Error(err))
	}
	log.Info("Sample products seeded", zap.Int("inserted", inserted))
}

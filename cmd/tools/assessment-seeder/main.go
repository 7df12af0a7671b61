// cmd/tools/assessment-seeder/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"credit-risk-workers/internal/common/config"
	"credit-risk-workers/internal/common/database"
	"credit-risk-workers/internal/common/logger"
	"credit-risk-workers/internal/scoring"
	"credit-risk-workers/internal/seed"
	"credit-risk-workers/internal/service"
	"credit-risk-workers/internal/store"
)

func main() {
	configPath := flag.String("config", "", "Config file (defaults to configs/config.<APP_ENV>.yaml lookup)")
	months := flag.Int("months", 6, "Number of monthly assessments per borrower")
	seedValue := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	dryRun := flag.Bool("dry-run", false, "Score into an in-memory store and only print the summary")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, "console")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var repo store.Repository
	if *dryRun || cfg.Storage.Driver == config.StorageDriverMemory {
		repo = store.NewMemoryRepository()
	} else {
		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			zapLog.Fatal("postgres open failed", zap.Error(err))
		}
		defer pg.Close()
		if err := pg.Ping(ctx); err != nil {
			zapLog.Fatal("postgres unreachable", zap.Error(err))
		}
		if err := database.RunMigrations(cfg.Database.Postgres.GetURL()); err != nil {
			zapLog.Fatal("migrations failed", zap.Error(err))
		}
		repo = store.NewPostgresRepository(pg.DB)
	}

	engine := scoring.NewEngine(cfg.Scoring.ScorePrecision, cfg.Scoring.CreditScorePrecision)
	svc := service.NewAssessmentService(repo, engine, service.Deps{}, log)

	sum, err := seed.New(svc, seed.Options{Months: *months, Seed: *seedValue}, log).Run(ctx)
	if err != nil {
		zapLog.Fatal("seeding failed", zap.Error(err))
	}

	out, _ := json.MarshalIndent(sum, "", "  ")
	fmt.Println(string(out))
}

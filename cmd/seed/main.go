package main

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/classical-review/config"
	"github.com/oksasatya/classical-review/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+" seed", cfg.Env)

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		logger.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	n, err := seedCatalog(context.Background(), db, catalog)
	if err != nil {
		logger.Fatalf("failed to seed catalog: %v", err)
	}
	logger.Infof("seeded %d composers and %d compositions", len(catalog), n)
}

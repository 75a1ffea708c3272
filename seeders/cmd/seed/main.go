package main

import (
	"context"
	"flag"
	"log"

	"inventory-system/pkg/config"
	"inventory-system/pkg/database/postgresql"
	"inventory-system/seeders"
)

func main() {
	runAdmin := flag.Bool("admin", false, "create the bootstrap administrator account")
	runDemo := flag.Bool("demo", false, "insert demo categories and articles")
	runAll := flag.Bool("all", false, "run every seeder")
	flag.Parse()

	if !*runAdmin && !*runDemo && !*runAll {
		log.Println("no seeder selected")
		flag.PrintDefaults()
		return
	}

	cfg := config.New()
	if err := postgresql.Migrate(cfg.Postgres.DSN); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	db := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer db.Close()

	ctx := context.Background()
	if *runAll || *runAdmin {
		if err := seeders.SeedAdmin(ctx, db); err != nil {
			log.Fatalf("admin seeder failed: %v", err)
		}
	}
	if *runAll || *runDemo {
		if err := seeders.SeedDemo(ctx, db); err != nil {
			log.Fatalf("demo seeder failed: %v", err)
		}
	}
	log.Println("seeding complete")
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	forumdb "github.com/qalamdan/porsesh/db"
	"github.com/qalamdan/porsesh/internal/config"
	"github.com/qalamdan/porsesh/internal/db"
)

// Creates the forum database, applies all migrations and seeds the Persian
// category and tag taxonomy. Safe to run repeatedly.
func main() {
	configPath := flag.String("config", "", "path to YAML config")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DatabasePath, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(ctx, database, forumdb.Migrations, forumdb.SeedFiles); err != nil {
		fmt.Fprintf(os.Stderr, "Migration error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Database %s initialized.\n", cfg.DatabasePath)
}

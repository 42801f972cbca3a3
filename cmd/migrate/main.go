package main

import (
	"fmt"
	"os"

	"apply4me/internal/config"
	"apply4me/pkg/database"
)

// Standalone migration runner for deploy pipelines that migrate before
// rolling the API.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to database: %v\n", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		fmt.Fprintf(os.Stderr, "failed to apply migrations: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("migrations applied")
}

package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/myaicademy/curriculum-ops/internal/app"
)

// One-shot pipeline run: fetch the latest updates and analyze everything
// still unprocessed. Intended for cron-less environments and local use.
func main() {
	skipFetch := flag.Bool("skip-fetch", false, "analyze existing updates without fetching")
	live := flag.Bool("live", false, "fetch from live sources instead of the simulated set")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	application, err := app.New()
	if err != nil {
		log.Fatalf("failed to initialize app: %v", err)
	}
	defer application.Close()

	ctx := context.Background()

	if !*skipFetch {
		updates, err := application.Services.Watcher.FetchAll(ctx, !*live)
		if err != nil {
			application.Log.Fatal("Fetch failed", "error", err)
		}
		application.Log.Info("Fetch complete", "new_updates", len(updates))
	}

	reports, err := application.Services.Analyzer.AnalyzeAllUnprocessed(ctx)
	if err != nil {
		application.Log.Error("Analysis finished with errors", "error", err, "reports", len(reports))
		return
	}
	application.Log.Info("Analysis complete", "reports", len(reports))
}

// Package main imports worlds exported by the web client into Postgres.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/leitor-rpg/engine/internal/config"
	"github.com/leitor-rpg/engine/internal/importer"
	"github.com/leitor-rpg/engine/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	savePath := flag.String("save", "", "path to the exported save file (JSON)")
	overwrite := flag.Bool("overwrite", false, "replace worlds that already exist")
	flag.Parse()

	if *savePath == "" {
		log.Fatal("usage: import-save -save <export.json> [-overwrite]")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connecting to database: %v", err)
	}
	defer pool.Close()

	imp := importer.New(importer.BrowserExport{}, postgres.NewWorldRepository(pool.DB()))
	imp.Overwrite = *overwrite

	if _, err := imp.Run(ctx, *savePath); err != nil {
		log.Fatalf("import failed: %v", err)
	}
}

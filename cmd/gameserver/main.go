// Package main provides the game server binary: the HTTP API over the
// narrated-campaign engine, backed by PostgreSQL.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/leitor-rpg/engine/internal/config"
	"github.com/leitor-rpg/engine/internal/game/bestiary"
	"github.com/leitor-rpg/engine/internal/game/item"
	"github.com/leitor-rpg/engine/internal/game/shop"
	"github.com/leitor-rpg/engine/internal/httpapi"
	"github.com/leitor-rpg/engine/internal/narrator"
	"github.com/leitor-rpg/engine/internal/observability"
	"github.com/leitor-rpg/engine/internal/server"
	"github.com/leitor-rpg/engine/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting game server",
		zap.String("http_addr", cfg.Server.Addr()),
	)

	// Load content
	contentStart := time.Now()
	roster, rules, catalog := loadContent(cfg.Game.ContentDir, logger)
	logger.Info("content loaded",
		zap.Int("monsters", len(roster)),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	// Connect to PostgreSQL for world persistence
	dbStart := time.Now()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	logger.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.Duration("elapsed", time.Since(dbStart)),
	)
	worldRepo := postgres.NewWorldRepository(pool.DB())

	sessions := httpapi.NewSessionManager(httpapi.SessionManagerConfig{
		Store:  worldRepo,
		Logger: logger,
		Narrator: narrator.ClientConfig{
			APIKey:      cfg.Narrator.APIKey,
			Model:       cfg.Narrator.Model,
			MaxTokens:   int64(cfg.Narrator.MaxTokens),
			Temperature: cfg.Narrator.Temperature,
		},
		Rules:        rules,
		Catalog:      catalog,
		TriggerDelay: cfg.Game.TriggerDelay(),
		MonsterDelay: cfg.Game.MonsterTurnDelay(),
	})
	if cfg.Narrator.APIKey == "" {
		logger.Warn("no narrator api key configured, online worlds fall back to offline narration")
	}

	api := httpapi.New(worldRepo, sessions, pool, logger)
	api.SetBaseBestiary(roster)

	httpSrv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	lifecycle := server.NewLifecycle(logger, cfg.Server.ShutdownGrace)
	lifecycle.Add("http", &server.FuncService{
		StartFn: func() error {
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
		StopFn: func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
			defer cancel()
			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("http shutdown", zap.Error(err))
			}
		},
	})
	lifecycle.Add("sessions", &server.FuncService{
		StartFn: func() error { return nil },
		StopFn:  sessions.Close,
	})
	lifecycle.Add("database", &server.FuncService{
		StartFn: func() error { return nil },
		StopFn:  pool.Close,
	})

	logger.Info("game server ready",
		zap.Duration("startup", time.Since(start)),
	)
	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("lifecycle", zap.Error(err))
	}
}

// loadContent reads the YAML content files, falling back to the built-in
// defaults for anything missing or empty.
func loadContent(dir string, logger *zap.Logger) ([]bestiary.Monster, *item.RuleTable, *shop.Catalog) {
	roster := []bestiary.Monster{}
	rules := item.DefaultRuleTable()
	catalog := shop.DefaultCatalog()
	if dir == "" {
		return roster, rules, catalog
	}

	if data, err := os.ReadFile(filepath.Join(dir, "bestiary.yaml")); err == nil {
		reg, perr := bestiary.Load(data)
		if perr != nil {
			logger.Fatal("parsing bestiary", zap.Error(perr))
		}
		roster = reg.All()
	} else {
		logger.Warn("no bestiary file, starting with an empty roster", zap.Error(err))
	}

	if data, err := os.ReadFile(filepath.Join(dir, "item_rules.yaml")); err == nil {
		table, perr := item.LoadRules(data)
		if perr != nil {
			logger.Fatal("parsing item rules", zap.Error(perr))
		}
		rules = table
	} else {
		logger.Warn("no item rules file, using built-in inference table", zap.Error(err))
	}

	if data, err := os.ReadFile(filepath.Join(dir, "shops.yaml")); err == nil {
		c, perr := shop.Load(data)
		if perr != nil {
			logger.Fatal("parsing shop catalog", zap.Error(perr))
		}
		catalog = c
	} else {
		logger.Warn("no shop file, using built-in catalog", zap.Error(err))
	}

	return roster, rules, catalog
}

package main

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"footin-engine/internal/config"
	"footin-engine/internal/contacts"
	"footin-engine/internal/events"
	"footin-engine/internal/httpapi"
	"footin-engine/internal/provider"
	"footin-engine/internal/secrets"
	"footin-engine/internal/store"
	"footin-engine/internal/workflow"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger init failed:", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Engine data dir: env wins (a desktop shell can pass one), else local.
	dataDir := os.Getenv("FOOTIN_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal("data dir", zap.Error(err))
	}

	// One engine per data dir. The sqlite file and the session model both
	// assume a single writer.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatal("lock", zap.Error(err))
	}
	if !locked {
		log.Fatal("another engine instance already owns this data dir",
			zap.String("data_dir", dataDir))
	}
	defer lock.Unlock()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatal("config bootstrap", zap.Error(err))
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return cfg, err
		}
		normalized, vr := config.NormalizeAndValidate(cfg)
		for _, warn := range vr.Warnings {
			log.Warn("config", zap.String("warning", warn))
		}
		if !vr.OK() {
			return cfg, fmt.Errorf("config invalid: %v", vr.Errors)
		}
		return normalized, nil
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatal("config load", zap.String("path", userCfgPath), zap.Error(err))
	}
	cfgVal.Store(cfg)

	dbPath := filepath.Join(dataDir, "footin.db")
	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}
	defer db.Close()
	if err := store.Migrate(db); err != nil {
		log.Fatal("db migrate", zap.Error(err))
	}

	// Provider keys come from the OS keychain, never from config.
	scraperKey, err := secrets.GetAPIKey("scraper")
	if err != nil {
		log.Info("no scraper api key in keychain, provider calls may be rejected")
	}
	contactsKey, err := secrets.GetAPIKey("contacts")
	if err != nil {
		log.Info("no contacts api key in keychain, provider calls may be rejected")
	}

	scraper := provider.NewScrapeClient(cfg.Providers.Scraper.BaseURL, scraperKey, log)
	searcher := provider.NewContactClient(cfg.Providers.Contacts.BaseURL, contactsKey, log)
	if cfg.Providers.Contacts.Limit > 0 {
		searcher.Limit = cfg.Providers.Contacts.Limit
	}

	resolver := contacts.NewResolver(db, cfg.Domains.LiveLookup, log)
	overrides, err := config.LoadDomainOverrides(filepath.Join(dataDir, "domains.yml"))
	if err != nil {
		log.Warn("domains overlay", zap.Error(err))
	}
	resolver.Overrides = overrides

	hub := events.NewHub()

	ctrl := workflow.NewController(db, scraper, searcher, resolver, hub, log, workflow.Options{
		OwnerID:        cfg.Owner.ID,
		Departments:    cfg.Extraction.Departments,
		AllowSynthetic: cfg.Providers.AllowSynthetic,
		MaxParallel:    cfg.Extraction.MaxParallel,
	})

	router := httpapi.NewRouter(httpapi.Deps{
		DB:          db,
		Hub:         hub,
		Log:         log,
		Controller:  ctrl,
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
	})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal("listen", zap.String("addr", addr), zap.Error(err))
	}

	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	token, err := randomToken(16)
	if err != nil {
		log.Fatal("shutdown token", zap.Error(err))
	}
	router.Post("/shutdown", shutdownHandler(&token, srv))
	fmt.Println("SHUTDOWN_TOKEN=" + token)

	log.Info("engine listening",
		zap.String("addr", "http://"+addr),
		zap.String("db", dbPath))
	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		log.Fatal("serve", zap.Error(err))
	}
}

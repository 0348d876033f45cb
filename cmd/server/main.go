package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/msalvatierra/bodegabot/config"
	catalogRepoPkg "github.com/msalvatierra/bodegabot/internal/catalog/repository"
	catalogUCPkg "github.com/msalvatierra/bodegabot/internal/catalog/usecase"
	"github.com/msalvatierra/bodegabot/internal/conversation"
	historyRepoPkg "github.com/msalvatierra/bodegabot/internal/history/repository"
	historyUCPkg "github.com/msalvatierra/bodegabot/internal/history/usecase"
	ledgerRepoPkg "github.com/msalvatierra/bodegabot/internal/ledger/repository"
	ledgerUCPkg "github.com/msalvatierra/bodegabot/internal/ledger/usecase"
	"github.com/msalvatierra/bodegabot/internal/report"
	"github.com/msalvatierra/bodegabot/internal/store"
	"github.com/msalvatierra/bodegabot/internal/store/sheets"
	"github.com/msalvatierra/bodegabot/internal/store/sqlitedb"
	"github.com/msalvatierra/bodegabot/internal/transport"
	"github.com/msalvatierra/bodegabot/pkg/logger"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to the record store
	gateway, cleanup, err := buildGateway(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("could not initialize record store", zap.Error(err))
	}
	if cleanup != nil {
		defer cleanup()
	}
	appLogger.Info("record store ready", zap.String("backend", cfg.Store.Backend))

	// 4. Initialize Repositories
	catalogRepo := catalogRepoPkg.NewRowRepository(gateway)
	ledgerRepo := ledgerRepoPkg.NewRowRepository(gateway)
	historyRepo := historyRepoPkg.NewRowRepository(gateway)

	// 5. Initialize UseCases
	catalogUC := catalogUCPkg.NewCatalogUseCase(catalogRepo, ledgerRepo, appLogger)
	ledgerUC := ledgerUCPkg.NewLedgerUseCase(ledgerRepo, catalogRepo, historyRepo, appLogger)
	historyUC := historyUCPkg.NewHistoryUseCase(historyRepo, ledgerRepo, appLogger)

	// 6. Conversation engine
	engine := conversation.NewEngine(conversation.Deps{
		Catalog:   catalogUC,
		Ledger:    ledgerUC,
		History:   historyUC,
		Renderer:  report.NewPDFRenderer(),
		Publisher: report.NewLocalPublisher(cfg.Report.Dir, cfg.Report.BaseURL),
		Logger:    appLogger,
		Timeout:   cfg.Store.Timeout,
	})

	// 7. HTTP webhook server
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	transport.NewWebhookHandler(engine, appLogger).Register(app)

	// Published reports are served from the report directory.
	app.Static("/reportes", cfg.Report.Dir)

	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	appLogger.Info("starting webhook server", zap.String("port", port))
	go func() {
		if err := app.Listen(port); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server...")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("shutdown failed", zap.Error(err))
	}
	appLogger.Info("server stopped")
}

func buildGateway(cfg *config.Config, appLogger logger.ZapLogger) (store.Gateway, func() error, error) {
	switch cfg.Store.Backend {
	case "sheets":
		gw, err := sheets.NewGateway(context.Background(), []byte(cfg.Sheets.CredentialsJSON), cfg.Sheets.ClientsSpreadsheet)
		return gw, nil, err

	case "sqlite":
		gw, err := sqlitedb.NewGateway(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if seed := cfg.Store.BootstrapClient; seed != "" {
			phone, name, _ := strings.Cut(seed, ",")
			err := gw.EnsureClient(context.Background(), strings.TrimSpace(phone), strings.TrimSpace(name), map[string][]string{
				sqlitedb.ProductsSheet: catalogRepoPkg.ProductHeader,
				store.LotsSheet:        ledgerRepoPkg.LotHeader,
				store.HistorySheet:     historyRepoPkg.HistoryHeader,
			})
			if err != nil {
				return nil, nil, err
			}
		}
		return gw, gw.Close, nil

	case "memory":
		// Volatile, for local experiments only.
		appLogger.Warn("memory backend keeps no data across restarts")
		mem := store.NewMemory()
		if seed := cfg.Store.BootstrapClient; seed != "" {
			phone, name, _ := strings.Cut(seed, ",")
			mem.RegisterClient(strings.TrimSpace(phone), strings.TrimSpace(name), map[string][]string{
				store.ProductsSheet: catalogRepoPkg.ProductHeader,
				store.LotsSheet:     ledgerRepoPkg.LotHeader,
				store.HistorySheet:  historyRepoPkg.HistoryHeader,
			})
		}
		return mem, nil, nil
	}
	appLogger.Fatal("unknown store backend", zap.String("backend", cfg.Store.Backend))
	return nil, nil, nil
}

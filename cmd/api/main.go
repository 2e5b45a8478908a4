package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xelth-com/eckmobile/internal/config"
	"github.com/xelth-com/eckmobile/internal/database"
	"github.com/xelth-com/eckmobile/internal/handlers"
	"github.com/xelth-com/eckmobile/internal/middleware"
	"github.com/xelth-com/eckmobile/internal/models"
	"github.com/xelth-com/eckmobile/internal/services/frappe"
	"github.com/xelth-com/eckmobile/internal/services/portal"
	"github.com/xelth-com/eckmobile/internal/services/printer"
)

// backend is a record store that can also check credentials
type backend interface {
	models.Store
	models.CredentialVerifier
}

func main() {
	log := config.GetLogger()

	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	config.SetLogLevel(cfg.LogLevel)

	// 2. Pick the record store
	var store backend
	var db *database.DB
	switch cfg.Backend {
	case config.BackendDatabase:
		db, err = database.Connect(cfg.Database)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to database")
		}
		// db.Close() runs in the shutdown sequence below

		if database.MigrationAllowed(cfg.Database) {
			if err := db.AutoMigrate(); err != nil {
				log.WithError(err).Warn("migration warning")
			} else {
				log.Info("schema synchronized")
			}
		} else {
			log.Info("using the ERP schema as is (set DB_ALTER=true to migrate)")
		}
		store = database.NewStore(db, cfg.JWTSecret)
	default:
		store = frappe.NewStore(frappe.NewClient(cfg.Frappe.URL, cfg.Frappe.APIKey, cfg.Frappe.APISecret, cfg.Frappe.Timeout))
		log.WithField("url", cfg.Frappe.URL).Info("using ERP REST backend")
	}

	// 3. Façade
	opts := portal.OptionsFromConfig(cfg.Portal)
	if cfg.Portal.RequireStockToken {
		opts.VerifyToken = middleware.TokenVerifier(cfg.JWTSecret)
		log.Info("stock entry updates require a signed token")
	}
	svc := portal.NewService(store, store, opts)

	// 4. Router
	router := handlers.NewRouter(svc, handlers.Options{
		Backend: string(cfg.Backend),
		Invoice: printer.InvoiceConfig{
			CompanyName: cfg.Print.CompanyName,
			QRPrefix:    cfg.Print.QRPrefix,
		},
		Labels: printer.DefaultLabelConfig,
	})

	// 5. Start server with graceful shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.CaseInsensitiveMiddleware(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		log.WithFields(logrus.Fields{"port": cfg.Port, "backend": cfg.Backend}).Info("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	sig := <-shutdown
	log.WithField("signal", sig.String()).Info("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("HTTP server shutdown error")
	}

	// Closing the database also stops embedded PostgreSQL
	if db != nil {
		log.Info("closing database connection")
		if err := db.Close(); err != nil {
			log.WithError(err).Error("database close error")
		}
	}

	log.Info("shutdown complete")
}

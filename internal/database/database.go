package database

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/sirupsen/logrus"
	"github.com/xelth-com/eckmobile/internal/config"
	"github.com/xelth-com/eckmobile/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB wraps gorm.DB and includes a reference to an embedded process if active
type DB struct {
	*gorm.DB
	embedded *embeddedpostgres.EmbeddedPostgres
}

// stalePID reads the postmaster PID left behind in dataPath, or 0
func stalePID(dataPath string) int {
	data, err := os.ReadFile(filepath.Join(dataPath, "postmaster.pid"))
	if err != nil {
		return 0
	}
	first, _, _ := strings.Cut(string(data), "\n")
	pid, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil || pid <= 0 {
		return 0
	}
	return pid
}

// releaseEmbedded stops a PostgreSQL left running by a crashed process and
// removes its pid file so the embedded server can start again.
func releaseEmbedded(dataPath string, log *logrus.Entry) {
	pidFile := filepath.Join(dataPath, "postmaster.pid")
	pid := stalePID(dataPath)
	if pid == 0 {
		return
	}
	log = log.WithField("pid", pid)

	process, err := os.FindProcess(pid)
	// On Unix FindProcess always succeeds; signal 0 checks liveness
	if err != nil || process.Signal(syscall.Signal(0)) != nil {
		log.Info("removing stale postmaster.pid")
		os.Remove(pidFile)
		return
	}

	log.Warn("found orphaned PostgreSQL process, stopping it")
	if err := process.Signal(syscall.SIGTERM); err != nil {
		log.WithError(err).Warn("could not send SIGTERM")
	}
	if waitFor(5*time.Second, func() bool { return process.Signal(syscall.Signal(0)) != nil }) {
		os.Remove(pidFile)
		return
	}

	log.Warn("process did not stop gracefully, sending SIGKILL")
	process.Kill()
	time.Sleep(500 * time.Millisecond)
	os.Remove(pidFile)
}

// waitFor polls cond every 500ms until it holds or timeout passes
func waitFor(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for {
		if cond() {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(500 * time.Millisecond)
	}
}

// isPortInUse checks if a port is already in use
func isPortInUse(port int) bool {
	conn, err := net.DialTimeout("tcp", fmt.Sprintf("127.0.0.1:%d", port), time.Second)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// startEmbedded boots the private PostgreSQL and points cfg at it
func startEmbedded(cfg *config.DatabaseConfig, log *logrus.Entry) (*embeddedpostgres.EmbeddedPostgres, error) {
	releaseEmbedded(cfg.EmbeddedPath, log)

	if isPortInUse(cfg.EmbeddedPort) {
		log.WithField("port", cfg.EmbeddedPort).Warn("port still in use, waiting for release")
		if !waitFor(3*time.Second, func() bool { return !isPortInUse(cfg.EmbeddedPort) }) {
			return nil, fmt.Errorf("port %d is still in use by another process", cfg.EmbeddedPort)
		}
	}

	embedded := embeddedpostgres.NewDatabase(embeddedpostgres.DefaultConfig().
		DataPath(cfg.EmbeddedPath).
		Port(uint32(cfg.EmbeddedPort)).
		Database(cfg.Database).
		Username(cfg.Username).
		Password("postgres"))
	if err := embedded.Start(); err != nil {
		return nil, fmt.Errorf("failed to start embedded database: %w", err)
	}

	cfg.Host = "localhost"
	cfg.Port = strconv.Itoa(cfg.EmbeddedPort)
	cfg.Password = "postgres"
	log.WithField("port", cfg.EmbeddedPort).Info("embedded PostgreSQL started")
	return embedded, nil
}

// dsn renders the libpq connection string
func dsn(cfg config.DatabaseConfig) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database,
	)
}

// Connect opens the ERP database, booting the embedded server first when configured
func Connect(cfg config.DatabaseConfig) (*DB, error) {
	log := config.GetLogger().WithField("module", "database")

	var embedded *embeddedpostgres.EmbeddedPostgres
	if cfg.Embedded {
		log.Info("mode: embedded PostgreSQL")
		var err error
		if embedded, err = startEmbedded(&cfg, log); err != nil {
			return nil, err
		}
	} else {
		log.WithFields(logrus.Fields{"host": cfg.Host, "port": cfg.Port}).Info("mode: external PostgreSQL")
	}

	logLevel := logger.Warn
	if cfg.Alter {
		logLevel = logger.Silent
	}

	db, err := gorm.Open(postgres.Open(dsn(cfg)), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		if embedded != nil {
			_ = embedded.Stop()
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	log.Info("database connection established")
	return &DB{DB: db, embedded: embedded}, nil
}

// Close shuts the pool and then the embedded process, if any
func (db *DB) Close() error {
	if db.embedded != nil {
		config.GetLogger().WithField("module", "database").Info("stopping embedded PostgreSQL")
		defer db.embedded.Stop()
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// MigrationAllowed reports whether AutoMigrate may touch the schema. The ERP owns its
// tables; gorm would retype existing columns and add indexes, so only the embedded
// database or an explicit DB_ALTER=true is migrated.
func MigrationAllowed(cfg config.DatabaseConfig) bool {
	return cfg.Embedded || cfg.Alter
}

// AutoMigrate creates the ERP tables the endpoints read and write. It alters columns
// that differ from the models, so callers gate it with MigrationAllowed.
func (db *DB) AutoMigrate() error {
	err := db.DB.AutoMigrate(
		&models.Customer{},
		&models.User{},
		&models.AuthRecord{},
		&models.StockEntry{},
		&models.StockEntryDetail{},
		&models.PaymentEntry{},
		&models.PaymentEntryReference{},
		&models.Item{},
		&models.Notification{},
	)
	if err != nil {
		return err
	}

	// Sales and POS invoices share one struct but live in separate tables
	return db.DB.AutoMigrate(
		&salesInvoiceTable{},
		&salesInvoiceItemTable{},
		&posInvoiceTable{},
		&posInvoiceItemTable{},
	)
}

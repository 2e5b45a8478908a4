package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// StoreBackend selects where records are read from and written to
type StoreBackend string

const (
	// BackendFrappe talks to the ERP over its REST API
	BackendFrappe StoreBackend = "frappe"
	// BackendDatabase reads and writes the ERP tables directly
	BackendDatabase StoreBackend = "database"
)

// Config holds all application configuration
type Config struct {
	Port      string
	JWTSecret string
	LogLevel  string
	Backend   StoreBackend
	Frappe    FrappeConfig
	Database  DatabaseConfig
	Portal    PortalConfig
	Print     PrintConfig
}

// FrappeConfig holds the ERP REST connection settings
type FrappeConfig struct {
	URL       string
	APIKey    string
	APISecret string
	Timeout   time.Duration
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Alter    bool
	// Embedded runs a private PostgreSQL under EmbeddedPath for demos and tests
	Embedded     bool
	EmbeddedPath string
	EmbeddedPort int
}

// PortalConfig holds the toggles that pick between endpoint revisions
type PortalConfig struct {
	ExcludeConsolidatedPOS     bool
	NotificationsSubmittedOnly bool
	PaymentsIncludeInvoices    bool
	RequireStockToken          bool
	DefaultPhoneRegion         string
}

// PrintConfig holds what generated documents print in their header
type PrintConfig struct {
	CompanyName string
	QRPrefix    string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:      getEnv("PORT", "3210"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		Backend:   StoreBackend(strings.ToLower(getEnv("STORE_BACKEND", string(BackendFrappe)))),
		Frappe: FrappeConfig{
			URL:       strings.TrimRight(os.Getenv("FRAPPE_URL"), "/"),
			APIKey:    os.Getenv("FRAPPE_API_KEY"),
			APISecret: os.Getenv("FRAPPE_API_SECRET"),
			Timeout:   getDuration("FRAPPE_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "erpnext"),
			Alter:    getBool("DB_ALTER", false),
		},
		Portal: PortalConfig{
			ExcludeConsolidatedPOS:     getBool("POS_EXCLUDE_CONSOLIDATED", true),
			NotificationsSubmittedOnly: getBool("NOTIFICATIONS_SUBMITTED_ONLY", true),
			PaymentsIncludeInvoices:    getBool("PAYMENTS_INCLUDE_INVOICES", true),
			RequireStockToken:          getBool("REQUIRE_STOCK_TOKEN", false),
			DefaultPhoneRegion:         strings.ToUpper(getEnv("DEFAULT_PHONE_REGION", "US")),
		},
		Print: PrintConfig{
			CompanyName: getEnv("COMPANY_NAME", "eckmobile"),
			QRPrefix:    os.Getenv("INVOICE_QR_PREFIX"),
		},
	}

	// Localhost without a password has always meant the embedded server
	cfg.Database.Embedded = getBool("PG_EMBEDDED", cfg.Database.Host == "localhost" && cfg.Database.Password == "")
	cfg.Database.EmbeddedPath = getEnv("PG_EMBEDDED_PATH", "./db_data")
	cfg.Database.EmbeddedPort = getInt("PG_EMBEDDED_PORT", 5433)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected backend has what it needs
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFrappe:
		if c.Frappe.URL == "" {
			return fmt.Errorf("FRAPPE_URL is required for the %s backend", c.Backend)
		}
	case BackendDatabase:
		// JWT_SECRET signs the session ids handed out by login
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required for the %s backend", c.Backend)
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Backend)
	}

	if c.Portal.RequireStockToken && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when REQUIRE_STOCK_TOKEN is enabled")
	}
	return nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

// getDuration accepts Go durations ("45s") or plain seconds ("45")
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if n, err := strconv.Atoi(value); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return defaultValue
}

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// Backend selection: "memory" or "sqlite"
	DataBackend string

	// AMQP (optional; empty URL disables ledger events)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Worker
	ReconcileInterval time.Duration

	// Google Sheets export (optional)
	GoogleSpreadsheetID string
	LedgerSheetName     string
	DriftSheetName      string
}

func Load() *Config {
	cfg := &Config{
		Port:         getEnv("PORT", "8082"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/moneta.db"),
		DataBackend:  getEnv("DATA_BACKEND", "memory"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "moneta"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_events"),

		ReconcileInterval: getEnvDuration("RECONCILE_INTERVAL", 5*time.Minute),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		LedgerSheetName:     getEnv("LEDGER_SHEET_NAME", "Ledger"),
		DriftSheetName:      getEnv("DRIFT_SHEET_NAME", "Drift"),
	}

	return cfg
}

// Validate reports every configuration problem at once rather than
// failing on the first one.
func (c *Config) Validate() error {
	var problems []string
	fail := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if port, err := strconv.Atoi(c.Port); err != nil {
		fail("port %q is not a number", c.Port)
	} else if port < 1 || port > 65535 {
		fail("port %d is outside 1-65535", port)
	}

	switch c.DataBackend {
	case "memory":
	case "sqlite":
		if c.SQLiteDBPath == "" {
			fail("SQLITE_DB_PATH is required with the sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				fail("cannot create database directory %q: %v", dir, err)
			}
		}
	default:
		fail("unknown data backend %q (want memory or sqlite)", c.DataBackend)
	}

	if c.AMQPURL != "" {
		u, err := url.Parse(c.AMQPURL)
		switch {
		case err != nil:
			fail("AMQP URL %q: %v", c.AMQPURL, err)
		case u.Scheme != "amqp" && u.Scheme != "amqps":
			fail("AMQP URL scheme %q (want amqp or amqps)", u.Scheme)
		}
		if c.AMQPExchange == "" {
			fail("AMQP_EXCHANGE is required when AMQP_URL is set")
		}
		if c.AMQPQueue == "" {
			fail("AMQP_QUEUE is required when AMQP_URL is set")
		}
	}

	if c.ReconcileInterval < time.Second || c.ReconcileInterval > 24*time.Hour {
		fail("reconcile interval %v is outside 1s-24h", c.ReconcileInterval)
	}

	if c.GoogleSpreadsheetID != "" {
		if strings.TrimSpace(c.LedgerSheetName) == "" {
			fail("LEDGER_SHEET_NAME is required when Google export is configured")
		}
		if strings.TrimSpace(c.DriftSheetName) == "" {
			fail("DRIFT_SHEET_NAME is required when Google export is configured")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

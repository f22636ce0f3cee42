package sqlite

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config holds SQLite connection settings.
type Config struct {
	// Path is the database file. ":memory:" opens a private in-memory database.
	Path string

	// BusyTimeout sets how long a connection waits for a lock.
	BusyTimeout time.Duration

	// JournalMode sets the journal mode (WAL, DELETE, TRUNCATE, ...).
	JournalMode string

	// Synchronous sets the synchronous mode (FULL, NORMAL, OFF).
	Synchronous string

	// CacheSize sets the page cache size in KB when negative, pages when positive.
	CacheSize int

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns settings suitable for a single-node service.
func DefaultConfig(path string) Config {
	return Config{
		Path:            path,
		BusyTimeout:     5 * time.Second,
		JournalMode:     "WAL",
		Synchronous:     "NORMAL",
		MaxOpenConns:    4,
		MaxIdleConns:    4,
		ConnMaxLifetime: time.Hour,
	}
}

var (
	validJournalModes = []string{"DELETE", "TRUNCATE", "PERSIST", "MEMORY", "WAL", "OFF"}
	validSynchronous  = []string{"OFF", "NORMAL", "FULL", "EXTRA"}
)

// Validate checks the configuration and reports every problem at once.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Path) == "" {
		errs = append(errs, errors.New("path is required"))
	}
	if c.BusyTimeout < 0 {
		errs = append(errs, fmt.Errorf("busy timeout must not be negative, got %s", c.BusyTimeout))
	}
	if c.JournalMode != "" && !contains(validJournalModes, strings.ToUpper(c.JournalMode)) {
		errs = append(errs, fmt.Errorf("invalid journal mode %q (valid: %s)", c.JournalMode, strings.Join(validJournalModes, ", ")))
	}
	if c.Synchronous != "" && !contains(validSynchronous, strings.ToUpper(c.Synchronous)) {
		errs = append(errs, fmt.Errorf("invalid synchronous mode %q (valid: %s)", c.Synchronous, strings.Join(validSynchronous, ", ")))
	}
	if c.MaxOpenConns < 0 || c.MaxIdleConns < 0 {
		errs = append(errs, errors.New("connection limits must not be negative"))
	}
	if c.MaxOpenConns > 0 && c.MaxIdleConns > c.MaxOpenConns {
		errs = append(errs, fmt.Errorf("max idle connections (%d) exceeds max open connections (%d)", c.MaxIdleConns, c.MaxOpenConns))
	}

	if len(errs) > 0 {
		return fmt.Errorf("sqlite config: %w", errors.Join(errs...))
	}
	return nil
}

func (c Config) inMemory() bool {
	return c.Path == ":memory:"
}

// DSN renders the connection string. Pragmas are passed as _pragma parameters
// so the driver applies them to every pooled connection, not just the first.
func (c Config) DSN() string {
	pragmas := []string{"foreign_keys(1)"}
	if c.BusyTimeout > 0 {
		pragmas = append(pragmas, fmt.Sprintf("busy_timeout(%d)", c.BusyTimeout.Milliseconds()))
	}
	if c.JournalMode != "" && !c.inMemory() {
		pragmas = append(pragmas, fmt.Sprintf("journal_mode(%s)", strings.ToUpper(c.JournalMode)))
	}
	if c.Synchronous != "" {
		pragmas = append(pragmas, fmt.Sprintf("synchronous(%s)", strings.ToUpper(c.Synchronous)))
	}
	if c.CacheSize != 0 {
		pragmas = append(pragmas, fmt.Sprintf("cache_size(%d)", c.CacheSize))
	}

	params := make([]string, 0, len(pragmas)+1)
	for _, p := range pragmas {
		params = append(params, "_pragma="+p)
	}
	// Write transactions take the lock up front instead of upgrading mid-flight.
	params = append(params, "_txlock=immediate")

	return "file:" + c.Path + "?" + strings.Join(params, "&")
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

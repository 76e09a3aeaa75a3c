package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeStore()
	if err := c.normalizeSQLite(); err != nil {
		return err
	}
	c.normalizeREST()
	c.Fingerprint.ExcludeField = strings.TrimSpace(c.Fingerprint.ExcludeField)
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, "logs")
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeStore() {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	if c.Store.Backend == "" {
		c.Store.Backend = defaultBackend
	}
	c.Store.Table = strings.TrimSpace(c.Store.Table)
	if c.Store.Table == "" {
		c.Store.Table = defaultTable
	}
}

func (c *Config) normalizeSQLite() error {
	if strings.TrimSpace(c.SQLite.Path) == "" {
		c.SQLite.Path = filepath.Join(c.Paths.DataDir, defaultSQLiteFile)
	}
	var err error
	if c.SQLite.Path, err = expandPath(c.SQLite.Path); err != nil {
		return fmt.Errorf("sqlite.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeREST() {
	c.REST.URL = strings.TrimSpace(c.REST.URL)
	if c.REST.URL == "" {
		if value, ok := os.LookupEnv("LABDESK_REST_URL"); ok {
			c.REST.URL = strings.TrimSpace(value)
		}
	}
	c.REST.URL = strings.TrimRight(c.REST.URL, "/")
	c.REST.APIKey = strings.TrimSpace(c.REST.APIKey)
	if c.REST.APIKey == "" {
		if value, ok := os.LookupEnv("LABDESK_REST_API_KEY"); ok {
			c.REST.APIKey = strings.TrimSpace(value)
		}
	}
	if c.REST.TimeoutSeconds == 0 {
		c.REST.TimeoutSeconds = defaultRESTTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

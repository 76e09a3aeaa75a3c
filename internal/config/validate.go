package config

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateREST(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case BackendSQLite:
		if strings.TrimSpace(c.SQLite.Path) == "" {
			return errors.New("sqlite.path must be set when store.backend is sqlite")
		}
	case BackendREST:
	default:
		return fmt.Errorf("store.backend must be %q or %q, got %q", BackendSQLite, BackendREST, c.Store.Backend)
	}
	if !tableNamePattern.MatchString(c.Store.Table) {
		return fmt.Errorf("store.table %q is not a valid table name", c.Store.Table)
	}
	return nil
}

func (c *Config) validateREST() error {
	if c.REST.TimeoutSeconds <= 0 {
		return errors.New("rest.timeout_seconds must be positive")
	}
	if c.Store.Backend != BackendREST {
		return nil
	}
	if c.REST.URL == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("rest.url is required when store.backend is rest. Set LABDESK_REST_URL or edit %s (create with 'labdesk config init')", defaultPath)
	}
	parsed, err := url.Parse(c.REST.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("rest.url %q must be an absolute http(s) URL", c.REST.URL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("rest.url %q must use http or https", c.REST.URL)
	}
	if c.REST.APIKey == "" {
		return errors.New("rest.api_key is required when store.backend is rest (or set LABDESK_REST_API_KEY)")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
}

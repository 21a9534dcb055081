// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package config

import (
	"fmt"
	"net/http"
	"strings"
)

// Validate checks that the resolved configuration is usable.
// Resolve must have been called first.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateRouting(); err != nil {
		return err
	}

	if err := c.validateOutput(); err != nil {
		return err
	}

	if err := c.validateAuth(); err != nil {
		return err
	}

	if err := c.validateRateLimit(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server timeouts must not be negative")
	}
	if c.Metrics.Enabled && c.Metrics.Address == "" {
		return fmt.Errorf("metrics.address is required when metrics.enabled=true")
	}
	return nil
}

func (c *Config) validateRouting() error {
	switch c.EndpointRoot {
	case EndpointRootCollection:
	case EndpointRootDatabase:
		if c.Store.Database == "" {
			return fmt.Errorf("endpoint_root=database requires a database in the db connection (URI path or db.database)")
		}
	default:
		return fmt.Errorf("endpoint_root must be %q or %q, got %q",
			EndpointRootCollection, EndpointRootDatabase, c.EndpointRoot)
	}

	if c.URLPrefix != "" {
		if !strings.HasPrefix(c.URLPrefix, "/") {
			return fmt.Errorf("url_prefix must start with '/', got %q", c.URLPrefix)
		}
		if strings.HasSuffix(c.URLPrefix, "/") {
			return fmt.Errorf("url_prefix must not end with '/', got %q", c.URLPrefix)
		}
	}

	if http.StatusText(c.AccessDeniedStatus) == "" || c.AccessDeniedStatus < 400 {
		return fmt.Errorf("access_denied_status must be a 4xx/5xx HTTP status, got %d", c.AccessDeniedStatus)
	}
	return nil
}

func (c *Config) validateOutput() error {
	switch strings.ToLower(c.CollectionOutputType) {
	case OutputJSON, OutputCSV:
		c.CollectionOutputType = strings.ToLower(c.CollectionOutputType)
		return nil
	default:
		return fmt.Errorf("collection_output_type must be %q or %q, got %q",
			OutputJSON, OutputCSV, c.CollectionOutputType)
	}
}

func (c *Config) validateAuth() error {
	if !c.Auth.Enabled() {
		if c.Auth.UniversalAuthToken != "" {
			return fmt.Errorf("auth.universal_auth_token requires auth.users_db_connection")
		}
		return nil
	}

	if c.Auth.UsersCollection == "" {
		return fmt.Errorf("auth.users_collection must not be empty")
	}

	switch c.Auth.TokenStore {
	case TokenStoreMongo:
		if c.Auth.TokensCollection == "" {
			return fmt.Errorf("auth.tokens_collection must not be empty")
		}
	case TokenStoreBadger:
		if c.Auth.TokenStorePath == "" {
			return fmt.Errorf("auth.token_store_path is required when auth.token_store=badger")
		}
	case TokenStoreMemory:
	default:
		return fmt.Errorf("auth.token_store must be one of %s, %s, %s, got %q",
			TokenStoreMongo, TokenStoreBadger, TokenStoreMemory, c.Auth.TokenStore)
	}

	if c.Auth.TokenTTL < 0 {
		return fmt.Errorf("auth.token_ttl must not be negative")
	}
	if c.Auth.TokenTTL > 0 && c.Auth.CleanupInterval <= 0 {
		return fmt.Errorf("auth.cleanup_interval must be positive when auth.token_ttl is set")
	}
	return nil
}

func (c *Config) validateRateLimit() error {
	if c.RateLimit.Requests < 0 || c.RateLimit.LoginRequests < 0 {
		return fmt.Errorf("rate_limit request counts must not be negative")
	}
	if (c.RateLimit.Requests > 0 || c.RateLimit.LoginRequests > 0) && c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate_limit.window must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled", "off", "":
	default:
		return fmt.Errorf("logging.level %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console", "":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

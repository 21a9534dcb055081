// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// EndpointRoot selects whether the target database is part of the URL path.
type EndpointRoot string

const (
	// EndpointRootCollection exposes /{db}/{collection}/{id}.
	EndpointRootCollection EndpointRoot = "collection"

	// EndpointRootDatabase fixes the database from configuration and exposes
	// /{collection}/{id}. The database listing endpoint is not mounted.
	EndpointRootDatabase EndpointRoot = "database"
)

// Output formats for collection queries.
const (
	OutputJSON = "json"
	OutputCSV  = "csv"
)

// Config holds all MongoREST configuration.
//
// DB and DBAccessControl hold the raw file/env values; use Store and Access,
// which Resolve fills in, everywhere else.
type Config struct {
	// DB is the store connection descriptor: a URI string or {host, port, database}.
	DB interface{} `koanf:"db"`

	Server ServerConfig `koanf:"server"`

	// URLPrefix is prepended to every route, e.g. "/api".
	URLPrefix string `koanf:"url_prefix"`

	EndpointRoot EndpointRoot `koanf:"endpoint_root"`

	// DBAccessControl is the raw allow-list: map of database to collections, or a list.
	DBAccessControl interface{} `koanf:"db_access_control"`

	// AccessDeniedStatus is the HTTP status sent with the plain-text denial body.
	AccessDeniedStatus int `koanf:"access_denied_status"`

	// CollectionOutputType is the default rendering for collection queries: json or csv.
	CollectionOutputType string `koanf:"collection_output_type"`

	// HumanReadableOutput indents JSON responses.
	HumanReadableOutput bool `koanf:"human_readable_output"`

	AccessControl CORSConfig      `koanf:"access_control"`
	Mongo         MongoConfig     `koanf:"mongo"`
	Auth          AuthConfig      `koanf:"auth"`
	RateLimit     RateLimitConfig `koanf:"rate_limit"`
	Metrics       MetricsConfig   `koanf:"metrics"`
	Logging       LoggingConfig   `koanf:"logging"`

	// Store is the resolved connection descriptor.
	Store StoreDescriptor `koanf:"-"`

	// Access is the resolved access-control policy. Nil means unrestricted.
	Access AccessPolicy `koanf:"-"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Address         string        `koanf:"address"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Address, strconv.Itoa(s.Port))
}

// CORSConfig controls the Access-Control-* response headers.
type CORSConfig struct {
	// AllowOrigin is copied to Access-Control-Allow-Origin. Empty disables CORS.
	AllowOrigin  string   `koanf:"allow_origin"`
	AllowMethods []string `koanf:"allow_methods"`
	AllowHeaders []string `koanf:"allow_headers"`
}

// MongoConfig holds driver options applied to every client.
type MongoConfig struct {
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
	MaxPoolSize    uint64        `koanf:"max_pool_size"`
	AppName        string        `koanf:"app_name"`
}

// Token store backends.
const (
	TokenStoreMongo  = "mongo"
	TokenStoreBadger = "badger"
	TokenStoreMemory = "memory"
)

// AuthConfig configures the optional token authentication layer.
// Authentication is enabled when UsersDBConnection is set.
type AuthConfig struct {
	UsersDBConnection  string        `koanf:"users_db_connection"`
	UsersCollection    string        `koanf:"users_collection"`
	TokenDBConnection  string        `koanf:"token_db_connection"`
	TokensCollection   string        `koanf:"tokens_collection"`
	TokenStore         string        `koanf:"token_store"`
	TokenStorePath     string        `koanf:"token_store_path"`
	TokenTTL           time.Duration `koanf:"token_ttl"`
	CleanupInterval    time.Duration `koanf:"cleanup_interval"`
	UniversalAuthToken string        `koanf:"universal_auth_token"`

	// Resolved connection descriptors.
	Users  StoreDescriptor `koanf:"-"`
	Tokens StoreDescriptor `koanf:"-"`
}

// Enabled reports whether the authentication gate should be installed.
func (a AuthConfig) Enabled() bool {
	return a.UsersDBConnection != ""
}

// RateLimitConfig configures go-chi/httprate limiters. Zero requests disables a limiter.
type RateLimitConfig struct {
	Requests      int           `koanf:"requests"`
	LoginRequests int           `koanf:"login_requests"`
	Window        time.Duration `koanf:"window"`
}

// MetricsConfig configures the Prometheus listener.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Address string `koanf:"address"`
	Path    string `koanf:"path"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// FixedDatabase returns the database served in database endpoint-root mode.
func (c *Config) FixedDatabase() string {
	if c.EndpointRoot != EndpointRootDatabase {
		return ""
	}
	return c.Store.Database
}

// Load is the single entry point for configuration loading.
func Load() (*Config, error) {
	cfg, err := LoadWithKoanf()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

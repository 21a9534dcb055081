// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFileDefaults(t *testing.T) {
	path := writeConfig(t, "config.yaml", "url_prefix: \"\"\n")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port = %d, want 3000", cfg.Server.Port)
	}
	if cfg.Store.URI != DefaultStoreURI {
		t.Errorf("Store.URI = %q, want %q", cfg.Store.URI, DefaultStoreURI)
	}
	if cfg.EndpointRoot != EndpointRootCollection {
		t.Errorf("EndpointRoot = %q, want collection", cfg.EndpointRoot)
	}
	if cfg.AccessDeniedStatus != 403 {
		t.Errorf("AccessDeniedStatus = %d, want 403", cfg.AccessDeniedStatus)
	}
	if cfg.CollectionOutputType != OutputJSON {
		t.Errorf("CollectionOutputType = %q, want json", cfg.CollectionOutputType)
	}
	if !cfg.Access.Unrestricted() {
		t.Errorf("Access = %v, want unrestricted", cfg.Access)
	}
	if cfg.Auth.Enabled() {
		t.Error("Auth.Enabled() = true, want false without users connection")
	}
	if cfg.RateLimit.LoginRequests != 10 || cfg.RateLimit.Window != time.Minute {
		t.Errorf("RateLimit = %+v, want 10 login requests per minute", cfg.RateLimit)
	}
}

func TestLoadFileYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
db:
  host: mongo
  port: 27018
  database: shop
server:
  port: 8080
url_prefix: /api
endpoint_root: database
db_access_control: [items, orders]
access_denied_status: 401
collection_output_type: CSV
human_readable_output: true
access_control:
  allow_origin: "*"
auth:
  users_db_connection: mongodb://mongo:27018/accounts
  token_store: memory
  token_ttl: 24h
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}

	if cfg.Store.URI != "mongodb://mongo:27018/shop" || cfg.Store.Database != "shop" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.URLPrefix != "/api" {
		t.Errorf("URLPrefix = %q, want /api", cfg.URLPrefix)
	}
	want := AccessPolicy{"shop": {"items", "orders"}}
	if !reflect.DeepEqual(cfg.Access, want) {
		t.Errorf("Access = %#v, want %#v", cfg.Access, want)
	}
	if cfg.AccessDeniedStatus != 401 {
		t.Errorf("AccessDeniedStatus = %d, want 401", cfg.AccessDeniedStatus)
	}
	if cfg.CollectionOutputType != OutputCSV {
		t.Errorf("CollectionOutputType = %q, want csv", cfg.CollectionOutputType)
	}
	if !cfg.HumanReadableOutput {
		t.Error("HumanReadableOutput = false, want true")
	}
	if cfg.AccessControl.AllowOrigin != "*" {
		t.Errorf("AllowOrigin = %q, want *", cfg.AccessControl.AllowOrigin)
	}
	if cfg.Auth.Users.Database != "accounts" {
		t.Errorf("Auth.Users.Database = %q, want accounts", cfg.Auth.Users.Database)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Errorf("Auth.TokenTTL = %v, want 24h", cfg.Auth.TokenTTL)
	}
}

func TestLoadFileJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
  "db": "mongodb://localhost:27017",
  "db_access_control": {"foo": []}
}`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if !reflect.DeepEqual(cfg.Access, AccessPolicy{"foo": {}}) {
		t.Errorf("Access = %#v", cfg.Access)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "config.yaml", "server:\n  port: 8080\n")

	t.Setenv("MONGOREST_SERVER_PORT", "9000")
	t.Setenv("MONGOREST_DB", "mongodb://envhost:27017/envdb")
	t.Setenv("MONGOREST_DB_ACCESS_CONTROL", "envdb,other")
	t.Setenv("MONGOREST_OUTPUT", "csv")
	t.Setenv("MONGOREST_LOG_LEVEL", "debug")
	t.Setenv("MONGOREST_UNRELATED", "ignored")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want env override 9000", cfg.Server.Port)
	}
	if cfg.Store.Database != "envdb" {
		t.Errorf("Store.Database = %q, want envdb", cfg.Store.Database)
	}
	want := AccessPolicy{"envdb": {}, "other": {}}
	if !reflect.DeepEqual(cfg.Access, want) {
		t.Errorf("Access = %#v, want %#v", cfg.Access, want)
	}
	if cfg.CollectionOutputType != OutputCSV {
		t.Errorf("CollectionOutputType = %q, want csv", cfg.CollectionOutputType)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"MONGOREST_DB", "db"},
		{"MONGOREST_PORT", "server.port"},
		{"MONGOREST_UNIVERSAL_AUTH_TOKEN", "auth.universal_auth_token"},
		{"MONGOREST_METRICS_ENABLED", "metrics.enabled"},
		{"MONGOREST_TOKEN_CLEANUP_INTERVAL", "auth.cleanup_interval"},
		{"MONGOREST_SHUTDOWN_TIMEOUT", "server.shutdown_timeout"},
		{"MONGOREST_NOPE", ""},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{name: "defaults", mutate: func(*Config) {}, ok: true},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }},
		{name: "bad endpoint root", mutate: func(c *Config) { c.EndpointRoot = "tree" }},
		{name: "database mode without database", mutate: func(c *Config) { c.EndpointRoot = EndpointRootDatabase }},
		{name: "prefix without slash", mutate: func(c *Config) { c.URLPrefix = "api" }},
		{name: "prefix trailing slash", mutate: func(c *Config) { c.URLPrefix = "/api/" }},
		{name: "denied status not an error", mutate: func(c *Config) { c.AccessDeniedStatus = 200 }},
		{name: "unknown output", mutate: func(c *Config) { c.CollectionOutputType = "xml" }},
		{name: "universal token without auth", mutate: func(c *Config) { c.Auth.UniversalAuthToken = "x" }},
		{
			name: "unknown token store",
			mutate: func(c *Config) {
				c.Auth.UsersDBConnection = "mongodb://localhost/auth"
				c.Auth.TokenStore = "redis"
			},
		},
		{
			name: "badger without path",
			mutate: func(c *Config) {
				c.Auth.UsersDBConnection = "mongodb://localhost/auth"
				c.Auth.TokenStore = TokenStoreBadger
				c.Auth.TokenStorePath = ""
			},
		},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "loud" }},
		{name: "negative rate limit", mutate: func(c *Config) { c.RateLimit.Requests = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Resolve(); err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

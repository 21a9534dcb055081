// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config file locations searched in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"config.json",
	"/etc/mongorest/config.yaml",
	"/etc/mongorest/config.json",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// envPrefix is stripped from environment variable names before mapping.
const envPrefix = "MONGOREST_"

// defaultConfig returns a Config with every default applied.
// DB is left nil so that a missing store section falls back to localhost.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address:         "0.0.0.0",
			Port:            3000,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		URLPrefix:            "",
		EndpointRoot:         EndpointRootCollection,
		AccessDeniedStatus:   403,
		CollectionOutputType: OutputJSON,
		HumanReadableOutput:  false,
		AccessControl: CORSConfig{
			AllowOrigin:  "",
			AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"},
			AllowHeaders: []string{"Content-Type", "Authorization", "X-Auth-Token"},
		},
		Mongo: MongoConfig{
			ConnectTimeout: 10 * time.Second,
			AppName:        "mongorest",
		},
		Auth: AuthConfig{
			UsersCollection:  "users",
			TokensCollection: "tokens",
			TokenStore:       TokenStoreMongo,
			TokenStorePath:   "/data/tokens",
			CleanupInterval:  time.Hour,
		},
		RateLimit: RateLimitConfig{
			Requests:      0, // API limiter off unless configured
			LoginRequests: 10,
			Window:        time.Minute,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Address: ":9090",
			Path:    "/metrics",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf loads configuration from defaults, the first config file found
// in DefaultConfigPaths (or $CONFIG_PATH), and MONGOREST_* environment variables.
func LoadWithKoanf() (*Config, error) {
	return load(findConfigFile())
}

// LoadFile is LoadWithKoanf with an explicit config file path. The file must exist.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return load(path)
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Resolve(); err != nil {
		return nil, fmt.Errorf("configuration resolution failed: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are parsed from comma-separated strings when set via env.
var sliceConfigPaths = []string{
	"access_control.allow_methods",
	"access_control.allow_headers",
	"db_access_control",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps MONGOREST_* variable names (prefix stripped, lower-cased)
// to koanf paths.
var envMappings = map[string]string{
	"db":                     "db",
	"server_address":         "server.address",
	"server_port":            "server.port",
	"port":                   "server.port",
	"server_read_timeout":    "server.read_timeout",
	"server_write_timeout":   "server.write_timeout",
	"shutdown_timeout":       "server.shutdown_timeout",
	"url_prefix":             "url_prefix",
	"endpoint_root":          "endpoint_root",
	"db_access_control":      "db_access_control",
	"access_denied_status":   "access_denied_status",
	"output":                 "collection_output_type",
	"collection_output_type": "collection_output_type",
	"human_readable_output":  "human_readable_output",
	"allow_origin":           "access_control.allow_origin",
	"allow_methods":          "access_control.allow_methods",
	"allow_headers":          "access_control.allow_headers",
	"mongo_connect_timeout":  "mongo.connect_timeout",
	"mongo_max_pool_size":    "mongo.max_pool_size",
	"mongo_app_name":         "mongo.app_name",
	"users_db_connection":    "auth.users_db_connection",
	"users_collection":       "auth.users_collection",
	"token_db_connection":    "auth.token_db_connection",
	"tokens_collection":      "auth.tokens_collection",
	"token_store":            "auth.token_store",
	"token_store_path":       "auth.token_store_path",
	"token_ttl":              "auth.token_ttl",
	"token_cleanup_interval": "auth.cleanup_interval",
	"universal_auth_token":   "auth.universal_auth_token",
	"rate_limit_requests":    "rate_limit.requests",
	"rate_limit_login":       "rate_limit.login_requests",
	"rate_limit_window":      "rate_limit.window",
	"metrics_enabled":        "metrics.enabled",
	"metrics_address":        "metrics.address",
	"metrics_path":           "metrics.path",
	"log_level":              "logging.level",
	"log_format":             "logging.format",
	"log_caller":             "logging.caller",
}

// envTransformFunc maps an environment variable to its koanf path.
// Unknown variables map to "" and are ignored.
//
//	MONGOREST_DB             -> db
//	MONGOREST_SERVER_PORT    -> server.port
//	MONGOREST_LOG_LEVEL      -> logging.level
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	return envMappings[key]
}

// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/mongorest/internal/api"
	"github.com/tomtom215/mongorest/internal/auth"
	"github.com/tomtom215/mongorest/internal/authz"
	"github.com/tomtom215/mongorest/internal/config"
	"github.com/tomtom215/mongorest/internal/database"
	"github.com/tomtom215/mongorest/internal/logging"
	"github.com/tomtom215/mongorest/internal/supervisor"
	"github.com/tomtom215/mongorest/internal/supervisor/services"
)

// accessDecisionTTL bounds how long casbin decisions are cached.
const accessDecisionTTL = 5 * time.Minute

// closeTimeout bounds disconnecting from MongoDB at exit.
const closeTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("MongoREST stopped with error")
	}
	logging.Info().Msg("MongoREST stopped gracefully")
}

// closer releases one resource at shutdown.
type closer struct {
	name  string
	close func(ctx context.Context) error
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("address", cfg.Server.Addr()).
		Str("database", cfg.Store.Database).
		Str("endpoint_root", string(cfg.EndpointRoot)).
		Str("url_prefix", cfg.URLPrefix).
		Bool("auth", cfg.Auth.Enabled()).
		Bool("access_control", !cfg.Access.Unrestricted()).
		Msg("Configuration loaded")

	var closers []closer
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		// Release in reverse order of acquisition.
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].close(ctx); err != nil {
				logging.Error().Err(err).Str("resource", closers[i].name).Msg("Error during shutdown")
			}
		}
	}()

	resolver := database.NewResolver(cfg.Store, cfg.Mongo, database.NewCollectionCache())
	closers = append(closers, closer{"store", resolver.Close})
	store := database.NewMongoStore(resolver)

	gate, err := authz.NewGate(authz.GateConfig{
		Policy:       cfg.Access,
		DeniedStatus: cfg.AccessDeniedStatus,
		CacheTTL:     accessDecisionTTL,
	})
	if err != nil {
		return fmt.Errorf("access control: %w", err)
	}
	closers = append(closers, closer{"access-gate", func(context.Context) error {
		gate.Close()
		return nil
	}})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	authenticator, err := initAuth(ctx, cfg, &closers)
	if err != nil {
		return err
	}

	router, err := api.NewRouter(api.Dependencies{
		Config: cfg,
		Store:  store,
		Gate:   gate,
		Auth:   authenticator,
	})
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}
	logging.Info().Strs("stages", router.Stages()).Msg("Request pipeline configured")

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	restServer := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService("rest-server", restServer, cfg.Server.ShutdownTimeout))

	if cfg.Metrics.Enabled {
		metricsServer := &http.Server{
			Addr:              cfg.Metrics.Address,
			Handler:           api.NewOpsRouter(cfg.Metrics.Path, resolver),
			ReadHeaderTimeout: 10 * time.Second,
		}
		tree.AddAPIService(services.NewHTTPServerService("metrics-server", metricsServer, cfg.Server.ShutdownTimeout))
		logging.Info().Str("address", cfg.Metrics.Address).Str("path", cfg.Metrics.Path).Msg("Metrics listener enabled")
	}

	if authenticator != nil && cfg.Auth.TokenTTL > 0 {
		tree.AddDataService(services.NewTokenCleanupService(authenticator, cfg.Auth.CleanupInterval))
	}

	logging.Info().Str("address", restServer.Addr).Msg("MongoREST listening")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}
	return nil
}

// initAuth wires the user and token stores when users_db_connection is set.
// It returns a nil Authenticator when authentication is disabled.
func initAuth(ctx context.Context, cfg *config.Config, closers *[]closer) (*auth.Authenticator, error) {
	if !cfg.Auth.Enabled() {
		logging.Warn().Msg("Authentication disabled: every route is public")
		return nil, nil
	}

	usersResolver := database.NewResolver(cfg.Auth.Users, cfg.Mongo, database.NewCollectionCache())
	*closers = append(*closers, closer{"users-store", usersResolver.Close})

	var tokensResolver *database.Resolver
	if cfg.Auth.TokenStore == config.TokenStoreMongo || cfg.Auth.TokenStore == "" {
		tokensResolver = database.NewResolver(cfg.Auth.Tokens, cfg.Mongo, database.NewCollectionCache())
		*closers = append(*closers, closer{"tokens-store", tokensResolver.Close})
	}

	factory, err := auth.NewTokenStoreFactory(cfg.Auth, tokensResolver)
	if err != nil {
		return nil, fmt.Errorf("token store: %w", err)
	}
	*closers = append(*closers, closer{"token-store-factory", func(context.Context) error {
		return factory.Close()
	}})

	tokens, err := factory.CreateStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("token store: %w", err)
	}

	if cfg.Auth.UniversalAuthToken != "" {
		logging.Warn().Msg("Universal auth token configured: it bypasses login for every request")
	}
	if cfg.Auth.TokenStore == config.TokenStoreMemory {
		logging.Warn().Msg("Session tokens are kept in memory and will be lost on restart")
	}

	logging.Info().
		Str("users_collection", cfg.Auth.UsersCollection).
		Str("token_store", cfg.Auth.TokenStore).
		Dur("token_ttl", cfg.Auth.TokenTTL).
		Msg("Authentication enabled")

	return auth.NewAuthenticator(
		auth.NewMongoUserStore(usersResolver, cfg.Auth.UsersCollection),
		tokens,
		auth.Config{
			UniversalToken: cfg.Auth.UniversalAuthToken,
			TokenTTL:       cfg.Auth.TokenTTL,
		},
	), nil
}

// Command storefront sends authenticated requests to the storefront API.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/storefront-cli/internal/adapters/driven/config/env"
	"github.com/custodia-labs/storefront-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/storefront-cli/internal/adapters/driven/oauth"
	"github.com/custodia-labs/storefront-cli/internal/adapters/driven/sanitizer"
	"github.com/custodia-labs/storefront-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/storefront-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/storefront-cli/internal/adapters/driven/transport"
	"github.com/custodia-labs/storefront-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/storefront-cli/internal/core/domain"
	"github.com/custodia-labs/storefront-cli/internal/core/ports/driven"
	"github.com/custodia-labs/storefront-cli/internal/core/services"
	"github.com/custodia-labs/storefront-cli/internal/logger"
	"github.com/custodia-labs/storefront-cli/internal/metrics"
)

func main() {
	cli.SetBootstrap(bootstrap)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap wires the services for profile. Settings stay available even
// when the rest cannot be built, so 'config set' can repair a bad value.
func bootstrap(profile string) (*cli.Services, error) {
	logger.Section("Bootstrap")

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	logger.Debug("config: %s", configStore.Path())
	settingsService := services.NewSettingsService(configStore)

	svcs := &cli.Services{
		Settings: settingsService,
		Metrics:  metrics.Registry,
	}

	stored, err := settingsService.Get()
	if err != nil {
		return svcs, fmt.Errorf("load settings: %w", err)
	}
	settings, err := env.Resolve(*stored, env.DefaultEnvFile)
	if err != nil {
		return svcs, fmt.Errorf("invalid settings: %w", err)
	}
	svcs.Effective = settings

	scope := settings.Storage.Scope
	if profile != "" {
		scope = profile
	}
	logger.Info("profile %q, %s credential store", scope, settings.Storage.Backend)

	var store driven.TokenStore
	switch settings.Storage.Backend {
	case domain.StorageBackendMemory:
		store = memory.NewTokenStore()
	default:
		db, err := sqlite.NewStore(settings.Storage.DataDir)
		if err != nil {
			return svcs, fmt.Errorf("open credential store: %w", err)
		}
		store = db.TokenStore(scope)
		svcs.Close = db.Close
		logger.Debug("credentials: %s", db.Path())
	}

	urlSanitizer, err := sanitizer.New(settings.API)
	if err != nil {
		return svcs, fmt.Errorf("invalid api settings: %w", err)
	}

	client := transport.NewClient(settings.HTTP)
	exchanger := oauth.NewExchanger(settings.API.TokenExchangeURL, settings.API.TokenField, client)

	svcs.Gate = services.NewGate(store, urlSanitizer, exchanger, client,
		services.WithMetrics(metrics.NewGateMetrics(metrics.Registry)))
	svcs.Credentials = services.NewCredentialsService(store, scope)
	return svcs, nil
}

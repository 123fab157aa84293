// Package cli implements the storefront command line interface.
package cli

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
	"github.com/custodia-labs/storefront-cli/internal/core/ports/driving"
	"github.com/custodia-labs/storefront-cli/internal/logger"
	"github.com/custodia-labs/storefront-cli/internal/metrics"
)

// version is set at build time via -ldflags "-X .../cli.version=...".
var version = "dev"

// Global flags.
var (
	verbose     bool
	showMetrics bool
	profile     string
)

// Services used by the commands. Populated by the bootstrap function, or
// directly by tests.
var (
	requestGate        driving.RequestGate
	credentialsService driving.CredentialsService
	settingsService    driving.SettingsService
	metricsGatherer    prometheus.Gatherer
	effectiveSettings  *domain.ClientSettings
	closeServices      func() error
	servicesErr        error
)

// Services holds everything the commands need.
type Services struct {
	Gate        driving.RequestGate
	Credentials driving.CredentialsService
	Settings    driving.SettingsService
	Metrics     prometheus.Gatherer
	// Effective holds the settings in use after environment overrides.
	Effective *domain.ClientSettings
	// Close releases resources held by the services, if set.
	Close func() error
}

// Bootstrap builds the services for a storage profile. It may return
// partially built services together with an error, in which case commands
// that only need the populated services keep working.
type Bootstrap func(profile string) (*Services, error)

var bootstrap Bootstrap

// SetBootstrap registers the function building the services. It runs once
// flags are parsed, so the --profile flag can select the storage scope.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Authenticated client for the storefront API",
	Long: `Storefront sends authenticated requests to the storefront API.

Requests carry the stored access token. When the API answers 401 the refresh
token is exchanged for a new access token and the request is sent once more.

Examples:
  storefront auth login --refresh-token "..."
  storefront request /v1/cart
  storefront request -X POST -d '{"sku":"A-1"}' /v1/cart/items`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&showMetrics, "metrics", false, "Print gate metrics to stderr on exit")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "Credential profile (storage scope)")
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if showMetrics && metricsGatherer != nil {
		if werr := metrics.WriteText(rootCmd.ErrOrStderr(), metricsGatherer); werr != nil {
			logger.Warn("write metrics: %v", werr)
		}
	}
	if closeServices != nil {
		if cerr := closeServices(); cerr != nil {
			err = errors.Join(err, cerr)
		}
		closeServices = nil
	}
	return err
}

func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetVerbose(verbose)

	if bootstrap == nil {
		return nil
	}
	svcs, err := bootstrap(profile)
	servicesErr = err
	if svcs != nil {
		requestGate = svcs.Gate
		credentialsService = svcs.Credentials
		settingsService = svcs.Settings
		metricsGatherer = svcs.Metrics
		effectiveSettings = svcs.Effective
		closeServices = svcs.Close
	}
	if err != nil {
		logger.Debug("bootstrap: %v", err)
	}
	return nil
}

// notConfigured reports a missing service, including the bootstrap error
// that prevented it from being built.
func notConfigured(name string) error {
	if servicesErr != nil {
		return fmt.Errorf("%s not configured: %w", name, servicesErr)
	}
	return fmt.Errorf("%s not configured", name)
}

package driving

import "github.com/custodia-labs/storefront-cli/internal/core/domain"

// SettingsService manages client settings.
type SettingsService interface {
	// Get retrieves current settings, with defaults for unset keys.
	Get() (*domain.ClientSettings, error)

	// Set updates a single setting by its config key (e.g. "api.base_url").
	Set(key, value string) error

	// Keys returns the supported config keys in display order.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.ClientSettings
}

package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
	"github.com/custodia-labs/storefront-cli/internal/core/ports/driven"
	"github.com/custodia-labs/storefront-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyBaseURL          = "api.base_url"
	keyTokenExchangeURL = "api.token_exchange_url"
	keyAllowedHosts     = "api.allowed_hosts"
	keyTokenField       = "api.token_field"
	keyAllowInsecure    = "api.allow_insecure"
	keyTimeoutSeconds   = "http.timeout_seconds"
	keyRateLimit        = "http.rate_limit"
	keyBurst            = "http.burst"
	keyBackend          = "storage.backend"
	keyScope            = "storage.scope"
	keyDataDir          = "storage.data_dir"
)

// settingKeys lists the supported keys in display order.
var settingKeys = []string{
	keyBaseURL,
	keyTokenExchangeURL,
	keyAllowedHosts,
	keyTokenField,
	keyAllowInsecure,
	keyTimeoutSeconds,
	keyRateLimit,
	keyBurst,
	keyBackend,
	keyScope,
	keyDataDir,
}

// SettingsService manages client settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current settings. Unset or unparseable keys fall back to defaults.
func (s *SettingsService) Get() (*domain.ClientSettings, error) {
	defaults := domain.DefaultClientSettings()

	settings := &domain.ClientSettings{
		API: domain.APISettings{
			BaseURL:          s.getString(keyBaseURL, defaults.API.BaseURL),
			TokenExchangeURL: s.getString(keyTokenExchangeURL, defaults.API.TokenExchangeURL),
			AllowedHosts:     s.configStore.GetStringSlice(keyAllowedHosts),
			TokenField:       s.getString(keyTokenField, defaults.API.TokenField),
			AllowInsecure:    s.getBool(keyAllowInsecure, defaults.API.AllowInsecure),
		},
		HTTP: domain.HTTPSettings{
			Timeout:   s.getTimeout(defaults.HTTP.Timeout),
			RateLimit: s.getFloat(keyRateLimit, defaults.HTTP.RateLimit),
			Burst:     s.getInt(keyBurst, defaults.HTTP.Burst),
		},
		Storage: domain.StorageSettings{
			Backend: s.getBackend(defaults.Storage.Backend),
			Scope:   s.getString(keyScope, defaults.Storage.Scope),
			DataDir: s.configStore.GetString(keyDataDir), // No default - empty means ~/.storefront
		},
	}

	return settings, nil
}

// Set parses value for key and persists it.
//
//nolint:gocyclo // One case per supported key
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)

	var stored any
	switch key {
	case keyBaseURL, keyTokenExchangeURL, keyTokenField, keyScope:
		if value == "" {
			return fmt.Errorf("%w: %s cannot be empty", domain.ErrInvalidInput, key)
		}
		stored = value
	case keyDataDir:
		stored = value
	case keyAllowedHosts:
		stored = splitList(value)
	case keyAllowInsecure:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		stored = b
	case keyTimeoutSeconds, keyBurst:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		stored = n
	case keyRateLimit:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidInput, key)
		}
		stored = f
	case keyBackend:
		backend := domain.StorageBackend(value)
		if !backend.IsValid() {
			return fmt.Errorf("%w: unknown storage backend %q", domain.ErrInvalidInput, value)
		}
		stored = backend.String()
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns the supported config keys in display order.
func (s *SettingsService) Keys() []string {
	return append([]string(nil), settingKeys...)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.ClientSettings {
	return domain.DefaultClientSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val, exists := s.configStore.Get(key)
	if !exists {
		return defaultVal
	}
	switch v := val.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return defaultVal
	}
}

func (s *SettingsService) getTimeout(defaultVal time.Duration) time.Duration {
	if _, exists := s.configStore.Get(keyTimeoutSeconds); !exists {
		return defaultVal
	}
	return time.Duration(s.configStore.GetInt(keyTimeoutSeconds)) * time.Second
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	val := s.configStore.GetString(keyBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.StorageBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

// splitList splits a comma-separated value, dropping empty items.
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

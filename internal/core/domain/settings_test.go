package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorageBackend_IsValid(t *testing.T) {
	assert.True(t, StorageBackendSQLite.IsValid())
	assert.True(t, StorageBackendMemory.IsValid())
	assert.False(t, StorageBackend("redis").IsValid())
	assert.False(t, StorageBackend("").IsValid())
}

func TestStorageBackend_String(t *testing.T) {
	assert.Equal(t, "sqlite", StorageBackendSQLite.String())
	assert.Equal(t, "memory", StorageBackendMemory.String())
}

func TestDefaultClientSettings(t *testing.T) {
	settings := DefaultClientSettings()

	assert.Equal(t, DefaultBaseURL, settings.API.BaseURL)
	assert.Equal(t, DefaultTokenExchangeURL, settings.API.TokenExchangeURL)
	assert.Equal(t, "data.accessToken", settings.API.TokenField)
	assert.False(t, settings.API.AllowInsecure)
	assert.Empty(t, settings.API.AllowedHosts)

	assert.Equal(t, DefaultTimeout, settings.HTTP.Timeout)
	assert.InDelta(t, DefaultRateLimit, settings.HTTP.RateLimit, 0.0001)
	assert.Equal(t, DefaultBurst, settings.HTTP.Burst)

	assert.Equal(t, StorageBackendSQLite, settings.Storage.Backend)
	assert.Equal(t, DefaultScope, settings.Storage.Scope)
	assert.Empty(t, settings.Storage.DataDir)
}

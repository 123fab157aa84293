package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
)

func TestCredentialsService_Login(t *testing.T) {
	store := newMockTokenStore(nil)
	service := NewCredentialsService(store, "default")

	err := service.Login(context.Background(), "access-token-1234", " refresh-token-5678 ")

	require.NoError(t, err)
	assert.Equal(t, "access-token-1234", store.value(domain.AccessTokenKey))
	assert.Equal(t, "refresh-token-5678", store.value(domain.RefreshTokenKey))
}

func TestCredentialsService_Login_RefreshOnlyClearsStaleAccessToken(t *testing.T) {
	store := newMockTokenStore(map[domain.CredentialKey]string{
		domain.AccessTokenKey:  "old-access",
		domain.RefreshTokenKey: "old-refresh",
	})
	service := NewCredentialsService(store, "default")

	require.NoError(t, service.Login(context.Background(), "", "new-refresh"))

	_, ok, err := store.Get(context.Background(), domain.AccessTokenKey)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "new-refresh", store.value(domain.RefreshTokenKey))
}

func TestCredentialsService_Login_RequiresAToken(t *testing.T) {
	service := NewCredentialsService(newMockTokenStore(nil), "default")

	err := service.Login(context.Background(), "  ", "")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCredentialsService_Login_StoreError(t *testing.T) {
	store := newMockTokenStore(nil)
	store.setErr = errors.New("read-only database")
	service := NewCredentialsService(store, "default")

	err := service.Login(context.Background(), "a", "r")

	require.Error(t, err)
	assert.ErrorIs(t, err, store.setErr)
	assert.Contains(t, err.Error(), "save refresh_token")
}

func TestCredentialsService_Logout(t *testing.T) {
	store := newMockTokenStore(map[domain.CredentialKey]string{
		domain.AccessTokenKey:  "a",
		domain.RefreshTokenKey: "r",
	})
	service := NewCredentialsService(store, "default")

	require.NoError(t, service.Logout(context.Background()))

	status, err := service.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, status.IsAuthenticated())
}

func TestCredentialsService_Status(t *testing.T) {
	store := newMockTokenStore(map[domain.CredentialKey]string{
		domain.RefreshTokenKey: "refresh-token-5678",
	})
	service := NewCredentialsService(store, "work")

	status, err := service.Status(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "work", status.Scope)
	assert.False(t, status.HasAccessToken)
	assert.True(t, status.HasRefreshToken)
	assert.Empty(t, status.AccessTokenPreview)
	assert.Equal(t, "refr…5678", status.RefreshTokenPreview)
	assert.True(t, status.IsAuthenticated())
}

func TestCredentialsService_Status_StoreError(t *testing.T) {
	store := newMockTokenStore(nil)
	store.getErr = errors.New("database is locked")
	service := NewCredentialsService(store, "default")

	_, err := service.Status(context.Background())

	assert.ErrorIs(t, err, store.getErr)
}

func TestCredentialsService_NilStore(t *testing.T) {
	service := NewCredentialsService(nil, "default")
	ctx := context.Background()

	assert.ErrorIs(t, service.Login(ctx, "a", "r"), domain.ErrNotImplemented)
	assert.ErrorIs(t, service.Logout(ctx), domain.ErrNotImplemented)
	_, err := service.Status(ctx)
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}

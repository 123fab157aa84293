package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
	"github.com/custodia-labs/storefront-cli/internal/core/ports/driven"
	"github.com/custodia-labs/storefront-cli/internal/core/ports/driving"
)

// Ensure CredentialsService implements the interface.
var _ driving.CredentialsService = (*CredentialsService)(nil)

// CredentialsService manages the tokens of one storage scope.
type CredentialsService struct {
	store driven.TokenStore
	scope string
}

// NewCredentialsService creates a new credentials service for scope.
func NewCredentialsService(store driven.TokenStore, scope string) *CredentialsService {
	return &CredentialsService{
		store: store,
		scope: scope,
	}
}

// Login replaces the stored tokens.
func (s *CredentialsService) Login(ctx context.Context, accessToken, refreshToken string) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	accessToken = strings.TrimSpace(accessToken)
	refreshToken = strings.TrimSpace(refreshToken)
	if accessToken == "" && refreshToken == "" {
		return fmt.Errorf("%w: an access token or refresh token is required", domain.ErrInvalidInput)
	}

	if err := s.put(ctx, domain.RefreshTokenKey, refreshToken); err != nil {
		return err
	}
	return s.put(ctx, domain.AccessTokenKey, accessToken)
}

// Logout removes both tokens.
func (s *CredentialsService) Logout(ctx context.Context) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	for _, key := range []domain.CredentialKey{domain.AccessTokenKey, domain.RefreshTokenKey} {
		if err := s.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	return nil
}

// Status reports which tokens are stored.
func (s *CredentialsService) Status(ctx context.Context) (*domain.CredentialStatus, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}

	access, _, err := s.store.Get(ctx, domain.AccessTokenKey)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", domain.AccessTokenKey, err)
	}
	refresh, _, err := s.store.Get(ctx, domain.RefreshTokenKey)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", domain.RefreshTokenKey, err)
	}

	return &domain.CredentialStatus{
		Scope:               s.scope,
		HasAccessToken:      access != "",
		HasRefreshToken:     refresh != "",
		AccessTokenPreview:  domain.MaskToken(access),
		RefreshTokenPreview: domain.MaskToken(refresh),
	}, nil
}

// put stores value under key, or deletes key when value is empty.
func (s *CredentialsService) put(ctx context.Context, key domain.CredentialKey, value string) error {
	if value == "" {
		if err := s.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
		return nil
	}
	if err := s.store.Set(ctx, key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

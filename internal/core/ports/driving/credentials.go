package driving

import (
	"context"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
)

// CredentialsService manages the stored access and refresh tokens of one profile.
type CredentialsService interface {
	// Login replaces the stored credential with the given tokens.
	// At least one token is required; an empty value removes that entry.
	Login(ctx context.Context, accessToken, refreshToken string) error

	// Logout removes both tokens.
	Logout(ctx context.Context) error

	// Status reports which tokens are present, with masked previews.
	Status(ctx context.Context) (*domain.CredentialStatus, error)
}

// Package auth exposes the request gate's credentials to oauth2-aware clients.
package auth

import (
	"context"

	"golang.org/x/oauth2"
)

// TokenProvider returns the current access token, refreshing if needed.
// services.Gate satisfies it.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// TokenSourceAdapter adapts a TokenProvider to oauth2.TokenSource.
// Tokens carry no expiry; staleness is left to the provider.
type TokenSourceAdapter struct {
	provider TokenProvider
	ctx      context.Context
}

// NewTokenSource creates an oauth2.TokenSource backed by provider.
func NewTokenSource(ctx context.Context, provider TokenProvider) oauth2.TokenSource {
	return &TokenSourceAdapter{
		provider: provider,
		ctx:      ctx,
	}
}

// Token implements oauth2.TokenSource.
func (t *TokenSourceAdapter) Token() (*oauth2.Token, error) {
	accessToken, err := t.provider.Token(t.ctx)
	if err != nil {
		return nil, err
	}

	return &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}, nil
}

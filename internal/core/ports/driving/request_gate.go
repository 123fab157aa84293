package driving

import (
	"context"
	"net/http"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
)

// RequestGate sends authenticated requests to the storefront backend.
// It attaches the current bearer token, refreshes it at most once per
// request on a 401, and shares one in-flight refresh between all callers.
type RequestGate interface {
	// Refresh obtains a new access token using the stored refresh token.
	// Concurrent callers share a single exchange. Returns ok=false on any
	// failure; the cause is logged, never returned.
	Refresh(ctx context.Context) (token string, ok bool)

	// Do sends an authenticated request to target.
	// Returns an error wrapping domain.ErrInvalidTarget or
	// domain.ErrUnauthenticated without touching the network, and transport
	// errors unmodified. Any HTTP response, including 401, is returned as-is.
	Do(ctx context.Context, target string, opts domain.RequestOptions) (*http.Response, error)

	// Token returns the current access token, refreshing if none is stored.
	Token(ctx context.Context) (string, error)
}

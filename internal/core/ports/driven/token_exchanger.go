package driven

import "context"

// TokenExchanger trades a refresh token for a new access token at the
// backend's token exchange endpoint.
type TokenExchanger interface {
	// Exchange performs exactly one network exchange.
	// Errors wrap domain.ErrNetwork when the exchange could not be completed
	// and domain.ErrServerRejected when the backend refused it or returned
	// a payload without an access token.
	Exchange(ctx context.Context, refreshToken string) (accessToken string, err error)
}

package domain

import "net/http"

// CredentialKey names an entry in the scoped credential store.
type CredentialKey string

// Keys persisted by the credential store.
//
//nolint:gosec // G101: These are key names, not actual credentials.
const (
	// AccessTokenKey holds the current bearer access token.
	AccessTokenKey CredentialKey = "access_token"

	// RefreshTokenKey holds the refresh token exchanged for new access tokens.
	RefreshTokenKey CredentialKey = "refresh_token"
)

// String returns the string representation.
func (k CredentialKey) String() string {
	return string(k)
}

// CredentialStatus describes the credentials currently persisted for a profile.
// Token values are never exposed, only masked previews.
type CredentialStatus struct {
	// Scope is the storage scope (profile) the status was read from.
	Scope string
	// HasAccessToken is true when an access token is stored.
	HasAccessToken bool
	// HasRefreshToken is true when a refresh token is stored.
	HasRefreshToken bool
	// AccessTokenPreview is a masked form of the access token.
	AccessTokenPreview string
	// RefreshTokenPreview is a masked form of the refresh token.
	RefreshTokenPreview string
}

// IsAuthenticated returns true if a request could be attempted with the
// stored credentials, either directly or after a refresh.
func (s CredentialStatus) IsAuthenticated() bool {
	return s.HasAccessToken || s.HasRefreshToken
}

// MaskToken returns a preview of a token that is safe to print.
func MaskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "…" + token[len(token)-4:]
}

// RequestOptions describes an outbound request issued through the request gate.
// The body is kept as bytes so the request can be replayed after a refresh.
type RequestOptions struct {
	// Method is the HTTP method. Empty means GET.
	Method string
	// Header holds caller headers. Any Authorization header is replaced.
	Header http.Header
	// Body is the request payload, if any.
	Body []byte
}

// MethodOrDefault returns the request method, defaulting to GET.
func (o RequestOptions) MethodOrDefault() string {
	if o.Method == "" {
		return http.MethodGet
	}
	return o.Method
}

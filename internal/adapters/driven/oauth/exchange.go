// Package oauth exchanges refresh tokens for access tokens at the
// storefront backend.
package oauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
	"github.com/custodia-labs/storefront-cli/internal/core/ports/driven"
)

// Ensure Exchanger implements the interface.
var _ driven.TokenExchanger = (*Exchanger)(nil)

// maxResponseBytes caps how much of an exchange response is read.
const maxResponseBytes = 1 << 20

// exchangeRequest is the JSON body sent to the exchange endpoint.
type exchangeRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Exchanger posts a refresh token to a fixed endpoint and reads the new
// access token at a configured JSON path.
type Exchanger struct {
	endpoint   string
	tokenField string
	client     driven.HTTPDoer
}

// NewExchanger creates an exchanger. tokenField is a gjson path such as
// "data.accessToken"; empty means domain.DefaultTokenField.
func NewExchanger(endpoint, tokenField string, client driven.HTTPDoer) *Exchanger {
	if tokenField == "" {
		tokenField = domain.DefaultTokenField
	}
	return &Exchanger{
		endpoint:   endpoint,
		tokenField: tokenField,
		client:     client,
	}
}

// Exchange trades refreshToken for a new access token.
func (e *Exchanger) Exchange(ctx context.Context, refreshToken string) (string, error) {
	payload, err := json.Marshal(exchangeRequest{RefreshToken: refreshToken})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %w", domain.ErrNetwork, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: create request: %w", domain.ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: token request: %w", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", domain.ErrNetwork, err)
	}
	if len(body) > maxResponseBytes {
		return "", fmt.Errorf("%w: response exceeds %d bytes", domain.ErrServerRejected, maxResponseBytes)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if msg := serverMessage(body); msg != "" {
			return "", fmt.Errorf("%w: status %d: %s", domain.ErrServerRejected, resp.StatusCode, msg)
		}
		return "", fmt.Errorf("%w: status %d", domain.ErrServerRejected, resp.StatusCode)
	}

	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("%w: response is not valid JSON", domain.ErrServerRejected)
	}
	token := gjson.GetBytes(body, e.tokenField)
	if token.Type != gjson.String || token.Str == "" {
		return "", fmt.Errorf("%w: response has no %s", domain.ErrServerRejected, e.tokenField)
	}
	return token.Str, nil
}

// serverMessage extracts a human readable error from a rejection body.
func serverMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	for _, path := range []string{"message", "error.message", "error"} {
		if r := gjson.GetBytes(body, path); r.Type == gjson.String && r.Str != "" {
			return r.Str
		}
	}
	return ""
}

package driven

import (
	"context"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
)

// TokenStore persists credential tokens as scoped key-value entries.
// A store instance is bound to one scope (profile); scopes never share entries.
//
// The store is the only shared mutable resource of the request gate. It is
// read and written without a transactional lock; two separate processes
// using the same scope are not coordinated.
type TokenStore interface {
	// Get retrieves the value stored under key.
	// Returns ok=false and no error if the key does not exist.
	Get(ctx context.Context, key domain.CredentialKey) (value string, ok bool, err error)

	// Set stores value under key. Creates if new, replaces if exists.
	Set(ctx context.Context, key domain.CredentialKey, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key domain.CredentialKey) error
}

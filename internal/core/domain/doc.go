// Package domain defines the core entities for the storefront client.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - CredentialKey: A key in the scoped credential store
//   - CredentialStatus: What the store currently holds for a profile
//   - ClientSettings: Remote API, transport and storage configuration
//   - RequestOptions: An outbound request as described by a caller
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

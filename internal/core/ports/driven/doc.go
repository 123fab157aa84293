// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - TokenStore: Scoped key-value persistence of the access and refresh tokens
//   - TargetSanitizer: Validation of request targets before any network call
//   - TokenExchanger: Exchange of a refresh token for a new access token
//   - HTTPDoer: The outbound HTTP transport
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven

// Package memory provides in-memory implementations of driven ports.
// They back the "memory" storage backend and are used throughout tests.
package memory

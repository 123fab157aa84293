// Package file provides the TOML-backed ConfigStore.
// Configuration lives in ~/.storefront/config.toml unless another
// directory is given; keys are addressed in dot notation ("api.base_url")
// and written back as nested TOML tables.
package file

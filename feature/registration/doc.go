// Package registration accepts course registrations and serves the
// registration endpoints.
//
// A submission is validated, its phone number normalized to the configured
// country code, and written to the stores in priority order. The first store
// that accepts it is authoritative; the others are written in the background.
//
// Subpackages:
//   - models: the registration record, its wire and row forms
//   - store: the relational, key-value and in-memory adapters
package registration

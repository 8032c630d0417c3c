// Package integrity provides system health checks for the registration stores.
//
// # Checks Provided
//
//   - Structure: the key-value bucket exists (object storage driver) and the
//     registrations list and reset flag entries parse.
//   - Server: the relational schema matches the registration row model
//     (columns and explicit types).
//   - Debug: runtime details and the record count of every store.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs structure and server checks.
//   - GET /integrity/structure : Runs structure check (supports ?fix=true).
//   - GET /integrity/server : Runs server schema check.
//   - GET /integrity/debug : Returns debug information.
package integrity

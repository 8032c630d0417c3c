// Package store implements the registration record stores.
//
//   - Relational: the primary store, a gorm table named registrations.
//   - Local: the durable key-value store holding a JSON array under
//     "registrations" and the soft reset flag under "registrationsReset".
//   - Memory: a process-local cache.
//
// All three satisfy reconcile.Adapter[models.Registration] and report backend
// failures as reconcile.ErrUnavailable. Ids are local to each store; email is
// the key shared between them.
package store

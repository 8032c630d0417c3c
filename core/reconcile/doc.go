// Package reconcile merges several partially-authoritative record stores into a
// single logical view and converges the weaker stores toward the stronger ones.
//
// # Architecture
//
// The package consists of three parts:
//
// 1. Adapter: a uniform List/Append/ReplaceAll/Clear contract over one physical
// backend. Implementations live next to the domain model (see
// feature/registration/store).
//
// 2. Engine: loads every configured Source concurrently, each call bounded by a
// timeout, and deduplicates the union by a natural key. The first record seen
// for a key wins, where sources are visited in priority order
// (primary > local > ephemeral). A failing source contributes nothing and
// marks the view degraded; a merge never fails.
//
// 3. Plan/Apply: every healthy source missing a key of the merged view is
// rewritten with ReplaceAll to hold the merged records. Sources only gain keys,
// and the copy of a shared key comes from the strongest source holding it.
// This is best-effort convergence, not a transaction.
//
// Concurrent merges are coalesced with singleflight so that a burst of admin
// requests issues one round of backend reads and at most one round of
// convergence writes.
//
// # Usage Example
//
//	engine := reconcile.NewEngine(reconcile.Spec[models.Registration]{
//	    Sources: []reconcile.Source[models.Registration]{
//	        {Role: reconcile.RolePrimary, Adapter: relational},
//	        {Role: reconcile.RoleLocal, Adapter: local},
//	        {Role: reconcile.RoleEphemeral, Adapter: memory},
//	    },
//	    Key:      func(r models.Registration) string { return r.Email },
//	    Timeout:  3 * time.Second,
//	    Converge: true,
//	}, logger, m)
//
//	view := engine.Merge(ctx)
package reconcile

package reconcile

import (
	"strings"
	"time"
)

// Role identifies the part a store plays in the reconciliation.
type Role string

const (
	// RolePrimary is the durable relational store.
	RolePrimary Role = "primary"
	// RoleLocal is the durable key-value store.
	RoleLocal Role = "local"
	// RoleEphemeral is the in-process cache.
	RoleEphemeral Role = "ephemeral"
)

// Priority returns the merge priority of a role; lower wins.
func (r Role) Priority() int {
	switch r {
	case RolePrimary:
		return 0
	case RoleLocal:
		return 1
	case RoleEphemeral:
		return 2
	default:
		return 3
	}
}

// Tag labels where a view came from.
type Tag string

const (
	TagPrimary   Tag = Tag(RolePrimary)
	TagLocal     Tag = Tag(RoleLocal)
	TagEphemeral Tag = Tag(RoleEphemeral)
	// TagMerged means records came from more than one store.
	TagMerged Tag = "merged"
	// TagDegraded means at least one configured store failed during the merge.
	TagDegraded Tag = "degraded"
	// TagReset means the view is hidden by a soft reset.
	TagReset Tag = "reset"
)

// Source binds an adapter to its role.
type Source[T any] struct {
	Role    Role
	Adapter Adapter[T]
}

// Spec defines the configuration for an Engine.
type Spec[T any] struct {
	// Sources are the stores to merge. They are visited in role priority order.
	Sources []Source[T]

	// Key returns the natural key of a record. Keys are compared trimmed and
	// case-insensitively.
	Key func(T) string

	// Timeout bounds each adapter read. Zero means no per-adapter bound beyond ctx.
	Timeout time.Duration

	// WriteTimeout bounds each convergence write.
	WriteTimeout time.Duration

	// Converge enables the convergence step after a merge.
	Converge bool
}

// Snapshot is the result of listing one source.
type Snapshot[T any] struct {
	Role    Role
	Records []T
	Err     error
}

// Healthy reports whether the source answered.
func (s Snapshot[T]) Healthy() bool {
	return s.Err == nil
}

// View is the deduplicated union of all sources.
type View[T any] struct {
	// Records are the merged records in first-seen order.
	Records []T `json:"records"`

	// Source labels where the view came from.
	Source Tag `json:"source"`

	// Provenance lists, per normalized key, every role that held the key.
	// The first role is the one whose record was kept.
	Provenance map[string][]Role `json:"provenance"`

	// Counts holds the number of records each healthy source returned.
	Counts map[Role]int `json:"counts"`

	// Degraded lists the roles that failed or timed out.
	Degraded []Role `json:"degraded"`

	// Conflicts is the number of records dropped by deduplication.
	Conflicts int `json:"conflicts"`

	// Actions are the convergence actions that were planned for this view.
	Actions []Action `json:"actions"`
}

// Contributed reports whether role holds at least one record of the view.
func (v View[T]) Contributed(role Role) bool {
	for _, roles := range v.Provenance {
		if len(roles) > 0 && roles[0] == role {
			return true
		}
	}
	return false
}

// IsDegraded reports whether role failed during the merge.
func (v View[T]) IsDegraded(role Role) bool {
	for _, r := range v.Degraded {
		if r == role {
			return true
		}
	}
	return false
}

// ActionType represents the type of convergence action.
type ActionType string

const (
	// ActionReplaceAll overwrites the target collection with the merged collection.
	ActionReplaceAll ActionType = "replace_all"
)

// Action represents a planned convergence write.
type Action struct {
	Type   ActionType `json:"type"`
	Target Role       `json:"target"`
	// Count is the number of merged keyed records written to the target.
	Count int `json:"count"`
	// Missing is the number of those keys the target did not hold.
	Missing int    `json:"missing"`
	Reason  string `json:"reason"`
}

// NormalizeKey trims and lower-cases a natural key.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

package reconcile

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Plan computes convergence actions for a set of snapshots. The reference is
// the merged view: every keyed record, deduplicated by priority. Each healthy
// source missing at least one of those keys is planned for a ReplaceAll with
// the merged records. Since the merged key set contains every source's keys,
// a target only ever gains records; when it is rewritten, a key it shares with
// a stronger source takes that source's copy. Degraded sources are never
// targeted.
func Plan[T any](snapshots []Snapshot[T], key func(T) string) []Action {
	merged := keySet(mergedRecords(snapshots, key), key)
	if len(merged) == 0 {
		return nil
	}

	var actions []Action
	for _, snap := range snapshots {
		if !snap.Healthy() {
			continue
		}
		have := keySet(snap.Records, key)
		missing := 0
		for k := range merged {
			if _, ok := have[k]; !ok {
				missing++
			}
		}
		if missing == 0 {
			continue
		}
		actions = append(actions, Action{
			Type:    ActionReplaceAll,
			Target:  snap.Role,
			Count:   len(merged),
			Missing: missing,
			Reason:  fmt.Sprintf("%s is missing %d of %d merged records", snap.Role, missing, len(merged)),
		})
	}
	return actions
}

// Apply executes convergence actions against the engine's adapters. Each
// target receives the merged keyed records of snapshots followed by its own
// records without a key, which are never propagated. Every action is
// attempted; failures are joined into the returned error. It returns the
// number of actions that succeeded.
func (e *Engine[T]) Apply(ctx context.Context, snapshots []Snapshot[T], actions []Action) (executed int, err error) {
	merged := mergedRecords(snapshots, e.spec.Key)
	byRole := make(map[Role][]T, len(snapshots))
	for _, snap := range snapshots {
		if snap.Healthy() {
			byRole[snap.Role] = snap.Records
		}
	}

	var errs []error
	for _, action := range actions {
		if action.Type != ActionReplaceAll {
			errs = append(errs, fmt.Errorf("unsupported action %s", action.Type))
			continue
		}
		target, ok := e.Adapter(action.Target)
		if !ok {
			errs = append(errs, fmt.Errorf("no adapter for role %s", action.Target))
			continue
		}
		own, ok := byRole[action.Target]
		if !ok {
			errs = append(errs, fmt.Errorf("no healthy snapshot for role %s", action.Target))
			continue
		}

		records := append(append(make([]T, 0, len(merged)), merged...), unkeyed(own, e.spec.Key)...)

		callCtx, cancel := e.withTimeout(ctx, e.spec.WriteTimeout)
		werr := target.ReplaceAll(callCtx, records)
		cancel()

		e.metrics.IncConvergence(string(action.Target), werr == nil)
		if werr != nil {
			e.metrics.IncAdapterFailure(string(action.Target), "replace_all")
			errs = append(errs, fmt.Errorf("failed to converge %s: %w", action.Target, werr))
			continue
		}
		e.logger.Info("Converged store",
			zap.String("target", string(action.Target)),
			zap.Int("records", len(records)),
			zap.Int("added", action.Missing),
		)
		executed++
	}

	return executed, errors.Join(errs...)
}

// mergedRecords returns the keyed records of the merged view in priority order.
func mergedRecords[T any](snapshots []Snapshot[T], key func(T) string) []T {
	view := BuildView(snapshots, key)
	out := make([]T, 0, len(view.Records))
	for _, rec := range view.Records {
		if NormalizeKey(key(rec)) != "" {
			out = append(out, rec)
		}
	}
	return out
}

func unkeyed[T any](records []T, key func(T) string) []T {
	var out []T
	for _, rec := range records {
		if NormalizeKey(key(rec)) == "" {
			out = append(out, rec)
		}
	}
	return out
}

func keySet[T any](records []T, key func(T) string) map[string]struct{} {
	set := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if k := NormalizeKey(key(rec)); k != "" {
			set[k] = struct{}{}
		}
	}
	return set
}

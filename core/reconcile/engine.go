package reconcile

import (
	"context"
	"errors"
	"sort"
	"time"

	"course-registry/core/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Engine merges records from several sources.
type Engine[T any] struct {
	spec    Spec[T]
	logger  *zap.Logger
	metrics *metrics.Metrics
	sf      singleflight.Group
}

// NewEngine creates an engine. Sources are reordered by role priority; sources
// with a nil adapter are dropped.
func NewEngine[T any](spec Spec[T], logger *zap.Logger, m *metrics.Metrics) *Engine[T] {
	sources := make([]Source[T], 0, len(spec.Sources))
	for _, s := range spec.Sources {
		if s.Adapter != nil {
			sources = append(sources, s)
		}
	}
	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].Role.Priority() < sources[j].Role.Priority()
	})
	spec.Sources = sources
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine[T]{spec: spec, logger: logger, metrics: m}
}

// Sources returns the configured sources in priority order.
func (e *Engine[T]) Sources() []Source[T] {
	return e.spec.Sources
}

// Adapter returns the adapter configured for role.
func (e *Engine[T]) Adapter(role Role) (Adapter[T], bool) {
	for _, s := range e.spec.Sources {
		if s.Role == role {
			return s.Adapter, true
		}
	}
	return nil, false
}

// Load lists every source concurrently. Each call is bounded by the spec
// timeout; a failing call yields a snapshot carrying the error and no records.
// Load returns once every source answered or the timeout passed, whichever
// comes first; a source that ignores its context is left running and
// reported as unavailable.
func (e *Engine[T]) Load(ctx context.Context) []Snapshot[T] {
	type result struct {
		i    int
		snap Snapshot[T]
	}

	n := len(e.spec.Sources)
	snapshots := make([]Snapshot[T], n)
	// Buffered so that stragglers finishing after the deadline never block.
	results := make(chan result, n)

	for i, src := range e.spec.Sources {
		go func(i int, src Source[T]) {
			callCtx, cancel := e.withTimeout(ctx, e.spec.Timeout)
			defer cancel()

			records, err := src.Adapter.List(callCtx)
			if err == nil && callCtx.Err() != nil {
				err = callCtx.Err()
			}
			if err != nil {
				if !errors.Is(err, ErrUnavailable) {
					err = Unavailable(src.Adapter.Name(), "list", err)
				}
				records = nil
			}
			results <- result{i: i, snap: Snapshot[T]{Role: src.Role, Records: records, Err: err}}
		}(i, src)
	}

	var expired <-chan time.Time
	if e.spec.Timeout > 0 {
		timer := time.NewTimer(e.spec.Timeout)
		defer timer.Stop()
		expired = timer.C
	}

	answered := make([]bool, n)
collect:
	for received := 0; received < n; received++ {
		select {
		case r := <-results:
			snapshots[r.i] = r.snap
			answered[r.i] = true
		case <-expired:
			break collect
		case <-ctx.Done():
			break collect
		}
	}

	for i, src := range e.spec.Sources {
		if answered[i] {
			continue
		}
		cause := ctx.Err()
		if cause == nil {
			cause = context.DeadlineExceeded
		}
		snapshots[i] = Snapshot[T]{Role: src.Role, Err: Unavailable(src.Adapter.Name(), "list", cause)}
	}

	for _, s := range snapshots {
		if !s.Healthy() {
			e.logger.Warn("Store unavailable during merge",
				zap.String("role", string(s.Role)),
				zap.Error(s.Err),
			)
			e.metrics.IncAdapterFailure(string(s.Role), "list")
		}
	}

	return snapshots
}

// Merge loads all sources, builds the view and, when enabled, converges weaker
// sources. Concurrent calls share one execution. Merge never fails; the worst
// case is an empty degraded view.
func (e *Engine[T]) Merge(ctx context.Context) View[T] {
	// The shared execution must not be cancelled by the first caller going away;
	// adapter timeouts still bound it.
	shared := context.WithoutCancel(ctx)
	result, _, _ := e.sf.Do("merge", func() (interface{}, error) {
		return e.merge(shared), nil
	})
	return result.(View[T])
}

func (e *Engine[T]) merge(ctx context.Context) View[T] {
	snapshots := e.Load(ctx)
	view := BuildView(snapshots, e.spec.Key)
	e.metrics.AddConflicts(view.Conflicts)

	if e.spec.Converge {
		view.Actions = Plan(snapshots, e.spec.Key)
		if len(view.Actions) > 0 {
			if _, err := e.Apply(ctx, snapshots, view.Actions); err != nil {
				e.logger.Warn("Convergence incomplete", zap.Error(err))
			}
		}
	}

	e.logger.Debug("Merged view",
		zap.String("source", string(view.Source)),
		zap.Int("records", len(view.Records)),
		zap.Int("conflicts", view.Conflicts),
		zap.Int("actions", len(view.Actions)),
	)
	return view
}

// BuildView deduplicates the snapshots into a view. Snapshots must be in
// priority order; the first record seen for a normalized key wins. Records with
// an empty key are always kept.
func BuildView[T any](snapshots []Snapshot[T], key func(T) string) View[T] {
	view := View[T]{
		Records:    []T{},
		Provenance: make(map[string][]Role),
		Counts:     make(map[Role]int),
		Degraded:   []Role{},
	}

	contributors := make(map[Role]struct{})
	for _, snap := range snapshots {
		if !snap.Healthy() {
			view.Degraded = append(view.Degraded, snap.Role)
			continue
		}
		view.Counts[snap.Role] = len(snap.Records)

		for _, rec := range snap.Records {
			k := NormalizeKey(key(rec))
			if k == "" {
				view.Records = append(view.Records, rec)
				contributors[snap.Role] = struct{}{}
				continue
			}
			roles, seen := view.Provenance[k]
			if !seen {
				view.Records = append(view.Records, rec)
				view.Provenance[k] = []Role{snap.Role}
				contributors[snap.Role] = struct{}{}
				continue
			}
			view.Conflicts++
			if roles[len(roles)-1] != snap.Role {
				view.Provenance[k] = append(roles, snap.Role)
			}
		}
	}

	view.Source = sourceTag(snapshots, contributors)
	return view
}

func sourceTag[T any](snapshots []Snapshot[T], contributors map[Role]struct{}) Tag {
	healthy := make([]Role, 0, len(snapshots))
	for _, snap := range snapshots {
		if !snap.Healthy() {
			return TagDegraded
		}
		healthy = append(healthy, snap.Role)
	}
	switch len(contributors) {
	case 0:
		if len(healthy) == 0 {
			return TagDegraded
		}
		return Tag(healthy[0])
	case 1:
		for role := range contributors {
			return Tag(role)
		}
	}
	return TagMerged
}

func (e *Engine[T]) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

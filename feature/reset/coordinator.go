package reset

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"course-registry/core/metrics"
	"course-registry/core/reconcile"
	"course-registry/feature/registration/models"

	"go.uber.org/zap"
)

// ErrInvalidTransition is returned for a transition the current state forbids.
var ErrInvalidTransition = errors.New("invalid reset transition")

// FlagStore persists the reset flag.
type FlagStore interface {
	ResetFlag(ctx context.Context) (bool, error)
	SetResetFlag(ctx context.Context, set bool) error
}

// Coordinator runs the reset workflow across the registration stores.
//
// A soft reset empties the primary store and the in-memory cache but keeps the
// durable key-value copy, which is the only recovery source. The flag is
// persisted next to that copy, so the state survives restarts.
type Coordinator struct {
	engine  *reconcile.Engine[models.Registration]
	flag    FlagStore
	timeout time.Duration
	logger  *zap.Logger
	metrics *metrics.Metrics

	mu   sync.Mutex
	last State
}

// NewCoordinator creates a coordinator. timeout bounds each store call.
func NewCoordinator(engine *reconcile.Engine[models.Registration], flag FlagStore, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Coordinator{
		engine:  engine,
		flag:    flag,
		timeout: timeout,
		logger:  logger,
		metrics: m,
		last:    StateActive,
	}
}

// State returns the current state. The soft reset state comes from the
// persisted flag; the others are remembered by this process.
func (c *Coordinator) State(ctx context.Context) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state(ctx)
}

func (c *Coordinator) state(ctx context.Context) (State, error) {
	set, err := c.readFlag(ctx)
	if err != nil {
		return "", err
	}
	if set {
		return StateSoftReset, nil
	}
	if c.last == StateSoftReset {
		// Flag cleared elsewhere.
		c.last = StateActive
	}
	return c.last, nil
}

// TriggerReset moves to StateSoftReset. A primary failure is logged and does
// not stop the reset; a flag write failure does.
func (c *Coordinator) TriggerReset(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	from, err := c.state(ctx)
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{From: from, To: StateSoftReset, Cleared: map[string]int{}}
	if from == StateSoftReset {
		out.NoOp = true
		return out, nil
	}

	if n, ok, err := c.clear(ctx, reconcile.RolePrimary); err != nil {
		c.logger.Warn("Primary store not cleared during reset", zap.Error(err))
	} else if ok {
		out.PrimaryCleared = true
		out.Cleared[string(reconcile.RolePrimary)] = n
	}
	if n, ok, err := c.clear(ctx, reconcile.RoleEphemeral); err != nil {
		c.logger.Warn("In-memory store not cleared during reset", zap.Error(err))
	} else if ok {
		out.EphemeralCleared = true
		out.Cleared[string(reconcile.RoleEphemeral)] = n
	}

	if err := c.writeFlag(ctx, true); err != nil {
		return out, fmt.Errorf("failed to set reset flag: %w", err)
	}

	c.transition(StateSoftReset)
	c.logger.Info("Soft reset applied",
		zap.Bool("primary_cleared", out.PrimaryCleared),
		zap.Bool("ephemeral_cleared", out.EphemeralCleared),
	)
	return out, nil
}

// Restore moves from StateSoftReset to StateRestored. The retained key-value
// records are read first; if that fails the flag stays set. Writing them back
// to the primary store is best effort, and the records are returned either way.
func (c *Coordinator) Restore(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	from, err := c.state(ctx)
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{From: from, To: StateRestored}
	if from != StateSoftReset {
		return out, fmt.Errorf("%w: restore from %s", ErrInvalidTransition, from)
	}

	local, ok := c.engine.Adapter(reconcile.RoleLocal)
	if !ok {
		return out, fmt.Errorf("%w: no retained store configured", ErrInvalidTransition)
	}
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	records, err := local.List(callCtx)
	cancel()
	if err != nil {
		return out, fmt.Errorf("failed to read retained registrations: %w", err)
	}
	out.Records = records

	if err := c.writeFlag(ctx, false); err != nil {
		return out, fmt.Errorf("failed to clear reset flag: %w", err)
	}
	c.transition(StateRestored)

	if primary, ok := c.engine.Adapter(reconcile.RolePrimary); ok {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		err := primary.ReplaceAll(callCtx, records)
		cancel()
		if err != nil {
			c.logger.Warn("Primary store not restored", zap.Int("records", len(records)), zap.Error(err))
		} else {
			out.PrimaryRestored = true
		}
	}

	c.logger.Info("Registrations restored",
		zap.Int("records", len(records)),
		zap.Bool("primary_restored", out.PrimaryRestored),
	)
	return out, nil
}

// HardReset clears every store and the flag regardless of state. Every step
// runs; failures are joined into the returned error.
func (c *Coordinator) HardReset(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	from, err := c.state(ctx)
	if err != nil {
		c.logger.Warn("Reset state unreadable before hard reset", zap.Error(err))
		from = c.last
	}
	out := Outcome{From: from, To: StateHardCleared, Cleared: map[string]int{}}

	var errs []error
	for _, src := range c.engine.Sources() {
		n, _, err := c.clear(ctx, src.Role)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to clear %s: %w", src.Role, err))
			continue
		}
		out.Cleared[string(src.Role)] = n
		switch src.Role {
		case reconcile.RolePrimary:
			out.PrimaryCleared = true
		case reconcile.RoleEphemeral:
			out.EphemeralCleared = true
		}
	}
	if err := c.writeFlag(ctx, false); err != nil {
		errs = append(errs, fmt.Errorf("failed to clear reset flag: %w", err))
	}

	c.transition(StateHardCleared)
	c.logger.Warn("Hard reset applied", zap.Any("cleared", out.Cleared), zap.Int("failures", len(errs)))
	return out, errors.Join(errs...)
}

// clear empties the store for role. ok is false when no such store exists.
func (c *Coordinator) clear(ctx context.Context, role reconcile.Role) (n int, ok bool, err error) {
	adapter, ok := c.engine.Adapter(role)
	if !ok {
		return 0, false, nil
	}
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	n, err = adapter.Clear(callCtx)
	return n, true, err
}

func (c *Coordinator) readFlag(ctx context.Context) (bool, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	set, err := c.flag.ResetFlag(callCtx)
	if err != nil {
		return false, fmt.Errorf("failed to read reset flag: %w", err)
	}
	return set, nil
}

func (c *Coordinator) writeFlag(ctx context.Context, set bool) error {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.flag.SetResetFlag(callCtx, set)
}

func (c *Coordinator) transition(to State) {
	c.last = to
	c.metrics.IncResetTransition(string(to))
}

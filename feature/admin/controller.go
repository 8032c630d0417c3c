package admin

import (
	"context"
	"time"

	"course-registry/core/metrics"
	"course-registry/core/reconcile"
	"course-registry/feature/registration"
	"course-registry/feature/registration/models"

	"go.uber.org/zap"
)

// FlagReader reads the persisted reset flag.
type FlagReader interface {
	ResetFlag(ctx context.Context) (bool, error)
}

var _ registration.Viewer = (*Controller)(nil)

// Controller builds the reconciled registrations view for the admin panel
// and the public listing endpoints.
type Controller struct {
	engine   *reconcile.Engine[models.Registration]
	flags    FlagReader
	location *time.Location
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewController creates a view controller. A nil location means UTC.
func NewController(engine *reconcile.Engine[models.Registration], flags FlagReader, location *time.Location, logger *zap.Logger, m *metrics.Metrics) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.UTC
	}
	return &Controller{
		engine:   engine,
		flags:    flags,
		location: location,
		logger:   logger,
		metrics:  m,
	}
}

// Location returns the time zone used for rendered dates.
func (c *Controller) Location() *time.Location {
	return c.location
}

// LoadView returns the merged registrations. While the reset flag is set the
// stores are not queried and an empty view tagged reset is returned. An
// unreadable flag counts as unset.
func (c *Controller) LoadView(ctx context.Context) (models.View, error) {
	if c.flags != nil {
		set, err := c.flags.ResetFlag(ctx)
		if err != nil {
			c.logger.Warn("Reset flag unreadable, treating as unset", zap.Error(err))
		} else if set {
			c.metrics.IncView(models.SourceReset)
			return resetView(), nil
		}
	}

	merged := c.engine.Merge(ctx)
	view := models.View{
		Registrations: merged.Records,
		Source:        c.wireSource(merged),
		Merge:         string(merged.Source),
		Provenance:    make(map[string][]string, len(merged.Provenance)),
		Degraded:      make([]string, 0, len(merged.Degraded)),
		Counts:        make(map[string]int, len(merged.Counts)),
	}
	for key, roles := range merged.Provenance {
		names := make([]string, len(roles))
		for i, r := range roles {
			names[i] = string(r)
		}
		view.Provenance[key] = names
	}
	for _, r := range merged.Degraded {
		view.Degraded = append(view.Degraded, string(r))
	}
	for r, n := range merged.Counts {
		view.Counts[string(r)] = n
	}

	c.metrics.IncView(view.Source)
	return view, nil
}

// wireSource labels a merged view for clients. The primary store decides the
// label whenever it is configured.
func (c *Controller) wireSource(v reconcile.View[models.Registration]) string {
	if _, ok := c.engine.Adapter(reconcile.RolePrimary); ok {
		if v.IsDegraded(reconcile.RolePrimary) {
			return models.SourcePrimaryError
		}
		return models.SourcePrimary
	}
	switch {
	case v.Contributed(reconcile.RoleLocal):
		return models.SourceLocal
	case v.Contributed(reconcile.RoleEphemeral):
		return models.SourceMemory
	default:
		return models.SourceNoConfig
	}
}

func resetView() models.View {
	return models.View{
		Registrations: []models.Registration{},
		Source:        models.SourceReset,
		Merge:         string(reconcile.TagReset),
		Provenance:    map[string][]string{},
		Degraded:      []string{},
		Counts:        map[string]int{},
		Reset:         true,
	}
}

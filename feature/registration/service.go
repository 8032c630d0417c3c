package registration

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

// ErrAllWritesFailed is returned when no store accepted a registration.
var ErrAllWritesFailed = errors.New("all registration stores failed")

// Result is the outcome of a successful registration.
type Result struct {
	User models.Registration `json:"user"`
	// TotalRegistrations is the count held by the authoritative store, when known.
	TotalRegistrations *int `json:"totalRegistrations,omitempty"`
	// Storage names the authoritative store (supabase, local, memory).
	Storage string `json:"storage"`
}

// Service validates submissions and writes them through the configured stores.
type Service struct {
	engine       *reconcile.Engine[models.Registration]
	validator    *Validator
	cfg          Config
	writeTimeout time.Duration
	logger       *zap.Logger
	metrics      *metrics.Metrics
	now          func() time.Time

	// pending tracks best-effort secondary writes still running.
	pending sync.WaitGroup
}

// NewService creates a registration service over the engine's stores.
func NewService(engine *reconcile.Engine[models.Registration], cfg Config, writeTimeout time.Duration, logger *zap.Logger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	return &Service{
		engine:       engine,
		validator:    NewValidator(cfg.CountryCode),
		cfg:          cfg,
		writeTimeout: writeTimeout,
		logger:       logger,
		metrics:      m,
		now:          time.Now,
	}
}

// Prepare validates in and builds the record to store, with a normalized
// phone and a fresh registration date. The id is left for the store.
func (s *Service) Prepare(in Input) (models.Registration, error) {
	in, err := s.validator.Validate(in)
	if err != nil {
		return models.Registration{}, err
	}
	return models.Registration{
		Name:             in.Name,
		Email:            in.Email,
		Phone:            NormalizePhone(in.Phone, s.cfg.CountryCode),
		Experience:       in.Experience,
		Interests:        in.Interests,
		HearAbout:        in.HearAbout,
		Notes:            in.Notes,
		RegistrationDate: models.Stamp(s.now()),
	}, nil
}

// Register validates and stores a submission. Stores are tried in priority
// order; the first one that accepts the record is authoritative and its copy
// (with the final id and date) is returned. The remaining stores receive that
// copy in the background, best effort. Only when every store fails is
// ErrAllWritesFailed returned.
func (s *Service) Register(ctx context.Context, in Input) (*Result, error) {
	record, err := s.Prepare(in)
	if err != nil {
		return nil, err
	}

	sources := s.engine.Sources()
	var errs []error
	for i, src := range sources {
		stored, err := s.write(ctx, src, record)
		if err != nil {
			s.logger.Warn("Registration write failed, falling back",
				zap.String("role", string(src.Role)),
				zap.String("adapter", src.Adapter.Name()),
				zap.Error(err),
			)
			s.metrics.IncWriteFailure(string(src.Role), "authoritative")
			errs = append(errs, err)
			continue
		}

		s.replicate(stored, sources[i+1:])
		s.metrics.IncRegistration(StorageTag(src.Role))

		result := &Result{User: stored, Storage: StorageTag(src.Role)}
		if n, err := reconcile.Count(ctx, src.Adapter); err == nil {
			result.TotalRegistrations = &n
		}
		s.logger.Info("Registration stored",
			zap.String("storage", result.Storage),
			zap.Int64("id", stored.ID),
		)
		return result, nil
	}

	if len(errs) == 0 {
		errs = append(errs, errors.New("no stores configured"))
	}
	return nil, fmt.Errorf("%w: %w", ErrAllWritesFailed, errors.Join(errs...))
}

// Wait blocks until background replication writes have finished.
func (s *Service) Wait() {
	s.pending.Wait()
}

func (s *Service) write(ctx context.Context, src reconcile.Source[models.Registration], record models.Registration) (models.Registration, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()
	return src.Adapter.Append(callCtx, record)
}

// replicate writes record to every target concurrently. The writes outlive the
// request but each is bounded by the write timeout.
func (s *Service) replicate(record models.Registration, targets []reconcile.Source[models.Registration]) {
	for _, target := range targets {
		s.pending.Add(1)
		go func(target reconcile.Source[models.Registration]) {
			defer s.pending.Done()
			if _, err := s.write(context.Background(), target, record); err != nil {
				s.logger.Warn("Secondary registration write failed",
					zap.String("role", string(target.Role)),
					zap.String("email", record.Email),
					zap.Error(err),
				)
				s.metrics.IncWriteFailure(string(target.Role), "secondary")
			}
		}(target)
	}
}

// Ephemeral returns the process-local store, if configured.
func (s *Service) Ephemeral() (reconcile.Adapter[models.Registration], bool) {
	return s.engine.Adapter(reconcile.RoleEphemeral)
}

// PrimaryConfigured reports whether a primary store is wired.
func (s *Service) PrimaryConfigured() bool {
	_, ok := s.engine.Adapter(reconcile.RolePrimary)
	return ok
}

// ClearPrimary removes every record from the primary store. It returns zero
// without error when no primary store is configured.
func (s *Service) ClearPrimary(ctx context.Context) (int, error) {
	primary, ok := s.engine.Adapter(reconcile.RolePrimary)
	if !ok {
		return 0, nil
	}
	callCtx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()
	return primary.Clear(callCtx)
}

// StorageTag maps a store role to its wire name.
func StorageTag(role reconcile.Role) string {
	switch role {
	case reconcile.RolePrimary:
		return models.SourcePrimary
	case reconcile.RoleLocal:
		return models.SourceLocal
	default:
		return models.SourceMemory
	}
}

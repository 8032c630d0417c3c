package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"course-registry/core/keyvalue"
	"course-registry/core/reconcile"
	"course-registry/core/utils"
	"course-registry/feature/registration/models"

	"go.uber.org/zap"
)

const (
	// KeyRegistrations holds the JSON array of registrations.
	KeyRegistrations = "registrations"
	// KeyReset holds the soft reset flag.
	KeyReset = "registrationsReset"
)

// Local keeps registrations in the durable key-value store as one JSON array.
// Unparsable content is replaced by an empty array so a bad write can never
// poison the store.
type Local struct {
	kv     keyvalue.Store
	logger *zap.Logger
	now    func() time.Time
	mu     sync.Mutex
}

// NewLocal creates a Local store over kv.
func NewLocal(kv keyvalue.Store, logger *zap.Logger) *Local {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Local{
		kv:     kv,
		logger: logger.With(zap.String("adapter", "local"), zap.String("driver", kv.Name())),
		now:    time.Now,
	}
}

func (l *Local) Name() string { return "local" }

func (l *Local) List(ctx context.Context) ([]models.Registration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(ctx)
}

func (l *Local) Count(ctx context.Context) (int, error) {
	records, err := l.List(ctx)
	return len(records), err
}

// Append adds r with the next id (highest held id plus one) unless r already
// carries an id that is free or held for the same email.
func (l *Local) Append(ctx context.Context, r models.Registration) (models.Registration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.load(ctx)
	if err != nil {
		return models.Registration{}, err
	}

	if r.Interests == nil {
		r.Interests = []string{}
	}
	if existing, ok := findByID(records, r.ID); ok {
		if sameEmail(existing, r) {
			return existing, nil
		}
		r.ID = 0
	}
	if r.ID == 0 {
		r.ID = maxID(records) + 1
	}
	if r.RegistrationDate.IsZero() {
		r.RegistrationDate = models.Stamp(l.now())
	}

	if err := l.save(ctx, append(records, r)); err != nil {
		return models.Registration{}, err
	}
	return r, nil
}

func (l *Local) ReplaceAll(ctx context.Context, records []models.Registration) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := maxID(records)
	return l.save(ctx, uniqueIDs(records, func() int64 {
		next++
		return next
	}))
}

func (l *Local) Clear(ctx context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.load(ctx)
	if err != nil {
		return 0, err
	}
	if err := l.save(ctx, nil); err != nil {
		return 0, err
	}
	return len(records), nil
}

// ResetFlag reports whether the soft reset flag is set. An unrecognized value
// is removed and read as unset.
func (l *Local) ResetFlag(ctx context.Context) (bool, error) {
	data, err := l.kv.Get(ctx, KeyReset)
	if errors.Is(err, keyvalue.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, reconcile.Unavailable(l.Name(), "get_reset_flag", err)
	}

	set, ok := utils.ParseBool(string(data))
	if !ok {
		l.logger.Warn("Corrupt reset flag, clearing", zap.String("value", string(data)))
		if err := l.kv.Delete(ctx, KeyReset); err != nil {
			l.logger.Warn("Failed to clear corrupt reset flag", zap.Error(err))
		}
		return false, nil
	}
	return set, nil
}

// SetResetFlag persists the soft reset flag. Clearing removes the entry.
func (l *Local) SetResetFlag(ctx context.Context, set bool) error {
	var err error
	if set {
		err = l.kv.Set(ctx, KeyReset, []byte("true"))
	} else {
		err = l.kv.Delete(ctx, KeyReset)
	}
	if err != nil {
		return reconcile.Unavailable(l.Name(), "set_reset_flag", err)
	}
	return nil
}

func (l *Local) load(ctx context.Context) ([]models.Registration, error) {
	data, err := l.kv.Get(ctx, KeyRegistrations)
	if errors.Is(err, keyvalue.ErrNotFound) {
		return []models.Registration{}, nil
	}
	if err != nil {
		return nil, reconcile.Unavailable(l.Name(), "list", err)
	}

	records, err := decode(data)
	if err != nil {
		l.logger.Warn("Corrupt local registrations, resetting to empty",
			zap.Int("bytes", len(data)),
			zap.Error(err),
		)
		if err := l.save(ctx, nil); err != nil {
			l.logger.Warn("Failed to overwrite corrupt registrations", zap.Error(err))
		}
		return []models.Registration{}, nil
	}
	return records, nil
}

func (l *Local) save(ctx context.Context, records []models.Registration) error {
	if records == nil {
		records = []models.Registration{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode registrations: %w", err)
	}
	if err := l.kv.Set(ctx, KeyRegistrations, data); err != nil {
		return reconcile.Unavailable(l.Name(), "save", err)
	}
	return nil
}

func decode(data []byte) ([]models.Registration, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	records := make([]models.Registration, 0, len(raw))
	for i, item := range raw {
		var r models.Registration
		if err := json.Unmarshal(item, &r); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		records = append(records, r)
	}
	return records, nil
}

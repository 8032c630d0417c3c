package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"course-registry/core/reconcile"
	"course-registry/feature/registration/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// migrateTimeout bounds the schema migration after a successful connect.
const migrateTimeout = 30 * time.Second

// errConnecting is reported while a connection attempt is in flight.
var errConnecting = errors.New("connection attempt in progress")

// Lazy is a Relational store whose database connection is opened on first
// use. Connecting happens in the background, never on the calling request:
// until it succeeds every call fails as unavailable at once, and a new
// attempt is started at most once per retry interval.
type Lazy struct {
	connect func() (*gorm.DB, error)
	logger  *zap.Logger
	retry   time.Duration
	now     func() time.Time

	mu         sync.Mutex
	rel        *Relational
	connecting bool
	lastTry    time.Time
	lastErr    error
	dialing    sync.WaitGroup
}

// NewLazy creates a Lazy store. connect opens and pings the database.
func NewLazy(connect func() (*gorm.DB, error), retry time.Duration, logger *zap.Logger) *Lazy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Lazy{
		connect: connect,
		logger:  logger,
		retry:   retry,
		now:     time.Now,
	}
}

func (l *Lazy) Name() string { return "relational" }

// Connected reports whether the database has been reached.
func (l *Lazy) Connected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rel != nil
}

// store returns the connected store or starts a background attempt. It never
// waits for the database.
func (l *Lazy) store() (*Relational, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.rel != nil {
		return l.rel, nil
	}
	if l.connecting {
		return nil, reconcile.Unavailable(l.Name(), "connect", errConnecting)
	}
	if !l.lastTry.IsZero() && l.now().Sub(l.lastTry) < l.retry {
		return nil, l.lastErr
	}

	l.lastTry = l.now()
	l.connecting = true
	l.dialing.Add(1)
	go l.dial()
	return nil, reconcile.Unavailable(l.Name(), "connect", errConnecting)
}

func (l *Lazy) dial() {
	defer l.dialing.Done()

	rel, err := l.open()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.connecting = false
	if err != nil {
		l.lastErr = reconcile.Unavailable(l.Name(), "connect", err)
		l.logger.Warn("Primary database unreachable", zap.Error(err))
		return
	}
	l.rel = rel
	l.logger.Info("Connected to primary database")
}

func (l *Lazy) open() (*Relational, error) {
	db, err := l.connect()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()

	rel := NewRelational(db, l.logger)
	if err := rel.Migrate(ctx); err != nil {
		return nil, err
	}
	return rel, nil
}

func (l *Lazy) List(ctx context.Context) ([]models.Registration, error) {
	rel, err := l.store()
	if err != nil {
		return nil, err
	}
	return rel.List(ctx)
}

func (l *Lazy) Count(ctx context.Context) (int, error) {
	rel, err := l.store()
	if err != nil {
		return 0, err
	}
	return rel.Count(ctx)
}

func (l *Lazy) Append(ctx context.Context, r models.Registration) (models.Registration, error) {
	rel, err := l.store()
	if err != nil {
		return models.Registration{}, err
	}
	return rel.Append(ctx, r)
}

func (l *Lazy) ReplaceAll(ctx context.Context, records []models.Registration) error {
	rel, err := l.store()
	if err != nil {
		return err
	}
	return rel.ReplaceAll(ctx, records)
}

func (l *Lazy) Clear(ctx context.Context) (int, error) {
	rel, err := l.store()
	if err != nil {
		return 0, err
	}
	return rel.Clear(ctx)
}

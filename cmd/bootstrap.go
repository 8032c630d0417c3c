package cmd

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata"

	"course-registry/core/cache"
	"course-registry/core/config"
	"course-registry/core/database"
	"course-registry/core/keyvalue"
	"course-registry/core/logger"
	"course-registry/core/metrics"
	"course-registry/core/reconcile"
	"course-registry/core/storage"
	"course-registry/feature/admin"
	"course-registry/feature/registration"
	"course-registry/feature/registration/models"
	"course-registry/feature/registration/store"
	"course-registry/feature/reset"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime is the wired application shared by the server and the CLI commands.
type runtime struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	db          *gorm.DB
	kv          keyvalue.Store
	local       *store.Local
	engine      *reconcile.Engine[models.Registration]
	service     *registration.Service
	controller  *admin.Controller
	coordinator *reset.Coordinator
}

// bootstrap loads the configuration and builds every store and service.
// Only the configuration, the logger and the key-value backend selection can
// fail; unreachable stores are tolerated and show up as degraded views.
func bootstrap() (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return newRuntime(cfg, logg)
}

// newRuntime wires the stores and services for cfg.
func newRuntime(cfg *config.Config, logg *zap.Logger) (*runtime, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	rt := &runtime{cfg: cfg, logger: logg, registry: registry, metrics: m}

	kv, err := newKeyValue(cfg, logg)
	if err != nil {
		return nil, err
	}
	rt.kv = kv
	rt.local = store.NewLocal(kv, logg)

	sources := []reconcile.Source[models.Registration]{}
	if primary := rt.newPrimary(); primary != nil {
		sources = append(sources, reconcile.Source[models.Registration]{Role: reconcile.RolePrimary, Adapter: primary})
	}
	sources = append(sources,
		reconcile.Source[models.Registration]{Role: reconcile.RoleLocal, Adapter: rt.local},
		reconcile.Source[models.Registration]{Role: reconcile.RoleEphemeral, Adapter: store.NewMemory()},
	)

	rt.engine = reconcile.NewEngine(reconcile.Spec[models.Registration]{
		Sources:      sources,
		Key:          models.Key,
		Timeout:      cfg.Reconcile.Timeout,
		WriteTimeout: cfg.Reconcile.WriteTimeout,
		Converge:     cfg.Reconcile.Converge,
	}, logg, m)

	location, err := time.LoadLocation(cfg.Registration.TimeZone)
	if err != nil {
		logg.Warn("Unknown time zone, using UTC", zap.String("time_zone", cfg.Registration.TimeZone), zap.Error(err))
		location = time.UTC
	}

	rt.service = registration.NewService(rt.engine, cfg.Registration, cfg.Reconcile.WriteTimeout, logg, m)
	rt.controller = admin.NewController(rt.engine, rt.local, location, logg, m)
	rt.coordinator = reset.NewCoordinator(rt.engine, rt.local, cfg.Reconcile.WriteTimeout, logg, m)

	return rt, nil
}

// newPrimary returns the relational adapter, or nil when no database is
// configured. A database that cannot be reached now is retried on use.
func (rt *runtime) newPrimary() reconcile.Adapter[models.Registration] {
	cfg := rt.cfg.Database
	if !cfg.Configured() {
		rt.logger.Info("Primary database not configured")
		return nil
	}

	connect := func() (*gorm.DB, error) { return database.Connect(cfg) }

	db, err := connect()
	if err != nil {
		rt.logger.Warn("Optional database connection failed", zap.String("driver", cfg.Driver), zap.Error(err))
		return store.NewLazy(connect, cfg.RetryInterval(), rt.logger)
	}

	ctx, cancel := context.WithTimeout(context.Background(), rt.cfg.Reconcile.WriteTimeout)
	defer cancel()

	rel := store.NewRelational(db, rt.logger)
	if err := rel.Migrate(ctx); err != nil {
		rt.logger.Warn("Failed to migrate primary database", zap.Error(err))
		return store.NewLazy(connect, cfg.RetryInterval(), rt.logger)
	}

	rt.db = db
	rt.logger.Info("Connected to primary database", zap.String("driver", cfg.Driver))
	return rel
}

// newKeyValue builds the durable key-value backend selected by cfg.KV.
func newKeyValue(cfg *config.Config, logg *zap.Logger) (keyvalue.Store, error) {
	var backends keyvalue.Backends

	switch cfg.KV.Driver {
	case keyvalue.DriverS3:
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		backends.Objects = client
		backends.Bucket = cfg.Storage.Bucket
	case keyvalue.DriverRedis:
		client, err := cache.NewRedis(cfg.Redis)
		if client == nil {
			return nil, fmt.Errorf("failed to create redis client: %w", err)
		}
		if err != nil {
			logg.Warn("Redis unreachable, local store degraded", zap.Error(err))
		}
		backends.Redis = client
	}

	kv, err := keyvalue.New(cfg.KV, backends)
	if err != nil {
		return nil, fmt.Errorf("failed to create kv store: %w", err)
	}
	logg.Info("Local store ready", zap.String("driver", kv.Name()))
	return kv, nil
}

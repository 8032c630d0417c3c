package integrity

import (
	"course-registry/core/keyvalue"
	"course-registry/core/reconcile"
	"course-registry/feature/registration/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
	guard   fiber.Handler
}

// NewFeature creates a new Integrity feature. guard, when non-nil, runs
// before every integrity route.
func NewFeature(kv keyvalue.Store, db *gorm.DB, engine *reconcile.Engine[models.Registration], guard fiber.Handler, logger *zap.Logger) *Feature {
	svc := NewService(kv, db, engine, logger)
	return &Feature{service: svc, handler: NewHandler(svc), guard: guard}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "integrity"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.service.kv != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	if f.guard != nil {
		app.Use("/integrity", f.guard)
	}
	f.handler.RegisterRoutes(app)
	return nil
}

// Service returns the feature's service.
func (f *Feature) Service() *Service {
	return f.service
}

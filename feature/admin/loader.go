package admin

import (
	"course-registry/feature/reset"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	controller *Controller
	handler    *Handler
	guard      fiber.Handler
}

// NewFeature creates the admin feature. guard, when non-nil, runs before
// every admin route.
func NewFeature(controller *Controller, coordinator *reset.Coordinator, guard fiber.Handler, logger *zap.Logger) *Feature {
	return &Feature{
		controller: controller,
		handler:    NewHandler(controller, coordinator, logger),
		guard:      guard,
	}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "admin"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.controller != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	if f.guard != nil {
		app.Use("/admin", f.guard)
	}
	f.handler.RegisterRoutes(app)
	return nil
}

// Package loader provides the feature loading system.
//
// Each feature implements the Feature interface, which names it, reports
// whether it is enabled and registers its routes.
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The Manager keeps the registry: Register adds features and LoadAll loads
// the enabled ones in registration order. Registration, admin, reset and
// integrity are all loaded this way from cmd/start.go.
package loader

package integrity

import (
	"course-registry/core/logger"
	"course-registry/core/middleware/headers"
	"course-registry/feature/integrity/checks"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	// Force import for Swagger
	var _ = checks.ServerReport{}
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/structure", h.HandleStructureCheck)
	group.Get("/server", h.HandleServerCheck)
	group.Get("/debug", h.HandleDebug)
	for _, path := range []string{"/", "/structure", "/server", "/debug"} {
		group.All(path, headers.MethodNotAllowed(fiber.MethodGet))
	}
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs the structure and server checks.
// @Tags integrity
// @Accept json
// @Produce json
// @Param X-API-Key header string false "Admin API key"
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	report := make(map[string]interface{})

	// Structure
	if structure, err := h.service.CheckStructure(c.Context()); err != nil {
		report["structure"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["structure"] = structure
	}

	// Server
	if srvReport, err := h.service.CheckServer(); err != nil {
		report["server"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["server"] = srvReport
	}

	return c.JSON(report)
}

// HandleStructureCheck checks and optionally fixes structure.
// @Summary Check Structure
// @Description Checks the key-value bucket and registration entries. Optionally creates the bucket and rewrites corrupt entries.
// @Tags integrity
// @Accept json
// @Produce json
// @Param fix query boolean false "Fix problems"
// @Param X-API-Key header string false "Admin API key"
// @Success 200 {object} map[string]interface{} "Structure Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/structure [get]
func (h *Handler) HandleStructureCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	report, err := h.service.CheckStructure(c.Context())
	if err != nil {
		l.Error("Structure check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if !report.Healthy() {
		l.Warn("Key-value structure problems detected",
			zap.Bool("bucket_missing", report.BucketMissing),
			zap.Any("entries", report.Entries),
		)

		if fix {
			l.Info("Attempting to fix key-value structure")
			if err := h.service.FixStructure(c.Context(), report); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to fix structure",
					"details": err.Error(),
					"report":  report,
				})
			}
			return c.JSON(fiber.Map{
				"status": "fixed",
				"fixed":  report,
			})
		}
	}

	return c.JSON(fiber.Map{
		"status": "checked",
		"report": report,
	})
}

// HandleServerCheck checks server schema integrity.
// @Summary Check Server Schema
// @Description Checks if the relational schema matches the registration row model.
// @Tags integrity
// @Accept json
// @Produce json
// @Param X-API-Key header string false "Admin API key"
// @Success 200 {object} checks.ServerReport "Server Check Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/server [get]
func (h *Handler) HandleServerCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Starting server schema check")

	report, err := h.service.CheckServer()
	if err != nil {
		l.Error("Server schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(report)
}

// HandleDebug returns process and store information.
// @Summary Debug Info
// @Description Runtime details and a per-store record count.
// @Tags integrity
// @Produce json
// @Param X-API-Key header string false "Admin API key"
// @Success 200 {object} DebugInfo "Debug Info"
// @Router /integrity/debug [get]
func (h *Handler) HandleDebug(c *fiber.Ctx) error {
	info := h.service.Debug(c.Context())
	info.Method = c.Method()
	info.URL = c.OriginalURL()
	if rid, ok := c.Locals(logger.RayIDKey).(string); ok {
		info.RequestRayID = rid
	}
	return c.JSON(info)
}

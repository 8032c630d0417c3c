package admin

import (
	"bytes"
	"errors"
	"fmt"

	"course-registry/core/logger"
	"course-registry/core/middleware/headers"
	"course-registry/feature/reset"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the admin panel.
type Handler struct {
	controller  *Controller
	coordinator *reset.Coordinator
	logger      *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(controller *Controller, coordinator *reset.Coordinator, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{controller: controller, coordinator: coordinator, logger: logger}
}

// RegisterRoutes registers the admin routes on app. Authentication is
// applied by the caller.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/admin")
	group.Get("/registrations", h.HandleListRegistrations)
	group.All("/registrations", headers.MethodNotAllowed(fiber.MethodGet))
	group.Get("/export", h.HandleExport)
	group.All("/export", headers.MethodNotAllowed(fiber.MethodGet))
	group.Get("/state", h.HandleState)
	group.All("/state", headers.MethodNotAllowed(fiber.MethodGet))
	group.Post("/reset", h.HandleReset)
	group.All("/reset", headers.MethodNotAllowed(fiber.MethodPost))
	group.Post("/restore", h.HandleRestore)
	group.All("/restore", headers.MethodNotAllowed(fiber.MethodPost))
}

// HandleListRegistrations returns the filtered and sorted view.
// @Summary List Registrations
// @Description Returns the reconciled registrations, optionally filtered by q and sorted by sort/dir.
// @Tags admin
// @Produce json
// @Param q query string false "Search term (name, email or phone)"
// @Param sort query string false "Sort key (id, name, email, phone, experience, hearAbout, notes, registrationDate)"
// @Param dir query string false "Sort direction (asc, desc)"
// @Param X-API-Key header string false "Admin API key"
// @Success 200 {object} map[string]interface{} "Registrations"
// @Failure 400 {object} map[string]interface{} "Bad sort parameters"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Router /admin/registrations [get]
func (h *Handler) HandleListRegistrations(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	view, err := h.controller.LoadView(c.Context())
	if err != nil {
		l.Error("Failed to load view", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	total := len(view.Registrations)
	records, err := Sort(Filter(view.Registrations, c.Query("q")), c.Query("sort"), c.Query("dir"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success":  false,
			"error":    err.Error(),
			"sortKeys": SortKeys(),
		})
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"registrations": records,
		"count":         len(records),
		"total":         total,
		"source":        view.Source,
		"merge":         view.Merge,
		"provenance":    view.Provenance,
		"degraded":      view.Degraded,
		"counts":        view.Counts,
		"reset":         view.Reset,
	})
}

// HandleExport downloads the filtered and sorted view as a spreadsheet.
// @Summary Export Registrations
// @Description Downloads the registrations as an xlsx workbook.
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param q query string false "Search term"
// @Param sort query string false "Sort key"
// @Param dir query string false "Sort direction"
// @Param X-API-Key header string false "Admin API key"
// @Success 200 {file} file "Workbook"
// @Failure 400 {object} map[string]interface{} "Bad sort parameters"
// @Router /admin/export [get]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	view, err := h.controller.LoadView(c.Context())
	if err != nil {
		l.Error("Failed to load view", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	records, err := Sort(Filter(view.Registrations, c.Query("q")), c.Query("sort"), c.Query("dir"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	var buf bytes.Buffer
	if err := Export(records, &buf, h.controller.Location()); err != nil {
		l.Error("Export failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	l.Info("Registrations exported", zap.Int("records", len(records)))
	c.Set(fiber.HeaderContentType, ExportContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, ExportFileName))
	return c.Send(buf.Bytes())
}

// HandleState returns the reset state.
// @Summary Reset State
// @Tags admin
// @Produce json
// @Param X-API-Key header string false "Admin API key"
// @Success 200 {object} map[string]interface{} "State"
// @Router /admin/state [get]
func (h *Handler) HandleState(c *fiber.Ctx) error {
	state, err := h.coordinator.State(c.Context())
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Failed to read reset state", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "state": state})
}

// HandleReset applies a soft reset.
// @Summary Soft Reset
// @Description Hides every registration. The durable key-value copy is kept for restore.
// @Tags admin
// @Produce json
// @Param X-API-Key header string false "Admin API key"
// @Success 200 {object} reset.Outcome "Outcome"
// @Failure 500 {object} map[string]interface{} "Reset did not take effect"
// @Router /admin/reset [post]
func (h *Handler) HandleReset(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	out, err := h.coordinator.TriggerReset(c.Context())
	if err != nil {
		l.Error("Soft reset failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	l.Info("Soft reset requested", zap.Bool("noop", out.NoOp))
	return c.JSON(fiber.Map{"success": true, "outcome": out})
}

// HandleRestore restores the registrations hidden by a soft reset.
// @Summary Restore
// @Tags admin
// @Produce json
// @Param X-API-Key header string false "Admin API key"
// @Success 200 {object} reset.Outcome "Outcome"
// @Failure 409 {object} map[string]interface{} "Not in soft reset"
// @Failure 500 {object} map[string]interface{} "Internal Server Error"
// @Router /admin/restore [post]
func (h *Handler) HandleRestore(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	out, err := h.coordinator.Restore(c.Context())
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, reset.ErrInvalidTransition) {
			status = fiber.StatusConflict
		}
		l.Warn("Restore failed", zap.Error(err))
		return c.Status(status).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "outcome": out})
}

package registration

import (
	"context"
	"errors"
	"strings"
	"time"

	"course-registry/core/logger"
	"course-registry/core/middleware/headers"
	"course-registry/core/reconcile"
	"course-registry/feature/registration/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// User-facing messages.
const (
	msgRegistered     = "تم التسجيل بنجاح"
	msgRegisterFailed = "حدث خطأ في التسجيل. يرجى المحاولة مرة أخرى."
	msgFetchFailed    = "حدث خطأ في جلب البيانات. يرجى المحاولة مرة أخرى."
	msgDeleted        = "تم حذف جميع التسجيلات بنجاح"
	msgDeleteFailed   = "حدث خطأ أثناء حذف التسجيلات. يرجى المحاولة مرة أخرى."
)

// Viewer produces the reconciled registrations view.
type Viewer interface {
	LoadView(ctx context.Context) (models.View, error)
}

// Handler handles HTTP requests for registrations.
type Handler struct {
	service *Service
	viewer  Viewer
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, viewer Viewer) *Handler {
	return &Handler{service: service, viewer: viewer}
}

// RegisterRoutes registers the registration routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/register", h.HandleRegister)
	app.Get("/register", h.HandleListEphemeral)
	app.All("/register", headers.MethodNotAllowed(fiber.MethodPost, fiber.MethodGet))

	app.Get("/users", h.HandleListUsers)
	app.Post("/users", h.HandleReceiveUsers)
	app.All("/users", headers.MethodNotAllowed(fiber.MethodGet, fiber.MethodPost))

	app.Get("/shared-data", h.HandleGetShared)
	app.Post("/shared-data", h.HandleAddShared)
	app.Put("/shared-data", h.HandleReplaceShared)
	app.Delete("/shared-data", h.HandleClearShared)
	app.All("/shared-data", headers.MethodNotAllowed(fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete))

	app.Delete("/delete-all", h.HandleDeleteAll)
	app.All("/delete-all", headers.MethodNotAllowed(fiber.MethodDelete))
}

// HandleRegister stores a new registration.
// @Summary Register
// @Description Validates a submission and stores it in the first available store.
// @Tags registration
// @Accept json
// @Produce json
// @Param body body Input true "Registration"
// @Success 201 {object} map[string]interface{} "Stored registration"
// @Failure 400 {object} map[string]interface{} "Validation errors"
// @Failure 500 {object} map[string]interface{} "All stores failed"
// @Router /register [post]
func (h *Handler) HandleRegister(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var in Input
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	result, err := h.service.Register(c.Context(), in)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": ve.Fields[0].Message,
				"errors":  ve.Fields,
			})
		}
		l.Error("Registration failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": msgRegisterFailed,
			"error":   err.Error(),
		})
	}

	body := fiber.Map{
		"success": true,
		"message": msgRegistered,
		"user":    result.User,
		"storage": result.Storage,
	}
	if result.TotalRegistrations != nil {
		body["totalRegistrations"] = *result.TotalRegistrations
	}
	return c.Status(fiber.StatusCreated).JSON(body)
}

// HandleListEphemeral lists the process-local store.
// @Summary List In-Memory Registrations
// @Description Debug listing of the registrations held by this process.
// @Tags registration
// @Produce json
// @Success 200 {object} map[string]interface{} "Registrations"
// @Router /register [get]
func (h *Handler) HandleListEphemeral(c *fiber.Ctx) error {
	records, err := h.listEphemeral(c.Context())
	if err != nil {
		return h.fetchFailed(c, err)
	}
	return c.JSON(fiber.Map{
		"success":       true,
		"registrations": records,
		"count":         len(records),
	})
}

// HandleListUsers returns the reconciled registrations.
// @Summary List Users
// @Description Returns the merged registrations from every configured store.
// @Tags registration
// @Produce json
// @Success 200 {object} map[string]interface{} "Users"
// @Failure 500 {object} map[string]interface{} "Internal Server Error"
// @Router /users [get]
func (h *Handler) HandleListUsers(c *fiber.Ctx) error {
	view, err := h.viewer.LoadView(c.Context())
	if err != nil {
		return h.fetchFailed(c, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"users":      view.Registrations,
		"count":      len(view.Registrations),
		"source":     view.Source,
		"provenance": view.Provenance,
		"degraded":   view.Degraded,
	})
}

// HandleReceiveUsers acknowledges a batch of users pushed by a client.
// @Summary Receive Users
// @Tags registration
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Acknowledged"
// @Failure 400 {object} map[string]interface{} "Invalid data format"
// @Router /users [post]
func (h *Handler) HandleReceiveUsers(c *fiber.Ctx) error {
	var body struct {
		Users []models.Registration `json:"users"`
	}
	if err := c.BodyParser(&body); err != nil || body.Users == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid data format",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Data received successfully",
		"count":   len(body.Users),
	})
}

// HandleGetShared returns the reconciled registrations with a timestamp.
// @Summary Get Shared Data
// @Tags shared-data
// @Produce json
// @Success 200 {object} map[string]interface{} "Registrations"
// @Router /shared-data [get]
func (h *Handler) HandleGetShared(c *fiber.Ctx) error {
	view, err := h.viewer.LoadView(c.Context())
	if err != nil {
		return h.fetchFailed(c, err)
	}
	return c.JSON(fiber.Map{
		"success":       true,
		"registrations": view.Registrations,
		"count":         len(view.Registrations),
		"source":        view.Source,
		"provenance":    view.Provenance,
		"timestamp":     time.Now().UTC().Format(models.DateLayout),
	})
}

// HandleAddShared appends one record to the process-local store.
// @Summary Add Shared Registration
// @Tags shared-data
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{} "Added"
// @Failure 400 {object} map[string]interface{} "Name and email are required"
// @Router /shared-data [post]
func (h *Handler) HandleAddShared(c *fiber.Ctx) error {
	var rec models.Registration
	if err := rec.UnmarshalJSON(c.Body()); err != nil || strings.TrimSpace(rec.Name) == "" || strings.TrimSpace(rec.Email) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Name and email are required",
		})
	}
	if rec.RegistrationDate.IsZero() {
		rec.RegistrationDate = models.Stamp(h.service.now())
	}

	adapter, ok := h.service.Ephemeral()
	if !ok {
		return h.fetchFailed(c, errNoEphemeral)
	}
	stored, err := adapter.Append(c.Context(), rec)
	if err != nil {
		return h.fetchFailed(c, err)
	}
	total, _ := reconcile.Count(c.Context(), adapter)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"message":    "Registration added to shared data",
		"user":       stored,
		"totalCount": total,
	})
}

// HandleReplaceShared replaces the process-local store.
// @Summary Replace Shared Data
// @Tags shared-data
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Replaced"
// @Failure 400 {object} map[string]interface{} "Invalid data format"
// @Router /shared-data [put]
func (h *Handler) HandleReplaceShared(c *fiber.Ctx) error {
	var body struct {
		Registrations []models.Registration `json:"registrations"`
	}
	if err := c.BodyParser(&body); err != nil || body.Registrations == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid data format",
		})
	}

	adapter, ok := h.service.Ephemeral()
	if !ok {
		return h.fetchFailed(c, errNoEphemeral)
	}
	if err := adapter.ReplaceAll(c.Context(), body.Registrations); err != nil {
		return h.fetchFailed(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Shared data updated",
		"count":   len(body.Registrations),
	})
}

// HandleClearShared empties the process-local store.
// @Summary Clear Shared Data
// @Tags shared-data
// @Produce json
// @Success 200 {object} map[string]interface{} "Cleared"
// @Router /shared-data [delete]
func (h *Handler) HandleClearShared(c *fiber.Ctx) error {
	adapter, ok := h.service.Ephemeral()
	if !ok {
		return h.fetchFailed(c, errNoEphemeral)
	}
	n, err := adapter.Clear(c.Context())
	if err != nil {
		return h.fetchFailed(c, err)
	}
	return c.JSON(fiber.Map{
		"success":       true,
		"message":       "All registrations cleared",
		"previousCount": n,
	})
}

// HandleDeleteAll removes every record from the primary store.
// @Summary Delete All Registrations
// @Description Clears the primary store. The durable key-value copy is kept.
// @Tags registration
// @Produce json
// @Success 200 {object} map[string]interface{} "Deleted"
// @Failure 500 {object} map[string]interface{} "Internal Server Error"
// @Router /delete-all [delete]
func (h *Handler) HandleDeleteAll(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if !h.service.PrimaryConfigured() {
		return c.JSON(fiber.Map{
			"success":      true,
			"message":      msgDeleted,
			"deletedCount": 0,
			"source":       "no_database",
		})
	}

	n, err := h.service.ClearPrimary(c.Context())
	if err != nil {
		l.Error("Delete all failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": msgDeleteFailed,
			"error":   err.Error(),
		})
	}
	l.Info("Primary store cleared", zap.Int("deleted", n))
	return c.JSON(fiber.Map{
		"success":      true,
		"message":      msgDeleted,
		"deletedCount": n,
		"source":       models.SourcePrimary,
	})
}

var errNoEphemeral = errors.New("in-memory store not configured")

func (h *Handler) listEphemeral(ctx context.Context) ([]models.Registration, error) {
	adapter, ok := h.service.Ephemeral()
	if !ok {
		return []models.Registration{}, nil
	}
	return adapter.List(ctx)
}

func (h *Handler) fetchFailed(c *fiber.Ctx, err error) error {
	logger.WithRayID(h.service.logger, c).Error("Registration request failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": msgFetchFailed,
		"error":   err.Error(),
	})
}

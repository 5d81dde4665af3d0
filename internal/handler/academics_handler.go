package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-request-api/internal/dto"
	"github.com/noah-isme/campus-request-api/internal/middleware"
	"github.com/noah-isme/campus-request-api/internal/service"
	"github.com/noah-isme/campus-request-api/internal/utils"
)

// AcademicsHandler exposes the department and course catalog routes.
type AcademicsHandler struct {
	service service.AcademicsService
	logger  zerolog.Logger
}

// NewAcademicsHandler constructs a handler instance.
func NewAcademicsHandler(service service.AcademicsService, logger zerolog.Logger) *AcademicsHandler {
	return &AcademicsHandler{
		service: service,
		logger:  logger.With().Str("component", "academics_handler").Logger(),
	}
}

// Register binds the catalog routes. Listings are public, writes are admin only.
// authGuard must authenticate the caller before the role check runs.
func (h *AcademicsHandler) Register(router fiber.Router, authGuard fiber.Handler) {
	router.Get("/departments", h.listDepartments)
	router.Get("/courses", h.listCourses)
	router.Post("/departments", authGuard, middleware.RequireRole("admin"), h.createDepartment)
	router.Post("/courses", authGuard, middleware.RequireRole("admin"), h.createCourse)
}

func (h *AcademicsHandler) listDepartments(c *fiber.Ctx) error {
	departments, err := h.service.ListDepartments(requestContext(c))
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "departments retrieved", departments)
}

func (h *AcademicsHandler) listCourses(c *fiber.Ctx) error {
	departmentID, err := parseQueryInt(c, "department_id")
	if err != nil || departmentID < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid department id")
	}

	courses, err := h.service.ListCourses(requestContext(c), uint(departmentID))
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "courses retrieved", courses)
}

func (h *AcademicsHandler) createDepartment(c *fiber.Ctx) error {
	var payload dto.CreateDepartmentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	created, err := h.service.CreateDepartment(requestContext(c), payload)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "department created", created)
}

func (h *AcademicsHandler) createCourse(c *fiber.Ctx) error {
	var payload dto.CreateCourseRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	created, err := h.service.CreateCourse(requestContext(c), payload)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "course created", created)
}

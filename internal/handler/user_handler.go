package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-request-api/internal/dto"
	"github.com/noah-isme/campus-request-api/internal/middleware"
	"github.com/noah-isme/campus-request-api/internal/service"
	"github.com/noah-isme/campus-request-api/internal/utils"
)

// UserHandler exposes profile and lecturer administration routes.
type UserHandler struct {
	service service.UserService
	logger  zerolog.Logger
}

// NewUserHandler constructs a handler instance.
func NewUserHandler(service service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger.With().Str("component", "user_handler").Logger(),
	}
}

// Register binds the user routes. The router must already carry auth middleware.
func (h *UserHandler) Register(router fiber.Router) {
	router.Get("/me", h.profile)
	router.Put("/me", h.updateProfile)
	router.Get("/lecturers", h.listLecturers)
	router.Get("/lecturers/pending", middleware.RequireRole("admin"), h.listPendingLecturers)
	router.Patch("/lecturers/:id/approve", middleware.RequireRole("admin"), h.approveLecturer)
	router.Put("/lecturers/:id/courses", middleware.RequireRole("admin"), h.assignCourses)
	router.Get("/department/:id", middleware.RequireStaff(), h.listByDepartment)
	router.Delete("/:id", middleware.RequireRole("admin"), h.deleteUser)
}

func (h *UserHandler) profile(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	profile, err := h.service.Profile(requestContext(c), userID)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "profile retrieved", profile)
}

func (h *UserHandler) updateProfile(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	var payload dto.UpdateProfileRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	updated, err := h.service.UpdateProfile(requestContext(c), userID, payload)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "profile updated", updated)
}

func (h *UserHandler) listLecturers(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	offset, err := parseQueryInt(c, "offset")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid offset")
	}

	lecturers, err := h.service.ListLecturers(requestContext(c), limit, offset)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "lecturers retrieved", lecturers)
}

func (h *UserHandler) listPendingLecturers(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	offset, err := parseQueryInt(c, "offset")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid offset")
	}

	pending, err := h.service.ListPendingLecturers(requestContext(c), limit, offset)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "pending lecturers retrieved", pending)
}

func (h *UserHandler) listByDepartment(c *fiber.Ctx) error {
	departmentID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid department id")
	}

	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	offset, err := parseQueryInt(c, "offset")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid offset")
	}

	users, err := h.service.ListByDepartment(requestContext(c), departmentID, limit, offset)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "department members retrieved", users)
}

func (h *UserHandler) assignCourses(c *fiber.Ctx) error {
	actorID := userIDFromContext(c)
	lecturerID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid lecturer id")
	}

	var payload dto.AssignCoursesRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	updated, err := h.service.AssignCourses(requestContext(c), actorID, lecturerID, payload)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "courses assigned", updated)
}

func (h *UserHandler) deleteUser(c *fiber.Ctx) error {
	actorID := userIDFromContext(c)
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid user id")
	}

	if err := h.service.DeleteUser(requestContext(c), actorID, userID); err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "user deleted", nil)
}

func (h *UserHandler) approveLecturer(c *fiber.Ctx) error {
	actorID := userIDFromContext(c)
	lecturerID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid lecturer id")
	}

	approved, err := h.service.ApproveLecturer(requestContext(c), actorID, lecturerID)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "lecturer approved", approved)
}

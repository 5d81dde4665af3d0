package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-request-api/internal/dto"
	"github.com/noah-isme/campus-request-api/internal/middleware"
	"github.com/noah-isme/campus-request-api/internal/service"
	"github.com/noah-isme/campus-request-api/internal/utils"
)

// RequestHandler exposes the request lifecycle and discussion thread routes.
type RequestHandler struct {
	requests service.RequestService
	threads  service.ThreadService
	logger   zerolog.Logger
}

// NewRequestHandler constructs a handler instance.
func NewRequestHandler(requests service.RequestService, threads service.ThreadService, logger zerolog.Logger) *RequestHandler {
	return &RequestHandler{
		requests: requests,
		threads:  threads,
		logger:   logger.With().Str("component", "request_handler").Logger(),
	}
}

// Register binds the request routes. The router must already carry auth middleware.
func (h *RequestHandler) Register(router fiber.Router) {
	router.Post("/", h.create)
	router.Get("/", h.list)
	router.Get("/overview", h.overview)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.remove)
	router.Patch("/:id/status", middleware.RequireStaff(), h.updateStatus)
	router.Patch("/:id/assign", middleware.RequireRole("admin"), h.assignLecturer)

	router.Get("/:id/thread", h.openThread)
	router.Post("/:id/comments", h.addComment)
	router.Patch("/:id/comments/:commentId/read", h.markCommentRead)
}

func (h *RequestHandler) create(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	var payload dto.CreateRequestRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	created, err := h.requests.Create(requestContext(c), userID, payload)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "request submitted", created)
}

func (h *RequestHandler) list(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	requests, err := h.requests.ListForViewer(requestContext(c), userID)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "requests retrieved", requests)
}

func (h *RequestHandler) overview(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	overview, err := h.requests.Overview(requestContext(c), userID)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "overview retrieved", overview)
}

func (h *RequestHandler) get(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	requestID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request id")
	}

	request, err := h.requests.Get(requestContext(c), requestID, userID)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "request retrieved", request)
}

func (h *RequestHandler) update(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	requestID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request id")
	}

	var payload dto.UpdateRequestRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	updated, err := h.requests.Update(requestContext(c), requestID, userID, payload)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "request updated", updated)
}

func (h *RequestHandler) remove(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	requestID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request id")
	}

	if err := h.requests.Delete(requestContext(c), requestID, userID); err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "request deleted", nil)
}

func (h *RequestHandler) updateStatus(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	requestID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request id")
	}

	var payload dto.StatusUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	updated, err := h.requests.UpdateStatus(requestContext(c), requestID, userID, payload)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "status updated", updated)
}

func (h *RequestHandler) assignLecturer(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	requestID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request id")
	}

	var payload dto.AssignLecturerRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	updated, err := h.requests.AssignLecturer(requestContext(c), requestID, userID, payload)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "lecturer assigned", updated)
}

func (h *RequestHandler) openThread(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	requestID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request id")
	}

	thread, err := h.threads.OpenThread(requestContext(c), requestID, userID)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "thread retrieved", thread)
}

func (h *RequestHandler) addComment(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	requestID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request id")
	}

	var payload dto.CreateCommentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	comment, err := h.threads.AddComment(requestContext(c), requestID, userID, payload)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "comment added", comment)
}

func (h *RequestHandler) markCommentRead(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	requestID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request id")
	}
	commentID, err := parseIDParam(c, "commentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid comment id")
	}

	if err := h.threads.MarkCommentRead(requestContext(c), requestID, commentID, userID); err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "comment marked as read", nil)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/campus-request-api/internal/dto"
	"github.com/noah-isme/campus-request-api/internal/lifecycle"
	"github.com/noah-isme/campus-request-api/internal/models"
	"github.com/noah-isme/campus-request-api/internal/observability"
	"github.com/noah-isme/campus-request-api/internal/repository"
)

var (
	// ErrForbidden is returned when the actor may not touch the request.
	ErrForbidden = errors.New("not allowed to access this request")
	// ErrTransitionNotAllowed is returned when the lifecycle rules refuse a move.
	ErrTransitionNotAllowed = errors.New("status transition not allowed")
	// ErrRequestNotEditable is returned when a student edits a request already in triage.
	ErrRequestNotEditable = errors.New("request can no longer be edited")
)

// RequestService handles submission and triage of student requests.
type RequestService interface {
	Create(ctx context.Context, studentID uint, payload dto.CreateRequestRequest) (dto.RequestResponse, error)
	Get(ctx context.Context, requestID, viewerID uint) (dto.RequestResponse, error)
	ListForViewer(ctx context.Context, viewerID uint) ([]dto.RequestResponse, error)
	Overview(ctx context.Context, viewerID uint) (dto.RequestOverviewResponse, error)
	Update(ctx context.Context, requestID, studentID uint, payload dto.UpdateRequestRequest) (dto.RequestResponse, error)
	Delete(ctx context.Context, requestID, studentID uint) error
	UpdateStatus(ctx context.Context, requestID, actorID uint, payload dto.StatusUpdateRequest) (dto.RequestResponse, error)
	AssignLecturer(ctx context.Context, requestID, actorID uint, payload dto.AssignLecturerRequest) (dto.RequestResponse, error)
}

type requestService struct {
	requests      repository.RequestRepository
	comments      repository.CommentRepository
	users         repository.UserRepository
	notifications NotificationService
	audit         AuditService
	rules         lifecycle.Rules
	validator     *validator.Validate
	logger        zerolog.Logger
	tracer        trace.Tracer
	sanitizer     *bluemonday.Policy
}

// NewRequestService constructs a request service with the given transition rules.
func NewRequestService(requests repository.RequestRepository, comments repository.CommentRepository, users repository.UserRepository, notifications NotificationService, audit AuditService, rules lifecycle.Rules, validate *validator.Validate, logger zerolog.Logger) RequestService {
	return &requestService{
		requests:      requests,
		comments:      comments,
		users:         users,
		notifications: notifications,
		audit:         audit,
		rules:         rules,
		validator:     validate,
		logger:        logger.With().Str("component", "request_service").Logger(),
		tracer:        otel.Tracer("github.com/noah-isme/campus-request-api/internal/service/request"),
		sanitizer:     bluemonday.StrictPolicy(),
	}
}

func (s *requestService) Create(ctx context.Context, studentID uint, payload dto.CreateRequestRequest) (dto.RequestResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RequestResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "requests.create", trace.WithAttributes(
		attribute.Int("request.student_id", int(studentID)),
		attribute.String("request.type", payload.RequestType),
	))
	defer span.End()

	request := models.Request{
		StudentID:       studentID,
		RequestType:     payload.RequestType,
		Subject:         strings.TrimSpace(s.sanitizer.Sanitize(payload.Subject)),
		Description:     strings.TrimSpace(s.sanitizer.Sanitize(payload.Description)),
		AttachedFileURL: strings.TrimSpace(payload.AttachedFileURL),
		Status:          string(lifecycle.StatusPending),
	}
	if request.Subject == "" {
		return dto.RequestResponse{}, errors.New("subject empty after sanitization")
	}

	if err := s.requests.Create(spanCtx, &request); err != nil {
		span.RecordError(err)
		return dto.RequestResponse{}, err
	}

	s.audit.Record(spanCtx, studentID, models.RoleStudent, "request.create", "request", &request.ID, map[string]any{
		"request_type": request.RequestType,
	})
	s.logger.Info().Uint("request_id", request.ID).Uint("student_id", studentID).Msg("request submitted")

	return dto.NewRequestResponse(&request), nil
}

func (s *requestService) Get(ctx context.Context, requestID, viewerID uint) (dto.RequestResponse, error) {
	request, viewer, err := s.loadForViewer(ctx, requestID, viewerID)
	if err != nil {
		return dto.RequestResponse{}, err
	}
	if !lifecycle.CanView(request, viewer) {
		return dto.RequestResponse{}, ErrForbidden
	}
	return dto.NewRequestResponse(&request), nil
}

func (s *requestService) ListForViewer(ctx context.Context, viewerID uint) ([]dto.RequestResponse, error) {
	requests, err := s.listScoped(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return dto.NewRequestResponseSlice(requests), nil
}

func (s *requestService) Overview(ctx context.Context, viewerID uint) (dto.RequestOverviewResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "requests.overview", trace.WithAttributes(
		attribute.Int("request.viewer_id", int(viewerID)),
	))
	defer span.End()

	requests, err := s.listScoped(spanCtx, viewerID)
	if err != nil {
		span.RecordError(err)
		return dto.RequestOverviewResponse{}, err
	}

	groups := lifecycle.Classify(requests)
	stats := lifecycle.AggregateStats(requests)

	return dto.RequestOverviewResponse{
		Groups: dto.NewRequestGroupsResponse(groups),
		Stats:  dto.NewRequestStatsResponse(stats),
	}, nil
}

func (s *requestService) Update(ctx context.Context, requestID, studentID uint, payload dto.UpdateRequestRequest) (dto.RequestResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RequestResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "requests.update")
	defer span.End()

	request, err := s.requests.FindByID(spanCtx, requestID)
	if err != nil {
		span.RecordError(err)
		return dto.RequestResponse{}, err
	}
	if request.StudentID != studentID {
		return dto.RequestResponse{}, ErrForbidden
	}
	if lifecycle.Status(request.Status) != lifecycle.StatusPending {
		return dto.RequestResponse{}, ErrRequestNotEditable
	}

	if subject := strings.TrimSpace(s.sanitizer.Sanitize(payload.Subject)); subject != "" {
		request.Subject = subject
	}
	if description := strings.TrimSpace(s.sanitizer.Sanitize(payload.Description)); description != "" {
		request.Description = description
	}
	if url := strings.TrimSpace(payload.AttachedFileURL); url != "" {
		request.AttachedFileURL = url
	}

	if err := s.requests.Update(spanCtx, &request); err != nil {
		span.RecordError(err)
		return dto.RequestResponse{}, err
	}

	return dto.NewRequestResponse(&request), nil
}

func (s *requestService) Delete(ctx context.Context, requestID, studentID uint) error {
	spanCtx, span := s.tracer.Start(ctx, "requests.delete")
	defer span.End()

	request, err := s.requests.FindByID(spanCtx, requestID)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if request.StudentID != studentID {
		return ErrForbidden
	}
	if lifecycle.Status(request.Status) != lifecycle.StatusPending {
		return ErrRequestNotEditable
	}

	if err := s.requests.Delete(spanCtx, requestID); err != nil {
		span.RecordError(err)
		return err
	}

	s.audit.Record(spanCtx, studentID, models.RoleStudent, "request.delete", "request", &requestID, nil)
	return nil
}

func (s *requestService) UpdateStatus(ctx context.Context, requestID, actorID uint, payload dto.StatusUpdateRequest) (dto.RequestResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RequestResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "requests.update_status", trace.WithAttributes(
		attribute.Int("request.id", int(requestID)),
		attribute.Int("request.actor_id", int(actorID)),
	))
	defer span.End()

	actor, err := s.users.FindByID(spanCtx, actorID)
	if err != nil {
		span.RecordError(err)
		return dto.RequestResponse{}, err
	}
	if !lifecycle.CanSetStatus(actor.Role) {
		return dto.RequestResponse{}, ErrForbidden
	}

	// The portal dropdown submits Hebrew labels; the API accepts both.
	target, err := lifecycle.Parse(payload.Status)
	if err != nil {
		return dto.RequestResponse{}, err
	}

	request, err := s.requests.FindByID(spanCtx, requestID)
	if err != nil {
		span.RecordError(err)
		return dto.RequestResponse{}, err
	}
	if !lifecycle.CanView(request, actor) {
		return dto.RequestResponse{}, ErrForbidden
	}

	current := lifecycle.Status(request.Status)
	if !s.rules.CanTransition(current, target) {
		observability.StatusTransitionsForbidden().Inc()
		span.SetAttributes(
			attribute.String("request.status_from", string(current)),
			attribute.String("request.status_to", string(target)),
		)
		return dto.RequestResponse{}, ErrTransitionNotAllowed
	}

	feedback := strings.TrimSpace(s.sanitizer.Sanitize(payload.Feedback))
	updated, err := s.requests.UpdateStatus(spanCtx, requestID, string(target), feedback)
	if err != nil {
		span.RecordError(err)
		return dto.RequestResponse{}, err
	}

	// The decision note lands in the thread so the student sees it inline.
	if feedback != "" {
		comment := models.RequestComment{
			RequestID: requestID,
			AuthorID:  actorID,
			Content:   feedback,
		}
		if err := s.comments.Create(spanCtx, &comment); err != nil {
			s.logger.Error().Err(err).Uint("request_id", requestID).Msg("feedback comment write failed")
		}
	}

	message := fmt.Sprintf("הבקשה שלך %q עודכנה לסטטוס: %s", updated.Subject, target.Hebrew())
	if _, err := s.notifications.Notify(spanCtx, updated.StudentID, "request_update", message); err != nil {
		s.logger.Warn().Err(err).Uint("request_id", requestID).Msg("status notification failed")
	}

	s.audit.Record(spanCtx, actorID, actor.Role, "request.status_update", "request", &requestID, map[string]any{
		"from": string(current),
		"to":   string(target),
	})
	observability.StatusTransitions().WithLabelValues(string(target)).Inc()
	s.logger.Info().
		Uint("request_id", requestID).
		Str("from", string(current)).
		Str("to", string(target)).
		Msg("request status updated")

	return dto.NewRequestResponse(&updated), nil
}

func (s *requestService) AssignLecturer(ctx context.Context, requestID, actorID uint, payload dto.AssignLecturerRequest) (dto.RequestResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RequestResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "requests.assign_lecturer")
	defer span.End()

	actor, err := s.users.FindByID(spanCtx, actorID)
	if err != nil {
		span.RecordError(err)
		return dto.RequestResponse{}, err
	}
	if actor.Role != models.RoleAdmin {
		return dto.RequestResponse{}, ErrForbidden
	}

	lecturer, err := s.users.FindByID(spanCtx, payload.LecturerID)
	if err != nil {
		span.RecordError(err)
		return dto.RequestResponse{}, err
	}
	if lecturer.Role != models.RoleLecturer {
		return dto.RequestResponse{}, errors.New("assignee is not a lecturer")
	}

	updated, err := s.requests.AssignLecturer(spanCtx, requestID, lecturer.ID)
	if err != nil {
		span.RecordError(err)
		return dto.RequestResponse{}, err
	}

	message := fmt.Sprintf("בקשה חדשה הוקצתה לטיפולך: %q", updated.Subject)
	if _, err := s.notifications.Notify(spanCtx, lecturer.ID, "request_assigned", message); err != nil {
		s.logger.Warn().Err(err).Uint("request_id", requestID).Msg("assignment notification failed")
	}

	s.audit.Record(spanCtx, actorID, actor.Role, "request.assign", "request", &requestID, map[string]any{
		"lecturer_id": lecturer.ID,
	})

	return dto.NewRequestResponse(&updated), nil
}

func (s *requestService) loadForViewer(ctx context.Context, requestID, viewerID uint) (models.Request, models.User, error) {
	request, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return models.Request{}, models.User{}, err
	}
	viewer, err := s.users.FindByID(ctx, viewerID)
	if err != nil {
		return models.Request{}, models.User{}, err
	}
	return request, viewer, nil
}

func (s *requestService) listScoped(ctx context.Context, viewerID uint) ([]models.Request, error) {
	viewer, err := s.users.FindByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	scope := lifecycle.ScopeFor(viewer)
	switch {
	case scope.LecturerID != 0:
		return s.requests.ListByLecturer(ctx, scope.LecturerID)
	case scope.DepartmentID != 0:
		return s.requests.ListByDepartment(ctx, scope.DepartmentID)
	case scope.StudentID != 0:
		return s.requests.ListByStudent(ctx, scope.StudentID)
	default:
		// Admins without a department see the whole queue.
		return s.requests.ListAll(ctx, 0, 0)
	}
}

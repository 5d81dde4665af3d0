package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/campus-request-api/internal/dto"
	"github.com/noah-isme/campus-request-api/internal/lifecycle"
	"github.com/noah-isme/campus-request-api/internal/models"
	"github.com/noah-isme/campus-request-api/internal/repository"
)

const readMarkTimeout = 5 * time.Second

// ThreadService handles the per-request discussion thread and its read state.
type ThreadService interface {
	OpenThread(ctx context.Context, requestID, viewerID uint) (dto.ThreadResponse, error)
	AddComment(ctx context.Context, requestID, authorID uint, payload dto.CreateCommentRequest) (dto.CommentResponse, error)
	MarkCommentRead(ctx context.Context, requestID, commentID, readerID uint) error
}

type threadService struct {
	requests      repository.RequestRepository
	comments      repository.CommentRepository
	users         repository.UserRepository
	notifications NotificationService
	validator     *validator.Validate
	logger        zerolog.Logger
	tracer        trace.Tracer
	sanitizer     *bluemonday.Policy
}

// NewThreadService constructs a thread service.
func NewThreadService(requests repository.RequestRepository, comments repository.CommentRepository, users repository.UserRepository, notifications NotificationService, validate *validator.Validate, logger zerolog.Logger) ThreadService {
	return &threadService{
		requests:      requests,
		comments:      comments,
		users:         users,
		notifications: notifications,
		validator:     validate,
		logger:        logger.With().Str("component", "thread_service").Logger(),
		tracer:        otel.Tracer("github.com/noah-isme/campus-request-api/internal/service/thread"),
		sanitizer:     bluemonday.StrictPolicy(),
	}
}

// OpenThread returns the request with its chronological comment history.
// Incoming messages are flagged read in the background: the thread renders
// immediately and a failed flag write only surfaces in the log, leaving the
// messages unread for the next open.
func (s *threadService) OpenThread(ctx context.Context, requestID, viewerID uint) (dto.ThreadResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "threads.open", trace.WithAttributes(
		attribute.Int("thread.request_id", int(requestID)),
		attribute.Int("thread.viewer_id", int(viewerID)),
	))
	defer span.End()

	request, err := s.requests.FindByID(spanCtx, requestID)
	if err != nil {
		span.RecordError(err)
		return dto.ThreadResponse{}, err
	}

	viewer, err := s.users.FindByID(spanCtx, viewerID)
	if err != nil {
		span.RecordError(err)
		return dto.ThreadResponse{}, err
	}
	if !lifecycle.CanView(request, viewer) {
		return dto.ThreadResponse{}, ErrForbidden
	}

	comments, err := s.comments.ListByRequest(spanCtx, requestID)
	if err != nil {
		span.RecordError(err)
		return dto.ThreadResponse{}, err
	}

	go func() {
		markCtx, cancel := context.WithTimeout(context.Background(), readMarkTimeout)
		defer cancel()
		if _, err := s.comments.MarkThreadRead(markCtx, requestID, viewerID); err != nil {
			s.logger.Warn().Err(err).
				Uint("request_id", requestID).
				Uint("viewer_id", viewerID).
				Msg("thread read-marking failed")
		}
	}()

	return dto.ThreadResponse{
		Request:  dto.NewRequestResponse(&request),
		Comments: dto.NewCommentResponseSlice(comments),
	}, nil
}

func (s *threadService) AddComment(ctx context.Context, requestID, authorID uint, payload dto.CreateCommentRequest) (dto.CommentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CommentResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "threads.add_comment", trace.WithAttributes(
		attribute.Int("thread.request_id", int(requestID)),
		attribute.Int("thread.author_id", int(authorID)),
	))
	defer span.End()

	request, err := s.requests.FindByID(spanCtx, requestID)
	if err != nil {
		span.RecordError(err)
		return dto.CommentResponse{}, err
	}

	author, err := s.users.FindByID(spanCtx, authorID)
	if err != nil {
		span.RecordError(err)
		return dto.CommentResponse{}, err
	}
	if !lifecycle.CanComment(request, author) {
		return dto.CommentResponse{}, ErrForbidden
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if content == "" {
		return dto.CommentResponse{}, errors.New("comment empty after sanitization")
	}

	comment := models.RequestComment{
		RequestID: requestID,
		AuthorID:  authorID,
		Content:   content,
	}
	if err := s.comments.Create(spanCtx, &comment); err != nil {
		span.RecordError(err)
		return dto.CommentResponse{}, err
	}
	comment.Author = &author

	s.fanOut(spanCtx, request, author)

	return dto.NewCommentResponse(&comment), nil
}

// MarkCommentRead flags a single comment after confirming it belongs to the
// given thread and was not authored by the reader.
func (s *threadService) MarkCommentRead(ctx context.Context, requestID, commentID, readerID uint) error {
	spanCtx, span := s.tracer.Start(ctx, "threads.mark_comment_read")
	defer span.End()

	comment, err := s.comments.FindByID(spanCtx, commentID)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if comment.RequestID != requestID || comment.AuthorID == readerID {
		return ErrForbidden
	}

	request, err := s.requests.FindByID(spanCtx, requestID)
	if err != nil {
		span.RecordError(err)
		return err
	}
	reader, err := s.users.FindByID(spanCtx, readerID)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if !lifecycle.CanView(request, reader) {
		return ErrForbidden
	}

	return s.comments.MarkRead(spanCtx, commentID)
}

// fanOut notifies the other thread participants about a new message: a
// student reaches the assigned lecturer and the department admins, staff
// reach the student and each other. The author is never notified.
func (s *threadService) fanOut(ctx context.Context, request models.Request, author models.User) {
	recipients := make(map[uint]struct{})

	switch author.Role {
	case models.RoleStudent:
		if request.AssignedLecturerID != nil {
			recipients[*request.AssignedLecturerID] = struct{}{}
		}
		if request.Student != nil && request.Student.DepartmentID != nil {
			admins, err := s.users.ListAdminsByDepartment(ctx, *request.Student.DepartmentID)
			if err != nil {
				s.logger.Warn().Err(err).Uint("request_id", request.ID).Msg("admin lookup for fan-out failed")
			}
			for _, admin := range admins {
				recipients[admin.ID] = struct{}{}
			}
		}
	case models.RoleLecturer:
		recipients[request.StudentID] = struct{}{}
	case models.RoleAdmin:
		recipients[request.StudentID] = struct{}{}
		if request.AssignedLecturerID != nil {
			recipients[*request.AssignedLecturerID] = struct{}{}
		}
	}

	delete(recipients, author.ID)

	message := fmt.Sprintf("תגובה חדשה בבקשה %q מאת %s", request.Subject, author.FullName())
	for recipient := range recipients {
		if _, err := s.notifications.Notify(ctx, recipient, "request_comment", message); err != nil {
			s.logger.Warn().Err(err).
				Uint("request_id", request.ID).
				Uint("recipient_id", recipient).
				Msg("comment notification failed")
		}
	}
}

package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/campus-request-api/internal/dto"
	"github.com/noah-isme/campus-request-api/internal/models"
	"github.com/noah-isme/campus-request-api/internal/repository"
)

// UserService handles profiles and staff account administration.
type UserService interface {
	Profile(ctx context.Context, userID uint) (dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uint, payload dto.UpdateProfileRequest) (dto.UserResponse, error)
	ListLecturers(ctx context.Context, limit, offset int) ([]dto.UserResponse, error)
	ListPendingLecturers(ctx context.Context, limit, offset int) ([]dto.UserResponse, error)
	ListByDepartment(ctx context.Context, departmentID uint, limit, offset int) ([]dto.UserResponse, error)
	ApproveLecturer(ctx context.Context, actorID uint, lecturerID uint) (dto.UserResponse, error)
	AssignCourses(ctx context.Context, actorID uint, lecturerID uint, payload dto.AssignCoursesRequest) (dto.UserResponse, error)
	DeleteUser(ctx context.Context, actorID uint, userID uint) error
}

type userService struct {
	users     repository.UserRepository
	audit     AuditService
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewUserService constructs a user service.
func NewUserService(users repository.UserRepository, audit AuditService, validate *validator.Validate, logger zerolog.Logger) UserService {
	return &userService{
		users:     users,
		audit:     audit,
		validator: validate,
		logger:    logger.With().Str("component", "user_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/campus-request-api/internal/service/user"),
	}
}

func (s *userService) Profile(ctx context.Context, userID uint) (dto.UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return dto.UserResponse{}, err
	}
	return dto.NewUserResponse(&user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uint, payload dto.UpdateProfileRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "users.update_profile")
	defer span.End()

	user, err := s.users.FindByID(spanCtx, userID)
	if err != nil {
		span.RecordError(err)
		return dto.UserResponse{}, err
	}

	if name := strings.TrimSpace(payload.FirstName); name != "" {
		user.FirstName = name
	}
	if name := strings.TrimSpace(payload.LastName); name != "" {
		user.LastName = name
	}
	if phone := strings.TrimSpace(payload.PhoneNumber); phone != "" {
		user.PhoneNumber = phone
	}

	if err := s.users.Update(spanCtx, &user); err != nil {
		span.RecordError(err)
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(&user), nil
}

func (s *userService) ListLecturers(ctx context.Context, limit, offset int) ([]dto.UserResponse, error) {
	lecturers, err := s.users.ListByRole(ctx, models.RoleLecturer, limit, offset)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponseSlice(lecturers), nil
}

func (s *userService) ListPendingLecturers(ctx context.Context, limit, offset int) ([]dto.UserResponse, error) {
	lecturers, err := s.users.ListPendingLecturers(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponseSlice(lecturers), nil
}

func (s *userService) ListByDepartment(ctx context.Context, departmentID uint, limit, offset int) ([]dto.UserResponse, error) {
	users, err := s.users.ListByDepartment(ctx, departmentID, limit, offset)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponseSlice(users), nil
}

func (s *userService) ApproveLecturer(ctx context.Context, actorID uint, lecturerID uint) (dto.UserResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "users.approve_lecturer")
	defer span.End()

	user, err := s.users.Approve(spanCtx, lecturerID)
	if err != nil {
		span.RecordError(err)
		return dto.UserResponse{}, err
	}

	s.audit.Record(spanCtx, actorID, models.RoleAdmin, "lecturer.approve", "user", &lecturerID, nil)
	s.logger.Info().Uint("lecturer_id", lecturerID).Uint("actor_id", actorID).Msg("lecturer approved")

	return dto.NewUserResponse(&user), nil
}

func (s *userService) AssignCourses(ctx context.Context, actorID uint, lecturerID uint, payload dto.AssignCoursesRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "users.assign_courses")
	defer span.End()

	target, err := s.users.FindByID(spanCtx, lecturerID)
	if err != nil {
		span.RecordError(err)
		return dto.UserResponse{}, err
	}
	if target.Role != models.RoleLecturer {
		return dto.UserResponse{}, ErrForbidden
	}

	user, err := s.users.AssignCourses(spanCtx, lecturerID, payload.CourseIDs)
	if err != nil {
		span.RecordError(err)
		return dto.UserResponse{}, err
	}

	s.audit.Record(spanCtx, actorID, models.RoleAdmin, "lecturer.assign_courses", "user", &lecturerID, map[string]any{
		"course_ids": payload.CourseIDs,
	})

	return dto.NewUserResponse(&user), nil
}

func (s *userService) DeleteUser(ctx context.Context, actorID uint, userID uint) error {
	if actorID == userID {
		return ErrForbidden
	}

	spanCtx, span := s.tracer.Start(ctx, "users.delete")
	defer span.End()

	if err := s.users.Delete(spanCtx, userID); err != nil {
		span.RecordError(err)
		return err
	}

	s.audit.Record(spanCtx, actorID, models.RoleAdmin, "user.delete", "user", &userID, nil)
	s.logger.Info().Uint("user_id", userID).Uint("actor_id", actorID).Msg("user deleted")
	return nil
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-request-api/internal/dto"
	"github.com/noah-isme/campus-request-api/internal/models"
	"github.com/noah-isme/campus-request-api/internal/repository"
)

const (
	departmentsCacheKey  = "catalog:departments:v1"
	coursesCacheKeyShape = "catalog:courses:v1:%d"
)

// AcademicsService exposes the department and course catalog. Listings are
// cached in redis because the catalog changes rarely and backs every
// registration form.
type AcademicsService interface {
	ListDepartments(ctx context.Context) ([]dto.DepartmentResponse, error)
	ListCourses(ctx context.Context, departmentID uint) ([]dto.CourseResponse, error)
	CreateDepartment(ctx context.Context, payload dto.CreateDepartmentRequest) (dto.DepartmentResponse, error)
	CreateCourse(ctx context.Context, payload dto.CreateCourseRequest) (dto.CourseResponse, error)
}

type academicsService struct {
	repo      repository.AcademicsRepository
	cache     *redis.Client
	ttl       time.Duration
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAcademicsService constructs the catalog service.
func NewAcademicsService(repo repository.AcademicsRepository, cache *redis.Client, ttl time.Duration, validate *validator.Validate, logger zerolog.Logger) AcademicsService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &academicsService{
		repo:      repo,
		cache:     cache,
		ttl:       ttl,
		validator: validate,
		logger:    logger.With().Str("component", "academics_service").Logger(),
	}
}

func (s *academicsService) ListDepartments(ctx context.Context) ([]dto.DepartmentResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, departmentsCacheKey).Result(); err == nil && cached != "" {
			var response []dto.DepartmentResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				return response, nil
			}
		}
	}

	departments, err := s.repo.ListDepartments(ctx)
	if err != nil {
		return nil, err
	}

	response := dto.NewDepartmentResponseSlice(departments)
	s.store(ctx, departmentsCacheKey, response)
	return response, nil
}

func (s *academicsService) ListCourses(ctx context.Context, departmentID uint) ([]dto.CourseResponse, error) {
	cacheKey := fmt.Sprintf(coursesCacheKeyShape, departmentID)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			var response []dto.CourseResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				return response, nil
			}
		}
	}

	courses, err := s.repo.ListCourses(ctx, departmentID)
	if err != nil {
		return nil, err
	}

	response := dto.NewCourseResponseSlice(courses)
	s.store(ctx, cacheKey, response)
	return response, nil
}

func (s *academicsService) CreateDepartment(ctx context.Context, payload dto.CreateDepartmentRequest) (dto.DepartmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DepartmentResponse{}, err
	}

	department := models.Department{Name: strings.TrimSpace(payload.Name)}
	if err := s.repo.CreateDepartment(ctx, &department); err != nil {
		return dto.DepartmentResponse{}, err
	}

	s.invalidate(ctx, departmentsCacheKey)
	return dto.NewDepartmentResponse(&department), nil
}

func (s *academicsService) CreateCourse(ctx context.Context, payload dto.CreateCourseRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	if _, err := s.repo.FindDepartment(ctx, payload.DepartmentID); err != nil {
		return dto.CourseResponse{}, err
	}

	course := models.Course{
		DepartmentID: payload.DepartmentID,
		Code:         strings.ToUpper(strings.TrimSpace(payload.Code)),
		Name:         strings.TrimSpace(payload.Name),
	}
	if err := s.repo.CreateCourse(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	s.invalidate(ctx,
		fmt.Sprintf(coursesCacheKeyShape, payload.DepartmentID),
		fmt.Sprintf(coursesCacheKeyShape, 0),
	)
	return dto.NewCourseResponse(&course), nil
}

func (s *academicsService) store(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to cache catalog listing")
	}
}

func (s *academicsService) invalidate(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate catalog cache")
	}
}

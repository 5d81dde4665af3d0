package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-request-api/internal/dto"
	"github.com/noah-isme/campus-request-api/internal/models"
	"github.com/noah-isme/campus-request-api/internal/repository"
)

// FeedbackService handles portal satisfaction surveys.
type FeedbackService interface {
	Create(ctx context.Context, userID uint, payload dto.CreateFeedbackRequest) (dto.FeedbackResponse, error)
	Delete(ctx context.Context, actorID uint, id uint) error
	List(ctx context.Context, category string, limit, offset int) ([]dto.FeedbackResponse, error)
	Summary(ctx context.Context) (dto.FeedbackSummaryResponse, error)
}

type feedbackService struct {
	repo      repository.FeedbackRepository
	validator *validator.Validate
	logger    zerolog.Logger
	sanitizer *bluemonday.Policy
}

// NewFeedbackService constructs a feedback service.
func NewFeedbackService(repo repository.FeedbackRepository, validate *validator.Validate, logger zerolog.Logger) FeedbackService {
	return &feedbackService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "feedback_service").Logger(),
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *feedbackService) Create(ctx context.Context, userID uint, payload dto.CreateFeedbackRequest) (dto.FeedbackResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.FeedbackResponse{}, err
	}

	entry := models.Feedback{
		UserID:      userID,
		Rating:      payload.Rating,
		Comment:     strings.TrimSpace(s.sanitizer.Sanitize(payload.Comment)),
		Category:    payload.Category,
		IsAnonymous: payload.IsAnonymous,
	}

	if err := s.repo.Create(ctx, &entry); err != nil {
		return dto.FeedbackResponse{}, err
	}

	s.logger.Info().Int("rating", entry.Rating).Str("category", entry.Category).Msg("feedback recorded")
	return dto.NewFeedbackResponse(&entry), nil
}

func (s *feedbackService) Delete(ctx context.Context, actorID uint, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Uint("feedback_id", id).Uint("actor_id", actorID).Msg("feedback deleted")
	return nil
}

func (s *feedbackService) List(ctx context.Context, category string, limit, offset int) ([]dto.FeedbackResponse, error) {
	var entries []models.Feedback
	var err error

	if category != "" {
		entries, err = s.repo.ListByCategory(ctx, category, limit, offset)
	} else {
		entries, err = s.repo.List(ctx, limit, offset)
	}
	if err != nil {
		return nil, err
	}

	return dto.NewFeedbackResponseSlice(entries), nil
}

func (s *feedbackService) Summary(ctx context.Context) (dto.FeedbackSummaryResponse, error) {
	average, count, err := s.repo.AverageRating(ctx)
	if err != nil {
		return dto.FeedbackSummaryResponse{}, err
	}

	byCategory, err := s.repo.CountByCategory(ctx)
	if err != nil {
		return dto.FeedbackSummaryResponse{}, err
	}

	return dto.FeedbackSummaryResponse{
		Count:         count,
		AverageRating: average,
		ByCategory:    byCategory,
	}, nil
}

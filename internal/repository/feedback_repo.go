package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-request-api/internal/models"
)

// FeedbackRepository handles persistence for portal satisfaction surveys.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, limit, offset int) ([]models.Feedback, error)
	ListByCategory(ctx context.Context, category string, limit, offset int) ([]models.Feedback, error)
	AverageRating(ctx context.Context) (float64, int64, error)
	CountByCategory(ctx context.Context) (map[string]int64, error)
}

type feedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository constructs a GORM-backed repository.
func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}

func (r *feedbackRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Feedback{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *feedbackRepository) List(ctx context.Context, limit, offset int) ([]models.Feedback, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var entries []models.Feedback
	if err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *feedbackRepository) ListByCategory(ctx context.Context, category string, limit, offset int) ([]models.Feedback, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var entries []models.Feedback
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("category = ?", category).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *feedbackRepository) AverageRating(ctx context.Context) (float64, int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Feedback{}).Count(&count).Error; err != nil {
		return 0, 0, err
	}
	if count == 0 {
		return 0, 0, nil
	}

	var average float64
	if err := r.db.WithContext(ctx).Model(&models.Feedback{}).
		Select("AVG(rating)").
		Scan(&average).Error; err != nil {
		return 0, 0, err
	}

	return average, count, nil
}

func (r *feedbackRepository) CountByCategory(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Category string
		Total    int64
	}

	var rows []row
	if err := r.db.WithContext(ctx).Model(&models.Feedback{}).
		Select("category, COUNT(*) AS total").
		Group("category").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, entry := range rows {
		counts[entry.Category] = entry.Total
	}
	return counts, nil
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-request-api/internal/models"
)

// CommentRepository handles persistence for request thread messages.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.RequestComment) error
	FindByID(ctx context.Context, id uint) (models.RequestComment, error)
	ListByRequest(ctx context.Context, requestID uint) ([]models.RequestComment, error)
	MarkThreadRead(ctx context.Context, requestID, readerID uint) (int64, error)
	MarkRead(ctx context.Context, id uint) error
	CountUnreadForReader(ctx context.Context, requestID, readerID uint) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository constructs a GORM-backed repository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.RequestComment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}

		return tx.Model(&models.Request{}).
			Where("id = ?", comment.RequestID).
			UpdateColumn("updated_at", comment.CreatedAt).
			Error
	})
}

func (r *commentRepository) FindByID(ctx context.Context, id uint) (models.RequestComment, error) {
	var comment models.RequestComment
	if err := r.db.WithContext(ctx).Preload("Author").First(&comment, id).Error; err != nil {
		return models.RequestComment{}, err
	}
	return comment, nil
}

func (r *commentRepository) ListByRequest(ctx context.Context, requestID uint) ([]models.RequestComment, error) {
	var comments []models.RequestComment
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// MarkThreadRead flags every message not authored by the reader as read.
// Running it twice is a no-op, so concurrent thread opens are safe.
func (r *commentRepository) MarkThreadRead(ctx context.Context, requestID, readerID uint) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.RequestComment{}).
		Where("request_id = ? AND author_id <> ? AND is_read = ?", requestID, readerID, false).
		UpdateColumn("is_read", true)
	return result.RowsAffected, result.Error
}

func (r *commentRepository) MarkRead(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.RequestComment{}).
		Where("id = ?", id).
		UpdateColumn("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *commentRepository) CountUnreadForReader(ctx context.Context, requestID, readerID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.RequestComment{}).
		Where("request_id = ? AND author_id <> ? AND is_read = ?", requestID, readerID, false).
		Count(&count).Error
	return count, err
}

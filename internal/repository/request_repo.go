package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-request-api/internal/models"
)

// RequestRepository handles persistence for student requests.
type RequestRepository interface {
	Create(ctx context.Context, request *models.Request) error
	FindByID(ctx context.Context, id uint) (models.Request, error)
	Update(ctx context.Context, request *models.Request) error
	Delete(ctx context.Context, id uint) error
	ListByStudent(ctx context.Context, studentID uint) ([]models.Request, error)
	ListByLecturer(ctx context.Context, lecturerID uint) ([]models.Request, error)
	ListByDepartment(ctx context.Context, departmentID uint) ([]models.Request, error)
	ListAll(ctx context.Context, limit, offset int) ([]models.Request, error)
	UpdateStatus(ctx context.Context, id uint, status, feedback string) (models.Request, error)
	AssignLecturer(ctx context.Context, id uint, lecturerID uint) (models.Request, error)
}

type requestRepository struct {
	db *gorm.DB
}

// NewRequestRepository constructs a GORM-backed repository.
func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, request *models.Request) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *requestRepository) FindByID(ctx context.Context, id uint) (models.Request, error) {
	var request models.Request
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("AssignedLecturer").
		First(&request, id).Error; err != nil {
		return models.Request{}, err
	}
	return request, nil
}

func (r *requestRepository) Update(ctx context.Context, request *models.Request) error {
	return r.db.WithContext(ctx).Save(request).Error
}

func (r *requestRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Request{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *requestRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Request, error) {
	var requests []models.Request
	if err := r.db.WithContext(ctx).
		Preload("AssignedLecturer").
		Where("student_id = ?", studentID).
		Order("submitted_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *requestRepository) ListByLecturer(ctx context.Context, lecturerID uint) ([]models.Request, error) {
	var requests []models.Request
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Where("assigned_lecturer_id = ?", lecturerID).
		Order("submitted_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *requestRepository) ListByDepartment(ctx context.Context, departmentID uint) ([]models.Request, error) {
	var requests []models.Request
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("AssignedLecturer").
		Joins("JOIN users ON users.id = requests.student_id").
		Where("users.department_id = ?", departmentID).
		Order("requests.submitted_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *requestRepository) ListAll(ctx context.Context, limit, offset int) ([]models.Request, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	var requests []models.Request
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("AssignedLecturer").
		Order("submitted_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *requestRepository) UpdateStatus(ctx context.Context, id uint, status, feedback string) (models.Request, error) {
	var request models.Request
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Student").First(&request, id).Error; err != nil {
			return err
		}

		updates := map[string]any{
			"status":     status,
			"updated_at": time.Now(),
		}
		if feedback != "" {
			updates["feedback"] = feedback
		}

		if err := tx.Model(&models.Request{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		request.Status = status
		if feedback != "" {
			request.Feedback = feedback
		}
		return nil
	})
	if err != nil {
		return models.Request{}, err
	}
	return request, nil
}

func (r *requestRepository) AssignLecturer(ctx context.Context, id uint, lecturerID uint) (models.Request, error) {
	var request models.Request
	if err := r.db.WithContext(ctx).Preload("Student").First(&request, id).Error; err != nil {
		return models.Request{}, err
	}

	request.AssignedLecturerID = &lecturerID
	if err := r.db.WithContext(ctx).Save(&request).Error; err != nil {
		return models.Request{}, err
	}

	return request, nil
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-request-api/internal/models"
)

// AcademicsRepository handles persistence for the department and course catalog.
type AcademicsRepository interface {
	ListDepartments(ctx context.Context) ([]models.Department, error)
	FindDepartment(ctx context.Context, id uint) (models.Department, error)
	CreateDepartment(ctx context.Context, department *models.Department) error
	ListCourses(ctx context.Context, departmentID uint) ([]models.Course, error)
	CreateCourse(ctx context.Context, course *models.Course) error
}

type academicsRepository struct {
	db *gorm.DB
}

// NewAcademicsRepository constructs a GORM-backed repository.
func NewAcademicsRepository(db *gorm.DB) AcademicsRepository {
	return &academicsRepository{db: db}
}

func (r *academicsRepository) ListDepartments(ctx context.Context) ([]models.Department, error) {
	var departments []models.Department
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}

func (r *academicsRepository) FindDepartment(ctx context.Context, id uint) (models.Department, error) {
	var department models.Department
	if err := r.db.WithContext(ctx).First(&department, id).Error; err != nil {
		return models.Department{}, err
	}
	return department, nil
}

func (r *academicsRepository) CreateDepartment(ctx context.Context, department *models.Department) error {
	return r.db.WithContext(ctx).Create(department).Error
}

func (r *academicsRepository) ListCourses(ctx context.Context, departmentID uint) ([]models.Course, error) {
	query := r.db.WithContext(ctx).Order("code ASC")
	if departmentID > 0 {
		query = query.Where("department_id = ?", departmentID)
	}

	var courses []models.Course
	if err := query.Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *academicsRepository) CreateCourse(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

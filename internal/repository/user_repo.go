package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-request-api/internal/models"
)

// UserRepository handles persistence for portal accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByResetToken(ctx context.Context, token string) (models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	ListByRole(ctx context.Context, role string, limit, offset int) ([]models.User, error)
	ListByDepartment(ctx context.Context, departmentID uint, limit, offset int) ([]models.User, error)
	ListAdminsByDepartment(ctx context.Context, departmentID uint) ([]models.User, error)
	ListPendingLecturers(ctx context.Context, limit, offset int) ([]models.User, error)
	Approve(ctx context.Context, id uint) (models.User, error)
	AssignCourses(ctx context.Context, lecturerID uint, courseIDs []uint) (models.User, error)
	SetResetToken(ctx context.Context, id uint, token string, createdAt time.Time) error
	ClearResetToken(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository constructs a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Department").First(&user, id).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Preload("Department").
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *userRepository) FindByResetToken(ctx context.Context, token string) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("reset_token = ?", token).
		First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) ListByDepartment(ctx context.Context, departmentID uint, limit, offset int) ([]models.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var users []models.User
	if err := r.db.WithContext(ctx).
		Preload("Department").
		Where("department_id = ?", departmentID).
		Order("last_name ASC, first_name ASC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepository) ListByRole(ctx context.Context, role string, limit, offset int) ([]models.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var users []models.User
	if err := r.db.WithContext(ctx).
		Preload("Department").
		Where("role = ?", role).
		Order("last_name ASC, first_name ASC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepository) ListAdminsByDepartment(ctx context.Context, departmentID uint) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Where("role = ? AND department_id = ?", models.RoleAdmin, departmentID).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) ListPendingLecturers(ctx context.Context, limit, offset int) ([]models.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var users []models.User
	if err := r.db.WithContext(ctx).
		Where("role = ? AND is_approved = ?", models.RoleLecturer, false).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepository) Approve(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return models.User{}, err
	}

	if user.IsApproved {
		return user, nil
	}

	user.IsApproved = true
	if err := r.db.WithContext(ctx).Save(&user).Error; err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (r *userRepository) AssignCourses(ctx context.Context, lecturerID uint, courseIDs []uint) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, lecturerID).Error; err != nil {
		return models.User{}, err
	}

	var courses []models.Course
	if len(courseIDs) > 0 {
		if err := r.db.WithContext(ctx).Find(&courses, courseIDs).Error; err != nil {
			return models.User{}, err
		}
		if len(courses) != len(courseIDs) {
			return models.User{}, gorm.ErrRecordNotFound
		}
	}

	if err := r.db.WithContext(ctx).Model(&user).Association("Courses").Replace(&courses); err != nil {
		return models.User{}, err
	}

	user.Courses = courses
	return user, nil
}

func (r *userRepository) SetResetToken(ctx context.Context, id uint, token string, createdAt time.Time) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"reset_token":            token,
			"reset_token_created_at": createdAt,
		}).Error
}

func (r *userRepository) ClearResetToken(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"reset_token":            "",
			"reset_token_created_at": nil,
		}).Error
}

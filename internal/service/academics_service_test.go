package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-request-api/internal/dto"
	"github.com/noah-isme/campus-request-api/internal/models"
)

type stubAcademicsRepo struct {
	departments []models.Department
	courses     []models.Course
	listCalls   int
}

func (s *stubAcademicsRepo) ListDepartments(ctx context.Context) ([]models.Department, error) {
	s.listCalls++
	return s.departments, nil
}

func (s *stubAcademicsRepo) FindDepartment(ctx context.Context, id uint) (models.Department, error) {
	for _, department := range s.departments {
		if department.ID == id {
			return department, nil
		}
	}
	return models.Department{}, gorm.ErrRecordNotFound
}

func (s *stubAcademicsRepo) CreateDepartment(ctx context.Context, department *models.Department) error {
	department.ID = uint(len(s.departments) + 1)
	s.departments = append(s.departments, *department)
	return nil
}

func (s *stubAcademicsRepo) ListCourses(ctx context.Context, departmentID uint) ([]models.Course, error) {
	s.listCalls++
	var out []models.Course
	for _, course := range s.courses {
		if departmentID == 0 || course.DepartmentID == departmentID {
			out = append(out, course)
		}
	}
	return out, nil
}

func (s *stubAcademicsRepo) CreateCourse(ctx context.Context, course *models.Course) error {
	course.ID = uint(len(s.courses) + 1)
	s.courses = append(s.courses, *course)
	return nil
}

func TestAcademicsServiceCachesDepartmentListings(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := &stubAcademicsRepo{departments: []models.Department{{ID: 1, Name: "מדעי המחשב"}}}
	svc := NewAcademicsService(repo, client, time.Minute, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	first, err := svc.ListDepartments(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.Equal(t, 1, repo.listCalls)

	second, err := svc.ListDepartments(context.Background())
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, repo.listCalls, "second listing should come from cache")
}

func TestAcademicsServiceInvalidatesCacheOnWrite(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := &stubAcademicsRepo{}
	svc := NewAcademicsService(repo, client, time.Minute, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	_, err := svc.ListDepartments(context.Background())
	require.NoError(t, err)

	created, err := svc.CreateDepartment(context.Background(), dto.CreateDepartmentRequest{Name: "הנדסת תוכנה"})
	require.NoError(t, err)
	require.Equal(t, "הנדסת תוכנה", created.Name)

	departments, err := svc.ListDepartments(context.Background())
	require.NoError(t, err)
	require.Len(t, departments, 1)
	require.Equal(t, 2, repo.listCalls, "write should have invalidated the cached listing")
}

func TestAcademicsServiceCourseRequiresKnownDepartment(t *testing.T) {
	repo := &stubAcademicsRepo{departments: []models.Department{{ID: 1, Name: "מדעי המחשב"}}}
	svc := NewAcademicsService(repo, nil, time.Minute, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	_, err := svc.CreateCourse(context.Background(), dto.CreateCourseRequest{DepartmentID: 99, Code: "cs101", Name: "מבוא"})
	require.Error(t, err)

	course, err := svc.CreateCourse(context.Background(), dto.CreateCourseRequest{DepartmentID: 1, Code: "cs101", Name: "מבוא למדעי המחשב"})
	require.NoError(t, err)
	require.Equal(t, "CS101", course.Code)
}

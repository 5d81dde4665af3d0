package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-request-api/internal/models"
)

func TestUserRepositoryDeleteIsScopedAndFinal(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user := models.User{FirstName: "רועי", LastName: "כהן", Email: "roy@test.com", Role: models.RoleStudent, IDNumber: "85456521"}
	require.NoError(t, db.Create(&user).Error)

	require.NoError(t, repo.Delete(context.Background(), user.ID))

	_, err := repo.FindByID(context.Background(), user.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.Delete(context.Background(), user.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound, "second delete finds nothing")
}

func TestUserRepositoryListByDepartment(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	cs := models.Department{Name: "מדעי המחשב"}
	math := models.Department{Name: "מתמטיקה"}
	require.NoError(t, db.Create(&cs).Error)
	require.NoError(t, db.Create(&math).Error)

	member := models.User{FirstName: "דנה", LastName: "לוי", Email: "dana@test.com", Role: models.RoleStudent, DepartmentID: &cs.ID, IDNumber: "111111111"}
	other := models.User{FirstName: "יעל", LastName: "ברק", Email: "yael@test.com", Role: models.RoleLecturer, DepartmentID: &math.ID, IDNumber: "222222222"}
	require.NoError(t, db.Create(&member).Error)
	require.NoError(t, db.Create(&other).Error)

	users, err := repo.ListByDepartment(context.Background(), cs.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, member.ID, users[0].ID)
	require.NotNil(t, users[0].Department)
	require.Equal(t, "מדעי המחשב", users[0].Department.Name)
}

func TestUserRepositoryAssignCoursesReplacesSet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	dept := models.Department{Name: "מדעי המחשב"}
	require.NoError(t, db.Create(&dept).Error)

	intro := models.Course{DepartmentID: dept.ID, Code: "CS101", Name: "מבוא למדעי המחשב"}
	logic := models.Course{DepartmentID: dept.ID, Code: "CS102", Name: "לוגיקה"}
	require.NoError(t, db.Create(&intro).Error)
	require.NoError(t, db.Create(&logic).Error)

	lecturer := models.User{FirstName: "יעל", LastName: "ברק", Email: "yael@test.com", Role: models.RoleLecturer, IDNumber: "333333333", IsApproved: true}
	require.NoError(t, db.Create(&lecturer).Error)

	updated, err := repo.AssignCourses(context.Background(), lecturer.ID, []uint{intro.ID})
	require.NoError(t, err)
	require.Len(t, updated.Courses, 1)
	require.Equal(t, "CS101", updated.Courses[0].Code)

	updated, err = repo.AssignCourses(context.Background(), lecturer.ID, []uint{logic.ID})
	require.NoError(t, err)
	require.Len(t, updated.Courses, 1)
	require.Equal(t, "CS102", updated.Courses[0].Code, "assignment replaces the previous set")

	_, err = repo.AssignCourses(context.Background(), lecturer.ID, []uint{999})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound, "unknown course ids are rejected")
}

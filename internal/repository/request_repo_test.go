package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-request-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Department{},
		&models.Course{},
		&models.User{},
		&models.Request{},
		&models.RequestComment{},
		&models.Notification{},
		&models.Feedback{},
	))
	return db
}

func TestRequestRepositoryScopedListings(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRequestRepository(db)

	dept := models.Department{Name: "מדעי המחשב"}
	require.NoError(t, db.Create(&dept).Error)

	student := models.User{FirstName: "רועי", LastName: "כהן", Email: "roy@test.com", Role: models.RoleStudent, DepartmentID: &dept.ID, IDNumber: "111111111"}
	outsider := models.User{FirstName: "דנה", LastName: "לוי", Email: "dana@test.com", Role: models.RoleStudent, IDNumber: "222222222"}
	lecturer := models.User{FirstName: "יעל", LastName: "ברק", Email: "yael@test.com", Role: models.RoleLecturer, IDNumber: "333333333"}
	require.NoError(t, db.Create(&student).Error)
	require.NoError(t, db.Create(&outsider).Error)
	require.NoError(t, db.Create(&lecturer).Error)

	mine := models.Request{StudentID: student.ID, RequestType: models.RequestTypeAppeal, Subject: "ערעור על ציון", Status: "pending", AssignedLecturerID: &lecturer.ID}
	other := models.Request{StudentID: outsider.ID, RequestType: models.RequestTypeOther, Subject: "בקשה אחרת", Status: "pending"}
	require.NoError(t, db.Create(&mine).Error)
	require.NoError(t, db.Create(&other).Error)

	byStudent, err := repo.ListByStudent(context.Background(), student.ID)
	require.NoError(t, err)
	require.Len(t, byStudent, 1)
	require.Equal(t, mine.ID, byStudent[0].ID)

	byLecturer, err := repo.ListByLecturer(context.Background(), lecturer.ID)
	require.NoError(t, err)
	require.Len(t, byLecturer, 1)
	require.Equal(t, mine.ID, byLecturer[0].ID)

	byDepartment, err := repo.ListByDepartment(context.Background(), dept.ID)
	require.NoError(t, err)
	require.Len(t, byDepartment, 1)
	require.Equal(t, mine.ID, byDepartment[0].ID)
}

func TestRequestRepositoryUpdateStatusKeepsFeedback(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRequestRepository(db)

	student := models.User{FirstName: "רועי", LastName: "כהן", Email: "roy@test.com", Role: models.RoleStudent, IDNumber: "111111111"}
	require.NoError(t, db.Create(&student).Error)

	request := models.Request{StudentID: student.ID, RequestType: models.RequestTypeExemption, Subject: "פטור מקורס", Status: "pending", Feedback: "הערה ראשונית"}
	require.NoError(t, db.Create(&request).Error)

	updated, err := repo.UpdateStatus(context.Background(), request.ID, "approved", "אושר, תודה")
	require.NoError(t, err)
	require.Equal(t, "approved", updated.Status)
	require.Equal(t, "אושר, תודה", updated.Feedback)

	// An empty feedback must not wipe the stored one.
	updated, err = repo.UpdateStatus(context.Background(), request.ID, "rejected", "")
	require.NoError(t, err)
	require.Equal(t, "rejected", updated.Status)
	require.Equal(t, "אושר, תודה", updated.Feedback)
}

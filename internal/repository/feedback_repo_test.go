package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-request-api/internal/models"
)

func TestFeedbackRepositoryDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFeedbackRepository(db)

	user := models.User{FirstName: "רועי", LastName: "כהן", Email: "roy@test.com", Role: models.RoleStudent, IDNumber: "85456521"}
	require.NoError(t, db.Create(&user).Error)

	entry := models.Feedback{UserID: user.ID, Rating: 4, Category: "website", Comment: "אתר נוח"}
	require.NoError(t, repo.Create(context.Background(), &entry))

	require.NoError(t, repo.Delete(context.Background(), entry.ID))

	remaining, err := repo.List(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Empty(t, remaining)

	err = repo.Delete(context.Background(), entry.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound, "deleting a removed entry reports not found")
}

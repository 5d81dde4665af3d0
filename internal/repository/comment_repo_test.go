package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-request-api/internal/models"
)

func TestCommentRepositoryMarkThreadReadSkipsOwnMessages(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)

	student := models.User{FirstName: "רועי", LastName: "כהן", Email: "roy@test.com", Role: models.RoleStudent, IDNumber: "111111111"}
	lecturer := models.User{FirstName: "יעל", LastName: "ברק", Email: "yael@test.com", Role: models.RoleLecturer, IDNumber: "222222222"}
	require.NoError(t, db.Create(&student).Error)
	require.NoError(t, db.Create(&lecturer).Error)

	request := models.Request{StudentID: student.ID, RequestType: models.RequestTypeAppeal, Subject: "ערעור", Status: "in_progress"}
	require.NoError(t, db.Create(&request).Error)

	fromLecturer := models.RequestComment{RequestID: request.ID, AuthorID: lecturer.ID, Content: "נא לצרף מסמך"}
	fromStudent := models.RequestComment{RequestID: request.ID, AuthorID: student.ID, Content: "צירפתי"}
	require.NoError(t, repo.Create(context.Background(), &fromLecturer))
	require.NoError(t, repo.Create(context.Background(), &fromStudent))

	affected, err := repo.MarkThreadRead(context.Background(), request.ID, student.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), affected)

	comments, err := repo.ListByRequest(context.Background(), request.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	require.True(t, comments[0].IsRead, "lecturer message should be read")
	require.False(t, comments[1].IsRead, "reader's own message stays untouched")
}

func TestCommentRepositoryMarkThreadReadIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)

	student := models.User{FirstName: "רועי", LastName: "כהן", Email: "roy@test.com", Role: models.RoleStudent, IDNumber: "111111111"}
	lecturer := models.User{FirstName: "יעל", LastName: "ברק", Email: "yael@test.com", Role: models.RoleLecturer, IDNumber: "222222222"}
	require.NoError(t, db.Create(&student).Error)
	require.NoError(t, db.Create(&lecturer).Error)

	request := models.Request{StudentID: student.ID, RequestType: models.RequestTypeAppeal, Subject: "ערעור", Status: "in_progress"}
	require.NoError(t, db.Create(&request).Error)

	comment := models.RequestComment{RequestID: request.ID, AuthorID: lecturer.ID, Content: "עדכון"}
	require.NoError(t, repo.Create(context.Background(), &comment))

	first, err := repo.MarkThreadRead(context.Background(), request.ID, student.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), first)

	second, err := repo.MarkThreadRead(context.Background(), request.ID, student.ID)
	require.NoError(t, err)
	require.Zero(t, second)

	unread, err := repo.CountUnreadForReader(context.Background(), request.ID, student.ID)
	require.NoError(t, err)
	require.Zero(t, unread)
}

func TestCommentRepositoryListOrdersChronologically(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)

	student := models.User{FirstName: "רועי", LastName: "כהן", Email: "roy@test.com", Role: models.RoleStudent, IDNumber: "111111111"}
	require.NoError(t, db.Create(&student).Error)

	request := models.Request{StudentID: student.ID, RequestType: models.RequestTypeOther, Subject: "שאלה", Status: "pending"}
	require.NoError(t, db.Create(&request).Error)

	for _, content := range []string{"ראשון", "שני", "שלישי"} {
		comment := models.RequestComment{RequestID: request.ID, AuthorID: student.ID, Content: content}
		require.NoError(t, repo.Create(context.Background(), &comment))
	}

	comments, err := repo.ListByRequest(context.Background(), request.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	require.Equal(t, "ראשון", comments[0].Content)
	require.Equal(t, "שלישי", comments[2].Content)
}

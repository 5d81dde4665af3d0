package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-request-api/internal/dto"
	"github.com/noah-isme/campus-request-api/internal/models"
)

func newTestThreadService(requests *stubRequestRepo, comments *stubCommentRepo, users *stubUserRepo, notifier *stubNotifier) ThreadService {
	return NewThreadService(requests, comments, users, notifier, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())
}

func TestThreadServiceOpenThreadMarksIncomingRead(t *testing.T) {
	student := models.User{ID: 1, Role: models.RoleStudent}
	lecturerID := uint(2)
	requests := newStubRequestRepo(models.Request{ID: 10, StudentID: 1, Subject: "ערעור", Status: "in_progress", AssignedLecturerID: &lecturerID})

	comments := &stubCommentRepo{markCalls: make(chan struct{}, 1)}
	require.NoError(t, comments.Create(context.Background(), &models.RequestComment{RequestID: 10, AuthorID: 2, Content: "נא לצרף מסמך"}))
	require.NoError(t, comments.Create(context.Background(), &models.RequestComment{RequestID: 10, AuthorID: 1, Content: "צירפתי"}))

	svc := newTestThreadService(requests, comments, newStubUserRepo(student), &stubNotifier{})

	thread, err := svc.OpenThread(context.Background(), 10, 1)
	require.NoError(t, err)
	require.Len(t, thread.Comments, 2)

	select {
	case <-comments.markCalls:
	case <-time.After(time.Second):
		t.Fatal("expected background read-marking to run")
	}

	unread, err := comments.CountUnreadForReader(context.Background(), 10, 1)
	require.NoError(t, err)
	require.Zero(t, unread)
}

func TestThreadServiceOpenThreadSurvivesReadMarkerFailure(t *testing.T) {
	student := models.User{ID: 1, Role: models.RoleStudent}
	requests := newStubRequestRepo(models.Request{ID: 10, StudentID: 1, Subject: "ערעור", Status: "pending"})

	comments := &stubCommentRepo{
		markCalls:   make(chan struct{}, 1),
		markReadErr: errors.New("storage offline"),
	}
	require.NoError(t, comments.Create(context.Background(), &models.RequestComment{RequestID: 10, AuthorID: 2, Content: "עדכון"}))

	svc := newTestThreadService(requests, comments, newStubUserRepo(student), &stubNotifier{})

	// A broken read marker must not block the thread from rendering.
	thread, err := svc.OpenThread(context.Background(), 10, 1)
	require.NoError(t, err)
	require.Len(t, thread.Comments, 1)

	select {
	case <-comments.markCalls:
	case <-time.After(time.Second):
		t.Fatal("expected background read-marking attempt")
	}

	unread, err := comments.CountUnreadForReader(context.Background(), 10, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), unread, "failed marking leaves messages unread for the next open")
}

func TestThreadServiceAddCommentFansOutToStaff(t *testing.T) {
	deptID := uint(7)
	lecturerID := uint(2)
	student := models.User{ID: 1, FirstName: "רועי", LastName: "כהן", Role: models.RoleStudent, DepartmentID: &deptID}
	lecturer := models.User{ID: 2, Role: models.RoleLecturer}
	admin := models.User{ID: 3, Role: models.RoleAdmin, DepartmentID: &deptID}

	requests := newStubRequestRepo(models.Request{
		ID: 10, StudentID: 1, Subject: "ערעור", Status: "in_progress",
		AssignedLecturerID: &lecturerID, Student: &student,
	})
	notifier := &stubNotifier{}
	svc := newTestThreadService(requests, &stubCommentRepo{}, newStubUserRepo(student, lecturer, admin), notifier)

	comment, err := svc.AddComment(context.Background(), 10, 1, dto.CreateCommentRequest{
		Content: "<script>x</script>יש חדש?",
	})
	require.NoError(t, err)
	require.Equal(t, "יש חדש?", comment.Content)

	require.Len(t, notifier.calls, 2)
	recipients := []uint{notifier.calls[0].userID, notifier.calls[1].userID}
	require.ElementsMatch(t, []uint{2, 3}, recipients)
	for _, call := range notifier.calls {
		require.Equal(t, "request_comment", call.kind)
	}
}

func TestThreadServiceAddCommentByLecturerNotifiesStudentOnly(t *testing.T) {
	lecturerID := uint(2)
	student := models.User{ID: 1, Role: models.RoleStudent}
	lecturer := models.User{ID: 2, FirstName: "יעל", LastName: "ברק", Role: models.RoleLecturer}

	requests := newStubRequestRepo(models.Request{
		ID: 10, StudentID: 1, Subject: "ערעור", Status: "in_progress", AssignedLecturerID: &lecturerID,
	})
	notifier := &stubNotifier{}
	svc := newTestThreadService(requests, &stubCommentRepo{}, newStubUserRepo(student, lecturer), notifier)

	_, err := svc.AddComment(context.Background(), 10, 2, dto.CreateCommentRequest{Content: "נא לצרף אישור"})
	require.NoError(t, err)

	require.Len(t, notifier.calls, 1)
	require.Equal(t, uint(1), notifier.calls[0].userID)
}

func TestThreadServiceRejectsOutsiders(t *testing.T) {
	outsider := models.User{ID: 9, Role: models.RoleStudent}
	requests := newStubRequestRepo(models.Request{ID: 10, StudentID: 1, Subject: "ערעור", Status: "pending"})
	svc := newTestThreadService(requests, &stubCommentRepo{}, newStubUserRepo(outsider), &stubNotifier{})

	_, err := svc.OpenThread(context.Background(), 10, 9)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.AddComment(context.Background(), 10, 9, dto.CreateCommentRequest{Content: "שלום"})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestThreadServiceMarkCommentReadValidatesOwnership(t *testing.T) {
	student := models.User{ID: 1, Role: models.RoleStudent}
	requests := newStubRequestRepo(models.Request{ID: 10, StudentID: 1, Subject: "ערעור", Status: "pending"})
	comments := &stubCommentRepo{}
	require.NoError(t, comments.Create(context.Background(), &models.RequestComment{RequestID: 10, AuthorID: 2, Content: "עדכון"}))
	require.NoError(t, comments.Create(context.Background(), &models.RequestComment{RequestID: 10, AuthorID: 1, Content: "תודה"}))

	svc := newTestThreadService(requests, comments, newStubUserRepo(student), &stubNotifier{})

	// Own message cannot be flagged.
	err := svc.MarkCommentRead(context.Background(), 10, 2, 1)
	require.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, svc.MarkCommentRead(context.Background(), 10, 1, 1))
	marked, err := comments.FindByID(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, marked.IsRead)
}

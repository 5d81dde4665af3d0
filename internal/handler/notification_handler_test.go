package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-request-api/internal/dto"
	"github.com/noah-isme/campus-request-api/internal/handler"
)

type mockNotificationService struct {
	notifications []dto.NotificationResponse
	unreadCount   int64
	markedAll     int
	affected      int64
	err           error
}

func (m *mockNotificationService) Notify(_ context.Context, userID uint, notifType, message string) (dto.NotificationResponse, error) {
	return dto.NotificationResponse{UserID: userID, Type: notifType, Message: message}, m.err
}

func (m *mockNotificationService) List(_ context.Context, _ uint, _, _ int) ([]dto.NotificationResponse, error) {
	return m.notifications, m.err
}

func (m *mockNotificationService) ListUnread(_ context.Context, _ uint) ([]dto.NotificationResponse, error) {
	return m.notifications, m.err
}

func (m *mockNotificationService) CountUnread(_ context.Context, _ uint) (int64, error) {
	return m.unreadCount, m.err
}

func (m *mockNotificationService) MarkRead(_ context.Context, id, userID uint) (dto.NotificationResponse, error) {
	if m.err != nil {
		return dto.NotificationResponse{}, m.err
	}
	return dto.NotificationResponse{ID: id, UserID: userID, Read: true}, nil
}

func (m *mockNotificationService) MarkAllRead(_ context.Context, _ uint) (int64, error) {
	m.markedAll++
	affected := m.affected
	m.affected = 0
	return affected, m.err
}

func (m *mockNotificationService) Subscribe(_ uint) (<-chan dto.NotificationResponse, func()) {
	events := make(chan dto.NotificationResponse)
	close(events)
	return events, func() {}
}

func (m *mockNotificationService) Start(_ context.Context) {}

func newNotificationApp(svc *mockNotificationService) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/notifications", authAs(4, "student"))
	handler.NewNotificationHandler(svc, 45*time.Second, zerolog.New(io.Discard)).Register(group)
	return app
}

func TestNotificationHandler_SettingsAdvertisePollInterval(t *testing.T) {
	app := newNotificationApp(&mockNotificationService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/settings", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data dto.NotificationSettingsResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Equal(t, 45, response.Data.PollSeconds)
	require.Equal(t, "/api/v1/notifications/stream", response.Data.StreamPath)
}

func TestNotificationHandler_UnreadCount(t *testing.T) {
	svc := &mockNotificationService{unreadCount: 3}
	app := newNotificationApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/unread/count", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data dto.UnreadCountResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.EqualValues(t, 3, response.Data.Unread)
}

func TestNotificationHandler_MarkAllReadTwice(t *testing.T) {
	svc := &mockNotificationService{affected: 3}
	app := newNotificationApp(svc)

	first := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/read-all", nil)
	resp, err := app.Test(first)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var firstResponse struct {
		Data struct {
			Updated int64 `json:"updated"`
		} `json:"data"`
	}
	decodeResponse(t, resp, &firstResponse)
	require.EqualValues(t, 3, firstResponse.Data.Updated)

	second := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/read-all", nil)
	resp, err = app.Test(second)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var secondResponse struct {
		Data struct {
			Updated int64 `json:"updated"`
		} `json:"data"`
	}
	decodeResponse(t, resp, &secondResponse)
	require.Zero(t, secondResponse.Data.Updated, "repeat call touches nothing")
	require.Equal(t, 2, svc.markedAll)
}

func TestNotificationHandler_MarkReadScopedToOwner(t *testing.T) {
	svc := &mockNotificationService{}
	app := newNotificationApp(svc)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/notifications/8/read", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data dto.NotificationResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.True(t, response.Data.Read)
	require.EqualValues(t, 4, response.Data.UserID)
}

func TestNotificationHandler_ListUnread(t *testing.T) {
	svc := &mockNotificationService{notifications: []dto.NotificationResponse{
		{ID: 1, UserID: 4, Message: "הבקשה שלך עודכנה"},
	}}
	app := newNotificationApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/unread", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data []dto.NotificationResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Len(t, response.Data, 1)
	require.Contains(t, response.Data[0].Message, "עודכנה")
}

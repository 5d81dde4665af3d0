package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-request-api/internal/dto"
	"github.com/noah-isme/campus-request-api/internal/handler"
	"github.com/noah-isme/campus-request-api/internal/service"
)

type mockRequestService struct {
	lastStatus dto.StatusUpdateRequest
	response   dto.RequestResponse
	overview   dto.RequestOverviewResponse
	err        error
}

func (m *mockRequestService) Create(_ context.Context, _ uint, _ dto.CreateRequestRequest) (dto.RequestResponse, error) {
	return m.response, m.err
}

func (m *mockRequestService) Get(_ context.Context, _, _ uint) (dto.RequestResponse, error) {
	return m.response, m.err
}

func (m *mockRequestService) ListForViewer(_ context.Context, _ uint) ([]dto.RequestResponse, error) {
	return []dto.RequestResponse{m.response}, m.err
}

func (m *mockRequestService) Overview(_ context.Context, _ uint) (dto.RequestOverviewResponse, error) {
	return m.overview, m.err
}

func (m *mockRequestService) Update(_ context.Context, _, _ uint, _ dto.UpdateRequestRequest) (dto.RequestResponse, error) {
	return m.response, m.err
}

func (m *mockRequestService) Delete(_ context.Context, _, _ uint) error {
	return m.err
}

func (m *mockRequestService) UpdateStatus(_ context.Context, _, _ uint, payload dto.StatusUpdateRequest) (dto.RequestResponse, error) {
	m.lastStatus = payload
	if m.err != nil {
		return dto.RequestResponse{}, m.err
	}
	return m.response, nil
}

func (m *mockRequestService) AssignLecturer(_ context.Context, _, _ uint, _ dto.AssignLecturerRequest) (dto.RequestResponse, error) {
	return m.response, m.err
}

type mockThreadService struct {
	thread  dto.ThreadResponse
	comment dto.CommentResponse
	err     error
}

func (m *mockThreadService) OpenThread(_ context.Context, _, _ uint) (dto.ThreadResponse, error) {
	return m.thread, m.err
}

func (m *mockThreadService) AddComment(_ context.Context, _, _ uint, _ dto.CreateCommentRequest) (dto.CommentResponse, error) {
	return m.comment, m.err
}

func (m *mockThreadService) MarkCommentRead(_ context.Context, _, _, _ uint) error {
	return m.err
}

func newRequestApp(requests *mockRequestService, threads *mockThreadService, userID uint, role string) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/requests", authAs(userID, role))
	handler.NewRequestHandler(requests, threads, zerolog.New(io.Discard)).Register(group)
	return app
}

func TestRequestHandler_StatusUpdateByLecturer(t *testing.T) {
	requests := &mockRequestService{response: dto.RequestResponse{
		ID:            12,
		Status:        "approved",
		StatusDisplay: "אושר",
		Feedback:      "אושר, תודה",
	}}
	app := newRequestApp(requests, &mockThreadService{}, 2, "lecturer")

	body, err := json.Marshal(dto.StatusUpdateRequest{Status: "אושר", Feedback: "אושר, תודה"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/requests/12/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data dto.RequestResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)

	require.Equal(t, "אושר", response.Data.StatusDisplay)
	require.Equal(t, "אושר, תודה", requests.lastStatus.Feedback)
}

func TestRequestHandler_StatusUpdateBlockedForStudents(t *testing.T) {
	requests := &mockRequestService{}
	app := newRequestApp(requests, &mockThreadService{}, 1, "student")

	body, err := json.Marshal(dto.StatusUpdateRequest{Status: "approved"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/requests/12/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	require.Empty(t, requests.lastStatus.Status, "service must not be reached")
}

func TestRequestHandler_StatusTransitionRefused(t *testing.T) {
	requests := &mockRequestService{err: service.ErrTransitionNotAllowed}
	app := newRequestApp(requests, &mockThreadService{}, 3, "admin")

	body, err := json.Marshal(dto.StatusUpdateRequest{Status: "approved"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/requests/12/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestRequestHandler_Overview(t *testing.T) {
	requests := &mockRequestService{overview: dto.RequestOverviewResponse{
		Groups: dto.RequestGroupsResponse{
			Open:   []dto.RequestResponse{{ID: 1, Status: "pending"}},
			Closed: []dto.RequestResponse{{ID: 2, Status: "approved"}},
		},
		Stats: dto.RequestStatsResponse{Total: 2, Pending: 1, Approved: 1},
	}}
	app := newRequestApp(requests, &mockThreadService{}, 1, "student")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/requests/overview", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data dto.RequestOverviewResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)

	require.Len(t, response.Data.Groups.Open, 1)
	require.Len(t, response.Data.Groups.Closed, 1)
	require.Equal(t, 2, response.Data.Stats.Total)
}

func TestRequestHandler_OpenThread(t *testing.T) {
	threads := &mockThreadService{thread: dto.ThreadResponse{
		Request:  dto.RequestResponse{ID: 5, Subject: "ערעור על ציון"},
		Comments: []dto.CommentResponse{{ID: 1, RequestID: 5, Content: "שלום"}},
	}}
	app := newRequestApp(&mockRequestService{}, threads, 1, "student")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/requests/5/thread", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data dto.ThreadResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Len(t, response.Data.Comments, 1)
}

func TestRequestHandler_ForbiddenThreadAccess(t *testing.T) {
	threads := &mockThreadService{err: service.ErrForbidden}
	app := newRequestApp(&mockRequestService{}, threads, 9, "student")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/requests/5/thread", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

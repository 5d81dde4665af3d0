package service

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-request-api/internal/dto"
	"github.com/noah-isme/campus-request-api/internal/models"
	"github.com/noah-isme/campus-request-api/pkg/ai"
)

type stubAssistantModel struct {
	reply string
	err   error
	calls int
}

func (s *stubAssistantModel) Reply(ctx context.Context, history []ai.Message, message string) (string, error) {
	s.calls++
	return s.reply, s.err
}

func TestAssistantServiceAnswersKnownIntentsWithoutModel(t *testing.T) {
	model := &stubAssistantModel{reply: "model answer"}
	svc := NewAssistantService(model, newStubRequestRepo(), validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	resp, err := svc.Answer(context.Background(), 1, dto.AssistantMessageRequest{Message: "איך מגישים ערעור על ציון?"})
	require.NoError(t, err)
	require.Equal(t, "intent", resp.Source)
	require.Contains(t, resp.Reply, "ערעור")
	require.Zero(t, model.calls, "canned intents must not hit the model")
}

func TestAssistantServiceStatusQuestionListsOwnRequests(t *testing.T) {
	repo := newStubRequestRepo(
		models.Request{ID: 1, StudentID: 1, RequestType: "appeal", Subject: "ערעור על ציון במבוא", Status: "approved"},
		models.Request{ID: 2, StudentID: 1, RequestType: "military", Subject: "מילואים בתקופת המבחנים", Status: "pending"},
		models.Request{ID: 3, StudentID: 9, RequestType: "other", Subject: "בקשה של מישהו אחר", Status: "pending"},
	)
	model := &stubAssistantModel{reply: "model answer"}
	svc := NewAssistantService(model, repo, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	resp, err := svc.Answer(context.Background(), 1, dto.AssistantMessageRequest{Message: "מה הסטטוס של הבקשות שלי?"})
	require.NoError(t, err)
	require.Equal(t, "status", resp.Source)
	require.Contains(t, resp.Reply, "ערעור על ציון במבוא")
	require.Contains(t, resp.Reply, "אושר")
	require.Contains(t, resp.Reply, "ממתין")
	require.NotContains(t, resp.Reply, "בקשה של מישהו אחר")
	require.Zero(t, model.calls)
}

func TestAssistantServiceStatusQuestionWithoutRequests(t *testing.T) {
	svc := NewAssistantService(nil, newStubRequestRepo(), validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	resp, err := svc.Answer(context.Background(), 1, dto.AssistantMessageRequest{Message: "מה קורה עם הבקשה?"})
	require.NoError(t, err)
	require.Equal(t, "status", resp.Source)
	require.Contains(t, resp.Reply, "אין לך בקשות")
}

func TestAssistantServiceFallsBackToModel(t *testing.T) {
	model := &stubAssistantModel{reply: "תשובה מהמודל"}
	svc := NewAssistantService(model, newStubRequestRepo(), validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	resp, err := svc.Answer(context.Background(), 1, dto.AssistantMessageRequest{Message: "האם יש חניה בקמפוס?"})
	require.NoError(t, err)
	require.Equal(t, "model", resp.Source)
	require.Equal(t, "תשובה מהמודל", resp.Reply)
	require.Equal(t, 1, model.calls)
}

func TestAssistantServiceFallbackWhenModelFails(t *testing.T) {
	model := &stubAssistantModel{err: errors.New("quota exceeded")}
	svc := NewAssistantService(model, newStubRequestRepo(), validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	resp, err := svc.Answer(context.Background(), 1, dto.AssistantMessageRequest{Message: "שאלה כללית לגמרי"})
	require.NoError(t, err)
	require.Equal(t, "fallback", resp.Source)
	require.NotEmpty(t, resp.Reply)
}

func TestAssistantServiceWorksWithoutModel(t *testing.T) {
	svc := NewAssistantService(nil, newStubRequestRepo(), validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	resp, err := svc.Answer(context.Background(), 1, dto.AssistantMessageRequest{Message: "שאלה כללית לגמרי"})
	require.NoError(t, err)
	require.Equal(t, "fallback", resp.Source)
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/campus-request-api/internal/dto"
	"github.com/noah-isme/campus-request-api/internal/lifecycle"
	"github.com/noah-isme/campus-request-api/internal/models"
	"github.com/noah-isme/campus-request-api/internal/repository"
	"github.com/noah-isme/campus-request-api/pkg/ai"
)

// AssistantService answers portal questions: status questions from the
// caller's own request list, common ones from a fixed Hebrew intent table,
// the rest through the configured AI model.
type AssistantService interface {
	Answer(ctx context.Context, userID uint, payload dto.AssistantMessageRequest) (dto.AssistantMessageResponse, error)
}

type assistantService struct {
	model     ai.Assistant
	requests  repository.RequestRepository
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewAssistantService constructs an assistant service. The AI model is
// optional; without one, unmatched questions get the fallback answer.
func NewAssistantService(model ai.Assistant, requests repository.RequestRepository, validate *validator.Validate, logger zerolog.Logger) AssistantService {
	return &assistantService{
		model:     model,
		requests:  requests,
		validator: validate,
		logger:    logger.With().Str("component", "assistant_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/campus-request-api/internal/service/assistant"),
	}
}

type intent struct {
	keywords []string
	reply    string
}

// Status questions are answered from live data, not the canned table.
var statusKeywords = []string{"סטטוס", "מה קורה עם", "עודכנה"}

// The canned intents mirror the questions the helpdesk answers daily.
var assistantIntents = []intent{
	{
		keywords: []string{"ערעור", "לערער"},
		reply:    "כדי להגיש ערעור על ציון, היכנסו ל\"בקשה חדשה\", בחרו בסוג \"ערעור\", פרטו את הקורס והציון, וצרפו אסמכתאות אם יש.",
	},
	{
		keywords: []string{"פטור"},
		reply:    "בקשת פטור מקורס מוגשת דרך \"בקשה חדשה\" עם סוג \"פטור\". צרפו גיליון ציונים או סילבוס מהמוסד הקודם.",
	},
	{
		keywords: []string{"מילואים", "צו"},
		reply:    "לבקשות מילואים בחרו בסוג \"מילואים\" וצרפו את צו הקריאה. הבקשה מנותבת אוטומטית לרכזת ההתאמות.",
	},
	{
		keywords: []string{"סיסמה", "סיסמא", "שכחתי"},
		reply:    "שכחתם סיסמה? לחצו על \"שכחתי סיסמה\" במסך ההתחברות וקישור איפוס יישלח למייל המוסדי.",
	},
	{
		keywords: []string{"מרצה", "מי מטפל"},
		reply:    "בפתיחת הבקשה מוצג המרצה המטפל, אם הוקצה. אפשר לפנות אליו ישירות דרך התגובות בשרשור הבקשה.",
	},
}

const assistantFallback = "לא הצלחתי להבין את השאלה. נסו לנסח מחדש, או פנו למזכירות החוג דרך טופס \"בקשה אחרת\"."

const assistantNoRequests = "אין לך בקשות במערכת כרגע. אפשר להגיש אחת דרך \"בקשה חדשה\"."

func (s *assistantService) Answer(ctx context.Context, userID uint, payload dto.AssistantMessageRequest) (dto.AssistantMessageResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssistantMessageResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "assistant.answer", trace.WithAttributes(
		attribute.Int("assistant.user_id", int(userID)),
	))
	defer span.End()

	question := strings.TrimSpace(payload.Message)

	if containsAny(question, statusKeywords) {
		if reply, ok := s.statusReply(spanCtx, userID); ok {
			span.SetAttributes(attribute.String("assistant.source", "status"))
			return dto.AssistantMessageResponse{Reply: reply, Source: "status"}, nil
		}
	}

	for _, candidate := range assistantIntents {
		if containsAny(question, candidate.keywords) {
			span.SetAttributes(attribute.String("assistant.source", "intent"))
			return dto.AssistantMessageResponse{Reply: candidate.reply, Source: "intent"}, nil
		}
	}

	if s.model != nil {
		reply, err := s.model.Reply(spanCtx, nil, question)
		if err != nil {
			s.logger.Warn().Err(err).Msg("assistant model call failed")
		} else if reply != "" {
			span.SetAttributes(attribute.String("assistant.source", "model"))
			return dto.AssistantMessageResponse{Reply: reply, Source: "model"}, nil
		}
	}

	span.SetAttributes(attribute.String("assistant.source", "fallback"))
	return dto.AssistantMessageResponse{Reply: assistantFallback, Source: "fallback"}, nil
}

// statusReply lists the caller's requests with their current status.
func (s *assistantService) statusReply(ctx context.Context, userID uint) (string, bool) {
	if s.requests == nil {
		return "", false
	}

	requests, err := s.requests.ListByStudent(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Uint("user_id", userID).Msg("assistant status lookup failed")
		return "", false
	}

	if len(requests) == 0 {
		return assistantNoRequests, true
	}

	var b strings.Builder
	b.WriteString("אלו הבקשות שלך והסטטוס שלהן:\n")
	for _, request := range requests {
		b.WriteString(fmt.Sprintf("• %s (%s): %s\n", request.Subject, models.RequestTypeHebrew(request.RequestType), statusDisplay(request.Status)))
	}
	return strings.TrimRight(b.String(), "\n"), true
}

func statusDisplay(status string) string {
	parsed, err := lifecycle.Parse(status)
	if err != nil {
		return status
	}
	return parsed.Hebrew()
}

func containsAny(question string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(question, keyword) {
			return true
		}
	}
	return false
}

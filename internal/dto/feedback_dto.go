package dto

import (
	"time"

	"github.com/noah-isme/campus-request-api/internal/models"
)

// CreateFeedbackRequest carries a satisfaction survey submission.
type CreateFeedbackRequest struct {
	Rating      int    `json:"rating" validate:"required,min=1,max=5"`
	Comment     string `json:"comment" validate:"omitempty,max=2000"`
	Category    string `json:"category" validate:"required,oneof=website process general"`
	IsAnonymous bool   `json:"is_anonymous"`
}

// FeedbackResponse is the public representation of a survey entry.
type FeedbackResponse struct {
	ID          uint      `json:"id"`
	UserName    string    `json:"user_name,omitempty"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment,omitempty"`
	Category    string    `json:"category"`
	IsAnonymous bool      `json:"is_anonymous"`
	CreatedAt   time.Time `json:"created_at"`
}

// FeedbackSummaryResponse aggregates ratings for the admin dashboard.
type FeedbackSummaryResponse struct {
	Count         int64            `json:"count"`
	AverageRating float64          `json:"average_rating"`
	ByCategory    map[string]int64 `json:"by_category"`
}

// NewFeedbackResponse converts a feedback model. Anonymous entries never
// expose the author's name.
func NewFeedbackResponse(feedback *models.Feedback) FeedbackResponse {
	resp := FeedbackResponse{
		ID:          feedback.ID,
		Rating:      feedback.Rating,
		Comment:     feedback.Comment,
		Category:    feedback.Category,
		IsAnonymous: feedback.IsAnonymous,
		CreatedAt:   feedback.CreatedAt,
	}
	if !feedback.IsAnonymous && feedback.User != nil {
		resp.UserName = feedback.User.FullName()
	}
	return resp
}

// NewFeedbackResponseSlice converts a slice of feedback models.
func NewFeedbackResponseSlice(entries []models.Feedback) []FeedbackResponse {
	responses := make([]FeedbackResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, NewFeedbackResponse(&entries[i]))
	}
	return responses
}

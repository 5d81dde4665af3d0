package dto

import (
	"time"

	"github.com/noah-isme/campus-request-api/internal/lifecycle"
	"github.com/noah-isme/campus-request-api/internal/models"
)

// CreateRequestRequest carries a new submission.
type CreateRequestRequest struct {
	RequestType     string `json:"request_type" validate:"required,oneof=appeal exemption military other"`
	Subject         string `json:"subject" validate:"required,min=2,max=200"`
	Description     string `json:"description" validate:"required,min=2"`
	AttachedFileURL string `json:"attached_file_url" validate:"omitempty,url"`
}

// UpdateRequestRequest carries the student-editable fields of a pending submission.
type UpdateRequestRequest struct {
	Subject         string `json:"subject" validate:"omitempty,min=2,max=200"`
	Description     string `json:"description" validate:"omitempty,min=2"`
	AttachedFileURL string `json:"attached_file_url" validate:"omitempty,url"`
}

// StatusUpdateRequest carries a staff decision. Feedback, when present, is
// appended to the request thread as a comment from the acting staff member.
type StatusUpdateRequest struct {
	Status   string `json:"status" validate:"required"`
	Feedback string `json:"feedback" validate:"omitempty,max=2000"`
}

// AssignLecturerRequest routes a request to a specific lecturer.
type AssignLecturerRequest struct {
	LecturerID uint `json:"lecturer_id" validate:"required,gt=0"`
}

// RequestResponse is the public representation of a request.
type RequestResponse struct {
	ID                 uint      `json:"id"`
	StudentID          uint      `json:"student_id"`
	StudentName        string    `json:"student_name,omitempty"`
	RequestType        string    `json:"request_type"`
	RequestTypeDisplay string    `json:"request_type_display"`
	Subject            string    `json:"subject"`
	Description        string    `json:"description"`
	AttachedFileURL    string    `json:"attached_file_url,omitempty"`
	Status             string    `json:"status"`
	StatusDisplay      string    `json:"status_display"`
	Feedback           string    `json:"feedback,omitempty"`
	AssignedLecturerID *uint     `json:"assigned_lecturer_id,omitempty"`
	AssignedLecturer   string    `json:"assigned_lecturer,omitempty"`
	SubmittedAt        time.Time `json:"submitted_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// RequestGroupsResponse splits a listing into open and closed buckets.
type RequestGroupsResponse struct {
	Open   []RequestResponse `json:"open"`
	Closed []RequestResponse `json:"closed"`
}

// RequestStatsResponse carries per-status counters for a scoped listing.
type RequestStatsResponse struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Approved   int `json:"approved"`
	Rejected   int `json:"rejected"`
}

// RequestOverviewResponse combines the grouped listing with its counters.
type RequestOverviewResponse struct {
	Groups RequestGroupsResponse `json:"groups"`
	Stats  RequestStatsResponse  `json:"stats"`
}

// NewRequestResponse converts a request model into its API representation.
func NewRequestResponse(request *models.Request) RequestResponse {
	status := lifecycle.Status(request.Status)
	resp := RequestResponse{
		ID:                 request.ID,
		StudentID:          request.StudentID,
		RequestType:        request.RequestType,
		RequestTypeDisplay: models.RequestTypeHebrew(request.RequestType),
		Subject:            request.Subject,
		Description:        request.Description,
		AttachedFileURL:    request.AttachedFileURL,
		Status:             request.Status,
		StatusDisplay:      status.Hebrew(),
		Feedback:           request.Feedback,
		AssignedLecturerID: request.AssignedLecturerID,
		SubmittedAt:        request.SubmittedAt,
		UpdatedAt:          request.UpdatedAt,
	}
	if request.Student != nil {
		resp.StudentName = request.Student.FullName()
	}
	if request.AssignedLecturer != nil {
		resp.AssignedLecturer = request.AssignedLecturer.FullName()
	}
	return resp
}

// NewRequestResponseSlice converts a slice of request models.
func NewRequestResponseSlice(requests []models.Request) []RequestResponse {
	responses := make([]RequestResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, NewRequestResponse(&requests[i]))
	}
	return responses
}

// NewRequestGroupsResponse converts a classified listing.
func NewRequestGroupsResponse(groups lifecycle.Groups) RequestGroupsResponse {
	return RequestGroupsResponse{
		Open:   NewRequestResponseSlice(groups.Open),
		Closed: NewRequestResponseSlice(groups.Closed),
	}
}

// NewRequestStatsResponse converts aggregated counters.
func NewRequestStatsResponse(stats lifecycle.Stats) RequestStatsResponse {
	return RequestStatsResponse{
		Total:      stats.Total,
		Pending:    stats.Pending,
		InProgress: stats.InProgress,
		Approved:   stats.Approved,
		Rejected:   stats.Rejected,
	}
}

// CreateCommentRequest carries a new thread message.
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

// CommentResponse is the public representation of a thread message.
type CommentResponse struct {
	ID         uint      `json:"id"`
	RequestID  uint      `json:"request_id"`
	AuthorID   uint      `json:"author_id"`
	AuthorName string    `json:"author_name,omitempty"`
	AuthorRole string    `json:"author_role,omitempty"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

// ThreadResponse bundles a request with its ordered comment history.
type ThreadResponse struct {
	Request  RequestResponse   `json:"request"`
	Comments []CommentResponse `json:"comments"`
}

// NewCommentResponse converts a comment model into its API representation.
func NewCommentResponse(comment *models.RequestComment) CommentResponse {
	resp := CommentResponse{
		ID:        comment.ID,
		RequestID: comment.RequestID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
		IsRead:    comment.IsRead,
		CreatedAt: comment.CreatedAt,
	}
	if comment.Author != nil {
		resp.AuthorName = comment.Author.FullName()
		resp.AuthorRole = comment.Author.Role
	}
	return resp
}

// NewCommentResponseSlice converts a slice of comment models.
func NewCommentResponseSlice(comments []models.RequestComment) []CommentResponse {
	responses := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, NewCommentResponse(&comments[i]))
	}
	return responses
}

package dto

import (
	"time"

	"github.com/noah-isme/campus-request-api/internal/models"
)

// NotificationResponse is the public representation of a notification.
type NotificationResponse struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNotificationResponse converts a notification model.
func NewNotificationResponse(notification *models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        notification.ID,
		UserID:    notification.UserID,
		Type:      notification.Type,
		Message:   notification.Message,
		Read:      notification.Read,
		CreatedAt: notification.CreatedAt,
	}
}

// NewNotificationResponseSlice converts a slice of notification models.
func NewNotificationResponseSlice(notifications []models.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, NewNotificationResponse(&notifications[i]))
	}
	return responses
}

// UnreadCountResponse carries the badge counter for the notification bell.
type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

// NotificationSettingsResponse tells clients how to consume notifications.
type NotificationSettingsResponse struct {
	PollSeconds int    `json:"poll_seconds"`
	StreamPath  string `json:"stream_path"`
}

// SendChatMessageRequest carries an inbound chat message.
type SendChatMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
	Type    string `json:"type" validate:"omitempty,oneof=text system"`
}

// ChatMessageResponse is the public representation of a chat message.
type ChatMessageResponse struct {
	ID         uint      `json:"id"`
	RoomID     string    `json:"room_id"`
	SenderID   uint      `json:"sender_id"`
	SenderName string    `json:"sender_name,omitempty"`
	Content    string    `json:"content"`
	Type       string    `json:"type"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewChatMessageResponse converts a chat message model.
func NewChatMessageResponse(message *models.ChatMessage) ChatMessageResponse {
	return ChatMessageResponse{
		ID:        message.ID,
		RoomID:    message.RoomID,
		SenderID:  message.SenderID,
		Content:   message.Content,
		Type:      message.Type,
		CreatedAt: message.CreatedAt,
	}
}

// NewChatMessageResponseSlice converts a slice of chat message models.
func NewChatMessageResponseSlice(messages []models.ChatMessage) []ChatMessageResponse {
	responses := make([]ChatMessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, NewChatMessageResponse(&messages[i]))
	}
	return responses
}

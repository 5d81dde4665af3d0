package models

import "time"

// Feedback categories offered by the portal.
const (
	FeedbackCategoryWebsite = "website"
	FeedbackCategoryProcess = "process"
	FeedbackCategoryGeneral = "general"
)

// Feedback is a user rating of the portal itself, optionally anonymous.
type Feedback struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	Rating      int       `gorm:"not null" json:"rating"`
	Comment     string    `gorm:"type:text;not null" json:"comment"`
	Category    string    `gorm:"size:50;not null;default:general" json:"category"`
	IsAnonymous bool      `gorm:"not null;default:false" json:"is_anonymous"`
	CreatedAt   time.Time `json:"created_at"`

	User *User `json:"user,omitempty"`
}

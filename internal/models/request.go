package models

import "time"

// Request types a student can submit.
const (
	RequestTypeAppeal    = "appeal"
	RequestTypeExemption = "exemption"
	RequestTypeMilitary  = "military"
	RequestTypeOther     = "other"
)

// Request is a student-submitted academic administrative case.
type Request struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	StudentID          uint      `gorm:"index;not null" json:"student_id"`
	RequestType        string    `gorm:"size:50;not null" json:"request_type"`
	Subject            string    `gorm:"size:200;not null" json:"subject"`
	Description        string    `gorm:"type:text" json:"description"`
	AttachedFileURL    string    `gorm:"size:512" json:"attached_file_url"`
	Status             string    `gorm:"size:20;not null;default:pending;index" json:"status"`
	Feedback           string    `gorm:"type:text" json:"feedback"`
	AssignedLecturerID *uint     `gorm:"index" json:"assigned_lecturer_id"`
	SubmittedAt        time.Time `gorm:"autoCreateTime" json:"submitted_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	Student          *User `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	AssignedLecturer *User `gorm:"foreignKey:AssignedLecturerID" json:"assigned_lecturer,omitempty"`
}

// RequestTypeHebrew maps a request type to its Hebrew display label.
func RequestTypeHebrew(requestType string) string {
	switch requestType {
	case RequestTypeAppeal:
		return "ערעור"
	case RequestTypeExemption:
		return "פטור"
	case RequestTypeMilitary:
		return "מילואים"
	case RequestTypeOther:
		return "אחר"
	default:
		return requestType
	}
}

// RequestComment is an append-only message attached to a request thread.
type RequestComment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RequestID uint      `gorm:"index;not null" json:"request_id"`
	AuthorID  uint      `gorm:"index;not null" json:"author_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	IsRead    bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

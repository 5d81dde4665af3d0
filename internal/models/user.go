package models

import "time"

// Roles a portal account can hold.
const (
	RoleStudent  = "student"
	RoleLecturer = "lecturer"
	RoleAdmin    = "admin"
)

// User represents a portal account: student, lecturer or administrative staff.
type User struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	FirstName           string     `gorm:"size:150;not null" json:"first_name"`
	LastName            string     `gorm:"size:150;not null" json:"last_name"`
	Email               string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash        string     `gorm:"size:255;not null" json:"-"`
	Role                string     `gorm:"size:20;not null;default:student" json:"role"`
	DepartmentID        *uint      `gorm:"index" json:"department_id"`
	PhoneNumber         string     `gorm:"size:15" json:"phone_number"`
	IDNumber            string     `gorm:"size:9;uniqueIndex" json:"id_number"`
	IsApproved          bool       `gorm:"not null;default:false" json:"is_approved"`
	ResetToken          string     `gorm:"size:100" json:"-"`
	ResetTokenCreatedAt *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`

	Department *Department `json:"department,omitempty"`
	Courses    []Course    `gorm:"many2many:lecturer_courses" json:"courses,omitempty"`
}

// FullName joins first and last name the way the portal displays users.
func (u User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsStaff reports whether the user may triage requests.
func (u User) IsStaff() bool {
	return u.Role == RoleLecturer || u.Role == RoleAdmin
}

package models

// Department is an academic department users and courses belong to.
type Department struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`
}

// Course is a catalog entry taught by zero or more lecturers.
type Course struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	DepartmentID uint   `gorm:"index;not null" json:"department_id"`
	Code         string `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name         string `gorm:"size:150;not null" json:"name"`

	Lecturers []User `gorm:"many2many:lecturer_courses" json:"lecturers,omitempty"`
}

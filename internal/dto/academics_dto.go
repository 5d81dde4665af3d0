package dto

import "github.com/noah-isme/campus-request-api/internal/models"

// DepartmentResponse is the public representation of a department.
type DepartmentResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// CourseResponse is the public representation of a course.
type CourseResponse struct {
	ID           uint   `json:"id"`
	DepartmentID uint   `json:"department_id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
}

// CreateDepartmentRequest carries an admin catalog addition.
type CreateDepartmentRequest struct {
	Name string `json:"name" validate:"required,min=2,max=120"`
}

// CreateCourseRequest carries an admin catalog addition.
type CreateCourseRequest struct {
	DepartmentID uint   `json:"department_id" validate:"required,gt=0"`
	Code         string `json:"code" validate:"required,min=2,max=20"`
	Name         string `json:"name" validate:"required,min=2,max=160"`
}

// NewDepartmentResponse converts a department model.
func NewDepartmentResponse(department *models.Department) DepartmentResponse {
	return DepartmentResponse{ID: department.ID, Name: department.Name}
}

// NewDepartmentResponseSlice converts a slice of department models.
func NewDepartmentResponseSlice(departments []models.Department) []DepartmentResponse {
	responses := make([]DepartmentResponse, 0, len(departments))
	for i := range departments {
		responses = append(responses, NewDepartmentResponse(&departments[i]))
	}
	return responses
}

// NewCourseResponse converts a course model.
func NewCourseResponse(course *models.Course) CourseResponse {
	return CourseResponse{
		ID:           course.ID,
		DepartmentID: course.DepartmentID,
		Code:         course.Code,
		Name:         course.Name,
	}
}

// NewCourseResponseSlice converts a slice of course models.
func NewCourseResponseSlice(courses []models.Course) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for i := range courses {
		responses = append(responses, NewCourseResponse(&courses[i]))
	}
	return responses
}

package dto

import "github.com/yigit/unirecords/internal/app/models"

// StudentRequest is the body of student create and update calls
type StudentRequest struct {
	Name          string `json:"name" binding:"required,max=200" example:"Jane Doe"`
	Email         string `json:"email" binding:"required,email" example:"jane@school.edu"`
	StudentNumber string `json:"studentNumber" binding:"required" example:"STU001"`
}

// Fields converts the request to the domain's mutable fields
func (r StudentRequest) Fields() models.StudentFields {
	return models.StudentFields{
		Name:          r.Name,
		Email:         r.Email,
		StudentNumber: r.StudentNumber,
	}
}

// CreditsResponse carries a student's credit total
type CreditsResponse struct {
	StudentID    int64 `json:"studentId"`
	TotalCredits int   `json:"totalCredits"`
}

package dto

import "github.com/yigit/unirecords/internal/app/models"

// RegistrationRequest is the body of a register call. An omitted date means today.
type RegistrationRequest struct {
	StudentID        int64        `json:"studentId" binding:"required,gt=0" example:"1"`
	CourseID         int64        `json:"courseId" binding:"required,gt=0" example:"1"`
	RegistrationDate *models.Date `json:"registrationDate,omitempty" example:"2025-09-01"`
}

// Date returns the requested registration date, zero when omitted
func (r RegistrationRequest) Date() models.Date {
	if r.RegistrationDate == nil {
		return models.Date{}
	}
	return *r.RegistrationDate
}

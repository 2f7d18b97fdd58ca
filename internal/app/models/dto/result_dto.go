package dto

import "github.com/yigit/unirecords/internal/app/models"

// ResultRequest is the body of result create and update calls
type ResultRequest struct {
	StudentNumber string `json:"studentNumber" binding:"required" example:"STU001"`
	CourseCode    string `json:"courseCode" binding:"required" example:"CS101"`
	Grade         string `json:"grade" binding:"required" example:"A-"`
}

// Fields converts the request to the domain's fields
func (r ResultRequest) Fields() models.ResultFields {
	return models.ResultFields{
		StudentNumber: r.StudentNumber,
		CourseCode:    r.CourseCode,
		Grade:         r.Grade,
	}
}

package dto

import "github.com/yigit/unirecords/internal/app/models"

// CourseRequest is the body of course create and update calls
type CourseRequest struct {
	Code       string `json:"code" binding:"required" example:"CS101"`
	Title      string `json:"title" binding:"required,max=200" example:"Intro"`
	Credits    int    `json:"credits" binding:"required,gt=0" example:"3"`
	Instructor string `json:"instructor" binding:"required" example:"Dr. Smith"`
}

// Fields converts the request to the domain's mutable fields
func (r CourseRequest) Fields() models.CourseFields {
	return models.CourseFields{
		Code:       r.Code,
		Title:      r.Title,
		Credits:    r.Credits,
		Instructor: r.Instructor,
	}
}

package models

import "strings"

// Course represents an entry in the course catalog.
type Course struct {
	ID         int64  `json:"id" db:"id"`
	Code       string `json:"code" db:"code"`
	Title      string `json:"title" db:"title"`
	Credits    int    `json:"credits" db:"credits"`
	Instructor string `json:"instructor" db:"instructor"`
}

// CourseFields holds the mutable attributes of a course.
type CourseFields struct {
	Code       string
	Title      string
	Credits    int
	Instructor string
}

// Apply copies the fields onto c, keeping its ID.
func (f CourseFields) Apply(c *Course) {
	c.Code = f.Code
	c.Title = f.Title
	c.Credits = f.Credits
	c.Instructor = f.Instructor
	c.Normalize()
}

// Normalize trims surrounding whitespace so the course code is indexed in one
// spelling only.
func (c *Course) Normalize() {
	c.Code = strings.TrimSpace(c.Code)
	c.Title = strings.TrimSpace(c.Title)
	c.Instructor = strings.TrimSpace(c.Instructor)
}

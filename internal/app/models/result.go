package models

import "strings"

// Result is a grade record. It references its student and course by natural
// key; CourseName is copied from the course title when the result is written
// and is not kept in sync afterwards.
type Result struct {
	ID            int64  `json:"id" db:"id"`
	StudentNumber string `json:"studentNumber" db:"student_number"`
	CourseCode    string `json:"courseCode" db:"course_code"`
	Grade         string `json:"grade" db:"grade"`
	CourseName    string `json:"courseName" db:"course_name"`
}

// ResultFields holds the caller-supplied attributes of a result.
type ResultFields struct {
	StudentNumber string
	CourseCode    string
	Grade         string
}

// Normalize trims surrounding whitespace from the caller-supplied fields so
// the natural keys resolve in one spelling only.
func (r *Result) Normalize() {
	r.StudentNumber = strings.TrimSpace(r.StudentNumber)
	r.CourseCode = strings.TrimSpace(r.CourseCode)
	r.Grade = strings.TrimSpace(r.Grade)
}

// GradeTier classifies a letter grade for display.
type GradeTier string

const (
	GradeTierExcellent    GradeTier = "EXCELLENT"
	GradeTierGood         GradeTier = "GOOD"
	GradeTierSatisfactory GradeTier = "SATISFACTORY"
	GradeTierOther        GradeTier = "OTHER"
)

// GradeTierOf maps a grade token to its tier by its leading character:
// A is Excellent, B is Good, C is Satisfactory and anything else, including
// whitespace, is Other. Stored grades are already trimmed.
func GradeTierOf(grade string) GradeTier {
	if grade == "" {
		return GradeTierOther
	}
	switch grade[0] {
	case 'A':
		return GradeTierExcellent
	case 'B':
		return GradeTierGood
	case 'C':
		return GradeTierSatisfactory
	default:
		return GradeTierOther
	}
}

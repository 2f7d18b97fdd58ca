package models

import "strings"

// Student defines the student model based on the 'students' table
type Student struct {
	ID            int64  `json:"id" db:"id" example:"1"`                             // Store-assigned identifier
	Name          string `json:"name" db:"name" example:"Jane Doe"`                  // Full name
	Email         string `json:"email" db:"email" example:"jane@school.edu"`         // Contact email
	StudentNumber string `json:"studentNumber" db:"student_number" example:"STU001"` // Human-facing unique number
}

// StudentFields holds the mutable attributes of a student.
type StudentFields struct {
	Name          string
	Email         string
	StudentNumber string
}

// Apply copies the fields onto s, keeping its ID.
func (f StudentFields) Apply(s *Student) {
	s.Name = f.Name
	s.Email = f.Email
	s.StudentNumber = f.StudentNumber
	s.Normalize()
}

// Normalize trims surrounding whitespace so the student number is indexed in
// one spelling only.
func (s *Student) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.StudentNumber = strings.TrimSpace(s.StudentNumber)
}

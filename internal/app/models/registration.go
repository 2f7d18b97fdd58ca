package models

// Registration links a student to a course. At most one live registration
// exists per (StudentID, CourseID).
type Registration struct {
	ID               int64 `json:"id" db:"id"`
	StudentID        int64 `json:"studentId" db:"student_id"`
	CourseID         int64 `json:"courseId" db:"course_id"`
	RegistrationDate Date  `json:"registrationDate" db:"registration_date"`
}

// RegistrationKey identifies a registration by the pair it links.
type RegistrationKey struct {
	StudentID int64
	CourseID  int64
}

// Key returns the pair identifying r.
func (r Registration) Key() RegistrationKey {
	return RegistrationKey{StudentID: r.StudentID, CourseID: r.CourseID}
}

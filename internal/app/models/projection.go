package models

// UnresolvedPlaceholder is shown in place of attributes of an entity that no
// longer resolves.
const UnresolvedPlaceholder = "-"

// Resolution is the outcome of resolving a reference at read time.
type Resolution string

const (
	Resolved   Resolution = "RESOLVED"
	Unresolved Resolution = "UNRESOLVED"
)

// CourseRef is an optionally resolved course. When Resolution is Unresolved
// only the reference key (ID or Code) is meaningful and the rest of the
// fields carry UnresolvedPlaceholder.
type CourseRef struct {
	Course
	Resolution Resolution `json:"resolution"`
}

// ResolvedCourse wraps a live course.
func ResolvedCourse(c Course) CourseRef {
	return CourseRef{Course: c, Resolution: Resolved}
}

// UnresolvedCourse builds a placeholder for a course that could not be found.
func UnresolvedCourse(id int64, code string) CourseRef {
	if code == "" {
		code = UnresolvedPlaceholder
	}
	return CourseRef{
		Course: Course{
			ID:         id,
			Code:       code,
			Title:      UnresolvedPlaceholder,
			Instructor: UnresolvedPlaceholder,
		},
		Resolution: Unresolved,
	}
}

// IsResolved reports whether the referenced course was found.
func (r CourseRef) IsResolved() bool {
	return r.Resolution == Resolved
}

// EnrolledCourse is a course reached through one of a student's live
// registrations.
type EnrolledCourse struct {
	RegistrationID   int64     `json:"registrationId"`
	RegistrationDate Date      `json:"registrationDate"`
	Course           CourseRef `json:"course"`
}

// ResultView is a result as shown to a student or admin, with its references
// resolved against current state.
type ResultView struct {
	Result
	Tier              GradeTier  `json:"tier"`
	Credits           *int       `json:"credits"` // nil when the course no longer resolves
	CourseResolution  Resolution `json:"courseResolution"`
	StudentResolution Resolution `json:"studentResolution"`
}

// Dashboard is the overview of one student, computed from a single snapshot.
type Dashboard struct {
	Student          Student          `json:"student"`
	EnrolledCourses  []EnrolledCourse `json:"enrolledCourses"`
	AvailableCourses []Course         `json:"availableCourses"`
	TotalCredits     int              `json:"totalCredits"`
	CompletedCount   int              `json:"completedCount"`
	Results          []ResultView     `json:"results"`
}

// Snapshot is a consistent, caller-owned copy of the whole store, each
// collection in insertion order.
type Snapshot struct {
	Students      []Student
	Courses       []Course
	Registrations []Registration
	Results       []Result
}

package models

// RoleType defines the caller role supplied by the identity provider
type RoleType string

const (
	RoleAdmin   RoleType = "ADMIN"
	RoleStudent RoleType = "STUDENT"
)

// Valid reports whether r is one of the known roles.
func (r RoleType) Valid() bool {
	return r == RoleAdmin || r == RoleStudent
}

// Session is the request-scoped identity of a caller. It is passed explicitly
// into every read-side projection so that scoping never depends on globals.
type Session struct {
	Subject       string   `json:"subject"`
	Role          RoleType `json:"role"`
	StudentNumber string   `json:"studentNumber,omitempty"` // Set only for student sessions
}

// AdminSession returns a session with full access, used by seeding and internal jobs.
func AdminSession() Session {
	return Session{Subject: "system", Role: RoleAdmin}
}

// IsAdmin reports whether the session carries the admin role.
func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// CanSeeStudent reports whether the session may read records owned by studentNumber.
func (s Session) CanSeeStudent(studentNumber string) bool {
	if s.IsAdmin() {
		return true
	}
	return s.Role == RoleStudent && s.StudentNumber != "" && s.StudentNumber == studentNumber
}

// DeletePolicy decides what happens to registrations and results that still
// reference a student or course being deleted.
type DeletePolicy string

const (
	// DeletePolicyOrphan deletes the entity and leaves references dangling;
	// reads show them as unresolved.
	DeletePolicyOrphan DeletePolicy = "orphan"
	// DeletePolicyRestrict refuses the delete while references exist.
	DeletePolicyRestrict DeletePolicy = "restrict"
)

// Valid reports whether p is a known policy.
func (p DeletePolicy) Valid() bool {
	return p == DeletePolicyOrphan || p == DeletePolicyRestrict
}

// Package projection computes the read-side views of the records from one
// snapshot. Nothing here mutates state or caches across snapshots.
package projection

import "github.com/yigit/unirecords/internal/app/models"

// View indexes a snapshot for lookups by id and natural key.
type View struct {
	snap             *models.Snapshot
	studentsByID     map[int64]models.Student
	studentsByNumber map[string]models.Student
	coursesByID      map[int64]models.Course
	coursesByCode    map[string]models.Course
}

// NewView indexes snap. The snapshot must not be modified afterwards.
func NewView(snap *models.Snapshot) *View {
	v := &View{
		snap:             snap,
		studentsByID:     make(map[int64]models.Student, len(snap.Students)),
		studentsByNumber: make(map[string]models.Student, len(snap.Students)),
		coursesByID:      make(map[int64]models.Course, len(snap.Courses)),
		coursesByCode:    make(map[string]models.Course, len(snap.Courses)),
	}
	for _, s := range snap.Students {
		v.studentsByID[s.ID] = s
		v.studentsByNumber[s.StudentNumber] = s
	}
	for _, c := range snap.Courses {
		v.coursesByID[c.ID] = c
		v.coursesByCode[c.Code] = c
	}
	return v
}

// StudentByID looks up a live student.
func (v *View) StudentByID(id int64) (models.Student, bool) {
	s, ok := v.studentsByID[id]
	return s, ok
}

// StudentByNumber looks up a live student by student number.
func (v *View) StudentByNumber(studentNumber string) (models.Student, bool) {
	s, ok := v.studentsByNumber[studentNumber]
	return s, ok
}

// EnrolledCourses returns the courses reached through the student's live
// registrations, in registration order. A registration whose course is gone
// yields an unresolved entry rather than being dropped.
func (v *View) EnrolledCourses(studentID int64) []models.EnrolledCourse {
	out := []models.EnrolledCourse{}
	for _, r := range v.snap.Registrations {
		if r.StudentID != studentID {
			continue
		}
		ref := models.UnresolvedCourse(r.CourseID, "")
		if c, ok := v.coursesByID[r.CourseID]; ok {
			ref = models.ResolvedCourse(c)
		}
		out = append(out, models.EnrolledCourse{
			RegistrationID:   r.ID,
			RegistrationDate: r.RegistrationDate,
			Course:           ref,
		})
	}
	return out
}

// TotalCredits sums the credits of the student's resolved enrolled courses.
func (v *View) TotalCredits(studentID int64) int {
	return sumCredits(v.EnrolledCourses(studentID))
}

func sumCredits(enrolled []models.EnrolledCourse) int {
	total := 0
	for _, e := range enrolled {
		if e.Course.IsResolved() {
			total += e.Course.Credits
		}
	}
	return total
}

// CompletedCount counts the results recorded under studentNumber.
func (v *View) CompletedCount(studentNumber string) int {
	count := 0
	for _, r := range v.snap.Results {
		if r.StudentNumber == studentNumber {
			count++
		}
	}
	return count
}

// AvailableCourses returns the live courses the student is not registered
// for, in catalog order.
func (v *View) AvailableCourses(studentID int64) []models.Course {
	return v.availableExcluding(v.EnrolledCourses(studentID))
}

func (v *View) availableExcluding(enrolled []models.EnrolledCourse) []models.Course {
	taken := make(map[int64]struct{}, len(enrolled))
	for _, e := range enrolled {
		taken[e.Course.ID] = struct{}{}
	}
	out := []models.Course{}
	for _, c := range v.snap.Courses {
		if _, ok := taken[c.ID]; !ok {
			out = append(out, c)
		}
	}
	return out
}

// ResultsFor returns the results recorded under studentNumber with their
// references resolved against the snapshot.
func (v *View) ResultsFor(studentNumber string) []models.ResultView {
	out := []models.ResultView{}
	for _, r := range v.snap.Results {
		if r.StudentNumber == studentNumber {
			out = append(out, v.resolveResult(r))
		}
	}
	return out
}

// AllResults resolves every result in the snapshot.
func (v *View) AllResults() []models.ResultView {
	out := make([]models.ResultView, 0, len(v.snap.Results))
	for _, r := range v.snap.Results {
		out = append(out, v.resolveResult(r))
	}
	return out
}

func (v *View) resolveResult(r models.Result) models.ResultView {
	rv := models.ResultView{
		Result:            r,
		Tier:              models.GradeTierOf(r.Grade),
		CourseResolution:  models.Unresolved,
		StudentResolution: models.Unresolved,
	}
	if c, ok := v.coursesByCode[r.CourseCode]; ok {
		credits := c.Credits
		rv.Credits = &credits
		rv.CourseResolution = models.Resolved
	}
	if _, ok := v.studentsByNumber[r.StudentNumber]; ok {
		rv.StudentResolution = models.Resolved
	}
	return rv
}

// Dashboard builds the whole overview of a student from this view.
func (v *View) Dashboard(student models.Student) models.Dashboard {
	enrolled := v.EnrolledCourses(student.ID)
	results := v.ResultsFor(student.StudentNumber)
	return models.Dashboard{
		Student:          student,
		EnrolledCourses:  enrolled,
		AvailableCourses: v.availableExcluding(enrolled),
		TotalCredits:     sumCredits(enrolled),
		CompletedCount:   v.CompletedCount(student.StudentNumber),
		Results:          results,
	}
}

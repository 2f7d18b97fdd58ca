// Package memory is an in-process entity store. A single RWMutex serializes
// writers, so every invariant check happens in the same critical section as
// the write it guards.
package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/app/repositories"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
)

var _ repositories.Store = (*Store)(nil)

// Store keeps every collection in maps keyed by id plus natural-key indexes.
type Store struct {
	mu sync.RWMutex

	students         map[int64]models.Student
	studentsByNumber map[string]int64
	lastStudentID    int64

	courses       map[int64]models.Course
	coursesByCode map[string]int64
	lastCourseID  int64

	registrations      map[int64]models.Registration
	registrationsByKey map[models.RegistrationKey]int64
	lastRegistrationID int64

	results      map[int64]models.Result
	lastResultID int64
}

// New creates an empty store.
func New() *Store {
	return &Store{
		students:           make(map[int64]models.Student),
		studentsByNumber:   make(map[string]int64),
		courses:            make(map[int64]models.Course),
		coursesByCode:      make(map[string]int64),
		registrations:      make(map[int64]models.Registration),
		registrationsByKey: make(map[models.RegistrationKey]int64),
		results:            make(map[int64]models.Result),
	}
}

// Close is a no-op; it exists to satisfy repositories.Store.
func (s *Store) Close() {}

// Ping always succeeds for the in-process store.
func (s *Store) Ping(context.Context) error { return nil }

// nextID picks the id for an insert: the caller's id when set, otherwise the
// next value of the sequence. The sequence always moves past assigned ids.
func nextID(requested int64, last *int64) int64 {
	id := requested
	if id <= 0 {
		id = *last + 1
	}
	if id > *last {
		*last = id
	}
	return id
}

// sortedValues returns the map's values ordered by id, which is insertion order.
func sortedValues[T any](m map[int64]T) []*T {
	out := make([]*T, 0, len(m))
	for _, id := range slices.Sorted(maps.Keys(m)) {
		v := m[id]
		out = append(out, &v)
	}
	return out
}

// --- Students ---

// CreateStudent inserts a student, assigning an id when none is set.
func (s *Store) CreateStudent(_ context.Context, student *models.Student) error {
	if err := repositories.ValidateStudent(student); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.studentsByNumber[student.StudentNumber]; exists {
		return fmt.Errorf("%w: %s", apperrors.ErrStudentNumberAlreadyExists, student.StudentNumber)
	}
	if _, exists := s.students[student.ID]; exists && student.ID > 0 {
		return fmt.Errorf("%w: student id %d", apperrors.ErrDuplicateKey, student.ID)
	}

	student.ID = nextID(student.ID, &s.lastStudentID)
	s.students[student.ID] = *student
	s.studentsByNumber[student.StudentNumber] = student.ID
	return nil
}

// UpdateStudent replaces the student with the same id.
func (s *Store) UpdateStudent(_ context.Context, student *models.Student) error {
	if err := repositories.ValidateStudent(student); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.students[student.ID]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	if owner, exists := s.studentsByNumber[student.StudentNumber]; exists && owner != student.ID {
		return fmt.Errorf("%w: %s", apperrors.ErrStudentNumberAlreadyExists, student.StudentNumber)
	}

	delete(s.studentsByNumber, current.StudentNumber)
	s.students[student.ID] = *student
	s.studentsByNumber[student.StudentNumber] = student.ID
	return nil
}

// DeleteStudent removes a student. Registrations and results pointing at it
// are left alone under the orphan policy.
func (s *Store) DeleteStudent(_ context.Context, id int64, policy models.DeletePolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	student, ok := s.students[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}

	if policy == models.DeletePolicyRestrict && s.studentReferencedLocked(student) {
		return fmt.Errorf("%w: student %s has registrations or results", apperrors.ErrHasDependents, student.StudentNumber)
	}

	delete(s.students, id)
	delete(s.studentsByNumber, student.StudentNumber)
	return nil
}

func (s *Store) studentReferencedLocked(student models.Student) bool {
	for key := range s.registrationsByKey {
		if key.StudentID == student.ID {
			return true
		}
	}
	for _, r := range s.results {
		if r.StudentNumber == student.StudentNumber {
			return true
		}
	}
	return false
}

// GetStudentByID returns a copy of the student.
func (s *Store) GetStudentByID(_ context.Context, id int64) (*models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	student, ok := s.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return &student, nil
}

// GetStudentByNumber looks a student up by natural key.
func (s *Store) GetStudentByNumber(_ context.Context, studentNumber string) (*models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.studentsByNumber[studentNumber]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	student := s.students[id]
	return &student, nil
}

// ListStudents returns all students in insertion order.
func (s *Store) ListStudents(_ context.Context) ([]*models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.students), nil
}

// --- Courses ---

// CreateCourse inserts a course, assigning an id when none is set.
func (s *Store) CreateCourse(_ context.Context, course *models.Course) error {
	if err := repositories.ValidateCourse(course); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.coursesByCode[course.Code]; exists {
		return fmt.Errorf("%w: %s", apperrors.ErrCourseCodeAlreadyExists, course.Code)
	}
	if _, exists := s.courses[course.ID]; exists && course.ID > 0 {
		return fmt.Errorf("%w: course id %d", apperrors.ErrDuplicateKey, course.ID)
	}

	course.ID = nextID(course.ID, &s.lastCourseID)
	s.courses[course.ID] = *course
	s.coursesByCode[course.Code] = course.ID
	return nil
}

// UpdateCourse replaces the course with the same id. Results keep the
// course name they were written with.
func (s *Store) UpdateCourse(_ context.Context, course *models.Course) error {
	if err := repositories.ValidateCourse(course); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.courses[course.ID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	if owner, exists := s.coursesByCode[course.Code]; exists && owner != course.ID {
		return fmt.Errorf("%w: %s", apperrors.ErrCourseCodeAlreadyExists, course.Code)
	}

	delete(s.coursesByCode, current.Code)
	s.courses[course.ID] = *course
	s.coursesByCode[course.Code] = course.ID
	return nil
}

// DeleteCourse removes a course.
func (s *Store) DeleteCourse(_ context.Context, id int64, policy models.DeletePolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	course, ok := s.courses[id]
	if !ok {
		return apperrors.ErrCourseNotFound
	}

	if policy == models.DeletePolicyRestrict && s.courseReferencedLocked(course) {
		return fmt.Errorf("%w: course %s has registrations or results", apperrors.ErrHasDependents, course.Code)
	}

	delete(s.courses, id)
	delete(s.coursesByCode, course.Code)
	return nil
}

func (s *Store) courseReferencedLocked(course models.Course) bool {
	for key := range s.registrationsByKey {
		if key.CourseID == course.ID {
			return true
		}
	}
	for _, r := range s.results {
		if r.CourseCode == course.Code {
			return true
		}
	}
	return false
}

// GetCourseByID returns a copy of the course.
func (s *Store) GetCourseByID(_ context.Context, id int64) (*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	course, ok := s.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return &course, nil
}

// GetCourseByCode looks a course up by natural key.
func (s *Store) GetCourseByCode(_ context.Context, code string) (*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.coursesByCode[code]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	course := s.courses[id]
	return &course, nil
}

// ListCourses returns all courses in insertion order.
func (s *Store) ListCourses(_ context.Context) ([]*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.courses), nil
}

// --- Registrations ---

// CreateRegistration inserts a registration after checking that both ends
// are live and that the pair is free.
func (s *Store) CreateRegistration(_ context.Context, registration *models.Registration) error {
	if err := repositories.ValidateRegistration(registration); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[registration.StudentID]; !ok {
		return fmt.Errorf("%w: id %d", apperrors.ErrStudentNotFound, registration.StudentID)
	}
	if _, ok := s.courses[registration.CourseID]; !ok {
		return fmt.Errorf("%w: id %d", apperrors.ErrCourseNotFound, registration.CourseID)
	}
	key := registration.Key()
	if _, exists := s.registrationsByKey[key]; exists {
		return apperrors.ErrDuplicateRegistration
	}
	if _, exists := s.registrations[registration.ID]; exists && registration.ID > 0 {
		return fmt.Errorf("%w: registration id %d", apperrors.ErrDuplicateKey, registration.ID)
	}

	registration.ID = nextID(registration.ID, &s.lastRegistrationID)
	s.registrations[registration.ID] = *registration
	s.registrationsByKey[key] = registration.ID
	return nil
}

// DeleteRegistration removes a registration by id.
func (s *Store) DeleteRegistration(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	registration, ok := s.registrations[id]
	if !ok {
		return apperrors.ErrRegistrationNotFound
	}
	delete(s.registrations, id)
	delete(s.registrationsByKey, registration.Key())
	return nil
}

// DeleteRegistrationByPair removes the live registration for key.
func (s *Store) DeleteRegistrationByPair(_ context.Context, key models.RegistrationKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.registrationsByKey[key]
	if !ok {
		return apperrors.ErrRegistrationNotFound
	}
	delete(s.registrations, id)
	delete(s.registrationsByKey, key)
	return nil
}

// GetRegistrationByID returns a copy of the registration.
func (s *Store) GetRegistrationByID(_ context.Context, id int64) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	registration, ok := s.registrations[id]
	if !ok {
		return nil, apperrors.ErrRegistrationNotFound
	}
	return &registration, nil
}

// ListRegistrations returns all registrations in insertion order.
func (s *Store) ListRegistrations(_ context.Context) ([]*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.registrations), nil
}

// ListRegistrationsByStudent returns the student's live registrations in insertion order.
func (s *Store) ListRegistrationsByStudent(_ context.Context, studentID int64) ([]*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*models.Registration{}
	for _, registration := range sortedValues(s.registrations) {
		if registration.StudentID == studentID {
			out = append(out, registration)
		}
	}
	return out, nil
}

// --- Results ---

// resolveResultLocked checks the natural keys of a result and fills in the
// denormalized course name. Callers hold the write lock.
func (s *Store) resolveResultLocked(result *models.Result) error {
	if _, ok := s.studentsByNumber[result.StudentNumber]; !ok {
		return fmt.Errorf("%w: %s", apperrors.ErrUnknownStudent, result.StudentNumber)
	}
	courseID, ok := s.coursesByCode[result.CourseCode]
	if !ok {
		return fmt.Errorf("%w: %s", apperrors.ErrUnknownCourse, result.CourseCode)
	}
	result.CourseName = s.courses[courseID].Title
	return nil
}

// CreateResult inserts a result.
func (s *Store) CreateResult(_ context.Context, result *models.Result) error {
	if err := repositories.ValidateResult(result); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.resolveResultLocked(result); err != nil {
		return err
	}
	if _, exists := s.results[result.ID]; exists && result.ID > 0 {
		return fmt.Errorf("%w: result id %d", apperrors.ErrDuplicateKey, result.ID)
	}

	result.ID = nextID(result.ID, &s.lastResultID)
	s.results[result.ID] = *result
	return nil
}

// UpdateResult replaces the result with the same id, re-resolving its keys.
func (s *Store) UpdateResult(_ context.Context, result *models.Result) error {
	if err := repositories.ValidateResult(result); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.results[result.ID]; !ok {
		return apperrors.ErrResultNotFound
	}
	if err := s.resolveResultLocked(result); err != nil {
		return err
	}
	s.results[result.ID] = *result
	return nil
}

// DeleteResult removes a result by id.
func (s *Store) DeleteResult(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.results[id]; !ok {
		return apperrors.ErrResultNotFound
	}
	delete(s.results, id)
	return nil
}

// GetResultByID returns a copy of the result.
func (s *Store) GetResultByID(_ context.Context, id int64) (*models.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.results[id]
	if !ok {
		return nil, apperrors.ErrResultNotFound
	}
	return &result, nil
}

// ListResults returns all results in insertion order.
func (s *Store) ListResults(_ context.Context) ([]*models.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.results), nil
}

// CountResultsByStudentNumber counts results recorded for studentNumber.
func (s *Store) CountResultsByStudentNumber(_ context.Context, studentNumber string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, r := range s.results {
		if r.StudentNumber == studentNumber {
			count++
		}
	}
	return count, nil
}

// --- Snapshot ---

// Snapshot copies every collection under one read lock.
func (s *Store) Snapshot(_ context.Context) (*models.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &models.Snapshot{
		Students:      make([]models.Student, 0, len(s.students)),
		Courses:       make([]models.Course, 0, len(s.courses)),
		Registrations: make([]models.Registration, 0, len(s.registrations)),
		Results:       make([]models.Result, 0, len(s.results)),
	}
	for _, v := range sortedValues(s.students) {
		snap.Students = append(snap.Students, *v)
	}
	for _, v := range sortedValues(s.courses) {
		snap.Courses = append(snap.Courses, *v)
	}
	for _, v := range sortedValues(s.registrations) {
		snap.Registrations = append(snap.Registrations, *v)
	}
	for _, v := range sortedValues(s.results) {
		snap.Results = append(snap.Results, *v)
	}
	return snap, nil
}

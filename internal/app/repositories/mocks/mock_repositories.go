// Mocks of the repository interfaces in mockgen's layout, kept in step with
// internal/app/repositories by hand. Regenerate with:
//
//	go generate ./internal/app/repositories
//

// Package mocks holds GoMock doubles of the repository interfaces.
package mocks

import (
	context "context"
	reflect "reflect"

	models "github.com/yigit/unirecords/internal/app/models"
	gomock "go.uber.org/mock/gomock"
)

// MockStudentRepository is a mock of StudentRepository interface.
type MockStudentRepository struct {
	ctrl     *gomock.Controller
	recorder *MockStudentRepositoryMockRecorder
	isgomock struct{}
}

// MockStudentRepositoryMockRecorder is the mock recorder for MockStudentRepository.
type MockStudentRepositoryMockRecorder struct {
	mock *MockStudentRepository
}

// NewMockStudentRepository creates a new mock instance.
func NewMockStudentRepository(ctrl *gomock.Controller) *MockStudentRepository {
	mock := &MockStudentRepository{ctrl: ctrl}
	mock.recorder = &MockStudentRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockStudentRepository) EXPECT() *MockStudentRepositoryMockRecorder {
	return m.recorder
}

// CreateStudent mocks base method.
func (m *MockStudentRepository) CreateStudent(ctx context.Context, student *models.Student) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateStudent", ctx, student)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreateStudent indicates an expected call of CreateStudent.
func (mr *MockStudentRepositoryMockRecorder) CreateStudent(ctx, student any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateStudent", reflect.TypeOf((*MockStudentRepository)(nil).CreateStudent), ctx, student)
}

// DeleteStudent mocks base method.
func (m *MockStudentRepository) DeleteStudent(ctx context.Context, id int64, policy models.DeletePolicy) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DeleteStudent", ctx, id, policy)
	ret0, _ := ret[0].(error)
	return ret0
}

// DeleteStudent indicates an expected call of DeleteStudent.
func (mr *MockStudentRepositoryMockRecorder) DeleteStudent(ctx, id, policy any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeleteStudent", reflect.TypeOf((*MockStudentRepository)(nil).DeleteStudent), ctx, id, policy)
}

// GetStudentByID mocks base method.
func (m *MockStudentRepository) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetStudentByID", ctx, id)
	ret0, _ := ret[0].(*models.Student)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetStudentByID indicates an expected call of GetStudentByID.
func (mr *MockStudentRepositoryMockRecorder) GetStudentByID(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetStudentByID", reflect.TypeOf((*MockStudentRepository)(nil).GetStudentByID), ctx, id)
}

// GetStudentByNumber mocks base method.
func (m *MockStudentRepository) GetStudentByNumber(ctx context.Context, studentNumber string) (*models.Student, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetStudentByNumber", ctx, studentNumber)
	ret0, _ := ret[0].(*models.Student)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetStudentByNumber indicates an expected call of GetStudentByNumber.
func (mr *MockStudentRepositoryMockRecorder) GetStudentByNumber(ctx, studentNumber any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetStudentByNumber", reflect.TypeOf((*MockStudentRepository)(nil).GetStudentByNumber), ctx, studentNumber)
}

// ListStudents mocks base method.
func (m *MockStudentRepository) ListStudents(ctx context.Context) ([]*models.Student, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListStudents", ctx)
	ret0, _ := ret[0].([]*models.Student)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListStudents indicates an expected call of ListStudents.
func (mr *MockStudentRepositoryMockRecorder) ListStudents(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListStudents", reflect.TypeOf((*MockStudentRepository)(nil).ListStudents), ctx)
}

// UpdateStudent mocks base method.
func (m *MockStudentRepository) UpdateStudent(ctx context.Context, student *models.Student) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateStudent", ctx, student)
	ret0, _ := ret[0].(error)
	return ret0
}

// UpdateStudent indicates an expected call of UpdateStudent.
func (mr *MockStudentRepositoryMockRecorder) UpdateStudent(ctx, student any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateStudent", reflect.TypeOf((*MockStudentRepository)(nil).UpdateStudent), ctx, student)
}

// MockCourseRepository is a mock of CourseRepository interface.
type MockCourseRepository struct {
	ctrl     *gomock.Controller
	recorder *MockCourseRepositoryMockRecorder
	isgomock struct{}
}

// MockCourseRepositoryMockRecorder is the mock recorder for MockCourseRepository.
type MockCourseRepositoryMockRecorder struct {
	mock *MockCourseRepository
}

// NewMockCourseRepository creates a new mock instance.
func NewMockCourseRepository(ctrl *gomock.Controller) *MockCourseRepository {
	mock := &MockCourseRepository{ctrl: ctrl}
	mock.recorder = &MockCourseRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockCourseRepository) EXPECT() *MockCourseRepositoryMockRecorder {
	return m.recorder
}

// CreateCourse mocks base method.
func (m *MockCourseRepository) CreateCourse(ctx context.Context, course *models.Course) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateCourse", ctx, course)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreateCourse indicates an expected call of CreateCourse.
func (mr *MockCourseRepositoryMockRecorder) CreateCourse(ctx, course any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateCourse", reflect.TypeOf((*MockCourseRepository)(nil).CreateCourse), ctx, course)
}

// DeleteCourse mocks base method.
func (m *MockCourseRepository) DeleteCourse(ctx context.Context, id int64, policy models.DeletePolicy) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DeleteCourse", ctx, id, policy)
	ret0, _ := ret[0].(error)
	return ret0
}

// DeleteCourse indicates an expected call of DeleteCourse.
func (mr *MockCourseRepositoryMockRecorder) DeleteCourse(ctx, id, policy any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeleteCourse", reflect.TypeOf((*MockCourseRepository)(nil).DeleteCourse), ctx, id, policy)
}

// GetCourseByCode mocks base method.
func (m *MockCourseRepository) GetCourseByCode(ctx context.Context, code string) (*models.Course, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetCourseByCode", ctx, code)
	ret0, _ := ret[0].(*models.Course)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetCourseByCode indicates an expected call of GetCourseByCode.
func (mr *MockCourseRepositoryMockRecorder) GetCourseByCode(ctx, code any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetCourseByCode", reflect.TypeOf((*MockCourseRepository)(nil).GetCourseByCode), ctx, code)
}

// GetCourseByID mocks base method.
func (m *MockCourseRepository) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetCourseByID", ctx, id)
	ret0, _ := ret[0].(*models.Course)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetCourseByID indicates an expected call of GetCourseByID.
func (mr *MockCourseRepositoryMockRecorder) GetCourseByID(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetCourseByID", reflect.TypeOf((*MockCourseRepository)(nil).GetCourseByID), ctx, id)
}

// ListCourses mocks base method.
func (m *MockCourseRepository) ListCourses(ctx context.Context) ([]*models.Course, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListCourses", ctx)
	ret0, _ := ret[0].([]*models.Course)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListCourses indicates an expected call of ListCourses.
func (mr *MockCourseRepositoryMockRecorder) ListCourses(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListCourses", reflect.TypeOf((*MockCourseRepository)(nil).ListCourses), ctx)
}

// UpdateCourse mocks base method.
func (m *MockCourseRepository) UpdateCourse(ctx context.Context, course *models.Course) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateCourse", ctx, course)
	ret0, _ := ret[0].(error)
	return ret0
}

// UpdateCourse indicates an expected call of UpdateCourse.
func (mr *MockCourseRepositoryMockRecorder) UpdateCourse(ctx, course any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateCourse", reflect.TypeOf((*MockCourseRepository)(nil).UpdateCourse), ctx, course)
}

// MockRegistrationRepository is a mock of RegistrationRepository interface.
type MockRegistrationRepository struct {
	ctrl     *gomock.Controller
	recorder *MockRegistrationRepositoryMockRecorder
	isgomock struct{}
}

// MockRegistrationRepositoryMockRecorder is the mock recorder for MockRegistrationRepository.
type MockRegistrationRepositoryMockRecorder struct {
	mock *MockRegistrationRepository
}

// NewMockRegistrationRepository creates a new mock instance.
func NewMockRegistrationRepository(ctrl *gomock.Controller) *MockRegistrationRepository {
	mock := &MockRegistrationRepository{ctrl: ctrl}
	mock.recorder = &MockRegistrationRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockRegistrationRepository) EXPECT() *MockRegistrationRepositoryMockRecorder {
	return m.recorder
}

// CreateRegistration mocks base method.
func (m *MockRegistrationRepository) CreateRegistration(ctx context.Context, registration *models.Registration) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateRegistration", ctx, registration)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreateRegistration indicates an expected call of CreateRegistration.
func (mr *MockRegistrationRepositoryMockRecorder) CreateRegistration(ctx, registration any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateRegistration", reflect.TypeOf((*MockRegistrationRepository)(nil).CreateRegistration), ctx, registration)
}

// DeleteRegistration mocks base method.
func (m *MockRegistrationRepository) DeleteRegistration(ctx context.Context, id int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DeleteRegistration", ctx, id)
	ret0, _ := ret[0].(error)
	return ret0
}

// DeleteRegistration indicates an expected call of DeleteRegistration.
func (mr *MockRegistrationRepositoryMockRecorder) DeleteRegistration(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeleteRegistration", reflect.TypeOf((*MockRegistrationRepository)(nil).DeleteRegistration), ctx, id)
}

// DeleteRegistrationByPair mocks base method.
func (m *MockRegistrationRepository) DeleteRegistrationByPair(ctx context.Context, key models.RegistrationKey) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DeleteRegistrationByPair", ctx, key)
	ret0, _ := ret[0].(error)
	return ret0
}

// DeleteRegistrationByPair indicates an expected call of DeleteRegistrationByPair.
func (mr *MockRegistrationRepositoryMockRecorder) DeleteRegistrationByPair(ctx, key any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeleteRegistrationByPair", reflect.TypeOf((*MockRegistrationRepository)(nil).DeleteRegistrationByPair), ctx, key)
}

// GetRegistrationByID mocks base method.
func (m *MockRegistrationRepository) GetRegistrationByID(ctx context.Context, id int64) (*models.Registration, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetRegistrationByID", ctx, id)
	ret0, _ := ret[0].(*models.Registration)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetRegistrationByID indicates an expected call of GetRegistrationByID.
func (mr *MockRegistrationRepositoryMockRecorder) GetRegistrationByID(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetRegistrationByID", reflect.TypeOf((*MockRegistrationRepository)(nil).GetRegistrationByID), ctx, id)
}

// ListRegistrations mocks base method.
func (m *MockRegistrationRepository) ListRegistrations(ctx context.Context) ([]*models.Registration, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListRegistrations", ctx)
	ret0, _ := ret[0].([]*models.Registration)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListRegistrations indicates an expected call of ListRegistrations.
func (mr *MockRegistrationRepositoryMockRecorder) ListRegistrations(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListRegistrations", reflect.TypeOf((*MockRegistrationRepository)(nil).ListRegistrations), ctx)
}

// ListRegistrationsByStudent mocks base method.
func (m *MockRegistrationRepository) ListRegistrationsByStudent(ctx context.Context, studentID int64) ([]*models.Registration, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListRegistrationsByStudent", ctx, studentID)
	ret0, _ := ret[0].([]*models.Registration)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListRegistrationsByStudent indicates an expected call of ListRegistrationsByStudent.
func (mr *MockRegistrationRepositoryMockRecorder) ListRegistrationsByStudent(ctx, studentID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListRegistrationsByStudent", reflect.TypeOf((*MockRegistrationRepository)(nil).ListRegistrationsByStudent), ctx, studentID)
}

// MockResultRepository is a mock of ResultRepository interface.
type MockResultRepository struct {
	ctrl     *gomock.Controller
	recorder *MockResultRepositoryMockRecorder
	isgomock struct{}
}

// MockResultRepositoryMockRecorder is the mock recorder for MockResultRepository.
type MockResultRepositoryMockRecorder struct {
	mock *MockResultRepository
}

// NewMockResultRepository creates a new mock instance.
func NewMockResultRepository(ctrl *gomock.Controller) *MockResultRepository {
	mock := &MockResultRepository{ctrl: ctrl}
	mock.recorder = &MockResultRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockResultRepository) EXPECT() *MockResultRepositoryMockRecorder {
	return m.recorder
}

// CountResultsByStudentNumber mocks base method.
func (m *MockResultRepository) CountResultsByStudentNumber(ctx context.Context, studentNumber string) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CountResultsByStudentNumber", ctx, studentNumber)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CountResultsByStudentNumber indicates an expected call of CountResultsByStudentNumber.
func (mr *MockResultRepositoryMockRecorder) CountResultsByStudentNumber(ctx, studentNumber any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CountResultsByStudentNumber", reflect.TypeOf((*MockResultRepository)(nil).CountResultsByStudentNumber), ctx, studentNumber)
}

// CreateResult mocks base method.
func (m *MockResultRepository) CreateResult(ctx context.Context, result *models.Result) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateResult", ctx, result)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreateResult indicates an expected call of CreateResult.
func (mr *MockResultRepositoryMockRecorder) CreateResult(ctx, result any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateResult", reflect.TypeOf((*MockResultRepository)(nil).CreateResult), ctx, result)
}

// DeleteResult mocks base method.
func (m *MockResultRepository) DeleteResult(ctx context.Context, id int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DeleteResult", ctx, id)
	ret0, _ := ret[0].(error)
	return ret0
}

// DeleteResult indicates an expected call of DeleteResult.
func (mr *MockResultRepositoryMockRecorder) DeleteResult(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeleteResult", reflect.TypeOf((*MockResultRepository)(nil).DeleteResult), ctx, id)
}

// GetResultByID mocks base method.
func (m *MockResultRepository) GetResultByID(ctx context.Context, id int64) (*models.Result, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetResultByID", ctx, id)
	ret0, _ := ret[0].(*models.Result)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetResultByID indicates an expected call of GetResultByID.
func (mr *MockResultRepositoryMockRecorder) GetResultByID(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetResultByID", reflect.TypeOf((*MockResultRepository)(nil).GetResultByID), ctx, id)
}

// ListResults mocks base method.
func (m *MockResultRepository) ListResults(ctx context.Context) ([]*models.Result, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListResults", ctx)
	ret0, _ := ret[0].([]*models.Result)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListResults indicates an expected call of ListResults.
func (mr *MockResultRepositoryMockRecorder) ListResults(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListResults", reflect.TypeOf((*MockResultRepository)(nil).ListResults), ctx)
}

// UpdateResult mocks base method.
func (m *MockResultRepository) UpdateResult(ctx context.Context, result *models.Result) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateResult", ctx, result)
	ret0, _ := ret[0].(error)
	return ret0
}

// UpdateResult indicates an expected call of UpdateResult.
func (mr *MockResultRepositoryMockRecorder) UpdateResult(ctx, result any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateResult", reflect.TypeOf((*MockResultRepository)(nil).UpdateResult), ctx, result)
}

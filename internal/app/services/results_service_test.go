package services

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/yigit/unirecords/internal/app/metrics"
	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/app/repositories/mocks"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
)

func TestRecordResultCountsOnlyStoredResults(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockResultRepository(ctrl)
	m := metrics.New()
	svc := NewResultsService(repo, m)

	gomock.InOrder(
		repo.EXPECT().CreateResult(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, r *models.Result) error {
			r.ID = 9
			r.CourseName = "Intro"
			return nil
		}),
		repo.EXPECT().CreateResult(gomock.Any(), gomock.Any()).Return(apperrors.ErrUnknownCourse),
	)

	result, err := svc.RecordResult(context.Background(), "STU001", "CS101", "A")
	require.NoError(t, err)
	assert.Equal(t, int64(9), result.ID)
	assert.Equal(t, "Intro", result.CourseName)

	_, err = svc.RecordResult(context.Background(), "STU001", "CS404", "A")
	assert.ErrorIs(t, err, apperrors.ErrUnknownCourse)

	assert.InDelta(t, 1, testutil.ToFloat64(m.ResultsRecorded), 0)
}

func TestUpdateResultKeepsID(t *testing.T) {
	ctx := context.Background()
	r := newRecords(t, models.DeletePolicyOrphan)
	r.addCourse(t, "CS101", "Intro", 3)
	r.addCourse(t, "MA101", "Calculus", 4)
	r.addStudent(t, "Jane", "STU001")

	created, err := r.results.RecordResult(ctx, "STU001", "CS101", "C")
	require.NoError(t, err)

	updated, err := r.results.UpdateResult(ctx, created.ID, models.ResultFields{StudentNumber: "STU001", CourseCode: "MA101", Grade: "B"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Calculus", updated.CourseName)

	_, err = r.results.UpdateResult(ctx, created.ID+1, models.ResultFields{StudentNumber: "STU001", CourseCode: "MA101", Grade: "B"})
	assert.ErrorIs(t, err, apperrors.ErrResultNotFound)

	require.NoError(t, r.results.DeleteResult(ctx, created.ID))
	_, err = r.results.GetResult(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrResultNotFound)
}

func TestRecordResultTrimsArguments(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockResultRepository(ctrl)
	svc := NewResultsService(repo, metrics.New())

	repo.EXPECT().CreateResult(gomock.Any(), &models.Result{StudentNumber: "STU001", CourseCode: "CS101", Grade: "B+"}).Return(nil)

	result, err := svc.RecordResult(context.Background(), " STU001", "CS101 ", " B+ ")
	require.NoError(t, err)
	assert.Equal(t, models.GradeTierGood, models.GradeTierOf(result.Grade))
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MateoMinghi/via-alta-sub001/internal/models"
	appErrors "github.com/MateoMinghi/via-alta-sub001/pkg/errors"
)

type mockOccupancyReader struct {
	occupancy      []models.GroupOccupancy
	err            error
	lastCycleID    int64
	lastExcludedID int64
}

func (m *mockOccupancyReader) ListOccupancy(ctx context.Context, cycleID, excludeGroupID int64) ([]models.GroupOccupancy, error) {
	m.lastCycleID = cycleID
	m.lastExcludedID = excludeGroupID
	if m.err != nil {
		return nil, m.err
	}
	var filtered []models.GroupOccupancy
	for _, occ := range m.occupancy {
		if occ.GroupID == excludeGroupID {
			continue
		}
		filtered = append(filtered, occ)
	}
	return filtered, nil
}

func TestConflictCheckerAllowsFreeSchedule(t *testing.T) {
	reader := &mockOccupancyReader{occupancy: []models.GroupOccupancy{
		{GroupID: 1, ProfessorID: 7, DayOfWeek: "MON", StartMinute: 540, EndMinute: 630},
	}}
	checker := NewConflictChecker(reader, nil)

	blocks := []models.MeetingBlock{{DayOfWeek: "TUE", StartMinute: 540, EndMinute: 630, SubjectID: 1}}
	err := checker.Check(context.Background(), 10, 7, nil, blocks, 0)
	assert.NoError(t, err)
	assert.Equal(t, int64(10), reader.lastCycleID)
}

func TestConflictCheckerAllowsBackToBack(t *testing.T) {
	reader := &mockOccupancyReader{occupancy: []models.GroupOccupancy{
		{GroupID: 1, ProfessorID: 7, DayOfWeek: "MON", StartMinute: 540, EndMinute: 630},
	}}
	checker := NewConflictChecker(reader, nil)

	blocks := []models.MeetingBlock{{DayOfWeek: "MON", StartMinute: 630, EndMinute: 720, SubjectID: 1}}
	assert.NoError(t, checker.Check(context.Background(), 10, 7, nil, blocks, 0))
}

func TestConflictCheckerRejectsProfessorOverlap(t *testing.T) {
	reader := &mockOccupancyReader{occupancy: []models.GroupOccupancy{
		{GroupID: 42, ProfessorID: 7, DayOfWeek: "MON", StartMinute: 540, EndMinute: 630},
	}}
	checker := NewConflictChecker(reader, nil)

	blocks := []models.MeetingBlock{{DayOfWeek: "MON", StartMinute: 600, EndMinute: 660, SubjectID: 1}}
	err := checker.Check(context.Background(), 10, 7, nil, blocks, 0)
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)

	var conflictErr *models.GroupConflictError
	require.True(t, errors.As(err, &conflictErr))
	assert.Equal(t, models.ConflictProfessor, conflictErr.Conflict.Dimension)
	assert.Equal(t, int64(42), conflictErr.Conflict.GroupID)
}

func TestConflictCheckerRejectsClassroomOverlap(t *testing.T) {
	room := int64(3)
	reader := &mockOccupancyReader{occupancy: []models.GroupOccupancy{
		{GroupID: 42, ProfessorID: 99, ClassroomID: &room, DayOfWeek: "MON", StartMinute: 540, EndMinute: 630},
	}}
	checker := NewConflictChecker(reader, nil)

	blocks := []models.MeetingBlock{{DayOfWeek: "MON", StartMinute: 600, EndMinute: 660, SubjectID: 1}}
	err := checker.Check(context.Background(), 10, 7, &room, blocks, 0)
	require.Error(t, err)

	var conflictErr *models.GroupConflictError
	require.True(t, errors.As(err, &conflictErr))
	assert.Equal(t, models.ConflictClassroom, conflictErr.Conflict.Dimension)
}

func TestConflictCheckerIgnoresOverlapWithoutSharedResource(t *testing.T) {
	room := int64(3)
	otherRoom := int64(4)
	reader := &mockOccupancyReader{occupancy: []models.GroupOccupancy{
		{GroupID: 42, ProfessorID: 99, ClassroomID: &otherRoom, DayOfWeek: "MON", StartMinute: 540, EndMinute: 630},
	}}
	checker := NewConflictChecker(reader, nil)

	blocks := []models.MeetingBlock{{DayOfWeek: "MON", StartMinute: 600, EndMinute: 660, SubjectID: 1}}
	assert.NoError(t, checker.Check(context.Background(), 10, 7, &room, blocks, 0))
}

func TestConflictCheckerExcludesGroupUnderUpdate(t *testing.T) {
	reader := &mockOccupancyReader{occupancy: []models.GroupOccupancy{
		{GroupID: 42, ProfessorID: 7, DayOfWeek: "MON", StartMinute: 540, EndMinute: 630},
	}}
	checker := NewConflictChecker(reader, nil)

	blocks := []models.MeetingBlock{{DayOfWeek: "MON", StartMinute: 540, EndMinute: 630, SubjectID: 1}}
	assert.NoError(t, checker.Check(context.Background(), 10, 7, nil, blocks, 42))
	assert.Equal(t, int64(42), reader.lastExcludedID)
}

func TestConflictCheckerSkipsLoadForEmptyBlocks(t *testing.T) {
	reader := &mockOccupancyReader{err: errors.New("should not be called")}
	checker := NewConflictChecker(reader, nil)

	assert.NoError(t, checker.Check(context.Background(), 10, 7, nil, nil, 0))
}

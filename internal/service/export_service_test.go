package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/MateoMinghi/via-alta-sub001/pkg/errors"
)

func TestProfessorScheduleCSV(t *testing.T) {
	groups, professors, availability, classrooms, cycles := testFixture()
	groupSvc := newTestGroupService(groups, professors, availability, classrooms, cycles, DefaultAggregationPolicy())

	cycleID := int64(10)
	roomID := int64(3)
	_, err := groupSvc.Create(context.Background(), CreateGroupRequest{SubjectID: 12, ProfessorID: 7, CycleID: &cycleID, ClassroomID: &roomID})
	require.NoError(t, err)

	svc := NewExportService(groups, professors, classrooms, cycles, nil)
	result, err := svc.ProfessorSchedule(context.Background(), 7, &cycleID, "csv")
	require.NoError(t, err)

	assert.Equal(t, "text/csv", result.ContentType)
	assert.Equal(t, "schedule_professor_7_cycle_10.csv", result.Filename)

	body := string(result.Data)
	assert.True(t, strings.HasPrefix(body, "Day,Start,End,Subject,Group,Classroom"))
	assert.Contains(t, body, "MON,09:00,10:30,Subject 12,1,A-101")
}

func TestProfessorSchedulePDF(t *testing.T) {
	groups, professors, availability, classrooms, cycles := testFixture()
	groupSvc := newTestGroupService(groups, professors, availability, classrooms, cycles, DefaultAggregationPolicy())

	cycleID := int64(10)
	_, err := groupSvc.Create(context.Background(), CreateGroupRequest{SubjectID: 12, ProfessorID: 7, CycleID: &cycleID})
	require.NoError(t, err)

	svc := NewExportService(groups, professors, classrooms, cycles, nil)
	result, err := svc.ProfessorSchedule(context.Background(), 7, &cycleID, "pdf")
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasPrefix(string(result.Data), "%PDF"))
}

func TestProfessorScheduleRejectsUnknownFormat(t *testing.T) {
	groups, professors, _, classrooms, cycles := testFixture()
	svc := NewExportService(groups, professors, classrooms, cycles, nil)

	_, err := svc.ProfessorSchedule(context.Background(), 7, nil, "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestProfessorScheduleUnknownProfessor(t *testing.T) {
	groups, professors, _, classrooms, cycles := testFixture()
	svc := NewExportService(groups, professors, classrooms, cycles, nil)

	_, err := svc.ProfessorSchedule(context.Background(), 404, nil, "csv")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

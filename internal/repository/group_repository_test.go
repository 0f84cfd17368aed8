package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MateoMinghi/via-alta-sub001/internal/models"
)

func TestGroupRepositoryNextGroupID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGroupRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(id), 0) + 1 FROM groups")).
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(6))

	next, err := repo.NextGroupID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(6), next)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepositoryListOccupancyExcludesGroup(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGroupRepository(db)

	rows := sqlmock.NewRows([]string{"group_id", "subject_id", "professor_id", "classroom_id", "day_of_week", "start_minute", "end_minute"}).
		AddRow(2, 12, 7, nil, "MON", 540, 630)
	mock.ExpectQuery("SELECT g.id AS group_id").
		WithArgs(int64(10), int64(5)).
		WillReturnRows(rows)

	occupancy, err := repo.ListOccupancy(context.Background(), 10, 5)
	require.NoError(t, err)
	require.Len(t, occupancy, 1)
	assert.Equal(t, int64(2), occupancy[0].GroupID)
	assert.Equal(t, "MON", occupancy[0].DayOfWeek)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepositoryCreateWithMeetingsAllocatesID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGroupRepository(db)

	group := &models.Group{SubjectID: 12, ProfessorID: 7, CycleID: 10}
	meetings := []models.GroupMeeting{{DayOfWeek: "MON", StartMinute: 540, EndMinute: 630}}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock($1)")).
		WithArgs(int64(7415201)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(id), 0) + 1 FROM groups")).
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(3))
	// Re-validation finds no colliding row for the single meeting.
	mock.ExpectQuery("SELECT g.id AS group_id").
		WithArgs(int64(10), int64(0), "MON", 630, 540, int64(7), nil).
		WillReturnRows(sqlmock.NewRows([]string{"group_id"}))
	mock.ExpectExec("INSERT INTO groups").
		WithArgs(int64(3), int64(12), int64(7), nil, int64(10), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO group_meetings").
		WithArgs(sqlmock.AnyArg(), int64(3), "MON", 540, 630, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.CreateWithMeetings(context.Background(), group, meetings)
	require.NoError(t, err)
	assert.Equal(t, int64(3), group.ID)
	require.NotEmpty(t, meetings[0].ID)
	assert.Equal(t, int64(3), meetings[0].GroupID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepositoryCreateWithMeetingsDetectsRace(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGroupRepository(db)

	group := &models.Group{SubjectID: 12, ProfessorID: 7, CycleID: 10}
	meetings := []models.GroupMeeting{{DayOfWeek: "MON", StartMinute: 540, EndMinute: 630}}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock($1)")).
		WithArgs(int64(7415201)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(id), 0) + 1 FROM groups")).
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(3))
	// A group committed after the service-level check occupies the window.
	occupied := sqlmock.NewRows([]string{"group_id", "subject_id", "professor_id", "classroom_id", "day_of_week", "start_minute", "end_minute"}).
		AddRow(2, 99, 7, nil, "MON", 600, 660)
	mock.ExpectQuery("SELECT g.id AS group_id").
		WithArgs(int64(10), int64(0), "MON", 630, 540, int64(7), nil).
		WillReturnRows(occupied)
	mock.ExpectRollback()

	err := repo.CreateWithMeetings(context.Background(), group, meetings)
	require.Error(t, err)

	var conflictErr *models.GroupConflictError
	require.True(t, errors.As(err, &conflictErr))
	assert.Equal(t, models.ConflictProfessor, conflictErr.Conflict.Dimension)
	assert.Equal(t, int64(2), conflictErr.Conflict.GroupID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepositoryUpdateWithMeetingsReplacesRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGroupRepository(db)

	room := int64(3)
	group := &models.Group{ID: 5, SubjectID: 12, ProfessorID: 7, ClassroomID: &room, CycleID: 10}
	meetings := []models.GroupMeeting{{DayOfWeek: "TUE", StartMinute: 600, EndMinute: 660}}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock($1)")).
		WithArgs(int64(7415201)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	// Own rows are excluded from re-validation.
	mock.ExpectQuery("SELECT g.id AS group_id").
		WithArgs(int64(10), int64(5), "TUE", 660, 600, int64(7), &room).
		WillReturnRows(sqlmock.NewRows([]string{"group_id"}))
	mock.ExpectExec("UPDATE groups SET").
		WithArgs(int64(12), int64(7), &room, int64(10), sqlmock.AnyArg(), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM group_meetings WHERE group_id = $1")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO group_meetings").
		WithArgs(sqlmock.AnyArg(), int64(5), "TUE", 600, 660, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.UpdateWithMeetings(context.Background(), group, meetings)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGroupRepository(db)

	mock.ExpectQuery("SELECT id, subject_id, professor_id").
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), 404)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

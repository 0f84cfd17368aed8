package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MateoMinghi/via-alta-sub001/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAvailabilityRepositoryGetByProfessor(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	now := time.Now()
	subject := int64(12)
	rows := sqlmock.NewRows([]string{"id", "professor_id", "day_of_week", "start_minute", "end_minute", "subject_id", "created_at"}).
		AddRow(1, 7, "MON", 540, 570, subject, now).
		AddRow(2, 7, "MON", 570, 600, nil, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, professor_id, day_of_week, start_minute, end_minute, subject_id, created_at FROM availability_slots WHERE professor_id = $1")).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	slots, err := repo.GetByProfessor(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	require.NotNil(t, slots[0].SubjectID)
	assert.Equal(t, int64(12), *slots[0].SubjectID)
	assert.Nil(t, slots[1].SubjectID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryListProfessorIDsWithPreferences(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	rows := sqlmock.NewRows([]string{"professor_id"}).AddRow(3).AddRow(7)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT professor_id FROM availability_slots WHERE subject_id IS NOT NULL ORDER BY professor_id ASC")).
		WillReturnRows(rows)

	ids, err := repo.ListProfessorIDsWithPreferences(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 7}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryReplaceForProfessor(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	subject := int64(12)
	slots := []models.AvailabilitySlot{
		{DayOfWeek: "MON", StartMinute: 540, EndMinute: 570, SubjectID: &subject},
		{DayOfWeek: "TUE", StartMinute: 600, EndMinute: 630},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM availability_slots WHERE professor_id = $1")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(id), 0) FROM availability_slots")).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(40))
	mock.ExpectExec("INSERT INTO availability_slots").
		WithArgs(int64(41), int64(7), "MON", 540, 570, &subject, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO availability_slots").
		WithArgs(int64(42), int64(7), "TUE", 600, 630, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	inserted, err := repo.ReplaceForProfessor(context.Background(), 7, slots)
	require.NoError(t, err)
	require.Len(t, inserted, 2)
	assert.Equal(t, int64(41), inserted[0].ID)
	assert.Equal(t, int64(42), inserted[1].ID)
	assert.Equal(t, int64(7), inserted[1].ProfessorID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryReplaceRollsBackOnInsertFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	slots := []models.AvailabilitySlot{{DayOfWeek: "MON", StartMinute: 540, EndMinute: 570}}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM availability_slots WHERE professor_id = $1")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(id), 0) FROM availability_slots")).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))
	mock.ExpectExec("INSERT INTO availability_slots").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := repo.ReplaceForProfessor(context.Background(), 7, slots)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

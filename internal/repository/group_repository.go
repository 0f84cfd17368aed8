package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/MateoMinghi/via-alta-sub001/internal/models"
)

// groupAllocLock is the advisory lock key serializing group id allocation
// and conflict re-validation across concurrent transactions.
const groupAllocLock int64 = 7415201

// GroupRepository persists groups and their weekly meeting rows.
type GroupRepository struct {
	db *sqlx.DB
}

// NewGroupRepository creates a new group repository.
func NewGroupRepository(db *sqlx.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// FindByID loads a group header by id.
func (r *GroupRepository) FindByID(ctx context.Context, id int64) (*models.Group, error) {
	const query = `SELECT id, subject_id, professor_id, classroom_id, cycle_id, created_at, updated_at FROM groups WHERE id = $1`
	var group models.Group
	if err := r.db.GetContext(ctx, &group, query, id); err != nil {
		return nil, err
	}
	return &group, nil
}

// ListMeetings returns the meeting rows of a group ordered by day/time.
func (r *GroupRepository) ListMeetings(ctx context.Context, groupID int64) ([]models.GroupMeeting, error) {
	const query = `SELECT id, group_id, day_of_week, start_minute, end_minute, created_at FROM group_meetings WHERE group_id = $1 ORDER BY day_of_week ASC, start_minute ASC`
	var meetings []models.GroupMeeting
	if err := r.db.SelectContext(ctx, &meetings, query, groupID); err != nil {
		return nil, fmt.Errorf("list group meetings: %w", err)
	}
	return meetings, nil
}

// ListByCycle returns group headers in a cycle ordered by id.
func (r *GroupRepository) ListByCycle(ctx context.Context, cycleID int64) ([]models.Group, error) {
	const query = `SELECT id, subject_id, professor_id, classroom_id, cycle_id, created_at, updated_at FROM groups WHERE cycle_id = $1 ORDER BY id ASC`
	var groups []models.Group
	if err := r.db.SelectContext(ctx, &groups, query, cycleID); err != nil {
		return nil, fmt.Errorf("list groups by cycle: %w", err)
	}
	return groups, nil
}

// ListByProfessorAndCycle returns a professor's groups in a cycle.
func (r *GroupRepository) ListByProfessorAndCycle(ctx context.Context, professorID, cycleID int64) ([]models.Group, error) {
	const query = `SELECT id, subject_id, professor_id, classroom_id, cycle_id, created_at, updated_at FROM groups WHERE professor_id = $1 AND cycle_id = $2 ORDER BY id ASC`
	var groups []models.Group
	if err := r.db.SelectContext(ctx, &groups, query, professorID, cycleID); err != nil {
		return nil, fmt.Errorf("list groups by professor: %w", err)
	}
	return groups, nil
}

// ListOccupancy returns every meeting row in a cycle joined with its owning
// group, optionally excluding one group (pass 0 to exclude none).
func (r *GroupRepository) ListOccupancy(ctx context.Context, cycleID, excludeGroupID int64) ([]models.GroupOccupancy, error) {
	const query = `SELECT g.id AS group_id, g.subject_id, g.professor_id, g.classroom_id, gm.day_of_week, gm.start_minute, gm.end_minute
		FROM group_meetings gm
		JOIN groups g ON g.id = gm.group_id
		WHERE g.cycle_id = $1 AND g.id <> $2
		ORDER BY g.id ASC, gm.day_of_week ASC, gm.start_minute ASC`
	var rows []models.GroupOccupancy
	if err := r.db.SelectContext(ctx, &rows, query, cycleID, excludeGroupID); err != nil {
		return nil, fmt.Errorf("list cycle occupancy: %w", err)
	}
	return rows, nil
}

// NextGroupID reports the next allocatable group id. The value is advisory:
// the id actually used by a create is allocated inside its transaction.
func (r *GroupRepository) NextGroupID(ctx context.Context) (int64, error) {
	var next int64
	if err := r.db.GetContext(ctx, &next, `SELECT COALESCE(MAX(id), 0) + 1 FROM groups`); err != nil {
		return 0, fmt.Errorf("next group id: %w", err)
	}
	return next, nil
}

// CreateWithMeetings commits a group header and its meeting rows as one
// atomic unit. When group.ID is zero an id is allocated inside the
// transaction. An advisory lock serializes allocation and the conflict
// re-validation so two concurrent creates cannot both pass the check.
func (r *GroupRepository) CreateWithMeetings(ctx context.Context, group *models.Group, meetings []models.GroupMeeting) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create group: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, groupAllocLock); err != nil {
		return fmt.Errorf("acquire group lock: %w", err)
	}

	if group.ID == 0 {
		if err = tx.GetContext(ctx, &group.ID, `SELECT COALESCE(MAX(id), 0) + 1 FROM groups`); err != nil {
			return fmt.Errorf("allocate group id: %w", err)
		}
	}

	if err = r.revalidate(ctx, tx, group, meetings, 0); err != nil {
		return err
	}

	now := time.Now().UTC()
	group.CreatedAt = now
	group.UpdatedAt = now
	if _, err = tx.NamedExecContext(ctx, `INSERT INTO groups (id, subject_id, professor_id, classroom_id, cycle_id, created_at, updated_at) VALUES (:id, :subject_id, :professor_id, :classroom_id, :cycle_id, :created_at, :updated_at)`, group); err != nil {
		return fmt.Errorf("insert group: %w", err)
	}

	if err = r.insertMeetings(ctx, tx, group.ID, meetings); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create group: %w", err)
	}
	return nil
}

// UpdateWithMeetings replaces a group's attributes and meeting rows in one
// transaction. The group keeps its id; prior occupancy is ignored during
// re-validation.
func (r *GroupRepository) UpdateWithMeetings(ctx context.Context, group *models.Group, meetings []models.GroupMeeting) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update group: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, groupAllocLock); err != nil {
		return fmt.Errorf("acquire group lock: %w", err)
	}

	if err = r.revalidate(ctx, tx, group, meetings, group.ID); err != nil {
		return err
	}

	group.UpdatedAt = time.Now().UTC()
	if _, err = tx.NamedExecContext(ctx, `UPDATE groups SET subject_id = :subject_id, professor_id = :professor_id, classroom_id = :classroom_id, cycle_id = :cycle_id, updated_at = :updated_at WHERE id = :id`, group); err != nil {
		return fmt.Errorf("update group: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM group_meetings WHERE group_id = $1`, group.ID); err != nil {
		return fmt.Errorf("delete group meetings: %w", err)
	}

	if err = r.insertMeetings(ctx, tx, group.ID, meetings); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update group: %w", err)
	}
	return nil
}

// revalidate re-runs the overlap check inside the transaction. The service
// layer checks first for precise reporting; this guards the commit against
// a group committed after that check.
func (r *GroupRepository) revalidate(ctx context.Context, tx *sqlx.Tx, group *models.Group, meetings []models.GroupMeeting, excludeGroupID int64) error {
	const query = `SELECT g.id AS group_id, g.subject_id, g.professor_id, g.classroom_id, gm.day_of_week, gm.start_minute, gm.end_minute
		FROM group_meetings gm
		JOIN groups g ON g.id = gm.group_id
		WHERE g.cycle_id = $1 AND g.id <> $2 AND gm.day_of_week = $3
		AND gm.start_minute < $4 AND gm.end_minute > $5
		AND (g.professor_id = $6 OR (g.classroom_id IS NOT NULL AND g.classroom_id = $7))
		LIMIT 1`

	for _, meeting := range meetings {
		var occ models.GroupOccupancy
		err := tx.GetContext(ctx, &occ, query, group.CycleID, excludeGroupID, meeting.DayOfWeek, meeting.EndMinute, meeting.StartMinute, group.ProfessorID, group.ClassroomID)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return fmt.Errorf("revalidate group meetings: %w", err)
		}

		dimension := models.ConflictClassroom
		if occ.ProfessorID == group.ProfessorID {
			dimension = models.ConflictProfessor
		}
		block := meeting.Block(group.SubjectID)
		return &models.GroupConflictError{
			Message: fmt.Sprintf("meeting %s collides with group %d", block.Label(), occ.GroupID),
			Conflict: models.GroupConflict{
				Dimension: dimension,
				GroupID:   occ.GroupID,
				Block:     block,
				Existing:  occ,
			},
		}
	}
	return nil
}

func (r *GroupRepository) insertMeetings(ctx context.Context, tx *sqlx.Tx, groupID int64, meetings []models.GroupMeeting) error {
	now := time.Now().UTC()
	for i := range meetings {
		meeting := meetings[i]
		if meeting.ID == "" {
			meeting.ID = uuid.NewString()
		}
		meeting.GroupID = groupID
		meeting.CreatedAt = now

		if _, err := tx.NamedExecContext(ctx, `INSERT INTO group_meetings (id, group_id, day_of_week, start_minute, end_minute, created_at) VALUES (:id, :group_id, :day_of_week, :start_minute, :end_minute, :created_at)`, &meeting); err != nil {
			return fmt.Errorf("insert group meeting: %w", err)
		}
		meetings[i] = meeting
	}
	return nil
}

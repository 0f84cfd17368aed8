package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/MateoMinghi/via-alta-sub001/internal/models"
)

// AvailabilityRepository persists professors' weekly availability grids.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository constructs the repository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// GetByProfessor returns all availability slots for a professor.
func (r *AvailabilityRepository) GetByProfessor(ctx context.Context, professorID int64) ([]models.AvailabilitySlot, error) {
	const query = `SELECT id, professor_id, day_of_week, start_minute, end_minute, subject_id, created_at FROM availability_slots WHERE professor_id = $1 ORDER BY day_of_week ASC, start_minute ASC`
	var slots []models.AvailabilitySlot
	if err := r.db.SelectContext(ctx, &slots, query, professorID); err != nil {
		return nil, fmt.Errorf("list availability slots: %w", err)
	}
	return slots, nil
}

// ListProfessorIDsWithPreferences returns, in ascending order, every
// professor that declared at least one slot with a subject preference.
func (r *AvailabilityRepository) ListProfessorIDsWithPreferences(ctx context.Context) ([]int64, error) {
	const query = `SELECT DISTINCT professor_id FROM availability_slots WHERE subject_id IS NOT NULL ORDER BY professor_id ASC`
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("list professors with preferences: %w", err)
	}
	return ids, nil
}

// ReplaceForProfessor swaps the professor's whole grid in one transaction:
// prior slots are deleted, then the new set is inserted with ids allocated
// above the current maximum. The delete and insert commit together so the
// professor never appears to have an empty grid mid-save.
func (r *AvailabilityRepository) ReplaceForProfessor(ctx context.Context, professorID int64, slots []models.AvailabilitySlot) ([]models.AvailabilitySlot, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin replace availability: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM availability_slots WHERE professor_id = $1`, professorID); err != nil {
		return nil, fmt.Errorf("delete availability slots: %w", err)
	}

	var maxID int64
	if err = tx.GetContext(ctx, &maxID, `SELECT COALESCE(MAX(id), 0) FROM availability_slots`); err != nil {
		return nil, fmt.Errorf("read max slot id: %w", err)
	}

	now := time.Now().UTC()
	inserted := make([]models.AvailabilitySlot, 0, len(slots))
	for i := range slots {
		slot := slots[i]
		slot.ID = maxID + int64(i) + 1
		slot.ProfessorID = professorID
		slot.CreatedAt = now

		if _, err = tx.NamedExecContext(ctx, `INSERT INTO availability_slots (id, professor_id, day_of_week, start_minute, end_minute, subject_id, created_at) VALUES (:id, :professor_id, :day_of_week, :start_minute, :end_minute, :subject_id, :created_at)`, &slot); err != nil {
			return nil, fmt.Errorf("insert availability slot: %w", err)
		}
		inserted = append(inserted, slot)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit replace availability: %w", err)
	}
	return inserted, nil
}

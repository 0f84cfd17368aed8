package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/MateoMinghi/via-alta-sub001/internal/models"
)

// CycleRepository provides read access to academic cycles.
type CycleRepository struct {
	db *sqlx.DB
}

// NewCycleRepository creates a new cycle repository.
func NewCycleRepository(db *sqlx.DB) *CycleRepository {
	return &CycleRepository{db: db}
}

// FindByID loads a cycle by id.
func (r *CycleRepository) FindByID(ctx context.Context, id int64) (*models.Cycle, error) {
	const query = `SELECT id, name, start_date, end_date, created_at FROM cycles WHERE id = $1`
	var cycle models.Cycle
	if err := r.db.GetContext(ctx, &cycle, query, id); err != nil {
		return nil, err
	}
	return &cycle, nil
}

// Latest returns the most recent cycle by start date.
func (r *CycleRepository) Latest(ctx context.Context) (*models.Cycle, error) {
	const query = `SELECT id, name, start_date, end_date, created_at FROM cycles ORDER BY start_date DESC, id DESC LIMIT 1`
	var cycle models.Cycle
	if err := r.db.GetContext(ctx, &cycle, query); err != nil {
		return nil, err
	}
	return &cycle, nil
}

// List returns all cycles, newest first.
func (r *CycleRepository) List(ctx context.Context) ([]models.Cycle, error) {
	const query = `SELECT id, name, start_date, end_date, created_at FROM cycles ORDER BY start_date DESC, id DESC`
	var cycles []models.Cycle
	if err := r.db.SelectContext(ctx, &cycles, query); err != nil {
		return nil, fmt.Errorf("list cycles: %w", err)
	}
	return cycles, nil
}

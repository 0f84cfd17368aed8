package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/MateoMinghi/via-alta-sub001/internal/models"
)

// ClassroomRepository provides read access to classroom reference data.
type ClassroomRepository struct {
	db *sqlx.DB
}

// NewClassroomRepository creates a new classroom repository.
func NewClassroomRepository(db *sqlx.DB) *ClassroomRepository {
	return &ClassroomRepository{db: db}
}

// FindByID loads a classroom by id.
func (r *ClassroomRepository) FindByID(ctx context.Context, id int64) (*models.Classroom, error) {
	const query = `SELECT id, name, capacity, type, created_at FROM classrooms WHERE id = $1`
	var room models.Classroom
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		return nil, err
	}
	return &room, nil
}

// List returns all classrooms ordered by id.
func (r *ClassroomRepository) List(ctx context.Context) ([]models.Classroom, error) {
	const query = `SELECT id, name, capacity, type, created_at FROM classrooms ORDER BY id ASC`
	var rooms []models.Classroom
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list classrooms: %w", err)
	}
	return rooms, nil
}

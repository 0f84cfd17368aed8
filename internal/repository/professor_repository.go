package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/MateoMinghi/via-alta-sub001/internal/models"
)

// ProfessorRepository provides read access to the professor roster. The
// roster is owned by admin tooling; this service never mutates it.
type ProfessorRepository struct {
	db *sqlx.DB
}

// NewProfessorRepository creates a new professor repository.
func NewProfessorRepository(db *sqlx.DB) *ProfessorRepository {
	return &ProfessorRepository{db: db}
}

// List returns professors with optional filtering and pagination.
func (r *ProfessorRepository) List(ctx context.Context, filter models.ProfessorFilter) ([]models.Professor, int, error) {
	base := "FROM professors WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(full_name ILIKE $%d OR subjects ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"id":         true,
		"full_name":  true,
		"created_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "id"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT id, full_name, email, subjects, active, created_at, updated_at %s ORDER BY %s %s LIMIT %d OFFSET %d", base, sortBy, order, size, offset)
	var professors []models.Professor
	if err := r.db.SelectContext(ctx, &professors, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list professors: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count professors: %w", err)
	}

	return professors, total, nil
}

// FindByID loads a professor by id.
func (r *ProfessorRepository) FindByID(ctx context.Context, id int64) (*models.Professor, error) {
	const query = `SELECT id, full_name, email, subjects, active, created_at, updated_at FROM professors WHERE id = $1`
	var prof models.Professor
	if err := r.db.GetContext(ctx, &prof, query, id); err != nil {
		return nil, err
	}
	return &prof, nil
}

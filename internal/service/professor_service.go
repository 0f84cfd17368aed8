package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/MateoMinghi/via-alta-sub001/internal/models"
	appErrors "github.com/MateoMinghi/via-alta-sub001/pkg/errors"
)

type professorRepository interface {
	List(ctx context.Context, filter models.ProfessorFilter) ([]models.Professor, int, error)
	FindByID(ctx context.Context, id int64) (*models.Professor, error)
}

// ProfessorService exposes the read-only professor directory.
type ProfessorService struct {
	repo   professorRepository
	logger *zap.Logger
}

// NewProfessorService constructs a ProfessorService.
func NewProfessorService(repo professorRepository, logger *zap.Logger) *ProfessorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfessorService{repo: repo, logger: logger}
}

// List returns professors matching the filter plus the unpaged total.
func (s *ProfessorService) List(ctx context.Context, filter models.ProfessorFilter) ([]models.Professor, int, error) {
	professors, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list professors")
	}
	return professors, total, nil
}

// Get returns one professor.
func (s *ProfessorService) Get(ctx context.Context, id int64) (*models.Professor, error) {
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "professor id is required")
	}
	professor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "professor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load professor")
	}
	return professor, nil
}

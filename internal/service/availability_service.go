package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/MateoMinghi/via-alta-sub001/internal/models"
	appErrors "github.com/MateoMinghi/via-alta-sub001/pkg/errors"
)

type availabilityRepo interface {
	GetByProfessor(ctx context.Context, professorID int64) ([]models.AvailabilitySlot, error)
	ReplaceForProfessor(ctx context.Context, professorID int64, slots []models.AvailabilitySlot) ([]models.AvailabilitySlot, error)
}

// AvailabilityView is the wire projection of a professor's grid: slot keys
// mapped to availability, and slot keys mapped to subject preferences.
type AvailabilityView struct {
	ProfessorID  int64            `json:"professor_id"`
	Availability map[string]bool  `json:"availability"`
	Preferences  map[string]int64 `json:"preferences"`
}

// ReplaceAvailabilityRequest replaces a professor's whole grid.
type ReplaceAvailabilityRequest struct {
	ProfessorID  int64            `json:"professor_id" validate:"required,gt=0"`
	Availability map[string]bool  `json:"availability"`
	Preferences  map[string]int64 `json:"preferences"`
}

// AvailabilityService reads and replaces weekly availability grids.
type AvailabilityService struct {
	repo       availabilityRepo
	professors professorReader
	cache      *CacheService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewAvailabilityService builds the service.
func NewAvailabilityService(repo availabilityRepo, professors professorReader, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{
		repo:       repo,
		professors: professors,
		cache:      cache,
		validator:  validate,
		logger:     logger,
	}
}

func availabilityCacheKey(professorID int64) string {
	return fmt.Sprintf("availability:professor:%d", professorID)
}

// Get returns the professor's current grid, served from cache when possible.
func (s *AvailabilityService) Get(ctx context.Context, professorID int64) (*AvailabilityView, error) {
	if professorID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "professor id is required")
	}

	key := availabilityCacheKey(professorID)
	var cached AvailabilityView
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	if _, err := s.professors.FindByID(ctx, professorID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "professor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load professor")
	}

	slots, err := s.repo.GetByProfessor(ctx, professorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability")
	}

	view := viewFromSlots(professorID, slots)
	_ = s.cache.Set(ctx, key, view, 0)
	return view, nil
}

// Replace swaps the professor's whole grid for the supplied one. Prior
// slots are deleted and the new set inserted in one transaction; a subject
// preference is only accepted for a slot marked available.
func (s *AvailabilityService) Replace(ctx context.Context, req ReplaceAvailabilityRequest) (*AvailabilityView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}

	if _, err := s.professors.FindByID(ctx, req.ProfessorID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "professor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load professor")
	}

	for key, subjectID := range req.Preferences {
		if !req.Availability[key] {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("preference for %s refers to an unavailable slot", key))
		}
		if subjectID <= 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("preference for %s has an invalid subject id", key))
		}
	}

	slots := make([]models.AvailabilitySlot, 0, len(req.Availability))
	for key, available := range req.Availability {
		if !available {
			continue
		}
		day, start, err := models.ParseSlotKey(key)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot key")
		}
		slot := models.AvailabilitySlot{
			ProfessorID: req.ProfessorID,
			DayOfWeek:   day,
			StartMinute: start,
			EndMinute:   start + models.SlotMinutes,
		}
		if subjectID, ok := req.Preferences[key]; ok {
			subject := subjectID
			slot.SubjectID = &subject
		}
		slots = append(slots, slot)
	}

	// Deterministic insert order keeps freshly allocated slot ids stable.
	sort.Slice(slots, func(i, j int) bool {
		di, _ := models.WeekdayIndex(slots[i].DayOfWeek)
		dj, _ := models.WeekdayIndex(slots[j].DayOfWeek)
		if di != dj {
			return di < dj
		}
		return slots[i].StartMinute < slots[j].StartMinute
	})

	inserted, err := s.repo.ReplaceForProfessor(ctx, req.ProfessorID, slots)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save availability")
	}

	_ = s.cache.Invalidate(ctx, availabilityCacheKey(req.ProfessorID))

	s.logger.Info("availability replaced",
		zap.Int64("professor_id", req.ProfessorID),
		zap.Int("slots", len(inserted)),
	)
	return viewFromSlots(req.ProfessorID, inserted), nil
}

func viewFromSlots(professorID int64, slots []models.AvailabilitySlot) *AvailabilityView {
	view := &AvailabilityView{
		ProfessorID:  professorID,
		Availability: make(map[string]bool, len(slots)),
		Preferences:  make(map[string]int64),
	}
	for _, slot := range slots {
		key := slot.Key()
		view.Availability[key] = true
		if slot.SubjectID != nil {
			view.Preferences[key] = *slot.SubjectID
		}
	}
	return view
}

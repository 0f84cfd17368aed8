package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/MateoMinghi/via-alta-sub001/internal/models"
	appErrors "github.com/MateoMinghi/via-alta-sub001/pkg/errors"
)

type professorEnumerator interface {
	GetByProfessor(ctx context.Context, professorID int64) ([]models.AvailabilitySlot, error)
	ListProfessorIDsWithPreferences(ctx context.Context) ([]int64, error)
}

// GenerationItemParams is one (professor, subject) tuple in a batch run.
type GenerationItemParams struct {
	SubjectID   int64  `json:"subject_id"`
	ProfessorID int64  `json:"professor_id"`
	ClassroomID *int64 `json:"classroom_id,omitempty"`
	CycleID     *int64 `json:"cycle_id,omitempty"`
	GroupID     *int64 `json:"group_id,omitempty"`
}

// GenerationResult is the per-item outcome of an explicit batch run.
type GenerationResult struct {
	Params GenerationItemParams `json:"params"`
	Group  *models.Group        `json:"group,omitempty"`
	Error  *appErrors.Error     `json:"error,omitempty"`
}

// GenerationFailure records one professor/subject pair that could not be
// scheduled during an all-professors run.
type GenerationFailure struct {
	ProfessorID int64            `json:"professor_id"`
	SubjectID   int64            `json:"subject_id"`
	Error       *appErrors.Error `json:"error"`
}

// GenerationSummary aggregates an all-professors run.
type GenerationSummary struct {
	CycleID     int64               `json:"cycle_id"`
	ClassroomID int64               `json:"classroom_id"`
	Attempted   int                 `json:"attempted"`
	Created     int                 `json:"created"`
	Failed      int                 `json:"failed"`
	Groups      []models.Group      `json:"groups,omitempty"`
	Failures    []GenerationFailure `json:"failures,omitempty"`
}

// GenerationService fans the group pipeline out over many professors and
// subjects. Items are processed sequentially so each commit is visible to
// the conflict check of the next item; a run always completes and reports
// partial results.
type GenerationService struct {
	groups       *GroupService
	availability professorEnumerator
	cycles       cycleReader
	policy       AggregationPolicy
	logger       *zap.Logger
}

// NewGenerationService builds the batch orchestrator.
func NewGenerationService(groups *GroupService, availability professorEnumerator, cycles cycleReader, policy AggregationPolicy, logger *zap.Logger) *GenerationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if policy.MinBlockMinutes <= 0 {
		policy = DefaultAggregationPolicy()
	}
	return &GenerationService{
		groups:       groups,
		availability: availability,
		cycles:       cycles,
		policy:       policy,
		logger:       logger,
	}
}

// GenerateBatch runs create for each parameter tuple in the order supplied,
// collecting a per-item outcome. Individual failures never abort the run.
func (s *GenerationService) GenerateBatch(ctx context.Context, items []GenerationItemParams) []GenerationResult {
	results := make([]GenerationResult, 0, len(items))
	for _, item := range items {
		result := GenerationResult{Params: item}
		group, err := s.groups.Create(ctx, CreateGroupRequest{
			SubjectID:   item.SubjectID,
			ProfessorID: item.ProfessorID,
			ClassroomID: item.ClassroomID,
			CycleID:     item.CycleID,
			GroupID:     item.GroupID,
		})
		if err != nil {
			result.Error = appErrors.FromError(err)
		} else {
			result.Group = group
		}
		results = append(results, result)
	}
	return results
}

// GenerateAllProfessors attempts one group per (professor, subject) pair for
// every professor with at least one subject-preferenced slot, in the given
// classroom and cycle (defaulting to the most recent cycle). Enumeration is
// deterministic: professor id ascending, then subject id ascending. Only a
// failure to enumerate aborts the whole run.
func (s *GenerationService) GenerateAllProfessors(ctx context.Context, classroomID int64, cycleID *int64) (*GenerationSummary, error) {
	if classroomID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "classroom id is required")
	}

	resolvedCycle, err := s.resolveCycle(ctx, cycleID)
	if err != nil {
		return nil, err
	}

	professorIDs, err := s.availability.ListProfessorIDsWithPreferences(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enumerate professors")
	}

	summary := &GenerationSummary{CycleID: resolvedCycle, ClassroomID: classroomID}
	for _, professorID := range professorIDs {
		slots, err := s.availability.GetByProfessor(ctx, professorID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability during batch run")
		}

		blocks := AggregateBlocks(slots)
		if len(blocks) == 0 {
			// No qualifying blocks contributes zero attempts, not a failure.
			continue
		}

		for _, subjectID := range SubjectIDs(blocks) {
			summary.Attempted++
			group, err := s.groups.Create(ctx, CreateGroupRequest{
				SubjectID:   subjectID,
				ProfessorID: professorID,
				ClassroomID: &classroomID,
				CycleID:     &resolvedCycle,
			})
			if err != nil {
				summary.Failed++
				summary.Failures = append(summary.Failures, GenerationFailure{
					ProfessorID: professorID,
					SubjectID:   subjectID,
					Error:       appErrors.FromError(err),
				})
				continue
			}
			summary.Created++
			summary.Groups = append(summary.Groups, *group)
		}
	}

	s.logger.Info("batch generation completed",
		zap.Int64("cycle_id", summary.CycleID),
		zap.Int64("classroom_id", summary.ClassroomID),
		zap.Int("attempted", summary.Attempted),
		zap.Int("created", summary.Created),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

func (s *GenerationService) resolveCycle(ctx context.Context, cycleID *int64) (int64, error) {
	if cycleID != nil {
		cycle, err := s.cycles.FindByID(ctx, *cycleID)
		if err != nil {
			if err == sql.ErrNoRows {
				return 0, appErrors.Clone(appErrors.ErrNotFound, "cycle not found")
			}
			return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cycle")
		}
		return cycle.ID, nil
	}

	cycle, err := s.cycles.Latest(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, appErrors.Clone(appErrors.ErrNotFound, "no active cycle available")
		}
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve active cycle")
	}
	return cycle.ID, nil
}

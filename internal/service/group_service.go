package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/MateoMinghi/via-alta-sub001/internal/models"
	appErrors "github.com/MateoMinghi/via-alta-sub001/pkg/errors"
)

type groupRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Group, error)
	ListMeetings(ctx context.Context, groupID int64) ([]models.GroupMeeting, error)
	ListByCycle(ctx context.Context, cycleID int64) ([]models.Group, error)
	NextGroupID(ctx context.Context) (int64, error)
	CreateWithMeetings(ctx context.Context, group *models.Group, meetings []models.GroupMeeting) error
	UpdateWithMeetings(ctx context.Context, group *models.Group, meetings []models.GroupMeeting) error
}

type professorReader interface {
	FindByID(ctx context.Context, id int64) (*models.Professor, error)
}

type availabilityReader interface {
	GetByProfessor(ctx context.Context, professorID int64) ([]models.AvailabilitySlot, error)
}

type classroomReader interface {
	FindByID(ctx context.Context, id int64) (*models.Classroom, error)
}

type cycleReader interface {
	FindByID(ctx context.Context, id int64) (*models.Cycle, error)
	Latest(ctx context.Context) (*models.Cycle, error)
}

// CreateGroupRequest describes payload for creating a group.
type CreateGroupRequest struct {
	SubjectID   int64  `json:"subject_id" validate:"required,gt=0"`
	ProfessorID int64  `json:"professor_id" validate:"required,gt=0"`
	ClassroomID *int64 `json:"classroom_id,omitempty" validate:"omitempty,gt=0"`
	CycleID     *int64 `json:"cycle_id,omitempty" validate:"omitempty,gt=0"`
	GroupID     *int64 `json:"group_id,omitempty" validate:"omitempty,gt=0"`
}

// UpdateGroupRequest patches an existing group. Only supplied fields change;
// the group id itself is immutable.
type UpdateGroupRequest struct {
	SubjectID   *int64 `json:"subject_id,omitempty" validate:"omitempty,gt=0"`
	ProfessorID *int64 `json:"professor_id,omitempty" validate:"omitempty,gt=0"`
	ClassroomID *int64 `json:"classroom_id,omitempty" validate:"omitempty,gt=0"`
	CycleID     *int64 `json:"cycle_id,omitempty" validate:"omitempty,gt=0"`
}

// GroupService orchestrates one group's lifecycle: it aggregates the
// professor's availability into meeting blocks, validates them against the
// cycle's occupancy and commits the result atomically.
type GroupService struct {
	groups       groupRepository
	professors   professorReader
	availability availabilityReader
	classrooms   classroomReader
	cycles       cycleReader
	checker      *ConflictChecker
	blockCache   *BlockCache
	policy       AggregationPolicy
	metrics      *MetricsService
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewGroupService instantiates GroupService.
func NewGroupService(groups groupRepository, professors professorReader, availability availabilityReader, classrooms classroomReader, cycles cycleReader, checker *ConflictChecker, policy AggregationPolicy, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *GroupService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if policy.MinBlockMinutes <= 0 {
		policy = DefaultAggregationPolicy()
	}
	return &GroupService{
		groups:       groups,
		professors:   professors,
		availability: availability,
		classrooms:   classrooms,
		cycles:       cycles,
		checker:      checker,
		blockCache:   NewBlockCache(),
		policy:       policy,
		metrics:      metrics,
		validator:    validate,
		logger:       logger,
	}
}

// Get returns a group with its meeting rows.
func (s *GroupService) Get(ctx context.Context, id int64) (*models.Group, error) {
	group, err := s.groups.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "group not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load group")
	}
	if err := s.attachMeetings(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// ListByCycle returns all groups of a cycle with their meetings.
func (s *GroupService) ListByCycle(ctx context.Context, cycleID int64) ([]models.Group, error) {
	if cycleID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cycle id is required")
	}
	groups, err := s.groups.ListByCycle(ctx, cycleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list groups")
	}
	for i := range groups {
		if err := s.attachMeetings(ctx, &groups[i]); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// NextGroupID reports the next allocatable group id. The value is advisory:
// create still allocates atomically inside its own transaction.
func (s *GroupService) NextGroupID(ctx context.Context) (int64, error) {
	next, err := s.groups.NextGroupID(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute next group id")
	}
	return next, nil
}

// Create builds and commits a new group for one (professor, subject) pair.
func (s *GroupService) Create(ctx context.Context, req CreateGroupRequest) (*models.Group, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid group payload")
	}

	if _, err := s.professors.FindByID(ctx, req.ProfessorID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "professor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load professor")
	}

	cycleID, err := s.resolveCycle(ctx, req.CycleID)
	if err != nil {
		return nil, err
	}
	if err := s.verifyClassroom(ctx, req.ClassroomID); err != nil {
		return nil, err
	}

	blocks, err := s.resolveBlocks(ctx, req.ProfessorID, req.SubjectID)
	if err != nil {
		return nil, err
	}

	var groupID int64
	if req.GroupID != nil {
		groupID = *req.GroupID
	}

	if err := s.checker.Check(ctx, cycleID, req.ProfessorID, req.ClassroomID, blocks, 0); err != nil {
		s.metrics.RecordGroupConflict()
		return nil, err
	}

	group := &models.Group{
		ID:          groupID,
		SubjectID:   req.SubjectID,
		ProfessorID: req.ProfessorID,
		ClassroomID: req.ClassroomID,
		CycleID:     cycleID,
	}
	meetings := meetingsFromBlocks(blocks)

	if err := s.groups.CreateWithMeetings(ctx, group, meetings); err != nil {
		return nil, s.persistError(err, "failed to create group")
	}

	group.Meetings = meetings
	s.metrics.RecordGroupCreated()
	s.logger.Info("group created",
		zap.Int64("group_id", group.ID),
		zap.Int64("professor_id", group.ProfessorID),
		zap.Int64("subject_id", group.SubjectID),
		zap.Int64("cycle_id", group.CycleID),
		zap.Int("meetings", len(meetings)),
	)
	return group, nil
}

// Update patches a group in place. Meeting blocks are recomputed from
// availability when the professor or subject changes; otherwise the current
// rows are revalidated under the (possibly new) classroom and cycle.
func (s *GroupService) Update(ctx context.Context, id int64, req UpdateGroupRequest) (*models.Group, error) {
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "group id is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid group payload")
	}

	existing, err := s.groups.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "group not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load group")
	}

	merged := *existing
	if req.SubjectID != nil {
		merged.SubjectID = *req.SubjectID
	}
	if req.ProfessorID != nil {
		merged.ProfessorID = *req.ProfessorID
	}
	if req.ClassroomID != nil {
		merged.ClassroomID = req.ClassroomID
	}
	if req.CycleID != nil {
		merged.CycleID = *req.CycleID
	}

	if req.ProfessorID != nil {
		if _, err := s.professors.FindByID(ctx, merged.ProfessorID); err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "professor not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load professor")
		}
	}
	if req.ClassroomID != nil {
		if err := s.verifyClassroom(ctx, merged.ClassroomID); err != nil {
			return nil, err
		}
	}
	if req.CycleID != nil {
		if _, err := s.cycles.FindByID(ctx, merged.CycleID); err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "cycle not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cycle")
		}
	}

	var blocks []models.MeetingBlock
	if req.ProfessorID != nil || req.SubjectID != nil {
		blocks, err = s.resolveBlocks(ctx, merged.ProfessorID, merged.SubjectID)
		if err != nil {
			return nil, err
		}
	} else {
		meetings, err := s.groups.ListMeetings(ctx, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load group meetings")
		}
		blocks = make([]models.MeetingBlock, 0, len(meetings))
		for _, meeting := range meetings {
			blocks = append(blocks, meeting.Block(merged.SubjectID))
		}
	}

	if err := s.checker.Check(ctx, merged.CycleID, merged.ProfessorID, merged.ClassroomID, blocks, id); err != nil {
		s.metrics.RecordGroupConflict()
		return nil, err
	}

	meetings := meetingsFromBlocks(blocks)
	if err := s.groups.UpdateWithMeetings(ctx, &merged, meetings); err != nil {
		return nil, s.persistError(err, "failed to update group")
	}

	merged.Meetings = meetings
	s.logger.Info("group updated",
		zap.Int64("group_id", merged.ID),
		zap.Int64("professor_id", merged.ProfessorID),
		zap.Int64("subject_id", merged.SubjectID),
		zap.Int64("cycle_id", merged.CycleID),
	)
	return &merged, nil
}

// resolveBlocks aggregates the professor's grid, narrows it to the subject
// and applies the minimum-duration policy.
func (s *GroupService) resolveBlocks(ctx context.Context, professorID, subjectID int64) ([]models.MeetingBlock, error) {
	slots, err := s.availability.GetByProfessor(ctx, professorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability")
	}

	blocks := FilterBySubject(s.blockCache.Aggregate(slots), subjectID)
	if len(blocks) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoAvailability, fmt.Sprintf("professor %d has no availability for subject %d", professorID, subjectID))
	}

	kept, short := SplitByMinimum(blocks, s.policy)
	if len(short) > 0 && !s.policy.DropShortBlocks {
		return nil, appErrors.Clone(appErrors.ErrSubMinimum, fmt.Sprintf("block %s is shorter than %d minutes", short[0].Label(), s.policy.MinBlockMinutes))
	}
	if len(kept) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoAvailability, fmt.Sprintf("professor %d has no availability of at least %d minutes for subject %d", professorID, s.policy.MinBlockMinutes, subjectID))
	}
	return kept, nil
}

func (s *GroupService) resolveCycle(ctx context.Context, cycleID *int64) (int64, error) {
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

func (s *GroupService) verifyClassroom(ctx context.Context, classroomID *int64) error {
	if classroomID == nil {
		return nil
	}
	if _, err := s.classrooms.FindByID(ctx, *classroomID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classroom")
	}
	return nil
}

// persistError maps a commit failure: a conflict detected by the in-tx
// re-validation surfaces as a conflict, anything else as a persistence error.
func (s *GroupService) persistError(err error, message string) error {
	var conflictErr *models.GroupConflictError
	if errors.As(err, &conflictErr) {
		s.metrics.RecordGroupConflict()
		return appErrors.Wrap(conflictErr, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, fmt.Sprintf("schedule conflict: %s", conflictErr.Message))
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func (s *GroupService) attachMeetings(ctx context.Context, group *models.Group) error {
	meetings, err := s.groups.ListMeetings(ctx, group.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load group meetings")
	}
	group.Meetings = meetings
	return nil
}

func meetingsFromBlocks(blocks []models.MeetingBlock) []models.GroupMeeting {
	meetings := make([]models.GroupMeeting, 0, len(blocks))
	for _, block := range blocks {
		meetings = append(meetings, models.GroupMeeting{
			DayOfWeek:   block.DayOfWeek,
			StartMinute: block.StartMinute,
			EndMinute:   block.EndMinute,
		})
	}
	return meetings
}

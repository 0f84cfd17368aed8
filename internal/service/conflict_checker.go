package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/MateoMinghi/via-alta-sub001/internal/models"
	appErrors "github.com/MateoMinghi/via-alta-sub001/pkg/errors"
)

type occupancyReader interface {
	ListOccupancy(ctx context.Context, cycleID, excludeGroupID int64) ([]models.GroupOccupancy, error)
}

// ConflictChecker validates a candidate set of meeting blocks against the
// existing groups of a cycle. The check is all-or-nothing: the first
// colliding block rejects the whole candidate set.
type ConflictChecker struct {
	groups occupancyReader
	logger *zap.Logger
}

// NewConflictChecker builds the checker.
func NewConflictChecker(groups occupancyReader, logger *zap.Logger) *ConflictChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConflictChecker{groups: groups, logger: logger}
}

// Check scans every existing meeting row of the cycle (excluding, for
// updates, the group being modified) and rejects the candidate when any row
// on the same day overlaps in time and shares the professor or the
// classroom. Intervals are half-open: exact back-to-back meetings do not
// conflict.
func (c *ConflictChecker) Check(ctx context.Context, cycleID, professorID int64, classroomID *int64, blocks []models.MeetingBlock, excludeGroupID int64) error {
	if len(blocks) == 0 {
		return nil
	}

	occupancy, err := c.groups.ListOccupancy(ctx, cycleID, excludeGroupID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cycle occupancy")
	}

	for _, block := range blocks {
		for _, occ := range occupancy {
			if !block.Overlaps(occ.DayOfWeek, occ.StartMinute, occ.EndMinute) {
				continue
			}

			sameProfessor := occ.ProfessorID == professorID
			sameClassroom := classroomID != nil && occ.ClassroomID != nil && *occ.ClassroomID == *classroomID
			if !sameProfessor && !sameClassroom {
				continue
			}

			dimension := models.ConflictClassroom
			if sameProfessor {
				dimension = models.ConflictProfessor
			}

			conflictErr := &models.GroupConflictError{
				Message: fmt.Sprintf("meeting %s collides with group %d", block.Label(), occ.GroupID),
				Conflict: models.GroupConflict{
					Dimension: dimension,
					GroupID:   occ.GroupID,
					Block:     block,
					Existing:  occ,
				},
			}
			c.logger.Debug("group conflict detected",
				zap.Int64("cycle_id", cycleID),
				zap.Int64("professor_id", professorID),
				zap.Int64("conflicting_group_id", occ.GroupID),
				zap.String("dimension", dimension),
				zap.String("block", block.Label()),
			)
			return appErrors.Wrap(conflictErr, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, fmt.Sprintf("schedule conflict: %s", conflictErr.Message))
		}
	}
	return nil
}

package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/MateoMinghi/via-alta-sub001/internal/models"
	appErrors "github.com/MateoMinghi/via-alta-sub001/pkg/errors"
	"github.com/MateoMinghi/via-alta-sub001/pkg/export"
)

// Export formats accepted by the schedule endpoints.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

type scheduleGroupReader interface {
	ListByProfessorAndCycle(ctx context.Context, professorID, cycleID int64) ([]models.Group, error)
	ListMeetings(ctx context.Context, groupID int64) ([]models.GroupMeeting, error)
}

type scheduleRenderer interface {
	Render(doc export.ScheduleDocument) ([]byte, error)
}

// ExportResult carries a rendered schedule ready to stream to the client.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders a professor's weekly schedule as CSV or PDF.
type ExportService struct {
	groups     scheduleGroupReader
	professors professorReader
	classrooms classroomReader
	cycles     cycleReader
	csv        scheduleRenderer
	pdf        scheduleRenderer
	logger     *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(groups scheduleGroupReader, professors professorReader, classrooms classroomReader, cycles cycleReader, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		groups:     groups,
		professors: professors,
		classrooms: classrooms,
		cycles:     cycles,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		logger:     logger,
	}
}

// ProfessorSchedule renders the professor's meetings for a cycle (defaulting
// to the most recent one) in the requested format.
func (s *ExportService) ProfessorSchedule(ctx context.Context, professorID int64, cycleID *int64, format string) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != FormatCSV && format != FormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %q", format))
	}
	if professorID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "professor id is required")
	}

	professor, err := s.professors.FindByID(ctx, professorID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "professor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load professor")
	}

	resolvedCycle, err := s.resolveCycle(ctx, cycleID)
	if err != nil {
		return nil, err
	}

	groups, err := s.groups.ListByProfessorAndCycle(ctx, professorID, resolvedCycle)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list groups")
	}

	doc := export.ScheduleDocument{
		Title: fmt.Sprintf("Weekly schedule: %s", professor.FullName),
	}
	classroomNames := make(map[int64]string)
	for _, group := range groups {
		meetings, err := s.groups.ListMeetings(ctx, group.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load group meetings")
		}
		classroom := ""
		if group.ClassroomID != nil {
			classroom, err = s.classroomName(ctx, *group.ClassroomID, classroomNames)
			if err != nil {
				return nil, err
			}
		}
		for _, meeting := range meetings {
			doc.Rows = append(doc.Rows, export.ScheduleRow{
				Day:       meeting.DayOfWeek,
				Start:     models.MinutesToClock(meeting.StartMinute),
				End:       models.MinutesToClock(meeting.EndMinute),
				Subject:   fmt.Sprintf("Subject %d", group.SubjectID),
				Group:     fmt.Sprintf("%d", group.ID),
				Classroom: classroom,
			})
		}
	}

	sort.SliceStable(doc.Rows, func(i, j int) bool {
		di, _ := models.WeekdayIndex(doc.Rows[i].Day)
		dj, _ := models.WeekdayIndex(doc.Rows[j].Day)
		if di != dj {
			return di < dj
		}
		return doc.Rows[i].Start < doc.Rows[j].Start
	})

	var (
		data        []byte
		contentType string
		extension   string
	)
	switch format {
	case FormatCSV:
		data, err = s.csv.Render(doc)
		contentType = "text/csv"
		extension = "csv"
	case FormatPDF:
		data, err = s.pdf.Render(doc)
		contentType = "application/pdf"
		extension = "pdf"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render schedule")
	}

	s.logger.Info("schedule exported",
		zap.Int64("professor_id", professorID),
		zap.Int64("cycle_id", resolvedCycle),
		zap.String("format", format),
		zap.Int("rows", len(doc.Rows)),
	)
	return &ExportResult{
		Filename:    fmt.Sprintf("schedule_professor_%d_cycle_%d.%s", professorID, resolvedCycle, extension),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func (s *ExportService) classroomName(ctx context.Context, classroomID int64, cache map[int64]string) (string, error) {
	if name, ok := cache[classroomID]; ok {
		return name, nil
	}
	classroom, err := s.classrooms.FindByID(ctx, classroomID)
	if err != nil {
		if err == sql.ErrNoRows {
			cache[classroomID] = fmt.Sprintf("Room %d", classroomID)
			return cache[classroomID], nil
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classroom")
	}
	cache[classroomID] = classroom.Name
	return classroom.Name, nil
}

func (s *ExportService) resolveCycle(ctx context.Context, cycleID *int64) (int64, error) {
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

package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/sadhana-school/portal/internal/core/domain"
	"github.com/sadhana-school/portal/internal/core/normalize"
	"github.com/sadhana-school/portal/internal/core/ports"
)

const dateLayout = "2006-01-02"

var ErrNoFacultyProfile = errors.New("faculty profile not found")

// FacultyOverview is the faculty dashboard on load.
type FacultyOverview struct {
	Faculty  *domain.Faculty  `json:"faculty"`
	Students []domain.Student `json:"students"`
}

// AttendanceSheet is a bulk attendance submission. Students listed in
// Present are marked present, all others absent.
type AttendanceSheet struct {
	Date    string   `json:"date"`
	Present []string `json:"present"`
}

type FacultyService struct {
	api    ports.FacultyAPI
	norm   *normalize.Normalizer
	logger zerolog.Logger
	now    func() time.Time
}

func NewFacultyService(api ports.FacultyAPI, logger zerolog.Logger) *FacultyService {
	return &FacultyService{
		api:    api,
		norm:   normalize.New(logger),
		logger: logger,
		now:    time.Now,
	}
}

// Overview loads the student roster and the faculty's own profile together;
// either failing fails the overview.
func (s *FacultyService) Overview(ctx context.Context) (*FacultyOverview, error) {
	out := &FacultyOverview{}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		raw, err := s.api.ListStudents(ctx)
		if err != nil {
			return err
		}
		out.Students, _, err = normalize.DecodeList[domain.Student](s.norm, raw)
		return err
	})
	g.Go(func() error {
		f, err := s.api.MyFaculty(ctx)
		out.Faculty = f
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkAttendance records one day's attendance for the whole roster.
func (s *FacultyService) MarkAttendance(ctx context.Context, sheet AttendanceSheet) ([]domain.AttendanceRecord, error) {
	date := sheet.Date
	if date == "" {
		date = s.now().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, invalid("date", "date must be formatted as YYYY-MM-DD")
	}

	overview, err := s.Overview(ctx)
	if err != nil {
		return nil, err
	}
	if overview.Faculty == nil || overview.Faculty.FacultyID == "" {
		return nil, ErrNoFacultyProfile
	}

	present := toSet(sheet.Present)
	records := make([]domain.AttendanceRecord, 0, len(overview.Students))
	for _, st := range overview.Students {
		status := domain.AttendanceAbsent
		if _, ok := present[st.StudentID]; ok {
			status = domain.AttendancePresent
		}
		records = append(records, domain.AttendanceRecord{
			StudentID: st.StudentID,
			Date:      date,
			Status:    status,
			MarkedBy:  overview.Faculty.FacultyID,
		})
	}
	if err := s.api.MarkAttendance(ctx, records); err != nil {
		return nil, err
	}
	s.logger.Info().Str("date", date).Int("students", len(records)).Int("present", len(present)).Msg("attendance marked")
	return records, nil
}

// UploadMarks records an exam result attributed to the current faculty.
func (s *FacultyService) UploadMarks(ctx context.Context, marks domain.NewMarks) error {
	if marks.ExamDate == "" {
		marks.ExamDate = s.now().Format(dateLayout)
	}
	if err := validateStruct(marks); err != nil {
		return err
	}
	f, err := s.api.MyFaculty(ctx)
	if err != nil {
		return err
	}
	if f == nil || f.FacultyID == "" {
		return ErrNoFacultyProfile
	}
	marks.UploadedBy = f.FacultyID
	return s.api.UploadMarks(ctx, marks)
}

package service

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/sadhana-school/portal/internal/core/domain"
	"github.com/sadhana-school/portal/internal/core/normalize"
	"github.com/sadhana-school/portal/internal/core/ports"
)

// AdminOverview is everything the admin dashboard shows on load.
type AdminOverview struct {
	Stats        domain.AdminStats     `json:"stats"`
	Students     []domain.Student      `json:"students"`
	Faculty      []domain.Faculty      `json:"faculty"`
	PendingUsers []domain.PendingUser  `json:"pending_users"`
	Classes      []domain.ClassRoom    `json:"classes"`
	Finance      domain.FinanceSummary `json:"finance"`
	Timeseries   []domain.FinancePoint `json:"timeseries"`
	Unavailable  []string              `json:"unavailable,omitempty"`
}

type AdminService struct {
	api    ports.AdminAPI
	norm   *normalize.Normalizer
	logger zerolog.Logger
}

func NewAdminService(api ports.AdminAPI, logger zerolog.Logger) *AdminService {
	return &AdminService{
		api:    api,
		norm:   normalize.New(logger, normalize.AdminKeys...),
		logger: logger,
	}
}

// Overview loads every dashboard section concurrently. A failing section is
// left empty; only a rejected credential fails the whole overview.
func (s *AdminService) Overview(ctx context.Context) (*AdminOverview, error) {
	out := &AdminOverview{
		Students:     []domain.Student{},
		Faculty:      []domain.Faculty{},
		PendingUsers: []domain.PendingUser{},
		Classes:      []domain.ClassRoom{},
		Timeseries:   []domain.FinancePoint{},
	}
	p := &partial{logger: s.logger}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stats, err := s.api.AdminStats(ctx)
		if err == nil {
			out.Stats = *stats
		}
		return p.absorb("stats", err)
	})
	g.Go(func() error {
		students, err := s.students(ctx)
		if err == nil {
			out.Students = students
		}
		return p.absorb("students", err)
	})
	g.Go(func() error {
		raw, err := s.api.ListFaculty(ctx)
		if err == nil {
			out.Faculty, _, err = normalize.DecodeList[domain.Faculty](s.norm, raw)
		}
		return p.absorb("faculty", err)
	})
	g.Go(func() error {
		raw, err := s.api.PendingUsers(ctx)
		if err == nil {
			out.PendingUsers, _, err = normalize.DecodeList[domain.PendingUser](s.norm, raw)
		}
		return p.absorb("pending_users", err)
	})
	g.Go(func() error {
		raw, err := s.api.ListClasses(ctx)
		if err == nil {
			out.Classes, _, err = normalize.DecodeList[domain.ClassRoom](s.norm, raw)
		}
		return p.absorb("classes", err)
	})
	g.Go(func() error {
		finance, err := s.api.FinanceSummary(ctx)
		if err == nil {
			out.Finance = *finance
		}
		return p.absorb("finance", err)
	})
	g.Go(func() error {
		raw, err := s.api.FinanceTimeseries(ctx)
		if err == nil {
			out.Timeseries, _, err = normalize.DecodeList[domain.FinancePoint](s.norm, raw)
		}
		return p.absorb("timeseries", err)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	out.Unavailable = p.sections()
	sort.Strings(out.Unavailable)
	return out, nil
}

func (s *AdminService) students(ctx context.Context) ([]domain.Student, error) {
	raw, err := s.api.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	students, _, err := normalize.DecodeList[domain.Student](s.norm, raw)
	return students, err
}

func (s *AdminService) ApproveUser(ctx context.Context, userID string) error {
	if err := required("user_id", userID); err != nil {
		return err
	}
	return s.api.ApproveUser(ctx, strings.TrimSpace(userID))
}

func (s *AdminService) RejectUser(ctx context.Context, userID string) error {
	if err := required("user_id", userID); err != nil {
		return err
	}
	return s.api.RejectUser(ctx, strings.TrimSpace(userID))
}

func (s *AdminService) CreateClass(ctx context.Context, name string) error {
	if err := required("name", name); err != nil {
		return err
	}
	return s.api.CreateClass(ctx, strings.TrimSpace(name))
}

func (s *AdminService) CreateSection(ctx context.Context, section domain.NewSection) error {
	if err := validateStruct(section); err != nil {
		return err
	}
	return s.api.CreateSection(ctx, section)
}

func (s *AdminService) CreateFeeStructure(ctx context.Context, fee domain.NewFeeStructure) error {
	if fee.Frequency == "" {
		fee.Frequency = "yearly"
	}
	if err := validateStruct(fee); err != nil {
		return err
	}
	return s.api.CreateFeeStructure(ctx, fee)
}

func (s *AdminService) DeleteClass(ctx context.Context, classID string) error {
	if err := required("class_id", classID); err != nil {
		return err
	}
	return s.api.DeleteClass(ctx, classID)
}

func (s *AdminService) DeleteStudent(ctx context.Context, studentID string) error {
	if err := required("student_id", studentID); err != nil {
		return err
	}
	return s.api.DeleteStudent(ctx, studentID)
}

func (s *AdminService) DeleteFaculty(ctx context.Context, facultyID string) error {
	if err := required("faculty_id", facultyID); err != nil {
		return err
	}
	return s.api.DeleteFaculty(ctx, facultyID)
}

// ClassWiseReport returns fee collection per class.
func (s *AdminService) ClassWiseReport(ctx context.Context) ([]domain.ClassFeeReport, error) {
	raw, err := s.api.ClassWiseFeeReport(ctx)
	if err != nil {
		return nil, err
	}
	report, _, err := normalize.DecodeList[domain.ClassFeeReport](s.norm.With("report"), raw)
	return report, err
}

// SectionWiseReport returns fee collection per section of one class.
func (s *AdminService) SectionWiseReport(ctx context.Context, className string) ([]domain.SectionFeeReport, error) {
	if err := required("class_name", className); err != nil {
		return nil, err
	}
	raw, err := s.api.SectionWiseFeeReport(ctx, strings.TrimSpace(className))
	if err != nil {
		return nil, err
	}
	report, _, err := normalize.DecodeList[domain.SectionFeeReport](s.norm.With("sections"), raw)
	return report, err
}

// Directory loads the student list and applies the directory filter.
func (s *AdminService) Directory(ctx context.Context, filter DirectoryFilter) (*Directory, error) {
	students, err := s.students(ctx)
	if err != nil {
		return nil, err
	}
	return BuildDirectory(students, filter), nil
}

package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/sadhana-school/portal/internal/core/domain"
	"github.com/sadhana-school/portal/internal/core/normalize"
	"github.com/sadhana-school/portal/internal/core/ports"
)

// ChildOverview is one linked child's records. Sections that fail to load
// are left empty.
type ChildOverview struct {
	StudentID   string                    `json:"student_id"`
	Attendance  *domain.AttendanceSummary `json:"attendance"`
	Marks       []domain.Mark             `json:"marks"`
	Fees        []domain.FeeRow           `json:"fees"`
	Payments    []domain.Payment          `json:"payments"`
	Unavailable []string                  `json:"unavailable,omitempty"`
}

// ParentOverview lists the linked children and the first child's records.
type ParentOverview struct {
	Children []domain.Student `json:"children"`
	Selected *ChildOverview   `json:"selected,omitempty"`
}

type ParentService struct {
	api    ports.ParentAPI
	norm   *normalize.Normalizer
	logger zerolog.Logger
}

func NewParentService(api ports.ParentAPI, logger zerolog.Logger) *ParentService {
	return &ParentService{api: api, norm: normalize.New(logger), logger: logger}
}

// Children returns the students linked to the parent.
func (s *ParentService) Children(ctx context.Context) ([]domain.Student, error) {
	raw, err := s.api.MyChildren(ctx)
	if err != nil {
		return nil, err
	}
	children, _, err := normalize.DecodeList[domain.Student](s.norm, raw)
	return children, err
}

// Overview loads the children and, when childID is empty, selects the
// first child.
func (s *ParentService) Overview(ctx context.Context, childID string) (*ParentOverview, error) {
	children, err := s.Children(ctx)
	if err != nil {
		return nil, err
	}
	out := &ParentOverview{Children: children}
	if childID == "" && len(children) > 0 {
		childID = children[0].StudentID
	}
	if childID == "" {
		return out, nil
	}
	if out.Selected, err = s.Child(ctx, childID); err != nil {
		return nil, err
	}
	return out, nil
}

// Child loads one child's attendance, marks, fee ledger and payments.
// Marks are shown only when attendance is available, and the fee ledger is
// presented as a single row when it carries a total.
func (s *ParentService) Child(ctx context.Context, studentID string) (*ChildOverview, error) {
	if err := required("student_id", studentID); err != nil {
		return nil, err
	}
	out := &ChildOverview{
		StudentID: studentID,
		Marks:     []domain.Mark{},
		Fees:      []domain.FeeRow{},
		Payments:  []domain.Payment{},
	}
	var marks []domain.Mark
	p := &partial{logger: s.logger.With().Str("student_id", studentID).Logger()}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a, err := s.api.StudentAttendance(ctx, studentID)
		out.Attendance = a
		return p.absorb("attendance", err)
	})
	g.Go(func() error {
		raw, err := s.api.StudentMarks(ctx, studentID)
		if err == nil {
			marks, _, err = normalize.DecodeList[domain.Mark](s.norm, raw)
		}
		return p.absorb("marks", err)
	})
	g.Go(func() error {
		t, err := s.api.ChildFees(ctx, studentID)
		if err == nil && t != nil && t.TotalFeeAmount > 0 {
			out.Fees = []domain.FeeRow{t.Row()}
		}
		return p.absorb("fees", err)
	})
	g.Go(func() error {
		raw, err := s.api.StudentPayments(ctx, studentID)
		if err == nil {
			out.Payments, _, err = normalize.DecodeList[domain.Payment](s.norm, raw)
		}
		return p.absorb("payments", err)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if out.Attendance != nil && marks != nil {
		out.Marks = marks
	}
	out.Unavailable = p.sections()
	return out, nil
}

// LinkChild links a student to the parent by student id.
func (s *ParentService) LinkChild(ctx context.Context, studentID string) error {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return invalid("student_id", "Please enter a student ID")
	}
	return s.api.LinkChild(ctx, studentID)
}

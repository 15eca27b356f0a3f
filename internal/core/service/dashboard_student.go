package service

import (
	"bytes"
	"context"
	"encoding/json"
	"math"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/sadhana-school/portal/internal/core/domain"
	"github.com/sadhana-school/portal/internal/core/normalize"
	"github.com/sadhana-school/portal/internal/core/ports"
)

// StudentOverview is the student dashboard with its derived figures.
type StudentOverview struct {
	Student       *domain.Student           `json:"student"`
	Attendance    *domain.AttendanceSummary `json:"attendance"`
	Marks         []domain.Mark             `json:"marks"`
	Fees          []domain.FeeTracking      `json:"fees"`
	Announcements []domain.Announcement     `json:"announcements"`
	Timetable     []domain.TimetableDay     `json:"timetable"`
	PendingFees   []domain.FeeTracking      `json:"pending_fees"`
	TotalPending  float64                   `json:"total_pending"`
	FeeStatus     string                    `json:"fee_status"`
	AverageMarks  float64                   `json:"average_marks"`
}

type StudentService struct {
	api    ports.StudentAPI
	norm   *normalize.Normalizer
	logger zerolog.Logger
}

func NewStudentService(api ports.StudentAPI, logger zerolog.Logger) *StudentService {
	return &StudentService{api: api, norm: normalize.New(logger), logger: logger}
}

// Overview loads the student's own profile, then attendance, marks, fees
// and announcements together, then the timetable when the class and
// section are known. Any failure fails the overview.
func (s *StudentService) Overview(ctx context.Context) (*StudentOverview, error) {
	student, err := s.api.MyStudent(ctx)
	if err != nil {
		return nil, err
	}
	out := &StudentOverview{
		Student:       student,
		Marks:         []domain.Mark{},
		Fees:          []domain.FeeTracking{},
		Announcements: []domain.Announcement{},
		Timetable:     []domain.TimetableDay{},
	}

	if student.StudentID != "" {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			a, err := s.api.StudentAttendance(gctx, student.StudentID)
			out.Attendance = a
			return err
		})
		g.Go(func() error {
			raw, err := s.api.StudentMarks(gctx, student.StudentID)
			if err != nil {
				return err
			}
			out.Marks, _, err = normalize.DecodeList[domain.Mark](s.norm, raw)
			return err
		})
		g.Go(func() error {
			raw, err := s.api.StudentFees(gctx, student.StudentID)
			if err != nil {
				return err
			}
			out.Fees, err = decodeFees(s.norm, raw)
			return err
		})
		g.Go(func() error {
			raw, err := s.api.Announcements(gctx)
			if err != nil {
				return err
			}
			out.Announcements, _, err = normalize.DecodeList[domain.Announcement](s.norm, raw)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		if student.ClassName != "" && student.Section != "" {
			raw, err := s.api.Timetable(ctx, student.ClassName, student.Section)
			if err != nil {
				return nil, err
			}
			if out.Timetable, _, err = normalize.DecodeList[domain.TimetableDay](s.norm, raw); err != nil {
				return nil, err
			}
		}
	}

	out.PendingFees = PendingFees(out.Fees)
	out.TotalPending = TotalPending(out.PendingFees)
	out.FeeStatus = FeeStatus(out.Fees)
	out.AverageMarks = AverageMarks(out.Marks)
	return out, nil
}

// decodeFees accepts a fee list in any known shape or a single fee
// tracking object.
func decodeFees(n *normalize.Normalizer, raw []byte) ([]domain.FeeTracking, error) {
	if shape, _ := n.Classify(raw); shape != normalize.ShapeUnknown {
		fees, _, err := normalize.DecodeList[domain.FeeTracking](n, raw)
		return fees, err
	}
	body := bytes.TrimSpace(raw)
	if len(body) == 0 || body[0] != '{' {
		return []domain.FeeTracking{}, nil
	}
	var single domain.FeeTracking
	if err := json.Unmarshal(body, &single); err != nil {
		return nil, err
	}
	return []domain.FeeTracking{single}, nil
}

// PendingFees keeps fees still pending or partially paid.
func PendingFees(fees []domain.FeeTracking) []domain.FeeTracking {
	out := []domain.FeeTracking{}
	for _, f := range fees {
		if f.PaymentStatus == domain.FeePending || f.PaymentStatus == domain.FeePartial {
			out = append(out, f)
		}
	}
	return out
}

// TotalPending sums the outstanding amount across pending fees.
func TotalPending(pending []domain.FeeTracking) float64 {
	var total float64
	for _, f := range pending {
		total += f.PendingAmount
	}
	return total
}

// FeeStatus is the status of the first fee, pending when unknown.
func FeeStatus(fees []domain.FeeTracking) string {
	if len(fees) == 0 || fees[0].PaymentStatus == "" {
		return domain.FeePending
	}
	return fees[0].PaymentStatus
}

// AverageMarks is the mean percentage across exams, rounded to one decimal.
// Exams without a total are ignored.
func AverageMarks(marks []domain.Mark) float64 {
	var sum float64
	var n int
	for _, m := range marks {
		if m.TotalMarks <= 0 {
			continue
		}
		sum += m.MarksObtained / m.TotalMarks * 100
		n++
	}
	if n == 0 {
		return 0
	}
	return math.Round(sum/float64(n)*10) / 10
}

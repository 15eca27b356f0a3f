package service

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sadhana-school/portal/internal/core/domain"
)

// stubSchoolAPI answers every list endpoint from raw and every failure from
// errs, keyed by method name.
type stubSchoolAPI struct {
	raw  map[string]string
	errs map[string]error

	attendance *domain.AttendanceSummary
	tracking   *domain.FeeTracking
	student    *domain.Student
	faculty    *domain.Faculty
	order      *domain.PaymentOrder

	markedAttendance []domain.AttendanceRecord
	uploadedMarks    []domain.NewMarks
	orders           []domain.OrderRequest
	sections         []domain.NewSection
	linked           []string
}

func (s *stubSchoolAPI) list(name string) (json.RawMessage, error) {
	if err := s.errs[name]; err != nil {
		return nil, err
	}
	return json.RawMessage(s.raw[name]), nil
}

func (s *stubSchoolAPI) AdminStats(context.Context) (*domain.AdminStats, error) {
	if err := s.errs["AdminStats"]; err != nil {
		return nil, err
	}
	return &domain.AdminStats{TotalStudents: 2, TotalFaculty: 1}, nil
}
func (s *stubSchoolAPI) ListStudents(context.Context) (json.RawMessage, error) {
	return s.list("ListStudents")
}
func (s *stubSchoolAPI) ListFaculty(context.Context) (json.RawMessage, error) {
	return s.list("ListFaculty")
}
func (s *stubSchoolAPI) PendingUsers(context.Context) (json.RawMessage, error) {
	return s.list("PendingUsers")
}
func (s *stubSchoolAPI) ListClasses(context.Context) (json.RawMessage, error) {
	return s.list("ListClasses")
}
func (s *stubSchoolAPI) FinanceSummary(context.Context) (*domain.FinanceSummary, error) {
	if err := s.errs["FinanceSummary"]; err != nil {
		return nil, err
	}
	return &domain.FinanceSummary{TotalExpected: 1000, Collected: 400, Pending: 600}, nil
}
func (s *stubSchoolAPI) FinanceTimeseries(context.Context) (json.RawMessage, error) {
	return s.list("FinanceTimeseries")
}
func (s *stubSchoolAPI) ApproveUser(context.Context, string) error { return s.errs["ApproveUser"] }
func (s *stubSchoolAPI) RejectUser(context.Context, string) error  { return s.errs["RejectUser"] }
func (s *stubSchoolAPI) CreateClass(context.Context, string) error { return nil }
func (s *stubSchoolAPI) CreateSection(_ context.Context, sec domain.NewSection) error {
	s.sections = append(s.sections, sec)
	return nil
}
func (s *stubSchoolAPI) CreateFeeStructure(context.Context, domain.NewFeeStructure) error {
	return nil
}
func (s *stubSchoolAPI) DeleteClass(context.Context, string) error   { return nil }
func (s *stubSchoolAPI) DeleteStudent(context.Context, string) error { return nil }
func (s *stubSchoolAPI) DeleteFaculty(context.Context, string) error { return nil }
func (s *stubSchoolAPI) ClassWiseFeeReport(context.Context) (json.RawMessage, error) {
	return s.list("ClassWiseFeeReport")
}
func (s *stubSchoolAPI) SectionWiseFeeReport(context.Context, string) (json.RawMessage, error) {
	return s.list("SectionWiseFeeReport")
}
func (s *stubSchoolAPI) MyFaculty(context.Context) (*domain.Faculty, error) {
	return s.faculty, s.errs["MyFaculty"]
}
func (s *stubSchoolAPI) MarkAttendance(_ context.Context, records []domain.AttendanceRecord) error {
	s.markedAttendance = records
	return nil
}
func (s *stubSchoolAPI) UploadMarks(_ context.Context, m domain.NewMarks) error {
	s.uploadedMarks = append(s.uploadedMarks, m)
	return nil
}
func (s *stubSchoolAPI) MyStudent(context.Context) (*domain.Student, error) {
	return s.student, s.errs["MyStudent"]
}
func (s *stubSchoolAPI) StudentAttendance(context.Context, string) (*domain.AttendanceSummary, error) {
	if err := s.errs["StudentAttendance"]; err != nil {
		return nil, err
	}
	return s.attendance, nil
}
func (s *stubSchoolAPI) StudentMarks(context.Context, string) (json.RawMessage, error) {
	return s.list("StudentMarks")
}
func (s *stubSchoolAPI) StudentFees(context.Context, string) (json.RawMessage, error) {
	return s.list("StudentFees")
}
func (s *stubSchoolAPI) Announcements(context.Context) (json.RawMessage, error) {
	return s.list("Announcements")
}
func (s *stubSchoolAPI) Timetable(context.Context, string, string) (json.RawMessage, error) {
	return s.list("Timetable")
}
func (s *stubSchoolAPI) MyChildren(context.Context) (json.RawMessage, error) {
	return s.list("MyChildren")
}
func (s *stubSchoolAPI) ChildFees(context.Context, string) (*domain.FeeTracking, error) {
	if err := s.errs["ChildFees"]; err != nil {
		return nil, err
	}
	return s.tracking, nil
}
func (s *stubSchoolAPI) StudentPayments(context.Context, string) (json.RawMessage, error) {
	return s.list("StudentPayments")
}
func (s *stubSchoolAPI) LinkChild(_ context.Context, id string) error {
	s.linked = append(s.linked, id)
	return nil
}
func (s *stubSchoolAPI) CreatePaymentOrder(_ context.Context, req domain.OrderRequest) (*domain.PaymentOrder, error) {
	s.orders = append(s.orders, req)
	if err := s.errs["CreatePaymentOrder"]; err != nil {
		return nil, err
	}
	return s.order, nil
}
func (s *stubSchoolAPI) VerifyPayment(context.Context, domain.PaymentVerification) (map[string]any, error) {
	if err := s.errs["VerifyPayment"]; err != nil {
		return nil, err
	}
	return map[string]any{"status": "success"}, nil
}

var errBackendDown = errors.New("backend down")

func TestAdminService_OverviewDegradesPerSection(t *testing.T) {
	api := &stubSchoolAPI{
		raw: map[string]string{
			"ListStudents":      `{"students":[{"student_id":"s1","name":"Asha"}],"items":[]}`,
			"ListFaculty":       `{"items":[{"faculty_id":"f1","name":"Ravi"}],"count":1}`,
			"PendingUsers":      `[{"user_id":"u1","email":"p@x.in","name":"P","role":"PARENT"}]`,
			"FinanceTimeseries": `[{"month":"2026-01","amount":400}]`,
		},
		errs: map[string]error{"ListClasses": errBackendDown, "FinanceSummary": errBackendDown},
	}
	svc := NewAdminService(api, zerolog.Nop())

	out, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if len(out.Students) != 1 || out.Students[0].StudentID != "s1" {
		t.Fatalf("students should be unwrapped under the students key, got %+v", out.Students)
	}
	if len(out.Faculty) != 1 || len(out.PendingUsers) != 1 || len(out.Timeseries) != 1 {
		t.Fatalf("unexpected overview %+v", out)
	}
	if out.Classes == nil || len(out.Classes) != 0 || out.Finance.TotalExpected != 0 {
		t.Fatalf("failed sections should be empty")
	}
	if !reflect.DeepEqual(out.Unavailable, []string{"classes", "finance"}) {
		t.Fatalf("unexpected unavailable sections %v", out.Unavailable)
	}
}

func TestAdminService_OverviewUnauthorized(t *testing.T) {
	api := &stubSchoolAPI{errs: map[string]error{"ListStudents": domain.ErrUnauthorized}}
	svc := NewAdminService(api, zerolog.Nop())

	if _, err := svc.Overview(context.Background()); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAdminService_Actions(t *testing.T) {
	api := &stubSchoolAPI{raw: map[string]string{
		"ClassWiseFeeReport":   `{"report":[{"class":"7","student_count":2,"total_expected":100}]}`,
		"SectionWiseFeeReport": `{"class":"7","sections":[{"section":"A"},{"section":"B"}]}`,
	}}
	svc := NewAdminService(api, zerolog.Nop())
	ctx := context.Background()

	if err := svc.CreateSection(ctx, domain.NewSection{ClassID: "c7", Name: "A", Capacity: 0}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for zero capacity, got %v", err)
	}
	if err := svc.CreateSection(ctx, domain.NewSection{ClassID: "c7", Name: "A", Capacity: 20}); err != nil {
		t.Fatalf("create section: %v", err)
	}
	if err := svc.CreateFeeStructure(ctx, domain.NewFeeStructure{ClassID: "c7", TuitionFee: -1}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for negative tuition, got %v", err)
	}
	if err := svc.ApproveUser(ctx, " "); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for empty user id, got %v", err)
	}

	classes, err := svc.ClassWiseReport(ctx)
	if err != nil || len(classes) != 1 || classes[0].Class != "7" || classes[0].StudentCount != 2 {
		t.Fatalf("unexpected class report %+v %v", classes, err)
	}
	sections, err := svc.SectionWiseReport(ctx, "7")
	if err != nil || len(sections) != 2 || sections[1].Section != "B" {
		t.Fatalf("unexpected section report %+v %v", sections, err)
	}
}

func TestFacultyService_MarkAttendance(t *testing.T) {
	api := &stubSchoolAPI{
		raw:     map[string]string{"ListStudents": `{"data":[{"student_id":"s1"},{"student_id":"s2"}]}`},
		faculty: &domain.Faculty{FacultyID: "fac_1"},
	}
	svc := NewFacultyService(api, zerolog.Nop())

	records, err := svc.MarkAttendance(context.Background(), AttendanceSheet{Date: "2026-03-02", Present: []string{"s2"}})
	if err != nil {
		t.Fatalf("mark attendance: %v", err)
	}
	want := []domain.AttendanceRecord{
		{StudentID: "s1", Date: "2026-03-02", Status: domain.AttendanceAbsent, MarkedBy: "fac_1"},
		{StudentID: "s2", Date: "2026-03-02", Status: domain.AttendancePresent, MarkedBy: "fac_1"},
	}
	if !reflect.DeepEqual(records, want) || !reflect.DeepEqual(api.markedAttendance, want) {
		t.Fatalf("unexpected records %+v", records)
	}

	if _, err := svc.MarkAttendance(context.Background(), AttendanceSheet{Date: "02/03/2026"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for bad date, got %v", err)
	}
}

func TestFacultyService_UploadMarks(t *testing.T) {
	api := &stubSchoolAPI{faculty: &domain.Faculty{FacultyID: "fac_1"}}
	svc := NewFacultyService(api, zerolog.Nop())

	err := svc.UploadMarks(context.Background(), domain.NewMarks{StudentID: "s1", Subject: "Maths", ExamName: "Unit 1", MarksObtained: 40, TotalMarks: 50})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if got := api.uploadedMarks[0]; got.UploadedBy != "fac_1" || got.ExamDate == "" {
		t.Fatalf("unexpected upload %+v", got)
	}
	if err := svc.UploadMarks(context.Background(), domain.NewMarks{StudentID: "s1"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStudentService_OverviewDerivedValues(t *testing.T) {
	api := &stubSchoolAPI{
		student:    &domain.Student{StudentID: "s1", ClassName: "7", Section: "B"},
		attendance: &domain.AttendanceSummary{TotalDays: 10, PresentDays: 9, Percentage: 90},
		raw: map[string]string{
			"StudentMarks":  `[{"subject":"Maths","marks_obtained":40,"total_marks":50},{"subject":"Science","marks_obtained":45,"total_marks":50},{"subject":"Art","marks_obtained":0,"total_marks":0}]`,
			"StudentFees":   `{"tracking_id":"trk_1","student_id":"s1","total_fee_amount":30000,"paid_amount":10000,"pending_amount":20000,"payment_status":"PARTIAL"}`,
			"Announcements": `{"items":[{"announcement_id":"a1","title":"Sports day","content":"Friday"}]}`,
			"Timetable":     `[{"class_name":"7","section":"B","day":"Monday","periods":[{"period":1,"subject":"Maths"}]}]`,
		},
	}
	svc := NewStudentService(api, zerolog.Nop())

	out, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if len(out.Fees) != 1 || len(out.PendingFees) != 1 || out.TotalPending != 20000 || out.FeeStatus != "PARTIAL" {
		t.Fatalf("unexpected fee figures %+v", out)
	}
	if out.AverageMarks != 85 {
		t.Fatalf("expected average 85, got %v", out.AverageMarks)
	}
	if len(out.Announcements) != 1 || len(out.Timetable) != 1 {
		t.Fatalf("unexpected lists %+v", out)
	}
}

func TestStudentService_OverviewFailsTogether(t *testing.T) {
	api := &stubSchoolAPI{
		student: &domain.Student{StudentID: "s1"},
		errs:    map[string]error{"Announcements": errBackendDown},
	}
	if _, err := NewStudentService(api, zerolog.Nop()).Overview(context.Background()); !errors.Is(err, errBackendDown) {
		t.Fatalf("expected backend error, got %v", err)
	}
}

func TestParentService_Child(t *testing.T) {
	api := &stubSchoolAPI{
		raw: map[string]string{
			"MyChildren":      `[{"student_id":"s1","name":"Asha"}]`,
			"StudentMarks":    `{"results":[{"subject":"Maths","marks_obtained":40,"total_marks":50}]}`,
			"StudentPayments": `[{"payment_id":"p1","fee_id":"trk_1","amount":5000,"status":"SUCCESS"}]`,
		},
		attendance: &domain.AttendanceSummary{TotalDays: 4, PresentDays: 4, Percentage: 100},
		tracking:   &domain.FeeTracking{TrackingID: "trk_1", TotalFeeAmount: 30000, PaidAmount: 5000, PendingAmount: 25000, PaymentStatus: "PARTIAL"},
	}
	svc := NewParentService(api, zerolog.Nop())

	out, err := svc.Overview(context.Background(), "")
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	child := out.Selected
	if child == nil || child.StudentID != "s1" {
		t.Fatalf("expected first child selected, got %+v", child)
	}
	wantRow := domain.FeeRow{FeeID: "trk_1", FeeType: "Total Fees", Amount: 30000, PaidAmount: 5000, PendingAmount: 25000, Status: "PARTIAL"}
	if len(child.Fees) != 1 || child.Fees[0] != wantRow {
		t.Fatalf("unexpected fee rows %+v", child.Fees)
	}
	if len(child.Marks) != 1 || len(child.Payments) != 1 {
		t.Fatalf("unexpected child overview %+v", child)
	}
}

func TestParentService_MarksHiddenWithoutAttendance(t *testing.T) {
	api := &stubSchoolAPI{
		raw:      map[string]string{"StudentMarks": `[{"subject":"Maths","marks_obtained":40,"total_marks":50}]`},
		errs:     map[string]error{"StudentAttendance": errBackendDown},
		tracking: &domain.FeeTracking{},
	}
	child, err := NewParentService(api, zerolog.Nop()).Child(context.Background(), "s1")
	if err != nil {
		t.Fatalf("child: %v", err)
	}
	if len(child.Marks) != 0 || len(child.Fees) != 0 {
		t.Fatalf("expected no marks and no fee row, got %+v", child)
	}
	if !reflect.DeepEqual(child.Unavailable, []string{"attendance"}) {
		t.Fatalf("unexpected unavailable sections %v", child.Unavailable)
	}
}

func TestParentService_LinkChild(t *testing.T) {
	api := &stubSchoolAPI{}
	svc := NewParentService(api, zerolog.Nop())

	if err := svc.LinkChild(context.Background(), "  "); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := svc.LinkChild(context.Background(), " SMS-2026-7B-001 "); err != nil {
		t.Fatalf("link: %v", err)
	}
	if !reflect.DeepEqual(api.linked, []string{"SMS-2026-7B-001"}) {
		t.Fatalf("unexpected linked ids %v", api.linked)
	}
}

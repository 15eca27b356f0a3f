package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sadhana-school/portal/internal/core/domain"
)

func (a *API) post(ctx context.Context, path, route string, body any, out any) error {
	return a.call(ctx, request{method: http.MethodPost, path: path, route: route, body: body}, out)
}

func (a *API) delete(ctx context.Context, path, route string) error {
	return a.call(ctx, request{method: http.MethodDelete, path: path, route: route}, nil)
}

func esc(s string) string { return url.PathEscape(s) }

// Admin

func (a *API) AdminStats(ctx context.Context) (*domain.AdminStats, error) {
	var stats domain.AdminStats
	if err := a.get(ctx, "/admin/stats", "", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (a *API) ListStudents(ctx context.Context) (json.RawMessage, error) {
	return a.getRaw(ctx, "/students", "")
}

func (a *API) ListFaculty(ctx context.Context) (json.RawMessage, error) {
	return a.getRaw(ctx, "/faculty", "")
}

func (a *API) PendingUsers(ctx context.Context) (json.RawMessage, error) {
	return a.getRaw(ctx, "/admin/users/pending", "")
}

func (a *API) ListClasses(ctx context.Context) (json.RawMessage, error) {
	return a.getRaw(ctx, "/admin/classes", "")
}

func (a *API) FinanceSummary(ctx context.Context) (*domain.FinanceSummary, error) {
	var summary domain.FinanceSummary
	if err := a.get(ctx, "/admin/finance/summary", "", &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (a *API) FinanceTimeseries(ctx context.Context) (json.RawMessage, error) {
	return a.getRaw(ctx, "/admin/finance/timeseries", "")
}

func (a *API) ApproveUser(ctx context.Context, userID string) error {
	return a.post(ctx, "/admin/users/approve/"+esc(userID), "/admin/users/approve/:id", nil, nil)
}

func (a *API) RejectUser(ctx context.Context, userID string) error {
	return a.post(ctx, "/admin/users/reject/"+esc(userID), "/admin/users/reject/:id", nil, nil)
}

// The class, section and fee endpoints take their arguments as query
// parameters rather than a JSON body.

func (a *API) CreateClass(ctx context.Context, name string) error {
	return a.call(ctx, request{
		method: http.MethodPost,
		path:   "/admin/classes",
		query:  url.Values{"name": {name}},
	}, nil)
}

func (a *API) CreateSection(ctx context.Context, s domain.NewSection) error {
	return a.call(ctx, request{
		method: http.MethodPost,
		path:   "/admin/sections",
		query: url.Values{
			"class_id": {s.ClassID},
			"name":     {s.Name},
			"capacity": {strconv.Itoa(s.Capacity)},
		},
	}, nil)
}

func (a *API) CreateFeeStructure(ctx context.Context, f domain.NewFeeStructure) error {
	q := url.Values{
		"class_id":    {f.ClassID},
		"tuition_fee": {formatAmount(f.TuitionFee)},
		"exam_fee":    {formatAmount(f.ExamFee)},
		"lab_fee":     {formatAmount(f.LabFee)},
		"transport":   {formatAmount(f.Transport)},
		"scholarship": {formatAmount(f.Scholarship)},
	}
	if f.Section != "" {
		q.Set("section", f.Section)
	}
	if f.Frequency != "" {
		q.Set("frequency", f.Frequency)
	}
	return a.call(ctx, request{method: http.MethodPost, path: "/admin/fees", query: q}, nil)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (a *API) DeleteClass(ctx context.Context, classID string) error {
	return a.delete(ctx, "/admin/classes/"+esc(classID), "/admin/classes/:id")
}

func (a *API) DeleteStudent(ctx context.Context, studentID string) error {
	return a.delete(ctx, "/admin/students/"+esc(studentID), "/admin/students/:id")
}

func (a *API) DeleteFaculty(ctx context.Context, facultyID string) error {
	return a.delete(ctx, "/admin/faculty/"+esc(facultyID), "/admin/faculty/:id")
}

func (a *API) ClassWiseFeeReport(ctx context.Context) (json.RawMessage, error) {
	return a.getRaw(ctx, "/admin/fees/report/class-wise", "")
}

func (a *API) SectionWiseFeeReport(ctx context.Context, className string) (json.RawMessage, error) {
	return a.getRaw(ctx, "/admin/fees/report/section-wise/"+esc(className), "/admin/fees/report/section-wise/:class")
}

// Faculty

func (a *API) MyFaculty(ctx context.Context) (*domain.Faculty, error) {
	var f domain.Faculty
	if err := a.get(ctx, "/faculty/me", "", &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (a *API) MarkAttendance(ctx context.Context, records []domain.AttendanceRecord) error {
	return a.post(ctx, "/attendance/bulk", "", map[string]any{"records": records}, nil)
}

func (a *API) UploadMarks(ctx context.Context, marks domain.NewMarks) error {
	return a.post(ctx, "/marks", "", marks, nil)
}

// Student

func (a *API) MyStudent(ctx context.Context) (*domain.Student, error) {
	var s domain.Student
	if err := a.get(ctx, "/students/me", "", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (a *API) StudentAttendance(ctx context.Context, studentID string) (*domain.AttendanceSummary, error) {
	var s domain.AttendanceSummary
	if err := a.get(ctx, "/attendance/student/"+esc(studentID), "/attendance/student/:id", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (a *API) StudentMarks(ctx context.Context, studentID string) (json.RawMessage, error) {
	return a.getRaw(ctx, "/marks/student/"+esc(studentID), "/marks/student/:id")
}

func (a *API) StudentFees(ctx context.Context, studentID string) (json.RawMessage, error) {
	return a.getRaw(ctx, "/fees/student/"+esc(studentID), "/fees/student/:id")
}

func (a *API) Announcements(ctx context.Context) (json.RawMessage, error) {
	return a.getRaw(ctx, "/announcements", "")
}

func (a *API) Timetable(ctx context.Context, className, section string) (json.RawMessage, error) {
	return a.getRaw(ctx, "/timetable/"+esc(className)+"/"+esc(section), "/timetable/:class/:section")
}

// Parent

func (a *API) MyChildren(ctx context.Context) (json.RawMessage, error) {
	return a.getRaw(ctx, "/parents/me/children", "")
}

func (a *API) ChildFees(ctx context.Context, studentID string) (*domain.FeeTracking, error) {
	var t domain.FeeTracking
	if err := a.get(ctx, "/parents/student/"+esc(studentID)+"/fees", "/parents/student/:id/fees", &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (a *API) StudentPayments(ctx context.Context, studentID string) (json.RawMessage, error) {
	return a.getRaw(ctx, "/payments/student/"+esc(studentID), "/payments/student/:id")
}

func (a *API) LinkChild(ctx context.Context, studentID string) error {
	return a.post(ctx, "/parents/link-child/"+esc(studentID), "/parents/link-child/:id", nil, nil)
}

// Payments

func (a *API) CreatePaymentOrder(ctx context.Context, req domain.OrderRequest) (*domain.PaymentOrder, error) {
	var order domain.PaymentOrder
	if err := a.post(ctx, "/payments/create-order", "", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (a *API) VerifyPayment(ctx context.Context, v domain.PaymentVerification) (map[string]any, error) {
	result := map[string]any{}
	if err := a.post(ctx, "/payments/verify", "", v, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Registration

func (a *API) RegisterStudentProfile(ctx context.Context, profile domain.StudentProfile) (*domain.StudentRegistration, error) {
	var reg domain.StudentRegistration
	if err := a.post(ctx, "/auth/register-student", "", profile, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

// Chat

type chatReply struct {
	Response string `json:"response"`
}

// Chat asks the public assistant endpoint. A 401 here never logs the
// session out.
func (a *API) Chat(ctx context.Context, message string) (string, error) {
	var reply chatReply
	err := a.call(ctx, request{
		method: http.MethodPost,
		path:   "/chat",
		body:   map[string]string{"message": message},
		public: true,
	}, &reply)
	if err != nil {
		return "", err
	}
	return reply.Response, nil
}

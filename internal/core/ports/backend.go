package ports

import (
	"context"
	"encoding/json"

	"github.com/sadhana-school/portal/internal/core/domain"
)

// AuthAPI exchanges credentials with the school backend. Calls made through
// it never force a logout; the session store owns that decision.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*domain.AuthGrant, error)
	Register(ctx context.Context, fields domain.RegisterFields) (*domain.RegisterReply, error)
	CurrentUser(ctx context.Context, token string) (*domain.Principal, error)
}

// List endpoints return the raw response body so that each consumer can
// decode it with its own wrapper-key priority.

// AdminAPI is the administrator surface of the backend.
type AdminAPI interface {
	AdminStats(ctx context.Context) (*domain.AdminStats, error)
	ListStudents(ctx context.Context) (json.RawMessage, error)
	ListFaculty(ctx context.Context) (json.RawMessage, error)
	PendingUsers(ctx context.Context) (json.RawMessage, error)
	ListClasses(ctx context.Context) (json.RawMessage, error)
	FinanceSummary(ctx context.Context) (*domain.FinanceSummary, error)
	FinanceTimeseries(ctx context.Context) (json.RawMessage, error)
	ApproveUser(ctx context.Context, userID string) error
	RejectUser(ctx context.Context, userID string) error
	CreateClass(ctx context.Context, name string) error
	CreateSection(ctx context.Context, section domain.NewSection) error
	CreateFeeStructure(ctx context.Context, fee domain.NewFeeStructure) error
	DeleteClass(ctx context.Context, classID string) error
	DeleteStudent(ctx context.Context, studentID string) error
	DeleteFaculty(ctx context.Context, facultyID string) error
	ClassWiseFeeReport(ctx context.Context) (json.RawMessage, error)
	SectionWiseFeeReport(ctx context.Context, className string) (json.RawMessage, error)
}

// FacultyAPI is the teaching staff surface of the backend.
type FacultyAPI interface {
	MyFaculty(ctx context.Context) (*domain.Faculty, error)
	ListStudents(ctx context.Context) (json.RawMessage, error)
	MarkAttendance(ctx context.Context, records []domain.AttendanceRecord) error
	UploadMarks(ctx context.Context, marks domain.NewMarks) error
}

// StudentAPI serves the student's own records.
type StudentAPI interface {
	MyStudent(ctx context.Context) (*domain.Student, error)
	StudentAttendance(ctx context.Context, studentID string) (*domain.AttendanceSummary, error)
	StudentMarks(ctx context.Context, studentID string) (json.RawMessage, error)
	StudentFees(ctx context.Context, studentID string) (json.RawMessage, error)
	Announcements(ctx context.Context) (json.RawMessage, error)
	Timetable(ctx context.Context, className, section string) (json.RawMessage, error)
}

// ParentAPI serves a parent's linked children.
type ParentAPI interface {
	MyChildren(ctx context.Context) (json.RawMessage, error)
	StudentAttendance(ctx context.Context, studentID string) (*domain.AttendanceSummary, error)
	StudentMarks(ctx context.Context, studentID string) (json.RawMessage, error)
	ChildFees(ctx context.Context, studentID string) (*domain.FeeTracking, error)
	StudentPayments(ctx context.Context, studentID string) (json.RawMessage, error)
	LinkChild(ctx context.Context, studentID string) error
}

// PaymentAPI relays gateway orders and callbacks.
type PaymentAPI interface {
	CreatePaymentOrder(ctx context.Context, req domain.OrderRequest) (*domain.PaymentOrder, error)
	VerifyPayment(ctx context.Context, v domain.PaymentVerification) (map[string]any, error)
}

// RegistrationAPI completes a student registration.
type RegistrationAPI interface {
	RegisterStudentProfile(ctx context.Context, profile domain.StudentProfile) (*domain.StudentRegistration, error)
}

// ChatAPI is the public assistant endpoint.
type ChatAPI interface {
	Chat(ctx context.Context, message string) (string, error)
}

// SchoolAPI is every session-bound backend surface.
type SchoolAPI interface {
	AdminAPI
	FacultyAPI
	StudentAPI
	ParentAPI
	PaymentAPI
	RegistrationAPI
	ChatAPI
}

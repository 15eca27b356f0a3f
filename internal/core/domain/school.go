package domain

// Fee and payment status values reported by the backend.
const (
	FeePending = "PENDING"
	FeePartial = "PARTIAL"
	FeePaid    = "PAID"
)

// Attendance status values.
const (
	AttendancePresent = "PRESENT"
	AttendanceAbsent  = "ABSENT"
)

// Student is a student profile as listed by the backend.
type Student struct {
	StudentID       string  `json:"student_id"`
	UniqueStudentID string  `json:"unique_student_id,omitempty"`
	UserID          string  `json:"user_id,omitempty"`
	Name            string  `json:"name"`
	Email           string  `json:"email,omitempty"`
	ClassName       string  `json:"class_name,omitempty"`
	Section         string  `json:"section,omitempty"`
	RollNumber      string  `json:"roll_number,omitempty"`
	AdmissionNumber string  `json:"admission_number,omitempty"`
	AcademicYear    string  `json:"academic_year,omitempty"`
	DateOfBirth     string  `json:"date_of_birth,omitempty"`
	Gender          string  `json:"gender,omitempty"`
	PaymentStatus   string  `json:"payment_status,omitempty"`
	PendingAmount   float64 `json:"pending_amount,omitempty"`
}

// FeeStatus returns the payment status, treating a missing value as pending.
func (s Student) FeeStatus() string {
	if s.PaymentStatus == "" {
		return FeePending
	}
	return s.PaymentStatus
}

// Faculty is a teaching staff profile.
type Faculty struct {
	FacultyID       string `json:"faculty_id"`
	UserID          string `json:"user_id,omitempty"`
	Name            string `json:"name"`
	Email           string `json:"email,omitempty"`
	Subject         string `json:"subject,omitempty"`
	Qualification   string `json:"qualification,omitempty"`
	Phone           string `json:"phone,omitempty"`
	AssignedClass   string `json:"assigned_class,omitempty"`
	AssignedSection string `json:"assigned_section,omitempty"`
}

// PendingUser is an account awaiting administrator approval.
type PendingUser struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	Phone     string `json:"phone,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// AdminStats are the headline counters on the admin dashboard.
type AdminStats struct {
	TotalStudents int     `json:"total_students"`
	TotalFaculty  int     `json:"total_faculty"`
	TotalParents  int     `json:"total_parents"`
	PendingFees   float64 `json:"pending_fees"`
}

// ClassRoom is a configured class (grade).
type ClassRoom struct {
	ClassID   string `json:"class_id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at,omitempty"`
}

// NewSection creates a section within a class.
type NewSection struct {
	ClassID  string `json:"class_id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Capacity int    `json:"capacity" validate:"gt=0"`
}

// NewFeeStructure defines the fee components for a class or section.
type NewFeeStructure struct {
	ClassID     string  `json:"class_id" validate:"required"`
	Section     string  `json:"section,omitempty"`
	TuitionFee  float64 `json:"tuition_fee" validate:"gte=0"`
	ExamFee     float64 `json:"exam_fee" validate:"gte=0"`
	LabFee      float64 `json:"lab_fee" validate:"gte=0"`
	Transport   float64 `json:"transport" validate:"gte=0"`
	Scholarship float64 `json:"scholarship" validate:"gte=0"`
	Frequency   string  `json:"frequency,omitempty" validate:"omitempty,oneof=monthly quarterly yearly"`
}

// StatusTotal counts fee ledgers in one payment status.
type StatusTotal struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// FinanceSummary is the school-wide fee position.
type FinanceSummary struct {
	TotalExpected float64                `json:"total_expected"`
	Collected     float64                `json:"collected"`
	Pending       float64                `json:"pending"`
	ByStatus      map[string]StatusTotal `json:"by_status"`
}

// FinancePoint is one month of collected fees.
type FinancePoint struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

// FeeCollection is the shared shape of the fee report rows.
type FeeCollection struct {
	StudentCount         int     `json:"student_count"`
	TotalExpected        float64 `json:"total_expected"`
	TotalPaid            float64 `json:"total_paid"`
	TotalPending         float64 `json:"total_pending"`
	CollectionPercentage float64 `json:"collection_percentage"`
}

// ClassFeeReport summarises fee collection for one class.
type ClassFeeReport struct {
	Class string `json:"class"`
	FeeCollection
}

// SectionFeeReport summarises fee collection for one section of a class.
type SectionFeeReport struct {
	Section string `json:"section"`
	FeeCollection
}

// AttendanceRecord marks one student on one day.
type AttendanceRecord struct {
	StudentID string `json:"student_id"`
	Date      string `json:"date"`
	Status    string `json:"status"`
	MarkedBy  string `json:"marked_by"`
}

// AttendanceSummary is the per-student attendance view.
type AttendanceSummary struct {
	Records     []AttendanceRecord `json:"records"`
	TotalDays   int                `json:"total_days"`
	PresentDays int                `json:"present_days"`
	Percentage  float64            `json:"percentage"`
}

// Mark is one exam result.
type Mark struct {
	StudentID     string  `json:"student_id"`
	Subject       string  `json:"subject"`
	ExamName      string  `json:"exam_name"`
	MarksObtained float64 `json:"marks_obtained"`
	TotalMarks    float64 `json:"total_marks"`
	Grade         string  `json:"grade,omitempty"`
	UploadedBy    string  `json:"uploaded_by,omitempty"`
	ExamDate      string  `json:"exam_date,omitempty"`
}

// NewMarks is the faculty marks upload payload.
type NewMarks struct {
	StudentID     string  `json:"student_id" validate:"required"`
	Subject       string  `json:"subject" validate:"required"`
	ExamName      string  `json:"exam_name" validate:"required"`
	MarksObtained float64 `json:"marks_obtained" validate:"gte=0"`
	TotalMarks    float64 `json:"total_marks" validate:"gt=0"`
	Grade         string  `json:"grade,omitempty"`
	UploadedBy    string  `json:"uploaded_by"`
	ExamDate      string  `json:"exam_date"`
}

// PaymentHistoryEntry is one installment recorded against a fee tracking row.
type PaymentHistoryEntry struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
	Method string  `json:"method,omitempty"`
}

// FeeTracking is the backend's per-student fee ledger.
type FeeTracking struct {
	TrackingID      string                `json:"tracking_id"`
	StudentID       string                `json:"student_id"`
	UniqueStudentID string                `json:"unique_student_id,omitempty"`
	ClassName       string                `json:"class_name,omitempty"`
	Section         string                `json:"section,omitempty"`
	AcademicYear    string                `json:"academic_year,omitempty"`
	TotalFeeAmount  float64               `json:"total_fee_amount"`
	PaidAmount      float64               `json:"paid_amount"`
	PendingAmount   float64               `json:"pending_amount"`
	PaymentStatus   string                `json:"payment_status"`
	PaymentHistory  []PaymentHistoryEntry `json:"payment_history,omitempty"`
	DueDate         string                `json:"due_date,omitempty"`
}

// FeeRow is the display form of a payable fee.
type FeeRow struct {
	FeeID         string  `json:"fee_id"`
	FeeType       string  `json:"fee_type"`
	Amount        float64 `json:"amount"`
	PaidAmount    float64 `json:"paid_amount"`
	PendingAmount float64 `json:"pending_amount"`
	Status        string  `json:"status"`
	DueDate       string  `json:"due_date,omitempty"`
}

// Payable returns the amount still owed on the row.
func (f FeeRow) Payable() float64 {
	if f.PendingAmount > 0 {
		return f.PendingAmount
	}
	return f.Amount
}

// Row converts a tracking ledger into a single fee row.
func (t FeeTracking) Row() FeeRow {
	return FeeRow{
		FeeID:         t.TrackingID,
		FeeType:       "Total Fees",
		Amount:        t.TotalFeeAmount,
		PaidAmount:    t.PaidAmount,
		PendingAmount: t.PendingAmount,
		Status:        t.PaymentStatus,
		DueDate:       t.DueDate,
	}
}

// Payment is a recorded gateway payment.
type Payment struct {
	PaymentID         string  `json:"payment_id"`
	FeeID             string  `json:"fee_id"`
	StudentID         string  `json:"student_id,omitempty"`
	Amount            float64 `json:"amount"`
	PaymentMethod     string  `json:"payment_method,omitempty"`
	TransactionID     string  `json:"transaction_id,omitempty"`
	RazorpayOrderID   string  `json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID string  `json:"razorpay_payment_id,omitempty"`
	Status            string  `json:"status"`
	PaymentDate       string  `json:"payment_date,omitempty"`
}

// OrderRequest asks the backend to mint a gateway order.
type OrderRequest struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	FeeID     string  `json:"fee_id"`
	StudentID string  `json:"student_id"`
}

// PaymentOrder is the gateway order handed to the checkout.
type PaymentOrder struct {
	OrderID  string  `json:"order_id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	KeyID    string  `json:"key_id"`
}

// PaymentVerification is the gateway callback relayed to the backend.
type PaymentVerification struct {
	OrderID   string  `json:"razorpay_order_id" validate:"required"`
	PaymentID string  `json:"razorpay_payment_id" validate:"required"`
	Signature string  `json:"razorpay_signature" validate:"required"`
	FeeID     string  `json:"fee_id" validate:"required"`
	StudentID string  `json:"student_id" validate:"required"`
	Amount    float64 `json:"amount" validate:"gt=0"`
}

// Announcement is a school-wide notice.
type Announcement struct {
	AnnouncementID string   `json:"announcement_id"`
	Title          string   `json:"title"`
	Content        string   `json:"content"`
	TargetRoles    []string `json:"target_roles,omitempty"`
	Priority       string   `json:"priority,omitempty"`
	CreatedAt      string   `json:"created_at,omitempty"`
}

// Period is one slot in a day's timetable.
type Period struct {
	Period  int    `json:"period"`
	Subject string `json:"subject"`
	Faculty string `json:"faculty,omitempty"`
	Time    string `json:"time,omitempty"`
}

// TimetableDay lists the periods for one day of a section.
type TimetableDay struct {
	ClassName string   `json:"class_name"`
	Section   string   `json:"section"`
	Day       string   `json:"day"`
	Periods   []Period `json:"periods"`
}

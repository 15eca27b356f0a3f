package domain

import "time"

// AuthFields are the login details collected on the first wizard step.
// Passwords never leave the process that collected them.
type AuthFields struct {
	Name            string `json:"name" bson:"name" validate:"required"`
	Email           string `json:"email" bson:"email" validate:"required"`
	Phone           string `json:"phone,omitempty" bson:"phone,omitempty"`
	ConfirmPassword string `json:"confirm_password,omitempty" bson:"-" validate:"eqfield=Password"`
	Password        string `json:"password,omitempty" bson:"-" validate:"min=6"`
}

// PersonalFields are the student's personal details.
type PersonalFields struct {
	DateOfBirth string `json:"date_of_birth" bson:"date_of_birth" validate:"required"`
	Gender      string `json:"gender" bson:"gender" validate:"required"`
	Address     string `json:"address" bson:"address" validate:"required"`
	BloodGroup  string `json:"blood_group,omitempty" bson:"blood_group,omitempty"`
	AadhaarID   string `json:"aadhaar_id,omitempty" bson:"aadhaar_id,omitempty"`
	PhotoURL    string `json:"student_photo_url,omitempty" bson:"student_photo_url,omitempty"`
}

// AcademicFields place the student in a class and section.
type AcademicFields struct {
	ClassName       string `json:"class_name" bson:"class_name" validate:"required,classnum"`
	Section         string `json:"section" bson:"section" validate:"required,section"`
	AdmissionNumber string `json:"admission_number" bson:"admission_number" validate:"required"`
	AcademicYear    string `json:"academic_year,omitempty" bson:"academic_year,omitempty"`
	PreviousSchool  string `json:"previous_school,omitempty" bson:"previous_school,omitempty"`
	PreviousClass   string `json:"previous_class,omitempty" bson:"previous_class,omitempty"`
}

// GuardianFields name at least one parent or guardian and how to reach them.
type GuardianFields struct {
	FatherName   string `json:"father_name,omitempty" bson:"father_name,omitempty" validate:"anyguardian"`
	MotherName   string `json:"mother_name,omitempty" bson:"mother_name,omitempty"`
	GuardianName string `json:"guardian_name,omitempty" bson:"guardian_name,omitempty"`
	Phone        string `json:"parent_phone" bson:"parent_phone" validate:"required"`
	Email        string `json:"parent_email" bson:"parent_email" validate:"required"`
	Occupation   string `json:"parent_occupation,omitempty" bson:"parent_occupation,omitempty"`
	Address      string `json:"parent_address,omitempty" bson:"parent_address,omitempty"`
	PinCode      string `json:"parent_pin_code,omitempty" bson:"parent_pin_code,omitempty"`
}

// DefaultAcademicYear is used when the applicant leaves the year blank.
const DefaultAcademicYear = "2025-2026"

// RegistrationDraft accumulates the student registration across wizard steps.
type RegistrationDraft struct {
	ID        string         `json:"id" bson:"_id"`
	SessionID string         `json:"-" bson:"session_id"`
	Step      int            `json:"step" bson:"step"`
	AccountID string         `json:"account_id,omitempty" bson:"account_id,omitempty"`
	Auth      AuthFields     `json:"auth" bson:"auth"`
	Personal  PersonalFields `json:"personal" bson:"personal"`
	Academic  AcademicFields `json:"academic" bson:"academic"`
	Guardian  GuardianFields `json:"guardian" bson:"guardian"`
	StudentID string         `json:"student_id,omitempty" bson:"student_id,omitempty"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" bson:"updated_at"`
}

// StudentProfile is the completed registration posted to the backend.
type StudentProfile struct {
	UserID          string   `json:"user_id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	ClassName       string   `json:"class_name"`
	Section         string   `json:"section"`
	RollNumber      string   `json:"roll_number"`
	AdmissionNumber string   `json:"admission_number"`
	AcademicYear    string   `json:"academic_year"`
	DateOfBirth     string   `json:"date_of_birth"`
	Gender          string   `json:"gender"`
	BloodGroup      string   `json:"blood_group"`
	AadhaarID       string   `json:"aadhaar_id"`
	Address         string   `json:"address"`
	PreviousSchool  string   `json:"previous_school"`
	PreviousClass   string   `json:"previous_class"`
	PhotoURL        string   `json:"student_photo_url"`
	ParentIDs       []string `json:"parent_ids"`

	FatherName       string `json:"father_name,omitempty"`
	MotherName       string `json:"mother_name,omitempty"`
	GuardianName     string `json:"guardian_name,omitempty"`
	ParentPhone      string `json:"parent_phone,omitempty"`
	ParentEmail      string `json:"parent_email,omitempty"`
	ParentOccupation string `json:"parent_occupation,omitempty"`
	ParentAddress    string `json:"parent_address,omitempty"`
	ParentPinCode    string `json:"parent_pin_code,omitempty"`
}

// StudentRegistration is the backend's answer to a completed registration.
type StudentRegistration struct {
	Message   string   `json:"message"`
	StudentID string   `json:"student_id"`
	Student   *Student `json:"student,omitempty"`
}

// Package wizard drives the five-step student registration. Each step is
// guarded by validation; the account is created as soon as the login
// details pass and the full profile is posted from the confirmation step.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/sadhana-school/portal/internal/core/domain"
	"github.com/sadhana-school/portal/internal/core/ports"
)

// Step is a position in the registration flow.
type Step int

const (
	LoginDetails Step = iota + 1
	PersonalInfo
	AcademicInfo
	GuardianDetails
	Confirmation
	Submitted
)

func (s Step) String() string {
	switch s {
	case LoginDetails:
		return "LOGIN_DETAILS"
	case PersonalInfo:
		return "PERSONAL_INFO"
	case AcademicInfo:
		return "ACADEMIC_INFO"
	case GuardianDetails:
		return "GUARDIAN_DETAILS"
	case Confirmation:
		return "CONFIRMATION"
	case Submitted:
		return "SUBMITTED"
	default:
		return fmt.Sprintf("STEP_%d", int(s))
	}
}

// Label is the human heading of the step.
func (s Step) Label() string {
	switch s {
	case LoginDetails:
		return "Login Details"
	case PersonalInfo:
		return "Personal Info"
	case AcademicInfo:
		return "Academic Info"
	case GuardianDetails:
		return "Parent Details"
	case Confirmation:
		return "Confirmation"
	case Submitted:
		return "Submitted"
	default:
		return s.String()
	}
}

const missingAccountMessage = "Please complete Step 1 (Login Details) first"

var (
	ErrNoNextStep     = errors.New("confirmation step is completed with submit")
	ErrNotConfirming  = errors.New("registration can only be submitted from the confirmation step")
	ErrAlreadyDone    = errors.New("registration already submitted")
	errEmptyAccountID = errors.New("registration response carried no account identifier")
)

// StepError blocks a step transition. Message is the text shown to the
// applicant.
type StepError struct {
	Step    Step
	Message string
	Fields  []domain.FieldError
}

func (e *StepError) Error() string { return e.Message }

// Registrar creates the applicant's account.
type Registrar interface {
	Register(ctx context.Context, fields domain.RegisterFields) (*domain.Registration, error)
}

// Input carries the fields entered on one or more steps. Nil sections are
// left untouched.
type Input struct {
	Auth     *domain.AuthFields     `json:"auth,omitempty"`
	Personal *domain.PersonalFields `json:"personal,omitempty"`
	Academic *domain.AcademicFields `json:"academic,omitempty"`
	Guardian *domain.GuardianFields `json:"guardian,omitempty"`
}

// Wizard advances a registration draft. It mutates the draft it was given.
type Wizard struct {
	draft     *domain.RegistrationDraft
	registrar Registrar
	submitter ports.RegistrationAPI
	validate  *validator.Validate
	log       zerolog.Logger
	now       func() time.Time
}

// New resumes the wizard at the draft's recorded step.
func New(draft *domain.RegistrationDraft, registrar Registrar, submitter ports.RegistrationAPI, v *validator.Validate, log zerolog.Logger) *Wizard {
	if draft.Step < int(LoginDetails) || draft.Step > int(Submitted) {
		draft.Step = int(LoginDetails)
	}
	if v == nil {
		v = NewValidator()
	}
	return &Wizard{
		draft:     draft,
		registrar: registrar,
		submitter: submitter,
		validate:  v,
		log:       log,
		now:       time.Now,
	}
}

// Step returns the current step.
func (w *Wizard) Step() Step { return Step(w.draft.Step) }

// Draft returns the draft being advanced.
func (w *Wizard) Draft() *domain.RegistrationDraft { return w.draft }

// Apply records entered fields without validating them.
func (w *Wizard) Apply(in Input) error {
	if w.Step() == Submitted {
		return ErrAlreadyDone
	}
	if in.Auth != nil {
		w.draft.Auth = *in.Auth
	}
	if in.Personal != nil {
		w.draft.Personal = *in.Personal
	}
	if in.Academic != nil {
		w.draft.Academic = *in.Academic
	}
	if in.Guardian != nil {
		w.draft.Guardian = *in.Guardian
	}
	w.touch()
	return nil
}

// Next validates the current step and moves forward. Passing the login
// details registers the account immediately.
func (w *Wizard) Next(ctx context.Context) (Step, error) {
	step := w.Step()
	switch step {
	case LoginDetails:
		if err := w.completeLogin(ctx); err != nil {
			return step, err
		}
	case PersonalInfo:
		if err := check(w.validate, step, w.draft.Personal); err != nil {
			return step, err
		}
	case AcademicInfo:
		if err := check(w.validate, step, w.draft.Academic); err != nil {
			return step, err
		}
	case GuardianDetails:
		if err := check(w.validate, step, w.draft.Guardian); err != nil {
			return step, err
		}
	case Confirmation:
		return step, ErrNoNextStep
	case Submitted:
		return step, ErrAlreadyDone
	}
	w.moveTo(step + 1)
	return w.Step(), nil
}

type loginIdentity struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required"`
}

func (w *Wizard) completeLogin(ctx context.Context) error {
	auth := w.draft.Auth
	if w.draft.AccountID != "" {
		// The account already exists; only the identity shown in the
		// summary can still be corrected.
		return check(w.validate, LoginDetails, loginIdentity{Name: auth.Name, Email: auth.Email})
	}
	if err := check(w.validate, LoginDetails, auth); err != nil {
		return err
	}

	reg, err := w.registrar.Register(ctx, domain.RegisterFields{
		Email:    auth.Email,
		Password: auth.Password,
		Name:     auth.Name,
		Role:     domain.RoleStudent,
		Phone:    auth.Phone,
	})
	if err != nil {
		return fmt.Errorf("register account: %w", err)
	}
	if reg.UserID == "" {
		return errEmptyAccountID
	}

	w.draft.AccountID = reg.UserID
	w.draft.Auth.Password = ""
	w.draft.Auth.ConfirmPassword = ""
	w.log.Info().
		Str("draft_id", w.draft.ID).
		Str("account_id", reg.UserID).
		Bool("pending", reg.Pending).
		Msg("registration account created")
	return nil
}

// Back returns to the previous step without validation. Entered data is
// kept.
func (w *Wizard) Back() (Step, error) {
	step := w.Step()
	switch step {
	case Submitted:
		return step, ErrAlreadyDone
	case LoginDetails:
		return step, nil
	}
	w.moveTo(step - 1)
	return w.Step(), nil
}

// Submit posts the accumulated record. It is only valid on the
// confirmation step. A failure leaves the account registered but the
// profile incomplete; the draft stays on the confirmation step.
func (w *Wizard) Submit(ctx context.Context) (*domain.StudentRegistration, error) {
	switch w.Step() {
	case Submitted:
		return nil, ErrAlreadyDone
	case Confirmation:
	default:
		return nil, ErrNotConfirming
	}
	if w.draft.AccountID == "" {
		return nil, &StepError{Step: LoginDetails, Message: missingAccountMessage}
	}
	for _, s := range []struct {
		step   Step
		fields any
	}{
		{PersonalInfo, w.draft.Personal},
		{AcademicInfo, w.draft.Academic},
		{GuardianDetails, w.draft.Guardian},
	} {
		if err := check(w.validate, s.step, s.fields); err != nil {
			return nil, err
		}
	}

	reg, err := w.submitter.RegisterStudentProfile(ctx, w.profile())
	if err != nil {
		w.log.Warn().Err(err).Str("account_id", w.draft.AccountID).Msg("student profile submission failed")
		return nil, fmt.Errorf("submit registration: %w", err)
	}
	w.draft.StudentID = reg.StudentID
	w.moveTo(Submitted)
	return reg, nil
}

func (w *Wizard) profile() domain.StudentProfile {
	d := w.draft
	year := strings.TrimSpace(d.Academic.AcademicYear)
	if year == "" {
		year = domain.DefaultAcademicYear
	}
	return domain.StudentProfile{
		UserID:           d.AccountID,
		Name:             d.Auth.Name,
		Email:            d.Auth.Email,
		ClassName:        strings.TrimSpace(d.Academic.ClassName),
		Section:          d.Academic.Section,
		RollNumber:       "1",
		AdmissionNumber:  d.Academic.AdmissionNumber,
		AcademicYear:     year,
		DateOfBirth:      d.Personal.DateOfBirth,
		Gender:           d.Personal.Gender,
		BloodGroup:       d.Personal.BloodGroup,
		AadhaarID:        d.Personal.AadhaarID,
		Address:          d.Personal.Address,
		PreviousSchool:   d.Academic.PreviousSchool,
		PreviousClass:    d.Academic.PreviousClass,
		PhotoURL:         d.Personal.PhotoURL,
		ParentIDs:        []string{},
		FatherName:       d.Guardian.FatherName,
		MotherName:       d.Guardian.MotherName,
		GuardianName:     d.Guardian.GuardianName,
		ParentPhone:      d.Guardian.Phone,
		ParentEmail:      d.Guardian.Email,
		ParentOccupation: d.Guardian.Occupation,
		ParentAddress:    d.Guardian.Address,
		ParentPinCode:    d.Guardian.PinCode,
	}
}

func (w *Wizard) moveTo(step Step) {
	w.draft.Step = int(step)
	w.touch()
}

func (w *Wizard) touch() {
	now := w.now().UTC()
	if w.draft.CreatedAt.IsZero() {
		w.draft.CreatedAt = now
	}
	w.draft.UpdatedAt = now
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sadhana-school/portal/internal/core/domain"
	"github.com/sadhana-school/portal/internal/core/ports"
	"github.com/sadhana-school/portal/internal/core/wizard"
)

// DraftView is a registration draft with its wizard position.
type DraftView struct {
	Draft     *domain.RegistrationDraft   `json:"draft"`
	Step      string                      `json:"step"`
	StepLabel string                      `json:"step_label"`
	Summary   *wizard.Summary             `json:"summary,omitempty"`
	Result    *domain.StudentRegistration `json:"result,omitempty"`
}

// RegistrationService keeps student registration drafts between requests
// and drives them through the wizard.
type RegistrationService struct {
	drafts   ports.DraftRepository
	validate *validator.Validate
	logger   zerolog.Logger
	now      func() time.Time
}

func NewRegistrationService(drafts ports.DraftRepository, logger zerolog.Logger) *RegistrationService {
	return &RegistrationService{
		drafts:   drafts,
		validate: wizard.NewValidator(),
		logger:   logger,
		now:      time.Now,
	}
}

// Start opens a new draft on the login details step.
func (s *RegistrationService) Start(ctx context.Context, sessionID string) (*DraftView, error) {
	now := s.now().UTC()
	draft := &domain.RegistrationDraft{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Step:      int(wizard.LoginDetails),
		Academic:  domain.AcademicFields{AcademicYear: domain.DefaultAcademicYear},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return s.view(s.wizard(draft, nil, nil), nil), nil
}

// Get returns a draft owned by the session.
func (s *RegistrationService) Get(ctx context.Context, sessionID, id string) (*DraftView, error) {
	draft, err := s.drafts.Find(ctx, sessionID, id)
	if err != nil {
		return nil, err
	}
	return s.view(s.wizard(draft, nil, nil), nil), nil
}

// Next records the entered fields and tries to advance. Entered data is
// saved even when the step guard rejects it.
func (s *RegistrationService) Next(ctx context.Context, sessionID, id string, in wizard.Input, registrar wizard.Registrar) (*DraftView, error) {
	draft, err := s.drafts.Find(ctx, sessionID, id)
	if err != nil {
		return nil, err
	}
	w := s.wizard(draft, registrar, nil)
	if err := w.Apply(in); err != nil {
		return nil, err
	}
	_, stepErr := w.Next(ctx)
	if err := s.drafts.Save(ctx, w.Draft()); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	if stepErr != nil {
		return nil, stepErr
	}
	return s.view(w, nil), nil
}

// Back moves the draft one step back without validation.
func (s *RegistrationService) Back(ctx context.Context, sessionID, id string) (*DraftView, error) {
	draft, err := s.drafts.Find(ctx, sessionID, id)
	if err != nil {
		return nil, err
	}
	w := s.wizard(draft, nil, nil)
	if _, err := w.Back(); err != nil {
		return nil, err
	}
	if err := s.drafts.Save(ctx, w.Draft()); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return s.view(w, nil), nil
}

// Submit posts the completed registration and discards the draft.
func (s *RegistrationService) Submit(ctx context.Context, sessionID, id string, submitter ports.RegistrationAPI) (*DraftView, error) {
	draft, err := s.drafts.Find(ctx, sessionID, id)
	if err != nil {
		return nil, err
	}
	w := s.wizard(draft, nil, submitter)
	reg, err := w.Submit(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.drafts.Delete(ctx, sessionID, id); err != nil {
		s.logger.Warn().Err(err).Str("draft_id", id).Msg("submitted draft not deleted")
	}
	s.logger.Info().Str("draft_id", id).Str("student_id", reg.StudentID).Msg("student registration completed")
	return s.view(w, reg), nil
}

func (s *RegistrationService) wizard(draft *domain.RegistrationDraft, registrar wizard.Registrar, submitter ports.RegistrationAPI) *wizard.Wizard {
	return wizard.New(draft, registrar, submitter, s.validate, s.logger)
}

func (s *RegistrationService) view(w *wizard.Wizard, reg *domain.StudentRegistration) *DraftView {
	v := &DraftView{
		Draft:     w.Draft(),
		Step:      w.Step().String(),
		StepLabel: w.Step().Label(),
		Result:    reg,
	}
	if w.Step() >= wizard.Confirmation {
		summary := w.Summary()
		v.Summary = &summary
	}
	return v
}

package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sadhana-school/portal/internal/api/metrics"
	"github.com/sadhana-school/portal/internal/core/service"
	"github.com/sadhana-school/portal/internal/core/wizard"
)

// RegistrationHandler drives the student registration wizard. Drafts are
// owned by the browser session that started them.
type RegistrationHandler struct {
	svc     *service.RegistrationService
	metrics *metrics.Metrics
}

func NewRegistrationHandler(svc *service.RegistrationService, m *metrics.Metrics) *RegistrationHandler {
	return &RegistrationHandler{svc: svc, metrics: m}
}

// Start opens a new registration draft.
//
// @Summary      Start a student registration
// @Tags         registration
// @Produce      json
// @Success      201  {object}  service.DraftView
// @Router       /register/student [post]
func (h *RegistrationHandler) Start(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	view, err := h.svc.Start(c.Request().Context(), ws.SessionID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, view)
}

// Get returns a draft.
//
// @Summary      Get a registration draft
// @Tags         registration
// @Produce      json
// @Param        id   path      string  true  "Draft id"
// @Success      200  {object}  service.DraftView
// @Failure      404  {object}  map[string]string
// @Router       /register/student/{id} [get]
func (h *RegistrationHandler) Get(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	view, err := h.svc.Get(c.Request().Context(), ws.SessionID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// Next records the entered fields and advances when the step is valid.
// Completing the login details creates the student account.
//
// @Summary      Advance the registration
// @Tags         registration
// @Accept       json
// @Produce      json
// @Param        id    path      string        true  "Draft id"
// @Param        body  body      wizard.Input  true  "Fields of the current step"
// @Success      200   {object}  service.DraftView
// @Failure      422   {object}  map[string]string
// @Router       /register/student/{id}/next [post]
func (h *RegistrationHandler) Next(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	var in wizard.Input
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	view, err := h.svc.Next(c.Request().Context(), ws.SessionID, c.Param("id"), in, ws.Session)
	if err != nil {
		h.countRejection(err)
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// Back returns to the previous step.
//
// @Summary      Go back one step
// @Tags         registration
// @Produce      json
// @Param        id   path      string  true  "Draft id"
// @Success      200  {object}  service.DraftView
// @Router       /register/student/{id}/back [post]
func (h *RegistrationHandler) Back(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	view, err := h.svc.Back(c.Request().Context(), ws.SessionID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// Submit posts the completed registration from the confirmation step.
//
// @Summary      Submit the registration
// @Tags         registration
// @Produce      json
// @Param        id   path      string  true  "Draft id"
// @Success      200  {object}  service.DraftView
// @Failure      409  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /register/student/{id}/submit [post]
func (h *RegistrationHandler) Submit(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	view, err := h.svc.Submit(c.Request().Context(), ws.SessionID, c.Param("id"), ws.API)
	if err != nil {
		h.countRejection(err)
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (h *RegistrationHandler) countRejection(err error) {
	var se *wizard.StepError
	if errors.As(err, &se) {
		h.metrics.WizardRejectionsTotal.WithLabelValues(se.Step.String()).Inc()
	}
}

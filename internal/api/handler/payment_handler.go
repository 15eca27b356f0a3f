package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sadhana-school/portal/internal/core/domain"
	"github.com/sadhana-school/portal/internal/core/service"
)

type PaymentHandler struct {
	log zerolog.Logger
}

func NewPaymentHandler(log zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{log: log}
}

type orderRequest struct {
	StudentID string        `json:"student_id" validate:"required"`
	Fee       domain.FeeRow `json:"fee"`
}

// CreateOrder mints a gateway order for the outstanding amount of a fee.
//
// @Summary      Create a payment order
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body  body      orderRequest  true  "Student and fee row"
// @Success      201   {object}  domain.PaymentOrder
// @Failure      422   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /payments/order [post]
func (h *PaymentHandler) CreateOrder(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	var req orderRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	order, err := service.NewPaymentService(ws.API, h.log).CreateOrder(c.Request().Context(), req.StudentID, req.Fee)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, order)
}

// Verify relays the gateway callback for signature verification.
//
// @Summary      Verify a payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body  body      domain.PaymentVerification  true  "Gateway callback"
// @Success      200   {object}  map[string]any
// @Failure      422   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /payments/verify [post]
func (h *PaymentHandler) Verify(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	var req domain.PaymentVerification
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	result, err := service.NewPaymentService(ws.API, h.log).Verify(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sadhana-school/portal/internal/core/domain"
	"github.com/sadhana-school/portal/internal/core/ports"
)

const currencyINR = "INR"

// Payment stages.
const (
	StageOrder  = "order"
	StageVerify = "verify"
)

// PaymentError is a failure while creating or verifying a gateway payment.
type PaymentError struct {
	Stage string
	Err   error
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment %s failed: %v", e.Stage, e.Err)
}

func (e *PaymentError) Unwrap() error { return e.Err }

type PaymentService struct {
	api    ports.PaymentAPI
	logger zerolog.Logger
}

func NewPaymentService(api ports.PaymentAPI, logger zerolog.Logger) *PaymentService {
	return &PaymentService{api: api, logger: logger}
}

// CreateOrder mints a gateway order for the outstanding amount of a fee.
// An order without an order id or key id is rejected.
func (s *PaymentService) CreateOrder(ctx context.Context, studentID string, fee domain.FeeRow) (*domain.PaymentOrder, error) {
	if err := required("student_id", studentID); err != nil {
		return nil, err
	}
	amount := fee.Payable()
	if amount <= 0 {
		return nil, invalid("amount", "nothing to pay for this fee")
	}

	order, err := s.api.CreatePaymentOrder(ctx, domain.OrderRequest{
		Amount:    amount,
		Currency:  currencyINR,
		FeeID:     fee.FeeID,
		StudentID: studentID,
	})
	if err != nil {
		return nil, &PaymentError{Stage: StageOrder, Err: err}
	}
	if order.OrderID == "" || order.KeyID == "" {
		s.logger.Error().Str("fee_id", fee.FeeID).Msg("payment order missing order_id or key_id")
		return nil, &PaymentError{Stage: StageOrder, Err: domain.ErrInvalidOrder}
	}
	s.logger.Info().Str("order_id", order.OrderID).Str("student_id", studentID).Float64("amount", amount).Msg("payment order created")
	return order, nil
}

// Verify relays the gateway callback to the backend for signature checks.
func (s *PaymentService) Verify(ctx context.Context, v domain.PaymentVerification) (map[string]any, error) {
	if err := validateStruct(v); err != nil {
		return nil, err
	}
	result, err := s.api.VerifyPayment(ctx, v)
	if err != nil {
		return nil, &PaymentError{Stage: StageVerify, Err: err}
	}
	s.logger.Info().Str("order_id", v.OrderID).Str("payment_id", v.PaymentID).Msg("payment verified")
	return result, nil
}

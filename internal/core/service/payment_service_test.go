package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sadhana-school/portal/internal/core/domain"
)

func TestPaymentService_CreateOrderUsesPendingAmount(t *testing.T) {
	api := &stubSchoolAPI{order: &domain.PaymentOrder{OrderID: "order_1", Amount: 2500000, Currency: "INR", KeyID: "rzp_test"}}
	svc := NewPaymentService(api, zerolog.Nop())

	order, err := svc.CreateOrder(context.Background(), "s1", domain.FeeRow{FeeID: "trk_1", Amount: 30000, PendingAmount: 25000})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.OrderID != "order_1" {
		t.Fatalf("unexpected order %+v", order)
	}
	want := domain.OrderRequest{Amount: 25000, Currency: "INR", FeeID: "trk_1", StudentID: "s1"}
	if api.orders[0] != want {
		t.Fatalf("unexpected request %+v", api.orders[0])
	}
}

func TestPaymentService_CreateOrderFallsBackToAmount(t *testing.T) {
	api := &stubSchoolAPI{order: &domain.PaymentOrder{OrderID: "order_1", KeyID: "rzp_test"}}
	svc := NewPaymentService(api, zerolog.Nop())

	if _, err := svc.CreateOrder(context.Background(), "s1", domain.FeeRow{FeeID: "f1", Amount: 1200}); err != nil {
		t.Fatalf("create order: %v", err)
	}
	if api.orders[0].Amount != 1200 {
		t.Fatalf("expected amount fallback, got %v", api.orders[0].Amount)
	}
}

func TestPaymentService_InvalidOrder(t *testing.T) {
	api := &stubSchoolAPI{order: &domain.PaymentOrder{OrderID: "order_1"}}
	svc := NewPaymentService(api, zerolog.Nop())

	_, err := svc.CreateOrder(context.Background(), "s1", domain.FeeRow{FeeID: "f1", Amount: 10})
	var payErr *PaymentError
	if !errors.As(err, &payErr) || payErr.Stage != StageOrder || !errors.Is(err, domain.ErrInvalidOrder) {
		t.Fatalf("expected invalid order payment error, got %v", err)
	}
}

func TestPaymentService_VerifyWrapsGatewayFailure(t *testing.T) {
	api := &stubSchoolAPI{errs: map[string]error{"VerifyPayment": errBackendDown}}
	svc := NewPaymentService(api, zerolog.Nop())

	_, err := svc.Verify(context.Background(), domain.PaymentVerification{
		OrderID: "order_1", PaymentID: "pay_1", Signature: "sig", FeeID: "f1", StudentID: "s1", Amount: 10,
	})
	var payErr *PaymentError
	if !errors.As(err, &payErr) || payErr.Stage != StageVerify || !errors.Is(err, errBackendDown) {
		t.Fatalf("expected verify payment error, got %v", err)
	}

	if _, err := svc.Verify(context.Background(), domain.PaymentVerification{}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

// Package payment handles the subscription checkout. It shares no state with
// the submission pipeline.
package payment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gdugdh24/yuelao-backend/internal/domain"
)

const eventCheckoutCompleted = "checkout.session.completed"

type Gateway interface {
	CreateCheckoutSession(ctx context.Context) (*domain.CheckoutSession, error)
	ParseEvent(payload []byte, signature string) (*domain.PaymentEvent, error)
}

type PaymentUseCase struct {
	gateway Gateway
	logger  *slog.Logger
}

// NewPaymentUseCase with a nil gateway disables payments.
func NewPaymentUseCase(gateway Gateway, logger *slog.Logger) *PaymentUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &PaymentUseCase{
		gateway: gateway,
		logger:  logger.With(slog.String("component", "payment")),
	}
}

func (uc *PaymentUseCase) CreateCheckout(ctx context.Context) (*domain.CheckoutSession, error) {
	if uc.gateway == nil {
		return nil, domain.ErrPaymentsDisabled
	}

	session, err := uc.gateway.CreateCheckoutSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}

	uc.logger.Info("checkout session created", slog.String("checkout_session_id", session.ID))
	return session, nil
}

// HandleWebhook verifies and records one webhook delivery. Unhandled event
// types are accepted and ignored.
func (uc *PaymentUseCase) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if uc.gateway == nil {
		return domain.ErrPaymentsDisabled
	}

	event, err := uc.gateway.ParseEvent(payload, signature)
	if err != nil {
		uc.logger.Warn("webhook signature verification failed", slog.Any("error", err))
		return domain.ErrInvalidSignature
	}

	switch event.Type {
	case eventCheckoutCompleted:
		uc.logger.InfoContext(ctx, "payment successful",
			slog.String("event_id", event.ID),
			slog.String("checkout_session_id", event.CheckoutSessionID),
			slog.String("customer_email", event.CustomerEmail),
		)
	default:
		uc.logger.DebugContext(ctx, "webhook event ignored", slog.String("event_id", event.ID), slog.String("type", event.Type))
	}
	return nil
}

// Package stripe adapts the Stripe API to the payment use case.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	stripeapi "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/gdugdh24/yuelao-backend/internal/config"
	"github.com/gdugdh24/yuelao-backend/internal/domain"
)

const EventCheckoutCompleted = "checkout.session.completed"

type Gateway struct {
	api           *client.API
	priceID       string
	webhookSecret string
	frontendURL   string
}

// NewGateway uses the live Stripe backends when backends is nil.
func NewGateway(cfg config.StripeConfig, backends *stripeapi.Backends) *Gateway {
	api := &client.API{}
	api.Init(cfg.SecretKey, backends)

	return &Gateway{
		api:           api,
		priceID:       cfg.PriceID,
		webhookSecret: cfg.WebhookSecret,
		frontendURL:   strings.TrimSuffix(cfg.FrontendURL, "/"),
	}
}

func (g *Gateway) CreateCheckoutSession(ctx context.Context) (*domain.CheckoutSession, error) {
	params := &stripeapi.CheckoutSessionParams{
		Mode: stripeapi.String(string(stripeapi.CheckoutSessionModeSubscription)),
		LineItems: []*stripeapi.CheckoutSessionLineItemParams{
			{
				Price:    stripeapi.String(g.priceID),
				Quantity: stripeapi.Int64(1),
			},
		},
		SuccessURL: stripeapi.String(g.frontendURL + "/?payment=success&session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripeapi.String(g.frontendURL + "/?payment=cancelled"),
	}
	params.Context = ctx

	s, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &domain.CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

// ParseEvent verifies the Stripe-Signature header and decodes the event.
func (g *Gateway) ParseEvent(payload []byte, signature string) (*domain.PaymentEvent, error) {
	if g.webhookSecret == "" {
		return nil, fmt.Errorf("webhook secret not configured")
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, err
	}

	out := &domain.PaymentEvent{ID: event.ID, Type: string(event.Type)}

	if out.Type == EventCheckoutCompleted && event.Data != nil {
		var session stripeapi.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, fmt.Errorf("failed to decode checkout session: %w", err)
		}
		out.CheckoutSessionID = session.ID
		if session.CustomerDetails != nil {
			out.CustomerEmail = session.CustomerDetails.Email
		}
	}

	return out, nil
}

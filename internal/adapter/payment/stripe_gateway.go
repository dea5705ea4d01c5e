package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"bizlevel/internal/config"
	"bizlevel/internal/domain"

	stripelib "github.com/stripe/stripe-go/v82"
	portalsession "github.com/stripe/stripe-go/v82/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeGateway implements domain.PaymentGateway with the Stripe API.
type StripeGateway struct {
	cfg config.StripeConfig

	createCheckoutSession func(params *stripelib.CheckoutSessionParams) (*stripelib.CheckoutSession, error)
	createPortalSession   func(params *stripelib.BillingPortalSessionParams) (*stripelib.BillingPortalSession, error)
}

// NewStripeGateway configures the global Stripe key and returns the gateway.
func NewStripeGateway(cfg config.StripeConfig) *StripeGateway {
	stripelib.Key = strings.TrimSpace(cfg.SecretKey)
	return &StripeGateway{
		cfg:                   cfg,
		createCheckoutSession: checkoutsession.New,
		createPortalSession:   portalsession.New,
	}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutSession, error) {
	if req.PriceID == "" {
		return nil, domain.NewInvalidPlanError(string(req.Plan))
	}

	params := &stripelib.CheckoutSessionParams{
		Mode:              stripelib.String(string(stripelib.CheckoutSessionModeSubscription)),
		SuccessURL:        stripelib.String(g.cfg.SuccessURL),
		CancelURL:         stripelib.String(g.cfg.CancelURL),
		ClientReferenceID: stripelib.String(req.UserID),
		LineItems: []*stripelib.CheckoutSessionLineItemParams{
			{
				Price:    stripelib.String(req.PriceID),
				Quantity: stripelib.Int64(1),
			},
		},
		SubscriptionData: &stripelib.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{"user_id": req.UserID, "plan": string(req.Plan)},
		},
	}
	if req.Email != "" {
		params.CustomerEmail = stripelib.String(req.Email)
	}
	params.AddMetadata("user_id", req.UserID)
	params.AddMetadata("plan", string(req.Plan))
	params.AddMetadata("price_id", req.PriceID)
	params.Context = ctx

	session, err := g.createCheckoutSession(params)
	if err != nil {
		return nil, domain.NewUpstreamError("failed to create checkout session", err)
	}
	if session == nil || strings.TrimSpace(session.URL) == "" {
		return nil, domain.NewUpstreamError("checkout session has no URL", nil)
	}
	return &domain.CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

func (g *StripeGateway) CreatePortalSession(ctx context.Context, customerID string) (string, error) {
	params := &stripelib.BillingPortalSessionParams{
		Customer:  stripelib.String(customerID),
		ReturnURL: stripelib.String(g.cfg.PortalReturnURL),
	}
	params.Context = ctx

	session, err := g.createPortalSession(params)
	if err != nil {
		return "", domain.NewUpstreamError("failed to create billing portal session", err)
	}
	return session.URL, nil
}

// ParseWebhook verifies the Stripe-Signature header and decodes the handled event types.
func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*domain.PaymentEvent, error) {
	if strings.TrimSpace(g.cfg.WebhookSecret) == "" {
		return nil, domain.NewInternalError("webhook secret not configured", nil)
	}
	if strings.TrimSpace(signature) == "" {
		return nil, domain.NewInvalidSignatureError(fmt.Errorf("missing Stripe signature"))
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, g.cfg.WebhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, domain.NewInvalidSignatureError(err)
	}

	out := &domain.PaymentEvent{
		ID:      event.ID,
		Type:    string(event.Type),
		Created: time.Unix(event.Created, 0).UTC(),
		Payload: payload,
	}
	if event.Data == nil {
		return out, nil
	}

	switch out.Type {
	case domain.EventCheckoutCompleted:
		var s checkoutSessionObject
		if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("decode checkout.session: %v", err))
		}
		out.Checkout = s.toDomain()
	case domain.EventInvoicePaid:
		var inv invoiceObject
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("decode invoice: %v", err))
		}
		out.Invoice = inv.toDomain()
	case domain.EventSubscriptionUpdated, domain.EventSubscriptionDeleted:
		var sub subscriptionObject
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("decode subscription: %v", err))
		}
		out.Subscription = sub.toDomain()
	}
	return out, nil
}

package handler

import (
	"errors"

	"bizlevel/internal/domain"
	"bizlevel/internal/dto"
	"bizlevel/internal/logger"
	"bizlevel/internal/service"
	"bizlevel/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// StripeSignatureHeader carries the webhook signature.
const StripeSignatureHeader = "Stripe-Signature"

// BillingHandler handles subscription checkout and the payment webhook.
type BillingHandler struct {
	billing   service.BillingService
	webhooks  service.WebhookService
	gateway   domain.PaymentGateway
	validator *validation.Validator
}

func NewBillingHandler(billing service.BillingService, webhooks service.WebhookService, gateway domain.PaymentGateway, validator *validation.Validator) *BillingHandler {
	return &BillingHandler{billing: billing, webhooks: webhooks, gateway: gateway, validator: validator}
}

// CreateCheckoutSession handles POST /api/billing/checkout-session
func (h *BillingHandler) CreateCheckoutSession(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req dto.CheckoutRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return err
	}

	session, err := h.billing.CreateCheckoutSession(c.UserContext(), id, req.Plan)
	if err != nil {
		return err
	}
	return c.JSON(dto.CheckoutResponse{SessionID: session.ID, URL: session.URL})
}

// CreatePortalSession handles POST /api/billing/portal-session
func (h *BillingHandler) CreatePortalSession(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	url, err := h.billing.CreatePortalSession(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.PortalResponse{URL: url})
}

// HandleStripeWebhook handles POST /api/webhooks/stripe. The signature is
// verified over the raw body. A processing failure answers 500 so the
// provider redelivers the event.
func (h *BillingHandler) HandleStripeWebhook(c *fiber.Ctx) error {
	// fasthttp reuses the body buffer after the handler returns.
	payload := append([]byte(nil), c.Body()...)

	event, err := h.gateway.ParseWebhook(payload, c.Get(StripeSignatureHeader))
	if err != nil {
		var domainErr *domain.DomainError
		if !errors.As(err, &domainErr) {
			err = domain.NewInvalidSignatureError(err)
		}
		logger.Get().Warn("Rejected webhook delivery", zap.Error(err), zap.String("ip", c.IP()))
		return err
	}

	outcome, err := h.webhooks.ProcessEvent(c.UserContext(), event)
	if err != nil {
		return err
	}
	return c.JSON(dto.WebhookResponse{Received: true, Outcome: string(outcome)})
}

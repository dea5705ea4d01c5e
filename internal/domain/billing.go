package domain

import (
	"context"
	"strings"
	"time"
)

// Plan is a subscription tier.
type Plan string

const (
	PlanBasic    Plan = "basic"
	PlanPro      Plan = "pro"
	PlanBusiness Plan = "business"
)

// ParsePlan normalises a plan name. The second result is false for unknown plans.
func ParsePlan(s string) (Plan, bool) {
	p := Plan(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PlanBasic, PlanPro, PlanBusiness:
		return p, true
	}
	return "", false
}

// LevelLimit is the number of paid levels the plan unlocks; -1 means all.
func (p Plan) LevelLimit() int {
	switch p {
	case PlanBasic:
		return 5
	case PlanPro:
		return 10
	case PlanBusiness:
		return -1
	}
	return 0
}

// EntitledLevels returns the prefix of published paid levels, ordered by
// OrderIndex, that the plan unlocks.
func EntitledLevels(plan Plan, levels []Level) []Level {
	paid := make([]Level, 0, len(levels))
	for _, l := range levels {
		if l.IsPublished() && !l.IsFree {
			paid = append(paid, l)
		}
	}
	SortLevels(paid)

	limit := plan.LevelLimit()
	if limit >= 0 && len(paid) > limit {
		paid = paid[:limit]
	}
	return paid
}

// Subscription statuses as reported by the payment provider, plus the local "expired".
const (
	SubscriptionActive     = "active"
	SubscriptionTrialing   = "trialing"
	SubscriptionPastDue    = "past_due"
	SubscriptionCanceled   = "canceled"
	SubscriptionIncomplete = "incomplete"
	SubscriptionExpired    = "expired"
)

// Subscription is one provider subscription.
type Subscription struct {
	ID                     string     `json:"id"`
	UserID                 string     `json:"user_id"`
	ProviderSubscriptionID string     `json:"provider_subscription_id"`
	ProviderCustomerID     string     `json:"provider_customer_id"`
	Plan                   Plan       `json:"plan"`
	PriceID                string     `json:"price_id"`
	Status                 string     `json:"status"`
	CurrentPeriodStart     *time.Time `json:"current_period_start,omitempty"`
	CurrentPeriodEnd       *time.Time `json:"current_period_end,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

// GrantsAccess reports whether the subscription status entitles levels.
func (s Subscription) GrantsAccess() bool {
	return IsEntitlingStatus(s.Status)
}

// IsEntitlingStatus reports whether a subscription in this status unlocks levels.
func IsEntitlingStatus(status string) bool {
	return status == SubscriptionActive || status == SubscriptionTrialing
}

// Payment is one payment history entry.
type Payment struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	ProviderPaymentID string    `json:"provider_payment_id"`
	Amount            int64     `json:"amount"`
	Currency          string    `json:"currency"`
	Status            string    `json:"status"`
	Description       string    `json:"description"`
	CreatedAt         time.Time `json:"created_at"`
}

// Payment event types handled by the reconciler.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventInvoicePaid         = "invoice.payment_succeeded"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

// WebhookOutcome is the result of processing one provider event.
type WebhookOutcome string

const (
	WebhookProcessed WebhookOutcome = "processed"
	WebhookDuplicate WebhookOutcome = "duplicate"
	WebhookIgnored   WebhookOutcome = "ignored"
	WebhookFailed    WebhookOutcome = "failed"
)

// PaymentEvent is a verified provider event. Exactly one of the typed
// payloads is set for handled event types.
type PaymentEvent struct {
	ID           string
	Type         string
	Created      time.Time
	Checkout     *CheckoutCompleted
	Invoice      *InvoicePaid
	Subscription *SubscriptionChange
	Payload      []byte
}

// CheckoutCompleted is the payload of checkout.session.completed.
type CheckoutCompleted struct {
	SessionID         string
	ClientReferenceID string
	MetadataUserID    string
	MetadataPlan      string
	CustomerID        string
	CustomerEmail     string
	SubscriptionID    string
	InvoiceID         string
	PaymentIntentID   string
	PriceID           string
	AmountTotal       int64
	Currency          string
	PaymentStatus     string
}

// Purchaser resolves the buying user.
func (c CheckoutCompleted) Purchaser() string {
	if c.ClientReferenceID != "" {
		return c.ClientReferenceID
	}
	return c.MetadataUserID
}

// PaymentReference is the id recorded in payment history for the checkout.
// Subscription checkouts carry the first invoice, which the matching
// invoice.payment_succeeded event records under the same id.
func (c CheckoutCompleted) PaymentReference() string {
	if c.InvoiceID != "" {
		return c.InvoiceID
	}
	if c.PaymentIntentID != "" {
		return c.PaymentIntentID
	}
	return c.SessionID
}

// InvoicePaid is the payload of invoice.payment_succeeded.
type InvoicePaid struct {
	InvoiceID      string
	SubscriptionID string
	CustomerID     string
	PriceID        string
	AmountPaid     int64
	Currency       string
	Description    string
	PeriodStart    *time.Time
	PeriodEnd      *time.Time
}

// SubscriptionChange is the payload of customer.subscription.updated and .deleted.
type SubscriptionChange struct {
	SubscriptionID     string
	CustomerID         string
	Status             string
	PriceID            string
	MetadataPlan       string
	CurrentPeriodStart *time.Time
	CurrentPeriodEnd   *time.Time
}

// WebhookError is an audit record of a failed event.
type WebhookError struct {
	ID           string
	EventID      string
	EventType    string
	ErrorMessage string
	Payload      []byte
	CreatedAt    time.Time
}

// CheckoutRequest describes a subscription checkout to create.
type CheckoutRequest struct {
	UserID  string
	Email   string
	Plan    Plan
	PriceID string
}

// CheckoutSession is a hosted checkout created at the provider.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// PaymentGateway is the port to the payment provider.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	CreatePortalSession(ctx context.Context, customerID string) (string, error)
	// ParseWebhook verifies the signature over the raw payload and decodes the event.
	ParseWebhook(payload []byte, signature string) (*PaymentEvent, error)
}

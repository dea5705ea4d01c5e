package dto

// CheckoutRequest starts a subscription checkout.
type CheckoutRequest struct {
	Plan string `json:"plan" validate:"required,oneof=basic pro business"`
}

// CheckoutResponse carries the hosted checkout.
type CheckoutResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// PortalResponse carries the billing portal URL.
type PortalResponse struct {
	URL string `json:"url"`
}

// WebhookResponse acknowledges a webhook delivery.
type WebhookResponse struct {
	Received bool   `json:"received"`
	Outcome  string `json:"outcome"`
}

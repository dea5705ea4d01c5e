package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"bizlevel/internal/config"
	"bizlevel/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripelib "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const testSecret = "whsec_test_secret"

func newTestGateway() *StripeGateway {
	return NewStripeGateway(config.StripeConfig{
		SecretKey:       "sk_test_123",
		WebhookSecret:   testSecret,
		SuccessURL:      "https://app.test/success",
		CancelURL:       "https://app.test/cancel",
		PortalReturnURL: "https://app.test/profile",
	})
}

func sign(payload string) (body []byte, header string) {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    testSecret,
		Timestamp: time.Now(),
		Scheme:    "v1",
	})
	return signed.Payload, signed.Header
}

func TestParseWebhook_CheckoutCompleted(t *testing.T) {
	g := newTestGateway()
	body, header := sign(`{"id":"evt_1","object":"event","type":"checkout.session.completed","created":1700000000,
		"data":{"object":{"id":"cs_1","client_reference_id":"user-1","customer":"cus_1","subscription":{"id":"sub_1"},
		"invoice":"in_1","payment_intent":null,"amount_total":1900,"currency":"usd","payment_status":"paid",
		"customer_details":{"email":"a@b.c"},"metadata":{"plan":"basic","price_id":"price_basic"}}}}`)

	event, err := g.ParseWebhook(body, header)

	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, domain.EventCheckoutCompleted, event.Type)
	require.NotNil(t, event.Checkout)
	assert.Equal(t, "user-1", event.Checkout.Purchaser())
	assert.Equal(t, "sub_1", event.Checkout.SubscriptionID)
	assert.Equal(t, "in_1", event.Checkout.InvoiceID)
	assert.Equal(t, "in_1", event.Checkout.PaymentReference())
	assert.Equal(t, "basic", event.Checkout.MetadataPlan)
	assert.Equal(t, "a@b.c", event.Checkout.CustomerEmail)
	assert.Equal(t, int64(1900), event.Checkout.AmountTotal)
}

func TestParseWebhook_InvoiceParentSubscription(t *testing.T) {
	g := newTestGateway()
	body, header := sign(`{"id":"evt_2","object":"event","type":"invoice.payment_succeeded",
		"data":{"object":{"id":"in_1","customer":"cus_1","amount_paid":1900,"currency":"usd",
		"parent":{"subscription_details":{"subscription":"sub_9"}},
		"lines":{"data":[{"period":{"start":1700000000,"end":1702592000},"pricing":{"price_details":{"price":"price_pro"}}}]}}}}`)

	event, err := g.ParseWebhook(body, header)

	require.NoError(t, err)
	require.NotNil(t, event.Invoice)
	assert.Equal(t, "sub_9", event.Invoice.SubscriptionID)
	assert.Equal(t, "price_pro", event.Invoice.PriceID)
	require.NotNil(t, event.Invoice.PeriodEnd)
	assert.Equal(t, int64(1702592000), event.Invoice.PeriodEnd.Unix())
}

func TestParseWebhook_SubscriptionItemPeriods(t *testing.T) {
	g := newTestGateway()
	body, header := sign(`{"id":"evt_3","object":"event","type":"customer.subscription.updated",
		"data":{"object":{"id":"sub_1","customer":"cus_1","status":"past_due","metadata":{"plan":"pro"},
		"items":{"data":[{"current_period_start":1700000000,"current_period_end":1702592000,"price":{"id":"price_pro"}}]}}}}`)

	event, err := g.ParseWebhook(body, header)

	require.NoError(t, err)
	require.NotNil(t, event.Subscription)
	assert.Equal(t, "past_due", event.Subscription.Status)
	assert.Equal(t, "price_pro", event.Subscription.PriceID)
	assert.Equal(t, "pro", event.Subscription.MetadataPlan)
	require.NotNil(t, event.Subscription.CurrentPeriodStart)
	assert.Equal(t, int64(1700000000), event.Subscription.CurrentPeriodStart.Unix())
}

func TestParseWebhook_UnhandledTypeHasNoPayload(t *testing.T) {
	g := newTestGateway()
	body, header := sign(`{"id":"evt_4","object":"event","type":"customer.created","data":{"object":{"id":"cus_1"}}}`)

	event, err := g.ParseWebhook(body, header)

	require.NoError(t, err)
	assert.Nil(t, event.Checkout)
	assert.Nil(t, event.Invoice)
	assert.Nil(t, event.Subscription)
}

func TestParseWebhook_BadSignature(t *testing.T) {
	g := newTestGateway()
	body, _ := sign(`{"id":"evt_5","object":"event","type":"customer.created","data":{"object":{}}}`)

	var domainErr *domain.DomainError

	_, err := g.ParseWebhook(body, "t=1,v1=deadbeef")
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeInvalidSignature, domainErr.Code)

	_, err = g.ParseWebhook(body, "")
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeInvalidSignature, domainErr.Code)
}

func TestCreateCheckoutSession(t *testing.T) {
	g := newTestGateway()
	var captured *stripelib.CheckoutSessionParams
	g.createCheckoutSession = func(params *stripelib.CheckoutSessionParams) (*stripelib.CheckoutSession, error) {
		captured = params
		return &stripelib.CheckoutSession{ID: "cs_1", URL: "https://checkout.stripe.test/cs_1"}, nil
	}

	session, err := g.CreateCheckoutSession(context.Background(), domain.CheckoutRequest{
		UserID: "user-1", Email: "a@b.c", Plan: domain.PlanPro, PriceID: "price_pro",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.test/cs_1", session.URL)
	require.NotNil(t, captured)
	assert.Equal(t, "user-1", *captured.ClientReferenceID)
	assert.Equal(t, "pro", captured.Metadata["plan"])
	assert.Equal(t, "price_pro", *captured.LineItems[0].Price)
	assert.Equal(t, string(stripelib.CheckoutSessionModeSubscription), *captured.Mode)
}

func TestCreateCheckoutSession_Errors(t *testing.T) {
	g := newTestGateway()
	g.createCheckoutSession = func(*stripelib.CheckoutSessionParams) (*stripelib.CheckoutSession, error) {
		return nil, errors.New("card_declined")
	}
	var domainErr *domain.DomainError

	_, err := g.CreateCheckoutSession(context.Background(), domain.CheckoutRequest{UserID: "u", Plan: domain.PlanPro, PriceID: "p"})
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeUpstream, domainErr.Code)

	_, err = g.CreateCheckoutSession(context.Background(), domain.CheckoutRequest{UserID: "u", Plan: domain.PlanPro})
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeInvalidPlan, domainErr.Code)
}

func TestCreatePortalSession(t *testing.T) {
	g := newTestGateway()
	g.createPortalSession = func(params *stripelib.BillingPortalSessionParams) (*stripelib.BillingPortalSession, error) {
		assert.Equal(t, "cus_1", *params.Customer)
		assert.Equal(t, "https://app.test/profile", *params.ReturnURL)
		return &stripelib.BillingPortalSession{URL: "https://billing.stripe.test/p/1"}, nil
	}

	url, err := g.CreatePortalSession(context.Background(), "cus_1")

	require.NoError(t, err)
	assert.Equal(t, "https://billing.stripe.test/p/1", url)
}

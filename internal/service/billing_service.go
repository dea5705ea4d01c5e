package service

import (
	"context"
	"strings"

	"bizlevel/internal/domain"
	"bizlevel/internal/logger"

	"go.uber.org/zap"
)

// PlanPrices maps subscription plans to provider price ids.
type PlanPrices map[domain.Plan]string

// NewPlanPrices builds the mapping from the configured plan name to price id pairs.
// Unknown plan names are skipped.
func NewPlanPrices(byName map[string]string) PlanPrices {
	out := make(PlanPrices, len(byName))
	for name, priceID := range byName {
		plan, ok := domain.ParsePlan(name)
		if !ok || priceID == "" {
			continue
		}
		out[plan] = priceID
	}
	return out
}

// PlanFor resolves the plan sold under priceID.
func (p PlanPrices) PlanFor(priceID string) (domain.Plan, bool) {
	if priceID == "" {
		return "", false
	}
	for plan, id := range p {
		if strings.EqualFold(id, priceID) {
			return plan, true
		}
	}
	return "", false
}

// BillingService creates hosted checkout and portal sessions.
type BillingService interface {
	CreateCheckoutSession(ctx context.Context, id domain.Identity, plan string) (*domain.CheckoutSession, error)
	// CreatePortalSession returns the billing portal URL of the caller's latest subscription.
	CreatePortalSession(ctx context.Context, id domain.Identity) (string, error)
}

type billingService struct {
	gateway domain.PaymentGateway
	billing domain.BillingRepository
	prices  PlanPrices
}

func NewBillingService(gateway domain.PaymentGateway, billing domain.BillingRepository, prices PlanPrices) BillingService {
	return &billingService{gateway: gateway, billing: billing, prices: prices}
}

func (s *billingService) CreateCheckoutSession(ctx context.Context, id domain.Identity, planName string) (*domain.CheckoutSession, error) {
	plan, ok := domain.ParsePlan(planName)
	if !ok {
		return nil, domain.NewInvalidPlanError(planName)
	}
	priceID, ok := s.prices[plan]
	if !ok {
		return nil, domain.NewInvalidPlanError(planName)
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, domain.CheckoutRequest{
		UserID:  id.UserID,
		Email:   id.Email,
		Plan:    plan,
		PriceID: priceID,
	})
	if err != nil {
		logger.Get().Error("Failed to create checkout session",
			zap.String("userID", id.UserID),
			zap.String("plan", string(plan)),
			zap.Error(err))
		return nil, err
	}
	logger.Get().Info("Checkout session created",
		zap.String("userID", id.UserID),
		zap.String("plan", string(plan)),
		zap.String("sessionID", session.ID))
	return session, nil
}

func (s *billingService) CreatePortalSession(ctx context.Context, id domain.Identity) (string, error) {
	sub, err := s.billing.GetLatestSubscriptionByUser(ctx, id.UserID)
	if err != nil {
		return "", domain.NewInternalError("Failed to load subscription", err)
	}
	if sub == nil || sub.ProviderCustomerID == "" {
		return "", domain.NewNotFoundError("No subscription found for user")
	}
	url, err := s.gateway.CreatePortalSession(ctx, sub.ProviderCustomerID)
	if err != nil {
		return "", err
	}
	return url, nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"bizlevel/internal/domain"
	"bizlevel/internal/logger"
	"bizlevel/internal/metrics"

	"go.uber.org/zap"
)

// WebhookService reconciles verified payment provider events.
type WebhookService interface {
	// ProcessEvent applies the event exactly once. A failed event is recorded
	// and returned as an error so the provider retries it.
	ProcessEvent(ctx context.Context, event *domain.PaymentEvent) (domain.WebhookOutcome, error)
}

type webhookService struct {
	billing   domain.BillingRepository
	profiles  domain.ProfileRepository
	levels    domain.LevelRepository
	progress  domain.ProgressRepository
	txManager domain.TransactionManager
	prices    PlanPrices
	publisher domain.ProgressPublisher
}

// NewWebhookService creates a webhook reconciler. publisher may be nil.
func NewWebhookService(
	billing domain.BillingRepository,
	profiles domain.ProfileRepository,
	levels domain.LevelRepository,
	progress domain.ProgressRepository,
	txManager domain.TransactionManager,
	prices PlanPrices,
	publisher domain.ProgressPublisher,
) WebhookService {
	return &webhookService{
		billing:   billing,
		profiles:  profiles,
		levels:    levels,
		progress:  progress,
		txManager: txManager,
		prices:    prices,
		publisher: publisher,
	}
}

// unlocked is a level opened for a user while handling an event.
type unlocked struct {
	userID  string
	levelID string
}

func (s *webhookService) ProcessEvent(ctx context.Context, event *domain.PaymentEvent) (outcome domain.WebhookOutcome, err error) {
	if event == nil || event.ID == "" {
		return domain.WebhookFailed, domain.NewInvalidInputError("webhook event has no id")
	}
	appLogger := logger.Get().With(zap.String("eventID", event.ID), zap.String("eventType", event.Type))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing webhook: %v", r)
			outcome = domain.WebhookFailed
			s.recordFailure(ctx, event, err)
			err = domain.NewInternalError("Failed to process webhook event", err)
		}
		metrics.WebhookEventsTotal.WithLabelValues(event.Type, string(outcome)).Inc()
	}()

	var opened []unlocked
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		claimed, err := s.billing.ClaimWebhookEvent(txCtx, event.ID, event.Type)
		if err != nil {
			return fmt.Errorf("failed to claim event: %w", err)
		}
		if !claimed {
			outcome = domain.WebhookDuplicate
			return nil
		}
		outcome, opened, err = s.dispatch(txCtx, event)
		return err
	})
	if err != nil {
		appLogger.Error("Webhook processing failed", zap.Error(err))
		s.recordFailure(ctx, event, err)
		return domain.WebhookFailed, domain.NewInternalError("Failed to process webhook event", err)
	}

	for _, u := range opened {
		publishProgress(ctx, s.publisher, u.userID, u.levelID, domain.ProgressInProgress, 0)
	}
	appLogger.Info("Webhook event handled", zap.String("outcome", string(outcome)), zap.Int("unlocked", len(opened)))
	return outcome, nil
}

func (s *webhookService) dispatch(ctx context.Context, event *domain.PaymentEvent) (domain.WebhookOutcome, []unlocked, error) {
	switch {
	case event.Type == domain.EventCheckoutCompleted && event.Checkout != nil:
		return s.handleCheckoutCompleted(ctx, event.Checkout)
	case event.Type == domain.EventInvoicePaid && event.Invoice != nil:
		return s.handleInvoicePaid(ctx, event.Invoice)
	case event.Type == domain.EventSubscriptionUpdated && event.Subscription != nil:
		return s.handleSubscriptionUpdated(ctx, event.Subscription)
	case event.Type == domain.EventSubscriptionDeleted && event.Subscription != nil:
		return s.handleSubscriptionDeleted(ctx, event.Subscription)
	}
	logger.Get().Info("Ignoring unhandled webhook event", zap.String("eventID", event.ID), zap.String("eventType", event.Type))
	return domain.WebhookIgnored, nil, nil
}

func (s *webhookService) handleCheckoutCompleted(ctx context.Context, c *domain.CheckoutCompleted) (domain.WebhookOutcome, []unlocked, error) {
	userID := c.Purchaser()
	if userID == "" {
		return domain.WebhookFailed, nil, fmt.Errorf("checkout session %s has no purchaser", c.SessionID)
	}
	plan, ok := s.resolvePlan(c.MetadataPlan, c.PriceID)
	if !ok {
		return domain.WebhookFailed, nil, fmt.Errorf("checkout session %s has no known plan", c.SessionID)
	}

	if c.SubscriptionID != "" {
		now := time.Now().UTC()
		sub := &domain.Subscription{
			UserID:                 userID,
			ProviderSubscriptionID: c.SubscriptionID,
			ProviderCustomerID:     c.CustomerID,
			Plan:                   plan,
			PriceID:                firstNonEmpty(c.PriceID, s.prices[plan]),
			Status:                 domain.SubscriptionActive,
			CurrentPeriodStart:     &now,
		}
		if err := s.billing.UpsertSubscription(ctx, sub); err != nil {
			return domain.WebhookFailed, nil, fmt.Errorf("failed to upsert subscription: %w", err)
		}
	}

	if _, err := s.billing.InsertPayment(ctx, &domain.Payment{
		UserID:            userID,
		ProviderPaymentID: c.PaymentReference(),
		Amount:            c.AmountTotal,
		Currency:          c.Currency,
		Status:            firstNonEmpty(c.PaymentStatus, "paid"),
		Description:       fmt.Sprintf("BizLevel %s subscription", plan),
	}); err != nil {
		return domain.WebhookFailed, nil, fmt.Errorf("failed to record payment: %w", err)
	}

	if err := s.profiles.UpdateCurrentPlan(ctx, userID, plan); err != nil {
		return domain.WebhookFailed, nil, fmt.Errorf("failed to update current plan: %w", err)
	}

	opened, err := s.unlockForPlan(ctx, userID, plan)
	if err != nil {
		return domain.WebhookFailed, nil, err
	}
	return domain.WebhookProcessed, opened, nil
}

func (s *webhookService) handleInvoicePaid(ctx context.Context, inv *domain.InvoicePaid) (domain.WebhookOutcome, []unlocked, error) {
	sub, err := s.billing.GetSubscriptionByProviderID(ctx, inv.SubscriptionID)
	if err != nil {
		return domain.WebhookFailed, nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub == nil {
		logger.Get().Warn("Invoice for unknown subscription",
			zap.String("invoiceID", inv.InvoiceID),
			zap.String("subscriptionID", inv.SubscriptionID))
		return domain.WebhookIgnored, nil, nil
	}

	sub.Status = domain.SubscriptionActive
	if inv.PeriodStart != nil {
		sub.CurrentPeriodStart = inv.PeriodStart
	}
	if inv.PeriodEnd != nil {
		sub.CurrentPeriodEnd = inv.PeriodEnd
	}
	if err := s.billing.UpsertSubscription(ctx, sub); err != nil {
		return domain.WebhookFailed, nil, fmt.Errorf("failed to update subscription: %w", err)
	}

	if _, err := s.billing.InsertPayment(ctx, &domain.Payment{
		UserID:            sub.UserID,
		ProviderPaymentID: inv.InvoiceID,
		Amount:            inv.AmountPaid,
		Currency:          inv.Currency,
		Status:            "paid",
		Description:       firstNonEmpty(inv.Description, fmt.Sprintf("BizLevel %s renewal", sub.Plan)),
	}); err != nil {
		return domain.WebhookFailed, nil, fmt.Errorf("failed to record payment: %w", err)
	}

	opened, err := s.unlockForPlan(ctx, sub.UserID, sub.Plan)
	if err != nil {
		return domain.WebhookFailed, nil, err
	}
	return domain.WebhookProcessed, opened, nil
}

func (s *webhookService) handleSubscriptionUpdated(ctx context.Context, change *domain.SubscriptionChange) (domain.WebhookOutcome, []unlocked, error) {
	sub, err := s.billing.GetSubscriptionByProviderID(ctx, change.SubscriptionID)
	if err != nil {
		return domain.WebhookFailed, nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub == nil {
		logger.Get().Warn("Update for unknown subscription", zap.String("subscriptionID", change.SubscriptionID))
		return domain.WebhookIgnored, nil, nil
	}

	applySubscriptionChange(sub, change)
	if plan, ok := s.resolvePlan(change.MetadataPlan, change.PriceID); ok {
		sub.Plan = plan
		if change.PriceID != "" {
			sub.PriceID = change.PriceID
		}
	}
	if err := s.billing.UpsertSubscription(ctx, sub); err != nil {
		return domain.WebhookFailed, nil, fmt.Errorf("failed to update subscription: %w", err)
	}

	if !sub.GrantsAccess() {
		return domain.WebhookProcessed, nil, nil
	}
	if err := s.profiles.UpdateCurrentPlan(ctx, sub.UserID, sub.Plan); err != nil {
		return domain.WebhookFailed, nil, fmt.Errorf("failed to update current plan: %w", err)
	}
	opened, err := s.unlockForPlan(ctx, sub.UserID, sub.Plan)
	if err != nil {
		return domain.WebhookFailed, nil, err
	}
	return domain.WebhookProcessed, opened, nil
}

// handleSubscriptionDeleted records the cancellation. Unlocked levels stay open.
func (s *webhookService) handleSubscriptionDeleted(ctx context.Context, change *domain.SubscriptionChange) (domain.WebhookOutcome, []unlocked, error) {
	sub, err := s.billing.GetSubscriptionByProviderID(ctx, change.SubscriptionID)
	if err != nil {
		return domain.WebhookFailed, nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub == nil {
		logger.Get().Warn("Cancellation of unknown subscription", zap.String("subscriptionID", change.SubscriptionID))
		return domain.WebhookIgnored, nil, nil
	}

	applySubscriptionChange(sub, change)
	sub.Status = domain.SubscriptionCanceled
	if err := s.billing.UpsertSubscription(ctx, sub); err != nil {
		return domain.WebhookFailed, nil, fmt.Errorf("failed to cancel subscription: %w", err)
	}
	return domain.WebhookProcessed, nil, nil
}

// unlockForPlan opens every level the plan entitles. Rows that already
// progressed are left as they are.
func (s *webhookService) unlockForPlan(ctx context.Context, userID string, plan domain.Plan) ([]unlocked, error) {
	levels, err := s.levels.ListPublishedLevels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list levels: %w", err)
	}

	var opened []unlocked
	for _, level := range domain.EntitledLevels(plan, levels) {
		changed, err := s.progress.UnlockLevel(ctx, userID, level.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to unlock level %s: %w", level.ID, err)
		}
		if changed {
			opened = append(opened, unlocked{userID: userID, levelID: level.ID})
		}
	}
	return opened, nil
}

func (s *webhookService) resolvePlan(metadataPlan, priceID string) (domain.Plan, bool) {
	if plan, ok := domain.ParsePlan(metadataPlan); ok {
		return plan, true
	}
	return s.prices.PlanFor(priceID)
}

func (s *webhookService) recordFailure(ctx context.Context, event *domain.PaymentEvent, cause error) {
	we := &domain.WebhookError{
		EventID:      event.ID,
		EventType:    event.Type,
		ErrorMessage: cause.Error(),
		Payload:      event.Payload,
	}
	if err := s.billing.RecordWebhookError(ctx, we); err != nil {
		logger.Get().Error("Failed to record webhook error",
			zap.String("eventID", event.ID),
			zap.NamedError("cause", cause),
			zap.Error(err))
	}
}

func applySubscriptionChange(sub *domain.Subscription, change *domain.SubscriptionChange) {
	if change.Status != "" {
		sub.Status = change.Status
	}
	if change.CustomerID != "" {
		sub.ProviderCustomerID = change.CustomerID
	}
	if change.CurrentPeriodStart != nil {
		sub.CurrentPeriodStart = change.CurrentPeriodStart
	}
	if change.CurrentPeriodEnd != nil {
		sub.CurrentPeriodEnd = change.CurrentPeriodEnd
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

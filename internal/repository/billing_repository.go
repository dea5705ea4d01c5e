package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bizlevel/internal/domain"
	"bizlevel/internal/repository/models"
	"bizlevel/internal/util"

	"github.com/jmoiron/sqlx"
)

const subscriptionColumns = `id, user_id, provider_subscription_id, provider_customer_id, plan, price_id, status,
	current_period_start, current_period_end, created_at, updated_at`

// BillingDatabaseAdapter implements domain.BillingRepository on PostgreSQL.
type BillingDatabaseAdapter struct {
	db *sqlx.DB
}

// NewBillingDatabaseAdapter creates a new billing repository.
func NewBillingDatabaseAdapter(db *sqlx.DB) domain.BillingRepository {
	return &BillingDatabaseAdapter{db: db}
}

// ClaimWebhookEvent inserts the event id in one conditional write.
func (a *BillingDatabaseAdapter) ClaimWebhookEvent(ctx context.Context, eventID, eventType string) (bool, error) {
	query := `INSERT INTO processed_webhooks (event_id, event_type, processed_at) VALUES ($1, $2, NOW())
	          ON CONFLICT (event_id) DO NOTHING`
	res, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, eventID, eventType)
	if err != nil {
		return false, fmt.Errorf("failed to claim webhook event %s: %w", eventID, err)
	}
	return rowsCreated(res)
}

// RecordWebhookError stores the failure. It always runs on the pool, outside
// any transaction carried by ctx, so the record survives a rollback.
func (a *BillingDatabaseAdapter) RecordWebhookError(ctx context.Context, we *domain.WebhookError) error {
	if we.ID == "" {
		we.ID = util.NewULID()
	}
	if we.CreatedAt.IsZero() {
		we.CreatedAt = time.Now()
	}
	var payload interface{}
	if len(we.Payload) > 0 {
		payload = string(we.Payload)
	}
	query := `INSERT INTO webhook_errors (id, event_id, event_type, error_message, payload, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := a.db.ExecContext(ctx, query, we.ID, we.EventID, we.EventType, we.ErrorMessage, payload, we.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record webhook error: %w", err)
	}
	return nil
}

// UpsertSubscription writes the subscription keyed by the provider id.
// Empty plan, price and customer values keep the stored ones.
func (a *BillingDatabaseAdapter) UpsertSubscription(ctx context.Context, sub *domain.Subscription) error {
	if sub.ID == "" {
		sub.ID = util.NewUUID()
	}
	now := time.Now()
	query := `INSERT INTO user_subscriptions (` + subscriptionColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
	          ON CONFLICT (provider_subscription_id) DO UPDATE SET
	              provider_customer_id = COALESCE(NULLIF(EXCLUDED.provider_customer_id, ''), user_subscriptions.provider_customer_id),
	              plan = COALESCE(NULLIF(EXCLUDED.plan, ''), user_subscriptions.plan),
	              price_id = COALESCE(NULLIF(EXCLUDED.price_id, ''), user_subscriptions.price_id),
	              status = EXCLUDED.status,
	              current_period_start = COALESCE(EXCLUDED.current_period_start, user_subscriptions.current_period_start),
	              current_period_end = COALESCE(EXCLUDED.current_period_end, user_subscriptions.current_period_end),
	              updated_at = EXCLUDED.updated_at`
	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		sub.ID, sub.UserID, sub.ProviderSubscriptionID, sub.ProviderCustomerID, string(sub.Plan), sub.PriceID, sub.Status,
		util.PtrToNullTime(sub.CurrentPeriodStart), util.PtrToNullTime(sub.CurrentPeriodEnd), now)
	if err != nil {
		return fmt.Errorf("failed to upsert subscription %s: %w", sub.ProviderSubscriptionID, err)
	}
	return nil
}

func (a *BillingDatabaseAdapter) GetSubscriptionByProviderID(ctx context.Context, providerSubscriptionID string) (*domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM user_subscriptions WHERE provider_subscription_id = $1`
	return a.getSubscription(ctx, query, providerSubscriptionID)
}

func (a *BillingDatabaseAdapter) GetLatestSubscriptionByUser(ctx context.Context, userID string) (*domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM user_subscriptions WHERE user_id = $1
	          ORDER BY created_at DESC LIMIT 1`
	return a.getSubscription(ctx, query, userID)
}

func (a *BillingDatabaseAdapter) getSubscription(ctx context.Context, query string, arg string) (*domain.Subscription, error) {
	var row models.Subscription
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return toDomainSubscription(row), nil
}

func (a *BillingDatabaseAdapter) ExpireLapsedSubscriptions(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `UPDATE user_subscriptions SET status = 'expired', updated_at = NOW()
	          WHERE status IN ('active', 'trialing') AND current_period_end IS NOT NULL AND current_period_end < $1`
	res, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to expire lapsed subscriptions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func (a *BillingDatabaseAdapter) InsertPayment(ctx context.Context, p *domain.Payment) (bool, error) {
	if p.ID == "" {
		p.ID = util.NewUUID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	query := `INSERT INTO payment_history (id, user_id, provider_payment_id, amount, currency, status, description, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          ON CONFLICT (provider_payment_id) DO NOTHING`
	res, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		p.ID, p.UserID, p.ProviderPaymentID, p.Amount, p.Currency, p.Status, p.Description, p.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert payment %s: %w", p.ProviderPaymentID, err)
	}
	return rowsCreated(res)
}

func toDomainSubscription(m models.Subscription) *domain.Subscription {
	return &domain.Subscription{
		ID:                     m.ID,
		UserID:                 m.UserID,
		ProviderSubscriptionID: m.ProviderSubscriptionID,
		ProviderCustomerID:     m.ProviderCustomerID,
		Plan:                   domain.Plan(m.Plan),
		PriceID:                m.PriceID,
		Status:                 m.Status,
		CurrentPeriodStart:     util.NullTimeToPtr(m.CurrentPeriodStart),
		CurrentPeriodEnd:       util.NullTimeToPtr(m.CurrentPeriodEnd),
		CreatedAt:              m.CreatedAt,
		UpdatedAt:              m.UpdatedAt,
	}
}

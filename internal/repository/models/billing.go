package models

import (
	"database/sql"
	"time"
)

// Subscription maps the user_subscriptions table.
type Subscription struct {
	ID                     string       `db:"id"`
	UserID                 string       `db:"user_id"`
	ProviderSubscriptionID string       `db:"provider_subscription_id"`
	ProviderCustomerID     string       `db:"provider_customer_id"`
	Plan                   string       `db:"plan"`
	PriceID                string       `db:"price_id"`
	Status                 string       `db:"status"`
	CurrentPeriodStart     sql.NullTime `db:"current_period_start"`
	CurrentPeriodEnd       sql.NullTime `db:"current_period_end"`
	CreatedAt              time.Time    `db:"created_at"`
	UpdatedAt              time.Time    `db:"updated_at"`
}

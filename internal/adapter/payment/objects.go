package payment

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"bizlevel/internal/domain"
)

// expandableID accepts either a bare id or an expanded object with an "id" field.
type expandableID string

func (e *expandableID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*e = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*e = expandableID(s)
		return nil
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	*e = expandableID(obj.ID)
	return nil
}

func unixPtr(sec int64) *time.Time {
	if sec <= 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}

func firstNonZero(values ...int64) int64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

type checkoutSessionObject struct {
	ID                string       `json:"id"`
	ClientReferenceID string       `json:"client_reference_id"`
	Customer          expandableID `json:"customer"`
	CustomerEmail     string       `json:"customer_email"`
	CustomerDetails   struct {
		Email string `json:"email"`
	} `json:"customer_details"`
	Subscription  expandableID      `json:"subscription"`
	Invoice       expandableID      `json:"invoice"`
	PaymentIntent expandableID      `json:"payment_intent"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	PaymentStatus string            `json:"payment_status"`
	Metadata      map[string]string `json:"metadata"`
}

func (s checkoutSessionObject) toDomain() *domain.CheckoutCompleted {
	email := strings.TrimSpace(s.CustomerDetails.Email)
	if email == "" {
		email = strings.TrimSpace(s.CustomerEmail)
	}
	return &domain.CheckoutCompleted{
		SessionID:         s.ID,
		ClientReferenceID: strings.TrimSpace(s.ClientReferenceID),
		MetadataUserID:    strings.TrimSpace(s.Metadata["user_id"]),
		MetadataPlan:      strings.TrimSpace(s.Metadata["plan"]),
		CustomerID:        string(s.Customer),
		CustomerEmail:     email,
		SubscriptionID:    string(s.Subscription),
		InvoiceID:         string(s.Invoice),
		PaymentIntentID:   string(s.PaymentIntent),
		PriceID:           strings.TrimSpace(s.Metadata["price_id"]),
		AmountTotal:       s.AmountTotal,
		Currency:          s.Currency,
		PaymentStatus:     s.PaymentStatus,
	}
}

type period struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

type invoiceObject struct {
	ID           string       `json:"id"`
	Customer     expandableID `json:"customer"`
	Subscription expandableID `json:"subscription"`
	Parent       struct {
		SubscriptionDetails struct {
			Subscription expandableID `json:"subscription"`
		} `json:"subscription_details"`
	} `json:"parent"`
	AmountPaid  int64  `json:"amount_paid"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	PeriodStart int64  `json:"period_start"`
	PeriodEnd   int64  `json:"period_end"`
	Lines       struct {
		Data []struct {
			Description string `json:"description"`
			Period      period `json:"period"`
			Price       struct {
				ID string `json:"id"`
			} `json:"price"`
			Pricing struct {
				PriceDetails struct {
					Price string `json:"price"`
				} `json:"price_details"`
			} `json:"pricing"`
		} `json:"data"`
	} `json:"lines"`
}

func (inv invoiceObject) toDomain() *domain.InvoicePaid {
	out := &domain.InvoicePaid{
		InvoiceID:      inv.ID,
		SubscriptionID: string(inv.Subscription),
		CustomerID:     string(inv.Customer),
		AmountPaid:     inv.AmountPaid,
		Currency:       inv.Currency,
		Description:    inv.Description,
	}
	// newer API versions moved the subscription under parent
	if out.SubscriptionID == "" {
		out.SubscriptionID = string(inv.Parent.SubscriptionDetails.Subscription)
	}

	var linePeriod period
	if len(inv.Lines.Data) > 0 {
		line := inv.Lines.Data[0]
		linePeriod = line.Period
		out.PriceID = line.Price.ID
		if out.PriceID == "" {
			out.PriceID = line.Pricing.PriceDetails.Price
		}
		if out.Description == "" {
			out.Description = line.Description
		}
	}
	out.PeriodStart = unixPtr(firstNonZero(linePeriod.Start, inv.PeriodStart))
	out.PeriodEnd = unixPtr(firstNonZero(linePeriod.End, inv.PeriodEnd))
	return out
}

type subscriptionObject struct {
	ID                 string            `json:"id"`
	Customer           expandableID      `json:"customer"`
	Status             string            `json:"status"`
	CurrentPeriodStart int64             `json:"current_period_start"`
	CurrentPeriodEnd   int64             `json:"current_period_end"`
	Metadata           map[string]string `json:"metadata"`
	Items              struct {
		Data []struct {
			CurrentPeriodStart int64 `json:"current_period_start"`
			CurrentPeriodEnd   int64 `json:"current_period_end"`
			Price              struct {
				ID string `json:"id"`
			} `json:"price"`
		} `json:"data"`
	} `json:"items"`
}

func (s subscriptionObject) toDomain() *domain.SubscriptionChange {
	out := &domain.SubscriptionChange{
		SubscriptionID: s.ID,
		CustomerID:     string(s.Customer),
		Status:         s.Status,
		MetadataPlan:   strings.TrimSpace(s.Metadata["plan"]),
	}
	var itemStart, itemEnd int64
	for _, item := range s.Items.Data {
		if priceID := strings.TrimSpace(item.Price.ID); priceID != "" && out.PriceID == "" {
			out.PriceID = priceID
			itemStart, itemEnd = item.CurrentPeriodStart, item.CurrentPeriodEnd
		}
	}
	out.CurrentPeriodStart = unixPtr(firstNonZero(s.CurrentPeriodStart, itemStart))
	out.CurrentPeriodEnd = unixPtr(firstNonZero(s.CurrentPeriodEnd, itemEnd))
	return out
}

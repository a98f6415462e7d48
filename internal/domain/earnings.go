package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Earning is one credited amount on a seller's or courier's account.
type Earning struct {
	ID          int64           `json:"id"`
	UniqueID    string          `json:"unique_id"`
	OrderID     int64           `json:"order_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Fee         decimal.Decimal `json:"fee"`
	Status      string          `json:"status"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Net returns the amount after fees.
func (e *Earning) Net() decimal.Decimal {
	return e.Amount.Sub(e.Fee)
}

// EarningsSummary aggregates an account's balance.
type EarningsSummary struct {
	TotalEarned    decimal.Decimal `json:"total_earned"`
	Available      decimal.Decimal `json:"available_balance"`
	Pending        decimal.Decimal `json:"pending_balance"`
	TotalPaidOut   decimal.Decimal `json:"total_paid_out"`
	Currency       string          `json:"currency"`
	LastPayoutDate *time.Time      `json:"last_payout_date,omitempty"`
}

// Payout is a withdrawal of available balance.
type Payout struct {
	ID        int64           `json:"id"`
	UniqueID  string          `json:"unique_id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// PayoutInput is the payload for requesting a payout.
type PayoutInput struct {
	Amount decimal.Decimal `json:"amount" validate:"gt=0"`
	Method string          `json:"method" validate:"required,oneof=bank_transfer mobile_money"`
}

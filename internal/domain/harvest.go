package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Harvest request status constants.
const (
	HarvestStatusDraft     = "draft"
	HarvestStatusPending   = "pending"
	HarvestStatusAccepted  = "accepted"
	HarvestStatusRejected  = "rejected"
	HarvestStatusSubmitted = "submitted"
)

// HarvestRequest asks a seller to harvest a quantity of produce for a buyer.
type HarvestRequest struct {
	ID           int64           `json:"id"`
	UniqueID     string          `json:"unique_id"`
	BuyerID      int64           `json:"buyer_id,omitempty"`
	SellerID     int64           `json:"seller_id,omitempty"`
	ProductName  string          `json:"product_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	OfferedPrice decimal.Decimal `json:"offered_price"`
	HarvestDate  string          `json:"harvest_date"`
	Notes        string          `json:"notes,omitempty"`
	Status       string          `json:"status"`
	RejectReason string          `json:"reject_reason,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// HarvestRequestInput is the payload for creating or updating a harvest request.
type HarvestRequestInput struct {
	SellerID     int64           `json:"seller_id" validate:"required,gt=0"`
	ProductName  string          `json:"product_name" validate:"required,max=255"`
	Quantity     decimal.Decimal `json:"quantity" validate:"gt=0"`
	Unit         string          `json:"unit" validate:"required,max=32"`
	OfferedPrice decimal.Decimal `json:"offered_price" validate:"gt=0"`
	HarvestDate  string          `json:"harvest_date" validate:"required,datetime=2006-01-02"`
	Notes        string          `json:"notes,omitempty" validate:"max=1000"`
}

// RejectInput carries the reason a harvest request was turned down.
type RejectInput struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

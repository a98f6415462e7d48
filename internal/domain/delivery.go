package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Delivery status constants.
const (
	DeliveryAvailable = "available"
	DeliveryAccepted  = "accepted"
	DeliveryPickedUp  = "picked_up"
	DeliveryCompleted = "completed"
)

// Delivery actions a courier can take.
const (
	DeliveryActionAccept   = "accept"
	DeliveryActionPickUp   = "pickup"
	DeliveryActionComplete = "complete"
)

// Delivery is a courier job moving an order from seller to buyer.
type Delivery struct {
	ID             int64           `json:"id"`
	UniqueID       string          `json:"unique_id"`
	OrderID        int64           `json:"order_id"`
	CourierID      int64           `json:"courier_id,omitempty"`
	PickupAddress  string          `json:"pickup_address"`
	DropoffAddress string          `json:"dropoff_address"`
	Fee            decimal.Decimal `json:"fee"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NextDeliveryStatus returns the status an action moves a delivery into, and
// whether the action is allowed from the current status.
func NextDeliveryStatus(current, action string) (string, bool) {
	switch {
	case action == DeliveryActionAccept && current == DeliveryAvailable:
		return DeliveryAccepted, true
	case action == DeliveryActionPickUp && current == DeliveryAccepted:
		return DeliveryPickedUp, true
	case action == DeliveryActionComplete && current == DeliveryPickedUp:
		return DeliveryCompleted, true
	default:
		return current, false
	}
}

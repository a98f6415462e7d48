package resource

import (
	"context"
	"net/url"
	"strconv"

	"github.com/localharvest/marketclient/internal/domain"
)

// Orders covers buyer orders and the seller's incoming orders.
type Orders struct {
	b *Base
}

// OrderFilter narrows an order listing.
type OrderFilter struct {
	Status string
	Page   int
	Limit  int
}

func (f OrderFilter) values() url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

// List returns the buyer's orders.
func (s *Orders) List(ctx context.Context, filter OrderFilter) []domain.Order {
	return readList[domain.Order](ctx, s.b, "orders.list", "/orders", filter.values(),
		"Failed to load orders", "orders")
}

// Get returns one order, or nil.
func (s *Orders) Get(ctx context.Context, uniqueID string) *domain.Order {
	return readOne[domain.Order](ctx, s.b, "orders.get", "/orders/"+escape(uniqueID),
		"Failed to load order")
}

// Create places an order.
func (s *Orders) Create(ctx context.Context, in domain.CreateOrderInput) (*domain.Order, error) {
	return write[domain.Order](ctx, s.b, mutation{
		op:       "orders.create",
		send:     post(s.b, "/orders", in),
		payload:  in,
		success:  "Order placed successfully",
		fallback: "Failed to place order",
	})
}

// Cancel cancels a pending order.
func (s *Orders) Cancel(ctx context.Context, uniqueID, reason string) (*domain.Order, error) {
	in := domain.CancelOrderInput{Reason: reason}
	return write[domain.Order](ctx, s.b, mutation{
		op:       "orders.cancel",
		send:     post(s.b, "/orders/"+escape(uniqueID)+"/cancel", in),
		payload:  in,
		success:  "Order cancelled",
		fallback: "Failed to cancel order",
	})
}

// ListIncoming returns orders placed with the signed-in seller.
func (s *Orders) ListIncoming(ctx context.Context, filter OrderFilter) []domain.Order {
	return readList[domain.Order](ctx, s.b, "orders.list_incoming", "/seller/orders", filter.values(),
		"Failed to load incoming orders", "orders")
}

// UpdateStatus moves an incoming order to a new status.
func (s *Orders) UpdateStatus(ctx context.Context, uniqueID, status string) (*domain.Order, error) {
	in := domain.UpdateOrderStatusInput{Status: status}
	return write[domain.Order](ctx, s.b, mutation{
		op:       "orders.update_status",
		send:     patch(s.b, "/seller/orders/"+escape(uniqueID)+"/status", in),
		payload:  in,
		success:  "Order status updated",
		fallback: "Failed to update order status",
	})
}

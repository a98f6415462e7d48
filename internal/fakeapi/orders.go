package fakeapi

import (
	"net/http"

	"github.com/localharvest/marketclient/internal/domain"
	"github.com/localharvest/marketclient/pkg/httputil"
)

// ListOrders handles GET /orders?status=&page=&limit=.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	writePage(w, r, h.store.Orders(OrderQuery{BuyerID: userID(r), Status: r.URL.Query().Get("status")}))
}

// GetOrder handles GET /orders/{id}.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.store.Order(userID(r), param(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, "", o)
}

// CreateOrder handles POST /orders.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var in domain.CreateOrderInput
	if !h.decode(w, r, &in) {
		return
	}
	o, err := h.store.CreateOrder(userID(r), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusCreated, "Order placed successfully", o)
}

// CancelOrder handles POST /orders/{id}/cancel.
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	var in domain.CancelOrderInput
	if !h.decode(w, r, &in) {
		return
	}
	o, err := h.store.CancelOrder(userID(r), param(r, "id"), in.Reason)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, "Order cancelled", o)
}

// ListSellerOrders handles GET /seller/orders?status=&page=&limit=.
func (h *Handler) ListSellerOrders(w http.ResponseWriter, r *http.Request) {
	writePage(w, r, h.store.Orders(OrderQuery{SellerID: userID(r), Status: r.URL.Query().Get("status")}))
}

// UpdateOrderStatus handles PATCH /seller/orders/{id}/status.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var in domain.UpdateOrderStatusInput
	if !h.decode(w, r, &in) {
		return
	}
	o, err := h.store.UpdateOrderStatus(userID(r), param(r, "id"), in.Status)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, "Order status updated", o)
}

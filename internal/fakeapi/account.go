package fakeapi

import (
	"net/http"

	"github.com/localharvest/marketclient/internal/domain"
	"github.com/localharvest/marketclient/pkg/httputil"
)

// ListEarnings handles GET /earnings. It answers with a bare array.
func (h *Handler) ListEarnings(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.store.Earnings(userID(r)))
}

// EarningsSummary handles GET /earnings/summary.
func (h *Handler) EarningsSummary(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, "", h.store.EarningsSummary(userID(r)))
}

// RequestPayout handles POST /earnings/payouts.
func (h *Handler) RequestPayout(w http.ResponseWriter, r *http.Request) {
	var in domain.PayoutInput
	if !h.decode(w, r, &in) {
		return
	}
	p, err := h.store.RequestPayout(userID(r), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusCreated, "Payout requested successfully", p)
}

// GetProfile handles GET /user/profile. It answers with the bare record.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.Profile(userID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

// UpdateProfile handles PUT /user/profile.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in domain.ProfileInput
	if !h.decode(w, r, &in) {
		return
	}
	p, err := h.store.UpdateProfile(userID(r), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, "Profile updated successfully", p)
}

// ChangePassword handles PUT /user/password.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var in domain.ChangePasswordInput
	if !h.decode(w, r, &in) {
		return
	}
	if err := h.store.ChangePassword(userID(r), in); err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Password changed successfully")
}

// ListVerifications handles GET /verifications.
func (h *Handler) ListVerifications(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, "", h.store.Verifications(userID(r)))
}

// GetVerification handles GET /verifications/{id}.
func (h *Handler) GetVerification(w http.ResponseWriter, r *http.Request) {
	v, err := h.store.Verification(userID(r), param(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, "", v)
}

// SubmitVerification handles POST /verifications.
func (h *Handler) SubmitVerification(w http.ResponseWriter, r *http.Request) {
	var in domain.VerificationInput
	if !h.decode(w, r, &in) {
		return
	}
	httputil.WriteData(w, http.StatusCreated, "Verification submitted successfully", h.store.SubmitVerification(userID(r), in))
}

// ListDeliveries handles GET /courier/deliveries?status=.
func (h *Handler) ListDeliveries(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, "", h.store.Deliveries(userID(r), r.URL.Query().Get("status")))
}

var deliveryMessages = map[string]string{
	domain.DeliveryActionAccept:   "Delivery accepted",
	domain.DeliveryActionPickUp:   "Delivery marked as picked up",
	domain.DeliveryActionComplete: "Delivery completed",
}

// AdvanceDelivery handles POST /courier/deliveries/{id}/{action}.
func (h *Handler) AdvanceDelivery(w http.ResponseWriter, r *http.Request) {
	action := param(r, "action")
	message, ok := deliveryMessages[action]
	if !ok {
		NotFound(w, r)
		return
	}
	d, err := h.store.AdvanceDelivery(userID(r), param(r, "id"), action)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, message, d)
}

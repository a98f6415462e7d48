package fakeapi

import (
	"net/http"

	"github.com/localharvest/marketclient/internal/domain"
	"github.com/localharvest/marketclient/pkg/httputil"
)

// ListHarvestRequests handles GET /harvest-requests?status=.
func (h *Handler) ListHarvestRequests(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, "", h.store.HarvestRequests(userID(r), r.URL.Query().Get("status")))
}

// GetHarvestRequest handles GET /harvest-requests/{id}.
func (h *Handler) GetHarvestRequest(w http.ResponseWriter, r *http.Request) {
	hr, err := h.store.HarvestRequest(userID(r), param(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, "", hr)
}

// CreateHarvestRequest handles POST /harvest-requests.
func (h *Handler) CreateHarvestRequest(w http.ResponseWriter, r *http.Request) {
	var in domain.HarvestRequestInput
	if !h.decode(w, r, &in) {
		return
	}
	hr, err := h.store.CreateHarvestRequest(userID(r), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusCreated, "Harvest request created successfully", hr)
}

// UpdateHarvestRequest handles PUT /harvest-requests/{id}.
func (h *Handler) UpdateHarvestRequest(w http.ResponseWriter, r *http.Request) {
	var in domain.HarvestRequestInput
	if !h.decode(w, r, &in) {
		return
	}
	hr, err := h.store.UpdateHarvestRequest(userID(r), param(r, "id"), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, "Harvest request updated successfully", hr)
}

// DeleteHarvestRequest handles DELETE /harvest-requests/{id}.
func (h *Handler) DeleteHarvestRequest(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteHarvestRequest(userID(r), param(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Harvest request deleted successfully")
}

var harvestMessages = map[string]string{
	HarvestActionAccept: "Harvest request accepted",
	HarvestActionReject: "Harvest request rejected",
	HarvestActionSubmit: "Harvest submitted successfully",
}

// AnswerHarvestRequest handles POST /harvest-requests/{id}/{action}.
func (h *Handler) AnswerHarvestRequest(w http.ResponseWriter, r *http.Request) {
	action := param(r, "action")
	message, ok := harvestMessages[action]
	if !ok {
		NotFound(w, r)
		return
	}

	var reason string
	if action == HarvestActionReject {
		var in domain.RejectInput
		if !h.decode(w, r, &in) {
			return
		}
		reason = in.Reason
	}

	hr, err := h.store.AnswerHarvestRequest(userID(r), param(r, "id"), action, reason)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, message, hr)
}

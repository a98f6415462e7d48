package resource

import (
	"context"
	"net/url"

	"github.com/localharvest/marketclient/internal/domain"
)

// HarvestRequests covers buyer harvest requests and seller responses to them.
type HarvestRequests struct {
	b *Base
}

// List returns the harvest requests visible to the user. status may be empty.
func (s *HarvestRequests) List(ctx context.Context, status string) []domain.HarvestRequest {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	return readList[domain.HarvestRequest](ctx, s.b, "harvest.list", "/harvest-requests", q,
		"Failed to load harvest requests", "harvest_requests")
}

// Get returns one harvest request, or nil.
func (s *HarvestRequests) Get(ctx context.Context, uniqueID string) *domain.HarvestRequest {
	return readOne[domain.HarvestRequest](ctx, s.b, "harvest.get", harvestPath(uniqueID),
		"Failed to load harvest request")
}

// Create opens a harvest request.
func (s *HarvestRequests) Create(ctx context.Context, in domain.HarvestRequestInput) (*domain.HarvestRequest, error) {
	return write[domain.HarvestRequest](ctx, s.b, mutation{
		op:       "harvest.create",
		send:     post(s.b, "/harvest-requests", in),
		payload:  in,
		success:  "Harvest request created successfully",
		fallback: "Failed to create harvest request",
	})
}

// Update edits a harvest request that has not been answered yet.
func (s *HarvestRequests) Update(ctx context.Context, uniqueID string, in domain.HarvestRequestInput) (*domain.HarvestRequest, error) {
	return write[domain.HarvestRequest](ctx, s.b, mutation{
		op:       "harvest.update",
		send:     put(s.b, harvestPath(uniqueID), in),
		payload:  in,
		success:  "Harvest request updated successfully",
		fallback: "Failed to update harvest request",
	})
}

// Delete withdraws a harvest request.
func (s *HarvestRequests) Delete(ctx context.Context, uniqueID string) error {
	return exec(ctx, s.b, mutation{
		op:       "harvest.delete",
		send:     del(s.b, harvestPath(uniqueID)),
		success:  "Harvest request deleted successfully",
		fallback: "Failed to delete harvest request",
	})
}

// Accept is the seller agreeing to fulfil the request.
func (s *HarvestRequests) Accept(ctx context.Context, uniqueID string) (*domain.HarvestRequest, error) {
	return write[domain.HarvestRequest](ctx, s.b, mutation{
		op:       "harvest.accept",
		send:     post(s.b, harvestPath(uniqueID)+"/accept", nil),
		success:  "Harvest request accepted",
		fallback: "Failed to accept harvest request",
	})
}

// Reject is the seller declining the request with a reason.
func (s *HarvestRequests) Reject(ctx context.Context, uniqueID, reason string) (*domain.HarvestRequest, error) {
	in := domain.RejectInput{Reason: reason}
	return write[domain.HarvestRequest](ctx, s.b, mutation{
		op:       "harvest.reject",
		send:     post(s.b, harvestPath(uniqueID)+"/reject", in),
		payload:  in,
		success:  "Harvest request rejected",
		fallback: "Failed to reject harvest request",
	})
}

// Submit is the seller reporting the harvest as done.
func (s *HarvestRequests) Submit(ctx context.Context, uniqueID string) (*domain.HarvestRequest, error) {
	return write[domain.HarvestRequest](ctx, s.b, mutation{
		op:       "harvest.submit",
		send:     post(s.b, harvestPath(uniqueID)+"/submit", nil),
		success:  "Harvest submitted successfully",
		fallback: "Failed to submit harvest",
	})
}

func harvestPath(uniqueID string) string {
	return "/harvest-requests/" + escape(uniqueID)
}

package resource

import (
	"context"
	"net/url"

	"github.com/localharvest/marketclient/internal/domain"
)

// Earnings reads balances and requests payouts.
type Earnings struct {
	b *Base
}

// List returns the credited earnings.
func (s *Earnings) List(ctx context.Context) []domain.Earning {
	return readList[domain.Earning](ctx, s.b, "earnings.list", "/earnings", nil,
		"Failed to load earnings", "earnings")
}

// Summary returns the balance summary, or nil.
func (s *Earnings) Summary(ctx context.Context) *domain.EarningsSummary {
	return readOne[domain.EarningsSummary](ctx, s.b, "earnings.summary", "/earnings/summary",
		"Failed to load earnings summary")
}

// RequestPayout withdraws part of the available balance.
func (s *Earnings) RequestPayout(ctx context.Context, in domain.PayoutInput) (*domain.Payout, error) {
	return write[domain.Payout](ctx, s.b, mutation{
		op:       "earnings.payout",
		send:     post(s.b, "/earnings/payouts", in),
		payload:  in,
		success:  "Payout requested successfully",
		fallback: "Failed to request payout",
	})
}

// Profile is the signed-in user's account.
type Profile struct {
	b *Base
}

// Get returns the profile, or nil.
func (s *Profile) Get(ctx context.Context) *domain.Profile {
	return readOne[domain.Profile](ctx, s.b, "profile.get", "/user/profile", "Failed to load profile")
}

// Update edits the profile.
func (s *Profile) Update(ctx context.Context, in domain.ProfileInput) (*domain.Profile, error) {
	return write[domain.Profile](ctx, s.b, mutation{
		op:       "profile.update",
		send:     put(s.b, "/user/profile", in),
		payload:  in,
		success:  "Profile updated successfully",
		fallback: "Failed to update profile",
	})
}

// ChangePassword replaces the password.
func (s *Profile) ChangePassword(ctx context.Context, in domain.ChangePasswordInput) error {
	return exec(ctx, s.b, mutation{
		op:       "profile.change_password",
		send:     put(s.b, "/user/password", in),
		payload:  in,
		success:  "Password changed successfully",
		fallback: "Failed to change password",
	})
}

// Verifications covers identity and business document checks.
type Verifications struct {
	b *Base
}

// List returns submitted verifications.
func (s *Verifications) List(ctx context.Context) []domain.Verification {
	return readList[domain.Verification](ctx, s.b, "verifications.list", "/verifications", nil,
		"Failed to load verifications", "verifications")
}

// Get returns one verification, or nil.
func (s *Verifications) Get(ctx context.Context, uniqueID string) *domain.Verification {
	return readOne[domain.Verification](ctx, s.b, "verifications.get", "/verifications/"+escape(uniqueID),
		"Failed to load verification")
}

// Submit sends a document for review.
func (s *Verifications) Submit(ctx context.Context, in domain.VerificationInput) (*domain.Verification, error) {
	return write[domain.Verification](ctx, s.b, mutation{
		op:       "verifications.submit",
		send:     post(s.b, "/verifications", in),
		payload:  in,
		success:  "Verification submitted successfully",
		fallback: "Failed to submit verification",
	})
}

// Deliveries is the courier's job board.
type Deliveries struct {
	b *Base
}

// List returns deliveries, optionally filtered by status.
func (s *Deliveries) List(ctx context.Context, status string) []domain.Delivery {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	return readList[domain.Delivery](ctx, s.b, "deliveries.list", "/courier/deliveries", q,
		"Failed to load deliveries", "deliveries")
}

// Accept claims an available delivery.
func (s *Deliveries) Accept(ctx context.Context, uniqueID string) (*domain.Delivery, error) {
	return s.act(ctx, uniqueID, domain.DeliveryActionAccept, "Delivery accepted")
}

// PickUp marks the order as collected from the seller.
func (s *Deliveries) PickUp(ctx context.Context, uniqueID string) (*domain.Delivery, error) {
	return s.act(ctx, uniqueID, domain.DeliveryActionPickUp, "Delivery marked as picked up")
}

// Complete marks the order as handed to the buyer.
func (s *Deliveries) Complete(ctx context.Context, uniqueID string) (*domain.Delivery, error) {
	return s.act(ctx, uniqueID, domain.DeliveryActionComplete, "Delivery completed")
}

func (s *Deliveries) act(ctx context.Context, uniqueID, action, success string) (*domain.Delivery, error) {
	return write[domain.Delivery](ctx, s.b, mutation{
		op:       "deliveries." + action,
		send:     post(s.b, "/courier/deliveries/"+escape(uniqueID)+"/"+action, nil),
		success:  success,
		fallback: "Failed to update delivery",
	})
}

// Package dashboard loads everything a seller or courier dashboard shows in
// parallel and summarizes it.
package dashboard

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/localharvest/marketclient/internal/domain"
	"github.com/localharvest/marketclient/internal/resource"
)

// Seller is the seller dashboard.
type Seller struct {
	Profile          *domain.Profile         `json:"profile"`
	Products         []domain.Product        `json:"products"`
	IncomingOrders   []domain.Order          `json:"incoming_orders"`
	OrdersByStatus   map[string]int          `json:"orders_by_status"`
	PendingHarvests  []domain.HarvestRequest `json:"pending_harvest_requests"`
	Earnings         *domain.EarningsSummary `json:"earnings"`
	LowStockProducts int                     `json:"low_stock_products"`
}

// Courier is the courier dashboard.
type Courier struct {
	Profile            *domain.Profile         `json:"profile"`
	Deliveries         []domain.Delivery       `json:"deliveries"`
	DeliveriesByStatus map[string]int          `json:"deliveries_by_status"`
	Earnings           *domain.EarningsSummary `json:"earnings"`
	Verifications      []domain.Verification   `json:"verifications"`
	Verified           bool                    `json:"verified"`
}

// LowStockThreshold is the stock level at which a product counts as low.
const LowStockThreshold = 5

// Loader builds dashboards from the resource services.
type Loader struct {
	services *resource.Services
	logger   *slog.Logger
}

// NewLoader creates a dashboard loader.
func NewLoader(services *resource.Services, logger *slog.Logger) *Loader {
	return &Loader{services: services, logger: logger}
}

// Seller loads the seller dashboard. Sections that fail to load are left
// empty; the failure has already been reported by the resource service.
func (l *Loader) Seller(ctx context.Context) (*Seller, error) {
	start := time.Now()
	d := &Seller{}
	svc := l.services

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		d.Profile = svc.Profile.Get(egCtx)
		return nil
	})
	eg.Go(func() error {
		d.Products = svc.Products.ListMine(egCtx, 0, 0)
		return nil
	})
	eg.Go(func() error {
		d.IncomingOrders = svc.Orders.ListIncoming(egCtx, resource.OrderFilter{})
		return nil
	})
	eg.Go(func() error {
		d.PendingHarvests = svc.HarvestRequests.List(egCtx, domain.HarvestStatusPending)
		return nil
	})
	eg.Go(func() error {
		d.Earnings = svc.Earnings.Summary(egCtx)
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.OrdersByStatus = make(map[string]int)
	for _, o := range d.IncomingOrders {
		d.OrdersByStatus[o.Status]++
	}
	for _, p := range d.Products {
		if p.IsActive && p.Stock <= LowStockThreshold {
			d.LowStockProducts++
		}
	}

	l.logger.DebugContext(ctx, "seller dashboard loaded",
		slog.Int("products", len(d.Products)),
		slog.Int("incoming_orders", len(d.IncomingOrders)),
		slog.Duration("duration", time.Since(start)),
	)
	return d, nil
}

// Courier loads the courier dashboard.
func (l *Loader) Courier(ctx context.Context) (*Courier, error) {
	start := time.Now()
	d := &Courier{}
	svc := l.services

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		d.Profile = svc.Profile.Get(egCtx)
		return nil
	})
	eg.Go(func() error {
		d.Deliveries = svc.Deliveries.List(egCtx, "")
		return nil
	})
	eg.Go(func() error {
		d.Earnings = svc.Earnings.Summary(egCtx)
		return nil
	})
	eg.Go(func() error {
		d.Verifications = svc.Verifications.List(egCtx)
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.DeliveriesByStatus = make(map[string]int)
	for _, del := range d.Deliveries {
		d.DeliveriesByStatus[del.Status]++
	}
	for _, v := range d.Verifications {
		if v.Status == domain.VerificationApproved {
			d.Verified = true
			break
		}
	}

	l.logger.DebugContext(ctx, "courier dashboard loaded",
		slog.Int("deliveries", len(d.Deliveries)),
		slog.Duration("duration", time.Since(start)),
	)
	return d, nil
}

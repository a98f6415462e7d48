// Package fakeapi is an in-memory implementation of the marketplace backend.
// It speaks the same envelopes, status codes and pagination as the real API
// and backs local development and end-to-end tests of the client.
package fakeapi

import (
	"cmp"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/localharvest/marketclient/internal/domain"
	apperrors "github.com/localharvest/marketclient/pkg/errors"
	"github.com/localharvest/marketclient/pkg/slug"
	"github.com/localharvest/marketclient/pkg/validator"
)

// Currency is reported on every earnings summary.
const Currency = "USD"

// Earning statuses.
const (
	EarningPending   = "pending"
	EarningAvailable = "available"
)

// User is an account known to the fake backend.
type User struct {
	domain.Profile
	Password string
}

// Store holds every record. It is safe for concurrent use; read methods
// return copies.
type Store struct {
	mu     sync.RWMutex
	now    func() time.Time
	nextID int64

	users         map[int64]*User
	categories    []*domain.Category
	products      []*domain.Product
	orders        []*domain.Order
	harvests      []*domain.HarvestRequest
	earnings      []*earning
	payouts       []*payout
	verifications []*verification
	deliveries    []*domain.Delivery
	wishlist      map[int64][]*domain.WishlistProduct
}

type earning struct {
	domain.Earning
	userID int64
}

type payout struct {
	domain.Payout
	userID int64
}

type verification struct {
	domain.Verification
	userID int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		now:      func() time.Time { return time.Now().UTC() },
		users:    make(map[int64]*User),
		wishlist: make(map[int64][]*domain.WishlistProduct),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func notFound(what string) *apperrors.AppError {
	return apperrors.FromStatus(http.StatusNotFound, what+" not found.", nil)
}

func invalid(field, msg string) *apperrors.AppError {
	return apperrors.Validation(validator.InvalidDataMessage, map[string][]string{field: {msg}})
}

// --- users ---

// AddUser registers an account and returns its profile.
func (s *Store) AddUser(name, email, password, role string) domain.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := &User{
		Profile: domain.Profile{
			ID:        s.id(),
			UniqueID:  uuid.NewString(),
			Name:      name,
			Email:     email,
			Role:      role,
			CreatedAt: s.now(),
		},
		Password: password,
	}
	s.users[u.ID] = u
	return u.Profile
}

// Users returns every account ordered by id.
func (s *Store) Users() []domain.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Profile, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.Profile)
	}
	slices.SortFunc(out, func(a, b domain.Profile) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Profile returns the account of userID.
func (s *Store) Profile(userID int64) (domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return domain.Profile{}, notFound("User")
	}
	return u.Profile, nil
}

// UpdateProfile edits the account of userID. Emails stay unique.
func (s *Store) UpdateProfile(userID int64, in domain.ProfileInput) (domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return domain.Profile{}, notFound("User")
	}
	for _, other := range s.users {
		if other.ID != userID && strings.EqualFold(other.Email, in.Email) {
			return domain.Profile{}, invalid("email", "The email has already been taken.")
		}
	}
	u.Name, u.Email, u.Phone, u.Address = in.Name, in.Email, in.Phone, in.Address
	return u.Profile, nil
}

// ChangePassword replaces the password of userID after checking the current
// one.
func (s *Store) ChangePassword(userID int64, in domain.ChangePasswordInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return notFound("User")
	}
	if u.Password != in.CurrentPassword {
		return invalid("current_password", "The current password is incorrect.")
	}
	u.Password = in.Password
	return nil
}

// --- catalog ---

// Categories returns every category with its active product count.
func (s *Store) Categories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, s.categoryLocked(c))
	}
	return out
}

// Category returns the category with the given slug.
func (s *Store) Category(slugOrID string) (domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.categories {
		if c.Slug == slugOrID || fmt.Sprint(c.ID) == slugOrID {
			return s.categoryLocked(c), nil
		}
	}
	return domain.Category{}, notFound("Category")
}

func (s *Store) categoryLocked(c *domain.Category) domain.Category {
	out := *c
	out.ProductsCnt = 0
	for _, p := range s.products {
		if p.CategoryID == c.ID && p.IsActive {
			out.ProductsCnt++
		}
	}
	return out
}

// AddCategory creates a category with a unique slug derived from name.
func (s *Store) AddCategory(name, description string) domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := &domain.Category{
		ID:          s.id(),
		Name:        name,
		Description: description,
		Slug: slug.Unique(slug.Generate(name), func(candidate string) bool {
			return slices.ContainsFunc(s.categories, func(c *domain.Category) bool { return c.Slug == candidate })
		}),
	}
	s.categories = append(s.categories, c)
	return *c
}

// ProductQuery narrows Products.
type ProductQuery struct {
	Category string
	Search   string
	SellerID int64
}

// Products returns matching products ordered by id. Inactive products are
// only listed for their seller.
func (s *Store) Products(q ProductQuery) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var categoryID int64 = -1
	if q.Category != "" {
		for _, c := range s.categories {
			if c.Slug == q.Category || fmt.Sprint(c.ID) == q.Category {
				categoryID = c.ID
			}
		}
		if categoryID == -1 {
			return []domain.Product{}
		}
	}
	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := []domain.Product{}
	for _, p := range s.products {
		switch {
		case q.SellerID != 0 && p.SellerID != q.SellerID:
		case q.SellerID == 0 && !p.IsActive:
		case categoryID != -1 && p.CategoryID != categoryID:
		case search != "" && !strings.Contains(strings.ToLower(p.Name+" "+p.Description), search):
		default:
			out = append(out, s.productLocked(p))
		}
	}
	return out
}

// Product returns one product by unique id or numeric id.
func (s *Store) Product(ref string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.findProductLocked(ref)
	if p == nil {
		return domain.Product{}, notFound("Product")
	}
	return s.productLocked(p), nil
}

func (s *Store) findProductLocked(ref string) *domain.Product {
	for _, p := range s.products {
		if p.UniqueID == ref || fmt.Sprint(p.ID) == ref {
			return p
		}
	}
	return nil
}

func (s *Store) productByIDLocked(id int64) *domain.Product {
	for _, p := range s.products {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Store) productLocked(p *domain.Product) domain.Product {
	out := *p
	for _, c := range s.categories {
		if c.ID == p.CategoryID {
			cat := *c
			out.Category = &cat
		}
	}
	return out
}

func (s *Store) categoryExistsLocked(id int64) bool {
	return slices.ContainsFunc(s.categories, func(c *domain.Category) bool { return c.ID == id })
}

// CreateProduct lists a product for sellerID.
func (s *Store) CreateProduct(sellerID int64, in domain.ProductInput) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.categoryExistsLocked(in.CategoryID) {
		return domain.Product{}, invalid("category_id", "The selected category id is invalid.")
	}
	now := s.now()
	p := &domain.Product{
		ID:        s.id(),
		UniqueID:  uuid.NewString(),
		SellerID:  sellerID,
		CreatedAt: now,
	}
	applyProduct(p, in, now)
	s.products = append(s.products, p)
	return s.productLocked(p), nil
}

func applyProduct(p *domain.Product, in domain.ProductInput, now time.Time) {
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.Unit = in.Unit
	p.Stock = in.Stock
	p.CategoryID = in.CategoryID
	p.IsActive = in.IsActive
	p.UpdatedAt = now
}

// UpdateProduct edits a product owned by sellerID.
func (s *Store) UpdateProduct(sellerID int64, ref string, in domain.ProductInput) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findProductLocked(ref)
	if p == nil || p.SellerID != sellerID {
		return domain.Product{}, notFound("Product")
	}
	if !s.categoryExistsLocked(in.CategoryID) {
		return domain.Product{}, invalid("category_id", "The selected category id is invalid.")
	}
	applyProduct(p, in, s.now())
	return s.productLocked(p), nil
}

// DeleteProduct removes a product owned by sellerID.
func (s *Store) DeleteProduct(sellerID int64, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findProductLocked(ref)
	if p == nil || p.SellerID != sellerID {
		return notFound("Product")
	}
	s.products = slices.DeleteFunc(s.products, func(q *domain.Product) bool { return q == p })
	for uid, items := range s.wishlist {
		s.wishlist[uid] = slices.DeleteFunc(items, func(w *domain.WishlistProduct) bool { return w.ProductID == p.ID })
	}
	return nil
}

// --- orders ---

// OrderQuery narrows Orders.
type OrderQuery struct {
	BuyerID  int64
	SellerID int64
	Status   string
}

// Orders returns matching orders, newest first.
func (s *Store) Orders(q OrderQuery) []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Order{}
	for i := len(s.orders) - 1; i >= 0; i-- {
		o := s.orders[i]
		switch {
		case q.BuyerID != 0 && o.BuyerID != q.BuyerID:
		case q.SellerID != 0 && o.SellerID != q.SellerID:
		case q.Status != "" && o.Status != q.Status:
		default:
			out = append(out, copyOrder(o))
		}
	}
	return out
}

func copyOrder(o *domain.Order) domain.Order {
	out := *o
	out.Items = slices.Clone(o.Items)
	return out
}

func (s *Store) findOrderLocked(ref string) *domain.Order {
	for _, o := range s.orders {
		if o.UniqueID == ref || fmt.Sprint(o.ID) == ref {
			return o
		}
	}
	return nil
}

// Order returns an order visible to userID as buyer or seller.
func (s *Store) Order(userID int64, ref string) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o := s.findOrderLocked(ref)
	if o == nil || (o.BuyerID != userID && o.SellerID != userID) {
		return domain.Order{}, notFound("Order")
	}
	return copyOrder(o), nil
}

// CreateOrder places an order for buyerID, reserving stock. All items must
// come from one seller.
func (s *Store) CreateOrder(buyerID int64, in domain.CreateOrderInput) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	o := &domain.Order{
		ID:              s.id(),
		UniqueID:        uuid.NewString(),
		BuyerID:         buyerID,
		Status:          domain.OrderStatusPending,
		DeliveryAddress: in.DeliveryAddress,
		Notes:           in.Notes,
		TotalAmount:     decimal.Zero,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// Quantity per product across all lines so far.
	requested := make(map[int64]int, len(in.Items))
	for i, line := range in.Items {
		field := fmt.Sprintf("items.%d.product_id", i)
		p := s.productByIDLocked(line.ProductID)
		if p != nil {
			requested[p.ID] += line.Quantity
		}
		switch {
		case p == nil || !p.IsActive:
			return domain.Order{}, invalid(field, "The selected product is invalid.")
		case !p.InStock(requested[p.ID]):
			return domain.Order{}, invalid(fmt.Sprintf("items.%d.quantity", i),
				fmt.Sprintf("Only %d %s of %s left in stock.", p.Stock, p.Unit, p.Name))
		case o.SellerID != 0 && p.SellerID != o.SellerID:
			return domain.Order{}, invalid(field, "All items must come from the same seller.")
		}
		o.SellerID = p.SellerID
		item := domain.OrderItem{ProductID: p.ID, Name: p.Name, Price: p.Price, Quantity: line.Quantity}
		o.Items = append(o.Items, item)
		o.TotalAmount = o.TotalAmount.Add(item.LineTotal())
	}

	for _, item := range o.Items {
		s.productByIDLocked(item.ProductID).Stock -= item.Quantity
	}
	s.orders = append(s.orders, o)
	return copyOrder(o), nil
}

// CancelOrder cancels an order of buyerID and releases its stock.
func (s *Store) CancelOrder(buyerID int64, ref, reason string) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := s.findOrderLocked(ref)
	if o == nil || o.BuyerID != buyerID {
		return domain.Order{}, notFound("Order")
	}
	if err := s.transitionLocked(o, domain.OrderStatusCanceled); err != nil {
		return domain.Order{}, err
	}
	o.CanceledReason = reason
	return copyOrder(o), nil
}

// UpdateOrderStatus advances an order received by sellerID.
func (s *Store) UpdateOrderStatus(sellerID int64, ref, status string) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := s.findOrderLocked(ref)
	if o == nil || o.SellerID != sellerID {
		return domain.Order{}, notFound("Order")
	}
	if err := s.transitionLocked(o, status); err != nil {
		return domain.Order{}, err
	}
	return copyOrder(o), nil
}

// transitionLocked applies the side effects of each order status: confirmed
// orders get a delivery job, delivered orders credit the seller and canceled
// orders release stock.
func (s *Store) transitionLocked(o *domain.Order, status string) error {
	if !o.CanTransitionTo(status) {
		return invalid("status", fmt.Sprintf("The order cannot be moved from %s to %s.", o.Status, status))
	}
	now := s.now()
	o.Status = status
	o.UpdatedAt = now

	switch status {
	case domain.OrderStatusConfirmed:
		seller := s.users[o.SellerID]
		buyer := s.users[o.BuyerID]
		d := &domain.Delivery{
			ID:             s.id(),
			UniqueID:       uuid.NewString(),
			OrderID:        o.ID,
			DropoffAddress: o.DeliveryAddress,
			Fee:            deliveryFee(o.TotalAmount),
			Status:         domain.DeliveryAvailable,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if seller != nil {
			d.PickupAddress = seller.Address
		}
		if d.DropoffAddress == "" && buyer != nil {
			d.DropoffAddress = buyer.Address
		}
		s.deliveries = append(s.deliveries, d)
	case domain.OrderStatusDelivered:
		s.creditLocked(o.SellerID, o.ID, o.TotalAmount, o.TotalAmount.Mul(decimal.RequireFromString("0.05")).Round(2),
			"Order "+o.UniqueID)
	case domain.OrderStatusCanceled:
		for _, item := range o.Items {
			if p := s.productByIDLocked(item.ProductID); p != nil {
				p.Stock += item.Quantity
			}
		}
	}
	return nil
}

// deliveryFee is 10% of the order total with a floor of 2.00.
func deliveryFee(total decimal.Decimal) decimal.Decimal {
	return decimal.Max(total.Mul(decimal.RequireFromString("0.1")).Round(2), decimal.NewFromInt(2))
}

// --- harvest requests ---

// HarvestRequests returns the requests userID opened or received, newest first.
func (s *Store) HarvestRequests(userID int64, status string) []domain.HarvestRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.HarvestRequest{}
	for i := len(s.harvests) - 1; i >= 0; i-- {
		h := s.harvests[i]
		if (h.BuyerID == userID || h.SellerID == userID) && (status == "" || h.Status == status) {
			out = append(out, *h)
		}
	}
	return out
}

func (s *Store) findHarvestLocked(userID int64, ref string) *domain.HarvestRequest {
	for _, h := range s.harvests {
		if (h.UniqueID == ref || fmt.Sprint(h.ID) == ref) && (h.BuyerID == userID || h.SellerID == userID) {
			return h
		}
	}
	return nil
}

// HarvestRequest returns one request visible to userID.
func (s *Store) HarvestRequest(userID int64, ref string) (domain.HarvestRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h := s.findHarvestLocked(userID, ref)
	if h == nil {
		return domain.HarvestRequest{}, notFound("Harvest request")
	}
	return *h, nil
}

func (s *Store) checkSellerLocked(id int64) error {
	if u, ok := s.users[id]; !ok || u.Role != domain.RoleSeller {
		return invalid("seller_id", "The selected seller id is invalid.")
	}
	return nil
}

// CreateHarvestRequest opens a pending request from buyerID.
func (s *Store) CreateHarvestRequest(buyerID int64, in domain.HarvestRequestInput) (domain.HarvestRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkSellerLocked(in.SellerID); err != nil {
		return domain.HarvestRequest{}, err
	}
	now := s.now()
	h := &domain.HarvestRequest{
		ID:        s.id(),
		UniqueID:  uuid.NewString(),
		BuyerID:   buyerID,
		Status:    domain.HarvestStatusPending,
		CreatedAt: now,
	}
	applyHarvest(h, in, now)
	s.harvests = append(s.harvests, h)
	return *h, nil
}

func applyHarvest(h *domain.HarvestRequest, in domain.HarvestRequestInput, now time.Time) {
	h.SellerID = in.SellerID
	h.ProductName = in.ProductName
	h.Quantity = in.Quantity
	h.Unit = in.Unit
	h.OfferedPrice = in.OfferedPrice
	h.HarvestDate = in.HarvestDate
	h.Notes = in.Notes
	h.UpdatedAt = now
}

func (s *Store) ownPendingHarvestLocked(buyerID int64, ref string) (*domain.HarvestRequest, error) {
	h := s.findHarvestLocked(buyerID, ref)
	if h == nil || h.BuyerID != buyerID {
		return nil, notFound("Harvest request")
	}
	if h.Status != domain.HarvestStatusPending && h.Status != domain.HarvestStatusDraft {
		return nil, invalid("status", "Only pending harvest requests can be changed.")
	}
	return h, nil
}

// UpdateHarvestRequest edits a pending request of buyerID.
func (s *Store) UpdateHarvestRequest(buyerID int64, ref string, in domain.HarvestRequestInput) (domain.HarvestRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, err := s.ownPendingHarvestLocked(buyerID, ref)
	if err != nil {
		return domain.HarvestRequest{}, err
	}
	if err := s.checkSellerLocked(in.SellerID); err != nil {
		return domain.HarvestRequest{}, err
	}
	applyHarvest(h, in, s.now())
	return *h, nil
}

// DeleteHarvestRequest withdraws a pending request of buyerID.
func (s *Store) DeleteHarvestRequest(buyerID int64, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, err := s.ownPendingHarvestLocked(buyerID, ref)
	if err != nil {
		return err
	}
	s.harvests = slices.DeleteFunc(s.harvests, func(x *domain.HarvestRequest) bool { return x == h })
	return nil
}

// Harvest request actions.
const (
	HarvestActionAccept = "accept"
	HarvestActionReject = "reject"
	HarvestActionSubmit = "submit"
)

// AnswerHarvestRequest applies a seller action to a request addressed to
// sellerID.
func (s *Store) AnswerHarvestRequest(sellerID int64, ref, action, reason string) (domain.HarvestRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.findHarvestLocked(sellerID, ref)
	if h == nil || h.SellerID != sellerID {
		return domain.HarvestRequest{}, notFound("Harvest request")
	}

	var from, to string
	switch action {
	case HarvestActionAccept:
		from, to = domain.HarvestStatusPending, domain.HarvestStatusAccepted
	case HarvestActionReject:
		from, to = domain.HarvestStatusPending, domain.HarvestStatusRejected
	case HarvestActionSubmit:
		from, to = domain.HarvestStatusAccepted, domain.HarvestStatusSubmitted
	default:
		return domain.HarvestRequest{}, notFound("Harvest request action")
	}
	if h.Status != from {
		return domain.HarvestRequest{}, invalid("status", fmt.Sprintf("The harvest request is %s and cannot be moved to %s.", h.Status, to))
	}

	h.Status = to
	h.UpdatedAt = s.now()
	if action == HarvestActionReject {
		h.RejectReason = reason
	}
	if action == HarvestActionSubmit {
		total := h.Quantity.Mul(h.OfferedPrice)
		s.creditLocked(sellerID, 0, total, total.Mul(decimal.RequireFromString("0.05")).Round(2),
			"Harvest "+h.ProductName)
	}
	return *h, nil
}

// --- earnings ---

func (s *Store) creditLocked(userID, orderID int64, amount, fee decimal.Decimal, description string) {
	s.earnings = append(s.earnings, &earning{
		userID: userID,
		Earning: domain.Earning{
			ID:          s.id(),
			UniqueID:    uuid.NewString(),
			OrderID:     orderID,
			Amount:      amount,
			Fee:         fee,
			Status:      EarningAvailable,
			Description: description,
			CreatedAt:   s.now(),
		},
	})
}

// Credit records an earning for userID.
func (s *Store) Credit(userID int64, amount, fee decimal.Decimal, status, description string) domain.Earning {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creditLocked(userID, 0, amount, fee, description)
	e := s.earnings[len(s.earnings)-1]
	e.Status = status
	return e.Earning
}

// Earnings returns the earnings of userID, newest first.
func (s *Store) Earnings(userID int64) []domain.Earning {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Earning{}
	for i := len(s.earnings) - 1; i >= 0; i-- {
		if e := s.earnings[i]; e.userID == userID {
			out = append(out, e.Earning)
		}
	}
	return out
}

// EarningsSummary totals the balance of userID.
func (s *Store) EarningsSummary(userID int64) domain.EarningsSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summaryLocked(userID)
}

func (s *Store) summaryLocked(userID int64) domain.EarningsSummary {
	sum := domain.EarningsSummary{
		TotalEarned:  decimal.Zero,
		Available:    decimal.Zero,
		Pending:      decimal.Zero,
		TotalPaidOut: decimal.Zero,
		Currency:     Currency,
	}
	for _, e := range s.earnings {
		if e.userID != userID {
			continue
		}
		net := e.Net()
		sum.TotalEarned = sum.TotalEarned.Add(net)
		if e.Status == EarningPending {
			sum.Pending = sum.Pending.Add(net)
		} else {
			sum.Available = sum.Available.Add(net)
		}
	}
	for _, p := range s.payouts {
		if p.userID != userID {
			continue
		}
		sum.TotalPaidOut = sum.TotalPaidOut.Add(p.Amount)
		sum.Available = sum.Available.Sub(p.Amount)
		if sum.LastPayoutDate == nil || p.CreatedAt.After(*sum.LastPayoutDate) {
			at := p.CreatedAt
			sum.LastPayoutDate = &at
		}
	}
	return sum
}

// RequestPayout withdraws from the available balance of userID.
func (s *Store) RequestPayout(userID int64, in domain.PayoutInput) (domain.Payout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if in.Amount.GreaterThan(s.summaryLocked(userID).Available) {
		return domain.Payout{}, invalid("amount", "The amount may not be greater than the available balance.")
	}
	p := &payout{
		userID: userID,
		Payout: domain.Payout{
			ID:        s.id(),
			UniqueID:  uuid.NewString(),
			Amount:    in.Amount,
			Method:    in.Method,
			Status:    "pending",
			CreatedAt: s.now(),
		},
	}
	s.payouts = append(s.payouts, p)
	return p.Payout, nil
}

// --- verifications ---

// Verifications returns the documents userID submitted, newest first.
func (s *Store) Verifications(userID int64) []domain.Verification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Verification{}
	for i := len(s.verifications) - 1; i >= 0; i-- {
		if v := s.verifications[i]; v.userID == userID {
			out = append(out, v.Verification)
		}
	}
	return out
}

// Verification returns one document of userID.
func (s *Store) Verification(userID int64, ref string) (domain.Verification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, v := range s.verifications {
		if v.userID == userID && (v.UniqueID == ref || fmt.Sprint(v.ID) == ref) {
			return v.Verification, nil
		}
	}
	return domain.Verification{}, notFound("Verification")
}

// SubmitVerification files a document for review.
func (s *Store) SubmitVerification(userID int64, in domain.VerificationInput) domain.Verification {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := &verification{
		userID: userID,
		Verification: domain.Verification{
			ID:           s.id(),
			UniqueID:     uuid.NewString(),
			DocumentType: in.DocumentType,
			DocumentURL:  in.DocumentURL,
			Notes:        in.Notes,
			Status:       domain.VerificationPending,
			CreatedAt:    s.now(),
		},
	}
	s.verifications = append(s.verifications, v)
	return v.Verification
}

// ReviewVerification sets the outcome of a review. Approval marks the
// account verified.
func (s *Store) ReviewVerification(ref, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range s.verifications {
		if v.UniqueID == ref {
			v.Status = status
			if u, ok := s.users[v.userID]; ok && status == domain.VerificationApproved {
				u.IsVerified = true
			}
			return nil
		}
	}
	return notFound("Verification")
}

// --- deliveries ---

// Deliveries returns the jobs open to any courier plus those held by
// courierID, oldest first.
func (s *Store) Deliveries(courierID int64, status string) []domain.Delivery {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Delivery{}
	for _, d := range s.deliveries {
		visible := d.Status == domain.DeliveryAvailable || d.CourierID == courierID
		if visible && (status == "" || d.Status == status) {
			out = append(out, *d)
		}
	}
	return out
}

// AdvanceDelivery applies a courier action. Picking up ships the order and
// completing it delivers the order and credits the courier.
func (s *Store) AdvanceDelivery(courierID int64, ref, action string) (domain.Delivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var d *domain.Delivery
	for _, x := range s.deliveries {
		if x.UniqueID == ref || fmt.Sprint(x.ID) == ref {
			d = x
		}
	}
	if d == nil || (d.Status != domain.DeliveryAvailable && d.CourierID != courierID) {
		return domain.Delivery{}, notFound("Delivery")
	}

	next, ok := domain.NextDeliveryStatus(d.Status, action)
	if !ok {
		return domain.Delivery{}, invalid("status", fmt.Sprintf("The delivery is %s and cannot be updated with %q.", d.Status, action))
	}
	d.Status = next
	d.UpdatedAt = s.now()
	if action == domain.DeliveryActionAccept {
		d.CourierID = courierID
	}

	o := s.orderByIDLocked(d.OrderID)
	switch next {
	case domain.DeliveryPickedUp:
		if o != nil && o.CanTransitionTo(domain.OrderStatusProcessing) {
			_ = s.transitionLocked(o, domain.OrderStatusProcessing)
		}
		if o != nil && o.CanTransitionTo(domain.OrderStatusShipped) {
			_ = s.transitionLocked(o, domain.OrderStatusShipped)
		}
	case domain.DeliveryCompleted:
		if o != nil && o.CanTransitionTo(domain.OrderStatusDelivered) {
			_ = s.transitionLocked(o, domain.OrderStatusDelivered)
		}
		s.creditLocked(courierID, d.OrderID, d.Fee, decimal.Zero, "Delivery "+d.UniqueID)
	}
	return *d, nil
}

func (s *Store) orderByIDLocked(id int64) *domain.Order {
	for _, o := range s.orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// --- wishlist ---

// Wishlist returns the favorites of userID with product details, newest first.
func (s *Store) Wishlist(userID int64) []domain.WishlistProduct {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.wishlist[userID]
	out := make([]domain.WishlistProduct, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		w := *items[i]
		if p := s.productByIDLocked(w.ProductID); p != nil {
			prod := s.productLocked(p)
			w.Product = &prod
		}
		out = append(out, w)
	}
	return out
}

func (s *Store) favoriteIndexLocked(userID, productID int64) int {
	return slices.IndexFunc(s.wishlist[userID], func(w *domain.WishlistProduct) bool { return w.ProductID == productID })
}

// AddFavorite adds productID to the wishlist of userID. It reports false when
// the product was already there.
func (s *Store) AddFavorite(userID, productID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addFavoriteLocked(userID, productID)
}

func (s *Store) addFavoriteLocked(userID, productID int64) (bool, error) {
	if s.productByIDLocked(productID) == nil {
		return false, invalid("product_id", "The selected product id is invalid.")
	}
	if s.favoriteIndexLocked(userID, productID) >= 0 {
		return false, nil
	}
	s.wishlist[userID] = append(s.wishlist[userID], &domain.WishlistProduct{
		ID:        s.id(),
		ProductID: productID,
		CreatedAt: s.now(),
	})
	return true, nil
}

// RemoveFavorite drops productID from the wishlist of userID.
func (s *Store) RemoveFavorite(userID, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.favoriteIndexLocked(userID, productID)
	if i < 0 {
		return notFound("Wishlist item")
	}
	s.wishlist[userID] = slices.Delete(s.wishlist[userID], i, i+1)
	return nil
}

// ToggleFavorite flips productID on the wishlist of userID and returns the
// new state.
func (s *Store) ToggleFavorite(userID, productID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.favoriteIndexLocked(userID, productID); i >= 0 {
		s.wishlist[userID] = slices.Delete(s.wishlist[userID], i, i+1)
		return false, nil
	}
	_, err := s.addFavoriteLocked(userID, productID)
	return err == nil, err
}

// IsFavorite reports whether productID is on the wishlist of userID.
func (s *Store) IsFavorite(userID, productID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.favoriteIndexLocked(userID, productID) >= 0
}

func (s *Store) checkPassword(userID int64, password string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	return ok && u.Password == password
}

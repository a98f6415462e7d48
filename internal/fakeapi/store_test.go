package fakeapi

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localharvest/marketclient/internal/domain"
	apperrors "github.com/localharvest/marketclient/pkg/errors"
)

func seeded(t *testing.T) (*Store, Seeded) {
	t.Helper()
	s := NewStore()
	return s, Seed(s)
}

func productNamed(t *testing.T, s *Store, name string) domain.Product {
	t.Helper()
	for _, p := range s.Products(ProductQuery{SellerID: sellerOf(s)}) {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("product %q not seeded", name)
	return domain.Product{}
}

func sellerOf(s *Store) int64 {
	for _, u := range s.Users() {
		if u.Role == domain.RoleSeller {
			return u.ID
		}
	}
	return 0
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestStore_CategoriesHaveSlugsAndCounts(t *testing.T) {
	s, _ := seeded(t)

	cats := s.Categories()
	require.Len(t, cats, 4)
	assert.Equal(t, "fresh-vegetables", cats[0].Slug)
	assert.Equal(t, 3, cats[0].ProductsCnt)
	assert.Equal(t, "dairy-eggs", cats[2].Slug)

	c, err := s.Category("fruit")
	require.NoError(t, err)
	assert.Equal(t, "Fruit", c.Name)

	dup := s.AddCategory("Fruit", "")
	assert.Equal(t, "fruit-2", dup.Slug)

	_, err = s.Category("nope")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestStore_ProductsHideInactiveFromBuyers(t *testing.T) {
	s, seed := seeded(t)

	assert.Len(t, s.Products(ProductQuery{}), 6)
	assert.Len(t, s.Products(ProductQuery{SellerID: seed.Seller.ID}), 7)
	assert.Len(t, s.Products(ProductQuery{Category: "fruit"}), 2)
	assert.Empty(t, s.Products(ProductQuery{Category: "unknown"}))

	found := s.Products(ProductQuery{Search: "KALE"})
	require.Len(t, found, 1)
	assert.Equal(t, "Curly Kale", found[0].Name)
	require.NotNil(t, found[0].Category)
	assert.Equal(t, "Fresh Vegetables", found[0].Category.Name)
}

func TestStore_CreateProductRejectsUnknownCategory(t *testing.T) {
	s, seed := seeded(t)

	_, err := s.CreateProduct(seed.Seller.ID, domain.ProductInput{Name: "Leeks", Price: dec("1"), Unit: "kg", CategoryID: 999})
	require.Error(t, err)
	assert.Contains(t, apperrors.FieldErrors(err), "category_id")
}

func TestStore_OnlyOwnerEditsProduct(t *testing.T) {
	s, seed := seeded(t)
	kale := productNamed(t, s, "Curly Kale")

	in := domain.ProductInput{Name: "Kale", Price: dec("2.50"), Unit: "bunch", Stock: 5, CategoryID: kale.CategoryID, IsActive: true}
	_, err := s.UpdateProduct(seed.Buyer.ID, kale.UniqueID, in)
	assert.True(t, apperrors.IsNotFound(err))

	updated, err := s.UpdateProduct(seed.Seller.ID, kale.UniqueID, in)
	require.NoError(t, err)
	assert.Equal(t, "Kale", updated.Name)
	assert.True(t, dec("2.50").Equal(updated.Price))
}

func TestStore_DeleteProductClearsWishlists(t *testing.T) {
	s, seed := seeded(t)
	kale := productNamed(t, s, "Curly Kale")

	added, err := s.AddFavorite(seed.Buyer.ID, kale.ID)
	require.NoError(t, err)
	require.True(t, added)

	require.NoError(t, s.DeleteProduct(seed.Seller.ID, kale.UniqueID))
	assert.Empty(t, s.Wishlist(seed.Buyer.ID))
	_, err = s.Product(kale.UniqueID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestStore_CreateOrderReservesStock(t *testing.T) {
	s, seed := seeded(t)
	tomatoes := productNamed(t, s, "Heirloom Tomatoes")
	kale := productNamed(t, s, "Curly Kale")

	o, err := s.CreateOrder(seed.Buyer.ID, domain.CreateOrderInput{
		Items: []domain.OrderItemInput{
			{ProductID: tomatoes.ID, Quantity: 2},
			{ProductID: kale.ID, Quantity: 3},
		},
		DeliveryAddress: "4 Market Street",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusPending, o.Status)
	assert.Equal(t, seed.Seller.ID, o.SellerID)
	assert.True(t, dec("15.60").Equal(o.TotalAmount), o.TotalAmount.String())
	assert.Equal(t, 38, productNamed(t, s, "Heirloom Tomatoes").Stock)
	assert.Equal(t, 22, productNamed(t, s, "Curly Kale").Stock)
}

func TestStore_CreateOrderValidation(t *testing.T) {
	tests := []struct {
		name    string
		product string
		qty     int
		field   string
	}{
		{"out of stock", "Wild Strawberries", 1, "items.0.quantity"},
		{"more than stock", "Rainbow Carrots", 4, "items.0.quantity"},
		{"inactive product", "Raw Milk", 1, "items.0.product_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, seed := seeded(t)
			p := productNamed(t, s, tt.product)

			_, err := s.CreateOrder(seed.Buyer.ID, domain.CreateOrderInput{
				Items:           []domain.OrderItemInput{{ProductID: p.ID, Quantity: tt.qty}},
				DeliveryAddress: "x",
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			assert.Contains(t, apperrors.FieldErrors(err), tt.field)
			assert.Equal(t, p.Stock, productNamed(t, s, tt.product).Stock)
		})
	}
}

func TestStore_CreateOrderTotalsRepeatedProducts(t *testing.T) {
	s, seed := seeded(t)
	carrots := productNamed(t, s, "Rainbow Carrots")

	_, err := s.CreateOrder(seed.Buyer.ID, domain.CreateOrderInput{
		Items:           []domain.OrderItemInput{{ProductID: carrots.ID, Quantity: 2}, {ProductID: carrots.ID, Quantity: 2}},
		DeliveryAddress: "x",
	})
	require.Error(t, err)
	assert.Contains(t, apperrors.FieldErrors(err), "items.1.quantity")
	assert.Equal(t, 3, productNamed(t, s, "Rainbow Carrots").Stock)
}

func TestStore_CreateOrderRejectsMixedSellers(t *testing.T) {
	s, seed := seeded(t)
	other := s.AddUser("Hill Farm", "hill@example.com", "pw", domain.RoleSeller)
	cat := s.Categories()[0]
	leeks, err := s.CreateProduct(other.ID, domain.ProductInput{Name: "Leeks", Price: dec("1"), Unit: "kg", Stock: 9, CategoryID: cat.ID, IsActive: true})
	require.NoError(t, err)
	kale := productNamed(t, s, "Curly Kale")

	_, err = s.CreateOrder(seed.Buyer.ID, domain.CreateOrderInput{
		Items:           []domain.OrderItemInput{{ProductID: kale.ID, Quantity: 1}, {ProductID: leeks.ID, Quantity: 1}},
		DeliveryAddress: "x",
	})
	require.Error(t, err)
	assert.Contains(t, apperrors.FieldErrors(err), "items.1.product_id")
	assert.Equal(t, 25, productNamed(t, s, "Curly Kale").Stock)
}

func TestStore_CancelReleasesStock(t *testing.T) {
	s, seed := seeded(t)
	carrots := productNamed(t, s, "Rainbow Carrots")

	o, err := s.CreateOrder(seed.Buyer.ID, domain.CreateOrderInput{
		Items:           []domain.OrderItemInput{{ProductID: carrots.ID, Quantity: 3}},
		DeliveryAddress: "x",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, productNamed(t, s, "Rainbow Carrots").Stock)

	canceled, err := s.CancelOrder(seed.Buyer.ID, o.UniqueID, "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCanceled, canceled.Status)
	assert.Equal(t, "changed my mind", canceled.CanceledReason)
	assert.Equal(t, 3, productNamed(t, s, "Rainbow Carrots").Stock)

	_, err = s.CancelOrder(seed.Buyer.ID, o.UniqueID, "")
	assert.Contains(t, apperrors.FieldErrors(err), "status")
}

func TestStore_OrderVisibility(t *testing.T) {
	s, seed := seeded(t)
	kale := productNamed(t, s, "Curly Kale")
	o, err := s.CreateOrder(seed.Buyer.ID, domain.CreateOrderInput{
		Items:           []domain.OrderItemInput{{ProductID: kale.ID, Quantity: 1}},
		DeliveryAddress: "x",
	})
	require.NoError(t, err)

	_, err = s.Order(seed.Buyer.ID, o.UniqueID)
	assert.NoError(t, err)
	_, err = s.Order(seed.Seller.ID, o.UniqueID)
	assert.NoError(t, err)
	_, err = s.Order(seed.Courier.ID, o.UniqueID)
	assert.True(t, apperrors.IsNotFound(err))

	assert.Len(t, s.Orders(OrderQuery{SellerID: seed.Seller.ID}), 1)
	assert.Empty(t, s.Orders(OrderQuery{BuyerID: seed.Buyer.ID, Status: domain.OrderStatusDelivered}))
}

func TestStore_OrderDeliveryLifecycle(t *testing.T) {
	s, seed := seeded(t)
	eggs := productNamed(t, s, "Free-range Eggs")

	o, err := s.CreateOrder(seed.Buyer.ID, domain.CreateOrderInput{
		Items:           []domain.OrderItemInput{{ProductID: eggs.ID, Quantity: 5}},
		DeliveryAddress: "4 Market Street",
	})
	require.NoError(t, err)
	assert.Empty(t, s.Deliveries(seed.Courier.ID, ""))

	_, err = s.UpdateOrderStatus(seed.Seller.ID, o.UniqueID, domain.OrderStatusConfirmed)
	require.NoError(t, err)

	jobs := s.Deliveries(seed.Courier.ID, domain.DeliveryAvailable)
	require.Len(t, jobs, 1)
	job := jobs[0]
	assert.Equal(t, o.ID, job.OrderID)
	assert.Equal(t, "12 Orchard Lane", job.PickupAddress)
	assert.Equal(t, "4 Market Street", job.DropoffAddress)
	assert.True(t, dec("3").Equal(job.Fee), job.Fee.String())

	_, err = s.AdvanceDelivery(seed.Courier.ID, job.UniqueID, domain.DeliveryActionComplete)
	assert.Contains(t, apperrors.FieldErrors(err), "status")

	for _, action := range []string{domain.DeliveryActionAccept, domain.DeliveryActionPickUp} {
		_, err = s.AdvanceDelivery(seed.Courier.ID, job.UniqueID, action)
		require.NoError(t, err, action)
	}
	shipped, err := s.Order(seed.Buyer.ID, o.UniqueID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, shipped.Status)

	other := s.AddUser("Other Courier", "other@example.com", "pw", domain.RoleCourier)
	_, err = s.AdvanceDelivery(other.ID, job.UniqueID, domain.DeliveryActionComplete)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Empty(t, s.Deliveries(other.ID, ""))

	done, err := s.AdvanceDelivery(seed.Courier.ID, job.UniqueID, domain.DeliveryActionComplete)
	require.NoError(t, err)
	assert.Equal(t, domain.DeliveryCompleted, done.Status)

	delivered, err := s.Order(seed.Buyer.ID, o.UniqueID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDelivered, delivered.Status)

	courierSum := s.EarningsSummary(seed.Courier.ID)
	assert.True(t, dec("3").Equal(courierSum.Available), courierSum.Available.String())

	// Seeded 114 + 42.75 net, plus 30 - 1.50 for the order.
	sellerSum := s.EarningsSummary(seed.Seller.ID)
	assert.True(t, dec("142.50").Equal(sellerSum.Available), sellerSum.Available.String())
	assert.True(t, dec("42.75").Equal(sellerSum.Pending), sellerSum.Pending.String())
	assert.True(t, dec("185.25").Equal(sellerSum.TotalEarned), sellerSum.TotalEarned.String())
}

func TestStore_DeliveryFeeFloor(t *testing.T) {
	assert.True(t, dec("2").Equal(deliveryFee(dec("4.40"))))
	assert.True(t, dec("4.5").Equal(deliveryFee(dec("45"))))
}

func TestStore_HarvestFlow(t *testing.T) {
	s, seed := seeded(t)
	in := domain.HarvestRequestInput{
		SellerID:     seed.Seller.ID,
		ProductName:  "Pumpkins",
		Quantity:     dec("10"),
		Unit:         "kg",
		OfferedPrice: dec("2"),
		HarvestDate:  "2026-10-30",
	}

	_, err := s.CreateHarvestRequest(seed.Buyer.ID, domain.HarvestRequestInput{SellerID: seed.Courier.ID})
	assert.Contains(t, apperrors.FieldErrors(err), "seller_id")

	h, err := s.CreateHarvestRequest(seed.Buyer.ID, in)
	require.NoError(t, err)
	assert.Equal(t, domain.HarvestStatusPending, h.Status)
	assert.Len(t, s.HarvestRequests(seed.Seller.ID, domain.HarvestStatusPending), 1)

	_, err = s.AnswerHarvestRequest(seed.Seller.ID, h.UniqueID, HarvestActionSubmit, "")
	assert.Contains(t, apperrors.FieldErrors(err), "status")

	accepted, err := s.AnswerHarvestRequest(seed.Seller.ID, h.UniqueID, HarvestActionAccept, "")
	require.NoError(t, err)
	assert.Equal(t, domain.HarvestStatusAccepted, accepted.Status)

	in.Notes = "late"
	_, err = s.UpdateHarvestRequest(seed.Buyer.ID, h.UniqueID, in)
	assert.Contains(t, apperrors.FieldErrors(err), "status")
	assert.Contains(t, apperrors.FieldErrors(s.DeleteHarvestRequest(seed.Buyer.ID, h.UniqueID)), "status")

	before := s.EarningsSummary(seed.Seller.ID).Available
	submitted, err := s.AnswerHarvestRequest(seed.Seller.ID, h.UniqueID, HarvestActionSubmit, "")
	require.NoError(t, err)
	assert.Equal(t, domain.HarvestStatusSubmitted, submitted.Status)
	after := s.EarningsSummary(seed.Seller.ID).Available
	assert.True(t, dec("19").Equal(after.Sub(before)), after.Sub(before).String())
}

func TestStore_HarvestRejectAndWithdraw(t *testing.T) {
	s, seed := seeded(t)
	in := domain.HarvestRequestInput{
		SellerID: seed.Seller.ID, ProductName: "Plums", Quantity: dec("3"),
		Unit: "kg", OfferedPrice: dec("4"), HarvestDate: "2026-11-02",
	}

	first, err := s.CreateHarvestRequest(seed.Buyer.ID, in)
	require.NoError(t, err)
	rejected, err := s.AnswerHarvestRequest(seed.Seller.ID, first.UniqueID, HarvestActionReject, "Out of season")
	require.NoError(t, err)
	assert.Equal(t, "Out of season", rejected.RejectReason)

	second, err := s.CreateHarvestRequest(seed.Buyer.ID, in)
	require.NoError(t, err)
	_, err = s.AnswerHarvestRequest(seed.Buyer.ID, second.UniqueID, HarvestActionAccept, "")
	assert.True(t, apperrors.IsNotFound(err))
	_, err = s.AnswerHarvestRequest(seed.Seller.ID, second.UniqueID, "publish", "")
	assert.True(t, apperrors.IsNotFound(err))

	require.NoError(t, s.DeleteHarvestRequest(seed.Buyer.ID, second.UniqueID))
	_, err = s.HarvestRequest(seed.Buyer.ID, second.UniqueID)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = s.HarvestRequest(seed.Courier.ID, first.UniqueID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestStore_Payouts(t *testing.T) {
	s, seed := seeded(t)

	_, err := s.RequestPayout(seed.Seller.ID, domain.PayoutInput{Amount: dec("114.01"), Method: "bank_transfer"})
	assert.Contains(t, apperrors.FieldErrors(err), "amount")

	p, err := s.RequestPayout(seed.Seller.ID, domain.PayoutInput{Amount: dec("100"), Method: "bank_transfer"})
	require.NoError(t, err)
	assert.Equal(t, "pending", p.Status)

	sum := s.EarningsSummary(seed.Seller.ID)
	assert.True(t, dec("14").Equal(sum.Available), sum.Available.String())
	assert.True(t, dec("100").Equal(sum.TotalPaidOut))
	require.NotNil(t, sum.LastPayoutDate)
	assert.Equal(t, Currency, sum.Currency)

	assert.Len(t, s.Earnings(seed.Seller.ID), 2)
	assert.Empty(t, s.Earnings(seed.Buyer.ID))
}

func TestStore_ProfileAndPassword(t *testing.T) {
	s, seed := seeded(t)

	_, err := s.UpdateProfile(seed.Buyer.ID, domain.ProfileInput{Name: "Ada", Email: "seller@example.com"})
	assert.Contains(t, apperrors.FieldErrors(err), "email")

	p, err := s.UpdateProfile(seed.Buyer.ID, domain.ProfileInput{Name: "Ada L.", Email: "ada@example.com", Phone: "555-0100"})
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", p.Name)
	assert.Equal(t, "555-0100", p.Phone)

	err = s.ChangePassword(seed.Buyer.ID, domain.ChangePasswordInput{CurrentPassword: "wrong", Password: "new-password"})
	assert.Contains(t, apperrors.FieldErrors(err), "current_password")

	require.NoError(t, s.ChangePassword(seed.Buyer.ID, domain.ChangePasswordInput{CurrentPassword: SeedPassword, Password: "new-password"}))
	assert.True(t, s.checkPassword(seed.Buyer.ID, "new-password"))
	assert.False(t, s.checkPassword(seed.Buyer.ID, SeedPassword))
}

func TestStore_Verifications(t *testing.T) {
	s, seed := seeded(t)

	courierProfile, err := s.Profile(seed.Courier.ID)
	require.NoError(t, err)
	assert.True(t, courierProfile.IsVerified)

	v := s.SubmitVerification(seed.Seller.ID, domain.VerificationInput{DocumentType: "farm_certificate", DocumentURL: "https://files.example.com/cert.pdf"})
	assert.Equal(t, domain.VerificationPending, v.Status)

	got, err := s.Verification(seed.Seller.ID, v.UniqueID)
	require.NoError(t, err)
	assert.Equal(t, "farm_certificate", got.DocumentType)

	_, err = s.Verification(seed.Buyer.ID, v.UniqueID)
	assert.True(t, apperrors.IsNotFound(err))

	require.NoError(t, s.ReviewVerification(v.UniqueID, domain.VerificationRejected))
	sellerProfile, err := s.Profile(seed.Seller.ID)
	require.NoError(t, err)
	assert.False(t, sellerProfile.IsVerified)
}

func TestStore_WishlistOperations(t *testing.T) {
	s, seed := seeded(t)
	kale := productNamed(t, s, "Curly Kale")
	eggs := productNamed(t, s, "Free-range Eggs")

	added, err := s.AddFavorite(seed.Buyer.ID, kale.ID)
	require.NoError(t, err)
	assert.True(t, added)
	added, err = s.AddFavorite(seed.Buyer.ID, kale.ID)
	require.NoError(t, err)
	assert.False(t, added)

	_, err = s.AddFavorite(seed.Buyer.ID, 9999)
	assert.Contains(t, apperrors.FieldErrors(err), "product_id")

	on, err := s.ToggleFavorite(seed.Buyer.ID, eggs.ID)
	require.NoError(t, err)
	assert.True(t, on)

	items := s.Wishlist(seed.Buyer.ID)
	require.Len(t, items, 2)
	assert.Equal(t, eggs.ID, items[0].ProductID)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, "Free-range Eggs", items[0].Product.Name)

	on, err = s.ToggleFavorite(seed.Buyer.ID, eggs.ID)
	require.NoError(t, err)
	assert.False(t, on)
	assert.False(t, s.IsFavorite(seed.Buyer.ID, eggs.ID))
	assert.True(t, s.IsFavorite(seed.Buyer.ID, kale.ID))
	assert.False(t, s.IsFavorite(seed.Seller.ID, kale.ID))

	require.NoError(t, s.RemoveFavorite(seed.Buyer.ID, kale.ID))
	assert.True(t, apperrors.IsNotFound(s.RemoveFavorite(seed.Buyer.ID, kale.ID)))
	assert.Empty(t, s.Wishlist(seed.Buyer.ID))
}

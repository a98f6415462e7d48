package fakeapi

import (
	"github.com/shopspring/decimal"

	"github.com/localharvest/marketclient/internal/domain"
)

// SeedPassword is the password of every seeded account.
const SeedPassword = "password"

// Seeded holds the accounts Seed creates.
type Seeded struct {
	Buyer   domain.Profile
	Seller  domain.Profile
	Courier domain.Profile
}

// Seed fills the store with a small demo marketplace: one buyer, one seller
// with a catalog, one verified courier and some earnings history.
func Seed(s *Store) Seeded {
	out := Seeded{
		Buyer:   s.AddUser("Ada Buyer", "buyer@example.com", SeedPassword, domain.RoleBuyer),
		Seller:  s.AddUser("Green Acres Farm", "seller@example.com", SeedPassword, domain.RoleSeller),
		Courier: s.AddUser("Kofi Courier", "courier@example.com", SeedPassword, domain.RoleCourier),
	}
	_, _ = s.UpdateProfile(out.Seller.ID, domain.ProfileInput{
		Name: out.Seller.Name, Email: out.Seller.Email, Address: "12 Orchard Lane",
	})
	_, _ = s.UpdateProfile(out.Buyer.ID, domain.ProfileInput{
		Name: out.Buyer.Name, Email: out.Buyer.Email, Address: "4 Market Street",
	})

	veg := s.AddCategory("Fresh Vegetables", "Picked this week")
	fruit := s.AddCategory("Fruit", "Seasonal orchard fruit")
	dairy := s.AddCategory("Dairy & Eggs", "")
	s.AddCategory("Honey & Preserves", "")

	products := []domain.ProductInput{
		{Name: "Heirloom Tomatoes", Price: decimal.RequireFromString("4.50"), Unit: "kg", Stock: 40, CategoryID: veg.ID, IsActive: true},
		{Name: "Curly Kale", Price: decimal.RequireFromString("2.20"), Unit: "bunch", Stock: 25, CategoryID: veg.ID, IsActive: true},
		{Name: "Rainbow Carrots", Price: decimal.RequireFromString("3.10"), Unit: "kg", Stock: 3, CategoryID: veg.ID, IsActive: true},
		{Name: "Honeycrisp Apples", Price: decimal.RequireFromString("5.00"), Unit: "kg", Stock: 60, CategoryID: fruit.ID, IsActive: true},
		{Name: "Wild Strawberries", Price: decimal.RequireFromString("7.25"), Unit: "punnet", Stock: 0, CategoryID: fruit.ID, IsActive: true},
		{Name: "Free-range Eggs", Price: decimal.RequireFromString("6.00"), Unit: "dozen", Stock: 30, CategoryID: dairy.ID, IsActive: true},
		{Name: "Raw Milk", Price: decimal.RequireFromString("3.40"), Unit: "litre", Stock: 12, CategoryID: dairy.ID, IsActive: false},
	}
	for _, in := range products {
		_, _ = s.CreateProduct(out.Seller.ID, in)
	}

	s.Credit(out.Seller.ID, decimal.RequireFromString("120.00"), decimal.RequireFromString("6.00"), EarningAvailable, "Opening balance")
	s.Credit(out.Seller.ID, decimal.RequireFromString("45.00"), decimal.RequireFromString("2.25"), EarningPending, "Weekend market")

	v := s.SubmitVerification(out.Courier.ID, domain.VerificationInput{
		DocumentType: "drivers_license",
		DocumentURL:  "https://files.example.com/licenses/kofi.pdf",
	})
	_ = s.ReviewVerification(v.UniqueID, domain.VerificationApproved)

	return out
}

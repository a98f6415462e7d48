package resource

import (
	"context"
	"net/url"
	"strconv"

	"github.com/localharvest/marketclient/internal/domain"
)

// Categories reads the product category tree.
type Categories struct {
	b *Base
}

// List returns every category.
func (s *Categories) List(ctx context.Context) []domain.Category {
	return readList[domain.Category](ctx, s.b, "categories.list", "/categories", nil,
		"Failed to load categories", "categories")
}

// Get returns the category with the given slug, or nil.
func (s *Categories) Get(ctx context.Context, slug string) *domain.Category {
	return readOne[domain.Category](ctx, s.b, "categories.get", "/categories/"+escape(slug),
		"Failed to load category")
}

// Products covers the public catalog and the seller's own listings.
type Products struct {
	b *Base
}

func productQuery(f domain.ProductFilter) url.Values {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

// List returns the public catalog, optionally filtered.
func (s *Products) List(ctx context.Context, filter domain.ProductFilter) []domain.Product {
	return readList[domain.Product](ctx, s.b, "products.list", "/products", productQuery(filter),
		"Failed to load products", "products")
}

// Get returns one product by its unique id, or nil.
func (s *Products) Get(ctx context.Context, uniqueID string) *domain.Product {
	return readOne[domain.Product](ctx, s.b, "products.get", "/products/"+escape(uniqueID),
		"Failed to load product")
}

// ListMine returns the signed-in seller's products.
func (s *Products) ListMine(ctx context.Context, page, limit int) []domain.Product {
	return readList[domain.Product](ctx, s.b, "products.list_mine", "/seller/products",
		productQuery(domain.ProductFilter{Page: page, Limit: limit}),
		"Failed to load your products", "products")
}

// Create lists a new product.
func (s *Products) Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	return write[domain.Product](ctx, s.b, mutation{
		op:       "products.create",
		send:     post(s.b, "/seller/products", in),
		payload:  in,
		success:  "Product created successfully",
		fallback: "Failed to create product",
	})
}

// Update replaces a product's editable fields.
func (s *Products) Update(ctx context.Context, uniqueID string, in domain.ProductInput) (*domain.Product, error) {
	return write[domain.Product](ctx, s.b, mutation{
		op:       "products.update",
		send:     put(s.b, "/seller/products/"+escape(uniqueID), in),
		payload:  in,
		success:  "Product updated successfully",
		fallback: "Failed to update product",
	})
}

// Delete removes a product listing.
func (s *Products) Delete(ctx context.Context, uniqueID string) error {
	return exec(ctx, s.b, mutation{
		op:       "products.delete",
		send:     del(s.b, "/seller/products/"+escape(uniqueID)),
		success:  "Product deleted successfully",
		fallback: "Failed to delete product",
	})
}

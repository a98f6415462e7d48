package fakeapi

import (
	"net/http"

	"github.com/localharvest/marketclient/internal/domain"
	"github.com/localharvest/marketclient/pkg/httputil"
)

type categoryList struct {
	Categories []domain.Category `json:"categories"`
}

// ListCategories handles GET /categories. It answers with the legacy named
// collection shape rather than an envelope.
func (h *Handler) ListCategories(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, categoryList{Categories: h.store.Categories()})
}

// GetCategory handles GET /categories/{slug}.
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.Category(param(r, "slug"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, "", c)
}

// ListProducts handles GET /products?category=&search=&page=&limit=.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writePage(w, r, h.store.Products(ProductQuery{
		Category: q.Get("category"),
		Search:   q.Get("search"),
	}))
}

// GetProduct handles GET /products/{id}.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.Product(param(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, "", p)
}

// ListSellerProducts handles GET /seller/products.
func (h *Handler) ListSellerProducts(w http.ResponseWriter, r *http.Request) {
	writePage(w, r, h.store.Products(ProductQuery{SellerID: userID(r)}))
}

// CreateProduct handles POST /seller/products.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in domain.ProductInput
	if !h.decode(w, r, &in) {
		return
	}
	p, err := h.store.CreateProduct(userID(r), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusCreated, "Product created successfully", p)
}

// UpdateProduct handles PUT /seller/products/{id}.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var in domain.ProductInput
	if !h.decode(w, r, &in) {
		return
	}
	p, err := h.store.UpdateProduct(userID(r), param(r, "id"), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, "Product updated successfully", p)
}

// DeleteProduct handles DELETE /seller/products/{id}.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteProduct(userID(r), param(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Product deleted successfully")
}

package catalog

import (
	"github.com/example/cityshades/domain/product"
)

// ListProductsRequest represents a catalog query.
type ListProductsRequest struct {
	Category   string `json:"category,omitempty"`
	Gender     string `json:"gender,omitempty"`
	Bestseller bool   `json:"bestseller,omitempty"`
	New        bool   `json:"new,omitempty"`
	Search     string `json:"search,omitempty"`
	Sort       string `json:"sort,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
}

// ListProductsResponse carries one page of products and the unsliced match count.
type ListProductsResponse struct {
	Products []product.Product `json:"products"`
	Total    int               `json:"total"`
}

// GetProductRequest represents a lookup by id.
type GetProductRequest struct {
	ID int64 `json:"id"`
}

// ProductResponse wraps a single product.
type ProductResponse struct {
	Product product.Product `json:"product"`
}

// ListCategoriesRequest is empty; categories are always computed over the whole catalog.
type ListCategoriesRequest struct{}

// ListCategoriesResponse lists distinct categories.
type ListCategoriesResponse struct {
	Categories []Category `json:"categories"`
}

// FeaturedRequest asks for bestsellers or new arrivals. Limit is capped at
// the configured featured limit; zero means the cap.
type FeaturedRequest struct {
	Limit int `json:"limit,omitempty"`
}

// CreateProductRequest carries a raw admin submission.
type CreateProductRequest struct {
	Input ProductInput `json:"input"`
}

// UpdateProductRequest carries a partial admin submission for one product.
type UpdateProductRequest struct {
	ID    int64        `json:"id"`
	Input ProductInput `json:"input"`
}

// DeleteProductRequest identifies the product to delete.
type DeleteProductRequest struct {
	ID int64 `json:"id"`
}

// DeleteProductResponse confirms a deletion.
type DeleteProductResponse struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
}

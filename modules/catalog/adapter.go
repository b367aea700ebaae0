package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/example/cityshades/domain/product"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// CatalogPort defines the catalog operations other modules use.
type CatalogPort interface {
	ListProducts(ctx context.Context, req ListProductsRequest) ([]product.Product, int, error)
	GetProduct(ctx context.Context, id int64) (product.Product, error)
	ListCategories(ctx context.Context) ([]Category, error)
	Bestsellers(ctx context.Context, limit int) ([]product.Product, error)
	NewArrivals(ctx context.Context, limit int) ([]product.Product, error)
	CreateProduct(ctx context.Context, in ProductInput) (product.Product, error)
	UpdateProduct(ctx context.Context, id int64, in ProductInput) (product.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// CatalogAdapter implements CatalogPort using the service container.
type CatalogAdapter struct {
	container mono.ServiceContainer
}

var _ CatalogPort = (*CatalogAdapter)(nil)

// NewCatalogAdapter creates a new CatalogAdapter.
func NewCatalogAdapter(container mono.ServiceContainer) *CatalogAdapter {
	return &CatalogAdapter{container: container}
}

func (a *CatalogAdapter) ListProducts(ctx context.Context, req ListProductsRequest) ([]product.Product, int, error) {
	var resp ListProductsResponse
	if err := call(ctx, a.container, "list-products", &req, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Products, resp.Total, nil
}

func (a *CatalogAdapter) GetProduct(ctx context.Context, id int64) (product.Product, error) {
	req := GetProductRequest{ID: id}
	var resp ProductResponse
	if err := call(ctx, a.container, "get-product", &req, &resp); err != nil {
		return product.Product{}, err
	}
	return resp.Product, nil
}

func (a *CatalogAdapter) ListCategories(ctx context.Context) ([]Category, error) {
	req := ListCategoriesRequest{}
	var resp ListCategoriesResponse
	if err := call(ctx, a.container, "list-categories", &req, &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

func (a *CatalogAdapter) Bestsellers(ctx context.Context, limit int) ([]product.Product, error) {
	req := FeaturedRequest{Limit: limit}
	var resp ListProductsResponse
	if err := call(ctx, a.container, "bestsellers", &req, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

func (a *CatalogAdapter) NewArrivals(ctx context.Context, limit int) ([]product.Product, error) {
	req := FeaturedRequest{Limit: limit}
	var resp ListProductsResponse
	if err := call(ctx, a.container, "new-arrivals", &req, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

func (a *CatalogAdapter) CreateProduct(ctx context.Context, in ProductInput) (product.Product, error) {
	req := CreateProductRequest{Input: in}
	var resp ProductResponse
	if err := call(ctx, a.container, "create-product", &req, &resp); err != nil {
		return product.Product{}, err
	}
	return resp.Product, nil
}

func (a *CatalogAdapter) UpdateProduct(ctx context.Context, id int64, in ProductInput) (product.Product, error) {
	req := UpdateProductRequest{ID: id, Input: in}
	var resp ProductResponse
	if err := call(ctx, a.container, "update-product", &req, &resp); err != nil {
		return product.Product{}, err
	}
	return resp.Product, nil
}

func (a *CatalogAdapter) DeleteProduct(ctx context.Context, id int64) error {
	req := DeleteProductRequest{ID: id}
	var resp DeleteProductResponse
	return call(ctx, a.container, "delete-product", &req, &resp)
}

func call[Req, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req *Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return translateError(service, err)
	}
	return nil
}

var knownErrors = []error{
	ErrProductNotFound,
	ErrInvalidProductID,
	ErrInvalidGender,
	ErrInvalidPrice,
	ErrInvalidStock,
}

// translateError recovers a sentinel error from its message, which is all
// that survives the request-reply boundary.
func translateError(service string, err error) error {
	for _, known := range knownErrors {
		if strings.Contains(err.Error(), known.Error()) {
			return known
		}
	}
	return fmt.Errorf("%s request failed: %w", service, err)
}

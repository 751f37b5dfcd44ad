package api

import (
	"context"
	"net/http"

	"github.com/luxurygifts/storefront/internal/product"
)

type ProductsClient struct{ c *Client }

func NewProductsClient(c *Client) *ProductsClient { return &ProductsClient{c: c} }

func (pc *ProductsClient) List(ctx context.Context) ([]product.Product, error) {
	var products []product.Product
	if err := pc.c.do(ctx, http.MethodGet, "/products", nil, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (pc *ProductsClient) Get(ctx context.Context, productID string) (*product.Product, error) {
	var p product.Product
	if err := pc.c.do(ctx, http.MethodGet, "/products/"+productID, nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (pc *ProductsClient) Create(ctx context.Context, p product.Product) (*product.Product, error) {
	var created product.Product
	if err := pc.c.do(ctx, http.MethodPost, "/products", nil, p, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (pc *ProductsClient) Update(ctx context.Context, p product.Product) (*product.Product, error) {
	var updated product.Product
	if err := pc.c.do(ctx, http.MethodPut, "/products/"+p.ID, nil, p, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (pc *ProductsClient) Delete(ctx context.Context, productID string) error {
	return pc.c.do(ctx, http.MethodDelete, "/products/"+productID, nil, nil, nil)
}

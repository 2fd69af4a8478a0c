// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/taibuivan/bahari/internal/market"
)

// # Catalogue Endpoints

// Products lists the catalogue, optionally filtered by category.
//
// GET /products?category=
func (c *Client) Products(ctx context.Context, category string) ([]market.Product, error) {
	path := "/products"
	if category != "" {
		path += "?" + url.Values{"category": {category}}.Encode()
	}

	var products []market.Product
	if err := c.do(ctx, http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Product returns one listing.
//
// GET /products/{id}
func (c *Client) Product(ctx context.Context, productID string) (*market.Product, error) {
	var product market.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(productID), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

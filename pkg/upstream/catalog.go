package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ProductQuery holds the filters accepted by the product listing.
type ProductQuery struct {
	Brand    string
	Category string
	Keyword  string
	Sort     string
	Page     int
	Limit    int
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if s := strings.TrimSpace(q.Brand); s != "" {
		v.Set("brand", s)
	}
	if s := strings.TrimSpace(q.Category); s != "" {
		v.Set("category", s)
	}
	if s := strings.TrimSpace(q.Keyword); s != "" {
		v.Set("keyword", s)
	}
	if s := strings.TrimSpace(q.Sort); s != "" {
		v.Set("sort", s)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

func pageValues(page, limit int) url.Values {
	return ProductQuery{Page: page, Limit: limit}.values()
}

func (c *Client) ListProducts(ctx context.Context, q ProductQuery) (*ListResponse[Product], error) {
	var out ListResponse[Product]
	err := c.do(ctx, request{op: "products.list", method: http.MethodGet, path: "products", query: q.values()}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var out itemResponse[*Product]
	err := c.do(ctx, request{op: "products.get", method: http.MethodGet, path: "products/" + url.PathEscape(id)}, &out)
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

// CreateProduct is restricted upstream to admin tokens.
func (c *Client) CreateProduct(ctx context.Context, token string, req CreateProductRequest) (*Product, error) {
	var out itemResponse[*Product]
	err := c.do(ctx, request{op: "products.create", method: http.MethodPost, path: "products", token: token, body: req}, &out)
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) ListBrands(ctx context.Context, page, limit int) (*ListResponse[Brand], error) {
	var out ListResponse[Brand]
	err := c.do(ctx, request{op: "brands.list", method: http.MethodGet, path: "brands", query: pageValues(page, limit)}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetBrand(ctx context.Context, id string) (*Brand, error) {
	var out itemResponse[*Brand]
	err := c.do(ctx, request{op: "brands.get", method: http.MethodGet, path: "brands/" + url.PathEscape(id)}, &out)
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) ListCategories(ctx context.Context, page, limit int) (*ListResponse[Category], error) {
	var out ListResponse[Category]
	err := c.do(ctx, request{op: "categories.list", method: http.MethodGet, path: "categories", query: pageValues(page, limit)}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCategory(ctx context.Context, id string) (*Category, error) {
	var out itemResponse[*Category]
	err := c.do(ctx, request{op: "categories.get", method: http.MethodGet, path: "categories/" + url.PathEscape(id)}, &out)
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) ListProductReviews(ctx context.Context, productID string) ([]Review, error) {
	var out ListResponse[Review]
	err := c.do(ctx, request{op: "reviews.list", method: http.MethodGet, path: "products/" + url.PathEscape(productID) + "/reviews"}, &out)
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) CreateReview(ctx context.Context, token, productID string, req ReviewRequest) (*Review, error) {
	var out itemResponse[*Review]
	err := c.do(ctx, request{
		op:     "reviews.create",
		method: http.MethodPost,
		path:   "products/" + url.PathEscape(productID) + "/reviews",
		token:  token,
		body:   req,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

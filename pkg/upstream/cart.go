package upstream

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) GetCart(ctx context.Context, token string) (*CartResponse, error) {
	var out CartResponse
	if err := c.do(ctx, request{op: "cart.get", method: http.MethodGet, path: "cart", token: token}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddToCart increments the product's line by one on the server.
func (c *Client) AddToCart(ctx context.Context, token, productID string) (*CartResponse, error) {
	var out CartResponse
	err := c.do(ctx, request{
		op:     "cart.add",
		method: http.MethodPost,
		path:   "cart",
		token:  token,
		body:   map[string]string{"productId": productID},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveCartItem(ctx context.Context, token, productID string) (*CartResponse, error) {
	var out CartResponse
	err := c.do(ctx, request{op: "cart.remove", method: http.MethodDelete, path: "cart/" + url.PathEscape(productID), token: token}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ClearCart(ctx context.Context, token string) (*StatusResponse, error) {
	var out StatusResponse
	if err := c.do(ctx, request{op: "cart.clear", method: http.MethodDelete, path: "cart", token: token}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCartItem sets the absolute count for a product line.
func (c *Client) UpdateCartItem(ctx context.Context, token, productID string, count int) (*CartResponse, error) {
	var out CartResponse
	err := c.do(ctx, request{
		op:     "cart.update",
		method: http.MethodPut,
		path:   "cart/" + url.PathEscape(productID),
		token:  token,
		body:   map[string]int{"count": count},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

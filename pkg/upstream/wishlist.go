package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// GetWishlist returns the raw body so callers can reconcile its many entry shapes.
func (c *Client) GetWishlist(ctx context.Context, token string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, request{op: "wishlist.get", method: http.MethodGet, path: "wishlist", token: token}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddToWishlist(ctx context.Context, token, productID string) (*StatusResponse, error) {
	var out StatusResponse
	err := c.do(ctx, request{
		op:     "wishlist.add",
		method: http.MethodPost,
		path:   "wishlist",
		token:  token,
		body:   map[string]string{"productId": productID},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveFromWishlist(ctx context.Context, token, productID string) (*StatusResponse, error) {
	var out StatusResponse
	err := c.do(ctx, request{op: "wishlist.remove", method: http.MethodDelete, path: "wishlist/" + url.PathEscape(productID), token: token}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

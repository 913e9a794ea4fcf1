package upstream

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) CreateOrder(ctx context.Context, token string, req CreateOrderRequest) (*Order, error) {
	var out itemResponse[*Order]
	if err := c.do(ctx, request{op: "orders.create", method: http.MethodPost, path: "orders", token: token, body: req}, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) ListOrders(ctx context.Context, token string) ([]Order, error) {
	var out ListResponse[Order]
	if err := c.do(ctx, request{op: "orders.list", method: http.MethodGet, path: "orders", token: token}, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) GetOrder(ctx context.Context, token, orderID string) (*Order, error) {
	var out itemResponse[*Order]
	err := c.do(ctx, request{op: "orders.get", method: http.MethodGet, path: "orders/" + url.PathEscape(orderID), token: token}, &out)
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

// CheckoutSession asks the remote API for a hosted payment page for cartID.
// returnURL is where the gateway sends the shopper afterwards.
func (c *Client) CheckoutSession(ctx context.Context, token, cartID, returnURL string, addr ShippingAddress) (*CheckoutResponse, error) {
	q := url.Values{}
	if returnURL != "" {
		q.Set("url", returnURL)
	}
	var out CheckoutResponse
	err := c.do(ctx, request{
		op:     "orders.checkout",
		method: http.MethodPost,
		path:   "orders/checkout-session/" + url.PathEscape(cartID),
		query:  q,
		token:  token,
		body:   map[string]ShippingAddress{"shippingAddress": addr},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

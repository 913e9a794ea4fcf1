package upstream

import (
	"context"
	"net/http"
)

func (c *Client) GetMe(ctx context.Context, token string) (*User, error) {
	var out itemResponse[*User]
	if err := c.do(ctx, request{op: "users.me", method: http.MethodGet, path: "users/me", token: token}, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) UpdateMe(ctx context.Context, token string, req UpdateMeRequest) (*User, error) {
	var out struct {
		Data *User `json:"data"`
		User *User `json:"user"`
	}
	if err := c.do(ctx, request{op: "users.update_me", method: http.MethodPut, path: "users/updateMe", token: token, body: req}, &out); err != nil {
		return nil, err
	}
	if out.User != nil {
		return out.User, nil
	}
	return out.Data, nil
}

// ChangeMyPassword returns the replacement bearer token issued by the remote API.
func (c *Client) ChangeMyPassword(ctx context.Context, token string, req ChangePasswordRequest) (*AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, request{op: "users.change_password", method: http.MethodPut, path: "users/changeMyPassword", token: token, body: req}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteMe(ctx context.Context, token string) error {
	return c.do(ctx, request{op: "users.delete_me", method: http.MethodDelete, path: "users/deleteMe", token: token}, nil)
}

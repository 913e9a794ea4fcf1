package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// Signin returns the raw body; callers decide which success shape it matches.
func (c *Client) Signin(ctx context.Context, req SigninRequest) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, request{op: "auth.signin", method: http.MethodPost, path: "auth/signin", body: req}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, request{op: "auth.signup", method: http.MethodPost, path: "auth/signup", body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ForgotPassword(ctx context.Context, email string) (*StatusResponse, error) {
	var out StatusResponse
	err := c.do(ctx, request{
		op:     "auth.forgot_password",
		method: http.MethodPost,
		path:   "auth/forgotPasswords",
		body:   map[string]string{"email": email},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VerifyResetCode(ctx context.Context, resetCode string) (*StatusResponse, error) {
	var out StatusResponse
	err := c.do(ctx, request{
		op:     "auth.verify_reset_code",
		method: http.MethodPost,
		path:   "auth/verifyResetCode",
		body:   map[string]string{"resetCode": resetCode},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPassword completes a reset using the token delivered out of band.
func (c *Client) ResetPassword(ctx context.Context, resetToken, password, passwordConfirm string) (*AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, request{
		op:     "auth.reset_password",
		method: http.MethodPatch,
		path:   "auth/resetPassword/" + url.PathEscape(resetToken),
		body:   map[string]string{"password": password, "passwordConfirm": passwordConfirm},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPasswordWithEmail is the verify-code variant keyed by email.
func (c *Client) ResetPasswordWithEmail(ctx context.Context, email, newPassword string) (*AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, request{
		op:     "auth.reset_password_email",
		method: http.MethodPut,
		path:   "auth/resetPassword",
		body:   map[string]string{"email": email, "newPassword": newPassword},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

package auth

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/angelmondragon/storefront-bff/internal/formrules"
	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/upstream"
)

// Register validates the signup form locally, creates the remote account and
// signs the new user in.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error) {
	if err := validateRegister(req); err != nil {
		return nil, err
	}

	payload := upstream.SignupRequest{
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.TrimSpace(req.Email),
		Password:   req.Password,
		RePassword: req.PasswordConfirm,
		Phone:      formrules.NormalizePhone(req.Phone),
	}
	resp, err := s.upstream.Signup(ctx, payload)
	if err != nil {
		return nil, err
	}

	if id, ok := identityFromAuthResponse(resp); ok {
		out, err := s.startSession(ctx, id)
		if err != nil {
			return nil, err
		}
		s.recordAttempt(ctx, payload.Email, AttemptAuthenticated)
		return out, nil
	}
	return s.Login(ctx, LoginRequest{Email: payload.Email, Password: req.Password})
}

func validateRegister(req RegisterRequest) error {
	details := map[string]string{}
	if strings.TrimSpace(req.Name) == "" {
		details["name"] = "Name is required"
	}
	email := strings.TrimSpace(req.Email)
	switch {
	case email == "":
		details["email"] = "Email is required"
	case !formrules.ValidEmail(email):
		details["email"] = "Enter a valid email"
	}
	if msg := formrules.PasswordProblem(req.Password, req.PasswordConfirm); msg != "" {
		if msg == formrules.PasswordMismatchMessage {
			details["passwordConfirm"] = msg
		} else {
			details["password"] = msg
		}
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return nil
}

// identityFromAuthResponse reuses the signin parser so signup accepts the
// same two success shapes.
func identityFromAuthResponse(resp *upstream.AuthResponse) (identity, bool) {
	if resp == nil {
		return identity{}, false
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return identity{}, false
	}
	return parseSignin(raw)
}

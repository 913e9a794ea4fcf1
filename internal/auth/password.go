package auth

import (
	"context"
	"strings"

	"github.com/angelmondragon/storefront-bff/internal/formrules"
	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/upstream"
)

func (s *service) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (*MessageResponse, error) {
	email := strings.TrimSpace(req.Email)
	if !formrules.ValidEmail(email) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Enter a valid email")
	}
	resp, err := s.upstream.ForgotPassword(ctx, email)
	if err != nil {
		return nil, err
	}
	return fromStatus(resp), nil
}

func (s *service) VerifyResetCode(ctx context.Context, req VerifyResetCodeRequest) (*MessageResponse, error) {
	code := strings.TrimSpace(req.ResetCode)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reset code is required")
	}
	resp, err := s.upstream.VerifyResetCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return fromStatus(resp), nil
}

// ResetPassword completes a reset with the token from the reset link.
func (s *service) ResetPassword(ctx context.Context, resetToken string, req ResetPasswordRequest) (*MessageResponse, error) {
	resetToken = strings.TrimSpace(resetToken)
	if resetToken == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reset token is required")
	}
	if msg := formrules.PasswordProblem(req.Password, req.PasswordConfirm); msg != "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msg)
	}
	resp, err := s.upstream.ResetPassword(ctx, resetToken, req.Password, req.PasswordConfirm)
	if err != nil {
		return nil, err
	}
	return fromAuth(resp), nil
}

func (s *service) ResetPasswordWithEmail(ctx context.Context, req ResetPasswordWithEmailRequest) (*MessageResponse, error) {
	email := strings.TrimSpace(req.Email)
	if !formrules.ValidEmail(email) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Enter a valid email")
	}
	if formrules.PasswordTooShort(req.NewPassword) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, formrules.PasswordTooShortMessage)
	}
	resp, err := s.upstream.ResetPasswordWithEmail(ctx, email, req.NewPassword)
	if err != nil {
		return nil, err
	}
	return fromAuth(resp), nil
}

func fromStatus(resp *upstream.StatusResponse) *MessageResponse {
	if resp == nil {
		return &MessageResponse{}
	}
	return &MessageResponse{Status: resp.Status, Message: resp.Message}
}

func fromAuth(resp *upstream.AuthResponse) *MessageResponse {
	if resp == nil {
		return &MessageResponse{}
	}
	return &MessageResponse{Status: resp.Status, Message: resp.Message}
}

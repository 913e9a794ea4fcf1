package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-bff/internal/formrules"
	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
	"github.com/angelmondragon/storefront-bff/pkg/upstream"
)

type upstreamClient interface {
	GetMe(ctx context.Context, token string) (*upstream.User, error)
	UpdateMe(ctx context.Context, token string, req upstream.UpdateMeRequest) (*upstream.User, error)
	ChangeMyPassword(ctx context.Context, token string, req upstream.ChangePasswordRequest) (*upstream.AuthResponse, error)
	DeleteMe(ctx context.Context, token string) error
}

type sessionStore interface {
	UpdateAccessToken(ctx context.Context, sessionID, accessToken string) error
	Revoke(ctx context.Context, sessionID string) error
}

// Service exposes the signed-in user's account operations.
type Service interface {
	Me(ctx context.Context, caller Caller) (*Profile, error)
	Update(ctx context.Context, caller Caller, req UpdateRequest) (*Profile, error)
	ChangePassword(ctx context.Context, caller Caller, req ChangePasswordRequest) error
	Delete(ctx context.Context, caller Caller) error
}

// ServiceParams groups dependencies for the account service.
type ServiceParams struct {
	Upstream upstreamClient
	Sessions sessionStore
	Logger   *logger.Logger
}

type service struct {
	upstream upstreamClient
	sessions sessionStore
	logg     *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Upstream == nil {
		return nil, fmt.Errorf("upstream client is required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}
	return &service{upstream: params.Upstream, sessions: params.Sessions, logg: params.Logger}, nil
}

func (s *service) Me(ctx context.Context, caller Caller) (*Profile, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	user, err := s.upstream.GetMe(ctx, caller.Token)
	if err != nil {
		return nil, err
	}
	return profileFrom(user), nil
}

func (s *service) Update(ctx context.Context, caller Caller, req UpdateRequest) (*Profile, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	payload := upstream.UpdateMeRequest{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(req.Email),
		Phone: strings.TrimSpace(req.Phone),
	}
	details := map[string]string{}
	if payload.Name == "" && payload.Email == "" && payload.Phone == "" {
		details["name"] = "at least one field is required"
	}
	if payload.Email != "" && !formrules.ValidEmail(payload.Email) {
		details["email"] = "Enter a valid email"
	}
	if payload.Phone != "" && !formrules.EgyptMobile(payload.Phone) {
		details["phone"] = "Enter a valid Egyptian mobile number"
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}

	user, err := s.upstream.UpdateMe(ctx, caller.Token, payload)
	if err != nil {
		return nil, err
	}
	return profileFrom(user), nil
}

// ChangePassword rotates the password. The remote API answers with a new
// bearer token, which replaces the one held by the session.
func (s *service) ChangePassword(ctx context.Context, caller Caller, req ChangePasswordRequest) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	details := map[string]string{}
	if req.CurrentPassword == "" {
		details["currentPassword"] = "is required"
	}
	switch formrules.PasswordProblem(req.Password, req.PasswordConfirm) {
	case formrules.PasswordTooShortMessage:
		details["password"] = formrules.PasswordTooShortMessage
	case formrules.PasswordMismatchMessage:
		details["passwordConfirm"] = formrules.PasswordMismatchMessage
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}

	resp, err := s.upstream.ChangeMyPassword(ctx, caller.Token, upstream.ChangePasswordRequest{
		CurrentPassword: req.CurrentPassword,
		Password:        req.Password,
		RePassword:      req.PasswordConfirm,
	})
	if err != nil {
		return err
	}
	if resp == nil || strings.TrimSpace(resp.Token) == "" {
		return nil
	}
	if err := s.sessions.UpdateAccessToken(ctx, caller.SessionID, resp.Token); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update session token")
	}
	return nil
}

// Delete removes the remote account and ends the session.
func (s *service) Delete(ctx context.Context, caller Caller) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	if err := s.upstream.DeleteMe(ctx, caller.Token); err != nil {
		return err
	}
	if err := s.sessions.Revoke(ctx, caller.SessionID); err != nil && s.logg != nil {
		s.logg.Error(s.logg.WithSessionID(ctx, caller.SessionID), "account.revoke_after_delete", err)
	}
	return nil
}

func requireCaller(caller Caller) error {
	if strings.TrimSpace(caller.SessionID) == "" || strings.TrimSpace(caller.Token) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "session required")
	}
	return nil
}

func profileFrom(user *upstream.User) *Profile {
	if user == nil {
		return &Profile{}
	}
	return &Profile{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Phone: user.Phone,
		Role:  user.Role,
	}
}

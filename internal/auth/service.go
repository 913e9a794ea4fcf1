package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	pkgAuth "github.com/angelmondragon/storefront-bff/pkg/auth"
	"github.com/angelmondragon/storefront-bff/pkg/auth/session"
	"github.com/angelmondragon/storefront-bff/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
	"github.com/angelmondragon/storefront-bff/pkg/upstream"
	"github.com/golang-jwt/jwt/v5"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	defaultRole               = "user"
)

// AttemptState tracks a single login attempt.
type AttemptState string

const (
	AttemptIdle          AttemptState = "idle"
	AttemptSubmitting    AttemptState = "submitting"
	AttemptAuthenticated AttemptState = "authenticated"
	AttemptRejected      AttemptState = "rejected"
)

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error)
	Logout(ctx context.Context, sessionID string) error
	ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (*MessageResponse, error)
	VerifyResetCode(ctx context.Context, req VerifyResetCodeRequest) (*MessageResponse, error)
	ResetPassword(ctx context.Context, resetToken string, req ResetPasswordRequest) (*MessageResponse, error)
	ResetPasswordWithEmail(ctx context.Context, req ResetPasswordWithEmailRequest) (*MessageResponse, error)
}

type upstreamClient interface {
	Signin(ctx context.Context, req upstream.SigninRequest) (json.RawMessage, error)
	Signup(ctx context.Context, req upstream.SignupRequest) (*upstream.AuthResponse, error)
	ForgotPassword(ctx context.Context, email string) (*upstream.StatusResponse, error)
	VerifyResetCode(ctx context.Context, resetCode string) (*upstream.StatusResponse, error)
	ResetPassword(ctx context.Context, resetToken, password, passwordConfirm string) (*upstream.AuthResponse, error)
	ResetPasswordWithEmail(ctx context.Context, email, newPassword string) (*upstream.AuthResponse, error)
}

type sessionManager interface {
	Create(ctx context.Context, rec session.Record) (string, error)
	Revoke(ctx context.Context, sessionID string) error
}

type loginRecorder interface {
	IncLogin(outcome string)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Upstream       upstreamClient
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
	Logger         *logger.Logger
	Metrics        loginRecorder
	Now            func() time.Time
}

type service struct {
	upstream upstreamClient
	session  sessionManager
	jwtCfg   config.JWTConfig
	logg     *logger.Logger
	metrics  loginRecorder
	now      func() time.Time
}

// NewService constructs the credential bridge with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Upstream == nil {
		return nil, fmt.Errorf("upstream client is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		upstream: params.Upstream,
		session:  params.SessionManager,
		jwtCfg:   params.JWTConfig,
		logg:     params.Logger,
		metrics:  params.Metrics,
		now:      now,
	}, nil
}

// Login forwards credentials to the remote signin endpoint. Any failure,
// whether a rejected password, an unrecognized body or an unreachable
// backend, is reported as invalid credentials.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := strings.TrimSpace(req.Email)
	s.recordAttempt(ctx, email, AttemptSubmitting)

	raw, err := s.upstream.Signin(ctx, upstream.SigninRequest{Email: email, Password: req.Password})
	if err != nil {
		s.recordAttempt(ctx, email, AttemptRejected)
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, invalidCredentialsMessage)
	}
	identity, ok := parseSignin(raw)
	if !ok {
		s.recordAttempt(ctx, email, AttemptRejected)
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	resp, err := s.startSession(ctx, identity)
	if err != nil {
		s.recordAttempt(ctx, email, AttemptRejected)
		return nil, err
	}
	s.recordAttempt(ctx, email, AttemptAuthenticated)
	return resp, nil
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "session required")
	}
	if err := s.session.Revoke(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) startSession(ctx context.Context, id identity) (*LoginResponse, error) {
	now := s.now()
	sessionID, err := s.session.Create(ctx, session.Record{
		UserID:      id.UserID,
		Name:        id.Name,
		Email:       id.Email,
		Role:        id.Role,
		AccessToken: id.Token,
		CreatedAt:   now.UTC(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist session")
	}

	token, err := pkgAuth.MintSessionToken(s.jwtCfg, now, pkgAuth.SessionTokenPayload{
		SessionID: sessionID,
		UserID:    id.UserID,
		Name:      id.Name,
		Email:     id.Email,
		Role:      id.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &LoginResponse{
		AccessToken: token,
		ExpiresAt:   now.Add(s.jwtCfg.SessionTTL()).UTC(),
		User: SessionUser{
			ID:    id.UserID,
			Name:  id.Name,
			Email: id.Email,
			Role:  id.Role,
		},
	}, nil
}

func (s *service) recordAttempt(ctx context.Context, email string, state AttemptState) {
	if s.metrics != nil && state != AttemptSubmitting {
		s.metrics.IncLogin(string(state))
	}
	if s.logg == nil {
		return
	}
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"login_state": string(state),
		"email":       email,
	})
	if state == AttemptRejected {
		s.logg.Warn(logCtx, "auth.login")
		return
	}
	s.logg.Info(logCtx, "auth.login")
}

// identity is what a successful signin resolves to.
type identity struct {
	UserID string
	Name   string
	Email  string
	Role   string
	Token  string
}

type signinBody struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Token   string         `json:"token"`
	User    *upstream.User `json:"user"`
	Data    *struct {
		User *upstream.User `json:"user"`
	} `json:"data"`
}

// parseSignin accepts the standard {status:"success", token, data:{user}}
// shape or the legacy {message:"success", token, user} shape.
func parseSignin(raw []byte) (identity, bool) {
	var body signinBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return identity{}, false
	}
	if strings.TrimSpace(body.Token) == "" {
		return identity{}, false
	}

	var user *upstream.User
	switch {
	case body.Status == "success" && body.Data != nil && body.Data.User != nil:
		user = body.Data.User
	case body.Message == "success" && body.User != nil:
		user = body.User
	default:
		return identity{}, false
	}

	id := identity{
		UserID: strings.TrimSpace(user.ID),
		Name:   user.Name,
		Email:  user.Email,
		Role:   strings.TrimSpace(user.Role),
		Token:  body.Token,
	}
	if id.UserID == "" {
		id.UserID = subjectFromToken(body.Token)
	}
	if id.UserID == "" {
		id.UserID = id.Email
	}
	if id.Role == "" {
		id.Role = defaultRole
	}
	return id, true
}

// subjectFromToken reads the user id claim the remote API embeds in its
// token. The token is opaque to us, so the signature is not checked.
func subjectFromToken(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	for _, key := range []string{"id", "_id", "sub"} {
		if v, ok := claims[key].(string); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

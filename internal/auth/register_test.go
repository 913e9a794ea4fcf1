package auth

import (
	"context"
	"testing"

	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegister() RegisterRequest {
	return RegisterRequest{
		Name:            "Ada",
		Email:           "ada@example.com",
		Password:        "longenough",
		PasswordConfirm: "longenough",
	}
}

func TestRegisterValidationBlocksNetwork(t *testing.T) {
	cases := map[string]struct {
		mutate func(*RegisterRequest)
		field  string
	}{
		"short password":           {func(r *RegisterRequest) { r.Password, r.PasswordConfirm = "short", "short" }, "password"},
		"multibyte short password": {func(r *RegisterRequest) { r.Password, r.PasswordConfirm = "éééé", "éééé" }, "password"},
		"mismatch":                 {func(r *RegisterRequest) { r.PasswordConfirm = "different1" }, "passwordConfirm"},
		"bad email":                {func(r *RegisterRequest) { r.Email = "ada@example" }, "email"},
		"missing name":             {func(r *RegisterRequest) { r.Name = "  " }, "name"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			up := &stubUpstream{}
			svc := newTestService(t, up, &stubSessions{}, &stubRecorder{})
			req := validRegister()
			tc.mutate(&req)

			_, err := svc.Register(context.Background(), req)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
			details, ok := typed.Details().(map[string]string)
			require.True(t, ok)
			assert.Contains(t, details, tc.field)
			assert.Zero(t, up.signupCalls)
			assert.Zero(t, up.signinCalls)
		})
	}
}

func TestRegisterPhoneFilter(t *testing.T) {
	cases := map[string]string{
		"01012345678":   "01012345678",
		" 01512345678":  "01512345678",
		"01312345678":   "",
		"+201012345678": "",
		"":              "",
	}
	for input, want := range cases {
		up := &stubUpstream{signupResp: &upstream.AuthResponse{
			Message: "success",
			Token:   "remote",
			User:    &upstream.User{ID: "u-1", Email: "ada@example.com", Role: "user"},
		}}
		svc := newTestService(t, up, &stubSessions{}, &stubRecorder{})
		req := validRegister()
		req.Phone = input

		_, err := svc.Register(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, want, up.lastSignup.Phone, "input %q", input)
	}
}

func TestRegisterStartsSessionFromSignupToken(t *testing.T) {
	up := &stubUpstream{signupResp: &upstream.AuthResponse{
		Message: "success",
		Token:   "remote",
		User:    &upstream.User{ID: "u-1", Name: "Ada", Email: "ada@example.com", Role: "user"},
	}}
	sessions := &stubSessions{}
	svc := newTestService(t, up, sessions, &stubRecorder{})

	resp, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)
	assert.Equal(t, "u-1", resp.User.ID)
	assert.Equal(t, "remote", sessions.records["sess-1"].AccessToken)
	assert.Equal(t, "longenough", up.lastSignup.RePassword)
	assert.Zero(t, up.signinCalls)
}

func TestRegisterFallsBackToLogin(t *testing.T) {
	up := &stubUpstream{
		signupResp: &upstream.AuthResponse{Status: "success"},
		signinBody: `{"message":"success","user":{"_id":"u-2","email":"ada@example.com","role":"user"},"token":"remote"}`,
	}
	svc := newTestService(t, up, &stubSessions{}, &stubRecorder{})

	resp, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)
	assert.Equal(t, 1, up.signinCalls)
	assert.Equal(t, "u-2", resp.User.ID)
}

func TestRegisterSurfacesUpstreamConflict(t *testing.T) {
	up := &stubUpstream{signupErr: pkgerrors.New(pkgerrors.CodeConflict, "Account Already Exists")}
	svc := newTestService(t, up, &stubSessions{}, &stubRecorder{})

	_, err := svc.Register(context.Background(), validRegister())
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestPasswordFlows(t *testing.T) {
	up := &stubUpstream{}
	svc := newTestService(t, up, &stubSessions{}, &stubRecorder{})
	ctx := context.Background()

	msg, err := svc.ForgotPassword(ctx, ForgotPasswordRequest{Email: " ada@example.com "})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", up.forgotEmail)
	assert.Equal(t, "Reset code sent to your email", msg.Message)

	_, err = svc.ForgotPassword(ctx, ForgotPasswordRequest{Email: "nope"})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.VerifyResetCode(ctx, VerifyResetCodeRequest{})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.ResetPassword(ctx, "tok", ResetPasswordRequest{Password: "longenough", PasswordConfirm: "other-pass"})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.ResetPassword(ctx, "tok", ResetPasswordRequest{Password: "longenough", PasswordConfirm: "longenough"})
	require.NoError(t, err)
	assert.Equal(t, [3]string{"tok", "longenough", "longenough"}, up.lastReset)

	_, err = svc.ResetPasswordWithEmail(ctx, ResetPasswordWithEmailRequest{Email: "ada@example.com", NewPassword: "short"})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.ResetPasswordWithEmail(ctx, ResetPasswordWithEmailRequest{Email: "ada@example.com", NewPassword: "éééé"})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestRegisterAcceptsMultibytePassword(t *testing.T) {
	up := &stubUpstream{signupResp: &upstream.AuthResponse{
		Message: "success",
		Token:   "remote",
		User:    &upstream.User{ID: "u-1", Email: "ada@example.com", Role: "user"},
	}}
	svc := newTestService(t, up, &stubSessions{}, &stubRecorder{})
	req := validRegister()
	req.Password, req.PasswordConfirm = "éééééééé", "éééééééé"

	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, up.signupCalls)
}

package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront-bff/api/middleware"
	"github.com/angelmondragon/storefront-bff/api/responses"
	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
)

// sessionToken returns the upstream token Auth placed on the request.
func sessionToken(r *http.Request) (string, error) {
	token := middleware.AccessTokenFromContext(r.Context())
	if token == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "session required")
	}
	return token, nil
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
}

// AuthSession reports the session resolved for the bearer JWT.
func AuthSession(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session required"))
			return
		}
		responses.WriteSuccess(w, sessionResponse{
			SessionID: sessionID,
			UserID:    middleware.UserIDFromContext(r.Context()),
			Role:      middleware.RoleFromContext(r.Context()),
		})
	}
}

package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront-bff/api/middleware"
	"github.com/angelmondragon/storefront-bff/api/responses"
	"github.com/angelmondragon/storefront-bff/api/validators"
	"github.com/angelmondragon/storefront-bff/internal/account"
	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
)

func accountHandler(svc account.Service, logg *logger.Logger, fn func(w http.ResponseWriter, r *http.Request, caller account.Caller)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "account service unavailable"))
			return
		}
		caller := account.Caller{
			SessionID: middleware.SessionIDFromContext(r.Context()),
			Token:     middleware.AccessTokenFromContext(r.Context()),
		}
		fn(w, r, caller)
	}
}

func AccountMe(svc account.Service, logg *logger.Logger) http.HandlerFunc {
	return accountHandler(svc, logg, func(w http.ResponseWriter, r *http.Request, caller account.Caller) {
		profile, err := svc.Me(r.Context(), caller)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	})
}

func AccountUpdate(svc account.Service, logg *logger.Logger) http.HandlerFunc {
	return accountHandler(svc, logg, func(w http.ResponseWriter, r *http.Request, caller account.Caller) {
		var body account.UpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		profile, err := svc.Update(r.Context(), caller, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	})
}

func AccountChangePassword(svc account.Service, logg *logger.Logger) http.HandlerFunc {
	return accountHandler(svc, logg, func(w http.ResponseWriter, r *http.Request, caller account.Caller) {
		var body account.ChangePasswordRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.ChangePassword(r.Context(), caller, body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "success"})
	})
}

func AccountDelete(svc account.Service, logg *logger.Logger) http.HandlerFunc {
	return accountHandler(svc, logg, func(w http.ResponseWriter, r *http.Request, caller account.Caller) {
		if err := svc.Delete(r.Context(), caller); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

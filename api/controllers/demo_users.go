package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront-bff/api/responses"
	"github.com/angelmondragon/storefront-bff/api/validators"
	"github.com/angelmondragon/storefront-bff/internal/demousers"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
)

type demoUsersCreated struct {
	Message string           `json:"message"`
	Users   []demousers.User `json:"users"`
}

func DemoUsersList(store *demousers.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, store.List(r.Context()))
	}
}

func DemoUsersCreate(store *demousers.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body demousers.User
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		users, err := store.Add(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, demoUsersCreated{Message: "success", Users: users})
	}
}

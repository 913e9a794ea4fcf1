package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront-bff/api/responses"
	"github.com/angelmondragon/storefront-bff/api/validators"
	"github.com/angelmondragon/storefront-bff/internal/orders"
	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
)

type orderCreateRequest struct {
	ShippingAddress orders.ShippingAddress `json:"shippingAddress" validate:"required"`
}

func ordersHandler(svc orders.Service, logg *logger.Logger, fn func(w http.ResponseWriter, r *http.Request, token string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		token, err := sessionToken(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		fn(w, r, token)
	}
}

func OrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return ordersHandler(svc, logg, func(w http.ResponseWriter, r *http.Request, token string) {
		list, err := svc.List(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	})
}

func OrderGet(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return ordersHandler(svc, logg, func(w http.ResponseWriter, r *http.Request, token string) {
		order, err := svc.Get(r.Context(), token, chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	})
}

// OrderCreate places a cash order for the current cart.
func OrderCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return ordersHandler(svc, logg, func(w http.ResponseWriter, r *http.Request, token string) {
		var body orderCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Create(r.Context(), token, body.ShippingAddress, orders.PaymentCash)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	})
}

func OrderCheckout(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return ordersHandler(svc, logg, func(w http.ResponseWriter, r *http.Request, token string) {
		var body orders.CheckoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.Checkout(r.Context(), token, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status := http.StatusOK
		if result.Order != nil {
			status = http.StatusCreated
		}
		responses.WriteSuccessStatus(w, status, result)
	})
}

package orders

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
	"github.com/angelmondragon/storefront-bff/pkg/upstream"
)

var phonePattern = regexp.MustCompile(`^\+?\d{7,15}$`)

type upstreamClient interface {
	GetCart(ctx context.Context, token string) (*upstream.CartResponse, error)
	CreateOrder(ctx context.Context, token string, req upstream.CreateOrderRequest) (*upstream.Order, error)
	ListOrders(ctx context.Context, token string) ([]upstream.Order, error)
	GetOrder(ctx context.Context, token, orderID string) (*upstream.Order, error)
	CheckoutSession(ctx context.Context, token, cartID, returnURL string, addr upstream.ShippingAddress) (*upstream.CheckoutResponse, error)
}

// Service exposes order history and checkout.
type Service interface {
	List(ctx context.Context, token string) ([]upstream.Order, error)
	Get(ctx context.Context, token, orderID string) (*upstream.Order, error)
	Create(ctx context.Context, token string, addr ShippingAddress, method PaymentMethod) (*upstream.Order, error)
	Checkout(ctx context.Context, token string, req CheckoutRequest) (*CheckoutResult, error)
}

// ServiceParams groups dependencies for the orders service.
type ServiceParams struct {
	Upstream  upstreamClient
	ReturnURL string
	Logger    *logger.Logger
}

type service struct {
	upstream  upstreamClient
	returnURL string
	logg      *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Upstream == nil {
		return nil, fmt.Errorf("upstream client is required")
	}
	return &service{
		upstream:  params.Upstream,
		returnURL: strings.TrimSpace(params.ReturnURL),
		logg:      params.Logger,
	}, nil
}

func (s *service) List(ctx context.Context, token string) ([]upstream.Order, error) {
	orders, err := s.upstream.ListOrders(ctx, token)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []upstream.Order{}
	}
	return orders, nil
}

func (s *service) Get(ctx context.Context, token, orderID string) (*upstream.Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	return s.upstream.GetOrder(ctx, token, orderID)
}

func (s *service) Create(ctx context.Context, token string, addr ShippingAddress, method PaymentMethod) (*upstream.Order, error) {
	addr, err := validateAddress(addr)
	if err != nil {
		return nil, err
	}
	return s.upstream.CreateOrder(ctx, token, upstream.CreateOrderRequest{
		ShippingAddress: addr.toUpstream(),
		PaymentMethod:   string(method),
	})
}

// Checkout places a cash order or opens a card checkout session. The cart id
// always comes from a fresh cart read.
func (s *service) Checkout(ctx context.Context, token string, req CheckoutRequest) (*CheckoutResult, error) {
	addr, err := validateAddress(req.ShippingAddress)
	if err != nil {
		return nil, err
	}
	method := PaymentMethod(strings.ToLower(strings.TrimSpace(string(req.PaymentMethod))))
	if method != PaymentCash && method != PaymentCard {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"paymentMethod": "must be one of: cash card"})
	}

	cartID, err := s.currentCartID(ctx, token)
	if err != nil {
		return nil, err
	}

	result := &CheckoutResult{PaymentMethod: method, CartID: cartID}
	switch method {
	case PaymentCash:
		order, err := s.Create(ctx, token, addr, method)
		if err != nil {
			return nil, err
		}
		result.Order = order
	case PaymentCard:
		resp, err := s.upstream.CheckoutSession(ctx, token, cartID, s.returnURL, addr.toUpstream())
		if err != nil {
			return nil, err
		}
		if resp == nil || strings.TrimSpace(resp.Session.URL) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeUpstream, "checkout session did not include a payment url")
		}
		result.CheckoutURL = resp.Session.URL
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"cart_id":        cartID,
			"payment_method": string(method),
		}), "orders.checkout")
	}
	return result, nil
}

func (s *service) currentCartID(ctx context.Context, token string) (string, error) {
	cart, err := s.upstream.GetCart(ctx, token)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return "", pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}
		return "", err
	}
	if cart == nil || cart.NumOfCartItems == 0 || (cart.Data != nil && len(cart.Data.Products) == 0) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	id := strings.TrimSpace(cart.CartID)
	if id == "" && cart.Data != nil {
		id = strings.TrimSpace(cart.Data.ID)
	}
	if id == "" {
		return "", pkgerrors.New(pkgerrors.CodeUpstream, "cart response did not include an id")
	}
	return id, nil
}

func validateAddress(addr ShippingAddress) (ShippingAddress, error) {
	addr = ShippingAddress{
		Details: strings.TrimSpace(addr.Details),
		Phone:   strings.TrimSpace(addr.Phone),
		City:    strings.TrimSpace(addr.City),
	}
	details := map[string]string{}
	if addr.Details == "" {
		details["shippingAddress.details"] = "is required"
	}
	if addr.City == "" {
		details["shippingAddress.city"] = "is required"
	}
	switch {
	case addr.Phone == "":
		details["shippingAddress.phone"] = "is required"
	case !phonePattern.MatchString(addr.Phone):
		details["shippingAddress.phone"] = "must be a valid phone number"
	}
	if len(details) > 0 {
		return addr, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return addr, nil
}

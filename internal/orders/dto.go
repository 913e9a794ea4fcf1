package orders

import "github.com/angelmondragon/storefront-bff/pkg/upstream"

// PaymentMethod is how the shopper chose to pay.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

// ShippingAddress is the delivery address collected at checkout.
type ShippingAddress struct {
	Details string `json:"details" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	City    string `json:"city" validate:"required"`
}

// CheckoutRequest is the checkout form submission.
type CheckoutRequest struct {
	ShippingAddress ShippingAddress `json:"shippingAddress" validate:"required"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod" validate:"required,oneof=cash card"`
}

// CheckoutResult describes what happened: a placed cash order, or a hosted
// payment page the shopper must be sent to.
type CheckoutResult struct {
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	CartID        string          `json:"cartId"`
	Order         *upstream.Order `json:"order,omitempty"`
	CheckoutURL   string          `json:"checkoutUrl,omitempty"`
}

func (a ShippingAddress) toUpstream() upstream.ShippingAddress {
	return upstream.ShippingAddress{Details: a.Details, Phone: a.Phone, City: a.City}
}

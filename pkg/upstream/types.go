package upstream

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type Brand struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Slug  string `json:"slug,omitempty"`
	Image string `json:"image,omitempty"`
}

type Category struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Slug  string `json:"slug,omitempty"`
	Image string `json:"image,omitempty"`
}

type Subcategory struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Slug     string `json:"slug,omitempty"`
	Category string `json:"category,omitempty"`
}

type Product struct {
	ID                 string           `json:"_id"`
	Title              string           `json:"title"`
	Slug               string           `json:"slug,omitempty"`
	Description        string           `json:"description,omitempty"`
	ImageCover         string           `json:"imageCover"`
	Images             []string         `json:"images,omitempty"`
	Price              decimal.Decimal  `json:"price"`
	PriceAfterDiscount *decimal.Decimal `json:"priceAfterDiscount,omitempty"`
	Quantity           int              `json:"quantity"`
	Sold               int              `json:"sold,omitempty"`
	RatingsAverage     float64          `json:"ratingsAverage,omitempty"`
	RatingsQuantity    int              `json:"ratingsQuantity,omitempty"`
	Brand              *Brand           `json:"brand,omitempty"`
	Category           *Category        `json:"category,omitempty"`
	Subcategory        []Subcategory    `json:"subcategory,omitempty"`
}

type productAlias Product

// UnmarshalJSON accepts either a full product object or a bare id string,
// since some endpoints return unpopulated references.
func (p *Product) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var id string
		if err := json.Unmarshal(trimmed, &id); err != nil {
			return err
		}
		*p = Product{ID: id}
		return nil
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	var alias productAlias
	if err := json.Unmarshal(trimmed, &alias); err != nil {
		return err
	}
	if alias.ID == "" {
		var alt struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(trimmed, &alt)
		alias.ID = alt.ID
	}
	*p = Product(alias)
	return nil
}

// ListMetadata is the pagination block attached to list responses.
type ListMetadata struct {
	CurrentPage   int `json:"currentPage"`
	NumberOfPages int `json:"numberOfPages"`
	Limit         int `json:"limit"`
	NextPage      int `json:"nextPage,omitempty"`
	PrevPage      int `json:"prevPage,omitempty"`
}

type ListResponse[T any] struct {
	Results  int          `json:"results"`
	Metadata ListMetadata `json:"metadata"`
	Data     []T          `json:"data"`
}

type itemResponse[T any] struct {
	Data T `json:"data"`
}

type ReviewAuthor struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type Review struct {
	ID        string       `json:"_id"`
	Review    string       `json:"review,omitempty"`
	Comment   string       `json:"comment,omitempty"`
	Rating    float64      `json:"rating"`
	Product   string       `json:"product,omitempty"`
	User      ReviewAuthor `json:"user"`
	CreatedAt *time.Time   `json:"createdAt,omitempty"`
}

type ReviewRequest struct {
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}

type CartLineItem struct {
	ID      string          `json:"_id"`
	Count   int             `json:"count"`
	Price   decimal.Decimal `json:"price"`
	Product Product         `json:"product"`
}

type CartData struct {
	ID             string          `json:"_id"`
	CartOwner      string          `json:"cartOwner,omitempty"`
	Products       []CartLineItem  `json:"products"`
	TotalCartPrice decimal.Decimal `json:"totalCartPrice"`
}

// CartResponse is the shape returned by every cart endpoint.
type CartResponse struct {
	Status         string    `json:"status"`
	Message        string    `json:"message,omitempty"`
	NumOfCartItems int       `json:"numOfCartItems"`
	CartID         string    `json:"cartId,omitempty"`
	Data           *CartData `json:"data"`
}

type StatusResponse struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

type ShippingAddress struct {
	Details string `json:"details"`
	Phone   string `json:"phone"`
	City    string `json:"city"`
}

type OrderLine struct {
	Count   int             `json:"count"`
	Price   decimal.Decimal `json:"price"`
	Product Product         `json:"product"`
}

type OrderCart struct {
	ID         string          `json:"_id"`
	Products   []OrderLine     `json:"products"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type Order struct {
	ID              string          `json:"_id"`
	ShortID         int             `json:"id,omitempty"`
	User            json.RawMessage `json:"user,omitempty"`
	Cart            *OrderCart      `json:"cart,omitempty"`
	CartItems       []OrderLine     `json:"cartItems,omitempty"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethodType,omitempty"`
	TotalOrderPrice decimal.Decimal `json:"totalOrderPrice"`
	IsPaid          bool            `json:"isPaid"`
	IsDelivered     bool            `json:"isDelivered"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty"`
	CreatedAt       *time.Time      `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time      `json:"updatedAt,omitempty"`
}

type CreateOrderRequest struct {
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod,omitempty"`
}

type CheckoutSession struct {
	URL     string `json:"url"`
	Success string `json:"success_url,omitempty"`
	Cancel  string `json:"cancel_url,omitempty"`
}

type CheckoutResponse struct {
	Status  string          `json:"status"`
	Session CheckoutSession `json:"session"`
}

// User is the account shape embedded in auth responses.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role"`
}

type SignupRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	RePassword string `json:"rePassword"`
	Phone      string `json:"phone,omitempty"`
}

type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	Password        string `json:"password"`
	RePassword      string `json:"rePassword"`
}

type UpdateMeRequest struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// AuthResponse covers signin/signup/password flows that return a fresh token.
type AuthResponse struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
	User    *User  `json:"user,omitempty"`
	Data    *struct {
		User *User `json:"user,omitempty"`
	} `json:"data,omitempty"`
}

type CreateProductRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	ImageCover  string          `json:"imageCover,omitempty"`
	Category    string          `json:"category"`
	Brand       string          `json:"brand,omitempty"`
}

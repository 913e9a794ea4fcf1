package wishlist

import (
	"time"

	"github.com/shopspring/decimal"
)

const unknownName = "Unknown"

type BrandRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type CategoryRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// ItemProduct is the product summary embedded in a wishlist entry.
type ItemProduct struct {
	ID         string          `json:"_id"`
	Title      string          `json:"title"`
	ImageCover string          `json:"imageCover"`
	Price      decimal.Decimal `json:"price"`
	Brand      BrandRef        `json:"brand"`
	Category   CategoryRef     `json:"category"`
}

// Item is the canonical wishlist entry every raw shape is reconciled into.
type Item struct {
	ID        string      `json:"_id"`
	User      string      `json:"user"`
	Product   ItemProduct `json:"product"`
	CreatedAt time.Time   `json:"createdAt"`
}

// ListDTO is the response body for wishlist reads and mutations.
type ListDTO struct {
	Count int    `json:"count"`
	Items []Item `json:"data"`
}

// IDsDTO lists the distinct product ids on the wishlist.
type IDsDTO struct {
	ProductIDs []string `json:"product_ids"`
}

package cart

import (
	"github.com/angelmondragon/storefront-bff/pkg/upstream"
	"github.com/shopspring/decimal"
)

type BrandRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// ProductSummary is the product view embedded in a cart line.
type ProductSummary struct {
	ID         string          `json:"_id"`
	Title      string          `json:"title"`
	ImageCover string          `json:"imageCover"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	Brand      *BrandRef       `json:"brand,omitempty"`
}

type LineItem struct {
	ID      string          `json:"_id"`
	Count   int             `json:"count"`
	Price   decimal.Decimal `json:"price"`
	Product ProductSummary  `json:"product"`
}

// Snapshot is the server-owned cart. It is replaced wholesale after every
// mutation and never merged locally.
type Snapshot struct {
	CartID         string          `json:"cartId"`
	NumOfCartItems int             `json:"numOfCartItems"`
	TotalCartPrice decimal.Decimal `json:"totalCartPrice"`
	Products       []LineItem      `json:"products"`
}

// AddResult carries the authoritative count reported after an add.
type AddResult struct {
	Count   int    `json:"numOfCartItems"`
	Message string `json:"message,omitempty"`
}

type CountDTO struct {
	Count int `json:"numOfCartItems"`
}

func emptySnapshot() Snapshot {
	return Snapshot{Products: []LineItem{}}
}

func snapshotFrom(resp *upstream.CartResponse) Snapshot {
	snap := emptySnapshot()
	if resp == nil {
		return snap
	}
	snap.NumOfCartItems = resp.NumOfCartItems
	snap.CartID = resp.CartID
	if resp.Data == nil {
		return snap
	}
	if snap.CartID == "" {
		snap.CartID = resp.Data.ID
	}
	snap.TotalCartPrice = resp.Data.TotalCartPrice
	for _, line := range resp.Data.Products {
		item := LineItem{
			ID:    line.ID,
			Count: line.Count,
			Price: line.Price,
			Product: ProductSummary{
				ID:         line.Product.ID,
				Title:      line.Product.Title,
				ImageCover: line.Product.ImageCover,
				Price:      line.Product.Price,
				Quantity:   line.Product.Quantity,
			},
		}
		if b := line.Product.Brand; b != nil {
			item.Product.Brand = &BrandRef{ID: b.ID, Name: b.Name}
		}
		snap.Products = append(snap.Products, item)
	}
	return snap
}

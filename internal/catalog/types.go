package catalog

import (
	"github.com/angelmondragon/storefront-bff/pkg/pagination"
	"github.com/angelmondragon/storefront-bff/pkg/upstream"
	"github.com/shopspring/decimal"
)

// Page is one page of a listing together with its pagination block.
type Page[T any] struct {
	Meta pagination.Meta `json:"metadata"`
	Data []T             `json:"data"`
}

// ProductFilter narrows the product listing.
type ProductFilter struct {
	Brand    string
	Category string
	Keyword  string
	Sort     string
	pagination.Params
}

type ReviewInput struct {
	Rating  float64 `json:"rating" validate:"required,min=1,max=5"`
	Comment string  `json:"comment" validate:"required"`
}

type ProductInput struct {
	Title       string          `json:"title" validate:"required,min=3"`
	Description string          `json:"description" validate:"required,min=20"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity" validate:"min=0"`
	ImageCover  string          `json:"imageCover,omitempty" validate:"omitempty,url"`
	Category    string          `json:"category" validate:"required"`
	Brand       string          `json:"brand,omitempty"`
}

func pageFrom[T any](resp *upstream.ListResponse[T]) Page[T] {
	if resp == nil {
		return Page[T]{Data: []T{}}
	}
	data := resp.Data
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		Meta: pagination.Meta{
			Results:       resp.Results,
			CurrentPage:   resp.Metadata.CurrentPage,
			NumberOfPages: resp.Metadata.NumberOfPages,
			Limit:         resp.Metadata.Limit,
			NextPage:      resp.Metadata.NextPage,
			PrevPage:      resp.Metadata.PrevPage,
		},
		Data: data,
	}
}

package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
	"github.com/angelmondragon/storefront-bff/pkg/pagination"
	"github.com/angelmondragon/storefront-bff/pkg/upstream"
)

type upstreamClient interface {
	ListProducts(ctx context.Context, q upstream.ProductQuery) (*upstream.ListResponse[upstream.Product], error)
	GetProduct(ctx context.Context, id string) (*upstream.Product, error)
	CreateProduct(ctx context.Context, token string, req upstream.CreateProductRequest) (*upstream.Product, error)
	ListBrands(ctx context.Context, page, limit int) (*upstream.ListResponse[upstream.Brand], error)
	GetBrand(ctx context.Context, id string) (*upstream.Brand, error)
	ListCategories(ctx context.Context, page, limit int) (*upstream.ListResponse[upstream.Category], error)
	GetCategory(ctx context.Context, id string) (*upstream.Category, error)
	ListProductReviews(ctx context.Context, productID string) ([]upstream.Review, error)
	CreateReview(ctx context.Context, token, productID string, req upstream.ReviewRequest) (*upstream.Review, error)
}

// Service exposes the read-mostly product catalog.
type Service interface {
	ListProducts(ctx context.Context, filter ProductFilter) (Page[upstream.Product], error)
	GetProduct(ctx context.Context, id string) (*upstream.Product, error)
	CreateProduct(ctx context.Context, token string, input ProductInput) (*upstream.Product, error)
	ListBrands(ctx context.Context, params pagination.Params) (Page[upstream.Brand], error)
	GetBrand(ctx context.Context, id string) (*upstream.Brand, error)
	ListCategories(ctx context.Context, params pagination.Params) (Page[upstream.Category], error)
	GetCategory(ctx context.Context, id string) (*upstream.Category, error)
	ListReviews(ctx context.Context, productID string) ([]upstream.Review, error)
	CreateReview(ctx context.Context, token, productID string, input ReviewInput) (*upstream.Review, error)
}

// ServiceParams groups dependencies for the catalog service. A nil Cache or
// non-positive CacheTTL disables listing cache.
type ServiceParams struct {
	Upstream upstreamClient
	Cache    listCache
	CacheTTL time.Duration
	Logger   *logger.Logger
}

type service struct {
	upstream upstreamClient
	cache    listCache
	cacheTTL time.Duration
	logg     *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Upstream == nil {
		return nil, fmt.Errorf("upstream client is required")
	}
	return &service{
		upstream: params.Upstream,
		cache:    params.Cache,
		cacheTTL: params.CacheTTL,
		logg:     params.Logger,
	}, nil
}

func (s *service) ListProducts(ctx context.Context, filter ProductFilter) (Page[upstream.Product], error) {
	params := filter.Params.Normalize()
	extra := url.Values{}
	extra.Set("brand", strings.TrimSpace(filter.Brand))
	extra.Set("category", strings.TrimSpace(filter.Category))
	extra.Set("keyword", strings.TrimSpace(filter.Keyword))
	extra.Set("sort", strings.TrimSpace(filter.Sort))

	return cachedList(ctx, s, "products", params.CacheKey(extra), func(ctx context.Context) (Page[upstream.Product], error) {
		resp, err := s.upstream.ListProducts(ctx, upstream.ProductQuery{
			Brand:    extra.Get("brand"),
			Category: extra.Get("category"),
			Keyword:  extra.Get("keyword"),
			Sort:     extra.Get("sort"),
			Page:     params.Page,
			Limit:    params.Limit,
		})
		if err != nil {
			return Page[upstream.Product]{}, err
		}
		return pageFrom(resp), nil
	})
}

func (s *service) GetProduct(ctx context.Context, id string) (*upstream.Product, error) {
	id, err := requireID(id, "product id")
	if err != nil {
		return nil, err
	}
	return s.upstream.GetProduct(ctx, id)
}

// CreateProduct is an admin operation; the remote API enforces the role too.
func (s *service) CreateProduct(ctx context.Context, token string, input ProductInput) (*upstream.Product, error) {
	if !input.Price.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"price": "must be greater than 0"})
	}
	return s.upstream.CreateProduct(ctx, token, upstream.CreateProductRequest{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		Quantity:    input.Quantity,
		ImageCover:  strings.TrimSpace(input.ImageCover),
		Category:    strings.TrimSpace(input.Category),
		Brand:       strings.TrimSpace(input.Brand),
	})
}

func (s *service) ListBrands(ctx context.Context, params pagination.Params) (Page[upstream.Brand], error) {
	params = params.Normalize()
	return cachedList(ctx, s, "brands", params.CacheKey(nil), func(ctx context.Context) (Page[upstream.Brand], error) {
		resp, err := s.upstream.ListBrands(ctx, params.Page, params.Limit)
		if err != nil {
			return Page[upstream.Brand]{}, err
		}
		return pageFrom(resp), nil
	})
}

func (s *service) GetBrand(ctx context.Context, id string) (*upstream.Brand, error) {
	id, err := requireID(id, "brand id")
	if err != nil {
		return nil, err
	}
	return s.upstream.GetBrand(ctx, id)
}

func (s *service) ListCategories(ctx context.Context, params pagination.Params) (Page[upstream.Category], error) {
	params = params.Normalize()
	return cachedList(ctx, s, "categories", params.CacheKey(nil), func(ctx context.Context) (Page[upstream.Category], error) {
		resp, err := s.upstream.ListCategories(ctx, params.Page, params.Limit)
		if err != nil {
			return Page[upstream.Category]{}, err
		}
		return pageFrom(resp), nil
	})
}

func (s *service) GetCategory(ctx context.Context, id string) (*upstream.Category, error) {
	id, err := requireID(id, "category id")
	if err != nil {
		return nil, err
	}
	return s.upstream.GetCategory(ctx, id)
}

func (s *service) ListReviews(ctx context.Context, productID string) ([]upstream.Review, error) {
	productID, err := requireID(productID, "product id")
	if err != nil {
		return nil, err
	}
	reviews, err := s.upstream.ListProductReviews(ctx, productID)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []upstream.Review{}
	}
	return reviews, nil
}

func (s *service) CreateReview(ctx context.Context, token, productID string, input ReviewInput) (*upstream.Review, error) {
	productID, err := requireID(productID, "product id")
	if err != nil {
		return nil, err
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"rating": "must be between 1 and 5"})
	}
	return s.upstream.CreateReview(ctx, token, productID, upstream.ReviewRequest{
		Rating:  input.Rating,
		Comment: strings.TrimSpace(input.Comment),
	})
}

func requireID(id, label string) (string, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, label+" is required")
	}
	return trimmed, nil
}

package wishlist

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
	"github.com/angelmondragon/storefront-bff/pkg/upstream"
	"golang.org/x/sync/errgroup"
)

type upstreamClient interface {
	GetWishlist(ctx context.Context, token string) (json.RawMessage, error)
	AddToWishlist(ctx context.Context, token, productID string) (*upstream.StatusResponse, error)
	RemoveFromWishlist(ctx context.Context, token, productID string) (*upstream.StatusResponse, error)
	GetProduct(ctx context.Context, id string) (*upstream.Product, error)
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	Upstream upstreamClient
	Logger   *logger.Logger
	// LookupConcurrency caps parallel product lookups; 0 leaves it unbounded.
	LookupConcurrency int
	Now               func() time.Time
}

// Service reconciles the remote wishlist into canonical items.
type Service interface {
	Fetch(ctx context.Context, token string) (ListDTO, error)
	ProductIDs(ctx context.Context, token string) (IDsDTO, error)
	Add(ctx context.Context, token, productID string) (ListDTO, error)
	Remove(ctx context.Context, token, productID string) (ListDTO, error)
	Contains(ctx context.Context, token, productID string) (bool, error)
	Count(ctx context.Context, token string) (int, error)
}

type service struct {
	upstream    upstreamClient
	logg        *logger.Logger
	concurrency int
	now         func() time.Time
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Upstream == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "upstream client is required")
	}
	if params.LookupConcurrency < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "lookup concurrency must be >= 0")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		upstream:    params.Upstream,
		logg:        params.Logger,
		concurrency: params.LookupConcurrency,
		now:         now,
	}, nil
}

// Fetch pulls the raw list, dedupes product ids, looks up the details raw
// entries do not carry and maps everything to canonical items. Entries whose
// lookup fails are dropped.
func (s *service) Fetch(ctx context.Context, token string) (ListDTO, error) {
	raw, err := s.upstream.GetWishlist(ctx, token)
	if err != nil {
		return ListDTO{}, err
	}
	entries := dedupe(parseEntries(raw))

	missing := make([]int, 0, len(entries))
	for i, e := range entries {
		if e.details == nil {
			missing = append(missing, i)
		}
	}
	if len(missing) > 0 {
		if err := s.lookup(ctx, entries, missing); err != nil {
			return ListDTO{}, err
		}
	}

	now := s.now().UTC()
	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		if e.details == nil {
			continue
		}
		items = append(items, s.toItem(e, now))
	}
	return ListDTO{Count: len(items), Items: items}, nil
}

func (s *service) lookup(ctx context.Context, entries []entry, missing []int) error {
	g, gctx := errgroup.WithContext(ctx)
	if s.concurrency > 0 {
		g.SetLimit(s.concurrency)
	}
	for _, idx := range missing {
		g.Go(func() error {
			pid := entries[idx].productID
			product, err := s.upstream.GetProduct(gctx, pid)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.warn(ctx, "wishlist.product_lookup_failed", pid, err)
				return nil
			}
			if product == nil {
				s.warn(ctx, "wishlist.product_lookup_empty", pid, nil)
				return nil
			}
			if product.ID == "" {
				product.ID = pid
			}
			entries[idx].details = product
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "wishlist product lookup aborted")
	}
	return nil
}

func (s *service) toItem(e entry, now time.Time) Item {
	p := e.details
	item := Item{
		ID:        e.itemID,
		User:      e.user,
		CreatedAt: e.createdAt,
		Product: ItemProduct{
			ID:         e.productID,
			Title:      p.Title,
			ImageCover: p.ImageCover,
			Price:      p.Price,
			Brand:      BrandRef{Name: unknownName},
			Category:   CategoryRef{Name: unknownName},
		},
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	if p.Brand != nil && (p.Brand.ID != "" || p.Brand.Name != "") {
		item.Product.Brand = BrandRef{ID: p.Brand.ID, Name: p.Brand.Name}
	}
	if p.Category != nil && (p.Category.ID != "" || p.Category.Name != "") {
		item.Product.Category = CategoryRef{ID: p.Category.ID, Name: p.Category.Name}
	}
	return item
}

// ProductIDs lists distinct product ids without any detail lookups.
func (s *service) ProductIDs(ctx context.Context, token string) (IDsDTO, error) {
	raw, err := s.upstream.GetWishlist(ctx, token)
	if err != nil {
		return IDsDTO{}, err
	}
	entries := dedupe(parseEntries(raw))
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.productID)
	}
	return IDsDTO{ProductIDs: ids}, nil
}

// Add posts the product then re-fetches the whole list.
func (s *service) Add(ctx context.Context, token, productID string) (ListDTO, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return ListDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if _, err := s.upstream.AddToWishlist(ctx, token, productID); err != nil {
		return ListDTO{}, err
	}
	return s.Fetch(ctx, token)
}

// Remove deletes the product then re-fetches the whole list.
func (s *service) Remove(ctx context.Context, token, productID string) (ListDTO, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return ListDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if _, err := s.upstream.RemoveFromWishlist(ctx, token, productID); err != nil {
		return ListDTO{}, err
	}
	return s.Fetch(ctx, token)
}

func (s *service) Contains(ctx context.Context, token, productID string) (bool, error) {
	ids, err := s.ProductIDs(ctx, token)
	if err != nil {
		return false, err
	}
	for _, id := range ids.ProductIDs {
		if id == productID {
			return true, nil
		}
	}
	return false, nil
}

// Count is the number of distinct products on the wishlist.
func (s *service) Count(ctx context.Context, token string) (int, error) {
	ids, err := s.ProductIDs(ctx, token)
	if err != nil {
		return 0, err
	}
	return len(ids.ProductIDs), nil
}

func (s *service) warn(ctx context.Context, msg, productID string, err error) {
	if s.logg == nil {
		return
	}
	fields := map[string]any{"product_id": productID}
	if err != nil {
		fields["error"] = err.Error()
	}
	s.logg.Warn(s.logg.WithFields(ctx, fields), msg)
}

// dedupe keeps the first entry per product id; later duplicates only
// contribute details the first one lacked.
func dedupe(entries []entry) []entry {
	seen := make(map[string]int, len(entries))
	out := make([]entry, 0, len(entries))
	for _, e := range entries {
		if idx, ok := seen[e.productID]; ok {
			if out[idx].details == nil && e.details != nil {
				out[idx].details = e.details
			}
			continue
		}
		seen[e.productID] = len(out)
		out = append(out, e)
	}
	return out
}

package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-bff/pkg/debounce"
	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
	"github.com/angelmondragon/storefront-bff/pkg/upstream"
)

// DefaultDebounceWindow is how long quantity edits for one line are held
// before a single update is sent.
const DefaultDebounceWindow = 500 * time.Millisecond

type upstreamClient interface {
	GetCart(ctx context.Context, token string) (*upstream.CartResponse, error)
	AddToCart(ctx context.Context, token, productID string) (*upstream.CartResponse, error)
	RemoveCartItem(ctx context.Context, token, productID string) (*upstream.CartResponse, error)
	ClearCart(ctx context.Context, token string) (*upstream.StatusResponse, error)
	UpdateCartItem(ctx context.Context, token, productID string, count int) (*upstream.CartResponse, error)
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	Upstream       upstreamClient
	Logger         *logger.Logger
	DebounceWindow time.Duration
	Observer       debounce.Observer
}

// Service exposes cart reads and mutations against the remote cart.
type Service interface {
	Get(ctx context.Context, token string) (Snapshot, error)
	Count(ctx context.Context, token string) (int, error)
	Add(ctx context.Context, token, productID string) (AddResult, error)
	Remove(ctx context.Context, token, productID string) (Snapshot, error)
	Clear(ctx context.Context, token string) (Snapshot, error)
	UpdateQuantity(ctx context.Context, sessionID, token, productID string, count int) (Snapshot, error)
	Close(ctx context.Context) error
}

type service struct {
	upstream upstreamClient
	logg     *logger.Logger
	updates  *debounce.Debouncer[Snapshot]
}

// NewService builds a cart service; a zero DebounceWindow uses the default.
func NewService(params ServiceParams) (Service, error) {
	if params.Upstream == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "upstream client is required")
	}
	window := params.DebounceWindow
	if window < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "debounce window must be >= 0")
	}
	if window == 0 {
		window = DefaultDebounceWindow
	}
	return &service{
		upstream: params.Upstream,
		logg:     params.Logger,
		updates:  debounce.New[Snapshot](window, params.Observer),
	}, nil
}

// Get returns the current cart. A missing cart is an empty snapshot.
func (s *service) Get(ctx context.Context, token string) (Snapshot, error) {
	resp, err := s.upstream.GetCart(ctx, token)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return emptySnapshot(), nil
		}
		return Snapshot{}, err
	}
	return snapshotFrom(resp), nil
}

func (s *service) Count(ctx context.Context, token string) (int, error) {
	snap, err := s.Get(ctx, token)
	if err != nil {
		return 0, err
	}
	return snap.NumOfCartItems, nil
}

// Add posts one unit of productID and adopts the server's item count.
func (s *service) Add(ctx context.Context, token, productID string) (AddResult, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return AddResult{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	resp, err := s.upstream.AddToCart(ctx, token, productID)
	if err != nil {
		return AddResult{}, err
	}
	if resp == nil {
		return AddResult{}, nil
	}
	return AddResult{Count: resp.NumOfCartItems, Message: resp.Message}, nil
}

func (s *service) Remove(ctx context.Context, token, productID string) (Snapshot, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if _, err := s.upstream.RemoveCartItem(ctx, token, productID); err != nil {
		return Snapshot{}, err
	}
	return s.Get(ctx, token)
}

func (s *service) Clear(ctx context.Context, token string) (Snapshot, error) {
	if _, err := s.upstream.ClearCart(ctx, token); err != nil {
		return Snapshot{}, err
	}
	return s.Get(ctx, token)
}

// UpdateQuantity holds the edit for the debounce window keyed by session and
// product. Edits arriving inside the window replace the pending count; once it
// closes one update with the last count is sent and the cart is re-fetched.
// Every coalesced caller receives that re-fetched snapshot.
func (s *service) UpdateQuantity(ctx context.Context, sessionID, token, productID string, count int) (Snapshot, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if count < 1 {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "count must be at least 1").
			WithDetails(map[string]any{"count": count})
	}

	key := fmt.Sprintf("%s:%s", sessionID, productID)
	snap, err := s.updates.Do(ctx, key, func(fctx context.Context) (Snapshot, error) {
		if _, err := s.upstream.UpdateCartItem(fctx, token, productID, count); err != nil {
			return Snapshot{}, err
		}
		if s.logg != nil {
			s.logg.Info(s.logg.WithFields(fctx, map[string]any{
				"product_id": productID,
				"count":      count,
			}), "cart.quantity_flushed")
		}
		return s.Get(fctx, token)
	})
	if errors.Is(err, debounce.ErrClosed) {
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart updates are shutting down")
	}
	return snap, err
}

// Close flushes pending quantity edits.
func (s *service) Close(ctx context.Context) error {
	return s.updates.Close(ctx)
}

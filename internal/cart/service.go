// Package cart mutates the per-user cart ledger. Every mutation is a full
// read of the owning user's record, an in-memory recompute and a
// partial-field write back. Two concurrent mutations race last-write-wins;
// the store contract offers nothing stronger and the service adds no locking.
package cart

import (
	"context"

	"go.uber.org/zap"

	"github.com/bitmall/storefront/internal/domain"
	"github.com/bitmall/storefront/internal/watch"
	"github.com/bitmall/storefront/pkg/metrics"
)

// UserStore is the slice of the user repository the cart needs.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
}

// Service applies ledger mutations.
type Service struct {
	users UserStore
	bus   *watch.Bus
}

func NewService(users UserStore, bus *watch.Bus) *Service {
	return &Service{users: users, bus: bus}
}

// Ledger returns the current cart ledger.
func (s *Service) Ledger(ctx context.Context, userID int64) (domain.QuantityMap, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.CartItems == nil {
		return domain.QuantityMap{}, nil
	}
	return user.CartItems, nil
}

// Increment adds one unit of the product to the ledger.
func (s *Service) Increment(ctx context.Context, userID int64, productID string) (domain.QuantityMap, error) {
	return s.mutate(ctx, userID, func(ledger domain.QuantityMap) {
		ledger[productID] = ledger[productID] + 1
	})
}

// Decrement removes one unit. A quantity that would drop to zero or below
// deletes the entry entirely; zero is never stored.
func (s *Service) Decrement(ctx context.Context, userID int64, productID string) (domain.QuantityMap, error) {
	return s.mutate(ctx, userID, func(ledger domain.QuantityMap) {
		q := ledger[productID] - 1
		if q <= 0 {
			delete(ledger, productID)
			return
		}
		ledger[productID] = q
	})
}

// RemoveAll deletes the product's entry regardless of quantity.
func (s *Service) RemoveAll(ctx context.Context, userID int64, productID string) (domain.QuantityMap, error) {
	return s.mutate(ctx, userID, func(ledger domain.QuantityMap) {
		delete(ledger, productID)
	})
}

// Clear resets the ledger to an empty map. Checkout calls this after the
// order snapshot is written.
func (s *Service) Clear(ctx context.Context, userID int64) error {
	_, err := s.mutate(ctx, userID, func(ledger domain.QuantityMap) {
		for k := range ledger {
			delete(ledger, k)
		}
	})
	return err
}

func (s *Service) mutate(ctx context.Context, userID int64, apply func(domain.QuantityMap)) (domain.QuantityMap, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	ledger := user.CartItems.Copy()
	apply(ledger)

	if err := s.users.UpdateFields(ctx, userID, map[string]interface{}{"cart_items": ledger}); err != nil {
		zap.L().Warn("cart ledger write failed",
			zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	metrics.IncrCounter("cart_mutations", 1)

	if s.bus != nil {
		user.CartItems = ledger
		s.bus.Publish(watch.CollectionUsers, domain.UserKey(userID), user)
	}
	return ledger, nil
}
